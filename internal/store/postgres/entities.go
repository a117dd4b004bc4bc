package postgres

import (
	"time"

	"github.com/uptrace/bun"
)

// ContactStatus is the lifecycle of a contact-graph edge. Only "accepted"
// edges are visible to AcceptedContactsOf.
type ContactStatus string

const (
	ContactStatusPending  ContactStatus = "pending"
	ContactStatusAccepted ContactStatus = "accepted"
	ContactStatusBlocked  ContactStatus = "blocked"
)

// User is the minimal identity row the signaling core needs: enough to
// resolve a userId to its canonical email. Profile fields, password
// reset, etc. are out of scope.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           string    `bun:"id,pk"`
	Email        string    `bun:"email,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Contact is one directed edge in the contact graph: owner -> peer, with
// a status. AcceptedContactsOf only ever reads Status == accepted rows.
type Contact struct {
	bun.BaseModel `bun:"table:contacts,alias:c"`

	ID        string        `bun:"id,pk"`
	OwnerID   string        `bun:"owner_id,notnull"`
	PeerID    string        `bun:"peer_id,notnull"`
	Status    ContactStatus `bun:"status,notnull"`
	CreatedAt time.Time     `bun:"created_at,notnull,default:current_timestamp"`
}
