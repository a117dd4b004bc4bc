// Package contacts adapts the signaling core's ContactGraph contract
// onto a Postgres-backed contacts table (internal/store/postgres).
package contacts

import (
	"context"
	"fmt"

	"github.com/logistics-id/signalhub/internal/signaling"
	"github.com/logistics-id/signalhub/internal/store/postgres"
)

// PostgresContactGraph implements signaling.ContactGraph by joining the
// contacts table (accepted edges only) against users for the peer's
// email.
type PostgresContactGraph struct {
	client *postgres.Client
}

func New(client *postgres.Client) *PostgresContactGraph {
	return &PostgresContactGraph{client: client}
}

var _ signaling.ContactGraph = (*PostgresContactGraph)(nil)

// AcceptedContactsOf returns the emails of every user that userID has an
// accepted contact edge to (owner_id = userID). The reverse edge is not
// checked.
func (g *PostgresContactGraph) AcceptedContactsOf(ctx context.Context, userID string) ([]string, error) {
	var emails []string

	err := g.client.DB.NewSelect().
		Model((*postgres.User)(nil)).
		Column("u.email").
		Join("JOIN contacts AS c ON c.peer_id = u.id").
		Where("c.owner_id = ?", userID).
		Where("c.status = ?", postgres.ContactStatusAccepted).
		Scan(ctx, &emails)
	if err != nil {
		return nil, signaling.NewStoreError("resolve accepted contacts", fmt.Errorf("user %s: %w", userID, err))
	}

	return emails, nil
}
