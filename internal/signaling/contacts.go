package signaling

import "context"

// ContactGraph resolves a user's accepted contacts to their emails. The
// user-graph store (send/accept contact requests) is out of scope
// (spec.md §1); the core only ever consumes this contract.
type ContactGraph interface {
	AcceptedContactsOf(ctx context.Context, userID string) ([]string, error)
}
