package signaling

import "context"

// TokenAuthority resolves a client-presented token to a user identity and
// that identity's authoritative email. The HTTP endpoints that issue
// tokens are out of scope (spec.md §1); the core only ever consumes this
// contract.
type TokenAuthority interface {
	ResolveToken(ctx context.Context, tokenID string) (userID string, err error)
	ResolveUserEmail(ctx context.Context, userID string) (email string, err error)
}
