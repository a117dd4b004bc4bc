// Package jwtauth adapts the signaling core's TokenAuthority contract
// onto the teacher's JWT session-token scheme (internal/common/session_token.go)
// plus a users lookup backed by internal/store/postgres.
package jwtauth

import (
	"context"
	"fmt"

	"github.com/logistics-id/signalhub/internal/common"
	"github.com/logistics-id/signalhub/internal/store/postgres"
	"github.com/logistics-id/signalhub/internal/signaling"
)

// JWTTokenAuthority implements signaling.TokenAuthority.
type JWTTokenAuthority struct {
	users *postgres.BaseRepository[postgres.User]
}

func New(db *postgres.Client) *JWTTokenAuthority {
	return &JWTTokenAuthority{users: postgres.NewBaseRepository[postgres.User](db.DB, "u")}
}

var _ signaling.TokenAuthority = (*JWTTokenAuthority)(nil)

// ResolveToken parses and validates the bearer token, returning the
// embedded user id. It never touches the store — a JWT carries its own
// claims.
func (a *JWTTokenAuthority) ResolveToken(ctx context.Context, tokenID string) (string, error) {
	claims, err := common.TokenDecode(tokenID)
	if err != nil {
		return "", signaling.NewAuthError("invalid or expired token: %v", err)
	}
	return claims.UserID, nil
}

// ResolveUserEmail looks up the authoritative email for userID, so a
// register event can be rejected if the caller claims an email the
// token doesn't actually own.
func (a *JWTTokenAuthority) ResolveUserEmail(ctx context.Context, userID string) (string, error) {
	user, err := a.users.WithContext(ctx).FindByID(userID)
	if err != nil {
		return "", signaling.NewStoreError("resolve user email", fmt.Errorf("user %s: %w", userID, err))
	}
	return user.Email, nil
}
