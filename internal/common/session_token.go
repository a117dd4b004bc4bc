package common

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultExpiry = time.Hour * 24 * 365

// TokenPair is the access/refresh pair handed back by the (out-of-scope)
// HTTP auth endpoints; the signaling core only ever sees AccessToken via
// the envelope's from_token field.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// SessionClaims is the JWT payload minted by the auth endpoints and
// parsed back out by JWTTokenAuthority.
type SessionClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenEncode signs a new access token for userID/email and returns it in
// a TokenPair; RefreshToken is left empty. Used only by the store's
// dev-seed helper, since token issuance itself is out of scope.
func TokenEncode(userID, email string) (*TokenPair, error) {
	now := time.Now()
	claims := &SessionClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(defaultExpiry)),
		},
	}

	secret := os.Getenv("JWT_SECRET")
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := token.SignedString([]byte(secret))
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken}, nil
}

// TokenDecode parses and validates a bearer token, returning its claims.
func TokenDecode(tokenStr string) (*SessionClaims, error) {
	secret := os.Getenv("JWT_SECRET")

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}

	return claims, nil
}
