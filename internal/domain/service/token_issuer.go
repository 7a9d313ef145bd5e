package service

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the custom claims carried by an access token.
type Claims struct {
	UserID int64 `json:"id"`
	RoleID int64 `json:"roleId"`
	jwt.RegisteredClaims
}

// TokenIssuer defines the interface for minting and verifying access tokens.
// This abstracts the details of token creation from the use cases.
type TokenIssuer interface {
	// Issue creates a signed access token embedding the user's identity and
	// role with an absolute expiry derived from the configured TTL.
	Issue(userID, roleID int64) (string, error)

	// Verify checks the signature and expiry of a token string. Any failure,
	// malformed token, bad signature or passed expiry, is returned as an
	// error; callers must treat it as "unauthenticated".
	Verify(tokenString string) (*Claims, error)
}
