package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"classroom/config"
	domainerrors "classroom/internal/domain/errors"
	"classroom/internal/domain/service"
)

// jwtIssuer is a concrete implementation of the TokenIssuer interface using the JWT standard.
type jwtIssuer struct {
	secret    []byte        // Signing key, loaded once at startup.
	accessTTL time.Duration // Time-to-live for access tokens.
}

// NewJWTIssuer is the constructor for jwtIssuer.
// It takes configuration values to create a new token issuer instance.
func NewJWTIssuer(cfg *config.Config) (service.TokenIssuer, error) {
	if cfg.Auth == nil || cfg.Auth.Secret == "" {
		return nil, errors.New("jwt signing secret must be provided")
	}

	return &jwtIssuer{
		secret:    []byte(cfg.Auth.Secret),
		accessTTL: cfg.Auth.AccessTTL(),
	}, nil
}

// Issue creates a signed access token carrying the identity and role claims.
func (s *jwtIssuer) Issue(userID, roleID int64) (string, error) {
	now := time.Now()
	claims := &service.Claims{
		UserID: userID,
		RoleID: roleID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign access token")
	}

	return signed, nil
}

// Verify parses and validates a token string. Malformed tokens, bad
// signatures and passed expiries all collapse into ErrInvalidToken so callers
// cannot fail softly.
func (s *jwtIssuer) Verify(tokenString string) (*service.Claims, error) {
	claims := &service.Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	})
	if err != nil {
		return nil, domainerrors.ErrInvalidToken.WrapMessage(err.Error())
	}
	if !token.Valid {
		return nil, errors.WithStack(domainerrors.ErrInvalidToken)
	}

	return claims, nil
}
