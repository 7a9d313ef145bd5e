package middleware

import (
	"strings"

	deliverycontext "classroom/internal/delivery/context"
	"classroom/internal/delivery/http/response"
	domainerrors "classroom/internal/domain/errors"
	"classroom/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware validates the JWT access token and puts the caller's
// identity into the request context.
type AuthMiddleware struct {
	issuer service.TokenIssuer
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(issuer service.TokenIssuer) *AuthMiddleware {
	return &AuthMiddleware{issuer: issuer}
}

// Authenticate rejects requests without a valid Bearer access token. Any
// verification failure is treated as unauthenticated, never soft-passed.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c,
				domainerrors.ErrNotAuthenticated.ErrorCode(),
				domainerrors.ErrNotAuthenticated.Message(),
			)
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return response.Unauthorized(c,
				domainerrors.ErrInvalidToken.ErrorCode(),
				"Invalid token format, must be Bearer token",
			)
		}

		claims, err := m.issuer.Verify(tokenString)
		if err != nil {
			return response.Unauthorized(c,
				domainerrors.ErrInvalidToken.ErrorCode(),
				domainerrors.ErrInvalidToken.Message(),
			)
		}

		// Make the actor available to handlers and use cases.
		ctx := deliverycontext.WithActor(c.Request().Context(), claims.UserID, claims.RoleID)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
