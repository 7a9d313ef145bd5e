// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"
	"strconv"

	deliverycontext "classroom/internal/delivery/context"
	domainerrors "classroom/internal/domain/errors"
	"classroom/internal/usecase"

	"github.com/labstack/echo/v4"
)

// refreshCookieName is the cookie carrying the opaque refresh token.
const refreshCookieName = "refresh_jwt_token"

// actorFromContext extracts the authenticated caller set by the auth
// middleware. Zero values mean anonymous.
func actorFromContext(c echo.Context) usecase.Actor {
	userID, roleID, ok := deliverycontext.GetActor(c.Request().Context())
	if !ok {
		return usecase.Actor{}
	}

	return usecase.Actor{UserID: userID, RoleID: roleID}
}

// pathID parses the named path parameter as a numeric ID.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domainerrors.ErrValidationFailed.WithDetails("invalid " + name + " parameter")
	}

	return id, nil
}

// queryInt64 parses an optional numeric query parameter. Nil when absent.
func queryInt64(c echo.Context, name string) (*int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}

	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("invalid " + name + " parameter")
	}

	return &val, nil
}

// queryString returns an optional string query parameter. Nil when absent.
func queryString(c echo.Context, name string) *string {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}

	return &raw
}

// setRefreshCookie installs the refresh token as a protected cookie.
func setRefreshCookie(c echo.Context, value string, maxAgeSeconds int) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAgeSeconds,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// clearRefreshCookie expires the refresh cookie immediately.
func clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
