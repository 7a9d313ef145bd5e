package handler

import (
	"net/http"

	"classroom/config"
	"classroom/internal/delivery/http/response"
	domainerrors "classroom/internal/domain/errors"
	"classroom/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for the session flow endpoints.
type AuthHandler struct {
	uc         usecase.AuthUsecase
	refreshAge int // Cookie max-age in seconds.
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase, cfg *config.Config) *AuthHandler {
	refreshAge := 0
	if cfg.Auth != nil {
		refreshAge = int(cfg.Auth.RefreshTTL().Seconds())
	}

	return &AuthHandler{uc: uc, refreshAge: refreshAge}
}

// SignUp handles new user registration.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var input usecase.SignUpInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid sign-up input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	output, err := h.uc.SignUp(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	setRefreshCookie(c, output.RefreshToken, h.refreshAge)

	return response.Success(c, http.StatusCreated, authPayload(output), "Signed up successfully")
}

// LogIn handles the login request.
func (h *AuthHandler) LogIn(c echo.Context) error {
	var input usecase.LogInInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	output, err := h.uc.LogIn(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	setRefreshCookie(c, output.RefreshToken, h.refreshAge)

	return response.Success(c, http.StatusOK, authPayload(output), "Login successful")
}

// LogOut ends the caller's session and clears the refresh cookie.
func (h *AuthHandler) LogOut(c echo.Context) error {
	cleared, err := h.uc.LogOut(c.Request().Context(), actorFromContext(c))
	if err != nil {
		return errors.WithStack(err)
	}

	clearRefreshCookie(c)

	return response.Success(c, http.StatusOK, map[string]any{"loggedOut": cleared}, "Logout processed")
}

// RefreshJWT rotates the refresh cookie and returns a fresh access token.
func (h *AuthHandler) RefreshJWT(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		return domainerrors.ErrRefreshCookieMissing
	}

	output, err := h.uc.RefreshJWT(c.Request().Context(), cookie.Value)
	if err != nil {
		return errors.WithStack(err)
	}

	setRefreshCookie(c, output.RefreshToken, h.refreshAge)

	return response.Success(c, http.StatusOK, authPayload(output), "Token refreshed")
}

// ChangePassword verifies the old password and stores a new hash.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var input usecase.ChangePasswordInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid change-password input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	if err := h.uc.ChangePassword(c.Request().Context(), actorFromContext(c), &input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{"changed": true}, "Password changed")
}

// authPayload shapes the session response body. The refresh token travels
// only in the cookie, never in the body.
func authPayload(output *usecase.AuthOutput) map[string]any {
	return map[string]any{
		"token": output.AccessToken,
		"user":  output.User,
	}
}
