package handler

import (
	"net/http"

	"classroom/internal/delivery/http/response"
	"classroom/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UserHandler holds dependencies for user management endpoints.
type UserHandler struct {
	uc usecase.UserUsecase
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(uc usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

// UpsertUser creates or updates a user record.
func (h *UserHandler) UpsertUser(c echo.Context) error {
	var input usecase.UpsertUserInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid user input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	user, err := h.uc.UpsertUser(c.Request().Context(), actorFromContext(c), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "User saved")
}

// GetUserByID returns one user's public view.
func (h *UserHandler) GetUserByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.uc.GetUserByID(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "")
}

// AllUsers lists users, optionally filtered by roleId.
func (h *UserHandler) AllUsers(c echo.Context) error {
	roleID, err := queryInt64(c, "roleId")
	if err != nil {
		return err
	}

	users, err := h.uc.AllUsers(c.Request().Context(), &usecase.UserListFilter{RoleID: roleID})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, users, "")
}
