package usecase

import (
	"context"

	"classroom/internal/domain/entity"
)

// UpsertUserInput creates a user when ID is nil, otherwise updates one.
// Password is only consumed on the create path.
type UpsertUserInput struct {
	ID        *int64
	Username  string `validate:"required,min=3,max=100"`
	Email     string `validate:"required,email"`
	Password  string
	FirstName string
	LastName  string
	Phone     string
	About     string
	RoleID    int64 `validate:"required"`
}

// UserListFilter narrows allUser results. Nil fields are ignored.
type UserListFilter struct {
	RoleID *int64
}

// UserUsecase defines the user management operations.
type UserUsecase interface {
	// UpsertUser creates (admin only) or updates (self or admin) a user.
	UpsertUser(ctx context.Context, actor Actor, input *UpsertUserInput) (*entity.PublicUser, error)

	// GetUserByID retrieves a single user's public view.
	GetUserByID(ctx context.Context, id int64) (*entity.PublicUser, error)

	// AllUsers lists users, optionally filtered by role.
	AllUsers(ctx context.Context, filter *UserListFilter) ([]*entity.PublicUser, error)
}
