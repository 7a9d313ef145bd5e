// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"
	"time"

	"classroom/internal/domain/entity"
)

// Domain-specific errors for user and role persistence.
var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrRoleNotFound is returned when a role is not found.
	ErrRoleNotFound = errors.New("role not found")
)

// UserListFilter narrows List results. Nil fields are ignored.
type UserListFilter struct {
	RoleID *int64
}

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID, with the role loaded.
	FindByID(ctx context.Context, id int64) (*entity.User, error)

	// FindByUsername retrieves a single user by their unique username.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindByEmail retrieves a single user by their unique email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByRefreshToken retrieves the user whose stored refresh token equals
	// the presented value. Returns ErrUserNotFound when no user holds it,
	// which covers rotated and cleared tokens.
	FindByRefreshToken(ctx context.Context, token string) (*entity.User, error)

	// FindByIDsWithRole retrieves the users among ids that hold the given role.
	FindByIDsWithRole(ctx context.Context, ids []int64, roleID int64) ([]*entity.User, error)

	// List retrieves users ordered by username, optionally filtered.
	List(ctx context.Context, filter *UserListFilter) ([]*entity.User, error)

	// Create persists a new user entity to the storage.
	Create(ctx context.Context, user *entity.User) error

	// Update modifies an existing user's profile fields and role.
	Update(ctx context.Context, user *entity.User) error

	// UpdatePassword replaces the stored credential hash.
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error

	// SetRefreshToken overwrites the user's single refresh-token slot.
	SetRefreshToken(ctx context.Context, id int64, token string) error

	// ClearRefreshToken empties the refresh-token slot. The boolean reports
	// whether a session was actually active.
	ClearRefreshToken(ctx context.Context, id int64) (bool, error)

	// TouchLastLogin records the time of a successful login.
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}

// RoleRepository defines the operations for the fixed role set.
type RoleRepository interface {
	// FindByID retrieves a role by its unique ID.
	FindByID(ctx context.Context, id int64) (*entity.Role, error)

	// List retrieves all roles.
	List(ctx context.Context) ([]*entity.Role, error)

	// Upsert creates or updates a role by ID. Used by the seeder.
	Upsert(ctx context.Context, role *entity.Role) error
}
