// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"classroom/internal/domain/entity"
)

// Actor identifies the authenticated caller of an operation, as extracted
// from the verified access token by the delivery layer.
type Actor struct {
	UserID int64
	RoleID int64
}

// --- Input DTOs ---

// SignUpInput defines the data required to register a new user.
// New users always start with the learner role.
type SignUpInput struct {
	Username  string `validate:"required,min=3,max=100"`
	Email     string `validate:"required,email"`
	Password  string `validate:"required,min=8"`
	FirstName string
	LastName  string
	Phone     string
	About     string
}

// LogInInput defines the data required for a user to log in.
type LogInInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// ChangePasswordInput carries the old and new credentials.
type ChangePasswordInput struct {
	OldPassword string `validate:"required"`
	NewPassword string `validate:"required,min=8"`
}

// --- Output DTOs ---

// AuthOutput returns the tokens and the public identity view after a
// successful sign-up, log-in or refresh. The refresh token is handed to the
// delivery layer to be set as a protected cookie, never in the body.
type AuthOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.PublicUser
}

// AuthUsecase defines the session flows: sign-up, log-in, log-out, access
// token refresh and password change.
type AuthUsecase interface {
	SignUp(ctx context.Context, input *SignUpInput) (*AuthOutput, error)
	LogIn(ctx context.Context, input *LogInInput) (*AuthOutput, error)

	// LogOut ends the caller's session. The boolean reports whether a
	// session was actually cleared.
	LogOut(ctx context.Context, actor Actor) (bool, error)

	// RefreshJWT rotates the presented refresh token and issues a fresh
	// access token. Fails when the presented value matches no stored slot.
	RefreshJWT(ctx context.Context, presented string) (*AuthOutput, error)

	// ChangePassword verifies the old password before persisting the new
	// hash. Token state is left untouched.
	ChangePassword(ctx context.Context, actor Actor, input *ChangePasswordInput) error
}
