// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"classroom/internal/domain/entity"
)

// SessionUsecase manages the single-slot refresh token. Each user holds at
// most one live value; starting a session overwrites the previous one, which
// is what invalidates older cookies.
type SessionUsecase interface {
	// StartSession generates a fresh opaque value and persists it on the
	// user, replacing any existing session. Called on sign-up and log-in.
	StartSession(ctx context.Context, userID int64) (string, error)

	// Rotate looks up the user holding the presented value, then starts a
	// new session for them. Expired, cleared and already-rotated values
	// match no user and fail with the session-not-found error.
	Rotate(ctx context.Context, presented string) (*entity.User, string, error)

	// EndSession clears the stored refresh token. The boolean reports
	// whether the user actually had an active session.
	EndSession(ctx context.Context, userID int64) (bool, error)
}
