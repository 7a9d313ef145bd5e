// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "classroom/internal/delivery/context"
	"classroom/internal/domain/entity"
	domainerrors "classroom/internal/domain/errors"
	"classroom/internal/domain/repository"
	"classroom/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// sessionService implements the SessionUsecase interface. The refresh token
// is a single slot on the user row: writing a new value is what invalidates
// the previous one, there is no token table and no server-side expiry.
type sessionService struct {
	userRepo repository.UserRepository
	logger   *slog.Logger
}

// SessionServiceParams holds dependencies for sessionService, injected by Fx.
type SessionServiceParams struct {
	fx.In

	UserRepo repository.UserRepository
	Logger   *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(params SessionServiceParams) usecase.SessionUsecase {
	return &sessionService{
		userRepo: params.UserRepo,
		logger:   params.Logger,
	}
}

func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// StartSession generates a fresh opaque value and overwrites the user's slot.
func (srv *sessionService) StartSession(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()

	if err := srv.userRepo.SetRefreshToken(ctx, userID, token); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", domainerrors.ErrUserNotFound
		}

		return "", errors.Wrap(err, "failed to start session")
	}

	srv.log(ctx).Debug("Session started", slog.Int64("userID", userID))

	return token, nil
}

// Rotate exchanges a presented refresh token for a new one. The lookup is by
// stored value, so anything already rotated or cleared simply matches no row.
func (srv *sessionService) Rotate(ctx context.Context, presented string) (*entity.User, string, error) {
	if presented == "" {
		return nil, "", domainerrors.ErrSessionNotFound
	}

	user, err := srv.userRepo.FindByRefreshToken(ctx, presented)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Refresh token matched no session")

			return nil, "", domainerrors.ErrSessionNotFound
		}

		return nil, "", errors.Wrap(err, "failed to look up refresh token")
	}

	next, err := srv.StartSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, next, nil
}

// EndSession clears the slot. Returns false when no session was active.
func (srv *sessionService) EndSession(ctx context.Context, userID int64) (bool, error) {
	cleared, err := srv.userRepo.ClearRefreshToken(ctx, userID)
	if err != nil {
		return false, errors.Wrap(err, "failed to end session")
	}

	srv.log(ctx).Debug("Session ended",
		slog.Int64("userID", userID),
		slog.Bool("cleared", cleared),
	)

	return cleared, nil
}
