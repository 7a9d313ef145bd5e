package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "classroom/internal/delivery/context"
	"classroom/internal/domain/entity"
	domainerrors "classroom/internal/domain/errors"
	"classroom/internal/domain/repository"
	"classroom/internal/domain/service"
	"classroom/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface. It orchestrates the
// session flows: credential checks, token issuance and the refresh slot.
type authService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	hasher    service.PasswordHasher
	issuer    service.TokenIssuer
	session   usecase.SessionUsecase
	guard     *service.Guard
	logger    *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	Hasher    service.PasswordHasher
	Issuer    service.TokenIssuer
	Session   usecase.SessionUsecase
	Guard     *service.Guard
	Logger    *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager: params.TxManager,
		userRepo:  params.UserRepo,
		hasher:    params.Hasher,
		issuer:    params.Issuer,
		session:   params.Session,
		guard:     params.Guard,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// SignUp registers a new learner and opens a session for them. Username and
// email uniqueness are both checked before any write.
func (srv *authService) SignUp(ctx context.Context, input *usecase.SignUpInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Info("Starting sign-up", slog.String("username", input.Username))

	digest, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	user := &entity.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: digest,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		About:        input.About,
		RoleID:       srv.guard.LearnerRoleID(),
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		if err := ensureUsernameFree(ctx, userRepo, input.Username); err != nil {
			return err
		}
		if err := ensureEmailFree(ctx, userRepo, input.Email); err != nil {
			return err
		}

		return userRepo.Create(ctx, user)
	})
	if err != nil {
		srv.log(ctx).Warn("Sign-up rejected",
			slog.String("username", input.Username),
			slog.Any("error", err),
		)

		return nil, err
	}

	// Role association for the public view; the seeded set never changes at runtime.
	user.Role = &entity.Role{ID: user.RoleID}

	return srv.openSession(ctx, user)
}

// LogIn verifies the credentials, records the login time and opens a fresh
// session. A prior session on another device is overwritten.
func (srv *authService) LogIn(ctx context.Context, input *usecase.LogInInput) (*usecase.AuthOutput, error) {
	user, err := srv.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to look up user for login")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login rejected, wrong password", slog.Int64("userID", user.ID))

		return nil, domainerrors.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := srv.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, errors.Wrap(err, "failed to record login time")
	}
	user.LastLogin = &now

	srv.log(ctx).Info("Login succeeded", slog.Int64("userID", user.ID))

	return srv.openSession(ctx, user)
}

// LogOut ends the caller's session. Returns false when no session was active.
func (srv *authService) LogOut(ctx context.Context, actor usecase.Actor) (bool, error) {
	if actor.UserID == 0 {
		return false, domainerrors.ErrNotAuthenticated
	}

	return srv.session.EndSession(ctx, actor.UserID)
}

// RefreshJWT rotates the presented refresh token and issues a new access token.
func (srv *authService) RefreshJWT(ctx context.Context, presented string) (*usecase.AuthOutput, error) {
	user, next, err := srv.session.Rotate(ctx, presented)
	if err != nil {
		return nil, err
	}

	access, err := srv.issuer.Issue(user.ID, user.RoleID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue access token")
	}

	return &usecase.AuthOutput{
		AccessToken:  access,
		RefreshToken: next,
		User:         user.Public(),
	}, nil
}

// ChangePassword verifies the old password before persisting a new hash.
// Tokens are deliberately left untouched.
func (srv *authService) ChangePassword(ctx context.Context, actor usecase.Actor, input *usecase.ChangePasswordInput) error {
	if actor.UserID == 0 {
		return domainerrors.ErrNotAuthenticated
	}

	user, err := srv.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to look up user for password change")
	}

	if !srv.hasher.Check(input.OldPassword, user.PasswordHash) {
		return domainerrors.ErrInvalidCredentials
	}

	digest, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash new password")
	}

	if err := srv.userRepo.UpdatePassword(ctx, actor.UserID, digest); err != nil {
		return errors.Wrap(err, "failed to persist new password")
	}

	srv.log(ctx).Info("Password changed", slog.Int64("userID", actor.UserID))

	return nil
}

// openSession starts a refresh-token session and issues an access token for
// an already-authenticated user.
func (srv *authService) openSession(ctx context.Context, user *entity.User) (*usecase.AuthOutput, error) {
	refresh, err := srv.session.StartSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	access, err := srv.issuer.Issue(user.ID, user.RoleID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue access token")
	}

	return &usecase.AuthOutput{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user.Public(),
	}, nil
}

// ensureUsernameFree fails with the duplicate-credential error when the
// username is already registered.
func ensureUsernameFree(ctx context.Context, userRepo repository.UserRepository, username string) error {
	_, err := userRepo.FindByUsername(ctx, username)
	if err == nil {
		return domainerrors.ErrUsernameTaken
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return errors.Wrap(err, "failed to check username uniqueness")
	}

	return nil
}

// ensureEmailFree fails with the duplicate-credential error when the email
// is already registered.
func ensureEmailFree(ctx context.Context, userRepo repository.UserRepository, email string) error {
	_, err := userRepo.FindByEmail(ctx, email)
	if err == nil {
		return domainerrors.ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return errors.Wrap(err, "failed to check email uniqueness")
	}

	return nil
}
