package impl

import (
	"context"
	"log/slog"

	deliverycontext "classroom/internal/delivery/context"
	"classroom/internal/domain/entity"
	domainerrors "classroom/internal/domain/errors"
	"classroom/internal/domain/repository"
	"classroom/internal/domain/service"
	"classroom/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	hasher    service.PasswordHasher
	guard     *service.Guard
	logger    *slog.Logger
}

// UserServiceParams holds dependencies for userService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	Hasher    service.PasswordHasher
	Guard     *service.Guard
	Logger    *slog.Logger
}

// NewUserService is the constructor for userService.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager: params.TxManager,
		userRepo:  params.UserRepo,
		hasher:    params.Hasher,
		guard:     params.Guard,
		logger:    params.Logger,
	}
}

func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// UpsertUser creates a user (admin only) or updates one (self or admin). All
// permission and uniqueness checks run before any write.
func (srv *userService) UpsertUser(ctx context.Context, actor usecase.Actor, input *usecase.UpsertUserInput) (*entity.PublicUser, error) {
	if input.ID == nil {
		return srv.createUser(ctx, actor, input)
	}

	return srv.updateUser(ctx, actor, *input.ID, input)
}

func (srv *userService) createUser(ctx context.Context, actor usecase.Actor, input *usecase.UpsertUserInput) (*entity.PublicUser, error) {
	if !srv.guard.CanCreateUser(actor.RoleID) {
		return nil, domainerrors.ErrPermissionDenied
	}

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
		RoleID:       input.RoleID,
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
		return nil, err
	}

	srv.log(ctx).Info("User created",
		slog.Int64("userID", user.ID),
		slog.Int64("createdBy", actor.UserID),
	)

	return srv.GetUserByID(ctx, user.ID)
}

func (srv *userService) updateUser(ctx context.Context, actor usecase.Actor, targetID int64, input *usecase.UpsertUserInput) (*entity.PublicUser, error) {
	if !srv.guard.CanEditUser(actor.UserID, actor.RoleID, targetID) {
		return nil, domainerrors.ErrPermissionDenied
	}

	current, err := srv.userRepo.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to look up user for update")
	}

	roleID := input.RoleID
	// Only admins may move a user between roles.
	if !srv.guard.IsAdmin(actor.RoleID) {
		roleID = current.RoleID
	}

	user := &entity.User{
		ID:        targetID,
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		About:     input.About,
		RoleID:    roleID,
	}

	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("User updated",
		slog.Int64("userID", targetID),
		slog.Int64("updatedBy", actor.UserID),
	)

	return srv.GetUserByID(ctx, targetID)
}

// GetUserByID retrieves a single user's public view.
func (srv *userService) GetUserByID(ctx context.Context, id int64) (*entity.PublicUser, error) {
	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return user.Public(), nil
}

// AllUsers lists users, optionally filtered by role.
func (srv *userService) AllUsers(ctx context.Context, filter *usecase.UserListFilter) ([]*entity.PublicUser, error) {
	var repoFilter *repository.UserListFilter
	if filter != nil {
		repoFilter = &repository.UserListFilter{RoleID: filter.RoleID}
	}

	users, err := srv.userRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	views := make([]*entity.PublicUser, 0, len(users))
	for _, user := range users {
		views = append(views, user.Public())
	}

	return views, nil
}
