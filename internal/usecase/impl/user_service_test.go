package impl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"classroom/config"
	"classroom/internal/domain/entity"
	domainerrors "classroom/internal/domain/errors"
	"classroom/internal/infra/auth"
	"classroom/internal/usecase"
)

func newUserFixture(t *testing.T) (usecase.UserUsecase, *fakeUserRepo) {
	t.Helper()

	users := newFakeUserRepo()
	factory := &fakeRepoFactory{users: users}
	hasher := auth.NewBcryptHasher(&config.Config{
		Auth: &config.AuthConfig{BcryptCost: bcrypt.MinCost},
	})

	service := NewUserService(UserServiceParams{
		TxManager: &fakeTxManager{factory: factory},
		UserRepo:  users,
		Hasher:    hasher,
		Guard:     newTestGuard(),
		Logger:    newDiscardLogger(),
	})

	return service, users
}

func TestUserService_UpsertUser_CreateRequiresAdmin(t *testing.T) {
	service, users := newUserFixture(t)
	instructor := users.seed(&entity.User{Username: "turing", RoleID: testInstructorRoleID})

	input := &usecase.UpsertUserInput{
		Username: "ada",
		Email:    "ada@example.com",
		Password: "hunter2hunter2",
		RoleID:   testLearnerRoleID,
	}

	_, err := service.UpsertUser(context.Background(),
		usecase.Actor{UserID: instructor.ID, RoleID: testInstructorRoleID}, input)
	require.ErrorIs(t, err, domainerrors.ErrPermissionDenied)
}

func TestUserService_UpsertUser_AdminCreatesWithChosenRole(t *testing.T) {
	service, users := newUserFixture(t)
	admin := users.seed(&entity.User{Username: "root", RoleID: testAdminRoleID})

	created, err := service.UpsertUser(context.Background(),
		usecase.Actor{UserID: admin.ID, RoleID: testAdminRoleID},
		&usecase.UpsertUserInput{
			Username: "turing",
			Email:    "turing@example.com",
			Password: "hunter2hunter2",
			RoleID:   testInstructorRoleID,
		})
	require.NoError(t, err)

	assert.Equal(t, "turing", created.Username)

	stored, err := users.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, testInstructorRoleID, stored.RoleID)
}

func TestUserService_UpsertUser_CreateDuplicateUsername(t *testing.T) {
	service, users := newUserFixture(t)
	admin := users.seed(&entity.User{Username: "root", RoleID: testAdminRoleID})
	users.seed(&entity.User{Username: "ada", Email: "ada@example.com", RoleID: testLearnerRoleID})

	_, err := service.UpsertUser(context.Background(),
		usecase.Actor{UserID: admin.ID, RoleID: testAdminRoleID},
		&usecase.UpsertUserInput{
			Username: "ada",
			Email:    "fresh@example.com",
			Password: "hunter2hunter2",
			RoleID:   testLearnerRoleID,
		})
	require.ErrorIs(t, err, domainerrors.ErrUsernameTaken)
}

func TestUserService_UpsertUser_SelfEditKeepsRole(t *testing.T) {
	service, users := newUserFixture(t)
	learner := users.seed(&entity.User{
		Username: "ada",
		Email:    "ada@example.com",
		RoleID:   testLearnerRoleID,
	})

	targetID := learner.ID
	updated, err := service.UpsertUser(context.Background(),
		usecase.Actor{UserID: learner.ID, RoleID: testLearnerRoleID},
		&usecase.UpsertUserInput{
			ID:       &targetID,
			Username: "ada",
			Email:    "ada@example.com",
			About:    "now with a bio",
			RoleID:   testAdminRoleID, // Ignored: non-admins cannot change roles.
		})
	require.NoError(t, err)
	assert.Equal(t, "now with a bio", updated.About)

	stored, err := users.FindByID(context.Background(), learner.ID)
	require.NoError(t, err)
	assert.Equal(t, testLearnerRoleID, stored.RoleID)
}

func TestUserService_UpsertUser_AdminMayChangeRole(t *testing.T) {
	service, users := newUserFixture(t)
	admin := users.seed(&entity.User{Username: "root", RoleID: testAdminRoleID})
	learner := users.seed(&entity.User{
		Username: "ada",
		Email:    "ada@example.com",
		RoleID:   testLearnerRoleID,
	})

	targetID := learner.ID
	_, err := service.UpsertUser(context.Background(),
		usecase.Actor{UserID: admin.ID, RoleID: testAdminRoleID},
		&usecase.UpsertUserInput{
			ID:       &targetID,
			Username: "ada",
			Email:    "ada@example.com",
			RoleID:   testInstructorRoleID,
		})
	require.NoError(t, err)

	stored, err := users.FindByID(context.Background(), learner.ID)
	require.NoError(t, err)
	assert.Equal(t, testInstructorRoleID, stored.RoleID)
}

func TestUserService_UpsertUser_EditAnotherUserRejected(t *testing.T) {
	service, users := newUserFixture(t)
	ada := users.seed(&entity.User{Username: "ada", RoleID: testLearnerRoleID})
	grace := users.seed(&entity.User{Username: "grace", RoleID: testLearnerRoleID})

	targetID := grace.ID
	_, err := service.UpsertUser(context.Background(),
		usecase.Actor{UserID: ada.ID, RoleID: testLearnerRoleID},
		&usecase.UpsertUserInput{
			ID:       &targetID,
			Username: "grace",
			Email:    "grace@example.com",
		})
	require.ErrorIs(t, err, domainerrors.ErrPermissionDenied)
}

func TestUserService_GetUserByID_HidesCredentials(t *testing.T) {
	service, users := newUserFixture(t)
	token := "live-refresh-token"
	user := users.seed(&entity.User{
		Username:     "ada",
		PasswordHash: "digest",
		RefreshToken: &token,
		RoleID:       testLearnerRoleID,
	})

	public, err := service.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, public.ID)
	assert.Equal(t, "ada", public.Username)
}

func TestUserService_AllUsers_FilterByRole(t *testing.T) {
	service, users := newUserFixture(t)
	users.seed(&entity.User{Username: "root", RoleID: testAdminRoleID})
	users.seed(&entity.User{Username: "ada", RoleID: testLearnerRoleID})
	users.seed(&entity.User{Username: "grace", RoleID: testLearnerRoleID})

	all, err := service.AllUsers(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	learnerRole := testLearnerRoleID
	learners, err := service.AllUsers(context.Background(), &usecase.UserListFilter{RoleID: &learnerRole})
	require.NoError(t, err)
	assert.Len(t, learners, 2)
}
