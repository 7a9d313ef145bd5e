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
	"classroom/internal/domain/service"
	"classroom/internal/infra/auth"
	"classroom/internal/usecase"
)

type authFixture struct {
	auth    usecase.AuthUsecase
	session usecase.SessionUsecase
	users   *fakeUserRepo
	hasher  service.PasswordHasher
	issuer  service.TokenIssuer
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	cfg := &config.Config{
		Auth: &config.AuthConfig{
			Secret:           "test-secret",
			AccessTTLMinutes: 15,
			BcryptCost:       bcrypt.MinCost,
		},
	}

	issuer, err := auth.NewJWTIssuer(cfg)
	require.NoError(t, err)

	users := newFakeUserRepo()
	factory := &fakeRepoFactory{users: users}
	hasher := auth.NewBcryptHasher(cfg)
	logger := newDiscardLogger()

	session := NewSessionService(SessionServiceParams{
		UserRepo: users,
		Logger:   logger,
	})

	authUsecase := NewAuthService(AuthServiceParams{
		TxManager: &fakeTxManager{factory: factory},
		UserRepo:  users,
		Hasher:    hasher,
		Issuer:    issuer,
		Session:   session,
		Guard:     newTestGuard(),
		Logger:    logger,
	})

	return &authFixture{
		auth:    authUsecase,
		session: session,
		users:   users,
		hasher:  hasher,
		issuer:  issuer,
	}
}

func (f *authFixture) seedUser(t *testing.T, username, password string) *entity.User {
	t.Helper()

	digest, err := f.hasher.Hash(password)
	require.NoError(t, err)

	return f.users.seed(&entity.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: digest,
		RoleID:       testLearnerRoleID,
	})
}

func TestAuthService_SignUp_CreatesLearnerWithSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	out, err := f.auth.SignUp(ctx, &usecase.SignUpInput{
		Username:  "ada",
		Email:     "ada@example.com",
		Password:  "hunter2hunter2",
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	require.NoError(t, err)

	require.NotNil(t, out.User)
	assert.Equal(t, "ada", out.User.Username)
	require.NotNil(t, out.User.Role)
	assert.Equal(t, testLearnerRoleID, out.User.Role.ID)

	// The access token embeds the new identity.
	claims, err := f.issuer.Verify(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, claims.UserID)
	assert.Equal(t, testLearnerRoleID, claims.RoleID)

	// The refresh token is live and the stored hash is not the plaintext.
	_, _, err = f.session.Rotate(ctx, out.RefreshToken)
	require.NoError(t, err)

	stored, err := f.users.FindByID(ctx, out.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", stored.PasswordHash)
	assert.True(t, f.hasher.Check("hunter2hunter2", stored.PasswordHash))
}

func TestAuthService_SignUp_DuplicateUsernameWritesNothing(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.seedUser(t, "ada", "password-one")

	_, err := f.auth.SignUp(ctx, &usecase.SignUpInput{
		Username: "ada",
		Email:    "other@example.com",
		Password: "password-two",
	})
	require.ErrorIs(t, err, domainerrors.ErrUsernameTaken)

	// No second account appeared.
	all, listErr := f.users.List(ctx, nil)
	require.NoError(t, listErr)
	assert.Len(t, all, 1)
}

func TestAuthService_SignUp_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "ada", "password-one")

	_, err := f.auth.SignUp(context.Background(), &usecase.SignUpInput{
		Username: "grace",
		Email:    "ada@example.com",
		Password: "password-two",
	})
	require.ErrorIs(t, err, domainerrors.ErrEmailTaken)
}

func TestAuthService_LogIn_Success(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "ada", "hunter2hunter2")

	out, err := f.auth.LogIn(ctx, &usecase.LogInInput{
		Username: "ada",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	claims, err := f.issuer.Verify(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.RoleID, claims.RoleID)

	stored, err := f.users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLogin)
	require.NotNil(t, stored.RefreshToken)
	assert.Equal(t, out.RefreshToken, *stored.RefreshToken)
}

func TestAuthService_LogIn_WrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "ada", "hunter2hunter2")

	_, err := f.auth.LogIn(context.Background(), &usecase.LogInInput{
		Username: "ada",
		Password: "wrong",
	})
	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_LogIn_UnknownUser(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.auth.LogIn(context.Background(), &usecase.LogInInput{
		Username: "nobody",
		Password: "whatever",
	})
	require.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestAuthService_LogIn_SecondLoginInvalidatesFirstSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.seedUser(t, "ada", "hunter2hunter2")

	input := &usecase.LogInInput{Username: "ada", Password: "hunter2hunter2"}

	first, err := f.auth.LogIn(ctx, input)
	require.NoError(t, err)
	second, err := f.auth.LogIn(ctx, input)
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// Only the latest session survives: the slot holds one value.
	_, err = f.auth.RefreshJWT(ctx, first.RefreshToken)
	require.ErrorIs(t, err, domainerrors.ErrSessionNotFound)

	_, err = f.auth.RefreshJWT(ctx, second.RefreshToken)
	require.NoError(t, err)
}

func TestAuthService_RefreshJWT_RotatesAndIssues(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "ada", "hunter2hunter2")

	out, err := f.auth.LogIn(ctx, &usecase.LogInInput{Username: "ada", Password: "hunter2hunter2"})
	require.NoError(t, err)

	refreshed, err := f.auth.RefreshJWT(ctx, out.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, out.RefreshToken, refreshed.RefreshToken)
	assert.Equal(t, user.ID, refreshed.User.ID)

	claims, err := f.issuer.Verify(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	// The presented value was consumed by the rotation.
	_, err = f.auth.RefreshJWT(ctx, out.RefreshToken)
	require.ErrorIs(t, err, domainerrors.ErrSessionNotFound)
}

func TestAuthService_LogOut(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.seedUser(t, "ada", "hunter2hunter2")

	out, err := f.auth.LogIn(ctx, &usecase.LogInInput{Username: "ada", Password: "hunter2hunter2"})
	require.NoError(t, err)

	cleared, err := f.auth.LogOut(ctx, usecase.Actor{UserID: out.User.ID, RoleID: testLearnerRoleID})
	require.NoError(t, err)
	assert.True(t, cleared)

	_, err = f.auth.RefreshJWT(ctx, out.RefreshToken)
	require.ErrorIs(t, err, domainerrors.ErrSessionNotFound)

	// Without an authenticated actor, logout is rejected.
	_, err = f.auth.LogOut(ctx, usecase.Actor{})
	require.ErrorIs(t, err, domainerrors.ErrNotAuthenticated)
}

func TestAuthService_ChangePassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "ada", "old-password-1")
	actor := usecase.Actor{UserID: user.ID, RoleID: testLearnerRoleID}

	err := f.auth.ChangePassword(ctx, actor, &usecase.ChangePasswordInput{
		OldPassword: "wrong",
		NewPassword: "new-password-1",
	})
	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	err = f.auth.ChangePassword(ctx, actor, &usecase.ChangePasswordInput{
		OldPassword: "old-password-1",
		NewPassword: "new-password-1",
	})
	require.NoError(t, err)

	// The old credential is gone, the new one logs in.
	_, err = f.auth.LogIn(ctx, &usecase.LogInInput{Username: "ada", Password: "old-password-1"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, err = f.auth.LogIn(ctx, &usecase.LogInInput{Username: "ada", Password: "new-password-1"})
	require.NoError(t, err)
}
