package impl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classroom/internal/domain/entity"
	domainerrors "classroom/internal/domain/errors"
	"classroom/internal/usecase"
)

func newSessionFixture(t *testing.T) (usecase.SessionUsecase, *fakeUserRepo, *entity.User) {
	t.Helper()

	users := newFakeUserRepo()
	user := users.seed(&entity.User{
		Username: "ada",
		Email:    "ada@example.com",
		RoleID:   testLearnerRoleID,
	})

	session := NewSessionService(SessionServiceParams{
		UserRepo: users,
		Logger:   newDiscardLogger(),
	})

	return session, users, user
}

func TestSessionService_StartSession_OverwritesSlot(t *testing.T) {
	session, users, user := newSessionFixture(t)
	ctx := context.Background()

	first, err := session.StartSession(ctx, user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := session.StartSession(ctx, user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, second)
	assert.NotEqual(t, first, second)

	stored, err := users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.RefreshToken)
	assert.Equal(t, second, *stored.RefreshToken)
}

func TestSessionService_StartSession_UnknownUser(t *testing.T) {
	session, _, _ := newSessionFixture(t)

	_, err := session.StartSession(context.Background(), 999)
	require.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestSessionService_Rotate_SingleUse(t *testing.T) {
	session, _, user := newSessionFixture(t)
	ctx := context.Background()

	first, err := session.StartSession(ctx, user.ID)
	require.NoError(t, err)

	rotated, next, err := session.Rotate(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, user.ID, rotated.ID)
	assert.NotEqual(t, first, next)

	// The consumed value matches no row anymore.
	_, _, err = session.Rotate(ctx, first)
	require.ErrorIs(t, err, domainerrors.ErrSessionNotFound)

	// The freshly issued value still rotates.
	_, _, err = session.Rotate(ctx, next)
	require.NoError(t, err)
}

func TestSessionService_Rotate_EmptyAndUnknownValues(t *testing.T) {
	session, _, _ := newSessionFixture(t)
	ctx := context.Background()

	_, _, err := session.Rotate(ctx, "")
	require.ErrorIs(t, err, domainerrors.ErrSessionNotFound)

	_, _, err = session.Rotate(ctx, "never-issued")
	require.ErrorIs(t, err, domainerrors.ErrSessionNotFound)
}

func TestSessionService_EndSession_InvalidatesToken(t *testing.T) {
	session, _, user := newSessionFixture(t)
	ctx := context.Background()

	token, err := session.StartSession(ctx, user.ID)
	require.NoError(t, err)

	cleared, err := session.EndSession(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, cleared)

	// A cleared token no longer rotates.
	_, _, err = session.Rotate(ctx, token)
	require.ErrorIs(t, err, domainerrors.ErrSessionNotFound)

	// Ending again reports no active session.
	cleared, err = session.EndSession(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, cleared)
}
