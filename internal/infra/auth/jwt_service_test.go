package auth

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classroom/config"
	domainerrors "classroom/internal/domain/errors"
	"classroom/internal/domain/service"
)

func newTestIssuer(t *testing.T, secret string, ttlMinutes int) service.TokenIssuer {
	t.Helper()

	cfg := &config.Config{
		Auth: &config.AuthConfig{
			Secret:           secret,
			AccessTTLMinutes: ttlMinutes,
		},
	}

	issuer, err := NewJWTIssuer(cfg)
	require.NoError(t, err)

	return issuer
}

func TestNewJWTIssuer_RequiresSecret(t *testing.T) {
	_, err := NewJWTIssuer(&config.Config{Auth: &config.AuthConfig{}})
	require.Error(t, err)

	_, err = NewJWTIssuer(&config.Config{})
	require.Error(t, err)
}

func TestJWTIssuer_IssueAndVerify(t *testing.T) {
	issuer := newTestIssuer(t, "test-secret", 15)

	token, err := issuer.Issue(42, 3)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, int64(3), claims.RoleID)
	assert.Equal(t, strconv.FormatInt(42, 10), claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, time.Minute)
}

func TestJWTIssuer_VerifyRejectsWrongSecret(t *testing.T) {
	issuer := newTestIssuer(t, "secret-a", 15)
	other := newTestIssuer(t, "secret-b", 15)

	token, err := issuer.Issue(1, 1)
	require.NoError(t, err)

	_, err = other.Verify(token)
	require.Error(t, err)
	assertInvalidToken(t, err)
}

func TestJWTIssuer_VerifyRejectsExpiredToken(t *testing.T) {
	issuer := newTestIssuer(t, "test-secret", -1)

	token, err := issuer.Issue(1, 1)
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	require.Error(t, err)
	assertInvalidToken(t, err)
}

func TestJWTIssuer_VerifyRejectsGarbage(t *testing.T) {
	issuer := newTestIssuer(t, "test-secret", 15)

	for _, token := range []string{"", "not.a.jwt", "aaaa.bbbb.cccc"} {
		_, err := issuer.Verify(token)
		require.Error(t, err, "token %q must not verify", token)
		assertInvalidToken(t, err)
	}
}

func TestJWTIssuer_VerifyRejectsTamperedPayload(t *testing.T) {
	issuer := newTestIssuer(t, "test-secret", 15)

	token, err := issuer.Issue(42, 3)
	require.NoError(t, err)

	// Flip a character in the payload segment; the signature no longer matches.
	tampered := []byte(token)
	mid := len(tampered) / 2
	if tampered[mid] == 'A' {
		tampered[mid] = 'B'
	} else {
		tampered[mid] = 'A'
	}

	_, err = issuer.Verify(string(tampered))
	require.Error(t, err)
	assertInvalidToken(t, err)
}

// assertInvalidToken checks that the verification failure carries the
// invalid-token business code, whatever the underlying parse error was.
func assertInvalidToken(t *testing.T, err error) {
	t.Helper()

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrInvalidToken.ErrorCode(), appErr.ErrorCode())
}
