package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"classroom/config"
)

func newTestHasher() *bcryptHasher {
	cfg := &config.Config{
		Auth: &config.AuthConfig{BcryptCost: bcrypt.MinCost},
	}

	return NewBcryptHasher(cfg).(*bcryptHasher)
}

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := newTestHasher()

	digest, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, digest)
	assert.NotEqual(t, "correct horse battery staple", digest)

	assert.True(t, hasher.Check("correct horse battery staple", digest))
	assert.False(t, hasher.Check("wrong password", digest))
	assert.False(t, hasher.Check("", digest))
}

func TestBcryptHasher_FreshSaltPerHash(t *testing.T) {
	hasher := newTestHasher()

	first, err := hasher.Hash("same input")
	require.NoError(t, err)
	second, err := hasher.Hash("same input")
	require.NoError(t, err)

	// bcrypt salts every digest, so equal inputs never collide.
	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Check("same input", first))
	assert.True(t, hasher.Check("same input", second))
}

func TestBcryptHasher_CheckRejectsGarbageHash(t *testing.T) {
	hasher := newTestHasher()

	assert.False(t, hasher.Check("anything", "not a bcrypt digest"))
}

func TestNewBcryptHasher_ClampsCostToDefault(t *testing.T) {
	cfg := &config.Config{
		Auth: &config.AuthConfig{BcryptCost: bcrypt.MaxCost + 5},
	}

	hasher := NewBcryptHasher(cfg).(*bcryptHasher)
	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)

	hasher = NewBcryptHasher(&config.Config{}).(*bcryptHasher)
	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)
}
