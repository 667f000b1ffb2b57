package auth

import (
	"context"
	"strings"
	"testing"

	"passport/config"
	"passport/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHasher() service.PasswordHasher {
	cfg := &config.Config{}
	cfg.Hasher = &config.HasherConfig{
		MemoryKiB:     8 * 1024, // Lower memory for faster testing
		Iterations:    1,
		Parallelism:   1,
		MaxConcurrent: 2,
	}

	return NewArgon2Hasher(cfg)
}

func TestArgon2Hasher_Hash(t *testing.T) {
	hasher := newTestHasher()
	ctx := context.Background()

	password := "correct horse battery staple"
	hash, err := hasher.Hash(ctx, password)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	// Verify the hash can be checked
	ok, err := hasher.Check(ctx, password, hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestArgon2Hasher_HashUniqueSalts(t *testing.T) {
	hasher := newTestHasher()
	ctx := context.Background()

	first, err := hasher.Hash(ctx, "same password")
	require.NoError(t, err)
	second, err := hasher.Hash(ctx, "same password")
	require.NoError(t, err)

	// Each hash carries its own random salt
	assert.NotEqual(t, first, second)
}

func TestArgon2Hasher_HashEmptyPassword(t *testing.T) {
	hasher := newTestHasher()

	_, err := hasher.Hash(context.Background(), "")
	assert.ErrorIs(t, err, service.ErrEmptyPassword)
}

func TestArgon2Hasher_HashTooLongPassword(t *testing.T) {
	hasher := newTestHasher()

	_, err := hasher.Hash(context.Background(), strings.Repeat("a", maxPasswordLength+1))
	assert.ErrorIs(t, err, service.ErrPasswordTooLong)
}

func TestArgon2Hasher_HashCanceledContext(t *testing.T) {
	hasher := newTestHasher()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := hasher.Hash(ctx, "some password")
	assert.Error(t, err)
}

func TestArgon2Hasher_Check(t *testing.T) {
	hasher := newTestHasher()
	ctx := context.Background()
	password := "correct horse battery staple"

	hash, err := hasher.Hash(ctx, password)
	require.NoError(t, err)

	// Test correct password
	ok, err := hasher.Check(ctx, password, hash)
	require.NoError(t, err)
	assert.True(t, ok)

	// Test incorrect password
	ok, err = hasher.Check(ctx, "wrong password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgon2Hasher_CheckEmptyPassword(t *testing.T) {
	hasher := newTestHasher()
	ctx := context.Background()

	hash, err := hasher.Hash(ctx, "some password")
	require.NoError(t, err)

	ok, err := hasher.Check(ctx, "", hash)
	assert.ErrorIs(t, err, service.ErrEmptyPassword)
	assert.False(t, ok)
}

func TestArgon2Hasher_CheckTooLongPassword(t *testing.T) {
	hasher := newTestHasher()
	ctx := context.Background()

	hash, err := hasher.Hash(ctx, "some password")
	require.NoError(t, err)

	ok, err := hasher.Check(ctx, strings.Repeat("a", maxPasswordLength+1), hash)
	assert.ErrorIs(t, err, service.ErrPasswordTooLong)
	assert.False(t, ok)
}

func TestArgon2Hasher_CheckMalformedHash(t *testing.T) {
	hasher := newTestHasher()
	ctx := context.Background()

	malformed := []string{
		"",
		"not a hash at all",
		"$argon2i$v=19$m=8192,t=1,p=1$vP9U4C5jsOzFQLj0gvUkYw$YLrSb2dGfcVohlm8syynqHs6/NHxXS9rt/t6TjL7pi0",    // wrong variant
		"$argon2id$v=18$m=8192,t=1,p=1$vP9U4C5jsOzFQLj0gvUkYw$YLrSb2dGfcVohlm8syynqHs6/NHxXS9rt/t6TjL7pi0",   // wrong version
		"$argon2id$v=19$m=abc,t=1,p=1$vP9U4C5jsOzFQLj0gvUkYw$YLrSb2dGfcVohlm8syynqHs6/NHxXS9rt/t6TjL7pi0",    // non-numeric memory
		"$argon2id$v=19$m=8192,t=1,p=1$???$YLrSb2dGfcVohlm8syynqHs6/NHxXS9rt/t6TjL7pi0",                      // bad salt encoding
		"$argon2id$v=19$m=8192,t=1,p=1$vP9U4C5jsOzFQLj0gvUkYw$???",                                           // bad digest encoding
		"$argon2id$v=19$m=8192,t=0,p=1$vP9U4C5jsOzFQLj0gvUkYw$YLrSb2dGfcVohlm8syynqHs6/NHxXS9rt/t6TjL7pi0",   // zero iterations
		"$argon2id$v=19$m=8192,t=1,p=0$vP9U4C5jsOzFQLj0gvUkYw$YLrSb2dGfcVohlm8syynqHs6/NHxXS9rt/t6TjL7pi0",   // zero parallelism
		"$argon2id$v=19$m=8192,t=1,p=300$vP9U4C5jsOzFQLj0gvUkYw$YLrSb2dGfcVohlm8syynqHs6/NHxXS9rt/t6TjL7pi0", // parallelism beyond uint8
		"$argon2id$v=19$m=8192,t=1,p=1$$YLrSb2dGfcVohlm8syynqHs6/NHxXS9rt/t6TjL7pi0",                         // empty salt
		"$argon2id$v=19$m=8192,t=1,p=1$vP9U4C5jsOzFQLj0gvUkYw$",                                              // empty digest
	}

	for _, hash := range malformed {
		_, err := hasher.Check(ctx, "password", hash)
		assert.ErrorIs(t, err, service.ErrMalformedHash, "expected malformed hash error for: %s", hash)
	}
}

func TestArgon2Hasher_CheckUsesEmbeddedParameters(t *testing.T) {
	ctx := context.Background()

	// Hash with one parameter set, check with a hasher configured differently.
	hash, err := newTestHasher().Hash(ctx, "portable password")
	require.NoError(t, err)

	other := &config.Config{}
	other.Hasher = &config.HasherConfig{
		MemoryKiB:     16 * 1024,
		Iterations:    2,
		Parallelism:   2,
		MaxConcurrent: 2,
	}

	ok, err := NewArgon2Hasher(other).Check(ctx, "portable password", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestArgon2Hasher_DefaultParameters(t *testing.T) {
	hasher, ok := NewArgon2Hasher(&config.Config{}).(*argon2Hasher)
	require.True(t, ok)

	assert.Equal(t, uint32(defaultMemoryKiB), hasher.memoryKiB)
	assert.Equal(t, uint32(defaultIterations), hasher.iterations)
	assert.Equal(t, uint8(defaultParallelism), hasher.parallelism)
}
