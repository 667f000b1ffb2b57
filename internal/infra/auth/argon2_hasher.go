// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/sync/semaphore"

	"passport/config"
	"passport/internal/domain/service"
	"passport/internal/errors"
)

const (
	argon2Variant = "argon2id"

	// maxPasswordLength bounds the plaintext fed into the hash function.
	maxPasswordLength = 128

	saltLength   = 16
	digestLength = 32

	defaultMemoryKiB     = 47104
	defaultIterations    = 1
	defaultParallelism   = 1
	defaultMaxConcurrent = 4
)

// argon2Hasher is a concrete implementation of the PasswordHasher interface using Argon2id.
// A weighted semaphore caps concurrent hash computations since each one pins
// tens of megabytes of memory.
type argon2Hasher struct {
	memoryKiB   uint32
	iterations  uint32
	parallelism uint8
	sem         *semaphore.Weighted
}

// NewArgon2Hasher is the constructor for argon2Hasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewArgon2Hasher(cfg *config.Config) service.PasswordHasher {
	memoryKiB := uint32(defaultMemoryKiB)
	iterations := uint32(defaultIterations)
	parallelism := uint8(defaultParallelism)
	maxConcurrent := int64(defaultMaxConcurrent)

	if cfg != nil && cfg.Hasher != nil {
		if cfg.Hasher.MemoryKiB > 0 {
			memoryKiB = cfg.Hasher.MemoryKiB
		}
		if cfg.Hasher.Iterations > 0 {
			iterations = cfg.Hasher.Iterations
		}
		if cfg.Hasher.Parallelism > 0 {
			parallelism = cfg.Hasher.Parallelism
		}
		if cfg.Hasher.MaxConcurrent > 0 {
			maxConcurrent = cfg.Hasher.MaxConcurrent
		}
	}

	return &argon2Hasher{
		memoryKiB:   memoryKiB,
		iterations:  iterations,
		parallelism: parallelism,
		sem:         semaphore.NewWeighted(maxConcurrent),
	}
}

// Hash generates a salted Argon2id hash from a plaintext password.
// The result is a self-describing encoded string carrying the parameters and
// salt, so parameter changes only affect newly stored credentials.
func (h *argon2Hasher) Hash(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", service.ErrEmptyPassword
	}
	if len(password) > maxPasswordLength {
		return "", service.ErrPasswordTooLong
	}

	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", errors.Wrap(err, "acquire hashing slot")
	}
	defer h.sem.Release(1)

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Wrap(service.ErrHashingFailed, err.Error())
	}

	digest := argon2.IDKey([]byte(password), salt, h.iterations, h.memoryKiB, h.parallelism, digestLength)

	return encodeHash(h.memoryKiB, h.iterations, h.parallelism, salt, digest), nil
}

// Check compares a plaintext password with an encoded Argon2id hash.
// The stored hash's own parameters drive the comparison, and the digests are
// compared in constant time.
func (h *argon2Hasher) Check(ctx context.Context, password, encodedHash string) (bool, error) {
	if password == "" {
		return false, service.ErrEmptyPassword
	}
	if len(password) > maxPasswordLength {
		return false, service.ErrPasswordTooLong
	}

	memoryKiB, iterations, parallelism, salt, digest, err := decodeHash(encodedHash)
	if err != nil {
		return false, err
	}

	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, errors.Wrap(err, "acquire hashing slot")
	}
	defer h.sem.Release(1)

	candidate := argon2.IDKey([]byte(password), salt, iterations, memoryKiB, parallelism, uint32(len(digest)))

	return subtle.ConstantTimeCompare(candidate, digest) == 1, nil
}

// encodeHash renders the standard encoded form:
// $argon2id$v=19$m=<memory>,t=<iterations>,p=<parallelism>$<salt>$<digest>
func encodeHash(memoryKiB, iterations uint32, parallelism uint8, salt, digest []byte) string {
	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Variant,
		argon2.Version,
		memoryKiB,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	)
}

// decodeHash parses an encoded hash back into its parameters, salt and digest.
// Anything that does not strictly match the expected form yields ErrMalformedHash.
func decodeHash(encodedHash string) (memoryKiB, iterations uint32, parallelism uint8, salt, digest []byte, err error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" {
		return 0, 0, 0, nil, nil, service.ErrMalformedHash
	}

	if parts[1] != argon2Variant {
		return 0, 0, 0, nil, nil, errors.Wrapf(service.ErrMalformedHash, "unsupported variant %q", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return 0, 0, 0, nil, nil, errors.Wrap(service.ErrMalformedHash, "parse version")
	}
	if version != argon2.Version {
		return 0, 0, 0, nil, nil, errors.Wrapf(service.ErrMalformedHash, "unsupported version %d", version)
	}

	var p int
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memoryKiB, &iterations, &p); err != nil {
		return 0, 0, 0, nil, nil, errors.Wrap(service.ErrMalformedHash, "parse parameters")
	}
	if iterations < 1 {
		return 0, 0, 0, nil, nil, errors.Wrapf(service.ErrMalformedHash, "invalid iteration count %d", iterations)
	}
	if p < 1 || p > 255 {
		return 0, 0, 0, nil, nil, errors.Wrapf(service.ErrMalformedHash, "invalid parallelism %d", p)
	}
	parallelism = uint8(p)

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return 0, 0, 0, nil, nil, errors.Wrap(service.ErrMalformedHash, "decode salt")
	}
	if len(salt) == 0 {
		return 0, 0, 0, nil, nil, errors.Wrap(service.ErrMalformedHash, "empty salt")
	}

	digest, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return 0, 0, 0, nil, nil, errors.Wrap(service.ErrMalformedHash, "decode digest")
	}
	if len(digest) == 0 {
		return 0, 0, 0, nil, nil, errors.Wrap(service.ErrMalformedHash, "empty digest")
	}

	return memoryKiB, iterations, parallelism, salt, digest, nil
}
