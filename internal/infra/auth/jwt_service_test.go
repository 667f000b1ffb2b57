package auth

import (
	"testing"
	"time"

	"passport/config"
	"passport/internal/domain/entity"
	"passport/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTTestConfig(sessionTTLMinutes int, leeway time.Duration) *config.Config {
	cfg := &config.Config{
		SecretKey: struct {
			Session string `json:"session" yaml:"session"`
		}{
			Session: "test_session_secret_key_very_long_for_testing",
		},
	}
	cfg.Auth = &config.AuthConfig{
		SessionTTLMinutes: sessionTTLMinutes,
		ClockSkewLeeway:   leeway,
	}

	return cfg
}

func TestJWTService_IssueAndValidateSessionToken(t *testing.T) {
	jwtService, err := NewJWTService(newJWTTestConfig(60, 0))
	require.NoError(t, err)
	require.NotNil(t, jwtService)

	userID := uuid.New()

	token, err := jwtService.IssueSessionToken(userID, entity.RoleAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := jwtService.ValidateSessionToken(token)
	require.NoError(t, err)
	require.NotNil(t, claims)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTService_SessionTokenDuration(t *testing.T) {
	jwtService, err := NewJWTService(newJWTTestConfig(30, 0))
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, jwtService.SessionTokenDuration())
}

func TestJWTService_MalformedToken(t *testing.T) {
	jwtService, err := NewJWTService(newJWTTestConfig(60, 0))
	require.NoError(t, err)

	claims, err := jwtService.ValidateSessionToken("clearly-not-a-jwt-token-format")
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, service.ErrTokenMalformed)
}

func TestJWTService_TamperedSignature(t *testing.T) {
	jwtService, err := NewJWTService(newJWTTestConfig(60, 0))
	require.NoError(t, err)

	token, err := jwtService.IssueSessionToken(uuid.New(), entity.RoleUser)
	require.NoError(t, err)

	// Validate against a service holding a different secret.
	otherCfg := newJWTTestConfig(60, 0)
	otherCfg.SecretKey.Session = "a_completely_different_secret_key_for_testing"
	otherService, err := NewJWTService(otherCfg)
	require.NoError(t, err)

	claims, err := otherService.ValidateSessionToken(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, service.ErrTokenSignatureInvalid)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	cfg := newJWTTestConfig(60, 0)
	svc, err := NewJWTService(cfg)
	require.NoError(t, err)

	// Shrink the TTL so the token is already expired when issued.
	svc.(*jwtService).sessionTTL = -time.Minute

	token, err := svc.IssueSessionToken(uuid.New(), entity.RoleUser)
	require.NoError(t, err)

	claims, err := svc.ValidateSessionToken(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, service.ErrTokenExpired)
}

func TestJWTService_LeewayToleratesSkew(t *testing.T) {
	cfg := newJWTTestConfig(60, 5*time.Minute)
	svc, err := NewJWTService(cfg)
	require.NoError(t, err)

	// Token expired one minute ago, within the configured leeway.
	svc.(*jwtService).sessionTTL = -time.Minute

	token, err := svc.IssueSessionToken(uuid.New(), entity.RoleUser)
	require.NoError(t, err)

	claims, err := svc.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.NotNil(t, claims)
}

func TestJWTService_EmptySecret(t *testing.T) {
	cfg := newJWTTestConfig(60, 0)
	cfg.SecretKey.Session = ""

	jwtService, err := NewJWTService(cfg)
	assert.Error(t, err)
	assert.Nil(t, jwtService)
	assert.Contains(t, err.Error(), "session jwt secret must be provided")
}
