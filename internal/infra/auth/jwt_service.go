// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"passport/config"
	"passport/internal/domain/entity"
	"passport/internal/domain/service"
	"passport/internal/errors"
)

const defaultSessionTTL = time.Hour

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret     string        // Secret key for signing session tokens.
	sessionTTL time.Duration // Time-to-live for session tokens.
	leeway     time.Duration // Tolerated clock skew during validation.
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Session == "" {
		return nil, errors.New("session jwt secret must be provided")
	}

	sessionTTL := cfg.SessionTokenTTL()
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}

	var leeway time.Duration
	if cfg.Auth != nil {
		leeway = cfg.Auth.ClockSkewLeeway
	}

	return &jwtService{
		secret:     cfg.SecretKey.Session,
		sessionTTL: sessionTTL,
		leeway:     leeway,
	}, nil
}

// IssueSessionToken creates a signed session token for a given user.
func (s *jwtService) IssueSessionToken(userID uuid.UUID, role entity.Role) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID.String(),              // Subject (who the token is for)
		"iat":  now.Unix(),                   // Issued At
		"exp":  now.Add(s.sessionTTL).Unix(), // Expiration Time
		"role": role.String(),                // Role for stateless authorization
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", errors.Wrap(err, "sign session token")
	}

	return signed, nil
}

// ValidateSessionToken checks the validity of a token string and returns its claims.
func (s *jwtService) ValidateSessionToken(tokenString string) (*service.SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(s.secret), nil
	}, jwt.WithLeeway(s.leeway), jwt.WithExpirationRequired())
	if err != nil {
		return nil, translateJWTError(err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, service.ErrTokenMalformed
	}

	sub, err := mapClaims.GetSubject()
	if err != nil {
		return nil, errors.Wrap(service.ErrTokenMalformed, "missing subject")
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errors.Wrap(service.ErrTokenMalformed, "subject is not a uuid")
	}

	roleStr, _ := mapClaims["role"].(string)

	expiresAt, err := mapClaims.GetExpirationTime()
	if err != nil {
		return nil, errors.Wrap(service.ErrTokenMalformed, "missing expiration")
	}
	issuedAt, _ := mapClaims.GetIssuedAt()

	return &service.SessionClaims{
		UserID: userID,
		Role:   entity.RoleFromString(roleStr),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: expiresAt,
			IssuedAt:  issuedAt,
		},
	}, nil
}

// SessionTokenDuration returns the configured session lifetime.
func (s *jwtService) SessionTokenDuration() time.Duration {
	return s.sessionTTL
}

// translateJWTError maps library errors onto the domain sentinel errors.
func translateJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return errors.Wrap(service.ErrTokenExpired, err.Error())
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
		return errors.Wrap(service.ErrTokenSignatureInvalid, err.Error())
	default:
		return errors.Wrap(service.ErrTokenMalformed, err.Error())
	}
}
