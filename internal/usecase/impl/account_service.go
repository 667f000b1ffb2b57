// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"passport/config"
	deliverycontext "passport/internal/delivery/context"
	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	"passport/internal/domain/service"
	"passport/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	defaultVerificationTokenTTL = 24 * time.Hour
	defaultResetTokenTTL        = time.Hour
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager       repository.TransactionManager
	userRepo        repository.UserRepository
	hasher          service.PasswordHasher
	tokenService    service.TokenService
	mailSender      service.MailSender
	eventPublisher  service.EventPublisher
	baseURL         string
	verificationTTL time.Duration
	resetTTL        time.Duration
	logger          *slog.Logger
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	UserRepo       repository.UserRepository
	Hasher         service.PasswordHasher
	TokenService   service.TokenService
	MailSender     service.MailSender
	EventPublisher service.EventPublisher
	Config         *config.Config
	Logger         *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	verificationTTL := defaultVerificationTokenTTL
	resetTTL := defaultResetTokenTTL
	if params.Config.Auth != nil {
		if params.Config.Auth.VerificationTokenTTL > 0 {
			verificationTTL = params.Config.Auth.VerificationTokenTTL
		}
		if params.Config.Auth.ResetTokenTTL > 0 {
			resetTTL = params.Config.Auth.ResetTokenTTL
		}
	}

	return &accountService{
		txManager:       params.TxManager,
		userRepo:        params.UserRepo,
		hasher:          params.Hasher,
		tokenService:    params.TokenService,
		mailSender:      params.MailSender,
		eventPublisher:  params.EventPublisher,
		baseURL:         strings.TrimRight(params.Config.HTTP.BaseURL, "/"),
		verificationTTL: verificationTTL,
		resetTTL:        resetTTL,
		logger:          params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates the complete account registration process.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	// Hash outside the transaction, hashing is CPU and memory bound.
	hashedPassword, err := srv.hasher.Hash(ctx, input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	newUser := &entity.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         entity.RoleUser,
	}

	var verification *entity.VerificationToken
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()
		tokenRepo := repoFactory.NewVerificationTokenRepository()

		_, findErr := userRepo.FindByEmail(ctx, input.Email)
		if findErr == nil {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("email already registered")
		}
		if !errors.Is(findErr, repository.ErrUserNotFound) {
			return errors.Wrap(findErr, "failed to check existing email")
		}

		if createErr := userRepo.Create(ctx, newUser); createErr != nil {
			return errors.Wrap(createErr, "failed to create user during registration")
		}

		verification = newVerificationToken(newUser.ID, entity.PurposeEmailVerification, srv.verificationTTL)

		return tokenRepo.Upsert(ctx, verification)
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}

	srv.sendVerificationMail(ctx, newUser, verification.Token)
	srv.publishEvent(ctx, service.EventAccountRegistered, newUser)

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", newUser.ID))

	return &usecase.RegisterOutput{User: newUser}, nil
}

// Login orchestrates the login process and issues a session token.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email))

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Same error as a wrong password so responses never reveal
			// whether the email exists.
			srv.log(ctx).Warn("Login failed, unknown email", slog.String("email", input.Email))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to load user for login")
	}

	match, err := srv.hasher.Check(ctx, input.Password, user.PasswordHash)
	if err != nil {
		srv.log(ctx).Error("Password check failed", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrInternalError, "password check failed")
	}
	if !match {
		srv.log(ctx).Warn("Login failed, wrong password", slog.Any("userID", user.ID))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	sessionToken, err := srv.tokenService.IssueSessionToken(user.ID, user.Role)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue session token")
	}

	srv.log(ctx).Debug("User logged in successfully", slog.Any("userID", user.ID))

	return &usecase.LoginOutput{
		SessionToken: sessionToken,
		User:         user,
	}, nil
}

// VerifyEmail consumes a verification token and marks the account verified.
func (srv *accountService) VerifyEmail(ctx context.Context, input *usecase.VerifyEmailInput) (*usecase.VerifyEmailOutput, error) {
	srv.log(ctx).Info("Verifying email")

	var verifiedUser *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()
		tokenRepo := repoFactory.NewVerificationTokenRepository()

		token, err := srv.consumeToken(ctx, tokenRepo, input.Token, entity.PurposeEmailVerification)
		if err != nil {
			return err
		}

		if err := userRepo.MarkVerified(ctx, token.UserID); err != nil {
			return errors.Wrap(err, "failed to mark user verified")
		}

		verifiedUser, err = userRepo.FindByID(ctx, token.UserID)
		if err != nil {
			return errors.Wrap(err, "failed to load verified user")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Email verification failed", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute email verification transaction")
	}

	srv.publishEvent(ctx, service.EventAccountVerified, verifiedUser)

	srv.log(ctx).Info("Email verified", slog.Any("userID", verifiedUser.ID))

	return &usecase.VerifyEmailOutput{User: verifiedUser}, nil
}

// ForgotPassword issues a reset token and emails it to the account.
func (srv *accountService) ForgotPassword(ctx context.Context, input *usecase.ForgotPasswordInput) error {
	srv.log(ctx).Info("Password reset requested", slog.String("email", input.Email))

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Succeed silently so the endpoint cannot be used to probe
			// for registered emails.
			srv.log(ctx).Debug("Password reset for unknown email", slog.String("email", input.Email))

			return nil
		}

		return errors.Wrap(err, "failed to load user for password reset")
	}

	var reset *entity.VerificationToken
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		reset = newVerificationToken(user.ID, entity.PurposePasswordReset, srv.resetTTL)

		return repoFactory.NewVerificationTokenRepository().Upsert(ctx, reset)
	})
	if err != nil {
		return errors.Wrap(err, "failed to store password reset token")
	}

	srv.sendResetMail(ctx, user, reset.Token)

	return nil
}

// ResetPassword consumes a reset token and replaces the account password.
func (srv *accountService) ResetPassword(ctx context.Context, input *usecase.ResetPasswordInput) error {
	srv.log(ctx).Info("Resetting password")

	hashedPassword, err := srv.hasher.Hash(ctx, input.NewPassword)
	if err != nil {
		return errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	var resetUser *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()
		tokenRepo := repoFactory.NewVerificationTokenRepository()

		token, err := srv.consumeToken(ctx, tokenRepo, input.Token, entity.PurposePasswordReset)
		if err != nil {
			return err
		}

		if err := userRepo.UpdatePassword(ctx, token.UserID, hashedPassword); err != nil {
			return errors.Wrap(err, "failed to update password")
		}

		resetUser, err = userRepo.FindByID(ctx, token.UserID)
		if err != nil {
			return errors.Wrap(err, "failed to load user after password reset")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Password reset failed", slog.Any("error", err))

		return errors.Wrap(err, "failed to execute password reset transaction")
	}

	srv.publishEvent(ctx, service.EventAccountPasswordReset, resetUser)

	srv.log(ctx).Info("Password reset completed", slog.Any("userID", resetUser.ID))

	return nil
}

// VerificationLink builds the absolute verification URL for a raw token value.
func (srv *accountService) VerificationLink(token string) string {
	return fmt.Sprintf("%s/auth/verify-email?token=%s", srv.baseURL, url.QueryEscape(token))
}

func (srv *accountService) resetLink(token string) string {
	return fmt.Sprintf("%s/auth/reset-password?token=%s", srv.baseURL, url.QueryEscape(token))
}

// consumeToken loads a token under a row lock, validates it and marks it
// consumed. Must run inside a transaction.
func (srv *accountService) consumeToken(ctx context.Context, tokenRepo repository.VerificationTokenRepository, rawToken string, purpose entity.TokenPurpose) (*entity.VerificationToken, error) {
	token, err := tokenRepo.FindByTokenForUpdate(ctx, rawToken)
	if err != nil {
		if errors.Is(err, repository.ErrVerificationTokenNotFound) {
			return nil, errors.Wrap(domainerrors.ErrVerificationTokenInvalid, "token not found")
		}

		return nil, errors.Wrap(err, "failed to load verification token")
	}

	if token.Purpose != purpose {
		return nil, errors.Wrap(domainerrors.ErrVerificationTokenInvalid, "token purpose mismatch")
	}
	if token.Consumed() {
		return nil, errors.Wrap(domainerrors.ErrVerificationTokenInvalid, "token already consumed")
	}
	if token.Expired(time.Now()) {
		// The expired row stays in place; issuing a fresh token for the
		// same purpose overwrites it.
		return nil, errors.Wrap(domainerrors.ErrVerificationTokenExpired, "token expired")
	}

	if err := tokenRepo.MarkConsumed(ctx, token); err != nil {
		return nil, errors.Wrap(err, "failed to mark token consumed")
	}

	return token, nil
}

// sendVerificationMail delivers the verification email. Delivery failures are
// logged, not returned, so a flaky mail provider never blocks registration.
func (srv *accountService) sendVerificationMail(ctx context.Context, user *entity.User, token string) {
	link := srv.VerificationLink(token)
	mail := &service.Mail{
		ToEmail: user.Email,
		ToName:  user.Name,
		Subject: "Verify your email address",
		TextBody: fmt.Sprintf(
			"Hi %s,\n\nPlease confirm your email address by opening the link below:\n\n%s\n\nThe link expires in %s.\n",
			user.Name, link, srv.verificationTTL,
		),
	}

	if err := srv.mailSender.Send(ctx, mail); err != nil {
		srv.log(ctx).Error("Failed to send verification mail",
			slog.Any("userID", user.ID),
			slog.Any("error", err),
		)
	}
}

// sendResetMail delivers the password reset email, logging failures.
func (srv *accountService) sendResetMail(ctx context.Context, user *entity.User, token string) {
	link := srv.resetLink(token)
	mail := &service.Mail{
		ToEmail: user.Email,
		ToName:  user.Name,
		Subject: "Reset your password",
		TextBody: fmt.Sprintf(
			"Hi %s,\n\nA password reset was requested for your account. Open the link below to choose a new password:\n\n%s\n\nThe link expires in %s. If you did not request this, you can ignore this email.\n",
			user.Name, link, srv.resetTTL,
		),
	}

	if err := srv.mailSender.Send(ctx, mail); err != nil {
		srv.log(ctx).Error("Failed to send password reset mail",
			slog.Any("userID", user.ID),
			slog.Any("error", err),
		)
	}
}

// publishEvent publishes an account lifecycle event, logging failures.
func (srv *accountService) publishEvent(ctx context.Context, eventType string, user *entity.User) {
	event := &service.AccountEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		Type:       eventType,
		UserID:     user.ID.String(),
		Email:      user.Email,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}

	if err := srv.eventPublisher.PublishAccountEvent(ctx, event); err != nil {
		srv.log(ctx).Error("Failed to publish account event",
			slog.String("type", eventType),
			slog.Any("error", err),
		)
	}
}

// newVerificationToken builds a fresh single-use token entity.
func newVerificationToken(userID uuid.UUID, purpose entity.TokenPurpose, ttl time.Duration) *entity.VerificationToken {
	return &entity.VerificationToken{
		UserID:    userID,
		Purpose:   purpose,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(ttl),
	}
}
