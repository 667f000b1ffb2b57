// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	"passport/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// verificationTokenRepository implements the domain.VerificationTokenRepository interface using GORM.
type verificationTokenRepository struct {
	db *gorm.DB
}

// NewVerificationTokenRepository is the constructor for verificationTokenRepository.
func NewVerificationTokenRepository(db *gorm.DB) repository.VerificationTokenRepository {
	return &verificationTokenRepository{db: db}
}

// Upsert stores the token, replacing any existing row for the same user and
// purpose. The conflict target matches the composite unique index so a fresh
// token always supersedes the previous one.
func (repo *verificationTokenRepository) Upsert(ctx context.Context, token *entity.VerificationToken) error {
	tokenM := fromVerificationTokenDomain(token)

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "purpose"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"token", "expires_at", "consumed_at", "created_at",
			}),
		}).
		Create(tokenM).Error

	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("token references unknown user")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert verification token")
	}

	token.ID = tokenM.ID
	token.CreatedAt = tokenM.CreatedAt

	return nil
}

// FindByTokenForUpdate retrieves a token by its opaque value with a row lock.
// Callers must run this inside a transaction so consumption stays atomic under
// concurrent requests presenting the same token.
func (repo *verificationTokenRepository) FindByTokenForUpdate(ctx context.Context, token string) (*entity.VerificationToken, error) {
	var tokenM model.VerificationTokenModel
	err := repo.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("token = ?", token).
		First(&tokenM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrVerificationTokenNotFound
		}

		return nil, errors.Wrap(err, "failed to find verification token")
	}

	return toVerificationTokenDomain(&tokenM), nil
}

// MarkConsumed records the consumption time of a token.
func (repo *verificationTokenRepository) MarkConsumed(ctx context.Context, token *entity.VerificationToken) error {
	now := time.Now()
	result := repo.db.WithContext(ctx).
		Model(&model.VerificationTokenModel{}).
		Where("id = ? AND consumed_at IS NULL", token.ID).
		Update("consumed_at", now)

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to mark token consumed")
	}
	if result.RowsAffected == 0 {
		return repository.ErrVerificationTokenNotFound
	}

	token.ConsumedAt = &now

	return nil
}

// --- Mapper Functions ---

// toVerificationTokenDomain converts a GORM VerificationTokenModel to a domain entity.
func toVerificationTokenDomain(data *model.VerificationTokenModel) *entity.VerificationToken {
	if data == nil {
		return nil
	}

	return &entity.VerificationToken{
		ID:         data.ID,
		UserID:     data.UserID,
		Purpose:    entity.TokenPurpose(data.Purpose),
		Token:      data.Token,
		ExpiresAt:  data.ExpiresAt,
		ConsumedAt: data.ConsumedAt,
		CreatedAt:  data.CreatedAt,
	}
}

// fromVerificationTokenDomain converts a domain entity to a GORM VerificationTokenModel.
func fromVerificationTokenDomain(data *entity.VerificationToken) *model.VerificationTokenModel {
	if data == nil {
		return nil
	}

	return &model.VerificationTokenModel{
		ID:         data.ID,
		UserID:     data.UserID,
		Purpose:    data.Purpose.String(),
		Token:      data.Token,
		ExpiresAt:  data.ExpiresAt,
		ConsumedAt: data.ConsumedAt,
		CreatedAt:  data.CreatedAt,
	}
}
