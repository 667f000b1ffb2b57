package model

import (
	"time"

	"github.com/google/uuid"
)

// VerificationTokenModel mirrors the 'verification_tokens' table.
// A composite unique index on (user_id, purpose) lets new tokens supersede the
// previous one for the same purpose via an upsert.
type VerificationTokenModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_verification_tokens_user_purpose"`
	Purpose    string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_verification_tokens_user_purpose"`
	Token      string    `gorm:"type:varchar(64);not null;unique"`
	ExpiresAt  time.Time `gorm:"not null"`
	ConsumedAt *time.Time
	CreatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (VerificationTokenModel) TableName() string {
	return "verification_tokens"
}
