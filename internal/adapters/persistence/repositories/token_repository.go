package repositories

import (
	"context"
	"time"

	"stockroom/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// tokenRepository implements TokenRepository interface
type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

// Create inserts a new ledger row
func (r *tokenRepository) Create(ctx context.Context, token *models.Token) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// GetByTokenString finds the ledger row holding the given string in either
// column. A bearer token may be presented as access or refresh.
func (r *tokenRepository) GetByTokenString(ctx context.Context, tokenString string) (*models.Token, error) {
	var token models.Token
	err := r.db.WithContext(ctx).
		Where("access_token = ? OR refresh_token = ?", tokenString, tokenString).
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// GetByRefreshToken finds the ledger row by its refresh token only
func (r *tokenRepository) GetByRefreshToken(ctx context.Context, refreshToken string) (*models.Token, error) {
	var token models.Token
	err := r.db.WithContext(ctx).
		Where("refresh_token = ?", refreshToken).
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// Delete removes a single ledger row
func (r *tokenRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Token{}, id).Error
}

// DeleteAllByUserID removes every ledger row for a user (logout)
func (r *tokenRepository) DeleteAllByUserID(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.Token{}).Error
}

// DeleteCreatedBefore removes rows older than the cutoff (cleanup job).
// Callers pass now minus the refresh lifetime so both tokens in a removed
// row are already expired.
func (r *tokenRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.Token{})
	return result.RowsAffected, result.Error
}
