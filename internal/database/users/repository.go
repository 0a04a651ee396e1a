// Package users provides database operations for user accounts and their
// issued access tokens.
package users

import (
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/library-catalog/internal/entities"
)

// Repository handles user and access-token database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user.
func (r *Repository) Create(user *entities.User) error {
	return r.db.Create(user).Error
}

// GetByID retrieves a user by id.
func (r *Repository) GetByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by email.
func (r *Repository) GetByEmail(email string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailTaken reports whether another user already uses the email.
func (r *Repository) EmailTaken(email string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&entities.User{}).Where("email = ?", email)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// CreateToken stores a new access-token hash for a user.
func (r *Repository) CreateToken(userID uint, tokenHash string) (*entities.AccessToken, error) {
	token := &entities.AccessToken{
		UserID:    userID,
		TokenHash: tokenHash,
	}
	if err := r.db.Create(token).Error; err != nil {
		return nil, err
	}
	return token, nil
}

// GetByTokenHash resolves a token hash to its user and token row.
func (r *Repository) GetByTokenHash(tokenHash string) (*entities.User, *entities.AccessToken, error) {
	var token entities.AccessToken
	err := r.db.Where("token_hash = ?", tokenHash).First(&token).Error
	if err != nil {
		return nil, nil, err
	}
	user, err := r.GetByID(token.UserID)
	if err != nil {
		return nil, nil, err
	}
	return user, &token, nil
}

// TouchToken records that a token was just used.
func (r *Repository) TouchToken(tokenID uint) error {
	now := time.Now()
	return r.db.Model(&entities.AccessToken{}).
		Where("id = ?", tokenID).
		Update("last_used_at", now).Error
}

// DeleteTokenByHash revokes a single token. Deleting an absent token is
// not an error; logout is idempotent.
func (r *Repository) DeleteTokenByHash(tokenHash string) error {
	return r.db.Where("token_hash = ?", tokenHash).Delete(&entities.AccessToken{}).Error
}

// DeleteTokensBefore removes tokens issued before the cutoff and returns
// how many were purged.
func (r *Repository) DeleteTokensBefore(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", cutoff).Delete(&entities.AccessToken{})
	return result.RowsAffected, result.Error
}
