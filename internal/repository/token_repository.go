package repository

import (
	"time"

	"github.com/yukikurage/task-manager-api/internal/models"
	"gorm.io/gorm"
)

// GormTokenRepository is a GORM implementation of TokenRepository
type GormTokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &GormTokenRepository{db: db}
}

// Create stores a new token
func (r *GormTokenRepository) Create(token *models.AccessToken) error {
	return r.db.Create(token).Error
}

// FindByID finds a token by ID
func (r *GormTokenRepository) FindByID(id uint64) (*models.AccessToken, error) {
	var token models.AccessToken
	if err := r.db.First(&token, id).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// Touch records that the token was used at t
func (r *GormTokenRepository) Touch(id uint64, t time.Time) error {
	return r.db.Model(&models.AccessToken{}).
		Where("id = ?", id).
		UpdateColumn("last_used_at", t).Error
}

// Delete revokes a single token
func (r *GormTokenRepository) Delete(id uint64) error {
	return r.db.Delete(&models.AccessToken{}, id).Error
}
