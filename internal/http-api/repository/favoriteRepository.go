package repository

import (
	"context"
	"fmt"
	"time"

	"bookly/internal/http-api/models"

	"gorm.io/gorm"
)

type FavoriteRepository interface {
	Create(ctx context.Context, favorite *models.Favorite) error
	FindActive(ctx context.Context, userID string, bookID int64) (*models.Favorite, error)
	Unlike(ctx context.Context, userID string, bookID int64) error
	ListActiveByUser(ctx context.Context, userID string) ([]models.Favorite, error)
	CountActive(ctx context.Context, bookID int64) (int64, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

// Create inserts a fresh active favorite. The partial unique index on
// (user_id, book_id) for active rows rejects a concurrent duplicate toggle.
func (r *favoriteRepository) Create(ctx context.Context, favorite *models.Favorite) error {
	return r.db.WithContext(ctx).Create(favorite).Error
}

// FindActive retrieves the active favorite for a (user, book) pair
func (r *favoriteRepository) FindActive(ctx context.Context, userID string, bookID int64) (*models.Favorite, error) {
	var favorite models.Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ? AND unliked_at IS NULL", userID, bookID).
		First(&favorite).Error
	if err != nil {
		return nil, err
	}
	return &favorite, nil
}

// Unlike stamps unliked_at on the active favorite, keeping the row as history
func (r *favoriteRepository) Unlike(ctx context.Context, userID string, bookID int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ? AND book_id = ? AND unliked_at IS NULL", userID, bookID).
		Update("unliked_at", time.Now())

	if result.Error != nil {
		return fmt.Errorf("unlike favorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListActiveByUser retrieves a user's active favorites, newest first
func (r *favoriteRepository) ListActiveByUser(ctx context.Context, userID string) ([]models.Favorite, error) {
	var favorites []models.Favorite
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ? AND unliked_at IS NULL", userID).
		Order("created_at DESC").
		Find(&favorites).Error; err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favorites, nil
}

// CountActive counts the active favorites for a book
func (r *favoriteRepository) CountActive(ctx context.Context, bookID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("book_id = ? AND unliked_at IS NULL", bookID).
		Count(&count).Error
	return count, err
}
