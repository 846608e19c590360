package repository

import (
	"context"

	"bookly/internal/http-api/models"

	"gorm.io/gorm"
)

type RatingRepository interface {
	Create(ctx context.Context, rating *models.Rating) error
	Update(ctx context.Context, rating *models.Rating) error
	Delete(ctx context.Context, userID string, bookID int64) error
	GetByUserAndBook(ctx context.Context, userID string, bookID int64) (*models.Rating, error)
	ListByBook(ctx context.Context, bookID int64) ([]models.Rating, error)
	ListByUser(ctx context.Context, userID string) ([]models.Rating, error)
	CalculateAverage(ctx context.Context, bookID int64) (float64, error)
	Count(ctx context.Context, bookID int64) (int64, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Create a new rating; the composite unique index rejects a second rating for
// the same (user, book) pair
func (r *ratingRepository) Create(ctx context.Context, rating *models.Rating) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

// Update an existing rating
func (r *ratingRepository) Update(ctx context.Context, rating *models.Rating) error {
	return r.db.WithContext(ctx).Save(rating).Error
}

// Delete a rating by user and book
func (r *ratingRepository) Delete(ctx context.Context, userID string, bookID int64) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&models.Rating{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetByUserAndBook retrieves a user's rating for a specific book
func (r *ratingRepository) GetByUserAndBook(ctx context.Context, userID string, bookID int64) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// ListByBook retrieves all ratings for a book, newest first
func (r *ratingRepository) ListByBook(ctx context.Context, bookID int64) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Preload("User").
		Order("created_at DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

// ListByUser retrieves a user's ratings with the rated books, newest first
func (r *ratingRepository) ListByUser(ctx context.Context, userID string) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Book").
		Order("created_at DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

// CalculateAverage computes the mean score for a book.
// COALESCE keeps the mean of an empty set at exactly 0.
func (r *ratingRepository) CalculateAverage(ctx context.Context, bookID int64) (float64, error) {
	var avg struct {
		Average float64
	}

	err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select("COALESCE(AVG(score), 0) as average").
		Where("book_id = ?", bookID).
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}

	return avg.Average, nil
}

// Count the total number of ratings for a book
func (r *ratingRepository) Count(ctx context.Context, bookID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Where("book_id = ?", bookID).
		Count(&count).Error
	return count, err
}
