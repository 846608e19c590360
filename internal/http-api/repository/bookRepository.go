package repository

import (
	"context"

	"bookly/internal/http-api/models"

	"gorm.io/gorm"
)

type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	FindByID(ctx context.Context, id int64) (*models.Book, error)
	FindByGoogleID(ctx context.Context, googleID string) (*models.Book, error)
	List(ctx context.Context) ([]models.Book, error)
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// Create inserts a new book record. The unique index on google_books_id makes
// concurrent first-sight inserts fail with a unique violation; callers handle
// that with IsUniqueViolation and re-read the winning row.
func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

func (r *bookRepository) FindByID(ctx context.Context, id int64) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).First(&book, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) FindByGoogleID(ctx context.Context, googleID string) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).Where("google_books_id = ?", googleID).First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) List(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}
