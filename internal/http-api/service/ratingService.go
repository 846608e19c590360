package service

import (
	"context"
	"errors"

	"bookly/internal/http-api/dto"
	"bookly/internal/http-api/models"
	"bookly/internal/http-api/repository"

	"gorm.io/gorm"
)

var (
	ErrRatingExists   = errors.New("rating already exists")
	ErrRatingNotFound = errors.New("rating not found")
	ErrInvalidScore   = errors.New("score must be between 1 and 5")
)

type RatingService interface {
	CreateRating(ctx context.Context, userID, googleID string, score int) (*models.Rating, error)
	UpdateRating(ctx context.Context, userID, googleID string, score int) (*models.Rating, error)
	DeleteRating(ctx context.Context, userID, googleID string) error
	ListBookRatings(ctx context.Context, googleID string) ([]dto.RatingResponse, error)
	ListUserRatings(ctx context.Context, userID string) ([]dto.UserRatingResponse, error)
	GetAverage(ctx context.Context, googleID string) (float64, int64, error)
}

type ratingService struct {
	ratingRepo repository.RatingRepository
	bookRepo   repository.BookRepository
	books      BookService
}

func NewRatingService(ratingRepo repository.RatingRepository, bookRepo repository.BookRepository, books BookService) RatingService {
	return &ratingService{
		ratingRepo: ratingRepo,
		bookRepo:   bookRepo,
		books:      books,
	}
}

// CreateRating records a new rating. A second rating for the same (user,
// book) pair is rejected; updates go through UpdateRating.
func (s *ratingService) CreateRating(ctx context.Context, userID, googleID string, score int) (*models.Rating, error) {
	if score < 1 || score > 5 {
		return nil, ErrInvalidScore
	}

	book, err := s.books.EnsureBook(ctx, googleID)
	if err != nil {
		return nil, err
	}

	rating := &models.Rating{
		UserID: userID,
		BookID: book.ID,
		Score:  score,
	}
	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrRatingExists
		}
		return nil, err
	}

	return rating, nil
}

// UpdateRating changes an existing rating's score; absent ratings are not
// created here
func (s *ratingService) UpdateRating(ctx context.Context, userID, googleID string, score int) (*models.Rating, error) {
	if score < 1 || score > 5 {
		return nil, ErrInvalidScore
	}

	book, err := s.bookRepo.FindByGoogleID(ctx, googleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}

	rating, err := s.ratingRepo.GetByUserAndBook(ctx, userID, book.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}

	rating.Score = score
	if err := s.ratingRepo.Update(ctx, rating); err != nil {
		return nil, err
	}

	return rating, nil
}

func (s *ratingService) DeleteRating(ctx context.Context, userID, googleID string) error {
	book, err := s.bookRepo.FindByGoogleID(ctx, googleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRatingNotFound
		}
		return err
	}

	if err := s.ratingRepo.Delete(ctx, userID, book.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRatingNotFound
		}
		return err
	}
	return nil
}

// ListBookRatings retrieves all ratings for a book
func (s *ratingService) ListBookRatings(ctx context.Context, googleID string) ([]dto.RatingResponse, error) {
	book, err := s.bookRepo.FindByGoogleID(ctx, googleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	ratings, err := s.ratingRepo.ListByBook(ctx, book.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.RatingResponse, 0, len(ratings))
	for i := range ratings {
		responses = append(responses, *dto.FromModelToRatingResponse(&ratings[i]))
	}
	return responses, nil
}

// ListUserRatings retrieves the user's ratings with the rated books
func (s *ratingService) ListUserRatings(ctx context.Context, userID string) ([]dto.UserRatingResponse, error) {
	ratings, err := s.ratingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserRatingResponse, 0, len(ratings))
	for i := range ratings {
		responses = append(responses, *dto.FromModelToUserRatingResponse(&ratings[i]))
	}
	return responses, nil
}

// GetAverage retrieves the mean score and rating count for a book
func (s *ratingService) GetAverage(ctx context.Context, googleID string) (float64, int64, error) {
	book, err := s.bookRepo.FindByGoogleID(ctx, googleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, ErrBookNotFound
		}
		return 0, 0, err
	}

	average, err := s.ratingRepo.CalculateAverage(ctx, book.ID)
	if err != nil {
		return 0, 0, err
	}
	count, err := s.ratingRepo.Count(ctx, book.ID)
	if err != nil {
		return 0, 0, err
	}

	return average, count, nil
}
