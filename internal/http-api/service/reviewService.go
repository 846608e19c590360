package service

import (
	"context"
	"errors"
	"strings"

	"bookly/internal/http-api/dto"
	"bookly/internal/http-api/models"
	"bookly/internal/http-api/repository"

	"gorm.io/gorm"
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrEmptyReview    = errors.New("review text must not be empty")
)

type ReviewService interface {
	UpsertReview(ctx context.Context, userID, googleID, text string) (*models.Review, bool, error)
	UpdateReview(ctx context.Context, userID, googleID, text string) (*models.Review, error)
	DeleteReview(ctx context.Context, userID, googleID string) error
	ListBookReviews(ctx context.Context, googleID string) ([]dto.ReviewResponse, error)
	ListUserReviews(ctx context.Context, userID string) ([]dto.UserReviewResponse, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	bookRepo   repository.BookRepository
	books      BookService
}

func NewReviewService(reviewRepo repository.ReviewRepository, bookRepo repository.BookRepository, books BookService) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		bookRepo:   bookRepo,
		books:      books,
	}
}

// UpsertReview creates the user's review for a book, or updates it in place
// when one already exists. The bool result reports whether a new review was
// created.
func (s *reviewService) UpsertReview(ctx context.Context, userID, googleID, text string) (*models.Review, bool, error) {
	if strings.TrimSpace(text) == "" {
		return nil, false, ErrEmptyReview
	}

	book, err := s.books.EnsureBook(ctx, googleID)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.reviewRepo.GetByUserAndBook(ctx, userID, book.ID)
	if err == nil {
		existing.Text = text
		if err := s.reviewRepo.Update(ctx, existing); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	review := &models.Review{
		UserID: userID,
		BookID: book.ID,
		Text:   text,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		// concurrent upsert created the row first; update it instead
		if repository.IsUniqueViolation(err) {
			existing, err := s.reviewRepo.GetByUserAndBook(ctx, userID, book.ID)
			if err != nil {
				return nil, false, err
			}
			existing.Text = text
			if err := s.reviewRepo.Update(ctx, existing); err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	return review, true, nil
}

// UpdateReview changes an existing review; absent reviews are not created
func (s *reviewService) UpdateReview(ctx context.Context, userID, googleID, text string) (*models.Review, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyReview
	}

	book, err := s.bookRepo.FindByGoogleID(ctx, googleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	review, err := s.reviewRepo.GetByUserAndBook(ctx, userID, book.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	review.Text = text
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, userID, googleID string) error {
	book, err := s.bookRepo.FindByGoogleID(ctx, googleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	if err := s.reviewRepo.Delete(ctx, userID, book.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	return nil
}

// ListBookReviews retrieves all reviews for a book with reviewer names
func (s *reviewService) ListBookReviews(ctx context.Context, googleID string) ([]dto.ReviewResponse, error) {
	book, err := s.bookRepo.FindByGoogleID(ctx, googleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	reviews, err := s.reviewRepo.ListByBook(ctx, book.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, *dto.FromModelToReviewResponse(&reviews[i]))
	}
	return responses, nil
}

// ListUserReviews retrieves the user's reviews with the reviewed books
func (s *reviewService) ListUserReviews(ctx context.Context, userID string) ([]dto.UserReviewResponse, error) {
	reviews, err := s.reviewRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, *dto.FromModelToUserReviewResponse(&reviews[i]))
	}
	return responses, nil
}
