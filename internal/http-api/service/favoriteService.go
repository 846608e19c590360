package service

import (
	"context"
	"errors"

	"bookly/internal/http-api/models"
	"bookly/internal/http-api/repository"

	"gorm.io/gorm"
)

var ErrFavoriteNotFound = errors.New("favorite not found")

type FavoriteService interface {
	Toggle(ctx context.Context, userID, googleID string) (favorited bool, err error)
	Unfavorite(ctx context.Context, userID, googleID string) error
	ListFavorites(ctx context.Context, userID string) ([]models.Book, error)
}

type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
	bookRepo     repository.BookRepository
	books        BookService
}

func NewFavoriteService(favoriteRepo repository.FavoriteRepository, bookRepo repository.BookRepository, books BookService) FavoriteService {
	return &favoriteService{
		favoriteRepo: favoriteRepo,
		bookRepo:     bookRepo,
		books:        books,
	}
}

// Toggle flips the favorite state for a (user, book) pair and reports the new
// state. The book record is created on the way if this is the first
// interaction with the external ID.
func (s *favoriteService) Toggle(ctx context.Context, userID, googleID string) (bool, error) {
	book, err := s.books.EnsureBook(ctx, googleID)
	if err != nil {
		return false, err
	}

	_, err = s.favoriteRepo.FindActive(ctx, userID, book.ID)
	if err == nil {
		// Active favorite exists: soft-remove it
		if err := s.favoriteRepo.Unlike(ctx, userID, book.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// lost a race with a concurrent toggle; state is already off
				return false, nil
			}
			return false, err
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	favorite := &models.Favorite{
		UserID: userID,
		BookID: book.ID,
	}
	if err := s.favoriteRepo.Create(ctx, favorite); err != nil {
		// a concurrent toggle already created the active row; same end state
		if repository.IsUniqueViolation(err) {
			return true, nil
		}
		return false, err
	}

	return true, nil
}

// Unfavorite explicitly removes an active favorite
func (s *favoriteService) Unfavorite(ctx context.Context, userID, googleID string) error {
	book, err := s.bookRepo.FindByGoogleID(ctx, googleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFavoriteNotFound
		}
		return err
	}

	if err := s.favoriteRepo.Unlike(ctx, userID, book.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFavoriteNotFound
		}
		return err
	}
	return nil
}

// ListFavorites returns the user's actively favorited books
func (s *favoriteService) ListFavorites(ctx context.Context, userID string) ([]models.Book, error) {
	favorites, err := s.favoriteRepo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	books := make([]models.Book, 0, len(favorites))
	for _, favorite := range favorites {
		if favorite.Book != nil {
			books = append(books, *favorite.Book)
		}
	}
	return books, nil
}
