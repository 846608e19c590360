package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"bookly/internal/cache"
	"bookly/internal/catalog/google"
	"bookly/internal/http-api/dto"
	"bookly/internal/http-api/models"
	"bookly/internal/http-api/repository"

	"gorm.io/gorm"
)

var (
	ErrBookNotFound       = errors.New("book not found")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

// CatalogClient is the slice of the external catalog the book service needs
type CatalogClient interface {
	GetVolume(ctx context.Context, id string) (*google.Volume, error)
	Search(ctx context.Context, query string, maxResults int) (*google.VolumeList, error)
}

// SearchCache is the cache surface used for proxied search results
type SearchCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
}

type BookService interface {
	GetBookDetail(ctx context.Context, googleID, viewerID string) (*dto.BookDetailResponse, error)
	EnsureBook(ctx context.Context, googleID string) (*models.Book, error)
	Search(ctx context.Context, query string) (*dto.SearchResponse, error)
	ListBooks(ctx context.Context) ([]dto.BookWithStats, error)
}

type bookService struct {
	bookRepo     repository.BookRepository
	favoriteRepo repository.FavoriteRepository
	ratingRepo   repository.RatingRepository
	reviewRepo   repository.ReviewRepository
	catalog      CatalogClient
	searchCache  SearchCache
	logger       *slog.Logger
}

func NewBookService(
	bookRepo repository.BookRepository,
	favoriteRepo repository.FavoriteRepository,
	ratingRepo repository.RatingRepository,
	reviewRepo repository.ReviewRepository,
	catalog CatalogClient,
	searchCache SearchCache,
	logger *slog.Logger,
) BookService {
	return &bookService{
		bookRepo:     bookRepo,
		favoriteRepo: favoriteRepo,
		ratingRepo:   ratingRepo,
		reviewRepo:   reviewRepo,
		catalog:      catalog,
		searchCache:  searchCache,
		logger:       logger,
	}
}

// GetBookDetail returns the unified view for one external catalog ID: live
// external metadata merged with the local record and its derived aggregates.
//
// Reconciliation policy:
//   - no local record yet and the catalog answered: create the record seeded
//     from the catalog metadata (first sight); a concurrent creator winning
//     the race is fine, its row is re-read
//   - local record exists but the catalog failed: serve the local-only view,
//     externalMetadata omitted, no error
//   - neither: not-found or catalog failure, depending on what the catalog said
func (s *bookService) GetBookDetail(ctx context.Context, googleID, viewerID string) (*dto.BookDetailResponse, error) {
	book, err := s.bookRepo.FindByGoogleID(ctx, googleID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	volume, catalogErr := s.catalog.GetVolume(ctx, googleID)

	if book == nil {
		if catalogErr != nil {
			if errors.Is(catalogErr, google.ErrVolumeNotFound) {
				return nil, ErrBookNotFound
			}
			return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, catalogErr)
		}
		book, err = s.createFromVolume(ctx, volume)
		if err != nil {
			return nil, err
		}
	} else if catalogErr != nil {
		s.logger.Warn("catalog fetch failed, serving local record only",
			"google_books_id", googleID, "error", catalogErr)
	}

	aggregate, err := s.aggregateFor(ctx, book.ID)
	if err != nil {
		return nil, err
	}

	resp := &dto.BookDetailResponse{
		Book:      *book,
		Aggregate: aggregate,
	}
	if volume != nil {
		resp.ExternalMetadata = dto.FromVolumeInfo(&volume.VolumeInfo)
	}

	if viewerID != "" {
		viewerState, err := s.viewerStateFor(ctx, viewerID, book.ID)
		if err != nil {
			return nil, err
		}
		resp.ViewerState = viewerState
	}

	return resp, nil
}

// EnsureBook returns the local record for an external ID, creating it from
// catalog metadata on first sight. Interaction writes (favorite, rate,
// review) go through here so they work before the detail page was ever
// visited.
func (s *bookService) EnsureBook(ctx context.Context, googleID string) (*models.Book, error) {
	book, err := s.bookRepo.FindByGoogleID(ctx, googleID)
	if err == nil {
		return book, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	volume, err := s.catalog.GetVolume(ctx, googleID)
	if err != nil {
		if errors.Is(err, google.ErrVolumeNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	return s.createFromVolume(ctx, volume)
}

// Search proxies a free-text query to the catalog, serving cached results
// when available. Cache failures only cost the cache, never the request.
func (s *bookService) Search(ctx context.Context, query string) (*dto.SearchResponse, error) {
	query = strings.TrimSpace(query)
	key := "search:" + strings.ToLower(query)

	var cached google.VolumeList
	cacheErr := s.searchCache.Get(ctx, key, &cached)
	if cacheErr == nil {
		return &dto.SearchResponse{
			Query:      query,
			TotalItems: cached.TotalItems,
			Items:      cached.Items,
			Cached:     true,
		}, nil
	}
	if !errors.Is(cacheErr, cache.ErrCacheMiss) {
		s.logger.Warn("search cache read failed", "query", query, "error", cacheErr)
	}

	list, err := s.catalog.Search(ctx, query, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	if err := s.searchCache.Set(ctx, key, list); err != nil {
		s.logger.Warn("search cache write failed", "query", query, "error", err)
	}

	return &dto.SearchResponse{
		Query:      query,
		TotalItems: list.TotalItems,
		Items:      list.Items,
	}, nil
}

// ListBooks returns every locally cached book with its aggregates
func (s *bookService) ListBooks(ctx context.Context) ([]dto.BookWithStats, error) {
	books, err := s.bookRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.BookWithStats, 0, len(books))
	for _, book := range books {
		aggregate, err := s.aggregateFor(ctx, book.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.BookWithStats{Book: book, Aggregate: aggregate})
	}
	return out, nil
}

// createFromVolume seeds a local record from catalog metadata. Losing the
// insert race to a concurrent request is not an error: the winner's row is
// the record, so re-read it.
func (s *bookService) createFromVolume(ctx context.Context, volume *google.Volume) (*models.Book, error) {
	book := &models.Book{
		GoogleBooksID: volume.ID,
		Title:         volume.VolumeInfo.Title,
	}
	if book.Title == "" {
		book.Title = volume.ID
	}
	if len(volume.VolumeInfo.Authors) > 0 {
		author := strings.Join(volume.VolumeInfo.Authors, ", ")
		book.Author = &author
	}
	if volume.VolumeInfo.Description != "" {
		description := volume.VolumeInfo.Description
		book.Description = &description
	}
	if volume.VolumeInfo.PublishedDate != "" {
		publishedDate := volume.VolumeInfo.PublishedDate
		book.PublishedDate = &publishedDate
	}
	if volume.VolumeInfo.ImageLinks != nil && volume.VolumeInfo.ImageLinks.Thumbnail != "" {
		coverURL := volume.VolumeInfo.ImageLinks.Thumbnail
		book.CoverURL = &coverURL
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		if repository.IsUniqueViolation(err) {
			return s.bookRepo.FindByGoogleID(ctx, volume.ID)
		}
		return nil, err
	}

	return book, nil
}

func (s *bookService) aggregateFor(ctx context.Context, bookID int64) (dto.BookAggregate, error) {
	average, err := s.ratingRepo.CalculateAverage(ctx, bookID)
	if err != nil {
		return dto.BookAggregate{}, err
	}
	favoriteCount, err := s.favoriteRepo.CountActive(ctx, bookID)
	if err != nil {
		return dto.BookAggregate{}, err
	}
	reviewCount, err := s.reviewRepo.Count(ctx, bookID)
	if err != nil {
		return dto.BookAggregate{}, err
	}

	return dto.BookAggregate{
		AverageRating: average,
		FavoriteCount: favoriteCount,
		ReviewCount:   reviewCount,
	}, nil
}

func (s *bookService) viewerStateFor(ctx context.Context, viewerID string, bookID int64) (*dto.ViewerState, error) {
	state := &dto.ViewerState{}

	if _, err := s.favoriteRepo.FindActive(ctx, viewerID, bookID); err == nil {
		state.Favorited = true
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if rating, err := s.ratingRepo.GetByUserAndBook(ctx, viewerID, bookID); err == nil {
		state.Score = &rating.Score
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if review, err := s.reviewRepo.GetByUserAndBook(ctx, viewerID, bookID); err == nil {
		state.Review = dto.FromModelToReviewResponse(review)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return state, nil
}
