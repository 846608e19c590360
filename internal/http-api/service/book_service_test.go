package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"bookly/internal/cache"
	"bookly/internal/catalog/google"
	"bookly/internal/http-api/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockBookRepository mocks the BookRepository interface
type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) Create(ctx context.Context, book *models.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepository) FindByID(ctx context.Context, id int64) (*models.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookRepository) FindByGoogleID(ctx context.Context, googleID string) (*models.Book, error) {
	args := m.Called(ctx, googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookRepository) List(ctx context.Context) ([]models.Book, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Book), args.Error(1)
}

// MockFavoriteRepository mocks the FavoriteRepository interface
type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) Create(ctx context.Context, favorite *models.Favorite) error {
	args := m.Called(ctx, favorite)
	return args.Error(0)
}

func (m *MockFavoriteRepository) FindActive(ctx context.Context, userID string, bookID int64) (*models.Favorite, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Favorite), args.Error(1)
}

func (m *MockFavoriteRepository) Unlike(ctx context.Context, userID string, bookID int64) error {
	args := m.Called(ctx, userID, bookID)
	return args.Error(0)
}

func (m *MockFavoriteRepository) ListActiveByUser(ctx context.Context, userID string) ([]models.Favorite, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Favorite), args.Error(1)
}

func (m *MockFavoriteRepository) CountActive(ctx context.Context, bookID int64) (int64, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).(int64), args.Error(1)
}

// MockRatingRepository mocks the RatingRepository interface
type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

func (m *MockRatingRepository) Update(ctx context.Context, rating *models.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

func (m *MockRatingRepository) Delete(ctx context.Context, userID string, bookID int64) error {
	args := m.Called(ctx, userID, bookID)
	return args.Error(0)
}

func (m *MockRatingRepository) GetByUserAndBook(ctx context.Context, userID string, bookID int64) (*models.Rating, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingRepository) ListByBook(ctx context.Context, bookID int64) ([]models.Rating, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Rating), args.Error(1)
}

func (m *MockRatingRepository) ListByUser(ctx context.Context, userID string) ([]models.Rating, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Rating), args.Error(1)
}

func (m *MockRatingRepository) CalculateAverage(ctx context.Context, bookID int64) (float64, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockRatingRepository) Count(ctx context.Context, bookID int64) (int64, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).(int64), args.Error(1)
}

// MockReviewRepository mocks the ReviewRepository interface
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Update(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, userID string, bookID int64) error {
	args := m.Called(ctx, userID, bookID)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByUserAndBook(ctx context.Context, userID string, bookID int64) (*models.Review, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByBook(ctx context.Context, bookID int64) ([]models.Review, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByUser(ctx context.Context, userID string) ([]models.Review, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewRepository) Count(ctx context.Context, bookID int64) (int64, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).(int64), args.Error(1)
}

// MockCatalogClient mocks the external catalog
type MockCatalogClient struct {
	mock.Mock
}

func (m *MockCatalogClient) GetVolume(ctx context.Context, id string) (*google.Volume, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*google.Volume), args.Error(1)
}

func (m *MockCatalogClient) Search(ctx context.Context, query string, maxResults int) (*google.VolumeList, error) {
	args := m.Called(ctx, query, maxResults)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*google.VolumeList), args.Error(1)
}

// MockSearchCache mocks the search cache
type MockSearchCache struct {
	mock.Mock
}

func (m *MockSearchCache) Get(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *MockSearchCache) Set(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

type bookServiceMocks struct {
	bookRepo     *MockBookRepository
	favoriteRepo *MockFavoriteRepository
	ratingRepo   *MockRatingRepository
	reviewRepo   *MockReviewRepository
	catalog      *MockCatalogClient
	searchCache  *MockSearchCache
}

func newTestBookService() (BookService, *bookServiceMocks) {
	m := &bookServiceMocks{
		bookRepo:     new(MockBookRepository),
		favoriteRepo: new(MockFavoriteRepository),
		ratingRepo:   new(MockRatingRepository),
		reviewRepo:   new(MockReviewRepository),
		catalog:      new(MockCatalogClient),
		searchCache:  new(MockSearchCache),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewBookService(m.bookRepo, m.favoriteRepo, m.ratingRepo, m.reviewRepo, m.catalog, m.searchCache, logger)
	return svc, m
}

func (m *bookServiceMocks) expectEmptyAggregate(bookID int64) {
	m.ratingRepo.On("CalculateAverage", mock.Anything, bookID).Return(0.0, nil)
	m.favoriteRepo.On("CountActive", mock.Anything, bookID).Return(int64(0), nil)
	m.reviewRepo.On("Count", mock.Anything, bookID).Return(int64(0), nil)
}

func TestGetBookDetail_FirstSight(t *testing.T) {
	svc, m := newTestBookService()

	volume := &google.Volume{
		ID: "vol-1",
		VolumeInfo: google.VolumeInfo{
			Title:   "The Go Programming Language",
			Authors: []string{"Alan Donovan", "Brian Kernighan"},
		},
	}

	m.bookRepo.On("FindByGoogleID", mock.Anything, "vol-1").Return(nil, gorm.ErrRecordNotFound)
	m.catalog.On("GetVolume", mock.Anything, "vol-1").Return(volume, nil)
	m.bookRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Book")).Return(nil)
	m.expectEmptyAggregate(0)

	detail, err := svc.GetBookDetail(context.Background(), "vol-1", "")

	assert.NoError(t, err)
	assert.Equal(t, "vol-1", detail.Book.GoogleBooksID)
	assert.Equal(t, "The Go Programming Language", detail.Book.Title)
	assert.NotNil(t, detail.ExternalMetadata)
	assert.Equal(t, 0.0, detail.Aggregate.AverageRating)
	assert.Nil(t, detail.ViewerState)
	m.bookRepo.AssertExpectations(t)
	m.catalog.AssertExpectations(t)
}

func TestGetBookDetail_LocalFallback(t *testing.T) {
	svc, m := newTestBookService()

	book := &models.Book{ID: 7, GoogleBooksID: "vol-1", Title: "Cached Title"}

	m.bookRepo.On("FindByGoogleID", mock.Anything, "vol-1").Return(book, nil)
	m.catalog.On("GetVolume", mock.Anything, "vol-1").Return(nil, errors.New("connection refused"))
	m.expectEmptyAggregate(7)

	detail, err := svc.GetBookDetail(context.Background(), "vol-1", "")

	assert.NoError(t, err)
	assert.Equal(t, "Cached Title", detail.Book.Title)
	assert.Nil(t, detail.ExternalMetadata)
}

func TestGetBookDetail_UnknownVolume(t *testing.T) {
	svc, m := newTestBookService()

	m.bookRepo.On("FindByGoogleID", mock.Anything, "nope").Return(nil, gorm.ErrRecordNotFound)
	m.catalog.On("GetVolume", mock.Anything, "nope").Return(nil, google.ErrVolumeNotFound)

	detail, err := svc.GetBookDetail(context.Background(), "nope", "")

	assert.Equal(t, ErrBookNotFound, err)
	assert.Nil(t, detail)
}

func TestGetBookDetail_CatalogDownAndNoLocalRecord(t *testing.T) {
	svc, m := newTestBookService()

	m.bookRepo.On("FindByGoogleID", mock.Anything, "vol-1").Return(nil, gorm.ErrRecordNotFound)
	m.catalog.On("GetVolume", mock.Anything, "vol-1").Return(nil, errors.New("timeout"))

	detail, err := svc.GetBookDetail(context.Background(), "vol-1", "")

	assert.ErrorIs(t, err, ErrCatalogUnavailable)
	assert.Nil(t, detail)
}

func TestGetBookDetail_LosesCreateRace(t *testing.T) {
	svc, m := newTestBookService()

	volume := &google.Volume{ID: "vol-1", VolumeInfo: google.VolumeInfo{Title: "Racy"}}
	winner := &models.Book{ID: 42, GoogleBooksID: "vol-1", Title: "Racy"}

	m.bookRepo.On("FindByGoogleID", mock.Anything, "vol-1").Return(nil, gorm.ErrRecordNotFound).Once()
	m.catalog.On("GetVolume", mock.Anything, "vol-1").Return(volume, nil)
	m.bookRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Book")).
		Return(&pgconn.PgError{Code: "23505"})
	m.bookRepo.On("FindByGoogleID", mock.Anything, "vol-1").Return(winner, nil).Once()
	m.expectEmptyAggregate(42)

	detail, err := svc.GetBookDetail(context.Background(), "vol-1", "")

	assert.NoError(t, err)
	assert.Equal(t, int64(42), detail.Book.ID)
	m.bookRepo.AssertExpectations(t)
}

func TestGetBookDetail_ViewerState(t *testing.T) {
	svc, m := newTestBookService()

	book := &models.Book{ID: 7, GoogleBooksID: "vol-1", Title: "Cached Title"}
	rating := &models.Rating{UserID: "user-1", BookID: 7, Score: 4}

	m.bookRepo.On("FindByGoogleID", mock.Anything, "vol-1").Return(book, nil)
	m.catalog.On("GetVolume", mock.Anything, "vol-1").Return(nil, errors.New("down"))
	m.expectEmptyAggregate(7)
	m.favoriteRepo.On("FindActive", mock.Anything, "user-1", int64(7)).Return(&models.Favorite{}, nil)
	m.ratingRepo.On("GetByUserAndBook", mock.Anything, "user-1", int64(7)).Return(rating, nil)
	m.reviewRepo.On("GetByUserAndBook", mock.Anything, "user-1", int64(7)).Return(nil, gorm.ErrRecordNotFound)

	detail, err := svc.GetBookDetail(context.Background(), "vol-1", "user-1")

	assert.NoError(t, err)
	assert.NotNil(t, detail.ViewerState)
	assert.True(t, detail.ViewerState.Favorited)
	assert.Equal(t, 4, *detail.ViewerState.Score)
	assert.Nil(t, detail.ViewerState.Review)
}

func TestEnsureBook_AlreadyKnown(t *testing.T) {
	svc, m := newTestBookService()

	book := &models.Book{ID: 7, GoogleBooksID: "vol-1"}
	m.bookRepo.On("FindByGoogleID", mock.Anything, "vol-1").Return(book, nil)

	got, err := svc.EnsureBook(context.Background(), "vol-1")

	assert.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	m.catalog.AssertNotCalled(t, "GetVolume", mock.Anything, mock.Anything)
}

func TestEnsureBook_UnknownVolume(t *testing.T) {
	svc, m := newTestBookService()

	m.bookRepo.On("FindByGoogleID", mock.Anything, "nope").Return(nil, gorm.ErrRecordNotFound)
	m.catalog.On("GetVolume", mock.Anything, "nope").Return(nil, google.ErrVolumeNotFound)

	got, err := svc.EnsureBook(context.Background(), "nope")

	assert.Equal(t, ErrBookNotFound, err)
	assert.Nil(t, got)
}

func TestSearch_CacheMiss(t *testing.T) {
	svc, m := newTestBookService()

	list := &google.VolumeList{
		TotalItems: 1,
		Items:      []google.Volume{{ID: "vol-1"}},
	}

	m.searchCache.On("Get", mock.Anything, "search:golang", mock.Anything).Return(cache.ErrCacheMiss)
	m.catalog.On("Search", mock.Anything, "golang", 0).Return(list, nil)
	m.searchCache.On("Set", mock.Anything, "search:golang", list).Return(nil)

	resp, err := svc.Search(context.Background(), "golang")

	assert.NoError(t, err)
	assert.False(t, resp.Cached)
	assert.Equal(t, 1, resp.TotalItems)
	assert.Len(t, resp.Items, 1)
	m.searchCache.AssertExpectations(t)
}

func TestSearch_CacheHit(t *testing.T) {
	svc, m := newTestBookService()

	m.searchCache.On("Get", mock.Anything, "search:golang", mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(2).(*google.VolumeList)
			dest.TotalItems = 3
			dest.Items = []google.Volume{{ID: "a"}, {ID: "b"}, {ID: "c"}}
		}).
		Return(nil)

	resp, err := svc.Search(context.Background(), "Golang")

	assert.NoError(t, err)
	assert.True(t, resp.Cached)
	assert.Equal(t, 3, resp.TotalItems)
	m.catalog.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearch_CatalogFailure(t *testing.T) {
	svc, m := newTestBookService()

	m.searchCache.On("Get", mock.Anything, "search:golang", mock.Anything).Return(cache.ErrCacheMiss)
	m.catalog.On("Search", mock.Anything, "golang", 0).Return(nil, errors.New("quota exceeded"))

	resp, err := svc.Search(context.Background(), "golang")

	assert.ErrorIs(t, err, ErrCatalogUnavailable)
	assert.Nil(t, resp)
}

func TestListBooks_WithAggregates(t *testing.T) {
	svc, m := newTestBookService()

	books := []models.Book{
		{ID: 1, GoogleBooksID: "vol-1", Title: "One"},
		{ID: 2, GoogleBooksID: "vol-2", Title: "Two"},
	}

	m.bookRepo.On("List", mock.Anything).Return(books, nil)
	m.ratingRepo.On("CalculateAverage", mock.Anything, int64(1)).Return(4.5, nil)
	m.favoriteRepo.On("CountActive", mock.Anything, int64(1)).Return(int64(2), nil)
	m.reviewRepo.On("Count", mock.Anything, int64(1)).Return(int64(1), nil)
	m.expectEmptyAggregate(2)

	got, err := svc.ListBooks(context.Background())

	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 4.5, got[0].Aggregate.AverageRating)
	assert.Equal(t, int64(2), got[0].Aggregate.FavoriteCount)
	assert.Equal(t, 0.0, got[1].Aggregate.AverageRating)
}
