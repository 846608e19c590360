package dto

import (
	"bookly/internal/catalog/google"
	"bookly/internal/http-api/models"
)

// BookAggregate carries the statistics derived from interaction records.
// They are computed live from the store, never persisted.
type BookAggregate struct {
	AverageRating float64 `json:"averageRating"`
	FavoriteCount int64   `json:"favoriteCount"`
	ReviewCount   int64   `json:"reviewCount"`
}

// ViewerState carries the acting user's own interaction with a book
type ViewerState struct {
	Favorited bool            `json:"favorited"`
	Score     *int            `json:"score,omitempty"`
	Review    *ReviewResponse `json:"review,omitempty"`
}

// BookDetailResponse is the unified book view: the local record, the live
// external metadata when the catalog answered, derived aggregates, and the
// viewer's own state for authenticated requests. ExternalMetadata is nil when
// the catalog was unreachable and the local record served as fallback.
type BookDetailResponse struct {
	Book             models.Book         `json:"book"`
	ExternalMetadata *ExternalVolumeInfo `json:"externalMetadata,omitempty"`
	Aggregate        BookAggregate       `json:"aggregate"`
	ViewerState      *ViewerState        `json:"viewerState,omitempty"`
}

// ExternalVolumeInfo is the catalog metadata shaped for clients, with the
// free-text description sanitized before it can reach a page.
type ExternalVolumeInfo struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors,omitempty"`
	Description   string   `json:"description,omitempty"`
	PublishedDate string   `json:"published_date,omitempty"`
	PageCount     int      `json:"page_count,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	CoverURL      string   `json:"cover_url,omitempty"`
	Language      string   `json:"language,omitempty"`
}

// FromVolumeInfo converts catalog metadata into the response shape
func FromVolumeInfo(info *google.VolumeInfo) *ExternalVolumeInfo {
	if info == nil {
		return nil
	}
	resp := &ExternalVolumeInfo{
		Title:         info.Title,
		Authors:       info.Authors,
		Description:   Sanitize(info.Description),
		PublishedDate: info.PublishedDate,
		PageCount:     info.PageCount,
		Categories:    info.Categories,
		Language:      info.Language,
	}
	if info.ImageLinks != nil {
		resp.CoverURL = info.ImageLinks.Thumbnail
	}
	return resp
}

// BookWithStats is a list entry for the cached-books listing
type BookWithStats struct {
	models.Book
	Aggregate BookAggregate `json:"aggregate"`
}

// SearchResponse wraps proxied catalog search results
type SearchResponse struct {
	Query      string          `json:"query"`
	TotalItems int             `json:"total_items"`
	Items      []google.Volume `json:"items"`
	Cached     bool            `json:"cached"`
}
