package dto

import (
	"html"
	"time"

	"bookly/internal/http-api/models"
)

// ReviewRequest for creating or updating a review
type ReviewRequest struct {
	Text string `json:"text" binding:"required,min=1,max=5000"`
}

// ReviewResponse for returning a review on a book page
type ReviewResponse struct {
	ID          int64     `json:"id"`
	DisplayName string    `json:"display_name"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Sanitize escapes HTML markup in user-provided text so injected script tags
// never reach a rendering client as live markup.
func Sanitize(text string) string {
	return html.EscapeString(text)
}

// FromModelToReviewResponse converts a Review model to ReviewResponse DTO
func FromModelToReviewResponse(review *models.Review) *ReviewResponse {
	displayName := ""
	if review.User != nil {
		displayName = review.User.DisplayName
	}
	return &ReviewResponse{
		ID:          review.ID,
		DisplayName: displayName,
		Text:        Sanitize(review.Text),
		CreatedAt:   review.CreatedAt,
		UpdatedAt:   review.UpdatedAt,
	}
}

// UserReviewResponse for returning a review in the viewer's own list
type UserReviewResponse struct {
	Book      models.Book `json:"book"`
	Text      string      `json:"text"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// FromModelToUserReviewResponse converts a Review with a preloaded Book
func FromModelToUserReviewResponse(review *models.Review) *UserReviewResponse {
	resp := &UserReviewResponse{
		Text:      Sanitize(review.Text),
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
	if review.Book != nil {
		resp.Book = *review.Book
	}
	return resp
}
