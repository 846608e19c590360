package dto

import (
	"time"

	"bookly/internal/http-api/models"
)

// ScoreRequest for creating or updating a rating
type ScoreRequest struct {
	Score int `json:"score" binding:"required,min=1,max=5"`
}

// RatingResponse for returning rating information on a book page
type RatingResponse struct {
	DisplayName string    `json:"display_name"`
	Score       int       `json:"score"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromModelToRatingResponse converts a Rating model to RatingResponse DTO
func FromModelToRatingResponse(rating *models.Rating) *RatingResponse {
	displayName := ""
	if rating.User != nil {
		displayName = rating.User.DisplayName
	}
	return &RatingResponse{
		DisplayName: displayName,
		Score:       rating.Score,
		CreatedAt:   rating.CreatedAt,
		UpdatedAt:   rating.UpdatedAt,
	}
}

// UserRatingResponse for returning a rating in the viewer's own list
type UserRatingResponse struct {
	Book      models.Book `json:"book"`
	Score     int         `json:"score"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// FromModelToUserRatingResponse converts a Rating with a preloaded Book
func FromModelToUserRatingResponse(rating *models.Rating) *UserRatingResponse {
	resp := &UserRatingResponse{
		Score:     rating.Score,
		CreatedAt: rating.CreatedAt,
		UpdatedAt: rating.UpdatedAt,
	}
	if rating.Book != nil {
		resp.Book = *rating.Book
	}
	return resp
}
