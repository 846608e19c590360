package models

import "time"

// Favorite marks a user's interest in a book. Unfavoriting stamps UnlikedAt
// instead of deleting the row, keeping history; the partial unique index
// allows at most one active row per (user, book).
type Favorite struct {
	ID        int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string     `json:"user_id" gorm:"type:uuid;not null;index;uniqueIndex:uniq_active_favorite,where:unliked_at IS NULL"`
	BookID    int64      `json:"book_id" gorm:"not null;index;uniqueIndex:uniq_active_favorite,where:unliked_at IS NULL"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UnlikedAt *time.Time `json:"unliked_at,omitempty"`

	// Associations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Book *Book `json:"book,omitempty" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;"`
}

func (Favorite) TableName() string {
	return "favorites"
}
