package models

import "time"

// Book is the local cache record for an external catalog entry. Metadata is
// seeded from the catalog the first time the book is seen and not refreshed
// afterwards; the unique index on google_books_id guarantees one row per
// volume even when two first-sight requests race.
type Book struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	GoogleBooksID string    `json:"google_books_id" gorm:"uniqueIndex;size:64;not null"`
	Title         string    `json:"title" gorm:"not null"`
	Author        *string   `json:"author,omitempty"`
	Description   *string   `json:"description,omitempty" gorm:"type:text"`
	PublishedDate *string   `json:"published_date,omitempty"`
	CoverURL      *string   `json:"cover_url,omitempty"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Book) TableName() string {
	return "books"
}
