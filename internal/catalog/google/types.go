package google

// API response types for the Google Books volumes API.
// Only the fields Bookly reads are mapped; the rest of the payload is ignored.

// Volume is a single catalog entry as returned by GET /volumes/{id}
type Volume struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

// VolumeInfo holds the book metadata block of a volume
type VolumeInfo struct {
	Title         string      `json:"title"`
	Authors       []string    `json:"authors,omitempty"`
	Description   string      `json:"description,omitempty"`
	PublishedDate string      `json:"publishedDate,omitempty"`
	PageCount     int         `json:"pageCount,omitempty"`
	Categories    []string    `json:"categories,omitempty"`
	ImageLinks    *ImageLinks `json:"imageLinks,omitempty"`
	Language      string      `json:"language,omitempty"`
}

// ImageLinks holds the cover image URLs of a volume
type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail,omitempty"`
	Thumbnail      string `json:"thumbnail,omitempty"`
}

// VolumeList is the response of a free-text search, GET /volumes?q=...
type VolumeList struct {
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}
