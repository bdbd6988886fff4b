package models

// Book is one catalog row, loaded once at startup and never mutated.
type Book struct {
	ISBN13         int64   `json:"isbn13"`
	Title          string  `json:"title"`
	Authors        string  `json:"authors"` // semicolon-delimited
	Description    string  `json:"description"`
	Category       string  `json:"category"`
	Thumbnail      string  `json:"thumbnail"`
	LargeThumbnail string  `json:"large_thumbnail"`
	Joy            float64 `json:"joy"`
	Surprise       float64 `json:"surprise"`
	Anger          float64 `json:"anger"`
	Fear           float64 `json:"fear"`
	Sadness        float64 `json:"sadness"`
}

// Description is one line of the tagged descriptions file: a leading ISBN
// token followed by free text. Text keeps the full line as written.
type Description struct {
	ISBN13 int64
	Text   string
}

type RecommendRequest struct {
	Query    string `json:"query" binding:"required"`
	Category string `json:"category,omitempty"`
	Tone     string `json:"tone,omitempty"`
}

type RecommendResponse struct {
	Results          []GalleryItem `json:"results"`
	Count            int           `json:"count"`
	ProcessingTimeMs int64         `json:"processing_time_ms"`
}

// GalleryItem is one cover card in the dashboard gallery.
type GalleryItem struct {
	Image   string `json:"image"`
	Caption string `json:"caption"`
}
