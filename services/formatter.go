package services

import (
	"fmt"
	"strings"

	"github.com/mariaeduaruda/book-recommender/models"
)

const descriptionWordLimit = 30

// TruncateDescription keeps the first descriptionWordLimit whitespace-separated
// words and always appends an ellipsis.
func TruncateDescription(description string) string {
	words := strings.Fields(description)
	if len(words) > descriptionWordLimit {
		words = words[:descriptionWordLimit]
	}
	return strings.Join(words, " ") + "..."
}

// FormatAuthors joins a semicolon-delimited author list into a natural
// phrase: "A", "A and B", "A, B, and C".
func FormatAuthors(authors string) string {
	split := strings.Split(authors, ";")
	switch {
	case len(split) == 2:
		return fmt.Sprintf("%s and %s", split[0], split[1])
	case len(split) > 2:
		return fmt.Sprintf("%s, and %s", strings.Join(split[:len(split)-1], ", "), split[len(split)-1])
	default:
		return authors
	}
}

// GalleryItems converts books into cover cards, preserving input order.
func GalleryItems(books []models.Book) []models.GalleryItem {
	items := make([]models.GalleryItem, 0, len(books))
	for _, book := range books {
		caption := fmt.Sprintf("%s by %s: %s", book.Title, FormatAuthors(book.Authors), TruncateDescription(book.Description))
		items = append(items, models.GalleryItem{
			Image:   book.LargeThumbnail,
			Caption: caption,
		})
	}
	return items
}
