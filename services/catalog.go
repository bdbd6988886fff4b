package services

import (
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"github.com/mariaeduaruda/book-recommender/models"
)

const (
	// query suffix that upgrades a Google Books thumbnail to 800px
	largeThumbnailSuffix = "&fife=w800"
	placeholderCover     = "cover-not-found.jpg"
)

// Catalog is the in-memory book table, loaded once at startup.
type Catalog struct {
	Books      []models.Book
	byISBN     map[int64]int
	categories []string
}

// LoadCatalog reads the catalog CSV from path.
func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	catalog, err := ReadCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", path, err)
	}

	log.Printf("Loaded %d books (%d categories) from %s", len(catalog.Books), len(catalog.categories), path)
	return catalog, nil
}

// ReadCatalog parses catalog CSV data into an in-memory table. Columns are
// addressed by header name, so extra columns in the file are ignored.
func ReadCatalog(r io.Reader) (*Catalog, error) {
	df := dataframe.ReadCSV(r)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", df.Err)
	}

	col := make(map[string]int, len(df.Names()))
	for i, name := range df.Names() {
		col[name] = i
	}
	for _, required := range []string{
		"isbn13", "title", "authors", "description", "simple_categories",
		"thumbnail", "joy", "surprise", "anger", "fear", "sadness",
	} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("catalog is missing column %q", required)
		}
	}

	str := func(row int, name string) string {
		s := df.Elem(row, col[name]).String()
		if s == "NaN" {
			return ""
		}
		return s
	}
	num := func(row int, name string) float64 {
		v := df.Elem(row, col[name]).Float()
		if math.IsNaN(v) {
			return 0
		}
		return v
	}

	books := make([]models.Book, 0, df.Nrow())
	byISBN := make(map[int64]int, df.Nrow())
	categorySet := make(map[string]bool)

	for i := 0; i < df.Nrow(); i++ {
		isbn, err := strconv.ParseInt(strings.TrimSpace(str(i, "isbn13")), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid isbn13: %w", i, err)
		}

		book := models.Book{
			ISBN13:      isbn,
			Title:       str(i, "title"),
			Authors:     str(i, "authors"),
			Description: str(i, "description"),
			Category:    str(i, "simple_categories"),
			Thumbnail:   str(i, "thumbnail"),
			Joy:         num(i, "joy"),
			Surprise:    num(i, "surprise"),
			Anger:       num(i, "anger"),
			Fear:        num(i, "fear"),
			Sadness:     num(i, "sadness"),
		}
		book.LargeThumbnail = deriveLargeThumbnail(book.Thumbnail)

		byISBN[book.ISBN13] = len(books)
		books = append(books, book)
		if book.Category != "" {
			categorySet[book.Category] = true
		}
	}

	categories := make([]string, 0, len(categorySet))
	for category := range categorySet {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	return &Catalog{
		Books:      books,
		byISBN:     byISBN,
		categories: categories,
	}, nil
}

// missing covers fall back to the bundled placeholder image
func deriveLargeThumbnail(thumbnail string) string {
	if thumbnail == "" {
		return placeholderCover
	}
	return thumbnail + largeThumbnailSuffix
}

// ByISBN returns the catalog row for an ISBN, if present.
func (c *Catalog) ByISBN(isbn int64) (models.Book, bool) {
	i, ok := c.byISBN[isbn]
	if !ok {
		return models.Book{}, false
	}
	return c.Books[i], true
}

// Categories returns "All" followed by every distinct category, sorted.
func (c *Catalog) Categories() []string {
	return append([]string{"All"}, c.categories...)
}
