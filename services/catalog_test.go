package services

import (
	"reflect"
	"strings"
	"testing"
)

const catalogCSV = `isbn13,title,authors,description,simple_categories,thumbnail,joy,surprise,anger,fear,sadness
9780002005883,Gilead,Marilynne Robinson,An aging preacher writes to his son.,Fiction,http://books.google.com/books/content?id=KQZCPgAACAAJ,0.93,0.11,0.06,0.09,0.12
9780002261982,Spider's Web,Charles Osborne;Agatha Christie,A play adaptation full of twists.,Fiction,,0.25,0.78,0.12,0.65,0.08
9780006280897,The Problem of Pain,Clive Staples Lewis,An essay on suffering.,Nonfiction,http://books.google.com/books/content?id=J3fJDwAAQBAJ,0.10,0.05,0.03,0.21,0.84
`

func TestReadCatalog(t *testing.T) {
	catalog, err := ReadCatalog(strings.NewReader(catalogCSV))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(catalog.Books) != 3 {
		t.Fatalf("Expected 3 books, got %d", len(catalog.Books))
	}

	first := catalog.Books[0]
	if first.ISBN13 != 9780002005883 {
		t.Errorf("ISBN13 = %d, want 9780002005883", first.ISBN13)
	}
	if first.Title != "Gilead" {
		t.Errorf("Title = %q, want %q", first.Title, "Gilead")
	}
	if first.Category != "Fiction" {
		t.Errorf("Category = %q, want %q", first.Category, "Fiction")
	}
	if first.Joy != 0.93 {
		t.Errorf("Joy = %v, want 0.93", first.Joy)
	}
}

func TestReadCatalogThumbnails(t *testing.T) {
	catalog, err := ReadCatalog(strings.NewReader(catalogCSV))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// present thumbnail gets the large-size suffix
	got := catalog.Books[0].LargeThumbnail
	want := "http://books.google.com/books/content?id=KQZCPgAACAAJ&fife=w800"
	if got != want {
		t.Errorf("LargeThumbnail = %q, want %q", got, want)
	}

	// absent thumbnail falls back to the placeholder
	if catalog.Books[1].LargeThumbnail != "cover-not-found.jpg" {
		t.Errorf("LargeThumbnail = %q, want placeholder", catalog.Books[1].LargeThumbnail)
	}
}

func TestCatalogCategories(t *testing.T) {
	catalog, err := ReadCatalog(strings.NewReader(catalogCSV))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := []string{"All", "Fiction", "Nonfiction"}
	if got := catalog.Categories(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Categories() = %v, want %v", got, expected)
	}
}

func TestCatalogByISBN(t *testing.T) {
	catalog, err := ReadCatalog(strings.NewReader(catalogCSV))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	book, ok := catalog.ByISBN(9780006280897)
	if !ok {
		t.Fatal("Expected to find 9780006280897")
	}
	if book.Title != "The Problem of Pain" {
		t.Errorf("Title = %q, want %q", book.Title, "The Problem of Pain")
	}

	if _, ok := catalog.ByISBN(42); ok {
		t.Error("Expected missing ISBN to report not found")
	}
}

func TestReadCatalogMissingColumn(t *testing.T) {
	csv := "isbn13,title\n9780002005883,Gilead\n"
	if _, err := ReadCatalog(strings.NewReader(csv)); err == nil {
		t.Fatal("Expected an error for missing required columns")
	}
}
