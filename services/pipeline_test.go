package services

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/mariaeduaruda/book-recommender/config"
	"github.com/mariaeduaruda/book-recommender/storage"
)

// memorySearcher is an in-memory similarity index over simple embeddings,
// standing in for the Mongo-backed store.
type memorySearcher struct {
	isbns      []int64
	texts      []string
	embeddings [][]float32
}

func newMemorySearcher(t *testing.T, lines string) *memorySearcher {
	t.Helper()

	descriptions, err := SplitTaggedDescriptions(strings.NewReader(lines))
	if err != nil {
		t.Fatalf("Failed to split descriptions: %v", err)
	}

	m := &memorySearcher{}
	for _, desc := range descriptions {
		m.isbns = append(m.isbns, desc.ISBN13)
		m.texts = append(m.texts, desc.Text)
		m.embeddings = append(m.embeddings, simpleEmbedding(desc.Text))
	}
	return m
}

func (m *memorySearcher) VectorSearch(ctx context.Context, queryEmbedding []float32, limit int) ([]storage.SearchHit, error) {
	hits := make([]storage.SearchHit, len(m.isbns))
	for i := range m.isbns {
		hits[i] = storage.SearchHit{
			ISBN13: m.isbns[i],
			Text:   m.texts[i],
			Score:  cos(queryEmbedding, m.embeddings[i]),
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func TestRecommendPipelineEndToEnd(t *testing.T) {
	catalog, err := ReadCatalog(strings.NewReader(catalogCSV))
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}

	store := newMemorySearcher(t, strings.Join([]string{
		"9780002005883 A story about forgiveness, grace and an aging preacher writing to his son.",
		"9780002261982 A crime play full of twists and a hidden body.",
		"9780006280897 An essay about suffering, pain and why we forgive.",
	}, "\n"))

	embedder, err := NewEmbedder(&config.Config{EmbeddingProvider: "simple"})
	if err != nil {
		t.Fatalf("Failed to create embedder: %v", err)
	}

	recommender := NewRecommender(catalog, store, embedder, 50, 16)
	books, err := recommender.Recommend(context.Background(), "a story about forgiveness", "All", "All")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(books) == 0 || len(books) > 16 {
		t.Fatalf("Expected between 1 and 16 books, got %d", len(books))
	}

	items := GalleryItems(books)
	if len(items) != len(books) {
		t.Fatalf("Expected %d gallery items, got %d", len(books), len(items))
	}
	for i, item := range items {
		if !strings.Contains(item.Caption, books[i].Title) {
			t.Errorf("Caption %q missing title %q", item.Caption, books[i].Title)
		}
		if item.Image == "" {
			t.Errorf("Item %d has no image", i)
		}
	}
}
