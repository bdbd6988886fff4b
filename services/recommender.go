package services

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/mariaeduaruda/book-recommender/models"
	"github.com/mariaeduaruda/book-recommender/storage"
)

// Tones recognized by the dashboard, besides "All".
var Tones = []string{"Happy", "Surprising", "Angry", "Suspenseful", "Sad"}

// each tone maps to one precomputed emotion column
var toneScore = map[string]func(models.Book) float64{
	"Happy":       func(b models.Book) float64 { return b.Joy },
	"Surprising":  func(b models.Book) float64 { return b.Surprise },
	"Angry":       func(b models.Book) float64 { return b.Anger },
	"Suspenseful": func(b models.Book) float64 { return b.Fear },
	"Sad":         func(b models.Book) float64 { return b.Sadness },
}

// VectorSearcher is the similarity index the recommender queries.
type VectorSearcher interface {
	VectorSearch(ctx context.Context, queryEmbedding []float32, limit int) ([]storage.SearchHit, error)
}

// EmbeddingProvider turns query text into an embedding vector.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Recommender answers free-text queries with filtered, tone-sorted catalog rows.
// 1. Embed the query and fetch the initialTopK nearest descriptions
// 2. Join the hit ISBNs back to catalog rows, in catalog order
// 3. Apply the optional category filter, truncate to finalTopK
// 4. Sort by the selected tone's emotion score, if any
type Recommender struct {
	catalog     *Catalog
	store       VectorSearcher
	embedder    EmbeddingProvider
	initialTopK int
	finalTopK   int
}

func NewRecommender(catalog *Catalog, store VectorSearcher, embedder EmbeddingProvider, initialTopK, finalTopK int) *Recommender {
	return &Recommender{
		catalog:     catalog,
		store:       store,
		embedder:    embedder,
		initialTopK: initialTopK,
		finalTopK:   finalTopK,
	}
}

// Recommend returns at most finalTopK books for the query. Zero matches is a
// valid empty result, not an error.
func (r *Recommender) Recommend(ctx context.Context, query, category, tone string) ([]models.Book, error) {
	queryEmbedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	hits, err := r.store.VectorSearch(ctx, queryEmbedding, r.initialTopK)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	hitSet := make(map[int64]bool, len(hits))
	for _, hit := range hits {
		hitSet[hit.ISBN13] = true
	}

	// join hits back to catalog rows; hits without a catalog row are dropped,
	// and order follows the catalog, not similarity rank
	books := make([]models.Book, 0, len(hitSet))
	for _, book := range r.catalog.Books {
		if !hitSet[book.ISBN13] {
			continue
		}
		books = append(books, book)
		if len(books) == r.initialTopK {
			break
		}
	}

	// the category filter runs on the already-truncated candidate set, so a
	// narrow category can surface fewer than finalTopK rows
	if category != "All" && category != "" {
		filtered := books[:0]
		for _, book := range books {
			if book.Category == category {
				filtered = append(filtered, book)
			}
		}
		books = filtered
	}
	if len(books) > r.finalTopK {
		books = books[:r.finalTopK]
	}

	if score, ok := toneScore[tone]; ok {
		sort.SliceStable(books, func(i, j int) bool {
			return score(books[i]) > score(books[j])
		})
	}

	log.Printf("Query %q (category: %s, tone: %s): %d hits, %d results", query, category, tone, len(hits), len(books))
	return books, nil
}
