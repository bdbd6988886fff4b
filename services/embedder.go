package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/mariaeduaruda/book-recommender/config"
)

const simpleEmbeddingDim = 128

// Embedder turns text into embedding vectors. Three providers: the OpenAI
// API, a local Ollama instance, or a dependency-free hashed bag-of-words
// ("simple") used for development and tests.
type Embedder struct {
	Provider string
	Model    string

	openaiClient *openai.Client
	ollamaLLM    *ollama.LLM
}

func NewEmbedder(cfg *config.Config) (*Embedder, error) {
	e := &Embedder{Provider: cfg.EmbeddingProvider}

	switch cfg.EmbeddingProvider {
	case "simple":
		e.Model = "simple"
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
		e.Model = cfg.OpenAIEmbedModel
		e.openaiClient = openai.NewClient(cfg.OpenAIAPIKey)
	case "ollama":
		llm, err := ollama.New(
			ollama.WithServerURL(cfg.OllamaURL),
			ollama.WithModel(cfg.OllamaEmbedModel),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to init ollama: %w", err)
		}
		e.Model = cfg.OllamaEmbedModel
		e.ollamaLLM = llm
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.EmbeddingProvider)
	}

	return e, nil
}

// Embed generates the embedding vector for a single text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// EmbedBatch generates embedding vectors for multiple texts in one provider
// call where the provider supports it.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts to embed")
	}

	startTime := time.Now()

	var (
		embeddings [][]float32
		err        error
	)
	switch e.Provider {
	case "simple":
		embeddings = make([][]float32, len(texts))
		for i, text := range texts {
			embeddings[i] = simpleEmbedding(text)
		}
	case "openai":
		embeddings, err = e.embedOpenAI(ctx, texts)
	case "ollama":
		embeddings, err = e.ollamaLLM.CreateEmbedding(ctx, texts)
	default:
		err = fmt.Errorf("unknown embedding provider %q", e.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings (%s): %w", e.Provider, err)
	}

	if len(embeddings) != len(texts) {
		return nil, fmt.Errorf("provider returned %d embeddings for %d texts", len(embeddings), len(texts))
	}
	for i, embedding := range embeddings {
		if len(embedding) == 0 {
			return nil, fmt.Errorf("received empty embedding for text %d", i)
		}
	}

	if len(texts) > 1 {
		log.Printf("Generated %d embeddings in %v (model: %s)", len(texts), time.Since(startTime), e.Model)
	}
	return embeddings, nil
}

func (e *Embedder) embedOpenAI(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := e.openaiClient.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(e.Model),
	})
	if err != nil {
		return nil, fmt.Errorf("openai API error: %w", err)
	}

	embeddings := make([][]float32, len(resp.Data))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(embeddings) {
			return nil, fmt.Errorf("openai returned out-of-range index %d", item.Index)
		}
		embeddings[item.Index] = item.Embedding
	}
	return embeddings, nil
}

// TestConnection verifies the provider is reachable before indexing starts.
func (e *Embedder) TestConnection(ctx context.Context) error {
	if e.Provider == "simple" {
		return nil
	}
	if _, err := e.Embed(ctx, "test"); err != nil {
		return fmt.Errorf("embedding provider check failed: %w", err)
	}
	return nil
}

// simpleEmbedding creates a lightweight embedding using word frequency
func simpleEmbedding(text string) []float32 {
	text = strings.ToLower(text)
	words := strings.Fields(text)

	embedding := make([]float32, simpleEmbeddingDim)
	if len(words) == 0 {
		return embedding
	}

	wordCounts := make(map[string]int)
	for _, word := range words {
		word = strings.Trim(word, ".,!?;:\"'()[]{}")
		if len(word) > 0 {
			wordCounts[word]++
		}
	}

	for word, count := range wordCounts {
		hash := 0
		for _, char := range word {
			hash = hash*31 + int(char)
		}
		pos := (hash & 0x7FFFFFFF) % simpleEmbeddingDim
		embedding[pos] += float32(count) / float32(len(words))
	}

	var norm float32
	for _, val := range embedding {
		norm += val * val
	}
	if norm > 0 {
		norm = float32(math.Sqrt(float64(norm)))
		for i := range embedding {
			embedding[i] /= norm
		}
	}

	return embedding
}
