package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/mariaeduaruda/book-recommender/config"
	"github.com/mariaeduaruda/book-recommender/controllers"
	"github.com/mariaeduaruda/book-recommender/evaluation"
	"github.com/mariaeduaruda/book-recommender/services"
	"github.com/mariaeduaruda/book-recommender/storage"
)

func main() {
	// load .env if present; real env vars take precedence
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "index":
			// usage: book-recommender index
			runIndex()
			return
		case "evaluate":
			// usage: book-recommender evaluate [dataset]
			runEvaluation()
			return
		}
	}

	runServer()
}

// bootstrap builds the shared read-only state: config, catalog, embedder,
// similarity index store.
func bootstrap() (*config.Config, *services.Catalog, *services.Embedder, *storage.MongoStore) {
	cfg := config.Load()

	catalog, err := services.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	embedder, err := services.NewEmbedder(cfg)
	if err != nil {
		log.Fatalf("Failed to create embedder: %v", err)
	}
	if err := embedder.TestConnection(context.Background()); err != nil {
		log.Fatalf("Embedding provider unavailable: %v", err)
	}

	store, err := storage.NewMongoStore(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	return cfg, catalog, embedder, store
}

// buildIndex embeds every tagged description line and inserts the vectors.
func buildIndex(cfg *config.Config, embedder *services.Embedder, store *storage.MongoStore) {
	descriptions, err := services.LoadTaggedDescriptions(cfg.DescriptionsPath)
	if err != nil {
		log.Fatalf("Failed to load descriptions: %v", err)
	}

	texts := make([]string, len(descriptions))
	for i, desc := range descriptions {
		texts[i] = desc.Text
	}

	ctx := context.Background()
	embeddings, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		log.Fatalf("Failed to embed descriptions: %v", err)
	}

	if err := store.InsertDescriptions(ctx, descriptions, embeddings); err != nil {
		log.Fatalf("Failed to store descriptions: %v", err)
	}
	if err := store.EnsureIndexes(); err != nil {
		log.Printf("Note: index creation skipped: %v", err)
	}
}

func runServer() {
	cfg, catalog, embedder, store := bootstrap()
	defer store.Close()

	count, err := store.CountDescriptions(context.Background())
	if err != nil {
		log.Fatalf("Failed to inspect similarity index: %v", err)
	}
	if count == 0 {
		log.Println("Similarity index is empty, building it...")
		buildIndex(cfg, embedder, store)
	} else {
		log.Printf("Similarity index holds %d descriptions", count)
	}

	recommender := services.NewRecommender(catalog, store, embedder, cfg.InitialTopK, cfg.FinalTopK)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	controller := controllers.NewRecommendController(cfg, recommender, catalog.Categories())
	controller.RegisterRoutes(router)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Book recommender starting on %s", addr)
	log.Printf("MongoDB: %s", cfg.MongoDatabase)
	log.Printf("Embeddings: %s (%s)", cfg.EmbeddingProvider, embedder.Model)
	log.Printf("Environment: %s", cfg.Environment)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func runIndex() {
	log.Println("Rebuilding similarity index...")

	cfg, _, embedder, store := bootstrap()
	defer store.Close()

	if err := store.Reset(context.Background()); err != nil {
		log.Fatalf("Failed to reset similarity index: %v", err)
	}
	buildIndex(cfg, embedder, store)

	log.Println("Similarity index rebuilt")
}

func runEvaluation() {
	log.Println("Starting evaluation mode...")

	cfg, catalog, embedder, store := bootstrap()
	defer store.Close()

	count, err := store.CountDescriptions(context.Background())
	if err != nil {
		log.Fatalf("Failed to inspect similarity index: %v", err)
	}
	if count == 0 {
		log.Fatalf("Similarity index is empty. Run 'book-recommender index' first.")
	}

	datasetPath := "evaluation/dataset.json"
	if len(os.Args) > 2 {
		datasetPath = os.Args[2]
	}
	questions, err := evaluation.LoadDataset(datasetPath)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	log.Printf("Loaded %d questions from %s", len(questions), datasetPath)

	recommender := services.NewRecommender(catalog, store, embedder, cfg.InitialTopK, cfg.FinalTopK)
	evaluator := evaluation.NewEvaluator(cfg, recommender)

	report, err := evaluator.Evaluate(questions)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}

	evaluation.PrintSummary(report)

	outputFile := "evaluation/results/baseline.json"
	if err := evaluation.SaveReport(report, outputFile); err != nil {
		log.Fatalf("Failed to save report: %v", err)
	}

	log.Printf("Evaluation complete! Results saved to %s", outputFile)
}
