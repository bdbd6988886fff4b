package config

import (
	"os"
	"strconv"
)

type Config struct {
	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	EmbeddingProvider string // "simple", "openai" or "ollama"
	OpenAIAPIKey      string
	OpenAIEmbedModel  string
	OllamaURL         string // "http://localhost:11434"
	OllamaEmbedModel  string

	Port        string
	Environment string

	CatalogPath      string
	DescriptionsPath string

	InitialTopK int
	FinalTopK   int
}

func Load() *Config {
	getEnv := func(key, defaultValue string) string {
		if value := os.Getenv(key); value != "" {
			return value
		}
		return defaultValue
	}

	getEnvInt := func(key string, defaultValue int) int {
		valueStr := os.Getenv(key)
		if valueStr == "" {
			return defaultValue
		}
		value, err := strconv.Atoi(valueStr)
		if err != nil {
			return defaultValue
		}
		return value
	}

	return &Config{
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DATABASE", "books_db"),
		MongoCollection: getEnv("MONGO_COLLECTION", "descriptions"),

		// Embedding provider
		EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "simple"),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIEmbedModel:  getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
		OllamaURL:         getEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaEmbedModel:  getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),

		// Application settings
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Data files
		CatalogPath:      getEnv("CATALOG_PATH", "books_with_categories.csv"),
		DescriptionsPath: getEnv("DESCRIPTIONS_PATH", "tagged_description.txt"),

		// Recommendation pipeline
		InitialTopK: getEnvInt("INITIAL_TOP_K", 50),
		FinalTopK:   getEnvInt("FINAL_TOP_K", 16),
	}
}
