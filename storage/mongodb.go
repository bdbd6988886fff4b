package storage

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"github.com/mariaeduaruda/book-recommender/config"
	"github.com/mariaeduaruda/book-recommender/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DescriptionDoc is one embedded description line stored in the index.
type DescriptionDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ISBN13    int64              `bson:"isbn13"`
	Text      string             `bson:"text"`
	Embedding []float32          `bson:"embedding"`
	CreatedAt time.Time          `bson:"created_at"`
}

// SearchHit is one k-NN result mapped back to its ISBN.
type SearchHit struct {
	ISBN13 int64
	Text   string
	Score  float64
}

// MongoStore holds the similarity index: one document per description line.
type MongoStore struct {
	client     *mongo.Client
	database   *mongo.Database
	collection *mongo.Collection
	config     *config.Config
}

func NewMongoStore(cfg *config.Config) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	database := client.Database(cfg.MongoDatabase)
	collection := database.Collection(cfg.MongoCollection)

	log.Printf("Connected to MongoDB: %s/%s", cfg.MongoDatabase, cfg.MongoCollection)

	return &MongoStore{
		client:     client,
		database:   database,
		collection: collection,
		config:     cfg,
	}, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// create the isbn index if it doesn't exist
func (s *MongoStore) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "isbn13", Value: 1}},
		Options: options.Index().SetName("isbn13_index"),
	}

	if _, err := s.collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("failed to create isbn index: %w", err)
	}

	return nil
}

// insert embedded description documents in one batch
func (s *MongoStore) InsertDescriptions(ctx context.Context, descriptions []models.Description, embeddings [][]float32) error {
	if len(descriptions) == 0 {
		return fmt.Errorf("no descriptions to insert")
	}
	if len(descriptions) != len(embeddings) {
		return fmt.Errorf("got %d descriptions but %d embeddings", len(descriptions), len(embeddings))
	}

	log.Printf("Inserting %d description documents...", len(descriptions))
	startTime := time.Now()

	docs := make([]interface{}, len(descriptions))
	for i, desc := range descriptions {
		docs[i] = DescriptionDoc{
			ID:        primitive.NewObjectID(),
			ISBN13:    desc.ISBN13,
			Text:      desc.Text,
			Embedding: embeddings[i],
			CreatedAt: time.Now(),
		}
	}

	if _, err := s.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert descriptions: %w", err)
	}

	log.Printf("Inserted %d documents in %v", len(docs), time.Since(startTime))
	return nil
}

// VectorSearch returns the limit nearest descriptions to the query embedding,
// scored by cosine similarity over the whole collection.
func (s *MongoStore) VectorSearch(ctx context.Context, queryEmbedding []float32, limit int) ([]SearchHit, error) {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch descriptions: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []DescriptionDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode descriptions: %w", err)
	}

	hits := make([]SearchHit, 0, len(docs))
	for _, doc := range docs {
		if len(doc.Embedding) != len(queryEmbedding) {
			continue
		}
		hits = append(hits, SearchHit{
			ISBN13: doc.ISBN13,
			Text:   doc.Text,
			Score:  float64(cosineSimilarity(queryEmbedding, doc.Embedding)),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}

	return hits, nil
}

// drop all indexed descriptions so the index can be rebuilt
func (s *MongoStore) Reset(ctx context.Context) error {
	if err := s.collection.Drop(ctx); err != nil {
		return fmt.Errorf("failed to drop collection: %w", err)
	}
	return nil
}

// return the number of indexed descriptions
func (s *MongoStore) CountDescriptions(ctx context.Context) (int64, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count descriptions: %w", err)
	}
	return count, nil
}

// calculate cosine similarity between two vectors
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0 // can't compare vectors of different lengths
	}

	var dotProduct, normA, normB float32
	for i := 0; i < len(a); i++ {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / float32(math.Sqrt(float64(normA))*math.Sqrt(float64(normB)))
}
