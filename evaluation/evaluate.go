package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mariaeduaruda/book-recommender/config"
	"github.com/mariaeduaruda/book-recommender/models"
)

// Question is one labelled retrieval query: free text plus the ISBNs a good
// recommendation set should contain.
type Question struct {
	ID            int     `json:"id"`
	Query         string  `json:"query"`
	Category      string  `json:"category"`
	Tone          string  `json:"tone"`
	RelevantISBNs []int64 `json:"relevant_isbns"`
	Notes         string  `json:"notes"`
}

type Result struct {
	QuestionID        int     `json:"question_id"`
	Query             string  `json:"query"`
	ReturnedISBNs     []int64 `json:"returned_isbns"`
	RelevantRetrieved int     `json:"relevant_retrieved"`
	Precision         float64 `json:"precision"`
	Recall            float64 `json:"recall"`
	FScore            float64 `json:"f_score"`
	ResponseTimeMs    int64   `json:"response_time_ms"`
	Success           bool    `json:"success"`
}

type Metrics struct {
	TotalQuestions    int                    `json:"total_questions"`
	SuccessfulQueries int                    `json:"successful_queries"`
	HitRate           float64                `json:"hit_rate"`
	AvgPrecision      float64                `json:"avg_precision"`
	AvgRecall         float64                `json:"avg_recall"`
	AvgFScore         float64                `json:"avg_f_score"`
	AvgResponseTime   float64                `json:"avg_response_time_ms"`
	AvgResults        float64                `json:"avg_results"`
	Timestamp         string                 `json:"timestamp"`
	Configuration     map[string]interface{} `json:"configuration"`
}

type Report struct {
	Metrics Metrics  `json:"metrics"`
	Results []Result `json:"results"`
}

// Recommender is the pipeline under evaluation.
type Recommender interface {
	Recommend(ctx context.Context, query, category, tone string) ([]models.Book, error)
}

type Evaluator struct {
	config      *config.Config
	recommender Recommender
}

func NewEvaluator(cfg *config.Config, recommender Recommender) *Evaluator {
	return &Evaluator{
		config:      cfg,
		recommender: recommender,
	}
}

func LoadDataset(path string) ([]Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}

	return questions, nil
}

// Evaluate runs every labelled query through the recommender and scores the
// returned ISBNs against the relevant set.
func (e *Evaluator) Evaluate(questions []Question) (*Report, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("dataset contains no questions")
	}

	results := make([]Result, 0, len(questions))
	ctx := context.Background()

	var totalResponseTime int64
	var totalResults int
	successfulQueries := 0
	queriesWithHit := 0

	fmt.Println("Starting evaluation...")
	fmt.Printf("Total questions: %d\n", len(questions))
	fmt.Println("---")

	for i, q := range questions {
		fmt.Printf("[%d/%d] Evaluating: %s\n", i+1, len(questions), q.Query)

		category := q.Category
		if category == "" {
			category = "All"
		}
		tone := q.Tone
		if tone == "" {
			tone = "All"
		}

		startTime := time.Now()
		books, err := e.recommender.Recommend(ctx, q.Query, category, tone)
		responseTime := time.Since(startTime).Milliseconds()
		if err != nil {
			fmt.Printf("Failed: %v\n", err)
			results = append(results, Result{
				QuestionID:     q.ID,
				Query:          q.Query,
				ResponseTimeMs: responseTime,
			})
			continue
		}

		returned := make([]int64, len(books))
		relevant := make(map[int64]bool, len(q.RelevantISBNs))
		for _, isbn := range q.RelevantISBNs {
			relevant[isbn] = true
		}

		relevantRetrieved := 0
		for j, book := range books {
			returned[j] = book.ISBN13
			if relevant[book.ISBN13] {
				relevantRetrieved++
			}
		}

		precision, recall, fScore := score(relevantRetrieved, len(returned), len(q.RelevantISBNs))

		results = append(results, Result{
			QuestionID:        q.ID,
			Query:             q.Query,
			ReturnedISBNs:     returned,
			RelevantRetrieved: relevantRetrieved,
			Precision:         precision,
			Recall:            recall,
			FScore:            fScore,
			ResponseTimeMs:    responseTime,
			Success:           true,
		})

		successfulQueries++
		totalResponseTime += responseTime
		totalResults += len(returned)
		if relevantRetrieved > 0 {
			queriesWithHit++
		}

		fmt.Printf("Retrieved %d books, %d relevant (F: %.2f) in %dms\n", len(returned), relevantRetrieved, fScore, responseTime)
	}

	metrics := Metrics{
		TotalQuestions:    len(questions),
		SuccessfulQueries: successfulQueries,
		Timestamp:         time.Now().Format(time.RFC3339),
		Configuration: map[string]interface{}{
			"embedding_provider": e.config.EmbeddingProvider,
			"initial_top_k":      e.config.InitialTopK,
			"final_top_k":        e.config.FinalTopK,
		},
	}
	if successfulQueries > 0 {
		var sumPrecision, sumRecall, sumFScore float64
		for _, r := range results {
			sumPrecision += r.Precision
			sumRecall += r.Recall
			sumFScore += r.FScore
		}
		metrics.HitRate = float64(queriesWithHit) / float64(successfulQueries)
		metrics.AvgPrecision = sumPrecision / float64(successfulQueries)
		metrics.AvgRecall = sumRecall / float64(successfulQueries)
		metrics.AvgFScore = sumFScore / float64(successfulQueries)
		metrics.AvgResponseTime = float64(totalResponseTime) / float64(successfulQueries)
		metrics.AvgResults = float64(totalResults) / float64(successfulQueries)
	}

	return &Report{
		Metrics: metrics,
		Results: results,
	}, nil
}

func score(relevantRetrieved, returned, relevant int) (precision, recall, fScore float64) {
	if returned > 0 {
		precision = float64(relevantRetrieved) / float64(returned)
	}
	if relevant > 0 {
		recall = float64(relevantRetrieved) / float64(relevant)
	}
	if precision+recall > 0 {
		fScore = 2 * precision * recall / (precision + recall)
	}
	return precision, recall, fScore
}

func PrintSummary(report *Report) {
	m := report.Metrics
	fmt.Println("---")
	fmt.Println("Evaluation summary")
	fmt.Printf("Questions:         %d (%d succeeded)\n", m.TotalQuestions, m.SuccessfulQueries)
	fmt.Printf("Hit rate:          %.2f\n", m.HitRate)
	fmt.Printf("Avg precision:     %.2f\n", m.AvgPrecision)
	fmt.Printf("Avg recall:        %.2f\n", m.AvgRecall)
	fmt.Printf("Avg F score:       %.2f\n", m.AvgFScore)
	fmt.Printf("Avg results:       %.1f\n", m.AvgResults)
	fmt.Printf("Avg response time: %.0fms\n", m.AvgResponseTime)
}

func SaveReport(report *Report, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}
