package controllers

import (
	"context"
	"embed"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mariaeduaruda/book-recommender/config"
	"github.com/mariaeduaruda/book-recommender/models"
	"github.com/mariaeduaruda/book-recommender/services"
)

//go:embed templates/dashboard.html
var templatesFS embed.FS

// RecommendService answers a dashboard query with catalog rows.
type RecommendService interface {
	Recommend(ctx context.Context, query, category, tone string) ([]models.Book, error)
}

type RecommendController struct {
	config      *config.Config
	recommender RecommendService
	categories  []string
	tones       []string
}

func NewRecommendController(cfg *config.Config, recommender RecommendService, categories []string) *RecommendController {
	return &RecommendController{
		config:      cfg,
		recommender: recommender,
		categories:  categories,
		tones:       append([]string{"All"}, services.Tones...),
	}
}

// RegisterRoutes wires the dashboard page, the API group and the health check.
func (rc *RecommendController) RegisterRoutes(router *gin.Engine) {
	router.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/dashboard.html")))

	router.GET("/", rc.Dashboard)
	router.GET("/health", rc.Health)
	router.StaticFile("/cover-not-found.jpg", "./cover-not-found.jpg")

	api := router.Group("/api")
	{
		api.POST("/recommend", rc.Recommend)
	}
}

func (rc *RecommendController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "book-recommender",
	})
}

// Dashboard renders the query form and the empty gallery.
func (rc *RecommendController) Dashboard(c *gin.Context) {
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Categories": rc.categories,
		"Tones":      rc.tones,
	})
}

// Recommend handles one dashboard submission: bind, query, format, respond.
func (rc *RecommendController) Recommend(c *gin.Context) {
	startTime := time.Now()

	var req models.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: query is required"})
		return
	}
	if req.Category == "" {
		req.Category = "All"
	}
	if req.Tone == "" {
		req.Tone = "All"
	}

	books, err := rc.recommender.Recommend(c.Request.Context(), req.Query, req.Category, req.Tone)
	if err != nil {
		log.Printf("Recommendation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve recommendations"})
		return
	}

	items := services.GalleryItems(books)

	c.JSON(http.StatusOK, models.RecommendResponse{
		Results:          items,
		Count:            len(items),
		ProcessingTimeMs: time.Since(startTime).Milliseconds(),
	})
}
