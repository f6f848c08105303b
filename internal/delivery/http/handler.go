package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopscout/backend/internal/domain"
	"github.com/shopscout/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	similarity *usecase.SimilarityService
	store      domain.ProductStore
}

// NewHandler creates a new HTTP handler
func NewHandler(similarity *usecase.SimilarityService, store domain.ProductStore) *Handler {
	return &Handler{
		similarity: similarity,
		store:      store,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "shopscout-backend",
		"version": "1.0.0",
	})
}

// SearchSimilar handles online-mode similarity search: the request names
// the sites to query live for candidates. Per-site failures degrade to
// fewer candidates; "no similar products found" surfaces as an empty
// result list, never as an error status.
func (h *Handler) SearchSimilar(c *gin.Context) {
	var request domain.SearchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	h.respondRanked(c, &request)
}

// RankCandidates handles offline-mode ranking: the request carries the
// candidate listings directly (e.g. previously stored products) and no
// live retrieval happens.
func (h *Handler) RankCandidates(c *gin.Context) {
	var request domain.SearchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	request.Sites = nil

	h.respondRanked(c, &request)
}

// respondRanked runs the pipeline and writes the ranked list
func (h *Handler) respondRanked(c *gin.Context, request *domain.SearchRequest) {
	results, err := h.similarity.FindSimilar(c.Request.Context(), request)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// The pipeline converts per-site and per-candidate failures into
		// neutral values or exclusion; anything else is unexpected.
		log.Printf("[HTTP] similarity search failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "similarity search failed"})
		return
	}

	if results == nil {
		results = []domain.RankedCandidate{}
	}
	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"count":   len(results),
	})
}

// RecentProducts returns the previously seen products, oldest first
func (h *Handler) RecentProducts(c *gin.Context) {
	products, err := h.store.Recent(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load recent products"})
		return
	}

	if products == nil {
		products = []domain.Product{}
	}
	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// AddRecentProduct records a detected product in the recent list
func (h *Handler) AddRecentProduct(c *gin.Context) {
	var product domain.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.store.Add(c.Request.Context(), product); err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "product title is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store product"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "stored"})
}
