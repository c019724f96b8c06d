package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"stayagent/internal/model"
	"stayagent/internal/repository"
	"stayagent/internal/service"

	"github.com/gin-gonic/gin"
)

// SearchHandler handles recommendation-related HTTP requests
type SearchHandler struct {
	recommender *service.Recommender
	catalog     *repository.CatalogRepository
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(recommender *service.Recommender, catalog *repository.CatalogRepository) *SearchHandler {
	return &SearchHandler{
		recommender: recommender,
		catalog:     catalog,
	}
}

// Recommend handles POST /api/v1/recommend
func (h *SearchHandler) Recommend(c *gin.Context) {
	var req model.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	start := time.Now()
	results := h.recommender.Recommend(req.Criteria, req.TopK)

	c.JSON(http.StatusOK, model.RecommendResponse{
		Results: results,
		Total:   len(results),
		Took:    time.Since(start).Milliseconds(),
	})
}

// GetListing handles GET /api/v1/listings/:id
func (h *SearchHandler) GetListing(c *gin.Context) {
	listingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID"})
		return
	}

	listing, err := h.catalog.GetByID(listingID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get listing: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, listing)
}
