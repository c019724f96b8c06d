package handler

import (
	"errors"
	"net/http"

	"stayagent/internal/model"
	"stayagent/internal/repository"
	"stayagent/internal/service"

	"github.com/gin-gonic/gin"
)

// ReservationHandler handles booking-related HTTP requests
type ReservationHandler struct {
	reserver *service.ReservationService
	logbook  *repository.ReservationLog
	catalog  *repository.CatalogRepository
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(reserver *service.ReservationService, logbook *repository.ReservationLog, catalog *repository.CatalogRepository) *ReservationHandler {
	return &ReservationHandler{
		reserver: reserver,
		logbook:  logbook,
		catalog:  catalog,
	}
}

// Reserve handles POST /api/v1/reservations
func (h *ReservationHandler) Reserve(c *gin.Context) {
	var req model.ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.reserver.Reserve(&req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrListingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		case errors.Is(err, repository.ErrListingUnavailable):
			c.JSON(http.StatusConflict, gin.H{"error": "Listing is no longer available"})
		case errors.Is(err, service.ErrInvalidStay):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Booking failed: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// List handles GET /api/v1/reservations?username=
func (h *ReservationHandler) List(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing username query parameter"})
		return
	}

	reservations, err := h.logbook.ListByUsername(username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read reservations: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reservations": reservations,
		"total":        len(reservations),
	})
}

// AdminStats handles GET /api/v1/admin/stats
func (h *ReservationHandler) AdminStats(c *gin.Context) {
	listings := h.catalog.All()

	available := 0
	priceSum := make(map[string]float64)
	priceCount := make(map[string]int)
	for _, l := range listings {
		if l.IsAvailable() {
			available++
		}
		priceSum[l.Location] += l.PricePerNight
		priceCount[l.Location]++
	}

	avgPriceByLocation := make(map[string]float64, len(priceSum))
	for loc, sum := range priceSum {
		avgPriceByLocation[loc] = sum / float64(priceCount[loc])
	}

	reservations, err := h.logbook.All()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read reservations: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listings_total":        len(listings),
		"listings_available":    available,
		"listings_booked":       len(listings) - available,
		"avg_price_by_location": avgPriceByLocation,
		"reservations_total":    len(reservations),
	})
}

// AdminReset handles POST /api/v1/admin/reset
func (h *ReservationHandler) AdminReset(c *gin.Context) {
	var req model.AdminResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if req.Confirm != "CONFIRM" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reset requires confirm to be exactly CONFIRM"})
		return
	}

	if err := h.logbook.Clear(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear reservation log: " + err.Error()})
		return
	}

	if req.UnbookListings {
		if err := h.catalog.MarkAllAvailable(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to release listings: " + err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"unbooked_catalog": req.UnbookListings,
	})
}
