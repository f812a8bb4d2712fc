package api

import (
	"net/http"

	"github.com/community-cms-api/internal/models"
	"github.com/community-cms-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ReviewHandler handles Google review endpoints
type ReviewHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(services *service.Services, log zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{
		services: services,
		log:      log.With().Str("handler", "review").Logger(),
	}
}

// Sync handles GET /api/admin/fetch-google-reviews
func (h *ReviewHandler) Sync(c *gin.Context) {
	ctx, cancel := contextWithTimeout(c, syncTimeout)
	defer cancel()

	synced, err := h.services.Review.Sync(ctx)
	if err != nil {
		h.log.Error().Err(err).Int("synced", synced).Msg("Failed to sync Google reviews")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch Google reviews"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Google reviews synced successfully", "synced": synced})
}

// List handles GET /api/admin/google-reviews
func (h *ReviewHandler) List(c *gin.Context) {
	reviews, err := h.services.Review.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list reviews")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// Select handles POST /api/admin/google-reviews/select
func (h *ReviewHandler) Select(c *gin.Context) {
	var req models.ReviewSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data format"})
		return
	}

	if err := h.services.Review.Select(c.Request.Context(), req.SelectedIDs); err != nil {
		h.log.Error().Err(err).Msg("Failed to save review selection")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save selection"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Selected reviews saved"})
}

// ListSelected handles GET /api/google-reviews
func (h *ReviewHandler) ListSelected(c *gin.Context) {
	reviews, err := h.services.Review.ListSelected(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list selected reviews")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch selected reviews"})
		return
	}
	c.JSON(http.StatusOK, reviews)
}
