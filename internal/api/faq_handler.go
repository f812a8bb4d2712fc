package api

import (
	"errors"
	"net/http"

	"github.com/community-cms-api/internal/models"
	"github.com/community-cms-api/internal/service"
	"github.com/community-cms-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// FAQHandler handles FAQ endpoints
type FAQHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewFAQHandler creates a new FAQHandler
func NewFAQHandler(services *service.Services, log zerolog.Logger) *FAQHandler {
	return &FAQHandler{
		services: services,
		log:      log.With().Str("handler", "faq").Logger(),
	}
}

// List handles GET /api/faqs
func (h *FAQHandler) List(c *gin.Context) {
	faqs, err := h.services.FAQ.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list FAQs")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch FAQs"})
		return
	}
	c.JSON(http.StatusOK, faqs)
}

// Create handles POST /api/faqs
func (h *FAQHandler) Create(c *gin.Context) {
	var req models.FAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	faq, err := h.services.FAQ.Create(c.Request.Context(), &req)
	if err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{"message": verrs.Error()})
			return
		}
		h.log.Error().Err(err).Msg("Failed to create FAQ")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create FAQ"})
		return
	}
	c.JSON(http.StatusCreated, faq)
}

// Update handles PUT /api/faqs/:id
func (h *FAQHandler) Update(c *gin.Context) {
	var req models.FAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	faq, err := h.services.FAQ.Update(c.Request.Context(), c.Param("id"), &req)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "FAQ not found"})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("id", c.Param("id")).Msg("Failed to update FAQ")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update FAQ"})
		return
	}
	c.JSON(http.StatusOK, faq)
}

// Delete handles DELETE /api/faqs/:id
func (h *FAQHandler) Delete(c *gin.Context) {
	if err := h.services.FAQ.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.log.Error().Err(err).Str("id", c.Param("id")).Msg("Failed to delete FAQ")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete FAQ"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "FAQ deleted successfully"})
}
