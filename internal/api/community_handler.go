package api

import (
	"errors"
	"net/http"

	"github.com/community-cms-api/internal/config"
	"github.com/community-cms-api/internal/models"
	"github.com/community-cms-api/internal/service"
	"github.com/community-cms-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CommunityHandler handles community page and selection endpoints
type CommunityHandler struct {
	services     *service.Services
	maxImageSize int64
	log          zerolog.Logger
}

// NewCommunityHandler creates a new CommunityHandler
func NewCommunityHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *CommunityHandler {
	return &CommunityHandler{
		services:     services,
		maxImageSize: cfg.Upload.MaxImageSize,
		log:          log.With().Str("handler", "community").Logger(),
	}
}

// Upsert handles POST /api/admin/community-pages
// Accepts a multipart form with an optional heroImage file. JSON and
// urlencoded bodies carry no image.
func (h *CommunityHandler) Upsert(c *gin.Context) {
	if err := parseUploadForm(c, h.maxImageSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.uploadFailed(c, err)
		return
	}

	var form models.CommunityPageForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Community & slug required"})
		return
	}

	var hero *service.Upload
	header, err := c.FormFile("heroImage")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		h.uploadFailed(c, err)
		return
	default:
		f, err := header.Open()
		if err != nil {
			h.log.Error().Err(err).Msg("Failed to open hero image")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save community page"})
			return
		}
		defer f.Close()
		hero = &service.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Reader:      f,
		}
	}

	page, err := h.services.Community.Upsert(c.Request.Context(), &form, hero)
	if err != nil {
		var verrs validation.Errors
		switch {
		case errors.As(err, &verrs):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Community & slug required", "details": verrs})
		case errors.Is(err, validation.ErrTooLarge):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Hero image too large"})
		default:
			h.log.Error().Err(err).Str("community", form.Community).Msg("Failed to save community page")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save community page"})
		}
		return
	}

	c.JSON(http.StatusOK, page)
}

// uploadFailed answers a request whose body could not be read
func (h *CommunityHandler) uploadFailed(c *gin.Context, err error) {
	if isBodyTooLarge(err) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Hero image too large"})
		return
	}
	h.log.Error().Err(err).Msg("Failed to read community page form")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save community page"})
}

// List handles GET /api/admin/community-pages
func (h *CommunityHandler) List(c *gin.Context) {
	pages, err := h.services.Community.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list community pages")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pages"})
		return
	}
	c.JSON(http.StatusOK, pages)
}

// Get handles GET /api/admin/community-pages/:id
func (h *CommunityHandler) Get(c *gin.Context) {
	page, err := h.services.Community.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("id", c.Param("id")).Msg("Failed to get community page")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch page"})
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetBySlug handles GET /api/community-pages/:slug
func (h *CommunityHandler) GetBySlug(c *gin.Context) {
	page, err := h.services.Community.GetBySlug(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("slug", c.Param("slug")).Msg("Failed to get community by slug")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch community"})
		return
	}
	c.JSON(http.StatusOK, page)
}

// Delete handles DELETE /api/admin/community-pages/:id
func (h *CommunityHandler) Delete(c *gin.Context) {
	if err := h.services.Community.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.log.Error().Err(err).Str("id", c.Param("id")).Msg("Failed to delete community page")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete page"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type selectionRequest struct {
	Selected *[]string `json:"selected"`
}

// SaveSelection handles POST /api/save-selected
func (h *CommunityHandler) SaveSelection(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Selected == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data format"})
		return
	}

	if err := h.services.Community.SaveSelection(c.Request.Context(), *req.Selected); err != nil {
		h.log.Error().Err(err).Msg("Failed to save selection")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Selected communities saved successfully"})
}

// GetSelection handles GET /api/selected
func (h *CommunityHandler) GetSelection(c *gin.Context) {
	selected, err := h.services.Community.GetSelection(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get selection")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, models.SelectedCommunities{Selected: selected})
}

// Public handles GET /api/public
func (h *CommunityHandler) Public(c *gin.Context) {
	pages, err := h.services.Community.PublicCommunities(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to resolve public communities")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, pages)
}
