package api

import (
	"errors"
	"net/http"

	"github.com/community-cms-api/internal/config"
	"github.com/community-cms-api/internal/service"
	"github.com/community-cms-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ResourceHandler handles PDF resource endpoints
type ResourceHandler struct {
	services *service.Services
	maxSize  int64
	log      zerolog.Logger
}

// NewResourceHandler creates a new ResourceHandler
func NewResourceHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *ResourceHandler {
	return &ResourceHandler{
		services: services,
		maxSize:  cfg.Upload.MaxResourceSize,
		log:      log.With().Str("handler", "resource").Logger(),
	}
}

// Upload handles POST /api/resources/upload
// Accepts a multipart form with a PDF in field "file" and a title
func (h *ResourceHandler) Upload(c *gin.Context) {
	if err := parseUploadForm(c, h.maxSize); err != nil {
		switch {
		case errors.Is(err, http.ErrNotMultipart):
			c.JSON(http.StatusBadRequest, gin.H{"message": "File is required"})
		case isBodyTooLarge(err):
			c.JSON(http.StatusInternalServerError, gin.H{"message": "File too large"})
		default:
			h.log.Error().Err(err).Msg("Failed to read upload body")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Upload failed"})
		}
		return
	}

	header, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "File is required"})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to read uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Upload failed"})
		return
	}

	f, err := header.Open()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Upload failed"})
		return
	}
	defer f.Close()

	resource, err := h.services.Resource.Upload(c.Request.Context(), c.PostForm("title"), &service.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      f,
	})
	if err != nil {
		var verrs validation.Errors
		switch {
		case errors.As(err, &verrs):
			c.JSON(http.StatusBadRequest, gin.H{"message": verrs.Error()})
		case errors.Is(err, validation.ErrNotPDF):
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Only PDF files allowed"})
		case errors.Is(err, validation.ErrTooLarge):
			c.JSON(http.StatusInternalServerError, gin.H{"message": "File too large"})
		default:
			h.log.Error().Err(err).Str("file", header.Filename).Msg("Failed to upload resource")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Upload failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Resource uploaded successfully",
		"data":    resource,
	})
}

// List handles GET /api/resources
func (h *ResourceHandler) List(c *gin.Context) {
	resources, err := h.services.Resource.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list resources")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch resources"})
		return
	}
	c.JSON(http.StatusOK, resources)
}

// Delete handles DELETE /api/resources/:id
func (h *ResourceHandler) Delete(c *gin.Context) {
	err := h.services.Resource.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Resource not found"})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("id", c.Param("id")).Msg("Failed to delete resource")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Resource deleted successfully"})
}
