package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	// formOverhead is the body allowance above a file limit for other fields and part headers
	formOverhead = 1 << 20

	// maxMultipartMemory matches gin's default; larger parts spill to temp files
	maxMultipartMemory = 32 << 20
)

// parseUploadForm caps the request body at limit plus formOverhead and parses
// the multipart form. A limit of 0 leaves the body uncapped.
func parseUploadForm(c *gin.Context, limit int64) error {
	if limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+formOverhead)
	}
	return c.Request.ParseMultipartForm(maxMultipartMemory)
}

// isBodyTooLarge reports whether err came from hitting the body cap
func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
