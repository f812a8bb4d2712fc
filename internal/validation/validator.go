package validation

import (
	"errors"
	"strings"

	"github.com/community-cms-api/internal/models"
	"github.com/gabriel-vasile/mimetype"
)

var (
	// ErrNotPDF is returned when an upload is not a PDF by declared type or content
	ErrNotPDF = errors.New("only PDF files allowed")
	// ErrTooLarge is returned when an upload exceeds the configured limit
	ErrTooLarge = errors.New("file too large")
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Errors is a list of validation errors usable as an error
type Errors []ValidationError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, ve := range e {
		msgs = append(msgs, ve.Message)
	}
	return strings.Join(msgs, "; ")
}

// ValidateCommunityForm checks the fields the upsert key depends on
func ValidateCommunityForm(form *models.CommunityPageForm) Errors {
	var errs Errors

	if strings.TrimSpace(form.Community) == "" {
		errs = append(errs, ValidationError{Field: "community", Message: "community is required"})
	}
	if strings.TrimSpace(form.Slug) == "" {
		errs = append(errs, ValidationError{Field: "slug", Message: "slug is required"})
	}

	return errs
}

// ValidateFAQ checks a FAQ before it is created
func ValidateFAQ(req *models.FAQRequest) Errors {
	var errs Errors

	if strings.TrimSpace(req.Question) == "" {
		errs = append(errs, ValidationError{Field: "question", Message: "question is required"})
	}
	if req.Answer == "" {
		errs = append(errs, ValidationError{Field: "answer", Message: "answer is required"})
	}

	return errs
}

// ValidateResourceTitle checks the title sent with a resource upload
func ValidateResourceTitle(title string) Errors {
	if strings.TrimSpace(title) == "" {
		return Errors{{Field: "title", Message: "title is required"}}
	}
	return nil
}

// SplitKeyFeatures turns "a, b ,c" into [a b c]; empty input yields an empty list
func SplitKeyFeatures(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	features := make([]string, 0, len(parts))
	for _, p := range parts {
		features = append(features, strings.TrimSpace(p))
	}
	return features
}

// CheckPDF requires both the declared content type and the leading bytes to be PDF
func CheckPDF(declaredType string, head []byte) error {
	mediaType := strings.TrimSpace(strings.SplitN(declaredType, ";", 2)[0])
	if !strings.EqualFold(mediaType, models.PDFMimeType) {
		return ErrNotPDF
	}
	if !mimetype.Detect(head).Is(models.PDFMimeType) {
		return ErrNotPDF
	}
	return nil
}

// CheckSize rejects uploads larger than limit bytes
func CheckSize(size, limit int64) error {
	if limit > 0 && size > limit {
		return ErrTooLarge
	}
	return nil
}
