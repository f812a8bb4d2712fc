// Package storage keeps uploaded files (hero images and PDF resources).
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ResourcePrefix is the key prefix of uploaded PDF resources
const ResourcePrefix = "resources/"

// PublicPrefix is the URL path under which blobs are served
const PublicPrefix = "/uploads/"

var (
	// ErrNotFound is returned by Open when the key does not exist
	ErrNotFound = errors.New("blob not found")
	// ErrInvalidKey is returned for keys that would escape the store root
	ErrInvalidKey = errors.New("invalid blob key")

	whitespace = regexp.MustCompile(`\s`)
)

// ObjectInfo describes a stored blob
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// BlobStore stores uploaded files under slash separated keys.
// Remove of a missing key is not an error.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, *ObjectInfo, error)
	Remove(ctx context.Context, key string) error
	List(ctx context.Context) ([]ObjectInfo, error)
}

// FileName builds a collision resistant name: <unix millis>-<8 hex>-<original>
func FileName(original string, now time.Time) string {
	base := path.Base(strings.ReplaceAll(original, "\\", "/"))
	if base == "." || base == "/" || base == ".." {
		base = "file"
	}
	base = whitespace.ReplaceAllString(base, "_")
	return fmt.Sprintf("%d-%s-%s", now.UnixMilli(), uuid.New().String()[:8], base)
}

// CleanKey normalises key and rejects anything outside the store root
func CleanKey(key string) (string, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") || cleaned != key {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

// KeyFromURL converts a served path such as /uploads/resources/x.pdf into its key
func KeyFromURL(fileURL string) (string, error) {
	if !strings.HasPrefix(fileURL, PublicPrefix) {
		return "", ErrInvalidKey
	}
	return CleanKey(strings.TrimPrefix(fileURL, PublicPrefix))
}

// URLForKey is the inverse of KeyFromURL
func URLForKey(key string) string {
	return PublicPrefix + key
}
