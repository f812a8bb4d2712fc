package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	name := FileName("Buyer Guide 2024.pdf", now)
	require.Regexp(t, regexp.MustCompile(`^1700000000123-[0-9a-f]{8}-Buyer_Guide_2024\.pdf$`), name)

	require.NotEqual(t, name, FileName("Buyer Guide 2024.pdf", now), "same instant must not collide")

	traversal := FileName("../../etc/passwd", now)
	require.False(t, strings.Contains(traversal, "/"))
	require.True(t, strings.HasSuffix(traversal, "-passwd"))
}

func TestCleanKey(t *testing.T) {
	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{"resources/a.pdf", "resources/a.pdf", false},
		{"/hero.jpg", "hero.jpg", false},
		{"", "", true},
		{"../secret", "", true},
		{"resources/../../secret", "", true},
		{"resources//a.pdf", "", true},
	}

	for _, tt := range tests {
		got, err := CleanKey(tt.key)
		if tt.wantErr {
			require.ErrorIs(t, err, ErrInvalidKey, tt.key)
			continue
		}
		require.NoError(t, err, tt.key)
		require.Equal(t, tt.want, got)
	}
}

func TestKeyFromURL(t *testing.T) {
	key, err := KeyFromURL("/uploads/resources/1-a-guide.pdf")
	require.NoError(t, err)
	require.Equal(t, "resources/1-a-guide.pdf", key)
	require.Equal(t, "/uploads/resources/1-a-guide.pdf", URLForKey(key))

	_, err = KeyFromURL("/etc/passwd")
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestLocalStoreLifecycle(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, zerolog.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	body := "%PDF-1.4 test"
	require.NoError(t, store.Put(ctx, "resources/a.pdf", strings.NewReader(body), int64(len(body)), "application/pdf"))
	require.FileExists(t, filepath.Join(root, "resources", "a.pdf"))

	rc, info, err := store.Open(ctx, "resources/a.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	require.Equal(t, body, string(data))
	require.Equal(t, int64(len(body)), info.Size)
	require.Equal(t, "application/pdf", info.ContentType)

	objects, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	require.Equal(t, "resources/a.pdf", objects[0].Key)

	require.NoError(t, store.Remove(ctx, "resources/a.pdf"))
	_, err = os.Stat(filepath.Join(root, "resources", "a.pdf"))
	require.True(t, os.IsNotExist(err))

	// removing again is best-effort
	require.NoError(t, store.Remove(ctx, "resources/a.pdf"))

	_, _, err = store.Open(ctx, "resources/a.pdf")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStoreRejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	err = store.Put(ctx, "../outside.txt", strings.NewReader("x"), 1, "text/plain")
	require.ErrorIs(t, err, ErrInvalidKey)

	_, _, err = store.Open(ctx, "resources/../../outside.txt")
	require.ErrorIs(t, err, ErrInvalidKey)
}
