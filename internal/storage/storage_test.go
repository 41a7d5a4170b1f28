package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMenuImagePath(t *testing.T) {
	p := MenuImagePath("rest-1", "Photo.PNG")
	require.True(t, strings.HasPrefix(p, "rest-1/"))
	require.True(t, strings.HasSuffix(p, ".png"), "extension is lowercased, got %s", p)

	require.NotEqual(t, p, MenuImagePath("rest-1", "Photo.PNG"), "paths must be unique")

	require.False(t, strings.Contains(MenuImagePath("rest-1", "noext"), "."))
}

func TestDiskUploadAndRemove(t *testing.T) {
	dir := t.TempDir()
	d := NewDisk(dir, "http://localhost:8080/")

	url, err := d.Upload(context.Background(), "rest-1/img.png", "image/png", []byte("png"))
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080/media/rest-1/img.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "rest-1", "img.png"))
	require.NoError(t, err)
	require.Equal(t, "png", string(data))

	require.NoError(t, d.Remove(context.Background(), url))
	_, err = os.Stat(filepath.Join(dir, "rest-1", "img.png"))
	require.True(t, os.IsNotExist(err))

	// removing twice is fine
	require.NoError(t, d.Remove(context.Background(), url))
}

func TestDiskRemoveBadURL(t *testing.T) {
	d := NewDisk(t.TempDir(), "http://localhost:8080")
	require.Error(t, d.Remove(context.Background(), "http://localhost:8080/flat"))
}
