package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Disk stores images on the local filesystem for self-hosted deployments.
// Files land under dir and are served at baseURL/media/<object path>.
type Disk struct {
	dir     string
	baseURL string
}

func NewDisk(dir, baseURL string) *Disk {
	return &Disk{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (d *Disk) Upload(ctx context.Context, objectPath, contentType string, data []byte) (string, error) {
	full := filepath.Join(d.dir, filepath.FromSlash(objectPath))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/media/%s", d.baseURL, objectPath), nil
}

func (d *Disk) Remove(ctx context.Context, publicURL string) error {
	u, err := url.Parse(publicURL)
	if err != nil {
		return fmt.Errorf("storage: bad media url %q: %w", publicURL, err)
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segs) < 2 {
		return fmt.Errorf("storage: bad media url %q", publicURL)
	}
	objectPath := strings.Join(segs[len(segs)-2:], "/")
	err = os.Remove(filepath.Join(d.dir, filepath.FromSlash(objectPath)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Dir is the root the HTTP server mounts at /media.
func (d *Disk) Dir() string { return d.dir }
