// Package storage handles menu item images: upload yields a public URL
// that is stored on the menu item row, remove takes that URL back.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

type BlobStore interface {
	Upload(ctx context.Context, objectPath, contentType string, data []byte) (publicURL string, err error)
	Remove(ctx context.Context, publicURL string) error
}

// Upload is an image attached to a menu item create/update call.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// MenuImagePath builds a unique object path scoped to the owning
// restaurant, keeping the original file extension.
func MenuImagePath(restaurantID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%s/%s%s", restaurantID, uuid.NewString(), ext)
}
