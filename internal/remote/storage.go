package remote

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Upload stores an object under bucket/path and returns its public URL.
func (c *Client) Upload(ctx context.Context, bucket, path, contentType string, data []byte) (string, error) {
	u := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.config.BaseURL, bucket, path)
	if err := c.do(ctx, http.MethodPost, u, bytes.NewReader(data), contentType, nil); err != nil {
		return "", err
	}
	return c.PublicURL(bucket, path), nil
}

// PublicURL is where an uploaded object can be fetched without auth.
func (c *Client) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.config.BaseURL, bucket, path)
}

// Remove deletes the object a public URL points at. The object path is the
// last two URL segments (restaurant id / file name).
func (c *Client) Remove(ctx context.Context, bucket, publicURL string) error {
	u, err := url.Parse(publicURL)
	if err != nil {
		return fmt.Errorf("remote: bad object url %q: %w", publicURL, err)
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segs) < 2 {
		return fmt.Errorf("remote: bad object url %q", publicURL)
	}
	path := strings.Join(segs[len(segs)-2:], "/")
	del := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.config.BaseURL, bucket, path)
	return c.do(ctx, http.MethodDelete, del, nil, "", nil)
}
