package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Query describes the filter surface the hosted tables support:
// equality matches plus a single ORDER BY column.
type Query struct {
	Eq        map[string]string
	OrderBy   string
	OrderDesc bool
}

func Eq(pairs ...string) Query {
	q := Query{Eq: make(map[string]string, len(pairs)/2)}
	for i := 0; i+1 < len(pairs); i += 2 {
		q.Eq[pairs[i]] = pairs[i+1]
	}
	return q
}

func (q Query) encode() string {
	v := url.Values{}
	for col, val := range q.Eq {
		v.Set(col, "eq."+val)
	}
	if q.OrderBy != "" {
		dir := "asc"
		if q.OrderDesc {
			dir = "desc"
		}
		v.Set("order", q.OrderBy+"."+dir)
	}
	return v.Encode()
}

func (c *Client) tableURL(table string, q Query) string {
	u := fmt.Sprintf("%s/rest/v1/%s", c.config.BaseURL, table)
	if enc := q.encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

// Select fetches all rows matching q and decodes the JSON array into dest.
func (c *Client) Select(ctx context.Context, table string, q Query, dest any) error {
	return c.do(ctx, http.MethodGet, c.tableURL(table, q), nil, "", dest)
}

// Insert adds a row. When dest is non-nil the inserted row (as stored by
// the service, defaults applied) is decoded back into it.
func (c *Client) Insert(ctx context.Context, table string, row any, dest any) error {
	body, err := json.Marshal(row)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tableURL(table, Query{}), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if dest != nil {
		req.Header.Set("Prefer", "return=representation")
		req.Header.Set("Accept", "application/vnd.pgrst.object+json")
	}
	return c.finish(req, dest)
}

// Update patches all rows matching q.
func (c *Client) Update(ctx context.Context, table string, q Query, patch any, dest any) error {
	body, err := json.Marshal(patch)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.tableURL(table, q), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if dest != nil {
		req.Header.Set("Prefer", "return=representation")
		req.Header.Set("Accept", "application/vnd.pgrst.object+json")
	}
	return c.finish(req, dest)
}

// Delete removes all rows matching q.
func (c *Client) Delete(ctx context.Context, table string, q Query) error {
	return c.do(ctx, http.MethodDelete, c.tableURL(table, q), nil, "", nil)
}

func (c *Client) finish(req *http.Request, dest any) error {
	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &APIError{StatusCode: res.StatusCode}
		if err := json.NewDecoder(res.Body).Decode(apiErr); err != nil {
			return fmt.Errorf("remote: unexpected status %d", res.StatusCode)
		}
		return apiErr
	}
	if dest == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(dest)
}
