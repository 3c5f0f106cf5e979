package schedule

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client is an HTTP implementation of Store.
type Client struct {
	base   string
	client *http.Client
}

// NewClient creates a Client for the store at base with a bounded
// request timeout.
func NewClient(base string, timeout time.Duration) *Client {
	return &Client{base: base, client: &http.Client{Timeout: timeout}}
}

const clientDateFormat = "2006-01-02"

// Fetch returns every record whose expected date falls in [start, end].
func (c *Client) Fetch(ctx context.Context, start, end time.Time) ([]Record, error) {
	u := fmt.Sprintf("%s/items?start=%s&end=%s", c.base,
		start.Format(clientDateFormat), end.Format(clientDateFormat))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building fetch request: %w", err)
	}

	var recs []Record
	if err := c.do(req, &recs); err != nil {
		return nil, fmt.Errorf("fetching schedule records: %w", err)
	}
	return recs, nil
}

// CreateQuickItem creates a calendar item from free text and returns
// its reference id.
func (c *Client) CreateQuickItem(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return "", fmt.Errorf("encoding quick item: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.base+"/items/quick", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building quick item request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp struct {
		Ref string `json:"referenceId"`
	}
	if err := c.do(req, &resp); err != nil {
		return "", fmt.Errorf("creating quick item: %w", err)
	}
	return resp.Ref, nil
}

// RemoveItem deletes a calendar item.
func (c *Client) RemoveItem(ctx context.Context, ref string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.itemURL(ref), nil)
	if err != nil {
		return fmt.Errorf("building remove request: %w", err)
	}
	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("removing item %s: %w", ref, err)
	}
	return nil
}

// UpdateItem patches the mutable fields of a calendar item.
func (c *Client) UpdateItem(ctx context.Context, ref string, u Update) error {
	body, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encoding update: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.itemURL(ref), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building update request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("updating item %s: %w", ref, err)
	}
	return nil
}

func (c *Client) itemURL(ref string) string {
	return c.base + "/items/" + url.PathEscape(ref)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
