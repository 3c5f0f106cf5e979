// Package bankfeed fetches the bank's normalized statement. Decoding
// the bank's proprietary wire format into this shape happens upstream;
// the engine only ever sees model.Statement.
package bankfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/ebb-dev/ebb/internal/model"
)

// Feed produces one statement per synchronization.
type Feed interface {
	Fetch(ctx context.Context) (model.Statement, error)
}

// HTTPFeed fetches a statement from a JSON endpoint.
type HTTPFeed struct {
	url    string
	client *http.Client
}

// NewHTTPFeed creates an HTTPFeed with a bounded request timeout.
func NewHTTPFeed(url string, timeout time.Duration) *HTTPFeed {
	return &HTTPFeed{url: url, client: &http.Client{Timeout: timeout}}
}

// Fetch retrieves and decodes the statement.
func (f *HTTPFeed) Fetch(ctx context.Context) (model.Statement, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return model.Statement{}, fmt.Errorf("building statement request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return model.Statement{}, fmt.Errorf("fetching statement: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Statement{}, fmt.Errorf("fetching statement: unexpected status %s", resp.Status)
	}

	var st model.Statement
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return model.Statement{}, fmt.Errorf("decoding statement: %w", err)
	}
	return st, nil
}

// FileFeed reads a statement from a JSON file on disk, useful for
// offline imports and testing.
type FileFeed struct {
	Path string
}

// Fetch reads and decodes the statement file.
func (f FileFeed) Fetch(_ context.Context) (model.Statement, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return model.Statement{}, fmt.Errorf("reading statement file: %w", err)
	}
	var st model.Statement
	if err := json.Unmarshal(data, &st); err != nil {
		return model.Statement{}, fmt.Errorf("decoding statement file %s: %w", f.Path, err)
	}
	return st, nil
}
