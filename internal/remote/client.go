package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"expensetracker/internal/core"
	"expensetracker/internal/gateway"
)

const defaultTimeout = 10 * time.Second

// Client talks to a remote transaction service over its /api endpoint and
// implements gateway.Gateway.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchAll implements gateway.Gateway.
func (c *Client) FetchAll(ctx context.Context) ([]core.Transaction, error) {
	body, err := c.do(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}

	var wire []WireTransaction
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("decode transaction list: %w", err)
	}

	out := make([]core.Transaction, 0, len(wire))
	for i, w := range wire {
		t, err := w.Decode(true)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// Insert implements gateway.Gateway. The server assigns the id and returns it
// in the response body.
func (c *Client) Insert(ctx context.Context, t core.Transaction) (int, error) {
	w := Encode(t)
	w.ID = 0 // server-assigned

	payload, err := json.Marshal(w)
	if err != nil {
		return 0, fmt.Errorf("encode transaction: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, payload)
	if err != nil {
		return 0, err
	}

	var resp struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("decode insert response: %w", err)
	}
	if resp.ID <= 0 {
		return 0, fmt.Errorf("insert response missing id")
	}
	return resp.ID, nil
}

// UpdateCategory implements gateway.Gateway.
func (c *Client) UpdateCategory(ctx context.Context, id, categoryID int) error {
	payload, err := json.Marshal(map[string]int{"id": id, "categoryId": categoryID})
	if err != nil {
		return fmt.Errorf("encode update request: %w", err)
	}
	_, err = c.do(ctx, http.MethodPut, payload)
	return err
}

// Delete implements gateway.Gateway.
func (c *Client) Delete(ctx context.Context, id int) error {
	payload, err := json.Marshal(map[string]int{"id": id})
	if err != nil {
		return fmt.Errorf("encode delete request: %w", err)
	}
	_, err = c.do(ctx, http.MethodDelete, payload)
	return err
}

func (c *Client) do(ctx context.Context, method string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api", reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s /api: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, gateway.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%s /api returned %d: %s", method, resp.StatusCode, truncate(body, 200))
	}
	return body, nil
}

func truncate(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
