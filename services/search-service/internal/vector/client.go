package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Hit is one ranked search result. The stored vector is never returned;
// payload carries the entity id back to the relational join.
type Hit struct {
	ID      string         `json:"id"`
	Score   float64        `json:"score"`
	Payload map[string]any `json:"payload"`
}

// Client speaks the Qdrant HTTP contract: PUT collection, PUT points,
// POST points/search. The vector store only ever holds derived state.
type Client struct {
	base string
	http *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateCollection is idempotent: an "already exists" rejection is success.
func (c *Client) CreateCollection(ctx context.Context, name string, size int) error {
	body := map[string]any{
		"vectors": map[string]any{"size": size, "distance": "Cosine"},
	}
	err := c.do(ctx, http.MethodPut, "/collections/"+name, body, nil)
	if err != nil && strings.Contains(err.Error(), "already exists") {
		return nil
	}
	return err
}

// UpsertPoint replaces the point under id unconditionally (last write wins).
func (c *Client) UpsertPoint(ctx context.Context, collection, id string, vec []float32, payload map[string]any) error {
	body := map[string]any{
		"points": []map[string]any{
			{"id": id, "vector": vec, "payload": payload},
		},
	}
	return c.do(ctx, http.MethodPut, "/collections/"+collection+"/points", body, nil)
}

// Search returns hits ranked by descending cosine similarity.
func (c *Client) Search(ctx context.Context, collection string, vec []float32, limit int) ([]Hit, error) {
	body := map[string]any{
		"vector":       vec,
		"limit":        limit,
		"with_payload": true,
		"with_vector":  false,
	}
	var out struct {
		Result []Hit `json:"result"`
	}
	if err := c.do(ctx, http.MethodPost, "/collections/"+collection+"/points/search", body, &out); err != nil {
		return nil, err
	}
	return out.Result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("vector store %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("vector store %s %s: status %d: %s", method, path, resp.StatusCode, string(raw))
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("vector store %s %s: decode: %w", method, path, err)
		}
	}
	return nil
}
