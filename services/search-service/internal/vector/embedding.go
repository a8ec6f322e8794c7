package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"math"
	"net/http"
	"strings"
	"time"
)

// Embedder turns search text into a vector. Failures propagate to the
// caller; a zero vector is never a substitute for a real embedding.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// FromConfig selects the provider named in EMBEDDING_PROVIDER.
func FromConfig(provider, geminiKey, ollamaURL string) (Embedder, error) {
	switch strings.ToUpper(provider) {
	case "GEMINI":
		return NewGemini(geminiKey)
	case "OLLAMA":
		return NewOllama(ollamaURL), nil
	case "LOCAL":
		return NewLocal(), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}
}

const geminiModel = "text-embedding-004"

type Gemini struct {
	apiKey string
	base   string
	http   *http.Client
}

func NewGemini(apiKey string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required for the GEMINI provider")
	}
	return &Gemini{
		apiKey: apiKey,
		base:   "https://generativelanguage.googleapis.com",
		http:   &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (g *Gemini) Dimension() int { return 768 }

func (g *Gemini) Embed(ctx context.Context, text string) ([]float32, error) {
	body := map[string]any{
		"model":   "models/" + geminiModel,
		"content": map[string]any{"parts": []map[string]string{{"text": text}}},
	}
	var out struct {
		Embedding struct {
			Values []float32 `json:"values"`
		} `json:"embedding"`
	}
	url := fmt.Sprintf("%s/v1beta/models/%s:embedContent?key=%s", g.base, geminiModel, g.apiKey)
	if err := postJSON(ctx, g.http, url, body, &out); err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if len(out.Embedding.Values) == 0 {
		return nil, fmt.Errorf("gemini embed: empty embedding in response")
	}
	return out.Embedding.Values, nil
}

const ollamaModel = "nomic-embed-text"

type Ollama struct {
	base string
	http *http.Client
}

func NewOllama(baseURL string) *Ollama {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &Ollama{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

func (o *Ollama) Dimension() int { return 768 }

func (o *Ollama) Embed(ctx context.Context, text string) ([]float32, error) {
	body := map[string]any{"model": ollamaModel, "prompt": text}
	var out struct {
		Embedding []float32 `json:"embedding"`
	}
	if err := postJSON(ctx, o.http, o.base+"/api/embeddings", body, &out); err != nil {
		return nil, fmt.Errorf("ollama embed: %w", err)
	}
	if len(out.Embedding) == 0 {
		return nil, fmt.Errorf("ollama embed: empty embedding in response")
	}
	return out.Embedding, nil
}

const localDim = 384

// Local is a deterministic hashed bag-of-words embedder for environments
// without a model endpoint. Same text always yields the same vector.
type Local struct{}

func NewLocal() *Local { return &Local{} }

func (*Local) Dimension() int { return localDim }

func (*Local) Embed(_ context.Context, text string) ([]float32, error) {
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) == 0 {
		return nil, fmt.Errorf("local embed: empty text")
	}
	vec := make([]float32, localDim)
	for _, tok := range tokens {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		sum := h.Sum32()
		idx := int(sum % localDim)
		sign := float32(1)
		if sum&0x80000000 != 0 {
			sign = -1
		}
		vec[idx] += sign
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return nil, fmt.Errorf("local embed: degenerate vector")
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec, nil
}

func postJSON(ctx context.Context, hc *http.Client, url string, body, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(raw))
	}
	return json.Unmarshal(raw, out)
}
