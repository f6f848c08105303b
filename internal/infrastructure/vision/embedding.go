package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// EmbeddingScorer compares product images by cosine similarity of
// fixed-dimension embedding vectors produced by an external feature
// service. It is interchangeable with HashScorer behind
// domain.ImageScorer: same contract, same neutral-on-failure behavior.
type EmbeddingScorer struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	rateLimiter *rate.Limiter
	debug       bool
}

// embeddingRequest is the wire request to the feature service
type embeddingRequest struct {
	URL string `json:"url"`
}

// embeddingResponse is the wire response from the feature service
type embeddingResponse struct {
	Embedding []float64 `json:"embedding"`
}

// NewEmbeddingScorer creates an embedding-based image scorer
func NewEmbeddingScorer(baseURL, apiKey string) *EmbeddingScorer {
	return &EmbeddingScorer{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:     baseURL,
		apiKey:      apiKey,
		rateLimiter: rate.NewLimiter(rate.Limit(2), 5),
	}
}

// SetDebug enables request/response logging
func (s *EmbeddingScorer) SetDebug(debug bool) {
	s.debug = debug
}

// CompareImages implements domain.ImageScorer. Missing URLs, service
// errors and dimension mismatches all yield the neutral 0.5.
func (s *EmbeddingScorer) CompareImages(ctx context.Context, url1, url2 string) float64 {
	if url1 == "" || url2 == "" {
		return NeutralScore
	}

	e1, err := s.embed(ctx, url1)
	if err != nil {
		if s.debug {
			log.Printf("[EMBED] %s: %v", url1, err)
		}
		return NeutralScore
	}
	e2, err := s.embed(ctx, url2)
	if err != nil {
		if s.debug {
			log.Printf("[EMBED] %s: %v", url2, err)
		}
		return NeutralScore
	}

	if len(e1) == 0 || len(e1) != len(e2) {
		return NeutralScore
	}
	return embeddingCosine(e1, e2)
}

// embed fetches the embedding vector for one image URL
func (s *EmbeddingScorer) embed(ctx context.Context, imageURL string) ([]float64, error) {
	if err := s.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	payload, err := json.Marshal(embeddingRequest{URL: imageURL})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/embeddings", s.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feature service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("feature service status %d: %s", resp.StatusCode, string(body))
	}

	var embedResp embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return embedResp.Embedding, nil
}

// embeddingCosine computes cosine similarity between two equal-length
// embedding vectors, clamped to [0,1]
func embeddingCosine(e1, e2 []float64) float64 {
	var dot, norm1, norm2 float64
	for i := range e1 {
		dot += e1[i] * e2[i]
		norm1 += e1[i] * e1[i]
		norm2 += e2[i] * e2[i]
	}

	magnitude := math.Sqrt(norm1) * math.Sqrt(norm2)
	if magnitude == 0 {
		return 0
	}

	similarity := dot / magnitude
	if similarity < 0 {
		return 0
	}
	if similarity > 1 {
		return 1
	}
	return similarity
}
