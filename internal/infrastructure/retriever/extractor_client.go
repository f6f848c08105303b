package retriever

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/shopscout/backend/internal/domain"
)

// ExtractorClient talks to the extractor service that owns the ephemeral
// browsing contexts and the per-site DOM extraction logic. One Search
// call maps to one context on the extractor side: the service opens the
// site's result page for the query, waits for it to settle, extracts the
// listings and releases the context before responding.
type ExtractorClient struct {
	httpClient  *http.Client
	baseURL     string
	settleDelay time.Duration
	rateLimiter *rate.Limiter
	debug       bool
}

// extractRequest is the wire request to the extractor service
type extractRequest struct {
	Site        string `json:"site"`
	SearchURL   string `json:"searchUrl"`
	SettleMs    int64  `json:"settleMs"`
	ResultLimit int    `json:"resultLimit"`
}

// extractResponse is the wire response from the extractor service
type extractResponse struct {
	Products []domain.Product `json:"products"`
}

// NewExtractorClient creates a new extractor service client
func NewExtractorClient(baseURL string, settleDelay time.Duration, requestsPerSec float64) *ExtractorClient {
	if requestsPerSec <= 0 {
		requestsPerSec = 1
	}

	return &ExtractorClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     baseURL,
		settleDelay: settleDelay,
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSec), 3),
	}
}

// SetDebug enables request/response logging
func (c *ExtractorClient) SetDebug(debug bool) {
	c.debug = debug
}

// Search implements domain.SiteSearcher. It asks the extractor service
// to run the site's search for the query and return the raw listings.
func (c *ExtractorClient) Search(ctx context.Context, site domain.SiteConfig, query string) ([]domain.Product, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	payload, err := json.Marshal(extractRequest{
		Site:        site.Domain,
		SearchURL:   site.SearchURL + url.QueryEscape(query),
		SettleMs:    c.settleDelay.Milliseconds(),
		ResultLimit: site.ResultLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/extract", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "ShopScout/1.0")

	if c.debug {
		log.Printf("[EXTRACTOR] POST %s site=%s query=%q", endpoint, site.Domain, query)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractorFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrExtractorFailure, resp.StatusCode, string(body))
	}

	var extractResp extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&extractResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if c.debug {
		log.Printf("[EXTRACTOR] %s returned %d products for %q", site.Domain, len(extractResp.Products), query)
	}
	return extractResp.Products, nil
}
