package vision

import (
	"context"
	"fmt"
	"image"
	"log"
	"math/bits"
	"net/http"
	"time"

	// Register decoders for the formats product images ship in
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	"golang.org/x/time/rate"

	"github.com/shopscout/backend/internal/domain"
)

// NeutralScore is returned when either image is absent or undecodable
const NeutralScore = 0.5

// Hash grid dimensions. Every hash has exactly hashBits bits, so two
// hashes are always comparable position by position.
const (
	hashGridSize  = 32
	hashBits      = hashGridSize * hashGridSize
	hashWords     = hashBits / 64
	grayThreshold = 128
)

// PerceptualHash is a fixed-length bit summary of an image's coarse
// visual structure: one bit per cell of the downsampled grayscale grid.
type PerceptualHash [hashWords]uint64

// setBit marks grid position i as brighter than the threshold
func (h *PerceptualHash) setBit(i int) {
	h[i/64] |= 1 << uint(i%64)
}

// HammingDistance counts differing bit positions between two hashes
func (h PerceptualHash) HammingDistance(other PerceptualHash) int {
	distance := 0
	for i := range h {
		distance += bits.OnesCount64(h[i] ^ other[i])
	}
	return distance
}

// HashScorerConfig holds configuration for the perceptual-hash scorer
type HashScorerConfig struct {
	FetchTimeout       time.Duration
	CacheTTL           time.Duration
	RequestsPerSec     float64
	EnableDebugLogging bool
}

// HashScorer compares product images by perceptual hash: fetch, decode,
// downsample to a 32x32 grayscale grid, threshold to one bit per pixel,
// then score by Hamming distance. Hashes are memoized per image URL in
// an injected bounded cache so repeated candidates don't refetch.
type HashScorer struct {
	httpClient  *http.Client
	cache       domain.CacheRepository
	cacheTTL    time.Duration
	rateLimiter *rate.Limiter
	debug       bool
}

// NewHashScorer creates a perceptual-hash image scorer. The cache may be
// nil, in which case every comparison refetches both images.
func NewHashScorer(cache domain.CacheRepository, config HashScorerConfig) *HashScorer {
	fetchTimeout := config.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = 10 * time.Second
	}
	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 24 * time.Hour
	}
	requestsPerSec := config.RequestsPerSec
	if requestsPerSec <= 0 {
		requestsPerSec = 5
	}

	return &HashScorer{
		httpClient: &http.Client{
			Timeout: fetchTimeout,
		},
		cache:       cache,
		cacheTTL:    cacheTTL,
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSec), 5),
		debug:       config.EnableDebugLogging,
	}
}

// CompareImages implements domain.ImageScorer. The result is in [0,1]
// and equals 1 exactly when the two hashes are identical. A missing URL
// or a fetch/decode failure on either side short-circuits to 0.5.
func (s *HashScorer) CompareImages(ctx context.Context, url1, url2 string) float64 {
	if url1 == "" || url2 == "" {
		return NeutralScore
	}

	hash1, err := s.hashFor(ctx, url1)
	if err != nil {
		if s.debug {
			log.Printf("[IMAGE] %v: %s (%v)", domain.ErrDecodeFailure, url1, err)
		}
		return NeutralScore
	}
	hash2, err := s.hashFor(ctx, url2)
	if err != nil {
		if s.debug {
			log.Printf("[IMAGE] %v: %s (%v)", domain.ErrDecodeFailure, url2, err)
		}
		return NeutralScore
	}

	return Similarity(hash1, hash2)
}

// Similarity converts the Hamming distance between two hashes into a
// similarity in [0,1]
func Similarity(h1, h2 PerceptualHash) float64 {
	return 1 - float64(h1.HammingDistance(h2))/float64(hashBits)
}

// hashFor returns the perceptual hash for an image URL, from cache when
// possible
func (s *HashScorer) hashFor(ctx context.Context, imageURL string) (PerceptualHash, error) {
	cacheKey := "phash:" + imageURL
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			if hash, ok := cached.(PerceptualHash); ok {
				return hash, nil
			}
		}
	}

	img, err := s.fetchImage(ctx, imageURL)
	if err != nil {
		return PerceptualHash{}, err
	}
	hash := HashImage(img)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, hash, s.cacheTTL); err != nil && s.debug {
			log.Printf("[IMAGE] Failed to cache hash for %s: %v", imageURL, err)
		}
	}
	return hash, nil
}

// fetchImage downloads and decodes one product image
func (s *HashScorer) fetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	if err := s.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "ShopScout/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecodeFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrDecodeFailure, resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecodeFailure, err)
	}
	return img, nil
}

// HashImage downsamples an image to the hash grid, converts each pixel
// to grayscale via the mean of its color channels and thresholds at 128
// to produce one bit per pixel.
func HashImage(img image.Image) PerceptualHash {
	scaled := image.NewRGBA(image.Rect(0, 0, hashGridSize, hashGridSize))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)

	var hash PerceptualHash
	for y := 0; y < hashGridSize; y++ {
		for x := 0; x < hashGridSize; x++ {
			c := scaled.RGBAAt(x, y)
			mean := (int(c.R) + int(c.G) + int(c.B)) / 3
			if mean >= grayThreshold {
				hash.setBit(y*hashGridSize + x)
			}
		}
	}
	return hash
}
