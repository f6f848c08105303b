package domain

import (
	"context"
	"time"
)

// SiteSearcher issues one search against an external shopping site and
// returns the raw candidate listings extracted from the result page.
// Implementations own the ephemeral browsing context for the query and
// must release it on every exit path. Absence of results is signaled by
// an empty slice, never by an error.
type SiteSearcher interface {
	Search(ctx context.Context, site SiteConfig, query string) ([]Product, error)
}

// ImageScorer compares two product images and returns a similarity in
// [0,1]. It never fails: a missing URL or an image that cannot be
// fetched or decoded yields the neutral score 0.5.
type ImageScorer interface {
	CompareImages(ctx context.Context, url1, url2 string) float64
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ProductStore keeps the most recently seen products, evicting oldest
// first at a fixed capacity. The similarity pipeline only reads it.
type ProductStore interface {
	Recent(ctx context.Context) ([]Product, error)
	Add(ctx context.Context, p Product) error
}
