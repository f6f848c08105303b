package retriever

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shopscout/backend/internal/domain"
)

// Config holds retry and fan-out policy for candidate retrieval
type Config struct {
	// MaxRetries is the number of retries after the first attempt, so a
	// site that always fails is tried MaxRetries+1 times in total
	MaxRetries int

	// RetryDelay is the fixed wait between attempts
	RetryDelay time.Duration

	// PerSiteLimit caps how many candidates a single site contributes
	PerSiteLimit int

	// SiteConcurrency bounds how many sites are queried in parallel
	SiteConcurrency int

	EnableDebugLogging bool
}

// Retriever fetches raw candidate listings per external site, isolating
// failures so that one unreachable site never aborts the others.
type Retriever struct {
	searcher domain.SiteSearcher
	sites    map[string]domain.SiteConfig

	maxRetries         int
	retryDelay         time.Duration
	perSiteLimit       int
	siteConcurrency    int
	enableDebugLogging bool
}

// New creates a retriever over the configured site table
func New(searcher domain.SiteSearcher, sites []domain.SiteConfig, config Config) *Retriever {
	siteTable := make(map[string]domain.SiteConfig, len(sites))
	for _, site := range sites {
		siteTable[site.Domain] = site
	}

	retryDelay := config.RetryDelay
	if retryDelay <= 0 {
		retryDelay = 2 * time.Second
	}
	perSiteLimit := config.PerSiteLimit
	if perSiteLimit <= 0 {
		perSiteLimit = 10
	}
	siteConcurrency := config.SiteConcurrency
	if siteConcurrency <= 0 {
		siteConcurrency = 3
	}

	return &Retriever{
		searcher:           searcher,
		sites:              siteTable,
		maxRetries:         config.MaxRetries,
		retryDelay:         retryDelay,
		perSiteLimit:       perSiteLimit,
		siteConcurrency:    siteConcurrency,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Retrieve fetches up to PerSiteLimit candidates from one site, retrying
// on failure with a fixed delay. After exhausting retries it logs and
// returns an empty list; retrieval errors never escape this boundary.
// Candidates without a title are dropped before they reach scoring.
func (r *Retriever) Retrieve(ctx context.Context, site string, query string) []domain.Product {
	siteConfig, ok := r.sites[site]
	if !ok {
		log.Printf("[RETRIEVE] %v: %q", domain.ErrUnknownSite, site)
		return nil
	}

	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				log.Printf("[RETRIEVE] %s: deadline reached after %d attempts", site, attempt)
				return nil
			case <-time.After(r.retryDelay):
			}
		}

		products, err := r.searcher.Search(ctx, siteConfig, query)
		if err == nil {
			return r.sanitize(site, products)
		}
		lastErr = err
		if r.enableDebugLogging {
			log.Printf("[RETRIEVE] %s attempt %d failed: %v", site, attempt+1, err)
		}
		if ctx.Err() != nil {
			break
		}
	}

	log.Printf("[RETRIEVE] %s unavailable after %d attempts: %v (%v)",
		site, r.maxRetries+1, domain.ErrSourceUnavailable, lastErr)
	return nil
}

// RetrieveAll queries the given sites with bounded concurrency and
// concatenates their results in site order, so the output is stable
// regardless of which site responds first. Sites that fail contribute
// nothing; RetrieveAll itself never fails.
func (r *Retriever) RetrieveAll(ctx context.Context, sites []string, query string) []domain.Product {
	perSite := make([][]domain.Product, len(sites))

	g := new(errgroup.Group)
	g.SetLimit(r.siteConcurrency)
	for i, site := range sites {
		g.Go(func() error {
			perSite[i] = r.Retrieve(ctx, site, query)
			return nil
		})
	}
	g.Wait()

	var all []domain.Product
	for _, products := range perSite {
		all = append(all, products...)
	}
	return all
}

// sanitize drops malformed records and truncates to the per-site cap
func (r *Retriever) sanitize(site string, products []domain.Product) []domain.Product {
	kept := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.Title == "" {
			continue
		}
		kept = append(kept, p)
		if len(kept) == r.perSiteLimit {
			break
		}
	}
	if r.enableDebugLogging {
		log.Printf("[RETRIEVE] %s returned %d candidates (%d kept)", site, len(products), len(kept))
	}
	return kept
}
