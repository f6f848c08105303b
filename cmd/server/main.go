package main

import (
	"fmt"
	"log"
	"os"

	"github.com/shopscout/backend/config"
	httpDelivery "github.com/shopscout/backend/internal/delivery/http"
	"github.com/shopscout/backend/internal/domain"
	"github.com/shopscout/backend/internal/infrastructure/cache"
	"github.com/shopscout/backend/internal/infrastructure/retriever"
	"github.com/shopscout/backend/internal/infrastructure/store"
	"github.com/shopscout/backend/internal/infrastructure/vision"
	"github.com/shopscout/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debug := cfg.Matching.EnableDebugLogging || cfg.Server.Environment == "development"

	log.Printf("Starting ShopScout Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Vision strategy: %s", cfg.Vision.Strategy)
	log.Printf("Matching: weights=%.2f/%.2f/%.2f threshold=%.2f topK=%d",
		cfg.Matching.Weights.Title, cfg.Matching.Weights.Price, cfg.Matching.Weights.Image,
		cfg.Matching.Threshold, cfg.Matching.TopK)

	// Infrastructure: image scorer (perceptual hash by default, embedding
	// service when configured), hash cache, recent-products store
	var imageScorer domain.ImageScorer
	switch cfg.Vision.Strategy {
	case "embedding":
		embeddingScorer := vision.NewEmbeddingScorer(cfg.Vision.EmbeddingURL, cfg.Vision.EmbeddingKey)
		embeddingScorer.SetDebug(debug)
		imageScorer = embeddingScorer
		log.Printf("Feature service: %s", cfg.Vision.EmbeddingURL)
	default:
		hashCache := cache.NewMemoryCache(cfg.Vision.HashCacheSize)
		imageScorer = vision.NewHashScorer(hashCache, vision.HashScorerConfig{
			FetchTimeout:       cfg.Vision.FetchTimeout,
			CacheTTL:           cfg.Vision.HashCacheTTL,
			EnableDebugLogging: debug,
		})
		log.Printf("Hash cache: %d entries, TTL %s", cfg.Vision.HashCacheSize, cfg.Vision.HashCacheTTL)
	}

	recentStore := store.NewRecentProducts(cfg.Store.Capacity)

	// Candidate retrieval: extractor service client behind the per-site
	// retry/fan-out policy
	searcher := retriever.NewExtractorClient(
		cfg.Retriever.ExtractorURL,
		cfg.Retriever.SettleDelay,
		cfg.Retriever.RequestsPerSec,
	)
	searcher.SetDebug(debug)
	if cfg.Retriever.ExtractorURL != "" {
		log.Printf("Extractor service: %s (%d sites configured)", cfg.Retriever.ExtractorURL, len(cfg.Retriever.Sites))
	} else {
		log.Printf("WARNING: extractor service URL not configured - live site retrieval will fail, offline ranking still works")
	}

	candidateRetriever := retriever.New(searcher, cfg.Retriever.Sites, retriever.Config{
		MaxRetries:         cfg.Retriever.MaxRetries,
		RetryDelay:         cfg.Retriever.RetryDelay,
		PerSiteLimit:       cfg.Retriever.PerSiteLimit,
		SiteConcurrency:    cfg.Retriever.SiteConcurrency,
		EnableDebugLogging: debug,
	})

	// Usecase layer
	ranker := usecase.NewRanker(imageScorer, usecase.RankerConfig{
		PrefilterFloor:     cfg.Matching.PrefilterFloor,
		ImageConcurrency:   cfg.Matching.ImageConcurrency,
		EnableDebugLogging: debug,
	})

	similarityService := usecase.NewSimilarityService(
		candidateRetriever,
		ranker,
		usecase.NewQueryBuilder(debug),
		recentStore,
		usecase.SimilarityServiceConfig{
			Weights:            cfg.Matching.Weights,
			Threshold:          cfg.Matching.Threshold,
			TopK:               cfg.Matching.TopK,
			EnableDebugLogging: debug,
		},
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(similarityService, recentStore)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
