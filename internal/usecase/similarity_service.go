package usecase

import (
	"context"
	"log"

	"github.com/shopscout/backend/internal/domain"
)

// CandidateRetriever fetches raw candidate listings for a query across a
// set of external sites. It never fails: an unreachable site contributes
// an empty slice instead of an error.
type CandidateRetriever interface {
	RetrieveAll(ctx context.Context, sites []string, query string) []domain.Product
}

// SimilarityServiceConfig holds configuration for the similarity service
type SimilarityServiceConfig struct {
	Weights            domain.ScoreWeights
	Threshold          float64
	TopK               int
	EnableDebugLogging bool
}

// SimilarityService is the top-level similarity-search pipeline:
// build a query from the source title, gather candidates (provided
// directly and/or retrieved live per site), then score, rank and
// truncate. Per-site and per-candidate failures degrade to neutral
// values or exclusion; the worst observable outcome is an empty list.
type SimilarityService struct {
	retriever    CandidateRetriever
	ranker       *Ranker
	queryBuilder *QueryBuilder
	store        domain.ProductStore

	weights            domain.ScoreWeights
	threshold          float64
	topK               int
	enableDebugLogging bool
}

// NewSimilarityService creates a new similarity service with dependencies
func NewSimilarityService(
	retriever CandidateRetriever,
	ranker *Ranker,
	queryBuilder *QueryBuilder,
	store domain.ProductStore,
	config SimilarityServiceConfig,
) *SimilarityService {
	topK := config.TopK
	if topK <= 0 {
		topK = 6
	}

	return &SimilarityService{
		retriever:          retriever,
		ranker:             ranker,
		queryBuilder:       queryBuilder,
		store:              store,
		weights:            config.Weights,
		threshold:          config.Threshold,
		topK:               topK,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// FindSimilar runs one similarity-search invocation for the request.
// The source product is recorded in the recent-products store. An empty
// source title degrades to an empty query rather than an error; a
// request with neither candidates nor sites yields an empty list.
func (s *SimilarityService) FindSimilar(ctx context.Context, request *domain.SearchRequest) ([]domain.RankedCandidate, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}

	query := s.queryBuilder.Build(request.Source.Title)
	if s.enableDebugLogging {
		log.Printf("[SIMILAR] Source: %q -> query %q (%d provided candidates, %d sites)",
			request.Source.Title, query, len(request.Candidates), len(request.Sites))
	}

	candidates := make([]domain.Product, 0, len(request.Candidates))
	candidates = append(candidates, request.Candidates...)
	if len(request.Sites) > 0 {
		candidates = append(candidates, s.retriever.RetrieveAll(ctx, request.Sites, query)...)
	}

	weights := s.weights
	if request.Weights != nil {
		weights = *request.Weights
	}
	threshold := s.threshold
	if request.Threshold != nil {
		threshold = *request.Threshold
	}
	topK := s.topK
	if request.TopK != nil && *request.TopK > 0 {
		topK = *request.TopK
	}

	ranked := s.ranker.Rank(ctx, request.Source, candidates, weights, threshold, topK)

	if s.store != nil && request.Source.Title != "" {
		if err := s.store.Add(ctx, request.Source); err != nil && s.enableDebugLogging {
			log.Printf("[SIMILAR] Failed to record source product: %v", err)
		}
	}

	if s.enableDebugLogging {
		log.Printf("[SIMILAR] %d candidates -> %d ranked", len(candidates), len(ranked))
	}
	return ranked, nil
}
