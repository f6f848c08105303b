package usecase

import (
	"context"
	"log"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/shopscout/backend/internal/domain"
)

// RankerConfig holds configuration for the ranker
type RankerConfig struct {
	// PrefilterFloor is the cheap text-similarity floor a candidate must
	// clear before the more expensive image comparison runs. Zero
	// disables prefiltering.
	PrefilterFloor float64

	// ImageConcurrency bounds parallel image comparisons per request
	ImageConcurrency int

	EnableDebugLogging bool
}

// Ranker blends the three component similarities into one score per
// candidate and produces the final ordered, truncated list.
type Ranker struct {
	imageScorer        domain.ImageScorer
	prefilterFloor     float64
	imageConcurrency   int
	enableDebugLogging bool
}

// NewRanker creates a new ranker
func NewRanker(imageScorer domain.ImageScorer, config RankerConfig) *Ranker {
	concurrency := config.ImageConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	return &Ranker{
		imageScorer:        imageScorer,
		prefilterFloor:     config.PrefilterFloor,
		imageConcurrency:   concurrency,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// scoredCandidate carries one candidate's component scores through the
// ranking pipeline. Input order is retained for the stable tie-break.
type scoredCandidate struct {
	product domain.Product
	text    float64
	price   float64
	image   float64
}

// Rank scores every candidate against the source, filters by threshold,
// stable-sorts descending by score and truncates to topK. Candidates
// without a title are dropped before scoring. Scoring is deterministic
// given the component scores; output order never depends on the arrival
// order of asynchronous image comparisons.
func (r *Ranker) Rank(
	ctx context.Context,
	source domain.Product,
	candidates []domain.Product,
	weights domain.ScoreWeights,
	threshold float64,
	topK int,
) []domain.RankedCandidate {
	if len(candidates) == 0 || topK <= 0 {
		return []domain.RankedCandidate{}
	}

	// Text and price scores are cheap; compute them up front and use the
	// text score to bound how many image fetches the request can cost.
	survivors := make([]scoredCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Title == "" {
			continue
		}
		textScore := CompareTexts(source.Title, candidate.Title)
		if r.prefilterFloor > 0 && textScore < r.prefilterFloor {
			if r.enableDebugLogging {
				log.Printf("[RANK] Prefiltered %q (text %.2f < %.2f)", candidate.Title, textScore, r.prefilterFloor)
			}
			continue
		}
		survivors = append(survivors, scoredCandidate{
			product: candidate,
			text:    textScore,
			price:   ComparePrices(source.Price, candidate.Price),
		})
	}

	r.scoreImages(ctx, source, survivors, weights)

	ranked := make([]domain.RankedCandidate, 0, len(survivors))
	for _, s := range survivors {
		score := weights.Title*s.text + weights.Price*s.price + weights.Image*s.image
		if r.enableDebugLogging {
			log.Printf("[RANK] %q text=%.2f price=%.2f image=%.2f -> %.3f",
				s.product.Title, s.text, s.price, s.image, score)
		}
		if score < threshold {
			continue
		}
		ranked = append(ranked, domain.RankedCandidate{
			Product:         s.product,
			SimilarityScore: score,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].SimilarityScore > ranked[j].SimilarityScore
	})

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}

// scoreImages fills in the image component for each survivor with
// bounded parallelism. Each comparison owns its slice slot, so no
// locking is needed. Skipped entirely when the image weight is zero.
func (r *Ranker) scoreImages(ctx context.Context, source domain.Product, survivors []scoredCandidate, weights domain.ScoreWeights) {
	if weights.Image == 0 {
		return
	}

	g := new(errgroup.Group)
	g.SetLimit(r.imageConcurrency)
	for i := range survivors {
		g.Go(func() error {
			survivors[i].image = r.imageScorer.CompareImages(ctx, source.Image, survivors[i].product.Image)
			return nil
		})
	}
	g.Wait()
}
