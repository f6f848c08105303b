package usecase

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/shopscout/backend/internal/domain"
)

// fakeImageScorer scores 1 for identical URLs and a fixed low score
// otherwise, counting how many comparisons actually ran
type fakeImageScorer struct {
	mismatchScore float64
	calls         atomic.Int64
}

func (f *fakeImageScorer) CompareImages(ctx context.Context, url1, url2 string) float64 {
	f.calls.Add(1)
	if url1 == "" || url2 == "" {
		return 0.5
	}
	if url1 == url2 {
		return 1
	}
	return f.mismatchScore
}

var defaultWeights = domain.ScoreWeights{Title: 0.4, Price: 0.1, Image: 0.3}

func TestRank(t *testing.T) {
	ctx := context.Background()

	t.Run("empty candidate list yields empty result", func(t *testing.T) {
		ranker := NewRanker(&fakeImageScorer{}, RankerConfig{})
		got := ranker.Rank(ctx, domain.Product{Title: "anything"}, nil, defaultWeights, 0.3, 6)
		if len(got) != 0 {
			t.Errorf("Rank(no candidates) returned %d results, want 0", len(got))
		}
	})

	t.Run("ranks matching candidate above unrelated one", func(t *testing.T) {
		ranker := NewRanker(&fakeImageScorer{mismatchScore: 0.1}, RankerConfig{PrefilterFloor: 0.2})
		source := domain.Product{Title: "Nike Air Zoom Running Shoes", Price: 4999, Image: "https://img.test/a.jpg"}
		candidates := []domain.Product{
			{Title: "Nike Air Zoom Shoes", Price: 4599, Image: "https://img.test/a.jpg"},
			{Title: "Samsung Galaxy Phone", Price: 4999, Image: "https://img.test/b.jpg"},
		}

		got := ranker.Rank(ctx, source, candidates, defaultWeights, 0.3, 6)
		if len(got) != 1 {
			t.Fatalf("Rank() returned %d results, want 1 (unrelated candidate filtered)", len(got))
		}
		if got[0].Title != "Nike Air Zoom Shoes" {
			t.Errorf("top result = %q, want the matching shoe listing", got[0].Title)
		}
		if got[0].SimilarityScore < 0.7 {
			t.Errorf("SimilarityScore = %v, want >= 0.7 for near-identical listing", got[0].SimilarityScore)
		}
	})

	t.Run("drops candidates without a title before scoring", func(t *testing.T) {
		scorer := &fakeImageScorer{}
		ranker := NewRanker(scorer, RankerConfig{})
		source := domain.Product{Title: "wooden chess set"}
		candidates := []domain.Product{
			{Title: "", Price: 10, Image: "https://img.test/x.jpg"},
		}

		got := ranker.Rank(ctx, source, candidates, defaultWeights, 0, 6)
		if len(got) != 0 {
			t.Errorf("Rank(malformed only) returned %d results, want 0", len(got))
		}
		if scorer.calls.Load() != 0 {
			t.Errorf("image scorer ran %d times for malformed candidates, want 0", scorer.calls.Load())
		}
	})

	t.Run("prefilter bounds image comparisons", func(t *testing.T) {
		scorer := &fakeImageScorer{}
		ranker := NewRanker(scorer, RankerConfig{PrefilterFloor: 0.2})
		source := domain.Product{Title: "Nike Running Shoes", Image: "https://img.test/a.jpg"}
		candidates := []domain.Product{
			{Title: "Nike Running Shoes Mens", Image: "https://img.test/a.jpg"},
			{Title: "Ceramic Coffee Mug", Image: "https://img.test/b.jpg"},
		}

		ranker.Rank(ctx, source, candidates, defaultWeights, 0, 6)
		if scorer.calls.Load() != 1 {
			t.Errorf("image scorer ran %d times, want 1 (unrelated candidate prefiltered)", scorer.calls.Load())
		}
	})

	t.Run("skips image scoring when image weight is zero", func(t *testing.T) {
		scorer := &fakeImageScorer{}
		ranker := NewRanker(scorer, RankerConfig{})
		source := domain.Product{Title: "Nike Running Shoes", Image: "https://img.test/a.jpg"}
		candidates := []domain.Product{
			{Title: "Nike Running Shoes", Image: "https://img.test/a.jpg"},
		}

		weights := domain.ScoreWeights{Title: 0.7, Price: 0.3, Image: 0}
		got := ranker.Rank(ctx, source, candidates, weights, 0, 6)
		if scorer.calls.Load() != 0 {
			t.Errorf("image scorer ran %d times with zero image weight, want 0", scorer.calls.Load())
		}
		if len(got) != 1 {
			t.Fatalf("Rank() returned %d results, want 1", len(got))
		}
	})

	t.Run("never includes candidates below threshold", func(t *testing.T) {
		ranker := NewRanker(&fakeImageScorer{mismatchScore: 0.1}, RankerConfig{})
		source := domain.Product{Title: "Nike Running Shoes", Price: 100}
		candidates := []domain.Product{
			{Title: "Nike Running Shoes", Price: 100},
			{Title: "Running Socks", Price: 100},
		}

		got := ranker.Rank(ctx, source, candidates, defaultWeights, 0.5, 6)
		for _, r := range got {
			if r.SimilarityScore < 0.5 {
				t.Errorf("result %q has score %v below threshold 0.5", r.Title, r.SimilarityScore)
			}
		}
	})

	t.Run("truncates to topK with non-increasing scores", func(t *testing.T) {
		ranker := NewRanker(&fakeImageScorer{mismatchScore: 0.1}, RankerConfig{})
		source := domain.Product{Title: "blue cotton shirt", Price: 100}
		candidates := []domain.Product{
			{Title: "blue cotton shirt", Price: 100},
			{Title: "blue cotton shirt slim", Price: 105},
			{Title: "cotton shirt", Price: 140},
			{Title: "blue shirt", Price: 200},
			{Title: "cotton blue shirt classic", Price: 95},
		}

		got := ranker.Rank(ctx, source, candidates, defaultWeights, 0, 2)
		if len(got) != 2 {
			t.Fatalf("Rank() returned %d results, want topK=2", len(got))
		}
		for i := 1; i < len(got); i++ {
			if got[i].SimilarityScore > got[i-1].SimilarityScore {
				t.Errorf("results not sorted: score[%d]=%v > score[%d]=%v",
					i, got[i].SimilarityScore, i-1, got[i-1].SimilarityScore)
			}
		}
	})

	t.Run("ties keep input relative order", func(t *testing.T) {
		ranker := NewRanker(&fakeImageScorer{}, RankerConfig{})
		source := domain.Product{Title: "wool scarf"}
		// Identical titles, no prices, no images: identical scores
		candidates := []domain.Product{
			{Title: "wool scarf", URL: "https://shop.test/first"},
			{Title: "wool scarf", URL: "https://shop.test/second"},
			{Title: "wool scarf", URL: "https://shop.test/third"},
		}

		got := ranker.Rank(ctx, source, candidates, defaultWeights, 0, 6)
		if len(got) != 3 {
			t.Fatalf("Rank() returned %d results, want 3", len(got))
		}
		wantOrder := []string{"https://shop.test/first", "https://shop.test/second", "https://shop.test/third"}
		for i, want := range wantOrder {
			if got[i].URL != want {
				t.Errorf("result[%d].URL = %q, want %q (stable tie-break)", i, got[i].URL, want)
			}
		}
	})
}
