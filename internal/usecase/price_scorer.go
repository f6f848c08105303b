package usecase

// NeutralScore is the fallback similarity used when a comparison cannot
// be meaningfully performed due to missing or undecodable data.
const NeutralScore = 0.5

// Price difference buckets, boundary values inclusive
const (
	priceDiffTight    = 0.10 // within 10% -> 1.0
	priceDiffClose    = 0.20 // within 20% -> 0.8
	priceDiffNear     = 0.30 // within 30% -> 0.6
	priceDiffFar      = 0.50 // within 50% -> 0.4
	priceScoreDistant = 0.2  // beyond 50%
)

// ComparePrices scores how close two listing prices are. The score is
// one of {1, 0.8, 0.6, 0.4, 0.2}; a missing or non-positive price on
// either side yields the neutral 0.5.
func ComparePrices(p1, p2 float64) float64 {
	if p1 <= 0 || p2 <= 0 {
		return NeutralScore
	}

	max, min := p1, p2
	if p2 > p1 {
		max, min = p2, p1
	}
	diffPct := (max - min) / max

	switch {
	case diffPct <= priceDiffTight:
		return 1
	case diffPct <= priceDiffClose:
		return 0.8
	case diffPct <= priceDiffNear:
		return 0.6
	case diffPct <= priceDiffFar:
		return 0.4
	default:
		return priceScoreDistant
	}
}
