package domain

// Product represents a listing extracted from an e-commerce page.
// A zero or negative Price means the price is unknown; an empty Image
// means no image asset was found. Products are immutable once produced.
type Product struct {
	Title    string  `json:"title"`
	Price    float64 `json:"price,omitempty"`
	Image    string  `json:"image,omitempty"`
	URL      string  `json:"url"`
	Domain   string  `json:"domain"`
	Category string  `json:"category,omitempty"`
}

// HasPrice reports whether the listing carries a usable price.
func (p Product) HasPrice() bool {
	return p.Price > 0
}

// ScoreWeights controls how the three component similarities are blended.
// Weights multiply the component scores directly; callers choose weights
// whose intended scale keeps the blended score in [0,1].
type ScoreWeights struct {
	Title float64 `json:"title" mapstructure:"title"`
	Price float64 `json:"price" mapstructure:"price"`
	Image float64 `json:"image" mapstructure:"image"`
}

// RankedCandidate is a candidate listing with its blended similarity score.
type RankedCandidate struct {
	Product
	SimilarityScore float64 `json:"similarityScore"`
}

// SiteConfig describes how to search one external shopping site.
// Adding a site is a configuration change, not a code change.
type SiteConfig struct {
	Domain      string `json:"domain" mapstructure:"domain"`
	SearchURL   string `json:"searchUrl" mapstructure:"search_url"`
	ResultLimit int    `json:"resultLimit" mapstructure:"result_limit"`
}

// SearchRequest is the input to one similarity-search invocation.
// Offline mode supplies Candidates directly; online mode supplies Sites
// to query live. Both may be combined. Weights, Threshold and TopK
// override the configured defaults when non-nil.
type SearchRequest struct {
	Source     Product       `json:"source"`
	Candidates []Product     `json:"candidates,omitempty"`
	Sites      []string      `json:"sites,omitempty"`
	Weights    *ScoreWeights `json:"weights,omitempty"`
	Threshold  *float64      `json:"threshold,omitempty"`
	TopK       *int          `json:"topK,omitempty"`
}
