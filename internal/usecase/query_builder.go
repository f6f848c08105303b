package usecase

import (
	"log"
	"regexp"
	"strings"
)

// Compiled regex patterns for query building
var (
	// Leading brand token: first alphanumeric/hyphen run at the start of the title
	brandTokenRegex = regexp.MustCompile(`^[\w\-]+`)

	// Everything except word characters, whitespace and hyphens becomes a space.
	// Hyphens are kept because they are often meaningful in product names.
	titlePunctuationRegex = regexp.MustCompile(`[^\w\s-]`)
)

// queryStopWords are retail noise tokens that never narrow a search
var queryStopWords = map[string]bool{
	"with":   true,
	"for":    true,
	"from":   true,
	"the":    true,
	"and":    true,
	"buy":    true,
	"online": true,
}

// maxQueryTerms caps the number of non-brand terms in the generated query
const maxQueryTerms = 4

// QueryBuilder derives a compact search query from a noisy product title
type QueryBuilder struct {
	enableDebugLogging bool
}

// NewQueryBuilder creates a new query builder
func NewQueryBuilder(enableDebugLogging bool) *QueryBuilder {
	return &QueryBuilder{
		enableDebugLogging: enableDebugLogging,
	}
}

// Build produces a short search query from a product title.
// The leading token is treated as the brand and prepended to up to
// maxQueryTerms deduplicated key terms. An empty title yields an empty
// query; callers must handle that as "no useful query".
func (b *QueryBuilder) Build(title string) string {
	if strings.TrimSpace(title) == "" {
		return ""
	}

	lower := strings.ToLower(title)
	brand := brandTokenRegex.FindString(lower)

	cleaned := titlePunctuationRegex.ReplaceAllString(lower, " ")
	words := strings.Fields(cleaned)

	seen := make(map[string]bool, len(words))
	var terms []string
	for _, word := range words {
		if len(terms) == maxQueryTerms {
			break
		}
		if len(word) <= 2 || queryStopWords[word] {
			continue
		}
		// Brand fragments add nothing once the brand itself is prepended
		if brand != "" && strings.Contains(brand, word) {
			continue
		}
		if seen[word] {
			continue
		}
		seen[word] = true
		terms = append(terms, word)
	}

	query := strings.Join(terms, " ")
	if brand != "" {
		query = strings.TrimSpace(brand + " " + query)
	}

	if b.enableDebugLogging {
		log.Printf("[QUERY] Title: %q -> Query: %q", title, query)
	}

	return query
}
