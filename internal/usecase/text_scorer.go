package usecase

import (
	"math"
	"strings"
)

// TermVector maps a normalized token to its occurrence count in a title.
// An empty title always produces an empty vector.
type TermVector map[string]int

// stemSuffixes are checked in order; the first matching suffix is
// stripped once and no further suffix is applied.
var stemSuffixes = []string{"ing", "ed", "s", "ly"}

// CompareTexts returns the cosine similarity of the term-frequency
// vectors of two titles, in [0,1]. Either input being empty yields 0.
// The comparison is symmetric, and any non-empty title compared with
// itself scores 1.
func CompareTexts(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	v1 := Vectorize(a)
	v2 := Vectorize(b)

	return cosineSimilarity(v1, v2)
}

// Vectorize tokenizes a title and counts term frequencies
func Vectorize(title string) TermVector {
	tokens := tokenizeTitle(title)

	vector := make(TermVector, len(tokens))
	for _, token := range tokens {
		vector[token]++
	}
	return vector
}

// tokenizeTitle lowercases, strips punctuation (keeping hyphens), splits
// on whitespace runs, drops tokens of length <= 2 and stems the rest
func tokenizeTitle(title string) []string {
	cleaned := titlePunctuationRegex.ReplaceAllString(strings.ToLower(title), " ")
	words := strings.Fields(cleaned)

	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) <= 2 {
			continue
		}
		tokens = append(tokens, stemToken(word))
	}
	return tokens
}

// stemToken strips a single trailing suffix, first match wins
func stemToken(token string) string {
	for _, suffix := range stemSuffixes {
		if strings.HasSuffix(token, suffix) {
			return strings.TrimSuffix(token, suffix)
		}
	}
	return token
}

// cosineSimilarity computes dot(v1,v2) / (|v1|*|v2|) over the union of
// both vocabularies. A zero norm on either side yields 0.
func cosineSimilarity(v1, v2 TermVector) float64 {
	var dot, norm1, norm2 float64

	for term, freq1 := range v1 {
		norm1 += float64(freq1) * float64(freq1)
		if freq2, ok := v2[term]; ok {
			dot += float64(freq1) * float64(freq2)
		}
	}
	for _, freq2 := range v2 {
		norm2 += float64(freq2) * float64(freq2)
	}

	magnitude := math.Sqrt(norm1) * math.Sqrt(norm2)
	if magnitude == 0 {
		return 0
	}
	return dot / magnitude
}
