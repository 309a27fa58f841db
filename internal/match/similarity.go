package match

import (
	"math"
	"strings"

	"github.com/agext/levenshtein"
)

// normalizeText lowercases and collapses whitespace for comparison.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// textEqual reports case/whitespace-normalized equality.
func textEqual(a, b string) bool {
	return normalizeText(a) == normalizeText(b)
}

// descriptionSimilarity returns a ratio in [0,1] combining token overlap
// and edit distance. Taking the max keeps reordered wordings ("valve brass
// 1/2in" vs "1/2in brass valve") and near-misses from OCR noise both high.
func descriptionSimilarity(a, b string) float64 {
	na, nb := normalizeText(a), normalizeText(b)
	if na == "" && nb == "" {
		return 1
	}
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	return math.Max(tokenOverlap(na, nb), levenshtein.Similarity(na, nb, nil))
}

// tokenOverlap is the Jaccard ratio over whitespace-separated tokens.
func tokenOverlap(a, b string) float64 {
	ta := strings.Fields(a)
	tb := strings.Fields(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	set := make(map[string]bool, len(ta))
	for _, tok := range ta {
		set[tok] = true
	}

	union := len(set)
	intersection := 0
	seen := make(map[string]bool, len(tb))
	for _, tok := range tb {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		if set[tok] {
			intersection++
		} else {
			union++
		}
	}
	return float64(intersection) / float64(union)
}

// floatsEqual reports equality of two optional numerics within an absolute
// epsilon. Both absent counts as equal; one absent does not.
func floatsEqual(a, b *float64, epsilon float64) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return math.Abs(*a-*b) <= epsilon
}

// pricesEqual applies a proportional tolerance relative to the larger
// magnitude, so $1000.00 vs $1000.50 still matches while small prices
// keep a tight bound.
func pricesEqual(a, b *float64) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	scale := math.Max(math.Abs(*a), math.Abs(*b))
	if scale == 0 {
		return true
	}
	return math.Abs(*a-*b) <= scale*priceTolerance
}
