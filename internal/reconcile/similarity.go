package reconcile

import (
	"strings"

	"github.com/antzucaro/matchr"

	"procure/internal/util"
)

// substringScore is returned when one normalized value is contained in the
// other, e.g. a bare code embedded in a longer description.
const substringScore = 0.8

// Similarity returns a [0,1] similarity for two short text values. Empty
// input (after normalization) always scores 0: edit distance against an
// empty string would either divide by zero or report two empty strings as a
// perfect match, and neither is a meaningful signal here.
func Similarity(a, b string) float64 {
	return normalizedSimilarity(util.NormalizeText(a), util.NormalizeText(b))
}

// CodeSimilarity compares product codes with the space-free normal form so
// spacing variants of the same code score 1.0.
func CodeSimilarity(a, b string) float64 {
	return normalizedSimilarity(util.NormalizeCode(a), util.NormalizeCode(b))
}

func normalizedSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return substringScore
	}

	dist := matchr.Levenshtein(a, b)
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	score := 1 - float64(dist)/float64(maxLen)
	if score < 0 {
		return 0
	}
	return score
}
