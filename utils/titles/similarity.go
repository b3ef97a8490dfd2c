package titles

import "github.com/hbollon/go-edlib"

// Similarity scores two raw titles between 0.0 (completely different) and 1.0
// (identical). Both titles are normalized first, then scored as
// (maxLen - editDistance) / maxLen. Returns 0.0 when either title normalizes
// to the empty string. Cost is quadratic in title length, which is acceptable
// because movie titles are short.
func Similarity(a, b string) float64 {
	return Ratio(Normalize(a), Normalize(b))
}

// Ratio computes the Levenshtein ratio of two already-prepared strings.
func Ratio(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}

	distance := edlib.LevenshteinDistance(a, b)
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}

	return float64(maxLen-distance) / float64(maxLen)
}
