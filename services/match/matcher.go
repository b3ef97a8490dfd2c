package match

import (
	"strings"

	"reelgrid/utils/titles"
)

// Thresholds names every tuning constant used by the strategy chain. The
// values were hand-tuned against real catalog titles; change them here, not
// inline.
type Thresholds struct {
	// Similarity is the floor for the normalized Levenshtein ratio.
	Similarity float64
	// ContainmentRatio is the minimum shorter/longer length ratio for a
	// substring containment match.
	ContainmentRatio float64
	// WordOverlap is the Jaccard floor over tokens longer than one rune.
	WordOverlap float64
	// LooseWordOverlap is the relaxed Jaccard floor applied late in the chain.
	LooseWordOverlap float64
	// VariationRatio is the length-ratio floor for the common-variation
	// substring test.
	VariationRatio float64
	// CoreWordRatio is the overall length-ratio floor for the core-word test.
	CoreWordRatio float64
	// Phonetic is the similarity floor after phonetic letter substitution.
	Phonetic float64
	// CleanedSimilarity is the ratio floor over fully cleaned (space-free)
	// forms, the last and loosest check.
	CleanedSimilarity float64
	// AcronymRatio is how many times longer the expanded title must be than
	// its acronym.
	AcronymRatio float64
}

// DefaultThresholds returns the tuning the catalog merger ships with.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Similarity:        0.60,
		ContainmentRatio:  0.30,
		WordOverlap:       0.40,
		LooseWordOverlap:  0.35,
		VariationRatio:    0.40,
		CoreWordRatio:     0.50,
		Phonetic:          0.70,
		CleanedSimilarity: 0.55,
		AcronymRatio:      2.0,
	}
}

// Result reports whether two titles matched, which strategy decided it, and
// the confidence that strategy produced. Boolean strategies report a fixed
// confidence; continuous strategies report their score.
type Result struct {
	Matched    bool    `json:"matched"`
	Strategy   string  `json:"strategy,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Matcher decides whether two free-text titles refer to the same movie by
// running a fixed chain of heuristics. The chain is a logical OR: the first
// strategy to pass wins, so ordering only affects which strategy gets credit
// and how fast the common case returns.
type Matcher struct {
	t          Thresholds
	strategies []strategy
}

type strategy struct {
	name string
	fn   func(a, b string) (float64, bool)
}

// New creates a matcher with the given threshold table.
func New(t Thresholds) *Matcher {
	m := &Matcher{t: t}
	m.strategies = []strategy{
		{"exact", m.exact},
		{"normalized-equal", m.normalizedEqual},
		{"similarity", m.similarity},
		{"containment", m.containment},
		{"word-overlap", m.wordOverlap},
		{"acronym", m.acronym},
		{"common-variation", m.commonVariation},
		{"loose-word-overlap", m.looseWordOverlap},
		{"core-words", m.coreWords},
		{"phonetic", m.phonetic},
		{"cleaned-similarity", m.cleanedSimilarity},
	}
	return m
}

// NewDefault creates a matcher with DefaultThresholds.
func NewDefault() *Matcher {
	return New(DefaultThresholds())
}

// Matches reports whether the two titles refer to the same movie.
func (m *Matcher) Matches(a, b string) bool {
	return m.Evaluate(a, b).Matched
}

// Evaluate runs the strategy chain and returns the first passing strategy's
// verdict. Empty titles never match.
func (m *Matcher) Evaluate(a, b string) Result {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return Result{}
	}

	for _, s := range m.strategies {
		if confidence, ok := s.fn(a, b); ok {
			return Result{Matched: true, Strategy: s.name, Confidence: confidence}
		}
	}

	return Result{}
}

func (m *Matcher) exact(a, b string) (float64, bool) {
	if strings.EqualFold(a, b) {
		return 1.0, true
	}
	return 0, false
}

func (m *Matcher) normalizedEqual(a, b string) (float64, bool) {
	na, nb := titles.Normalize(a), titles.Normalize(b)
	if na != "" && na == nb {
		return 1.0, true
	}
	return 0, false
}

func (m *Matcher) similarity(a, b string) (float64, bool) {
	score := titles.Similarity(a, b)
	return score, score >= m.t.Similarity
}

func (m *Matcher) containment(a, b string) (float64, bool) {
	na, nb := titles.Normalize(a), titles.Normalize(b)
	longer, shorter := na, nb
	if len(shorter) > len(longer) {
		longer, shorter = shorter, longer
	}
	if len(shorter) < 3 || len(longer) < 3 {
		return 0, false
	}
	if !strings.Contains(longer, shorter) {
		return 0, false
	}
	ratio := float64(len(shorter)) / float64(len(longer))
	return ratio, ratio >= m.t.ContainmentRatio
}

func (m *Matcher) wordOverlap(a, b string) (float64, bool) {
	j := jaccard(tokensAtLeast(a, 2), tokensAtLeast(b, 2))
	return j, j >= m.t.WordOverlap
}

func (m *Matcher) looseWordOverlap(a, b string) (float64, bool) {
	j := jaccard(tokensAtLeast(a, 2), tokensAtLeast(b, 2))
	return j, j >= m.t.LooseWordOverlap
}
