package match

import (
	"strconv"
	"strings"

	"reelgrid/utils/titles"
)

// synonymTable canonicalizes common title variations so "Alien vs Predator"
// matches "Alien versus Predator" and "Kill Bill Vol 1" matches
// "Kill Bill Volume 1".
var synonymTable = map[string]string{
	"versus":  "vs",
	"pt":      "part",
	"vol":     "volume",
	"chapter": "part",
}

// romanNumerals covers sequel numbering; only applied to the trailing token so
// titles like "V for Vendetta" keep their letters.
var romanNumerals = map[string]int{
	"i": 1, "ii": 2, "iii": 3, "iv": 4, "v": 5, "vi": 6,
	"vii": 7, "viii": 8, "ix": 9, "x": 10, "xi": 11, "xii": 12, "xiii": 13,
}

// phoneticSubs flattens spellings that sound alike before re-scoring.
var phoneticSubs = [][2]string{
	{"ph", "f"},
	{"ght", "t"},
	{"gh", "g"},
	{"ck", "k"},
	{"qu", "kw"},
	{"wr", "r"},
	{"kn", "n"},
	{"mb", "m"},
	{"ce", "se"},
	{"ci", "si"},
	{"cy", "sy"},
	{"x", "ks"},
	{"z", "s"},
}

// acronym passes when one title's word initials spell the other title and the
// expanded title is substantially longer, so "LOTR" matches
// "Lord of the Rings" but "IT" does not match "In Time" by accident of length.
func (m *Matcher) acronym(a, b string) (float64, bool) {
	if m.isAcronymOf(a, b) || m.isAcronymOf(b, a) {
		return 0.9, true
	}
	return 0, false
}

func (m *Matcher) isAcronymOf(short, long string) bool {
	compact := alphaOnly(strings.ToLower(short))
	words := titles.Tokens(long)
	if compact == "" || len(words) < 2 {
		return false
	}

	var initials strings.Builder
	for _, w := range words {
		initials.WriteByte(w[0])
	}
	if initials.String() != compact {
		return false
	}

	return float64(len(titles.Normalize(long))) >= m.t.AcronymRatio*float64(len(compact))
}

// commonVariation catches the usual catalog spelling drift: loose substring
// containment, Roman/Arabic sequel numbering, and the fixed synonym table.
func (m *Matcher) commonVariation(a, b string) (float64, bool) {
	na, nb := titles.Normalize(a), titles.Normalize(b)
	if na == "" || nb == "" {
		return 0, false
	}

	longer, shorter := na, nb
	if len(shorter) > len(longer) {
		longer, shorter = shorter, longer
	}
	if strings.Contains(longer, shorter) {
		if ratio := float64(len(shorter)) / float64(len(longer)); ratio >= m.t.VariationRatio {
			return ratio, true
		}
	}

	if canonicalVariant(na) == canonicalVariant(nb) {
		return 0.8, true
	}

	return 0, false
}

// canonicalVariant rewrites a normalized title into a form where known
// equivalent spellings collide: synonyms substituted and a trailing Roman
// numeral converted to its Arabic form.
func canonicalVariant(normalized string) string {
	words := strings.Fields(normalized)
	for i, w := range words {
		if repl, ok := synonymTable[w]; ok {
			words[i] = repl
		}
	}
	if len(words) > 1 {
		last := words[len(words)-1]
		if n, ok := romanNumerals[last]; ok {
			words[len(words)-1] = strconv.Itoa(n)
		}
	}
	return strings.Join(words, " ")
}

// coreWords passes when the titles share any substantial word and are of
// comparable overall length.
func (m *Matcher) coreWords(a, b string) (float64, bool) {
	na, nb := titles.Normalize(a), titles.Normalize(b)
	if na == "" || nb == "" {
		return 0, false
	}

	shorter, longer := len(na), len(nb)
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	if float64(shorter)/float64(longer) < m.t.CoreWordRatio {
		return 0, false
	}

	setB := make(map[string]bool)
	for _, w := range strings.Fields(nb) {
		if len(w) >= 3 {
			setB[w] = true
		}
	}
	for _, w := range strings.Fields(na) {
		if len(w) >= 3 && setB[w] {
			return 0.7, true
		}
	}

	return 0, false
}

func (m *Matcher) phonetic(a, b string) (float64, bool) {
	score := titles.Ratio(phoneticForm(a), phoneticForm(b))
	return score, score >= m.t.Phonetic
}

func phoneticForm(raw string) string {
	s := titles.Normalize(raw)
	for _, sub := range phoneticSubs {
		s = strings.ReplaceAll(s, sub[0], sub[1])
	}
	return s
}

// cleanedSimilarity is the loosest check in the chain: all spaces removed so
// word-boundary disagreements ("Spider Man" vs "Spiderman") cost nothing.
func (m *Matcher) cleanedSimilarity(a, b string) (float64, bool) {
	ca := strings.ReplaceAll(titles.Normalize(a), " ", "")
	cb := strings.ReplaceAll(titles.Normalize(b), " ", "")
	score := titles.Ratio(ca, cb)
	return score, score >= m.t.CleanedSimilarity
}

func alphaOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func tokensAtLeast(raw string, minLen int) []string {
	var out []string
	for _, w := range titles.Tokens(raw) {
		if len(w) >= minLen {
			out = append(out, w)
		}
	}
	return out
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]bool, len(a))
	for _, w := range a {
		setA[w] = true
	}
	setB := make(map[string]bool, len(b))
	for _, w := range b {
		setB[w] = true
	}

	intersection := 0
	for w := range setA {
		if setB[w] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}
