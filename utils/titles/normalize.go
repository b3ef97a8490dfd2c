package titles

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode"
)

var (
	apostropheRe = regexp.MustCompile("[''`‘’ʼ]")
	// trailing bracketed annotations: "(1999)", "[YIFY]", "(Director's Cut)"
	trailingBracketRe = regexp.MustCompile(`\s*[(\[][^)\]]*[)\]]\s*$`)
)

var leadingArticles = map[string]bool{
	"the": true,
	"a":   true,
	"an":  true,
}

// qualityTags are rip/encode/edition annotations that carry no identity.
var qualityTags = map[string]bool{
	"480p": true, "720p": true, "1080p": true, "2160p": true,
	"4k": true, "uhd": true, "hd": true, "hdr": true, "sd": true,
	"bluray": true, "brrip": true, "bdrip": true, "dvdrip": true,
	"webrip": true, "webdl": true, "web": true, "dl": true, "hdtv": true,
	"hdrip": true, "camrip": true, "cam": true, "ts": true, "hdcam": true,
	"x264": true, "x265": true, "h264": true, "h265": true, "hevc": true,
	"aac": true, "ac3": true, "dts": true, "remux": true,
	"proper": true, "repack": true, "internal": true,
	"extended": true, "unrated": true, "uncut": true, "remastered": true,
	"directors": true, "cut": true, "edition": true, "limited": true,
	"imax": true, "multi": true, "dubbed": true, "subbed": true,
}

var partWords = map[string]bool{
	"part": true, "pt": true, "vol": true, "volume": true, "chapter": true,
}

var memo = struct {
	sync.RWMutex
	m map[string]string
}{m: make(map[string]string)}

// Normalize strips noise from a free-text title and returns a lowercase
// canonical form usable for comparison: leading articles removed, trailing
// year/quality/edition/release-group annotations dropped, punctuation
// collapsed to single spaces, trailing part/volume/standalone-number suffixes
// removed. The function is pure and memoized for the lifetime of the process.
func Normalize(raw string) string {
	memo.RLock()
	cached, ok := memo.m[raw]
	memo.RUnlock()
	if ok {
		return cached
	}

	normalized := normalize(raw)

	memo.Lock()
	memo.m[raw] = normalized
	memo.Unlock()

	return normalized
}

func normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "&", " and ")
	s = apostropheRe.ReplaceAllString(s, "")

	for {
		stripped := trailingBracketRe.ReplaceAllString(s, "")
		if stripped == s {
			break
		}
		s = stripped
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	words := strings.Fields(b.String())
	if len(words) > 1 && leadingArticles[words[0]] {
		words = words[1:]
	}

	// Drop trailing year and quality annotations.
	for len(words) > 1 {
		last := words[len(words)-1]
		if qualityTags[last] || isYear(last) {
			words = words[:len(words)-1]
			continue
		}
		break
	}

	// Drop trailing "part N" / "vol N" / bare number suffixes.
	if len(words) > 1 && isSmallNumber(words[len(words)-1]) {
		words = words[:len(words)-1]
		if len(words) > 1 && partWords[words[len(words)-1]] {
			words = words[:len(words)-1]
		}
	}

	return strings.Join(words, " ")
}

// Tokens returns the whitespace-delimited tokens of the normalized title.
func Tokens(raw string) []string {
	n := Normalize(raw)
	if n == "" {
		return nil
	}
	return strings.Fields(n)
}

func isYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 1880 && n <= 2100
}

// isSmallNumber matches sequel/part numbering, not years or arbitrary digits.
func isSmallNumber(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n >= 1 && n < 100
}
