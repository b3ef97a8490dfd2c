package enrich

import (
	"sort"
	"strconv"
	"strings"

	"reelgrid/models"
)

// Category views are derived from the enriched list in memory; there is no
// server-side filtering for these and the sort never mutates the input.

// Popular orders entries by provider popularity, most popular first.
func Popular(entries []models.CombinedEntry) []models.CombinedEntry {
	out := copyCombined(entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Meta.Popularity > out[j].Meta.Popularity
	})
	return out
}

// TopRated orders entries by vote average, best first. Entries without votes
// sort last so synthesized fallbacks do not crowd out rated titles.
func TopRated(entries []models.CombinedEntry) []models.CombinedEntry {
	out := copyCombined(entries)
	sort.SliceStable(out, func(i, j int) bool {
		vi, vj := out[i], out[j]
		if (vi.Meta.VoteCount > 0) != (vj.Meta.VoteCount > 0) {
			return vi.Meta.VoteCount > 0
		}
		return vi.Meta.VoteAverage > vj.Meta.VoteAverage
	})
	return out
}

// Trending orders entries by stream publish time, newest first.
func Trending(entries []models.CombinedEntry) []models.CombinedEntry {
	out := copyCombined(entries)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Stream.PublishedAt, out[j].Stream.PublishedAt
		if pi == nil || pj == nil {
			return pi != nil
		}
		return pi.After(*pj)
	})
	return out
}

// ByGenre keeps entries tagged with the given provider genre identifier.
func ByGenre(entries []models.CombinedEntry, genreID int) []models.CombinedEntry {
	var out []models.CombinedEntry
	for _, e := range entries {
		for _, g := range e.Meta.GenreIDs {
			if g == genreID {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// ByYear keeps entries released in the given year.
func ByYear(entries []models.CombinedEntry, year int) []models.CombinedEntry {
	var out []models.CombinedEntry
	for _, e := range entries {
		if entryYear(e) == year {
			out = append(out, e)
		}
	}
	return out
}

func entryYear(e models.CombinedEntry) int {
	date := e.Meta.ReleaseDate
	if len(date) < 4 {
		return e.Stream.Year
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return e.Stream.Year
	}
	return year
}

// View resolves a named category. Unknown names return the list unchanged.
func View(entries []models.CombinedEntry, name string) []models.CombinedEntry {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "popular":
		return Popular(entries)
	case "top-rated", "top_rated":
		return TopRated(entries)
	case "trending":
		return Trending(entries)
	default:
		return entries
	}
}

func copyCombined(entries []models.CombinedEntry) []models.CombinedEntry {
	out := make([]models.CombinedEntry, len(entries))
	copy(out, entries)
	return out
}
