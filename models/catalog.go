package models

import "hash/fnv"

// CatalogEntry is descriptive metadata for a single title as returned by the
// metadata provider. Entries are immutable once fetched and never persisted
// locally.
type CatalogEntry struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview,omitempty"`
	PosterPath   string  `json:"posterPath,omitempty"`
	BackdropPath string  `json:"backdropPath,omitempty"`
	ReleaseDate  string  `json:"releaseDate,omitempty"`
	VoteAverage  float64 `json:"voteAverage,omitempty"`
	VoteCount    int     `json:"voteCount,omitempty"`
	Popularity   float64 `json:"popularity,omitempty"`
	Language     string  `json:"language,omitempty"`
	GenreIDs     []int   `json:"genreIds,omitempty"`
	Fallback     bool    `json:"fallback,omitempty"` // synthesized placeholder, not provider data
}

// HasArtwork reports whether the entry carries at least one artwork path.
func (c CatalogEntry) HasArtwork() bool {
	return c.PosterPath != "" || c.BackdropPath != ""
}

// CombinedEntry pairs one streaming-link record with real or synthesized
// descriptive metadata. Only entries that are playable and carry artwork are
// ever surfaced to clients.
type CombinedEntry struct {
	Meta   CatalogEntry `json:"meta"`
	Stream StreamEntry  `json:"stream"`
}

// Key returns a stable identity for the combined entry. It prefers the
// metadata identifier and falls back to a hash of the stream title.
func (c CombinedEntry) Key() int64 {
	if c.Meta.ID != 0 {
		return c.Meta.ID
	}
	return TitleHash(c.Stream.Title)
}

// Playable reports whether the entry has a stream URL to hand to a player.
func (c CombinedEntry) Playable() bool {
	return c.Stream.URL != ""
}

// TitleHash derives a stable 63-bit identifier from a free-text title.
func TitleHash(title string) int64 {
	h := fnv.New64a()
	h.Write([]byte(title))
	return int64(h.Sum64() & 0x7fffffffffffffff)
}
