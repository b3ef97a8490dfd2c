package models

import "time"

// StreamEntry is a row from the user-supplied streaming-link database. The
// title is free text and unvalidated; the URL is treated as authoritative for
// what the user can actually watch. When the database has been pre-joined
// against the metadata provider the TMDB identifier and artwork columns are
// populated server-side.
type StreamEntry struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	TMDBID      int64      `json:"tmdbId,omitempty"`
	PosterURL   string     `json:"posterUrl,omitempty"`
	BackdropURL string     `json:"backdropUrl,omitempty"`
	Year        int        `json:"year,omitempty"`
}
