package models

import "time"

// DefaultUserID identifies the single-profile owner used before multiple
// profiles existed. Kept for clients that never send a user id.
const DefaultUserID = "default"

// WatchlistItem represents a media entry saved by the user for quick access.
type WatchlistItem struct {
	UserID      string     `json:"userId"`
	ItemID      string     `json:"itemId"`
	MediaType   string     `json:"mediaType"` // movie | series
	Name        string     `json:"name"`
	Year        int        `json:"year,omitempty"`
	PosterURL   string     `json:"posterUrl,omitempty"`
	BackdropURL string     `json:"backdropUrl,omitempty"`
	AddedAt     time.Time  `json:"addedAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Status      SyncStatus `json:"syncStatus"`
}

// Key returns a stable identifier combining media type and item id.
func (w WatchlistItem) Key() string {
	return w.MediaType + ":" + w.ItemID
}

// WatchlistUpsert captures data required to insert or update a watchlist item.
type WatchlistUpsert struct {
	ItemID      string `json:"itemId"`
	MediaType   string `json:"mediaType"`
	Name        string `json:"name"`
	Year        int    `json:"year,omitempty"`
	PosterURL   string `json:"posterUrl,omitempty"`
	BackdropURL string `json:"backdropUrl,omitempty"`
}
