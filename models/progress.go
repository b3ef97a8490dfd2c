package models

import "time"

// ProgressItem records how far a user got into a piece of media. Position and
// Duration are in seconds as reported by the player.
type ProgressItem struct {
	UserID    string     `json:"userId"`
	ItemID    string     `json:"itemId"`
	MediaType string     `json:"mediaType"` // movie | episode
	Name      string     `json:"name,omitempty"`
	Position  float64    `json:"position"`
	Duration  float64    `json:"duration"`
	SeriesID  string     `json:"seriesId,omitempty"`
	Season    int        `json:"seasonNumber,omitempty"`
	Episode   int        `json:"episodeNumber,omitempty"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Status    SyncStatus `json:"syncStatus"`
}

// Key returns a stable identifier combining media type and item id.
func (p ProgressItem) Key() string {
	return p.MediaType + ":" + p.ItemID
}

// Fraction returns the watched fraction in [0,1], or 0 when duration is unknown.
func (p ProgressItem) Fraction() float64 {
	if p.Duration <= 0 {
		return 0
	}
	f := p.Position / p.Duration
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// InProgress reports whether the item belongs on a continue-watching shelf:
// meaningfully started but not effectively finished.
func (p ProgressItem) InProgress() bool {
	f := p.Fraction()
	return f >= 0.05 && f <= 0.95
}
