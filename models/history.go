package models

import "time"

// HistoryItem is one entry in a user's viewing history.
type HistoryItem struct {
	UserID    string     `json:"userId"`
	ItemID    string     `json:"itemId"`
	MediaType string     `json:"mediaType"` // movie | episode | series
	Name      string     `json:"name"`
	Year      int        `json:"year,omitempty"`
	Watched   bool       `json:"watched"`
	WatchedAt time.Time  `json:"watchedAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Status    SyncStatus `json:"syncStatus"`
}

// Key returns a stable identifier combining media type and item id.
func (h HistoryItem) Key() string {
	return h.MediaType + ":" + h.ItemID
}

// HistoryPage is one page of viewing history plus paging bookkeeping.
type HistoryPage struct {
	Items      []HistoryItem `json:"items"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalItems int           `json:"totalItems"`
	TotalPages int           `json:"totalPages"`
}
