package supabase

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"reelgrid/models"
)

// preferUpsert asks PostgREST to merge on conflict instead of erroring, which
// makes pushes idempotent.
var preferUpsert = map[string]string{"Prefer": "resolution=merge-duplicates,return=minimal"}

type watchlistRow struct {
	UserID      string    `json:"user_id"`
	ItemID      string    `json:"item_id"`
	MediaType   string    `json:"media_type"`
	Name        string    `json:"name"`
	Year        int       `json:"year,omitempty"`
	PosterURL   string    `json:"poster_url,omitempty"`
	BackdropURL string    `json:"backdrop_url,omitempty"`
	AddedAt     time.Time `json:"added_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type progressRow struct {
	UserID    string    `json:"user_id"`
	ItemID    string    `json:"item_id"`
	MediaType string    `json:"media_type"`
	Name      string    `json:"name,omitempty"`
	Position  float64   `json:"position"`
	Duration  float64   `json:"duration"`
	SeriesID  string    `json:"series_id,omitempty"`
	Season    int       `json:"season_number,omitempty"`
	Episode   int       `json:"episode_number,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type historyRow struct {
	UserID    string    `json:"user_id"`
	ItemID    string    `json:"item_id"`
	MediaType string    `json:"media_type"`
	Name      string    `json:"name"`
	Year      int       `json:"year,omitempty"`
	Watched   bool      `json:"watched"`
	WatchedAt time.Time `json:"watched_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type profileRow struct {
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	AvatarColor string    `json:"avatar_color,omitempty"`
	Language    string    `json:"language,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func userQuery(userID string) url.Values {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("user_id", eq(userID))
	return q
}

func itemQuery(userID, mediaType, itemID string) url.Values {
	q := url.Values{}
	q.Set("user_id", eq(userID))
	q.Set("media_type", eq(mediaType))
	q.Set("item_id", eq(itemID))
	return q
}

// UpsertWatchlistItem pushes one watchlist record to the remote store.
func (c *Client) UpsertWatchlistItem(ctx context.Context, item models.WatchlistItem) error {
	row := watchlistRow{
		UserID:      item.UserID,
		ItemID:      item.ItemID,
		MediaType:   item.MediaType,
		Name:        item.Name,
		Year:        item.Year,
		PosterURL:   item.PosterURL,
		BackdropURL: item.BackdropURL,
		AddedAt:     item.AddedAt,
		UpdatedAt:   item.UpdatedAt,
	}
	return c.do(ctx, http.MethodPost, "watchlist_items", nil, preferUpsert, []watchlistRow{row}, nil)
}

// DeleteWatchlistItem removes one watchlist record from the remote store.
func (c *Client) DeleteWatchlistItem(ctx context.Context, userID, mediaType, itemID string) error {
	return c.do(ctx, http.MethodDelete, "watchlist_items", itemQuery(userID, mediaType, itemID), nil, nil, nil)
}

// ListWatchlistItems fetches every remote watchlist record for the user.
func (c *Client) ListWatchlistItems(ctx context.Context, userID string) ([]models.WatchlistItem, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUserIDRequired
	}

	var rows []watchlistRow
	if err := c.do(ctx, http.MethodGet, "watchlist_items", userQuery(userID), nil, nil, &rows); err != nil {
		return nil, err
	}

	items := make([]models.WatchlistItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, models.WatchlistItem{
			UserID:      r.UserID,
			ItemID:      r.ItemID,
			MediaType:   r.MediaType,
			Name:        r.Name,
			Year:        r.Year,
			PosterURL:   r.PosterURL,
			BackdropURL: r.BackdropURL,
			AddedAt:     r.AddedAt,
			UpdatedAt:   r.UpdatedAt,
			Status:      models.SyncSynced,
		})
	}
	return items, nil
}

// UpsertProgressItem pushes one watch-progress record to the remote store.
func (c *Client) UpsertProgressItem(ctx context.Context, item models.ProgressItem) error {
	row := progressRow{
		UserID:    item.UserID,
		ItemID:    item.ItemID,
		MediaType: item.MediaType,
		Name:      item.Name,
		Position:  item.Position,
		Duration:  item.Duration,
		SeriesID:  item.SeriesID,
		Season:    item.Season,
		Episode:   item.Episode,
		UpdatedAt: item.UpdatedAt,
	}
	return c.do(ctx, http.MethodPost, "watch_progress", nil, preferUpsert, []progressRow{row}, nil)
}

// DeleteProgressItem removes one watch-progress record from the remote store.
func (c *Client) DeleteProgressItem(ctx context.Context, userID, mediaType, itemID string) error {
	return c.do(ctx, http.MethodDelete, "watch_progress", itemQuery(userID, mediaType, itemID), nil, nil, nil)
}

// ListProgressItems fetches every remote watch-progress record for the user.
func (c *Client) ListProgressItems(ctx context.Context, userID string) ([]models.ProgressItem, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUserIDRequired
	}

	var rows []progressRow
	if err := c.do(ctx, http.MethodGet, "watch_progress", userQuery(userID), nil, nil, &rows); err != nil {
		return nil, err
	}

	items := make([]models.ProgressItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, models.ProgressItem{
			UserID:    r.UserID,
			ItemID:    r.ItemID,
			MediaType: r.MediaType,
			Name:      r.Name,
			Position:  r.Position,
			Duration:  r.Duration,
			SeriesID:  r.SeriesID,
			Season:    r.Season,
			Episode:   r.Episode,
			UpdatedAt: r.UpdatedAt,
			Status:    models.SyncSynced,
		})
	}
	return items, nil
}

// UpsertHistoryItem pushes one viewing-history record to the remote store.
func (c *Client) UpsertHistoryItem(ctx context.Context, item models.HistoryItem) error {
	row := historyRow{
		UserID:    item.UserID,
		ItemID:    item.ItemID,
		MediaType: item.MediaType,
		Name:      item.Name,
		Year:      item.Year,
		Watched:   item.Watched,
		WatchedAt: item.WatchedAt,
		UpdatedAt: item.UpdatedAt,
	}
	return c.do(ctx, http.MethodPost, "viewing_history", nil, preferUpsert, []historyRow{row}, nil)
}

// DeleteHistoryItem removes one viewing-history record from the remote store.
func (c *Client) DeleteHistoryItem(ctx context.Context, userID, mediaType, itemID string) error {
	return c.do(ctx, http.MethodDelete, "viewing_history", itemQuery(userID, mediaType, itemID), nil, nil, nil)
}

// ListHistoryItems fetches every remote viewing-history record for the user.
func (c *Client) ListHistoryItems(ctx context.Context, userID string) ([]models.HistoryItem, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUserIDRequired
	}

	var rows []historyRow
	if err := c.do(ctx, http.MethodGet, "viewing_history", userQuery(userID), nil, nil, &rows); err != nil {
		return nil, err
	}

	items := make([]models.HistoryItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, models.HistoryItem{
			UserID:    r.UserID,
			ItemID:    r.ItemID,
			MediaType: r.MediaType,
			Name:      r.Name,
			Year:      r.Year,
			Watched:   r.Watched,
			WatchedAt: r.WatchedAt,
			UpdatedAt: r.UpdatedAt,
			Status:    models.SyncSynced,
		})
	}
	return items, nil
}

// UpsertProfile pushes the user profile to the remote store.
func (c *Client) UpsertProfile(ctx context.Context, profile models.Profile) error {
	row := profileRow{
		UserID:      profile.UserID,
		Name:        profile.Name,
		AvatarColor: profile.AvatarColor,
		Language:    profile.Language,
		UpdatedAt:   profile.UpdatedAt,
	}
	return c.do(ctx, http.MethodPost, "profiles", nil, preferUpsert, []profileRow{row}, nil)
}

// FetchProfile retrieves the remote profile for the user, or nil when the
// remote store has none.
func (c *Client) FetchProfile(ctx context.Context, userID string) (*models.Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUserIDRequired
	}

	var rows []profileRow
	if err := c.do(ctx, http.MethodGet, "profiles", userQuery(userID), nil, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	r := rows[0]
	return &models.Profile{
		UserID:      r.UserID,
		Name:        r.Name,
		AvatarColor: r.AvatarColor,
		Language:    r.Language,
		UpdatedAt:   r.UpdatedAt,
		Status:      models.SyncSynced,
	}, nil
}
