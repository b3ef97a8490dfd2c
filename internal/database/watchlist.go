package database

import (
	"database/sql"
	"fmt"

	"reelgrid/models"
)

const watchlistColumns = "user_id, media_type, item_id, name, year, poster_url, backdrop_url, added_at, updated_at, sync_status"

// UpsertWatchlistItem writes the item, replacing any existing row with the
// same identity.
func (d *DB) UpsertWatchlistItem(item models.WatchlistItem) error {
	_, err := d.conn.Exec(`
		INSERT INTO watchlist_items (`+watchlistColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, media_type, item_id) DO UPDATE SET
			name = excluded.name,
			year = excluded.year,
			poster_url = excluded.poster_url,
			backdrop_url = excluded.backdrop_url,
			added_at = excluded.added_at,
			updated_at = excluded.updated_at,
			sync_status = excluded.sync_status`,
		item.UserID, item.MediaType, item.ItemID, item.Name, item.Year,
		item.PosterURL, item.BackdropURL, item.AddedAt, item.UpdatedAt, string(item.Status))
	if err != nil {
		return fmt.Errorf("upsert watchlist item: %w", err)
	}
	return nil
}

// GetWatchlistItem fetches one item, or nil when absent.
func (d *DB) GetWatchlistItem(userID, mediaType, itemID string) (*models.WatchlistItem, error) {
	row := d.conn.QueryRow(`
		SELECT `+watchlistColumns+` FROM watchlist_items
		WHERE user_id = ? AND media_type = ? AND item_id = ?`,
		userID, mediaType, itemID)

	item, err := scanWatchlistItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get watchlist item: %w", err)
	}
	return &item, nil
}

// ListWatchlistItems returns the user's items, most recently added first.
func (d *DB) ListWatchlistItems(userID string) ([]models.WatchlistItem, error) {
	rows, err := d.conn.Query(`
		SELECT `+watchlistColumns+` FROM watchlist_items
		WHERE user_id = ? ORDER BY added_at DESC, item_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list watchlist items: %w", err)
	}
	defer rows.Close()

	return collectWatchlistItems(rows)
}

// ListWatchlistItemsNeedingSync returns items whose last push is unconfirmed.
func (d *DB) ListWatchlistItemsNeedingSync(userID string) ([]models.WatchlistItem, error) {
	rows, err := d.conn.Query(`
		SELECT `+watchlistColumns+` FROM watchlist_items
		WHERE user_id = ? AND sync_status != ? ORDER BY updated_at`, userID, string(models.SyncSynced))
	if err != nil {
		return nil, fmt.Errorf("list pending watchlist items: %w", err)
	}
	defer rows.Close()

	return collectWatchlistItems(rows)
}

// DeleteWatchlistItem removes one item; reports whether a row was deleted.
func (d *DB) DeleteWatchlistItem(userID, mediaType, itemID string) (bool, error) {
	res, err := d.conn.Exec(`
		DELETE FROM watchlist_items WHERE user_id = ? AND media_type = ? AND item_id = ?`,
		userID, mediaType, itemID)
	if err != nil {
		return false, fmt.Errorf("delete watchlist item: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SetWatchlistSyncStatus updates the sync marker for one item.
func (d *DB) SetWatchlistSyncStatus(userID, mediaType, itemID string, status models.SyncStatus) error {
	_, err := d.conn.Exec(`
		UPDATE watchlist_items SET sync_status = ?
		WHERE user_id = ? AND media_type = ? AND item_id = ?`,
		string(status), userID, mediaType, itemID)
	if err != nil {
		return fmt.Errorf("set watchlist sync status: %w", err)
	}
	return nil
}

// CountWatchlistByStatus tallies items per sync status.
func (d *DB) CountWatchlistByStatus(userID string) (models.OutboxStatus, error) {
	return d.countByStatus("watchlist_items", userID)
}

func (d *DB) countByStatus(table, userID string) (models.OutboxStatus, error) {
	rows, err := d.conn.Query(
		"SELECT sync_status, COUNT(*) FROM "+table+" WHERE user_id = ? GROUP BY sync_status", userID)
	if err != nil {
		return models.OutboxStatus{}, fmt.Errorf("count %s: %w", table, err)
	}
	defer rows.Close()

	var status models.OutboxStatus
	for rows.Next() {
		var s string
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return models.OutboxStatus{}, err
		}
		switch models.SyncStatus(s) {
		case models.SyncPending:
			status.Pending = n
		case models.SyncFailed:
			status.Failed = n
		case models.SyncSynced:
			status.Synced = n
		}
	}
	return status, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWatchlistItem(row rowScanner) (models.WatchlistItem, error) {
	var item models.WatchlistItem
	var status string
	err := row.Scan(&item.UserID, &item.MediaType, &item.ItemID, &item.Name, &item.Year,
		&item.PosterURL, &item.BackdropURL, &item.AddedAt, &item.UpdatedAt, &status)
	item.Status = models.SyncStatus(status)
	return item, err
}

func collectWatchlistItems(rows *sql.Rows) ([]models.WatchlistItem, error) {
	items := make([]models.WatchlistItem, 0)
	for rows.Next() {
		item, err := scanWatchlistItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
