package database

import (
	"database/sql"
	"fmt"

	"reelgrid/models"
)

const historyColumns = "user_id, media_type, item_id, name, year, watched, watched_at, updated_at, sync_status"

// UpsertHistoryItem writes the history record, replacing any existing row
// with the same identity.
func (d *DB) UpsertHistoryItem(item models.HistoryItem) error {
	_, err := d.conn.Exec(`
		INSERT INTO history_items (`+historyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, media_type, item_id) DO UPDATE SET
			name = excluded.name,
			year = excluded.year,
			watched = excluded.watched,
			watched_at = excluded.watched_at,
			updated_at = excluded.updated_at,
			sync_status = excluded.sync_status`,
		item.UserID, item.MediaType, item.ItemID, item.Name, item.Year,
		item.Watched, item.WatchedAt, item.UpdatedAt, string(item.Status))
	if err != nil {
		return fmt.Errorf("upsert history item: %w", err)
	}
	return nil
}

// GetHistoryItem fetches one record, or nil when absent.
func (d *DB) GetHistoryItem(userID, mediaType, itemID string) (*models.HistoryItem, error) {
	row := d.conn.QueryRow(`
		SELECT `+historyColumns+` FROM history_items
		WHERE user_id = ? AND media_type = ? AND item_id = ?`,
		userID, mediaType, itemID)

	item, err := scanHistoryItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get history item: %w", err)
	}
	return &item, nil
}

// ListHistoryItems returns the user's history, most recently watched first,
// optionally filtered by media type.
func (d *DB) ListHistoryItems(userID, mediaTypeFilter string) ([]models.HistoryItem, error) {
	query := `SELECT ` + historyColumns + ` FROM history_items WHERE user_id = ?`
	args := []any{userID}
	if mediaTypeFilter != "" {
		query += " AND media_type = ?"
		args = append(args, mediaTypeFilter)
	}
	query += " ORDER BY watched_at DESC, item_id"

	rows, err := d.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history items: %w", err)
	}
	defer rows.Close()

	return collectHistoryItems(rows)
}

// ListHistoryItemsNeedingSync returns records whose last push is unconfirmed.
func (d *DB) ListHistoryItemsNeedingSync(userID string) ([]models.HistoryItem, error) {
	rows, err := d.conn.Query(`
		SELECT `+historyColumns+` FROM history_items
		WHERE user_id = ? AND sync_status != ? ORDER BY updated_at`, userID, string(models.SyncSynced))
	if err != nil {
		return nil, fmt.Errorf("list pending history items: %w", err)
	}
	defer rows.Close()

	return collectHistoryItems(rows)
}

// DeleteHistoryItem removes one record; reports whether a row was deleted.
func (d *DB) DeleteHistoryItem(userID, mediaType, itemID string) (bool, error) {
	res, err := d.conn.Exec(`
		DELETE FROM history_items WHERE user_id = ? AND media_type = ? AND item_id = ?`,
		userID, mediaType, itemID)
	if err != nil {
		return false, fmt.Errorf("delete history item: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SetHistorySyncStatus updates the sync marker for one record.
func (d *DB) SetHistorySyncStatus(userID, mediaType, itemID string, status models.SyncStatus) error {
	_, err := d.conn.Exec(`
		UPDATE history_items SET sync_status = ?
		WHERE user_id = ? AND media_type = ? AND item_id = ?`,
		string(status), userID, mediaType, itemID)
	if err != nil {
		return fmt.Errorf("set history sync status: %w", err)
	}
	return nil
}

// CountHistoryByStatus tallies records per sync status.
func (d *DB) CountHistoryByStatus(userID string) (models.OutboxStatus, error) {
	return d.countByStatus("history_items", userID)
}

func scanHistoryItem(row rowScanner) (models.HistoryItem, error) {
	var item models.HistoryItem
	var status string
	err := row.Scan(&item.UserID, &item.MediaType, &item.ItemID, &item.Name, &item.Year,
		&item.Watched, &item.WatchedAt, &item.UpdatedAt, &status)
	item.Status = models.SyncStatus(status)
	return item, err
}

func collectHistoryItems(rows *sql.Rows) ([]models.HistoryItem, error) {
	items := make([]models.HistoryItem, 0)
	for rows.Next() {
		item, err := scanHistoryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
