package database

import (
	"database/sql"
	"fmt"

	"reelgrid/models"
)

const progressColumns = "user_id, media_type, item_id, name, position, duration, series_id, season_number, episode_number, updated_at, sync_status"

// UpsertProgressItem writes the progress record, replacing any existing row
// with the same identity.
func (d *DB) UpsertProgressItem(item models.ProgressItem) error {
	_, err := d.conn.Exec(`
		INSERT INTO progress_items (`+progressColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, media_type, item_id) DO UPDATE SET
			name = excluded.name,
			position = excluded.position,
			duration = excluded.duration,
			series_id = excluded.series_id,
			season_number = excluded.season_number,
			episode_number = excluded.episode_number,
			updated_at = excluded.updated_at,
			sync_status = excluded.sync_status`,
		item.UserID, item.MediaType, item.ItemID, item.Name, item.Position, item.Duration,
		item.SeriesID, item.Season, item.Episode, item.UpdatedAt, string(item.Status))
	if err != nil {
		return fmt.Errorf("upsert progress item: %w", err)
	}
	return nil
}

// GetProgressItem fetches one record, or nil when absent.
func (d *DB) GetProgressItem(userID, mediaType, itemID string) (*models.ProgressItem, error) {
	row := d.conn.QueryRow(`
		SELECT `+progressColumns+` FROM progress_items
		WHERE user_id = ? AND media_type = ? AND item_id = ?`,
		userID, mediaType, itemID)

	item, err := scanProgressItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get progress item: %w", err)
	}
	return &item, nil
}

// ListProgressItems returns the user's records, most recently updated first.
func (d *DB) ListProgressItems(userID string) ([]models.ProgressItem, error) {
	rows, err := d.conn.Query(`
		SELECT `+progressColumns+` FROM progress_items
		WHERE user_id = ? ORDER BY updated_at DESC, item_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list progress items: %w", err)
	}
	defer rows.Close()

	return collectProgressItems(rows)
}

// ListProgressItemsNeedingSync returns records whose last push is unconfirmed.
func (d *DB) ListProgressItemsNeedingSync(userID string) ([]models.ProgressItem, error) {
	rows, err := d.conn.Query(`
		SELECT `+progressColumns+` FROM progress_items
		WHERE user_id = ? AND sync_status != ? ORDER BY updated_at`, userID, string(models.SyncSynced))
	if err != nil {
		return nil, fmt.Errorf("list pending progress items: %w", err)
	}
	defer rows.Close()

	return collectProgressItems(rows)
}

// DeleteProgressItem removes one record; reports whether a row was deleted.
func (d *DB) DeleteProgressItem(userID, mediaType, itemID string) (bool, error) {
	res, err := d.conn.Exec(`
		DELETE FROM progress_items WHERE user_id = ? AND media_type = ? AND item_id = ?`,
		userID, mediaType, itemID)
	if err != nil {
		return false, fmt.Errorf("delete progress item: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SetProgressSyncStatus updates the sync marker for one record.
func (d *DB) SetProgressSyncStatus(userID, mediaType, itemID string, status models.SyncStatus) error {
	_, err := d.conn.Exec(`
		UPDATE progress_items SET sync_status = ?
		WHERE user_id = ? AND media_type = ? AND item_id = ?`,
		string(status), userID, mediaType, itemID)
	if err != nil {
		return fmt.Errorf("set progress sync status: %w", err)
	}
	return nil
}

// CountProgressByStatus tallies records per sync status.
func (d *DB) CountProgressByStatus(userID string) (models.OutboxStatus, error) {
	return d.countByStatus("progress_items", userID)
}

func scanProgressItem(row rowScanner) (models.ProgressItem, error) {
	var item models.ProgressItem
	var status string
	err := row.Scan(&item.UserID, &item.MediaType, &item.ItemID, &item.Name, &item.Position,
		&item.Duration, &item.SeriesID, &item.Season, &item.Episode, &item.UpdatedAt, &status)
	item.Status = models.SyncStatus(status)
	return item, err
}

func collectProgressItems(rows *sql.Rows) ([]models.ProgressItem, error) {
	items := make([]models.ProgressItem, 0)
	for rows.Next() {
		item, err := scanProgressItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
