package database

import (
	"database/sql"
	"fmt"

	"reelgrid/models"
)

const profileColumns = "user_id, name, avatar_color, language, updated_at, sync_status"

// UpsertProfile writes the profile, replacing any existing row for the user.
func (d *DB) UpsertProfile(profile models.Profile) error {
	_, err := d.conn.Exec(`
		INSERT INTO profiles (`+profileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			name = excluded.name,
			avatar_color = excluded.avatar_color,
			language = excluded.language,
			updated_at = excluded.updated_at,
			sync_status = excluded.sync_status`,
		profile.UserID, profile.Name, profile.AvatarColor, profile.Language,
		profile.UpdatedAt, string(profile.Status))
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// GetProfile fetches the user's profile, or nil when absent.
func (d *DB) GetProfile(userID string) (*models.Profile, error) {
	row := d.conn.QueryRow(`SELECT `+profileColumns+` FROM profiles WHERE user_id = ?`, userID)

	var profile models.Profile
	var status string
	err := row.Scan(&profile.UserID, &profile.Name, &profile.AvatarColor,
		&profile.Language, &profile.UpdatedAt, &status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	profile.Status = models.SyncStatus(status)
	return &profile, nil
}

// SetProfileSyncStatus updates the sync marker for the user's profile.
func (d *DB) SetProfileSyncStatus(userID string, status models.SyncStatus) error {
	_, err := d.conn.Exec(`UPDATE profiles SET sync_status = ? WHERE user_id = ?`,
		string(status), userID)
	if err != nil {
		return fmt.Errorf("set profile sync status: %w", err)
	}
	return nil
}
