package models

import "time"

// Profile holds per-user presentation preferences synced across devices.
type Profile struct {
	UserID      string     `json:"userId"`
	Name        string     `json:"name"`
	AvatarColor string     `json:"avatarColor,omitempty"`
	Language    string     `json:"language,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Status      SyncStatus `json:"syncStatus"`
}
