package models

// SyncStatus tracks where a locally written record stands relative to the
// remote store. A record is created pending, moves to failed when a push is
// attempted and rejected, and to synced once the remote write is confirmed.
type SyncStatus string

const (
	SyncPending SyncStatus = "pending"
	SyncFailed  SyncStatus = "failed"
	SyncSynced  SyncStatus = "synced"
)

// NeedsSync reports whether the local copy still has to be pushed remotely.
func (s SyncStatus) NeedsSync() bool {
	return s != SyncSynced
}

// OutboxStatus summarizes pending remote work for one repository.
type OutboxStatus struct {
	Pending int `json:"pending"`
	Failed  int `json:"failed"`
	Synced  int `json:"synced"`
}
