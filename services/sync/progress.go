package sync

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"reelgrid/internal/database"
	"reelgrid/models"
	"reelgrid/services/supabase"
)

var ErrDurationRequired = errors.New("duration must be positive")

// ProgressRemote is the remote-store surface the progress repository needs.
type ProgressRemote interface {
	UpsertProgressItem(ctx context.Context, item models.ProgressItem) error
	DeleteProgressItem(ctx context.Context, userID, mediaType, itemID string) error
	ListProgressItems(ctx context.Context, userID string) ([]models.ProgressItem, error)
}

var _ ProgressRemote = (*supabase.Client)(nil)

// ProgressRepository keeps per-item playback positions local-first. Unlike
// the watchlist, records present only locally survive a pull untouched: a
// position recorded offline is never discarded just because the remote has
// not seen it yet.
type ProgressRepository struct {
	db     *database.DB
	remote ProgressRemote
	policy RetryPolicy
	now    func() time.Time
}

// NewProgressRepository creates the repository. remote may be nil.
func NewProgressRepository(db *database.DB, remote ProgressRemote, policy RetryPolicy) *ProgressRepository {
	return &ProgressRepository{db: db, remote: remote, policy: policy, now: time.Now}
}

// Update persists the position locally first, then attempts a best-effort
// remote upsert. Remote failures are logged and never surface to the player.
func (r *ProgressRepository) Update(ctx context.Context, userID string, item models.ProgressItem) (models.ProgressItem, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return models.ProgressItem{}, ErrUserIDRequired
	}
	if strings.TrimSpace(item.ItemID) == "" {
		return models.ProgressItem{}, ErrItemIDRequired
	}
	if strings.TrimSpace(item.MediaType) == "" {
		return models.ProgressItem{}, ErrMediaTypeRequired
	}
	if item.Duration <= 0 {
		return models.ProgressItem{}, ErrDurationRequired
	}

	item.UserID = userID
	item.MediaType = strings.ToLower(strings.TrimSpace(item.MediaType))
	item.UpdatedAt = r.now().UTC()
	item.Status = models.SyncPending

	if err := r.db.UpsertProgressItem(item); err != nil {
		return models.ProgressItem{}, err
	}

	r.pushItem(ctx, &item)
	return item, nil
}

// Delete removes the record locally first, then best-effort remotely.
func (r *ProgressRepository) Delete(ctx context.Context, userID, mediaType, itemID string) (bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, ErrUserIDRequired
	}
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	if mediaType == "" || strings.TrimSpace(itemID) == "" {
		return false, ErrItemIDRequired
	}

	removed, err := r.db.DeleteProgressItem(userID, mediaType, itemID)
	if err != nil {
		return false, err
	}

	if removed && r.remote != nil {
		callCtx, cancel := withTimeout(ctx)
		defer cancel()
		if err := r.remote.DeleteProgressItem(callCtx, userID, mediaType, itemID); err != nil {
			log.Printf("[sync/progress] remote delete failed for %s %s:%s: %v", userID, mediaType, itemID, err)
		}
	}

	return removed, nil
}

// Get returns one record, or nil when absent.
func (r *ProgressRepository) Get(userID, mediaType, itemID string) (*models.ProgressItem, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	return r.db.GetProgressItem(userID, strings.ToLower(strings.TrimSpace(mediaType)), itemID)
}

// List returns the user's records, most recently updated first.
func (r *ProgressRepository) List(userID string) ([]models.ProgressItem, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	return r.db.ListProgressItems(userID)
}

// ContinueWatching returns in-progress records: meaningfully started but not
// effectively finished, newest activity first.
func (r *ProgressRepository) ContinueWatching(userID string) ([]models.ProgressItem, error) {
	items, err := r.List(userID)
	if err != nil {
		return nil, err
	}

	out := make([]models.ProgressItem, 0, len(items))
	for _, item := range items {
		if item.InProgress() {
			out = append(out, item)
		}
	}
	return out, nil
}

// SyncPendingToRemote pushes unconfirmed records; see WatchlistRepository.
func (r *ProgressRepository) SyncPendingToRemote(ctx context.Context, userID string) (int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, ErrUserIDRequired
	}

	pending, err := r.db.ListProgressItemsNeedingSync(userID)
	if err != nil {
		return 0, err
	}

	synced := 0
	for i := range pending {
		item := pending[i]
		r.pushItem(ctx, &item)
		if item.Status == models.SyncSynced {
			synced++
		}
	}
	return synced, nil
}

// Pull merges remote records into the local store, newer timestamp winning.
// Local-only records are kept.
func (r *ProgressRepository) Pull(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrUserIDRequired
	}
	if r.remote == nil {
		return nil
	}

	callCtx, cancel := withTimeout(ctx)
	defer cancel()
	remoteItems, err := r.remote.ListProgressItems(callCtx, userID)
	if err != nil {
		return err
	}

	for _, remote := range remoteItems {
		local, err := r.db.GetProgressItem(userID, remote.MediaType, remote.ItemID)
		if err != nil {
			return err
		}
		if local != nil && local.UpdatedAt.After(remote.UpdatedAt) {
			continue
		}
		if err := r.db.UpsertProgressItem(remote); err != nil {
			return err
		}
	}

	return nil
}

// FullSync pushes pending records, then pulls.
func (r *ProgressRepository) FullSync(ctx context.Context, userID string) error {
	if _, err := r.SyncPendingToRemote(ctx, userID); err != nil {
		return err
	}
	return r.Pull(ctx, userID)
}

// OutboxStatus reports how many records are pending, failed, and synced.
func (r *ProgressRepository) OutboxStatus(userID string) (models.OutboxStatus, error) {
	return r.db.CountProgressByStatus(userID)
}

func (r *ProgressRepository) pushItem(ctx context.Context, item *models.ProgressItem) {
	if r.remote == nil {
		return
	}

	err := r.policy.push(ctx, func(ctx context.Context) error {
		callCtx, cancel := withTimeout(ctx)
		defer cancel()
		return r.remote.UpsertProgressItem(callCtx, *item)
	})

	status := models.SyncSynced
	if err != nil {
		status = models.SyncFailed
		log.Printf("[sync/progress] push failed for %s %s: %v", item.UserID, item.Key(), err)
	}
	item.Status = status
	if dbErr := r.db.SetProgressSyncStatus(item.UserID, item.MediaType, item.ItemID, status); dbErr != nil {
		log.Printf("[sync/progress] status update failed for %s %s: %v", item.UserID, item.Key(), dbErr)
	}
}
