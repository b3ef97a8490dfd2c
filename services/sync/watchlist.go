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

var (
	ErrUserIDRequired    = errors.New("user id is required")
	ErrItemIDRequired    = errors.New("item id is required")
	ErrMediaTypeRequired = errors.New("media type is required")
	ErrNameRequired      = errors.New("name is required")
)

// WatchlistRemote is the remote-store surface the watchlist repository needs.
type WatchlistRemote interface {
	UpsertWatchlistItem(ctx context.Context, item models.WatchlistItem) error
	DeleteWatchlistItem(ctx context.Context, userID, mediaType, itemID string) error
	ListWatchlistItems(ctx context.Context, userID string) ([]models.WatchlistItem, error)
}

var _ WatchlistRemote = (*supabase.Client)(nil)

// WatchlistRepository keeps the user's watchlist local-first and reconciles
// it with the remote store. On pull, remote-only records are adopted and
// local-only records are deleted: the remote copy is authoritative for
// membership. Viewing history deliberately does not share that deletion
// policy; see HistoryRepository.
type WatchlistRepository struct {
	db     *database.DB
	remote WatchlistRemote
	policy RetryPolicy
	now    func() time.Time
}

// NewWatchlistRepository creates the repository. remote may be nil, which
// leaves every write pending locally.
func NewWatchlistRepository(db *database.DB, remote WatchlistRemote, policy RetryPolicy) *WatchlistRepository {
	return &WatchlistRepository{db: db, remote: remote, policy: policy, now: time.Now}
}

// Add persists the item locally first, then attempts a best-effort remote
// upsert. A local failure is returned; a remote failure is logged, leaves the
// record pending, and does not surface to the caller.
func (r *WatchlistRepository) Add(ctx context.Context, userID string, input models.WatchlistUpsert) (models.WatchlistItem, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return models.WatchlistItem{}, ErrUserIDRequired
	}
	if strings.TrimSpace(input.ItemID) == "" {
		return models.WatchlistItem{}, ErrItemIDRequired
	}
	if strings.TrimSpace(input.MediaType) == "" {
		return models.WatchlistItem{}, ErrMediaTypeRequired
	}

	now := r.now().UTC()
	item := models.WatchlistItem{
		UserID:      userID,
		ItemID:      input.ItemID,
		MediaType:   strings.ToLower(strings.TrimSpace(input.MediaType)),
		Name:        input.Name,
		Year:        input.Year,
		PosterURL:   input.PosterURL,
		BackdropURL: input.BackdropURL,
		AddedAt:     now,
		UpdatedAt:   now,
		Status:      models.SyncPending,
	}

	if existing, err := r.db.GetWatchlistItem(userID, item.MediaType, item.ItemID); err == nil && existing != nil {
		item.AddedAt = existing.AddedAt
	}

	if err := r.db.UpsertWatchlistItem(item); err != nil {
		return models.WatchlistItem{}, err
	}

	r.pushItem(ctx, &item)
	return item, nil
}

// Remove deletes the item locally first, then best-effort remotely. Remote
// failures are logged and swallowed.
func (r *WatchlistRepository) Remove(ctx context.Context, userID, mediaType, itemID string) (bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, ErrUserIDRequired
	}
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	if mediaType == "" || strings.TrimSpace(itemID) == "" {
		return false, ErrItemIDRequired
	}

	removed, err := r.db.DeleteWatchlistItem(userID, mediaType, itemID)
	if err != nil {
		return false, err
	}

	if removed && r.remote != nil {
		callCtx, cancel := withTimeout(ctx)
		defer cancel()
		if err := r.remote.DeleteWatchlistItem(callCtx, userID, mediaType, itemID); err != nil {
			log.Printf("[sync/watchlist] remote delete failed for %s %s:%s: %v", userID, mediaType, itemID, err)
		}
	}

	return removed, nil
}

// List returns the local watchlist, most recently added first.
func (r *WatchlistRepository) List(userID string) ([]models.WatchlistItem, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	return r.db.ListWatchlistItems(userID)
}

// SyncPendingToRemote pushes every unconfirmed record under the repository's
// retry policy and returns how many were confirmed. Records that still fail
// are marked failed and left for the next call; the method itself only errors
// on local-store trouble.
func (r *WatchlistRepository) SyncPendingToRemote(ctx context.Context, userID string) (int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, ErrUserIDRequired
	}

	pending, err := r.db.ListWatchlistItemsNeedingSync(userID)
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

// Pull fetches the remote watchlist and merges it into the local store.
// Where both sides hold a record the newer timestamp wins; remote-only
// records are adopted as already synced; local-only records are deleted.
func (r *WatchlistRepository) Pull(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrUserIDRequired
	}
	if r.remote == nil {
		return nil
	}

	callCtx, cancel := withTimeout(ctx)
	defer cancel()
	remoteItems, err := r.remote.ListWatchlistItems(callCtx, userID)
	if err != nil {
		return err
	}

	localItems, err := r.db.ListWatchlistItems(userID)
	if err != nil {
		return err
	}
	localByKey := make(map[string]models.WatchlistItem, len(localItems))
	for _, item := range localItems {
		localByKey[item.Key()] = item
	}

	remoteKeys := make(map[string]bool, len(remoteItems))
	for _, remote := range remoteItems {
		remoteKeys[remote.Key()] = true

		local, exists := localByKey[remote.Key()]
		if exists && local.UpdatedAt.After(remote.UpdatedAt) {
			continue
		}
		if err := r.db.UpsertWatchlistItem(remote); err != nil {
			return err
		}
	}

	// Membership follows the remote store: local-only records were removed
	// on another device.
	for key, local := range localByKey {
		if remoteKeys[key] {
			continue
		}
		if _, err := r.db.DeleteWatchlistItem(userID, local.MediaType, local.ItemID); err != nil {
			return err
		}
	}

	return nil
}

// FullSync pushes pending records, then pulls. The two phases are not atomic;
// a crash in between is recovered by the per-record sync markers on the next
// call.
func (r *WatchlistRepository) FullSync(ctx context.Context, userID string) error {
	if _, err := r.SyncPendingToRemote(ctx, userID); err != nil {
		return err
	}
	return r.Pull(ctx, userID)
}

// OutboxStatus reports how many records are pending, failed, and synced.
func (r *WatchlistRepository) OutboxStatus(userID string) (models.OutboxStatus, error) {
	return r.db.CountWatchlistByStatus(userID)
}

// pushItem attempts the remote upsert and records the outcome on the item
// and in the local store. Never returns an error: push failures are part of
// normal operation.
func (r *WatchlistRepository) pushItem(ctx context.Context, item *models.WatchlistItem) {
	if r.remote == nil {
		return
	}

	err := r.policy.push(ctx, func(ctx context.Context) error {
		callCtx, cancel := withTimeout(ctx)
		defer cancel()
		return r.remote.UpsertWatchlistItem(callCtx, *item)
	})

	status := models.SyncSynced
	if err != nil {
		status = models.SyncFailed
		log.Printf("[sync/watchlist] push failed for %s %s: %v", item.UserID, item.Key(), err)
	}
	item.Status = status
	if dbErr := r.db.SetWatchlistSyncStatus(item.UserID, item.MediaType, item.ItemID, status); dbErr != nil {
		log.Printf("[sync/watchlist] status update failed for %s %s: %v", item.UserID, item.Key(), dbErr)
	}
}
