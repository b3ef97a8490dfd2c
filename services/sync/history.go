package sync

import (
	"context"
	"log"
	"strings"
	"time"

	"reelgrid/internal/database"
	"reelgrid/models"
	"reelgrid/services/supabase"
)

// HistoryRemote is the remote-store surface the history repository needs.
type HistoryRemote interface {
	UpsertHistoryItem(ctx context.Context, item models.HistoryItem) error
	DeleteHistoryItem(ctx context.Context, userID, mediaType, itemID string) error
	ListHistoryItems(ctx context.Context, userID string) ([]models.HistoryItem, error)
}

var _ HistoryRemote = (*supabase.Client)(nil)

// HistoryRepository keeps viewing history local-first. On pull, local-only
// records are preserved, unlike the watchlist: history written on this device
// is never deleted because another device has not uploaded it.
type HistoryRepository struct {
	db     *database.DB
	remote HistoryRemote
	policy RetryPolicy
	now    func() time.Time
}

// NewHistoryRepository creates the repository. remote may be nil.
func NewHistoryRepository(db *database.DB, remote HistoryRemote, policy RetryPolicy) *HistoryRepository {
	return &HistoryRepository{db: db, remote: remote, policy: policy, now: time.Now}
}

// Record persists the history entry locally first, then attempts a
// best-effort remote upsert.
func (r *HistoryRepository) Record(ctx context.Context, userID string, item models.HistoryItem) (models.HistoryItem, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return models.HistoryItem{}, ErrUserIDRequired
	}
	if strings.TrimSpace(item.ItemID) == "" {
		return models.HistoryItem{}, ErrItemIDRequired
	}
	if strings.TrimSpace(item.MediaType) == "" {
		return models.HistoryItem{}, ErrMediaTypeRequired
	}

	now := r.now().UTC()
	item.UserID = userID
	item.MediaType = strings.ToLower(strings.TrimSpace(item.MediaType))
	if item.WatchedAt.IsZero() {
		item.WatchedAt = now
	}
	item.UpdatedAt = now
	item.Status = models.SyncPending

	if err := r.db.UpsertHistoryItem(item); err != nil {
		return models.HistoryItem{}, err
	}

	r.pushItem(ctx, &item)
	return item, nil
}

// Delete removes the entry locally first, then best-effort remotely.
func (r *HistoryRepository) Delete(ctx context.Context, userID, mediaType, itemID string) (bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, ErrUserIDRequired
	}
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	if mediaType == "" || strings.TrimSpace(itemID) == "" {
		return false, ErrItemIDRequired
	}

	removed, err := r.db.DeleteHistoryItem(userID, mediaType, itemID)
	if err != nil {
		return false, err
	}

	if removed && r.remote != nil {
		callCtx, cancel := withTimeout(ctx)
		defer cancel()
		if err := r.remote.DeleteHistoryItem(callCtx, userID, mediaType, itemID); err != nil {
			log.Printf("[sync/history] remote delete failed for %s %s:%s: %v", userID, mediaType, itemID, err)
		}
	}

	return removed, nil
}

// List returns the user's full history, most recently watched first,
// optionally filtered by media type.
func (r *HistoryRepository) List(userID, mediaTypeFilter string) ([]models.HistoryItem, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	return r.db.ListHistoryItems(userID, strings.ToLower(strings.TrimSpace(mediaTypeFilter)))
}

// ListPage returns one page of history. Page numbering starts at 1.
func (r *HistoryRepository) ListPage(userID string, page, pageSize int, mediaTypeFilter string) (*models.HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	items, err := r.List(userID, mediaTypeFilter)
	if err != nil {
		return nil, err
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return &models.HistoryPage{
		Items:      items[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// IsWatched reports whether the item has a watched history entry.
func (r *HistoryRepository) IsWatched(userID, mediaType, itemID string) (bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, ErrUserIDRequired
	}

	item, err := r.db.GetHistoryItem(userID, strings.ToLower(strings.TrimSpace(mediaType)), itemID)
	if err != nil {
		return false, err
	}
	return item != nil && item.Watched, nil
}

// SyncPendingToRemote pushes unconfirmed records; see WatchlistRepository.
func (r *HistoryRepository) SyncPendingToRemote(ctx context.Context, userID string) (int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, ErrUserIDRequired
	}

	pending, err := r.db.ListHistoryItemsNeedingSync(userID)
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

// Pull merges remote history into the local store, newer timestamp winning.
// Local-only records are kept; see the type comment for why this differs
// from the watchlist.
func (r *HistoryRepository) Pull(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrUserIDRequired
	}
	if r.remote == nil {
		return nil
	}

	callCtx, cancel := withTimeout(ctx)
	defer cancel()
	remoteItems, err := r.remote.ListHistoryItems(callCtx, userID)
	if err != nil {
		return err
	}

	for _, remote := range remoteItems {
		local, err := r.db.GetHistoryItem(userID, remote.MediaType, remote.ItemID)
		if err != nil {
			return err
		}
		if local != nil && local.UpdatedAt.After(remote.UpdatedAt) {
			continue
		}
		if err := r.db.UpsertHistoryItem(remote); err != nil {
			return err
		}
	}

	return nil
}

// FullSync pushes pending records, then pulls.
func (r *HistoryRepository) FullSync(ctx context.Context, userID string) error {
	if _, err := r.SyncPendingToRemote(ctx, userID); err != nil {
		return err
	}
	return r.Pull(ctx, userID)
}

// OutboxStatus reports how many records are pending, failed, and synced.
func (r *HistoryRepository) OutboxStatus(userID string) (models.OutboxStatus, error) {
	return r.db.CountHistoryByStatus(userID)
}

func (r *HistoryRepository) pushItem(ctx context.Context, item *models.HistoryItem) {
	if r.remote == nil {
		return
	}

	err := r.policy.push(ctx, func(ctx context.Context) error {
		callCtx, cancel := withTimeout(ctx)
		defer cancel()
		return r.remote.UpsertHistoryItem(callCtx, *item)
	})

	status := models.SyncSynced
	if err != nil {
		status = models.SyncFailed
		log.Printf("[sync/history] push failed for %s %s: %v", item.UserID, item.Key(), err)
	}
	item.Status = status
	if dbErr := r.db.SetHistorySyncStatus(item.UserID, item.MediaType, item.ItemID, status); dbErr != nil {
		log.Printf("[sync/history] status update failed for %s %s: %v", item.UserID, item.Key(), dbErr)
	}
}
