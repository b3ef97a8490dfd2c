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

// ProfileRemote is the remote-store surface the profile repository needs.
type ProfileRemote interface {
	UpsertProfile(ctx context.Context, profile models.Profile) error
	FetchProfile(ctx context.Context, userID string) (*models.Profile, error)
}

var _ ProfileRemote = (*supabase.Client)(nil)

// ProfileRepository keeps the single per-user profile record local-first.
type ProfileRepository struct {
	db     *database.DB
	remote ProfileRemote
	policy RetryPolicy
	now    func() time.Time
}

// NewProfileRepository creates the repository. remote may be nil.
func NewProfileRepository(db *database.DB, remote ProfileRemote, policy RetryPolicy) *ProfileRepository {
	return &ProfileRepository{db: db, remote: remote, policy: policy, now: time.Now}
}

// Get returns the local profile, or nil when none has been saved.
func (r *ProfileRepository) Get(userID string) (*models.Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	return r.db.GetProfile(userID)
}

// Save persists the profile locally first, then attempts a best-effort
// remote upsert.
func (r *ProfileRepository) Save(ctx context.Context, userID string, profile models.Profile) (models.Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return models.Profile{}, ErrUserIDRequired
	}
	if strings.TrimSpace(profile.Name) == "" {
		return models.Profile{}, ErrNameRequired
	}

	profile.UserID = userID
	profile.UpdatedAt = r.now().UTC()
	profile.Status = models.SyncPending

	if err := r.db.UpsertProfile(profile); err != nil {
		return models.Profile{}, err
	}

	r.push(ctx, &profile)
	return profile, nil
}

// SyncPendingToRemote pushes the profile if its last push is unconfirmed.
func (r *ProfileRepository) SyncPendingToRemote(ctx context.Context, userID string) (int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, ErrUserIDRequired
	}

	profile, err := r.db.GetProfile(userID)
	if err != nil {
		return 0, err
	}
	if profile == nil || !profile.Status.NeedsSync() {
		return 0, nil
	}

	r.push(ctx, profile)
	if profile.Status == models.SyncSynced {
		return 1, nil
	}
	return 0, nil
}

// Pull adopts the remote profile when it is newer than the local copy, or
// when no local copy exists. A local-only profile is kept.
func (r *ProfileRepository) Pull(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrUserIDRequired
	}
	if r.remote == nil {
		return nil
	}

	callCtx, cancel := withTimeout(ctx)
	defer cancel()
	remote, err := r.remote.FetchProfile(callCtx, userID)
	if err != nil {
		return err
	}
	if remote == nil {
		return nil
	}

	local, err := r.db.GetProfile(userID)
	if err != nil {
		return err
	}
	if local != nil && local.UpdatedAt.After(remote.UpdatedAt) {
		return nil
	}

	return r.db.UpsertProfile(*remote)
}

// FullSync pushes the pending profile, then pulls.
func (r *ProfileRepository) FullSync(ctx context.Context, userID string) error {
	if _, err := r.SyncPendingToRemote(ctx, userID); err != nil {
		return err
	}
	return r.Pull(ctx, userID)
}

func (r *ProfileRepository) push(ctx context.Context, profile *models.Profile) {
	if r.remote == nil {
		return
	}

	err := r.policy.push(ctx, func(ctx context.Context) error {
		callCtx, cancel := withTimeout(ctx)
		defer cancel()
		return r.remote.UpsertProfile(callCtx, *profile)
	})

	status := models.SyncSynced
	if err != nil {
		status = models.SyncFailed
		log.Printf("[sync/profile] push failed for %s: %v", profile.UserID, err)
	}
	profile.Status = status
	if dbErr := r.db.SetProfileSyncStatus(profile.UserID, status); dbErr != nil {
		log.Printf("[sync/profile] status update failed for %s: %v", profile.UserID, dbErr)
	}
}
