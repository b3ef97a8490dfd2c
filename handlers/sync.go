package handlers

import (
	"context"
	"log"
	"net/http"

	"reelgrid/models"
)

// syncable is the part of every repository the sync trigger endpoints use.
type syncable interface {
	SyncPendingToRemote(ctx context.Context, userID string) (int, error)
	FullSync(ctx context.Context, userID string) error
}

type outboxReporter interface {
	OutboxStatus(userID string) (models.OutboxStatus, error)
}

// SyncHandler exposes explicit sync triggers. Nothing here runs on a
// schedule: clients call these on lifecycle events (app start, foreground,
// pull-to-refresh).
type SyncHandler struct {
	Watchlist syncable
	Progress  syncable
	History   syncable
	Profile   syncable

	WatchlistOutbox outboxReporter
	ProgressOutbox  outboxReporter
	HistoryOutbox   outboxReporter
}

// FullSync pushes pending records then pulls, for all four repositories.
// Repositories are reconciled independently: one failing does not stop the
// others, and the response reports each outcome.
func (h *SyncHandler) FullSync(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r)

	results := map[string]string{}
	for name, repo := range map[string]syncable{
		"watchlist": h.Watchlist,
		"progress":  h.Progress,
		"history":   h.History,
		"profile":   h.Profile,
	} {
		if repo == nil {
			continue
		}
		if err := repo.FullSync(r.Context(), userID); err != nil {
			log.Printf("[sync] full sync failed for %s/%s: %v", userID, name, err)
			results[name] = err.Error()
		} else {
			results[name] = "ok"
		}
	}

	writeJSON(w, http.StatusOK, results)
}

// Push triggers SyncPendingToRemote for all repositories and reports how
// many records each confirmed.
func (h *SyncHandler) Push(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r)

	counts := map[string]int{}
	for name, repo := range map[string]syncable{
		"watchlist": h.Watchlist,
		"progress":  h.Progress,
		"history":   h.History,
		"profile":   h.Profile,
	} {
		if repo == nil {
			continue
		}
		n, err := repo.SyncPendingToRemote(r.Context(), userID)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		counts[name] = n
	}

	writeJSON(w, http.StatusOK, counts)
}

// Status reports the outbox state of each repository.
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r)

	status := map[string]models.OutboxStatus{}
	for name, reporter := range map[string]outboxReporter{
		"watchlist": h.WatchlistOutbox,
		"progress":  h.ProgressOutbox,
		"history":   h.HistoryOutbox,
	} {
		if reporter == nil {
			continue
		}
		s, err := reporter.OutboxStatus(userID)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		status[name] = s
	}

	writeJSON(w, http.StatusOK, status)
}
