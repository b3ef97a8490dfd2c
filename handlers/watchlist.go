package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"reelgrid/models"
	"reelgrid/services/sync"
)

type watchlistService interface {
	List(userID string) ([]models.WatchlistItem, error)
	Add(ctx context.Context, userID string, input models.WatchlistUpsert) (models.WatchlistItem, error)
	Remove(ctx context.Context, userID, mediaType, itemID string) (bool, error)
}

var _ watchlistService = (*sync.WatchlistRepository)(nil)

// WatchlistHandler exposes the watchlist repository over HTTP.
type WatchlistHandler struct {
	Service watchlistService
}

func NewWatchlistHandler(service watchlistService) *WatchlistHandler {
	return &WatchlistHandler{Service: service}
}

func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r)

	items, err := h.Service.List(userID)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r)

	var input models.WatchlistUpsert
	if !decodeJSON(w, r, &input) {
		return
	}

	item, err := h.Service.Add(r.Context(), userID, input)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r)

	vars := mux.Vars(r)
	mediaType := strings.TrimSpace(vars["mediaType"])
	itemID := strings.TrimSpace(vars["itemID"])

	removed, err := h.Service.Remove(r.Context(), userID, mediaType, itemID)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	if !removed {
		http.Error(w, "watchlist item not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": true})
}

// statusFor maps repository validation errors to 400 and everything else
// to 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, sync.ErrUserIDRequired),
		errors.Is(err, sync.ErrItemIDRequired),
		errors.Is(err, sync.ErrMediaTypeRequired),
		errors.Is(err, sync.ErrNameRequired),
		errors.Is(err, sync.ErrDurationRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
