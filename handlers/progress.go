package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"reelgrid/models"
	"reelgrid/services/sync"
)

type progressService interface {
	List(userID string) ([]models.ProgressItem, error)
	Get(userID, mediaType, itemID string) (*models.ProgressItem, error)
	Update(ctx context.Context, userID string, item models.ProgressItem) (models.ProgressItem, error)
	Delete(ctx context.Context, userID, mediaType, itemID string) (bool, error)
	ContinueWatching(userID string) ([]models.ProgressItem, error)
}

var _ progressService = (*sync.ProgressRepository)(nil)

// ProgressHandler exposes the watch-progress repository over HTTP.
type ProgressHandler struct {
	Service progressService
}

func NewProgressHandler(service progressService) *ProgressHandler {
	return &ProgressHandler{Service: service}
}

func (h *ProgressHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r)

	items, err := h.Service.List(userID)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r)

	vars := mux.Vars(r)
	item, err := h.Service.Get(userID, vars["mediaType"], vars["itemID"])
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	if item == nil {
		http.Error(w, "progress not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ProgressHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r)

	var item models.ProgressItem
	if !decodeJSON(w, r, &item) {
		return
	}

	updated, err := h.Service.Update(r.Context(), userID, item)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ProgressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r)

	vars := mux.Vars(r)
	mediaType := strings.TrimSpace(vars["mediaType"])
	itemID := strings.TrimSpace(vars["itemID"])

	removed, err := h.Service.Delete(r.Context(), userID, mediaType, itemID)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	if !removed {
		http.Error(w, "progress not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": true})
}

func (h *ProgressHandler) ContinueWatching(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r)

	items, err := h.Service.ContinueWatching(userID)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, items)
}
