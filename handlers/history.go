package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"reelgrid/models"
	"reelgrid/services/sync"
)

type historyService interface {
	Record(ctx context.Context, userID string, item models.HistoryItem) (models.HistoryItem, error)
	Delete(ctx context.Context, userID, mediaType, itemID string) (bool, error)
	ListPage(userID string, page, pageSize int, mediaTypeFilter string) (*models.HistoryPage, error)
	IsWatched(userID, mediaType, itemID string) (bool, error)
}

var _ historyService = (*sync.HistoryRepository)(nil)

// HistoryHandler exposes the viewing-history repository over HTTP.
type HistoryHandler struct {
	Service historyService
}

func NewHistoryHandler(service historyService) *HistoryHandler {
	return &HistoryHandler{Service: service}
}

// List returns one page of the user's history. Query parameters: page,
// pageSize, mediaType.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r)

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))

	result, err := h.Service.ListPage(userID, page, pageSize, q.Get("mediaType"))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *HistoryHandler) Record(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r)

	var item models.HistoryItem
	if !decodeJSON(w, r, &item) {
		return
	}
	if item.MediaType != "" && item.ItemID != "" && !item.Watched {
		item.Watched = true
	}

	recorded, err := h.Service.Record(r.Context(), userID, item)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, recorded)
}

func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
		http.Error(w, "history item not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": true})
}

func (h *HistoryHandler) IsWatched(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r)

	vars := mux.Vars(r)
	watched, err := h.Service.IsWatched(userID, vars["mediaType"], vars["itemID"])
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"watched": watched})
}
