package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"reelgrid/handlers"
	"reelgrid/models"
	"reelgrid/services/sync"
)

type fakeWatchlistService struct {
	items     map[string]models.WatchlistItem
	addErr    error
	removeRet bool
}

func newFakeWatchlistService() *fakeWatchlistService {
	return &fakeWatchlistService{items: make(map[string]models.WatchlistItem), removeRet: true}
}

func (f *fakeWatchlistService) List(userID string) ([]models.WatchlistItem, error) {
	out := make([]models.WatchlistItem, 0, len(f.items))
	for _, item := range f.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeWatchlistService) Add(_ context.Context, userID string, input models.WatchlistUpsert) (models.WatchlistItem, error) {
	if f.addErr != nil {
		return models.WatchlistItem{}, f.addErr
	}
	item := models.WatchlistItem{
		UserID:    userID,
		ItemID:    input.ItemID,
		MediaType: input.MediaType,
		Name:      input.Name,
		AddedAt:   time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
		Status:    models.SyncPending,
	}
	f.items[item.Key()] = item
	return item, nil
}

func (f *fakeWatchlistService) Remove(_ context.Context, userID, mediaType, itemID string) (bool, error) {
	delete(f.items, mediaType+":"+itemID)
	return f.removeRet, nil
}

func TestWatchlistAddAndList(t *testing.T) {
	svc := newFakeWatchlistService()
	h := handlers.NewWatchlistHandler(svc)

	body := strings.NewReader(`{"itemId":"603","mediaType":"movie","name":"The Matrix"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/users/default/watchlist", body)
	req = mux.SetURLVars(req, map[string]string{"userID": "default"})
	rec := httptest.NewRecorder()

	h.Add(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var added models.WatchlistItem
	if err := json.NewDecoder(rec.Body).Decode(&added); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if added.ItemID != "603" || added.UserID != "default" {
		t.Fatalf("unexpected item: %+v", added)
	}

	listReq := httptest.NewRequest(http.MethodGet, "/api/users/default/watchlist", nil)
	listReq = mux.SetURLVars(listReq, map[string]string{"userID": "default"})
	listRec := httptest.NewRecorder()

	h.List(listRec, listReq)
	if listRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", listRec.Code)
	}

	var items []models.WatchlistItem
	if err := json.NewDecoder(listRec.Body).Decode(&items); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
}

func TestWatchlistAddValidationMapsTo400(t *testing.T) {
	svc := newFakeWatchlistService()
	svc.addErr = sync.ErrItemIDRequired
	h := handlers.NewWatchlistHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/users/default/watchlist", strings.NewReader(`{}`))
	req = mux.SetURLVars(req, map[string]string{"userID": "default"})
	rec := httptest.NewRecorder()

	h.Add(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestWatchlistAddRejectsBadJSON(t *testing.T) {
	h := handlers.NewWatchlistHandler(newFakeWatchlistService())

	req := httptest.NewRequest(http.MethodPost, "/api/users/default/watchlist", strings.NewReader(`{not json`))
	req = mux.SetURLVars(req, map[string]string{"userID": "default"})
	rec := httptest.NewRecorder()

	h.Add(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d", rec.Code)
	}
}

func TestWatchlistRemoveNotFound(t *testing.T) {
	svc := newFakeWatchlistService()
	svc.removeRet = false
	h := handlers.NewWatchlistHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/users/default/watchlist/movie/999", nil)
	req = mux.SetURLVars(req, map[string]string{
		"userID": "default", "mediaType": "movie", "itemID": "999",
	})
	rec := httptest.NewRecorder()

	h.Remove(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestWatchlistDefaultsUser(t *testing.T) {
	svc := newFakeWatchlistService()
	h := handlers.NewWatchlistHandler(svc)

	body := strings.NewReader(`{"itemId":"603","mediaType":"movie","name":"The Matrix"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/users//watchlist", body)
	rec := httptest.NewRecorder()

	h.Add(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var added models.WatchlistItem
	if err := json.NewDecoder(rec.Body).Decode(&added); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if added.UserID != models.DefaultUserID {
		t.Fatalf("expected default user, got %q", added.UserID)
	}
}
