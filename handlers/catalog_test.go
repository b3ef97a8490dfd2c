package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"reelgrid/handlers"
	"reelgrid/models"
)

type fakeCatalogService struct {
	entries  []models.CombinedEntry
	err      error
	refreshN int
	moreN    int
}

func (f *fakeCatalogService) Enriched(context.Context) ([]models.CombinedEntry, error) {
	return f.entries, f.err
}

func (f *fakeCatalogService) More(_ context.Context, additional int) ([]models.CombinedEntry, error) {
	f.moreN = additional
	return f.entries, f.err
}

func (f *fakeCatalogService) Refresh(context.Context) ([]models.CombinedEntry, error) {
	f.refreshN++
	return f.entries, f.err
}

type fakeSearcher struct {
	entries []models.StreamEntry
	err     error
	term    string
}

func (f *fakeSearcher) SearchStreams(_ context.Context, term string) ([]models.StreamEntry, error) {
	f.term = term
	return f.entries, f.err
}

func catalogFixture() []models.CombinedEntry {
	return []models.CombinedEntry{
		{
			Meta:   models.CatalogEntry{ID: 1, Title: "Drama", Popularity: 5, GenreIDs: []int{18}, ReleaseDate: "1999-03-31"},
			Stream: models.StreamEntry{URL: "https://a"},
		},
		{
			Meta:   models.CatalogEntry{ID: 2, Title: "Action", Popularity: 9, GenreIDs: []int{28}, ReleaseDate: "2026-01-01"},
			Stream: models.StreamEntry{URL: "https://b"},
		},
	}
}

func TestCatalogList(t *testing.T) {
	h := handlers.NewCatalogHandler(&fakeCatalogService{entries: catalogFixture()}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got []models.CombinedEntry
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
}

func TestCatalogListRemoteFailureIs502(t *testing.T) {
	h := handlers.NewCatalogHandler(&fakeCatalogService{err: errors.New("remote down")}, nil, nil)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/catalog", nil))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestCatalogCategoryGenre(t *testing.T) {
	h := handlers.NewCatalogHandler(&fakeCatalogService{entries: catalogFixture()}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/catalog/categories/genre/18", nil)
	req = mux.SetURLVars(req, map[string]string{"name": "genre", "arg": "18"})
	rec := httptest.NewRecorder()

	h.Category(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got []models.CombinedEntry
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got) != 1 || got[0].Meta.ID != 1 {
		t.Fatalf("expected only the drama entry, got %+v", got)
	}
}

func TestCatalogCategoryGenreRejectsNonNumeric(t *testing.T) {
	h := handlers.NewCatalogHandler(&fakeCatalogService{entries: catalogFixture()}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/catalog/categories/genre/action", nil)
	req = mux.SetURLVars(req, map[string]string{"name": "genre", "arg": "action"})
	rec := httptest.NewRecorder()

	h.Category(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCatalogSearchFiltersThroughMatcher(t *testing.T) {
	searcher := &fakeSearcher{entries: []models.StreamEntry{
		{Title: "The Matrix (1999)", URL: "https://a"},
		{Title: "Matrix Chess Tutorial", URL: "https://b"},
	}}
	h := handlers.NewCatalogHandler(&fakeCatalogService{}, searcher, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/catalog/search?q=The+Matrix", nil)
	rec := httptest.NewRecorder()

	h.Search(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if searcher.term != "The Matrix" {
		t.Fatalf("searcher got term %q", searcher.term)
	}

	var got []models.StreamEntry
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got) != 1 || got[0].Title != "The Matrix (1999)" {
		t.Fatalf("expected the near-miss row dropped, got %+v", got)
	}
}

func TestCatalogSearchRequiresQuery(t *testing.T) {
	h := handlers.NewCatalogHandler(&fakeCatalogService{}, &fakeSearcher{}, nil)

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/catalog/search", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCatalogMoreCount(t *testing.T) {
	svc := &fakeCatalogService{entries: catalogFixture()}
	h := handlers.NewCatalogHandler(svc, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/catalog/more?count=25", nil)
	rec := httptest.NewRecorder()

	h.More(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.moreN != 25 {
		t.Fatalf("expected More(25), got More(%d)", svc.moreN)
	}

	bad := httptest.NewRequest(http.MethodPost, "/api/catalog/more?count=-1", nil)
	badRec := httptest.NewRecorder()
	h.More(badRec, bad)
	if badRec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative count, got %d", badRec.Code)
	}
}

func TestCatalogRefresh(t *testing.T) {
	svc := &fakeCatalogService{entries: catalogFixture()}
	h := handlers.NewCatalogHandler(svc, nil, nil)

	rec := httptest.NewRecorder()
	h.Refresh(rec, httptest.NewRequest(http.MethodPost, "/api/catalog/refresh", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.refreshN != 1 {
		t.Fatalf("expected one Refresh call, got %d", svc.refreshN)
	}
}
