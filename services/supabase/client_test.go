package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reelgrid/models"
)

func TestListStreamsSendsRangeHeaders(t *testing.T) {
	var gotReq *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(context.Background())
		json.NewEncoder(w).Encode([]map[string]any{
			{"title": "The Matrix", "url": "https://cdn.example.com/matrix.mp4"},
		})
	}))
	defer server.Close()

	c := New(server.URL, "test-key", server.Client())

	entries, err := c.ListStreams(context.Background(), 50, 25)
	if err != nil {
		t.Fatalf("ListStreams returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "The Matrix" {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	if gotReq.URL.Path != "/rest/v1/movie_streams" {
		t.Fatalf("unexpected path %q", gotReq.URL.Path)
	}
	if got := gotReq.Header.Get("Range-Unit"); got != "items" {
		t.Fatalf("Range-Unit = %q, want items", got)
	}
	if got := gotReq.Header.Get("Range"); got != "50-74" {
		t.Fatalf("Range = %q, want 50-74", got)
	}
	if got := gotReq.Header.Get("apikey"); got != "test-key" {
		t.Fatalf("apikey header = %q", got)
	}
	if got := gotReq.Header.Get("Authorization"); got != "Bearer test-key" {
		t.Fatalf("Authorization header = %q", got)
	}

	q := gotReq.URL.Query()
	if q.Get("url") != "not.is.null" {
		t.Fatalf("missing null-URL filter, query: %v", q)
	}
	if q.Get("order") != "published_at.desc.nullslast" {
		t.Fatalf("missing order clause, query: %v", q)
	}
}

func TestSearchStreamsUsesIlike(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("title")
		json.NewEncoder(w).Encode([]map[string]any{})
	}))
	defer server.Close()

	c := New(server.URL, "test-key", server.Client())

	if _, err := c.SearchStreams(context.Background(), "matrix"); err != nil {
		t.Fatalf("SearchStreams returned error: %v", err)
	}
	if gotQuery != "ilike.*matrix*" {
		t.Fatalf("title filter = %q, want ilike.*matrix*", gotQuery)
	}
}

func TestSearchStreamsEmptyTermSkipsRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("remote should not be called for an empty term")
	}))
	defer server.Close()

	c := New(server.URL, "test-key", server.Client())
	entries, err := c.SearchStreams(context.Background(), "   ")
	if err != nil {
		t.Fatalf("SearchStreams returned error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}

func TestUpsertWatchlistItemAsksForMerge(t *testing.T) {
	var gotPrefer, gotMethod string
	var gotBody []map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPrefer = r.Header.Get("Prefer")
		gotMethod = r.Method
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	c := New(server.URL, "test-key", server.Client())

	item := models.WatchlistItem{
		UserID:    "default",
		ItemID:    "603",
		MediaType: "movie",
		Name:      "The Matrix",
		AddedAt:   time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := c.UpsertWatchlistItem(context.Background(), item); err != nil {
		t.Fatalf("UpsertWatchlistItem returned error: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Fatalf("method = %q, want POST", gotMethod)
	}
	if gotPrefer != "resolution=merge-duplicates,return=minimal" {
		t.Fatalf("Prefer = %q", gotPrefer)
	}
	if len(gotBody) != 1 || gotBody[0]["item_id"] != "603" {
		t.Fatalf("unexpected body: %+v", gotBody)
	}
}

func TestStatusErrorSurfacesCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"permission denied"}`, http.StatusForbidden)
	}))
	defer server.Close()

	c := New(server.URL, "test-key", server.Client())

	_, err := c.ListStreams(context.Background(), 0, 10)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Code != http.StatusForbidden {
		t.Fatalf("Code = %d, want 403", statusErr.Code)
	}
}

func TestUnconfiguredClient(t *testing.T) {
	c := New("", "", nil)
	if _, err := c.ListStreams(context.Background(), 0, 10); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestListWatchlistItemsRequiresUser(t *testing.T) {
	c := New("https://example.supabase.co", "key", nil)
	if _, err := c.ListWatchlistItems(context.Background(), ""); !errors.Is(err, ErrUserIDRequired) {
		t.Fatalf("expected ErrUserIDRequired, got %v", err)
	}
}

func TestSetStreamsTable(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode([]map[string]any{})
	}))
	defer server.Close()

	c := New(server.URL, "test-key", server.Client())
	c.SetStreamsTable("custom_streams")

	if _, err := c.ListAllStreams(context.Background()); err != nil {
		t.Fatalf("ListAllStreams returned error: %v", err)
	}
	if gotPath != "/rest/v1/custom_streams" {
		t.Fatalf("path = %q, want /rest/v1/custom_streams", gotPath)
	}
}
