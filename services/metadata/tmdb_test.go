package metadata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*TMDBClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewTMDBClient("test-key", "en-US", srv.Client())
	c.baseURL = srv.URL
	return c, srv
}

func TestDoGETRetriesTransientFailures(t *testing.T) {
	hits := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":603,"title":"The Matrix"}`))
	})

	entry, err := c.FindByID(context.Background(), 603)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if entry == nil || entry.ID != 603 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if hits != 2 {
		t.Fatalf("expected one retry after the 500, got %d requests", hits)
	}
}

func TestDoGETClientErrorIsFinal(t *testing.T) {
	hits := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusNotFound)
	})

	if _, err := c.FindByID(context.Background(), 1); err == nil {
		t.Fatal("expected error for 404")
	}
	if hits != 1 {
		t.Fatalf("404 must not be retried, got %d requests", hits)
	}
}

func TestDoGETStopsWhenContextCancelled(t *testing.T) {
	hits := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FindByID(ctx, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if hits > 1 {
		t.Fatalf("kept retrying a cancelled request: %d requests", hits)
	}
}
