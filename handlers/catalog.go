package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"reelgrid/models"
	"reelgrid/services/enrich"
	"reelgrid/services/match"
)

type catalogService interface {
	Enriched(ctx context.Context) ([]models.CombinedEntry, error)
	More(ctx context.Context, additional int) ([]models.CombinedEntry, error)
	Refresh(ctx context.Context) ([]models.CombinedEntry, error)
}

var _ catalogService = (*enrich.Merger)(nil)

type streamSearcher interface {
	SearchStreams(ctx context.Context, term string) ([]models.StreamEntry, error)
}

// CatalogHandler serves the enriched streaming catalog and its derived
// category views.
type CatalogHandler struct {
	Service  catalogService
	Searcher streamSearcher
	Matcher  *match.Matcher
}

func NewCatalogHandler(service catalogService, searcher streamSearcher, matcher *match.Matcher) *CatalogHandler {
	if matcher == nil {
		matcher = match.NewDefault()
	}
	return &CatalogHandler{Service: service, Searcher: searcher, Matcher: matcher}
}

// List returns the full enriched catalog.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Service.Enriched(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Category returns a named or parameterized view over the enriched catalog:
// popular, top-rated, trending, genre/{id}, year/{year}.
func (h *CatalogHandler) Category(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Service.Enriched(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	vars := mux.Vars(r)
	name := strings.ToLower(strings.TrimSpace(vars["name"]))

	switch name {
	case "genre":
		genreID, err := strconv.Atoi(vars["arg"])
		if err != nil {
			http.Error(w, "genre id must be numeric", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, enrich.ByGenre(entries, genreID))
	case "year":
		year, err := strconv.Atoi(vars["arg"])
		if err != nil {
			http.Error(w, "year must be numeric", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, enrich.ByYear(entries, year))
	default:
		writeJSON(w, http.StatusOK, enrich.View(entries, name))
	}
}

// Search runs a remote title search and filters the rows through the match
// chain so near-miss rows from the ilike query are dropped.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		http.Error(w, "query parameter q is required", http.StatusBadRequest)
		return
	}
	if h.Searcher == nil {
		writeJSON(w, http.StatusOK, []models.StreamEntry{})
		return
	}

	entries, err := h.Searcher.SearchStreams(r.Context(), term)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	matched := make([]models.StreamEntry, 0, len(entries))
	for _, e := range entries {
		if h.Matcher.Matches(term, e.Title) {
			matched = append(matched, e)
		}
	}
	writeJSON(w, http.StatusOK, matched)
}

// More extends the catalog by count entries (default one page).
func (h *CatalogHandler) More(w http.ResponseWriter, r *http.Request) {
	count := 50
	if raw := r.URL.Query().Get("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "count must be a positive integer", http.StatusBadRequest)
			return
		}
		count = parsed
	}

	entries, err := h.Service.More(r.Context(), count)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Refresh invalidates the cache and rebuilds the catalog.
func (h *CatalogHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Service.Refresh(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
