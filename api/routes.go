package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"reelgrid/handlers"
)

// Handlers bundles everything the router mounts. All fields are required.
type Handlers struct {
	Catalog   *handlers.CatalogHandler
	Watchlist *handlers.WatchlistHandler
	Progress  *handlers.ProgressHandler
	History   *handlers.HistoryHandler
	Profile   *handlers.ProfileHandler
	Sync      *handlers.SyncHandler
	Playback  *handlers.PlaybackHandler
}

// corsMiddleware handles CORS for API routes.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NewRouter builds the full API route table.
func NewRouter(h Handlers) *mux.Router {
	r := mux.NewRouter()
	r.Use(corsMiddleware)

	apiRouter := r.PathPrefix("/api").Subrouter()

	// Catalog
	apiRouter.HandleFunc("/catalog", h.Catalog.List).Methods(http.MethodGet)
	apiRouter.HandleFunc("/catalog/search", h.Catalog.Search).Methods(http.MethodGet)
	apiRouter.HandleFunc("/catalog/categories/{name}", h.Catalog.Category).Methods(http.MethodGet)
	apiRouter.HandleFunc("/catalog/categories/{name}/{arg}", h.Catalog.Category).Methods(http.MethodGet)
	apiRouter.HandleFunc("/catalog/more", h.Catalog.More).Methods(http.MethodPost)
	apiRouter.HandleFunc("/catalog/refresh", h.Catalog.Refresh).Methods(http.MethodPost)

	// Playback
	apiRouter.HandleFunc("/playback/stream-info", h.Playback.StreamInfo).Methods(http.MethodGet)

	// Per-user state
	users := apiRouter.PathPrefix("/users/{userID}").Subrouter()

	users.HandleFunc("/watchlist", h.Watchlist.List).Methods(http.MethodGet)
	users.HandleFunc("/watchlist", h.Watchlist.Add).Methods(http.MethodPost)
	users.HandleFunc("/watchlist/{mediaType}/{itemID}", h.Watchlist.Remove).Methods(http.MethodDelete)

	users.HandleFunc("/progress", h.Progress.List).Methods(http.MethodGet)
	users.HandleFunc("/progress", h.Progress.Update).Methods(http.MethodPost)
	users.HandleFunc("/progress/{mediaType}/{itemID}", h.Progress.Get).Methods(http.MethodGet)
	users.HandleFunc("/progress/{mediaType}/{itemID}", h.Progress.Delete).Methods(http.MethodDelete)
	users.HandleFunc("/continue-watching", h.Progress.ContinueWatching).Methods(http.MethodGet)

	users.HandleFunc("/history", h.History.List).Methods(http.MethodGet)
	users.HandleFunc("/history", h.History.Record).Methods(http.MethodPost)
	users.HandleFunc("/history/{mediaType}/{itemID}", h.History.Delete).Methods(http.MethodDelete)
	users.HandleFunc("/history/{mediaType}/{itemID}/watched", h.History.IsWatched).Methods(http.MethodGet)

	users.HandleFunc("/profile", h.Profile.Get).Methods(http.MethodGet)
	users.HandleFunc("/profile", h.Profile.Save).Methods(http.MethodPut)

	users.HandleFunc("/sync", h.Sync.FullSync).Methods(http.MethodPost)
	users.HandleFunc("/sync/push", h.Sync.Push).Methods(http.MethodPost)
	users.HandleFunc("/sync/status", h.Sync.Status).Methods(http.MethodGet)

	return r
}
