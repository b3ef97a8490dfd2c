package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"

	"reelgrid/api"
	"reelgrid/config"
	"reelgrid/handlers"
	"reelgrid/internal/database"
	"reelgrid/services/catalog"
	"reelgrid/services/enrich"
	"reelgrid/services/match"
	"reelgrid/services/metadata"
	"reelgrid/services/supabase"
	"reelgrid/services/sync"
)

func main() {
	portOverride := flag.Int("port", 0, "override server port from config")
	flag.Parse()

	fmt.Println("🎬 reelgrid starting...")

	// Determine config path (env or default)
	configPath := os.Getenv("REELGRID_CONFIG")
	if configPath == "" {
		configPath = filepath.Join("cache", "settings.json")
	}

	// Init config manager and load settings (creates defaults if missing)
	cfgManager := config.NewManager(configPath)
	settings, err := cfgManager.Load()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}

	// Set up file logging with rotation
	if settings.Log.File != "" {
		logDir := filepath.Dir(settings.Log.File)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			log.Printf("Warning: could not create log directory %s: %v", logDir, err)
		} else {
			fileWriter := &lumberjack.Logger{
				Filename:   settings.Log.File,
				MaxSize:    settings.Log.MaxSize,
				MaxBackups: settings.Log.MaxBackups,
				MaxAge:     settings.Log.MaxAge,
				Compress:   settings.Log.Compress,
			}
			// Redirect standard log to both console and file
			multiWriter := io.MultiWriter(os.Stdout, fileWriter)
			log.SetOutput(multiWriter)
			log.SetFlags(log.LstdFlags | log.Lshortfile)
			log.Printf("Logging to file: %s", settings.Log.File)
		}
	}

	// Apply port override if specified
	if *portOverride > 0 {
		settings.Server.Port = *portOverride
	}

	// Generate a device ID on first start so the remote store can tell
	// installations apart.
	if settings.Server.DeviceID == "" {
		settings.Server.DeviceID = uuid.NewString()
		if err := cfgManager.Save(settings); err != nil {
			log.Fatalf("failed to persist device ID: %v", err)
		}
		log.Printf("[main] generated device ID %s", settings.Server.DeviceID)
	}

	// Open the local store and run migrations
	if dir := filepath.Dir(settings.Database.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("failed to create database directory: %v", err)
		}
	}
	db, err := database.Open(settings.Database.Path)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Remote store. The client tolerates missing credentials: reads fail with
	// ErrNotConfigured and the sync layer treats pushes as best-effort, so the
	// app still works fully offline.
	remote := supabase.New(settings.Supabase.URL, settings.Supabase.APIKey, nil)
	remote.SetStreamsTable(settings.Supabase.StreamsTable)
	if !settings.Supabase.Configured() {
		log.Printf("[main] supabase not configured; running offline-only")
	}

	// Metadata source: real TMDB client when enabled, no-op otherwise.
	var source metadata.Source = metadata.Disabled{}
	if settings.Metadata.Enabled && settings.Metadata.TMDBAPIKey != "" {
		source = metadata.NewTMDBClient(settings.Metadata.TMDBAPIKey, settings.Metadata.Language, nil)
		log.Printf("[main] metadata lookups enabled (language %s)", settings.Metadata.Language)
	}

	matcher := match.NewDefault()
	fetcher := catalog.NewFetcher(remote, time.Duration(settings.Catalog.CacheTTLMinutes)*time.Minute)
	merger := enrich.NewMerger(fetcher, source, matcher, settings.Catalog.PageSize, settings.Catalog.MaxEntries)

	policy := sync.DefaultRetryPolicy()
	if settings.Sync.MaxAttempts > 0 {
		policy.MaxAttempts = uint(settings.Sync.MaxAttempts)
	}
	if settings.Sync.BackoffMillis > 0 {
		policy.InitialBackoff = time.Duration(settings.Sync.BackoffMillis) * time.Millisecond
	}

	watchlistRepo := sync.NewWatchlistRepository(db, remote, policy)
	progressRepo := sync.NewProgressRepository(db, remote, policy)
	historyRepo := sync.NewHistoryRepository(db, remote, policy)
	profileRepo := sync.NewProfileRepository(db, remote, policy)

	router := api.NewRouter(api.Handlers{
		Catalog:   handlers.NewCatalogHandler(merger, remote, matcher),
		Watchlist: handlers.NewWatchlistHandler(watchlistRepo),
		Progress:  handlers.NewProgressHandler(progressRepo),
		History:   handlers.NewHistoryHandler(historyRepo),
		Profile:   handlers.NewProfileHandler(profileRepo),
		Playback:  handlers.NewPlaybackHandler(),
		Sync: &handlers.SyncHandler{
			Watchlist:       watchlistRepo,
			Progress:        progressRepo,
			History:         historyRepo,
			Profile:         profileRepo,
			WatchlistOutbox: watchlistRepo,
			ProgressOutbox:  progressRepo,
			HistoryOutbox:   historyRepo,
		},
	})

	addr := fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
	fmt.Printf("Server starting on %s\n", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Setup graceful shutdown
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownChan
	log.Println("🛑 Shutdown signal received, cleaning up...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
