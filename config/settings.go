package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Settings represents the application configuration persisted to disk.
type Settings struct {
	Server   ServerSettings   `json:"server"`
	Supabase SupabaseSettings `json:"supabase"`
	Metadata MetadataSettings `json:"metadata"`
	Catalog  CatalogSettings  `json:"catalog"`
	Sync     SyncSettings     `json:"sync"`
	Database DatabaseSettings `json:"database"`
	Log      LogConfig        `json:"log"`
}

type ServerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
	// DeviceID identifies this installation to the remote store. Generated
	// on first start when empty.
	DeviceID string `json:"deviceId"`
}

// SupabaseSettings configures the PostgREST streaming-link database.
type SupabaseSettings struct {
	URL          string `json:"url"`
	APIKey       string `json:"apiKey"`
	StreamsTable string `json:"streamsTable"`
}

func (s SupabaseSettings) Configured() bool {
	return strings.TrimSpace(s.URL) != "" && strings.TrimSpace(s.APIKey) != ""
}

// MetadataSettings configures the optional metadata provider. With Enabled
// false (Supabase-first mode) every lookup short-circuits to "no result".
type MetadataSettings struct {
	Enabled    bool   `json:"enabled"`
	TMDBAPIKey string `json:"tmdbApiKey"`
	Language   string `json:"language"`
}

type CatalogSettings struct {
	PageSize        int `json:"pageSize"`
	MaxEntries      int `json:"maxEntries"`
	CacheTTLMinutes int `json:"cacheTtlMinutes"`
}

type SyncSettings struct {
	// MaxAttempts and BackoffMillis shape the retry policy applied when a
	// caller triggers an explicit sync. Background pushes always use a
	// single attempt.
	MaxAttempts   int `json:"maxAttempts"`
	BackoffMillis int `json:"backoffMillis"`
}

type DatabaseSettings struct {
	Path string `json:"path"`
}

// LogConfig represents file-logging configuration.
type LogConfig struct {
	File       string `json:"file"`
	MaxSize    int    `json:"maxSize"`
	MaxAge     int    `json:"maxAge"`
	MaxBackups int    `json:"maxBackups"`
	Compress   bool   `json:"compress"`
}

// DefaultSettings returns the configuration written on first start.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{
			Host: "0.0.0.0",
			Port: 7455,
		},
		Supabase: SupabaseSettings{
			StreamsTable: "movie_streams",
		},
		Metadata: MetadataSettings{
			Enabled:  false,
			Language: "en-US",
		},
		Catalog: CatalogSettings{
			PageSize:        50,
			MaxEntries:      500,
			CacheTTLMinutes: 5,
		},
		Sync: SyncSettings{
			MaxAttempts:   3,
			BackoffMillis: 500,
		},
		Database: DatabaseSettings{
			Path: filepath.Join("cache", "reelgrid.db"),
		},
		Log: LogConfig{
			File:       filepath.Join("cache", "reelgrid.log"),
			MaxSize:    10,
			MaxAge:     14,
			MaxBackups: 3,
			Compress:   true,
		},
	}
}

// Manager loads and saves the settings file.
type Manager struct {
	path string
}

// NewManager creates a manager for the settings file at path.
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Path returns the settings file location.
func (m *Manager) Path() string {
	return m.path
}

// Load reads the settings file, creating it with defaults when missing.
// Missing sections are backfilled with defaults so old files keep working.
func (m *Manager) Load() (Settings, error) {
	data, err := os.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		settings := DefaultSettings()
		if err := m.Save(settings); err != nil {
			return Settings{}, err
		}
		return settings, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}

	if settings.Catalog.PageSize <= 0 {
		settings.Catalog.PageSize = DefaultSettings().Catalog.PageSize
	}
	if settings.Catalog.MaxEntries <= 0 {
		settings.Catalog.MaxEntries = DefaultSettings().Catalog.MaxEntries
	}
	if settings.Catalog.CacheTTLMinutes <= 0 {
		settings.Catalog.CacheTTLMinutes = DefaultSettings().Catalog.CacheTTLMinutes
	}

	return settings, nil
}

// Save writes the settings atomically: temp file, sync, rename.
func (m *Manager) Save(settings Settings) error {
	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	tmp := m.path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create settings temp file: %w", err)
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(settings); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode settings: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync settings: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close settings temp file: %w", err)
	}

	if err := os.Rename(tmp, m.path); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}
	return nil
}
