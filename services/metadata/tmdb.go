package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"reelgrid/models"
)

const (
	tmdbBaseURL = "https://api.themoviedb.org/3"

	// TMDB has generous rate limits; a small spacing keeps bursts polite.
	tmdbMinInterval = 20 * time.Millisecond
)

// TMDBClient implements Source against the TMDB v3 API.
type TMDBClient struct {
	apiKey   string
	language string
	baseURL  string
	httpc    *http.Client

	throttleMu  sync.Mutex
	lastRequest time.Time
}

// NewTMDBClient creates a TMDB-backed metadata source. A nil httpc gets a
// default client with a 15 second timeout.
func NewTMDBClient(apiKey, language string, httpc *http.Client) *TMDBClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	if language == "" {
		language = "en-US"
	}
	return &TMDBClient{
		apiKey:   strings.TrimSpace(apiKey),
		language: language,
		baseURL:  tmdbBaseURL,
		httpc:    httpc,
	}
}

func (c *TMDBClient) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// throttle reserves the next request slot and waits for it. The slot is
// claimed under the lock, so concurrent callers space out instead of piling
// onto the same interval.
func (c *TMDBClient) throttle(ctx context.Context) error {
	c.throttleMu.Lock()
	wait := tmdbMinInterval - time.Since(c.lastRequest)
	if wait < 0 {
		wait = 0
	}
	c.lastRequest = time.Now().Add(wait)
	c.throttleMu.Unlock()

	if wait == 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}

// doGET runs one request with up to three attempts. Transport errors, 429 and
// 5xx are retried with doubling backoff; other 4xx responses are final.
func (c *TMDBClient) doGET(ctx context.Context, endpoint string, v any) error {
	var lastErr error
	backoff := 300 * time.Millisecond

	for attempt := 1; attempt <= 3; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		if err := c.throttle(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}

		resp, err := c.httpc.Do(req)
		if err != nil {
			lastErr = err
			log.Printf("[tmdb] attempt %d: %v", attempt, err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("tmdb: %s", resp.Status)
			log.Printf("[tmdb] attempt %d: status %d", attempt, resp.StatusCode)
			continue
		}

		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return fmt.Errorf("tmdb: %s", resp.Status)
		}

		err = json.NewDecoder(resp.Body).Decode(v)
		resp.Body.Close()
		return err
	}

	return lastErr
}

type tmdbMovie struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	OriginalLanguage string  `json:"original_language"`
	GenreIDs         []int   `json:"genre_ids"`
	Genres           []struct {
		ID int `json:"id"`
	} `json:"genres"`
}

func (m tmdbMovie) toModel() models.CatalogEntry {
	genres := m.GenreIDs
	if len(genres) == 0 && len(m.Genres) > 0 {
		for _, g := range m.Genres {
			genres = append(genres, g.ID)
		}
	}
	return models.CatalogEntry{
		ID:           m.ID,
		Title:        m.Title,
		Overview:     m.Overview,
		PosterPath:   m.PosterPath,
		BackdropPath: m.BackdropPath,
		ReleaseDate:  m.ReleaseDate,
		VoteAverage:  m.VoteAverage,
		VoteCount:    m.VoteCount,
		Popularity:   m.Popularity,
		Language:     m.OriginalLanguage,
		GenreIDs:     genres,
	}
}

// FindByID fetches the movie with the given TMDB identifier.
func (c *TMDBClient) FindByID(ctx context.Context, id int64) (*models.CatalogEntry, error) {
	if !c.Enabled() {
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/movie/%d?api_key=%s&language=%s", c.baseURL, id, url.QueryEscape(c.apiKey), url.QueryEscape(c.language))

	var movie tmdbMovie
	if err := c.doGET(ctx, endpoint, &movie); err != nil {
		return nil, err
	}
	if movie.ID == 0 {
		return nil, nil
	}

	entry := movie.toModel()
	return &entry, nil
}

// SearchByTitle queries the TMDB search endpoint and returns candidates in
// the provider's relevance order.
func (c *TMDBClient) SearchByTitle(ctx context.Context, title string) ([]models.CatalogEntry, error) {
	title = strings.TrimSpace(title)
	if !c.Enabled() || title == "" {
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/search/movie?api_key=%s&language=%s&query=%s", c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(c.language), url.QueryEscape(title))

	var result struct {
		Results []tmdbMovie `json:"results"`
	}
	if err := c.doGET(ctx, endpoint, &result); err != nil {
		return nil, err
	}

	entries := make([]models.CatalogEntry, 0, len(result.Results))
	for _, m := range result.Results {
		entries = append(entries, m.toModel())
	}
	return entries, nil
}
