package supabase

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"reelgrid/models"
)

// streamRow mirrors one row of the streaming-link table.
type streamRow struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	TMDBID      int64      `json:"tmdb_id,omitempty"`
	PosterURL   string     `json:"poster_url,omitempty"`
	BackdropURL string     `json:"backdrop_url,omitempty"`
	Year        int        `json:"year,omitempty"`
}

func (r streamRow) toModel() models.StreamEntry {
	return models.StreamEntry{
		Title:       r.Title,
		URL:         r.URL,
		PublishedAt: r.PublishedAt,
		TMDBID:      r.TMDBID,
		PosterURL:   r.PosterURL,
		BackdropURL: r.BackdropURL,
		Year:        r.Year,
	}
}

func streamQuery() url.Values {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("url", "not.is.null")
	q.Set("order", "published_at.desc.nullslast")
	return q
}

// ListStreams fetches one page of streaming-link rows ordered by publish time
// descending, newest first, using PostgREST item-range pagination.
func (c *Client) ListStreams(ctx context.Context, offset, limit int) ([]models.StreamEntry, error) {
	var rows []streamRow
	if err := c.do(ctx, http.MethodGet, c.streamsTable, streamQuery(), rangeHeaders(offset, limit), nil, &rows); err != nil {
		return nil, err
	}
	return streamModels(rows), nil
}

// ListAllStreams is the unpaginated bulk fallback used when paging fails.
func (c *Client) ListAllStreams(ctx context.Context) ([]models.StreamEntry, error) {
	var rows []streamRow
	if err := c.do(ctx, http.MethodGet, c.streamsTable, streamQuery(), nil, nil, &rows); err != nil {
		return nil, err
	}
	return streamModels(rows), nil
}

// SearchStreams performs a case-insensitive title search on the remote table.
func (c *Client) SearchStreams(ctx context.Context, term string) ([]models.StreamEntry, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}

	q := streamQuery()
	q.Set("title", "ilike.*"+term+"*")

	var rows []streamRow
	if err := c.do(ctx, http.MethodGet, c.streamsTable, q, nil, nil, &rows); err != nil {
		return nil, err
	}
	return streamModels(rows), nil
}

func streamModels(rows []streamRow) []models.StreamEntry {
	entries := make([]models.StreamEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.toModel())
	}
	return entries
}
