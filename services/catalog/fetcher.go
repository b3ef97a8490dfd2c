package catalog

import (
	"context"
	"errors"
	"log"
	"net/url"
	"sync"
	"time"

	"reelgrid/models"
	"reelgrid/utils/titles"
)

const (
	// DefaultCacheTTL bounds how long a fetched catalog stays served from
	// memory before the next call goes back to the remote.
	DefaultCacheTTL = 5 * time.Minute

	DefaultPageSize   = 50
	DefaultMaxEntries = 500
)

var ErrNoRemote = errors.New("no stream source configured")

// StreamLister is the slice of the streaming-link database the fetcher needs.
type StreamLister interface {
	ListStreams(ctx context.Context, offset, limit int) ([]models.StreamEntry, error)
	ListAllStreams(ctx context.Context) ([]models.StreamEntry, error)
}

// Fetcher retrieves the streaming catalog page by page and keeps the merged
// result in a time-boxed in-memory cache. The cache is guarded by a lock so
// concurrent refresh and load-more calls cannot drop each other's updates.
type Fetcher struct {
	remote StreamLister
	ttl    time.Duration
	now    func() time.Time

	mu         sync.RWMutex
	entries    []models.StreamEntry
	fetchedAt  time.Time
	nextOffset int
	pageSize   int
}

// NewFetcher creates a fetcher over the given remote. A non-positive ttl
// falls back to DefaultCacheTTL.
func NewFetcher(remote StreamLister, ttl time.Duration) *Fetcher {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Fetcher{remote: remote, ttl: ttl, now: time.Now}
}

// Fetch returns up to totalLimit stream entries, reusing the cache while it is
// fresh. Pages of pageSize rows are requested until totalLimit is reached or a
// short page signals the end of the table. If any page fails the fetcher falls
// back once to the unpaginated bulk endpoint and truncates the result.
func (f *Fetcher) Fetch(ctx context.Context, pageSize, totalLimit int) ([]models.StreamEntry, error) {
	if f.remote == nil {
		return nil, ErrNoRemote
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if totalLimit <= 0 {
		totalLimit = DefaultMaxEntries
	}

	f.mu.RLock()
	if f.fresh() && len(f.entries) > 0 {
		cached := f.entries
		if len(cached) > totalLimit {
			cached = cached[:totalLimit]
		}
		out := copyEntries(cached)
		f.mu.RUnlock()
		return out, nil
	}
	f.mu.RUnlock()

	entries, offset, err := f.fetchPaged(ctx, pageSize, totalLimit)
	if err != nil {
		log.Printf("[catalog] paged fetch failed, using bulk fallback: %v", err)
		entries, err = f.remote.ListAllStreams(ctx)
		if err != nil {
			return nil, err
		}
		if len(entries) > totalLimit {
			entries = entries[:totalLimit]
		}
		offset = len(entries)
	}

	entries = filterPlayable(entries)

	f.mu.Lock()
	f.entries = entries
	f.fetchedAt = f.now()
	f.nextOffset = offset
	f.pageSize = pageSize
	f.mu.Unlock()

	return copyEntries(entries), nil
}

// LoadMore extends the cache by up to additional entries, resuming from the
// last known remote offset and dropping rows whose titles are already cached.
func (f *Fetcher) LoadMore(ctx context.Context, additional int) ([]models.StreamEntry, error) {
	if f.remote == nil {
		return nil, ErrNoRemote
	}
	if additional <= 0 {
		return f.Cached(), nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	seen := make(map[string]bool, len(f.entries))
	for _, e := range f.entries {
		seen[titles.Normalize(e.Title)] = true
	}

	// Page at the same size the last Fetch used.
	pageSize := f.pageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	offset := f.nextOffset
	added := 0
	for added < additional {
		limit := additional - added
		if limit > pageSize {
			limit = pageSize
		}

		page, err := f.remote.ListStreams(ctx, offset, limit)
		if err != nil {
			return nil, err
		}
		offset += len(page)

		for _, e := range filterPlayable(page) {
			key := titles.Normalize(e.Title)
			if seen[key] {
				continue
			}
			seen[key] = true
			f.entries = append(f.entries, e)
			added++
		}

		if len(page) < limit {
			break
		}
	}

	f.nextOffset = offset
	return copyEntries(f.entries), nil
}

// Cached returns the current cache contents without touching the remote.
func (f *Fetcher) Cached() []models.StreamEntry {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return copyEntries(f.entries)
}

// Invalidate drops the cache so the next Fetch goes back to the remote.
func (f *Fetcher) Invalidate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = nil
	f.fetchedAt = time.Time{}
	f.nextOffset = 0
}

func (f *Fetcher) fresh() bool {
	return !f.fetchedAt.IsZero() && f.now().Sub(f.fetchedAt) < f.ttl
}

func (f *Fetcher) fetchPaged(ctx context.Context, pageSize, totalLimit int) ([]models.StreamEntry, int, error) {
	var entries []models.StreamEntry
	offset := 0

	for len(entries) < totalLimit {
		limit := totalLimit - len(entries)
		if limit > pageSize {
			limit = pageSize
		}

		page, err := f.remote.ListStreams(ctx, offset, limit)
		if err != nil {
			return nil, 0, err
		}

		entries = append(entries, page...)
		offset += len(page)

		if len(page) < limit {
			break
		}
	}

	return entries, offset, nil
}

// filterPlayable keeps entries whose stream URL parses as an absolute
// http(s) URL.
func filterPlayable(entries []models.StreamEntry) []models.StreamEntry {
	out := make([]models.StreamEntry, 0, len(entries))
	for _, e := range entries {
		u, err := url.ParseRequestURI(e.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}

func copyEntries(entries []models.StreamEntry) []models.StreamEntry {
	out := make([]models.StreamEntry, len(entries))
	copy(out, entries)
	return out
}
