package enrich

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"reelgrid/models"
	"reelgrid/services/catalog"
	"reelgrid/services/match"
	"reelgrid/services/metadata"
)

const (
	// lookupWorkers bounds concurrent metadata lookups during one merge pass.
	lookupWorkers = 8

	// fallbackVoteAverage is the deterministic placeholder rating assigned to
	// synthesized entries.
	fallbackVoteAverage = 5.0
)

var yearInTitleRe = regexp.MustCompile(`\((19|20)\d{2}\)`)

// StreamProvider is the catalog surface the merger consumes.
type StreamProvider interface {
	Fetch(ctx context.Context, pageSize, totalLimit int) ([]models.StreamEntry, error)
	LoadMore(ctx context.Context, additional int) ([]models.StreamEntry, error)
	Invalidate()
}

var _ StreamProvider = (*catalog.Fetcher)(nil)

// Merger pairs streaming-link entries with descriptive metadata, synthesizing
// deterministic fallback entries when no provider match exists, and keeps the
// invariant that every surfaced entry is playable and carries artwork.
type Merger struct {
	streams    StreamProvider
	source     metadata.Source
	matcher    *match.Matcher
	pageSize   int
	maxEntries int
}

// NewMerger creates a merger. A nil source is treated as metadata.Disabled.
func NewMerger(streams StreamProvider, source metadata.Source, matcher *match.Matcher, pageSize, maxEntries int) *Merger {
	if source == nil {
		source = metadata.Disabled{}
	}
	if matcher == nil {
		matcher = match.NewDefault()
	}
	if pageSize <= 0 {
		pageSize = catalog.DefaultPageSize
	}
	if maxEntries <= 0 {
		maxEntries = catalog.DefaultMaxEntries
	}
	return &Merger{
		streams:    streams,
		source:     source,
		matcher:    matcher,
		pageSize:   pageSize,
		maxEntries: maxEntries,
	}
}

// Enriched fetches the streaming catalog and returns combined entries:
// playable, carrying artwork, deduplicated by identity, in catalog order.
func (m *Merger) Enriched(ctx context.Context) ([]models.CombinedEntry, error) {
	entries, err := m.streams.Fetch(ctx, m.pageSize, m.maxEntries)
	if err != nil {
		return nil, err
	}
	return m.combine(ctx, entries), nil
}

// More extends the catalog cache and returns the full enriched list.
func (m *Merger) More(ctx context.Context, additional int) ([]models.CombinedEntry, error) {
	entries, err := m.streams.LoadMore(ctx, additional)
	if err != nil {
		return nil, err
	}
	return m.combine(ctx, entries), nil
}

// Refresh drops the catalog cache and rebuilds the enriched list.
func (m *Merger) Refresh(ctx context.Context) ([]models.CombinedEntry, error) {
	m.streams.Invalidate()
	return m.Enriched(ctx)
}

func (m *Merger) combine(ctx context.Context, entries []models.StreamEntry) []models.CombinedEntry {
	combined := make([]models.CombinedEntry, len(entries))

	p := pool.New().WithMaxGoroutines(lookupWorkers)
	for i, entry := range entries {
		p.Go(func() {
			combined[i] = m.resolve(ctx, entry)
		})
	}
	p.Wait()

	out := make([]models.CombinedEntry, 0, len(combined))
	seen := make(map[int64]bool, len(combined))
	for _, c := range combined {
		if !c.Playable() || !c.Meta.HasArtwork() {
			continue
		}
		key := c.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// resolve finds real metadata for one stream entry or synthesizes a fallback.
// Lookup failures degrade to the fallback; the entry still surfaces as long
// as the stream row carries artwork of its own.
func (m *Merger) resolve(ctx context.Context, entry models.StreamEntry) models.CombinedEntry {
	if m.source.Enabled() {
		if entry.TMDBID != 0 {
			meta, err := m.source.FindByID(ctx, entry.TMDBID)
			if err != nil {
				log.Printf("[enrich] metadata lookup failed for %q (id %d): %v", entry.Title, entry.TMDBID, err)
			} else if meta != nil {
				return models.CombinedEntry{Meta: *meta, Stream: entry}
			}
		}

		candidates, err := m.source.SearchByTitle(ctx, entry.Title)
		if err != nil {
			log.Printf("[enrich] metadata search failed for %q: %v", entry.Title, err)
		}
		for _, candidate := range candidates {
			if m.matcher.Matches(entry.Title, candidate.Title) {
				return models.CombinedEntry{Meta: candidate, Stream: entry}
			}
		}
	}

	return models.CombinedEntry{Meta: FallbackEntry(entry), Stream: entry}
}

// FallbackEntry synthesizes placeholder metadata from a stream entry alone.
// The result is deterministic for a given entry: the identifier is a hash of
// the title, the rating and overview are fixed placeholders, and artwork is
// borrowed from the stream row when the database carries it.
func FallbackEntry(entry models.StreamEntry) models.CatalogEntry {
	name := strings.TrimSpace(yearInTitleRe.ReplaceAllString(entry.Title, ""))
	if name == "" {
		name = entry.Title
	}

	releaseDate := ""
	year := entry.Year
	if year == 0 {
		if match := yearInTitleRe.FindString(entry.Title); match != "" {
			year, _ = strconv.Atoi(match[1 : len(match)-1])
		}
	}
	if year != 0 {
		releaseDate = fmt.Sprintf("%04d-01-01", year)
	}

	return models.CatalogEntry{
		ID:           models.TitleHash(entry.Title),
		Title:        name,
		Overview:     "No synopsis available yet.",
		PosterPath:   entry.PosterURL,
		BackdropPath: entry.BackdropURL,
		ReleaseDate:  releaseDate,
		VoteAverage:  fallbackVoteAverage,
		Fallback:     true,
	}
}
