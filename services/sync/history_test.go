package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"reelgrid/models"
)

type fakeHistoryRemote struct {
	failing bool
	items   map[string]models.HistoryItem
}

func newFakeHistoryRemote() *fakeHistoryRemote {
	return &fakeHistoryRemote{items: make(map[string]models.HistoryItem)}
}

func (f *fakeHistoryRemote) UpsertHistoryItem(_ context.Context, item models.HistoryItem) error {
	if f.failing {
		return errors.New("remote unavailable")
	}
	f.items[item.Key()] = item
	return nil
}

func (f *fakeHistoryRemote) DeleteHistoryItem(_ context.Context, _, mediaType, itemID string) error {
	if f.failing {
		return errors.New("remote unavailable")
	}
	delete(f.items, mediaType+":"+itemID)
	return nil
}

func (f *fakeHistoryRemote) ListHistoryItems(_ context.Context, _ string) ([]models.HistoryItem, error) {
	if f.failing {
		return nil, errors.New("remote unavailable")
	}
	out := make([]models.HistoryItem, 0, len(f.items))
	for _, item := range f.items {
		item.Status = models.SyncSynced
		out = append(out, item)
	}
	return out, nil
}

func TestRecordDefaultsWatchedAt(t *testing.T) {
	db := openTestDB(t)
	repo := NewHistoryRepository(db, nil, DefaultRetryPolicy())

	fixed := time.Date(2026, 6, 15, 21, 30, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	item, err := repo.Record(context.Background(), "default", models.HistoryItem{
		ItemID: "603", MediaType: "movie", Name: "The Matrix", Watched: true,
	})
	require.NoError(t, err)
	require.True(t, item.WatchedAt.Equal(fixed), "zero WatchedAt defaults to now")
}

func TestIsWatched(t *testing.T) {
	db := openTestDB(t)
	repo := NewHistoryRepository(db, nil, DefaultRetryPolicy())

	watched, err := repo.IsWatched("default", "movie", "603")
	require.NoError(t, err)
	require.False(t, watched)

	_, err = repo.Record(context.Background(), "default", models.HistoryItem{
		ItemID: "603", MediaType: "movie", Name: "The Matrix", Watched: true,
	})
	require.NoError(t, err)

	watched, err = repo.IsWatched("default", "movie", "603")
	require.NoError(t, err)
	require.True(t, watched)
}

func TestHistoryPullKeepsLocalOnlyRecords(t *testing.T) {
	db := openTestDB(t)
	remote := newFakeHistoryRemote()
	repo := NewHistoryRepository(db, remote, DefaultRetryPolicy())

	// Watched offline; the remote has never seen it.
	remote.failing = true
	_, err := repo.Record(context.Background(), "default", models.HistoryItem{
		ItemID: "local-only", MediaType: "movie", Name: "Watched Offline", Watched: true,
	})
	require.NoError(t, err)
	remote.failing = false

	now := time.Now().UTC()
	remote.items["movie:remote-only"] = models.HistoryItem{
		UserID: "default", ItemID: "remote-only", MediaType: "movie",
		Name: "Watched Elsewhere", Watched: true, WatchedAt: now, UpdatedAt: now,
	}

	require.NoError(t, repo.Pull(context.Background(), "default"))

	list, err := repo.List("default", "")
	require.NoError(t, err)
	require.Len(t, list, 2, "history written on this device must never be dropped by a pull")
}

func TestListPage(t *testing.T) {
	db := openTestDB(t)
	repo := NewHistoryRepository(db, nil, DefaultRetryPolicy())

	base := time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		_, err := repo.Record(context.Background(), "default", models.HistoryItem{
			ItemID:    string(rune('a'+i%26)) + "-item",
			MediaType: "movie",
			Name:      "Movie",
			Watched:   true,
			WatchedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	page, err := repo.ListPage("default", 1, 10, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 10)
	require.Equal(t, 25, page.TotalItems)
	require.Equal(t, 3, page.TotalPages)

	last, err := repo.ListPage("default", 3, 10, "")
	require.NoError(t, err)
	require.Len(t, last.Items, 5)

	// Past the end: an empty page, not an error.
	beyond, err := repo.ListPage("default", 9, 10, "")
	require.NoError(t, err)
	require.Empty(t, beyond.Items)

	// Page numbers below one clamp to the first page.
	clamped, err := repo.ListPage("default", 0, 10, "")
	require.NoError(t, err)
	require.Equal(t, 1, clamped.Page)
}
