package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"reelgrid/models"
)

type fakeProgressRemote struct {
	failing bool
	items   map[string]models.ProgressItem
	upserts int
}

func newFakeProgressRemote() *fakeProgressRemote {
	return &fakeProgressRemote{items: make(map[string]models.ProgressItem)}
}

func (f *fakeProgressRemote) UpsertProgressItem(_ context.Context, item models.ProgressItem) error {
	f.upserts++
	if f.failing {
		return errors.New("remote unavailable")
	}
	f.items[item.Key()] = item
	return nil
}

func (f *fakeProgressRemote) DeleteProgressItem(_ context.Context, _, mediaType, itemID string) error {
	if f.failing {
		return errors.New("remote unavailable")
	}
	delete(f.items, mediaType+":"+itemID)
	return nil
}

func (f *fakeProgressRemote) ListProgressItems(_ context.Context, _ string) ([]models.ProgressItem, error) {
	if f.failing {
		return nil, errors.New("remote unavailable")
	}
	out := make([]models.ProgressItem, 0, len(f.items))
	for _, item := range f.items {
		item.Status = models.SyncSynced
		out = append(out, item)
	}
	return out, nil
}

func TestUpdateValidation(t *testing.T) {
	repo := NewProgressRepository(openTestDB(t), nil, DefaultRetryPolicy())

	_, err := repo.Update(context.Background(), "default", models.ProgressItem{
		ItemID: "603", MediaType: "movie", Position: 100,
	})
	require.ErrorIs(t, err, ErrDurationRequired)

	_, err = repo.Update(context.Background(), "default", models.ProgressItem{
		MediaType: "movie", Position: 100, Duration: 7200,
	})
	require.ErrorIs(t, err, ErrItemIDRequired)
}

func TestUpdateSurvivesRemoteOutage(t *testing.T) {
	db := openTestDB(t)
	remote := newFakeProgressRemote()
	remote.failing = true
	repo := NewProgressRepository(db, remote, DefaultRetryPolicy())

	item, err := repo.Update(context.Background(), "default", models.ProgressItem{
		ItemID: "603", MediaType: "movie", Position: 1200, Duration: 8160,
	})
	require.NoError(t, err)
	require.Equal(t, models.SyncFailed, item.Status)

	got, err := repo.Get("default", "movie", "603")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, 1200.0, got.Position)
}

func TestContinueWatchingFiltersByFraction(t *testing.T) {
	db := openTestDB(t)
	repo := NewProgressRepository(db, nil, DefaultRetryPolicy())

	cases := []struct {
		id       string
		position float64
	}{
		{"barely-started", 100}, // ~1%: too early
		{"in-progress", 3600},   // ~44%: on the shelf
		{"almost-done", 8000},   // ~98%: effectively finished
	}
	for _, c := range cases {
		_, err := repo.Update(context.Background(), "default", models.ProgressItem{
			ItemID: c.id, MediaType: "movie", Position: c.position, Duration: 8160,
		})
		require.NoError(t, err)
	}

	shelf, err := repo.ContinueWatching("default")
	require.NoError(t, err)
	require.Len(t, shelf, 1)
	require.Equal(t, "in-progress", shelf[0].ItemID)
}

func TestProgressPullKeepsLocalOnlyRecords(t *testing.T) {
	db := openTestDB(t)
	remote := newFakeProgressRemote()
	repo := NewProgressRepository(db, remote, DefaultRetryPolicy())

	// Recorded offline, never pushed.
	remote.failing = true
	_, err := repo.Update(context.Background(), "default", models.ProgressItem{
		ItemID: "local-only", MediaType: "movie", Position: 600, Duration: 7200,
	})
	require.NoError(t, err)
	remote.failing = false

	now := time.Now().UTC()
	remote.items["movie:from-elsewhere"] = models.ProgressItem{
		UserID: "default", ItemID: "from-elsewhere", MediaType: "movie",
		Position: 2400, Duration: 7200, UpdatedAt: now,
	}

	require.NoError(t, repo.Pull(context.Background(), "default"))

	list, err := repo.List("default")
	require.NoError(t, err)
	require.Len(t, list, 2, "offline progress must survive the pull")
}

func TestProgressDeleteRemovesLocally(t *testing.T) {
	db := openTestDB(t)
	remote := newFakeProgressRemote()
	repo := NewProgressRepository(db, remote, DefaultRetryPolicy())

	_, err := repo.Update(context.Background(), "default", models.ProgressItem{
		ItemID: "603", MediaType: "movie", Position: 1200, Duration: 8160,
	})
	require.NoError(t, err)

	removed, err := repo.Delete(context.Background(), "default", "movie", "603")
	require.NoError(t, err)
	require.True(t, removed)

	got, err := repo.Get("default", "movie", "603")
	require.NoError(t, err)
	require.Nil(t, got)
	require.NotContains(t, remote.items, "movie:603")
}
