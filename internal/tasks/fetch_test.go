package tasks

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/desertthunder/libman/internal/models"
	"github.com/desertthunder/libman/internal/repositories"
	"github.com/desertthunder/libman/internal/shared"
	ytesting "github.com/desertthunder/libman/internal/testing"
)

// pagedTracks serves count unique tracks in offset pages.
func pagedTracks(count int) func(ctx context.Context, offset, limit int) ([]models.Track, int, error) {
	return func(ctx context.Context, offset, limit int) ([]models.Track, int, error) {
		var tracks []models.Track
		for i := offset; i < offset+limit && i < count; i++ {
			tracks = append(tracks, models.Track{ID: fmt.Sprintf("t%d", i), Title: fmt.Sprintf("Song %d", i)})
		}
		return tracks, count, nil
	}
}

func TestFetchAll(t *testing.T) {
	t.Run("walks offset pages to exhaustion", func(t *testing.T) {
		catalog := &ytesting.MockCatalog{SavedTracksFunc: pagedTracks(120)}
		engine := newTestEngine(catalog)

		snapshot, err := engine.FetchAll(context.Background(), models.KindTracks, 50, nil)
		if err != nil {
			t.Fatalf("FetchAll() error = %v", err)
		}

		if len(snapshot.Entities) != 120 {
			t.Errorf("expected 120 entities, got %d", len(snapshot.Entities))
		}
		if snapshot.Truncated {
			t.Error("expected complete snapshot")
		}
		if snapshot.Kind != models.KindTracks || snapshot.PageSize != 50 {
			t.Errorf("unexpected snapshot metadata %+v", snapshot)
		}
		if snapshot.FetchedAt.IsZero() {
			t.Error("expected FetchedAt set")
		}
		if catalog.CallCount("SavedTracks") != 3 {
			t.Errorf("expected 3 page fetches, got %d", catalog.CallCount("SavedTracks"))
		}
	})

	t.Run("empty first page yields empty snapshot", func(t *testing.T) {
		catalog := &ytesting.MockCatalog{}
		engine := newTestEngine(catalog)

		snapshot, err := engine.FetchAll(context.Background(), models.KindTracks, 50, nil)
		if err != nil {
			t.Fatalf("FetchAll() error = %v", err)
		}
		if len(snapshot.Entities) != 0 || snapshot.Truncated {
			t.Errorf("expected valid empty snapshot, got %+v", snapshot)
		}
	})

	t.Run("duplicate IDs across pages are dropped", func(t *testing.T) {
		catalog := &ytesting.MockCatalog{
			SavedTracksFunc: func(ctx context.Context, offset, limit int) ([]models.Track, int, error) {
				if offset == 0 {
					tracks := make([]models.Track, limit)
					for i := range tracks {
						tracks[i] = models.Track{ID: fmt.Sprintf("t%d", i)}
					}
					return tracks, limit + 1, nil
				}
				// Overlapping page: one repeat, one new.
				return []models.Track{{ID: "t0"}, {ID: "fresh"}}, limit + 1, nil
			},
		}
		engine := newTestEngine(catalog)

		snapshot, err := engine.FetchAll(context.Background(), models.KindTracks, 50, nil)
		if err != nil {
			t.Fatalf("FetchAll() error = %v", err)
		}
		if len(snapshot.Entities) != 51 {
			t.Errorf("expected 51 unique entities, got %d", len(snapshot.Entities))
		}
	})

	t.Run("stops at the hard cap and marks truncation", func(t *testing.T) {
		catalog := &ytesting.MockCatalog{SavedTracksFunc: pagedTracks(models.SnapshotCap + 500)}
		engine := newTestEngine(catalog)

		snapshot, err := engine.FetchAll(context.Background(), models.KindTracks, 50, nil)
		if err != nil {
			t.Fatalf("FetchAll() error = %v", err)
		}
		if len(snapshot.Entities) != models.SnapshotCap {
			t.Errorf("expected exactly %d entities, got %d", models.SnapshotCap, len(snapshot.Entities))
		}
		if !snapshot.Truncated {
			t.Error("expected truncated snapshot")
		}
	})

	t.Run("walks artist cursors until repeat", func(t *testing.T) {
		catalog := &ytesting.MockCatalog{
			FollowedArtistsFunc: func(ctx context.Context, after string, limit int) ([]models.Artist, string, error) {
				switch after {
				case "":
					artists := make([]models.Artist, limit)
					for i := range artists {
						artists[i] = models.Artist{ID: fmt.Sprintf("a%d", i), Name: fmt.Sprintf("Artist %d", i)}
					}
					return artists, "cursor1", nil
				case "cursor1":
					return []models.Artist{{ID: "last", Name: "Last"}}, "", nil
				default:
					t.Fatalf("unexpected cursor %q", after)
					return nil, "", nil
				}
			},
		}
		engine := newTestEngine(catalog)

		snapshot, err := engine.FetchAll(context.Background(), models.KindArtists, 50, nil)
		if err != nil {
			t.Fatalf("FetchAll() error = %v", err)
		}
		if len(snapshot.Entities) != 51 {
			t.Errorf("expected 51 artists, got %d", len(snapshot.Entities))
		}
		if snapshot.Entities[0].Artist == nil {
			t.Error("expected artist entities")
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		engine := newTestEngine(&ytesting.MockCatalog{})

		_, err := engine.FetchAll(context.Background(), models.EntityKind("podcasts"), 50, nil)
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected invalid argument error, got %v", err)
		}
	})

	t.Run("catalog failure surfaces", func(t *testing.T) {
		catalog := &ytesting.MockCatalog{
			SavedTracksFunc: func(ctx context.Context, offset, limit int) ([]models.Track, int, error) {
				return nil, 0, &shared.CatalogError{Endpoint: "/me/tracks", Status: 500}
			},
		}
		engine := newTestEngine(catalog)

		if _, err := engine.FetchAll(context.Background(), models.KindTracks, 50, nil); !errors.Is(err, shared.ErrCatalogRequest) {
			t.Errorf("expected catalog error, got %v", err)
		}
	})
}

func TestFetchAllCaching(t *testing.T) {
	newCachedEngine := func(t *testing.T, catalog *ytesting.MockCatalog) *LibraryEngine {
		t.Helper()

		db, err := shared.NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		t.Cleanup(func() { db.Close() })
		shared.ConfigureDatabase(db, 1, 1)
		if err := shared.RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		return NewLibraryEngine(EngineOpts{
			Catalog: catalog,
			Cache:   repositories.NewCacheRepository(db),
			Workers: 2,
		})
	}

	t.Run("second fetch is served from cache", func(t *testing.T) {
		catalog := &ytesting.MockCatalog{SavedTracksFunc: pagedTracks(30)}
		engine := newCachedEngine(t, catalog)

		first, err := engine.FetchAll(context.Background(), models.KindTracks, 50, nil)
		if err != nil {
			t.Fatalf("first FetchAll() error = %v", err)
		}

		second, err := engine.FetchAll(context.Background(), models.KindTracks, 50, nil)
		if err != nil {
			t.Fatalf("second FetchAll() error = %v", err)
		}

		if catalog.CallCount("SavedTracks") != 1 {
			t.Errorf("expected a single network fetch, got %d", catalog.CallCount("SavedTracks"))
		}
		if len(second.Entities) != len(first.Entities) {
			t.Errorf("expected identical snapshots, got %d vs %d entities", len(second.Entities), len(first.Entities))
		}
	})

	t.Run("different page size misses the cache", func(t *testing.T) {
		catalog := &ytesting.MockCatalog{SavedTracksFunc: pagedTracks(30)}
		engine := newCachedEngine(t, catalog)

		if _, err := engine.FetchAll(context.Background(), models.KindTracks, 50, nil); err != nil {
			t.Fatalf("FetchAll() error = %v", err)
		}
		if _, err := engine.FetchAll(context.Background(), models.KindTracks, 30, nil); err != nil {
			t.Fatalf("FetchAll() error = %v", err)
		}

		if catalog.CallCount("SavedTracks") != 2 {
			t.Errorf("expected separate fetches per page size, got %d", catalog.CallCount("SavedTracks"))
		}
	})
}
