package tasks

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/desertthunder/libman/internal/models"
	"github.com/desertthunder/libman/internal/shared"
	ytesting "github.com/desertthunder/libman/internal/testing"
)

func trackIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("t%d", i)
	}
	return ids
}

func TestCommit(t *testing.T) {
	t.Run("chunks drafts to the batch limit", func(t *testing.T) {
		var chunkSizes []int
		catalog := &ytesting.MockCatalog{
			AddTracksFunc: func(ctx context.Context, playlistID string, ids []string) error {
				chunkSizes = append(chunkSizes, len(ids))
				return nil
			},
		}
		engine := newTestEngine(catalog)

		result, err := engine.Commit(context.Background(), "pl1", trackIDs(250), nil)
		if err != nil {
			t.Fatalf("Commit() error = %v", err)
		}

		if len(chunkSizes) != 3 || chunkSizes[0] != 100 || chunkSizes[1] != 100 || chunkSizes[2] != 50 {
			t.Errorf("expected chunks 100/100/50, got %v", chunkSizes)
		}
		if result.CommittedCount() != 250 {
			t.Errorf("expected 250 committed, got %d", result.CommittedCount())
		}

		want := []models.ChunkRange{{Start: 0, End: 100}, {Start: 100, End: 200}, {Start: 200, End: 250}}
		for i, chunk := range result.Committed {
			if chunk != want[i] {
				t.Errorf("chunk %d = %+v, want %+v", i, chunk, want[i])
			}
		}
	})

	t.Run("small draft commits in one write", func(t *testing.T) {
		catalog := &ytesting.MockCatalog{}
		engine := newTestEngine(catalog)

		result, err := engine.Commit(context.Background(), "pl1", trackIDs(7), nil)
		if err != nil {
			t.Fatalf("Commit() error = %v", err)
		}
		if catalog.CallCount("AddTracks") != 1 {
			t.Errorf("expected 1 write, got %d", catalog.CallCount("AddTracks"))
		}
		if result.CommittedCount() != 7 {
			t.Errorf("expected 7 committed, got %d", result.CommittedCount())
		}
	})

	t.Run("chunk failure reports committed and failed ranges", func(t *testing.T) {
		calls := 0
		catalog := &ytesting.MockCatalog{
			AddTracksFunc: func(ctx context.Context, playlistID string, ids []string) error {
				calls++
				if calls == 2 {
					return &shared.CatalogError{Endpoint: "/playlists/pl1/tracks", Status: 502}
				}
				return nil
			},
		}
		engine := newTestEngine(catalog)

		result, err := engine.Commit(context.Background(), "pl1", trackIDs(250), nil)
		if !errors.Is(err, shared.ErrPartialCommit) {
			t.Fatalf("expected partial commit error, got %v", err)
		}

		var commitErr *PartialCommitError
		if !errors.As(err, &commitErr) {
			t.Fatalf("expected *PartialCommitError, got %T", err)
		}

		if len(commitErr.Committed) != 1 || commitErr.Committed[0] != (models.ChunkRange{Start: 0, End: 100}) {
			t.Errorf("expected one committed chunk [0,100), got %+v", commitErr.Committed)
		}
		if commitErr.Failed != (models.ChunkRange{Start: 100, End: 200}) {
			t.Errorf("expected failed chunk [100,200), got %+v", commitErr.Failed)
		}
		if commitErr.Remaining != 150 {
			t.Errorf("expected 150 remaining, got %d", commitErr.Remaining)
		}
		if calls != 2 {
			t.Errorf("expected commit to stop after the failure, got %d writes", calls)
		}
		if result == nil || result.CommittedCount() != 100 {
			t.Errorf("expected partial result with 100 committed, got %+v", result)
		}

		if !errors.Is(err, shared.ErrCatalogRequest) {
			t.Errorf("expected the chunk's catalog error to unwrap, got %v", err)
		}
	})

	t.Run("rejects drafts over the playlist ceiling", func(t *testing.T) {
		engine := newTestEngine(&ytesting.MockCatalog{})

		_, err := engine.Commit(context.Background(), "pl1", trackIDs(models.SnapshotCap+1), nil)
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected invalid input error, got %v", err)
		}
	})

	t.Run("requires a playlist ID", func(t *testing.T) {
		engine := newTestEngine(&ytesting.MockCatalog{})

		_, err := engine.Commit(context.Background(), "", trackIDs(1), nil)
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected missing argument error, got %v", err)
		}
	})
}

func TestCreatePlaylist(t *testing.T) {
	t.Run("passes through to the catalog", func(t *testing.T) {
		engine := newTestEngine(&ytesting.MockCatalog{})

		playlist, err := engine.CreatePlaylist(context.Background(), "Mix", "desc", false)
		if err != nil {
			t.Fatalf("CreatePlaylist() error = %v", err)
		}
		if playlist.Name != "Mix" {
			t.Errorf("expected name Mix, got %s", playlist.Name)
		}
	})

	t.Run("requires a name", func(t *testing.T) {
		engine := newTestEngine(&ytesting.MockCatalog{})

		if _, err := engine.CreatePlaylist(context.Background(), "", "", false); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected missing argument error, got %v", err)
		}
	})
}
