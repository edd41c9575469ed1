package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/libman/internal/models"
	"github.com/desertthunder/libman/internal/shared"
	ytesting "github.com/desertthunder/libman/internal/testing"
)

func libraryCatalog() *ytesting.MockCatalog {
	queen := models.Artist{ID: "a1", Name: "Queen"}
	bowie := models.Artist{ID: "a2", Name: "David Bowie"}

	saved := []models.Track{
		{ID: "t1", Title: "Bohemian Rhapsody", Artist: "Queen", Artists: []models.Artist{queen}, Album: "A Night at the Opera", AlbumID: "al1", AlbumTracks: 12},
		{ID: "t2", Title: "Love of My Life", Artist: "Queen", Artists: []models.Artist{queen}, Album: "A Night at the Opera", AlbumID: "al1", AlbumTracks: 12},
		{ID: "t3", Title: "You're My Best Friend", Artist: "Queen", Artists: []models.Artist{queen}, Album: "A Night at the Opera", AlbumID: "al1", AlbumTracks: 12},
		{ID: "t4", Title: "Heroes", Artist: "David Bowie", Artists: []models.Artist{bowie}, Album: "Heroes", AlbumID: "al2", AlbumTracks: 10},
		{ID: "t5", Title: "Under Pressure", Artist: "Queen", Artists: []models.Artist{queen, bowie}, Album: "Hot Space", AlbumID: "al3", AlbumTracks: 11},
	}

	return &ytesting.MockCatalog{
		FollowedArtistsFunc: func(ctx context.Context, after string, limit int) ([]models.Artist, string, error) {
			return []models.Artist{queen, bowie}, "", nil
		},
		SavedTracksFunc: func(ctx context.Context, offset, limit int) ([]models.Track, int, error) {
			if offset > 0 {
				return nil, len(saved), nil
			}
			return saved, len(saved), nil
		},
	}
}

func TestLibraryArtists(t *testing.T) {
	engine := newTestEngine(libraryCatalog())

	artists, err := engine.LibraryArtists(context.Background(), nil)
	if err != nil {
		t.Fatalf("LibraryArtists() error = %v", err)
	}

	if len(artists) != 2 {
		t.Fatalf("expected 2 unique artists, got %d", len(artists))
	}
	if artists[0].Name != "Queen" || artists[0].SongCount != 4 {
		t.Errorf("expected Queen with 4 songs first, got %s with %d", artists[0].Name, artists[0].SongCount)
	}
	if artists[1].Name != "David Bowie" || artists[1].SongCount != 2 {
		t.Errorf("expected David Bowie with 2 songs, got %s with %d", artists[1].Name, artists[1].SongCount)
	}
	if len(artists[0].Songs) != 4 {
		t.Errorf("expected songs attached, got %d", len(artists[0].Songs))
	}
}

func TestAlbumsBySongCount(t *testing.T) {
	t.Run("filters and ranks albums", func(t *testing.T) {
		engine := newTestEngine(libraryCatalog())

		albums, err := engine.AlbumsBySongCount(context.Background(), 2, nil)
		if err != nil {
			t.Fatalf("AlbumsBySongCount() error = %v", err)
		}

		if len(albums) != 1 {
			t.Fatalf("expected 1 album with 2+ saved songs, got %d", len(albums))
		}

		album := albums[0]
		if album.Name != "A Night at the Opera" || album.SavedCount != 3 {
			t.Errorf("unexpected album %+v", album)
		}
		if album.Percentage != 25.0 {
			t.Errorf("expected 25%% saved (3 of 12), got %v", album.Percentage)
		}
	})

	t.Run("min of one includes every album", func(t *testing.T) {
		engine := newTestEngine(libraryCatalog())

		albums, err := engine.AlbumsBySongCount(context.Background(), 1, nil)
		if err != nil {
			t.Fatalf("AlbumsBySongCount() error = %v", err)
		}
		if len(albums) != 3 {
			t.Errorf("expected 3 albums, got %d", len(albums))
		}
	})

	t.Run("rejects a non-positive threshold", func(t *testing.T) {
		engine := newTestEngine(libraryCatalog())

		if _, err := engine.AlbumsBySongCount(context.Background(), 0, nil); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected invalid argument error, got %v", err)
		}
	})
}

func TestSummarize(t *testing.T) {
	engine := newTestEngine(libraryCatalog())

	summary, err := engine.Summarize(context.Background(), nil)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if summary.FollowedArtists != 2 {
		t.Errorf("expected 2 followed artists, got %d", summary.FollowedArtists)
	}
	if summary.SavedTracks != 5 {
		t.Errorf("expected 5 saved tracks, got %d", summary.SavedTracks)
	}
	if summary.UniqueArtists != 2 {
		t.Errorf("expected 2 unique artists, got %d", summary.UniqueArtists)
	}
	if summary.UniqueAlbums != 3 {
		t.Errorf("expected 3 unique albums, got %d", summary.UniqueAlbums)
	}
	if len(summary.TopArtists) == 0 || summary.TopArtists[0].Name != "Queen" {
		t.Errorf("expected Queen on top, got %+v", summary.TopArtists)
	}
	if len(summary.TopArtists[0].Songs) != 0 {
		t.Error("expected song lists stripped from the summary")
	}
}
