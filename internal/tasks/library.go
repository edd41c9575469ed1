package tasks

import (
	"context"
	"fmt"
	"sort"

	"github.com/desertthunder/libman/internal/models"
	"github.com/desertthunder/libman/internal/shared"
)

// Library aggregations are computed over snapshots rather than live
// catalog calls, so repeated questions about the same library cost at
// most one paginated fetch per TTL window.

// LibraryArtists returns every unique artist credited on a saved track,
// ranked by how many saved songs reference them.
func (e *LibraryEngine) LibraryArtists(ctx context.Context, progress chan<- ProgressUpdate) ([]models.ArtistSongCount, error) {
	snapshot, err := e.FetchAll(ctx, models.KindTracks, 0, progress)
	if err != nil {
		return nil, err
	}
	return rankArtists(snapshot), nil
}

// AlbumsBySongCount returns albums with at least minSongs saved tracks,
// ranked by saved count, with the saved share of the full album when the
// catalog reported the album's track total.
func (e *LibraryEngine) AlbumsBySongCount(ctx context.Context, minSongs int, progress chan<- ProgressUpdate) ([]models.AlbumSavedCount, error) {
	if minSongs < 1 {
		return nil, fmt.Errorf("%w: min_songs must be at least 1", shared.ErrInvalidArgument)
	}

	snapshot, err := e.FetchAll(ctx, models.KindTracks, 0, progress)
	if err != nil {
		return nil, err
	}

	var albums []models.AlbumSavedCount
	for _, album := range rankAlbums(snapshot) {
		if album.SavedCount >= minSongs {
			albums = append(albums, album)
		}
	}
	return albums, nil
}

// Summarize reports headline statistics over both snapshots: followed
// artists, saved tracks, and the unique artists and albums those tracks
// span, with short top lists.
func (e *LibraryEngine) Summarize(ctx context.Context, progress chan<- ProgressUpdate) (*models.LibrarySummary, error) {
	artists, err := e.FetchAll(ctx, models.KindArtists, 0, progress)
	if err != nil {
		return nil, err
	}
	tracks, err := e.FetchAll(ctx, models.KindTracks, 0, progress)
	if err != nil {
		return nil, err
	}

	byArtist := rankArtists(tracks)
	byAlbum := rankAlbums(tracks)

	summary := &models.LibrarySummary{
		FollowedArtists: len(artists.Entities),
		SavedTracks:     len(tracks.Entities),
		UniqueArtists:   len(byArtist),
		UniqueAlbums:    len(byAlbum),
		TopArtists:      topN(byArtist, 10),
		TopAlbums:       topN(byAlbum, 10),
	}

	for i := range summary.TopArtists {
		summary.TopArtists[i].Songs = nil
	}
	for i := range summary.TopAlbums {
		summary.TopAlbums[i].SavedSongs = nil
	}

	return summary, nil
}

func rankArtists(snapshot *models.LibrarySnapshot) []models.ArtistSongCount {
	counts := make(map[string]*models.ArtistSongCount)

	for _, entity := range snapshot.Entities {
		if entity.Track == nil {
			continue
		}
		for _, credited := range creditedArtists(*entity.Track) {
			key := credited.ID
			if key == "" {
				key = credited.Name
			}
			entry, ok := counts[key]
			if !ok {
				entry = &models.ArtistSongCount{ID: credited.ID, Name: credited.Name}
				counts[key] = entry
			}
			entry.SongCount++
			entry.Songs = append(entry.Songs, *entity.Track)
		}
	}

	ranked := make([]models.ArtistSongCount, 0, len(counts))
	for _, entry := range counts {
		ranked = append(ranked, *entry)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].SongCount != ranked[j].SongCount {
			return ranked[i].SongCount > ranked[j].SongCount
		}
		return ranked[i].Name < ranked[j].Name
	})
	return ranked
}

func rankAlbums(snapshot *models.LibrarySnapshot) []models.AlbumSavedCount {
	counts := make(map[string]*models.AlbumSavedCount)

	for _, entity := range snapshot.Entities {
		track := entity.Track
		if track == nil || (track.AlbumID == "" && track.Album == "") {
			continue
		}
		key := track.AlbumID
		if key == "" {
			key = track.Album
		}
		entry, ok := counts[key]
		if !ok {
			entry = &models.AlbumSavedCount{
				ID:          track.AlbumID,
				Name:        track.Album,
				TotalTracks: track.AlbumTracks,
			}
			counts[key] = entry
		}
		entry.SavedCount++
		entry.SavedSongs = append(entry.SavedSongs, *track)
		entry.Artists = appendUnique(entry.Artists, track.Artist)
	}

	ranked := make([]models.AlbumSavedCount, 0, len(counts))
	for _, entry := range counts {
		if entry.TotalTracks > 0 {
			entry.Percentage = 100 * float64(entry.SavedCount) / float64(entry.TotalTracks)
		}
		ranked = append(ranked, *entry)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].SavedCount != ranked[j].SavedCount {
			return ranked[i].SavedCount > ranked[j].SavedCount
		}
		return ranked[i].Name < ranked[j].Name
	})
	return ranked
}

// creditedArtists yields the full credit list, falling back to the
// primary artist when the service only populated the display name.
func creditedArtists(track models.Track) []models.Artist {
	if len(track.Artists) > 0 {
		return track.Artists
	}
	if track.Artist == "" {
		return nil
	}
	return []models.Artist{{Name: track.Artist}}
}

func appendUnique(names []string, name string) []string {
	if name == "" {
		return names
	}
	for _, existing := range names {
		if existing == name {
			return names
		}
	}
	return append(names, name)
}

func topN[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[:n:n]
}
