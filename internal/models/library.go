package models

// ArtistSongCount ranks an artist by how many saved songs reference them.
type ArtistSongCount struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	SongCount int     `json:"song_count"`
	Songs     []Track `json:"songs,omitempty"`
}

// AlbumSavedCount ranks an album by its saved-song coverage.
type AlbumSavedCount struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []string `json:"artists,omitempty"`
	TotalTracks int      `json:"total_tracks"`
	SavedCount  int      `json:"saved_count"`
	Percentage  float64  `json:"percentage"`
	SavedSongs  []Track  `json:"saved_songs,omitempty"`
}

// LibrarySummary aggregates the snapshots into headline statistics.
type LibrarySummary struct {
	FollowedArtists int               `json:"followed_artists"`
	SavedTracks     int               `json:"saved_tracks"`
	UniqueArtists   int               `json:"unique_artists_in_library"`
	UniqueAlbums    int               `json:"unique_albums_in_library"`
	TopArtists      []ArtistSongCount `json:"top_artists_by_saved_songs,omitempty"`
	TopAlbums       []AlbumSavedCount `json:"albums_with_most_saved_songs,omitempty"`
}
