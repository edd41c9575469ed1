// Spotify API implementation of [Catalog]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/desertthunder/libman/internal/models"
)

const spotifyBaseURL = "https://api.spotify.com/v1"

type followers struct {
	Total int `json:"total"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Country     string    `json:"country"`
	Product     string    `json:"product"` // premium, free, etc.
	Followers   followers `json:"followers"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	Popularity int             `json:"popularity"`
	URI        string          `json:"uri"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Genres     []string  `json:"genres"`
	Popularity int       `json:"popularity"`
	Followers  followers `json:"followers"`
	URI        string    `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	ReleaseDate string          `json:"release_date"`
	TotalTracks int             `json:"total_tracks"`
	URI         string          `json:"uri"`
}

// SpotifySavedTrack represents a track saved in the user's library.
type SpotifySavedTrack struct {
	AddedAt string       `json:"added_at"`
	Track   SpotifyTrack `json:"track"`
}

// SpotifyPaginatedTracks represents an offset-paginated response of saved tracks.
type SpotifyPaginatedTracks struct {
	Items  []SpotifySavedTrack `json:"items"`
	Total  int                 `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
	Next   *string             `json:"next"`
}

type spotifyCursors struct {
	After string `json:"after"`
}

// SpotifyFollowedArtists represents the cursor-paginated /me/following response.
type SpotifyFollowedArtists struct {
	Artists struct {
		Items   []SpotifyArtist `json:"items"`
		Cursors spotifyCursors  `json:"cursors"`
		Total   int             `json:"total"`
		Limit   int             `json:"limit"`
	} `json:"artists"`
}

// SpotifySearchResponse represents a track search response.
type SpotifySearchResponse struct {
	Tracks struct {
		Items []SpotifyTrack `json:"items"`
	} `json:"tracks"`
}

// SpotifyPlaylist represents a Spotify playlist.
type SpotifyPlaylist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
	URI         string `json:"uri"`
	Tracks      struct {
		Total int `json:"total"`
	} `json:"tracks"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

// SpotifyService implements [Catalog] for the Spotify Web API. All calls
// go through the rate-limited [Client]; the service itself holds no
// transport or retry logic.
type SpotifyService struct {
	client *Client

	mu     sync.Mutex
	userID string // cached after the first CurrentUser call
}

// NewSpotifyService creates a Spotify catalog service over the given
// rate-limited client.
func NewSpotifyService(client *Client) *SpotifyService {
	return &SpotifyService{client: client}
}

// NewSpotifyClient builds a rate-limited client pointed at the Spotify
// Web API unless the options specify another base URL.
func NewSpotifyClient(opts ClientOpts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = spotifyBaseURL
	}
	return NewClient(opts)
}

func (s *SpotifyService) Name() string { return "Spotify" }

// CurrentUser retrieves the current authenticated user's profile.
func (s *SpotifyService) CurrentUser(ctx context.Context) (*models.User, error) {
	var user SpotifyUser
	if err := s.client.Do(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.userID = user.ID
	s.mu.Unlock()

	return &models.User{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Country:     user.Country,
		Product:     user.Product,
	}, nil
}

// FollowedArtists returns one cursor page of followed artists.
func (s *SpotifyService) FollowedArtists(ctx context.Context, after string, limit int) ([]models.Artist, string, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}

	endpoint := fmt.Sprintf("/me/following?type=artist&limit=%d", limit)
	if after != "" {
		endpoint += "&after=" + url.QueryEscape(after)
	}

	var response SpotifyFollowedArtists
	if err := s.client.Do(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, "", err
	}

	artists := make([]models.Artist, 0, len(response.Artists.Items))
	for _, a := range response.Artists.Items {
		artists = append(artists, toArtist(a))
	}

	return artists, response.Artists.Cursors.After, nil
}

// SavedTracks returns one offset page of the user's saved tracks.
func (s *SpotifyService) SavedTracks(ctx context.Context, offset, limit int) ([]models.Track, int, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}

	endpoint := fmt.Sprintf("/me/tracks?limit=%d&offset=%d", limit, offset)

	var response SpotifyPaginatedTracks
	if err := s.client.Do(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, 0, err
	}

	tracks := make([]models.Track, 0, len(response.Items))
	for _, item := range response.Items {
		// Removed tracks come back as empty objects.
		if item.Track.ID == "" {
			continue
		}
		track := toTrack(item.Track)
		track.AddedAt = item.AddedAt
		tracks = append(tracks, track)
	}

	return tracks, response.Total, nil
}

// SearchTracks runs a track search with the given free-text query.
func (s *SpotifyService) SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}

	endpoint := fmt.Sprintf("/search?q=%s&type=track&limit=%d", url.QueryEscape(query), limit)

	var response SpotifySearchResponse
	if err := s.client.Do(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(response.Tracks.Items))
	for _, t := range response.Tracks.Items {
		tracks = append(tracks, toTrack(t))
	}

	return tracks, nil
}

// CreatePlaylist creates a playlist owned by the current user.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, name, description string, public bool) (*models.Playlist, error) {
	userID, err := s.currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"name":        name,
		"description": description,
		"public":      public,
	}

	var playlist SpotifyPlaylist
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))
	if err := s.client.Do(ctx, http.MethodPost, endpoint, body, &playlist); err != nil {
		return nil, err
	}

	return &models.Playlist{
		ID:          playlist.ID,
		Name:        playlist.Name,
		Description: playlist.Description,
		URL:         playlist.ExternalURLs.Spotify,
		Public:      playlist.Public,
		TrackCount:  playlist.Tracks.Total,
	}, nil
}

// AddTracks appends one chunk of tracks to a playlist. Chunking to the
// catalog's batch limit is the commit engine's job; oversized calls are
// rejected here to keep the invariant visible.
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return fmt.Errorf("no track IDs provided")
	}
	if len(trackIDs) > models.CommitBatchLimit {
		return fmt.Errorf("at most %d tracks per write, got %d", models.CommitBatchLimit, len(trackIDs))
	}

	uris := make([]string, len(trackIDs))
	for i, id := range trackIDs {
		uris[i] = trackURI(id)
	}

	body := map[string]any{"uris": uris}
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	return s.client.Do(ctx, http.MethodPost, endpoint, body, nil)
}

// currentUserID returns the cached user ID, fetching the profile once.
func (s *SpotifyService) currentUserID(ctx context.Context) (string, error) {
	s.mu.Lock()
	cached := s.userID
	s.mu.Unlock()
	if cached != "" {
		return cached, nil
	}

	user, err := s.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// trackURI widens a bare catalog ID into a track URI, passing through
// values that already carry the prefix.
func trackURI(id string) string {
	if strings.HasPrefix(id, "spotify:track:") {
		return id
	}
	return "spotify:track:" + id
}

func toArtist(a SpotifyArtist) models.Artist {
	return models.Artist{
		ID:         a.ID,
		Name:       a.Name,
		Genres:     a.Genres,
		Popularity: a.Popularity,
		Followers:  a.Followers.Total,
	}
}

func toTrack(t SpotifyTrack) models.Track {
	track := models.Track{
		ID:          t.ID,
		Title:       t.Name,
		Album:       t.Album.Name,
		AlbumID:     t.Album.ID,
		AlbumTracks: t.Album.TotalTracks,
		DurationMS:  t.DurationMS,
		Popularity:  t.Popularity,
	}
	for _, a := range t.Artists {
		track.Artists = append(track.Artists, models.Artist{ID: a.ID, Name: a.Name})
	}
	if len(t.Artists) > 0 {
		track.Artist = t.Artists[0].Name
	}
	return track
}
