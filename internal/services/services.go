// package services defines interface Catalog for interacting with the
// external music-catalog HTTP API, plus the rate-limited client every
// implementation routes through.
package services

import (
	"context"

	"github.com/desertthunder/libman/internal/models"
)

// Catalog defines the operations the engine needs from the external
// music-catalog provider. All implementations route calls through the
// rate-limited [Client].
type Catalog interface {
	// CurrentUser retrieves the authenticated account.
	CurrentUser(ctx context.Context) (*models.User, error)

	// FollowedArtists returns one cursor page of followed artists and the
	// cursor for the next page ("" when exhausted).
	FollowedArtists(ctx context.Context, after string, limit int) (artists []models.Artist, nextAfter string, err error)

	// SavedTracks returns one offset page of the user's saved tracks and
	// the library total reported by the catalog.
	SavedTracks(ctx context.Context, offset, limit int) (tracks []models.Track, total int, err error)

	// SearchTracks runs a free-text track search.
	SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error)

	// CreatePlaylist creates a playlist owned by the current user.
	CreatePlaylist(ctx context.Context, name, description string, public bool) (*models.Playlist, error)

	// AddTracks appends up to [models.CommitBatchLimit] tracks to a
	// playlist in a single write.
	AddTracks(ctx context.Context, playlistID string, trackIDs []string) error

	// Name returns the provider name (e.g. "Spotify").
	Name() string
}
