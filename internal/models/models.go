// package models defines the data model for the library manager:
// catalog entities, library snapshots, match scoring, and review rows.
package models

import "time"

// Track represents a catalog track. Artist holds the primary artist name
// for display and matching; Artists carries the full credit list for
// library aggregation.
type Track struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Artist      string   `json:"artist"`
	Artists     []Artist `json:"artists,omitempty"`
	Album       string   `json:"album,omitempty"`
	AlbumID     string   `json:"album_id,omitempty"`
	AlbumTracks int      `json:"album_tracks,omitempty"` // total tracks on the album
	DurationMS  int      `json:"duration_ms,omitempty"`
	Popularity  int      `json:"popularity,omitempty"`
	AddedAt     string   `json:"added_at,omitempty"`
}

// Artist represents a catalog artist.
type Artist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres,omitempty"`
	Popularity int      `json:"popularity,omitempty"`
	Followers  int      `json:"followers,omitempty"`
}

// Playlist represents a catalog playlist.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	Public      bool   `json:"public"`
	TrackCount  int    `json:"track_count"`
}

// EntityKind selects which part of the user library a fetch walks.
type EntityKind string

const (
	KindArtists EntityKind = "artists" // followed artists, cursor-paged
	KindTracks  EntityKind = "tracks"  // saved tracks, offset-paged
)

// SnapshotCap is the hard ceiling on entities accumulated by a single
// library fetch. Snapshots that hit it are marked truncated, not failed.
const SnapshotCap = 10_000

// CommitBatchLimit is the catalog's maximum number of tracks accepted by
// a single playlist write. The commit engine chunks drafts to this size.
const CommitBatchLimit = 100

// User represents the authenticated catalog account.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
	Country     string `json:"country,omitempty"`
	Product     string `json:"product,omitempty"`
}

// LibraryEntity is one record in a snapshot: an artist or a saved track,
// identified by its catalog-assigned ID. Immutable once fetched.
type LibraryEntity struct {
	ID     string  `json:"id"`
	Artist *Artist `json:"artist,omitempty"`
	Track  *Track  `json:"track,omitempty"`
}

// LibrarySnapshot is a point-in-time, deduplicated collection of fetched
// library entities. Superseded by the next fetch, never mutated.
type LibrarySnapshot struct {
	Kind      EntityKind      `json:"kind"`
	PageSize  int             `json:"page_size"`
	Entities  []LibraryEntity `json:"entities"`
	Cursor    string          `json:"cursor,omitempty"` // position at which fetching stopped
	Truncated bool            `json:"truncated"`        // stopped at SnapshotCap rather than exhaustion
	FetchedAt time.Time       `json:"fetched_at"`
}

// ChunkRange identifies a consecutive run of track indices committed in
// one catalog write, half-open [Start, End).
type ChunkRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// CommitResult reports which chunks of a playlist draft were written.
type CommitResult struct {
	PlaylistID string       `json:"playlist_id"`
	Total      int          `json:"total_tracks"`
	Committed  []ChunkRange `json:"committed"`
}

// CommittedCount returns the number of tracks written across all chunks.
func (r CommitResult) CommittedCount() int {
	n := 0
	for _, c := range r.Committed {
		n += c.End - c.Start
	}
	return n
}
