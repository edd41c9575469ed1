package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/libman/internal/formatter"
	"github.com/desertthunder/libman/internal/models"
	"github.com/desertthunder/libman/internal/services"
	"github.com/desertthunder/libman/internal/shared"
	"github.com/desertthunder/libman/internal/tasks"
)

// Toolset binds the registry's handlers to a concrete engine and
// credential store.
type Toolset struct {
	engine  *tasks.LibraryEngine
	catalog services.Catalog
	creds   *services.CredentialStore
}

// NewToolset creates the standard tool collection.
func NewToolset(engine *tasks.LibraryEngine, catalog services.Catalog, creds *services.CredentialStore) *Toolset {
	return &Toolset{engine: engine, catalog: catalog, creds: creds}
}

// RegisterAll installs every tool on the registry.
func (t *Toolset) RegisterAll(r *Registry) {
	r.Register(Tool{"check_auth_status", "Verify catalog credentials by fetching the current user", t.checkAuthStatus})
	r.Register(Tool{"fetch_library", "Fetch a deduplicated snapshot of followed artists or saved tracks", t.fetchLibrary})
	r.Register(Tool{"search_track", "Search the catalog for one track and score the candidates", t.searchTrack})
	r.Register(Tool{"batch_search_tracks", "Search and score many tracks on a bounded worker pool", t.batchSearchTracks})
	r.Register(Tool{"export_review_batch", "Collect non-HIGH matches into a reviewable batch", t.exportReviewBatch})
	r.Register(Tool{"import_review_decisions", "Validate reviewed decisions and resolve accepted track IDs", t.importReviewDecisions})
	r.Register(Tool{"create_playlist", "Create an empty playlist owned by the current user", t.createPlaylist})
	r.Register(Tool{"commit_tracks", "Append tracks to a playlist in chunked catalog writes", t.commitTracks})
	r.Register(Tool{"library_artists", "Rank unique artists by saved-song count", t.libraryArtists})
	r.Register(Tool{"albums_by_song_count", "List albums with at least N saved songs", t.albumsBySongCount})
	r.Register(Tool{"library_summary", "Summarize the library with headline counts and top lists", t.librarySummary})
}

func decodeArgs(args json.RawMessage, into any) error {
	dec := json.NewDecoder(bytes.NewReader(args))
	dec.DisallowUnknownFields()
	if err := dec.Decode(into); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	return nil
}

func (t *Toolset) checkAuthStatus(ctx context.Context, _ json.RawMessage) (any, error) {
	if t.creds == nil || t.creds.AccessToken() == "" {
		return nil, fmt.Errorf("%w: no access token configured", shared.ErrMissingCredentials)
	}

	user, err := t.catalog.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"provider":      t.catalog.Name(),
		"user":          user,
		"token_expired": t.creds.Expired(),
	}, nil
}

func (t *Toolset) fetchLibrary(ctx context.Context, args json.RawMessage) (any, error) {
	var in struct {
		Kind     string `json:"kind"`
		PageSize int    `json:"page_size"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if in.Kind == "" {
		return nil, fmt.Errorf("%w: kind", shared.ErrMissingArgument)
	}

	return t.engine.FetchAll(ctx, models.EntityKind(in.Kind), in.PageSize, nil)
}

func (t *Toolset) searchTrack(ctx context.Context, args json.RawMessage) (any, error) {
	var in models.SearchQuery
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title", shared.ErrMissingArgument)
	}

	return t.engine.Search(ctx, in)
}

// batchOutcome is the per-query shape of batch results. Catalog errors
// are carried as messages so the envelope stays serializable.
type batchOutcome struct {
	models.SearchOutcome
	Error string `json:"error,omitempty"`
}

func (t *Toolset) batchSearchTracks(ctx context.Context, args json.RawMessage) (any, error) {
	var in struct {
		Queries []models.SearchQuery `json:"queries"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if len(in.Queries) == 0 {
		return nil, fmt.Errorf("%w: queries", shared.ErrMissingArgument)
	}

	outcomes, err := t.engine.BatchSearch(ctx, in.Queries, nil)
	if err != nil {
		return nil, err
	}

	results := make([]batchOutcome, len(outcomes))
	failed := 0
	for i, outcome := range outcomes {
		results[i] = batchOutcome{SearchOutcome: outcome}
		if outcome.Err != nil {
			results[i].Error = outcome.Err.Error()
			failed++
		}
	}

	return map[string]any{
		"outcomes": results,
		"total":    len(results),
		"failed":   failed,
	}, nil
}

func (t *Toolset) exportReviewBatch(ctx context.Context, args json.RawMessage) (any, error) {
	var in struct {
		Queries []models.SearchQuery `json:"queries"`
		Path    string               `json:"path"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if len(in.Queries) == 0 {
		return nil, fmt.Errorf("%w: queries", shared.ErrMissingArgument)
	}

	outcomes, err := t.engine.BatchSearch(ctx, in.Queries, nil)
	if err != nil {
		return nil, err
	}

	batch := tasks.ExportForReview(outcomes)
	result := map[string]any{
		"batch":     batch,
		"row_count": len(batch.Rows),
	}

	if in.Path != "" {
		path, err := formatter.WriteReviewFile(batch, in.Path)
		if err != nil {
			return nil, err
		}
		result["path"] = path
	}

	return result, nil
}

func (t *Toolset) importReviewDecisions(_ context.Context, args json.RawMessage) (any, error) {
	var in struct {
		Path string             `json:"path"`
		Rows []models.ReviewRow `json:"rows"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}

	batch := models.ReviewBatch{Rows: in.Rows}
	if in.Path != "" {
		parsed, err := formatter.ReadReviewFile(in.Path)
		if err != nil {
			return nil, err
		}
		batch = parsed
	}
	if len(batch.Rows) == 0 {
		return nil, fmt.Errorf("%w: rows or path", shared.ErrMissingArgument)
	}

	trackIDs, err := tasks.ImportDecisions(batch)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"track_ids": trackIDs,
		"accepted":  len(trackIDs),
		"reviewed":  len(batch.Rows),
	}, nil
}

func (t *Toolset) createPlaylist(ctx context.Context, args json.RawMessage) (any, error) {
	var in struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Public      bool   `json:"public"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}

	return t.engine.CreatePlaylist(ctx, in.Name, in.Description, in.Public)
}

func (t *Toolset) commitTracks(ctx context.Context, args json.RawMessage) (any, error) {
	var in struct {
		PlaylistID string   `json:"playlist_id"`
		TrackIDs   []string `json:"track_ids"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if len(in.TrackIDs) == 0 {
		return nil, fmt.Errorf("%w: track_ids", shared.ErrMissingArgument)
	}

	return t.engine.Commit(ctx, in.PlaylistID, in.TrackIDs, nil)
}

func (t *Toolset) libraryArtists(ctx context.Context, args json.RawMessage) (any, error) {
	var in struct {
		Limit int `json:"limit"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}

	artists, err := t.engine.LibraryArtists(ctx, nil)
	if err != nil {
		return nil, err
	}
	if in.Limit > 0 && len(artists) > in.Limit {
		artists = artists[:in.Limit]
	}

	return map[string]any{
		"artists": artists,
		"total":   len(artists),
	}, nil
}

func (t *Toolset) albumsBySongCount(ctx context.Context, args json.RawMessage) (any, error) {
	var in struct {
		MinSongs int `json:"min_songs"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if in.MinSongs == 0 {
		in.MinSongs = 2
	}

	albums, err := t.engine.AlbumsBySongCount(ctx, in.MinSongs, nil)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"albums":    albums,
		"total":     len(albums),
		"min_songs": in.MinSongs,
	}, nil
}

func (t *Toolset) librarySummary(ctx context.Context, _ json.RawMessage) (any, error) {
	return t.engine.Summarize(ctx, nil)
}
