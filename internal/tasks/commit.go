package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/libman/internal/models"
	"github.com/desertthunder/libman/internal/shared"
)

// PartialCommitError reports exactly which chunks of a draft were
// written before a failure. Chunk order is deterministic, so the caller
// can resume from Failed.Start; re-submitting an already-committed
// chunk is treated as at-least-once (see DESIGN.md on catalog-side
// duplicate handling).
type PartialCommitError struct {
	PlaylistID string
	Committed  []models.ChunkRange
	Failed     models.ChunkRange
	Remaining  int // tracks not yet attempted, including the failed chunk
	Err        error
}

func (e *PartialCommitError) Error() string {
	return fmt.Sprintf(
		"commit to playlist %s stopped at tracks [%d:%d): %d chunks committed, %d tracks remaining: %v",
		e.PlaylistID, e.Failed.Start, e.Failed.End, len(e.Committed), e.Remaining, e.Err,
	)
}

func (e *PartialCommitError) Unwrap() error        { return e.Err }
func (e *PartialCommitError) Is(target error) bool { return target == shared.ErrPartialCommit }

// CreatePlaylist creates an empty playlist owned by the current user.
func (e *LibraryEngine) CreatePlaylist(ctx context.Context, name, description string, public bool) (*models.Playlist, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog service not initialized", shared.ErrInvalidInput)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}
	return e.catalog.CreatePlaylist(ctx, name, description, public)
}

// Commit writes trackIDs to the playlist in consecutive chunks no
// larger than [models.CommitBatchLimit], in order, one catalog write
// per chunk. On a chunk failure (after the client's own retries) the
// commit stops and the returned [PartialCommitError] carries the
// committed and failed index ranges.
func (e *LibraryEngine) Commit(ctx context.Context, playlistID string, trackIDs []string, progress chan<- ProgressUpdate) (*models.CommitResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog service not initialized", shared.ErrInvalidInput)
	}
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist ID", shared.ErrMissingArgument)
	}
	if len(trackIDs) > models.SnapshotCap {
		return nil, fmt.Errorf("%w: draft of %d tracks exceeds the %d-track playlist ceiling", shared.ErrInvalidInput, len(trackIDs), models.SnapshotCap)
	}

	result := &models.CommitResult{
		PlaylistID: playlistID,
		Total:      len(trackIDs),
		Committed:  []models.ChunkRange{},
	}

	chunks := (len(trackIDs) + models.CommitBatchLimit - 1) / models.CommitBatchLimit

	for start := 0; start < len(trackIDs); start += models.CommitBatchLimit {
		end := start + models.CommitBatchLimit
		if end > len(trackIDs) {
			end = len(trackIDs)
		}
		chunk := models.ChunkRange{Start: start, End: end}

		e.sendProgress(progress, commitChunkUpdate(len(result.Committed)+1, chunks, chunk))

		if err := e.catalog.AddTracks(ctx, playlistID, trackIDs[start:end]); err != nil {
			e.logger.Error("chunk write failed", "playlist", playlistID, "start", start, "end", end, "error", err)
			return result, &PartialCommitError{
				PlaylistID: playlistID,
				Committed:  result.Committed,
				Failed:     chunk,
				Remaining:  len(trackIDs) - start,
				Err:        err,
			}
		}

		result.Committed = append(result.Committed, chunk)
	}

	e.logger.Info("commit complete", "playlist", playlistID, "tracks", result.Total, "chunks", len(result.Committed))
	return result, nil
}
