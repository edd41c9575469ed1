package tasks

import (
	"fmt"

	"github.com/desertthunder/libman/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase; 0 when unknown up front
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchLibrary Phase = iota
	SearchTracks
	CommitTracks
)

func (p Phase) String() string {
	switch p {
	case FetchLibrary:
		return "fetch_library"
	case SearchTracks:
		return "search_tracks"
	case CommitTracks:
		return "commit_tracks"
	default:
		return ""
	}
}

func fetchPageUpdate(kind models.EntityKind, fetched int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLibrary,
		Step:    fetched,
		Message: fmt.Sprintf("Fetched %d %s...", fetched, kind),
	}
}

func searchQueryUpdate(step, total int, q models.SearchQuery) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, q.Artist, q.Title),
	}
}

func commitChunkUpdate(step, total int, chunk models.ChunkRange) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CommitTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Committing tracks %d-%d...", step, total, chunk.Start, chunk.End),
		Data:    chunk,
	}
}
