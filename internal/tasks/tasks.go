// package tasks implements the library synchronization and matching
// engines over the external music catalog.
//
// The core abstraction is LibraryEngine, which orchestrates paginated
// library fetches, confidence-scored track matching, the review
// round-trip, and chunked playlist commits. Long operations emit
// progress updates via channels for non-blocking status reporting to
// the CLI layer.
package tasks

import (
	"github.com/charmbracelet/log"
	"github.com/desertthunder/libman/internal/repositories"
	"github.com/desertthunder/libman/internal/services"
	"github.com/desertthunder/libman/internal/shared"
)

// LibraryEngine coordinates catalog operations. The catalog service is
// the only network dependency and already routes through the
// rate-limited client; the cache is consulted before fetches and may be
// nil to force cold runs.
type LibraryEngine struct {
	catalog     services.Catalog
	cache       *repositories.CacheRepository
	logger      *log.Logger
	workers     int
	resultLimit int
}

// EngineOpts configures a LibraryEngine.
type EngineOpts struct {
	Catalog     services.Catalog
	Cache       *repositories.CacheRepository
	Logger      *log.Logger
	Workers     int // concurrent search workers, kept below the limiter's token rate
	ResultLimit int // candidates requested per search
}

// NewLibraryEngine creates a LibraryEngine with the provided dependencies.
func NewLibraryEngine(opts EngineOpts) *LibraryEngine {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Workers > 8 {
		opts.Workers = 8
	}
	if opts.ResultLimit <= 0 {
		opts.ResultLimit = 5
	}

	return &LibraryEngine{
		catalog:     opts.Catalog,
		cache:       opts.Cache,
		logger:      opts.Logger,
		workers:     opts.Workers,
		resultLimit: opts.ResultLimit,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *LibraryEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}
