package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/libman/internal/models"
	"github.com/desertthunder/libman/internal/shared"
)

// FetchAll walks the listing endpoint for kind with an advancing cursor
// until the data is exhausted or the accumulated count reaches
// [models.SnapshotCap], whichever comes first. Entities are deduplicated
// by catalog ID as a defensive measure against pagination overlap.
//
// A fresh cached snapshot under the same (kind, pageSize) key is
// returned without any network calls. An empty first page yields a
// valid, empty snapshot.
func (e *LibraryEngine) FetchAll(ctx context.Context, kind models.EntityKind, pageSize int, progress chan<- ProgressUpdate) (*models.LibrarySnapshot, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog service not initialized", shared.ErrInvalidInput)
	}
	if pageSize <= 0 || pageSize > 50 {
		pageSize = 50
	}

	key := fetchCacheKey(kind, pageSize)
	if cached := e.cachedSnapshot(key); cached != nil {
		e.logger.Debug("snapshot served from cache", "kind", kind, "entities", len(cached.Entities))
		return cached, nil
	}

	var snapshot *models.LibrarySnapshot
	var err error

	switch kind {
	case models.KindArtists:
		snapshot, err = e.fetchArtists(ctx, pageSize, progress)
	case models.KindTracks:
		snapshot, err = e.fetchTracks(ctx, pageSize, progress)
	default:
		return nil, fmt.Errorf("%w: unknown entity kind %q", shared.ErrInvalidArgument, kind)
	}
	if err != nil {
		return nil, err
	}

	snapshot.Kind = kind
	snapshot.PageSize = pageSize
	snapshot.FetchedAt = time.Now().UTC()

	e.storeSnapshot(key, snapshot)
	return snapshot, nil
}

// fetchArtists walks the cursor-paginated followed-artists listing.
func (e *LibraryEngine) fetchArtists(ctx context.Context, pageSize int, progress chan<- ProgressUpdate) (*models.LibrarySnapshot, error) {
	snapshot := &models.LibrarySnapshot{Entities: []models.LibraryEntity{}}
	seen := make(map[string]struct{})
	after := ""

	for {
		artists, next, err := e.catalog.FollowedArtists(ctx, after, pageSize)
		if err != nil {
			return nil, err
		}

		for i := range artists {
			artist := artists[i]
			if _, dup := seen[artist.ID]; dup {
				continue
			}
			seen[artist.ID] = struct{}{}
			snapshot.Entities = append(snapshot.Entities, models.LibraryEntity{ID: artist.ID, Artist: &artist})

			if len(snapshot.Entities) >= models.SnapshotCap {
				snapshot.Truncated = true
				snapshot.Cursor = after
				return snapshot, nil
			}
		}

		e.sendProgress(progress, fetchPageUpdate(models.KindArtists, len(snapshot.Entities)))

		// The cursor must strictly advance; a repeated or empty cursor
		// means the listing is exhausted.
		if next == "" || next == after || len(artists) < pageSize {
			snapshot.Cursor = next
			return snapshot, nil
		}
		after = next
	}
}

// fetchTracks walks the offset-paginated saved-tracks listing.
func (e *LibraryEngine) fetchTracks(ctx context.Context, pageSize int, progress chan<- ProgressUpdate) (*models.LibrarySnapshot, error) {
	snapshot := &models.LibrarySnapshot{Entities: []models.LibraryEntity{}}
	seen := make(map[string]struct{})
	offset := 0

	for {
		tracks, total, err := e.catalog.SavedTracks(ctx, offset, pageSize)
		if err != nil {
			return nil, err
		}
		if len(tracks) == 0 {
			snapshot.Cursor = strconv.Itoa(offset)
			return snapshot, nil
		}

		for i := range tracks {
			track := tracks[i]
			if _, dup := seen[track.ID]; dup {
				continue
			}
			seen[track.ID] = struct{}{}
			snapshot.Entities = append(snapshot.Entities, models.LibraryEntity{ID: track.ID, Track: &track})

			if len(snapshot.Entities) >= models.SnapshotCap {
				snapshot.Truncated = true
				snapshot.Cursor = strconv.Itoa(offset)
				return snapshot, nil
			}
		}

		offset += len(tracks)
		e.sendProgress(progress, fetchPageUpdate(models.KindTracks, len(snapshot.Entities)))

		if len(tracks) < pageSize || (total > 0 && offset >= total) {
			snapshot.Cursor = strconv.Itoa(offset)
			return snapshot, nil
		}
	}
}

func fetchCacheKey(kind models.EntityKind, pageSize int) string {
	return fmt.Sprintf("fetch:%s:%d", kind, pageSize)
}

// cachedSnapshot returns a fresh snapshot from the cache, or nil on any
// miss, expiry, or decode failure. Cache problems never fail a fetch.
func (e *LibraryEngine) cachedSnapshot(key string) *models.LibrarySnapshot {
	if e.cache == nil {
		return nil
	}

	payload, ok, err := e.cache.Get(key)
	if err != nil {
		e.logger.Warn("cache read failed", "key", key, "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	var snapshot models.LibrarySnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		e.logger.Warn("discarding undecodable cache entry", "key", key, "error", err)
		return nil
	}
	return &snapshot
}

func (e *LibraryEngine) storeSnapshot(key string, snapshot *models.LibrarySnapshot) {
	if e.cache == nil {
		return
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		e.logger.Warn("failed to encode snapshot for cache", "key", key, "error", err)
		return
	}
	if err := e.cache.Put(key, payload); err != nil {
		e.logger.Warn("cache write failed", "key", key, "error", err)
	}
}
