// package repositories provides the persistence layer: a time-bounded
// local store of previously fetched or computed catalog results,
// consulted before any network call.
package repositories

import (
	"database/sql"
	"fmt"
	"time"
)

// CacheTTL is the fixed lifetime of a cache entry. Entries older than
// this are treated as absent at read time; nothing sweeps them eagerly.
const CacheTTL = 24 * time.Hour

// CacheRepository stores opaque payloads keyed by query or fetch-page
// identity. Safe for concurrent use; a put unconditionally overwrites
// (last writer wins on a given key).
type CacheRepository struct {
	db  *sql.DB
	ttl time.Duration

	// now is injectable so tests can age entries without sleeping.
	now func() time.Time
}

// NewCacheRepository creates a CacheRepository with the fixed 24h TTL.
func NewCacheRepository(db *sql.DB) *CacheRepository {
	return &CacheRepository{db: db, ttl: CacheTTL, now: time.Now}
}

// Get returns the payload stored under key, or ok=false when the entry
// is missing or its age exceeds the TTL. Stale entries are deleted
// opportunistically on the read that discovers them.
func (r *CacheRepository) Get(key string) (payload []byte, ok bool, err error) {
	var insertedAt int64

	row := r.db.QueryRow("SELECT payload, inserted_at FROM cache_entries WHERE key = ?", key)
	if err := row.Scan(&payload, &insertedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	age := r.now().Sub(time.Unix(insertedAt, 0))
	if age > r.ttl {
		// Best effort: a failed delete just leaves the row for the next reader.
		_, _ = r.db.Exec("DELETE FROM cache_entries WHERE key = ? AND inserted_at = ?", key, insertedAt)
		return nil, false, nil
	}

	return payload, true, nil
}

// Put stores payload under key, overwriting any existing entry.
func (r *CacheRepository) Put(key string, payload []byte) error {
	query := `
		INSERT INTO cache_entries (key, payload, inserted_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, inserted_at = excluded.inserted_at
	`

	if _, err := r.db.Exec(query, key, payload, r.now().Unix()); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Delete removes a single entry. Missing keys are not an error.
func (r *CacheRepository) Delete(key string) error {
	if _, err := r.db.Exec("DELETE FROM cache_entries WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Clear removes every entry, forcing a cold cache.
func (r *CacheRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM cache_entries"); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Stats reports entry counts for CLI inspection.
func (r *CacheRepository) Stats() (total, fresh int, err error) {
	cutoff := r.now().Add(-r.ttl).Unix()

	row := r.db.QueryRow("SELECT COUNT(*), COALESCE(SUM(inserted_at > ?), 0) FROM cache_entries", cutoff)
	if err := row.Scan(&total, &fresh); err != nil {
		return 0, 0, fmt.Errorf("failed to read cache stats: %w", err)
	}
	return total, fresh, nil
}
