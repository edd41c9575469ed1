package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/libman/internal/shared"
	"github.com/urfave/cli/v3"
)

// CacheStats shows entry counts for the local response cache.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	if r.cache == nil {
		return fmt.Errorf("%w: cache not configured, run 'libman setup' first", shared.ErrMissingConfig)
	}

	total, fresh, err := r.cache.Stats()
	if err != nil {
		return err
	}

	r.writePlain("Cache entries: %d total, %d fresh, %d stale\n", total, fresh, total-fresh)
	return nil
}

// CacheClear removes every cached entry, forcing cold fetches.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	if r.cache == nil {
		return fmt.Errorf("%w: cache not configured, run 'libman setup' first", shared.ErrMissingConfig)
	}

	if err := r.cache.Clear(); err != nil {
		return err
	}

	r.logger.Info("cache cleared")
	r.writePlain("Cache cleared.\n")
	return nil
}
