package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/desertthunder/libman/internal/models"
	"github.com/desertthunder/libman/internal/shared"
	"github.com/urfave/cli/v3"
)

// SearchTrack matches a single title/artist pair against the catalog.
func (r *Runner) SearchTrack(ctx context.Context, cmd *cli.Command) error {
	title := cmd.StringArg("title")
	if title == "" {
		return fmt.Errorf("%w: title", shared.ErrMissingArgument)
	}

	args := models.SearchQuery{Title: title, Artist: cmd.String("artist")}
	return r.invoke(ctx, "search_track", args, cmd.Bool("json"))
}

// SearchBatch matches every query in a JSON file.
func (r *Runner) SearchBatch(ctx context.Context, cmd *cli.Command) error {
	queries, err := readQueryFile(cmd.String("file"))
	if err != nil {
		return err
	}

	r.logger.Infof("matching %d queries", len(queries))
	args := map[string]any{"queries": queries}
	return r.invoke(ctx, "batch_search_tracks", args, cmd.Bool("json"))
}

// readQueryFile parses a JSON array of search queries.
func readQueryFile(path string) ([]models.SearchQuery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read query file: %w", err)
	}

	var queries []models.SearchQuery
	if err := json.Unmarshal(data, &queries); err != nil {
		return nil, fmt.Errorf("%w: query file must be a JSON array of {title, artist}: %v", shared.ErrInvalidInput, err)
	}
	if len(queries) == 0 {
		return nil, fmt.Errorf("%w: query file is empty", shared.ErrInvalidInput)
	}
	return queries, nil
}
