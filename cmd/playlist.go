package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/libman/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlaylistCreate creates an empty playlist.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	args := map[string]any{
		"name":        name,
		"description": cmd.String("description"),
		"public":      cmd.Bool("public"),
	}
	return r.invoke(ctx, "create_playlist", args, cmd.Bool("json"))
}

// PlaylistCommit appends the track IDs from a file to a playlist.
func (r *Runner) PlaylistCommit(ctx context.Context, cmd *cli.Command) error {
	trackIDs, err := readTrackIDFile(cmd.String("file"))
	if err != nil {
		return err
	}

	r.logger.Infof("committing %d tracks to playlist %s", len(trackIDs), cmd.String("id"))
	args := map[string]any{
		"playlist_id": cmd.String("id"),
		"track_ids":   trackIDs,
	}
	return r.invoke(ctx, "commit_tracks", args, cmd.Bool("json"))
}

// readTrackIDFile accepts either a JSON array of IDs or one ID per line.
func readTrackIDFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read track file: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var ids []string
		if err := json.Unmarshal(data, &ids); err != nil {
			return nil, fmt.Errorf("%w: invalid JSON track list: %v", shared.ErrInvalidInput, err)
		}
		return ids, nil
	}

	var ids []string
	for _, line := range strings.Split(trimmed, "\n") {
		if id := strings.TrimSpace(line); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: track file is empty", shared.ErrInvalidInput)
	}
	return ids, nil
}
