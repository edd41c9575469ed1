package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

func (r *Runner) LibraryFetch(ctx context.Context, cmd *cli.Command) error {
	args := map[string]any{
		"kind":      cmd.String("kind"),
		"page_size": cmd.Int("page-size"),
	}
	return r.invoke(ctx, "fetch_library", args, cmd.Bool("json"))
}

func (r *Runner) LibraryArtists(ctx context.Context, cmd *cli.Command) error {
	args := map[string]any{}
	if limit := cmd.Int("limit"); limit > 0 {
		args["limit"] = limit
	}
	return r.invoke(ctx, "library_artists", args, cmd.Bool("json"))
}

func (r *Runner) LibraryAlbums(ctx context.Context, cmd *cli.Command) error {
	args := map[string]any{"min_songs": cmd.Int("min-songs")}
	return r.invoke(ctx, "albums_by_song_count", args, cmd.Bool("json"))
}

func (r *Runner) LibrarySummary(ctx context.Context, cmd *cli.Command) error {
	return r.invoke(ctx, "library_summary", struct{}{}, cmd.Bool("json"))
}
