package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// ReviewExport searches a query file and writes non-HIGH matches to CSV.
func (r *Runner) ReviewExport(ctx context.Context, cmd *cli.Command) error {
	queries, err := readQueryFile(cmd.String("file"))
	if err != nil {
		return err
	}

	args := map[string]any{
		"queries": queries,
		"path":    cmd.String("output"),
	}
	if err := r.invoke(ctx, "export_review_batch", args, cmd.Bool("json")); err != nil {
		return err
	}

	r.writePlainln("Review the decision column in %s, then run 'libman review import -i %s'.",
		cmd.String("output"), cmd.String("output"))
	return nil
}

// ReviewImport validates a reviewed CSV and prints the resolved IDs.
func (r *Runner) ReviewImport(ctx context.Context, cmd *cli.Command) error {
	args := map[string]any{"path": cmd.String("input")}
	return r.invoke(ctx, "import_review_decisions", args, cmd.Bool("json"))
}
