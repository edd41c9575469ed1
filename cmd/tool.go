package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/libman/internal/shared"
	"github.com/urfave/cli/v3"
)

// ToolList prints the registered tool names and descriptions.
func (r *Runner) ToolList(ctx context.Context, cmd *cli.Command) error {
	for _, name := range r.registry.Names() {
		tool, _ := r.registry.Describe(name)
		r.writePlain("%-24s %s\n", name, tool.Description)
	}
	return nil
}

// ToolCall invokes a tool by name with a raw JSON argument record and
// always prints the full result envelope.
func (r *Runner) ToolCall(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: tool name", shared.ErrMissingArgument)
	}

	args := json.RawMessage(cmd.String("args"))
	if !json.Valid(args) {
		return fmt.Errorf("%w: --args must be a JSON object", shared.ErrInvalidInput)
	}

	result := r.registry.Invoke(ctx, name, args)
	return r.writeJSON(result, true)
}
