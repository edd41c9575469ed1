package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/libman/internal/repositories"
	"github.com/desertthunder/libman/internal/services"
	"github.com/desertthunder/libman/internal/shared"
	"github.com/desertthunder/libman/internal/tasks"
	"github.com/desertthunder/libman/internal/tools"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Every catalog-touching command goes through the tool registry, so the
// CLI exercises exactly the surface exposed to any other caller.
type Runner struct {
	config   *shared.Config
	catalog  services.Catalog
	creds    *services.CredentialStore
	cache    *repositories.CacheRepository
	engine   *tasks.LibraryEngine
	registry *tools.Registry
	logger   *log.Logger
	output   io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config      *shared.Config
	Catalog     services.Catalog
	Credentials *services.CredentialStore
	Cache       *repositories.CacheRepository
	Logger      *log.Logger
	Output      io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	engine := tasks.NewLibraryEngine(tasks.EngineOpts{
		Catalog:     opts.Catalog,
		Cache:       opts.Cache,
		Logger:      opts.Logger,
		Workers:     opts.Config.Search.Workers,
		ResultLimit: opts.Config.Search.ResultLimit,
	})

	registry := tools.NewRegistry(opts.Logger)
	tools.NewToolset(engine, opts.Catalog, opts.Credentials).RegisterAll(registry)

	return &Runner{
		config:   opts.Config,
		catalog:  opts.Catalog,
		creds:    opts.Credentials,
		cache:    opts.Cache,
		engine:   engine,
		registry: registry,
		logger:   opts.Logger,
		output:   opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, libraryCommand, searchCommand, reviewCommand, playlistCommand, cacheCommand, toolCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// invoke routes a command through the tool registry and renders the
// outcome. With raw set, the full result envelope is printed even on
// failure; otherwise only the data record is printed and a tool error
// becomes the command's error.
func (r *Runner) invoke(ctx context.Context, tool string, args any, raw bool) error {
	payload, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to encode tool arguments: %w", err)
	}

	result := r.registry.Invoke(ctx, tool, payload)

	if raw {
		return r.writeJSON(result, true)
	}
	if !result.OK {
		return fmt.Errorf("%s failed (%s): %s", tool, result.Error.Kind, result.Error.Message)
	}
	return r.writeJSON(result.Data, true)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
