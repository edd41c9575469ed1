// package tools exposes the engine as a registry of named, callable
// operations. Every tool takes a JSON argument record and returns a
// structured result record or a structured error record; this registry
// is the only supported entry point into the core, the CLI included.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/libman/internal/shared"
	"github.com/desertthunder/libman/internal/tasks"
	"github.com/google/uuid"
)

// Handler executes one tool invocation. Returned values must be
// JSON-serializable; returned errors are translated into error records
// by the registry.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Tool is a named operation in the registry.
type Tool struct {
	Name        string
	Description string
	Handler     Handler
}

// ErrorRecord is the structured failure shape every tool shares.
type ErrorRecord struct {
	Kind    string         `json:"kind"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Result is the envelope returned by every invocation. Exactly one of
// Data and Error is populated.
type Result struct {
	InvocationID string       `json:"invocation_id"`
	Tool         string       `json:"tool"`
	OK           bool         `json:"ok"`
	Data         any          `json:"data,omitempty"`
	Error        *ErrorRecord `json:"error,omitempty"`
}

// Registry maps tool names to handlers.
type Registry struct {
	tools  map[string]Tool
	logger *log.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *log.Logger) *Registry {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Registry{tools: make(map[string]Tool), logger: logger}
}

// Register adds a tool, replacing any previous registration of the name.
func (r *Registry) Register(t Tool) {
	r.tools[t.Name] = t
}

// Names lists the registered tool names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns the registered tool, if any.
func (r *Registry) Describe(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Invoke runs the named tool. Failures of any kind are captured in the
// result's error record; Invoke itself never returns a Go error so the
// caller always has a serializable envelope to hand back.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) Result {
	result := Result{
		InvocationID: uuid.NewString(),
		Tool:         name,
	}

	tool, ok := r.tools[name]
	if !ok {
		result.Error = &ErrorRecord{
			Kind:    "unknown_tool",
			Message: fmt.Sprintf("no tool named %q", name),
			Details: map[string]any{"known": r.Names()},
		}
		return result
	}

	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	data, err := tool.Handler(ctx, args)
	if err != nil {
		r.logger.Debug("tool failed", "tool", name, "invocation", result.InvocationID, "error", err)
		result.Error = errorRecord(err)
		return result
	}

	result.OK = true
	result.Data = data
	return result
}

// errorRecord classifies an error into the shared taxonomy. Typed
// errors contribute structured details; anything unrecognized is
// reported as internal.
func errorRecord(err error) *ErrorRecord {
	record := &ErrorRecord{Message: err.Error()}

	var authErr *shared.AuthError
	var rateErr *shared.RateLimitError
	var catErr *shared.CatalogError
	var valErr *shared.ValidationError
	var commitErr *tasks.PartialCommitError

	switch {
	case errors.As(err, &commitErr):
		record.Kind = "partial_commit"
		record.Details = map[string]any{
			"playlist_id": commitErr.PlaylistID,
			"committed":   commitErr.Committed,
			"failed":      commitErr.Failed,
			"remaining":   commitErr.Remaining,
		}
	case errors.As(err, &authErr):
		record.Kind = "auth_error"
		record.Details = map[string]any{"op": authErr.Op}
	case errors.As(err, &rateErr):
		record.Kind = "rate_limited"
		record.Details = map[string]any{
			"endpoint": rateErr.Endpoint,
			"attempts": rateErr.Attempts,
		}
	case errors.As(err, &catErr):
		record.Kind = "catalog_error"
		record.Details = map[string]any{
			"endpoint": catErr.Endpoint,
			"status":   catErr.Status,
		}
	case errors.As(err, &valErr):
		record.Kind = "validation_error"
		record.Details = map[string]any{
			"row":      valErr.Row,
			"field":    valErr.Field,
			"value":    valErr.Value,
			"expected": valErr.Expected,
		}
	case errors.Is(err, shared.ErrPartialCommit):
		record.Kind = "partial_commit"
	case errors.Is(err, shared.ErrAuth), errors.Is(err, shared.ErrMissingCredentials):
		record.Kind = "auth_error"
	case errors.Is(err, shared.ErrRateLimited):
		record.Kind = "rate_limited"
	case errors.Is(err, shared.ErrCatalogRequest):
		record.Kind = "catalog_error"
	case errors.Is(err, shared.ErrValidation):
		record.Kind = "validation_error"
	case errors.Is(err, shared.ErrMissingArgument), errors.Is(err, shared.ErrInvalidArgument), errors.Is(err, shared.ErrInvalidInput):
		record.Kind = "invalid_argument"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		record.Kind = "canceled"
	default:
		record.Kind = "internal"
	}

	return record
}
