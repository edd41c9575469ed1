package tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/desertthunder/libman/internal/models"
	"github.com/desertthunder/libman/internal/services"
	"github.com/desertthunder/libman/internal/shared"
	"github.com/desertthunder/libman/internal/tasks"
	ytesting "github.com/desertthunder/libman/internal/testing"
	"golang.org/x/oauth2"
)

func newTestRegistry(catalog *ytesting.MockCatalog) *Registry {
	engine := tasks.NewLibraryEngine(tasks.EngineOpts{Catalog: catalog, Workers: 2})
	creds := services.NewCredentialStore(&oauth2.Token{AccessToken: "token"}, nil)

	registry := NewRegistry(nil)
	NewToolset(engine, catalog, creds).RegisterAll(registry)
	return registry
}

func TestRegistry(t *testing.T) {
	t.Run("unknown tool", func(t *testing.T) {
		registry := newTestRegistry(&ytesting.MockCatalog{})

		result := registry.Invoke(context.Background(), "no_such_tool", nil)
		if result.OK {
			t.Fatal("expected failure")
		}
		if result.Error.Kind != "unknown_tool" {
			t.Errorf("expected unknown_tool, got %s", result.Error.Kind)
		}
		if result.InvocationID == "" {
			t.Error("expected an invocation ID")
		}
	})

	t.Run("every advertised tool is registered", func(t *testing.T) {
		registry := newTestRegistry(&ytesting.MockCatalog{})

		expected := []string{
			"albums_by_song_count", "batch_search_tracks", "check_auth_status",
			"commit_tracks", "create_playlist", "export_review_batch",
			"fetch_library", "import_review_decisions", "library_artists",
			"library_summary", "search_track",
		}

		names := registry.Names()
		if len(names) != len(expected) {
			t.Fatalf("expected %d tools, got %v", len(expected), names)
		}
		for i, name := range expected {
			if names[i] != name {
				t.Errorf("position %d = %s, want %s", i, names[i], name)
			}
		}
	})

	t.Run("invalid argument record", func(t *testing.T) {
		registry := newTestRegistry(&ytesting.MockCatalog{})

		result := registry.Invoke(context.Background(), "search_track", json.RawMessage(`{"unknown_field":1}`))
		if result.OK {
			t.Fatal("expected failure")
		}
		if result.Error.Kind != "invalid_argument" {
			t.Errorf("expected invalid_argument, got %s", result.Error.Kind)
		}
	})
}

func TestTools(t *testing.T) {
	t.Run("check_auth_status", func(t *testing.T) {
		registry := newTestRegistry(&ytesting.MockCatalog{})

		result := registry.Invoke(context.Background(), "check_auth_status", nil)
		if !result.OK {
			t.Fatalf("expected success, got %+v", result.Error)
		}

		data := result.Data.(map[string]any)
		if data["provider"] != "mock" {
			t.Errorf("expected provider mock, got %v", data["provider"])
		}
	})

	t.Run("search_track requires a title", func(t *testing.T) {
		registry := newTestRegistry(&ytesting.MockCatalog{})

		result := registry.Invoke(context.Background(), "search_track", json.RawMessage(`{"artist":"Queen"}`))
		if result.OK || result.Error.Kind != "invalid_argument" {
			t.Errorf("expected invalid_argument, got %+v", result)
		}
	})

	t.Run("search_track returns a scored outcome", func(t *testing.T) {
		catalog := &ytesting.MockCatalog{
			SearchTracksFunc: func(ctx context.Context, query string, limit int) ([]models.Track, error) {
				return []models.Track{{ID: "t1", Title: "Creep", Artist: "Radiohead"}}, nil
			},
		}
		registry := newTestRegistry(catalog)

		result := registry.Invoke(context.Background(), "search_track", json.RawMessage(`{"title":"Creep","artist":"Radiohead"}`))
		if !result.OK {
			t.Fatalf("expected success, got %+v", result.Error)
		}

		outcome := result.Data.(*models.SearchOutcome)
		if outcome.Best() == nil || outcome.Best().Tier != models.TierHigh {
			t.Errorf("expected HIGH match, got %+v", outcome)
		}
	})

	t.Run("batch_search_tracks reports per-query failures", func(t *testing.T) {
		catalog := &ytesting.MockCatalog{
			SearchTracksFunc: func(ctx context.Context, query string, limit int) ([]models.Track, error) {
				if strings.Contains(query, "Broken") {
					return nil, &shared.CatalogError{Endpoint: "/search", Status: 500}
				}
				return []models.Track{{ID: "t1", Title: "Fine", Artist: "A"}}, nil
			},
		}
		registry := newTestRegistry(catalog)

		args := json.RawMessage(`{"queries":[{"title":"Fine","artist":"A"},{"title":"Broken","artist":"A"}]}`)
		result := registry.Invoke(context.Background(), "batch_search_tracks", args)
		if !result.OK {
			t.Fatalf("expected success with partial failures, got %+v", result.Error)
		}

		data := result.Data.(map[string]any)
		if data["failed"] != 1 {
			t.Errorf("expected 1 failure, got %v", data["failed"])
		}
	})

	t.Run("import_review_decisions propagates validation errors", func(t *testing.T) {
		registry := newTestRegistry(&ytesting.MockCatalog{})

		args := json.RawMessage(`{"rows":[{"title":"A","matched_id":"t1","decision":"maybe"}]}`)
		result := registry.Invoke(context.Background(), "import_review_decisions", args)
		if result.OK {
			t.Fatal("expected failure")
		}
		if result.Error.Kind != "validation_error" {
			t.Errorf("expected validation_error, got %s", result.Error.Kind)
		}
		if result.Error.Details["row"] != 0 {
			t.Errorf("expected row 0 in details, got %v", result.Error.Details["row"])
		}
	})

	t.Run("import_review_decisions resolves accepted IDs", func(t *testing.T) {
		registry := newTestRegistry(&ytesting.MockCatalog{})

		args := json.RawMessage(`{"rows":[
			{"title":"A","matched_id":"t1","decision":"accept"},
			{"title":"B","matched_id":"t2","decision":"reject"},
			{"title":"C","matched_id":"t3","decision":"replace:manual"}
		]}`)
		result := registry.Invoke(context.Background(), "import_review_decisions", args)
		if !result.OK {
			t.Fatalf("expected success, got %+v", result.Error)
		}

		data := result.Data.(map[string]any)
		ids := data["track_ids"].([]string)
		if len(ids) != 2 || ids[0] != "t1" || ids[1] != "manual" {
			t.Errorf("unexpected IDs %v", ids)
		}
	})

	t.Run("commit_tracks maps partial failures", func(t *testing.T) {
		calls := 0
		catalog := &ytesting.MockCatalog{
			AddTracksFunc: func(ctx context.Context, playlistID string, ids []string) error {
				calls++
				if calls == 2 {
					return &shared.CatalogError{Endpoint: "/playlists", Status: 502}
				}
				return nil
			},
		}
		registry := newTestRegistry(catalog)

		ids := make([]string, 150)
		for i := range ids {
			ids[i] = "t"
		}
		payload, _ := json.Marshal(map[string]any{"playlist_id": "pl1", "track_ids": ids})

		result := registry.Invoke(context.Background(), "commit_tracks", payload)
		if result.OK {
			t.Fatal("expected failure")
		}
		if result.Error.Kind != "partial_commit" {
			t.Errorf("expected partial_commit, got %s", result.Error.Kind)
		}
		if result.Error.Details["remaining"] != 50 {
			t.Errorf("expected 50 remaining, got %v", result.Error.Details["remaining"])
		}
	})

	t.Run("fetch_library requires a kind", func(t *testing.T) {
		registry := newTestRegistry(&ytesting.MockCatalog{})

		result := registry.Invoke(context.Background(), "fetch_library", json.RawMessage(`{}`))
		if result.OK || result.Error.Kind != "invalid_argument" {
			t.Errorf("expected invalid_argument, got %+v", result)
		}
	})

	t.Run("library_summary aggregates", func(t *testing.T) {
		catalog := &ytesting.MockCatalog{
			SavedTracksFunc: func(ctx context.Context, offset, limit int) ([]models.Track, int, error) {
				if offset > 0 {
					return nil, 1, nil
				}
				return []models.Track{{ID: "t1", Title: "Song", Artist: "Artist", Album: "Album", AlbumID: "al1"}}, 1, nil
			},
		}
		registry := newTestRegistry(catalog)

		result := registry.Invoke(context.Background(), "library_summary", nil)
		if !result.OK {
			t.Fatalf("expected success, got %+v", result.Error)
		}

		summary := result.Data.(*models.LibrarySummary)
		if summary.SavedTracks != 1 || summary.UniqueArtists != 1 {
			t.Errorf("unexpected summary %+v", summary)
		}
	})
}
