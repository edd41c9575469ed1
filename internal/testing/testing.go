// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/libman/internal/models"
)

// MockCatalog is a configurable test double for [services.Catalog].
// Each func field overrides the corresponding method; unset methods
// return empty results. Calls are counted per method under a mutex so
// concurrent engine tests can assert on call volume.
type MockCatalog struct {
	mu    sync.Mutex
	Calls map[string]int

	CurrentUserFunc     func(ctx context.Context) (*models.User, error)
	FollowedArtistsFunc func(ctx context.Context, after string, limit int) ([]models.Artist, string, error)
	SavedTracksFunc     func(ctx context.Context, offset, limit int) ([]models.Track, int, error)
	SearchTracksFunc    func(ctx context.Context, query string, limit int) ([]models.Track, error)
	CreatePlaylistFunc  func(ctx context.Context, name, description string, public bool) (*models.Playlist, error)
	AddTracksFunc       func(ctx context.Context, playlistID string, trackIDs []string) error
}

func (m *MockCatalog) count(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Calls == nil {
		m.Calls = make(map[string]int)
	}
	m.Calls[method]++
}

// CallCount returns how many times a method was invoked.
func (m *MockCatalog) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[method]
}

func (m *MockCatalog) CurrentUser(ctx context.Context) (*models.User, error) {
	m.count("CurrentUser")
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx)
	}
	return &models.User{ID: "mock-user"}, nil
}

func (m *MockCatalog) FollowedArtists(ctx context.Context, after string, limit int) ([]models.Artist, string, error) {
	m.count("FollowedArtists")
	if m.FollowedArtistsFunc != nil {
		return m.FollowedArtistsFunc(ctx, after, limit)
	}
	return []models.Artist{}, "", nil
}

func (m *MockCatalog) SavedTracks(ctx context.Context, offset, limit int) ([]models.Track, int, error) {
	m.count("SavedTracks")
	if m.SavedTracksFunc != nil {
		return m.SavedTracksFunc(ctx, offset, limit)
	}
	return []models.Track{}, 0, nil
}

func (m *MockCatalog) SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error) {
	m.count("SearchTracks")
	if m.SearchTracksFunc != nil {
		return m.SearchTracksFunc(ctx, query, limit)
	}
	return []models.Track{}, nil
}

func (m *MockCatalog) CreatePlaylist(ctx context.Context, name, description string, public bool) (*models.Playlist, error) {
	m.count("CreatePlaylist")
	if m.CreatePlaylistFunc != nil {
		return m.CreatePlaylistFunc(ctx, name, description, public)
	}
	return &models.Playlist{ID: "mock-playlist", Name: name, Description: description, Public: public}, nil
}

func (m *MockCatalog) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	m.count("AddTracks")
	if m.AddTracksFunc != nil {
		return m.AddTracksFunc(ctx, playlistID, trackIDs)
	}
	return nil
}

func (m *MockCatalog) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// SequenceRoundTripper replays a fixed sequence of responses, then
// repeats the last one. Used for retry and refresh flows.
type SequenceRoundTripper struct {
	mu        sync.Mutex
	responses []func(*http.Request) (*http.Response, error)
	calls     int
}

func NewSequenceRoundTripper(responses ...func(*http.Request) (*http.Response, error)) *SequenceRoundTripper {
	return &SequenceRoundTripper{responses: responses}
}

func (s *SequenceRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	s.mu.Lock()
	i := s.calls
	s.calls++
	s.mu.Unlock()
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	return s.responses[i](req)
}

// CallCount returns how many requests the transport served.
func (s *SequenceRoundTripper) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
