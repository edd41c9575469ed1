package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/libman/internal/shared"
	"golang.org/x/oauth2"
)

// RefreshFunc exchanges a refresh token for a fresh [oauth2.Token].
// Supplied by the authentication collaborator; the engine never performs
// the interactive login itself.
type RefreshFunc func(ctx context.Context, refreshToken string) (*oauth2.Token, error)

// CredentialStore holds the process-wide catalog credential and refreshes
// it in place when expired. Token values are never logged.
type CredentialStore struct {
	mu      sync.Mutex
	token   *oauth2.Token
	refresh RefreshFunc
}

// NewCredentialStore creates a store around an existing token and a
// refresh callable. The refresh callable may be nil for short-lived use.
func NewCredentialStore(token *oauth2.Token, refresh RefreshFunc) *CredentialStore {
	return &CredentialStore{token: token, refresh: refresh}
}

// AccessToken returns the current bearer token value.
func (s *CredentialStore) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == nil {
		return ""
	}
	return s.token.AccessToken
}

// Expired reports whether the held token has an expiry in the past.
// Tokens without an expiry are assumed valid until the catalog says otherwise.
func (s *CredentialStore) Expired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == nil {
		return true
	}
	return !s.token.Expiry.IsZero() && s.token.Expiry.Before(time.Now())
}

// Refresh exchanges the refresh token for a new access token, replacing
// the held token in place. Callers racing here perform one refresh each;
// the catalog tolerates redundant exchanges.
func (s *CredentialStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refresh == nil {
		return fmt.Errorf("%w: no refresh callable configured", shared.ErrMissingCredentials)
	}
	if s.token == nil || s.token.RefreshToken == "" {
		return fmt.Errorf("%w: no refresh token held", shared.ErrMissingCredentials)
	}

	token, err := s.refresh(ctx, s.token.RefreshToken)
	if err != nil {
		return fmt.Errorf("token refresh failed: %w", err)
	}
	if token.RefreshToken == "" {
		token.RefreshToken = s.token.RefreshToken
	}
	s.token = token
	return nil
}

// OAuthRefresher adapts an [oauth2.Config] into a [RefreshFunc].
func OAuthRefresher(config *oauth2.Config) RefreshFunc {
	return func(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
		source := config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
		return source.Token()
	}
}
