// Package auth supplies bearer tokens for the remote API. Tokens are
// obtained with the OAuth2 device code flow and renewed with the refresh
// token when the API rejects the current one.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/oauth2"

	"github.com/Tiliavir/promille/internal/config"
)

// ErrNotLoggedIn is returned when a refresh is needed but no usable token is
// stored.
var ErrNotLoggedIn = errors.New("not logged in: run `promille api login`")

// OAuth2Config builds the OAuth2 client configuration from the api section
// of the config file.
func OAuth2Config(api config.APIConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID: api.ClientID,
		Scopes:   api.Scopes,
		Endpoint: oauth2.Endpoint{
			DeviceAuthURL: api.DeviceAuthURL,
			TokenURL:      api.TokenURL,
			AuthStyle:     oauth2.AuthStyleInParams,
		},
	}
}

// Session hands out the stored access token and renews it on demand.
type Session struct {
	cfg   *oauth2.Config
	store TokenStore
	mu    sync.Mutex
}

// NewSession returns a Session backed by store.
func NewSession(cfg *oauth2.Config, store TokenStore) *Session {
	return &Session{cfg: cfg, store: store}
}

// Token returns the stored access token, or "" when logged out. It does not
// check expiry; the API's 401 drives renewal.
func (s *Session) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := s.store.Load()
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// Refresh exchanges the stored refresh token for a new token and saves it.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := s.store.Load()
	if errors.Is(err, ErrNotFound) {
		return ErrNotLoggedIn
	}
	if err != nil {
		return err
	}
	if tok.RefreshToken == "" {
		return fmt.Errorf("%w (no refresh token stored)", ErrNotLoggedIn)
	}

	// An empty access token forces the source to hit the token endpoint.
	refreshed, err := s.cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: tok.RefreshToken}).Token()
	if err != nil {
		return fmt.Errorf("token refresh failed: %w", err)
	}
	if err := s.store.Save(refreshed); err != nil {
		return fmt.Errorf("saving refreshed token: %w", err)
	}
	return nil
}

// Login runs the device code flow, printing the verification instructions
// to w, and stores the resulting token.
func Login(ctx context.Context, cfg *oauth2.Config, store TokenStore, w io.Writer) (*oauth2.Token, error) {
	resp, err := cfg.DeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("device auth request failed: %w", err)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "To sign in, use a web browser to open the page:")
	fmt.Fprintf(w, "  %s\n", resp.VerificationURI)
	fmt.Fprintf(w, "Enter the code: %s\n", resp.UserCode)
	fmt.Fprintln(w)

	tok, err := cfg.DeviceAccessToken(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("device authentication failed: %w", err)
	}
	if err := store.Save(tok); err != nil {
		return nil, fmt.Errorf("saving token: %w", err)
	}
	return tok, nil
}

// Logout deletes the stored token. It returns ErrNotLoggedIn when there was
// nothing to delete.
func Logout(store TokenStore) error {
	err := store.Delete()
	if errors.Is(err, ErrNotFound) {
		return ErrNotLoggedIn
	}
	return err
}
