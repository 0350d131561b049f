package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// TokenState classifies the in-memory credential.
type TokenState int

const (
	// StateAbsent means no credential is set.
	StateAbsent TokenState = iota
	// StateFresh means the access token is present and unexpired.
	StateFresh
	// StateStale means the access token expired but a refresh token exists.
	StateStale
	// StateInvalid means the credential cannot be refreshed and requires
	// full interactive re-authorization.
	StateInvalid
)

func (s TokenState) String() string {
	switch s {
	case StateAbsent:
		return "ABSENT"
	case StateFresh:
		return "FRESH"
	case StateStale:
		return "STALE"
	case StateInvalid:
		return "INVALID"
	}
	return fmt.Sprintf("TokenState(%d)", int(s))
}

// CredentialError reports a failure to establish or persist a credential.
type CredentialError struct {
	Op  string
	Err error
}

func (e *CredentialError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("credentials: %s: %v", e.Op, e.Err)
	}
	return "credentials: " + e.Op
}

func (e *CredentialError) Unwrap() error { return e.Err }

// Flow runs an interactive OAuth2 authorization and yields a token. It blocks
// until the user completes the flow or ctx is cancelled.
type Flow interface {
	Authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error)
}

// Manager owns the OAuth2 token lifecycle: load from the store, refresh stale
// tokens, fall back to interactive authorization, and persist the result.
// Each Manager owns its own in-memory token slot; only the store is shared
// process-wide.
type Manager struct {
	store Store
	flow  Flow
	oauth *oauth2.Config
	token *oauth2.Token
	log   zerolog.Logger

	// refresh is swappable in tests; the default hits Google's token endpoint.
	refresh func(ctx context.Context, tok *oauth2.Token) (*oauth2.Token, error)
}

// NewManager builds a Manager around an OAuth2 client config. A nil flow
// defaults to the local-server browser flow.
func NewManager(oauthCfg *oauth2.Config, store Store, flow Flow, log zerolog.Logger) *Manager {
	if flow == nil {
		flow = &LocalServerFlow{Log: log}
	}
	m := &Manager{
		store: store,
		flow:  flow,
		oauth: oauthCfg,
		log:   log,
	}
	m.refresh = m.refreshToken
	return m
}

// NewManagerFromFile builds a Manager from a client secrets JSON file of the
// kind downloaded from the Google Cloud console.
func NewManagerFromFile(path string, scopes []string, store Store, flow Flow, log zerolog.Logger) (*Manager, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &CredentialError{Op: fmt.Sprintf("read client secrets %q", path), Err: err}
	}
	oauthCfg, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, &CredentialError{Op: fmt.Sprintf("parse client secrets %q", path), Err: err}
	}
	return NewManager(oauthCfg, store, flow, log), nil
}

// State reports the state of the in-memory credential.
func (m *Manager) State() TokenState {
	return stateOf(m.token)
}

func stateOf(tok *oauth2.Token) TokenState {
	switch {
	case tok == nil:
		return StateAbsent
	case tok.Valid():
		return StateFresh
	case tok.RefreshToken != "":
		return StateStale
	default:
		return StateInvalid
	}
}

// Token returns a valid credential, loading, refreshing or re-authorizing as
// needed. Refresh failure falls back to the interactive flow rather than
// surfacing the refresh error.
func (m *Manager) Token(ctx context.Context) (*oauth2.Token, error) {
	if m.token != nil && m.token.Valid() {
		return m.token, nil
	}

	if m.token == nil && m.TokenExists() {
		tok, err := m.loadToken()
		if err != nil {
			m.log.Warn().Err(err).Msg("failed to load persisted token, starting authorization flow")
			return m.authorize(ctx)
		}
		m.token = tok
		m.log.Info().Stringer("state", m.State()).Msg("loaded persisted token")
	}

	switch stateOf(m.token) {
	case StateFresh:
		return m.token, nil
	case StateStale:
		m.log.Info().Msg("refreshing stale token")
		refreshed, err := m.refresh(ctx, m.token)
		if err != nil {
			m.log.Warn().Err(err).Msg("token refresh failed, starting authorization flow")
			return m.authorize(ctx)
		}
		m.token = refreshed
		if err := m.Save(); err != nil {
			return nil, err
		}
		return m.token, nil
	default:
		// Absent or invalid: only a full interactive flow can help.
		return m.authorize(ctx)
	}
}

// Client returns an HTTP client that authorizes requests with the managed
// token, obtaining one first if necessary.
func (m *Manager) Client(ctx context.Context) (*http.Client, error) {
	tok, err := m.Token(ctx)
	if err != nil {
		return nil, err
	}
	return m.oauth.Client(ctx, tok), nil
}

// Save persists the in-memory credential to the store.
func (m *Manager) Save() error {
	if m.token == nil {
		return &CredentialError{Op: "save: no credential set"}
	}
	data, err := json.Marshal(m.token)
	if err != nil {
		return &CredentialError{Op: "encode token", Err: err}
	}
	if err := m.store.Save(data); err != nil {
		return &CredentialError{Op: "persist token", Err: err}
	}
	m.log.Debug().Msg("token persisted")
	return nil
}

// Clear deletes the persisted token best-effort and always resets the
// in-memory credential. A failed store deletion is logged, not surfaced.
func (m *Manager) Clear() {
	if err := m.store.Delete(); err != nil {
		m.log.Warn().Err(err).Msg("could not delete persisted token")
	}
	m.token = nil
	m.log.Info().Msg("credentials cleared")
}

// TokenExists probes the store for a persisted token. Store access errors
// count as "does not exist" so callers re-authorize instead of crashing.
func (m *Manager) TokenExists() bool {
	data, err := m.store.Load()
	if err != nil {
		m.log.Debug().Err(err).Msg("token store probe failed")
		return false
	}
	return len(data) > 0
}

func (m *Manager) loadToken() (*oauth2.Token, error) {
	data, err := m.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, fmt.Errorf("decode token: no usable token fields")
	}
	return &tok, nil
}

func (m *Manager) authorize(ctx context.Context) (*oauth2.Token, error) {
	tok, err := m.flow.Authorize(ctx, m.oauth)
	if err != nil {
		return nil, &CredentialError{Op: "authorization flow", Err: err}
	}
	if tok == nil {
		return nil, &CredentialError{Op: "authorization flow yielded no token"}
	}
	m.token = tok
	if err := m.Save(); err != nil {
		return nil, err
	}
	return m.token, nil
}

func (m *Manager) refreshToken(ctx context.Context, tok *oauth2.Token) (*oauth2.Token, error) {
	return m.oauth.TokenSource(ctx, tok).Token()
}
