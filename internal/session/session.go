// Package session holds the client's authenticated identity. The session is
// an explicit object injected into everything that needs auth; there is no
// ambient global state.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/julianstephens/habitctl/internal/keyring"
	"github.com/julianstephens/habitctl/internal/logger"
	"github.com/julianstephens/habitctl/internal/models"
)

// State is the session lifecycle position. Bootstrapping lasts only until
// Restore completes; the only transitions afterwards are Anonymous ->
// Authenticated (login/register) and Authenticated -> Anonymous (logout or
// forced invalidation).
type State int

const (
	StateBootstrapping State = iota
	StateAnonymous
	StateAuthenticated
)

// ErrNotAuthenticated is returned by operations that require a logged-in
// session.
var ErrNotAuthenticated = errors.New("not logged in")

// Authenticator is the slice of the API client the session needs. The
// concrete implementation is *api.Client.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (models.Token, error)
	Register(ctx context.Context, user models.UserCreate) (models.User, error)
}

// CredStore persists the credential and user profile across runs. The
// concrete implementation is keyring.Store.
type CredStore interface {
	Token() (string, error)
	SaveToken(string) error
	User() (models.User, error)
	SaveUser(models.User) error
	Clear() error
}

// Session is safe for use from TUI command goroutines.
type Session struct {
	mu    sync.Mutex
	state State
	user  models.User
	token string
	store CredStore
	auth  Authenticator
}

func New(store CredStore, auth Authenticator) *Session {
	return &Session{
		state: StateBootstrapping,
		store: store,
		auth:  auth,
	}
}

// SetAuthenticator breaks the construction cycle between the session and the
// API client: the client reads tokens from the session, so it is built second
// and attached here before any auth call happens.
func (s *Session) SetAuthenticator(auth Authenticator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = auth
}

// Restore reads any persisted credential/user pair. It always leaves the
// session out of the bootstrapping state: authenticated when both entries are
// present, anonymous otherwise.
func (s *Session) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := s.store.Token()
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			logger.Warn("Could not read stored credential", "error", err)
		}
		s.state = StateAnonymous
		return
	}
	user, err := s.store.User()
	if err != nil {
		logger.Warn("Stored credential has no matching user profile", "error", err)
		s.state = StateAnonymous
		return
	}

	s.token = token
	s.user = user
	s.state = StateAuthenticated
}

// Login exchanges credentials for a token and transitions to the
// authenticated state. The token endpoint returns no user profile, so the
// local user record is synthesized from the email with ID 0. On failure the
// session stays anonymous and the backend's reason is returned.
func (s *Session) Login(ctx context.Context, email, password string) error {
	token, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	user := models.User{ID: 0, Email: email}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token.AccessToken
	s.user = user
	s.state = StateAuthenticated

	if err := s.store.SaveToken(token.AccessToken); err != nil {
		logger.Warn("Could not persist credential", "error", err)
	}
	if err := s.store.SaveUser(user); err != nil {
		logger.Warn("Could not persist user profile", "error", err)
	}
	return nil
}

// Register creates the account and immediately logs in with the same
// credentials.
func (s *Session) Register(ctx context.Context, email, password, telegramChatID string) error {
	_, err := s.auth.Register(ctx, models.UserCreate{
		Email:          email,
		Password:       password,
		TelegramChatID: telegramChatID,
	})
	if err != nil {
		return err
	}
	return s.Login(ctx, email, password)
}

// Logout tears the session down. It never fails; persistence errors are
// logged and the in-memory state is cleared regardless.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

// Invalidate is the forced teardown fired on any 401 response. Identical to
// logout; split out so call sites read as what they are.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAuthenticated {
		return
	}
	logger.Info("Session invalidated by backend")
	s.clearLocked()
}

func (s *Session) clearLocked() {
	s.token = ""
	s.user = models.User{}
	s.state = StateAnonymous
	if err := s.store.Clear(); err != nil {
		logger.Warn("Could not clear persisted session", "error", err)
	}
}

// Token implements api.CredentialSource. Empty when anonymous.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Current returns the authenticated user, if any.
func (s *Session) Current() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.state == StateAuthenticated
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
