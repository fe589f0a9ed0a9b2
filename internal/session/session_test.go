package session

import (
	"context"
	"errors"
	"testing"

	"github.com/julianstephens/habitctl/internal/keyring"
	"github.com/julianstephens/habitctl/internal/models"
)

type fakeStore struct {
	token      string
	user       models.User
	hasToken   bool
	hasUser    bool
	saveErr    error
	clearCalls int
}

func (f *fakeStore) Token() (string, error) {
	if !f.hasToken {
		return "", keyring.ErrNotFound
	}
	return f.token, nil
}

func (f *fakeStore) SaveToken(token string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.token = token
	f.hasToken = true
	return nil
}

func (f *fakeStore) User() (models.User, error) {
	if !f.hasUser {
		return models.User{}, keyring.ErrNotFound
	}
	return f.user, nil
}

func (f *fakeStore) SaveUser(user models.User) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.user = user
	f.hasUser = true
	return nil
}

func (f *fakeStore) Clear() error {
	f.token, f.user = "", models.User{}
	f.hasToken, f.hasUser = false, false
	f.clearCalls++
	return nil
}

type fakeAuth struct {
	loginErr    error
	registerErr error
	logins      int
	registered  []models.UserCreate
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (models.Token, error) {
	f.logins++
	if f.loginErr != nil {
		return models.Token{}, f.loginErr
	}
	return models.Token{AccessToken: "tok-" + email, TokenType: "bearer"}, nil
}

func (f *fakeAuth) Register(ctx context.Context, user models.UserCreate) (models.User, error) {
	if f.registerErr != nil {
		return models.User{}, f.registerErr
	}
	f.registered = append(f.registered, user)
	return models.User{ID: 5, Email: user.Email}, nil
}

func TestRestore(t *testing.T) {
	tests := []struct {
		name  string
		store *fakeStore
		want  State
	}{
		{
			name:  "both entries present",
			store: &fakeStore{hasToken: true, token: "tok", hasUser: true, user: models.User{ID: 1, Email: "a@b.test"}},
			want:  StateAuthenticated,
		},
		{
			name:  "no stored credential",
			store: &fakeStore{},
			want:  StateAnonymous,
		},
		{
			name:  "token without profile",
			store: &fakeStore{hasToken: true, token: "tok"},
			want:  StateAnonymous,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.store, &fakeAuth{})
			if s.State() != StateBootstrapping {
				t.Fatalf("state before restore = %v, want bootstrapping", s.State())
			}
			s.Restore()
			if s.State() != tt.want {
				t.Errorf("state after restore = %v, want %v", s.State(), tt.want)
			}
		})
	}
}

func TestLoginPersistsAndAuthenticates(t *testing.T) {
	store := &fakeStore{}
	s := New(store, &fakeAuth{})
	s.Restore()

	if err := s.Login(context.Background(), "a@b.test", "pw"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if s.State() != StateAuthenticated {
		t.Fatalf("state = %v, want authenticated", s.State())
	}
	if s.Token() != "tok-a@b.test" {
		t.Errorf("Token() = %q", s.Token())
	}
	user, ok := s.Current()
	if !ok || user.Email != "a@b.test" {
		t.Errorf("Current() = %+v, %v", user, ok)
	}
	if !store.hasToken || !store.hasUser {
		t.Error("credentials not persisted")
	}
}

func TestLoginFailureStaysAnonymous(t *testing.T) {
	store := &fakeStore{}
	s := New(store, &fakeAuth{loginErr: errors.New("bad credentials")})
	s.Restore()

	if err := s.Login(context.Background(), "a@b.test", "wrong"); err == nil {
		t.Fatal("expected login error")
	}
	if s.State() != StateAnonymous {
		t.Errorf("state = %v, want anonymous", s.State())
	}
	if s.Token() != "" {
		t.Errorf("Token() = %q, want empty", s.Token())
	}
}

func TestLoginSurvivesPersistFailure(t *testing.T) {
	// A broken keyring degrades to a single-run session, not a failed login.
	store := &fakeStore{saveErr: keyring.ErrKeyringUnavailable}
	s := New(store, &fakeAuth{})
	s.Restore()

	if err := s.Login(context.Background(), "a@b.test", "pw"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if s.State() != StateAuthenticated {
		t.Errorf("state = %v, want authenticated", s.State())
	}
}

func TestRegisterAutoLogin(t *testing.T) {
	store := &fakeStore{}
	auth := &fakeAuth{}
	s := New(store, auth)
	s.Restore()

	err := s.Register(context.Background(), "new@b.test", "pw", "chat-77")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if len(auth.registered) != 1 {
		t.Fatalf("registered %d users, want 1", len(auth.registered))
	}
	if auth.registered[0].TelegramChatID != "chat-77" {
		t.Errorf("TelegramChatID = %q, want chat-77", auth.registered[0].TelegramChatID)
	}
	if auth.logins != 1 {
		t.Errorf("login called %d times after register, want 1", auth.logins)
	}
	if s.State() != StateAuthenticated {
		t.Errorf("state = %v, want authenticated", s.State())
	}
}

func TestRegisterFailureSkipsLogin(t *testing.T) {
	auth := &fakeAuth{registerErr: errors.New("email taken")}
	s := New(&fakeStore{}, auth)
	s.Restore()

	if err := s.Register(context.Background(), "a@b.test", "pw", ""); err == nil {
		t.Fatal("expected register error")
	}
	if auth.logins != 0 {
		t.Errorf("login called %d times after failed register, want 0", auth.logins)
	}
	if s.State() != StateAnonymous {
		t.Errorf("state = %v, want anonymous", s.State())
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	store := &fakeStore{}
	s := New(store, &fakeAuth{})
	s.Restore()
	if err := s.Login(context.Background(), "a@b.test", "pw"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	s.Logout()
	if s.State() != StateAnonymous {
		t.Errorf("state = %v, want anonymous", s.State())
	}
	if s.Token() != "" {
		t.Errorf("Token() = %q, want empty", s.Token())
	}
	if _, ok := s.Current(); ok {
		t.Error("Current() still reports a user after logout")
	}
	if store.clearCalls != 1 {
		t.Errorf("store cleared %d times, want 1", store.clearCalls)
	}
}

func TestInvalidate(t *testing.T) {
	store := &fakeStore{}
	s := New(store, &fakeAuth{})
	s.Restore()
	if err := s.Login(context.Background(), "a@b.test", "pw"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	s.Invalidate()
	if s.State() != StateAnonymous {
		t.Errorf("state = %v, want anonymous", s.State())
	}

	// Already-anonymous sessions are left alone, so a burst of 401s from
	// concurrent calls clears once.
	s.Invalidate()
	if store.clearCalls != 1 {
		t.Errorf("store cleared %d times, want 1", store.clearCalls)
	}
}
