package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julianstephens/habitctl/internal/models"
)

type staticCreds struct {
	token string
}

func (c staticCreds) Token() string { return c.token }

func TestBearerHeaderAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode([]models.Habit{})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticCreds{token: "tok-123"})
	if _, err := client.ListHabits(context.Background()); err != nil {
		t.Fatalf("ListHabits returned error: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok-123")
	}
	if gotRequestID == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestAnonymousRequestOmitsAuthorization(t *testing.T) {
	var sawAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
		json.NewEncoder(w).Encode([]models.Habit{})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticCreds{})
	if _, err := client.ListHabits(context.Background()); err != nil {
		t.Fatalf("ListHabits returned error: %v", err)
	}
	if sawAuth {
		t.Error("Authorization header sent for anonymous session")
	}
}

func TestUnauthorizedFiresHookOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	hookCalls := 0
	client := NewClient(srv.URL, staticCreds{token: "stale"},
		WithUnauthorizedHook(func() { hookCalls++ }))

	_, err := client.ListHabits(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if hookCalls != 1 {
		t.Fatalf("hook fired %d times, want 1", hookCalls)
	}

	// Any endpoint triggers the same teardown path.
	err = client.DeleteHabit(context.Background(), 7)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if hookCalls != 2 {
		t.Fatalf("hook fired %d times after second 401, want 2", hookCalls)
	}
}

func TestUnauthorizedCarriesBackendDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid credentials"})
	}))
	defer srv.Close()

	hookCalls := 0
	client := NewClient(srv.URL, staticCreds{},
		WithUnauthorizedHook(func() { hookCalls++ }))

	_, err := client.Login(context.Background(), "a@b.test", "wrong")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if !strings.Contains(err.Error(), "Invalid credentials") {
		t.Errorf("err = %q, want the backend detail included", err)
	}
	if hookCalls != 1 {
		t.Errorf("hook fired %d times, want 1", hookCalls)
	}
}

func TestBackendDetailSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"detail": "habit already exists"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticCreds{token: "tok"})
	_, err := client.CreateHabit(context.Background(), models.HabitCreate{Title: "walk"})
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusConflict {
		t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, http.StatusConflict)
	}
	if apiErr.Error() != "habit already exists" {
		t.Errorf("Error() = %q, want the backend detail", apiErr.Error())
	}
}

func TestErrorWithoutDetailFallsBackToStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticCreds{token: "tok"})
	_, err := client.ListHabits(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T, want *APIError", err)
	}
	if apiErr.Error() != "backend returned status 500" {
		t.Errorf("Error() = %q", apiErr.Error())
	}
}

func TestLoginIsFormEncoded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/token" {
			t.Errorf("path = %q, want /users/token", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		if got := r.PostFormValue("username"); got != "a@b.test" {
			t.Errorf("username = %q, want a@b.test", got)
		}
		if got := r.PostFormValue("password"); got != "hunter2" {
			t.Errorf("password not forwarded")
		}
		json.NewEncoder(w).Encode(models.Token{AccessToken: "tok-9", TokenType: "bearer"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticCreds{})
	tok, err := client.Login(context.Background(), "a@b.test", "hunter2")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if tok.AccessToken != "tok-9" {
		t.Errorf("AccessToken = %q, want tok-9", tok.AccessToken)
	}
}

func TestRecordPathsAreHabitScoped(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case http.MethodPost:
			json.NewEncoder(w).Encode(models.Record{ID: 1, Date: "2026-08-31", Completed: true})
		default:
			json.NewEncoder(w).Encode([]models.Record{})
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", staticCreds{token: "tok"})
	ctx := context.Background()
	if _, err := client.ListRecords(ctx, 42); err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if _, err := client.CreateRecord(ctx, 42, models.RecordCreate{Date: "2026-08-31", Completed: true}); err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	if err := client.DeleteRecord(ctx, 42, 7); err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}

	want := []string{
		"GET /habits/42/records",
		"POST /habits/42/records",
		"DELETE /habits/42/records/7",
	}
	if len(paths) != len(want) {
		t.Fatalf("saw %d requests, want %d", len(paths), len(want))
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("request %d = %q, want %q", i, paths[i], want[i])
		}
	}
}
