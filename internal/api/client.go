// Package api is the HTTP gateway to the habit-tracker backend. It owns the
// cross-cutting request policy: bearer credential on every call, request IDs
// for log correlation, and the global 401 invalidation hook.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitctl/internal/logger"
	"github.com/julianstephens/habitctl/internal/models"
)

// ErrUnauthorized marks an authentication rejection. The invalidation hook
// has already fired by the time a caller sees it.
var ErrUnauthorized = errors.New("authentication rejected")

// APIError carries a non-401 backend rejection. Detail is the backend's own
// message, surfaced verbatim to the user.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// CredentialSource supplies the current bearer token. An empty string means
// the session is anonymous and no Authorization header is sent.
type CredentialSource interface {
	Token() string
}

// Client talks to the backend REST API.
type Client struct {
	baseURL        string
	http           *http.Client
	creds          CredentialSource
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every request made by the client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying transport, used by tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithUnauthorizedHook registers the session teardown callback fired on any
// 401 response, regardless of which call triggered it.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func NewClient(baseURL string, creds CredentialSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		creds:   creds,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register creates a new account and returns the backend's user record.
func (c *Client) Register(ctx context.Context, user models.UserCreate) (models.User, error) {
	var out models.User
	err := c.doJSON(ctx, http.MethodPost, "/users/register", user, &out)
	return out, err
}

// Login exchanges credentials for a bearer token. The token endpoint is
// OAuth2-shaped: form-encoded, with the email passed as username.
func (c *Client) Login(ctx context.Context, email, password string) (models.Token, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users/token", strings.NewReader(form.Encode()))
	if err != nil {
		return models.Token{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out models.Token
	if err := c.send(req, &out); err != nil {
		return models.Token{}, err
	}
	return out, nil
}

func (c *Client) ListHabits(ctx context.Context) ([]models.Habit, error) {
	var out []models.Habit
	err := c.doJSON(ctx, http.MethodGet, "/habits/", nil, &out)
	return out, err
}

func (c *Client) CreateHabit(ctx context.Context, habit models.HabitCreate) (models.Habit, error) {
	var out models.Habit
	err := c.doJSON(ctx, http.MethodPost, "/habits/", habit, &out)
	return out, err
}

func (c *Client) DeleteHabit(ctx context.Context, habitID int) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/habits/%d", habitID), nil, nil)
}

func (c *Client) ListRecords(ctx context.Context, habitID int) ([]models.Record, error) {
	var out []models.Record
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/habits/%d/records", habitID), nil, &out)
	return out, err
}

func (c *Client) CreateRecord(ctx context.Context, habitID int, record models.RecordCreate) (models.Record, error) {
	var out models.Record
	err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/habits/%d/records", habitID), record, &out)
	return out, err
}

func (c *Client) DeleteRecord(ctx context.Context, habitID, recordID int) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/habits/%d/records/%d", habitID, recordID), nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out interface{}) error {
	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)
	if token := c.creds.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	logger.Debug("API request", "method", req.Method, "path", req.URL.Path, "request_id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		var payload struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		logger.Warn("Authentication rejected, tearing down session", "path", req.URL.Path, "detail", payload.Detail, "request_id", requestID)
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		if payload.Detail != "" {
			return fmt.Errorf("%w: %s", ErrUnauthorized, payload.Detail)
		}
		return ErrUnauthorized
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			apiErr.Detail = payload.Detail
		}
		logger.Warn("API error", "status", resp.StatusCode, "detail", apiErr.Detail, "request_id", requestID)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
