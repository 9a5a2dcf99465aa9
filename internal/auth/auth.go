// Package auth signs users in with email and password against a hosted auth backend
// and keeps the session in a kvstore.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"burgerstack/internal/kvstore"
)

// SessionKey is where the session is persisted.
const SessionKey = "auth.session"

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

var (
	ErrInvalidEmail  = errors.New("auth: invalid email")
	ErrWeakPassword  = fmt.Errorf("auth: password needs at least %d characters", MinPasswordLength)
	ErrNotConfigured = errors.New("auth: backend URL not set")
)

// Validate checks credentials before they are sent.
func Validate(email, password string) error {
	var errs []error
	if !strings.Contains(email, "@") {
		errs = append(errs, ErrInvalidEmail)
	}
	if len(password) < MinPasswordLength {
		errs = append(errs, ErrWeakPassword)
	}
	return errors.Join(errs...)
}

// Session is a signed-in user.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the access token is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Client talks to the auth backend and owns the current session.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	store   kvstore.Store
	now     func() time.Time

	mu      sync.Mutex
	session *Session

	// OnChange runs after every sign-in, sign-out and restore.
	OnChange func(*Session)
}

// NewClient returns a client for the backend at baseURL (e.g. https://xyz.supabase.co).
func NewClient(baseURL, apiKey string, store kvstore.Store) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
		store:   store,
		now:     time.Now,
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         *user  `json:"user"`
	// Sign-up without a session returns the user at the top level.
	ID    string `json:"id"`
	Email string `json:"email"`
}

type user struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
	Msg         string `json:"msg"`
	Message     string `json:"message"`
}

func (e errorResponse) text() string {
	for _, s := range []string{e.Description, e.Msg, e.Message, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// SignIn exchanges email and password for a session and persists it.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	if err := Validate(email, password); err != nil {
		return nil, err
	}
	var out tokenResponse
	if err := c.post(ctx, "/auth/v1/token?grant_type=password", "", credentials{email, password}, &out); err != nil {
		return nil, err
	}
	s := c.sessionFrom(out)
	if s == nil {
		return nil, fmt.Errorf("auth: sign-in returned no session")
	}
	if err := c.install(s); err != nil {
		return nil, err
	}
	return s, nil
}

// SignUp creates an account. The returned session is nil when the backend requires
// email confirmation first.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	if err := Validate(email, password); err != nil {
		return nil, err
	}
	var out tokenResponse
	if err := c.post(ctx, "/auth/v1/signup", "", credentials{email, password}, &out); err != nil {
		return nil, err
	}
	s := c.sessionFrom(out)
	if s == nil {
		return nil, nil
	}
	if err := c.install(s); err != nil {
		return nil, err
	}
	return s, nil
}

// SignOut revokes the session on the backend (best effort) and forgets it locally.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	s := c.session
	c.mu.Unlock()
	var remote error
	if s != nil && c.baseURL != "" {
		remote = c.post(ctx, "/auth/v1/logout", s.AccessToken, nil, nil)
	}
	if err := c.install(nil); err != nil {
		return err
	}
	return remote
}

// Restore loads a persisted session. A missing or expired session leaves the client signed out.
func (c *Client) Restore() (*Session, error) {
	raw, err := c.store.Get(SessionKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		_ = c.store.Remove(SessionKey)
		return nil, fmt.Errorf("auth: stored session: %w", err)
	}
	if s.AccessToken == "" || s.Expired(c.now()) {
		return nil, c.install(nil)
	}
	c.mu.Lock()
	c.session = &s
	c.mu.Unlock()
	c.changed(&s)
	return &s, nil
}

// Current returns the session, or nil when signed out.
func (c *Client) Current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// LoggedIn reports whether there is an unexpired session.
func (c *Client) LoggedIn() bool {
	s := c.Current()
	return s != nil && !s.Expired(c.now())
}

func (c *Client) sessionFrom(r tokenResponse) *Session {
	if r.AccessToken == "" {
		return nil
	}
	s := &Session{AccessToken: r.AccessToken, RefreshToken: r.RefreshToken}
	if r.User != nil {
		s.UserID, s.Email = r.User.ID, r.User.Email
	}
	switch {
	case r.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(r.ExpiresAt, 0)
	case r.ExpiresIn > 0:
		s.ExpiresAt = c.now().Add(time.Duration(r.ExpiresIn) * time.Second)
	}
	return s
}

func (c *Client) install(s *Session) error {
	var err error
	if s == nil {
		err = c.store.Remove(SessionKey)
	} else {
		var data []byte
		if data, err = json.Marshal(s); err == nil {
			err = c.store.Set(SessionKey, string(data))
		}
	}
	if err != nil {
		return fmt.Errorf("auth: persist session: %w", err)
	}
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
	c.changed(s)
	return nil
}

func (c *Client) changed(s *Session) {
	if c.OnChange != nil {
		c.OnChange(s)
	}
}

func (c *Client) post(ctx context.Context, path, bearer string, in, out any) error {
	if c.baseURL == "" {
		return ErrNotConfigured
	}
	var body io.Reader = http.NoBody
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	if bearer == "" {
		bearer = c.apiKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e errorResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&e)
		if msg := e.text(); msg != "" {
			return fmt.Errorf("auth: %s: %s", resp.Status, msg)
		}
		return fmt.Errorf("auth: %s", resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
