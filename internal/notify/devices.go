package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Device is a push token registered to a user.
type Device struct {
	UserID     string `json:"user_id"`
	Token      string `json:"token"`
	Platform   string `json:"platform"`
	LastUsedAt string `json:"last_used_at"`
}

// TokenSource returns the device's push token, or "" when there is none.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// DeviceStore upserts devices by token.
type DeviceStore interface {
	Upsert(ctx context.Context, d Device) error
}

// Registrar records the current device for a signed-in user.
type Registrar struct {
	Tokens   TokenSource
	Store    DeviceStore
	Platform string
	Now      func() time.Time
}

// Register upserts the device for userID. It does nothing without a user or a token.
func (r *Registrar) Register(ctx context.Context, userID string) error {
	if userID == "" || r.Tokens == nil {
		return nil
	}
	token, err := r.Tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("notify: push token: %w", err)
	}
	if token == "" {
		return nil
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	d := Device{UserID: userID, Token: token, Platform: r.Platform, LastUsedAt: now().UTC().Format(time.RFC3339)}
	if err := r.Store.Upsert(ctx, d); err != nil {
		return fmt.Errorf("notify: save device: %w", err)
	}
	return nil
}

// RESTDeviceStore writes to the backend's devices table over its REST API.
type RESTDeviceStore struct {
	BaseURL string
	APIKey  string
	// AccessToken returns the signed-in user's token; the API key is used when it is nil or empty.
	AccessToken func() string
	Client      *http.Client
}

func (s *RESTDeviceStore) Upsert(ctx context.Context, d Device) error {
	body, err := json.Marshal([]Device{d})
	if err != nil {
		return err
	}
	url := strings.TrimRight(s.BaseURL, "/") + "/rest/v1/devices?on_conflict=token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	bearer := s.APIKey
	if s.AccessToken != nil {
		if tok := s.AccessToken(); tok != "" {
			bearer = tok
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", s.APIKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Prefer", "resolution=merge-duplicates")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("devices: %s", resp.Status)
	}
	return nil
}
