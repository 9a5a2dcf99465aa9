package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"burgerstack/internal/kvstore"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("a@b.c", "123456"))
	assert.ErrorIs(t, Validate("ab.c", "123456"), ErrInvalidEmail)
	assert.ErrorIs(t, Validate("a@b.c", "12345"), ErrWeakPassword)

	err := Validate("", "")
	assert.ErrorIs(t, err, ErrInvalidEmail)
	assert.ErrorIs(t, err, ErrWeakPassword)
}

type backend struct {
	*httptest.Server
	logouts int
}

func newBackend(t *testing.T, confirmSignup bool) *backend {
	b := &backend{}
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon", r.Header.Get("apikey"))
		var c credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&c))
		if c.Password != "secret1" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok","refresh_token":"ref","expires_in":3600,"user":{"id":"u1","email":"` + c.Email + `"}}`))
	})
	mux.HandleFunc("/auth/v1/signup", func(w http.ResponseWriter, r *http.Request) {
		if confirmSignup {
			_, _ = w.Write([]byte(`{"id":"u2","email":"new@x.io"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok2","expires_at":4102444800,"user":{"id":"u2"}}`))
	})
	mux.HandleFunc("/auth/v1/logout", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		b.logouts++
		w.WriteHeader(http.StatusNoContent)
	})
	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Close)
	return b
}

func TestSignInPersistsSession(t *testing.T) {
	srv := newBackend(t, false)
	store := kvstore.NewMemory()
	c := NewClient(srv.URL+"/", "anon", store)
	var changes []*Session
	c.OnChange = func(s *Session) { changes = append(changes, s) }

	s, err := c.SignIn(context.Background(), "me@x.io", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u1", s.UserID)
	assert.Equal(t, "me@x.io", s.Email)
	assert.True(t, c.LoggedIn())
	assert.Len(t, changes, 1)

	raw, err := store.Get(SessionKey)
	require.NoError(t, err)
	assert.Contains(t, raw, `"access_token":"tok"`)

	restored := NewClient(srv.URL, "anon", store)
	got, err := restored.Restore()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ref", got.RefreshToken)
	assert.True(t, restored.LoggedIn())
}

func TestSignInRejected(t *testing.T) {
	srv := newBackend(t, false)
	c := NewClient(srv.URL, "anon", kvstore.NewMemory())
	_, err := c.SignIn(context.Background(), "me@x.io", "wrong-pass")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid login credentials")
	assert.False(t, c.LoggedIn())
}

func TestSignInValidatesLocally(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "anon", kvstore.NewMemory())
	_, err := c.SignIn(context.Background(), "nope", "123")
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestSignUp(t *testing.T) {
	c := NewClient(newBackend(t, true).URL, "anon", kvstore.NewMemory())
	s, err := c.SignUp(context.Background(), "new@x.io", "secret1")
	require.NoError(t, err)
	assert.Nil(t, s, "confirmation pending")
	assert.False(t, c.LoggedIn())

	c = NewClient(newBackend(t, false).URL, "anon", kvstore.NewMemory())
	s, err = c.SignUp(context.Background(), "new@x.io", "secret1")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, time.Unix(4102444800, 0), s.ExpiresAt)
	assert.True(t, c.LoggedIn())
}

func TestSignOut(t *testing.T) {
	srv := newBackend(t, false)
	store := kvstore.NewMemory()
	c := NewClient(srv.URL, "anon", store)
	_, err := c.SignIn(context.Background(), "me@x.io", "secret1")
	require.NoError(t, err)

	require.NoError(t, c.SignOut(context.Background()))
	assert.Equal(t, 1, srv.logouts)
	assert.Nil(t, c.Current())
	_, err = store.Get(SessionKey)
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestRestoreExpired(t *testing.T) {
	store := kvstore.NewMemory()
	data, _ := json.Marshal(Session{AccessToken: "old", ExpiresAt: time.Now().Add(-time.Minute)})
	require.NoError(t, store.Set(SessionKey, string(data)))

	c := NewClient("", "anon", store)
	s, err := c.Restore()
	require.NoError(t, err)
	assert.Nil(t, s)
	_, err = store.Get(SessionKey)
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestNotConfigured(t *testing.T) {
	c := NewClient("", "anon", kvstore.NewMemory())
	_, err := c.SignIn(context.Background(), "me@x.io", "secret1")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
