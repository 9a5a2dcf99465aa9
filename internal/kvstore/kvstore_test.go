package kvstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exercise(t *testing.T, s Store) {
	t.Helper()
	_, err := s.Get("a")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set("a", "1"))
	require.NoError(t, s.Set("b", "2"))
	require.NoError(t, s.Set("a", "3"))
	v, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "3", v)

	require.NoError(t, s.Remove("a"))
	require.NoError(t, s.Remove("missing"))
	_, err = s.Get("a")
	assert.ErrorIs(t, err, ErrNotFound)
	v, err = s.Get("b")
	require.NoError(t, err)
	assert.Equal(t, "2", v)
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory())
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "store.json")
	exercise(t, NewFile(path))

	v, err := NewFile(path).Get("b")
	require.NoError(t, err)
	assert.Equal(t, "2", v, "values survive reopening")
}

func TestFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))
	_, err := NewFile(path).Get("a")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
