package localstore

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	_, ok, err := s.GetItem("watchLaterMovies")
	require.NoError(t, err)
	assert.False(t, ok, "fresh store should not hold the key")

	require.NoError(t, s.SetItem("watchLaterMovies", `{"1":{"id":1}}`))
	value, ok, err := s.GetItem("watchLaterMovies")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"1":{"id":1}}`, value)

	require.NoError(t, s.SetItem("watchLaterMovies", `{}`))
	value, _, err = s.GetItem("watchLaterMovies")
	require.NoError(t, err)
	assert.Equal(t, `{}`, value)

	require.NoError(t, s.RemoveItem("watchLaterMovies"))
	_, ok, err = s.GetItem("watchLaterMovies")
	require.NoError(t, err)
	assert.False(t, ok)

	// Removing a missing key is not an error.
	require.NoError(t, s.RemoveItem("watchLaterMovies"))

	assert.ErrorIs(t, s.SetItem("", "x"), ErrKeyRequired)
}

func TestFileStore(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, err := NewFileStore(fs, "/data/localstorage")
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestFileStoreEscapesKeys(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, err := NewFileStore(fs, "/data")
	require.NoError(t, err)

	require.NoError(t, s.SetItem("../escape", "v"))
	entries, err := afero.ReadDir(fs, "/data")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Name(), "/")
}

func TestFileStoreRequiresDirectory(t *testing.T) {
	_, err := NewFileStore(afero.NewMemMapFs(), " ")
	assert.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "local.db"))
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLiteStoreReopenKeepsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.SetItem("k", "v"))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()
	value, ok, err := reopened.GetItem("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", value)
}
