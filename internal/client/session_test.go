package client

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library-catalog/internal/entities"
)

func TestSessionStore_LoadMissingFile(t *testing.T) {
	store := NewSessionStore(filepath.Join(t.TempDir(), "session.json"))

	session, err := store.Load()

	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSessionStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewSessionStore(path)

	saved := &Session{
		Token: "abc123",
		User:  &entities.User{Name: "Test User", Email: "test@example.com"},
	}
	require.NoError(t, store.Save(saved))

	loaded, err := store.Load()

	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "abc123", loaded.Token)
	require.NotNil(t, loaded.User)
	assert.Equal(t, "test@example.com", loaded.User.Email)
}

func TestSessionStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}

	path := filepath.Join(t.TempDir(), "session.json")
	store := NewSessionStore(path)
	require.NoError(t, store.Save(&Session{Token: "abc123"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSessionStore_LoadEmptyToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token": ""}`), 0600))

	session, err := NewSessionStore(path).Load()

	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSessionStore_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	_, err := NewSessionStore(path).Load()

	assert.Error(t, err)
}

func TestSessionStore_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewSessionStore(path)
	require.NoError(t, store.Save(&Session{Token: "abc123"}))

	require.NoError(t, store.Clear())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Clearing again is a no-op.
	assert.NoError(t, store.Clear())
}
