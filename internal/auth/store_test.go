package auth_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gokeyring "github.com/zalando/go-keyring"
	"golang.org/x/oauth2"

	"github.com/Tiliavir/promille/internal/auth"
)

func sampleToken() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  "at-1",
		TokenType:    "Bearer",
		RefreshToken: "rt-1",
		Expiry:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := auth.DefaultTokenPath(t.TempDir())
	store := auth.NewFileStore(path)

	_, err := store.Load()
	require.ErrorIs(t, err, auth.ErrNotFound)

	require.NoError(t, store.Save(sampleToken()))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "at-1", got.AccessToken)
	assert.Equal(t, "rt-1", got.RefreshToken)
	assert.True(t, got.Expiry.Equal(sampleToken().Expiry))

	require.NoError(t, store.Delete())
	assert.ErrorIs(t, store.Delete(), auth.ErrNotFound)
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	_, err := auth.NewFileStore(path).Load()
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrNotFound)
	assert.Contains(t, err.Error(), path)
}

func TestKeyringStoreRoundTrip(t *testing.T) {
	gokeyring.MockInit()
	store := auth.NewKeyringStore()

	_, err := store.Load()
	require.ErrorIs(t, err, auth.ErrNotFound)

	require.NoError(t, store.Save(sampleToken()))
	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "at-1", got.AccessToken)

	require.NoError(t, store.Delete())
	assert.ErrorIs(t, store.Delete(), auth.ErrNotFound)
}
