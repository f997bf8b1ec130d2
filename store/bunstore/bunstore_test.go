package bunstore_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	console "github.com/operato/go-console"
	"github.com/operato/go-console/store/bunstore"
)

func openStore(t *testing.T) *bunstore.Store {
	t.Helper()
	store, err := bunstore.Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	store := openStore(t)

	_, ok := store.Get(console.StorageKeyToken)
	assert.False(t, ok)

	require.NoError(t, store.Set(console.StorageKeyToken, "tok123"))
	got, ok := store.Get(console.StorageKeyToken)
	require.True(t, ok)
	assert.Equal(t, "tok123", got)

	// Upsert on conflict.
	require.NoError(t, store.Set(console.StorageKeyToken, "tok456"))
	got, _ = store.Get(console.StorageKeyToken)
	assert.Equal(t, "tok456", got)
}

func TestStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	store, err := bunstore.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(console.StorageKeyToken, "tok123"))
	require.NoError(t, store.Close())

	reopened, err := bunstore.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok := reopened.Get(console.StorageKeyToken)
	require.True(t, ok)
	assert.Equal(t, "tok123", got)
}

func TestStoreMultiKeyDelete(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.Set(console.StorageKeyToken, "tok123"))
	require.NoError(t, store.Set(console.StorageKeyProfile, `{"name":"Test User"}`))
	require.NoError(t, store.Set("other", "kept"))

	require.NoError(t, store.Delete(console.StorageKeyToken, console.StorageKeyProfile))

	_, hasToken := store.Get(console.StorageKeyToken)
	_, hasProfile := store.Get(console.StorageKeyProfile)
	_, hasOther := store.Get("other")
	assert.False(t, hasToken)
	assert.False(t, hasProfile)
	assert.True(t, hasOther)

	// Empty and absent keys are fine.
	require.NoError(t, store.Delete())
	require.NoError(t, store.Delete("missing"))
}

func TestStoreClear(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.Set("a", "1"))
	require.NoError(t, store.Set("b", "2"))
	require.NoError(t, store.Clear())

	_, hasA := store.Get("a")
	_, hasB := store.Get("b")
	assert.False(t, hasA)
	assert.False(t, hasB)
}

func TestStoreBacksSession(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.Set(console.StorageKeyToken, "tok123"))

	session := console.NewSessionStore(nil, store)
	session.RestoreFromLocal()
	assert.Equal(t, "tok123", session.Token())
}
