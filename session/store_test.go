package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"technuob.com/atomlift/atomlift/v1/common"
)

type brokenKV struct{}

func (brokenKV) Get(key string) ([]byte, error)      { return nil, errors.New("disk gone") }
func (brokenKV) Set(key string, value []byte) error { return errors.New("disk gone") }
func (brokenKV) Delete(key string) error            { return errors.New("disk gone") }

func TestFileKV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	kv, err := NewFileKV(dir)
	require.NoError(t, err)

	_, err = kv.Get(KeyAuthToken)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set(KeyAuthToken, []byte("abc")))
	require.NoError(t, kv.Set(KeyAuthToken, []byte("def")))
	b, err := kv.Get(KeyAuthToken)
	require.NoError(t, err)
	assert.Equal(t, "def", string(b))

	info, err := os.Stat(filepath.Join(dir, KeyAuthToken))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")

	require.NoError(t, kv.Delete(KeyAuthToken))
	assert.ErrorIs(t, kv.Delete(KeyAuthToken), ErrNotFound)
}

func TestStoreSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(dir)
	require.NoError(t, err)

	first := NewStore(kv, zerolog.Nop())
	first.SetToken("tok-1")
	first.SetUser(common.UserRecord{"id": 42, "email": "tech@atomlift.in"})

	kv2, err := NewFileKV(dir)
	require.NoError(t, err)
	second := NewStore(kv2, zerolog.Nop())
	assert.Equal(t, "tok-1", second.GetToken())
	user := second.GetUser()
	require.NotNil(t, user)
	assert.Equal(t, int64(42), user.Int("id"))
	assert.Equal(t, "tech@atomlift.in", user.String("email"))
}

func TestStoreClear(t *testing.T) {
	kv := NewMemoryKV()
	store := NewStore(kv, zerolog.Nop())
	store.SetToken("tok")
	store.SetUser(common.UserRecord{"id": 1})

	store.ClearToken()
	store.ClearUser()
	assert.Empty(t, store.GetToken())
	assert.Nil(t, store.GetUser())

	_, ok := store.Token(context.Background())
	assert.False(t, ok)

	_, err := kv.Get(KeyAuthToken)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = kv.Get(KeyUserData)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreDegradesOnStorageFailure(t *testing.T) {
	store := NewStore(brokenKV{}, zerolog.Nop())
	assert.Empty(t, store.GetToken())
	assert.Nil(t, store.GetUser())

	store.SetToken("tok")
	assert.Equal(t, "tok", store.GetToken())
	store.ClearToken()
	assert.Empty(t, store.GetToken())
}

func TestStoreIgnoresCorruptUser(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(KeyUserData, []byte("{not json")))
	store := NewStore(kv, zerolog.Nop())
	assert.Nil(t, store.GetUser())
}
