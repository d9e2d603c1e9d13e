package session

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/rewriter/internal/types"
)

func TestNewID_Shape(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	id, err := NewID(now)
	require.NoError(t, err)

	assert.Regexp(t, `^session_1700000000123_[0-9a-z]{13}$`, id.String())
	assert.True(t, Valid(id))
}

func TestNewID_Unique(t *testing.T) {
	now := time.Now()
	seen := map[types.SessionID]bool{}
	for i := 0; i < 500; i++ {
		id, err := NewID(now)
		require.NoError(t, err)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestValid(t *testing.T) {
	assert.False(t, Valid(""))
	assert.False(t, Valid("session_abc_0123456789abc"))
	assert.False(t, Valid("session_123_short"))
	assert.False(t, Valid("user_123_0123456789abc"))
	assert.False(t, Valid("session_123_0123456789ABC"))
	assert.True(t, Valid("session_123_0123456789abc"))
}

func TestProvider_GetOrCreate(t *testing.T) {
	kv := NewMemoryKV()
	p := NewProvider(kv)

	first, err := p.GetOrCreate()
	require.NoError(t, err)
	assert.True(t, Valid(first))

	second, err := p.GetOrCreate()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	stored, found, err := kv.Get(StorageKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, first.String(), stored)
}

func TestProvider_ReusesStoredValue(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(StorageKey, "session_1_existingtoken1"))

	id, err := NewProvider(kv).GetOrCreate()
	require.NoError(t, err)
	assert.Equal(t, types.SessionID("session_1_existingtoken1"), id)
}

func TestProvider_NewIdentityAfterClear(t *testing.T) {
	kv := NewMemoryKV()
	first, err := NewProvider(kv).GetOrCreate()
	require.NoError(t, err)

	kv.Clear()

	second, err := NewProvider(kv).GetOrCreate()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestProvider_Concurrent(t *testing.T) {
	p := NewProvider(NewMemoryKV())

	var wg sync.WaitGroup
	ids := make([]types.SessionID, 20)
	for i := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := p.GetOrCreate()
			assert.NoError(t, err)
			ids[i] = id
		}()
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

type failingKV struct{}

func (failingKV) Get(string) (string, bool, error) { return "", false, nil }
func (failingKV) Set(string, string) error         { return errors.New("read-only") }

func TestProvider_PersistFailure(t *testing.T) {
	_, err := NewProvider(failingKV{}).GetOrCreate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist session")
}

func TestFileKV_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rewriter", "state.json")
	kv := NewFileKV(path)

	_, found, err := kv.Get(StorageKey)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, kv.Set(StorageKey, "session_1_abcdefghijklm"))
	require.NoError(t, kv.Set("other", "value"))

	reopened := NewFileKV(path)
	v, found, err := reopened.Get(StorageKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "session_1_abcdefghijklm", v)

	v, _, err = reopened.Get("other")
	require.NoError(t, err)
	assert.Equal(t, "value", v)
}

func TestFileKV_PersistsAcrossProviders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	first, err := NewProvider(NewFileKV(path)).GetOrCreate()
	require.NoError(t, err)
	second, err := NewProvider(NewFileKV(path)).GetOrCreate()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFileKV_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, _, err := NewFileKV(path).Get(StorageKey)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse state")
}
