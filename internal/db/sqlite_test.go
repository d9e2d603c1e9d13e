package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/rewriter/internal/history"
	"github.com/jonathan/rewriter/internal/history/historytest"
	"github.com/jonathan/rewriter/internal/types"
)

func openTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLite_StoreContract(t *testing.T) {
	historytest.RunStoreTests(t, func(t *testing.T) history.Store {
		return openTestSQLite(t)
	})
}

func TestSQLite_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	id, err := store.Insert(ctx, history.NewRecord{
		OriginalText: "persist me",
		Options:      []types.RewriteOption{types.NewRewriteOption("Persist me.", types.StyleProfessional)},
		Session:      "session_reopen",
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	records, err := reopened.ListBySession(ctx, "session_reopen", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, id, records[0].ID)
	assert.Equal(t, "Polished and business-appropriate", records[0].RewriteOptions[0].Tone)
}
