// Package historytest provides a conformance suite for history.Store backends.
package historytest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/rewriter/internal/history"
	"github.com/jonathan/rewriter/internal/types"
)

// insertGap keeps created_at strictly increasing between inserts.
const insertGap = 5 * time.Millisecond

// RunStoreTests exercises the Store contract against a fresh store per subtest.
func RunStoreTests(t *testing.T, newStore func(t *testing.T) history.Store) {
	t.Helper()

	t.Run("insert then list", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		session := uniqueSession()

		id, err := store.Insert(ctx, history.NewRecord{
			OriginalText: "hello there",
			Options:      sampleOptions(),
			Session:      session,
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, id)

		records, err := store.ListBySession(ctx, session, 10)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, id, records[0].ID)
		assert.Equal(t, "hello there", records[0].OriginalText)
		assert.Equal(t, sampleOptions(), records[0].RewriteOptions)
		assert.Nil(t, records[0].SelectedOption)
		assert.Equal(t, session, records[0].Session)
		assert.False(t, records[0].CreatedAt.IsZero())
	})

	t.Run("selection round trip", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		session := uniqueSession()

		id, err := store.Insert(ctx, history.NewRecord{OriginalText: "text", Options: sampleOptions(), Session: session})
		require.NoError(t, err)
		require.NoError(t, store.UpdateSelection(ctx, id, 2))

		records, err := store.ListBySession(ctx, session, 10)
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.NotNil(t, records[0].SelectedOption)
		assert.Equal(t, 2, *records[0].SelectedOption)

		require.NoError(t, store.UpdateSelection(ctx, id, 0))
		records, err = store.ListBySession(ctx, session, 10)
		require.NoError(t, err)
		assert.Equal(t, 0, *records[0].SelectedOption)
	})

	t.Run("out of range index stored as is", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		session := uniqueSession()

		id, err := store.Insert(ctx, history.NewRecord{OriginalText: "text", Options: sampleOptions(), Session: session})
		require.NoError(t, err)
		require.NoError(t, store.UpdateSelection(ctx, id, 42))

		records, err := store.ListBySession(ctx, session, 10)
		require.NoError(t, err)
		assert.Equal(t, 42, *records[0].SelectedOption)
	})

	t.Run("update unknown id", func(t *testing.T) {
		store := newStore(t)
		err := store.UpdateSelection(context.Background(), uuid.New(), 1)
		assert.ErrorIs(t, err, history.ErrRecordNotFound)
	})

	t.Run("newest first and limit", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		session := uniqueSession()

		var ids []uuid.UUID
		for _, text := range []string{"first", "second", "third", "fourth"} {
			id, err := store.Insert(ctx, history.NewRecord{OriginalText: text, Options: sampleOptions(), Session: session})
			require.NoError(t, err)
			ids = append(ids, id)
			time.Sleep(insertGap)
		}

		records, err := store.ListBySession(ctx, session, 3)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, []uuid.UUID{ids[3], ids[2], ids[1]}, []uuid.UUID{records[0].ID, records[1].ID, records[2].ID})
		for i := 1; i < len(records); i++ {
			assert.False(t, records[i].CreatedAt.After(records[i-1].CreatedAt))
		}
	})

	t.Run("sessions are isolated", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		mine, theirs := uniqueSession(), uniqueSession()

		_, err := store.Insert(ctx, history.NewRecord{OriginalText: "mine", Options: sampleOptions(), Session: mine})
		require.NoError(t, err)
		_, err = store.Insert(ctx, history.NewRecord{OriginalText: "theirs", Options: sampleOptions(), Session: theirs})
		require.NoError(t, err)

		records, err := store.ListBySession(ctx, mine, 10)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "mine", records[0].OriginalText)
	})

	t.Run("get is scoped to session", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		session := uniqueSession()

		id, err := store.Insert(ctx, history.NewRecord{
			OriginalText: "find me",
			Options:      sampleOptions(),
			Session:      session,
		})
		require.NoError(t, err)
		require.NoError(t, store.UpdateSelection(ctx, id, 1))

		rec, err := store.Get(ctx, session, id)
		require.NoError(t, err)
		assert.Equal(t, id, rec.ID)
		assert.Equal(t, "find me", rec.OriginalText)
		assert.Equal(t, sampleOptions(), rec.RewriteOptions)
		require.NotNil(t, rec.SelectedOption)
		assert.Equal(t, 1, *rec.SelectedOption)

		_, err = store.Get(ctx, uniqueSession(), id)
		assert.ErrorIs(t, err, history.ErrRecordNotFound)

		_, err = store.Get(ctx, session, uuid.New())
		assert.ErrorIs(t, err, history.ErrRecordNotFound)
	})

	t.Run("delete then list and delete again", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		session := uniqueSession()

		id, err := store.Insert(ctx, history.NewRecord{OriginalText: "gone", Options: sampleOptions(), Session: session})
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, id))
		records, err := store.ListBySession(ctx, session, 10)
		require.NoError(t, err)
		assert.Empty(t, records)

		assert.ErrorIs(t, store.Delete(ctx, id), history.ErrRecordNotFound)
	})
}

func uniqueSession() types.SessionID {
	return types.SessionID("session_test_" + uuid.NewString())
}

func sampleOptions() []types.RewriteOption {
	return []types.RewriteOption{
		types.NewRewriteOption("Hello there.", types.StyleProfessional),
		types.NewRewriteOption("Hey there!", types.StyleCasual),
		types.NewRewriteOption("Hello.", types.StyleConcise),
	}
}
