package history_test

import (
	"testing"

	"github.com/jonathan/rewriter/internal/history"
	"github.com/jonathan/rewriter/internal/history/historytest"
)

func TestMemoryStore(t *testing.T) {
	historytest.RunStoreTests(t, func(t *testing.T) history.Store {
		return history.NewMemoryStore()
	})
}
