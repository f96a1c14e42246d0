package treemgr

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wkalt/dircloud/storage"
)

// TestTreeManager returns a tree manager over an in-memory store holding the
// supplied reports, keyed by name. Nothing is loaded.
func TestTreeManager(
	ctx context.Context,
	tb testing.TB,
	reports map[string]string,
	opts ...Option,
) (*TreeManager, *storage.MemStore) {
	tb.Helper()
	store := storage.NewMemStore()
	for name, contents := range reports {
		require.NoError(tb, store.Put(ctx, name, strings.NewReader(contents)))
	}
	return NewTreeManager(store, opts...), store
}
