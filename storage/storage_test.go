package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type tabState struct {
	URL   string `json:"url"`
	Index int    `json:"index"`
}

func exerciseProvider(t *testing.T, p Provider) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var missing tabState
	ok, err := p.Get(ctx, "missing", &missing)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, p.Set(ctx, "tab", tabState{URL: "https://example.com", Index: 2}))

	var got tabState
	ok, err = p.Get(ctx, "tab", &got)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, tabState{URL: "https://example.com", Index: 2}, got)

	require.NoError(t, p.Set(ctx, "tab", tabState{URL: "https://example.org", Index: 0}))
	ok, err = p.Get(ctx, "tab", &got)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "https://example.org", got.URL)

	require.NoError(t, p.Remove(ctx, "tab"))
	ok, err = p.Get(ctx, "tab", &got)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, p.Remove(ctx, "never-set"))
}

func TestMemoryProvider(t *testing.T) {
	t.Parallel()
	exerciseProvider(t, NewMemory())
}

func TestMemoryRejectsUnencodable(t *testing.T) {
	t.Parallel()
	m := NewMemory()
	err := m.Set(context.Background(), "bad", func() {})
	require.Error(t, err)
	require.Equal(t, 0, m.Len())
}

func TestSQLiteProvider(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "state", "shell.db")
	store, err := OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	exerciseProvider(t, store.Namespace("default"))
}

func TestSQLiteNamespacesAreIsolated(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "shell.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	a := store.Namespace("a")
	b := store.Namespace("b")
	require.NoError(t, a.Set(ctx, "k", "from-a"))
	require.NoError(t, b.Set(ctx, "k", "from-b"))

	var got string
	ok, err := a.Get(ctx, "k", &got)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "from-a", got)

	keys, err := b.Keys(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"k"}, keys)
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shell.db")

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, store.Namespace("persist:main").Set(ctx, "zoom", 1.5))
	require.NoError(t, store.Close())

	store, err = OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	var zoom float64
	ok, err := store.Namespace("persist:main").Get(ctx, "zoom", &zoom)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1.5, zoom)
}
