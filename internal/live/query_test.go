package live

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/speakboard/internal/sqlite"
	"github.com/mesh-intelligence/speakboard/pkg/types"
)

func setupStore(t *testing.T) *sqlite.Backend {
	t.Helper()
	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { b.Detach() })
	return b
}

func next[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "stream closed early")
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for emission")
	}
	var zero T
	return zero
}

func labels(cards []types.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Label
	}
	return out
}

func TestChildrenOrdering(t *testing.T) {
	ctx := context.Background()
	b := setupStore(t)
	for _, c := range []types.Card{
		{Type: types.CardFolder, Label: "F5", Order: 5},
		{Type: types.CardFolder, Label: "F1", Order: 1},
		{Type: types.CardSpeak, Label: "S3", Order: 3},
		{Type: types.CardSpeak, Label: "S2", Order: 2},
	} {
		_, err := b.Add(ctx, &c)
		require.NoError(t, err)
	}

	got, err := New(b, nil).Children(ctx, types.RootScope())
	require.NoError(t, err)
	assert.Equal(t, []string{"F1", "F5", "S2", "S3"}, labels(got))
}

func TestWatchChildrenReemitsOnMutation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b := setupStore(t)
	q := New(b, nil)

	stream := q.WatchChildren(ctx, types.RootScope())
	first := next(t, stream)
	assert.Empty(t, first)

	id, err := b.Add(ctx, &types.Card{Type: types.CardSpeak, Label: "Hi", Order: 1})
	require.NoError(t, err)
	second := next(t, stream)
	assert.Equal(t, []string{"Hi"}, labels(second))

	require.NoError(t, b.Put(ctx, &types.Card{ID: id, Type: types.CardSpeak, Label: "Hello", Order: 1}))
	third := next(t, stream)
	assert.Equal(t, []string{"Hello"}, labels(third))

	assert.Equal(t, []string{"Hi"}, labels(second), "earlier snapshot must not change")
	assert.Empty(t, first)
}

func TestWatchChildrenSnapshotsAreCopies(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b := setupStore(t)
	id, err := b.Add(ctx, &types.Card{Type: types.CardSpeak, Label: "Hi",
		Image: &types.Asset{Data: []byte{1, 2}, MIME: "image/png"}})
	require.NoError(t, err)

	snap := next(t, New(b, nil).WatchChildren(ctx, types.RootScope()))
	require.Len(t, snap, 1)
	snap[0].Label = "mutated"
	snap[0].Image.Data[0] = 9

	stored, err := b.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Hi", stored.Label)
	assert.Equal(t, byte(1), stored.Image.Data[0])
}

func TestWatchChildrenReemitsOnImport(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b := setupStore(t)
	_, err := b.SeedDefaults(ctx)
	require.NoError(t, err)

	stream := New(b, nil).WatchChildren(ctx, types.RootScope())
	assert.Equal(t, []string{"Food", "Hi", "More", "Help"}, labels(next(t, stream)))

	require.NoError(t, b.ReplaceAll(ctx, []types.Card{{ID: "x", Type: types.CardSpeak, Label: "Bye", Order: 1}}))
	assert.Equal(t, []string{"Bye"}, labels(next(t, stream)))
}

func TestWatchFolderScope(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b := setupStore(t)
	q := New(b, nil)

	folderID, err := b.Add(ctx, &types.Card{Type: types.CardFolder, Label: "Food", Order: 4})
	require.NoError(t, err)
	scope := types.FolderScope(folderID)

	children := q.WatchChildren(ctx, scope)
	folder := q.WatchScopeFolder(ctx, scope)

	assert.Empty(t, next(t, children))
	f := next(t, folder)
	require.NotNil(t, f)
	assert.Equal(t, "Food", f.Label)

	_, err = b.Add(ctx, &types.Card{Type: types.CardSpeak, Label: "Apple", ParentID: &folderID})
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple"}, labels(next(t, children)))
	assert.NotNil(t, next(t, folder))
}

func TestWatchScopeFolderNilCases(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b := setupStore(t)
	q := New(b, nil)

	assert.Nil(t, next(t, q.WatchScopeFolder(ctx, types.RootScope())), "root has no folder")
	assert.Nil(t, next(t, q.WatchScopeFolder(ctx, types.FolderScope("missing"))), "missing id")

	speakID, err := b.Add(ctx, &types.Card{Type: types.CardSpeak, Label: "Hi"})
	require.NoError(t, err)
	assert.Nil(t, next(t, q.WatchScopeFolder(ctx, types.FolderScope(speakID))), "not a folder")

	folderID, err := b.Add(ctx, &types.Card{Type: types.CardFolder, Label: "Play"})
	require.NoError(t, err)
	stream := q.WatchScopeFolder(ctx, types.FolderScope(folderID))
	require.NotNil(t, next(t, stream))

	require.NoError(t, b.Delete(ctx, folderID))
	assert.Nil(t, next(t, stream), "deleted folder reads as nil")
}

func TestWatchClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	b := setupStore(t)

	stream := New(b, nil).WatchChildren(ctx, types.RootScope())
	next(t, stream)
	cancel()

	select {
	case _, ok := <-stream:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not close after cancel")
	}
}
