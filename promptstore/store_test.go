package promptstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreSetGetDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	ctx := context.Background()
	prompt := Prompt{Name: "greeting", Version: "v1", Text: "You are a helpful assistant."}
	require.NoError(t, store.Set(ctx, prompt))

	got, err := store.Get(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, prompt, got)

	require.NoError(t, store.Delete(ctx, "greeting"))
	_, err = store.Get(ctx, "greeting")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreSetOverwritesInFull(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, Prompt{Name: "p", Version: "v1", Text: "first"}))
	require.NoError(t, store.Set(ctx, Prompt{Name: "p", Text: "second"}))

	got, err := store.Get(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, Prompt{Name: "p", Text: "second"}, got)
}

func TestFileStoreAllEnumeratesPrompts(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, Prompt{Name: "a", Text: "one"}))
	require.NoError(t, store.Set(ctx, Prompt{Name: "b", Text: "two"}))

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestFileStoreDeleteAbsentIsNotError(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), "does-not-exist"))
}
