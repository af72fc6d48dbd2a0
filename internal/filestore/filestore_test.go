package filestore_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geodateam/team-presence/internal/filestore"
)

func TestDiskStoreRoundTrip(t *testing.T) {
	store, err := filestore.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	ref, err := store.Save(context.Background(), "lunch.pdf", strings.NewReader("receipt bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, ".pdf"))
	assert.NotContains(t, ref, "/")

	rc, err := store.Open(context.Background(), ref)
	require.NoError(t, err)
	defer rc.Close()

	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "receipt bytes", string(content))
}

func TestDiskStoreUniqueNames(t *testing.T) {
	store, err := filestore.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	ref1, err := store.Save(context.Background(), "receipt.jpg", strings.NewReader("a"))
	require.NoError(t, err)
	ref2, err := store.Save(context.Background(), "receipt.jpg", strings.NewReader("b"))
	require.NoError(t, err)

	assert.NotEqual(t, ref1, ref2)
}

func TestDiskStoreOpenMissing(t *testing.T) {
	store, err := filestore.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open(context.Background(), "does-not-exist.pdf")
	assert.ErrorIs(t, err, filestore.ErrNotFound)
}

func TestDiskStoreOpenRejectsTraversal(t *testing.T) {
	store, err := filestore.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	for _, ref := range []string{"../secret", "a/b", `a\b`, ".."} {
		_, err := store.Open(context.Background(), ref)
		assert.ErrorIs(t, err, filestore.ErrNotFound, ref)
	}
}
