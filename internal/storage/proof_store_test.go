package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pdfHeader = []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n")

func TestLocalStore_SaveOpenDelete(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewLocalStore(root)
	require.NoError(t, err)

	dueID := uuid.New()
	ref, err := store.Save(ctx, dueID, "Receipt.PDF", bytes.NewReader(pdfHeader))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ref.Path, dueID.String()+"/"))
	assert.True(t, strings.HasSuffix(ref.Path, ".pdf"))
	assert.Equal(t, "application/pdf", ref.ContentType)
	assert.Equal(t, int64(len(pdfHeader)), ref.Size)

	rc, err := store.Open(ctx, ref.Path)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, pdfHeader, got)

	require.NoError(t, store.Delete(ctx, ref.Path))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(ref.Path)))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, store.Delete(ctx, ref.Path))
}

func TestLocalStore_SaveTwiceKeepsBoth(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	dueID := uuid.New()
	first, err := store.Save(ctx, dueID, "a.png", strings.NewReader("one"))
	require.NoError(t, err)
	second, err := store.Save(ctx, dueID, "a.png", strings.NewReader("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first.Path, second.Path)
}

func TestLocalStore_RejectsEscapingPaths(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	for _, p := range []string{"", "../secret", "/etc/passwd", "."} {
		_, err := store.Open(ctx, p)
		assert.ErrorIs(t, err, ErrInvalidPath, p)
		assert.ErrorIs(t, store.Delete(ctx, p), ErrInvalidPath, p)
	}
}

func TestLocalStore_SaveHonoursCancelledContext(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.Save(ctx, uuid.New(), "a.pdf", bytes.NewReader(pdfHeader))
	assert.ErrorIs(t, err, context.Canceled)
}
