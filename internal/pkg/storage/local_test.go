package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_PutOpenRemove(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewLocalStorage(root)
	require.NoError(t, err)

	key, err := s.Put(ctx, "documents/org-1/a.txt", strings.NewReader("hello"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "documents/org-1/a.txt", key)

	entries, err := os.ReadDir(filepath.Join(root, "documents", "org-1"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be gone")

	rc, err := s.Open(ctx, key)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "hello", string(body))

	require.NoError(t, s.Remove(ctx, key))
	require.NoError(t, s.Remove(ctx, key))

	_, err = s.Open(ctx, key)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalStorage_TraversalStaysInside(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewLocalStorage(root)
	require.NoError(t, err)

	key, err := s.Put(ctx, "../../etc/evil.txt", strings.NewReader("x"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "etc/evil.txt", key)
	_, err = os.Stat(filepath.Join(root, "etc", "evil.txt"))
	assert.NoError(t, err)

	_, err = s.Put(ctx, "", strings.NewReader("x"), "text/plain")
	assert.ErrorIs(t, err, ErrInvalidPath)
}
