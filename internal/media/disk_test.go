package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUploadWritesAndReturnsURL(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "http://localhost:8080/media/")
	require.NoError(t, err)

	url, err := store.Upload(context.Background(), "produits/p1.png", strings.NewReader("fake-png"))
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080/media/produits/p1.png", url)

	data, err := os.ReadFile(filepath.Join(store.Root(), "produits", "p1.png"))
	require.NoError(t, err)
	require.Equal(t, "fake-png", string(data))
}

func TestUploadRejectsEmptyPath(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "http://localhost/media")
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), "", strings.NewReader("x"))
	require.Error(t, err)
}

func TestUploadCannotEscapeRoot(t *testing.T) {
	root := t.TempDir()
	store, err := NewDiskStore(root, "http://localhost/media")
	require.NoError(t, err)

	url, err := store.Upload(context.Background(), "../outside.txt", strings.NewReader("x"))
	require.NoError(t, err)
	require.Equal(t, "http://localhost/media/outside.txt", url)

	_, err = os.Stat(filepath.Join(root, "outside.txt"))
	require.NoError(t, err, "traversal must be neutralised inside the root")
}
