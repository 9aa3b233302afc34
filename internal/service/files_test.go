package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/culinarynotes/culinarynotes/internal/metrics"
)

func newFileStorageTestEnv(t *testing.T) (*FileStorage, *metrics.InMemoryRecorder) {
	t.Helper()
	recorder := metrics.NewInMemory()
	storage, err := NewFileStorage(filepath.Join(t.TempDir(), "uploads"), discardLogger(), recorder)
	require.NoError(t, err)
	return storage, recorder
}

func TestFileStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	storage, recorder := newFileStorageTestEnv(t)
	content := []byte("\x89PNG fake image bytes")

	name, err := storage.Store(ctx, bytes.NewReader(content), "photo.png")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".png"))
	assert.NotEqual(t, "photo.png", name)

	file, err := storage.Load(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), file.Size)

	f, err := file.Open()
	require.NoError(t, err)
	got, err := io.ReadAll(f)
	require.NoError(t, f.Close())
	require.NoError(t, err)
	assert.Equal(t, content, got)

	assert.True(t, storage.Delete(ctx, name))
	assert.False(t, storage.Delete(ctx, name))

	_, err = storage.Load(ctx, name)
	require.ErrorIs(t, err, ErrNotFound)

	snap := recorder.Snapshot()
	assert.Equal(t, uint64(1), snap.FilesStored)
	assert.Equal(t, uint64(1), snap.FilesDeleted)
	assert.Equal(t, uint64(1), snap.FileDeletesMissed)
}

func TestFileStorage_GeneratedNamesAreUnique(t *testing.T) {
	ctx := context.Background()
	storage, _ := newFileStorageTestEnv(t)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		name, err := storage.Store(ctx, strings.NewReader("x"), "same.txt")
		require.NoError(t, err)
		require.False(t, seen[name], "name %q reused", name)
		seen[name] = true
	}
}

func TestFileStorage_CreatesRootDirectory(t *testing.T) {
	ctx := context.Background()
	storage, _ := newFileStorageTestEnv(t)

	_, err := os.Stat(storage.Root())
	require.True(t, errors.Is(err, os.ErrNotExist))

	_, err = storage.Store(ctx, strings.NewReader("x"), "a.txt")
	require.NoError(t, err)

	info, err := os.Stat(storage.Root())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileExtension(t *testing.T) {
	tests := []struct {
		original string
		want     string
	}{
		{"photo.png", ".png"},
		{"archive.tar.gz", ".gz"},
		{"README", ""},
		{".bashrc", ""},
		{"", ""},
		{"trailing.", "."},
		{"dir.v1/photo", ""},
		{`C:\Users\me\cake.JPG`, ".JPG"},
		{"../../etc/passwd.txt", ".txt"},
	}

	for _, tt := range tests {
		t.Run(tt.original, func(t *testing.T) {
			assert.Equal(t, tt.want, fileExtension(tt.original))
		})
	}
}

func TestFileStorage_PathConfinement(t *testing.T) {
	ctx := context.Background()
	storage, _ := newFileStorageTestEnv(t)

	outside := filepath.Join(filepath.Dir(storage.Root()), "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("secret"), 0o600))
	_, err := storage.Store(ctx, strings.NewReader("x"), "a.txt")
	require.NoError(t, err)

	names := []string{
		"../secret.txt",
		"..",
		".",
		"",
		"sub/../../secret.txt",
		outside,
		`..\secret.txt`,
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			_, err := storage.Load(ctx, name)
			require.ErrorIs(t, err, ErrNotFound)
			assert.False(t, storage.Delete(ctx, name))
		})
	}

	_, err = os.Stat(outside)
	assert.NoError(t, err, "file outside the root must survive")
}

func TestFileStorage_LoadDirectoryIsNotFound(t *testing.T) {
	ctx := context.Background()
	storage, _ := newFileStorageTestEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Join(storage.Root(), "nested"), 0o755))

	_, err := storage.Load(ctx, "nested")
	require.ErrorIs(t, err, ErrNotFound)
	assert.False(t, storage.Delete(ctx, "nested"))
}

func TestFileStorage_StoreFailureIsIOError(t *testing.T) {
	ctx := context.Background()

	// A regular file where the root directory should be makes MkdirAll fail.
	parent := t.TempDir()
	root := filepath.Join(parent, "uploads")
	require.NoError(t, os.WriteFile(root, []byte("not a dir"), 0o600))

	storage, err := NewFileStorage(root, discardLogger(), nil)
	require.NoError(t, err)

	_, err = storage.Store(ctx, strings.NewReader("x"), "a.txt")
	require.ErrorIs(t, err, ErrStorageIO)
	require.ErrorIs(t, storage.Ping(ctx), ErrStorageIO)
}

func TestFileStorage_Ping(t *testing.T) {
	storage, _ := newFileStorageTestEnv(t)

	require.NoError(t, storage.Ping(context.Background()))

	info, err := os.Stat(storage.Root())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

var errClientGone = errors.New("client went away")

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errClientGone
}

func TestFileStorage_StoreReadFailureLeavesNoFile(t *testing.T) {
	ctx := context.Background()
	storage, recorder := newFileStorageTestEnv(t)

	_, err := storage.Store(ctx, failingReader{}, "a.txt")
	require.ErrorIs(t, err, ErrStorageIO)
	require.ErrorIs(t, err, errClientGone, "the read error stays inspectable")

	entries, err := os.ReadDir(storage.Root())
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, uint64(1), recorder.Snapshot().StorageFailures["store"])
}
