package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/culinarynotes/culinarynotes/internal/metrics"
)

const entityFile = "file"

var errInvalidFileName = errors.New("invalid file name")

// StoredFile is a handle to a file in storage. Content is read only through Open.
type StoredFile struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// Open opens the stored file for reading.
func (f *StoredFile) Open() (*os.File, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrStorageIO, f.Name, err)
	}
	return file, nil
}

// FileStorage keeps uploaded files in a single directory under generated names.
// Names given to Load and Delete must resolve inside that directory.
type FileStorage struct {
	root    string
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewFileStorage creates a FileStorage rooted at dir. The directory is created on first Store.
func NewFileStorage(dir string, logger *slog.Logger, recorder metrics.Recorder) (*FileStorage, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload directory: %w", err)
	}
	logger, recorder = defaults(logger, recorder)
	return &FileStorage{
		root:    filepath.Clean(root),
		logger:  logger.With("component", "file_storage"),
		metrics: recorder,
	}, nil
}

// Root returns the absolute storage directory.
func (s *FileStorage) Root() string {
	return s.root
}

// Ping reports whether the storage directory exists or can be created.
func (s *FileStorage) Ping(ctx context.Context) error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageIO, err)
	}
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageIO, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrStorageIO, s.root)
	}
	return nil
}

// Store writes r to a new file and returns its generated name.
// The extension of originalName is kept; the base name is replaced by a random UUID.
func (s *FileStorage) Store(ctx context.Context, r io.Reader, originalName string) (name string, err error) {
	op := startOperation(s.logger, s.metrics, "storeFile", "original_filename", originalName)
	defer func() { op.done(ctx, err) }()

	name = uuid.NewString() + fileExtension(originalName)
	op.log = op.log.With("file_name", name)

	if err = os.MkdirAll(s.root, 0o755); err != nil {
		s.metrics.IncStorageFailure("store")
		return "", fmt.Errorf("%w: create upload directory: %v", ErrStorageIO, err)
	}

	target := filepath.Join(s.root, name)
	written, err := writeFile(target, r)
	if err != nil {
		s.metrics.IncStorageFailure("store")
		_ = os.Remove(target)
		return "", fmt.Errorf("%w: write %s: %w", ErrStorageIO, name, err)
	}

	s.metrics.IncFileStored()
	op.log.InfoContext(ctx, "file stored", "bytes", written)
	return name, nil
}

// Load resolves a generated name to a StoredFile. It fails with a NotFoundError
// when the name is malformed, escapes the storage directory, or names no readable file.
func (s *FileStorage) Load(ctx context.Context, name string) (file *StoredFile, err error) {
	op := startOperation(s.logger, s.metrics, "loadFile", "file_name", name)
	defer func() { op.done(ctx, err) }()

	notFound := &NotFoundError{Entity: entityFile, Field: "name", Value: name}

	target, err := s.resolve(name)
	if err != nil {
		op.log.DebugContext(ctx, "rejected file name", "error", err)
		return nil, notFound
	}

	info, err := os.Stat(target)
	if err != nil || !info.Mode().IsRegular() {
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.metrics.IncStorageFailure("load")
			op.log.DebugContext(ctx, "stat failed", "error", err)
		}
		return nil, notFound
	}

	// Confirm the file is readable without reading it.
	f, err := os.Open(target)
	if err != nil {
		s.metrics.IncStorageFailure("load")
		op.log.DebugContext(ctx, "file not readable", "error", err)
		return nil, notFound
	}
	_ = f.Close()

	return &StoredFile{
		Name:    name,
		Path:    target,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Delete removes the named file and reports whether a file was removed.
// Removal errors are logged and reported as false, the same as a missing file.
func (s *FileStorage) Delete(ctx context.Context, name string) bool {
	op := startOperation(s.logger, s.metrics, "deleteFile", "file_name", name)

	removed, err := s.remove(name)
	switch {
	case err != nil:
		s.metrics.IncStorageFailure("delete")
		op.log.ErrorContext(ctx, "error deleting file", "error", err)
	case !removed:
		op.log.WarnContext(ctx, "file not found for deletion")
	default:
		op.log.InfoContext(ctx, "file deleted")
	}

	s.metrics.IncFileDeleted(removed)
	op.done(ctx, nil)
	return removed
}

func (s *FileStorage) remove(name string) (bool, error) {
	target, err := s.resolve(name)
	if err != nil {
		return false, nil
	}

	info, err := os.Lstat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}

	if err := os.Remove(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// resolve maps a generated name to a path directly inside the storage root.
func (s *FileStorage) resolve(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`+"\x00") {
		return "", errInvalidFileName
	}

	target := filepath.Join(s.root, name)
	rel, err := filepath.Rel(s.root, target)
	if err != nil || rel != name {
		return "", errInvalidFileName
	}
	return target, nil
}

// fileExtension returns the extension of the last element of originalName,
// including the dot. Names without a dot, or whose only dot is the first
// character, have no extension.
func fileExtension(originalName string) string {
	base := path.Base(strings.ReplaceAll(originalName, `\`, "/"))
	idx := strings.LastIndex(base, ".")
	if idx <= 0 || base == "." || base == ".." {
		return ""
	}
	return base[idx:]
}

func writeFile(target string, r io.Reader) (int64, error) {
	f, err := os.Create(target)
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return written, err
}
