package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/diwarasiga/moviehub/internal/video/models"
)

// Store keeps every uploaded video as a single uniquely named file directly
// under one upload root. File content needs no locking: each video owns its
// own file and names never collide.
type Store struct {
	root string
}

// New resolves root to an absolute path and creates it if absent. MkdirAll
// is idempotent and safe under concurrent startup.
func New(root string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload root: %w", err)
	}
	return &Store{root: abs}, nil
}

func (s *Store) Root() string { return s.root }

// Resolve maps a stored filename to its absolute path. Anything that would
// escape the upload root (path separators, dot elements) is rejected.
func (s *Store) Resolve(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) {
		return "", fmt.Errorf("%w: invalid filename %q", models.ErrInvalidArgument, filename)
	}
	p := filepath.Join(s.root, filename)
	if !strings.HasPrefix(p, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: filename %q escapes upload root", models.ErrInvalidArgument, filename)
	}
	return p, nil
}

// Save streams r into the file for filename, enforcing maxBytes. The partial
// file is removed on any failure, including an oversize body. Returns the
// number of bytes written.
func (s *Store) Save(filename string, r io.Reader, maxBytes int64) (int64, error) {
	path, err := s.Resolve(filename)
	if err != nil {
		return 0, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, fmt.Errorf("%w: create %s: %v", models.ErrStorage, filename, err)
	}

	// Read one byte past the cap so a body of exactly maxBytes still fits.
	n, err := io.Copy(f, io.LimitReader(r, maxBytes+1))
	cerr := f.Close()

	switch {
	case err != nil:
		_ = os.Remove(path)
		return 0, fmt.Errorf("%w: write %s: %v", models.ErrStorage, filename, err)
	case cerr != nil:
		_ = os.Remove(path)
		return 0, fmt.Errorf("%w: close %s: %v", models.ErrStorage, filename, cerr)
	case n > maxBytes:
		_ = os.Remove(path)
		return 0, models.ErrTooLarge
	}
	return n, nil
}

// Remove deletes the stored file for filename.
func (s *Store) Remove(filename string) error {
	path, err := s.Resolve(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return models.ErrNotFound
		}
		return fmt.Errorf("%w: remove %s: %v", models.ErrStorage, filename, err)
	}
	return nil
}

// Open opens the stored file for reading.
func (s *Store) Open(filename string) (*os.File, error) {
	path, err := s.Resolve(filename)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("%w: open %s: %v", models.ErrStorage, filename, err)
	}
	return f, nil
}

// Stat reports the current on-disk size of filename.
func (s *Store) Stat(filename string) (int64, error) {
	path, err := s.Resolve(filename)
	if err != nil {
		return 0, err
	}
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, models.ErrNotFound
		}
		return 0, fmt.Errorf("%w: stat %s: %v", models.ErrStorage, filename, err)
	}
	return fi.Size(), nil
}
