package artifact

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FSBackend implements Backend on the local filesystem, mapping object keys
// directly onto directories under a root. Intended for local development and
// tests; writes go through a temp file and rename so readers never observe a
// partial object.
type FSBackend struct {
	root string
}

// NewFSBackend creates a filesystem backend rooted at root, creating the
// directory if needed.
func NewFSBackend(root string) (*FSBackend, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("create root directory: %w", err)
	}
	return &FSBackend{root: abs}, nil
}

// Root returns the absolute root path.
func (b *FSBackend) Root() string {
	return b.root
}

// resolve converts an object key to an absolute filesystem path, ensuring
// the result stays within the root directory.
func (b *FSBackend) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	abs := filepath.Join(b.root, clean)
	if abs != b.root && !strings.HasPrefix(abs, b.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: key %q escapes storage root", ErrInvalidPath, key)
	}
	return abs, nil
}

// EnsureBucket is a no-op; the root directory is created at construction.
func (b *FSBackend) EnsureBucket(_ context.Context) error {
	return nil
}

func (b *FSBackend) Put(_ context.Context, key string, data []byte, _ string) error {
	abs, err := b.resolve(key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create object directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".put-*")
	if err != nil {
		return fmt.Errorf("create temp object: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write object %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close object %q: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), abs); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("commit object %q: %w", key, err)
	}
	return nil
}

func (b *FSBackend) Get(_ context.Context, key string) ([]byte, error) {
	abs, err := b.resolve(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read object %q: %w", key, err)
	}
	return data, nil
}

func (b *FSBackend) Stat(_ context.Context, key string) (ObjectInfo, error) {
	abs, err := b.resolve(key)
	if err != nil {
		return ObjectInfo{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return ObjectInfo{}, ErrNotFound
		}
		return ObjectInfo{}, fmt.Errorf("stat object %q: %w", key, err)
	}
	if info.IsDir() {
		return ObjectInfo{}, ErrNotFound
	}
	return ObjectInfo{Key: key, Size: info.Size()}, nil
}

func (b *FSBackend) Delete(_ context.Context, key string) error {
	abs, err := b.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete object %q: %w", key, err)
	}
	return nil
}

func (b *FSBackend) List(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(b.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".put-") {
			return nil
		}
		rel, err := filepath.Rel(b.root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list objects under %q: %w", prefix, err)
	}
	sort.Strings(keys)
	return keys, nil
}
