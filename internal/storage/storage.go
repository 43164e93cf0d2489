package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"inkcast/internal/services"
)

// ObjectStore reads and writes named blobs.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// Local stores objects as files under a root directory. Keys may contain
// slashes; the corresponding directories are created on demand.
type Local struct {
	root string
}

// NewLocal creates a filesystem-backed store rooted at dir.
func NewLocal(dir string) (*Local, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "storage", "open", "root directory required", nil)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "storage", "open", dir, err)
	}
	return &Local{root: dir}, nil
}

// Root returns the store's base directory.
func (l *Local) Root() string {
	return l.root
}

// Path resolves a key to its path on disk, rejecting escapes from the
// root.
func (l *Local) Path(key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", services.Wrap(services.ErrValidation, "storage", "resolve", fmt.Sprintf("invalid key %q", key), nil)
	}
	return filepath.Join(l.root, cleaned), nil
}

func (l *Local) Put(_ context.Context, key string, data []byte) error {
	path, err := l.Path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return services.Wrap(services.ErrTransient, "storage", "put", key, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return services.Wrap(services.ErrTransient, "storage", "put", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return services.Wrap(services.ErrTransient, "storage", "put", key, err)
	}
	return nil
}

func (l *Local) Get(_ context.Context, key string) ([]byte, error) {
	path, err := l.Path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, services.Wrap(services.ErrNotFound, "storage", "get", key, err)
		}
		return nil, services.Wrap(services.ErrTransient, "storage", "get", key, err)
	}
	return data, nil
}

func (l *Local) Exists(_ context.Context, key string) (bool, error) {
	path, err := l.Path(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, services.Wrap(services.ErrTransient, "storage", "stat", key, err)
	}
	return true, nil
}
