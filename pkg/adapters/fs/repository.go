// Package fs stores artifacts as JSON files under a workspace directory.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/studykit/pkg/core"
)

// Extension is appended to every key to form its file name.
const Extension = ".json"

// Repository implements core.Repository and core.Watchable on the filesystem.
// The key "biology/quizzes/cells" lives at <Path>/biology/quizzes/cells.json.
type Repository struct {
	Path   string
	config Config

	mu            sync.RWMutex
	watcherActive bool
	lastEvent     *time.Time
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path      string
	MustExist bool
	ReadOnly  bool
	Logger    *slog.Logger
	SystemDir string // e.g. ".studykit"; never listed or watched

	// ErrorHandler receives watcher failures. When nil they are logged.
	ErrorHandler func(error)
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Repository{
		Path:   config.Path,
		config: config,
	}
}

// Initialize prepares the workspace directory.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.MustExist || r.config.ReadOnly {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("workspace path does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("workspace path is not a directory: %s", r.Path)
		}
		return nil
	}

	if err := os.MkdirAll(r.Path, 0755); err != nil {
		return fmt.Errorf("failed to create workspace directory: %w", err)
	}
	if r.config.SystemDir != "" {
		if err := os.MkdirAll(filepath.Join(r.Path, r.config.SystemDir), 0755); err != nil {
			return fmt.Errorf("failed to create system directory: %w", err)
		}
	}
	r.config.Logger.Debug("workspace initialized", "path", r.Path)
	return nil
}

// Save writes data under key, replacing any previous content atomically.
func (r *Repository) Save(ctx context.Context, key string, data []byte) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := r.filePath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", key, err)
	}
	if err := writeFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Get reads the data stored under key.
func (r *Repository) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := r.filePath(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", core.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// List returns the sorted keys matching a doublestar pattern.
func (r *Repository) List(ctx context.Context, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	var keys []string
	err := filepath.WalkDir(r.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == r.Path {
				return fs.SkipAll
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != r.Path && r.isSystemPath(path) {
				return fs.SkipDir
			}
			return nil
		}
		key, ok := r.resolveKey(path)
		if !ok {
			return nil
		}
		if match, _ := doublestar.Match(pattern, key); match {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *Repository) Delete(ctx context.Context, key string) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	path, err := r.filePath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// filePath maps a key to its file, refusing keys that escape the workspace.
func (r *Repository) filePath(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimSpace(key)))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(r.Path, clean) + Extension, nil
}

// resolveKey is the inverse of filePath. Temporary files, system files and
// files of other types have no key.
func (r *Repository) resolveKey(path string) (string, bool) {
	if !strings.HasSuffix(path, Extension) || strings.HasPrefix(filepath.Base(path), TempFilePrefix) {
		return "", false
	}
	if r.isSystemPath(path) {
		return "", false
	}
	rel, err := filepath.Rel(r.Path, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(strings.TrimSuffix(rel, Extension)), true
}

func (r *Repository) isSystemPath(path string) bool {
	rel, err := filepath.Rel(r.Path, path)
	if err != nil {
		return false
	}
	first := strings.SplitN(filepath.ToSlash(rel), "/", 2)[0]
	if r.config.SystemDir != "" && first == r.config.SystemDir {
		return true
	}
	return first == ".git"
}

var (
	_ core.Repository = (*Repository)(nil)
	_ core.Watchable  = (*Repository)(nil)
)
