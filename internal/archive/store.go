// Package archive loads HAR files from disk and keeps the decoded archives
// in an LRU cache.
package archive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/usestring/harkit/internal/cache"
	"github.com/usestring/harkit/internal/config"
	"github.com/usestring/harkit/internal/indexer"
	"github.com/usestring/harkit/pkg/har"
)

// ErrOutsideRoot is returned for paths that resolve outside the store root.
var ErrOutsideRoot = errors.New("path is outside the archive root")

// Archive is one loaded file.
type Archive struct {
	Path string
	HAR  *har.HAR
}

// Index builds the entry index of the archive.
func (a *Archive) Index() *indexer.Indexer {
	return indexer.Build(a.HAR)
}

// Store resolves, loads and writes archives under a root directory.
type Store struct {
	root    string
	workers int
	cache   *cache.ArchiveCache
}

// NewStore creates a store rooted at cfg.HARRoot.
func NewStore(cfg *config.Config, c *cache.ArchiveCache) *Store {
	workers := cfg.LoadWorkers
	if workers <= 0 {
		workers = 1
	}
	return &Store{root: filepath.Clean(cfg.HARRoot), workers: workers, cache: c}
}

// Root returns the directory archive paths are resolved against.
func (s *Store) Root() string { return s.root }

// Resolve maps p to an absolute path under the root. Relative paths are
// joined to the root.
func (s *Store) Resolve(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("empty path")
	}
	abs := p
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(s.root, abs)
	}
	abs = filepath.Clean(abs)

	rel, err := filepath.Rel(s.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", p, ErrOutsideRoot)
	}
	return abs, nil
}

// Load returns the archive at p, from the cache when the file is unchanged.
func (s *Store) Load(ctx context.Context, p string) (*Archive, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.Resolve(p)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", p)
	}
	stamp := cache.Stamp{ModTime: info.ModTime(), Size: info.Size()}

	if s.cache != nil {
		if h, ok := s.cache.Get(path, stamp); ok {
			return &Archive{Path: path, HAR: h}, nil
		}
	}

	start := time.Now()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	h, err := har.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}

	slog.Debug("archive loaded",
		slog.String("path", path),
		slog.Int("entries", len(h.Entries())),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	if s.cache != nil {
		s.cache.Put(path, stamp, h)
	}
	return &Archive{Path: path, HAR: h}, nil
}

// LoadMany loads several archives concurrently, preserving input order.
// The first failure cancels the remaining loads.
func (s *Store) LoadMany(ctx context.Context, paths []string) ([]*Archive, error) {
	archives := make([]*Archive, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, p := range paths {
		g.Go(func() error {
			a, err := s.Load(ctx, p)
			if err != nil {
				return err
			}
			archives[i] = a
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return archives, nil
}

// Write dumps h as indented JSON to p. The file is replaced atomically.
func (s *Store) Write(p string, h *har.HAR) (string, int, error) {
	path, err := s.Resolve(p)
	if err != nil {
		return "", 0, err
	}

	data, err := har.MarshalIndent(h, "", "  ")
	if err != nil {
		return "", 0, fmt.Errorf("encoding archive: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", 0, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".harkit-*")
	if err != nil {
		return "", 0, err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", 0, err
	}
	if err := tmp.Close(); err != nil {
		return "", 0, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", 0, err
	}

	if s.cache != nil {
		s.cache.Remove(path)
	}
	return path, len(data), nil
}
