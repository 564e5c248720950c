package tools

import (
	"context"

	"github.com/usestring/harkit/internal/archive"
	"github.com/usestring/harkit/internal/config"
	"github.com/usestring/harkit/internal/query"
	"github.com/usestring/harkit/internal/schema"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Config    *config.Config
	Store     *archive.Store
	Query     *query.Engine
	Validator *schema.Validator
}

// LoadArchive loads the archive at path, converting failures to coded errors.
func (d *Deps) LoadArchive(ctx context.Context, path string) (*archive.Archive, error) {
	if path == "" {
		return nil, ErrInvalidInput("path is required")
	}
	a, err := d.Store.Load(ctx, path)
	if err != nil {
		return nil, WrapArchiveError(path, err)
	}
	return a, nil
}
