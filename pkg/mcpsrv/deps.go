package mcpsrv

import (
	"github.com/usestring/harkit/internal/archive"
	"github.com/usestring/harkit/internal/cache"
	"github.com/usestring/harkit/internal/config"
	"github.com/usestring/harkit/internal/query"
	"github.com/usestring/harkit/internal/schema"
)

// Deps contains all dependencies available to custom tools.
// This gives custom tools access to the same infrastructure as builtin tools.
type Deps struct {
	Config    *config.Config
	Cache     *cache.ArchiveCache
	Store     *archive.Store
	Query     *query.Engine
	Validator *schema.Validator
}
