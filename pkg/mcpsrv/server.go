package mcpsrv

import (
	"context"
	"fmt"
	"path/filepath"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/harkit/internal/archive"
	"github.com/usestring/harkit/internal/cache"
	"github.com/usestring/harkit/internal/config"
	"github.com/usestring/harkit/internal/logging"
	"github.com/usestring/harkit/internal/mcp"
	"github.com/usestring/harkit/internal/mcp/tools"
	"github.com/usestring/harkit/internal/query"
	"github.com/usestring/harkit/internal/schema"
)

// Server is the HAR MCP server.
// It wraps the internal implementation and provides extension points.
type Server struct {
	internal   *mcp.Server
	deps       *Deps
	logCleanup func() error
}

// NewServer creates a new MCP server with the builtin har_* tools.
//
// Use functional options to configure logging, add custom tools, etc.
func NewServer(opts ...Option) (*Server, error) {
	cfg := &serverConfig{
		config: config.Load(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.harRoot != "" {
		root, err := filepath.Abs(cfg.harRoot)
		if err != nil {
			return nil, fmt.Errorf("resolving HAR root: %w", err)
		}
		cfg.config.HARRoot = root
	}

	logCfg := logging.Config{
		Level:      cfg.config.LogLevel,
		Format:     cfg.config.LogFormat,
		FilePath:   cfg.config.LogFile,
		MaxSizeMB:  cfg.config.LogMaxSizeMB,
		MaxBackups: cfg.config.LogMaxBackups,
		MaxAgeDays: cfg.config.LogMaxAgeDays,
		Compress:   cfg.config.LogCompress,
	}
	if cfg.logLevel != "" {
		logCfg.Level = cfg.logLevel
	}
	if cfg.logFormat != "" {
		logCfg.Format = cfg.logFormat
	}
	if cfg.logFile != "" {
		logCfg.FilePath = cfg.logFile
	}
	logCleanup, err := logging.Setup(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	archiveCache, err := cache.NewArchiveCache(cfg.config.ArchiveCacheMaxItems)
	if err != nil {
		_ = logCleanup()
		return nil, fmt.Errorf("failed to create archive cache: %w", err)
	}
	validator, err := schema.NewHARValidator()
	if err != nil {
		_ = logCleanup()
		return nil, fmt.Errorf("failed to compile HAR schema: %w", err)
	}
	store := archive.NewStore(cfg.config, archiveCache)
	queryEngine := query.NewEngine()

	toolDeps := &tools.Deps{
		Config:    cfg.config,
		Store:     store,
		Query:     queryEngine,
		Validator: validator,
	}

	// Same values, public type
	deps := &Deps{
		Config:    cfg.config,
		Cache:     archiveCache,
		Store:     store,
		Query:     queryEngine,
		Validator: validator,
	}

	var internalOpts []mcp.ServerOption
	if !cfg.disableBuiltinTools {
		internalOpts = append(internalOpts, mcp.WithBuiltinTools())
	}
	if !cfg.disableBuiltinResources {
		internalOpts = append(internalOpts, mcp.WithBuiltinResources())
	}

	for _, fn := range cfg.toolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.promptRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.resourceRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.deferredToolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(func(srv *sdkmcp.Server) {
			fn(srv, deps)
		}))
	}

	internal, err := mcp.NewServer(toolDeps, internalOpts...)
	if err != nil {
		_ = logCleanup()
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return &Server{
		internal:   internal,
		deps:       deps,
		logCleanup: logCleanup,
	}, nil
}

// Run starts the MCP server with stdio transport.
// The server runs until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.internal.Run(ctx)
}

// Close cleans up server resources.
func (s *Server) Close() error {
	if s.logCleanup != nil {
		return s.logCleanup()
	}
	return nil
}

// Deps returns the dependencies for building custom tools.
func (s *Server) Deps() *Deps {
	return s.deps
}

// MCPServer returns the underlying MCP server, for in-memory transports in tests.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.internal.MCPServer()
}
