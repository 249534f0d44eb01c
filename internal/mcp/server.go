package mcp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"github.com/jinaai/jina-mcp/internal/cache"
	"github.com/jinaai/jina-mcp/internal/config"
	"github.com/jinaai/jina-mcp/internal/jina"
)

const (
	// ServerName is the MCP server name
	ServerName = "jina-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"

	shutdownTimeout = 5 * time.Second
)

// Server wraps the MCP server with the Jina client and response cache.
type Server struct {
	mcp    *server.MCPServer
	client *jina.Client
	cache  *cache.Cache // nil when caching is disabled
}

// NewServer creates a new MCP server instance from configuration.
func NewServer(cfg *config.Config) (*Server, error) {
	client, err := jina.NewClient(cfg.APIKey,
		jina.WithSearchEndpoint(cfg.SearchEndpoint),
		jina.WithReaderEndpoint(cfg.ReaderEndpoint),
		jina.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize jina client: %w", err)
	}

	var respCache *cache.Cache
	if cfg.CacheSize > 0 {
		respCache, err = cache.New(cache.Options{
			Size: cfg.CacheSize,
			TTL:  cfg.CacheTTL,
			Path: cfg.CachePath,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize cache: %w", err)
		}

		// Drop rows left over from a previous run
		if err := respCache.PruneExpired(context.Background()); err != nil {
			log.Printf("cache prune failed: %v", err)
		}
	}

	return newServer(client, respCache), nil
}

// newServer wires a server from already-built dependencies.
func newServer(client *jina.Client, respCache *cache.Cache) *Server {
	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:    mcpServer,
		client: client,
		cache:  respCache,
	}
	s.registerTools()

	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	defer s.closeResources()
	return server.ServeStdio(s.mcp)
}

// ServeSSE starts the MCP server on an SSE HTTP listener at addr and
// blocks until ctx is cancelled or the listener fails.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	defer s.closeResources()

	sse := server.NewSSEServer(s.mcp)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := sse.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return sse.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(searchTool(), s.handleSearch)
	s.mcp.AddTool(readerTool(), s.handleRead)
	s.mcp.AddTool(clearCacheTool(), s.handleClearCache)
}

func (s *Server) closeResources() {
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			log.Printf("cache close failed: %v", err)
		}
	}
	_ = s.client.Close()
}
