// Package router resolves natural-language queries to tools across many
// backend MCP servers and invokes them over lazily-established,
// per-server connections.
package router

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hyzhou/mcp-copilot/internal/config"
	"github.com/hyzhou/mcp-copilot/internal/connection"
	"github.com/hyzhou/mcp-copilot/internal/matcher"
)

// Matcher parameters. Fixed; the index is precomputed with the same
// model and dimensionality.
const (
	embeddingModel      = "text-embedding-v4"
	embeddingDimensions = 1024
	topServers          = 5
	topTools            = 3
)

// Conn is the contract the router requires from a per-server
// connection.
type Conn interface {
	Connect(ctx context.Context) error
	CallTool(ctx context.Context, toolName string, arguments map[string]any) (*mcp.CallToolResult, error)
	Close() error
}

// Dialer creates an unconnected Conn for a server.
type Dialer func(name string, cfg config.ServerConfig) Conn

// Matcher is the contract the router requires from the semantic
// matching engine.
type Matcher interface {
	Match(ctx context.Context, query string) (*matcher.Result, error)
}

// Server pairs a server name with its immutable configuration.
type Server struct {
	Name   string
	Config config.ServerConfig
}

// connState tracks the lifecycle of one pool entry. Absence from the
// pool means no connection exists or has ever been attempted.
type connState int

const (
	stateConnecting connState = iota
	stateEstablished
	stateFailed
)

// entry is one server's slot in the connection pool. The first caller
// creates it in stateConnecting and performs the handshake; concurrent
// callers for the same server wait on ready and share the outcome.
// state, conn and err are written before ready is closed and are
// read-only afterwards.
type entry struct {
	state connState
	conn  Conn
	err   error
	ready chan struct{}
}

// Router owns the server registry, the pool of established connections,
// and the matcher. Connections are created lazily, at most one per
// server name, and live until Shutdown. Safe for concurrent use.
type Router struct {
	servers map[string]Server
	matcher Matcher
	dial    Dialer

	mu     sync.Mutex
	conns  map[string]*entry
	closed bool
}

// Option customizes a Router, mainly for tests.
type Option func(*Router)

// WithDialer substitutes the connection factory.
func WithDialer(dial Dialer) Option {
	return func(r *Router) { r.dial = dial }
}

// WithMatcher substitutes the matching engine. When set, the runtime
// parameters passed to New are not consulted.
func WithMatcher(m Matcher) Option {
	return func(r *Router) { r.matcher = m }
}

// New constructs a Router from an in-memory server map and the runtime
// parameters. The registry is parsed once and read-only thereafter; no
// connections are opened. A failure to load the matcher's tool index is
// fatal.
func New(cfg *config.Config, rt *config.Runtime, opts ...Option) (*Router, error) {
	if cfg == nil {
		cfg = &config.Config{MCPServers: map[string]config.ServerConfig{}}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Router{
		servers: make(map[string]Server, len(cfg.MCPServers)),
		conns:   make(map[string]*entry),
	}
	for name, serverConfig := range cfg.MCPServers {
		r.servers[name] = Server{Name: name, Config: serverConfig}
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.matcher == nil {
		if rt == nil {
			return nil, fmt.Errorf("%w: runtime parameters are required", config.ErrConfiguration)
		}
		m := matcher.New(matcher.Options{
			Model:      embeddingModel,
			Dimensions: embeddingDimensions,
			TopServers: topServers,
			TopTools:   topTools,
		}, matcher.NewOpenAIEmbedder(rt.BaseURL, rt.APIKey, embeddingModel, embeddingDimensions))
		if err := m.LoadIndex(rt.IndexPath); err != nil {
			return nil, fmt.Errorf("%w: %v", config.ErrConfiguration, err)
		}
		r.matcher = m
	}

	if r.dial == nil {
		r.dial = func(name string, cfg config.ServerConfig) Conn {
			return connection.New(name, cfg)
		}
	}

	return r, nil
}

// NewFromFile constructs a Router from a config file path and the
// environment. A nonexistent config file yields an empty registry;
// missing runtime parameters are fatal.
func NewFromFile(configPath string, opts ...Option) (*Router, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	rt, err := config.LoadRuntime()
	if err != nil {
		return nil, err
	}

	return New(cfg, rt, opts...)
}

// Route finds the best-matching tools for a free-text query. It never
// touches a connection.
func (r *Router) Route(ctx context.Context, query string) (*matcher.Result, error) {
	return r.matcher.Match(ctx, query)
}

// CallTool invokes a tool on the named server, connecting on demand.
// The result is the connection's raw call result, passed through
// without inspection.
func (r *Router) CallTool(ctx context.Context, serverName, toolName string, params map[string]any) (*mcp.CallToolResult, error) {
	if params == nil {
		params = map[string]any{}
	}

	conn, err := r.acquire(ctx, serverName)
	if err != nil {
		return nil, err
	}

	result, err := conn.CallTool(ctx, toolName, params)
	if err != nil {
		return nil, &CallError{Server: serverName, Tool: toolName, Err: err}
	}

	return result, nil
}

// acquire returns the established connection for serverName, dialing it
// if absent. At most one connect attempt is in flight per server;
// concurrent callers share the attempt's outcome. A failed attempt
// leaves no pool entry, so the next call dials from scratch.
func (r *Router) acquire(ctx context.Context, serverName string) (Conn, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrRouterClosed
	}

	if e, ok := r.conns[serverName]; ok {
		r.mu.Unlock()
		select {
		case <-e.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if e.state == stateEstablished {
			return e.conn, nil
		}
		return nil, e.err
	}

	server, ok := r.servers[serverName]
	if !ok {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrUnknownServer, serverName)
	}

	e := &entry{state: stateConnecting, ready: make(chan struct{})}
	r.conns[serverName] = e
	r.mu.Unlock()

	// Handshake runs outside the lock; calls for other servers are not
	// blocked by it.
	conn := r.dial(serverName, server.Config)
	err := conn.Connect(ctx)

	r.mu.Lock()
	if err != nil {
		e.state = stateFailed
		e.err = &ConnectError{Server: serverName, Err: err}
		delete(r.conns, serverName)
	} else {
		e.state = stateEstablished
		e.conn = conn
	}
	closed := r.closed
	r.mu.Unlock()
	close(e.ready)

	if err != nil {
		return nil, e.err
	}
	if closed {
		// Shutdown won the race; it will close this connection.
		return nil, ErrRouterClosed
	}
	return conn, nil
}

// Shutdown closes every established connection concurrently and waits
// for all closes to finish. One failing close never prevents the
// others; failures are reported together as a *CloseError. Safe to call
// with an empty pool and safe to call twice. The router is not reusable
// afterwards: subsequent calls fail with ErrRouterClosed.
func (r *Router) Shutdown() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	entries := r.conns
	r.conns = make(map[string]*entry)
	r.mu.Unlock()

	var (
		wg         sync.WaitGroup
		failuresMu sync.Mutex
		failures   map[string]error
	)
	for name, e := range entries {
		wg.Add(1)
		go func(name string, e *entry) {
			defer wg.Done()
			// Let an in-flight connect settle before tearing down.
			<-e.ready
			if e.conn == nil {
				return
			}
			if err := e.conn.Close(); err != nil {
				failuresMu.Lock()
				if failures == nil {
					failures = make(map[string]error)
				}
				failures[name] = err
				failuresMu.Unlock()
			}
		}(name, e)
	}
	wg.Wait()

	if len(failures) > 0 {
		return &CloseError{Failures: failures}
	}
	return nil
}

// Servers returns the configured servers, sorted by name.
func (r *Router) Servers() []Server {
	servers := make([]Server, 0, len(r.servers))
	for _, s := range r.servers {
		servers = append(servers, s)
	}
	sort.Slice(servers, func(i, j int) bool { return servers[i].Name < servers[j].Name })
	return servers
}

// Connected returns the names of servers with an established
// connection, sorted.
func (r *Router) Connected() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.conns))
	for name, e := range r.conns {
		if e.state == stateEstablished {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
