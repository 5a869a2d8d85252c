// Package connection owns the MCP session to a single backend server.
package connection

import (
	"context"
	"fmt"
	"os/exec"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hyzhou/mcp-copilot/internal/config"
)

// Connection is one established session to one backend server. It is
// created unconnected; Connect must succeed before CallTool is used.
type Connection struct {
	name   string
	config config.ServerConfig

	client  *mcp.Client
	session *mcp.ClientSession

	// ctx bounds the lifetime of a command-based server's subprocess,
	// independent of any single call's context.
	ctx    context.Context
	cancel context.CancelFunc

	closeOnce sync.Once
	closeErr  error
}

// New creates an unconnected Connection for the named server.
func New(name string, cfg config.ServerConfig) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		name:   name,
		config: cfg,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Connect performs the MCP handshake. The context bounds the handshake
// only; the session itself lives until Close.
func (c *Connection) Connect(ctx context.Context) error {
	var transport mcp.Transport
	if c.config.URL != "" {
		transport = &mcp.StreamableClientTransport{Endpoint: c.config.URL}
	} else {
		cmd := exec.CommandContext(c.ctx, c.config.Command, c.config.Args...)
		if len(c.config.Env) > 0 {
			env := cmd.Environ()
			for key, value := range c.config.Env {
				env = append(env, fmt.Sprintf("%s=%s", key, value))
			}
			cmd.Env = env
		}
		transport = mcp.NewCommandTransport(cmd)
	}

	c.client = mcp.NewClient(&mcp.Implementation{
		Name:    "mcp-copilot",
		Version: "0.1.0",
	}, nil)

	session, err := c.client.Connect(ctx, transport, &mcp.ClientSessionOptions{})
	if err != nil {
		c.cancel()
		return fmt.Errorf("failed to connect to server %s: %w", c.name, err)
	}
	c.session = session

	return nil
}

// CallTool invokes a tool on the connected server and returns the
// result verbatim.
func (c *Connection) CallTool(ctx context.Context, toolName string, arguments map[string]any) (*mcp.CallToolResult, error) {
	if c.session == nil {
		return nil, fmt.Errorf("server %s is not connected", c.name)
	}

	return c.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      toolName,
		Arguments: arguments,
	})
}

// Close releases the session. Safe to call more than once; later calls
// return the first close's result.
func (c *Connection) Close() error {
	c.closeOnce.Do(func() {
		c.cancel()
		if c.session != nil {
			c.closeErr = c.session.Close()
		}
	})
	return c.closeErr
}
