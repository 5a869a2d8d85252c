// Package tools exposes the router as MCP tools: route a query to
// candidate tools, invoke one, and inspect the configured servers.
package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cast"

	"github.com/hyzhou/mcp-copilot/internal/matcher"
	"github.com/hyzhou/mcp-copilot/internal/router"
)

// ToolRouter interface allows for easier testing
type ToolRouter interface {
	Route(ctx context.Context, query string) (*matcher.Result, error)
	CallTool(ctx context.Context, serverName, toolName string, params map[string]any) (*mcp.CallToolResult, error)
	Servers() []router.Server
	Connected() []string
}

// RouteArgs defines the arguments for the route tool
type RouteArgs struct {
	Query string `json:"query" jsonschema:"Natural-language description of the task to find tools for"`
}

// CallToolArgs defines the arguments for the call_tool tool
type CallToolArgs struct {
	Server string `json:"server" jsonschema:"Name of the configured server hosting the tool"`
	Tool   string `json:"tool" jsonschema:"Name of the tool to invoke"`
	Params any    `json:"params,omitempty" jsonschema:"Arguments to pass to the tool"`
}

// RegisterRoute registers the route tool with the MCP server
func RegisterRoute(server *mcp.Server, rt ToolRouter) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "route",
		Description: "Find the best-matching tools across all configured MCP servers for a natural-language query",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args RouteArgs) (*mcp.CallToolResult, any, error) {
		return handleRoute(ctx, rt, args)
	})
}

// RegisterCallTool registers the call_tool tool with the MCP server
func RegisterCallTool(server *mcp.Server, rt ToolRouter) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "call_tool",
		Description: "Invoke a tool on one of the configured MCP servers, connecting on demand",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args CallToolArgs) (*mcp.CallToolResult, any, error) {
		return handleCallTool(ctx, rt, args)
	})
}

func handleRoute(ctx context.Context, rt ToolRouter, args RouteArgs) (*mcp.CallToolResult, any, error) {
	result, err := rt.Route(ctx, args.Query)
	if err != nil {
		return ErrorResponse("Routing failed: %v", err), nil, nil
	}

	return YAMLResponse(result), result, nil
}

func handleCallTool(ctx context.Context, rt ToolRouter, args CallToolArgs) (*mcp.CallToolResult, any, error) {
	params := map[string]any{}
	if args.Params != nil {
		m, err := cast.ToStringMapE(args.Params)
		if err != nil {
			return ErrorResponse("Invalid params: expected an object, got %T", args.Params), nil, nil
		}
		params = m
	}

	result, err := rt.CallTool(ctx, args.Server, args.Tool, params)
	if err != nil {
		return ErrorResponse("Tool call failed: %v", err), nil, nil
	}

	// Return the upstream result untouched
	return result, result.StructuredContent, nil
}
