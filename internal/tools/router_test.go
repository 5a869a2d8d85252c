package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyzhou/mcp-copilot/internal/config"
	"github.com/hyzhou/mcp-copilot/internal/matcher"
	"github.com/hyzhou/mcp-copilot/internal/router"
)

// fakeRouter implements a minimal ToolRouter for testing
type fakeRouter struct {
	routeResult *matcher.Result
	routeErr    error
	callResult  *mcp.CallToolResult
	callErr     error
	servers     []router.Server
	connected   []string

	lastServer string
	lastTool   string
	lastParams map[string]any
}

func (f *fakeRouter) Route(ctx context.Context, query string) (*matcher.Result, error) {
	return f.routeResult, f.routeErr
}

func (f *fakeRouter) CallTool(ctx context.Context, serverName, toolName string, params map[string]any) (*mcp.CallToolResult, error) {
	f.lastServer = serverName
	f.lastTool = toolName
	f.lastParams = params
	if f.callErr != nil {
		return nil, f.callErr
	}
	return f.callResult, nil
}

func (f *fakeRouter) Servers() []router.Server { return f.servers }

func (f *fakeRouter) Connected() []string { return f.connected }

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestHandleRoute(t *testing.T) {
	routeResult := &matcher.Result{
		Query: "create a github issue",
		Servers: []matcher.ServerMatch{
			{Name: "github", Score: 0.87, Tools: []matcher.ToolMatch{
				{Name: "create_issue", Description: "Create a GitHub issue", Score: 0.87},
			}},
		},
	}
	rt := &fakeRouter{routeResult: routeResult}

	result, structured, err := handleRoute(context.Background(), rt, RouteArgs{Query: "create a github issue"})
	require.NoError(t, err)

	text := textOf(t, result)
	assert.Contains(t, text, "github")
	assert.Contains(t, text, "create_issue")
	assert.Equal(t, routeResult, structured)
}

func TestHandleRouteError(t *testing.T) {
	rt := &fakeRouter{routeErr: errors.New("embedding service unavailable")}

	result, structured, err := handleRoute(context.Background(), rt, RouteArgs{Query: "q"})
	require.NoError(t, err)
	assert.Nil(t, structured)
	assert.Contains(t, textOf(t, result), "Routing failed")
}

func TestHandleCallTool(t *testing.T) {
	upstream := &mcp.CallToolResult{
		Content:           []mcp.Content{&mcp.TextContent{Text: "issue #42 created"}},
		StructuredContent: map[string]any{"number": 42},
	}
	rt := &fakeRouter{callResult: upstream}

	args := CallToolArgs{
		Server: "github",
		Tool:   "create_issue",
		Params: map[string]any{"title": "bug report"},
	}
	result, structured, err := handleCallTool(context.Background(), rt, args)
	require.NoError(t, err)

	assert.Same(t, upstream, result, "upstream result is passed through untouched")
	assert.Equal(t, upstream.StructuredContent, structured)
	assert.Equal(t, "github", rt.lastServer)
	assert.Equal(t, "create_issue", rt.lastTool)
	assert.Equal(t, map[string]any{"title": "bug report"}, rt.lastParams)
}

func TestHandleCallToolNilParams(t *testing.T) {
	rt := &fakeRouter{callResult: &mcp.CallToolResult{}}

	_, _, err := handleCallTool(context.Background(), rt, CallToolArgs{Server: "a", Tool: "t"})
	require.NoError(t, err)
	require.NotNil(t, rt.lastParams, "missing params default to an empty map")
	assert.Empty(t, rt.lastParams)
}

func TestHandleCallToolInvalidParams(t *testing.T) {
	rt := &fakeRouter{callResult: &mcp.CallToolResult{}}

	result, structured, err := handleCallTool(context.Background(), rt, CallToolArgs{
		Server: "a",
		Tool:   "t",
		Params: "not an object",
	})
	require.NoError(t, err)
	assert.Nil(t, structured)
	assert.Contains(t, textOf(t, result), "Invalid params")
	assert.Empty(t, rt.lastServer, "invalid params must not reach the router")
}

func TestHandleCallToolError(t *testing.T) {
	rt := &fakeRouter{callErr: router.ErrUnknownServer}

	result, structured, err := handleCallTool(context.Background(), rt, CallToolArgs{Server: "nope", Tool: "t"})
	require.NoError(t, err)
	assert.Nil(t, structured)
	assert.Contains(t, textOf(t, result), "Tool call failed")
}

func TestHandleListServers(t *testing.T) {
	rt := &fakeRouter{
		servers: []router.Server{
			{Name: "github", Config: config.ServerConfig{Command: "mcp-server-github"}},
			{Name: "internal", Config: config.ServerConfig{Command: "secret", Hidden: true}},
			{Name: "weather", Config: config.ServerConfig{URL: "https://weather.example.com/mcp"}},
		},
		connected: []string{"github"},
	}

	result, structured, err := handleListServers(rt)
	require.NoError(t, err)

	response, ok := structured.(ServerListResponse)
	require.True(t, ok)
	require.Len(t, response.Servers, 2, "hidden servers are not listed")
	assert.Equal(t, "github", response.Servers[0].Name)
	assert.True(t, response.Servers[0].Connected)
	assert.Equal(t, "weather", response.Servers[1].Name)
	assert.False(t, response.Servers[1].Connected)

	text := textOf(t, result)
	assert.Contains(t, text, "github")
	assert.NotContains(t, text, "internal")
}

func TestRegisterTools(t *testing.T) {
	server := mcp.NewServer(&mcp.Implementation{Name: "test", Version: "0.0.1"}, nil)
	rt := &fakeRouter{routeResult: &matcher.Result{}}

	RegisterRoute(server, rt)
	RegisterCallTool(server, rt)
	RegisterListServers(server, rt)
}
