package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ServerSummary describes one configured server for list_servers
type ServerSummary struct {
	Name      string `json:"name" yaml:"name"`
	Command   string `json:"command,omitempty" yaml:"command,omitempty"`
	URL       string `json:"url,omitempty" yaml:"url,omitempty"`
	Connected bool   `json:"connected" yaml:"connected"`
}

// ServerListResponse wraps the server list in an object structure expected by MCP
type ServerListResponse struct {
	Servers []ServerSummary `json:"servers" yaml:"servers"`
}

// RegisterListServers registers the list_servers tool with the MCP server
func RegisterListServers(server *mcp.Server, rt ToolRouter) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_servers",
		Description: "List the configured MCP servers and their connection state",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, any, error) {
		return handleListServers(rt)
	})
}

func handleListServers(rt ToolRouter) (*mcp.CallToolResult, any, error) {
	connected := make(map[string]bool)
	for _, name := range rt.Connected() {
		connected[name] = true
	}

	response := ServerListResponse{Servers: []ServerSummary{}}
	for _, server := range rt.Servers() {
		if server.Config.Hidden {
			continue
		}
		response.Servers = append(response.Servers, ServerSummary{
			Name:      server.Name,
			Command:   server.Config.Command,
			URL:       server.Config.URL,
			Connected: connected[server.Name],
		})
	}

	return YAMLResponse(response), response, nil
}
