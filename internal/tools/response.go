package tools

import (
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/yaml.v3"
)

// ErrorResponse creates a standardized error response for tool calls
func ErrorResponse(format string, args ...interface{}) *mcp.CallToolResult {
	message := fmt.Sprintf(format, args...)
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: message},
		},
	}
}

// YAMLResponse renders v as YAML text content. YAML reads better than
// raw JSON in chat transcripts, which is where these results end up.
func YAMLResponse(v any) *mcp.CallToolResult {
	data, err := yaml.Marshal(v)
	if err != nil {
		return ErrorResponse("failed to render result: %v", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}
}
