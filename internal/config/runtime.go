package config

import (
	"fmt"
	"os"

	"github.com/hyzhou/mcp-copilot/internal/paths"
)

// Environment variables consumed at startup.
const (
	EnvBaseURL  = "DASHSCOPE_BASE_URL"
	EnvAPIKey   = "DASHSCOPE_API_KEY"
	EnvDataPath = "MCP_DATA_PATH"

	// DefaultBaseURL is the OpenAI-compatible endpoint used when
	// DASHSCOPE_BASE_URL is unset.
	DefaultBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"
)

// Runtime holds the mandatory parameters the matcher needs. Unlike the
// server map, these have no degraded mode: a missing credential or an
// unreadable index path fails startup.
type Runtime struct {
	BaseURL   string
	APIKey    string
	IndexPath string
}

// LoadRuntime resolves the runtime parameters from the environment.
func LoadRuntime() (*Runtime, error) {
	rt := &Runtime{
		BaseURL: os.Getenv(EnvBaseURL),
		APIKey:  os.Getenv(EnvAPIKey),
	}
	if rt.BaseURL == "" {
		rt.BaseURL = DefaultBaseURL
	}
	if rt.APIKey == "" {
		return nil, fmt.Errorf("%w: %s environment variable not set", ErrConfiguration, EnvAPIKey)
	}

	rt.IndexPath = os.Getenv(EnvDataPath)
	if rt.IndexPath == "" {
		indexPath, err := paths.GetDefaultIndexPath()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		rt.IndexPath = indexPath
	}
	if _, err := os.Stat(rt.IndexPath); err != nil {
		return nil, fmt.Errorf("%w: tool index not found at %s", ErrConfiguration, rt.IndexPath)
	}

	return rt, nil
}
