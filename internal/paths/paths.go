package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetCopilotDir returns the directory where copilot files are stored.
// It checks the MCP_COPILOT_DIR environment variable first, then falls
// back to ~/.mcp-copilot.
func GetCopilotDir() (string, error) {
	var copilotDir string

	// Check for environment variable override first
	if envDir := os.Getenv("MCP_COPILOT_DIR"); envDir != "" {
		copilotDir = envDir
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		copilotDir = filepath.Join(homeDir, ".mcp-copilot")
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(copilotDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create copilot directory: %w", err)
	}

	return copilotDir, nil
}

// GetConfigPath returns the full path to the config.json server map.
func GetConfigPath() (string, error) {
	copilotDir, err := GetCopilotDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(copilotDir, "config.json"), nil
}

// GetDefaultIndexPath returns the conventional location of the
// precomputed tool index. The MCP_DATA_PATH environment variable
// overrides it.
func GetDefaultIndexPath() (string, error) {
	copilotDir, err := GetCopilotDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(copilotDir, "tool_index.json"), nil
}
