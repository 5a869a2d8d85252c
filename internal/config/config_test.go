package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	configContent := `{
  "mcpServers": {
    "github": {
      "command": "mcp-server-github",
      "args": ["--token", "${GITHUB_TOKEN}"],
      "env": {
        "DEBUG": "true"
      }
    },
    "weather": {
      "url": "${WEATHER_URL}/mcp"
    }
  }
}`

	t.Setenv("GITHUB_TOKEN", "test-github-token")
	t.Setenv("WEATHER_URL", "https://weather.example.com")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	config, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(config.MCPServers) != 2 {
		t.Errorf("Expected 2 servers, got %d", len(config.MCPServers))
	}

	github, ok := config.MCPServers["github"]
	if !ok {
		t.Fatal("Github server not found")
	}
	if github.Command != "mcp-server-github" {
		t.Errorf("Expected command 'mcp-server-github', got '%s'", github.Command)
	}
	if len(github.Args) != 2 {
		t.Errorf("Expected 2 args, got %d", len(github.Args))
	}
	if github.Args[1] != "test-github-token" {
		t.Errorf("Expected expanded token 'test-github-token', got '%s'", github.Args[1])
	}

	weather, ok := config.MCPServers["weather"]
	if !ok {
		t.Fatal("Weather server not found")
	}
	if weather.URL != "https://weather.example.com/mcp" {
		t.Errorf("Expected expanded url, got '%s'", weather.URL)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "does-not-exist.json")

	config, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load should tolerate a missing config file, got: %v", err)
	}
	if config == nil {
		t.Fatal("Load returned nil config")
	}
	if len(config.MCPServers) != 0 {
		t.Errorf("Expected empty server map, got %d entries", len(config.MCPServers))
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")
	if err := os.WriteFile(configPath, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Expected error for malformed config")
	}
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("Expected ErrConfiguration, got: %v", err)
	}
}

func TestLoadConfigInvalidEntry(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "neither command nor url",
			content: `{"mcpServers": {"bad": {"args": ["x"]}}}`,
		},
		{
			name:    "both command and url",
			content: `{"mcpServers": {"bad": {"command": "x", "url": "https://example.com"}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write test config: %v", err)
			}

			_, err := Load(configPath)
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("Expected ErrConfiguration, got: %v", err)
			}
		})
	}
}

func TestValidateEmptyConfig(t *testing.T) {
	config := &Config{MCPServers: map[string]ServerConfig{}}
	if err := config.Validate(); err != nil {
		t.Errorf("Empty server map should be valid, got: %v", err)
	}
}
