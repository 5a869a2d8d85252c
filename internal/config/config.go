package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
)

// ErrConfiguration indicates a missing or invalid mandatory
// configuration value. It is fatal at construction time.
var ErrConfiguration = errors.New("invalid configuration")

// ServerConfig describes how to reach a single backend MCP server.
// Command-based servers are launched as subprocesses; URL-based servers
// are reached over streamable HTTP. Exactly one of Command or URL must
// be set.
type ServerConfig struct {
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	URL     string            `json:"url,omitempty"`
	Hidden  bool              `json:"hidden,omitempty"`
}

// Config represents the full copilot server map
type Config struct {
	MCPServers map[string]ServerConfig `json:"mcpServers"`
}

// Load reads and parses the server map from configPath.
//
// A nonexistent file is not an error: deployments may start with zero
// servers configured, so the result is an empty server map. A file that
// exists but cannot be read or parsed is fatal.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Config file not found at %s, starting with empty server list", configPath)
			return &Config{MCPServers: map[string]ServerConfig{}}, nil
		}
		return nil, fmt.Errorf("%w: failed to read config file: %v", ErrConfiguration, err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config JSON: %v", ErrConfiguration, err)
	}
	if config.MCPServers == nil {
		config.MCPServers = map[string]ServerConfig{}
	}

	// Expand environment variables
	if err := expandEnvVars(&config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// expandEnvVars performs ${VAR} expansion on all string values in the config
func expandEnvVars(config *Config) error {
	for serverName, serverConfig := range config.MCPServers {
		serverConfig.Command = expandString(serverConfig.Command)
		serverConfig.URL = expandString(serverConfig.URL)

		for i, arg := range serverConfig.Args {
			serverConfig.Args[i] = expandString(arg)
		}

		for key, value := range serverConfig.Env {
			serverConfig.Env[key] = expandString(value)
		}

		config.MCPServers[serverName] = serverConfig
	}

	return nil
}

// envVarPattern matches ${VAR_NAME} patterns
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandString expands ${VAR} environment variable references in a string
func expandString(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

// Validate checks every server entry for basic validity. An empty
// server map is valid.
func (c *Config) Validate() error {
	for serverName, serverConfig := range c.MCPServers {
		hasCommand := strings.TrimSpace(serverConfig.Command) != ""
		hasURL := strings.TrimSpace(serverConfig.URL) != ""
		if !hasCommand && !hasURL {
			return fmt.Errorf("%w: server %s has neither command nor url", ErrConfiguration, serverName)
		}
		if hasCommand && hasURL {
			return fmt.Errorf("%w: server %s has both command and url", ErrConfiguration, serverName)
		}
	}

	return nil
}
