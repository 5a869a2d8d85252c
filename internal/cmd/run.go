// Package cmd implements the debug subcommands of the copilot binary.
package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hyzhou/mcp-copilot/internal/config"
	"github.com/hyzhou/mcp-copilot/internal/paths"
	"github.com/hyzhou/mcp-copilot/internal/router"
)

// Run dispatches debug subcommands. It returns -1 when args do not name
// a subcommand, in which case the caller starts the MCP server.
func Run(args []string) int {
	if len(args) == 0 {
		return -1
	}

	switch args[0] {
	case "servers":
		if err := listServers(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	case "match":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: mcp-copilot match <query>")
			return 1
		}
		if err := matchQuery(strings.Join(args[1:], " ")); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	return -1 // Not a subcommand
}

// listServers displays the configured server map without connecting to
// anything.
func listServers() error {
	configPath, err := paths.GetConfigPath()
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println("Configured Servers:")
	if len(cfg.MCPServers) == 0 {
		fmt.Println("  (none)")
		return nil
	}

	names := make([]string, 0, len(cfg.MCPServers))
	for name := range cfg.MCPServers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		serverConfig := cfg.MCPServers[name]
		target := serverConfig.Command
		if target == "" {
			target = serverConfig.URL
		}
		marker := ""
		if serverConfig.Hidden {
			marker = " (hidden)"
		}
		fmt.Printf("  • %s - %s%s\n", name, target, marker)
	}

	return nil
}

// matchQuery runs one routing pass and prints the ranked candidates.
func matchQuery(query string) error {
	configPath, err := paths.GetConfigPath()
	if err != nil {
		return err
	}

	rt, err := router.NewFromFile(configPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Shutdown(); err != nil {
			log.Printf("Error closing connections: %v", err)
		}
	}()

	result, err := rt.Route(context.Background(), query)
	if err != nil {
		return fmt.Errorf("routing failed: %w", err)
	}

	data, err := yaml.Marshal(result)
	if err != nil {
		return err
	}
	fmt.Print(string(data))

	return nil
}
