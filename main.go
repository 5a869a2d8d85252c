package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hyzhou/mcp-copilot/internal/cmd"
	"github.com/hyzhou/mcp-copilot/internal/paths"
	"github.com/hyzhou/mcp-copilot/internal/router"
	"github.com/hyzhou/mcp-copilot/internal/tools"
)

func main() {
	// A .env file is optional
	_ = godotenv.Load()

	// Handle debug subcommands (servers, match)
	if code := cmd.Run(os.Args[1:]); code >= 0 {
		os.Exit(code)
	}

	if err := run(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// run keeps the connection teardown on every exit path; log.Fatalf in
// main would skip the deferred shutdown.
func run() error {
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

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "mcp-copilot",
		Version: "0.1.0",
	}, nil)

	tools.RegisterRoute(server, rt)
	tools.RegisterCallTool(server, rt)
	tools.RegisterListServers(server, rt)

	log.Printf("Starting MCP copilot server with %d configured server(s)...", len(rt.Servers()))
	return server.Run(context.Background(), &mcp.StdioTransport{})
}
