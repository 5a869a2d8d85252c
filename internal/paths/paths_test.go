package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetCopilotDirWithOverride(t *testing.T) {
	tmpDir := t.TempDir()
	override := filepath.Join(tmpDir, "custom-copilot")
	t.Setenv("MCP_COPILOT_DIR", override)

	dir, err := GetCopilotDir()
	if err != nil {
		t.Fatalf("GetCopilotDir failed: %v", err)
	}
	if dir != override {
		t.Errorf("Expected '%s', got '%s'", override, dir)
	}

	// Directory should have been created
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Copilot directory was not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("Copilot path is not a directory")
	}
}

func TestGetCopilotDirDefault(t *testing.T) {
	t.Setenv("MCP_COPILOT_DIR", "")
	t.Setenv("HOME", t.TempDir())

	dir, err := GetCopilotDir()
	if err != nil {
		t.Fatalf("GetCopilotDir failed: %v", err)
	}
	if filepath.Base(dir) != ".mcp-copilot" {
		t.Errorf("Expected directory named '.mcp-copilot', got '%s'", dir)
	}
}

func TestGetConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("MCP_COPILOT_DIR", tmpDir)

	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath failed: %v", err)
	}
	if configPath != filepath.Join(tmpDir, "config.json") {
		t.Errorf("Unexpected config path: %s", configPath)
	}
}

func TestGetDefaultIndexPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("MCP_COPILOT_DIR", tmpDir)

	indexPath, err := GetDefaultIndexPath()
	if err != nil {
		t.Fatalf("GetDefaultIndexPath failed: %v", err)
	}
	if indexPath != filepath.Join(tmpDir, "tool_index.json") {
		t.Errorf("Unexpected index path: %s", indexPath)
	}
}
