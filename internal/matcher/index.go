package matcher

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// IndexEntry is one tool in the precomputed index: where it lives, what
// it does, and its embedding vector.
type IndexEntry struct {
	Server      string    `json:"server"`
	Tool        string    `json:"tool"`
	Description string    `json:"description"`
	Embedding   []float64 `json:"embedding"`
}

// Index is the full precomputed tool index.
type Index struct {
	Entries []IndexEntry
}

// loadIndexFile reads and decodes a tool index. The file is either a
// bare JSON array of entries or an object with an "entries" key.
func loadIndexFile(path string, dimensions int) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tool index: %w", err)
	}

	var entries []IndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		var wrapped struct {
			Entries []IndexEntry `json:"entries"`
		}
		if err2 := json.Unmarshal(data, &wrapped); err2 != nil {
			return nil, fmt.Errorf("failed to parse tool index %s: %w", path, err)
		}
		entries = wrapped.Entries
	}

	for i, entry := range entries {
		if entry.Server == "" || entry.Tool == "" {
			return nil, fmt.Errorf("tool index entry %d is missing server or tool name", i)
		}
		if len(entry.Embedding) != dimensions {
			return nil, fmt.Errorf("tool index entry %s.%s has %d dimensions, want %d",
				entry.Server, entry.Tool, len(entry.Embedding), dimensions)
		}
	}

	return &Index{Entries: entries}, nil
}
