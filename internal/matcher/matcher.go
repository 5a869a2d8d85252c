// Package matcher ranks tools across all known servers against a
// free-text query using precomputed embeddings.
package matcher

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// Options configures a Matcher.
type Options struct {
	Model      string
	Dimensions int
	TopServers int
	TopTools   int
}

// ToolMatch is one candidate tool with its similarity score.
type ToolMatch struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Score       float64 `json:"score" yaml:"score"`
}

// ServerMatch groups the best-matching tools of one server. Score is
// the server's best tool score.
type ServerMatch struct {
	Name  string      `json:"name" yaml:"name"`
	Score float64     `json:"score" yaml:"score"`
	Tools []ToolMatch `json:"tools" yaml:"tools"`
}

// Result is a ranked set of candidates for one query.
type Result struct {
	Query   string        `json:"query" yaml:"query"`
	Servers []ServerMatch `json:"servers" yaml:"servers"`
}

// Matcher scores the tool index against query embeddings. It is
// read-only after LoadIndex and safe for concurrent Match calls.
type Matcher struct {
	opts     Options
	embedder Embedder
	index    *Index
}

// New creates a Matcher. LoadIndex must succeed before Match is used.
func New(opts Options, embedder Embedder) *Matcher {
	return &Matcher{opts: opts, embedder: embedder}
}

// LoadIndex reads the precomputed tool index from path.
func (m *Matcher) LoadIndex(path string) error {
	index, err := loadIndexFile(path, m.opts.Dimensions)
	if err != nil {
		return err
	}
	m.index = index
	return nil
}

// Match embeds the query and returns the top servers with their top
// tools, ordered by descending similarity. Given a fixed index and a
// deterministic embedder the result is deterministic; ties are broken
// by name.
func (m *Matcher) Match(ctx context.Context, query string) (*Result, error) {
	if m.index == nil {
		return nil, fmt.Errorf("tool index not loaded")
	}

	queryVec, err := m.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	// Score every indexed tool, grouped by server
	byServer := make(map[string][]ToolMatch)
	for _, entry := range m.index.Entries {
		byServer[entry.Server] = append(byServer[entry.Server], ToolMatch{
			Name:        entry.Tool,
			Description: entry.Description,
			Score:       cosineSimilarity(queryVec, entry.Embedding),
		})
	}

	servers := make([]ServerMatch, 0, len(byServer))
	for name, tools := range byServer {
		sort.Slice(tools, func(i, j int) bool {
			if tools[i].Score != tools[j].Score {
				return tools[i].Score > tools[j].Score
			}
			return tools[i].Name < tools[j].Name
		})
		best := tools[0].Score
		if len(tools) > m.opts.TopTools {
			tools = tools[:m.opts.TopTools]
		}
		servers = append(servers, ServerMatch{
			Name:  name,
			Score: best,
			Tools: tools,
		})
	}

	sort.Slice(servers, func(i, j int) bool {
		if servers[i].Score != servers[j].Score {
			return servers[i].Score > servers[j].Score
		}
		return servers[i].Name < servers[j].Name
	})
	if len(servers) > m.opts.TopServers {
		servers = servers[:m.opts.TopServers]
	}

	return &Result{Query: query, Servers: servers}, nil
}

// cosineSimilarity returns 0 for vectors of mismatched length or zero
// magnitude.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
