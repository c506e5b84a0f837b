// Package operations implements the concrete pipeline operators wired
// into SearchConfig slots: LLM-backed query shaping (expansion,
// interpretation), OpenAI embeddings, Qdrant retrieval, and post-retrieval
// scoring, reranking and answer generation.
//
// Advisory operators (expansion, interpretation, reranking) degrade
// gracefully: an LLM failure logs a warning and leaves the pipeline on its
// unmodified path. Operators whose product the caller directly depends on
// (embedding, vector search, completion) fail the pipeline instead.
package operations

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	defaultExpansionCount = 3
	defaultRerankTopK     = 20
	defaultCompletionDocs = 5
	defaultRecencyField   = "created_at"
	recencyHalfLife       = 7 * 24 * time.Hour
	snippetMaxLen         = 300
	minFilterConfidence   = 0.6
)

// stripCodeFences unwraps a fenced markdown block so LLM responses like
// ```json\n[...]\n``` parse as plain JSON.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// parseStringArray decodes a JSON array of strings from possibly fenced
// LLM output.
func parseStringArray(raw string) ([]string, error) {
	var out []string
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &out); err != nil {
		return nil, fmt.Errorf("expected JSON string array: %w", err)
	}
	return out, nil
}

// parseIntArray decodes a JSON array of integers from possibly fenced LLM
// output.
func parseIntArray(raw string) ([]int, error) {
	var out []int
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &out); err != nil {
		return nil, fmt.Errorf("expected JSON integer array: %w", err)
	}
	return out, nil
}

// resultSnippet extracts a short text excerpt from a result payload for
// LLM prompts. Falls back through the payload fields ingestion commonly
// produces.
func resultSnippet(payload map[string]any, maxLen int) string {
	for _, key := range []string{"md_content", "content", "text", "title", "name"} {
		if v, ok := payload[key].(string); ok && v != "" {
			if len(v) > maxLen {
				return v[:maxLen]
			}
			return v
		}
	}
	return ""
}
