package operations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Zeeeepa/airweave/pkg/openai"
	"github.com/Zeeeepa/airweave/pkg/qdrant"
)

// fakeChat implements openai.ChatCompleter for tests.
type fakeChat struct {
	response string
	err      error
	lastReq  openai.CompletionRequest
	calls    int
}

func (f *fakeChat) Complete(_ context.Context, req openai.CompletionRequest) (string, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

// fakeEmbedder implements openai.Embedder for tests.
type fakeEmbedder struct {
	vectors   [][]float32
	err       error
	lastTexts []string
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.lastTexts = texts
	if f.err != nil {
		return nil, f.err
	}
	return f.vectors, nil
}

// fakeStore implements qdrant.Searcher, returning one scripted result set
// per call.
type fakeStore struct {
	results [][]qdrant.ScoredResult
	err     error
	params  []qdrant.QueryParams
}

func (f *fakeStore) Query(_ context.Context, p qdrant.QueryParams) ([]qdrant.ScoredResult, error) {
	f.params = append(f.params, p)
	if f.err != nil {
		return nil, f.err
	}
	if idx := len(f.params) - 1; idx < len(f.results) {
		return f.results[idx], nil
	}
	return nil, nil
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `["a"]`, `["a"]`},
		{"fenced", "```\n[\"a\"]\n```", `["a"]`},
		{"fenced with language", "```json\n[\"a\"]\n```", `["a"]`},
		{"surrounding whitespace", "  ```json\n[\"a\"]\n```  ", `["a"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFences(tt.in))
		})
	}
}

func TestParseArrays(t *testing.T) {
	strs, err := parseStringArray("```json\n[\"a\", \"b\"]\n```")
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, strs)

	_, err = parseStringArray("not json")
	assert.Error(t, err)

	ints, err := parseIntArray("[2, 0, 1]")
	assert.NoError(t, err)
	assert.Equal(t, []int{2, 0, 1}, ints)

	_, err = parseIntArray(`["a"]`)
	assert.Error(t, err)
}

func TestResultSnippet(t *testing.T) {
	assert.Equal(t, "", resultSnippet(nil, 100))
	assert.Equal(t, "body", resultSnippet(map[string]any{"md_content": "body", "title": "t"}, 100))
	assert.Equal(t, "t", resultSnippet(map[string]any{"title": "t"}, 100))
	assert.Equal(t, "ab", resultSnippet(map[string]any{"text": "abcdef"}, 2))
	assert.Equal(t, "", resultSnippet(map[string]any{"other": 3}, 100))
}
