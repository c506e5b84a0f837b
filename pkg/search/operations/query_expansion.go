package operations

import (
	"context"
	"fmt"
	"strings"

	"github.com/Zeeeepa/airweave/pkg/openai"
	"github.com/Zeeeepa/airweave/pkg/search"
)

const expansionSystemPrompt = `You rewrite search queries. Given a user query, produce alternative phrasings that could retrieve relevant documents the original wording might miss. Use synonyms, related terminology and reorderings. Respond with a JSON array of strings and nothing else.`

// QueryExpansion generates alternative phrasings of the query so retrieval
// covers more vocabulary. Advisory: on any LLM or parse failure the
// pipeline continues with the original query alone.
type QueryExpansion struct {
	chat  openai.ChatCompleter
	count int
}

// NewQueryExpansion creates the operator. count caps the number of
// generated alternatives (not counting the original query).
func NewQueryExpansion(chat openai.ChatCompleter, count int) *QueryExpansion {
	if count <= 0 {
		count = defaultExpansionCount
	}
	return &QueryExpansion{chat: chat, count: count}
}

func (o *QueryExpansion) Name() string { return search.OpQueryExpansion }

func (o *QueryExpansion) DependsOn() []string { return nil }

func (o *QueryExpansion) Execute(ctx context.Context, st *search.State) error {
	// The original query always leads; alternatives extend it.
	st.ExpandedQueries = []string{st.Query}

	if strings.TrimSpace(st.Query) == "" {
		st.Log().Debug("Query expansion skipped, empty query")
		return nil
	}

	raw, err := o.chat.Complete(ctx, openai.CompletionRequest{
		System:      expansionSystemPrompt,
		User:        fmt.Sprintf("Generate up to %d alternative phrasings for: %s", o.count, st.Query),
		Temperature: 0.7,
		MaxTokens:   400,
	})
	if err != nil {
		st.Log().Warn("Query expansion failed, continuing with original query", "error", err)
		return nil
	}

	alternatives, err := parseStringArray(raw)
	if err != nil {
		st.Log().Warn("Query expansion returned unparseable output, continuing with original query", "error", err)
		return nil
	}

	seen := map[string]bool{strings.ToLower(strings.TrimSpace(st.Query)): true}
	for _, alt := range alternatives {
		alt = strings.TrimSpace(alt)
		key := strings.ToLower(alt)
		if alt == "" || seen[key] {
			continue
		}
		seen[key] = true
		st.ExpandedQueries = append(st.ExpandedQueries, alt)
		if len(st.ExpandedQueries) > o.count {
			break
		}
	}

	st.Log().Debug("Expanded query", "phrasings", len(st.ExpandedQueries))
	return nil
}
