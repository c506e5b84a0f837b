package operations

import (
	"context"
	"fmt"
	"strings"

	"github.com/Zeeeepa/airweave/pkg/openai"
	"github.com/Zeeeepa/airweave/pkg/search"
)

const rerankingSystemPrompt = `You rank search results by relevance to a query. You receive numbered documents and reply with a JSON array of the document numbers, most relevant first. Include every number exactly once. Respond with the JSON array and nothing else.`

// Reranking asks the LLM to reorder the top results by relevance.
// Advisory: on any failure the raw order stands (finalization promotes
// raw_results).
type Reranking struct {
	chat openai.ChatCompleter
	topK int
}

// NewReranking creates the operator. topK caps how many leading results
// are submitted for reordering; the tail keeps its original order.
func NewReranking(chat openai.ChatCompleter, topK int) *Reranking {
	if topK <= 0 {
		topK = defaultRerankTopK
	}
	return &Reranking{chat: chat, topK: topK}
}

func (o *Reranking) Name() string { return search.OpReranking }

func (o *Reranking) DependsOn() []string {
	return []string{search.OpVectorSearch, search.OpRecency}
}

func (o *Reranking) Execute(ctx context.Context, st *search.State) error {
	if len(st.RawResults) == 0 {
		st.Log().Debug("Reranking skipped, no results")
		return nil
	}

	k := min(o.topK, len(st.RawResults))

	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n\nDocuments:\n", st.Query)
	for i := 0; i < k; i++ {
		fmt.Fprintf(&b, "[%d] %s\n", i, resultSnippet(st.RawResults[i].Payload, snippetMaxLen))
	}

	raw, err := o.chat.Complete(ctx, openai.CompletionRequest{
		System:    rerankingSystemPrompt,
		User:      b.String(),
		MaxTokens: 200,
	})
	if err != nil {
		st.Log().Warn("Reranking failed, keeping retrieval order", "error", err)
		return nil
	}

	ranking, err := parseIntArray(raw)
	if err != nil {
		st.Log().Warn("Reranking returned unparseable output, keeping retrieval order", "error", err)
		return nil
	}

	order := normalizeRanking(ranking, k)
	reordered := make([]search.SearchResult, 0, len(st.RawResults))
	for _, idx := range order {
		reordered = append(reordered, st.RawResults[idx])
	}
	reordered = append(reordered, st.RawResults[k:]...)

	st.FinalResults = reordered
	st.Log().Debug("Reranked results", "considered", k, "results", len(reordered))
	return nil
}

// normalizeRanking turns LLM output into a permutation of [0, k): it drops
// out-of-range and duplicate indices, then appends whatever the model
// omitted in original order.
func normalizeRanking(ranking []int, k int) []int {
	seen := make(map[int]bool, k)
	order := make([]int, 0, k)
	for _, idx := range ranking {
		if idx < 0 || idx >= k || seen[idx] {
			continue
		}
		seen[idx] = true
		order = append(order, idx)
	}
	for i := 0; i < k; i++ {
		if !seen[i] {
			order = append(order, i)
		}
	}
	return order
}
