package operations

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zeeeepa/airweave/pkg/search"
)

func rawResults(ids ...string) []search.SearchResult {
	out := make([]search.SearchResult, 0, len(ids))
	for i, id := range ids {
		out = append(out, search.SearchResult{
			ID:      id,
			Score:   1.0 - float64(i)*0.1,
			Payload: map[string]any{"title": id},
		})
	}
	return out
}

func resultIDs(results []search.SearchResult) []string {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestRerankingReordersResults(t *testing.T) {
	chat := &fakeChat{response: `[2, 0, 1]`}
	op := NewReranking(chat, 10)
	st := &search.State{Query: "q", RawResults: rawResults("a", "b", "c")}

	require.NoError(t, op.Execute(context.Background(), st))
	assert.Equal(t, []string{"c", "a", "b"}, resultIDs(st.FinalResults))
	assert.Contains(t, chat.lastReq.User, "[0] a")
	assert.Contains(t, chat.lastReq.User, "q")
}

func TestRerankingKeepsTailBeyondTopK(t *testing.T) {
	chat := &fakeChat{response: `[1, 0]`}
	op := NewReranking(chat, 2)
	st := &search.State{Query: "q", RawResults: rawResults("a", "b", "c", "d")}

	require.NoError(t, op.Execute(context.Background(), st))
	assert.Equal(t, []string{"b", "a", "c", "d"}, resultIDs(st.FinalResults))
}

func TestRerankingNormalizesBadIndices(t *testing.T) {
	// Out-of-range and duplicate indices are dropped; omitted ones are
	// appended in original order.
	chat := &fakeChat{response: `[5, 1, 1, -2]`}
	op := NewReranking(chat, 10)
	st := &search.State{Query: "q", RawResults: rawResults("a", "b", "c")}

	require.NoError(t, op.Execute(context.Background(), st))
	assert.Equal(t, []string{"b", "a", "c"}, resultIDs(st.FinalResults))
}

func TestRerankingDegradesGracefully(t *testing.T) {
	t.Run("llm error", func(t *testing.T) {
		st := &search.State{Query: "q", RawResults: rawResults("a", "b")}
		require.NoError(t, NewReranking(&fakeChat{err: errors.New("boom")}, 10).Execute(context.Background(), st))
		assert.Nil(t, st.FinalResults, "raw order stands via finalization fallback")
	})

	t.Run("unparseable output", func(t *testing.T) {
		st := &search.State{Query: "q", RawResults: rawResults("a", "b")}
		require.NoError(t, NewReranking(&fakeChat{response: "b then a"}, 10).Execute(context.Background(), st))
		assert.Nil(t, st.FinalResults)
	})

	t.Run("no results", func(t *testing.T) {
		chat := &fakeChat{response: `[]`}
		st := &search.State{Query: "q"}
		require.NoError(t, NewReranking(chat, 10).Execute(context.Background(), st))
		assert.Nil(t, st.FinalResults)
		assert.Zero(t, chat.calls)
	})
}

func TestNormalizeRanking(t *testing.T) {
	assert.Equal(t, []int{2, 0, 1}, normalizeRanking([]int{2, 0, 1}, 3))
	assert.Equal(t, []int{1, 0, 2}, normalizeRanking([]int{1}, 3))
	assert.Equal(t, []int{0, 1, 2}, normalizeRanking(nil, 3))
	assert.Equal(t, []int{2, 0, 1}, normalizeRanking([]int{9, 2, 2, -1}, 3))
}
