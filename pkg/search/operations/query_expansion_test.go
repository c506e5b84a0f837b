package operations

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zeeeepa/airweave/pkg/search"
)

func TestQueryExpansion(t *testing.T) {
	chat := &fakeChat{response: `["billing issues", "invoice problems", "payment errors"]`}
	op := NewQueryExpansion(chat, 3)
	st := &search.State{Query: "billing problems"}

	require.NoError(t, op.Execute(context.Background(), st))
	assert.Equal(t, []string{"billing problems", "billing issues", "invoice problems", "payment errors"}, st.ExpandedQueries)
	assert.Contains(t, chat.lastReq.User, "billing problems")
}

func TestQueryExpansionDeduplicates(t *testing.T) {
	chat := &fakeChat{response: `["Billing Problems", "billing issues", "", "billing issues"]`}
	op := NewQueryExpansion(chat, 5)
	st := &search.State{Query: "billing problems"}

	require.NoError(t, op.Execute(context.Background(), st))
	// The original (case-insensitively), empties and duplicates are dropped.
	assert.Equal(t, []string{"billing problems", "billing issues"}, st.ExpandedQueries)
}

func TestQueryExpansionCapsAlternatives(t *testing.T) {
	chat := &fakeChat{response: `["a", "b", "c", "d", "e"]`}
	op := NewQueryExpansion(chat, 2)
	st := &search.State{Query: "q"}

	require.NoError(t, op.Execute(context.Background(), st))
	assert.Equal(t, []string{"q", "a", "b"}, st.ExpandedQueries)
}

func TestQueryExpansionEmptyQuerySkipsLLM(t *testing.T) {
	chat := &fakeChat{response: `["should never be requested"]`}
	op := NewQueryExpansion(chat, 3)
	st := &search.State{Query: ""}

	require.NoError(t, op.Execute(context.Background(), st))
	assert.Equal(t, []string{""}, st.ExpandedQueries)
	assert.Zero(t, chat.calls)
}

func TestQueryExpansionDegradesGracefully(t *testing.T) {
	t.Run("llm error", func(t *testing.T) {
		chat := &fakeChat{err: errors.New("timeout")}
		st := &search.State{Query: "q"}
		require.NoError(t, NewQueryExpansion(chat, 3).Execute(context.Background(), st))
		assert.Equal(t, []string{"q"}, st.ExpandedQueries)
	})

	t.Run("unparseable output", func(t *testing.T) {
		chat := &fakeChat{response: "Sure! Here are some ideas:"}
		st := &search.State{Query: "q"}
		require.NoError(t, NewQueryExpansion(chat, 3).Execute(context.Background(), st))
		assert.Equal(t, []string{"q"}, st.ExpandedQueries)
	})

	t.Run("fenced output still parses", func(t *testing.T) {
		chat := &fakeChat{response: "```json\n[\"alt\"]\n```"}
		st := &search.State{Query: "q"}
		require.NoError(t, NewQueryExpansion(chat, 3).Execute(context.Background(), st))
		assert.Equal(t, []string{"q", "alt"}, st.ExpandedQueries)
	})
}
