package operations

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zeeeepa/airweave/pkg/qdrant"
	"github.com/Zeeeepa/airweave/pkg/search"
)

func TestQueryInterpretation(t *testing.T) {
	chat := &fakeChat{response: `{
		"conditions": [{"field": "source", "value": "github"}],
		"after": "2025-06-01T00:00:00Z",
		"before": null,
		"confidence": 0.9
	}`}
	op := NewQueryInterpretation(chat)
	st := &search.State{Query: "github issues from June"}

	require.NoError(t, op.Execute(context.Background(), st))
	require.NotNil(t, st.Filter)
	// One match condition plus one datetime range.
	assert.Len(t, st.Filter.GetMust(), 2)
}

func TestQueryInterpretationIncludesPhrasings(t *testing.T) {
	chat := &fakeChat{response: `{"conditions": [], "confidence": 0.1}`}
	op := NewQueryInterpretation(chat)
	st := &search.State{
		Query:           "q",
		ExpandedQueries: []string{"q", "alt one", "alt two"},
	}

	require.NoError(t, op.Execute(context.Background(), st))
	assert.Contains(t, chat.lastReq.User, "alt one")
	assert.Contains(t, chat.lastReq.User, "alt two")
}

func TestQueryInterpretationLowConfidence(t *testing.T) {
	chat := &fakeChat{response: `{
		"conditions": [{"field": "source", "value": "github"}],
		"confidence": 0.3
	}`}
	st := &search.State{Query: "q"}

	require.NoError(t, NewQueryInterpretation(chat).Execute(context.Background(), st))
	assert.Nil(t, st.Filter)
}

func TestQueryInterpretationMergesWithExistingFilter(t *testing.T) {
	chat := &fakeChat{response: `{
		"conditions": [{"field": "status", "value": "open"}],
		"confidence": 0.8
	}`}
	st := &search.State{
		Query:  "q",
		Filter: qdrant.FilterFromConditions(qdrant.MatchCondition("source", "jira")),
	}

	require.NoError(t, NewQueryInterpretation(chat).Execute(context.Background(), st))
	require.NotNil(t, st.Filter)
	assert.Len(t, st.Filter.GetMust(), 2)
}

func TestQueryInterpretationDefersToCallerFilter(t *testing.T) {
	chat := &fakeChat{response: `{
		"conditions": [{"field": "status", "value": "open"}],
		"confidence": 0.9
	}`}
	userFilter := qdrant.FilterFromConditions(qdrant.MatchCondition("source", "jira"))
	st := &search.State{
		Query:  "q",
		Config: &search.SearchConfig{QdrantFilter: NewQdrantFilter(userFilter)},
	}

	require.NoError(t, NewQueryInterpretation(chat).Execute(context.Background(), st))
	assert.Nil(t, st.Filter, "inference should be skipped entirely")
	assert.Zero(t, chat.calls, "no LLM call when the caller filtered explicitly")
}

func TestQueryInterpretationDegradesGracefully(t *testing.T) {
	t.Run("llm error", func(t *testing.T) {
		st := &search.State{Query: "q"}
		require.NoError(t, NewQueryInterpretation(&fakeChat{err: errors.New("boom")}).Execute(context.Background(), st))
		assert.Nil(t, st.Filter)
	})

	t.Run("unparseable output", func(t *testing.T) {
		st := &search.State{Query: "q"}
		require.NoError(t, NewQueryInterpretation(&fakeChat{response: "no filters needed"}).Execute(context.Background(), st))
		assert.Nil(t, st.Filter)
	})

	t.Run("bad timestamp ignored", func(t *testing.T) {
		chat := &fakeChat{response: `{
			"conditions": [{"field": "source", "value": "github"}],
			"after": "June 2025",
			"confidence": 0.9
		}`}
		st := &search.State{Query: "q"}
		require.NoError(t, NewQueryInterpretation(chat).Execute(context.Background(), st))
		require.NotNil(t, st.Filter)
		assert.Len(t, st.Filter.GetMust(), 1)
	})

	t.Run("nothing filterable", func(t *testing.T) {
		chat := &fakeChat{response: `{"conditions": [], "confidence": 0.9}`}
		st := &search.State{Query: "q"}
		require.NoError(t, NewQueryInterpretation(chat).Execute(context.Background(), st))
		assert.Nil(t, st.Filter)
	})
}
