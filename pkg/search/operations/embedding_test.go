package operations

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qdrantgo "github.com/qdrant/go-client/qdrant"

	"github.com/Zeeeepa/airweave/pkg/qdrant"
	"github.com/Zeeeepa/airweave/pkg/search"
)

func TestEmbeddingUsesExpandedQueries(t *testing.T) {
	embedder := &fakeEmbedder{vectors: [][]float32{{0.1}, {0.2}}}
	op := NewEmbedding(embedder)
	st := &search.State{Query: "q", ExpandedQueries: []string{"q", "alt"}}

	require.NoError(t, op.Execute(context.Background(), st))
	assert.Equal(t, []string{"q", "alt"}, embedder.lastTexts)
	assert.Equal(t, [][]float32{{0.1}, {0.2}}, st.Embeddings)
}

func TestEmbeddingFallsBackToQuery(t *testing.T) {
	embedder := &fakeEmbedder{vectors: [][]float32{{0.1}}}
	op := NewEmbedding(embedder)
	st := &search.State{Query: "only"}

	require.NoError(t, op.Execute(context.Background(), st))
	assert.Equal(t, []string{"only"}, embedder.lastTexts)
}

func TestEmbeddingEmptyQueryStillEmbeds(t *testing.T) {
	embedder := &fakeEmbedder{vectors: [][]float32{{0.0}}}
	op := NewEmbedding(embedder)
	st := &search.State{Query: ""}

	require.NoError(t, op.Execute(context.Background(), st))
	assert.Equal(t, []string{""}, embedder.lastTexts)
}

func TestEmbeddingFailurePropagates(t *testing.T) {
	op := NewEmbedding(&fakeEmbedder{err: errors.New("api down")})
	st := &search.State{Query: "q"}

	err := op.Execute(context.Background(), st)
	assert.ErrorContains(t, err, "api down")
	assert.Nil(t, st.Embeddings)
}

func TestQdrantFilterOperator(t *testing.T) {
	t.Run("nil filter is a no-op", func(t *testing.T) {
		st := &search.State{}
		require.NoError(t, NewQdrantFilter(nil).Execute(context.Background(), st))
		assert.Nil(t, st.Filter)
	})

	t.Run("sets filter", func(t *testing.T) {
		f := qdrant.FilterFromConditions(qdrant.MatchCondition("source", "github"))
		st := &search.State{}
		require.NoError(t, NewQdrantFilter(f).Execute(context.Background(), st))
		assert.Equal(t, f, st.Filter)
	})

	t.Run("merges with derived filter", func(t *testing.T) {
		derived := qdrant.FilterFromConditions(qdrant.MatchCondition("status", "open"))
		caller := &qdrantgo.Filter{
			Must:    []*qdrantgo.Condition{qdrant.MatchCondition("source", "github")},
			MustNot: []*qdrantgo.Condition{qdrant.MatchCondition("archived", "true")},
		}
		st := &search.State{Filter: derived}
		require.NoError(t, NewQdrantFilter(caller).Execute(context.Background(), st))
		require.NotNil(t, st.Filter)
		assert.Len(t, st.Filter.GetMust(), 2)
		assert.Len(t, st.Filter.GetMustNot(), 1)
	})
}
