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

func TestVectorSearchSingleEmbedding(t *testing.T) {
	threshold := 0.25
	store := &fakeStore{results: [][]qdrant.ScoredResult{{
		{ID: "a", Score: 0.9, Payload: map[string]any{"title": "A"}},
		{ID: "b", Score: 0.8},
	}}}
	op := NewVectorSearch(store, "org1-docs")
	st := &search.State{
		Query:      "q",
		Config:     &search.SearchConfig{Limit: 10, Offset: 5, ScoreThreshold: &threshold},
		Embeddings: [][]float32{{0.1, 0.2}},
	}

	require.NoError(t, op.Execute(context.Background(), st))

	require.Len(t, store.params, 1)
	p := store.params[0]
	assert.Equal(t, "org1-docs", p.Collection)
	assert.Equal(t, uint64(10), p.Limit)
	assert.Equal(t, uint64(5), p.Offset)
	require.NotNil(t, p.ScoreThreshold)
	assert.InDelta(t, 0.25, float64(*p.ScoreThreshold), 0.001)

	require.Len(t, st.RawResults, 2)
	assert.Equal(t, "a", st.RawResults[0].ID)
	assert.InDelta(t, 0.9, st.RawResults[0].Score, 0.001)
	assert.Equal(t, map[string]any{"title": "A"}, st.RawResults[0].Payload)
}

func TestVectorSearchMergesMultipleEmbeddings(t *testing.T) {
	store := &fakeStore{results: [][]qdrant.ScoredResult{
		{{ID: "a", Score: 0.9}, {ID: "b", Score: 0.5}},
		{{ID: "b", Score: 0.7}, {ID: "c", Score: 0.6}},
	}}
	op := NewVectorSearch(store, "docs")
	st := &search.State{
		Query:      "q",
		Config:     &search.SearchConfig{Limit: 10},
		Embeddings: [][]float32{{0.1}, {0.2}},
	}

	require.NoError(t, op.Execute(context.Background(), st))
	require.Len(t, store.params, 2)

	// b keeps its best score (0.7) and the merge sorts by score.
	require.Len(t, st.RawResults, 3)
	assert.Equal(t, "a", st.RawResults[0].ID)
	assert.Equal(t, "b", st.RawResults[1].ID)
	assert.InDelta(t, 0.7, st.RawResults[1].Score, 0.001)
	assert.Equal(t, "c", st.RawResults[2].ID)
}

func TestVectorSearchPagesAfterMerge(t *testing.T) {
	store := &fakeStore{results: [][]qdrant.ScoredResult{
		{{ID: "a", Score: 0.9}, {ID: "b", Score: 0.8}, {ID: "c", Score: 0.7}},
		{{ID: "d", Score: 0.6}},
	}}
	op := NewVectorSearch(store, "docs")
	st := &search.State{
		Query:      "q",
		Config:     &search.SearchConfig{Limit: 2, Offset: 1},
		Embeddings: [][]float32{{0.1}, {0.2}},
	}

	require.NoError(t, op.Execute(context.Background(), st))

	// Each per-embedding query over-fetches offset+limit.
	assert.Equal(t, uint64(3), store.params[0].Limit)
	assert.Equal(t, uint64(0), store.params[0].Offset)

	require.Len(t, st.RawResults, 2)
	assert.Equal(t, "b", st.RawResults[0].ID)
	assert.Equal(t, "c", st.RawResults[1].ID)
}

func TestVectorSearchOffsetBeyondResults(t *testing.T) {
	store := &fakeStore{results: [][]qdrant.ScoredResult{
		{{ID: "a", Score: 0.9}},
		{{ID: "b", Score: 0.8}},
	}}
	op := NewVectorSearch(store, "docs")
	st := &search.State{
		Query:      "q",
		Config:     &search.SearchConfig{Limit: 10, Offset: 5},
		Embeddings: [][]float32{{0.1}, {0.2}},
	}

	require.NoError(t, op.Execute(context.Background(), st))
	assert.Empty(t, st.RawResults)
	assert.NotNil(t, st.RawResults)
}

func TestVectorSearchPropagatesFilter(t *testing.T) {
	store := &fakeStore{}
	op := NewVectorSearch(store, "docs")
	st := &search.State{
		Query:      "q",
		Config:     &search.SearchConfig{Limit: 5},
		Embeddings: [][]float32{{0.1}},
		Filter:     qdrant.FilterFromConditions(qdrant.MatchCondition("source", "github")),
	}

	require.NoError(t, op.Execute(context.Background(), st))
	require.Len(t, store.params, 1)
	assert.Equal(t, st.Filter, store.params[0].Filter)
}

func TestVectorSearchErrors(t *testing.T) {
	t.Run("no embeddings", func(t *testing.T) {
		op := NewVectorSearch(&fakeStore{}, "docs")
		st := &search.State{Query: "q", Config: &search.SearchConfig{Limit: 5}}
		assert.Error(t, op.Execute(context.Background(), st))
	})

	t.Run("store failure propagates", func(t *testing.T) {
		op := NewVectorSearch(&fakeStore{err: errors.New("unavailable")}, "docs")
		st := &search.State{
			Query:      "q",
			Config:     &search.SearchConfig{Limit: 5},
			Embeddings: [][]float32{{0.1}},
		}
		err := op.Execute(context.Background(), st)
		assert.ErrorContains(t, err, "unavailable")
	})
}
