package operations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zeeeepa/airweave/pkg/search"
)

func TestRecencyPromotesFresherResults(t *testing.T) {
	op := NewRecency("created_at", 0.5)
	st := &search.State{
		RawResults: []search.SearchResult{
			{ID: "old", Score: 0.8, Payload: map[string]any{"created_at": "2024-01-01T00:00:00Z"}},
			{ID: "new", Score: 0.7, Payload: map[string]any{"created_at": "2025-01-01T00:00:00Z"}},
		},
	}

	require.NoError(t, op.Execute(context.Background(), st))

	// A year is ~52 half-lives, so old decays to ~0 freshness:
	// old: 0.8*0.5 + ~0*0.5 = 0.40; new: 0.7*0.5 + 1*0.5 = 0.85.
	assert.Equal(t, "new", st.RawResults[0].ID)
	assert.InDelta(t, 0.85, st.RawResults[0].Score, 0.001)
	assert.Equal(t, "old", st.RawResults[1].ID)
	assert.InDelta(t, 0.40, st.RawResults[1].Score, 0.001)
}

func TestRecencyExponentialHalfLife(t *testing.T) {
	// Freshness halves every seven days from the newest result.
	op := NewRecency("created_at", 0.5)
	st := &search.State{
		RawResults: []search.SearchResult{
			{ID: "now", Score: 0.8, Payload: map[string]any{"created_at": "2025-06-29T00:00:00Z"}},
			{ID: "one-half-life", Score: 0.8, Payload: map[string]any{"created_at": "2025-06-22T00:00:00Z"}},
			{ID: "two-half-lives", Score: 0.8, Payload: map[string]any{"created_at": "2025-06-15T00:00:00Z"}},
		},
	}

	require.NoError(t, op.Execute(context.Background(), st))

	// 0.8*0.5 + freshness*0.5 with freshness 1, 0.5, 0.25.
	assert.InDelta(t, 0.9, st.RawResults[0].Score, 0.001)
	assert.InDelta(t, 0.65, st.RawResults[1].Score, 0.001)
	assert.InDelta(t, 0.525, st.RawResults[2].Score, 0.001)
}

func TestRecencyMissingTimestampKeepsRawScore(t *testing.T) {
	op := NewRecency("created_at", 0.5)
	st := &search.State{
		RawResults: []search.SearchResult{
			{ID: "a", Score: 0.9, Payload: map[string]any{"created_at": "2025-06-29T00:00:00Z"}},
			{ID: "b", Score: 0.8, Payload: map[string]any{"created_at": "2025-06-22T00:00:00Z"}},
			{ID: "no-ts", Score: 0.5},
		},
	}

	require.NoError(t, op.Execute(context.Background(), st))
	assert.Equal(t, "a", st.RawResults[0].ID)
	assert.Equal(t, "b", st.RawResults[1].ID)
	assert.Equal(t, "no-ts", st.RawResults[2].ID)
	assert.InDelta(t, 0.5, st.RawResults[2].Score, 0.001)
}

func TestRecencySkips(t *testing.T) {
	t.Run("no results", func(t *testing.T) {
		st := &search.State{}
		require.NoError(t, NewRecency("", 0.3).Execute(context.Background(), st))
		assert.Nil(t, st.RawResults)
	})

	t.Run("no parseable timestamps", func(t *testing.T) {
		st := &search.State{
			RawResults: []search.SearchResult{
				{ID: "a", Score: 0.9, Payload: map[string]any{"created_at": "yesterday"}},
			},
		}
		require.NoError(t, NewRecency("", 0.3).Execute(context.Background(), st))
		assert.InDelta(t, 0.9, st.RawResults[0].Score, 0.001)
	})

	t.Run("identical timestamps", func(t *testing.T) {
		st := &search.State{
			RawResults: []search.SearchResult{
				{ID: "a", Score: 0.9, Payload: map[string]any{"created_at": "2025-01-01T00:00:00Z"}},
				{ID: "b", Score: 0.8, Payload: map[string]any{"created_at": "2025-01-01T00:00:00Z"}},
			},
		}
		require.NoError(t, NewRecency("", 0.3).Execute(context.Background(), st))
		assert.InDelta(t, 0.9, st.RawResults[0].Score, 0.001)
		assert.InDelta(t, 0.8, st.RawResults[1].Score, 0.001)
	})
}

func TestRecencyDefaults(t *testing.T) {
	op := NewRecency("", -1)
	assert.Equal(t, defaultRecencyField, op.field)
	assert.InDelta(t, 0.3, op.weight, 0.001)
	assert.Equal(t, recencyHalfLife, op.halfLife)
}
