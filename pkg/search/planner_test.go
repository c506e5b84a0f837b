package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPlanSkipsNilSlots(t *testing.T) {
	cfg := &SearchConfig{
		Embedding:    &fakeOperator{name: OpEmbedding},
		VectorSearch: &fakeOperator{name: OpVectorSearch},
	}
	plan := BuildPlan(cfg)
	assert.Equal(t, []string{OpEmbedding, OpVectorSearch}, PlanNames(plan))
}

func TestBuildPlanCanonicalOrder(t *testing.T) {
	var order []string
	cfg := fullPipelineConfig(&order)

	plan := BuildPlan(cfg)
	assert.Equal(t, []string{
		OpQueryExpansion,
		OpQueryInterpretation,
		OpQdrantFilter,
		OpEmbedding,
		OpVectorSearch,
		OpRecency,
		OpReranking,
		OpCompletion,
	}, PlanNames(plan))
}

func TestBuildPlanIsDeterministic(t *testing.T) {
	var order []string
	cfg := fullPipelineConfig(&order)

	first := PlanNames(BuildPlan(cfg))
	second := PlanNames(BuildPlan(cfg))
	assert.Equal(t, first, second)
}

func TestValidateRequiredSlots(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *SearchConfig
		wantErr bool
	}{
		{
			name: "both required present",
			cfg: &SearchConfig{
				Embedding:    &fakeOperator{name: OpEmbedding},
				VectorSearch: &fakeOperator{name: OpVectorSearch},
			},
		},
		{
			name:    "missing embedding",
			cfg:     &SearchConfig{VectorSearch: &fakeOperator{name: OpVectorSearch}},
			wantErr: true,
		},
		{
			name:    "missing vector search",
			cfg:     &SearchConfig{Embedding: &fakeOperator{name: OpEmbedding}},
			wantErr: true,
		},
		{
			name:    "empty config",
			cfg:     &SearchConfig{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMissingRequired)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
