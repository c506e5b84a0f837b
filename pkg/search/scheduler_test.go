package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func opsByName(ops []Operator) []string {
	if len(ops) == 0 {
		return nil
	}
	return PlanNames(ops)
}

func TestFindReady(t *testing.T) {
	a := &fakeOperator{name: "a"}
	b := &fakeOperator{name: "b", deps: []string{"a"}}
	c := &fakeOperator{name: "c", deps: []string{"a", "b"}}

	tests := []struct {
		name     string
		plan     []Operator
		executed map[string]bool
		want     []string
	}{
		{
			name: "empty plan",
			plan: nil,
			want: nil,
		},
		{
			name: "no dependencies all ready",
			plan: []Operator{a, &fakeOperator{name: "x"}},
			want: []string{"a", "x"},
		},
		{
			name: "chain runs head first",
			plan: []Operator{a, b, c},
			want: []string{"a"},
		},
		{
			name:     "chain after head executed",
			plan:     []Operator{a, b, c},
			executed: map[string]bool{"a": true},
			want:     []string{"b"},
		},
		{
			name:     "fully executed",
			plan:     []Operator{a, b},
			executed: map[string]bool{"a": true, "b": true},
			want:     nil,
		},
		{
			name: "dependency absent from plan is satisfied",
			plan: []Operator{b},
			want: []string{"b"},
		},
		{
			name: "mixed absent and present dependencies",
			plan: []Operator{a, c},
			want: []string{"a"},
		},
		{
			name: "cycle yields nothing",
			plan: []Operator{
				&fakeOperator{name: "x", deps: []string{"y"}},
				&fakeOperator{name: "y", deps: []string{"x"}},
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			executed := tt.executed
			if executed == nil {
				executed = map[string]bool{}
			}
			got := FindReady(tt.plan, executed)
			assert.Equal(t, tt.want, opsByName(got))
		})
	}
}

func TestFindReadyIsIdempotent(t *testing.T) {
	plan := []Operator{
		&fakeOperator{name: "a"},
		&fakeOperator{name: "b", deps: []string{"a"}},
		&fakeOperator{name: "c", deps: []string{"missing"}},
	}
	executed := map[string]bool{"a": true}

	first := FindReady(plan, executed)
	second := FindReady(plan, executed)
	assert.Equal(t, opsByName(first), opsByName(second))
	assert.Equal(t, []string{"b", "c"}, opsByName(first))
}

func TestFindReadyPreservesPlanOrder(t *testing.T) {
	plan := []Operator{
		&fakeOperator{name: "third"},
		&fakeOperator{name: "second"},
		&fakeOperator{name: "first"},
	}
	got := FindReady(plan, map[string]bool{})
	assert.Equal(t, []string{"third", "second", "first"}, opsByName(got))
}
