package operations

import (
	"context"

	qdrantgo "github.com/qdrant/go-client/qdrant"

	"github.com/Zeeeepa/airweave/pkg/qdrant"
	"github.com/Zeeeepa/airweave/pkg/search"
)

// QdrantFilter attaches the caller-provided vector-store filter to the
// state. Query interpretation defers to it, so in practice this replaces
// whatever was there.
type QdrantFilter struct {
	filter *qdrantgo.Filter
}

func NewQdrantFilter(filter *qdrantgo.Filter) *QdrantFilter {
	return &QdrantFilter{filter: filter}
}

func (o *QdrantFilter) Name() string { return search.OpQdrantFilter }

func (o *QdrantFilter) DependsOn() []string {
	return []string{search.OpQueryInterpretation, search.OpQueryExpansion}
}

func (o *QdrantFilter) Execute(_ context.Context, st *search.State) error {
	if o.filter == nil {
		return nil
	}
	st.Filter = qdrant.MergeFilters(st.Filter, o.filter)
	st.Log().Debug("Applied caller filter",
		"must", len(st.Filter.GetMust()),
		"must_not", len(st.Filter.GetMustNot()),
		"should", len(st.Filter.GetShould()))
	return nil
}
