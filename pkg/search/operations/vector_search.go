package operations

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Zeeeepa/airweave/pkg/qdrant"
	"github.com/Zeeeepa/airweave/pkg/search"
)

// VectorSearch queries Qdrant with every query embedding and merges the
// result sets. Critical: failures abort the pipeline.
type VectorSearch struct {
	store      qdrant.Searcher
	collection string
}

// NewVectorSearch creates the operator. collection is the Qdrant
// collection name resolved by the caller.
func NewVectorSearch(store qdrant.Searcher, collection string) *VectorSearch {
	return &VectorSearch{store: store, collection: collection}
}

func (o *VectorSearch) Name() string { return search.OpVectorSearch }

func (o *VectorSearch) DependsOn() []string {
	return []string{search.OpEmbedding, search.OpQdrantFilter}
}

func (o *VectorSearch) Execute(ctx context.Context, st *search.State) error {
	if len(st.Embeddings) == 0 {
		return errors.New("no embeddings available for vector search")
	}

	cfg := st.Config
	limit := cfg.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := cfg.Offset
	if offset < 0 {
		offset = 0
	}

	var threshold *float32
	if cfg.ScoreThreshold != nil {
		v := float32(*cfg.ScoreThreshold)
		threshold = &v
	}

	// Single-vector searches page server side. Multi-vector searches
	// over-fetch each query, merge by point keeping the best score, and
	// page after the merge.
	if len(st.Embeddings) == 1 {
		points, err := o.store.Query(ctx, qdrant.QueryParams{
			Collection:     o.collection,
			Vector:         st.Embeddings[0],
			Limit:          uint64(limit),
			Offset:         uint64(offset),
			ScoreThreshold: threshold,
			Filter:         st.Filter,
		})
		if err != nil {
			return fmt.Errorf("vector search: %w", err)
		}
		st.RawResults = toSearchResults(points)
		st.Log().Debug("Vector search finished", "queries", 1, "results", len(st.RawResults))
		return nil
	}

	best := make(map[string]qdrant.ScoredResult)
	for _, vector := range st.Embeddings {
		points, err := o.store.Query(ctx, qdrant.QueryParams{
			Collection:     o.collection,
			Vector:         vector,
			Limit:          uint64(offset + limit),
			ScoreThreshold: threshold,
			Filter:         st.Filter,
		})
		if err != nil {
			return fmt.Errorf("vector search: %w", err)
		}
		for _, p := range points {
			if cur, ok := best[p.ID]; !ok || p.Score > cur.Score {
				best[p.ID] = p
			}
		}
	}

	merged := make([]qdrant.ScoredResult, 0, len(best))
	for _, p := range best {
		merged = append(merged, p)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		return merged[i].ID < merged[j].ID
	})

	if offset >= len(merged) {
		merged = nil
	} else {
		merged = merged[offset:]
	}
	if len(merged) > limit {
		merged = merged[:limit]
	}

	st.RawResults = toSearchResults(merged)
	st.Log().Debug("Vector search finished", "queries", len(st.Embeddings), "results", len(st.RawResults))
	return nil
}

func toSearchResults(points []qdrant.ScoredResult) []search.SearchResult {
	results := make([]search.SearchResult, 0, len(points))
	for _, p := range points {
		results = append(results, search.SearchResult{
			ID:      p.ID,
			Score:   float64(p.Score),
			Payload: p.Payload,
		})
	}
	return results
}
