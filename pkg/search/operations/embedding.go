package operations

import (
	"context"
	"fmt"

	"github.com/Zeeeepa/airweave/pkg/openai"
	"github.com/Zeeeepa/airweave/pkg/search"
)

// Embedding converts the query phrasings into dense vectors. Critical:
// retrieval is impossible without vectors, so failures abort the pipeline.
type Embedding struct {
	embedder openai.Embedder
}

func NewEmbedding(embedder openai.Embedder) *Embedding {
	return &Embedding{embedder: embedder}
}

func (o *Embedding) Name() string { return search.OpEmbedding }

func (o *Embedding) DependsOn() []string {
	// Runs after all query shaping so it embeds the final phrasing set.
	return []string{search.OpQueryExpansion, search.OpQueryInterpretation, search.OpQdrantFilter}
}

func (o *Embedding) Execute(ctx context.Context, st *search.State) error {
	texts := st.ExpandedQueries
	if len(texts) == 0 {
		texts = []string{st.Query}
	}

	vectors, err := o.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding %d queries: %w", len(texts), err)
	}

	st.Embeddings = vectors
	st.Log().Debug("Embedded queries", "texts", len(texts), "vectors", len(vectors))
	return nil
}
