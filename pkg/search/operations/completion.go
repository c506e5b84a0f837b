package operations

import (
	"context"
	"fmt"
	"strings"

	"github.com/Zeeeepa/airweave/pkg/openai"
	"github.com/Zeeeepa/airweave/pkg/search"
)

const completionSystemPrompt = `You answer questions using only the provided documents. Cite nothing outside them. If the documents do not contain the answer, say so plainly.`

// Completion generates a natural-language answer grounded in the top
// results. Critical when configured: the caller asked for an answer, so
// LLM failures abort the pipeline.
type Completion struct {
	chat openai.ChatCompleter
	docs int
}

// NewCompletion creates the operator. docs caps how many results are
// passed as grounding context.
func NewCompletion(chat openai.ChatCompleter, docs int) *Completion {
	if docs <= 0 {
		docs = defaultCompletionDocs
	}
	return &Completion{chat: chat, docs: docs}
}

func (o *Completion) Name() string { return search.OpCompletion }

func (o *Completion) DependsOn() []string {
	return []string{search.OpVectorSearch, search.OpRecency, search.OpReranking}
}

func (o *Completion) Execute(ctx context.Context, st *search.State) error {
	results := st.FinalResults
	if results == nil {
		results = st.RawResults
	}
	if len(results) == 0 {
		st.Log().Debug("Completion skipped, no results to ground an answer")
		return nil
	}

	n := min(o.docs, len(results))
	var b strings.Builder
	b.WriteString("Documents:\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, resultSnippet(results[i].Payload, snippetMaxLen))
	}
	fmt.Fprintf(&b, "\nQuestion: %s", st.Query)

	answer, err := o.chat.Complete(ctx, openai.CompletionRequest{
		System:      completionSystemPrompt,
		User:        b.String(),
		Temperature: 0.3,
		MaxTokens:   700,
	})
	if err != nil {
		return fmt.Errorf("generating completion: %w", err)
	}

	st.Completion = answer
	st.Log().Debug("Generated completion", "context_docs", n, "answer_length", len(answer))
	return nil
}
