package operations

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	qdrantgo "github.com/qdrant/go-client/qdrant"

	"github.com/Zeeeepa/airweave/pkg/openai"
	"github.com/Zeeeepa/airweave/pkg/qdrant"
	"github.com/Zeeeepa/airweave/pkg/search"
)

const interpretationSystemPrompt = `You extract structured filters from search queries. Given a query (and alternative phrasings), identify explicit constraints: source systems, statuses, authors, or time windows. Respond with a JSON object:
{"conditions":[{"field":"...","value":"..."}],"after":"RFC3339 timestamp or null","before":"RFC3339 timestamp or null","confidence":0.0}
Only include constraints the query states explicitly. confidence reflects how certain you are that the filters are intended. Respond with JSON and nothing else.`

// interpretation is the JSON shape the LLM is asked to produce.
type interpretation struct {
	Conditions []struct {
		Field string `json:"field"`
		Value string `json:"value"`
	} `json:"conditions"`
	After      *string `json:"after"`
	Before     *string `json:"before"`
	Confidence float64 `json:"confidence"`
}

// QueryInterpretation derives vector-store filter conditions from the
// natural-language query. Advisory: failures and low-confidence
// extractions leave the state's filter untouched, and a caller-provided
// filter disables inference entirely.
type QueryInterpretation struct {
	chat openai.ChatCompleter
}

func NewQueryInterpretation(chat openai.ChatCompleter) *QueryInterpretation {
	return &QueryInterpretation{chat: chat}
}

func (o *QueryInterpretation) Name() string { return search.OpQueryInterpretation }

func (o *QueryInterpretation) DependsOn() []string {
	return []string{search.OpQueryExpansion}
}

func (o *QueryInterpretation) Execute(ctx context.Context, st *search.State) error {
	// A caller-provided filter takes precedence over anything inferred
	// from the query text.
	if st.Config != nil && st.Config.QdrantFilter != nil {
		st.Log().Debug("Caller supplied a filter; skipping filter inference")
		return nil
	}

	user := "Query: " + st.Query
	if len(st.ExpandedQueries) > 1 {
		user += "\nAlternative phrasings: " + strings.Join(st.ExpandedQueries[1:], "; ")
	}

	raw, err := o.chat.Complete(ctx, openai.CompletionRequest{
		System:    interpretationSystemPrompt,
		User:      user,
		MaxTokens: 400,
	})
	if err != nil {
		st.Log().Warn("Query interpretation failed, continuing without derived filter", "error", err)
		return nil
	}

	var parsed interpretation
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &parsed); err != nil {
		st.Log().Warn("Query interpretation returned unparseable output", "error", err)
		return nil
	}
	if parsed.Confidence < minFilterConfidence {
		st.Log().Debug("Skipping low-confidence derived filter", "confidence", parsed.Confidence)
		return nil
	}

	conditions := make([]*qdrantgo.Condition, 0, len(parsed.Conditions)+1)
	for _, c := range parsed.Conditions {
		if c.Field == "" || c.Value == "" {
			continue
		}
		conditions = append(conditions, qdrant.MatchCondition(c.Field, c.Value))
	}
	if cond := qdrant.DatetimeRangeCondition(defaultRecencyField, parseTimePtr(st, parsed.After), parseTimePtr(st, parsed.Before)); cond != nil {
		conditions = append(conditions, cond)
	}

	derived := qdrant.FilterFromConditions(conditions...)
	if derived == nil {
		st.Log().Debug("Query interpretation found no filterable constraints")
		return nil
	}

	st.Filter = qdrant.MergeFilters(st.Filter, derived)
	st.Log().Debug("Derived filter from query", "conditions", len(conditions), "confidence", parsed.Confidence)
	return nil
}

func parseTimePtr(st *search.State, s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		st.Log().Debug("Ignoring unparseable timestamp from interpretation", "value", *s)
		return nil
	}
	return &t
}
