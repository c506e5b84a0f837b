package operations

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/Zeeeepa/airweave/pkg/search"
)

// Recency blends an exponential time-decay signal into the similarity
// scores: each result's freshness is 0.5^(age/halfLife), with age measured
// from the newest timestamp in the result set, and the score becomes
// score*(1-weight) + freshness*weight before re-sorting. Results without a
// parseable timestamp keep their raw score.
type Recency struct {
	field    string
	weight   float64
	halfLife time.Duration
}

// NewRecency creates the operator. field is the payload key carrying an
// RFC 3339 timestamp; weight in (0, 1] controls how strongly freshness
// displaces similarity.
func NewRecency(field string, weight float64) *Recency {
	if field == "" {
		field = defaultRecencyField
	}
	if weight <= 0 || weight > 1 {
		weight = 0.3
	}
	return &Recency{field: field, weight: weight, halfLife: recencyHalfLife}
}

func (o *Recency) Name() string { return search.OpRecency }

func (o *Recency) DependsOn() []string {
	return []string{search.OpVectorSearch}
}

func (o *Recency) Execute(_ context.Context, st *search.State) error {
	if len(st.RawResults) == 0 {
		st.Log().Debug("Recency skipped, no results")
		return nil
	}

	times := make([]*time.Time, len(st.RawResults))
	var oldest, newest *time.Time
	parsed := 0
	for i, r := range st.RawResults {
		s, ok := r.Payload[o.field].(string)
		if !ok {
			continue
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			continue
		}
		times[i] = &t
		parsed++
		if oldest == nil || t.Before(*oldest) {
			oldest = &t
		}
		if newest == nil || t.After(*newest) {
			newest = &t
		}
	}

	if parsed == 0 || newest.Equal(*oldest) {
		st.Log().Debug("Recency skipped, no usable timestamp spread", "parsed", parsed)
		return nil
	}

	for i := range st.RawResults {
		if times[i] == nil {
			continue
		}
		age := newest.Sub(*times[i])
		freshness := math.Pow(0.5, age.Seconds()/o.halfLife.Seconds())
		st.RawResults[i].Score = st.RawResults[i].Score*(1-o.weight) + freshness*o.weight
	}

	sort.SliceStable(st.RawResults, func(i, j int) bool {
		return st.RawResults[i].Score > st.RawResults[j].Score
	})

	st.Log().Debug("Applied recency scoring", "weight", o.weight, "half_life", o.halfLife, "with_timestamp", parsed, "results", len(st.RawResults))
	return nil
}
