package qdrant

import (
	"time"

	qdrantgo "github.com/qdrant/go-client/qdrant"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// MatchCondition builds an exact keyword match on a payload field.
func MatchCondition(field, value string) *qdrantgo.Condition {
	return qdrantgo.NewMatch(field, value)
}

// DatetimeRangeCondition builds a time-window condition on a payload
// datetime field. Either bound may be nil for a half-open range; both nil
// returns nil.
func DatetimeRangeCondition(field string, after, before *time.Time) *qdrantgo.Condition {
	if after == nil && before == nil {
		return nil
	}
	r := &qdrantgo.DatetimeRange{}
	if after != nil {
		r.Gte = timestamppb.New(*after)
	}
	if before != nil {
		r.Lte = timestamppb.New(*before)
	}
	return qdrantgo.NewDatetimeRange(field, r)
}

// MergeFilters combines two filters with AND semantics by concatenating
// their clause lists. Either side may be nil.
func MergeFilters(base, extra *qdrantgo.Filter) *qdrantgo.Filter {
	if base == nil {
		return extra
	}
	if extra == nil {
		return base
	}
	return &qdrantgo.Filter{
		Must:    append(append([]*qdrantgo.Condition{}, base.GetMust()...), extra.GetMust()...),
		MustNot: append(append([]*qdrantgo.Condition{}, base.GetMustNot()...), extra.GetMustNot()...),
		Should:  append(append([]*qdrantgo.Condition{}, base.GetShould()...), extra.GetShould()...),
	}
}

// FilterFromConditions wraps conditions in a conjunctive filter, skipping
// nils. Returns nil when nothing remains.
func FilterFromConditions(conditions ...*qdrantgo.Condition) *qdrantgo.Filter {
	must := make([]*qdrantgo.Condition, 0, len(conditions))
	for _, c := range conditions {
		if c != nil {
			must = append(must, c)
		}
	}
	if len(must) == 0 {
		return nil
	}
	return &qdrantgo.Filter{Must: must}
}
