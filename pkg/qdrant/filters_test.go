package qdrant

import (
	"testing"
	"time"

	qdrantgo "github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterFromConditions(t *testing.T) {
	assert.Nil(t, FilterFromConditions())
	assert.Nil(t, FilterFromConditions(nil, nil))

	f := FilterFromConditions(MatchCondition("source", "github"), nil)
	require.NotNil(t, f)
	assert.Len(t, f.GetMust(), 1)
}

func TestDatetimeRangeCondition(t *testing.T) {
	assert.Nil(t, DatetimeRangeCondition("created_at", nil, nil))

	after := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	before := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	c := DatetimeRangeCondition("created_at", &after, &before)
	require.NotNil(t, c)
	r := c.GetField().GetDatetimeRange()
	require.NotNil(t, r)
	assert.Equal(t, after.Unix(), r.GetGte().AsTime().Unix())
	assert.Equal(t, before.Unix(), r.GetLte().AsTime().Unix())

	half := DatetimeRangeCondition("created_at", &after, nil)
	require.NotNil(t, half)
	assert.Nil(t, half.GetField().GetDatetimeRange().GetLte())
}

func TestMergeFilters(t *testing.T) {
	a := FilterFromConditions(MatchCondition("source", "github"))
	b := FilterFromConditions(MatchCondition("status", "open"))

	assert.Nil(t, MergeFilters(nil, nil))
	assert.Equal(t, a, MergeFilters(a, nil))
	assert.Equal(t, b, MergeFilters(nil, b))

	merged := MergeFilters(a, b)
	require.NotNil(t, merged)
	assert.Len(t, merged.GetMust(), 2)

	// Merge does not mutate its inputs.
	assert.Len(t, a.GetMust(), 1)
	assert.Len(t, b.GetMust(), 1)
}

func TestValueConversion(t *testing.T) {
	assert.Nil(t, payloadToMap(nil))

	payload := map[string]*qdrantgo.Value{
		"title": {Kind: &qdrantgo.Value_StringValue{StringValue: "doc"}},
		"stars": {Kind: &qdrantgo.Value_IntegerValue{IntegerValue: 42}},
		"score": {Kind: &qdrantgo.Value_DoubleValue{DoubleValue: 0.5}},
		"open":  {Kind: &qdrantgo.Value_BoolValue{BoolValue: true}},
		"none":  {Kind: &qdrantgo.Value_NullValue{}},
		"tags": {Kind: &qdrantgo.Value_ListValue{ListValue: &qdrantgo.ListValue{
			Values: []*qdrantgo.Value{{Kind: &qdrantgo.Value_StringValue{StringValue: "go"}}},
		}}},
	}

	m := payloadToMap(payload)
	assert.Equal(t, "doc", m["title"])
	assert.Equal(t, int64(42), m["stars"])
	assert.Equal(t, 0.5, m["score"])
	assert.Equal(t, true, m["open"])
	assert.Nil(t, m["none"])
	assert.Equal(t, []any{"go"}, m["tags"])
}
