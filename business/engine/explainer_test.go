package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawScout/business/fuzzy"
)

func TestExplainSplitsProsConsConflicts(t *testing.T) {
	m := fixtureMatcher(t)
	user := map[string]fuzzy.Value{
		"active":    fuzzy.True,
		"apartment": {T: 0.5, F: 0.5},
	}

	explanations := Explain(m.MatchAll(user, 0))
	require.Len(t, explanations, 3)

	top := explanations[0]
	assert.Equal(t, "A", top.BreedID)
	require.Len(t, top.Pros, 1)
	assert.Equal(t, "active", top.Pros[0].NeedID)
	assert.False(t, top.Pros[0].Constraint)
	require.Len(t, top.Conflicts, 1)
	assert.Equal(t, "apartment", top.Conflicts[0].NeedID)
	assert.True(t, top.Conflicts[0].Constraint, "housing_environment is a constraint block")
	assert.Empty(t, top.Cons)

	bottom := explanations[2]
	assert.Equal(t, "C", bottom.BreedID)
	require.Len(t, bottom.Cons, 1)
	assert.Equal(t, "active", bottom.Cons[0].NeedID)
}

func TestExplainOrdersByContribution(t *testing.T) {
	results := []MatchResult{{
		BreedID: "x",
		Score:   0.8,
		Details: []NeedDetail{
			{NeedID: "a", User: fuzzy.True, Similarity: 0.7},
			{NeedID: "b", User: fuzzy.True, Similarity: 0.95},
			{NeedID: "c", User: fuzzy.True, Similarity: 0.2},
			{NeedID: "d", User: fuzzy.True, Similarity: 0.1},
		},
	}}

	e := Explain(results)[0]
	require.Len(t, e.Pros, 2)
	assert.Equal(t, "b", e.Pros[0].NeedID)
	assert.Equal(t, "a", e.Pros[1].NeedID)
	require.Len(t, e.Cons, 2)
	assert.Equal(t, "d", e.Cons[0].NeedID)
	assert.Equal(t, "c", e.Cons[1].NeedID)
}

func TestScoreBands(t *testing.T) {
	results := []MatchResult{
		{BreedID: "hi", Score: 0.9},
		{BreedID: "mid", Score: 0.5},
		{BreedID: "lo", Score: 0.1},
	}
	e := Explain(results)
	assert.Equal(t, 9, e[0].ScoreBand)
	assert.Equal(t, 5, e[1].ScoreBand)
	assert.Equal(t, 0, e[2].ScoreBand)

	flat := Explain([]MatchResult{{BreedID: "only", Score: 0.42}})
	assert.Equal(t, 5, flat[0].ScoreBand)
}
