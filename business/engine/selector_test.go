package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawScout/business/fuzzy"
	"pawScout/domain"
)

func fixtureQuestions() map[string][]domain.Question {
	return map[string][]domain.Question{
		"active":    {{ID: "active_q1", NeedID: "active", Text: "Do you hike a lot?", Weight: 0.9}},
		"apartment": {{ID: "apt_q1", NeedID: "apartment", Text: "Do you live in a flat?", Weight: 0.9}},
	}
}

func TestSelectorPrefersWidestSpread(t *testing.T) {
	m := fixtureMatcher(t)
	s := NewSelector(m, fixtureQuestions())

	// active spans 0.1..0.9 while apartment is dampened by the UNKNOWN
	// barking literal, so active must win on an empty profile.
	best, ok := s.SelectNext(nil, nil)
	require.True(t, ok)
	assert.Equal(t, "active", best.NeedID)

	// Exact splits: mean |2v-1| = 0.5333... and mean (1-apt) = 0.4.
	ranked := s.Rankings(nil, nil, 0)
	require.Len(t, ranked, 2)
	assert.InDelta(t, (0.8+0.0+0.8)/3, ranked[0].Split, 1e-9)
	assert.Equal(t, "apartment", ranked[1].NeedID)
	assert.InDelta(t, (0.8+0.3+0.1)/3, ranked[1].Split, 1e-9)
}

func TestSplitIsBounded(t *testing.T) {
	m := fixtureMatcher(t)
	s := NewSelector(m, fixtureQuestions())

	users := []map[string]fuzzy.Value{
		nil,
		{"active": fuzzy.True},
		{"active": {T: 0.5, F: 0.5}},
		{"apartment": fuzzy.False},
	}
	for _, user := range users {
		answered := make(map[string]struct{})
		for id := range user {
			answered[id] = struct{}{}
		}
		for _, r := range s.Rankings(user, answered, 0) {
			assert.GreaterOrEqual(t, r.Split, 0.0)
			assert.LessOrEqual(t, r.Split, 1.0)
		}
	}
}

func TestAnsweredNeedsAreSkipped(t *testing.T) {
	m := fixtureMatcher(t)
	s := NewSelector(m, fixtureQuestions())

	best, ok := s.SelectNext(map[string]fuzzy.Value{"active": fuzzy.True}, map[string]struct{}{"active": {}})
	require.True(t, ok)
	assert.Equal(t, "apartment", best.NeedID)

	_, ok = s.SelectNext(nil, map[string]struct{}{"active": {}, "apartment": {}})
	assert.False(t, ok, "exhausted candidates must yield the empty result")
}

func TestNeedWithoutQuestionIsNotACandidate(t *testing.T) {
	m := fixtureMatcher(t)
	s := NewSelector(m, map[string][]domain.Question{
		"apartment": {{ID: "apt_q1", NeedID: "apartment", Text: "Flat?", Weight: 1}},
	})

	ranked := s.Rankings(nil, nil, 0)
	require.Len(t, ranked, 1)
	assert.Equal(t, "apartment", ranked[0].NeedID)
}

func TestBetterAnswerDoesNotLowerTopScore(t *testing.T) {
	m := fixtureMatcher(t)
	s := NewSelector(m, fixtureQuestions())

	user := map[string]fuzzy.Value{}
	best, ok := s.SelectNext(user, nil)
	require.True(t, ok)

	before := m.MatchFast(user, 1, nil)[0].Score

	withTrue := map[string]fuzzy.Value{best.NeedID: fuzzy.True}
	withFalse := map[string]fuzzy.Value{best.NeedID: fuzzy.False}
	topTrue := m.MatchFast(withTrue, 1, nil)[0].Score
	topFalse := m.MatchFast(withFalse, 1, nil)[0].Score

	betterTop := topTrue
	if topFalse > betterTop {
		betterTop = topFalse
	}
	assert.GreaterOrEqual(t, betterTop, before)
}

func TestSelectorOnEmptyCatalog(t *testing.T) {
	table, err := NewFeatureTable([]string{"energy"}, nil)
	require.NoError(t, err)
	m, err := NewMatcher(table, []domain.Need{{ID: "active", Formula: "energy"}}, nil)
	require.NoError(t, err)
	s := NewSelector(m, map[string][]domain.Question{
		"active": {{ID: "q", NeedID: "active", Text: "?", Weight: 1}},
	})

	ranked := s.Rankings(nil, nil, 0)
	require.Len(t, ranked, 1)
	assert.Equal(t, 0.0, ranked[0].Split)
}
