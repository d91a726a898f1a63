package profile

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawScout/domain"
)

var needIDs = []string{"active", "apartment", "guard"}

func TestAggregationCounts(t *testing.T) {
	p := New(needIDs)
	require.NoError(t, p.AddAnswer("active", domain.AnswerYes, ""))
	require.NoError(t, p.AddAnswer("active", domain.AnswerYes, ""))
	require.NoError(t, p.AddAnswer("active", domain.AnswerNo, ""))

	v, ok := p.Need("active")
	require.True(t, ok)
	assert.InDelta(t, 2.0/3.0, v.T, 1e-9)
	assert.InDelta(t, 1.0/3.0, v.F, 1e-9)
}

func TestUnknownDilutesButDoesNotRefute(t *testing.T) {
	p := New(needIDs)
	require.NoError(t, p.AddAnswer("active", domain.AnswerYes, ""))
	require.NoError(t, p.AddAnswer("active", domain.AnswerUnknown, ""))

	v, ok := p.Need("active")
	require.True(t, ok)
	assert.InDelta(t, 0.5, v.T, 1e-9)
	assert.InDelta(t, 0.0, v.F, 1e-9)
}

func TestOnlyUnknownAnswersStayUnknown(t *testing.T) {
	p := New(needIDs)
	require.NoError(t, p.AddAnswer("active", domain.AnswerUnknown, ""))

	v, ok := p.Need("active")
	require.True(t, ok, "an asked need is covered even when unknown")
	assert.True(t, v.IsUnknown())

	_, answered := p.AnsweredNeedIDs()["active"]
	assert.True(t, answered)
}

func TestConflictingAnswers(t *testing.T) {
	p := New(needIDs)
	require.NoError(t, p.AddAnswer("active", domain.AnswerNo, ""))
	require.NoError(t, p.AddAnswer("active", domain.AnswerYes, ""))

	v, ok := p.Need("active")
	require.True(t, ok)
	assert.InDelta(t, 0.5, v.T, 1e-9)
	assert.InDelta(t, 0.5, v.F, 1e-9)
}

func TestIndependentOverride(t *testing.T) {
	p := New(needIDs)
	require.NoError(t, p.AddAnswer("active", domain.AnswerYes, ""))
	require.NoError(t, p.MarkIndependent("active"))

	_, ok := p.Need("active")
	assert.False(t, ok, "independent needs leave the aggregate")
	assert.True(t, p.IsIndependent("active"))
	_, answered := p.AnsweredNeedIDs()["active"]
	assert.True(t, answered)

	// A later yes/no re-enters aggregation from scratch.
	require.NoError(t, p.AddAnswer("active", domain.AnswerNo, ""))
	assert.False(t, p.IsIndependent("active"))
	yes, no, unknown := p.Counts("active")
	assert.Equal(t, 0, yes)
	assert.Equal(t, 1, no)
	assert.Equal(t, 0, unknown)
}

func TestUnknownDoesNotReenterIndependent(t *testing.T) {
	p := New(needIDs)
	require.NoError(t, p.MarkIndependent("guard"))
	require.NoError(t, p.AddAnswer("guard", domain.AnswerUnknown, ""))

	assert.True(t, p.IsIndependent("guard"))
	_, ok := p.Need("guard")
	assert.False(t, ok)
}

func TestUnknownNeedFails(t *testing.T) {
	p := New(needIDs)
	err := p.AddAnswer("does_not_exist", domain.AnswerYes, "")
	var uerr *domain.UnknownNeedError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "does_not_exist", uerr.ID)
}

func TestLogIsAppendOnly(t *testing.T) {
	p := New(needIDs)
	require.NoError(t, p.AddAnswer("active", domain.AnswerYes, "Do you hike?"))
	require.NoError(t, p.MarkIndependent("active"))

	log := p.Answers()
	require.Len(t, log, 2)
	assert.Equal(t, domain.AnswerYes, log[0].Answer)
	assert.Equal(t, "Do you hike?", log[0].Question)
	assert.Equal(t, domain.AnswerIndependent, log[1].Answer)

	// Mutating the copy must not touch the profile.
	log[0].Answer = domain.AnswerNo
	assert.Equal(t, domain.AnswerYes, p.Answers()[0].Answer)
}

func TestConfidence(t *testing.T) {
	p := New(needIDs)
	assert.Equal(t, 0.0, p.Confidence("active"))

	require.NoError(t, p.AddAnswer("active", domain.AnswerYes, ""))
	assert.InDelta(t, 1.0, p.Confidence("active"), 1e-9)

	require.NoError(t, p.AddAnswer("active", domain.AnswerUnknown, ""))
	// (0.5, 0) knows half as much: 1-(1-0.5)(1-0) = 0.5.
	assert.InDelta(t, 0.5, p.Confidence("active"), 1e-9)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p := New(needIDs)
	require.NoError(t, p.AddAnswer("active", domain.AnswerYes, "Do you hike?"))
	require.NoError(t, p.AddAnswer("active", domain.AnswerNo, ""))
	require.NoError(t, p.AddAnswer("apartment", domain.AnswerUnknown, ""))
	require.NoError(t, p.MarkIndependent("guard"))

	data, err := p.Save()
	require.NoError(t, err)

	loaded, err := Load(data, needIDs, LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, p.Needs(), loaded.Needs())
	assert.Equal(t, p.AnsweredNeedIDs(), loaded.AnsweredNeedIDs())
	assert.True(t, loaded.IsIndependent("guard"))
	assert.Len(t, loaded.Answers(), 4)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load([]byte(`{"version":1,"answers":[],"mood":"great"}`), needIDs, LoadOptions{})
	var serr *domain.SchemaError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "mood", serr.Path)

	_, err = Load([]byte(`{"version":1,"answers":[{"need_id":"active","answer":"yes","weight":2}]}`), needIDs, LoadOptions{})
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "answers[0].weight", serr.Path)
}

func TestLoadAllowsExtArea(t *testing.T) {
	doc := `{"version":1,"ext":{"client":"cli"},"answers":[{"need_id":"active","answer":"yes","ext":{"ui":"swipe"}}]}`
	p, err := Load([]byte(doc), needIDs, LoadOptions{})
	require.NoError(t, err)
	_, ok := p.Need("active")
	assert.True(t, ok)
}

func TestLoadRejectsBadVersionAndAnswer(t *testing.T) {
	var serr *domain.SchemaError

	_, err := Load([]byte(`{"version":2,"answers":[]}`), needIDs, LoadOptions{})
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "version", serr.Path)

	_, err = Load([]byte(`{"version":1,"answers":[{"need_id":"active","answer":"maybe"}]}`), needIDs, LoadOptions{})
	require.ErrorAs(t, err, &serr)
}

func TestLoadUnknownNeed(t *testing.T) {
	doc := `{"version":1,"answers":[{"need_id":"ghost","answer":"yes"}]}`

	_, err := Load([]byte(doc), needIDs, LoadOptions{})
	var uerr *domain.UnknownNeedError
	require.ErrorAs(t, err, &uerr)

	p, err := Load([]byte(doc), needIDs, LoadOptions{IgnoreUnknownNeeds: true})
	require.NoError(t, err)
	assert.Empty(t, p.Needs())
	assert.Empty(t, p.Answers())
}

func TestDocShape(t *testing.T) {
	p := New(needIDs)
	require.NoError(t, p.AddAnswer("active", domain.AnswerYes, "Do you hike?"))

	data, err := p.Save()
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, float64(1), raw["version"])
	answers := raw["answers"].([]any)
	require.Len(t, answers, 1)
	first := answers[0].(map[string]any)
	assert.Equal(t, "active", first["need_id"])
	assert.Equal(t, "yes", first["answer"])
	assert.Equal(t, "Do you hike?", first["question"])
	assert.Contains(t, first, "timestamp")
}
