// Package profile consolidates raw questionnaire answers into a fuzzy vector
// over needs. The answer log is append-only; the aggregate and the
// independent set are derived from it and cached.
package profile

import (
	"time"

	"pawScout/business/fuzzy"
	"pawScout/domain"
)

type tally struct {
	yes     int
	no      int
	unknown int
}

type Profile struct {
	known map[string]struct{}

	answers     []domain.AnswerRecord
	aggregate   map[string]fuzzy.Value
	independent map[string]struct{}
	counts      map[string]*tally
}

// New creates an empty profile validated against the given needs set.
func New(needIDs []string) *Profile {
	p := &Profile{
		known:       make(map[string]struct{}, len(needIDs)),
		aggregate:   make(map[string]fuzzy.Value),
		independent: make(map[string]struct{}),
		counts:      make(map[string]*tally),
	}
	for _, id := range needIDs {
		p.known[id] = struct{}{}
	}
	return p
}

// AddAnswer appends a raw answer and folds it into the aggregate. Naming a
// need outside the current needs set fails with *domain.UnknownNeedError.
func (p *Profile) AddAnswer(needID string, answer domain.Answer, questionText string) error {
	if _, ok := p.known[needID]; !ok {
		return &domain.UnknownNeedError{ID: needID}
	}
	if !answer.Valid() {
		return &domain.SchemaError{Path: "answer", Reason: "unknown answer kind: " + string(answer)}
	}
	rec := domain.AnswerRecord{
		NeedID:    needID,
		Answer:    answer,
		Question:  questionText,
		Timestamp: time.Now().UTC(),
	}
	p.answers = append(p.answers, rec)
	p.apply(rec)
	return nil
}

// MarkIndependent is shorthand for an independent answer.
func (p *Profile) MarkIndependent(needID string) error {
	return p.AddAnswer(needID, domain.AnswerIndependent, "")
}

// apply folds one log entry into the cached aggregate. It is the single
// place that encodes the consensus rules, and replaying the log through it
// reproduces the cache exactly.
func (p *Profile) apply(rec domain.AnswerRecord) {
	switch rec.Answer {
	case domain.AnswerIndependent:
		// Overrides any prior aggregate for the need.
		delete(p.aggregate, rec.NeedID)
		delete(p.counts, rec.NeedID)
		p.independent[rec.NeedID] = struct{}{}
	case domain.AnswerUnknown:
		if _, ok := p.independent[rec.NeedID]; ok {
			// Only yes/no re-enters aggregation.
			return
		}
		p.bump(rec.NeedID, rec.Answer)
	case domain.AnswerYes, domain.AnswerNo:
		delete(p.independent, rec.NeedID)
		p.bump(rec.NeedID, rec.Answer)
	}
}

func (p *Profile) bump(needID string, answer domain.Answer) {
	t, ok := p.counts[needID]
	if !ok {
		t = &tally{}
		p.counts[needID] = t
	}
	switch answer {
	case domain.AnswerYes:
		t.yes++
	case domain.AnswerNo:
		t.no++
	case domain.AnswerUnknown:
		t.unknown++
	}
	p.aggregate[needID] = aggregate(*t)
}

// aggregate computes the consensus value for one need's tally: yes and no
// votes pull T and F, unknown answers dilute but do not refute.
func aggregate(t tally) fuzzy.Value {
	total := t.yes + t.no + t.unknown
	if t.yes+t.no == 0 {
		return fuzzy.Unknown
	}
	return fuzzy.Value{
		T: float64(t.yes) / float64(total),
		F: float64(t.no) / float64(total),
	}
}

// Needs returns the aggregated vector. Independent needs are absent.
func (p *Profile) Needs() map[string]fuzzy.Value {
	out := make(map[string]fuzzy.Value, len(p.aggregate))
	for id, v := range p.aggregate {
		out[id] = v
	}
	return out
}

func (p *Profile) Need(needID string) (fuzzy.Value, bool) {
	v, ok := p.aggregate[needID]
	return v, ok
}

// AnsweredNeedIDs is the union of the aggregated needs and the independent
// set: everything the questionnaire no longer needs to cover.
func (p *Profile) AnsweredNeedIDs() map[string]struct{} {
	out := make(map[string]struct{}, len(p.aggregate)+len(p.independent))
	for id := range p.aggregate {
		out[id] = struct{}{}
	}
	for id := range p.independent {
		out[id] = struct{}{}
	}
	return out
}

func (p *Profile) IsIndependent(needID string) bool {
	_, ok := p.independent[needID]
	return ok
}

// Answers returns a copy of the append-only log.
func (p *Profile) Answers() []domain.AnswerRecord {
	out := make([]domain.AnswerRecord, len(p.answers))
	copy(out, p.answers)
	return out
}

// Counts reports the yes/no/unknown tally currently feeding a need's
// aggregate.
func (p *Profile) Counts(needID string) (yes, no, unknown int) {
	t, ok := p.counts[needID]
	if !ok {
		return 0, 0, 0
	}
	return t.yes, t.no, t.unknown
}

// Confidence is how much the profile knows about a need: 1-(1-T)(1-F).
func (p *Profile) Confidence(needID string) float64 {
	v, ok := p.aggregate[needID]
	if !ok {
		return 0
	}
	return 1 - (1-v.T)*(1-v.F)
}
