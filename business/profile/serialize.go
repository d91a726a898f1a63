package profile

import (
	"encoding/json"
	"fmt"
	"time"

	"pawScout/domain"
)

// docVersion is the only profile document version this build reads.
const docVersion = 1

// Doc builds the portable document. Only the raw log is persisted; the
// aggregate and the independent set are recomputed on load.
func (p *Profile) Doc() domain.ProfileDoc {
	doc := domain.ProfileDoc{
		Version: docVersion,
		Answers: make([]domain.AnswerDoc, 0, len(p.answers)),
	}
	for _, rec := range p.answers {
		ad := domain.AnswerDoc{
			NeedID:   rec.NeedID,
			Answer:   rec.Answer,
			Question: rec.Question,
		}
		if !rec.Timestamp.IsZero() {
			ts := rec.Timestamp
			ad.Timestamp = &ts
		}
		doc.Answers = append(doc.Answers, ad)
	}
	return doc
}

// Save marshals the portable document.
func (p *Profile) Save() ([]byte, error) {
	return json.Marshal(p.Doc())
}

type LoadOptions struct {
	// IgnoreUnknownNeeds drops answers referencing needs outside the
	// current needs set instead of failing.
	IgnoreUnknownNeeds bool
}

// Load parses and replays a portable document against the given needs set.
// Unknown fields outside the ext areas fail with *domain.SchemaError; an
// answer naming a foreign need fails with *domain.UnknownNeedError unless
// opts ignores it.
func Load(data []byte, needIDs []string, opts LoadOptions) (*Profile, error) {
	doc, err := parseDoc(data)
	if err != nil {
		return nil, err
	}

	p := New(needIDs)
	for i, ad := range doc.Answers {
		if !ad.Answer.Valid() {
			return nil, &domain.SchemaError{
				Path:   fmt.Sprintf("answers[%d].answer", i),
				Reason: "unknown answer kind: " + string(ad.Answer),
			}
		}
		if _, ok := p.known[ad.NeedID]; !ok {
			if opts.IgnoreUnknownNeeds {
				continue
			}
			return nil, &domain.UnknownNeedError{ID: ad.NeedID}
		}
		rec := domain.AnswerRecord{
			NeedID:   ad.NeedID,
			Answer:   ad.Answer,
			Question: ad.Question,
		}
		if ad.Timestamp != nil {
			rec.Timestamp = *ad.Timestamp
		}
		p.answers = append(p.answers, rec)
		p.apply(rec)
	}
	return p, nil
}

var docFields = map[string]struct{}{"version": {}, "answers": {}, "ext": {}}

var answerFields = map[string]struct{}{
	"need_id": {}, "answer": {}, "question": {}, "timestamp": {}, "ext": {},
}

// parseDoc decodes strictly: the document and each answer may carry only the
// declared fields plus their ext areas.
func parseDoc(data []byte) (domain.ProfileDoc, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.ProfileDoc{}, &domain.SchemaError{Path: "$", Reason: err.Error()}
	}
	for k := range raw {
		if _, ok := docFields[k]; !ok {
			return domain.ProfileDoc{}, &domain.SchemaError{Path: k, Reason: "unknown field"}
		}
	}

	var doc domain.ProfileDoc
	if v, ok := raw["version"]; ok {
		if err := json.Unmarshal(v, &doc.Version); err != nil {
			return domain.ProfileDoc{}, &domain.SchemaError{Path: "version", Reason: err.Error()}
		}
	}
	if doc.Version != docVersion {
		return domain.ProfileDoc{}, &domain.SchemaError{
			Path:   "version",
			Reason: fmt.Sprintf("unsupported version %d", doc.Version),
		}
	}

	rawAnswers := []json.RawMessage{}
	if v, ok := raw["answers"]; ok {
		if err := json.Unmarshal(v, &rawAnswers); err != nil {
			return domain.ProfileDoc{}, &domain.SchemaError{Path: "answers", Reason: err.Error()}
		}
	}
	for i, ra := range rawAnswers {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(ra, &fields); err != nil {
			return domain.ProfileDoc{}, &domain.SchemaError{Path: fmt.Sprintf("answers[%d]", i), Reason: err.Error()}
		}
		for k := range fields {
			if _, ok := answerFields[k]; !ok {
				return domain.ProfileDoc{}, &domain.SchemaError{
					Path:   fmt.Sprintf("answers[%d].%s", i, k),
					Reason: "unknown field",
				}
			}
		}
		var ad domain.AnswerDoc
		if err := unmarshalField(fields, "need_id", &ad.NeedID, i); err != nil {
			return domain.ProfileDoc{}, err
		}
		if err := unmarshalField(fields, "answer", &ad.Answer, i); err != nil {
			return domain.ProfileDoc{}, err
		}
		if err := unmarshalField(fields, "question", &ad.Question, i); err != nil {
			return domain.ProfileDoc{}, err
		}
		var ts time.Time
		if rawTS, ok := fields["timestamp"]; ok {
			if err := json.Unmarshal(rawTS, &ts); err != nil {
				return domain.ProfileDoc{}, &domain.SchemaError{
					Path:   fmt.Sprintf("answers[%d].timestamp", i),
					Reason: err.Error(),
				}
			}
			ad.Timestamp = &ts
		}
		doc.Answers = append(doc.Answers, ad)
	}
	return doc, nil
}

func unmarshalField[T any](fields map[string]json.RawMessage, name string, dst *T, idx int) error {
	raw, ok := fields[name]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &domain.SchemaError{
			Path:   fmt.Sprintf("answers[%d].%s", idx, name),
			Reason: err.Error(),
		}
	}
	return nil
}
