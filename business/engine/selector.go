package engine

import (
	"math"

	"pawScout/business/fuzzy"
	"pawScout/domain"
)

// Selector ranks unanswered needs by the split their answer would induce on
// the current ranking. Candidates are the needs that have at least one
// question; the caller excludes already-covered needs via the answered set.
type Selector struct {
	m          *Matcher
	candidates []int // need indices, in need order
}

// QuestionRanking is one candidate need with its split score.
type QuestionRanking struct {
	NeedID string  `json:"need_id"`
	Split  float64 `json:"split"`
}

func NewSelector(m *Matcher, questions map[string][]domain.Question) *Selector {
	s := &Selector{m: m}
	for i, need := range m.needs {
		if len(questions[need.ID]) > 0 {
			s.candidates = append(s.candidates, i)
		}
	}
	return s
}

// Rankings scores every pending candidate. Only column k differs between the
// two hypothetical answers, so the active-need similarity sum is computed
// once per breed and reused across candidates.
func (s *Selector) Rankings(user map[string]fuzzy.Value, answered map[string]struct{}, topK int) []QuestionRanking {
	active, vals := s.m.activeNeeds(user)
	n := len(active)
	breeds := len(s.m.breeds)

	base := make([]float64, breeds)
	for bi := 0; bi < breeds; bi++ {
		for j, ni := range active {
			base[bi] += Similarity(vals[j], s.m.matrix.vals[ni][bi])
		}
	}

	var out []QuestionRanking
	for _, ni := range s.candidates {
		id := s.m.needs[ni].ID
		if _, ok := answered[id]; ok {
			continue
		}
		split := 0.0
		if breeds > 0 {
			col := s.m.matrix.column(ni)
			for bi := 0; bi < breeds; bi++ {
				simTrue := Similarity(fuzzy.True, col[bi])
				simFalse := Similarity(fuzzy.False, col[bi])
				sTrue := (base[bi] + simTrue) / float64(n+1)
				sFalse := (base[bi] + simFalse) / float64(n+1)
				split += math.Abs(sTrue - sFalse)
			}
			split /= float64(breeds)
		}
		out = append(out, QuestionRanking{NeedID: id, Split: split})
	}

	// Stable sort keeps original need order on ties.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Split > out[j-1].Split; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}
	return out
}

// SelectNext returns the candidate with the greatest split. ok is false when
// no candidate question remains: a distinguished empty result, not an error.
func (s *Selector) SelectNext(user map[string]fuzzy.Value, answered map[string]struct{}) (QuestionRanking, bool) {
	ranked := s.Rankings(user, answered, 1)
	if len(ranked) == 0 {
		return QuestionRanking{}, false
	}
	return ranked[0], true
}
