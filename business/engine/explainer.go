package engine

import "sort"

// Blocks treated as hard facts about the user's situation rather than soft
// preferences, carried over for display layers.
var constraintBlocks = map[string]struct{}{
	"size_constraints":    {},
	"housing_environment": {},
}

// Explanation is the structured per-breed breakdown of a ranking. Pros are
// the best-matching needs first, cons the worst first; needs the user holds
// conflicting evidence on are surfaced separately.
type Explanation struct {
	BreedID   string          `json:"breed_id"`
	Score     float64         `json:"score"`
	ScoreBand int             `json:"score_0_9"`
	Pros      []ExplainedNeed `json:"pros"`
	Cons      []ExplainedNeed `json:"cons"`
	Conflicts []ExplainedNeed `json:"conflicts"`
}

type ExplainedNeed struct {
	NeedDetail
	Constraint bool `json:"constraint"`
}

// isConflicted reports whether the user's aggregate carries strong evidence
// both ways; (0.5,0.5) from one yes plus one no qualifies.
func isConflicted(d NeedDetail) bool {
	return d.User.T >= 0.5 && d.User.F >= 0.5
}

// Explain splits each result's need details into pros, cons and conflicts.
// Breed scores are also banded onto a 0-9 scale across the result set for
// compact display.
func Explain(results []MatchResult) []Explanation {
	minScore, maxScore := 0.0, 0.0
	for i, r := range results {
		if i == 0 || r.Score < minScore {
			minScore = r.Score
		}
		if i == 0 || r.Score > maxScore {
			maxScore = r.Score
		}
	}

	out := make([]Explanation, 0, len(results))
	for _, r := range results {
		e := Explanation{
			BreedID:   r.BreedID,
			Score:     r.Score,
			ScoreBand: band(r.Score, minScore, maxScore),
			Pros:      []ExplainedNeed{},
			Cons:      []ExplainedNeed{},
			Conflicts: []ExplainedNeed{},
		}
		for _, d := range r.Details {
			en := ExplainedNeed{NeedDetail: d}
			_, en.Constraint = constraintBlocks[d.Block]
			switch {
			case isConflicted(d):
				e.Conflicts = append(e.Conflicts, en)
			case d.Similarity >= 0.5:
				e.Pros = append(e.Pros, en)
			default:
				e.Cons = append(e.Cons, en)
			}
		}
		sort.SliceStable(e.Pros, func(i, j int) bool {
			return e.Pros[i].Similarity > e.Pros[j].Similarity
		})
		sort.SliceStable(e.Cons, func(i, j int) bool {
			return e.Cons[i].Similarity < e.Cons[j].Similarity
		})
		out = append(out, e)
	}
	return out
}

// band normalizes a score into 0..9 across the observed range; a flat range
// lands in the middle.
func band(v, min, max float64) int {
	if max == min {
		return 5
	}
	b := int((v-min)/(max-min)*9 + 0.5)
	if b < 0 {
		b = 0
	}
	if b > 9 {
		b = 9
	}
	return b
}
