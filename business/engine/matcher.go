package engine

import (
	"fmt"
	"math"
	"sort"

	"pawScout/business/formula"
	"pawScout/business/fuzzy"
	"pawScout/domain"
)

// neutralScore is the uninformative prior used when no need is active.
const neutralScore = 0.5

// Matcher owns an immutable catalog + needs snapshot and the precomputed
// matrix. Safe for concurrent reads; never mutated after construction.
type Matcher struct {
	table    *FeatureTable
	needs    []domain.Need
	needIdx  map[string]int
	breeds   []domain.Breed
	breedIdx map[string]int
	matrix   *Matrix
}

// MatchResult is one ranked breed with its per-need breakdown.
type MatchResult struct {
	BreedID string       `json:"breed_id"`
	Score   float64      `json:"score"`
	Details []NeedDetail `json:"details"`
}

// NeedDetail compares the user's aggregated value with the breed's matrix
// entry for one need.
type NeedDetail struct {
	NeedID     string      `json:"need_id"`
	Block      string      `json:"block,omitempty"`
	User       fuzzy.Value `json:"user"`
	Breed      fuzzy.Value `json:"breed"`
	Similarity float64     `json:"similarity"`
}

// NewMatcher compiles every need formula against the feature table, packs
// the catalog and precomputes the matrix. All boundary validation happens
// here; evaluation afterwards is total.
func NewMatcher(table *FeatureTable, needs []domain.Need, breeds []domain.Breed) (*Matcher, error) {
	m := &Matcher{
		table:    table,
		needs:    needs,
		needIdx:  make(map[string]int, len(needs)),
		breeds:   breeds,
		breedIdx: make(map[string]int, len(breeds)),
	}

	compiled := make([]formula.Compiled, len(needs))
	for i, need := range needs {
		if _, ok := m.needIdx[need.ID]; ok {
			return nil, &domain.DuplicateIDError{Kind: "need", ID: need.ID}
		}
		m.needIdx[need.ID] = i

		node, err := formula.Parse(need.Formula)
		if err != nil {
			return nil, fmt.Errorf("need %s: %w", need.ID, err)
		}
		compiled[i], err = formula.ToCNF(node).Compile(table.IndexMap())
		if err != nil {
			return nil, fmt.Errorf("need %s: %w", need.ID, err)
		}
	}

	vectors := make([]vector, len(breeds))
	needIDs := make([]string, len(needs))
	breedIDs := make([]string, len(breeds))
	for i, need := range needs {
		needIDs[i] = need.ID
	}
	for i, b := range breeds {
		if _, ok := m.breedIdx[b.ID]; ok {
			return nil, &domain.DuplicateIDError{Kind: "breed", ID: b.ID}
		}
		m.breedIdx[b.ID] = i
		breedIDs[i] = b.ID

		vec, err := table.newVector(b)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}

	m.matrix = newMatrix(needIDs, breedIDs)
	for ni := range needs {
		col := m.matrix.column(ni)
		for bi := range breeds {
			col[bi] = evalCompiled(compiled[ni], vectors[bi])
		}
	}
	return m, nil
}

// Similarity is the L1 distance on the (t,f) plane mapped into [0,1]. It is
// symmetric in truth vs falsity and reduces to 1-|vu-vo| on sharp values.
func Similarity(u, b fuzzy.Value) float64 {
	return 1 - 0.5*(math.Abs(u.T-b.T)+math.Abs(u.F-b.F))
}

// activeNeeds resolves the user's vector against the need order: indices and
// values of needs that are defined and not UNKNOWN.
func (m *Matcher) activeNeeds(user map[string]fuzzy.Value) ([]int, []fuzzy.Value) {
	var idx []int
	var vals []fuzzy.Value
	for i, need := range m.needs {
		v, ok := user[need.ID]
		if !ok || v.IsUnknown() {
			continue
		}
		idx = append(idx, i)
		vals = append(vals, v)
	}
	return idx, vals
}

// scoreBreed averages per-need similarity. A nil weight slice means the
// plain mean; weights are aligned with active.
func (m *Matcher) scoreBreed(bi int, active []int, vals []fuzzy.Value, weights []float64) float64 {
	if len(active) == 0 {
		return neutralScore
	}
	sum, wsum := 0.0, 0.0
	for j, ni := range active {
		sim := Similarity(vals[j], m.matrix.vals[ni][bi])
		w := 1.0
		if weights != nil {
			w = weights[j]
		}
		sum += sim * w
		wsum += w
	}
	if wsum == 0 {
		return neutralScore
	}
	return sum / wsum
}

func (m *Matcher) resolveWeights(active []int, weights map[string]float64) []float64 {
	if weights == nil {
		return nil
	}
	out := make([]float64, len(active))
	for j, ni := range active {
		w, ok := weights[m.needs[ni].ID]
		if !ok {
			w = 1
		}
		out[j] = w
	}
	return out
}

func (m *Matcher) rank(user map[string]fuzzy.Value, weights map[string]float64, topK int, subset []string) []domain.BreedScore {
	active, vals := m.activeNeeds(user)
	w := m.resolveWeights(active, weights)

	breedIdxs := make([]int, 0, len(m.breeds))
	if subset == nil {
		for i := range m.breeds {
			breedIdxs = append(breedIdxs, i)
		}
	} else {
		for _, id := range subset {
			if bi, ok := m.breedIdx[id]; ok {
				breedIdxs = append(breedIdxs, bi)
			}
		}
	}

	scores := make([]domain.BreedScore, 0, len(breedIdxs))
	for _, bi := range breedIdxs {
		scores = append(scores, domain.BreedScore{
			BreedID: m.breeds[bi].ID,
			Score:   m.scoreBreed(bi, active, vals, w),
		})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].BreedID < scores[j].BreedID
	})
	if topK > 0 && len(scores) > topK {
		scores = scores[:topK]
	}
	return scores
}

// MatchFast returns the top-k breed ids by score, ties broken by ascending
// breed id. A nil subset means the whole catalog; topK <= 0 means all.
func (m *Matcher) MatchFast(user map[string]fuzzy.Value, topK int, subset []string) []domain.BreedScore {
	return m.rank(user, nil, topK, subset)
}

// MatchFastWeighted applies an external per-need weight map as a weighted
// mean. Needs missing from the map weigh 1.
func (m *Matcher) MatchFastWeighted(user map[string]fuzzy.Value, weights map[string]float64, topK int) []domain.BreedScore {
	return m.rank(user, weights, topK, nil)
}

// MatchAll ranks like MatchFast and additionally reports the per-need
// breakdown for every returned breed.
func (m *Matcher) MatchAll(user map[string]fuzzy.Value, topK int) []MatchResult {
	active, vals := m.activeNeeds(user)
	ranked := m.rank(user, nil, topK, nil)

	out := make([]MatchResult, 0, len(ranked))
	for _, bs := range ranked {
		bi := m.breedIdx[bs.BreedID]
		details := make([]NeedDetail, 0, len(active))
		for j, ni := range active {
			bv := m.matrix.vals[ni][bi]
			details = append(details, NeedDetail{
				NeedID:     m.needs[ni].ID,
				Block:      m.needs[ni].Block,
				User:       vals[j],
				Breed:      bv,
				Similarity: Similarity(vals[j], bv),
			})
		}
		out = append(out, MatchResult{BreedID: bs.BreedID, Score: bs.Score, Details: details})
	}
	return out
}

// Matrix exposes the precomputed table for read-only sharing.
func (m *Matcher) Matrix() *Matrix {
	return m.matrix
}

func (m *Matcher) NeedIDs() []string {
	out := make([]string, len(m.needs))
	for i, n := range m.needs {
		out[i] = n.ID
	}
	return out
}

func (m *Matcher) BreedIDs() []string {
	out := make([]string, len(m.breeds))
	for i, b := range m.breeds {
		out[i] = b.ID
	}
	return out
}

func (m *Matcher) Need(id string) (domain.Need, bool) {
	i, ok := m.needIdx[id]
	if !ok {
		return domain.Need{}, false
	}
	return m.needs[i], true
}
