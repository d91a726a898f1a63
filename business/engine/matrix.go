package engine

import (
	"pawScout/business/formula"
	"pawScout/business/fuzzy"
)

// Matrix is the precomputed breed x need satisfaction table. Need-major:
// a selector sweep over one hypothetical need touches a contiguous column.
type Matrix struct {
	needIDs  []string
	breedIDs []string
	needIdx  map[string]int
	breedIdx map[string]int
	vals     [][]fuzzy.Value // [need][breed]
}

func newMatrix(needIDs, breedIDs []string) *Matrix {
	m := &Matrix{
		needIDs:  needIDs,
		breedIDs: breedIDs,
		needIdx:  make(map[string]int, len(needIDs)),
		breedIdx: make(map[string]int, len(breedIDs)),
		vals:     make([][]fuzzy.Value, len(needIDs)),
	}
	for i, id := range needIDs {
		m.needIdx[id] = i
		m.vals[i] = make([]fuzzy.Value, len(breedIDs))
	}
	for i, id := range breedIDs {
		m.breedIdx[id] = i
	}
	return m
}

// At returns the stored evaluation of a need's formula on a breed.
func (m *Matrix) At(breedID, needID string) (fuzzy.Value, bool) {
	ni, ok := m.needIdx[needID]
	if !ok {
		return fuzzy.Value{}, false
	}
	bi, ok := m.breedIdx[breedID]
	if !ok {
		return fuzzy.Value{}, false
	}
	return m.vals[ni][bi], true
}

func (m *Matrix) column(need int) []fuzzy.Value {
	return m.vals[need]
}

// evalLiteral maps a feature value v to (v, 1-v), negated to (1-v, v).
// Absent features are UNKNOWN regardless of negation.
func evalLiteral(lit formula.CompiledLiteral, vec vector) fuzzy.Value {
	i := int(lit.Feature)
	if !vec.present[i] {
		return fuzzy.Unknown
	}
	v := vec.values[i]
	if lit.Negated {
		return fuzzy.Value{T: 1 - v, F: v}
	}
	return fuzzy.Value{T: v, F: 1 - v}
}

// evalCompiled folds clauses with OR and the clause set with AND. The empty
// formula is TRUE, the empty clause FALSE.
func evalCompiled(c formula.Compiled, vec vector) fuzzy.Value {
	out := fuzzy.True
	for _, cl := range c.Clauses {
		clause := fuzzy.False
		for _, lit := range cl {
			clause = clause.Or(evalLiteral(lit, vec))
		}
		out = out.And(clause)
	}
	return out
}
