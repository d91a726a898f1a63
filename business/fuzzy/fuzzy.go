// Package fuzzy implements the 4-valued Belnap algebra with Lukasiewicz
// norms used by the matching engine. A value is a pair of independent truth
// and falsity components in [0,1]; the components do not have to sum to one,
// which is what lets UNKNOWN (0,0) and CONFLICT (1,1) coexist with the plain
// booleans TRUE (1,0) and FALSE (0,1).
package fuzzy

import "fmt"

type Value struct {
	T float64 `json:"t"`
	F float64 `json:"f"`
}

var (
	True     = Value{T: 1, F: 0}
	False    = Value{T: 0, F: 1}
	Unknown  = Value{T: 0, F: 0}
	Conflict = Value{T: 1, F: 1}
)

// New builds a value from raw components. Components outside [0,1] are a
// programming error, not bad input, so this fails fast.
func New(t, f float64) Value {
	if t < 0 || t > 1 || f < 0 || f > 1 {
		panic(fmt.Sprintf("fuzzy: components out of range: t=%g f=%g", t, f))
	}
	return Value{T: t, F: f}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Not swaps truth and falsity. UNKNOWN and CONFLICT are fixed points.
func (v Value) Not() Value {
	return Value{T: v.F, F: v.T}
}

// And applies the Lukasiewicz t-norm on T and s-norm on F.
func (v Value) And(o Value) Value {
	return Value{
		T: clamp01(v.T + o.T - 1),
		F: clamp01(v.F + o.F),
	}
}

// Or is the dual of And.
func (v Value) Or(o Value) Value {
	return Value{
		T: clamp01(v.T + o.T),
		F: clamp01(v.F + o.F - 1),
	}
}

func (v Value) Implies(o Value) Value {
	return v.Not().Or(o)
}

func (v Value) Iff(o Value) Value {
	return v.Implies(o).And(o.Implies(v))
}

// All left-folds And. The empty conjunction is TRUE.
func All(vs ...Value) Value {
	out := True
	for _, v := range vs {
		out = out.And(v)
	}
	return out
}

// Any left-folds Or. The empty disjunction is FALSE.
func Any(vs ...Value) Value {
	out := False
	for _, v := range vs {
		out = out.Or(v)
	}
	return out
}

// Score collapses the pair into a signed confidence in [-1,1]:
// +1 confirmed, -1 refuted, 0 unknown or perfectly conflicted.
func (v Value) Score() float64 {
	return v.T - v.F
}

func (v Value) IsUnknown() bool {
	return v.T == 0 && v.F == 0
}

// String renders the canonical label when the value is one of the four
// corners, the raw pair otherwise.
func (v Value) String() string {
	switch v {
	case True:
		return "TRUE"
	case False:
		return "FALSE"
	case Unknown:
		return "UNKNOWN"
	case Conflict:
		return "CONFLICT"
	}
	return fmt.Sprintf("(%.3f,%.3f)", v.T, v.F)
}
