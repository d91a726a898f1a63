package fuzzy

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func randomValues(n int) []Value {
	rng := rand.New(rand.NewSource(42))
	vs := make([]Value, 0, n+4)
	vs = append(vs, True, False, Unknown, Conflict)
	for i := 0; i < n; i++ {
		vs = append(vs, Value{T: rng.Float64(), F: rng.Float64()})
	}
	return vs
}

func assertEqual(t *testing.T, want, got Value, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, want.T, got.T, eps, msgAndArgs...)
	assert.InDelta(t, want.F, got.F, eps, msgAndArgs...)
}

func TestDoubleNegation(t *testing.T) {
	for _, x := range randomValues(200) {
		assertEqual(t, x, x.Not().Not())
	}
}

func TestCommutativity(t *testing.T) {
	vs := randomValues(30)
	for _, x := range vs {
		for _, y := range vs {
			assertEqual(t, x.And(y), y.And(x), "AND %v %v", x, y)
			assertEqual(t, x.Or(y), y.Or(x), "OR %v %v", x, y)
		}
	}
}

func TestAssociativity(t *testing.T) {
	vs := randomValues(12)
	for _, x := range vs {
		for _, y := range vs {
			for _, z := range vs {
				assertEqual(t, x.And(y).And(z), x.And(y.And(z)), "AND %v %v %v", x, y, z)
				assertEqual(t, x.Or(y).Or(z), x.Or(y.Or(z)), "OR %v %v %v", x, y, z)
			}
		}
	}
}

func TestMonotonicity(t *testing.T) {
	// Raising T or lowering F of one argument never lowers the result's T
	// and never raises its F.
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		x := Value{T: rng.Float64(), F: rng.Float64()}
		y := Value{T: rng.Float64(), F: rng.Float64()}
		bigger := Value{T: clamp01(x.T + rng.Float64()*(1-x.T)), F: clamp01(x.F * rng.Float64())}

		for _, op := range []func(Value, Value) Value{Value.And, Value.Or} {
			lo, hi := op(x, y), op(bigger, y)
			assert.GreaterOrEqual(t, hi.T+eps, lo.T)
			assert.LessOrEqual(t, hi.F-eps, lo.F)
		}
	}
}

func TestDeMorgan(t *testing.T) {
	vs := randomValues(30)
	for _, x := range vs {
		for _, y := range vs {
			assertEqual(t, x.And(y).Not(), x.Not().Or(y.Not()))
			assertEqual(t, x.Or(y).Not(), x.Not().And(y.Not()))
		}
	}
}

func TestBooleanBoundary(t *testing.T) {
	// On {TRUE, FALSE} every operation coincides with 2-valued logic.
	cases := []struct {
		x, y                Value
		and, or, imp, iff   Value
	}{
		{True, True, True, True, True, True},
		{True, False, False, True, False, False},
		{False, True, False, True, True, False},
		{False, False, False, False, True, True},
	}
	for _, c := range cases {
		assertEqual(t, c.and, c.x.And(c.y))
		assertEqual(t, c.or, c.x.Or(c.y))
		assertEqual(t, c.imp, c.x.Implies(c.y))
		assertEqual(t, c.iff, c.x.Iff(c.y))
	}
	assertEqual(t, False, True.Not())
	assertEqual(t, True, False.Not())
}

func TestUnknownAndConflictFixedPoints(t *testing.T) {
	assertEqual(t, Unknown, Unknown.Not())
	assertEqual(t, Conflict, Conflict.Not())

	// Folding UNKNOWN with a sharp value: FALSE still dominates AND and TRUE
	// still dominates OR, while against the identity element (TRUE for AND,
	// FALSE for OR) the result stays UNKNOWN.
	assertEqual(t, Value{T: 0, F: 0}, Unknown.And(True))
	assertEqual(t, Value{T: 1, F: 0}, Unknown.Or(True))
	assertEqual(t, Value{T: 0, F: 1}, Unknown.And(False))
	assertEqual(t, Value{T: 0, F: 0}, Unknown.Or(False))
}

func TestFoldsAndIdentities(t *testing.T) {
	assertEqual(t, True, All())
	assertEqual(t, False, Any())

	vs := []Value{{T: 0.8, F: 0.1}, {T: 0.5, F: 0.5}, {T: 0.2, F: 0.9}}
	assertEqual(t, vs[0].And(vs[1]).And(vs[2]), All(vs...))
	assertEqual(t, vs[0].Or(vs[1]).Or(vs[2]), Any(vs...))
}

func TestResultsStayInRange(t *testing.T) {
	vs := randomValues(50)
	for _, x := range vs {
		for _, y := range vs {
			for _, r := range []Value{x.And(y), x.Or(y), x.Implies(y), x.Iff(y), x.Not()} {
				require.GreaterOrEqual(t, r.T, 0.0)
				require.LessOrEqual(t, r.T, 1.0)
				require.GreaterOrEqual(t, r.F, 0.0)
				require.LessOrEqual(t, r.F, 1.0)
			}
		}
	}
}

func TestNewRejectsOutOfRange(t *testing.T) {
	assert.Panics(t, func() { New(-0.1, 0) })
	assert.Panics(t, func() { New(0, 1.1) })
	assert.NotPanics(t, func() { New(1, 1) })
}

func TestScore(t *testing.T) {
	assert.Equal(t, 1.0, True.Score())
	assert.Equal(t, -1.0, False.Score())
	assert.Equal(t, 0.0, Unknown.Score())
	assert.Equal(t, 0.0, Conflict.Score())
}
