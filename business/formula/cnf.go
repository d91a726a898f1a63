package formula

import (
	"sort"
	"strings"
)

// Literal is a feature reference with an optional negation.
type Literal struct {
	Feature string
	Negated bool
}

// Clause is an OR of literals. The empty clause is FALSE.
type Clause []Literal

// CNF is an AND of clauses. The empty CNF is TRUE.
type CNF []Clause

// ToCNF rewrites an expression tree to conjunctive normal form: negations
// pushed onto literals by De Morgan, ORs distributed over ANDs, duplicate
// literals and clauses removed, tautological clauses (x | ~x) dropped.
func ToCNF(n Node) CNF {
	return simplify(distribute(toNNF(n, false)))
}

// toNNF pushes negation down to the leaves.
func toNNF(n Node, neg bool) Node {
	switch v := n.(type) {
	case Ident:
		if neg {
			return Not{X: v}
		}
		return v
	case Not:
		return toNNF(v.X, !neg)
	case And:
		if neg {
			return Or{L: toNNF(v.L, true), R: toNNF(v.R, true)}
		}
		return And{L: toNNF(v.L, false), R: toNNF(v.R, false)}
	case Or:
		if neg {
			return And{L: toNNF(v.L, true), R: toNNF(v.R, true)}
		}
		return Or{L: toNNF(v.L, false), R: toNNF(v.R, false)}
	}
	return n
}

// distribute turns an NNF tree into clause sets, distributing OR over AND.
func distribute(n Node) CNF {
	switch v := n.(type) {
	case Ident:
		return CNF{{Literal{Feature: v.Name}}}
	case Not:
		// In NNF the operand is always an identifier.
		id := v.X.(Ident)
		return CNF{{Literal{Feature: id.Name, Negated: true}}}
	case And:
		return append(distribute(v.L), distribute(v.R)...)
	case Or:
		left, right := distribute(v.L), distribute(v.R)
		out := make(CNF, 0, len(left)*len(right))
		for _, cl := range left {
			for _, cr := range right {
				merged := make(Clause, 0, len(cl)+len(cr))
				merged = append(merged, cl...)
				merged = append(merged, cr...)
				out = append(out, merged)
			}
		}
		return out
	}
	return nil
}

func simplify(c CNF) CNF {
	out := make(CNF, 0, len(c))
	seenClauses := make(map[string]struct{})

	for _, cl := range c {
		dedup := make(Clause, 0, len(cl))
		seen := make(map[Literal]struct{})
		tautology := false
		for _, lit := range cl {
			if _, ok := seen[Literal{Feature: lit.Feature, Negated: !lit.Negated}]; ok {
				tautology = true
				break
			}
			if _, ok := seen[lit]; ok {
				continue
			}
			seen[lit] = struct{}{}
			dedup = append(dedup, lit)
		}
		if tautology {
			// x | ~x is TRUE, the identity of the conjunction.
			continue
		}
		key := clauseKey(dedup)
		if _, ok := seenClauses[key]; ok {
			continue
		}
		seenClauses[key] = struct{}{}
		out = append(out, dedup)
	}
	return out
}

func clauseKey(cl Clause) string {
	parts := make([]string, len(cl))
	for i, lit := range cl {
		if lit.Negated {
			parts[i] = "~" + lit.Feature
		} else {
			parts[i] = lit.Feature
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}

// Features returns the distinct feature ids referenced by the CNF, in first
// occurrence order.
func (c CNF) Features() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, cl := range c {
		for _, lit := range cl {
			if _, ok := seen[lit.Feature]; ok {
				continue
			}
			seen[lit.Feature] = struct{}{}
			out = append(out, lit.Feature)
		}
	}
	return out
}

func (l Literal) String() string {
	if l.Negated {
		return "~" + l.Feature
	}
	return l.Feature
}

// String re-serializes the CNF into the parser's grammar. The empty CNF
// (TRUE) has no surface form and renders as the empty string.
func (c CNF) String() string {
	clauses := make([]string, len(c))
	for i, cl := range c {
		lits := make([]string, len(cl))
		for j, lit := range cl {
			lits[j] = lit.String()
		}
		s := strings.Join(lits, " | ")
		if len(cl) > 1 && len(c) > 1 {
			s = "(" + s + ")"
		}
		clauses[i] = s
	}
	return strings.Join(clauses, " & ")
}
