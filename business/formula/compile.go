package formula

import "pawScout/domain"

// CompiledLiteral references a feature by its index in the feature table.
type CompiledLiteral struct {
	Feature uint32
	Negated bool
}

// Compiled is the flat evaluation form of a CNF: AND of clauses, each an OR
// of index literals.
type Compiled struct {
	Clauses [][]CompiledLiteral
}

// Compile resolves every literal against the feature-index table. A literal
// naming an undeclared feature fails with *domain.UnknownFeatureError.
func (c CNF) Compile(index map[string]int) (Compiled, error) {
	clauses := make([][]CompiledLiteral, 0, len(c))
	for _, cl := range c {
		lits := make([]CompiledLiteral, 0, len(cl))
		for _, lit := range cl {
			idx, ok := index[lit.Feature]
			if !ok {
				return Compiled{}, &domain.UnknownFeatureError{ID: lit.Feature}
			}
			lits = append(lits, CompiledLiteral{Feature: uint32(idx), Negated: lit.Negated})
		}
		clauses = append(clauses, lits)
	}
	return Compiled{Clauses: clauses}, nil
}

// MustCompileString is a convenience for fixtures and tests.
func MustCompileString(src string, index map[string]int) Compiled {
	n, err := Parse(src)
	if err != nil {
		panic(err)
	}
	compiled, err := ToCNF(n).Compile(index)
	if err != nil {
		panic(err)
	}
	return compiled
}
