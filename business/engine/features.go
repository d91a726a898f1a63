package engine

import (
	"fmt"

	"pawScout/domain"
)

// DerivedFeature is a named OR of one-hot bucket members, e.g.
// size_small_or_medium over {size_small, size_medium}. Derived ids are
// resolved into concrete feature values at catalog load, so the evaluator
// sees them as ordinary features.
type DerivedFeature struct {
	ID      string
	Members []string
}

// FeatureTable is the immutable feature-index table shared by the compiler,
// the catalog and the matrix. Derived features occupy regular slots.
type FeatureTable struct {
	ids     []string
	index   map[string]int
	derived []DerivedFeature
}

// NewFeatureTable registers the concrete feature ids and then the derived
// ones. Duplicate ids fail with *domain.DuplicateIDError; a derived member
// naming an unregistered feature fails with *domain.UnknownFeatureError.
func NewFeatureTable(ids []string, derived []DerivedFeature) (*FeatureTable, error) {
	t := &FeatureTable{
		ids:   make([]string, 0, len(ids)+len(derived)),
		index: make(map[string]int, len(ids)+len(derived)),
	}
	for _, id := range ids {
		if err := t.add(id); err != nil {
			return nil, err
		}
	}
	for _, d := range derived {
		for _, m := range d.Members {
			if _, ok := t.index[m]; !ok {
				return nil, &domain.UnknownFeatureError{ID: m}
			}
		}
		if err := t.add(d.ID); err != nil {
			return nil, err
		}
		t.derived = append(t.derived, d)
	}
	return t, nil
}

func (t *FeatureTable) add(id string) error {
	if _, ok := t.index[id]; ok {
		return &domain.DuplicateIDError{Kind: "feature", ID: id}
	}
	t.index[id] = len(t.ids)
	t.ids = append(t.ids, id)
	return nil
}

func (t *FeatureTable) Len() int {
	return len(t.ids)
}

func (t *FeatureTable) Index(id string) (int, bool) {
	i, ok := t.index[id]
	return i, ok
}

// IndexMap exposes the id-to-index mapping for the formula compiler. The
// returned map must not be mutated.
func (t *FeatureTable) IndexMap() map[string]int {
	return t.index
}

func (t *FeatureTable) IDs() []string {
	out := make([]string, len(t.ids))
	copy(out, t.ids)
	return out
}

// vector is the dense per-breed feature storage. Absent features keep
// present=false and evaluate to UNKNOWN.
type vector struct {
	values  []float64
	present []bool
}

// newVector validates and packs a breed's feature map, then resolves
// derived features: a derived value is the Lukasiewicz OR (capped sum) of
// its present members, and stays absent when every member is absent.
func (t *FeatureTable) newVector(b domain.Breed) (vector, error) {
	v := vector{
		values:  make([]float64, len(t.ids)),
		present: make([]bool, len(t.ids)),
	}
	for id, val := range b.Features {
		i, ok := t.index[id]
		if !ok {
			return vector{}, &domain.UnknownFeatureError{ID: id}
		}
		if val < 0 || val > 1 {
			return vector{}, &domain.ValueOutOfRangeError{
				Field: fmt.Sprintf("breed %s feature %s", b.ID, id),
				Value: val,
			}
		}
		v.values[i] = val
		v.present[i] = true
	}
	for _, d := range t.derived {
		di := t.index[d.ID]
		if v.present[di] {
			// Explicit value wins over the expansion.
			continue
		}
		sum, any := 0.0, false
		for _, m := range d.Members {
			mi := t.index[m]
			if !v.present[mi] {
				continue
			}
			any = true
			sum += v.values[mi]
		}
		if !any {
			continue
		}
		if sum > 1 {
			sum = 1
		}
		v.values[di] = sum
		v.present[di] = true
	}
	return v, nil
}
