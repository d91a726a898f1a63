// Package content loads and validates the on-disk domain documents: the
// feature table, the needs, the per-breed fuzzy profiles and the question
// bank. The layout is directed by config.json in the domain directory.
package content

import (
	"pawScout/business/engine"

	"pawScout/domain"
)

// Config is the domain's config.json.
type Config struct {
	Paths struct {
		Content   string `json:"content" validate:"required"`
		Fuzzy     string `json:"fuzzy" validate:"required"`
		Questions string `json:"questions" validate:"required"`
	} `json:"paths" validate:"required"`
}

// FeatureDef declares one continuous feature.
type FeatureDef struct {
	ID          string `json:"id" validate:"required"`
	Description string `json:"description,omitempty"`
}

// BucketDef is one soft one-hot member of a categorical group. Min/Max are
// extraction metadata: they are decoded but not used by the loader or the
// engine.
type BucketDef struct {
	ID  string   `json:"id" validate:"required"`
	Min float64  `json:"min"`
	Max *float64 `json:"max,omitempty"`
}

// DerivedDef names an OR over member buckets, e.g. size_small_or_medium.
type DerivedDef struct {
	ID      string   `json:"id" validate:"required"`
	Members []string `json:"members" validate:"required,min=1"`
}

type GroupDef struct {
	ID      string       `json:"id" validate:"required"`
	Values  []BucketDef  `json:"values" validate:"required,min=1,dive"`
	Derived []DerivedDef `json:"derived,omitempty" validate:"dive"`
}

// FeaturesDoc is content/object_features.json.
type FeaturesDoc struct {
	Features []FeatureDef `json:"features" validate:"dive"`
	Groups   []GroupDef   `json:"groups,omitempty" validate:"dive"`
}

// NeedDef is one entry of content/user_needs.json.
type NeedDef struct {
	ID      string  `json:"id" validate:"required"`
	Name    string  `json:"name" validate:"required"`
	Block   string  `json:"block" validate:"required"`
	Formula string  `json:"formula" validate:"required"`
	Weight  float64 `json:"weight,omitempty"`
}

type NeedsDoc struct {
	Needs []NeedDef `json:"needs" validate:"required,min=1,dive"`
}

// BreedDoc is one per-breed file in the fuzzy directory.
type BreedDoc struct {
	ID       string             `json:"id" validate:"required"`
	Name     string             `json:"name,omitempty"`
	Features map[string]float64 `json:"features" validate:"required"`
}

// QuestionDef is one phrasing variant inside a per-need question file.
type QuestionDef struct {
	ID           string  `json:"id" validate:"required"`
	Text         string  `json:"text" validate:"required"`
	Weight       float64 `json:"weight" validate:"gte=0,lte=1"`
	Style        string  `json:"style,omitempty"`
	Verification string  `json:"verification,omitempty"`
}

type QuestionsDoc struct {
	NeedID    string        `json:"need_id" validate:"required"`
	Questions []QuestionDef `json:"questions" validate:"dive"`
}

// Domain is the fully loaded, validated snapshot the engine is built from.
type Domain struct {
	Table     *engine.FeatureTable
	Needs     []domain.Need
	Breeds    []domain.Breed
	Questions map[string][]domain.Question
}
