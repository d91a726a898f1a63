package content

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-playground/validator/v10"

	"pawScout/business/engine"
	"pawScout/domain"
)

// LoadDomain reads and validates a whole domain directory: document shape,
// duplicate ids, breed feature ids and ranges, and question-to-need links.
// Need formulas are not parsed here; engine.NewMatcher parses and compiles
// them.
func LoadDomain(dir string) (*Domain, error) {
	validate := validator.New()

	var cfg Config
	if err := readDoc(filepath.Join(dir, "config.json"), validate, &cfg); err != nil {
		return nil, err
	}

	contentDir := filepath.Join(dir, cfg.Paths.Content)

	table, err := loadFeatures(filepath.Join(contentDir, "object_features.json"), validate)
	if err != nil {
		return nil, err
	}

	needs, err := loadNeeds(filepath.Join(contentDir, "user_needs.json"), validate)
	if err != nil {
		return nil, err
	}

	breeds, err := loadBreeds(filepath.Join(dir, cfg.Paths.Fuzzy), validate, table)
	if err != nil {
		return nil, err
	}

	questions, err := loadQuestions(filepath.Join(dir, cfg.Paths.Questions), validate, needs)
	if err != nil {
		return nil, err
	}

	return &Domain{Table: table, Needs: needs, Breeds: breeds, Questions: questions}, nil
}

// readDoc decodes one JSON document and checks its shape.
func readDoc(path string, validate *validator.Validate, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return &domain.SchemaError{Path: path, Reason: err.Error()}
	}
	if err := validate.Struct(dst); err != nil {
		return &domain.SchemaError{Path: path, Reason: err.Error()}
	}
	return nil
}

func loadFeatures(path string, validate *validator.Validate) (*engine.FeatureTable, error) {
	var doc FeaturesDoc
	if err := readDoc(path, validate, &doc); err != nil {
		return nil, err
	}

	var ids []string
	for _, f := range doc.Features {
		ids = append(ids, f.ID)
	}
	var derived []engine.DerivedFeature
	for _, g := range doc.Groups {
		for _, b := range g.Values {
			ids = append(ids, b.ID)
		}
		for _, d := range g.Derived {
			derived = append(derived, engine.DerivedFeature{ID: d.ID, Members: d.Members})
		}
	}
	return engine.NewFeatureTable(ids, derived)
}

func loadNeeds(path string, validate *validator.Validate) ([]domain.Need, error) {
	var doc NeedsDoc
	if err := readDoc(path, validate, &doc); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(doc.Needs))
	needs := make([]domain.Need, 0, len(doc.Needs))
	for _, n := range doc.Needs {
		if _, ok := seen[n.ID]; ok {
			return nil, &domain.DuplicateIDError{Kind: "need", ID: n.ID}
		}
		seen[n.ID] = struct{}{}
		needs = append(needs, domain.Need{
			ID:      n.ID,
			Name:    n.Name,
			Block:   n.Block,
			Formula: n.Formula,
			Weight:  n.Weight,
		})
	}
	return needs, nil
}

func loadBreeds(dir string, validate *validator.Validate, table *engine.FeatureTable) ([]domain.Breed, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Strings(paths)

	seen := make(map[string]struct{}, len(paths))
	breeds := make([]domain.Breed, 0, len(paths))
	for _, path := range paths {
		var doc BreedDoc
		if err := readDoc(path, validate, &doc); err != nil {
			return nil, err
		}
		if _, ok := seen[doc.ID]; ok {
			return nil, &domain.DuplicateIDError{Kind: "breed", ID: doc.ID}
		}
		seen[doc.ID] = struct{}{}

		for id, v := range doc.Features {
			if _, ok := table.Index(id); !ok {
				return nil, &domain.UnknownFeatureError{ID: id}
			}
			if v < 0 || v > 1 {
				return nil, &domain.ValueOutOfRangeError{
					Field: fmt.Sprintf("breed %s feature %s", doc.ID, id),
					Value: v,
				}
			}
		}
		breeds = append(breeds, domain.Breed{ID: doc.ID, Name: doc.Name, Features: doc.Features})
	}
	return breeds, nil
}

func loadQuestions(dir string, validate *validator.Validate, needs []domain.Need) (map[string][]domain.Question, error) {
	known := make(map[string]struct{}, len(needs))
	for _, n := range needs {
		known[n.ID] = struct{}{}
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Strings(paths)

	out := make(map[string][]domain.Question)
	seen := make(map[string]struct{})
	for _, path := range paths {
		var doc QuestionsDoc
		if err := readDoc(path, validate, &doc); err != nil {
			return nil, err
		}
		if _, ok := known[doc.NeedID]; !ok {
			return nil, &domain.UnknownNeedError{ID: doc.NeedID}
		}
		for _, q := range doc.Questions {
			if _, ok := seen[q.ID]; ok {
				return nil, &domain.DuplicateIDError{Kind: "question", ID: q.ID}
			}
			seen[q.ID] = struct{}{}
			out[doc.NeedID] = append(out[doc.NeedID], domain.Question{
				ID:           q.ID,
				NeedID:       doc.NeedID,
				Text:         q.Text,
				Weight:       q.Weight,
				Style:        q.Style,
				Verification: q.Verification,
			})
		}
	}
	return out, nil
}
