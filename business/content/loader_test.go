package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawScout/domain"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

// fixtureDomain lays out a minimal but complete domain directory.
func fixtureDomain(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "config.json"), `{
		"paths": {"content": "content", "fuzzy": "fuzzy", "questions": "questions"}
	}`)
	writeFile(t, filepath.Join(dir, "content", "object_features.json"), `{
		"features": [{"id": "energy"}, {"id": "apartment_ok"}, {"id": "barking"}],
		"groups": [{
			"id": "size_group",
			"values": [{"id": "size_small", "min": 0, "max": 35}, {"id": "size_medium", "min": 35, "max": 55}],
			"derived": [{"id": "size_small_or_medium", "members": ["size_small", "size_medium"]}]
		}]
	}`)
	writeFile(t, filepath.Join(dir, "content", "user_needs.json"), `{
		"needs": [
			{"id": "active", "name": "Active lifestyle", "block": "lifestyle", "formula": "energy"},
			{"id": "apartment", "name": "Apartment friendly", "block": "housing_environment", "formula": "apartment_ok & ~barking", "weight": 0.8}
		]
	}`)
	writeFile(t, filepath.Join(dir, "fuzzy", "akita.json"), `{
		"id": "akita", "name": "Akita",
		"features": {"energy": 0.7, "apartment_ok": 0.3, "size_small": 0.1}
	}`)
	writeFile(t, filepath.Join(dir, "fuzzy", "beagle.json"), `{
		"id": "beagle", "name": "Beagle",
		"features": {"energy": 0.8, "apartment_ok": 0.6, "size_small": 0.7, "size_medium": 0.3}
	}`)
	writeFile(t, filepath.Join(dir, "questions", "active.json"), `{
		"need_id": "active",
		"questions": [{"id": "active_q1", "text": "Do you hike a lot?", "weight": 0.9, "style": "direct"}]
	}`)
	return dir
}

func TestLoadDomain(t *testing.T) {
	dom, err := LoadDomain(fixtureDomain(t))
	require.NoError(t, err)

	// Plain features + group buckets + derived id.
	assert.Equal(t, 6, dom.Table.Len())
	_, ok := dom.Table.Index("size_small_or_medium")
	assert.True(t, ok)

	require.Len(t, dom.Needs, 2)
	assert.Equal(t, "active", dom.Needs[0].ID)
	assert.Equal(t, 0.8, dom.Needs[1].Weight)

	require.Len(t, dom.Breeds, 2)
	assert.Equal(t, "akita", dom.Breeds[0].ID)

	require.Len(t, dom.Questions["active"], 1)
	assert.Equal(t, "Do you hike a lot?", dom.Questions["active"][0].Text)
}

func TestLoadRejectsValueOutOfRange(t *testing.T) {
	dir := fixtureDomain(t)
	writeFile(t, filepath.Join(dir, "fuzzy", "bad.json"), `{
		"id": "bad", "features": {"energy": 1.2}
	}`)

	_, err := LoadDomain(dir)
	var rerr *domain.ValueOutOfRangeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, 1.2, rerr.Value)
}

func TestLoadRejectsUnknownFeature(t *testing.T) {
	dir := fixtureDomain(t)
	writeFile(t, filepath.Join(dir, "fuzzy", "bad.json"), `{
		"id": "bad", "features": {"wingspan": 0.5}
	}`)

	_, err := LoadDomain(dir)
	var uerr *domain.UnknownFeatureError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "wingspan", uerr.ID)
}

func TestLoadRejectsDuplicateBreed(t *testing.T) {
	dir := fixtureDomain(t)
	writeFile(t, filepath.Join(dir, "fuzzy", "zz_dup.json"), `{
		"id": "akita", "features": {"energy": 0.5}
	}`)

	_, err := LoadDomain(dir)
	var derr *domain.DuplicateIDError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "breed", derr.Kind)
}

func TestLoadRejectsDuplicateNeed(t *testing.T) {
	dir := fixtureDomain(t)
	writeFile(t, filepath.Join(dir, "content", "user_needs.json"), `{
		"needs": [
			{"id": "active", "name": "a", "block": "b", "formula": "energy"},
			{"id": "active", "name": "a2", "block": "b", "formula": "energy"}
		]
	}`)

	_, err := LoadDomain(dir)
	var derr *domain.DuplicateIDError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "need", derr.Kind)
}

func TestLoadRejectsMalformedDocument(t *testing.T) {
	dir := fixtureDomain(t)
	writeFile(t, filepath.Join(dir, "content", "user_needs.json"), `{"needs": [{"id": "x"}]}`)

	_, err := LoadDomain(dir)
	var serr *domain.SchemaError
	require.ErrorAs(t, err, &serr)
}

func TestLoadRejectsQuestionForUnknownNeed(t *testing.T) {
	dir := fixtureDomain(t)
	writeFile(t, filepath.Join(dir, "questions", "ghost.json"), `{
		"need_id": "ghost",
		"questions": [{"id": "g1", "text": "?", "weight": 1}]
	}`)

	_, err := LoadDomain(dir)
	var uerr *domain.UnknownNeedError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "ghost", uerr.ID)
}
