package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLabels_SortsKeysNumerically(t *testing.T) {
	// Declaration order of the raw mapping must be irrelevant.
	labels, err := BuildLabels(map[string]string{
		"2": "C",
		"0": "A",
		"1": "B",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, labels.Labels())
}

func TestBuildLabels_NumericNotLexicographicSort(t *testing.T) {
	labels, err := BuildLabels(map[string]string{
		"10": "ten",
		"2":  "two",
		"1":  "one",
	})
	require.NoError(t, err)

	// Lexicographic order would put "10" before "2".
	assert.Equal(t, []string{"one", "two", "ten"}, labels.Labels())
}

func TestBuildLabels_RejectsNonNumericKey(t *testing.T) {
	_, err := BuildLabels(map[string]string{"leaf": "Tomato_Blight"})
	assert.Error(t, err)
}

func TestLabelMap_ResolveOutOfRangeIsUnknown(t *testing.T) {
	labels, err := BuildLabels(map[string]string{"0": "Healthy"})
	require.NoError(t, err)

	assert.Equal(t, "Healthy", labels.Resolve(0))
	assert.Equal(t, UnknownLabel, labels.Resolve(1))
	assert.Equal(t, UnknownLabel, labels.Resolve(-1))
	assert.Equal(t, UnknownLabel, labels.Resolve(9999))
}

func TestLoadLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"1":"Early_Blight","0":"Healthy"}`), 0o644))

	labels, err := LoadLabels(path)
	require.NoError(t, err)

	assert.Equal(t, 2, labels.Len())
	assert.Equal(t, "Healthy", labels.Resolve(0))
	assert.Equal(t, "Early_Blight", labels.Resolve(1))
}

func TestLoadLabels_MissingFile(t *testing.T) {
	_, err := LoadLabels(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadLabels_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := LoadLabels(path)
	assert.Error(t, err)
}
