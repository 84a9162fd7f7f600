package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// UnknownLabel is returned for any class index the map cannot resolve.
const UnknownLabel = "Unknown"

// LabelMap is the ordered sequence of class labels, indexed by the
// model's output class index.
type LabelMap struct {
	labels []string
}

// BuildLabels constructs the map from stringified-index keys. Keys are
// coerced to integers and sorted ascending; the declaration order of
// the raw mapping is irrelevant. Position i of the result must equal
// the model's output index i — the final layer emits one probability
// per training-time class index, so this ordering is correctness
// critical.
func BuildLabels(indexToName map[string]string) (*LabelMap, error) {
	keys := make([]int, 0, len(indexToName))
	byKey := make(map[int]string, len(indexToName))

	for k, name := range indexToName {
		idx, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("label key %q is not numeric: %w", k, err)
		}
		byKey[idx] = name
		keys = append(keys, idx)
	}
	sort.Ints(keys)

	labels := make([]string, 0, len(keys))
	for _, k := range keys {
		labels = append(labels, byKey[k])
	}

	return &LabelMap{labels: labels}, nil
}

// LoadLabels reads the label artifact: a JSON object mapping
// stringified numeric indices to class names.
func LoadLabels(path string) (*LabelMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid labels JSON: %w", err)
	}

	return BuildLabels(raw)
}

// Resolve returns the label at idx, or UnknownLabel when idx is out of
// range. Never panics.
func (l *LabelMap) Resolve(idx int) string {
	if idx < 0 || idx >= len(l.labels) {
		return UnknownLabel
	}

	return l.labels[idx]
}

// Labels returns the ordered label sequence.
func (l *LabelMap) Labels() []string {
	return l.labels
}

// Len returns the number of classes.
func (l *LabelMap) Len() int {
	return len(l.labels)
}
