package model

import (
	"errors"

	"github.com/ekisa-team/leafsense/internal/tensor"
)

// Engine extracts a class prediction from the model's raw output.
type Engine struct {
	registry *Registry
}

// NewEngine creates an engine over the given registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// Predict runs one forward pass and returns the top class index plus
// its probability in [0, 1]. The terminal layer is expected to be a
// softmax; the output is used as-is, never re-normalized.
func (e *Engine) Predict(t *tensor.Tensor) (int, float32, error) {
	probs, err := e.registry.Infer(t)
	if err != nil {
		return 0, 0, err
	}
	if len(probs) == 0 {
		return 0, 0, errors.New("model produced an empty output vector")
	}

	idx := Argmax(probs)
	return idx, probs[idx], nil
}

// Argmax returns the first index holding the maximum value. The scan
// order makes ties deterministic.
func Argmax(v []float32) int {
	idx := 0
	max := v[0]
	for i, x := range v {
		if x > max {
			max = x
			idx = i
		}
	}

	return idx
}
