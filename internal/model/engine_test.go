package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/leafsense/internal/manifest"
	"github.com/ekisa-team/leafsense/internal/tensor"
)

func readyRegistry(t *testing.T, out []float32) *Registry {
	t.Helper()

	manifestPath, dir := writeArtifact(t)
	reg := NewRegistry(func(art *manifest.Artifact) (Model, error) {
		return &fakeModel{out: out, inputSize: 224}, nil
	})
	require.NoError(t, reg.Initialize(manifestPath, dir))

	return reg
}

func inputTensor(t *testing.T) *tensor.Tensor {
	t.Helper()

	in, err := tensor.New(make([]float32, 12), 1, 2, 2, 3)
	require.NoError(t, err)
	return in
}

func TestEngine_PredictTieBreaksOnFirstMax(t *testing.T) {
	engine := NewEngine(readyRegistry(t, []float32{0.2, 0.5, 0.5, 0.1}))

	idx, confidence, err := engine.Predict(inputTensor(t))
	require.NoError(t, err)

	assert.Equal(t, 1, idx, "ties resolve to the first index achieving the max")
	assert.InDelta(t, 0.5, float64(confidence), 1e-6)
}

func TestEngine_PredictTopClass(t *testing.T) {
	engine := NewEngine(readyRegistry(t, []float32{0.05, 0.1, 0.8, 0.05}))

	idx, confidence, err := engine.Predict(inputTensor(t))
	require.NoError(t, err)

	assert.Equal(t, 2, idx)
	assert.InDelta(t, 0.8, float64(confidence), 1e-6)
}

func TestEngine_PredictDeterministic(t *testing.T) {
	engine := NewEngine(readyRegistry(t, []float32{0.3, 0.3, 0.4}))
	in := inputTensor(t)

	firstIdx, _, err := engine.Predict(in)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		idx, _, err := engine.Predict(in)
		require.NoError(t, err)
		assert.Equal(t, firstIdx, idx)
	}
}

func TestEngine_PredictNotReady(t *testing.T) {
	engine := NewEngine(NewRegistry(BuildONNX))

	_, _, err := engine.Predict(inputTensor(t))
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestEngine_PredictEmptyOutput(t *testing.T) {
	engine := NewEngine(readyRegistry(t, []float32{}))

	_, _, err := engine.Predict(inputTensor(t))
	assert.Error(t, err)
}

func TestArgmax(t *testing.T) {
	tests := []struct {
		name string
		in   []float32
		want int
	}{
		{name: "single", in: []float32{0.9}, want: 0},
		{name: "max at end", in: []float32{0.1, 0.2, 0.7}, want: 2},
		{name: "max at start", in: []float32{0.7, 0.2, 0.1}, want: 0},
		{name: "tie takes first", in: []float32{0.2, 0.5, 0.5, 0.1}, want: 1},
		{name: "all equal", in: []float32{0.25, 0.25, 0.25, 0.25}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Argmax(tt.in))
		})
	}
}
