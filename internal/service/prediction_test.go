package service

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/leafsense/internal/catalog"
	"github.com/ekisa-team/leafsense/internal/manifest"
	"github.com/ekisa-team/leafsense/internal/model"
	"github.com/ekisa-team/leafsense/internal/preprocess"
	"github.com/ekisa-team/leafsense/internal/tensor"
)

type fakeModel struct {
	out []float32
}

func (f *fakeModel) Infer(t *tensor.Tensor) ([]float32, error) {
	out := make([]float32, len(f.out))
	copy(out, f.out)
	return out, nil
}

func (f *fakeModel) ClassCount() int { return len(f.out) }
func (f *fakeModel) InputSize() int  { return 16 }
func (f *fakeModel) Close() error    { return nil }

func readyRegistry(t *testing.T, out []float32) *model.Registry {
	t.Helper()

	m := manifest.Manifest{
		Version: "1",
		Topology: manifest.Topology{
			Format: "onnx", InputName: "input", OutputName: "output",
			InputSize: 16, ClassCount: len(out),
		},
		Weights: []manifest.WeightSpec{
			{Name: "head/bias", Shape: []int64{4}, DType: manifest.DTypeUint8},
		},
		Shards: []string{"weights.bin"},
	}

	dir := t.TempDir()
	data, err := json.Marshal(m)
	require.NoError(t, err)
	manifestPath := filepath.Join(dir, "manifest.json")
	require.NoError(t, os.WriteFile(manifestPath, data, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "weights.bin"), make([]byte, 4), 0o644))

	reg := model.NewRegistry(func(art *manifest.Artifact) (model.Model, error) {
		return &fakeModel{out: out}, nil
	})
	require.NoError(t, reg.Initialize(manifestPath, dir))

	return reg
}

func newService(t *testing.T, reg *model.Registry, indexToName map[string]string, remedies map[string]catalog.Entry) *Prediction {
	t.Helper()

	labels, err := catalog.BuildLabels(indexToName)
	require.NoError(t, err)

	cat := catalog.NewCatalog()
	if remedies != nil {
		cat.Replace(remedies)
	}

	return NewPrediction(reg, model.NewEngine(reg), preprocess.New(16), labels, cat)
}

// writeUpload drops a decodable JPEG into a temp dir, standing in for
// the web layer's deposit.
func writeUpload(t *testing.T) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 40, G: 180, B: 60, A: 255})
		}
	}

	path := filepath.Join(t.TempDir(), "leaf.jpg")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, img, nil))
	require.NoError(t, f.Close())

	return path
}

func TestHandle_Success(t *testing.T) {
	reg := readyRegistry(t, []float32{0.1, 0.8, 0.1})
	svc := newService(t,
		reg,
		map[string]string{"0": "Healthy", "1": "Early_Blight", "2": "Late_Blight"},
		map[string]catalog.Entry{
			"Early_Blight": {Solution: "Remove affected leaves.", Pesticide: "Copper fungicide."},
		},
	)
	upload := writeUpload(t)

	result, err := svc.Handle(context.Background(), upload)
	require.NoError(t, err)

	assert.Equal(t, "Early_Blight", result.Label)
	assert.InDelta(t, 80.00, result.ConfidencePercent, 1e-9)
	assert.Equal(t, "Remove affected leaves.", result.Solution)
	assert.Equal(t, "Copper fungicide.", result.Pesticide)

	assert.NoFileExists(t, upload, "upload must be deleted on success")
}

func TestHandle_ConfidenceRoundsToTwoDecimals(t *testing.T) {
	reg := readyRegistry(t, []float32{1.0 / 3.0, 2.0 / 3.0})
	svc := newService(t, reg, map[string]string{"0": "A", "1": "B"}, nil)

	result, err := svc.Handle(context.Background(), writeUpload(t))
	require.NoError(t, err)

	assert.InDelta(t, 66.67, result.ConfidencePercent, 1e-9)
}

func TestHandle_TieConfidence(t *testing.T) {
	reg := readyRegistry(t, []float32{0.2, 0.5, 0.5, 0.1})
	svc := newService(t, reg, map[string]string{"0": "A", "1": "B", "2": "C", "3": "D"}, nil)

	result, err := svc.Handle(context.Background(), writeUpload(t))
	require.NoError(t, err)

	assert.Equal(t, "B", result.Label)
	assert.InDelta(t, 50.00, result.ConfidencePercent, 1e-9)
}

func TestHandle_IndexBeyondLabelsIsUnknown(t *testing.T) {
	// Model emits four classes but only two labels exist.
	reg := readyRegistry(t, []float32{0.1, 0.1, 0.1, 0.7})
	svc := newService(t, reg, map[string]string{"0": "A", "1": "B"}, nil)
	upload := writeUpload(t)

	result, err := svc.Handle(context.Background(), upload)
	require.NoError(t, err)

	assert.Equal(t, catalog.UnknownLabel, result.Label)
	assert.NotEmpty(t, result.Solution)
	assert.NotEmpty(t, result.Pesticide)
	assert.NoFileExists(t, upload)
}

func TestHandle_MissingRemedyUsesDefault(t *testing.T) {
	reg := readyRegistry(t, []float32{0.9, 0.1})
	svc := newService(t, reg, map[string]string{"0": "Rust", "1": "Healthy"}, nil)

	result, err := svc.Handle(context.Background(), writeUpload(t))
	require.NoError(t, err)

	assert.Equal(t, "Rust", result.Label)
	assert.Equal(t, "Use proper fertilizers and care.", result.Solution)
	assert.Equal(t, "Apply recommended pesticide.", result.Pesticide)
}

func TestHandle_NotReadyDeletesUpload(t *testing.T) {
	reg := model.NewRegistry(model.BuildONNX) // never initialized
	svc := newService(t, reg, map[string]string{"0": "A"}, nil)
	upload := writeUpload(t)

	_, err := svc.Handle(context.Background(), upload)

	assert.ErrorIs(t, err, model.ErrNotReady)
	assert.NoFileExists(t, upload, "upload must be deleted even when the model is not ready")
}

func TestHandle_DecodeFailureDeletesUpload(t *testing.T) {
	reg := readyRegistry(t, []float32{1})
	svc := newService(t, reg, map[string]string{"0": "A"}, nil)

	upload := filepath.Join(t.TempDir(), "corrupt.jpg")
	require.NoError(t, os.WriteFile(upload, []byte("not an image"), 0o644))

	_, err := svc.Handle(context.Background(), upload)

	var derr *preprocess.DecodeError
	assert.ErrorAs(t, err, &derr)
	assert.NoFileExists(t, upload, "upload must be deleted on decode failure")
}

func TestHandle_CancelledContextDeletesUpload(t *testing.T) {
	reg := readyRegistry(t, []float32{1})
	svc := newService(t, reg, map[string]string{"0": "A"}, nil)
	upload := writeUpload(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Handle(ctx, upload)

	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, upload)
}
