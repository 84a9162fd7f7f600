package model

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/ekisa-team/leafsense/internal/manifest"
	"github.com/ekisa-team/leafsense/internal/tensor"
)

// Model is a loaded, immutable inference graph. Implementations must
// be safe for concurrent Infer calls.
type Model interface {
	// Infer runs one forward pass and returns the raw output vector,
	// one probability per class index.
	Infer(t *tensor.Tensor) ([]float32, error)

	// ClassCount returns the length of the output vector.
	ClassCount() int

	// InputSize returns the spatial input resolution the graph expects.
	InputSize() int

	// Close releases native resources.
	Close() error
}

// Builder constructs a Model from a loaded artifact, consuming its
// weight buffer. Injected into the Registry so tests can substitute
// doubles for the native runtime.
type Builder func(art *manifest.Artifact) (Model, error)

// ortModel runs inference through ONNX Runtime. The session is bound
// to fixed input/output tensors, so Run calls are serialized by a
// mutex; callers above see a concurrency-safe Model.
type ortModel struct {
	mu         sync.Mutex
	session    *ort.AdvancedSession
	input      *ort.Tensor[float32]
	output     *ort.Tensor[float32]
	classCount int
	inputSize  int
}

// BuildONNX is the production Builder. It accounts for every weight
// byte range before construction, then creates a session directly from
// the in-memory buffer assembled by the manifest loader.
func BuildONNX(art *manifest.Artifact) (Model, error) {
	if art.Topology.Format != "onnx" {
		return nil, fmt.Errorf("unsupported graph format %q", art.Topology.Format)
	}

	// Every declared weight range must land inside the buffer with no
	// bytes left over. A mismatch here means a corrupt artifact, not
	// something inference should run on.
	if _, err := manifest.SliceWeights(art.Weights, art.Buffer); err != nil {
		return nil, fmt.Errorf("weight layout mismatch: %w", err)
	}

	side := int64(art.Topology.InputSize)
	inputShape := ort.NewShape(1, side, side, 3)
	outputShape := ort.NewShape(1, int64(art.Topology.ClassCount))

	input, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	output, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSessionWithONNXData(art.Buffer,
		[]string{art.Topology.InputName}, []string{art.Topology.OutputName},
		[]ort.ArbitraryTensor{input}, []ort.ArbitraryTensor{output},
		nil)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &ortModel{
		session:    session,
		input:      input,
		output:     output,
		classCount: art.Topology.ClassCount,
		inputSize:  art.Topology.InputSize,
	}, nil
}

func (m *ortModel) Infer(t *tensor.Tensor) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	in := m.input.GetData()
	if len(t.Data) != len(in) {
		return nil, fmt.Errorf("input has %d elements, model expects %d", len(t.Data), len(in))
	}
	copy(in, t.Data)

	if err := m.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	// Copy out: the bound output tensor is reused by the next Run.
	out := make([]float32, len(m.output.GetData()))
	copy(out, m.output.GetData())

	return out, nil
}

func (m *ortModel) ClassCount() int {
	return m.classCount
}

func (m *ortModel) InputSize() int {
	return m.inputSize
}

func (m *ortModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.input != nil {
		m.input.Destroy()
		m.input = nil
	}
	if m.output != nil {
		m.output.Destroy()
		m.output = nil
	}
	if m.session != nil {
		m.session.Destroy()
		m.session = nil
	}

	return nil
}
