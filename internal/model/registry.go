package model

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/ekisa-team/leafsense/internal/manifest"
	"github.com/ekisa-team/leafsense/internal/tensor"
)

// State is the lifecycle state of the registry.
type State int32

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Registry owns the one process-wide model instance. Lifecycle is
// Uninitialized -> Loading -> {Ready, Failed}; Failed is terminal for
// the process, there is no automatic retry. Requests are gated on
// Ready: nothing ever runs against a partially constructed model.
type Registry struct {
	mu      sync.Mutex
	state   atomic.Int32
	model   Model
	failure error
	builder Builder
}

// NewRegistry creates an uninitialized registry using the given
// builder for model construction.
func NewRegistry(builder Builder) *Registry {
	return &Registry{builder: builder}
}

// Initialize performs the one-time load: manifest + shards through the
// loader, then model construction from the assembled artifact. A
// second call when already Ready is a no-op; a call after a failure
// returns the original failure.
func (r *Registry) Initialize(manifestPath, shardDir string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch State(r.state.Load()) {
	case StateReady:
		return nil
	case StateFailed:
		return r.failure
	}

	r.state.Store(int32(StateLoading))
	slog.Info("Loading model", "manifest", manifestPath, "shard_dir", shardDir)

	art, err := manifest.Load(manifestPath, shardDir)
	if err != nil {
		return r.fail(fmt.Errorf("%w: %w", ErrLoadFailed, err))
	}

	m, err := r.builder(art)
	if err != nil {
		return r.fail(fmt.Errorf("%w: graph construction: %w", ErrLoadFailed, err))
	}

	r.model = m
	// The Ready store is the release barrier: r.model is written above
	// and never mutated again.
	r.state.Store(int32(StateReady))

	slog.Info("Model ready", "classes", m.ClassCount(), "weight_bytes", len(art.Buffer))
	return nil
}

func (r *Registry) fail(err error) error {
	r.failure = err
	r.state.Store(int32(StateFailed))
	slog.Error("Model load failed", "error", err)
	return err
}

// State returns the current lifecycle state.
func (r *Registry) State() State {
	return State(r.state.Load())
}

// IsReady reports whether the model can serve inference.
func (r *Registry) IsReady() bool {
	return r.State() == StateReady
}

// Infer runs one forward pass through the ready model. Concurrent
// calls are allowed; the state load pairs with the Ready store in
// Initialize, so no lock is taken here.
func (r *Registry) Infer(t *tensor.Tensor) ([]float32, error) {
	if !r.IsReady() {
		return nil, ErrNotReady
	}

	return r.model.Infer(t)
}

// InputSize returns the ready model's spatial input resolution, or 0
// when no model is loaded.
func (r *Registry) InputSize() int {
	if !r.IsReady() {
		return 0
	}

	return r.model.InputSize()
}

// Close releases the model, if one was constructed.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.model == nil {
		return nil
	}

	return r.model.Close()
}
