package service

import (
	"context"
	"log/slog"
	"math"
	"os"

	"github.com/ekisa-team/leafsense/internal/catalog"
	"github.com/ekisa-team/leafsense/internal/model"
	"github.com/ekisa-team/leafsense/internal/preprocess"
)

// Result is the request-scoped prediction outcome.
type Result struct {
	Label             string
	ConfidencePercent float64
	Solution          string
	Pesticide         string
}

// Prediction orchestrates the per-request pipeline: readiness gate,
// preprocessing, inference, label and remedy resolution. The uploaded
// file is a scoped resource owned by the request; Handle deletes it on
// every exit path.
type Prediction struct {
	registry     *model.Registry
	engine       *model.Engine
	preprocessor *preprocess.Preprocessor
	labels       *catalog.LabelMap
	remedies     *catalog.Catalog
}

// NewPrediction creates a new prediction service.
func NewPrediction(
	registry *model.Registry,
	engine *model.Engine,
	preprocessor *preprocess.Preprocessor,
	labels *catalog.LabelMap,
	remedies *catalog.Catalog,
) *Prediction {
	return &Prediction{
		registry:     registry,
		engine:       engine,
		preprocessor: preprocessor,
		labels:       labels,
		remedies:     remedies,
	}
}

// Handle classifies the uploaded image at imagePath and resolves the
// remedy for the predicted disease. The file at imagePath no longer
// exists when Handle returns, success or failure alike; a deletion
// failure is logged but never masks the pipeline error.
func (s *Prediction) Handle(ctx context.Context, imagePath string) (*Result, error) {
	defer func() {
		if err := os.Remove(imagePath); err != nil && !os.IsNotExist(err) {
			slog.Error("Failed to delete uploaded file", "path", imagePath, "error", err)
		}
	}()

	if !s.registry.IsReady() {
		return nil, model.ErrNotReady
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t, err := s.preprocessor.Process(imagePath)
	if err != nil {
		return nil, err
	}

	idx, confidence, err := s.engine.Predict(t)
	if err != nil {
		return nil, err
	}

	label := s.labels.Resolve(idx)
	if label == catalog.UnknownLabel {
		slog.Warn("Class index has no label", "index", idx, "classes", s.labels.Len())
	}

	entry, found := s.remedies.Lookup(label)
	if !found {
		slog.Warn("No remedy entry for label, using default", "label", label)
	}

	return &Result{
		Label:             label,
		ConfidencePercent: roundPercent(confidence),
		Solution:          entry.Solution,
		Pesticide:         entry.Pesticide,
	}, nil
}

// roundPercent converts a [0,1] confidence into a percentage rounded
// to two decimals.
func roundPercent(confidence01 float32) float64 {
	return math.Round(float64(confidence01)*10000) / 100
}
