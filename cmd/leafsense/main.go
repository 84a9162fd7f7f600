package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"time"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/ekisa-team/leafsense/internal/catalog"
	"github.com/ekisa-team/leafsense/internal/config"
	"github.com/ekisa-team/leafsense/internal/env"
	"github.com/ekisa-team/leafsense/internal/logger"
	"github.com/ekisa-team/leafsense/internal/model"
	"github.com/ekisa-team/leafsense/internal/preprocess"
	httpserver "github.com/ekisa-team/leafsense/internal/server/http"
	"github.com/ekisa-team/leafsense/internal/service"
	"github.com/ekisa-team/leafsense/internal/xfs"
)

func main() {
	var (
		flagConfigPath = flag.String("config", path.Join(config.DefaultConfigPath(), "config.yaml"), "Path to config file")
		flagSchemaPath = flag.String("schema", path.Join(config.DefaultConfigPath(), "leafsense.v1.schema.json"), "Path to schema file")
	)
	flag.Parse()

	environment := env.FromEnv()

	slog.SetDefault(
		logger.New(environment,
			logger.WithLogToFile(true),
			logger.WithLogFile("logs/leafsense.log"),
		),
	)

	cfg, err := config.LoadAndValidate(*flagConfigPath, *flagSchemaPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		return
	}
	slog.Info("Config loaded successfully", "config", *flagConfigPath, "schema", *flagSchemaPath)

	if err := ort.InitializeEnvironment(); err != nil {
		slog.Error("Failed to initialize ONNX Runtime environment", "error", err)
		return
	}
	defer ort.DestroyEnvironment()

	// Startup failures leave the process serving /health as unhealthy
	// and rejecting predictions; there is no automatic retry.
	registry := model.NewRegistry(model.BuildONNX)
	labels := loadArtifacts(cfg, registry)

	remedies, err := catalog.LoadCatalog(cfg.Model.Remedies)
	if err != nil {
		slog.Error("Failed to load remedy catalog, using defaults", "error", err)
		remedies = catalog.NewCatalog()
	} else if cfg.Model.Remedies != "" && remedies.Len() > 0 {
		catalog.NewWatcher(cfg.Model.Remedies, remedies)
	}

	size := registry.InputSize()
	if size == 0 {
		size = preprocess.DefaultSize
	}

	uploadDir := cfg.ResolveUploadDir()
	if err := xfs.EnsureDirectory(uploadDir); err != nil {
		slog.Error("Failed to create upload directory", "path", uploadDir, "error", err)
		return
	}

	svc := service.NewPrediction(registry, model.NewEngine(registry), preprocess.New(size), labels, remedies)
	handler := httpserver.NewHandler(svc, registry, uploadDir, cfg.Upload.MaxBytes)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.ResolveHTTPPort())
	server := httpserver.NewServer(addr, handler)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	go func() {
		slog.Info("Listening", "address", addr, "state", registry.State().String())
		if err := server.ListenAndServe(); err != nil {
			slog.Error("Server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown error", "error", err)
	}
	if err := registry.Close(); err != nil {
		slog.Error("Failed to close model", "error", err)
	}
}

// loadArtifacts loads the label map and initializes the model
// registry. Either failure leaves the registry unready; the label map
// is always usable, empty at worst.
func loadArtifacts(cfg *config.Config, registry *model.Registry) *catalog.LabelMap {
	labels, err := catalog.LoadLabels(cfg.Model.Labels)
	if err != nil {
		slog.Error("Failed to load labels, refusing to load model", "error", err)
		labels, _ = catalog.BuildLabels(nil)
		return labels
	}

	modelDir := cfg.ResolveModelDir()
	manifestPath := filepath.Join(modelDir, cfg.Model.Manifest)
	if err := registry.Initialize(manifestPath, modelDir); err != nil {
		// Already logged by the registry; the service stays unready.
		return labels
	}

	if registry.IsReady() {
		classCount := len(labels.Labels())
		slog.Info("Artifacts loaded", "labels", classCount)
	}

	return labels
}
