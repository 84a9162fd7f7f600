package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ekisa-team/leafsense/internal/model"
	"github.com/ekisa-team/leafsense/internal/preprocess"
	"github.com/ekisa-team/leafsense/internal/service"
)

// predictResponse is the success envelope of POST /predict.
type predictResponse struct {
	Status     string `json:"status"`
	Label      string `json:"label"`
	Confidence string `json:"confidence"`
	Solution   string `json:"solution"`
	Pesticide  string `json:"pesticide"`
}

// errorResponse is the error envelope shared by all endpoints.
type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Handler serves the prediction API. It owns the upload deposit: the
// multipart file is written into uploadDir and the path handed to the
// prediction service, which deletes it when the request ends.
type Handler struct {
	service   *service.Prediction
	registry  *model.Registry
	uploadDir string
	maxBytes  int64
}

// NewHandler creates a new API handler.
func NewHandler(svc *service.Prediction, registry *model.Registry, uploadDir string, maxBytes int64) *Handler {
	return &Handler{
		service:   svc,
		registry:  registry,
		uploadDir: uploadDir,
		maxBytes:  maxBytes,
	}
}

// Register mounts the API routes.
func (h *Handler) Register(r *gin.Engine) {
	r.POST("/predict", h.Predict)
	r.GET("/health", h.Health)
}

// Health reports model readiness.
func (h *Handler) Health(c *gin.Context) {
	state := h.registry.State()
	if state != model.StateReady {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "model": state.String()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "healthy", "model": state.String()})
}

// Predict classifies an uploaded leaf image. Expects a multipart form
// with a single file field named "image".
func (h *Handler) Predict(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{
			Status:  "error",
			Message: "no image file provided, use 'image' as the form field name",
		})
		return
	}

	if h.maxBytes > 0 && file.Size > h.maxBytes {
		c.JSON(http.StatusBadRequest, errorResponse{
			Status:  "error",
			Message: fmt.Sprintf("image exceeds the %d byte limit", h.maxBytes),
		})
		return
	}

	dst := filepath.Join(h.uploadDir, fmt.Sprintf("upload_%d%s", time.Now().UnixNano(), filepath.Ext(file.Filename)))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		slog.Error("Failed to save upload", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{
			Status:  "error",
			Message: "could not save uploaded file",
		})
		return
	}

	result, err := h.service.Handle(c.Request.Context(), dst)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, predictResponse{
		Status:     "success",
		Label:      result.Label,
		Confidence: fmt.Sprintf("%.2f", result.ConfidencePercent),
		Solution:   result.Solution,
		Pesticide:  result.Pesticide,
	})
}

// writeServiceError maps pipeline failures to the error envelope.
// Undecodable uploads are the client's fault; everything else is ours.
func (h *Handler) writeServiceError(c *gin.Context, err error) {
	var decodeErr *preprocess.DecodeError
	switch {
	case errors.As(err, &decodeErr):
		c.JSON(http.StatusBadRequest, errorResponse{
			Status:  "error",
			Message: "could not decode image, supported formats are JPEG, PNG and GIF",
		})
	case errors.Is(err, model.ErrNotReady):
		slog.Warn("Prediction rejected, model not ready")
		c.JSON(http.StatusInternalServerError, errorResponse{
			Status:  "error",
			Message: "model is not ready, try again later",
		})
	default:
		slog.Error("Prediction failed", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{
			Status:  "error",
			Message: "prediction failed",
		})
	}
}
