package server

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MeKo-Tech/labelbridge/internal/labelstudio"
	"github.com/MeKo-Tech/labelbridge/internal/model"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	corsOrigin   string
	maxUploadMB  int64
	iouThreshold float64
	modelVersion string
}

// Config holds server configuration.
type Config struct {
	Host         string
	Port         int
	CORSOrigin   string
	MaxUploadMB  int64
	TimeoutSec   int
	IoUThreshold float64
	ModelVersion string
}

// TasksRequest is the payload of a forward conversion request. OCR and
// Predictions carry the raw source documents so the parsers keep full
// control over shape detection.
type TasksRequest struct {
	OCR          json.RawMessage `json:"ocr"`
	Predictions  json.RawMessage `json:"predictions"`
	Image        string          `json:"image"`
	IoUThreshold *float64        `json:"iou_threshold,omitempty"`
	ModelVersion string          `json:"model_version,omitempty"`
}

// TasksResponse is the forward conversion result.
type TasksResponse struct {
	Success bool               `json:"success"`
	Tasks   []labelstudio.Task `json:"tasks,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// ExportResponse is the reverse conversion result.
type ExportResponse struct {
	Success bool           `json:"success"`
	Records []model.Record `json:"records,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// HealthResponse reports server health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// NewServer creates a new conversion server instance.
func NewServer(config Config) *Server {
	return &Server{
		corsOrigin:   config.CORSOrigin,
		maxUploadMB:  config.MaxUploadMB,
		iouThreshold: config.IoUThreshold,
		modelVersion: config.ModelVersion,
	}
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/v1/tasks", s.corsMiddleware(s.tasksHandler))
	mux.HandleFunc("/v1/export", s.corsMiddleware(s.exportHandler))
	mux.Handle("/metrics", promhttp.Handler())
}
