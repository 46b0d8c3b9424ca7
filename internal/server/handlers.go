package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/MeKo-Tech/labelbridge/internal/align"
	"github.com/MeKo-Tech/labelbridge/internal/labelstudio"
	"github.com/MeKo-Tech/labelbridge/internal/model"
	"github.com/MeKo-Tech/labelbridge/internal/textract"
	"github.com/MeKo-Tech/labelbridge/internal/version"
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	v, _, _ := version.Info()
	response := HealthResponse{
		Status:  "healthy",
		Version: v,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("encoding health response", "error", err)
	}
}

// tasksHandler converts OCR and model documents into annotation tasks.
func (s *Server) tasksHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)

	var req TasksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		recordConvertMetrics("tasks", "bad_request")
		s.writeTasksError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.OCR) == 0 || len(req.Predictions) == 0 {
		recordConvertMetrics("tasks", "bad_request")
		s.writeTasksError(w, "both ocr and predictions documents are required", http.StatusBadRequest)
		return
	}

	pages, err := textract.ParseWords(req.OCR)
	if err != nil {
		status := http.StatusUnprocessableEntity
		outcome := "unsupported_format"
		if !errors.Is(err, textract.ErrUnsupportedFormat) {
			status = http.StatusBadRequest
			outcome = "bad_request"
		}
		recordConvertMetrics("tasks", outcome)
		s.writeTasksError(w, "parsing OCR document: "+err.Error(), status)
		return
	}

	preds, err := model.ParsePredictions(req.Predictions)
	if err != nil {
		recordConvertMetrics("tasks", "bad_request")
		s.writeTasksError(w, "parsing model document: "+err.Error(), http.StatusBadRequest)
		return
	}

	threshold := s.iouThreshold
	if req.IoUThreshold != nil {
		threshold = *req.IoUThreshold
	}
	if threshold < 0 || threshold > 1 {
		recordConvertMetrics("tasks", "bad_request")
		s.writeTasksError(w, "iou_threshold must be between 0.0 and 1.0", http.StatusBadRequest)
		return
	}

	modelVersion := req.ModelVersion
	if modelVersion == "" {
		modelVersion = s.modelVersion
	}

	aligned := align.Match(pages, preds, threshold)
	tasks := labelstudio.AssembleTasks(pages, preds, aligned, labelstudio.AssembleOptions{
		ImageSource:  req.Image,
		ModelVersion: modelVersion,
	})

	wordCount := 0
	for _, words := range pages {
		wordCount += len(words)
	}
	taskRegions.WithLabelValues("tasks").Observe(float64(wordCount))
	recordConvertMetrics("tasks", "success")

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(TasksResponse{Success: true, Tasks: tasks}); err != nil {
		slog.Error("encoding tasks response", "error", err)
	}
}

// exportHandler maps a reviewed annotation export back to model records.
func (s *Server) exportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)

	var tasks []labelstudio.Task
	if err := json.NewDecoder(r.Body).Decode(&tasks); err != nil {
		recordConvertMetrics("export", "bad_request")
		s.writeExportError(w, "invalid export document: "+err.Error(), http.StatusBadRequest)
		return
	}

	records := labelstudio.ReverseMap(tasks)
	exportRecords.WithLabelValues("export").Observe(float64(len(records)))
	recordConvertMetrics("export", "success")

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ExportResponse{Success: true, Records: records}); err != nil {
		slog.Error("encoding export response", "error", err)
	}
}

func (s *Server) writeTasksError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(TasksResponse{Success: false, Error: msg}); err != nil {
		slog.Error("encoding error response", "error", err)
	}
}

func (s *Server) writeExportError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ExportResponse{Success: false, Error: msg}); err != nil {
		slog.Error("encoding error response", "error", err)
	}
}
