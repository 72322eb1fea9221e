package reports

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/fdg312/fueltrack/internal/blob"
	"github.com/fdg312/fueltrack/internal/session"
)

// Handler handles HTTP requests for report exports.
type Handler struct {
	session      *session.Session
	generator    *Generator
	store        blob.Store
	presignTTL   int
	maxRangeDays int
	logger       *log.Logger
}

// NewHandler creates a new reports handler.
func NewHandler(s *session.Session, store blob.Store, presignTTL, maxRangeDays int, logger *log.Logger) *Handler {
	return &Handler{
		session:      s,
		generator:    NewGenerator(),
		store:        store,
		presignTTL:   presignTTL,
		maxRangeDays: maxRangeDays,
		logger:       logger,
	}
}

func (h *Handler) validateParams(days int, format string) (int, string, error) {
	if days == 0 {
		days = 30
	}
	if days < 1 || days > h.maxRangeDays {
		return 0, "", fmt.Errorf("days must be within 1-%d", h.maxRangeDays)
	}
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatPDF {
		return 0, "", fmt.Errorf("format must be csv or pdf")
	}
	return days, format, nil
}

// HandleExport handles GET /v1/reports/export?days=&format=
//
// Streams the report straight back instead of going through the blob
// store.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	days, format, err := h.validateParams(parseIntQuery(r, "days", 30), r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	profile := h.session.ActiveProfile()
	data, contentType, err := h.generator.Generate(profile.Name, format, days, h.session.HistorySnapshot(), h.session.Now())
	if err != nil {
		h.logger.Printf("WARN: report generation failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to generate report")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"nutrition-%dd.%s\"", days, format))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// HandleCreate handles POST /v1/reports
//
// Generates the report, stores it in the blob store and returns the
// object key plus a download URL.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	days, format, err := h.validateParams(req.Days, req.Format)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	profile := h.session.ActiveProfile()
	data, contentType, err := h.generator.Generate(profile.Name, format, days, h.session.HistorySnapshot(), h.session.Now())
	if err != nil {
		h.logger.Printf("WARN: report generation failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to generate report")
		return
	}

	key := fmt.Sprintf("reports/%s/%s.%s", profile.ID, uuid.NewString(), format)
	size, err := h.store.PutObject(r.Context(), key, data, contentType)
	if err != nil {
		h.logger.Printf("WARN: report upload failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to store report")
		return
	}

	url, err := h.store.PresignGet(r.Context(), key, h.presignTTL)
	if err != nil {
		h.logger.Printf("WARN: report presign failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to sign report URL")
		return
	}

	response := CreateReportResponse{
		Key:    key,
		URL:    url,
		Size:   size,
		Format: format,
		Days:   days,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}

	var val int
	if _, err := fmt.Sscanf(valStr, "%d", &val); err != nil {
		return defaultValue
	}

	return val
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
