package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"adstxt-validator/internal/catalog"
	"adstxt-validator/internal/history"
	"adstxt-validator/internal/logger"
	"adstxt-validator/internal/models"
	"adstxt-validator/internal/validation"

	"github.com/gorilla/mux"
)

const maxBatchDomains = 100

// Handler contains the HTTP handlers for the API
type Handler struct {
	validationService validation.Service
	catalog           catalog.Store
	history           history.Store
	logger            logger.Service
}

// NewHandler creates a new HTTP handler
func NewHandler(
	validationService validation.Service,
	catalogStore catalog.Store,
	historyStore history.Store,
	logger logger.Service,
) *Handler {
	return &Handler{
		validationService: validationService,
		catalog:           catalogStore,
		history:           historyStore,
		logger:            logger,
	}
}

// ValidateContentRequest is the body of POST /api/validate.
type ValidateContentRequest struct {
	Content  string `json:"content"`
	Domain   string `json:"domain,omitempty"`
	FileType string `json:"file_type,omitempty"`
}

// OptimizeRequest is the body of POST /api/optimize.
type OptimizeRequest struct {
	Content string               `json:"content"`
	Domain  string               `json:"domain,omitempty"`
	Steps   models.OptimizeSteps `json:"steps"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// HistoryResponse wraps a domain's stored scan records.
type HistoryResponse struct {
	Domain  string               `json:"domain"`
	Records []*models.ScanRecord `json:"records"`
}

// writeJSONResponse writes a JSON response with standard headers including X-Request-ID
func (h *Handler) writeJSONResponse(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) error {
	logEvent := logger.GetLogEvent(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", logEvent.ProcessID)
	w.WriteHeader(statusCode)

	return json.NewEncoder(w).Encode(data)
}

// ValidateDomain handles GET /api/validate/{domain}
func (h *Handler) ValidateDomain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	vars := mux.Vars(r)
	domain := vars["domain"]
	if domain == "" {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "domain is required", "")
		return
	}

	fileType, ok := models.ParseFileType(r.URL.Query().Get("file_type"))
	if !ok {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "invalid file_type", "file_type must be ads.txt or app-ads.txt")
		return
	}

	h.logger.LogInfo(ctx, logger.OpValidateDomain, fmt.Sprintf("Starting validation for domain: %s", domain), map[string]interface{}{
		"domain":    domain,
		"file_type": string(fileType),
	})

	response, err := h.validationService.ValidateDomain(ctx, domain, fileType)
	if err != nil {
		h.logger.LogError(ctx, logger.OpValidateDomain, domain, "Domain validation failed", err, models.LogSeverityMedium, nil)
		h.writeErrorResponse(w, r, h.getStatusCodeForError(err), "validation failed", err.Error())
		return
	}

	if err := h.writeJSONResponse(w, r, http.StatusOK, response); err != nil {
		h.logger.LogError(ctx, logger.OpValidateDomain, domain, "Failed to encode response", err, models.LogSeverityLow, nil)
		return
	}

	h.logger.LogSuccess(ctx, logger.OpValidateDomain, domain, "Successfully validated domain", nil)
}

// ValidateContent handles POST /api/validate
func (h *Handler) ValidateContent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var request ValidateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.logger.LogError(ctx, logger.OpValidateContent, "", "Invalid request body", err, models.LogSeverityLow, nil)
		h.writeErrorResponse(w, r, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if request.Content == "" {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "content is required", "")
		return
	}

	fileType, ok := models.ParseFileType(request.FileType)
	if !ok {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "invalid file_type", "file_type must be ads.txt or app-ads.txt")
		return
	}

	response, err := h.validationService.ValidateContent(ctx, request.Content, request.Domain, fileType)
	if err != nil {
		h.logger.LogError(ctx, logger.OpValidateContent, request.Domain, "Content validation failed", err, models.LogSeverityMedium, nil)
		h.writeErrorResponse(w, r, http.StatusInternalServerError, "validation failed", err.Error())
		return
	}

	if err := h.writeJSONResponse(w, r, http.StatusOK, response); err != nil {
		h.logger.LogError(ctx, logger.OpValidateContent, request.Domain, "Failed to encode response", err, models.LogSeverityLow, nil)
		return
	}

	h.logger.LogSuccess(ctx, logger.OpValidateContent, request.Domain, "Successfully validated content", map[string]interface{}{
		"content_size": len(request.Content),
	})
}

// ValidateBatchDomains handles POST /api/batch-validate
func (h *Handler) ValidateBatchDomains(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var request models.BatchValidationRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.logger.LogError(ctx, logger.OpBatchValidation, "", "Invalid request body", err, models.LogSeverityLow, nil)
		h.writeErrorResponse(w, r, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if len(request.Domains) == 0 {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "domains array cannot be empty", "")
		return
	}

	if len(request.Domains) > maxBatchDomains {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "too many domains", fmt.Sprintf("Maximum %d domains per batch", maxBatchDomains))
		return
	}

	fileType, ok := models.ParseFileType(request.FileType)
	if !ok {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "invalid file_type", "file_type must be ads.txt or app-ads.txt")
		return
	}

	h.logger.LogInfo(ctx, logger.OpBatchValidation, fmt.Sprintf("Starting batch validation for %d domains", len(request.Domains)), map[string]interface{}{
		"domains_count": len(request.Domains),
		"domains":       request.Domains,
	})

	response, err := h.validationService.ValidateDomains(ctx, request.Domains, fileType)
	if err != nil {
		h.logger.LogError(ctx, logger.OpBatchValidation, "", "Batch validation failed", err, models.LogSeverityMedium, nil)
		h.writeErrorResponse(w, r, http.StatusInternalServerError, "batch validation failed", err.Error())
		return
	}

	statusCode := h.getBatchStatusCode(response)

	if err := h.writeJSONResponse(w, r, statusCode, response); err != nil {
		h.logger.LogError(ctx, logger.OpBatchValidation, "", "Failed to encode batch response", err, models.LogSeverityLow, nil)
		return
	}

	h.logger.LogSuccess(ctx, logger.OpBatchValidation, "", fmt.Sprintf("Completed batch validation: %d succeeded, %d failed", response.Summary.Succeeded, response.Summary.Failed), map[string]interface{}{
		"total":     response.Summary.Total,
		"succeeded": response.Summary.Succeeded,
		"failed":    response.Summary.Failed,
	})
}

// OptimizeContent handles POST /api/optimize
func (h *Handler) OptimizeContent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var request OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.logger.LogError(ctx, logger.OpOptimize, "", "Invalid request body", err, models.LogSeverityLow, nil)
		h.writeErrorResponse(w, r, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if request.Content == "" {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "content is required", "")
		return
	}

	result, err := h.validationService.OptimizeContent(ctx, request.Content, request.Domain, request.Steps)
	if err != nil {
		h.logger.LogError(ctx, logger.OpOptimize, request.Domain, "Content optimization failed", err, models.LogSeverityMedium, nil)
		h.writeErrorResponse(w, r, http.StatusInternalServerError, "optimization failed", err.Error())
		return
	}

	if err := h.writeJSONResponse(w, r, http.StatusOK, result); err != nil {
		h.logger.LogError(ctx, logger.OpOptimize, request.Domain, "Failed to encode response", err, models.LogSeverityLow, nil)
	}
}

// GetCacheInfo handles GET /api/cache-info/{domain}
func (h *Handler) GetCacheInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	vars := mux.Vars(r)
	domain := vars["domain"]
	if domain == "" {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "domain is required", "")
		return
	}

	info, err := h.catalog.GetCacheInfo(ctx, domain)
	if err != nil {
		h.logger.LogError(ctx, logger.OpCrossCheck, domain, "Failed to read catalog state", err, models.LogSeverityLow, nil)
		h.writeErrorResponse(w, r, http.StatusInternalServerError, "catalog lookup failed", err.Error())
		return
	}

	if err := h.writeJSONResponse(w, r, http.StatusOK, info); err != nil {
		h.logger.LogError(ctx, logger.OpCrossCheck, domain, "Failed to encode response", err, models.LogSeverityLow, nil)
	}
}

// GetHistory handles GET /api/history/{domain}
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	vars := mux.Vars(r)
	domain := vars["domain"]
	if domain == "" {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "domain is required", "")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.writeErrorResponse(w, r, http.StatusBadRequest, "invalid limit", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	records, err := h.history.ListByDomain(ctx, domain, limit)
	if err != nil {
		h.logger.LogError(ctx, logger.OpScanHistory, domain, "Failed to list scan history", err, models.LogSeverityLow, nil)
		h.writeErrorResponse(w, r, http.StatusInternalServerError, "history lookup failed", err.Error())
		return
	}

	response := HistoryResponse{Domain: domain, Records: records}
	if err := h.writeJSONResponse(w, r, http.StatusOK, response); err != nil {
		h.logger.LogError(ctx, logger.OpScanHistory, domain, "Failed to encode response", err, models.LogSeverityLow, nil)
	}
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
	}

	if err := h.writeJSONResponse(w, r, http.StatusOK, response); err != nil {
		h.logger.LogError(ctx, logger.OpHealthCheck, "", "Failed to encode health response", err, models.LogSeverityLow, nil)
		return
	}

	h.logger.LogInfo(ctx, logger.OpHealthCheck, "Health check performed successfully", nil)
}

// writeErrorResponse writes a standardized error response
func (h *Handler) writeErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, error, message string) {
	response := ErrorResponse{
		Error:     error,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}

	if err := h.writeJSONResponse(w, r, statusCode, response); err != nil {
		h.logger.LogError(r.Context(), "response_encoding", "", "Failed to encode error response", err, models.LogSeverityLow, nil)
	}
}

// getStatusCodeForError determines the appropriate HTTP status code for an error
func (h *Handler) getStatusCodeForError(err error) int {
	switch {
	case errors.Is(err, models.ErrFileNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrFetchTimeout):
		return http.StatusRequestTimeout
	case errors.Is(err, models.ErrInvalidDomain):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// getBatchStatusCode determines the status code for batch responses
func (h *Handler) getBatchStatusCode(response *models.BatchValidationResponse) int {
	if response.Summary.Failed == 0 {
		return http.StatusOK
	}
	if response.Summary.Succeeded == 0 {
		return http.StatusBadRequest
	}
	// Partial success
	return http.StatusMultiStatus
}
