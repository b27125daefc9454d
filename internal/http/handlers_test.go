package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpMocks "adstxt-validator/internal/http/mocks"
	"adstxt-validator/internal/mocks"
	"adstxt-validator/internal/models"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type handlerMocks struct {
	validation *httpMocks.MockValidationService
	catalog    *mocks.MockCatalogStore
	history    *mocks.MockHistoryStore
	logger     *mocks.MockLogger
}

func newTestHandler() (*Handler, *handlerMocks) {
	m := &handlerMocks{
		validation: &httpMocks.MockValidationService{},
		catalog:    &mocks.MockCatalogStore{},
		history:    &mocks.MockHistoryStore{},
		logger:     mocks.NewRelaxedLogger(),
	}
	return NewHandler(m.validation, m.catalog, m.history, m.logger), m
}

func TestHandler_ValidateDomain_Success(t *testing.T) {
	handler, m := newTestHandler()

	domain := "example.com"
	expected := &models.ValidationResponse{
		Domain:   domain,
		FileType: models.FileTypeAdsTxt,
		Summary:  models.ValidationSummary{Total: 3, Valid: 2, Invalid: 1},
		Entries: []*models.Entry{
			{Kind: models.EntryKindRecord, LineNumber: 1, IsValid: true, Record: &models.Record{Domain: "google.com", AccountID: "pub-1", Relationship: models.RelationshipDirect}},
		},
		Timestamp: time.Now().UTC(),
	}

	m.validation.On("ValidateDomain", mock.Anything, domain, models.FileTypeAdsTxt).Return(expected, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/validate/"+domain, nil)
	req = mux.SetURLVars(req, map[string]string{"domain": domain})
	w := httptest.NewRecorder()

	handler.ValidateDomain(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var response models.ValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, domain, response.Domain)
	assert.Equal(t, 3, response.Summary.Total)
	require.Len(t, response.Entries, 1)
	assert.Equal(t, "google.com", response.Entries[0].Record.Domain)

	m.validation.AssertExpectations(t)
}

func TestHandler_ValidateDomain_FileTypeQuery(t *testing.T) {
	handler, m := newTestHandler()

	expected := &models.ValidationResponse{Domain: "example.com", FileType: models.FileTypeAppAdsTxt}
	m.validation.On("ValidateDomain", mock.Anything, "example.com", models.FileTypeAppAdsTxt).Return(expected, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/validate/example.com?file_type=app-ads.txt", nil)
	req = mux.SetURLVars(req, map[string]string{"domain": "example.com"})
	w := httptest.NewRecorder()

	handler.ValidateDomain(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	m.validation.AssertExpectations(t)
}

func TestHandler_ValidateDomain_InvalidFileType(t *testing.T) {
	handler, m := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/validate/example.com?file_type=robots.txt", nil)
	req = mux.SetURLVars(req, map[string]string{"domain": "example.com"})
	w := httptest.NewRecorder()

	handler.ValidateDomain(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	m.validation.AssertNotCalled(t, "ValidateDomain")
}

func TestHandler_ValidateDomain_MissingDomain(t *testing.T) {
	handler, m := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/validate/", nil)
	req = mux.SetURLVars(req, map[string]string{})
	w := httptest.NewRecorder()

	handler.ValidateDomain(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "domain is required", response.Error)

	m.validation.AssertNotCalled(t, "ValidateDomain")
}

func TestHandler_ValidateDomain_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "file not found maps to 404",
			err:        models.NewDomainError("example.com", "failed to fetch ads.txt", models.ErrFileNotFound),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "fetch timeout maps to 408",
			err:        models.NewDomainError("example.com", "failed to fetch ads.txt", models.ErrFetchTimeout),
			wantStatus: http.StatusRequestTimeout,
		},
		{
			name:       "invalid domain maps to 400",
			err:        models.NewDomainError("example.com", "not a valid domain", models.ErrInvalidDomain),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown error maps to 500",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, m := newTestHandler()
			m.validation.On("ValidateDomain", mock.Anything, "example.com", models.FileTypeAdsTxt).Return(nil, tt.err)

			req := httptest.NewRequest(http.MethodGet, "/api/validate/example.com", nil)
			req = mux.SetURLVars(req, map[string]string{"domain": "example.com"})
			w := httptest.NewRecorder()

			handler.ValidateDomain(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)

			var response ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, "validation failed", response.Error)
		})
	}
}

func TestHandler_ValidateContent_Success(t *testing.T) {
	handler, m := newTestHandler()

	content := "google.com, pub-1, DIRECT"
	expected := &models.ValidationResponse{
		Domain:   "example.com",
		FileType: models.FileTypeAdsTxt,
		Summary:  models.ValidationSummary{Total: 1, Valid: 1, DirectCount: 1},
	}
	m.validation.On("ValidateContent", mock.Anything, content, "example.com", models.FileTypeAdsTxt).Return(expected, nil)

	body, _ := json.Marshal(ValidateContentRequest{Content: content, Domain: "example.com"})
	req := httptest.NewRequest(http.MethodPost, "/api/validate", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.ValidateContent(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response models.ValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Summary.DirectCount)

	m.validation.AssertExpectations(t)
}

func TestHandler_ValidateContent_EmptyContent(t *testing.T) {
	handler, m := newTestHandler()

	body, _ := json.Marshal(ValidateContentRequest{Domain: "example.com"})
	req := httptest.NewRequest(http.MethodPost, "/api/validate", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.ValidateContent(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	m.validation.AssertNotCalled(t, "ValidateContent")
}

func TestHandler_ValidateContent_MalformedBody(t *testing.T) {
	handler, m := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/validate", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	handler.ValidateContent(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	m.validation.AssertNotCalled(t, "ValidateContent")
}

func TestHandler_ValidateBatchDomains_Success(t *testing.T) {
	handler, m := newTestHandler()

	domains := []string{"a.com", "b.com"}
	expected := &models.BatchValidationResponse{
		Results: []models.DomainValidationResult{
			{Domain: "a.com", Success: true},
			{Domain: "b.com", Success: true},
		},
		Summary:   models.BatchSummary{Total: 2, Succeeded: 2},
		Timestamp: time.Now().UTC(),
	}
	m.validation.On("ValidateDomains", mock.Anything, domains, models.FileTypeAdsTxt).Return(expected, nil)

	body, _ := json.Marshal(models.BatchValidationRequest{Domains: domains})
	req := httptest.NewRequest(http.MethodPost, "/api/batch-validate", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.ValidateBatchDomains(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response models.BatchValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 2, response.Summary.Succeeded)

	m.validation.AssertExpectations(t)
}

func TestHandler_ValidateBatchDomains_PartialFailureUses207(t *testing.T) {
	handler, m := newTestHandler()

	domains := []string{"a.com", "b.com"}
	expected := &models.BatchValidationResponse{
		Results: []models.DomainValidationResult{
			{Domain: "a.com", Success: true},
			{Domain: "b.com", Success: false, Error: "fetch failed"},
		},
		Summary: models.BatchSummary{Total: 2, Succeeded: 1, Failed: 1},
	}
	m.validation.On("ValidateDomains", mock.Anything, domains, models.FileTypeAdsTxt).Return(expected, nil)

	body, _ := json.Marshal(models.BatchValidationRequest{Domains: domains})
	req := httptest.NewRequest(http.MethodPost, "/api/batch-validate", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.ValidateBatchDomains(w, req)

	assert.Equal(t, http.StatusMultiStatus, w.Code)
}

func TestHandler_ValidateBatchDomains_AllFailedUses400(t *testing.T) {
	handler, m := newTestHandler()

	domains := []string{"a.com"}
	expected := &models.BatchValidationResponse{
		Results: []models.DomainValidationResult{{Domain: "a.com", Success: false, Error: "fetch failed"}},
		Summary: models.BatchSummary{Total: 1, Failed: 1},
	}
	m.validation.On("ValidateDomains", mock.Anything, domains, models.FileTypeAdsTxt).Return(expected, nil)

	body, _ := json.Marshal(models.BatchValidationRequest{Domains: domains})
	req := httptest.NewRequest(http.MethodPost, "/api/batch-validate", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.ValidateBatchDomains(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_ValidateBatchDomains_EmptyDomains(t *testing.T) {
	handler, m := newTestHandler()

	body, _ := json.Marshal(models.BatchValidationRequest{Domains: []string{}})
	req := httptest.NewRequest(http.MethodPost, "/api/batch-validate", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.ValidateBatchDomains(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	m.validation.AssertNotCalled(t, "ValidateDomains")
}

func TestHandler_ValidateBatchDomains_TooManyDomains(t *testing.T) {
	handler, m := newTestHandler()

	domains := make([]string, maxBatchDomains+1)
	for i := range domains {
		domains[i] = "example.com"
	}

	body, _ := json.Marshal(models.BatchValidationRequest{Domains: domains})
	req := httptest.NewRequest(http.MethodPost, "/api/batch-validate", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.ValidateBatchDomains(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	m.validation.AssertNotCalled(t, "ValidateDomains")
}

func TestHandler_OptimizeContent_Success(t *testing.T) {
	handler, m := newTestHandler()

	content := "google.com, pub-1, DIRECT\ngoogle.com, pub-1, DIRECT"
	steps := models.OptimizeSteps{DuplicateAction: models.ActionRemove}
	expected := &models.OptimizeResult{
		OptimizedContent: "google.com, pub-1, DIRECT",
		Stats:            models.OptimizeStats{OriginalLines: 2, FinalLines: 1, RemovedCount: 1},
	}
	m.validation.On("OptimizeContent", mock.Anything, content, "example.com", steps).Return(expected, nil)

	body, _ := json.Marshal(OptimizeRequest{Content: content, Domain: "example.com", Steps: steps})
	req := httptest.NewRequest(http.MethodPost, "/api/optimize", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.OptimizeContent(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response models.OptimizeResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "google.com, pub-1, DIRECT", response.OptimizedContent)
	assert.Equal(t, 1, response.Stats.RemovedCount)

	m.validation.AssertExpectations(t)
}

func TestHandler_OptimizeContent_EmptyContent(t *testing.T) {
	handler, m := newTestHandler()

	body, _ := json.Marshal(OptimizeRequest{Domain: "example.com"})
	req := httptest.NewRequest(http.MethodPost, "/api/optimize", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.OptimizeContent(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	m.validation.AssertNotCalled(t, "OptimizeContent")
}

func TestHandler_GetCacheInfo_Success(t *testing.T) {
	handler, m := newTestHandler()

	updated := time.Now().UTC()
	m.catalog.On("GetCacheInfo", mock.Anything, "google.com").Return(&models.CacheInfo{
		IsCached:    true,
		LastUpdated: &updated,
		Status:      models.CatalogStatusSuccess,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/cache-info/google.com", nil)
	req = mux.SetURLVars(req, map[string]string{"domain": "google.com"})
	w := httptest.NewRecorder()

	handler.GetCacheInfo(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response models.CacheInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.IsCached)
	assert.Equal(t, models.CatalogStatusSuccess, response.Status)

	m.catalog.AssertExpectations(t)
}

func TestHandler_GetCacheInfo_StoreError(t *testing.T) {
	handler, m := newTestHandler()

	m.catalog.On("GetCacheInfo", mock.Anything, "google.com").Return(nil, models.ErrCatalogUnavailable)

	req := httptest.NewRequest(http.MethodGet, "/api/cache-info/google.com", nil)
	req = mux.SetURLVars(req, map[string]string{"domain": "google.com"})
	w := httptest.NewRecorder()

	handler.GetCacheInfo(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandler_GetHistory_Success(t *testing.T) {
	handler, m := newTestHandler()

	records := []*models.ScanRecord{
		{ID: "id-1", Domain: "example.com", FileType: models.FileTypeAdsTxt, Summary: models.ValidationSummary{Total: 5}},
	}
	m.history.On("ListByDomain", mock.Anything, "example.com", 10).Return(records, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/history/example.com?limit=10", nil)
	req = mux.SetURLVars(req, map[string]string{"domain": "example.com"})
	w := httptest.NewRecorder()

	handler.GetHistory(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response HistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "example.com", response.Domain)
	require.Len(t, response.Records, 1)
	assert.Equal(t, "id-1", response.Records[0].ID)

	m.history.AssertExpectations(t)
}

func TestHandler_GetHistory_InvalidLimit(t *testing.T) {
	handler, m := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/history/example.com?limit=zero", nil)
	req = mux.SetURLVars(req, map[string]string{"domain": "example.com"})
	w := httptest.NewRecorder()

	handler.GetHistory(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	m.history.AssertNotCalled(t, "ListByDomain")
}

func TestHandler_HealthCheck(t *testing.T) {
	handler, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handler.HealthCheck(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response.Status)
	assert.NotEmpty(t, response.Version)
}
