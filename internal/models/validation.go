package models

import "time"

// FileType names the two supply-chain declaration files this service checks.
type FileType string

const (
	FileTypeAdsTxt    FileType = "ads.txt"
	FileTypeAppAdsTxt FileType = "app-ads.txt"
)

// ParseFileType canonicalizes a file type string, defaulting to ads.txt.
func ParseFileType(s string) (FileType, bool) {
	switch s {
	case "", string(FileTypeAdsTxt):
		return FileTypeAdsTxt, true
	case string(FileTypeAppAdsTxt):
		return FileTypeAppAdsTxt, true
	}
	return "", false
}

// ValidationSummary aggregates counts over one validated file.
type ValidationSummary struct {
	Total         int `json:"total"`
	Valid         int `json:"valid"`
	Invalid       int `json:"invalid"`
	Warnings      int `json:"warnings"`
	DirectCount   int `json:"direct_count"`
	ResellerCount int `json:"reseller_count"`
}

// ValidationResponse is the full outcome of validating one domain's file.
type ValidationResponse struct {
	Domain    string            `json:"domain"`
	FileType  FileType          `json:"file_type"`
	Entries   []*Entry          `json:"entries"`
	Summary   ValidationSummary `json:"summary"`
	Cached    bool              `json:"cached"`
	Timestamp time.Time         `json:"timestamp"`
}

// BatchValidationRequest asks for several domains to be validated at once.
type BatchValidationRequest struct {
	Domains  []string `json:"domains"`
	FileType string   `json:"file_type,omitempty"`
}

// DomainValidationResult is one domain's slot in a batch response.
type DomainValidationResult struct {
	Domain    string             `json:"domain"`
	Summary   *ValidationSummary `json:"summary,omitempty"`
	Cached    bool               `json:"cached"`
	Error     string             `json:"error,omitempty"`
	Success   bool               `json:"success"`
	Timestamp time.Time          `json:"timestamp,omitempty"`
}

// BatchSummary provides success/failure counts for a batch run.
type BatchSummary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// BatchValidationResponse is the aggregate outcome of a batch run.
type BatchValidationResponse struct {
	Results   []DomainValidationResult `json:"results"`
	Summary   BatchSummary             `json:"summary"`
	Timestamp time.Time                `json:"timestamp"`
}

// ScanRecord is one row of validation history.
type ScanRecord struct {
	ID        string            `json:"id"`
	Domain    string            `json:"domain"`
	FileType  FileType          `json:"file_type"`
	Summary   ValidationSummary `json:"summary"`
	CreatedAt time.Time         `json:"created_at"`
}
