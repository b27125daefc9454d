package models

import "strings"

// EntryKind discriminates the two entry shapes an ads.txt line can produce.
type EntryKind string

const (
	EntryKindRecord   EntryKind = "record"
	EntryKindVariable EntryKind = "variable"
)

// Relationship is the declared account relationship of a record.
type Relationship string

const (
	RelationshipDirect   Relationship = "DIRECT"
	RelationshipReseller Relationship = "RESELLER"
)

// ParseRelationship reports whether s is a valid relationship token
// (case-insensitive) and returns its canonical form.
func ParseRelationship(s string) (Relationship, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(RelationshipDirect):
		return RelationshipDirect, true
	case string(RelationshipReseller):
		return RelationshipReseller, true
	}
	return "", false
}

// VariableType enumerates the supported KEY=value declarations.
type VariableType string

const (
	VariableContact                VariableType = "CONTACT"
	VariableSubdomain              VariableType = "SUBDOMAIN"
	VariableInventoryPartnerDomain VariableType = "INVENTORYPARTNERDOMAIN"
	VariableOwnerDomain            VariableType = "OWNERDOMAIN"
	VariableManagerDomain          VariableType = "MANAGERDOMAIN"
)

// ValidationKey identifies a parse error or cross-check warning outcome.
type ValidationKey string

// Hard parse errors (entry is_valid=false).
const (
	KeyInvalidCharacters   ValidationKey = "INVALID_CHARACTERS"
	KeyInvalidFormat       ValidationKey = "INVALID_FORMAT"
	KeyMissingFields       ValidationKey = "MISSING_FIELDS"
	KeyInvalidRelationship ValidationKey = "INVALID_RELATIONSHIP"
	KeyInvalidDomain       ValidationKey = "INVALID_DOMAIN"
	KeyEmptyAccountID      ValidationKey = "EMPTY_ACCOUNT_ID"
	KeyEmptyFile           ValidationKey = "EMPTY_FILE"
)

// Soft cross-check warnings (entry stays valid, has_warning=true).
const (
	KeyNoSellersJSON              ValidationKey = "NO_SELLERS_JSON"
	KeyDirectAccountNotInSellers  ValidationKey = "DIRECT_ACCOUNT_ID_NOT_IN_SELLERS_JSON"
	KeyResellerAccountNotInSeller ValidationKey = "RESELLER_ACCOUNT_ID_NOT_IN_SELLERS_JSON"
	KeyDomainMismatch             ValidationKey = "DOMAIN_MISMATCH"
	KeyDirectNotPublisher         ValidationKey = "DIRECT_NOT_PUBLISHER"
	KeyResellerNotIntermediary    ValidationKey = "RESELLER_NOT_INTERMEDIARY"
	KeySellerIDNotUnique          ValidationKey = "SELLER_ID_NOT_UNIQUE"
)

// Severity of a validation outcome.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Record holds the parsed fields of an advertising-system declaration line
// plus any validation outcome attached by the parser or cross-checker.
type Record struct {
	Domain          string            `json:"domain"`
	AccountID       string            `json:"account_id"`
	AccountType     string            `json:"account_type"`
	Relationship    Relationship      `json:"relationship"`
	CertAuthorityID string            `json:"certification_authority_id,omitempty"`
	Error           ValidationKey     `json:"error,omitempty"`
	HasWarning      bool              `json:"has_warning,omitempty"`
	Warning         ValidationKey     `json:"warning,omitempty"`
	WarningParams   map[string]string `json:"warning_params,omitempty"`
	Message         string            `json:"message,omitempty"`
}

// Variable holds a parsed KEY=value declaration line.
type Variable struct {
	Type  VariableType `json:"variable_type"`
	Value string       `json:"value"`
}

// Entry is the tagged union produced by parsing one physical line: exactly
// one of Record or Variable is set, matching Kind. LineNumber is the 1-based
// physical line, or -1 for synthetic entries appended by the file parser.
type Entry struct {
	Kind          EntryKind     `json:"kind"`
	LineNumber    int           `json:"line_number"`
	RawLine       string        `json:"raw_line"`
	IsValid       bool          `json:"is_valid"`
	ValidationKey ValidationKey `json:"validation_key,omitempty"`
	Severity      Severity      `json:"severity,omitempty"`
	Record        *Record       `json:"record,omitempty"`
	Variable      *Variable     `json:"variable,omitempty"`
}

// IsRecord reports whether the entry is a record line.
func (e *Entry) IsRecord() bool { return e.Kind == EntryKindRecord }

// IsVariable reports whether the entry is a KEY=value line.
func (e *Entry) IsVariable() bool { return e.Kind == EntryKindVariable }

// Clone returns a deep copy of the entry. The cross-checker annotates copies
// so a parsed entry list is never mutated after it is returned.
func (e *Entry) Clone() *Entry {
	out := *e
	if e.Record != nil {
		rec := *e.Record
		if e.Record.WarningParams != nil {
			rec.WarningParams = make(map[string]string, len(e.Record.WarningParams))
			for k, v := range e.Record.WarningParams {
				rec.WarningParams[k] = v
			}
		}
		out.Record = &rec
	}
	if e.Variable != nil {
		v := *e.Variable
		out.Variable = &v
	}
	return &out
}

// SortEntriesByLine orders entries by original line number, with synthetic
// entries (line_number -1) after all physical lines. Callers that need the
// file order back after a cross-check use this.
func SortEntriesByLine(entries []*Entry) {
	// Insertion sort keeps already-ordered output cheap and is stable.
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entryLineLess(entries[j], entries[j-1]); j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
}

func entryLineLess(a, b *Entry) bool {
	an, bn := a.LineNumber, b.LineNumber
	if an < 0 {
		return false
	}
	if bn < 0 {
		return true
	}
	return an < bn
}
