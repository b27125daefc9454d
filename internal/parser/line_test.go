package parser

import (
	"reflect"
	"testing"

	"adstxt-validator/internal/models"
)

func TestParser_ParseLine_ValidRecords(t *testing.T) {
	p := newParser(nil)

	tests := []struct {
		name string
		line string
		want *models.Record
	}{
		{
			name: "canonical four fields",
			line: "google.com, pub-123456789, DIRECT, f08c47fec0942fa0",
			want: &models.Record{
				Domain:          "google.com",
				AccountID:       "pub-123456789",
				AccountType:     "DIRECT",
				Relationship:    models.RelationshipDirect,
				CertAuthorityID: "f08c47fec0942fa0",
			},
		},
		{
			name: "three fields",
			line: "appnexus.com, 987654, DIRECT",
			want: &models.Record{
				Domain:       "appnexus.com",
				AccountID:    "987654",
				AccountType:  "DIRECT",
				Relationship: models.RelationshipDirect,
			},
		},
		{
			name: "lowercase relationship",
			line: "rubiconproject.com, 5678, reseller",
			want: &models.Record{
				Domain:       "rubiconproject.com",
				AccountID:    "5678",
				AccountType:  "reseller",
				Relationship: models.RelationshipReseller,
			},
		},
		{
			name: "inline comment stripped",
			line: "google.com, pub-123, DIRECT # comment",
			want: &models.Record{
				Domain:       "google.com",
				AccountID:    "pub-123",
				AccountType:  "DIRECT",
				Relationship: models.RelationshipDirect,
			},
		},
		{
			name: "malformed third field rescued by fourth",
			line: "google.com, pub-123, DIRCT, RESELLER",
			want: &models.Record{
				Domain:       "google.com",
				AccountID:    "pub-123",
				AccountType:  "DIRCT",
				Relationship: models.RelationshipReseller,
			},
		},
		{
			name: "relationship override in fourth field with cert in fifth",
			line: "google.com, pub-123, whatever, DIRECT, f08c47fec0942fa0",
			want: &models.Record{
				Domain:          "google.com",
				AccountID:       "pub-123",
				AccountType:     "whatever",
				Relationship:    models.RelationshipDirect,
				CertAuthorityID: "f08c47fec0942fa0",
			},
		},
		{
			name: "fourth field relationship overrides valid third field",
			line: "google.com, pub-123, DIRECT, RESELLER",
			want: &models.Record{
				Domain:       "google.com",
				AccountID:    "pub-123",
				AccountType:  "DIRECT",
				Relationship: models.RelationshipReseller,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.ParseLine(tt.line, 1)
			if got == nil {
				t.Fatalf("ParseLine(%q) = nil, want record", tt.line)
			}
			if !got.IsValid {
				t.Fatalf("ParseLine(%q) invalid, key = %s", tt.line, got.ValidationKey)
			}
			if got.Kind != models.EntryKindRecord {
				t.Fatalf("ParseLine(%q) kind = %s, want record", tt.line, got.Kind)
			}
			if got.LineNumber != 1 || got.RawLine != tt.line {
				t.Errorf("ParseLine(%q) line meta = (%d, %q)", tt.line, got.LineNumber, got.RawLine)
			}
			if !reflect.DeepEqual(got.Record, tt.want) {
				t.Errorf("ParseLine(%q) record = %+v, want %+v", tt.line, got.Record, tt.want)
			}
		})
	}
}

func TestParser_ParseLine_InvalidRecords(t *testing.T) {
	p := newParser(nil)

	tests := []struct {
		name    string
		line    string
		wantKey models.ValidationKey
	}{
		{name: "no commas at all", line: "just some prose", wantKey: models.KeyInvalidFormat},
		{name: "two fields", line: "google.com, pub-123", wantKey: models.KeyMissingFields},
		{name: "invalid relationship", line: "google.com, pub-123, INVALID_RELATION", wantKey: models.KeyInvalidRelationship},
		{name: "invalid relationship in both positions", line: "google.com, pub-123, FOO, BAR", wantKey: models.KeyInvalidRelationship},
		{name: "bad domain", line: "not_a_domain, pub-123, DIRECT", wantKey: models.KeyInvalidDomain},
		{name: "bare tld domain", line: "com, pub-123, DIRECT", wantKey: models.KeyInvalidDomain},
		{name: "empty account id", line: "google.com, , DIRECT", wantKey: models.KeyEmptyAccountID},
		{name: "embedded control character", line: "google.com, pub\x01-123, DIRECT", wantKey: models.KeyInvalidCharacters},
		{name: "byte order mark", line: "\ufeffgoogle.com, pub-123, DIRECT", wantKey: models.KeyInvalidCharacters},
		{name: "line separator", line: "google.com,\u2028pub-123, DIRECT", wantKey: models.KeyInvalidCharacters},
		{name: "paragraph separator", line: "google.com,\u2029pub-123, DIRECT", wantKey: models.KeyInvalidCharacters},
		{name: "control character wins over comment", line: "#\x00 comment", wantKey: models.KeyInvalidCharacters},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.ParseLine(tt.line, 7)
			if got == nil {
				t.Fatalf("ParseLine(%q) = nil, want invalid record", tt.line)
			}
			if got.IsValid {
				t.Fatalf("ParseLine(%q) unexpectedly valid", tt.line)
			}
			if got.ValidationKey != tt.wantKey {
				t.Errorf("ParseLine(%q) key = %s, want %s", tt.line, got.ValidationKey, tt.wantKey)
			}
			if got.Record == nil || got.Record.Error != tt.wantKey {
				t.Errorf("ParseLine(%q) record error not mirrored: %+v", tt.line, got.Record)
			}
			if got.Severity != models.SeverityError {
				t.Errorf("ParseLine(%q) severity = %s, want error", tt.line, got.Severity)
			}
		})
	}
}

func TestParser_ParseLine_MissingFieldsKeepsParsedFields(t *testing.T) {
	p := newParser(nil)

	got := p.ParseLine("google.com, pub-123", 3)
	if got == nil || got.IsValid {
		t.Fatalf("expected invalid entry, got %+v", got)
	}
	if got.Record.Domain != "google.com" || got.Record.AccountID != "pub-123" {
		t.Errorf("partial fields not carried: %+v", got.Record)
	}
	if got.Record.Relationship != models.RelationshipDirect {
		t.Errorf("missing-fields placeholder relationship = %s, want DIRECT", got.Record.Relationship)
	}
}

func TestParser_ParseLine_Dropped(t *testing.T) {
	p := newParser(nil)

	for _, line := range []string{
		"",
		"   ",
		"# full line comment",
		"   # indented comment",
		"   # comment # nested",
	} {
		if got := p.ParseLine(line, 1); got != nil {
			t.Errorf("ParseLine(%q) = %+v, want nil", line, got)
		}
	}
}

func TestParser_ParseLine_Variables(t *testing.T) {
	p := newParser(nil)

	tests := []struct {
		line      string
		wantType  models.VariableType
		wantValue string
	}{
		{"CONTACT=admin@example.com", models.VariableContact, "admin@example.com"},
		{"contact=admin@example.com", models.VariableContact, "admin@example.com"},
		{"OWNERDOMAIN=example.com", models.VariableOwnerDomain, "example.com"},
		{"managerdomain=example.jp", models.VariableManagerDomain, "example.jp"},
		{"SUBDOMAIN=sub.example.com", models.VariableSubdomain, "sub.example.com"},
		{"INVENTORYPARTNERDOMAIN=partner.example.com", models.VariableInventoryPartnerDomain, "partner.example.com"},
	}

	for _, tt := range tests {
		got := p.ParseLine(tt.line, 2)
		if got == nil || !got.IsValid || got.Kind != models.EntryKindVariable {
			t.Fatalf("ParseLine(%q) = %+v, want valid variable", tt.line, got)
		}
		if got.Variable.Type != tt.wantType || got.Variable.Value != tt.wantValue {
			t.Errorf("ParseLine(%q) variable = %+v, want (%s, %q)",
				tt.line, got.Variable, tt.wantType, tt.wantValue)
		}
	}
}

func TestParser_ParseLine_CommentParsesSameAsBare(t *testing.T) {
	p := newParser(nil)

	withComment := p.ParseLine("google.com, pub-123, DIRECT # comment", 1)
	bare := p.ParseLine("google.com, pub-123, DIRECT", 1)

	if !reflect.DeepEqual(withComment.Record, bare.Record) {
		t.Errorf("comment-stripped record differs: %+v vs %+v", withComment.Record, bare.Record)
	}
	if withComment.IsValid != bare.IsValid {
		t.Errorf("validity differs with inline comment")
	}
}

func TestParser_ParseLine_Deterministic(t *testing.T) {
	p := newParser(nil)
	const line = "google.com, pub-123, DIRECT, f08c47fec0942fa0"

	first := p.ParseLine(line, 5)
	second := p.ParseLine(line, 5)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("ParseLine not deterministic: %+v vs %+v", first, second)
	}
}
