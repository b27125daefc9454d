package parser

import (
	"regexp"
	"strings"

	"adstxt-validator/internal/models"
)

// variablePattern matches KEY=value declaration lines. The key is
// case-insensitive, the value is everything after the first '='.
var variablePattern = regexp.MustCompile(`(?i)^(CONTACT|SUBDOMAIN|INVENTORYPARTNERDOMAIN|OWNERDOMAIN|MANAGERDOMAIN)=(.+)$`)

// ParseLine parses one physical line of an ads.txt-family file.
//
// Checks run in a fixed order so a broken line reports exactly one failure:
// embedded control characters, blank/comment, variable match, field split,
// relationship resolution, domain validity, account ID presence.
func (p *Parser) ParseLine(line string, lineNumber int) *models.Entry {
	if hasForbiddenRunes(line) {
		return invalidRecord(models.KeyInvalidCharacters, lineNumber, line, &models.Record{})
	}

	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil
	}

	// Strip a trailing inline comment before tokenizing.
	if i := strings.Index(trimmed, "#"); i >= 0 {
		trimmed = strings.TrimSpace(trimmed[:i])
		if trimmed == "" {
			return nil
		}
	}

	if m := variablePattern.FindStringSubmatch(trimmed); m != nil {
		return &models.Entry{
			Kind:       models.EntryKindVariable,
			LineNumber: lineNumber,
			RawLine:    line,
			IsValid:    true,
			Variable: &models.Variable{
				Type:  models.VariableType(strings.ToUpper(m[1])),
				Value: strings.TrimSpace(m[2]),
			},
		}
	}

	fields := strings.Split(trimmed, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	if len(fields) == 1 && fields[0] == trimmed {
		return invalidRecord(models.KeyInvalidFormat, lineNumber, line, &models.Record{
			Domain: trimmed,
		})
	}

	if len(fields) < 3 {
		rec := &models.Record{Relationship: models.RelationshipDirect}
		rec.Domain = fields[0]
		if len(fields) > 1 {
			rec.AccountID = fields[1]
		}
		return invalidRecord(models.KeyMissingFields, lineNumber, line, rec)
	}

	domain, accountID, accountType := fields[0], fields[1], fields[2]
	rest := fields[3:]

	rel, relOK := models.ParseRelationship(accountType)
	if !relOK {
		restHasRel := false
		if len(rest) > 0 {
			_, restHasRel = models.ParseRelationship(rest[0])
		}
		if !restHasRel {
			return invalidRecord(models.KeyInvalidRelationship, lineNumber, line, &models.Record{
				Domain:      domain,
				AccountID:   accountID,
				AccountType: accountType,
			})
		}
	}

	// A valid relationship token in position four overrides position three;
	// otherwise the fourth field is the certification authority ID.
	var certID string
	if len(rest) > 0 {
		if restRel, ok := models.ParseRelationship(rest[0]); ok {
			rel = restRel
			if len(rest) > 1 {
				certID = rest[1]
			}
		} else {
			certID = rest[0]
		}
	}

	if !ValidDomain(domain) {
		return invalidRecord(models.KeyInvalidDomain, lineNumber, line, &models.Record{
			Domain:       domain,
			AccountID:    accountID,
			AccountType:  accountType,
			Relationship: rel,
		})
	}

	if accountID == "" {
		return invalidRecord(models.KeyEmptyAccountID, lineNumber, line, &models.Record{
			Domain:       domain,
			AccountType:  accountType,
			Relationship: rel,
		})
	}

	return &models.Entry{
		Kind:       models.EntryKindRecord,
		LineNumber: lineNumber,
		RawLine:    line,
		IsValid:    true,
		Record: &models.Record{
			Domain:          domain,
			AccountID:       accountID,
			AccountType:     accountType,
			Relationship:    rel,
			CertAuthorityID: certID,
		},
	}
}

// invalidRecord builds an invalid record entry carrying whatever fields were
// parseable before the failing check.
func invalidRecord(key models.ValidationKey, lineNumber int, raw string, rec *models.Record) *models.Entry {
	rec.Error = key
	return &models.Entry{
		Kind:          models.EntryKindRecord,
		LineNumber:    lineNumber,
		RawLine:       raw,
		IsValid:       false,
		ValidationKey: key,
		Severity:      models.SeverityError,
		Record:        rec,
	}
}

// hasForbiddenRunes reports embedded control or non-printable characters:
// C0 controls other than whitespace, DEL-adjacent C1 controls, Unicode
// line/paragraph separators, and the byte order mark.
func hasForbiddenRunes(s string) bool {
	for _, r := range s {
		switch {
		case r < 0x20 && r != '\t' && r != '\r':
			return true
		case r >= 0x80 && r <= 0x9F:
			return true
		case r == '\u2028' || r == '\u2029' || r == '\ufeff':
			return true
		}
	}
	return false
}
