package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"adstxt-validator/internal/models"
)

// sellersDocument mirrors the wire shape of a sellers.json file. Field types
// are deliberately loose: real-world files carry seller_id as number or
// string and is_confidential as 0/1 or bool.
type sellersDocument struct {
	ContactEmail string        `json:"contact_email"`
	Version      string        `json:"version"`
	Sellers      []sellerEntry `json:"sellers"`
}

type sellerEntry struct {
	SellerID       flexString `json:"seller_id"`
	Name           string     `json:"name"`
	Domain         string     `json:"domain"`
	SellerType     string     `json:"seller_type"`
	IsConfidential flexBool   `json:"is_confidential"`
}

// flexString decodes a JSON string or number into a string.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("seller_id is neither string nor number: %s", data)
	}
	*f = flexString(n.String())
	return nil
}

// flexBool decodes a JSON bool or 0/1 number into a bool.
type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true", "1":
		*f = true
	case "false", "0", "null":
		*f = false
	default:
		return fmt.Errorf("is_confidential is neither bool nor 0/1: %s", data)
	}
	return nil
}

// DecodeSellersJSON parses a sellers.json body into a snapshot. Entries with
// an empty seller_id are dropped; repeated seller_ids keep the first entry
// and are reported in the metadata's duplicate list.
func DecodeSellersJSON(data []byte, authorityDomain string, fetchedAt time.Time) (*models.SellersMetadata, []models.Seller, error) {
	var doc sellersDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", models.ErrSellersJSONMalformed, err)
	}

	sellers := make([]models.Seller, 0, len(doc.Sellers))
	seen := make(map[string]bool, len(doc.Sellers))
	flagged := make(map[string]bool)
	var duplicates []string
	for _, entry := range doc.Sellers {
		id := strings.TrimSpace(string(entry.SellerID))
		if id == "" {
			continue
		}
		if seen[id] {
			if !flagged[id] {
				flagged[id] = true
				duplicates = append(duplicates, id)
			}
			continue
		}
		seen[id] = true
		sellers = append(sellers, models.Seller{
			SellerID:       id,
			Name:           strings.TrimSpace(entry.Name),
			Domain:         strings.ToLower(strings.TrimSpace(entry.Domain)),
			SellerType:     models.SellerType(strings.ToUpper(strings.TrimSpace(entry.SellerType))),
			IsConfidential: bool(entry.IsConfidential),
		})
	}

	meta := &models.SellersMetadata{
		AuthorityDomain: normalizeDomain(authorityDomain),
		ContactEmail:    doc.ContactEmail,
		Version:         doc.Version,
		SellerCount:     len(sellers),
		Status:          models.CatalogStatusSuccess,
		FetchedAt:       fetchedAt,
		DuplicateIDs:    duplicates,
	}
	return meta, sellers, nil
}
