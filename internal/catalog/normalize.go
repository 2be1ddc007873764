package catalog

import (
	"encoding/json"
	"sort"
	"strings"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RawCatalogResponse is the upstream catalog payload before normalization.
// The catalog service is inconsistent about value shapes: values arrive either
// as bare strings or as {id, value, rank, is_active} objects, sometimes mixed
// within one attribute. Everything is collapsed to AttributeValueDefinition
// here so no core logic ever sees the raw shapes.
type RawCatalogResponse struct {
	Attributes []RawAttribute `json:"attributes"`
}

// RawAttribute mirrors the upstream attribute shape.
type RawAttribute struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Rank     int               `json:"rank"`
	IsActive bool              `json:"is_active"`
	Values   []json.RawMessage `json:"values"`
}

type rawValueObject struct {
	ID       string `json:"id"`
	Value    string `json:"value"`
	Rank     int    `json:"rank"`
	IsActive *bool  `json:"is_active"`
}

// Normalize converts a raw catalog payload into the canonical Catalog shape:
// inactive attributes and values dropped, both levels sorted by rank, labels
// NFC-normalized and trimmed. Malformed entries are skipped, never fatal.
func Normalize(categoryID string, raw RawCatalogResponse) Catalog {
	cat := Catalog{CategoryID: categoryID}

	for _, ra := range raw.Attributes {
		if !ra.IsActive || ra.ID == "" {
			continue
		}
		attr := AttributeDefinition{
			ID:       ra.ID,
			Name:     NormalizeLabel(ra.Name),
			Rank:     ra.Rank,
			IsActive: true,
		}
		for i, rv := range ra.Values {
			if v, ok := normalizeValue(ra.ID, i, rv); ok {
				attr.Values = append(attr.Values, v)
			}
		}
		if len(attr.Values) == 0 {
			continue
		}
		sort.SliceStable(attr.Values, func(i, j int) bool {
			return attr.Values[i].Rank < attr.Values[j].Rank
		})
		cat.Attributes = append(cat.Attributes, attr)
	}

	sort.SliceStable(cat.Attributes, func(i, j int) bool {
		return cat.Attributes[i].Rank < cat.Attributes[j].Rank
	})
	return cat
}

// normalizeValue accepts both upstream value shapes. Bare strings carry no id
// of their own, so they get a positional id derived from the attribute.
func normalizeValue(attrID string, pos int, raw json.RawMessage) (AttributeValueDefinition, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		label := NormalizeLabel(s)
		if label == "" {
			return AttributeValueDefinition{}, false
		}
		return AttributeValueDefinition{
			ID:    attrID + ":" + label,
			Value: label,
			Rank:  pos,
		}, true
	}

	var obj rawValueObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return AttributeValueDefinition{}, false
	}
	if obj.ID == "" {
		return AttributeValueDefinition{}, false
	}
	if obj.IsActive != nil && !*obj.IsActive {
		return AttributeValueDefinition{}, false
	}
	label := NormalizeLabel(obj.Value)
	if label == "" {
		return AttributeValueDefinition{}, false
	}
	return AttributeValueDefinition{ID: obj.ID, Value: label, Rank: obj.Rank}, true
}

// NormalizeLabel trims whitespace and applies NFC so that label comparisons
// (title-update detection depends on string equality) are stable regardless
// of how the upstream composed its Unicode.
func NormalizeLabel(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	out, _, err := transform.String(norm.NFC, s)
	if err != nil {
		return s
	}
	return out
}
