package catalog

// AttributeValueDefinition is a single value on an attribute axis (e.g. "Red" on Color).
type AttributeValueDefinition struct {
	ID    string `json:"id"`
	Value string `json:"value"`
	Rank  int    `json:"rank"`
}

// AttributeDefinition is one axis of product variation for a category.
// Immutable once loaded; owned by the upstream catalog service.
type AttributeDefinition struct {
	ID       string                     `json:"id"`
	Name     string                     `json:"name"`
	Rank     int                        `json:"rank"`
	IsActive bool                       `json:"isActive"`
	Values   []AttributeValueDefinition `json:"values"`
}

// Catalog is the normalized attribute set for one category, sorted by rank
// with inactive attributes and values already filtered out.
type Catalog struct {
	CategoryID string                `json:"categoryId"`
	Attributes []AttributeDefinition `json:"attributes"`
}

// Selection maps attribute id to the ordered value ids the user picked.
// Attributes absent from the map (or mapped to an empty list) contribute
// nothing to combination generation.
type Selection map[string][]string

// Attribute returns the attribute with the given id, if present.
func (c *Catalog) Attribute(id string) (AttributeDefinition, bool) {
	for _, a := range c.Attributes {
		if a.ID == id {
			return a, true
		}
	}
	return AttributeDefinition{}, false
}

// ValueLabel resolves a value id to its display label across all attributes.
func (c *Catalog) ValueLabel(valueID string) (string, bool) {
	for _, a := range c.Attributes {
		for _, v := range a.Values {
			if v.ID == valueID {
				return v.Value, true
			}
		}
	}
	return "", false
}

// SelectedAttributes returns the attributes that have at least one selected
// value, in rank order, with their value lists filtered down to the selection
// (selection order is ignored; catalog rank order wins).
func (c *Catalog) SelectedAttributes(sel Selection) []AttributeDefinition {
	var out []AttributeDefinition
	for _, attr := range c.Attributes {
		picked := sel[attr.ID]
		if len(picked) == 0 {
			continue
		}
		wanted := make(map[string]struct{}, len(picked))
		for _, id := range picked {
			wanted[id] = struct{}{}
		}
		filtered := attr
		filtered.Values = nil
		for _, v := range attr.Values {
			if _, ok := wanted[v.ID]; ok {
				filtered.Values = append(filtered.Values, v)
			}
		}
		if len(filtered.Values) > 0 {
			out = append(out, filtered)
		}
	}
	return out
}

// SelectedValueIDSet returns the union of all value ids selected across
// attributes, for orphan membership tests.
func (c *Catalog) SelectedValueIDSet(sel Selection) map[string]struct{} {
	set := make(map[string]struct{})
	for _, attr := range c.SelectedAttributes(sel) {
		for _, v := range attr.Values {
			set[v.ID] = struct{}{}
		}
	}
	return set
}
