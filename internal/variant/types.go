package variant

import (
	"sort"
	"strings"

	"github.com/storekart/variant-service/internal/catalog"
)

// Combination is an ordered tuple of value ids, one per selected attribute,
// in attribute-rank order. Tuple order matters for display; identity for
// diffing is set-based (see Key).
type Combination []string

// Key returns the canonical diff key for a combination: value ids sorted and
// joined, so that tuple order never affects identity.
func (c Combination) Key() string {
	ids := make([]string, len(c))
	copy(ids, c)
	sort.Strings(ids)
	return strings.Join(ids, "|")
}

// Variant is a sellable product configuration. OptionValueIDs is the
// combination the variant was generated from; Link groups a base variant with
// its pack derivative.
type Variant struct {
	ID               string   `json:"id"`
	OptionValueIDs   []string `json:"optionValueIds"`
	CustomTitle      string   `json:"customTitle,omitempty"`
	Name             string   `json:"name"`
	SKU              string   `json:"sku"`
	Price            float64  `json:"price"`
	MRP              float64  `json:"mrp"`
	CSP              float64  `json:"csp"`
	StockQuantity    int      `json:"stockQuantity"`
	MaxPurchaseLimit int      `json:"maxPurchaseLimit"`
	Threshold        int      `json:"threshold"`
	EANNumber        string   `json:"eanNumber"`
	RANNumber        string   `json:"ranNumber,omitempty"`
	HSNCode          string   `json:"hsnCode,omitempty"`
	TaxPercentage    *float64 `json:"taxPercentage,omitempty"`
	Weight           float64  `json:"weight"`
	IsActive         bool     `json:"isActive"`
	Link             string   `json:"link,omitempty"`
	PackQty          int      `json:"packQty,omitempty"`
	IsPack           bool     `json:"isPack,omitempty"`
}

// Combination returns the variant's option values as a Combination.
func (v *Variant) Combination() Combination {
	return Combination(v.OptionValueIDs)
}

// DisplayTitle returns the custom title when set, otherwise the stored name.
func (v *Variant) DisplayTitle() string {
	if v.CustomTitle != "" {
		return v.CustomTitle
	}
	return v.Name
}

// ChangeType classifies what kind of options edit produced an impact. It only
// drives copy in the confirmation dialog; the diff itself is unaffected.
type ChangeType string

const (
	ChangeAddValue    ChangeType = "add_value"
	ChangeRemoveValue ChangeType = "remove_value"
	ChangeRename      ChangeType = "rename"
	ChangeMultiple    ChangeType = "multiple"
)

// OptionsChangeImpact is the result of reconciling an existing variant list
// against a changed attribute selection.
type OptionsChangeImpact struct {
	NewCombos          []Variant  `json:"newCombos"`
	OrphanedVariants   []Variant  `json:"orphanedVariants"`
	TitleUpdatesNeeded int        `json:"titleUpdatesNeeded"`
	ChangeType         ChangeType `json:"changeType"`
}

// MergePolicy selects how an options-change impact is applied to the
// existing variant list.
type MergePolicy string

const (
	PolicyRegenerateAll MergePolicy = "regenerate_all"
	PolicySmartMerge    MergePolicy = "smart_merge"
	PolicyKeepExisting  MergePolicy = "keep_existing"
)

// ParsePolicy validates a policy string coming from the UI.
func ParsePolicy(s string) (MergePolicy, bool) {
	switch MergePolicy(s) {
	case PolicyRegenerateAll, PolicySmartMerge, PolicyKeepExisting:
		return MergePolicy(s), true
	}
	return "", false
}

// newBlankVariant materializes a fresh zero-valued variant for a combination.
// Pricing and stock default to zero; the UI fills them in afterwards.
func newBlankVariant(id string, combo Combination, name string) Variant {
	ids := make([]string, len(combo))
	copy(ids, combo)
	return Variant{
		ID:             id,
		OptionValueIDs: ids,
		Name:           name,
		IsActive:       true,
	}
}

// attributeNames extracts the rank-ordered attribute names of a selection,
// used for change-type classification.
func attributeNames(cat *catalog.Catalog, sel catalog.Selection) []string {
	attrs := cat.SelectedAttributes(sel)
	names := make([]string, len(attrs))
	for i, a := range attrs {
		names[i] = a.Name
	}
	return names
}
