package variant

import (
	"strings"

	"github.com/storekart/variant-service/internal/catalog"
)

// FallbackTitle is used when a combination resolves to no labels at all.
const FallbackTitle = "Unnamed Variant"

// Title derives the display name for a combination: the label of the i-th
// tuple position under the i-th selected attribute (same rank ordering as
// generation), non-empty labels joined with " - ". Pure and order-stable:
// identical tuples under an identical catalog always title identically.
func Title(combo Combination, cat *catalog.Catalog, sel catalog.Selection) string {
	if cat == nil || len(combo) == 0 {
		return FallbackTitle
	}
	attrs := cat.SelectedAttributes(sel)

	labels := make([]string, 0, len(combo))
	for i, valueID := range combo {
		label := ""
		if i < len(attrs) {
			for _, v := range attrs[i].Values {
				if v.ID == valueID {
					label = v.Value
					break
				}
			}
		}
		// A stale tuple position can still resolve against the full catalog,
		// keeping orphan rows readable in the confirmation dialog.
		if label == "" {
			label, _ = cat.ValueLabel(valueID)
		}
		if label != "" {
			labels = append(labels, label)
		}
	}
	if len(labels) == 0 {
		return FallbackTitle
	}
	return strings.Join(labels, " - ")
}

// TitleFor computes the generated title for a variant's option values.
// The variant's CustomTitle, when set, overrides this everywhere it is
// displayed, but the generated title is still what drives the
// titleUpdatesNeeded count.
func TitleFor(v *Variant, cat *catalog.Catalog, sel catalog.Selection) string {
	return Title(v.Combination(), cat, sel)
}
