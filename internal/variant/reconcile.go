package variant

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/storekart/variant-service/internal/catalog"
	"github.com/storekart/variant-service/internal/pkg/cuid2"
)

// Reconciler diffs an existing variant list against a changed attribute
// selection. Reconciliation is total: malformed or missing catalog data
// yields empty new/orphaned sets rather than an error.
type Reconciler struct {
	cfg    *EngineConfig
	logger zerolog.Logger
}

// NewReconciler creates a reconciler with the given engine config.
func NewReconciler(cfg *EngineConfig) *Reconciler {
	if cfg == nil {
		cfg = DefaultEngineConfig()
	}
	return &Reconciler{
		cfg:    cfg,
		logger: log.With().Str("component", "reconciler").Logger(),
	}
}

// Reconcile classifies variants as kept, newly needed, or orphaned under the
// new selection and counts how many kept variants need their auto-generated
// title refreshed. prevAttrNames is the rank-ordered attribute-name list of
// the previous selection, used only for change-type classification.
func (r *Reconciler) Reconcile(existing []Variant, prevAttrNames []string, cat *catalog.Catalog, newSel catalog.Selection) OptionsChangeImpact {
	impact := OptionsChangeImpact{
		NewCombos:        []Variant{},
		OrphanedVariants: []Variant{},
		ChangeType:       ChangeMultiple,
	}
	if cat != nil {
		impact.ChangeType = classifyChange(prevAttrNames, attributeNames(cat, newSel))
	}
	if cat == nil || len(cat.Attributes) == 0 {
		return impact
	}

	// Existing combinations, keyed canonically. Tuple order never matters
	// for identity, only which values compose the variant.
	existingKeys := make(map[string]struct{}, len(existing))
	for i := range existing {
		existingKeys[existing[i].Combination().Key()] = struct{}{}
	}

	combos, warn := GenerateWithLimit(cat, newSel, r.cfg)
	if warn != nil {
		r.logger.Warn().Int("count", warn.Count).Int("threshold", warn.Threshold).
			Msg("Combination count exceeds warn threshold")
	}

	for _, combo := range combos {
		if _, ok := existingKeys[combo.Key()]; ok {
			continue
		}
		fresh := newBlankVariant(cuid2.NewVariantID(), combo, Title(combo, cat, newSel))
		impact.NewCombos = append(impact.NewCombos, fresh)
	}

	// Orphans: any variant referencing a value id absent from the union of
	// currently selected values. Membership test, not a key diff, because an
	// orphan may share some of its values with still-valid combinations.
	selected := cat.SelectedValueIDSet(newSel)
	for i := range existing {
		if isOrphaned(&existing[i], selected) {
			impact.OrphanedVariants = append(impact.OrphanedVariants, existing[i])
			continue
		}
		if existing[i].CustomTitle != "" {
			// Custom-titled variants are never auto-renamed.
			continue
		}
		if TitleFor(&existing[i], cat, newSel) != existing[i].Name {
			impact.TitleUpdatesNeeded++
		}
	}

	recordReconcile(len(impact.NewCombos), len(impact.OrphanedVariants))
	return impact
}

// isOrphaned reports whether the variant references a retired option value.
// Variants with no option values (single-variant products) never orphan.
func isOrphaned(v *Variant, selected map[string]struct{}) bool {
	for _, id := range v.OptionValueIDs {
		if _, ok := selected[id]; !ok {
			return true
		}
	}
	return false
}

// classifyChange compares previous and new attribute-name lists. Advisory
// only: it picks the confirmation-dialog copy, never the diff result.
func classifyChange(prev, next []string) ChangeType {
	switch {
	case len(next) > len(prev):
		return ChangeAddValue
	case len(next) < len(prev):
		return ChangeRemoveValue
	}
	for i := range prev {
		if prev[i] != next[i] {
			return ChangeRename
		}
	}
	return ChangeMultiple
}
