package variant

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/storekart/variant-service/internal/catalog"
	"github.com/storekart/variant-service/internal/pkg/cuid2"
)

// Merger applies a user-chosen merge policy to produce the next variant
// list from an options-change impact. All policies are total functions.
type Merger struct {
	logger zerolog.Logger
}

// NewMerger creates a merge executor.
func NewMerger() *Merger {
	return &Merger{logger: log.With().Str("component", "merger").Logger()}
}

// Apply dispatches on policy. Unknown policies fall back to keep-existing,
// the only policy that cannot lose data.
func (m *Merger) Apply(policy MergePolicy, existing []Variant, impact OptionsChangeImpact, cat *catalog.Catalog, newSel catalog.Selection) []Variant {
	recordMerge(string(policy))
	switch policy {
	case PolicyRegenerateAll:
		return m.regenerateAll(cat, newSel)
	case PolicySmartMerge:
		return m.smartMerge(existing, impact)
	case PolicyKeepExisting:
		return keepExisting(existing)
	default:
		m.logger.Warn().Str("policy", string(policy)).Msg("Unknown merge policy, keeping existing variants")
		return keepExisting(existing)
	}
}

// regenerateAll discards every existing variant and rebuilds one fresh
// zero-valued variant per combination of the new selection. Prior pricing
// and stock data is intentionally lost; this is the explicit clean-slate
// path, not limited to impact.NewCombos.
func (m *Merger) regenerateAll(cat *catalog.Catalog, newSel catalog.Selection) []Variant {
	combos := Generate(cat, newSel)
	out := make([]Variant, 0, len(combos))
	for _, combo := range combos {
		out = append(out, newBlankVariant(cuid2.NewVariantID(), combo, Title(combo, cat, newSel)))
	}
	return out
}

// smartMerge is the data-preserving path: kept variants pass through
// untouched, new combos are appended defaulted, and orphans are retained
// deactivated with their SKU cleared. No variant is ever deleted here; hard
// deletion stays an explicit user action elsewhere.
func (m *Merger) smartMerge(existing []Variant, impact OptionsChangeImpact) []Variant {
	orphaned := make(map[string]struct{}, len(impact.OrphanedVariants))
	for i := range impact.OrphanedVariants {
		orphaned[impact.OrphanedVariants[i].ID] = struct{}{}
	}

	out := make([]Variant, 0, len(existing)+len(impact.NewCombos))
	for _, v := range existing {
		if _, ok := orphaned[v.ID]; ok {
			v.IsActive = false
			v.SKU = ""
		}
		out = append(out, v)
	}
	out = append(out, impact.NewCombos...)

	m.logger.Info().
		Int("kept", len(existing)-len(orphaned)).
		Int("new", len(impact.NewCombos)).
		Int("deactivated", len(orphaned)).
		Msg("Smart merge applied")
	return out
}

// keepExisting leaves the variant list untouched; only the attribute
// definitions used for future generation change. Intended for metadata-only
// edits such as attribute renames.
func keepExisting(existing []Variant) []Variant {
	out := make([]Variant, len(existing))
	copy(out, existing)
	return out
}
