package variant

import (
	"fmt"

	"github.com/storekart/variant-service/internal/catalog"
)

// ExplosionWarning is a non-fatal advisory attached when the Cartesian
// product exceeds the configured threshold. The operation still completes.
type ExplosionWarning struct {
	Count     int `json:"count"`
	Threshold int `json:"threshold"`
}

func (w *ExplosionWarning) Error() string {
	return fmt.Sprintf("combination count %d exceeds threshold %d", w.Count, w.Threshold)
}

// Generate computes the strict Cartesian product over attributes that have at
// least one selected value, in attribute-rank order. Attributes with zero
// selected values are skipped entirely, never treated as wildcards. An empty
// selected-attribute list yields an empty result: no variants implied.
func Generate(cat *catalog.Catalog, sel catalog.Selection) []Combination {
	if cat == nil {
		return nil
	}
	attrs := cat.SelectedAttributes(sel)
	if len(attrs) == 0 {
		return nil
	}
	return combine(attrs)
}

// combine recurses right-to-left: each value of the head attribute is
// prepended to every combination of the tail, preserving rank order in the
// output tuple and value order within each attribute.
func combine(attrs []catalog.AttributeDefinition) []Combination {
	if len(attrs) == 0 {
		return []Combination{{}}
	}
	rest := combine(attrs[1:])
	out := make([]Combination, 0, len(attrs[0].Values)*len(rest))
	for _, v := range attrs[0].Values {
		for _, tail := range rest {
			combo := make(Combination, 0, 1+len(tail))
			combo = append(combo, v.ID)
			combo = append(combo, tail...)
			out = append(out, combo)
		}
	}
	return out
}

// ProductSize returns the number of combinations the selection implies
// without materializing them.
func ProductSize(cat *catalog.Catalog, sel catalog.Selection) int {
	if cat == nil {
		return 0
	}
	attrs := cat.SelectedAttributes(sel)
	if len(attrs) == 0 {
		return 0
	}
	n := 1
	for _, a := range attrs {
		n *= len(a.Values)
	}
	return n
}

// GenerateWithLimit generates all combinations and attaches an
// ExplosionWarning when the count exceeds cfg.ExplosionWarnThreshold.
// The warning never suppresses the result. When cfg.MaxAttributes is set,
// only the top-ranked attributes up to the cap participate.
func GenerateWithLimit(cat *catalog.Catalog, sel catalog.Selection, cfg *EngineConfig) ([]Combination, *ExplosionWarning) {
	if cfg == nil {
		cfg = DefaultEngineConfig()
	}
	var combos []Combination
	if cat != nil {
		attrs := cat.SelectedAttributes(sel)
		if cfg.MaxAttributes > 0 && len(attrs) > cfg.MaxAttributes {
			attrs = attrs[:cfg.MaxAttributes]
		}
		if len(attrs) > 0 {
			combos = combine(attrs)
		}
	}
	recordCombinationCount(len(combos))
	if cfg.ExplosionWarnThreshold > 0 && len(combos) > cfg.ExplosionWarnThreshold {
		recordExplosionWarning()
		return combos, &ExplosionWarning{Count: len(combos), Threshold: cfg.ExplosionWarnThreshold}
	}
	return combos, nil
}
