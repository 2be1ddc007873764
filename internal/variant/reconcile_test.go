package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekart/variant-service/internal/catalog"
)

func existingVariants() []Variant {
	return []Variant{
		{ID: "var_1", OptionValueIDs: []string{"val_red", "val_s"}, Name: "Red - S", SKU: "RS-1", Price: 100, IsActive: true},
		{ID: "var_2", OptionValueIDs: []string{"val_red", "val_m"}, Name: "Red - M", SKU: "RM-1", Price: 110, IsActive: true},
	}
}

func TestReconcileNewCombos(t *testing.T) {
	r := NewReconciler(nil)
	impact := r.Reconcile(existingVariants(), []string{"Color", "Size"}, testCatalog(), fullSelection())

	// Red-S and Red-M exist; Blue-S and Blue-M are new.
	require.Len(t, impact.NewCombos, 2)
	assert.Equal(t, []string{"val_blue", "val_s"}, impact.NewCombos[0].OptionValueIDs)
	assert.Equal(t, []string{"val_blue", "val_m"}, impact.NewCombos[1].OptionValueIDs)

	for _, v := range impact.NewCombos {
		assert.NotEmpty(t, v.ID)
		assert.True(t, v.IsActive)
		assert.Zero(t, v.Price)
		assert.Zero(t, v.StockQuantity)
		assert.Empty(t, v.SKU)
		assert.NotEmpty(t, v.Name)
	}

	assert.Empty(t, impact.OrphanedVariants)
	assert.Zero(t, impact.TitleUpdatesNeeded)
}

func TestReconcileTupleOrderDoesNotMatter(t *testing.T) {
	existing := []Variant{
		// Stored in reversed tuple order; still the same combination.
		{ID: "var_1", OptionValueIDs: []string{"val_s", "val_red"}, Name: "Red - S", IsActive: true},
	}
	sel := catalog.Selection{"attr_color": {"val_red"}, "attr_size": {"val_s"}}

	impact := NewReconciler(nil).Reconcile(existing, []string{"Color", "Size"}, testCatalog(), sel)

	assert.Empty(t, impact.NewCombos)
	assert.Empty(t, impact.OrphanedVariants)
}

func TestReconcileOrphans(t *testing.T) {
	// Blue removed from the selection: var_3 references a retired value.
	existing := append(existingVariants(),
		Variant{ID: "var_3", OptionValueIDs: []string{"val_blue", "val_s"}, Name: "Blue - S", SKU: "BS-1", IsActive: true})
	sel := catalog.Selection{"attr_color": {"val_red"}, "attr_size": {"val_s", "val_m"}}

	impact := NewReconciler(nil).Reconcile(existing, []string{"Color", "Size"}, testCatalog(), sel)

	require.Len(t, impact.OrphanedVariants, 1)
	assert.Equal(t, "var_3", impact.OrphanedVariants[0].ID)
	assert.Empty(t, impact.NewCombos)
}

func TestReconcileOrphanSharingValidValues(t *testing.T) {
	// The orphan shares val_s with valid combinations; membership against the
	// selected-value union still flags it.
	existing := []Variant{
		{ID: "var_1", OptionValueIDs: []string{"val_red", "val_s"}, Name: "Red - S", IsActive: true},
		{ID: "var_2", OptionValueIDs: []string{"val_ghost", "val_s"}, Name: "Ghost - S", IsActive: true},
	}

	impact := NewReconciler(nil).Reconcile(existing, []string{"Color", "Size"}, testCatalog(), fullSelection())

	require.Len(t, impact.OrphanedVariants, 1)
	assert.Equal(t, "var_2", impact.OrphanedVariants[0].ID)
}

func TestReconcileTitleUpdates(t *testing.T) {
	existing := []Variant{
		{ID: "var_1", OptionValueIDs: []string{"val_red", "val_s"}, Name: "Red / Small", IsActive: true},
		{ID: "var_2", OptionValueIDs: []string{"val_red", "val_m"}, Name: "Stale Name", CustomTitle: "My Special Red", IsActive: true},
		{ID: "var_3", OptionValueIDs: []string{"val_blue", "val_s"}, Name: "Blue - S", IsActive: true},
	}

	impact := NewReconciler(nil).Reconcile(existing, []string{"Color", "Size"}, testCatalog(), fullSelection())

	// var_1 needs a rename; var_2 is custom-titled and never auto-renamed;
	// var_3 already matches.
	assert.Equal(t, 1, impact.TitleUpdatesNeeded)
}

func TestReconcileChangeTypeClassification(t *testing.T) {
	tests := []struct {
		name string
		prev []string
		sel  catalog.Selection
		want ChangeType
	}{
		{"attribute added", []string{"Color"}, fullSelection(), ChangeAddValue},
		{"attribute removed", []string{"Color", "Size", "Material"}, fullSelection(), ChangeRemoveValue},
		{"renamed", []string{"Colour", "Size"}, fullSelection(), ChangeRename},
		{"value-level change only", []string{"Color", "Size"}, fullSelection(), ChangeMultiple},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			impact := NewReconciler(nil).Reconcile(nil, tt.prev, testCatalog(), tt.sel)
			assert.Equal(t, tt.want, impact.ChangeType)
		})
	}
}

func TestReconcileNeverErrors(t *testing.T) {
	r := NewReconciler(nil)

	t.Run("nil catalog", func(t *testing.T) {
		impact := r.Reconcile(existingVariants(), nil, nil, nil)
		assert.Empty(t, impact.NewCombos)
		assert.Empty(t, impact.OrphanedVariants)
	})

	t.Run("empty catalog", func(t *testing.T) {
		impact := r.Reconcile(existingVariants(), nil, &catalog.Catalog{}, fullSelection())
		assert.Empty(t, impact.NewCombos)
		assert.Empty(t, impact.OrphanedVariants)
	})
}

func TestReconcilePartitionLaw(t *testing.T) {
	// Every existing variant lands in exactly one bucket (kept or orphaned),
	// and Smart Merge accounts for all of them plus the new combos.
	existing := append(existingVariants(),
		Variant{ID: "var_3", OptionValueIDs: []string{"val_ghost"}, Name: "Ghost", IsActive: true})

	impact := NewReconciler(nil).Reconcile(existing, []string{"Color", "Size"}, testCatalog(), fullSelection())
	next := NewMerger().Apply(PolicySmartMerge, existing, impact, testCatalog(), fullSelection())

	assert.Len(t, next, len(existing)+len(impact.NewCombos))

	seen := make(map[string]int)
	for _, v := range next {
		seen[v.ID]++
	}
	for _, v := range existing {
		assert.Equal(t, 1, seen[v.ID], "existing variant %s accounted exactly once", v.ID)
	}
	for _, v := range impact.NewCombos {
		assert.Equal(t, 1, seen[v.ID], "new combo %s accounted exactly once", v.ID)
	}
}
