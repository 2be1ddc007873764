package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekart/variant-service/internal/catalog"
	"github.com/storekart/variant-service/internal/variant"
)

func sessionCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		CategoryID: "cat_1",
		Attributes: []catalog.AttributeDefinition{
			{
				ID: "attr_color", Name: "Color", Rank: 1, IsActive: true,
				Values: []catalog.AttributeValueDefinition{
					{ID: "val_red", Value: "Red", Rank: 1},
					{ID: "val_blue", Value: "Blue", Rank: 2},
				},
			},
		},
	}
}

func sessionVariants() []variant.Variant {
	return []variant.Variant{
		{ID: "var_1", OptionValueIDs: []string{"val_red"}, Name: "Red", SKU: "R-1", IsActive: true},
	}
}

func TestStoreCreateAndGet(t *testing.T) {
	store := NewStore(time.Minute)
	sel := catalog.Selection{"attr_color": {"val_red"}}

	sess := store.Create("cat_1", sel, []string{"Color"}, sessionVariants())
	require.NotEmpty(t, sess.ID)
	assert.Contains(t, sess.ID, "ses_")

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "cat_1", got.CategoryID)
	assert.Len(t, got.Variants, 1)

	_, err = store.Get("ses_missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateVariantsBlockedWhilePending(t *testing.T) {
	store := NewStore(time.Minute)
	cat := sessionCatalog()
	sess := store.Create("cat_1", catalog.Selection{"attr_color": {"val_red"}}, []string{"Color"}, sessionVariants())

	// Before any impact is staged, edits flow through.
	updated := sessionVariants()
	updated[0].SKU = "R-2"
	require.NoError(t, store.UpdateVariants(sess.ID, updated))

	newSel := catalog.Selection{"attr_color": {"val_red", "val_blue"}}
	impact := variant.NewReconciler(nil).Reconcile(updated, []string{"Color"}, cat, newSel)
	require.NoError(t, store.StageImpact(sess.ID, impact, newSel))

	err := store.UpdateVariants(sess.ID, updated)
	assert.ErrorIs(t, err, ErrPendingImpact)

	// Resolving lifts the guard.
	_, err = store.Resolve(sess.ID, variant.PolicySmartMerge, cat)
	require.NoError(t, err)
	assert.NoError(t, store.UpdateVariants(sess.ID, updated))
}

func TestResolveAppliesPolicyAndAdoptsSelection(t *testing.T) {
	store := NewStore(time.Minute)
	cat := sessionCatalog()
	sess := store.Create("cat_1", catalog.Selection{"attr_color": {"val_red"}}, []string{"Color"}, sessionVariants())

	newSel := catalog.Selection{"attr_color": {"val_red", "val_blue"}}
	impact := variant.NewReconciler(nil).Reconcile(sessionVariants(), []string{"Color"}, cat, newSel)
	require.Len(t, impact.NewCombos, 1)
	require.NoError(t, store.StageImpact(sess.ID, impact, newSel))

	merged, err := store.Resolve(sess.ID, variant.PolicySmartMerge, cat)
	require.NoError(t, err)
	assert.Len(t, merged, 2)

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, newSel, got.Selection)
	assert.Equal(t, []string{"Color"}, got.AttrNames)
	assert.Nil(t, got.Pending)
	assert.Len(t, got.Variants, 2)
}

func TestResolveWithoutPendingImpact(t *testing.T) {
	store := NewStore(time.Minute)
	sess := store.Create("cat_1", nil, nil, nil)

	_, err := store.Resolve(sess.ID, variant.PolicyKeepExisting, sessionCatalog())
	assert.ErrorIs(t, err, ErrNoPendingImpact)
}

func TestResolveIsOneShot(t *testing.T) {
	store := NewStore(time.Minute)
	cat := sessionCatalog()
	sess := store.Create("cat_1", catalog.Selection{"attr_color": {"val_red"}}, []string{"Color"}, sessionVariants())

	newSel := catalog.Selection{"attr_color": {"val_red", "val_blue"}}
	impact := variant.NewReconciler(nil).Reconcile(sessionVariants(), []string{"Color"}, cat, newSel)
	require.NoError(t, store.StageImpact(sess.ID, impact, newSel))

	_, err := store.Resolve(sess.ID, variant.PolicySmartMerge, cat)
	require.NoError(t, err)

	_, err = store.Resolve(sess.ID, variant.PolicySmartMerge, cat)
	assert.ErrorIs(t, err, ErrNoPendingImpact)
}

func TestStagingReplacesPreviousImpact(t *testing.T) {
	store := NewStore(time.Minute)
	cat := sessionCatalog()
	sess := store.Create("cat_1", catalog.Selection{"attr_color": {"val_red"}}, []string{"Color"}, sessionVariants())

	rec := variant.NewReconciler(nil)
	selA := catalog.Selection{"attr_color": {"val_red", "val_blue"}}
	require.NoError(t, store.StageImpact(sess.ID, rec.Reconcile(sessionVariants(), []string{"Color"}, cat, selA), selA))

	// User re-edits before confirming; the later staging wins.
	selB := catalog.Selection{"attr_color": {"val_blue"}}
	require.NoError(t, store.StageImpact(sess.ID, rec.Reconcile(sessionVariants(), []string{"Color"}, cat, selB), selB))

	_, err := store.Resolve(sess.ID, variant.PolicyKeepExisting, cat)
	require.NoError(t, err)

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, selB, got.Selection)
}

func TestSweepExpired(t *testing.T) {
	store := NewStore(50 * time.Millisecond)
	stale := store.Create("cat_1", nil, nil, nil)
	store.Create("cat_2", nil, nil, nil)

	// Age only the first session past the TTL.
	store.mu.Lock()
	store.sessions[stale.ID].UpdatedAt = time.Now().Add(-time.Minute)
	store.mu.Unlock()

	removed := store.SweepExpired()
	assert.Equal(t, 1, removed)

	_, err := store.Get(stale.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSweepExpiredCallsEvictHook(t *testing.T) {
	store := NewStore(50 * time.Millisecond)
	stale := store.Create("cat_1", nil, nil, nil)
	store.Create("cat_2", nil, nil, nil)

	var evicted []string
	store.SetEvictFunc(func(id string) { evicted = append(evicted, id) })

	store.mu.Lock()
	store.sessions[stale.ID].UpdatedAt = time.Now().Add(-time.Minute)
	store.mu.Unlock()

	assert.Equal(t, 1, store.SweepExpired())
	assert.Equal(t, []string{stale.ID}, evicted)
}
