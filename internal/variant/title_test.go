package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/storekart/variant-service/internal/catalog"
)

func TestTitleEndToEnd(t *testing.T) {
	cat := testCatalog()
	sel := fullSelection()
	combos := Generate(cat, sel)

	want := []string{"Red - S", "Red - M", "Blue - S", "Blue - M"}
	for i, combo := range combos {
		assert.Equal(t, want[i], Title(combo, cat, sel))
	}
}

func TestTitleFallback(t *testing.T) {
	cat := testCatalog()
	sel := fullSelection()

	tests := []struct {
		name  string
		combo Combination
		want  string
	}{
		{"empty tuple", Combination{}, FallbackTitle},
		{"nil tuple", nil, FallbackTitle},
		{"no labels resolve", Combination{"val_ghost", "val_phantom"}, FallbackTitle},
		{"partial resolution", Combination{"val_red", "val_ghost"}, "Red"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Title(tt.combo, cat, sel))
		})
	}
}

func TestTitleNilCatalog(t *testing.T) {
	assert.Equal(t, FallbackTitle, Title(Combination{"val_red"}, nil, nil))
}

func TestTitleStable(t *testing.T) {
	cat := testCatalog()
	sel := fullSelection()
	combo := Combination{"val_blue", "val_m"}

	first := Title(combo, cat, sel)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Title(combo, cat, sel))
	}
}

func TestDisplayTitleCustomOverride(t *testing.T) {
	v := Variant{Name: "Red - S", CustomTitle: "Crimson Small"}
	assert.Equal(t, "Crimson Small", v.DisplayTitle())

	v.CustomTitle = ""
	assert.Equal(t, "Red - S", v.DisplayTitle())
}

func TestTitleForResolvesStaleValuesAgainstFullCatalog(t *testing.T) {
	cat := testCatalog()
	// Only Color selected; the variant still carries a Size value.
	sel := catalog.Selection{"attr_color": {"val_red"}}

	v := Variant{OptionValueIDs: []string{"val_red", "val_m"}}
	assert.Equal(t, "Red - M", TitleFor(&v, cat, sel))
}
