package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/storekart/variant-service/internal/catalog"
	"github.com/storekart/variant-service/internal/variant"
)

func exportCatalog() *catalog.Catalog {
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

func TestWriteVariantSheet(t *testing.T) {
	cat := exportCatalog()
	sel := catalog.Selection{"attr_color": {"val_red", "val_blue"}}
	tax := 12.0
	variants := []variant.Variant{
		{
			ID:             "var_1",
			OptionValueIDs: []string{"val_red"},
			Name:           "Red",
			SKU:            "R-1",
			Price:          99.5,
			StockQuantity:  10,
			TaxPercentage:  &tax,
			IsActive:       true,
		},
		{
			ID:             "var_2",
			OptionValueIDs: []string{"val_blue"},
			CustomTitle:    "Ocean Blue",
			SKU:            "B-1",
			IsPack:         true,
			PackQty:        6,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteVariantSheet(&buf, variants, cat, sel))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Title", rows[0][0])
	assert.Equal(t, "SKU", rows[0][1])

	assert.Equal(t, "Red", rows[1][0])
	assert.Equal(t, "R-1", rows[1][1])
	assert.Equal(t, "99.5", rows[1][3])

	// Custom title wins over the generated one; pack qty only renders for packs.
	assert.Equal(t, "Ocean Blue", rows[2][0])
	qty, err := f.GetCellValue(sheetName, "Q3")
	require.NoError(t, err)
	assert.Equal(t, "6", qty)
}

func TestWriteVariantSheetEmptyList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteVariantSheet(&buf, nil, exportCatalog(), nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
