// Package export writes the merged variant list as an xlsx workbook for the
// storefront's "download variant sheet" action.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/storekart/variant-service/internal/catalog"
	"github.com/storekart/variant-service/internal/variant"
)

const sheetName = "Variants"

var headers = []string{
	"Title", "SKU", "Option Values", "Price", "MRP", "CSP",
	"Stock", "Max Purchase", "Threshold", "EAN", "RAN", "HSN",
	"Tax %", "Weight", "Active", "Pack", "Pack Qty",
}

// WriteVariantSheet renders variants into an xlsx workbook on w. Option
// value ids are resolved to labels against the catalog so the sheet reads
// like the UI does.
func WriteVariantSheet(w io.Writer, variants []variant.Variant, cat *catalog.Catalog, sel catalog.Selection) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i := range variants {
		v := &variants[i]
		row := []any{
			v.DisplayTitle(),
			v.SKU,
			variant.Title(v.Combination(), cat, sel),
			v.Price,
			v.MRP,
			v.CSP,
			v.StockQuantity,
			v.MaxPurchaseLimit,
			v.Threshold,
			v.EANNumber,
			v.RANNumber,
			v.HSNCode,
			taxCell(v.TaxPercentage),
			v.Weight,
			v.IsActive,
			v.IsPack,
			packQtyCell(v),
		}
		for col, val := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("row cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, val); err != nil {
				return fmt.Errorf("write row %d: %w", i+2, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func taxCell(tax *float64) any {
	if tax == nil {
		return ""
	}
	return *tax
}

func packQtyCell(v *variant.Variant) any {
	if !v.IsPack {
		return ""
	}
	return v.PackQty
}
