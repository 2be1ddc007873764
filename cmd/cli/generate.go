package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/storekart/variant-service/internal/catalog"
	"github.com/storekart/variant-service/internal/variant"
)

var (
	generateCatalogFile   string
	generateSelectionFile string
	generateOutput        string
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the Cartesian product for an attribute selection",
	Long: `Generate all variant combinations implied by an attribute catalog and a
selection of permitted values per attribute. The catalog file holds the raw
attribute payload as returned by the catalog service; the selection file maps
attribute ids to selected value ids.`,
	Example: `  variant-service generate --catalog catalog.json --selection selection.json
  variant-service generate --catalog catalog.json --selection selection.json --output json`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateCatalogFile, "catalog", "", "Catalog JSON file (required)")
	generateCmd.Flags().StringVar(&generateSelectionFile, "selection", "", "Selection JSON file (required)")
	generateCmd.Flags().StringVar(&generateOutput, "output", "table", "Output format: table or json")
	generateCmd.MarkFlagRequired("catalog")
	generateCmd.MarkFlagRequired("selection")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cat, sel, err := loadCatalogAndSelection(generateCatalogFile, generateSelectionFile)
	if err != nil {
		return err
	}

	engineCfg := variant.DefaultEngineConfig()
	if cfg != nil && cfg.Engine.ExplosionWarnThreshold > 0 {
		engineCfg.ExplosionWarnThreshold = cfg.Engine.ExplosionWarnThreshold
	}

	combos, warn := variant.GenerateWithLimit(&cat, sel, engineCfg)
	if warn != nil {
		logger.Warn().Int("count", warn.Count).Int("threshold", warn.Threshold).
			Msg("Combination count exceeds warn threshold")
	}

	if generateOutput == "json" {
		type row struct {
			OptionValueIDs []string `json:"optionValueIds"`
			Title          string   `json:"title"`
		}
		out := make([]row, 0, len(combos))
		for _, combo := range combos {
			out = append(out, row{OptionValueIDs: combo, Title: variant.Title(combo, &cat, sel)})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TITLE\tVALUE IDS")
	for _, combo := range combos {
		fmt.Fprintf(w, "%s\t%s\n", variant.Title(combo, &cat, sel), combo.Key())
	}
	w.Flush()
	fmt.Printf("\n%d combinations\n", len(combos))
	return nil
}

// loadCatalogAndSelection reads and normalizes the two JSON inputs shared by
// the offline commands.
func loadCatalogAndSelection(catalogFile, selectionFile string) (catalog.Catalog, catalog.Selection, error) {
	rawCat, err := os.ReadFile(catalogFile)
	if err != nil {
		return catalog.Catalog{}, nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	var raw catalog.RawCatalogResponse
	if err := json.Unmarshal(rawCat, &raw); err != nil {
		return catalog.Catalog{}, nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	rawSel, err := os.ReadFile(selectionFile)
	if err != nil {
		return catalog.Catalog{}, nil, fmt.Errorf("failed to read selection file: %w", err)
	}
	var sel catalog.Selection
	if err := json.Unmarshal(rawSel, &sel); err != nil {
		return catalog.Catalog{}, nil, fmt.Errorf("failed to parse selection file: %w", err)
	}

	return catalog.Normalize("", raw), sel, nil
}
