package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/storekart/variant-service/internal/variant"
)

var (
	reconcileCatalogFile   string
	reconcileSelectionFile string
	reconcileVariantsFile  string
	reconcilePrevNames     []string
	reconcilePolicy        string
)

// reconcileCmd represents the reconcile command
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile an existing variant list against a changed selection",
	Long: `Diff an existing variant list against a new attribute selection, reporting
new combinations, orphaned variants, and needed title updates. With --policy,
also applies the merge policy and prints the resulting variant list.`,
	Example: `  variant-service reconcile --catalog catalog.json --selection selection.json --variants variants.json
  variant-service reconcile --catalog catalog.json --selection selection.json --variants variants.json --policy smart_merge`,
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().StringVar(&reconcileCatalogFile, "catalog", "", "Catalog JSON file (required)")
	reconcileCmd.Flags().StringVar(&reconcileSelectionFile, "selection", "", "Selection JSON file (required)")
	reconcileCmd.Flags().StringVar(&reconcileVariantsFile, "variants", "", "Existing variants JSON file (required)")
	reconcileCmd.Flags().StringSliceVar(&reconcilePrevNames, "previous-attributes", nil, "Previous attribute names, rank ordered")
	reconcileCmd.Flags().StringVar(&reconcilePolicy, "policy", "", "Merge policy to apply: regenerate_all, smart_merge, or keep_existing")
	reconcileCmd.MarkFlagRequired("catalog")
	reconcileCmd.MarkFlagRequired("selection")
	reconcileCmd.MarkFlagRequired("variants")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	cat, sel, err := loadCatalogAndSelection(reconcileCatalogFile, reconcileSelectionFile)
	if err != nil {
		return err
	}

	rawVariants, err := os.ReadFile(reconcileVariantsFile)
	if err != nil {
		return fmt.Errorf("failed to read variants file: %w", err)
	}
	var existing []variant.Variant
	if err := json.Unmarshal(rawVariants, &existing); err != nil {
		return fmt.Errorf("failed to parse variants file: %w", err)
	}

	engineCfg := variant.DefaultEngineConfig()
	if cfg != nil && cfg.Engine.ExplosionWarnThreshold > 0 {
		engineCfg.ExplosionWarnThreshold = cfg.Engine.ExplosionWarnThreshold
	}

	impact := variant.NewReconciler(engineCfg).Reconcile(existing, reconcilePrevNames, &cat, sel)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if reconcilePolicy == "" {
		return enc.Encode(impact)
	}

	policy, ok := variant.ParsePolicy(reconcilePolicy)
	if !ok {
		return fmt.Errorf("invalid policy: %s (want regenerate_all, smart_merge, or keep_existing)", reconcilePolicy)
	}

	next := variant.NewMerger().Apply(policy, existing, impact, &cat, sel)
	logger.Info().
		Str("policy", string(policy)).
		Int("before", len(existing)).
		Int("after", len(next)).
		Msg("Merge applied")
	return enc.Encode(next)
}
