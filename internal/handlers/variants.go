package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storekart/variant-service/internal/catalog"
	"github.com/storekart/variant-service/internal/export"
	"github.com/storekart/variant-service/internal/variant"
)

// CatalogRef identifies the attribute catalog a request operates on: either
// a category id resolved through the catalog cache, or the raw attribute
// payload inlined by the UI (normalized here at the boundary).
type CatalogRef struct {
	CategoryID string                 `json:"categoryId"`
	Attributes []catalog.RawAttribute `json:"attributes,omitempty"`
}

// GenerateRequest asks for the Cartesian product of a selection
type GenerateRequest struct {
	Catalog   CatalogRef        `json:"catalog" binding:"required"`
	Selection catalog.Selection `json:"selection" binding:"required"`
}

// GeneratedCombination pairs a value-id tuple with its auto title
type GeneratedCombination struct {
	OptionValueIDs []string `json:"optionValueIds"`
	Title          string   `json:"title"`
}

// GenerateResponse returns the combinations plus an optional explosion advisory
type GenerateResponse struct {
	Combinations []GeneratedCombination    `json:"combinations"`
	Count        int                       `json:"count"`
	Warning      *variant.ExplosionWarning `json:"warning,omitempty"`
}

// ReconcileRequest diffs an existing variant list against a new selection
type ReconcileRequest struct {
	Catalog                CatalogRef        `json:"catalog" binding:"required"`
	Selection              catalog.Selection `json:"selection" binding:"required"`
	Existing               []variant.Variant `json:"existing"`
	PreviousAttributeNames []string          `json:"previousAttributeNames"`
}

// MergeRequest applies a merge policy to an existing variant list
type MergeRequest struct {
	Catalog                CatalogRef        `json:"catalog" binding:"required"`
	Selection              catalog.Selection `json:"selection" binding:"required"`
	Existing               []variant.Variant `json:"existing"`
	PreviousAttributeNames []string          `json:"previousAttributeNames"`
	Policy                 string            `json:"policy" binding:"required"`
}

// MergeResponse returns the next variant list together with the impact that
// produced it, for the confirmation UI
type MergeResponse struct {
	Variants []variant.Variant           `json:"variants"`
	Impact   variant.OptionsChangeImpact `json:"impact"`
}

// PackRequest derives a pack variant from a base variant
type PackRequest struct {
	Base         variant.Variant `json:"base" binding:"required"`
	PackQuantity int             `json:"packQuantity"`
}

// PackResponse returns the pack and the base carrying the shared link id
type PackResponse struct {
	Pack variant.Variant `json:"pack"`
	Base variant.Variant `json:"base"`
}

// ExportRequest renders a variant list as an xlsx sheet
type ExportRequest struct {
	Catalog   CatalogRef        `json:"catalog" binding:"required"`
	Selection catalog.Selection `json:"selection" binding:"required"`
	Variants  []variant.Variant `json:"variants"`
}

// Engine dependencies, initialized at startup
var (
	catalogCache *catalog.Cache
	engineConfig *variant.EngineConfig
	reconciler   *variant.Reconciler
	merger       *variant.Merger
)

// InitEngine wires the handler package's engine dependencies.
// This should be called during application startup.
func InitEngine(cache *catalog.Cache, cfg *variant.EngineConfig) {
	catalogCache = cache
	engineConfig = cfg
	reconciler = variant.NewReconciler(cfg)
	merger = variant.NewMerger()
}

// resolveCatalog materializes the catalog a request refers to. Inline
// attributes win over a category id so the UI can reconcile against edits
// it has not saved yet.
func resolveCatalog(c *gin.Context, ref CatalogRef) (catalog.Catalog, error) {
	if len(ref.Attributes) > 0 {
		return catalog.Normalize(ref.CategoryID, catalog.RawCatalogResponse{Attributes: ref.Attributes}), nil
	}
	if ref.CategoryID == "" {
		return catalog.Catalog{}, fmt.Errorf("catalog.categoryId or catalog.attributes is required")
	}
	if catalogCache == nil {
		return catalog.Catalog{}, fmt.Errorf("catalog service not configured")
	}
	return catalogCache.Get(c.Request.Context(), ref.CategoryID)
}

// GenerateCombinations computes the Cartesian product for a selection
// POST /internal/variants/generate
func GenerateCombinations(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"body": err.Error()}})
		return
	}

	cat, err := resolveCatalog(c, req.Catalog)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"catalog": err.Error()}})
		return
	}

	combos, warn := variant.GenerateWithLimit(&cat, req.Selection, engineConfig)
	resp := GenerateResponse{
		Combinations: make([]GeneratedCombination, 0, len(combos)),
		Count:        len(combos),
		Warning:      warn,
	}
	for _, combo := range combos {
		resp.Combinations = append(resp.Combinations, GeneratedCombination{
			OptionValueIDs: combo,
			Title:          variant.Title(combo, &cat, req.Selection),
		})
	}
	c.JSON(http.StatusOK, resp)
}

// ReconcileVariants classifies existing variants against a new selection
// POST /internal/variants/reconcile
func ReconcileVariants(c *gin.Context) {
	var req ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"body": err.Error()}})
		return
	}

	cat, err := resolveCatalog(c, req.Catalog)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"catalog": err.Error()}})
		return
	}

	impact := reconciler.Reconcile(req.Existing, req.PreviousAttributeNames, &cat, req.Selection)
	c.JSON(http.StatusOK, impact)
}

// MergeVariants reconciles and applies a merge policy in one step
// POST /internal/variants/merge
func MergeVariants(c *gin.Context) {
	var req MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"body": err.Error()}})
		return
	}

	policy, ok := variant.ParsePolicy(req.Policy)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"policy": "must be one of regenerate_all, smart_merge, keep_existing"}})
		return
	}

	cat, err := resolveCatalog(c, req.Catalog)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"catalog": err.Error()}})
		return
	}

	impact := reconciler.Reconcile(req.Existing, req.PreviousAttributeNames, &cat, req.Selection)
	next := merger.Apply(policy, req.Existing, impact, &cat, req.Selection)
	c.JSON(http.StatusOK, MergeResponse{Variants: next, Impact: impact})
}

// BuildPackVariant derives a pack variant from a base variant
// POST /internal/variants/pack
func BuildPackVariant(c *gin.Context) {
	var req PackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"body": err.Error()}})
		return
	}
	if req.PackQuantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"packQuantity": "must be at least 1"}})
		return
	}

	base := req.Base
	pack, err := variant.BuildPack(&base, req.PackQuantity)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"packQuantity": err.Error()}})
		return
	}
	c.JSON(http.StatusOK, PackResponse{Pack: pack, Base: base})
}

// ExportVariants streams the variant list as an xlsx attachment
// POST /internal/variants/export
func ExportVariants(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"body": err.Error()}})
		return
	}

	cat, err := resolveCatalog(c, req.Catalog)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"catalog": err.Error()}})
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="variants.xlsx"`)
	if err := export.WriteVariantSheet(c.Writer, req.Variants, &cat, req.Selection); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write variant sheet"})
		return
	}
}
