// Schema Generator
//
// Generates JSON Schema files from Go types for use in the storefront's Zod
// schema generation. Go is the source of truth for shared API types.
//
// Usage:
//
//	go run cmd/schema-gen/main.go
//
// Output:
//
//	../../shared/schemas/variants.json
//	../../shared/schemas/sessions.json
//	../../shared/schemas/rejection.json
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/storekart/variant-service/internal/handlers"
)

// SchemaGroup represents a group of related schemas
type SchemaGroup struct {
	Name  string
	Types []any
}

func main() {
	outputDir := "../../shared/schemas"
	if len(os.Args) > 1 {
		outputDir = os.Args[1]
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	groups := []SchemaGroup{
		{
			Name: "variants",
			Types: []any{
				// Request types
				handlers.CatalogRef{},
				handlers.GenerateRequest{},
				handlers.ReconcileRequest{},
				handlers.MergeRequest{},
				handlers.PackRequest{},
				handlers.ExportRequest{},
				// Response types
				handlers.GeneratedCombination{},
				handlers.GenerateResponse{},
				handlers.MergeResponse{},
				handlers.PackResponse{},
			},
		},
		{
			Name: "sessions",
			Types: []any{
				handlers.CreateSessionRequest{},
				handlers.StageImpactRequest{},
				handlers.ResolveRequest{},
				handlers.UpdateVariantsRequest{},
				handlers.WatchEANRequest{},
			},
		},
		{
			Name: "rejection",
			Types: []any{
				handlers.RejectionRequest{},
				handlers.Gs1LookupResponse{},
				handlers.Gs1Prefill{},
			},
		},
	}

	reflector := &jsonschema.Reflector{
		DoNotReference: false,
		ExpandedStruct: false,
	}

	for _, group := range groups {
		schemas := make(map[string]any, len(group.Types))
		for _, t := range group.Types {
			schemas[typeName(t)] = reflector.Reflect(t)
		}

		data, err := json.MarshalIndent(schemas, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to marshal %s schemas: %v\n", group.Name, err)
			os.Exit(1)
		}

		outPath := filepath.Join(outputDir, group.Name+".json")
		if err := os.WriteFile(outPath, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", outPath, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s (%d types)\n", outPath, len(group.Types))
	}
}

// typeName extracts the bare type name from a value
func typeName(t any) string {
	full := fmt.Sprintf("%T", t)
	if idx := strings.LastIndex(full, "."); idx >= 0 {
		return full[idx+1:]
	}
	return full
}
