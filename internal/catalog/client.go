package catalog

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/storekart/variant-service/internal/httpclient"
)

// ClientConfig holds the upstream catalog service settings.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client fetches category attributes from the upstream catalog service and
// normalizes them at the boundary so core logic only ever sees the canonical
// Catalog shape.
type Client struct {
	http   *httpclient.Client
	cfg    ClientConfig
	logger zerolog.Logger
}

// NewClient creates a catalog client over the shared outbound HTTP client.
func NewClient(http *httpclient.Client, cfg ClientConfig) *Client {
	return &Client{
		http:   http,
		cfg:    cfg,
		logger: log.With().Str("component", "catalog_client").Logger(),
	}
}

// GetAttributesForCategory fetches and normalizes the attribute set for a
// category. Inactive attributes and values never leave this boundary.
func (c *Client) GetAttributesForCategory(ctx context.Context, categoryID string) (Catalog, error) {
	if categoryID == "" {
		return Catalog{}, fmt.Errorf("category id is required")
	}

	endpoint := fmt.Sprintf("%s/categories/%s/attributes", c.cfg.BaseURL, url.PathEscape(categoryID))
	headers := map[string]string{}
	if c.cfg.APIKey != "" {
		headers["X-Internal-API-Key"] = c.cfg.APIKey
	}

	var raw RawCatalogResponse
	if err := c.http.GetJSON(ctx, endpoint, headers, &raw); err != nil {
		return Catalog{}, fmt.Errorf("fetch attributes for category %s: %w", categoryID, err)
	}

	cat := Normalize(categoryID, raw)
	c.logger.Debug().
		Str("category_id", categoryID).
		Int("attributes", len(cat.Attributes)).
		Msg("Catalog fetched")
	return cat, nil
}
