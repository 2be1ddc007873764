// Package gs1 integrates the external GS1 barcode registry: a lookup client
// plus a debounced, last-write-wins watcher for EAN edits.
package gs1

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/storekart/variant-service/internal/httpclient"
	"github.com/storekart/variant-service/internal/rejection"
)

// Item is a single registry entry returned for an EAN.
type Item struct {
	Name               string         `json:"name"`
	Description        string         `json:"description"`
	HSCode             string         `json:"hs_code"`
	IGST               *float64       `json:"igst"`
	MRP                *float64       `json:"mrp"`
	WeightsAndMeasures string         `json:"weights_and_measures"`
	Attributes         map[string]any `json:"attributes"`
}

// Weight extracts a numeric weight from the item's free-form attributes map.
// The registry has no dedicated weight field; when present it arrives under
// a handful of attribute keys, as a number or a numeric string.
func (i Item) Weight() (float64, bool) {
	for _, key := range []string{"weight", "gross_weight", "net_weight"} {
		switch v := i.Attributes[key].(type) {
		case float64:
			return v, true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// Result is the raw lookup response. Status true with at least one item
// means the EAN is registered; only the first item is ever consumed.
type Result struct {
	Status bool   `json:"status"`
	Items  []Item `json:"items"`
}

// FirstItem returns the leading item when the lookup found a match.
func (r *Result) FirstItem() (Item, bool) {
	if r.Status && len(r.Items) > 0 {
		return r.Items[0], true
	}
	return Item{}, false
}

// ClientConfig holds the GS1 registry settings.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client performs GS1 registry lookups by EAN.
type Client struct {
	http   *httpclient.Client
	cfg    ClientConfig
	logger zerolog.Logger
}

// NewClient creates a GS1 client over the shared outbound HTTP client.
func NewClient(http *httpclient.Client, cfg ClientConfig) *Client {
	return &Client{
		http:   http,
		cfg:    cfg,
		logger: log.With().Str("component", "gs1_client").Logger(),
	}
}

// LookupByEAN queries the registry for a normalized EAN. The EAN must
// already be format-valid; format errors are the caller's concern.
func (c *Client) LookupByEAN(ctx context.Context, ean string) (Result, error) {
	endpoint := fmt.Sprintf("%s/lookup?ean=%s", c.cfg.BaseURL, url.QueryEscape(ean))
	headers := map[string]string{}
	if c.cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + c.cfg.APIKey
	}

	var res Result
	if err := c.http.GetJSON(ctx, endpoint, headers, &res); err != nil {
		return Result{}, fmt.Errorf("gs1 lookup %s: %w", ean, err)
	}
	return res, nil
}

// Status collapses a lookup outcome into the decision-table enum. There is
// no retry: a failed call resolves to invalid rather than staying pending.
func Status(res Result, err error) rejection.Gs1Status {
	if err != nil {
		return rejection.Gs1Invalid
	}
	if _, ok := res.FirstItem(); ok {
		return rejection.Gs1Valid
	}
	return rejection.Gs1Invalid
}
