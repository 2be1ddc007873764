package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storekart/variant-service/internal/gs1"
	"github.com/storekart/variant-service/internal/rejection"
)

// Gs1Prefill carries the optional field pre-population values lifted from
// the first registry item. A convenience for the edit form, not part of the
// rejection contract.
type Gs1Prefill struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	HSNCode     string   `json:"hsnCode,omitempty"`
	TaxPct      *float64 `json:"taxPercentage,omitempty"`
	MRP         *float64 `json:"mrp,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
	NetQuantity string   `json:"netQuantity,omitempty"`
}

// Gs1LookupResponse is the resolved lookup state for an EAN
type Gs1LookupResponse struct {
	EAN     string              `json:"ean"`
	Status  rejection.Gs1Status `json:"status"`
	Prefill *Gs1Prefill         `json:"prefill,omitempty"`
}

var (
	gs1Client   *gs1.Client
	gs1Lookup   gs1.Lookuper
	gs1Debounce time.Duration
)

// InitGs1 wires the GS1 client used by the lookup endpoint and the debounce
// window applied to per-session EAN watches.
func InitGs1(client *gs1.Client, debounce time.Duration) {
	gs1Client = client
	if client != nil {
		gs1Lookup = client
	}
	gs1Debounce = debounce
}

func prefillFromItem(item gs1.Item) *Gs1Prefill {
	p := &Gs1Prefill{
		Name:        item.Name,
		Description: item.Description,
		HSNCode:     item.HSCode,
		TaxPct:      item.IGST,
		MRP:         item.MRP,
		NetQuantity: item.WeightsAndMeasures,
	}
	if w, ok := item.Weight(); ok {
		p.Weight = &w
	}
	return p
}

// LookupEAN verifies an EAN against the GS1 registry
// GET /internal/gs1/:ean
func LookupEAN(c *gin.Context) {
	ean, err := rejection.NormalizeEAN(c.Param("ean"))
	if err != nil || ean == "" {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"ean": "must be 8 or 13 digits"}})
		return
	}
	if gs1Client == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "gs1 lookup not configured"})
		return
	}

	res, err := gs1Client.LookupByEAN(c.Request.Context(), ean)
	resp := Gs1LookupResponse{EAN: ean, Status: gs1.Status(res, err)}

	if item, ok := res.FirstItem(); ok {
		resp.Prefill = prefillFromItem(item)
	}
	c.JSON(http.StatusOK, resp)
}
