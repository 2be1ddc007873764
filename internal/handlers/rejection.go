package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storekart/variant-service/internal/rejection"
)

// RejectionRequest carries the identifier fields of a single variant
type RejectionRequest struct {
	EAN           string   `json:"ean"`
	RAN           string   `json:"ran"`
	HSN           string   `json:"hsn"`
	TaxPercentage *float64 `json:"taxPercentage"`
	Gs1Status     string   `json:"gs1Status"`
}

// EvaluateRejection runs the provisional-rejection decision table
// POST /internal/variants/rejection
func EvaluateRejection(c *gin.Context) {
	var req RejectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"body": err.Error()}})
		return
	}

	decision := rejection.Decide(rejection.Input{
		EAN:           req.EAN,
		RAN:           req.RAN,
		HSN:           req.HSN,
		TaxPercentage: req.TaxPercentage,
		Gs1:           rejection.ParseGs1Status(req.Gs1Status),
	})
	c.JSON(http.StatusOK, decision)
}
