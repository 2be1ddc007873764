// Package rejection decides a variant's provisional-rejection state from its
// identifier fields and the latest resolved GS1 lookup status.
package rejection

import (
	"errors"
	"strings"
)

// Gs1Status is the latest resolved state of the external GS1 lookup for an
// EAN. The lookup itself is asynchronous and debounced; only its latest
// resolved status participates in the decision.
type Gs1Status string

const (
	Gs1NotChecked Gs1Status = "not_checked"
	Gs1Pending    Gs1Status = "pending"
	Gs1Valid      Gs1Status = "valid"
	Gs1Invalid    Gs1Status = "invalid"
)

// ParseGs1Status validates a status string from the wire. Anything
// unrecognized reads as not-checked.
func ParseGs1Status(s string) Gs1Status {
	switch Gs1Status(s) {
	case Gs1Pending, Gs1Valid, Gs1Invalid:
		return Gs1Status(s)
	}
	return Gs1NotChecked
}

// ErrEANFormat is returned when an EAN is not 8 or 13 digits.
var ErrEANFormat = errors.New("ean must be 8 or 13 digits")

// NormalizeEAN trims the input and validates the format: digits only,
// length exactly 8 or 13. Anything else is a format error.
func NormalizeEAN(ean string) (string, error) {
	e := strings.TrimSpace(ean)
	if e == "" {
		return "", nil
	}
	if len(e) != 8 && len(e) != 13 {
		return "", ErrEANFormat
	}
	for i := 0; i < len(e); i++ {
		if e[i] < '0' || e[i] > '9' {
			return "", ErrEANFormat
		}
	}
	return e, nil
}

// Input carries the identifier fields a decision is made from. EAN/RAN/HSN
// are trimmed before evaluation; TaxPercentage nil means "not entered".
type Input struct {
	EAN           string
	RAN           string
	HSN           string
	TaxPercentage *float64
	Gs1           Gs1Status
}

// Reason explains a decision for UI copy and diagnostics.
type Reason string

const (
	ReasonRANComplete   Reason = "ran_with_hsn_and_tax"
	ReasonRANIncomplete Reason = "ran_missing_hsn_or_tax"
	ReasonEANFormat     Reason = "ean_format_invalid"
	ReasonEANVerified   Reason = "ean_gs1_verified"
	ReasonEANNotFound   Reason = "ean_gs1_not_found"
	ReasonEANPending    Reason = "ean_gs1_pending"
	ReasonNoIdentifier  Reason = "no_identifier"
)

// Decision is the outcome of the rule table.
type Decision struct {
	Rejected bool   `json:"rejected"`
	Reason   Reason `json:"reason"`
}

// Decide evaluates the identifier rule table in order:
//
//  1. RAN present: accept only with a non-empty HSN code and a tax
//     percentage; RAN takes precedence over EAN whenever both are present.
//  2. EAN present: format errors reject immediately regardless of GS1.
//     Otherwise a completed lookup decides (match accepts, no match
//     rejects), and a still-pending lookup accepts provisionally so the UI
//     never blocks on network latency.
//  3. Neither identifier: reject.
//
// Pure given its inputs; the asynchronous lookup lives in internal/gs1.
func Decide(in Input) Decision {
	ran := strings.TrimSpace(in.RAN)
	hsn := strings.TrimSpace(in.HSN)

	if ran != "" {
		if hsn != "" && in.TaxPercentage != nil {
			return Decision{Rejected: false, Reason: ReasonRANComplete}
		}
		return Decision{Rejected: true, Reason: ReasonRANIncomplete}
	}

	ean, err := NormalizeEAN(in.EAN)
	if err != nil {
		return Decision{Rejected: true, Reason: ReasonEANFormat}
	}
	if ean != "" {
		switch in.Gs1 {
		case Gs1Valid:
			return Decision{Rejected: false, Reason: ReasonEANVerified}
		case Gs1Invalid:
			return Decision{Rejected: true, Reason: ReasonEANNotFound}
		default:
			// Pending or not yet checked: provisional accept.
			return Decision{Rejected: false, Reason: ReasonEANPending}
		}
	}

	return Decision{Rejected: true, Reason: ReasonNoIdentifier}
}
