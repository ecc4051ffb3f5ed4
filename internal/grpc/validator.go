package server

import (
	"fmt"
	"math"

	"github.com/tejusbharadwaj/ppistats/internal/query"
)

type RequestValidator struct{}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{}
}

// ValidateDateRange checks both bounds are calendar dates.
// start after end is allowed and simply matches nothing.
func (v *RequestValidator) ValidateDateRange(start, end string) error {
	if start == "" || end == "" {
		return fmt.Errorf("missing date")
	}
	if err := query.ValidateDate(start); err != nil {
		return fmt.Errorf("invalid start: %w", err)
	}
	if err := query.ValidateDate(end); err != nil {
		return fmt.Errorf("invalid end: %w", err)
	}
	return nil
}

// ValidateValueRange checks both bounds are finite numbers
func (v *RequestValidator) ValidateValueRange(minValue, maxValue float64) error {
	if !isFinite(minValue) || !isFinite(maxValue) {
		return fmt.Errorf("value bounds must be finite")
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
