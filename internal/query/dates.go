package query

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the ISO 8601 calendar date format observations use
const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// ValidateDate reports whether s is a real calendar date in DateLayout.
// Only well-formed dates compare correctly as strings.
func ValidateDate(s string) error {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return fmt.Errorf("%w: %q (want YYYY-MM-DD)", ErrInvalidDate, s)
	}
	return nil
}
