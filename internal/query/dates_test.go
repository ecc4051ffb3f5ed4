package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDate(t *testing.T) {
	valid := []string{"2020-01-01", "1999-12-31", "2024-02-29"}
	for _, d := range valid {
		assert.NoError(t, ValidateDate(d), d)
	}

	invalid := []string{"", "2020-1-1", "2020/01/01", "2023-02-29", "01-01-2020", "2020-01-01T00:00:00Z"}
	for _, d := range invalid {
		assert.ErrorIs(t, ValidateDate(d), ErrInvalidDate, d)
	}
}
