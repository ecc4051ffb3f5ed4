package server

import (
	"math"
	"strings"
	"testing"
)

func TestRequestValidator_ValidateDateRange(t *testing.T) {
	validator := NewRequestValidator()

	tests := []struct {
		name       string
		start      string
		end        string
		wantErr    bool
		errMessage string
	}{
		{
			name:    "valid request",
			start:   "2020-01-01",
			end:     "2020-12-01",
			wantErr: false,
		},
		{
			name:    "start after end is allowed",
			start:   "2021-01-01",
			end:     "2020-01-01",
			wantErr: false,
		},
		{
			name:       "missing start",
			start:      "",
			end:        "2020-12-01",
			wantErr:    true,
			errMessage: "missing date",
		},
		{
			name:       "malformed start",
			start:      "2020/01/01",
			end:        "2020-12-01",
			wantErr:    true,
			errMessage: "invalid start",
		},
		{
			name:       "impossible end",
			start:      "2020-01-01",
			end:        "2020-13-01",
			wantErr:    true,
			errMessage: "invalid end",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateDateRange(tt.start, tt.end)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDateRange() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && !strings.HasPrefix(err.Error(), tt.errMessage) {
				t.Errorf("ValidateDateRange() error message = %v, want prefix %v", err.Error(), tt.errMessage)
			}
		})
	}
}

func TestRequestValidator_ValidateValueRange(t *testing.T) {
	validator := NewRequestValidator()

	if err := validator.ValidateValueRange(1, 2); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := validator.ValidateValueRange(5, 1); err != nil {
		t.Errorf("inverted bounds should be allowed: %v", err)
	}
	if err := validator.ValidateValueRange(math.NaN(), 1); err == nil {
		t.Error("expected error for NaN bound")
	}
	if err := validator.ValidateValueRange(0, math.Inf(1)); err == nil {
		t.Error("expected error for infinite bound")
	}
}
