package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// APIResponse represents the observations payload returned by the provider
type APIResponse struct {
	Observations []RawObservation `json:"observations"`
}

// APIError is the body the provider sends alongside a non-200 status
type APIError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_message"`
}

// RawObservation is a single observation exactly as the provider reports it.
// Value may be empty when the provider has no figure for that date.
type RawObservation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// RawSeries is an undecoded series as handed over by a fetcher
type RawSeries struct {
	ID           string
	Observations []RawObservation
}

// Value is an optional numeric observation value.
// The zero Value is missing.
type Value struct {
	Float64 float64
	Valid   bool
}

// Present returns a Value holding v
func Present(v float64) Value {
	return Value{Float64: v, Valid: true}
}

// Missing is the absent Value
var Missing = Value{}

// Get returns the number and whether it is present
func (v Value) Get() (float64, bool) {
	return v.Float64, v.Valid
}

// String renders the shortest representation, or "" when missing
func (v Value) String() string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float64, 'f', -1, 64)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float64)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = Missing
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Present(f)
	return nil
}

// Observation represents a single dated sample of a series
type Observation struct {
	Date  string `json:"date"`
	Value Value  `json:"value"`
}

// Series represents the ordered observations of one series identifier
type Series struct {
	ID           string        `json:"id"`
	Observations []Observation `json:"observations"`
}

// Len returns the number of observations
func (s Series) Len() int {
	return len(s.Observations)
}

// LoadReport summarizes what a load put into the store
type LoadReport struct {
	SeriesID     string `json:"series_id"`
	Observations int    `json:"observations"`
	Missing      int    `json:"missing"`
	Malformed    int    `json:"malformed"`
}
