package seriesrpc

import (
	"github.com/tejusbharadwaj/ppistats/internal/models"
)

type ListSeriesRequest struct{}

type SeriesOption struct {
	Choice   int    `json:"choice"`
	SeriesID string `json:"series_id"`
	Title    string `json:"title"`
}

type ListSeriesResponse struct {
	Series []SeriesOption `json:"series"`
}

type SelectSeriesRequest struct {
	Choice int `json:"choice"`
}

type SelectSeriesResponse struct {
	Report models.LoadReport `json:"report"`
}

type AverageRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AverageResponse has Found=false when no present value fell in the range
type AverageResponse struct {
	SeriesID string  `json:"series_id"`
	Found    bool    `json:"found"`
	Average  float64 `json:"average"`
	Count    int     `json:"count"`
}

type ExtremesRequest struct{}

type Extreme struct {
	Value float64 `json:"value"`
	Date  string  `json:"date"`
}

// ExtremesResponse has Found=false when the series holds no present value
type ExtremesResponse struct {
	SeriesID string   `json:"series_id"`
	Found    bool     `json:"found"`
	Max      *Extreme `json:"max,omitempty"`
	Min      *Extreme `json:"min,omitempty"`
}

type FilterRequest struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type LatestRequest struct {
	N int `json:"n"`
}

type ObservationsResponse struct {
	SeriesID     string               `json:"series_id"`
	Observations []models.Observation `json:"observations"`
}
