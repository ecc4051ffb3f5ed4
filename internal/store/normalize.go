package store

import (
	"math"
	"strconv"
	"strings"

	"github.com/tejusbharadwaj/ppistats/internal/models"
)

// missingMarker is what FRED reports for dates without a figure
const missingMarker = "."

// Normalize converts provider strings into a Series.
//
// Empty values and the "." marker become missing values. A value that is
// present but not a finite number is malformed: it is dropped from the
// series and counted in the report. Order is preserved.
func Normalize(raw models.RawSeries) (models.Series, models.LoadReport) {
	report := models.LoadReport{SeriesID: raw.ID}
	observations := make([]models.Observation, 0, len(raw.Observations))

	for _, r := range raw.Observations {
		value, ok := parseValue(r.Value)
		if !ok {
			report.Malformed++
			continue
		}
		if !value.Valid {
			report.Missing++
		}
		observations = append(observations, models.Observation{
			Date:  strings.TrimSpace(r.Date),
			Value: value,
		})
	}

	report.Observations = len(observations)
	return models.Series{ID: raw.ID, Observations: observations}, report
}

func parseValue(s string) (models.Value, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == missingMarker {
		return models.Missing, true
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return models.Missing, false
	}
	return models.Present(f), true
}
