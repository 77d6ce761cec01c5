package analysis

import (
	"testing"
	"time"

	"climata/internal/models"
	"climata/internal/series"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fp(v float64) *float64 { return &v }

func mustSeries(t *testing.T, rows []models.Observation) *series.Series {
	t.Helper()
	s, err := series.Build(rows)
	if err != nil {
		t.Fatalf("series.Build: %v", err)
	}
	return s
}

// rainDays builds consecutive days starting at start with the given rainfall
// values. A NaN-free shorthand for run detector tests.
func rainDays(start time.Time, mm ...float64) []models.Observation {
	rows := make([]models.Observation, len(mm))
	for i, v := range mm {
		v := v
		rows[i] = models.Observation{Date: start.AddDate(0, 0, i), Rainfall: &v}
	}
	return rows
}
