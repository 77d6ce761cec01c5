// Package series holds the validated, gap-aware daily time series one
// analysis run operates on. A Series is immutable once built; every
// downstream statistic reads from the same snapshot.
package series

import (
	"fmt"
	"time"

	"climata/internal/models"
)

// MalformedSeriesError reports provider rows that cannot form a valid series:
// duplicate or non-chronological dates.
type MalformedSeriesError struct {
	Date   time.Time
	Reason string
}

func (e *MalformedSeriesError) Error() string {
	return fmt.Sprintf("malformed series at %s: %s", e.Date.Format("2006-01-02"), e.Reason)
}

// Series is an ordered run of daily observations with strictly increasing
// unique dates. Calendar gaps (days the provider had no data for) are simply
// absent; nothing is interpolated.
type Series struct {
	days []models.Observation
}

// Build validates raw provider rows into a Series. Rows must already be
// date-normalised (midnight UTC); duplicate or out-of-order dates are fatal.
func Build(rows []models.Observation) (*Series, error) {
	if len(rows) == 0 {
		return &Series{}, nil
	}

	days := make([]models.Observation, len(rows))
	copy(days, rows)

	for i := 1; i < len(days); i++ {
		prev, cur := days[i-1].Date, days[i].Date
		if cur.Equal(prev) {
			return nil, &MalformedSeriesError{Date: cur, Reason: "duplicate date"}
		}
		if cur.Before(prev) {
			return nil, &MalformedSeriesError{Date: cur, Reason: "dates not in chronological order"}
		}
	}

	return &Series{days: days}, nil
}

// Len returns the number of observed days (gaps excluded).
func (s *Series) Len() int { return len(s.days) }

// Date returns the calendar date of day i.
func (s *Series) Date(i int) time.Time { return s.days[i].Date }

// Day returns day i by value.
func (s *Series) Day(i int) models.Observation { return s.days[i] }

// Days returns a copy of the underlying observations.
func (s *Series) Days() []models.Observation {
	out := make([]models.Observation, len(s.days))
	copy(out, s.days)
	return out
}

// DateRange returns the first and last observed dates. ok is false for an
// empty series.
func (s *Series) DateRange() (first, last time.Time, ok bool) {
	if len(s.days) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return s.days[0].Date, s.days[len(s.days)-1].Date, true
}

// Value returns day i's reading for p, or nil if absent.
func (s *Series) Value(i int, p models.Parameter) *float64 {
	return s.days[i].Value(p)
}

// Values returns the per-day readings for p, aligned with day indices.
// Absent readings are nil.
func (s *Series) Values(p models.Parameter) []*float64 {
	out := make([]*float64, len(s.days))
	for i, d := range s.days {
		out[i] = d.Value(p)
	}
	return out
}

// Present returns the non-missing readings for p, in date order.
func (s *Series) Present(p models.Parameter) []float64 {
	var out []float64
	for _, d := range s.days {
		if v := d.Value(p); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// GapAfter reports whether the day following day i is missing from the
// series, i.e. day i+1 is not the next calendar date. The last day has no
// successor and reports true.
func (s *Series) GapAfter(i int) bool {
	if i >= len(s.days)-1 {
		return true
	}
	return !s.days[i+1].Date.Equal(s.days[i].Date.AddDate(0, 0, 1))
}
