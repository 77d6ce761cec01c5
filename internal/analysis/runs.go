package analysis

import (
	"sort"

	"climata/internal/models"
	"climata/internal/series"
)

// DetectRuns finds every maximal consecutive-day span where rule.Qualifies
// holds. A day with a missing reading breaks an open run, and so does a gap
// in the series: a run never spans days we have no data for. A run still open
// at the end of the series is kept only if it already meets the minimum
// length.
func DetectRuns(s *series.Series, kind models.RunKind, rule RunRule) []models.Run {
	var runs []models.Run

	start := -1 // index of the first day of the open run
	var primary []float64
	var metric []float64

	metricParam := rule.MetricParameter
	if metricParam == "" {
		metricParam = rule.Parameter
	}

	flush := func(end int) {
		defer func() {
			start = -1
			primary = primary[:0]
			metric = metric[:0]
		}()

		length := end - start + 1
		if length < rule.MinLength {
			return
		}

		vals := metric
		if len(vals) == 0 {
			// Metric parameter had no readings during the run; fall back to
			// the scanned parameter.
			vals = primary
		}
		runs = append(runs, models.Run{
			Kind:         kind,
			Start:        s.Date(start),
			End:          s.Date(end),
			DurationDays: length,
			Metric:       rule.Summarize(vals),
			MetricLabel:  rule.MetricLabel,
		})
	}

	for i := 0; i < s.Len(); i++ {
		v := s.Value(i, rule.Parameter)
		if v == nil || !rule.Qualifies(*v) {
			if start >= 0 {
				flush(i - 1)
			}
			continue
		}

		if start < 0 {
			start = i
		}
		primary = append(primary, *v)
		if mv := s.Value(i, metricParam); mv != nil {
			metric = append(metric, *mv)
		}

		// GapAfter is also true for the final day, which closes a trailing
		// run at the last available date.
		if s.GapAfter(i) {
			flush(i)
		}
	}

	return runs
}

// DetectAllRuns runs every configured detector and returns the catalog keyed
// by kind. Kinds that produced no runs are omitted.
func (c Config) DetectAllRuns(s *series.Series) map[models.RunKind][]models.Run {
	out := make(map[models.RunKind][]models.Run)

	kinds := make([]models.RunKind, 0, len(c.Runs))
	for kind := range c.Runs {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	for _, kind := range kinds {
		if runs := DetectRuns(s, kind, c.Runs[kind]); len(runs) > 0 {
			out[kind] = runs
		}
	}
	return out
}
