package analysis

import (
	"sort"
	"time"

	"climata/internal/models"
	"climata/internal/series"
)

// PercentileRank returns the share of history at or below v, in [0,100].
// Equal values share the same percentile; the reference population is always
// the full history regardless of any subset being ranked.
func PercentileRank(history []float64, v float64) float64 {
	if len(history) == 0 {
		return 0
	}
	atOrBelow := 0
	for _, h := range history {
		if h <= v {
			atOrBelow++
		}
	}
	return float64(atOrBelow) / float64(len(history)) * 100
}

// TopDays ranks the n most extreme days for parameter p against the full
// historical distribution. largest selects the high end (wettest, hottest);
// otherwise the low end (driest, calmest). Ties are broken deterministically
// by earliest date; percentiles for tied values are identical.
func TopDays(s *series.Series, p models.Parameter, n int, largest bool) []models.RankedDay {
	type dayValue struct {
		date  time.Time
		value float64
	}
	var candidates []dayValue
	var history []float64
	for i := 0; i < s.Len(); i++ {
		if v := s.Value(i, p); v != nil {
			candidates = append(candidates, dayValue{date: s.Date(i), value: *v})
			history = append(history, *v)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].value != candidates[j].value {
			if largest {
				return candidates[i].value > candidates[j].value
			}
			return candidates[i].value < candidates[j].value
		}
		return candidates[i].date.Before(candidates[j].date)
	})

	if n > len(candidates) {
		n = len(candidates)
	}
	out := make([]models.RankedDay, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.RankedDay{
			Date:       candidates[i].date,
			Value:      candidates[i].value,
			Rank:       i + 1,
			Percentile: PercentileRank(history, candidates[i].value),
		})
	}
	return out
}

// TopDaysInYear ranks days of one target year while still measuring their
// percentiles against the complete history.
func TopDaysInYear(s *series.Series, p models.Parameter, year, n int, largest bool) []models.RankedDay {
	history := s.Present(p)
	if len(history) == 0 {
		return nil
	}

	type dayValue struct {
		date  time.Time
		value float64
	}
	var candidates []dayValue
	for i := 0; i < s.Len(); i++ {
		if s.Date(i).Year() != year {
			continue
		}
		if v := s.Value(i, p); v != nil {
			candidates = append(candidates, dayValue{date: s.Date(i), value: *v})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].value != candidates[j].value {
			if largest {
				return candidates[i].value > candidates[j].value
			}
			return candidates[i].value < candidates[j].value
		}
		return candidates[i].date.Before(candidates[j].date)
	})

	if n > len(candidates) {
		n = len(candidates)
	}
	out := make([]models.RankedDay, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.RankedDay{
			Date:       candidates[i].date,
			Value:      candidates[i].value,
			Rank:       i + 1,
			Percentile: PercentileRank(history, candidates[i].value),
		})
	}
	return out
}

// rankingSpec drives the bundle's standard extreme lists.
type rankingSpec struct {
	name    string
	param   models.Parameter
	largest bool
}

var standardRankings = []rankingSpec{
	{"wettest", models.ParamRainfall, true},
	{"driest", models.ParamRainfall, false},
	{"hottest", models.ParamTempMax, true},
	{"coldest", models.ParamTempMin, false},
	{"windiest", models.ParamWindGust, true},
	{"calmest", models.ParamWindSpeed, false},
	{"brightest", models.ParamSolarRadiation, true},
	{"dullest", models.ParamSolarRadiation, false},
}

// Rankings produces the standard top-N lists. Lists whose parameter was never
// observed are omitted.
func (c Config) Rankings(s *series.Series) map[string][]models.RankedDay {
	out := make(map[string][]models.RankedDay)
	for _, spec := range standardRankings {
		if ranked := TopDays(s, spec.param, c.TopN, spec.largest); len(ranked) > 0 {
			out[spec.name] = ranked
		}
	}
	return out
}

// RankingsInYear produces the standard top-N lists restricted to one calendar
// year, with percentiles still taken against the full history.
func (c Config) RankingsInYear(s *series.Series, year int) map[string][]models.RankedDay {
	out := make(map[string][]models.RankedDay)
	for _, spec := range standardRankings {
		if ranked := TopDaysInYear(s, spec.param, year, c.TopN, spec.largest); len(ranked) > 0 {
			out[spec.name] = ranked
		}
	}
	return out
}
