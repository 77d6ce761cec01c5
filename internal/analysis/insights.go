package analysis

import (
	"sort"
	"time"

	"climata/internal/models"
	"climata/internal/series"
)

// DeriveInsights computes the agricultural and solar-energy derivations.
// Each output field degrades gracefully: when its input parameter is missing
// the field stays absent, never an error.
func (c Config) DeriveInsights(s *series.Series, seasonal []models.Aggregate) models.Insights {
	var insights models.Insights

	yearSet := make(map[int]bool)
	for i := 0; i < s.Len(); i++ {
		yearSet[s.Date(i).Year()] = true
	}
	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	for _, y := range years {
		yi := models.YearInsight{Year: y}

		if gdd, ok := c.growingDegreeDays(s, y); ok {
			yi.GrowingDegreeDays = &gdd
		}
		if start, end, ok := c.growingSeason(s, y); ok {
			days := int(end.Sub(start).Hours()/24) + 1
			yi.GrowingSeasonStart = &start
			yi.GrowingSeasonEnd = &end
			yi.GrowingSeasonDays = &days
		}

		if yi.GrowingDegreeDays != nil || yi.GrowingSeasonStart != nil {
			insights.Years = append(insights.Years, yi)
		}
	}

	insights.Solar = c.solarPotential(seasonal)
	return insights
}

// growingDegreeDays sums max(0, meanTemp - base) over the configured growing
// months of one year. ok is false when mean temperature was never observed in
// that window.
func (c Config) growingDegreeDays(s *series.Series, year int) (float64, bool) {
	var total float64
	seen := false
	for i := 0; i < s.Len(); i++ {
		d := s.Date(i)
		if d.Year() != year || d.Month() < c.GDDStartMonth || d.Month() > c.GDDEndMonth {
			continue
		}
		v := s.Value(i, models.ParamTempMean)
		if v == nil {
			continue
		}
		seen = true
		if contrib := *v - c.GDDBaseC; contrib > 0 {
			total += contrib
		}
	}
	return total, seen
}

// growingSeason finds the first and last frost-free stretch of at least the
// configured window length within one year. The window requirement stops a
// single mild day from opening the season. Missing days and missing minimum
// temperatures break a stretch.
func (c Config) growingSeason(s *series.Series, year int) (start, end time.Time, ok bool) {
	stretchStart := -1
	closeStretch := func(endIdx int) {
		if stretchStart < 0 {
			return
		}
		length := endIdx - stretchStart + 1
		if length >= c.GrowingWindowDays {
			if !ok {
				start = s.Date(stretchStart)
				ok = true
			}
			end = s.Date(endIdx)
		}
		stretchStart = -1
	}

	for i := 0; i < s.Len(); i++ {
		if s.Date(i).Year() != year {
			if stretchStart >= 0 {
				closeStretch(i - 1)
			}
			continue
		}
		v := s.Value(i, models.ParamTempMin)
		if v == nil || *v <= c.FrostThresholdC {
			closeStretch(i - 1)
			continue
		}
		if stretchStart < 0 {
			stretchStart = i
		}
		if s.GapAfter(i) {
			closeStretch(i)
		}
	}
	return start, end, ok
}

// solarPotential estimates panel output per season from the seasonal
// radiation integrals. 1 MJ = 1/3.6 kWh.
func (c Config) solarPotential(seasonal []models.Aggregate) []models.SolarPotential {
	var out []models.SolarPotential
	for _, agg := range seasonal {
		if agg.SolarTotal == nil {
			continue
		}
		kwh := *agg.SolarTotal * c.PanelEfficiency * c.PanelAreaM2 / 3.6
		out = append(out, models.SolarPotential{
			Year:         agg.Year,
			Season:       agg.Season,
			RadiationMJ:  *agg.SolarTotal,
			EstimatedKWh: kwh,
		})
	}
	return out
}
