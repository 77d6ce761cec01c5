package analysis

import (
	"sort"
	"time"

	"climata/internal/models"
	"climata/internal/series"
)

// monthAccum gathers one calendar month's raw sums. Finalisation turns it
// into a models.Aggregate with absent stats left nil.
type monthAccum struct {
	year  int
	month time.Month
	days  int

	rainSum, rainMax float64
	rainDays         int
	wetDays          int

	tempMeanSum  float64
	tempMeanDays int
	tempMaxHigh  float64
	tempMaxDays  int
	tempMinLow   float64
	tempMinDays  int
	warmDays     int
	frostDays    int

	windSum  float64
	windDays int
	gustMax  float64
	gustDays int

	solarSum  float64
	solarDays int
	sunSum    float64
	sunDays   int
}

// Monthly rolls the series into per-calendar-month buckets. Only months with
// at least one observed day appear; the result is sorted by (year, month).
func (c Config) Monthly(s *series.Series) []models.Aggregate {
	type key struct {
		year  int
		month time.Month
	}
	accums := make(map[key]*monthAccum)

	for i := 0; i < s.Len(); i++ {
		d := s.Day(i)
		k := key{d.Date.Year(), d.Date.Month()}
		a, ok := accums[k]
		if !ok {
			a = &monthAccum{year: k.year, month: k.month}
			accums[k] = a
		}
		a.days++

		if v := d.Rainfall; v != nil {
			if a.rainDays == 0 || *v > a.rainMax {
				a.rainMax = *v
			}
			a.rainSum += *v
			a.rainDays++
			if *v >= c.WetDayMM {
				a.wetDays++
			}
		}
		if v := d.TempMean; v != nil {
			a.tempMeanSum += *v
			a.tempMeanDays++
		}
		if v := d.TempMax; v != nil {
			if a.tempMaxDays == 0 || *v > a.tempMaxHigh {
				a.tempMaxHigh = *v
			}
			a.tempMaxDays++
			if *v > c.WarmDayC {
				a.warmDays++
			}
		}
		if v := d.TempMin; v != nil {
			if a.tempMinDays == 0 || *v < a.tempMinLow {
				a.tempMinLow = *v
			}
			a.tempMinDays++
			if *v < c.FrostDayC {
				a.frostDays++
			}
		}
		if v := d.WindSpeed; v != nil {
			a.windSum += *v
			a.windDays++
		}
		if v := d.WindGust; v != nil {
			if a.gustDays == 0 || *v > a.gustMax {
				a.gustMax = *v
			}
			a.gustDays++
		}
		if v := d.SolarRadiation; v != nil {
			a.solarSum += *v
			a.solarDays++
		}
		if v := d.Sunshine; v != nil {
			a.sunSum += *v
			a.sunDays++
		}
	}

	out := make([]models.Aggregate, 0, len(accums))
	for _, a := range accums {
		out = append(out, a.finalize())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

func (a *monthAccum) finalize() models.Aggregate {
	agg := models.Aggregate{
		Year:  a.year,
		Month: a.month,
		Days:  a.days,
	}
	if a.rainDays > 0 {
		rainSum, rainMax, wet := a.rainSum, a.rainMax, a.wetDays
		agg.RainTotal = &rainSum
		agg.RainMaxDaily = &rainMax
		agg.RainDays = a.rainDays
		agg.WetDays = &wet
	}
	if a.tempMeanDays > 0 {
		avg := a.tempMeanSum / float64(a.tempMeanDays)
		agg.TempMeanAvg = &avg
		agg.TempMeanDays = a.tempMeanDays
	}
	if a.tempMaxDays > 0 {
		high, warm := a.tempMaxHigh, a.warmDays
		agg.TempMaxHigh = &high
		agg.WarmDays = &warm
	}
	if a.tempMinDays > 0 {
		low, frost := a.tempMinLow, a.frostDays
		agg.TempMinLow = &low
		agg.FrostDays = &frost
	}
	if a.windDays > 0 {
		windMean := a.windSum / float64(a.windDays)
		agg.WindMean = &windMean
		agg.WindDays = a.windDays
	}
	if a.gustDays > 0 {
		gust := a.gustMax
		agg.GustMax = &gust
	}
	if a.solarDays > 0 {
		solar := a.solarSum
		agg.SolarTotal = &solar
	}
	if a.sunDays > 0 {
		hours := a.sunSum / 3600
		agg.SunshineHours = &hours
	}
	return agg
}

// RollupYears combines monthly buckets into yearly ones. Totals are sums of
// the monthly sums and means are re-weighted by contributing days, so a
// year's rain total equals the sum of its months' totals exactly.
func RollupYears(monthly []models.Aggregate) []models.Aggregate {
	groups := make(map[int][]models.Aggregate)
	for _, m := range monthly {
		groups[m.Year] = append(groups[m.Year], m)
	}

	years := make([]int, 0, len(groups))
	for y := range groups {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make([]models.Aggregate, 0, len(years))
	for _, y := range years {
		agg := combine(groups[y])
		agg.Year = y
		out = append(out, agg)
	}
	return out
}

// seasonOf maps a month to its season and the year the season is attributed
// to. December belongs to the following year's winter.
func seasonOf(year int, month time.Month) (models.Season, int) {
	switch month {
	case time.March, time.April, time.May:
		return models.Spring, year
	case time.June, time.July, time.August:
		return models.Summer, year
	case time.September, time.October, time.November:
		return models.Autumn, year
	case time.December:
		return models.Winter, year + 1
	default: // January, February
		return models.Winter, year
	}
}

// RollupSeasons combines monthly buckets into seasonal ones using the same
// exact arithmetic as RollupYears.
func RollupSeasons(monthly []models.Aggregate) []models.Aggregate {
	type key struct {
		year   int
		season models.Season
	}
	groups := make(map[key][]models.Aggregate)
	for _, m := range monthly {
		season, year := seasonOf(m.Year, m.Month)
		k := key{year, season}
		groups[k] = append(groups[k], m)
	}

	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	seasonOrder := map[models.Season]int{models.Winter: 0, models.Spring: 1, models.Summer: 2, models.Autumn: 3}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return seasonOrder[keys[i].season] < seasonOrder[keys[j].season]
	})

	out := make([]models.Aggregate, 0, len(keys))
	for _, k := range keys {
		agg := combine(groups[k])
		agg.Year = k.year
		agg.Season = k.season
		out = append(out, agg)
	}
	return out
}

// combine rolls several monthly buckets into one. Month/Year/Season are left
// for the caller to set.
func combine(months []models.Aggregate) models.Aggregate {
	var out models.Aggregate

	var (
		rainSum, rainMax        float64
		rainDays, wetDays       int
		tempSum                 float64
		tempDays                int
		tempMaxHigh, tempMinLow float64
		tempMaxSet, tempMinSet  bool
		warmDays, frostDays     int
		warmSet, frostSet       bool
		windSum                 float64
		windDays                int
		gustMax                 float64
		gustSet                 bool
		solarSum, sunHours      float64
		solarSet, sunSet        bool
	)

	for _, m := range months {
		out.Days += m.Days

		if m.RainTotal != nil {
			if rainDays == 0 || *m.RainMaxDaily > rainMax {
				rainMax = *m.RainMaxDaily
			}
			rainSum += *m.RainTotal
			rainDays += m.RainDays
			wetDays += *m.WetDays
		}
		if m.TempMeanAvg != nil {
			tempSum += *m.TempMeanAvg * float64(m.TempMeanDays)
			tempDays += m.TempMeanDays
		}
		if m.TempMaxHigh != nil {
			if !tempMaxSet || *m.TempMaxHigh > tempMaxHigh {
				tempMaxHigh = *m.TempMaxHigh
			}
			tempMaxSet = true
		}
		if m.WarmDays != nil {
			warmDays += *m.WarmDays
			warmSet = true
		}
		if m.TempMinLow != nil {
			if !tempMinSet || *m.TempMinLow < tempMinLow {
				tempMinLow = *m.TempMinLow
			}
			tempMinSet = true
		}
		if m.FrostDays != nil {
			frostDays += *m.FrostDays
			frostSet = true
		}
		if m.WindMean != nil {
			windSum += *m.WindMean * float64(m.WindDays)
			windDays += m.WindDays
		}
		if m.GustMax != nil {
			if !gustSet || *m.GustMax > gustMax {
				gustMax = *m.GustMax
			}
			gustSet = true
		}
		if m.SolarTotal != nil {
			solarSum += *m.SolarTotal
			solarSet = true
		}
		if m.SunshineHours != nil {
			sunHours += *m.SunshineHours
			sunSet = true
		}
	}

	if rainDays > 0 {
		out.RainTotal = &rainSum
		out.RainMaxDaily = &rainMax
		out.RainDays = rainDays
		out.WetDays = &wetDays
	}
	if tempDays > 0 {
		avg := tempSum / float64(tempDays)
		out.TempMeanAvg = &avg
		out.TempMeanDays = tempDays
	}
	if tempMaxSet {
		out.TempMaxHigh = &tempMaxHigh
	}
	if warmSet {
		out.WarmDays = &warmDays
	}
	if tempMinSet {
		out.TempMinLow = &tempMinLow
	}
	if frostSet {
		out.FrostDays = &frostDays
	}
	if windDays > 0 {
		windMean := windSum / float64(windDays)
		out.WindMean = &windMean
		out.WindDays = windDays
	}
	if gustSet {
		out.GustMax = &gustMax
	}
	if solarSet {
		out.SolarTotal = &solarSum
	}
	if sunSet {
		out.SunshineHours = &sunHours
	}
	return out
}
