package analysis

import (
	"math"
	"testing"
	"time"

	"climata/internal/models"
)

// twoYears builds a plausible two-year daily history: sinusoidal temperature,
// rainfall every third day, steady wind and solar.
func twoYears(t *testing.T) []models.Observation {
	t.Helper()
	start := date(2020, time.January, 1)
	days := make([]models.Observation, 0, 731)
	for d := 0; d < 731; d++ {
		day := start.AddDate(0, 0, d)
		doy := float64(day.YearDay())
		temp := 10.0 + 8.0*season01(doy)
		obs := models.Observation{
			Date:           day,
			TempMean:       fp(temp),
			TempMin:        fp(temp - 4),
			TempMax:        fp(temp + 5),
			WindSpeed:      fp(15),
			WindGust:       fp(30),
			SolarRadiation: fp(8 + 12*season01(doy)),
		}
		if d%3 == 0 {
			obs.Rainfall = fp(4)
		} else {
			obs.Rainfall = fp(0)
		}
		days = append(days, obs)
	}
	return days
}

// season01 maps day-of-year onto 0..1 with the peak in midsummer.
func season01(doy float64) float64 {
	return 0.5 - 0.5*math.Cos(2*math.Pi*(doy-15)/365.25)
}

func TestAnalyzeBundle(t *testing.T) {
	s := mustSeries(t, twoYears(t))
	loc := models.Location{Postcode: "SW1A 1AA", Latitude: 51.5, Longitude: -0.14}

	bundle := Analyze(DefaultConfig(), loc, s)

	if bundle.Location.Postcode != "SW1A 1AA" {
		t.Errorf("location postcode = %q", bundle.Location.Postcode)
	}
	if bundle.DayCount != 731 {
		t.Errorf("day count = %d, want 731", bundle.DayCount)
	}
	if len(bundle.Days) != 731 {
		t.Errorf("raw days = %d, want 731", len(bundle.Days))
	}
	if !bundle.StartDate.Equal(date(2020, time.January, 1)) {
		t.Errorf("start date = %v", bundle.StartDate)
	}
	if !bundle.EndDate.Equal(date(2021, time.December, 31)) {
		t.Errorf("end date = %v", bundle.EndDate)
	}

	if len(bundle.Monthly) != 24 {
		t.Errorf("monthly aggregates = %d, want 24", len(bundle.Monthly))
	}
	if len(bundle.Yearly) != 2 {
		t.Errorf("yearly aggregates = %d, want 2", len(bundle.Yearly))
	}
	// 731 days starting 1 Jan 2020 span winter 2020 through winter 2022.
	if len(bundle.Seasonal) == 0 {
		t.Fatal("no seasonal aggregates")
	}

	if len(bundle.Trends) != len(trendParameters) {
		t.Errorf("trends = %d, want %d", len(bundle.Trends), len(trendParameters))
	}
	for _, tr := range bundle.Trends {
		if tr.Samples == 0 {
			t.Errorf("trend %s has zero samples", tr.Parameter)
		}
	}

	for _, name := range []string{"wettest", "driest", "hottest", "coldest", "windiest", "calmest", "brightest", "dullest"} {
		ranked, ok := bundle.Rankings[name]
		if !ok || len(ranked) == 0 {
			t.Errorf("ranking %q missing", name)
			continue
		}
		if ranked[0].Rank != 1 {
			t.Errorf("ranking %q first rank = %d", name, ranked[0].Rank)
		}
	}

	if bundle.LatestYear != 2021 {
		t.Errorf("latest year = %d, want 2021", bundle.LatestYear)
	}
	for name, ranked := range bundle.LatestYearRankings {
		for _, d := range ranked {
			if d.Date.Year() != 2021 {
				t.Errorf("latest-year ranking %q includes %s", name, d.Date.Format("2006-01-02"))
			}
		}
	}
	if len(bundle.LatestYearRankings) == 0 {
		t.Error("no latest-year rankings")
	}

	if len(bundle.Correlations) != 4 {
		t.Errorf("correlations = %d, want 4", len(bundle.Correlations))
	}

	if len(bundle.Insights.Years) != 2 {
		t.Errorf("year insights = %d, want 2", len(bundle.Insights.Years))
	}
	if len(bundle.Insights.Solar) == 0 {
		t.Error("no solar potential by season")
	}

	if bundle.Current != nil {
		t.Error("bundle should not carry current conditions")
	}
}

func TestAnalyzeEmptySeries(t *testing.T) {
	s := mustSeries(t, nil)
	bundle := Analyze(DefaultConfig(), models.Location{}, s)

	if bundle.DayCount != 0 {
		t.Errorf("day count = %d", bundle.DayCount)
	}
	if len(bundle.Monthly) != 0 || len(bundle.Trends) != 0 {
		t.Error("empty series should derive nothing")
	}
}
