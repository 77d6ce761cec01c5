package analysis

import (
	"math"
	"testing"
	"time"

	"climata/internal/models"
)

func TestMonthly_BasicBuckets(t *testing.T) {
	rows := []models.Observation{
		{Date: date(2023, 1, 1), Rainfall: fp(5), TempMean: fp(4), TempMax: fp(7), TempMin: fp(-1)},
		{Date: date(2023, 1, 2), Rainfall: fp(0.1), TempMean: fp(6), TempMax: fp(9), TempMin: fp(2)},
		{Date: date(2023, 2, 1), Rainfall: fp(2), TempMean: fp(5), TempMax: fp(21), TempMin: fp(1)},
	}
	s := mustSeries(t, rows)

	monthly := DefaultConfig().Monthly(s)
	if len(monthly) != 2 {
		t.Fatalf("got %d months, want 2", len(monthly))
	}

	jan := monthly[0]
	if jan.Year != 2023 || jan.Month != time.January {
		t.Fatalf("first bucket = %d-%d", jan.Year, jan.Month)
	}
	if jan.Days != 2 {
		t.Errorf("jan.Days = %d, want 2", jan.Days)
	}
	if *jan.RainTotal != 5.1 {
		t.Errorf("jan rain total = %v, want 5.1", *jan.RainTotal)
	}
	if *jan.RainMaxDaily != 5 {
		t.Errorf("jan rain max = %v, want 5", *jan.RainMaxDaily)
	}
	if *jan.WetDays != 1 {
		t.Errorf("jan wet days = %d, want 1 (0.1mm is below the 0.2mm wet-day bar)", *jan.WetDays)
	}
	if *jan.TempMeanAvg != 5 {
		t.Errorf("jan temp mean = %v, want 5", *jan.TempMeanAvg)
	}
	if *jan.FrostDays != 1 {
		t.Errorf("jan frost days = %d, want 1", *jan.FrostDays)
	}

	feb := monthly[1]
	if *feb.WarmDays != 1 {
		t.Errorf("feb warm days = %d, want 1 (21C > 20C)", *feb.WarmDays)
	}
}

func TestMonthly_ZeroDayMonthOmitted(t *testing.T) {
	rows := []models.Observation{
		{Date: date(2023, 1, 15), Rainfall: fp(1)},
		{Date: date(2023, 3, 15), Rainfall: fp(1)},
	}
	s := mustSeries(t, rows)

	monthly := DefaultConfig().Monthly(s)
	for _, m := range monthly {
		if m.Month == time.February {
			t.Fatal("February bucket synthesized despite zero observed days")
		}
	}
	if len(monthly) != 2 {
		t.Fatalf("got %d months, want 2", len(monthly))
	}
}

func TestMonthly_AbsentParameterStaysAbsent(t *testing.T) {
	rows := []models.Observation{
		{Date: date(2023, 5, 1), Rainfall: fp(3)},
		{Date: date(2023, 5, 2), Rainfall: fp(1)},
	}
	s := mustSeries(t, rows)

	monthly := DefaultConfig().Monthly(s)
	if monthly[0].TempMeanAvg != nil {
		t.Error("temp mean reported for a month with no temperature readings")
	}
	if monthly[0].SolarTotal != nil {
		t.Error("solar total reported for a month with no radiation readings")
	}
}

func TestRollupYears_ExactTotalConsistency(t *testing.T) {
	// Awkward values that would drift under a second independent pass with
	// different rounding. Yearly totals must equal the sum of monthly totals
	// exactly, not approximately.
	var rows []models.Observation
	d := date(2021, 1, 1)
	for i := 0; i < 400; i++ {
		v := math.Sqrt(float64(i)) * 0.37
		rows = append(rows, models.Observation{Date: d.AddDate(0, 0, i), Rainfall: &v})
	}
	s := mustSeries(t, rows)

	cfg := DefaultConfig()
	monthly := cfg.Monthly(s)
	yearly := RollupYears(monthly)

	for _, y := range yearly {
		var monthSum float64
		for _, m := range monthly {
			if m.Year == y.Year && m.RainTotal != nil {
				monthSum += *m.RainTotal
			}
		}
		if *y.RainTotal != monthSum {
			t.Errorf("year %d: total %v != sum of monthly totals %v", y.Year, *y.RainTotal, monthSum)
		}
	}
}

func TestRollupYears_WeightedMean(t *testing.T) {
	// 2 January days at 0C and 1 February day at 9C: the yearly mean must be
	// weighted by contributing days (3C), not a mean of monthly means (4.5C).
	rows := []models.Observation{
		{Date: date(2023, 1, 1), TempMean: fp(0)},
		{Date: date(2023, 1, 2), TempMean: fp(0)},
		{Date: date(2023, 2, 1), TempMean: fp(9)},
	}
	s := mustSeries(t, rows)

	yearly := RollupYears(DefaultConfig().Monthly(s))
	if len(yearly) != 1 {
		t.Fatalf("got %d years, want 1", len(yearly))
	}
	if *yearly[0].TempMeanAvg != 3 {
		t.Errorf("yearly temp mean = %v, want 3", *yearly[0].TempMeanAvg)
	}
}

func TestRollupSeasons_DecemberBelongsToFollowingWinter(t *testing.T) {
	rows := []models.Observation{
		{Date: date(2022, 12, 10), Rainfall: fp(4)},
		{Date: date(2023, 1, 10), Rainfall: fp(6)},
		{Date: date(2023, 7, 10), Rainfall: fp(1)},
	}
	s := mustSeries(t, rows)

	seasonal := RollupSeasons(DefaultConfig().Monthly(s))

	var winter *models.Aggregate
	for i := range seasonal {
		if seasonal[i].Season == models.Winter {
			winter = &seasonal[i]
		}
	}
	if winter == nil {
		t.Fatal("no winter bucket")
	}
	if winter.Year != 2023 {
		t.Errorf("winter year = %d, want 2023 (December rolls forward)", winter.Year)
	}
	if *winter.RainTotal != 10 {
		t.Errorf("winter rain = %v, want 10", *winter.RainTotal)
	}
}

func TestSeasonOf(t *testing.T) {
	tests := []struct {
		month      time.Month
		wantSeason models.Season
		wantYear   int
	}{
		{time.March, models.Spring, 2023},
		{time.May, models.Spring, 2023},
		{time.June, models.Summer, 2023},
		{time.August, models.Summer, 2023},
		{time.September, models.Autumn, 2023},
		{time.November, models.Autumn, 2023},
		{time.December, models.Winter, 2024},
		{time.January, models.Winter, 2023},
		{time.February, models.Winter, 2023},
	}

	for _, tt := range tests {
		season, year := seasonOf(2023, tt.month)
		if season != tt.wantSeason || year != tt.wantYear {
			t.Errorf("seasonOf(2023, %s) = %s/%d, want %s/%d", tt.month, season, year, tt.wantSeason, tt.wantYear)
		}
	}
}
