package analysis

import (
	"math"
	"testing"

	"climata/internal/models"
)

func TestCorrelate_PerfectPositive(t *testing.T) {
	start := date(2023, 1, 1)
	var rows []models.Observation
	for i := 0; i < 40; i++ {
		temp := 10 + float64(i)*0.1
		solar := 2*temp + 3
		rows = append(rows, models.Observation{
			Date:           start.AddDate(0, 0, i),
			TempMax:        &temp,
			SolarRadiation: &solar,
		})
	}
	s := mustSeries(t, rows)

	corr := DefaultConfig().Correlate(s, models.ParamTempMax, models.ParamSolarRadiation)
	if corr.Coefficient == nil {
		t.Fatal("coefficient absent")
	}
	if math.Abs(*corr.Coefficient-1) > 1e-9 {
		t.Errorf("r = %v, want 1", *corr.Coefficient)
	}
	if corr.CommonDays != 40 {
		t.Errorf("CommonDays = %d, want 40", corr.CommonDays)
	}
}

func TestCorrelate_PerfectNegative(t *testing.T) {
	start := date(2023, 1, 1)
	var rows []models.Observation
	for i := 0; i < 40; i++ {
		rain := float64(i)
		solar := 100 - 2*rain
		rows = append(rows, models.Observation{
			Date:           start.AddDate(0, 0, i),
			Rainfall:       &rain,
			SolarRadiation: &solar,
		})
	}
	s := mustSeries(t, rows)

	corr := DefaultConfig().Correlate(s, models.ParamRainfall, models.ParamSolarRadiation)
	if corr.Coefficient == nil || math.Abs(*corr.Coefficient+1) > 1e-9 {
		t.Fatalf("r = %v, want -1", corr.Coefficient)
	}
}

func TestCorrelate_InsufficientCommonDays(t *testing.T) {
	// 40 days of each parameter but only 20 days where both are present.
	start := date(2023, 1, 1)
	var rows []models.Observation
	for i := 0; i < 40; i++ {
		obs := models.Observation{Date: start.AddDate(0, 0, i)}
		v := float64(i)
		if i%2 == 0 {
			obs.Rainfall = &v
		}
		obs.TempMean = &v
		rows = append(rows, obs)
	}
	s := mustSeries(t, rows)

	corr := DefaultConfig().Correlate(s, models.ParamRainfall, models.ParamTempMean)
	if corr.Coefficient != nil {
		t.Errorf("coefficient = %v, want absent below 30 common days", *corr.Coefficient)
	}
	if corr.CommonDays != 20 {
		t.Errorf("CommonDays = %d, want 20", corr.CommonDays)
	}
}

func TestCorrelate_DegenerateVariance(t *testing.T) {
	start := date(2023, 1, 1)
	var rows []models.Observation
	for i := 0; i < 40; i++ {
		v := float64(i)
		rows = append(rows, models.Observation{
			Date:     start.AddDate(0, 0, i),
			Rainfall: fp(3), // constant
			TempMean: &v,
		})
	}
	s := mustSeries(t, rows)

	corr := DefaultConfig().Correlate(s, models.ParamRainfall, models.ParamTempMean)
	if corr.Coefficient != nil {
		t.Errorf("coefficient = %v, want absent for zero variance", *corr.Coefficient)
	}
}

func TestCorrelations_AllStandardPairsReported(t *testing.T) {
	s := mustSeries(t, nil)
	corrs := DefaultConfig().Correlations(s)
	if len(corrs) != 4 {
		t.Fatalf("got %d pairs, want 4", len(corrs))
	}
	for _, c := range corrs {
		if c.Coefficient != nil {
			t.Errorf("%s/%s: coefficient on empty series", c.ParamA, c.ParamB)
		}
	}
}
