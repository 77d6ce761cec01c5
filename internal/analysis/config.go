// Package analysis derives climate statistics from a daily series: calendar
// aggregates, consecutive-day event runs, linear trends, percentile rankings,
// cross-parameter correlations and agricultural/energy insights. Everything
// here is a pure, synchronous transform over an already-built series.
package analysis

import (
	"time"

	"climata/internal/models"
)

// RunRule configures one consecutive-day event detector. Qualifies decides
// whether a single day's reading keeps a run alive; Summarize reduces the
// run's readings to its headline metric.
type RunRule struct {
	Parameter models.Parameter
	MinLength int
	Qualifies func(v float64) bool

	// MetricParameter names the parameter Summarize reduces. Empty means the
	// scanned parameter itself (a strong-wind run reports peak gust, not peak
	// sustained wind).
	MetricParameter models.Parameter
	MetricLabel     string
	Summarize       func(values []float64) float64
}

// Config carries every analytic threshold. The zero value is unusable; start
// from DefaultConfig and override what a caller needs.
type Config struct {
	// Day-classification thresholds for aggregation.
	WetDayMM  float64 // rainfall at or above this is a wet day
	WarmDayC  float64 // max temp above this is a warm day
	FrostDayC float64 // min temp below this is a frost day

	// Trend estimation.
	TrendMinSamples  int
	TrendDeadband    float64 // fraction of a parameter's typical yearly range
	TrendYearlyRange map[models.Parameter]float64

	// Correlation.
	CorrelationMinDays int

	// Ranked extreme lists.
	TopN int

	// Derived insights.
	GDDBaseC          float64
	GDDStartMonth     time.Month
	GDDEndMonth       time.Month
	FrostThresholdC   float64
	GrowingWindowDays int // consecutive frost-free days needed to open/close the season
	PanelEfficiency   float64
	PanelAreaM2       float64

	Runs map[models.RunKind]RunRule
}

// DefaultConfig returns the documented thresholds. All of them are defaults,
// not contracts; callers may override any field before analysing.
func DefaultConfig() Config {
	return Config{
		WetDayMM:  0.2,
		WarmDayC:  20,
		FrostDayC: 0,

		TrendMinSamples: 30,
		TrendDeadband:   0.05,
		TrendYearlyRange: map[models.Parameter]float64{
			models.ParamRainfall:       10,
			models.ParamTempMean:       15,
			models.ParamTempMin:        15,
			models.ParamTempMax:        15,
			models.ParamWindSpeed:      25,
			models.ParamWindGust:       40,
			models.ParamSolarRadiation: 20,
			models.ParamUVIndex:        8,
			models.ParamSunshine:       45000,
		},

		CorrelationMinDays: 30,

		TopN: 10,

		GDDBaseC:          10,
		GDDStartMonth:     time.April,
		GDDEndMonth:       time.October,
		FrostThresholdC:   0,
		GrowingWindowDays: 14,
		PanelEfficiency:   0.18,
		PanelAreaM2:       20,

		Runs: map[models.RunKind]RunRule{
			models.RunDrought: {
				Parameter:   models.ParamRainfall,
				MinLength:   7,
				Qualifies:   func(v float64) bool { return v < 1 },
				MetricLabel: "rain_total_mm",
				Summarize:   sum,
			},
			models.RunHeatWave: {
				Parameter:   models.ParamTempMax,
				MinLength:   3,
				Qualifies:   func(v float64) bool { return v >= 25 },
				MetricLabel: "peak_temp_c",
				Summarize:   max,
			},
			models.RunColdSnap: {
				Parameter:   models.ParamTempMin,
				MinLength:   3,
				Qualifies:   func(v float64) bool { return v <= 0 },
				MetricLabel: "lowest_temp_c",
				Summarize:   min,
			},
			models.RunStrongWind: {
				Parameter:       models.ParamWindSpeed,
				MinLength:       2,
				Qualifies:       func(v float64) bool { return v > 60 },
				MetricParameter: models.ParamWindGust,
				MetricLabel:     "peak_gust_kmh",
				Summarize:       max,
			},
			models.RunCalm: {
				Parameter:   models.ParamWindSpeed,
				MinLength:   3,
				Qualifies:   func(v float64) bool { return v < 5 },
				MetricLabel: "mean_wind_kmh",
				Summarize:   mean,
			},
			models.RunSolarPeak: {
				Parameter:   models.ParamSolarRadiation,
				MinLength:   3,
				Qualifies:   func(v float64) bool { return v > 20 },
				MetricLabel: "mean_solar_mj",
				Summarize:   mean,
			},
			models.RunLowSolar: {
				Parameter:   models.ParamSolarRadiation,
				MinLength:   3,
				Qualifies:   func(v float64) bool { return v < 5 },
				MetricLabel: "mean_solar_mj",
				Summarize:   mean,
			},
		},
	}
}

func sum(values []float64) float64 {
	var t float64
	for _, v := range values {
		t += v
	}
	return t
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sum(values) / float64(len(values))
}

func max(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func min(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
