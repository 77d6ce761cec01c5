package analysis

import (
	"errors"
	"math"

	"climata/internal/models"
	"climata/internal/series"
)

// ErrInsufficientData marks a derived statistic that could not be computed
// from the available sample. Callers omit the field and carry on; it is never
// fatal to the wider analysis.
var ErrInsufficientData = errors.New("analysis: insufficient data")

// Trend classification labels.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// EstimateTrend fits y = slope*x + intercept by ordinary least squares, with
// x the zero-based day offset from the series start. Days with a missing
// reading are excluded, not imputed. R2 stays nil for a constant series.
func (c Config) EstimateTrend(s *series.Series, p models.Parameter) (models.Trend, error) {
	if s.Len() == 0 {
		return models.Trend{}, ErrInsufficientData
	}
	origin := s.Date(0)

	var xs, ys []float64
	for i := 0; i < s.Len(); i++ {
		v := s.Value(i, p)
		if v == nil {
			continue
		}
		x := s.Date(i).Sub(origin).Hours() / 24
		xs = append(xs, x)
		ys = append(ys, *v)
	}

	n := len(xs)
	if n < c.TrendMinSamples {
		return models.Trend{}, ErrInsufficientData
	}

	var sumX, sumY, sumXX, sumXY float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
		sumXX += xs[i] * xs[i]
		sumXY += xs[i] * ys[i]
	}

	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return models.Trend{}, ErrInsufficientData
	}
	slope := (fn*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / fn

	meanY := sumY / fn
	var ssRes, ssTot float64
	for i := 0; i < n; i++ {
		pred := slope*xs[i] + intercept
		ssRes += (ys[i] - pred) * (ys[i] - pred)
		ssTot += (ys[i] - meanY) * (ys[i] - meanY)
	}

	trend := models.Trend{
		Parameter:      p,
		Slope:          slope,
		Intercept:      intercept,
		Classification: c.classifySlope(p, slope),
		Samples:        n,
	}
	if ssTot > 0 {
		r2 := 1 - ssRes/ssTot
		trend.R2 = &r2
	}
	return trend, nil
}

// classifySlope compares the slope, projected over a year, against a
// dead-band scaled to the parameter's typical yearly range.
func (c Config) classifySlope(p models.Parameter, slope float64) string {
	rng, ok := c.TrendYearlyRange[p]
	if !ok || rng <= 0 {
		rng = 1
	}
	yearly := slope * 365.25
	band := c.TrendDeadband * rng

	switch {
	case math.Abs(yearly) <= band:
		return TrendStable
	case yearly > 0:
		return TrendIncreasing
	default:
		return TrendDecreasing
	}
}
