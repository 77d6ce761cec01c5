package analysis

import (
	"math"

	"climata/internal/models"
	"climata/internal/series"
)

// Correlate computes the Pearson coefficient between two parameters over the
// days both were observed. Below the minimum common-day threshold, or when
// either side has no variance, the coefficient is absent rather than a
// numerically unstable value.
func (c Config) Correlate(s *series.Series, pa, pb models.Parameter) models.Correlation {
	var xs, ys []float64
	for i := 0; i < s.Len(); i++ {
		va := s.Value(i, pa)
		vb := s.Value(i, pb)
		if va == nil || vb == nil {
			continue
		}
		xs = append(xs, *va)
		ys = append(ys, *vb)
	}

	out := models.Correlation{ParamA: pa, ParamB: pb, CommonDays: len(xs)}
	if len(xs) < c.CorrelationMinDays {
		return out
	}

	n := float64(len(xs))
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return out
	}

	r := cov / math.Sqrt(varX*varY)
	out.Coefficient = &r
	return out
}

// correlationPairs are the cross-parameter relationships the bundle reports.
var correlationPairs = [][2]models.Parameter{
	{models.ParamTempMax, models.ParamSolarRadiation},
	{models.ParamRainfall, models.ParamSolarRadiation},
	{models.ParamRainfall, models.ParamTempMean},
	{models.ParamWindSpeed, models.ParamRainfall},
}

// Correlations evaluates every standard pair. Pairs without enough common
// days still appear, with an absent coefficient, so consumers can tell
// "insufficient data" apart from "not attempted".
func (c Config) Correlations(s *series.Series) []models.Correlation {
	out := make([]models.Correlation, 0, len(correlationPairs))
	for _, pair := range correlationPairs {
		out = append(out, c.Correlate(s, pair[0], pair[1]))
	}
	return out
}
