package analysis

import (
	"climata/internal/models"
	"climata/internal/series"
)

// trendParameters are the series the bundle fits a trend for.
var trendParameters = []models.Parameter{
	models.ParamRainfall,
	models.ParamTempMean,
	models.ParamTempMin,
	models.ParamTempMax,
	models.ParamWindSpeed,
	models.ParamSolarRadiation,
}

// Analyze derives the full statistics bundle from one series snapshot. It is
// pure and synchronous: every statistic observes the same immutable series,
// and a statistic that cannot be computed is omitted rather than failing the
// run.
func Analyze(cfg Config, loc models.Location, s *series.Series) *models.Bundle {
	bundle := &models.Bundle{
		Location: loc,
		DayCount: s.Len(),
		Days:     s.Days(),
	}
	if first, last, ok := s.DateRange(); ok {
		bundle.StartDate = first
		bundle.EndDate = last
	}

	monthly := cfg.Monthly(s)
	bundle.Monthly = monthly
	bundle.Yearly = RollupYears(monthly)
	bundle.Seasonal = RollupSeasons(monthly)

	bundle.Runs = cfg.DetectAllRuns(s)

	for _, p := range trendParameters {
		trend, err := cfg.EstimateTrend(s, p)
		if err != nil {
			continue // below minimum sample size; omit the field
		}
		bundle.Trends = append(bundle.Trends, trend)
	}

	bundle.Rankings = cfg.Rankings(s)
	if !bundle.EndDate.IsZero() {
		bundle.LatestYear = bundle.EndDate.Year()
		bundle.LatestYearRankings = cfg.RankingsInYear(s, bundle.LatestYear)
	}
	bundle.Correlations = cfg.Correlations(s)
	bundle.Insights = cfg.DeriveInsights(s, bundle.Seasonal)

	return bundle
}
