package models

import "time"

// Parameter identifies one observed meteorological quantity.
type Parameter string

const (
	ParamRainfall       Parameter = "rainfall_mm"
	ParamTempMean       Parameter = "temp_mean_c"
	ParamTempMin        Parameter = "temp_min_c"
	ParamTempMax        Parameter = "temp_max_c"
	ParamWindSpeed      Parameter = "wind_speed_kmh"
	ParamWindGust       Parameter = "wind_gust_kmh"
	ParamWindDir        Parameter = "wind_dir_deg"
	ParamSolarRadiation Parameter = "solar_mj_m2"
	ParamUVIndex        Parameter = "uv_index"
	ParamSunshine       Parameter = "sunshine_s"
)

// Observation is one calendar day of readings for a location. Dates are
// normalised to midnight UTC and label the UK-local calendar day. Any reading
// the provider omitted stays nil; zero is a real value, never a placeholder.
type Observation struct {
	Date           time.Time `json:"date"`
	Rainfall       *float64  `json:"rainfall_mm,omitempty"`
	TempMean       *float64  `json:"temp_mean_c,omitempty"`
	TempMin        *float64  `json:"temp_min_c,omitempty"`
	TempMax        *float64  `json:"temp_max_c,omitempty"`
	WindSpeed      *float64  `json:"wind_speed_kmh,omitempty"`
	WindGust       *float64  `json:"wind_gust_kmh,omitempty"`
	WindDir        *float64  `json:"wind_dir_deg,omitempty"`
	SolarRadiation *float64  `json:"solar_mj_m2,omitempty"`
	UVIndex        *float64  `json:"uv_index,omitempty"`
	Sunshine       *float64  `json:"sunshine_s,omitempty"`
}

// Value returns the reading for p, or nil when the provider omitted it.
func (o Observation) Value(p Parameter) *float64 {
	switch p {
	case ParamRainfall:
		return o.Rainfall
	case ParamTempMean:
		return o.TempMean
	case ParamTempMin:
		return o.TempMin
	case ParamTempMax:
		return o.TempMax
	case ParamWindSpeed:
		return o.WindSpeed
	case ParamWindGust:
		return o.WindGust
	case ParamWindDir:
		return o.WindDir
	case ParamSolarRadiation:
		return o.SolarRadiation
	case ParamUVIndex:
		return o.UVIndex
	case ParamSunshine:
		return o.Sunshine
	}
	return nil
}

// Location is a resolved postcode.
type Location struct {
	Postcode    string  `json:"postcode"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"display_name"`
	Region      string  `json:"region"`
}

// Season buckets months per the meteorological convention. December is
// attributed to the following year's winter.
type Season string

const (
	Spring Season = "spring" // Mar-May
	Summer Season = "summer" // Jun-Aug
	Autumn Season = "autumn" // Sep-Nov
	Winter Season = "winter" // Dec-Feb
)

// Aggregate is one monthly, yearly or seasonal bucket. Monthly buckets set
// Month; seasonal buckets set Season; yearly buckets set neither. Stats whose
// parameter had no readings in the bucket stay nil. The *Days counters record
// how many days contributed to the matching mean, which keeps yearly rollups
// exact.
type Aggregate struct {
	Year   int        `json:"year"`
	Month  time.Month `json:"month,omitempty"`
	Season Season     `json:"season,omitempty"`
	Days   int        `json:"days"`

	RainTotal    *float64 `json:"rain_total_mm,omitempty"`
	RainMaxDaily *float64 `json:"rain_max_daily_mm,omitempty"`
	RainDays     int      `json:"rain_days,omitempty"`
	WetDays      *int     `json:"wet_days,omitempty"`

	TempMeanAvg  *float64 `json:"temp_mean_avg_c,omitempty"`
	TempMeanDays int      `json:"temp_mean_days,omitempty"`
	TempMaxHigh  *float64 `json:"temp_max_high_c,omitempty"`
	TempMinLow   *float64 `json:"temp_min_low_c,omitempty"`
	WarmDays     *int     `json:"warm_days,omitempty"`
	FrostDays    *int     `json:"frost_days,omitempty"`

	WindMean *float64 `json:"wind_mean_kmh,omitempty"`
	WindDays int      `json:"wind_days,omitempty"`
	GustMax  *float64 `json:"gust_max_kmh,omitempty"`

	SolarTotal    *float64 `json:"solar_total_mj,omitempty"`
	SunshineHours *float64 `json:"sunshine_hours,omitempty"`
}

// RunKind tags one family of consecutive-day events.
type RunKind string

const (
	RunDrought    RunKind = "drought"
	RunHeatWave   RunKind = "heat_wave"
	RunColdSnap   RunKind = "cold_snap"
	RunStrongWind RunKind = "strong_wind"
	RunCalm       RunKind = "calm"
	RunSolarPeak  RunKind = "solar_peak"
	RunLowSolar   RunKind = "low_solar"
)

// Run is a maximal consecutive-day span where a parameter predicate held.
// Metric summarises the run (e.g. total rainfall of a drought, peak gust of a
// strong-wind spell); MetricLabel names it.
type Run struct {
	Kind         RunKind   `json:"kind"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	DurationDays int       `json:"duration_days"`
	Metric       float64   `json:"metric"`
	MetricLabel  string    `json:"metric_label"`
}

// Trend is an ordinary-least-squares fit over one parameter.
// Slope is in parameter units per day. R2 is nil for a constant series.
type Trend struct {
	Parameter      Parameter `json:"parameter"`
	Slope          float64   `json:"slope_per_day"`
	Intercept      float64   `json:"intercept"`
	Classification string    `json:"classification"`
	R2             *float64  `json:"r2,omitempty"`
	Samples        int       `json:"samples"`
}

// RankedDay is an observation day annotated with its standing against the
// full historical distribution. Rank 1 is the most extreme for its list.
type RankedDay struct {
	Date       time.Time `json:"date"`
	Value      float64   `json:"value"`
	Rank       int       `json:"rank"`
	Percentile float64   `json:"percentile"`
}

// Correlation is a Pearson coefficient between two parameters over the days
// both were observed. Coefficient is nil when there were too few common days
// or one side had no variance.
type Correlation struct {
	ParamA      Parameter `json:"param_a"`
	ParamB      Parameter `json:"param_b"`
	Coefficient *float64  `json:"coefficient,omitempty"`
	CommonDays  int       `json:"common_days"`
}

// YearInsight carries per-year agricultural derivations. Fields stay nil when
// the inputs were unavailable for that year.
type YearInsight struct {
	Year               int        `json:"year"`
	GrowingDegreeDays  *float64   `json:"growing_degree_days,omitempty"`
	GrowingSeasonStart *time.Time `json:"growing_season_start,omitempty"`
	GrowingSeasonEnd   *time.Time `json:"growing_season_end,omitempty"`
	GrowingSeasonDays  *int       `json:"growing_season_days,omitempty"`
}

// SolarPotential estimates panel output for one season of one year.
type SolarPotential struct {
	Year         int     `json:"year"`
	Season       Season  `json:"season"`
	RadiationMJ  float64 `json:"radiation_mj_m2"`
	EstimatedKWh float64 `json:"estimated_kwh"`
}

// Insights bundles the derived agricultural and energy results.
type Insights struct {
	Years []YearInsight    `json:"years,omitempty"`
	Solar []SolarPotential `json:"solar,omitempty"`
}

// CurrentConditions is a point-in-time snapshot plus today's daily summary.
type CurrentConditions struct {
	ObservedAt    time.Time `json:"observed_at"`
	Temperature   *float64  `json:"temperature_c,omitempty"`
	WindSpeed     *float64  `json:"wind_speed_kmh,omitempty"`
	WindDirection *float64  `json:"wind_dir_deg,omitempty"`
	WeatherCode   *int      `json:"weather_code,omitempty"`
	TodayTempMax  *float64  `json:"today_temp_max_c,omitempty"`
	TodayTempMin  *float64  `json:"today_temp_min_c,omitempty"`
	TodayRainfall *float64  `json:"today_rainfall_mm,omitempty"`
}

// Bundle is the immutable result of one analysis run: pure data for
// presentation layers, no behaviour.
type Bundle struct {
	Location Location `json:"location"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	DayCount  int       `json:"day_count"`

	// Days is the validated daily series the statistics were derived from.
	Days []Observation `json:"days"`

	Monthly  []Aggregate `json:"monthly"`
	Yearly   []Aggregate `json:"yearly"`
	Seasonal []Aggregate `json:"seasonal"`

	Runs map[RunKind][]Run `json:"runs"`

	Trends []Trend `json:"trends"`

	Rankings map[string][]RankedDay `json:"rankings"`

	// LatestYearRankings ranks only the final calendar year's days, still
	// measured against the complete historical distribution.
	LatestYear         int                    `json:"latest_year,omitempty"`
	LatestYearRankings map[string][]RankedDay `json:"latest_year_rankings,omitempty"`

	Correlations []Correlation `json:"correlations"`

	Insights Insights `json:"insights"`

	Current *CurrentConditions `json:"current,omitempty"`
}
