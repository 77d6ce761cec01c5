package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"climata/internal/httputil"
	"climata/internal/models"
)

const (
	defaultArchiveBaseURL  = "https://archive-api.open-meteo.com/v1/archive"
	defaultForecastBaseURL = "https://api.open-meteo.com/v1/forecast"

	// Archive responses for multi-decade spans are large; allow more than
	// the default client timeout.
	archiveTimeout = 60 * time.Second
)

// dailyParams is the fixed parameter set requested from the archive API,
// aligned by date in the response.
var dailyParams = []string{
	"precipitation_sum",
	"temperature_2m_mean",
	"temperature_2m_min",
	"temperature_2m_max",
	"windspeed_10m_max",
	"windgusts_10m_max",
	"winddirection_10m_dominant",
	"shortwave_radiation_sum",
	"uv_index_max",
	"sunshine_duration",
}

// HistoricalClient fetches daily archives from Open-Meteo.
type HistoricalClient struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewHistoricalClient() *HistoricalClient {
	return &HistoricalClient{
		baseURL: defaultArchiveBaseURL,
		client:  httputil.NewClientWithTimeout(archiveTimeout),
		breaker: newBreaker("openmeteo-archive"),
	}
}

// NewHistoricalClientWithBaseURL is for tests pointing at a stub server.
func NewHistoricalClientWithBaseURL(baseURL string) *HistoricalClient {
	c := NewHistoricalClient()
	c.baseURL = baseURL
	return c
}

type archiveResponse struct {
	Daily struct {
		Time          []string   `json:"time"`
		Precipitation []*float64 `json:"precipitation_sum"`
		TempMean      []*float64 `json:"temperature_2m_mean"`
		TempMin       []*float64 `json:"temperature_2m_min"`
		TempMax       []*float64 `json:"temperature_2m_max"`
		WindSpeed     []*float64 `json:"windspeed_10m_max"`
		WindGust      []*float64 `json:"windgusts_10m_max"`
		WindDir       []*float64 `json:"winddirection_10m_dominant"`
		Radiation     []*float64 `json:"shortwave_radiation_sum"`
		UVIndex       []*float64 `json:"uv_index_max"`
		Sunshine      []*float64 `json:"sunshine_duration"`
	} `json:"daily"`
}

// FetchHistorical returns one validated-ready row per day the archive knows
// about, dates normalised to midnight UTC. Null readings stay absent;
// readings outside physical sanity ranges are dropped to absent and counted.
func (c *HistoricalClient) FetchHistorical(ctx context.Context, lat, lon float64, start, end time.Time) ([]models.Observation, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%.4f", lat))
	values.Set("longitude", fmt.Sprintf("%.4f", lon))
	values.Set("start_date", start.Format("2006-01-02"))
	values.Set("end_date", end.Format("2006-01-02"))
	values.Set("timezone", "Europe/London")
	values.Set("windspeed_unit", "kmh")
	for _, p := range dailyParams {
		values.Add("daily", p)
	}

	u := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())
	body, err := doGet(ctx, c.client, c.breaker, "openmeteo-archive", u)
	if err != nil {
		return nil, &ProviderError{Provider: "openmeteo-archive", Err: err}
	}

	var data archiveResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &ProviderError{Provider: "openmeteo-archive", Err: fmt.Errorf("unmarshal: %w", err)}
	}

	d := data.Daily
	rows := make([]models.Observation, 0, len(d.Time))
	for i, ts := range d.Time {
		day, err := time.Parse("2006-01-02", ts)
		if err != nil {
			return nil, &ProviderError{Provider: "openmeteo-archive", Err: fmt.Errorf("parse date %q: %w", ts, err)}
		}
		obs := models.Observation{
			Date:           day.UTC(),
			Rainfall:       at(d.Precipitation, i),
			TempMean:       at(d.TempMean, i),
			TempMin:        at(d.TempMin, i),
			TempMax:        at(d.TempMax, i),
			WindSpeed:      at(d.WindSpeed, i),
			WindGust:       at(d.WindGust, i),
			WindDir:        at(d.WindDir, i),
			SolarRadiation: at(d.Radiation, i),
			UVIndex:        at(d.UVIndex, i),
			Sunshine:       at(d.Sunshine, i),
		}
		rows = append(rows, Sanitize(obs))
	}
	return rows, nil
}

// at guards against a provider array shorter than the date axis.
func at(vals []*float64, i int) *float64 {
	if i >= len(vals) {
		return nil
	}
	return vals[i]
}

// CurrentClient fetches current conditions plus today's daily summary.
type CurrentClient struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewCurrentClient() *CurrentClient {
	return &CurrentClient{
		baseURL: defaultForecastBaseURL,
		client:  httputil.NewClient(),
		breaker: newBreaker("openmeteo-current"),
	}
}

// NewCurrentClientWithBaseURL is for tests pointing at a stub server.
func NewCurrentClientWithBaseURL(baseURL string) *CurrentClient {
	c := NewCurrentClient()
	c.baseURL = baseURL
	return c
}

type currentResponse struct {
	CurrentWeather struct {
		Temperature   *float64 `json:"temperature"`
		WindSpeed     *float64 `json:"windspeed"`
		WindDirection *float64 `json:"winddirection"`
		WeatherCode   *int     `json:"weathercode"`
		Time          string   `json:"time"`
	} `json:"current_weather"`
	Daily struct {
		Time          []string   `json:"time"`
		TempMax       []*float64 `json:"temperature_2m_max"`
		TempMin       []*float64 `json:"temperature_2m_min"`
		Precipitation []*float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

// FetchCurrent returns the instantaneous readings and today's summary.
func (c *CurrentClient) FetchCurrent(ctx context.Context, lat, lon float64) (models.CurrentConditions, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%.4f", lat))
	values.Set("longitude", fmt.Sprintf("%.4f", lon))
	values.Set("current_weather", "true")
	values.Set("timezone", "Europe/London")
	values.Set("windspeed_unit", "kmh")
	values.Set("forecast_days", "1")
	for _, p := range []string{"temperature_2m_max", "temperature_2m_min", "precipitation_sum"} {
		values.Add("daily", p)
	}

	u := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())
	body, err := doGet(ctx, c.client, c.breaker, "openmeteo-current", u)
	if err != nil {
		return models.CurrentConditions{}, &ProviderError{Provider: "openmeteo-current", Err: err}
	}

	var data currentResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return models.CurrentConditions{}, &ProviderError{Provider: "openmeteo-current", Err: fmt.Errorf("unmarshal: %w", err)}
	}

	out := models.CurrentConditions{
		Temperature:   data.CurrentWeather.Temperature,
		WindSpeed:     data.CurrentWeather.WindSpeed,
		WindDirection: data.CurrentWeather.WindDirection,
		WeatherCode:   data.CurrentWeather.WeatherCode,
	}
	if ts, err := time.Parse("2006-01-02T15:04", data.CurrentWeather.Time); err == nil {
		out.ObservedAt = ts.UTC()
	} else {
		out.ObservedAt = time.Now().UTC()
	}
	if len(data.Daily.Time) > 0 {
		out.TodayTempMax = at(data.Daily.TempMax, 0)
		out.TodayTempMin = at(data.Daily.TempMin, 0)
		out.TodayRainfall = at(data.Daily.Precipitation, 0)
	}
	return out, nil
}
