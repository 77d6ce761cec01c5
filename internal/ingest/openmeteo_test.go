package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"climata/internal/models"
)

const archiveBody = `{
	"daily": {
		"time": ["2020-06-01", "2020-06-02", "2020-06-03"],
		"precipitation_sum": [0.0, 4.2, null],
		"temperature_2m_mean": [15.1, 14.8, 16.0],
		"temperature_2m_min": [9.0, 10.2, 11.1],
		"temperature_2m_max": [21.3, 19.5, 22.8],
		"windspeed_10m_max": [18.0, 25.4, 12.1],
		"windgusts_10m_max": [40.2, 55.0, 30.9],
		"winddirection_10m_dominant": [250, 190, 500],
		"shortwave_radiation_sum": [22.5, 12.3, 24.0],
		"uv_index_max": [6.1, 3.2, 7.0],
		"sunshine_duration": [41000, 18500, 46000]
	}
}`

func TestFetchHistorical(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2020-06-01", q.Get("start_date"))
		assert.Equal(t, "2020-06-03", q.Get("end_date"))
		assert.Equal(t, "Europe/London", q.Get("timezone"))
		assert.Contains(t, q["daily"], "precipitation_sum")
		assert.Contains(t, q["daily"], "sunshine_duration")
		w.Write([]byte(archiveBody))
	}))
	defer srv.Close()

	start := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2020, 6, 3, 0, 0, 0, 0, time.UTC)
	rows, err := NewHistoricalClientWithBaseURL(srv.URL).FetchHistorical(context.Background(), 51.5, -0.14, start, end)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, start, rows[0].Date)
	assert.Equal(t, start.AddDate(0, 0, 1), rows[1].Date)
	assert.Equal(t, time.UTC, rows[1].Date.Location())

	require.NotNil(t, rows[1].Rainfall)
	assert.InDelta(t, 4.2, *rows[1].Rainfall, 1e-9)

	// A JSON null reading stays absent.
	assert.Nil(t, rows[2].Rainfall)

	require.NotNil(t, rows[0].SolarRadiation)
	assert.InDelta(t, 22.5, *rows[0].SolarRadiation, 1e-9)
	require.NotNil(t, rows[2].Sunshine)
	assert.InDelta(t, 46000, *rows[2].Sunshine, 1e-9)

	// 500 degrees is not a wind direction; the reading is dropped, the
	// rest of the day survives.
	assert.Nil(t, rows[2].WindDir)
	require.NotNil(t, rows[2].TempMax)
	assert.InDelta(t, 22.8, *rows[2].TempMax, 1e-9)
}

func TestFetchHistoricalShortArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"daily": {
				"time": ["2020-06-01", "2020-06-02"],
				"precipitation_sum": [1.5],
				"temperature_2m_mean": [15.0, 14.0]
			}
		}`))
	}))
	defer srv.Close()

	start := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	rows, err := NewHistoricalClientWithBaseURL(srv.URL).FetchHistorical(context.Background(), 51.5, -0.14, start, start.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].Rainfall)
	assert.Nil(t, rows[1].Rainfall)
	require.NotNil(t, rows[1].TempMean)
}

func TestFetchHistoricalBadDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"daily": {"time": ["not-a-date"], "precipitation_sum": [1.0]}}`))
	}))
	defer srv.Close()

	start := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err := NewHistoricalClientWithBaseURL(srv.URL).FetchHistorical(context.Background(), 51.5, -0.14, start, start)
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
}

func TestFetchCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("current_weather"))
		w.Write([]byte(`{
			"current_weather": {
				"temperature": 17.4,
				"windspeed": 12.3,
				"winddirection": 230,
				"weathercode": 3,
				"time": "2026-08-27T14:00"
			},
			"daily": {
				"time": ["2026-08-27"],
				"temperature_2m_max": [21.0],
				"temperature_2m_min": [11.5],
				"precipitation_sum": [0.4]
			}
		}`))
	}))
	defer srv.Close()

	cur, err := NewCurrentClientWithBaseURL(srv.URL).FetchCurrent(context.Background(), 51.5, -0.14)
	require.NoError(t, err)
	require.NotNil(t, cur.Temperature)
	assert.InDelta(t, 17.4, *cur.Temperature, 1e-9)
	require.NotNil(t, cur.WeatherCode)
	assert.Equal(t, 3, *cur.WeatherCode)
	assert.Equal(t, time.Date(2026, 8, 27, 14, 0, 0, 0, time.UTC), cur.ObservedAt)
	require.NotNil(t, cur.TodayTempMax)
	assert.InDelta(t, 21.0, *cur.TodayTempMax, 1e-9)
	require.NotNil(t, cur.TodayRainfall)
	assert.InDelta(t, 0.4, *cur.TodayRainfall, 1e-9)
}

func TestSanitize(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	obs := models.Observation{
		Date:           time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC),
		Rainfall:       f(-1),
		TempMean:       f(15),
		TempMin:        f(-60),
		TempMax:        f(80),
		WindSpeed:      f(30),
		WindGust:       f(500),
		WindDir:        f(361),
		SolarRadiation: f(22),
		UVIndex:        f(20),
		Sunshine:       f(90000),
	}

	got := Sanitize(obs)

	assert.Nil(t, got.Rainfall)
	assert.Nil(t, got.TempMin)
	assert.Nil(t, got.TempMax)
	assert.Nil(t, got.WindGust)
	assert.Nil(t, got.WindDir)
	assert.Nil(t, got.UVIndex)
	assert.Nil(t, got.Sunshine)

	require.NotNil(t, got.TempMean)
	assert.InDelta(t, 15, *got.TempMean, 1e-9)
	require.NotNil(t, got.WindSpeed)
	assert.InDelta(t, 30, *got.WindSpeed, 1e-9)
	require.NotNil(t, got.SolarRadiation)
	assert.InDelta(t, 22, *got.SolarRadiation, 1e-9)
}
