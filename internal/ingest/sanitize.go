package ingest

import (
	"climata/internal/metrics"
	"climata/internal/models"
)

const (
	FlagRainOutOfRange  = "rain_out_of_range"
	FlagTempOutOfRange  = "temp_out_of_range"
	FlagWindUnlikely    = "wind_unlikely"
	FlagWindDirInvalid  = "wind_dir_invalid"
	FlagSolarOutOfRange = "solar_out_of_range"
	FlagUVOutOfRange    = "uv_out_of_range"
	FlagSunshineInvalid = "sunshine_invalid"
)

// Sanitize drops readings outside physical sanity ranges, turning them into
// absent values rather than rejecting the whole day. Each dropped reading is
// counted against its flag.
func Sanitize(obs models.Observation) models.Observation {
	obs.Rainfall = checkRange(obs.Rainfall, 0, 400, FlagRainOutOfRange)
	obs.TempMean = checkRange(obs.TempMean, -30, 45, FlagTempOutOfRange)
	obs.TempMin = checkRange(obs.TempMin, -35, 40, FlagTempOutOfRange)
	obs.TempMax = checkRange(obs.TempMax, -25, 50, FlagTempOutOfRange)
	obs.WindSpeed = checkRange(obs.WindSpeed, 0, 250, FlagWindUnlikely)
	obs.WindGust = checkRange(obs.WindGust, 0, 300, FlagWindUnlikely)
	obs.WindDir = checkRange(obs.WindDir, 0, 360, FlagWindDirInvalid)
	obs.SolarRadiation = checkRange(obs.SolarRadiation, 0, 45, FlagSolarOutOfRange)
	obs.UVIndex = checkRange(obs.UVIndex, 0, 15, FlagUVOutOfRange)
	obs.Sunshine = checkRange(obs.Sunshine, 0, 86400, FlagSunshineInvalid)
	return obs
}

func checkRange(v *float64, lo, hi float64, flag string) *float64 {
	if v == nil {
		return nil
	}
	if *v < lo || *v > hi {
		metrics.ObservationsFlagged.WithLabelValues(flag).Inc()
		return nil
	}
	return v
}
