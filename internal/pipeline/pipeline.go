// Package pipeline orchestrates one analysis: resolve the postcode, fetch
// daily history through the request cache, build the series, and run every
// derivation from that single snapshot. Analytics stay pure; all suspension
// happens at the fetch boundary.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"climata/internal/analysis"
	"climata/internal/cache"
	"climata/internal/ingest"
	"climata/internal/metrics"
	"climata/internal/models"
	"climata/internal/series"
)

// ErrStaleAnalysis means a newer analysis started while this one was waiting
// on a fetch. The stale result is discarded, never merged.
var ErrStaleAnalysis = errors.New("analysis superseded by a newer request")

// ErrInvalidRange means the requested date range is empty or reversed.
var ErrInvalidRange = errors.New("start date must not be after end date")

const (
	locationTTL = 24 * time.Hour
	archiveTTL  = 24 * time.Hour
	currentTTL  = 10 * time.Minute

	defaultCacheCapacity = 128
)

// Resolver turns a postcode into coordinates.
type Resolver interface {
	Resolve(ctx context.Context, postcode string) (models.Location, error)
}

// HistoricalFetcher returns daily observations for a coordinate and range.
type HistoricalFetcher interface {
	FetchHistorical(ctx context.Context, lat, lon float64, start, end time.Time) ([]models.Observation, error)
}

// CurrentFetcher returns present conditions for a coordinate.
type CurrentFetcher interface {
	FetchCurrent(ctx context.Context, lat, lon float64) (models.CurrentConditions, error)
}

// Request names one analysis to run.
type Request struct {
	Postcode       string
	Start          time.Time
	End            time.Time
	IncludeCurrent bool
}

// Runner executes analyses. Archive data is immutable so it caches for a day;
// current conditions go stale in minutes. The generation counter makes the
// newest location the single owner of in-progress state: an analysis for a
// different location supersedes older in-flight ones, whose results are then
// discarded. Overlapping requests for the same location share a generation.
type Runner struct {
	resolver   Resolver
	historical HistoricalFetcher
	current    CurrentFetcher
	cfg        analysis.Config

	locations *cache.Cache[models.Location]
	archives  *cache.Cache[[]models.Observation]
	currents  *cache.Cache[models.CurrentConditions]

	mu         sync.Mutex
	activeKey  string
	generation uint64
}

// NewRunner wires a runner against live collaborators.
func NewRunner(resolver Resolver, historical HistoricalFetcher, current CurrentFetcher, cfg analysis.Config) *Runner {
	return newRunner(resolver, historical, current, cfg, clockwork.NewRealClock())
}

func newRunner(resolver Resolver, historical HistoricalFetcher, current CurrentFetcher, cfg analysis.Config, clock clockwork.Clock) *Runner {
	return &Runner{
		resolver:   resolver,
		historical: historical,
		current:    current,
		cfg:        cfg,
		locations:  cache.New[models.Location](defaultCacheCapacity, clock),
		archives:   cache.New[[]models.Observation](defaultCacheCapacity, clock),
		currents:   cache.New[models.CurrentConditions](defaultCacheCapacity, clock),
	}
}

// Analyze runs the full derivation for req and returns the immutable bundle.
func (r *Runner) Analyze(ctx context.Context, req Request) (*models.Bundle, error) {
	gen := r.beginGeneration(ingest.NormalizePostcode(req.Postcode))

	start := midnightUTC(req.Start)
	end := midnightUTC(req.End)
	if start.After(end) {
		metrics.AnalysesTotal.WithLabelValues("invalid").Inc()
		return nil, ErrInvalidRange
	}

	loc, err := r.resolve(ctx, req.Postcode)
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	key := fmt.Sprintf("archive|%.4f,%.4f|%s|%s",
		loc.Latitude, loc.Longitude, start.Format("2006-01-02"), end.Format("2006-01-02"))
	days, err := r.archives.GetOrFetch(ctx, key, archiveTTL, func(ctx context.Context) ([]models.Observation, error) {
		return r.historical.FetchHistorical(ctx, loc.Latitude, loc.Longitude, start, end)
	})
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if r.stale(gen) {
		metrics.AnalysesTotal.WithLabelValues("stale").Inc()
		return nil, ErrStaleAnalysis
	}

	s, err := series.Build(days)
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	bundle := analysis.Analyze(r.cfg, loc, s)

	if req.IncludeCurrent {
		cur, err := r.fetchCurrent(ctx, loc)
		if err != nil {
			// Current conditions are a garnish; the historical analysis
			// stands without them.
			log.Printf("pipeline: current conditions unavailable for %s: %v", loc.Postcode, err)
		} else {
			bundle.Current = &cur
		}
	}

	if r.stale(gen) {
		metrics.AnalysesTotal.WithLabelValues("stale").Inc()
		return nil, ErrStaleAnalysis
	}

	metrics.AnalysesTotal.WithLabelValues("ok").Inc()
	log.Printf("pipeline: analyzed %s: %d days %s to %s",
		loc.Postcode, s.Len(), start.Format("2006-01-02"), end.Format("2006-01-02"))
	return bundle, nil
}

// Current resolves the postcode and returns present conditions only.
func (r *Runner) Current(ctx context.Context, postcode string) (models.CurrentConditions, models.Location, error) {
	loc, err := r.resolve(ctx, postcode)
	if err != nil {
		return models.CurrentConditions{}, models.Location{}, err
	}
	cur, err := r.fetchCurrent(ctx, loc)
	if err != nil {
		return models.CurrentConditions{}, loc, err
	}
	return cur, loc, nil
}

func (r *Runner) resolve(ctx context.Context, postcode string) (models.Location, error) {
	key := "postcode|" + ingest.NormalizePostcode(postcode)
	return r.locations.GetOrFetch(ctx, key, locationTTL, func(ctx context.Context) (models.Location, error) {
		return r.resolver.Resolve(ctx, postcode)
	})
}

func (r *Runner) fetchCurrent(ctx context.Context, loc models.Location) (models.CurrentConditions, error) {
	key := fmt.Sprintf("current|%.4f,%.4f", loc.Latitude, loc.Longitude)
	return r.currents.GetOrFetch(ctx, key, currentTTL, func(ctx context.Context) (models.CurrentConditions, error) {
		return r.current.FetchCurrent(ctx, loc.Latitude, loc.Longitude)
	})
}

// beginGeneration bumps the generation only when the requested location
// changes, so concurrent requests for one location never supersede each
// other.
func (r *Runner) beginGeneration(key string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if key != r.activeKey {
		r.activeKey = key
		r.generation++
	}
	return r.generation
}

func (r *Runner) stale(gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation != gen
}

func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
