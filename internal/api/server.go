// Package api exposes the analysis pipeline as a small JSON API.
package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"climata/internal/ingest"
	"climata/internal/models"
	"climata/internal/pipeline"
	"climata/internal/series"
)

// Analyzer is the pipeline surface the server depends on.
type Analyzer interface {
	Analyze(ctx context.Context, req pipeline.Request) (*models.Bundle, error)
	Current(ctx context.Context, postcode string) (models.CurrentConditions, models.Location, error)
}

type Server struct {
	runner Analyzer
	port   string
}

func NewServer(runner Analyzer, port string) *Server {
	return &Server{runner: runner, port: port}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/climate", s.handleClimate)
	mux.HandleFunc("/api/current", s.handleCurrent)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("api: listening on :%s", s.port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// statusFor maps the pipeline error taxonomy onto HTTP statuses. Unknown
// postcodes are the caller's problem, provider failures are the upstream's.
func statusFor(err error) int {
	var nf *ingest.NotFoundError
	var pe *ingest.ProviderError
	var ms *series.MalformedSeriesError
	switch {
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.Is(err, pipeline.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.As(err, &pe), errors.As(err, &ms):
		return http.StatusBadGateway
	case errors.Is(err, pipeline.ErrStaleAnalysis):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
