package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"

	"climata/internal/metrics"
)

// httpStatusError is a final non-success response after retries.
type httpStatusError struct {
	Status int
	Body   string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Body)
}

// newBreaker builds the per-client circuit breaker. A burst of provider
// failures opens the circuit and fails calls fast instead of hammering a
// struggling upstream.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

type fetchOutcome struct {
	status int
	body   []byte
}

// newBackOff is a hook so tests can tighten the retry schedule.
var newBackOff = func(ctx context.Context) backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 2 * time.Minute
	return backoff.WithContext(bo, ctx)
}

// doGet performs a GET with exponential backoff around transient failures
// (network errors, 429, 5xx) and the client's circuit breaker around every
// attempt. Rate limits and server errors are classified inside the breaker so
// a sustained run of them opens the circuit; non-transient statuses come back
// as *httpStatusError so callers can map them into the boundary error
// taxonomy.
func doGet(ctx context.Context, client *http.Client, breaker *gobreaker.CircuitBreaker, provider, url string) ([]byte, error) {
	var body []byte

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		start := time.Now()
		res, err := breaker.Execute(func() (any, error) {
			resp, err := client.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()
			b, err := io.ReadAll(resp.Body)
			if err != nil {
				return nil, err
			}
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return nil, &httpStatusError{Status: resp.StatusCode, Body: string(b)}
			}
			return &fetchOutcome{status: resp.StatusCode, body: b}, nil
		})
		metrics.ProviderLatency.WithLabelValues(provider).Observe(time.Since(start).Seconds())

		if err != nil {
			var se *httpStatusError
			switch {
			case errors.As(err, &se):
				metrics.ProviderCallsTotal.WithLabelValues(provider, strconv.Itoa(se.Status)).Inc()
				return err
			case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
				metrics.ProviderCallsTotal.WithLabelValues(provider, "breaker_open").Inc()
				return backoff.Permanent(err)
			default:
				metrics.ProviderCallsTotal.WithLabelValues(provider, "error").Inc()
				return err
			}
		}

		out := res.(*fetchOutcome)
		metrics.ProviderCallsTotal.WithLabelValues(provider, strconv.Itoa(out.status)).Inc()

		if out.status == http.StatusOK {
			body = out.body
			return nil
		}
		return backoff.Permanent(&httpStatusError{Status: out.status, Body: string(out.body)})
	}

	if err := backoff.Retry(operation, newBackOff(ctx)); err != nil {
		return nil, err
	}
	return body, nil
}
