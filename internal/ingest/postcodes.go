package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"

	"climata/internal/httputil"
	"climata/internal/models"
)

const defaultPostcodesBaseURL = "https://api.postcodes.io"

// Resolver turns a UK postcode into coordinates via postcodes.io.
type Resolver struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewResolver builds a resolver against the public postcodes.io API.
func NewResolver() *Resolver {
	return &Resolver{
		baseURL: defaultPostcodesBaseURL,
		client:  httputil.NewClient(),
		breaker: newBreaker("postcodes"),
	}
}

// NewResolverWithBaseURL is for tests pointing at a stub server.
func NewResolverWithBaseURL(baseURL string) *Resolver {
	r := NewResolver()
	r.baseURL = baseURL
	return r
}

type postcodeResponse struct {
	Status int `json:"status"`
	Result struct {
		Postcode      string  `json:"postcode"`
		Latitude      float64 `json:"latitude"`
		Longitude     float64 `json:"longitude"`
		AdminDistrict string  `json:"admin_district"`
		Region        string  `json:"region"`
		Country       string  `json:"country"`
	} `json:"result"`
}

// NormalizePostcode uppercases and strips interior whitespace so equivalent
// spellings share one cache key.
func NormalizePostcode(postcode string) string {
	return strings.ToUpper(strings.Join(strings.Fields(postcode), ""))
}

// Resolve looks the postcode up. An unknown postcode is a NotFoundError;
// anything else that fails is a ProviderError.
func (r *Resolver) Resolve(ctx context.Context, postcode string) (models.Location, error) {
	normalized := NormalizePostcode(postcode)
	if normalized == "" {
		return models.Location{}, &NotFoundError{Postcode: postcode}
	}

	u := fmt.Sprintf("%s/postcodes/%s", r.baseURL, url.PathEscape(normalized))
	body, err := doGet(ctx, r.client, r.breaker, "postcodes", u)
	if err != nil {
		var se *httpStatusError
		if errors.As(err, &se) && se.Status == http.StatusNotFound {
			return models.Location{}, &NotFoundError{Postcode: postcode}
		}
		return models.Location{}, &ProviderError{Provider: "postcodes", Err: err}
	}

	var data postcodeResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return models.Location{}, &ProviderError{Provider: "postcodes", Err: fmt.Errorf("unmarshal: %w", err)}
	}

	region := data.Result.Region
	if region == "" {
		region = data.Result.Country
	}

	return models.Location{
		Postcode:    data.Result.Postcode,
		Latitude:    data.Result.Latitude,
		Longitude:   data.Result.Longitude,
		DisplayName: data.Result.AdminDistrict,
		Region:      region,
	}, nil
}
