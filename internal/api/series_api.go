// Package api implements the client for the public statistics API that
// publishes the producer price index series.
//
// The client speaks to the FRED series/observations endpoint and returns the
// observations untouched: interpreting values is left to the store.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/tejusbharadwaj/ppistats/internal/models"
)

const (
	DefaultBaseURL   = "https://api.stlouisfed.org"
	observationsPath = "/fred/series/observations"
	DefaultTimeout   = 30 * time.Second
	maxErrorBody     = 4 << 10
)

var (
	ErrRequest       = errors.New("error making observations request")
	ErrStatus        = errors.New("error status from observations API")
	ErrDecode        = errors.New("failed to decode observations response")
	ErrMissingAPIKey = errors.New("api key is required")
)

// Options configures a SeriesFetcher
type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// RequestsPerMinute caps outgoing requests; 0 disables the limit
	RequestsPerMinute int
	// ObservationStart restricts results to dates on or after it (YYYY-MM-DD)
	ObservationStart string
}

// SeriesFetcher downloads observation series over HTTP
type SeriesFetcher struct {
	baseURL          string
	apiKey           string
	timeout          time.Duration
	observationStart string
	client           *http.Client
	limiter          *rate.Limiter
	logger           logrus.FieldLogger
}

func NewSeriesFetcher(opts Options, client *http.Client, logger logrus.FieldLogger) *SeriesFetcher {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if client == nil {
		client = http.DefaultClient
	}

	var limiter *rate.Limiter
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}

	return &SeriesFetcher{
		baseURL:          strings.TrimRight(opts.BaseURL, "/"),
		apiKey:           opts.APIKey,
		timeout:          opts.Timeout,
		observationStart: opts.ObservationStart,
		client:           client,
		limiter:          limiter,
		logger:           logger,
	}
}

// FetchSeries retrieves every observation of seriesID in ascending date order.
func (f *SeriesFetcher) FetchSeries(ctx context.Context, seriesID string) (*models.RawSeries, error) {
	if f.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRequest, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.observationsURL(seriesID), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var apiResp models.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	f.logger.WithFields(logrus.Fields{
		"series_id":    seriesID,
		"observations": len(apiResp.Observations),
		"duration":     time.Since(start),
	}).Debug("Fetched series")

	return &models.RawSeries{
		ID:           seriesID,
		Observations: apiResp.Observations,
	}, nil
}

func (f *SeriesFetcher) observationsURL(seriesID string) string {
	q := url.Values{}
	q.Set("series_id", seriesID)
	q.Set("api_key", f.apiKey)
	q.Set("file_type", "json")
	if f.observationStart != "" {
		q.Set("observation_start", f.observationStart)
	}
	return f.baseURL + observationsPath + "?" + q.Encode()
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var apiErr models.APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("%w: got %d: %s", ErrStatus, resp.StatusCode, apiErr.Message)
	}
	return fmt.Errorf("%w: got %d", ErrStatus, resp.StatusCode)
}
