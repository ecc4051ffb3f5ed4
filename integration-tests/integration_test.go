//go:build integration
// +build integration

package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/tejusbharadwaj/ppistats/internal/api"
	"github.com/tejusbharadwaj/ppistats/internal/cli"
	server "github.com/tejusbharadwaj/ppistats/internal/grpc"
	"github.com/tejusbharadwaj/ppistats/internal/models"
	"github.com/tejusbharadwaj/ppistats/internal/query"
	"github.com/tejusbharadwaj/ppistats/internal/selector"
	"github.com/tejusbharadwaj/ppistats/internal/store"
	"github.com/tejusbharadwaj/ppistats/seriesrpc"
)

const (
	bufSize = 1024 * 1024
	apiKey  = "integration-key"
)

// fakeFRED serves the observations endpoint for a fixed set of series
type fakeFRED struct {
	*httptest.Server
	requests atomic.Int32
	series   map[string][]models.RawObservation
}

func newFakeFRED(t *testing.T) *fakeFRED {
	f := &fakeFRED{
		series: map[string][]models.RawObservation{
			"PCU325325": {
				{Date: "2023-01-01", Value: "310.5"},
				{Date: "2023-02-01", Value: "305.25"},
				{Date: "2023-03-01", Value: "."},
				{Date: "2023-04-01", Value: "298.75"},
			},
			"WPU061": {
				{Date: "2023-01-01", Value: "280"},
				{Date: "2023-02-01", Value: "bad"},
				{Date: "2023-03-01", Value: "290"},
			},
		},
	}

	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		w.Header().Set("Content-Type", "application/json")

		q := r.URL.Query()
		if r.URL.Path != "/fred/series/observations" || q.Get("api_key") != apiKey || q.Get("file_type") != "json" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(models.APIError{Code: 400, Message: "Bad Request."})
			return
		}

		observations, ok := f.series[q.Get("series_id")]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(models.APIError{Code: 400, Message: "Bad Request. The series does not exist."})
			return
		}
		_ = json.NewEncoder(w).Encode(models.APIResponse{Observations: observations})
	}))
	t.Cleanup(f.Close)

	return f
}

type stack struct {
	fred     *fakeFRED
	store    *store.Store
	selector *selector.Selector
	engine   *query.Engine
	client   *seriesrpc.Client
	health   grpc_health_v1.HealthClient
	registry *prometheus.Registry
}

func setupTestEnvironment(t *testing.T) *stack {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	fred := newFakeFRED(t)
	fetcher := api.NewSeriesFetcher(api.Options{
		BaseURL: fred.URL,
		APIKey:  apiKey,
		Timeout: 5 * time.Second,
	}, fred.Client(), logger)

	st := store.New()
	sel := selector.New(fetcher, st, logger)
	engine := query.NewEngine(st)

	registry := prometheus.NewRegistry()
	srv, err := server.SetupServer(
		server.NewSeriesService(sel, engine),
		st.Version,
		server.ServerConfig{CacheSize: 100, RateLimit: 1000, RateLimitBurst: 1000},
		logger,
		registry,
	)
	require.NoError(t, err)
	server.RegisterHealth(srv, func() bool {
		_, err := st.Current()
		return err == nil
	})

	lis := bufconn.Listen(bufSize)
	go func() {
		if err := srv.Serve(lis); err != nil {
			logger.Errorf("Error serving: %v", err)
		}
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
			return lis.Dial()
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		srv.Stop()
		lis.Close()
	})

	return &stack{
		fred:     fred,
		store:    st,
		selector: sel,
		engine:   engine,
		client:   seriesrpc.NewClient(conn),
		health:   grpc_health_v1.NewHealthClient(conn),
		registry: registry,
	}
}

func TestSeriesE2E(t *testing.T) {
	env := setupTestEnvironment(t)
	ctx := context.Background()

	health, err := env.health.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: seriesrpc.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, health.Status)

	selected, err := env.client.SelectSeries(ctx, &seriesrpc.SelectSeriesRequest{Choice: 1})
	require.NoError(t, err)
	assert.Equal(t, models.LoadReport{SeriesID: "PCU325325", Observations: 4, Missing: 1}, selected.Report)

	health, err = env.health.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: seriesrpc.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, health.Status)

	avg, err := env.client.Average(ctx, &seriesrpc.AverageRequest{Start: "2023-01-01", End: "2023-04-01"})
	require.NoError(t, err)
	assert.True(t, avg.Found)
	assert.Equal(t, 3, avg.Count)
	assert.InDelta(t, 304.8333, avg.Average, 0.001)

	ext, err := env.client.Extremes(ctx, &seriesrpc.ExtremesRequest{})
	require.NoError(t, err)
	require.True(t, ext.Found)
	assert.Equal(t, seriesrpc.Extreme{Value: 310.5, Date: "2023-01-01"}, *ext.Max)
	assert.Equal(t, seriesrpc.Extreme{Value: 298.75, Date: "2023-04-01"}, *ext.Min)

	filtered, err := env.client.Filter(ctx, &seriesrpc.FilterRequest{Min: 300, Max: 306})
	require.NoError(t, err)
	require.Len(t, filtered.Observations, 1)
	assert.Equal(t, "2023-02-01", filtered.Observations[0].Date)

	latest, err := env.client.Latest(ctx, &seriesrpc.LatestRequest{N: 2})
	require.NoError(t, err)
	require.Len(t, latest.Observations, 2)
	assert.Equal(t, "2023-03-01", latest.Observations[0].Date)
	assert.False(t, latest.Observations[0].Value.Valid)
	assert.Equal(t, "2023-04-01", latest.Observations[1].Date)

	// one series per method: two health checks, select and four queries
	assert.Equal(t, 6, testutil.CollectAndCount(env.registry, "ppistats_grpc_requests_total"))
}

func TestSwitchingSeriesReplacesData(t *testing.T) {
	env := setupTestEnvironment(t)
	ctx := context.Background()

	_, err := env.client.SelectSeries(ctx, &seriesrpc.SelectSeriesRequest{Choice: 1})
	require.NoError(t, err)
	first, err := env.client.Extremes(ctx, &seriesrpc.ExtremesRequest{})
	require.NoError(t, err)
	assert.Equal(t, "PCU325325", first.SeriesID)

	selected, err := env.client.SelectSeries(ctx, &seriesrpc.SelectSeriesRequest{Choice: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, selected.Report.Malformed)

	second, err := env.client.Extremes(ctx, &seriesrpc.ExtremesRequest{})
	require.NoError(t, err)
	assert.Equal(t, "WPU061", second.SeriesID)
	assert.Equal(t, 290.0, second.Max.Value)
	assert.Equal(t, 280.0, second.Min.Value)
}

func TestFailedFetchKeepsPreviousSeries(t *testing.T) {
	env := setupTestEnvironment(t)
	ctx := context.Background()

	_, err := env.client.SelectSeries(ctx, &seriesrpc.SelectSeriesRequest{Choice: 1})
	require.NoError(t, err)

	// WPU06 is not served by the fake provider
	_, err = env.client.SelectSeries(ctx, &seriesrpc.SelectSeriesRequest{Choice: 3})
	require.Error(t, err)
	assert.Equal(t, codes.Unavailable, status.Code(err))
	assert.Contains(t, err.Error(), "The series does not exist.")

	id, err := env.engine.SeriesID()
	require.NoError(t, err)
	assert.Equal(t, "PCU325325", id)
}

func TestRefreshRefetchesSelectedSeries(t *testing.T) {
	env := setupTestEnvironment(t)
	ctx := context.Background()

	_, err := env.selector.Refresh(ctx)
	assert.ErrorIs(t, err, store.ErrNoDataLoaded)

	_, err = env.selector.Select(ctx, 2)
	require.NoError(t, err)
	version := env.store.Version()
	requests := env.fred.requests.Load()

	report, err := env.selector.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, "WPU061", report.SeriesID)
	assert.Equal(t, version+1, env.store.Version())
	assert.Equal(t, requests+1, env.fred.requests.Load())
}

func TestMenuSessionAgainstProvider(t *testing.T) {
	env := setupTestEnvironment(t)
	logger := logrus.New()

	var out bytes.Buffer
	script := strings.Join([]string{"1", "1", "2", "2023-01-01", "2023-02-01", "3", "6"}, "\n") + "\n"
	menu := cli.New(strings.NewReader(script), &out, env.selector, env.engine, logger)
	require.NoError(t, menu.Run(context.Background()))

	assert.Contains(t, out.String(), "Loaded PCU325325: 4 observations (1 missing, 0 malformed skipped)")
	assert.Contains(t, out.String(), "Average value from 2023-01-01 to 2023-02-01: 307.88 (2 observations)")
	assert.Contains(t, out.String(), "Maximum value: 310.50 on 2023-01-01")
	assert.Contains(t, out.String(), "Minimum value: 298.75 on 2023-04-01")
}
