package server

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	middleware "github.com/tejusbharadwaj/ppistats/internal/grpc/middlewares"
	"github.com/tejusbharadwaj/ppistats/internal/models"
	"github.com/tejusbharadwaj/ppistats/internal/query"
	"github.com/tejusbharadwaj/ppistats/internal/selector"
	"github.com/tejusbharadwaj/ppistats/internal/store"
	"github.com/tejusbharadwaj/ppistats/seriesrpc"
)

// ServerConfig holds configuration options for the gRPC server
type ServerConfig struct {
	CacheSize      int     // Size of the LRU cache
	RateLimit      float64 // Requests per second
	RateLimitBurst int     // Maximum burst size for rate limiting
}

// DefaultServerConfig returns a ServerConfig with sensible defaults
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		CacheSize:      1000,
		RateLimit:      5.0, // 5 requests per second
		RateLimitBurst: 10,  // Burst of 10 requests
	}
}

// SeriesSelector loads a series chosen by menu number
type SeriesSelector interface {
	Select(ctx context.Context, choice int) (models.LoadReport, error)
}

// QueryEngine hands out the loaded series. Each request reads it once so
// the reported series ID always matches the data the answer came from.
type QueryEngine interface {
	Snapshot() (models.Series, error)
}

// SeriesService encapsulates business logic
type SeriesService struct {
	selector  SeriesSelector
	engine    QueryEngine
	validator *RequestValidator
}

// NewSeriesService creates a new service instance
func NewSeriesService(sel SeriesSelector, engine QueryEngine) *SeriesService {
	return &SeriesService{
		selector:  sel,
		engine:    engine,
		validator: NewRequestValidator(),
	}
}

func (s *SeriesService) ListSeries(ctx context.Context, req *seriesrpc.ListSeriesRequest) (*seriesrpc.ListSeriesResponse, error) {
	opts := selector.Options()
	resp := &seriesrpc.ListSeriesResponse{Series: make([]seriesrpc.SeriesOption, len(opts))}
	for i, o := range opts {
		resp.Series[i] = seriesrpc.SeriesOption{Choice: o.Choice, SeriesID: o.SeriesID, Title: o.Title}
	}
	return resp, nil
}

func (s *SeriesService) SelectSeries(ctx context.Context, req *seriesrpc.SelectSeriesRequest) (*seriesrpc.SelectSeriesResponse, error) {
	report, err := s.selector.Select(ctx, req.Choice)
	if err != nil {
		return nil, toStatus(err)
	}
	return &seriesrpc.SelectSeriesResponse{Report: report}, nil
}

func (s *SeriesService) Average(ctx context.Context, req *seriesrpc.AverageRequest) (*seriesrpc.AverageResponse, error) {
	if err := s.validator.ValidateDateRange(req.Start, req.End); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	series, err := s.engine.Snapshot()
	if err != nil {
		return nil, toStatus(err)
	}

	avg, err := query.AverageInRange(series.Observations, req.Start, req.End)
	if errors.Is(err, query.ErrNoDataInRange) {
		return &seriesrpc.AverageResponse{SeriesID: series.ID}, nil
	}
	if err != nil {
		return nil, toStatus(err)
	}

	return &seriesrpc.AverageResponse{
		SeriesID: series.ID,
		Found:    true,
		Average:  avg.Value,
		Count:    avg.Count,
	}, nil
}

func (s *SeriesService) Extremes(ctx context.Context, req *seriesrpc.ExtremesRequest) (*seriesrpc.ExtremesResponse, error) {
	series, err := s.engine.Snapshot()
	if err != nil {
		return nil, toStatus(err)
	}

	ext, err := query.FindExtremes(series.Observations)
	if errors.Is(err, query.ErrNoDataAvailable) {
		return &seriesrpc.ExtremesResponse{SeriesID: series.ID}, nil
	}
	if err != nil {
		return nil, toStatus(err)
	}

	return &seriesrpc.ExtremesResponse{
		SeriesID: series.ID,
		Found:    true,
		Max:      &seriesrpc.Extreme{Value: ext.Max.Value, Date: ext.Max.Date},
		Min:      &seriesrpc.Extreme{Value: ext.Min.Value, Date: ext.Min.Date},
	}, nil
}

func (s *SeriesService) Filter(ctx context.Context, req *seriesrpc.FilterRequest) (*seriesrpc.ObservationsResponse, error) {
	if err := s.validator.ValidateValueRange(req.Min, req.Max); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	series, err := s.engine.Snapshot()
	if err != nil {
		return nil, toStatus(err)
	}

	observations := []models.Observation{}
	for o := range query.FilterByRange(series.Observations, req.Min, req.Max) {
		observations = append(observations, o)
	}
	return &seriesrpc.ObservationsResponse{SeriesID: series.ID, Observations: observations}, nil
}

func (s *SeriesService) Latest(ctx context.Context, req *seriesrpc.LatestRequest) (*seriesrpc.ObservationsResponse, error) {
	series, err := s.engine.Snapshot()
	if err != nil {
		return nil, toStatus(err)
	}

	return &seriesrpc.ObservationsResponse{
		SeriesID:     series.ID,
		Observations: query.LatestEntries(series.Observations, req.N),
	}, nil
}

// toStatus maps domain errors onto gRPC status codes
func toStatus(err error) error {
	switch {
	case errors.Is(err, store.ErrNoDataLoaded):
		return status.Error(codes.FailedPrecondition, "no series loaded")
	case errors.Is(err, selector.ErrInvalidSelection):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, selector.ErrFetchFailed):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Errorf(codes.Internal, "query failed: %v", err)
	}
}

// gRPC Server Configuration without the middleware (for development and debug only)
func ConfigureGRPCServer(
	service seriesrpc.SeriesServiceServer,
	opts ...grpc.ServerOption,
) *grpc.Server {
	// Create gRPC server with optional configurations
	srv := grpc.NewServer(opts...)

	// Register service
	seriesrpc.RegisterSeriesServiceServer(srv, service)

	return srv
}

// SetupServer initializes and configures the gRPC server with all middleware.
//
// generation must change whenever a new series is loaded; it scopes the
// response cache. Metrics are registered with registerer.
func SetupServer(
	service seriesrpc.SeriesServiceServer,
	generation func() uint64,
	config ServerConfig,
	logger logrus.FieldLogger,
	registerer prometheus.Registerer,
) (*grpc.Server, error) {
	// Initialize the cache
	cache, err := middleware.NewCache(
		config.CacheSize,
		generation,
		seriesrpc.ListSeriesMethod,
		seriesrpc.AverageMethod,
		seriesrpc.ExtremesMethod,
		seriesrpc.FilterMethod,
		seriesrpc.LatestMethod,
	)
	if err != nil {
		return nil, err
	}

	// Register Prometheus metrics
	metrics, err := middleware.NewMetrics(registerer)
	if err != nil {
		return nil, err
	}

	limiter := middleware.NewRateLimitingInterceptor(config.RateLimit, config.RateLimitBurst)

	// Create server with chained interceptors
	server := grpc.NewServer(
		grpc.UnaryInterceptor(
			chainUnaryInterceptors(
				middleware.ContextMiddleware,             // Add request ID first
				limiter,                                  // Rate limit early
				middleware.NewLoggingInterceptor(logger), // Log all requests (with request ID)
				metrics.Interceptor(),                    // Collect metrics
				cache.Interceptor(),                      // Cache last to avoid caching errors
			),
		),
	)

	// Register the series service
	seriesrpc.RegisterSeriesServiceServer(server, service)

	return server, nil
}

// chainUnaryInterceptors creates a single interceptor from multiple interceptors
func chainUnaryInterceptors(interceptors ...grpc.UnaryServerInterceptor) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		chain := handler
		for i := len(interceptors) - 1; i >= 0; i-- {
			interceptor := interceptors[i]
			chainedInterceptor := chain
			chain = func(currentCtx context.Context, currentReq interface{}) (interface{}, error) {
				return interceptor(currentCtx, currentReq, info, chainedInterceptor)
			}
		}
		return chain(ctx, req)
	}
}

// Compile-time interface implementation check
var _ seriesrpc.SeriesServiceServer = (*SeriesService)(nil)
