package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"github.com/tejusbharadwaj/ppistats/internal/api"
	"github.com/tejusbharadwaj/ppistats/internal/cli"
	"github.com/tejusbharadwaj/ppistats/internal/config"
	server "github.com/tejusbharadwaj/ppistats/internal/grpc"
	"github.com/tejusbharadwaj/ppistats/internal/logging"
	"github.com/tejusbharadwaj/ppistats/internal/query"
	"github.com/tejusbharadwaj/ppistats/internal/scheduler"
	"github.com/tejusbharadwaj/ppistats/internal/selector"
	"github.com/tejusbharadwaj/ppistats/internal/store"
)

// Command ppistats analyzes Producer Price Index series from FRED.
//
// By default it runs an interactive menu on the terminal. With -serve it
// exposes the same operations as a gRPC service instead.
//
// Usage:
//
//	ppistats [flags]
//
// The flags are:
//
//	-config string
//	      path to config file (default "config.yaml")
//	-serve
//	      run the gRPC service instead of the interactive menu
//	-series int
//	      menu choice (1-3) to load before starting
func main() {
	// Parse command line flags
	flags := parseFlags()

	// Load configuration
	appConfig, err := config.Load(flags.ConfigPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := appConfig.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize structured logger. The menu owns stdout, so logs go to stderr.
	logger, err := logging.New(appConfig.Logging, os.Stderr)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	// Create a context that will be canceled on shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize components
	timeout := time.Duration(appConfig.Source.Timeout) * time.Second
	fetcher := api.NewSeriesFetcher(api.Options{
		BaseURL:           appConfig.Source.URL,
		APIKey:            appConfig.Source.APIKey,
		Timeout:           timeout,
		RequestsPerMinute: appConfig.Source.RequestsPerMinute,
		ObservationStart:  appConfig.Source.ObservationStart,
	}, &http.Client{Timeout: timeout}, logger)

	st := store.New()
	sel := selector.New(fetcher, st, logger)
	engine := query.NewEngine(st)

	if flags.Series != 0 {
		if _, err := sel.Select(ctx, flags.Series); err != nil {
			logger.Fatalf("Failed to load series: %v", err)
		}
	}

	if !flags.Serve {
		if err := cli.New(os.Stdin, os.Stdout, sel, engine, logger).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Fatalf("Menu error: %v", err)
		}
		return
	}

	if err := serve(ctx, appConfig, sel, engine, st, logger); err != nil {
		logger.Fatalf("Service error: %v", err)
	}
}

type Flags struct {
	ConfigPath string
	Serve      bool
	Series     int
}

func parseFlags() *Flags {
	flags := &Flags{}

	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "Path to the config file")
	flag.BoolVar(&flags.Serve, "serve", false, "Run the gRPC service instead of the interactive menu")
	flag.IntVar(&flags.Series, "series", 0, "Menu choice (1-3) to load before starting")

	flag.Parse()

	return flags
}

// serve runs the gRPC service, the metrics endpoint and the refresh
// scheduler until ctx is canceled or one of them fails.
func serve(
	ctx context.Context,
	appConfig *config.Config,
	sel *selector.Selector,
	engine *query.Engine,
	st *store.Store,
	logger *logrus.Logger,
) error {
	// Create and setup gRPC server
	serverConfig := server.ServerConfig{
		CacheSize:      appConfig.Server.CacheSize,
		RateLimit:      appConfig.Server.RateLimit,
		RateLimitBurst: appConfig.Server.RateLimitBurst,
	}

	srv, err := server.SetupServer(
		server.NewSeriesService(sel, engine),
		st.Version,
		serverConfig,
		logger,
		prometheus.DefaultRegisterer,
	)
	if err != nil {
		return fmt.Errorf("failed to setup server: %w", err)
	}
	health := server.RegisterHealth(srv, func() bool {
		_, err := st.Current()
		return err == nil
	})

	// Start listening
	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", appConfig.Server.Host, appConfig.Server.Port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	// Start background services
	errChan := make(chan error, 2)

	metricsServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", appConfig.Server.Host, appConfig.Server.MetricsPort),
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("metrics server error: %w", err)
		}
	}()

	if appConfig.Refresh.Cron != "" {
		refresher := scheduler.NewScheduler(ctx, sel, appConfig.Refresh.Cron, logger)
		if err := refresher.Start(); err != nil {
			return fmt.Errorf("scheduler error: %w", err)
		}
		defer refresher.Stop()
	}

	// Handle shutdown gracefully
	go handleShutdown(ctx, srv, metricsServer, health, logger)

	logger.WithFields(logrus.Fields{
		"port":         appConfig.Server.Port,
		"metrics_port": appConfig.Server.MetricsPort,
	}).Info("Starting gRPC server")

	go func() {
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("server error: %w", err)
			return
		}
		errChan <- nil
	}()

	// Wait for the server to stop or a background service to fail
	return <-errChan
}

// Handle graceful shutdown
func handleShutdown(ctx context.Context, srv *grpc.Server, metricsServer *http.Server, health *server.HealthChecker, logger logrus.FieldLogger) {
	<-ctx.Done()
	logger.Info("Shutdown requested")

	health.Shutdown()

	// Perform graceful shutdown
	logger.Info("Gracefully stopping server...")
	srv.GracefulStop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("Failed to stop metrics server")
	}
	logger.Info("Server stopped")
}
