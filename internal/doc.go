// Package ppistats analyzes Producer Price Index series published by FRED.
//
// # Architecture
//
// The service is structured into several key packages:
//   - api: HTTP client for the FRED observations endpoint
//   - store: the single in-memory series and its normalization
//   - query: average, extremes, value filter and latest entries
//   - selector: maps menu choices to series and loads them
//   - cli: the interactive numbered menu
//   - grpc: gRPC service, middleware and health checks
//   - scheduler: periodic refresh of the selected series
//   - config and logging: viper configuration and logrus setup
//
// Key Features
//
//   - One series at a time:
//     Selecting a series replaces the previous one atomically. A failed
//     fetch leaves the loaded series untouched.
//
//   - Missing values:
//     Observations the provider reports as "." are kept with a missing
//     value and skipped by every computation. Unparseable values are
//     dropped and counted in the load report.
//
//   - Performance:
//     Query responses are cached per loaded series and the cache
//     is invalidated whenever a new series is loaded.
//
// Example Usage
//
//	client := seriesrpc.NewClient(conn)
//	_, err := client.SelectSeries(ctx, &seriesrpc.SelectSeriesRequest{Choice: 3})
//	resp, err := client.Average(ctx, &seriesrpc.AverageRequest{
//	    Start: "2020-01-01",
//	    End:   "2020-12-31",
//	})
//
// For more information about specific packages, see their respective
// documentation.
package ppistats
