// Package middleware provides encoder middleware for nanohtml.
//
// Each middleware wraps an html.Encoder and is installed on a transformer
// with html.WithMiddleware:
//
//	tr := html.NewTransformer(
//	    html.WithMiddleware(
//	        middleware.Logging(logger),
//	        middleware.OpenTelemetry(),
//	        middleware.Prometheus(),
//	    ),
//	)
//
// # OpenTelemetry
//
// OpenTelemetry starts a "nanohtml.encode" span per call, tagged with the
// layout and default tag, and records errors and the output size:
//
//	middleware.OpenTelemetry(
//	    middleware.WithTracerName("my-site"),
//	    middleware.WithFilter(func(ctx context.Context, data any) bool {
//	        return data != nil
//	    }),
//	)
//
// # Prometheus Metrics
//
// Prometheus collects:
//   - nanohtml_encodes_total: encodes by status
//   - nanohtml_encode_duration_seconds: encode duration histogram
//   - nanohtml_encode_errors_total: failures by error type
//   - nanohtml_output_bytes: output size histogram
//
// Expose them with promhttp:
//
//	http.Handle("/metrics", promhttp.Handler())
//
// # Logging
//
// Logging writes one slog record per encode.
package middleware
