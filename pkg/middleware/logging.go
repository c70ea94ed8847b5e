package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/vango-dev/nanohtml/pkg/html"
	"github.com/vango-dev/nanohtml/pkg/nano"
)

// Logging creates middleware that logs each encode. Successful encodes are
// logged at debug level, failures at error level. A nil logger uses
// slog.Default().
func Logging(logger *slog.Logger) html.Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "encoder")

	return func(next html.Encoder) html.Encoder {
		return html.EncoderFunc(func(ctx context.Context, data any, opts nano.Options) (string, error) {
			start := time.Now()
			out, err := next.Encode(ctx, data, opts)
			if err != nil {
				logger.ErrorContext(ctx, "encode failed",
					"error", err,
					"duration", time.Since(start),
				)
				return out, err
			}
			logger.DebugContext(ctx, "encoded",
				"bytes", len(out),
				"duration", time.Since(start),
			)
			return out, nil
		})
	}
}
