package middleware

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/nanohtml/pkg/html"
	"github.com/vango-dev/nanohtml/pkg/nano"
)

// Default tracer name for nanohtml spans.
const defaultTracerName = "nanohtml"

// SpanName is the name of the span created for each encode.
const SpanName = "nanohtml.encode"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "nanohtml").
	TracerName string

	// TracerProvider supplies the tracer. Default: the global provider.
	TracerProvider trace.TracerProvider

	// Filter determines which encodes to trace.
	// Return true to trace, false to skip. If nil, all encodes are traced.
	Filter func(ctx context.Context, data any) bool

	// AttributeExtractor adds custom attributes to each span.
	AttributeExtractor func(ctx context.Context, data any) []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the provider the tracer is taken from.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithFilter sets a filter function.
func WithFilter(filter func(ctx context.Context, data any) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(ctx context.Context, data any) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// OpenTelemetry creates middleware that traces every encode.
//
// Each span carries the layout (indent and line separator) and the default
// tag of the configuration. On success the size of the output is recorded;
// on failure the error is recorded and the span status set to Error. The
// span is stored in the context handed to the next encoder.
//
// The tracer comes from the global OpenTelemetry tracer provider unless
// WithTracerProvider is given. Configure it in main():
//
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) html.Middleware {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	tracer := tp.Tracer(config.TracerName)

	return func(next html.Encoder) html.Encoder {
		return html.EncoderFunc(func(ctx context.Context, data any, opts nano.Options) (string, error) {
			if config.Filter != nil && !config.Filter(ctx, data) {
				return next.Encode(ctx, data, opts)
			}

			attrs := []attribute.KeyValue{
				attribute.String("nanohtml.indent", strconv.Quote(opts.Indent)),
				attribute.String("nanohtml.eol", strconv.Quote(opts.NewLine)),
			}
			if opts.Tags != nil {
				attrs = append(attrs, attribute.String("nanohtml.default_tag", opts.Tags.DefaultTag()))
			}
			if config.AttributeExtractor != nil {
				attrs = append(attrs, config.AttributeExtractor(ctx, data)...)
			}

			spanCtx, span := tracer.Start(ctx, SpanName,
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(attrs...),
			)
			defer span.End()

			out, err := next.Encode(spanCtx, data, opts)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return out, err
			}

			span.SetAttributes(attribute.Int("nanohtml.output_bytes", len(out)))
			span.SetStatus(codes.Ok, "")
			return out, nil
		})
	}
}
