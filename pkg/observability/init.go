package observability

import (
	"context"
	"io"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.uber.org/zap"

	"github.com/ajitpratap0/nebula-atom/pkg/config"
	"github.com/ajitpratap0/nebula-atom/pkg/errors"
	"github.com/ajitpratap0/nebula-atom/pkg/logger"
)

// ShutdownFunc flushes and stops whatever InitTracing started
type ShutdownFunc func(ctx context.Context) error

// InitTracing installs a global tracer provider that exports spans as JSON
// to w (stdout when nil). When tracing is disabled the global provider is
// left untouched and spans are no-ops.
func InitTracing(cfg config.TracingConfig, w io.Writer) (ShutdownFunc, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}
	if w == nil {
		w = os.Stdout
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to create stdout exporter")
	}

	return InitTracingWithExporter(cfg, exporter)
}

// InitTracingWithExporter installs a global tracer provider that batches
// spans into exporter.
func InitTracingWithExporter(cfg config.TracingConfig, exporter sdktrace.SpanExporter) (ShutdownFunc, error) {
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(Version),
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to create resource")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(samplerFor(cfg.SampleRate)),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(tp)

	logger.Debug("tracing initialized",
		zap.String("service", cfg.ServiceName),
		zap.Float64("sample_rate", cfg.SampleRate))

	return tp.Shutdown, nil
}

func samplerFor(rate float64) sdktrace.Sampler {
	switch {
	case rate <= 0:
		return sdktrace.NeverSample()
	case rate >= 1.0:
		return sdktrace.AlwaysSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}

// Shutdown runs shutdown and flushes the global logger
func Shutdown(ctx context.Context, shutdown ShutdownFunc) error {
	var errs []error

	if shutdown != nil {
		if err := shutdown(ctx); err != nil {
			errs = append(errs, errors.Wrap(err, errors.ErrorTypeInternal, "failed to shutdown tracer"))
		}
	}

	if err := logger.Sync(); err != nil && !isConsoleSyncError(err) {
		errs = append(errs, errors.Wrap(err, errors.ErrorTypeInternal, "failed to sync logger"))
	}

	if len(errs) > 0 {
		return errors.New(errors.ErrorTypeInternal, "shutdown failed").WithDetail("errors", errs)
	}
	return nil
}

// isConsoleSyncError reports sync errors returned for stdout and stderr,
// see https://github.com/uber-go/zap/issues/328
func isConsoleSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "bad file descriptor") ||
		strings.Contains(msg, "invalid argument") ||
		strings.Contains(msg, "inappropriate ioctl") ||
		strings.Contains(msg, "/dev/stdout") ||
		strings.Contains(msg, "/dev/stderr")
}
