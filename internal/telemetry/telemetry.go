// Package telemetry installs the global OpenTelemetry providers used by the
// HTTP facade. Spans and metrics are written to a writer, normally stderr.
package telemetry

import (
	"context"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/multierr"

	"github.com/wippyai/temscript/internal/config"
	"github.com/wippyai/temscript/microscope"
)

// MetricInterval is the export period of the metric reader.
var MetricInterval = 30 * time.Second

// Shutdown flushes and stops the installed providers.
type Shutdown func(context.Context) error

// Setup installs tracer and meter providers for the enabled signals and the
// W3C trace context propagator. With nothing enabled it installs nothing
// and returns a no-op Shutdown.
func Setup(cfg config.Telemetry, w io.Writer) (Shutdown, error) {
	var shutdowns []Shutdown
	shutdown := func(ctx context.Context) error {
		var err error
		for _, fn := range shutdowns {
			err = multierr.Append(err, fn(ctx))
		}
		return err
	}
	if !cfg.Tracing && !cfg.Metrics {
		return shutdown, nil
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", "temscript"),
		attribute.String("service.version", microscope.Version),
	)

	if cfg.Tracing {
		exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, multierr.Append(err, shutdown(context.Background()))
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exp),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(tp)
		shutdowns = append(shutdowns, tp.Shutdown)
	}

	if cfg.Metrics {
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
		if err != nil {
			return nil, multierr.Append(err, shutdown(context.Background()))
		}
		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(MetricInterval))),
			sdkmetric.WithResource(res),
		)
		otel.SetMeterProvider(mp)
		shutdowns = append(shutdowns, mp.Shutdown)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return shutdown, nil
}
