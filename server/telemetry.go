package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/wippyai/temscript/server"

type requestIDKey struct{}

// RequestID returns the id assigned to the request being served.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// statusRecorder captures the status code and body size for the span.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

type instrumentation struct {
	cfg        Config
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
	requests   metric.Int64Counter
	duration   metric.Float64Histogram
}

func newInstrumentation(cfg Config) *instrumentation {
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = otel.GetTracerProvider()
	}
	if cfg.MeterProvider == nil {
		cfg.MeterProvider = otel.GetMeterProvider()
	}
	if cfg.Propagator == nil {
		cfg.Propagator = otel.GetTextMapPropagator()
	}

	in := &instrumentation{
		cfg:        cfg,
		tracer:     cfg.TracerProvider.Tracer(instrumentationName),
		propagator: cfg.Propagator,
	}
	if cfg.Metrics {
		meter := cfg.MeterProvider.Meter(instrumentationName)
		in.requests, _ = meter.Int64Counter("http.server.requests",
			metric.WithUnit("{request}"),
			metric.WithDescription("Number of microscope requests"),
		)
		in.duration, _ = meter.Float64Histogram("http.server.duration",
			metric.WithUnit("s"),
			metric.WithDescription("Duration of microscope requests"),
		)
	}
	return in
}

// wrap assigns a request id, starts a server span and records the request
// metrics once the handler returns.
func (in *instrumentation) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)

		ctx := in.propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx = context.WithValue(ctx, requestIDKey{}, id)

		var span trace.Span
		if in.cfg.Tracing {
			ctx, span = in.tracer.Start(ctx, r.Method+" "+r.URL.Path,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.request.method", r.Method),
					attribute.String("url.path", r.URL.Path),
					attribute.String("temscript.request_id", id),
					attribute.String("user_agent.original", r.UserAgent()),
				),
			)
		}

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r.WithContext(ctx))
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		elapsed := time.Since(start)

		status := "ok"
		if rec.status >= http.StatusBadRequest {
			status = "error"
		}

		if in.cfg.Metrics {
			attrs := metric.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("temscript.endpoint", endpointOf(r.URL.Path)),
				attribute.String("status", status),
			)
			if in.requests != nil {
				in.requests.Add(ctx, 1, attrs)
			}
			if in.duration != nil {
				in.duration.Record(ctx, elapsed.Seconds(), attrs)
			}
		}

		if span != nil {
			span.SetAttributes(
				attribute.Int("http.response.status_code", rec.status),
				attribute.Int("http.response.body.size", rec.bytes),
			)
			if status == "error" {
				span.SetStatus(codes.Error, http.StatusText(rec.status))
			} else {
				span.SetStatus(codes.Ok, "")
			}
			span.End()
		}

		Logger().Debug("request",
			zap.String("id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", elapsed),
		)
	})
}

// endpointOf returns the first path segment after the API version, so
// per device endpoints share one metric series.
func endpointOf(path string) string {
	rest, ok := strings.CutPrefix(path, "/v1/")
	if !ok {
		return ""
	}
	ep, _, _ := strings.Cut(rest, "/")
	return ep
}
