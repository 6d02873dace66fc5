package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const meterName = "notekeep"

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal          metric.Int64Counter
	HTTPRequestDurationSeconds metric.Float64Histogram
	RegistrationsTotal         metric.Int64Counter
	LoginsTotal                metric.Int64Counter
	CaptchasIssuedTotal        metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
	initErr    error
)

// InitProvider wires the Prometheus exporter into the global OTel meter
// provider and returns the handler serving the scrape endpoint.
func InitProvider() (http.Handler, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(mp)

	return promhttp.Handler(), nil
}

// InitAppMetrics initializes the instruments once, using the globally
// configured meter provider. Call after InitProvider.
func InitAppMetrics() error {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter(meterName)
		m := &AppMetrics{}

		m.HTTPRequestsTotal, initErr = meter.Int64Counter(
			"http_requests_total",
			metric.WithDescription("Total number of HTTP requests completed"),
			metric.WithUnit("{request}"),
		)
		if initErr != nil {
			return
		}

		m.HTTPRequestDurationSeconds, initErr = meter.Float64Histogram(
			"http_request_duration_seconds",
			metric.WithDescription("Duration of HTTP requests in seconds"),
			metric.WithUnit("s"),
		)
		if initErr != nil {
			return
		}

		m.RegistrationsTotal, initErr = meter.Int64Counter(
			"registrations_total",
			metric.WithDescription("Total number of successful registrations"),
			metric.WithUnit("{registration}"),
		)
		if initErr != nil {
			return
		}

		m.LoginsTotal, initErr = meter.Int64Counter(
			"logins_total",
			metric.WithDescription("Total number of successful logins"),
			metric.WithUnit("{login}"),
		)
		if initErr != nil {
			return
		}

		m.CaptchasIssuedTotal, initErr = meter.Int64Counter(
			"captchas_issued_total",
			metric.WithDescription("Total number of captcha challenges issued"),
			metric.WithUnit("{challenge}"),
		)
		if initErr != nil {
			return
		}

		appMetrics = m
	})
	return initErr
}

// Get returns the initialized instruments, or nil when metrics are disabled.
// Callers must tolerate nil so handler tests need no metrics setup.
func Get() *AppMetrics {
	return appMetrics
}

// Middleware records a count and duration for every request. It is a no-op
// when InitAppMetrics has not run.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := appMetrics
			if m == nil {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			attrs := metric.WithAttributes(
				attribute.String("method", r.Method),
				attribute.String("path", routePattern(r)),
				attribute.String("status", strconv.Itoa(ww.Status())),
			)
			m.HTTPRequestsTotal.Add(r.Context(), 1, attrs)
			m.HTTPRequestDurationSeconds.Record(r.Context(), time.Since(start).Seconds(), attrs)
		})
	}
}

// routePattern prefers the chi route pattern over the raw path so that
// /notes/{noteID} does not explode label cardinality.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
