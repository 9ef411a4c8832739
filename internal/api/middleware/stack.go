// SPDX-License-Identifier: MIT

package middleware

import (
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// StackConfig configures the canonical HTTP ingress middleware stack.
type StackConfig struct {
	// Observability
	EnableMetrics  bool
	TracingService string // empty disables tracing
	TracerProvider trace.TracerProvider
	EnableLogging  bool

	// Per-client limit in requests per minute; zero disables it.
	RateLimitPerMinute int
}

// ApplyStack applies the canonical middleware stack to r.
func ApplyStack(r chi.Router, cfg StackConfig) {
	// 1. Recoverer (outermost safety net)
	r.Use(Recoverer)
	// 2. RequestID (correlation early)
	r.Use(RequestID)
	// 3. Metrics (track all requests)
	if cfg.EnableMetrics {
		r.Use(Metrics())
	}
	// 4. Tracing
	if cfg.TracingService != "" {
		if cfg.TracerProvider != nil {
			r.Use(OTelHTTPWithProvider(cfg.TracingService, cfg.TracerProvider))
		} else {
			r.Use(OTelHTTP(cfg.TracingService))
		}
	}
	// 5. Logging (wraps handlers, captures full latency)
	if cfg.EnableLogging {
		r.Use(AccessLog)
	}
	// 6. Rate limit (per client)
	r.Use(APIRateLimit(cfg.RateLimitPerMinute))
}

// EngineAdmission returns a global token bucket of perSecond with burst, or
// nil when perSecond is not positive.
func EngineAdmission(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}
