// Package http serves the todo JSON API.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	applog "debloom/internal/log"
	"debloom/internal/middleware/ratelimit"
	"debloom/internal/middleware/security"
	"debloom/internal/middleware/trace"
	"debloom/internal/services"
)

const maxBodyBytes = 1 << 20

// Options configures NewServer. Zero values fall back to defaults.
type Options struct {
	Addr               string
	RequestTimeout     time.Duration
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	TrustedProxies     []string
	Logger             *applog.Logger
}

type Server struct {
	http.Server
	todos    *services.TodoService
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware
	logger   *applog.StructuredLogger
	started  time.Time
}

func NewServer(todos *services.TodoService, opts Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig())
	}
	httpLogger := opts.Logger.WithComponent(applog.ComponentHTTP)

	detector := security.NewDetector(opts.Logger.Logger)
	for _, cidr := range opts.TrustedProxies {
		if err := detector.AddTrustedProxy(cidr); err != nil {
			httpLogger.Warn("Ignoring trusted proxy", applog.FieldError, err)
		}
	}
	s := &Server{
		todos:    todos,
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector: detector,
		tracer:   trace.NewMiddleware(httpLogger, detector.ExtractClientIP),
		logger:   applog.NewStructuredLogger(httpLogger),
		started:  time.Now(),
	}

	mux := http.NewServeMux()
	writes := s.limiter.Middleware(detector.ExtractClientIP, s.handleRateLimited)

	mux.HandleFunc("GET /{$}", handleIndex)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/todos", s.handleListTodos)
	mux.HandleFunc("GET /api/todos/monthly", s.handleMonthlyTodos)
	mux.Handle("POST /api/todos", writes(http.HandlerFunc(s.handleCreateTodo)))
	mux.Handle("PUT /api/todos/{id}", writes(http.HandlerFunc(s.handleUpdateTodo)))
	mux.Handle("POST /api/todos/groups", writes(http.HandlerFunc(s.handleCreateGroup)))

	// Outermost first: tracing assigns the request id the context logger
	// picks up, CORS answers preflights before the mux can reject OPTIONS.
	var handler http.Handler = mux
	handler = withTimeout(opts.RequestTimeout)(handler)
	handler = detector.Middleware(handler)
	handler = security.CORSMiddleware(opts.CORSAllowedOrigins)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = applog.RequestIDMiddleware(func(r *http.Request) string {
		return trace.GetRequestID(r.Context())
	})(handler)
	handler = applog.Middleware(opts.Logger)(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       opts.RequestTimeout,
		WriteTimeout:      opts.RequestTimeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// withTimeout bounds the context every handler and gateway call runs under.
func withTimeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Shutdown stops the rate limiter and drains connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.Server.Shutdown(ctx)
}

func handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("debloom server"))
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	httpStatus := http.StatusOK
	checks := map[string]any{}

	if err := s.todos.Ping(r.Context()); err != nil {
		s.logger.LogError(r.Context(), "Readiness check failed", err, applog.OpRead, nil)
		checks["gateway"] = "unavailable"
		status = "unavailable"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["gateway"] = "ok"
	}

	checks["rate_limiter"] = map[string]any{
		"active_clients": s.limiter.ActiveClients(),
		"status":         "ok",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics writes counters from the middlewares in Prometheus text
// format.
func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	traceMetrics := s.tracer.GetMetrics()
	limitMetrics := s.limiter.GetMetrics()
	securityMetrics := s.detector.GetMetrics()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	writeMetric(w, "http_requests_total", "counter", "Total number of HTTP requests", traceMetrics.TotalRequests)
	writeMetric(w, "http_server_errors_total", "counter", "Responses with a 5xx status", traceMetrics.ServerErrors)
	writeMetric(w, "http_last_response_microseconds", "gauge", "Duration of the most recent request", traceMetrics.LastResponseTimeMic)
	writeMetric(w, "rate_limit_rejected_total", "counter", "Writes rejected by the rate limiter", limitMetrics.Rejected)
	writeMetric(w, "active_rate_limit_clients", "gauge", "Currently tracked rate limit clients", limitMetrics.ClientCount)
	writeMetric(w, "suspicious_requests_total", "counter", "Total suspicious requests detected", securityMetrics.SuspiciousRequests)
	writeMetric(w, "invalid_client_ip_total", "counter", "Requests with an unparseable client address", securityMetrics.InvalidIPAttempts)
	writeMetric(w, "uptime_seconds", "gauge", "Application uptime in seconds", int64(time.Since(s.started).Seconds()))
}

func writeMetric(w http.ResponseWriter, name, kind, help string, value int64) {
	fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n%s %d\n", name, help, name, kind, name, value)
}
