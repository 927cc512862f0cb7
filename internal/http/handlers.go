package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"gofinances/internal/apperrors"
	"gofinances/internal/chart"
	"gofinances/internal/log"
	"gofinances/internal/middleware/trace"
	"gofinances/internal/services"
)

// handleHealth performs a basic liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Payload(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.appMetrics.uptime).Round(time.Second).String(),
	}).Write(w)
}

// handleReady checks that the record store answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.ready == nil {
		checks["store"] = "not_checked"
	} else if err := s.ready.Ping(ctx); err != nil {
		checks["store"] = fmt.Sprintf("failed: %v", err)
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["store"] = "ok"
	}

	checks["cache"] = map[string]any{
		"chart_entries": s.chartCache.Size(),
		"state_entries": s.stateCache.Size(),
	}
	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.ActiveClients(),
	}

	NewJSONResponse().Status(httpStatus).Payload(map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

// handleMetrics writes counters in the Prometheus text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	securityMetrics := s.detector.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	traceMetrics := s.traceMiddleware.GetMetrics()

	metrics := []struct {
		name, help, kind string
		value            any
	}{
		{"http_requests_total", "Total number of HTTP requests", "counter", traceMetrics.TotalRequests},
		{"http_request_avg_duration_microseconds", "Average request duration", "gauge", traceMetrics.AverageResponseTime},
		{"transactions_registered_total", "Transactions registered since start", "counter", atomic.LoadInt64(&s.appMetrics.totalTransactions)},
		{"chart_cache_hits_total", "Chart cache hits", "counter", atomic.LoadInt64(&s.appMetrics.cacheHits)},
		{"chart_cache_misses_total", "Chart cache misses", "counter", atomic.LoadInt64(&s.appMetrics.cacheMisses)},
		{"rate_limit_hits_total", "Requests rejected by the rate limiter", "counter", rateLimitMetrics.TotalHits},
		{"active_rate_limit_clients", "Currently tracked rate limit clients", "gauge", rateLimitMetrics.ClientCount},
		{"suspicious_requests_total", "Suspicious requests detected", "counter", securityMetrics.SuspiciousRequests},
		{"uptime_seconds", "Application uptime in seconds", "gauge", int64(time.Since(s.appMetrics.uptime).Seconds())},
	}

	w.WriteHeader(http.StatusOK)
	for _, m := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n%s %v\n\n", m.name, m.help, m.name, m.kind, m.name, m.value)
	}
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats := s.taxonomy.Categories()
	out := make([]categoryDTO, 0, len(cats))
	for _, c := range cats {
		out = append(out, toCategoryDTO(c))
	}
	NewJSONResponse().Payload(out).Write(w)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.dashboard.Load(r.Context())
	if err != nil {
		s.structured.LogError(r.Context(), "Failed to load dashboard", err, log.OpRead, nil)
		ErrorResponse(apperrors.Wrap(apperrors.ErrUnavailable, err)).Write(w)
		return
	}
	NewJSONResponse().Payload(toDashboardDTO(d)).Write(w)
}

// handleResume returns the category breakdown of a month. The optional nav
// parameter moves one month forward or back from the requested one.
func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	p, err := ParsePeriod(query, s.resume.CurrentPeriod())
	if err != nil {
		ErrorResponse(err).Write(w)
		return
	}

	var res services.Resume
	switch nav := strings.TrimSpace(query.Get("nav")); nav {
	case "":
		res, err = s.resume.Load(r.Context(), p)
	case "next":
		res, err = s.resume.NextMonth(r.Context(), p)
	case "prev":
		res, err = s.resume.PrevMonth(r.Context(), p)
	default:
		ErrorResponse(apperrors.WithMessage(apperrors.ErrInvalidInput, "Navegação inválida")).Write(w)
		return
	}
	if err != nil {
		s.writeServiceError(w, r, "Failed to load resume", err)
		return
	}
	NewJSONResponse().Payload(toResumeDTO(res)).Write(w)
}

// handleResumeChart serves the month breakdown as a pie chart. A month
// without expenses answers 204.
func (s *Server) handleResumeChart(w http.ResponseWriter, r *http.Request) {
	p, err := ParsePeriod(r.URL.Query(), s.resume.CurrentPeriod())
	if err != nil {
		ErrorResponse(err).Write(w)
		return
	}

	key := periodKey(p)
	png, found := s.chartCache.Get(key)
	if found {
		atomic.AddInt64(&s.appMetrics.cacheHits, 1)
	} else {
		atomic.AddInt64(&s.appMetrics.cacheMisses, 1)
		gen := s.chartGeneration()
		res, err := s.resume.Load(r.Context(), p)
		if err != nil {
			s.writeServiceError(w, r, "Failed to load resume for chart", err)
			return
		}
		var buf bytes.Buffer
		err = chart.RenderPNG(&buf, res.Categories, chart.Options{ShowPercent: true})
		if errors.Is(err, chart.ErrNoData) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if err != nil {
			s.structured.LogError(r.Context(), "Failed to render chart", err, log.OpRender, nil)
			ErrorResponse(err).Write(w)
			return
		}
		png = buf.Bytes()
		if !s.storeChart(key, png, gen) {
			s.logger.DebugContext(r.Context(), "Chart outdated by a registration, not cached", "period", key)
		}
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=60")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		s.logger.WarnContext(r.Context(), "Invalid request body",
			log.FieldError, err,
			"json", parser.IsJSON())
		ErrorResponse(apperrors.Wrap(apperrors.ErrInvalidInput, err)).Write(w)
		return
	}

	record, err := s.transactions.Register(r.Context(), parser.RegisterInput())
	if err != nil {
		s.writeServiceError(w, r, "Failed to register transaction", err)
		return
	}

	atomic.AddInt64(&s.appMetrics.totalTransactions, 1)
	s.invalidateCharts()

	NewJSONResponse().
		Status(http.StatusCreated).
		Payload(toTransactionDTO(record, s.taxonomy)).
		Write(w)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(apperrors.ErrNotFound).Write(w)
}

func (s *Server) handleTransactionsMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	MethodNotAllowedError(http.MethodPost).Write(w)
}

// writeServiceError logs server-side failures and writes err. Client errors
// are only written.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	appErr := apperrors.From(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		fields := log.NewFields().WithRequestID(trace.GetRequestID(r.Context()))
		s.structured.LogError(r.Context(), msg, err, "", fields)
	}
	ErrorResponse(appErr).Write(w)
}
