package http

import (
	"context"
	"net/http"
	"time"

	"budgetwise/internal/log"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string]any{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"uptime":    s.now().Sub(s.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := map[string]string{}

	if s.ready == nil {
		checks["backend"] = "not_configured"
	} else if err := s.ready(ctx); err != nil {
		log.FromContext(ctx).WarnContext(ctx, "Readiness check failed",
			log.NewFields().WithComponent(log.ComponentBackend).WithError(err).ToSlice()...)
		checks["backend"] = "failed: " + err.Error()
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["backend"] = "ok"
	}

	if s.changes == nil {
		checks["change_feed"] = "disabled"
	} else {
		checks["change_feed"] = "ok"
	}

	limits := s.limiter.GetMetrics()
	traced := s.tracer.GetMetrics()
	NewJSONResponse().Status(httpStatus).Body(map[string]any{
		"status": status,
		"checks": checks,
		"metrics": map[string]int64{
			"requests_total":      traced.TotalRequests,
			"server_errors":       traced.ServerErrors,
			"rate_limited":        limits.TotalHits,
			"rate_limit_clients":  limits.ClientCount,
			"suspicious_requests": s.detector.GetMetrics().SuspiciousRequests,
		},
	}).Write(w)
}
