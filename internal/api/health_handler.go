package api

import (
	"context"
	"net/http"
	"time"

	"blogapi/internal/api/response"
	"blogapi/pkg/logger"
)

// HealthChecker reports the state of one dependency.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) map[string]interface{}
}

type HealthHandler struct {
	checkers []HealthChecker
	logger   logger.Logger
	timeout  time.Duration
}

type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Services  map[string]interface{} `json:"services"`
	Version   string                 `json:"version"`
}

func NewHealthHandler(logger logger.Logger, checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{
		checkers: checkers,
		logger:   logger,
		timeout:  3 * time.Second,
	}
}

func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	services := make(map[string]interface{}, len(h.checkers))
	status := "healthy"
	for _, c := range h.checkers {
		result := c.Check(ctx)
		services[c.Name()] = result
		if result["status"] != "healthy" {
			status = "degraded"
		}
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
		h.logger.WarnContext(ctx, "Health check degraded", logger.Fields{"services": services})
	}

	response.RespondWithJSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Services:  services,
		Version:   "1.0.0",
	})
}

func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now().UTC(),
	})
}

func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	issues := make([]string, 0)
	for _, c := range h.checkers {
		result := c.Check(ctx)
		if result["status"] != "healthy" {
			msg, _ := result["error"].(string)
			issues = append(issues, c.Name()+": "+msg)
		}
	}

	body := map[string]interface{}{"timestamp": time.Now().UTC()}
	if len(issues) == 0 {
		body["status"] = "ready"
		response.RespondWithJSON(w, http.StatusOK, body)
		return
	}

	body["status"] = "not_ready"
	body["issues"] = issues
	response.RespondWithJSON(w, http.StatusServiceUnavailable, body)
}

// CheckFunc adapts a ping function and optional stats into a HealthChecker.
type CheckFunc struct {
	Service string
	Ping    func(ctx context.Context) error
	Stats   func() map[string]interface{}
}

func (c CheckFunc) Name() string { return c.Service }

func (c CheckFunc) Check(ctx context.Context) map[string]interface{} {
	result := map[string]interface{}{"status": "healthy"}
	if c.Stats != nil {
		for k, v := range c.Stats() {
			result[k] = v
		}
	}
	if err := c.Ping(ctx); err != nil {
		result["status"] = "unhealthy"
		result["error"] = err.Error()
	}
	return result
}
