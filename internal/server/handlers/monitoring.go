package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
	"git.home.luguber.info/inful/recipefeed/internal/outcome"
	"git.home.luguber.info/inful/recipefeed/internal/server/responses"
	"git.home.luguber.info/inful/recipefeed/internal/version"
)

// NetworkService reports connectivity.
type NetworkService interface {
	Online() bool
}

// MonitoringHandlers contains health and connectivity handlers.
type MonitoringHandlers struct {
	svc          NetworkService
	startTime    time.Time
	errorAdapter *errors.HTTPErrorAdapter
}

// NewMonitoringHandlers creates a new monitoring handlers instance.
func NewMonitoringHandlers(svc NetworkService, startTime time.Time) *MonitoringHandlers {
	return &MonitoringHandlers{
		svc:          svc,
		startTime:    startTime,
		errorAdapter: errors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleHealthCheck handles the health check endpoint. Being offline does
// not make the service unhealthy; cached data is still served.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	health := &responses.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Uptime:    time.Since(h.startTime).Seconds(),
		Online:    h.svc.Online(),
	}
	h.write(w, r, health)
}

// HandleNetwork reports the current connectivity value.
func (h *MonitoringHandlers) HandleNetwork(w http.ResponseWriter, r *http.Request) {
	resp := responses.NetworkResponse{Online: h.svc.Online()}
	if !resp.Online {
		resp.Message = outcome.MsgNoInternet
	}
	h.write(w, r, resp)
}

func (h *MonitoringHandlers) write(w http.ResponseWriter, r *http.Request, v any) {
	respond(w, r, h.errorAdapter, http.StatusOK, v, "monitoring")
}
