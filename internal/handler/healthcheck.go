package handler

import (
	"context"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/metinatakli/study-room-reservation-system/api"
	"github.com/metinatakli/study-room-reservation-system/internal/config"
	"github.com/metinatakli/study-room-reservation-system/internal/jsonutil"
	"github.com/metinatakli/study-room-reservation-system/internal/vcs"
)

const (
	StatusUp       = "UP"
	StatusDown     = "DOWN"
	StatusDegraded = "DEGRADED"

	pingTimeout = 2 * time.Second
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

type HealthcheckHandler struct {
	cfg          config.Config
	logger       *slog.Logger
	dependencies map[string]Pinger
}

func NewHealthcheckHandler(cfg config.Config, logger *slog.Logger, dependencies map[string]Pinger) *HealthcheckHandler {
	return &HealthcheckHandler{
		cfg:          cfg,
		logger:       logger,
		dependencies: dependencies,
	}
}

func (h *HealthcheckHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := StatusUp
	httpStatus := http.StatusOK

	var dependencies map[string]string
	if len(h.dependencies) > 0 {
		dependencies = make(map[string]string, len(h.dependencies))
	}

	for _, name := range slices.Sorted(maps.Keys(h.dependencies)) {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		err := h.dependencies[name].Ping(ctx)
		cancel()

		if err != nil {
			h.logger.Warn("dependency is unreachable", "dependency", name, "error", err)

			dependencies[name] = StatusDown
			status = StatusDegraded
			httpStatus = http.StatusServiceUnavailable
			continue
		}

		dependencies[name] = StatusUp
	}

	resp := api.HealthcheckResponse{
		Status: status,
		SystemInfo: api.SystemInfo{
			Version:     vcs.Version(),
			Environment: h.cfg.Env,
		},
		Dependencies: dependencies,
	}

	err := jsonutil.WriteJSON(w, httpStatus, resp, nil)
	if err != nil {
		h.logger.Error("failed to write healthcheck response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}
