package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/store"
	"github.com/aussiebroadwan/pomodoro/pkg/httpx"
	"github.com/aussiebroadwan/pomodoro/pkg/pomodorosdk"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe that pings the database.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	pomodorosdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	pomodorosdk.HealthResponse	"database unreachable"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &pomodorosdk.HealthChecks{Database: "ok"}
		status, code := "ok", http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, pomodorosdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
