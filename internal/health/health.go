// Package health serves the optional HTTP probe surface. The MCP transport
// owns stdin and stdout, so liveness checks get their own listener.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/enerdata/tradegate/internal/database"
)

// probeTimeout bounds the whole per-request backend sweep.
const probeTimeout = 5 * time.Second

// NewHandler creates the HTTP handler for health checks. /health reports
// one entry per catalog backend; when no backend is reachable the endpoint
// answers 503. Probe failures are logged by the manager itself.
func NewHandler(manager *database.Manager) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		defer cancel()

		health := struct {
			Status   string         `json:"status"`
			Backends map[string]any `json:"backends"`
		}{
			Status:   "healthy",
			Backends: make(map[string]any),
		}

		connected := 0
		for _, name := range manager.Catalog().Names() {
			sess, err := manager.Acquire(ctx, name)
			if err != nil {
				health.Status = "degraded"
				health.Backends[name] = map[string]string{
					"status": "disconnected",
					"error":  err.Error(),
				}
				continue
			}
			manager.Release(sess)
			health.Backends[name] = "connected"
			connected++
		}
		if connected == 0 {
			health.Status = "unhealthy"
		}

		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	mux.HandleFunc("/debug/backends", func(w http.ResponseWriter, r *http.Request) {
		backends := make(map[string]any)
		for _, name := range manager.Catalog().Names() {
			b, ok := manager.Catalog().Get(name)
			if !ok {
				continue
			}
			backends[name] = map[string]any{
				"dbtype":   b.DBType,
				"host":     b.Host,
				"port":     b.Port,
				"database": b.Database,
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"count":    manager.Catalog().Len(),
			"backends": backends,
		})
	})

	return mux
}
