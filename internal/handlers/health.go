package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Health handles GET /health. A failing database turns the response into 503.
func Health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, code, dbState := "ok", http.StatusOK, "up"
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				status, code, dbState = "degraded", http.StatusServiceUnavailable, "down"
			}
		}
		writeJSON(w, code, map[string]string{
			"status":   status,
			"database": dbState,
			"time":     time.Now().UTC().Format(time.RFC3339),
		})
	}
}
