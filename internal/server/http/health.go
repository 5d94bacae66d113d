package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmitrijs2005/greetingws/internal/logging"
)

// healthCounter is the slice of the greeting service the health check uses.
type healthCounter interface {
	Count(ctx context.Context) (int, error)
}

// HealthCheck reports whether the service can reach its store and read
// greetings. The store is healthy only when at least one greeting exists,
// matching the seeded baseline.
type HealthCheck struct {
	db        *sql.DB
	greetings healthCounter
	logger    logging.Logger
}

type healthResponse struct {
	Status    string `json:"status"`
	Greetings int    `json:"greetings"`
}

func NewHealthCheck(db *sql.DB, g healthCounter, l logging.Logger) *HealthCheck {
	return &HealthCheck{db: db, greetings: g, logger: l.With("module", "health")}
}

// Handler serves GET /health.
func (h *HealthCheck) Handler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.down(w, r, "store unreachable: "+err.Error())
		return
	}

	n, err := h.greetings.Count(ctx)
	if err != nil {
		h.down(w, r, "greeting count failed: "+err.Error())
		return
	}
	if n == 0 {
		h.down(w, r, "no greetings in the data store")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(healthResponse{Status: "UP", Greetings: n})
}

func (h *HealthCheck) down(w http.ResponseWriter, r *http.Request, reason string) {
	h.logger.Warn(r.Context(), "health check failed", "reason", reason)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	_ = json.NewEncoder(w).Encode(healthResponse{Status: "DOWN"})
}
