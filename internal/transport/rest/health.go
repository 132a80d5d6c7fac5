package rest

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/procureops/procurement-portal/internal"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

type HealthResponse struct {
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus `json:"status"`
	Message    string       `json:"message,omitempty"`
	CheckedAt  time.Time    `json:"checked_at"`
	DurationMs int64        `json:"duration_ms"`
}

type HealthHandler struct {
	db         *sql.DB
	lettersDir string
}

func NewHealthHandler(db *sql.DB, lettersDir string) *HealthHandler {
	return &HealthHandler{db: db, lettersDir: lettersDir}
}

// pingHandler just says the service is up.
func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "OK"}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// healthCheckHandler checks the database connection and the formation-letter
// storage directory.
func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := internal.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	components := map[string]CheckEntry{
		"postgres":       h.checkDatabase(ctx),
		"letter_storage": h.checkLetterStorage(),
	}

	overall := HealthHealthy
	for _, entry := range components {
		if entry.Status == HealthUnhealthy {
			overall = HealthUnhealthy
		}
	}

	resp := HealthResponse{
		Status:     overall,
		CheckedAt:  time.Now(),
		Components: components,
	}

	statusCode := http.StatusOK
	if overall == HealthUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) CheckEntry {
	start := time.Now()
	err := h.db.PingContext(ctx)

	entry := CheckEntry{
		Status:     HealthHealthy,
		CheckedAt:  time.Now(),
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		entry.Status = HealthUnhealthy
		entry.Message = err.Error()
	}
	return entry
}

func (h *HealthHandler) checkLetterStorage() CheckEntry {
	start := time.Now()
	entry := CheckEntry{
		Status:    HealthHealthy,
		CheckedAt: time.Now(),
	}

	info, err := os.Stat(h.lettersDir)
	switch {
	case err != nil:
		entry.Status = HealthUnhealthy
		entry.Message = err.Error()
	case !info.IsDir():
		entry.Status = HealthUnhealthy
		entry.Message = "letter storage path is not a directory"
	}
	entry.DurationMs = time.Since(start).Milliseconds()
	return entry
}
