package httpapi

import (
	"database/sql"
	"log/slog"
	"net/http"

	"gaugeboard/internal/utils"
)

type healthchecker interface {
	handleHealthz(w http.ResponseWriter, r *http.Request)
	handleDiagz(w http.ResponseWriter, r *http.Request)
}

type healthcheckerImpl struct {
	db *sql.DB
}

func NewHealthchecker(db *sql.DB) healthchecker {
	return &healthcheckerImpl{db: db}
}

// handleHealthz is pure liveness: a fixed acknowledgment, no dependencies.
func (h *healthcheckerImpl) handleHealthz(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleDiagz checks the record store and reports the total photo count.
func (h *healthcheckerImpl) handleDiagz(w http.ResponseWriter, r *http.Request) {
	var total int
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM photos`).Scan(&total); err != nil {
		slog.Error("failed to count photos", "error", err)
		utils.WriteJSON(w, http.StatusInternalServerError, map[string]any{
			"db_ok": false,
			"error": err.Error(),
		})
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"db_ok":        true,
		"total_photos": total,
	})
}

func registerHealthcheck(mux *http.ServeMux, db *sql.DB) {
	healthchecker := NewHealthchecker(db)
	mux.HandleFunc("GET /healthz", healthchecker.handleHealthz)
	mux.HandleFunc("GET /diagz", healthchecker.handleDiagz)
}
