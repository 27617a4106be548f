package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"influencia-backend/utils"
)

var startTime = time.Now()

// Pinger vérifie la disponibilité de la base (database.Store)
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler gère les endpoints de santé
type HealthHandler struct {
	environment string
	db          Pinger
}

// NewHealthHandler crée un nouveau HealthHandler
func NewHealthHandler(environment string, db Pinger) *HealthHandler {
	return &HealthHandler{environment: environment, db: db}
}

// Health retourne l'état de santé du serveur avec métriques
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbStatus := "ok"
	if h.db == nil || h.db.Ping(r.Context()) != nil {
		dbStatus = "error"
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"message":    "Server is running",
		"env":        h.environment,
		"database":   "MongoDB",
		"db_status":  dbStatus,
		"uptime":     time.Since(startTime).String(),
		"go_version": runtime.Version(),
	})
}
