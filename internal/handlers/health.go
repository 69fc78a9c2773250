package handlers

import (
	"net/http"

	"github.com/acfc/acfc/internal/httpx"
	"gorm.io/gorm"
)

// HealthHandler expose les sondes de vivacité et de disponibilité.
type HealthHandler struct {
	DB *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler { return &HealthHandler{DB: db} }

// Healthz : GET /healthz — vivacité du processus.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz : GET /readyz — disponibilité, base comprise.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.Exec("SELECT 1").Error; err != nil {
		httpx.JSONError(w, http.StatusServiceUnavailable, "db_unavailable", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
