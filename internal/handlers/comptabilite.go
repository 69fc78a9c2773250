package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/acfc/acfc/internal/httpx"
	"github.com/acfc/acfc/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ComptaHandler porte la consultation comptable : plan comptable et
// opérations ventilées par année.
type ComptaHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewComptaHandler(db *gorm.DB, log *zap.Logger) *ComptaHandler {
	return &ComptaHandler{DB: db, Log: log}
}

// Plan : GET /comptabilite/plan — comptes du PCG, filtrables par classe.
func (h *ComptaHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodGet) {
		return
	}
	q := h.DB.Model(&models.PCG{})
	if c := r.URL.Query().Get("classe"); c != "" {
		if n, err := strconv.Atoi(c); err == nil {
			q = q.Where("classe = ?", n)
		}
	}
	var comptes []models.PCG
	if err := q.Order("compte").Find(&comptes).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": comptes, "count": len(comptes)})
}

// Operations : GET /comptabilite/operations?annee= — opérations actives de
// l'année comptable, avec leurs ventilations. Par défaut l'année courante.
func (h *ComptaHandler) Operations(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodGet) {
		return
	}
	annee := time.Now().Year()
	if v := r.URL.Query().Get("annee"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1900 || n > 2200 {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_year", nil)
			return
		}
		annee = n
	}
	var ops []models.Operation
	err := h.DB.Preload("Ventilations").Preload("Ventilations.Compte").Preload("Documents").
		Where("annee_comptable = ? AND is_inactive = ?", annee, false).
		Order("date_operation").Find(&ops).Error
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}

	// Contrôle d'équilibre : somme des débits = somme des crédits.
	var totalDebit, totalCredit float64
	for i := range ops {
		for _, v := range ops[i].Ventilations {
			if v.MontantDebit != nil {
				totalDebit += *v.MontantDebit
			}
			if v.MontantCredit != nil {
				totalCredit += *v.MontantCredit
			}
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"annee":        annee,
		"items":        ops,
		"count":        len(ops),
		"total_debit":  totalDebit,
		"total_credit": totalCredit,
	})
}
