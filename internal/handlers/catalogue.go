package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/acfc/acfc/internal/auth"
	"github.com/acfc/acfc/internal/httpx"
	"github.com/acfc/acfc/internal/models"
	"github.com/acfc/acfc/internal/validation"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CatalogueHandler porte le catalogue produits : liste avec références
// calculées et création.
type CatalogueHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewCatalogueHandler(db *gorm.DB, log *zap.Logger) *CatalogueHandler {
	return &CatalogueHandler{DB: db, Log: log}
}

// List : GET /catalogue — produits triés par millésime décroissant puis type.
func (h *CatalogueHandler) List(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodGet) {
		return
	}
	q := h.DB.Model(&models.Catalogue{})
	if m := r.URL.Query().Get("millesime"); m != "" {
		q = q.Where("millesime = ?", m)
	}
	var produits []models.Catalogue
	if err := q.Order("millesime desc, type_produit, s_type_produit").Find(&produits).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	items := make([]map[string]any, 0, len(produits))
	for i := range produits {
		p := &produits[i]
		items = append(items, map[string]any{
			"id":               p.ID,
			"reference":        p.RefAuto(),
			"designation":      p.DesAuto(),
			"type_produit":     p.TypeProduit,
			"s_type_produit":   p.STypeProduit,
			"millesime":        p.Millesime,
			"prix_unitaire_ht": p.PrixUnitaireHT,
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

// Create : POST /catalogue
func (h *CatalogueHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}
	identity, _ := auth.IdentityFromContext(r.Context())

	var req struct {
		TypeProduit    string  `json:"type_produit"`
		STypeProduit   string  `json:"s_type_produit"`
		Millesime      int     `json:"millesime"`
		PrixUnitaireHT float64 `json:"prix_unitaire_ht"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("type_produit", req.TypeProduit, v)
	validation.Required("s_type_produit", req.STypeProduit, v)
	validation.PositiveInt("millesime", req.Millesime, v)
	validation.PositiveFloat("prix_unitaire_ht", req.PrixUnitaireHT, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	produit := models.Catalogue{
		TypeProduit:    req.TypeProduit,
		STypeProduit:   req.STypeProduit,
		Millesime:      req.Millesime,
		PrixUnitaireHT: req.PrixUnitaireHT,
		CreatedBy:      identity.Pseudo,
	}
	if err := h.DB.Create(&produit).Error; err != nil {
		h.Log.Error("création produit", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"id":          produit.ID,
		"reference":   produit.RefAuto(),
		"designation": produit.DesAuto(),
	})
}
