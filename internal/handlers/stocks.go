package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/acfc/acfc/internal/httpx"
	"github.com/acfc/acfc/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StockHandler porte l'inventaire des timbres : liste valorisée et
// ajustement des quantités.
type StockHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewStockHandler(db *gorm.DB, log *zap.Logger) *StockHandler {
	return &StockHandler{DB: db, Log: log}
}

// List : GET /stocks — lignes de stock avec codes produits et valorisation,
// plus les totaux francs/euros.
func (h *StockHandler) List(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodGet) {
		return
	}
	var stocks []models.Stock
	if err := h.DB.Order("type_code, val_valeur").Find(&stocks).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	var totalFr, totalEu float64
	items := make([]map[string]any, 0, len(stocks))
	for i := range stocks {
		s := &stocks[i]
		totalFr += s.PtFr()
		totalEu += s.PtEu()
		items = append(items, map[string]any{
			"code_produit": s.CodeProduit(),
			"type_code":    s.TypeCode,
			"type":         s.TypeValeur(),
			"val_valeur":   s.ValValeur,
			"tvp_valeur":   s.TVPValeur,
			"tvp_poids":    s.TVPPoids,
			"qte":          s.Qte,
			"pu_ht":        s.PuHT(),
			"pt_fr":        s.PtFr(),
			"pt_eu":        s.PtEu(),
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"items":    items,
		"count":    len(items),
		"total_fr": totalFr,
		"total_eu": totalEu,
	})
}

// Upsert : POST /stocks — crée la ligne (type, valeur) ou ajuste sa quantité.
func (h *StockHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		TypeCode  int     `json:"type_code"`
		ValValeur float64 `json:"val_valeur"`
		Qte       int     `json:"qte"`
		TVPValeur float64 `json:"tvp_valeur"`
		TVPPoids  string  `json:"tvp_poids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.TypeCode < models.StockFrancs || req.TypeCode > models.StockTVPMonde {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"type_code": "invalid_value"})
		return
	}
	if req.Qte < 0 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"qte": "must_be_positive"})
		return
	}

	stock := models.Stock{TypeCode: req.TypeCode, ValValeur: req.ValValeur}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Stock{}).
			Where("type_code = ? AND val_valeur = ?", req.TypeCode, req.ValValeur).
			Updates(map[string]any{"qte": req.Qte, "tvp_valeur": req.TVPValeur, "tvp_poids": req.TVPPoids})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			stock.Qte = req.Qte
			stock.TVPValeur = req.TVPValeur
			stock.TVPPoids = req.TVPPoids
			return tx.Create(&stock).Error
		}
		stock.Qte = req.Qte
		stock.TVPValeur = req.TVPValeur
		stock.TVPPoids = req.TVPPoids
		return nil
	})
	if err != nil {
		h.Log.Error("mise à jour stock", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"code_produit": stock.CodeProduit(),
		"qte":          stock.Qte,
	})
}
