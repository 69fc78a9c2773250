package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/acfc/acfc/internal/auth"
	"github.com/acfc/acfc/internal/httpx"
	"github.com/acfc/acfc/internal/i18n"
	"github.com/acfc/acfc/internal/middleware"
	"github.com/acfc/acfc/internal/models"
	"github.com/acfc/acfc/internal/orders"
	"github.com/acfc/acfc/internal/pdf"
	"github.com/acfc/acfc/internal/services"
	"go.uber.org/zap"
)

// OrderHandler porte le cycle de vie des commandes : création, modification
// avec rapprochement des lignes, annulation, détail et note d'achat.
type OrderHandler struct {
	Orders  *services.OrderService
	Clients *services.ClientService
	Company pdf.CompanyData
	Log     *zap.Logger
}

func NewOrderHandler(o *services.OrderService, c *services.ClientService, company pdf.CompanyData, log *zap.Logger) *OrderHandler {
	return &OrderHandler{Orders: o, Clients: c, Company: company, Log: log}
}

// orderHead extrait les champs d'en-tête communs aux formulaires de création
// et de modification.
func orderHead(r *http.Request, order *models.Order) {
	order.Descriptif = r.Form.Get("descriptif")
	if d, err := time.Parse("2006-01-02", r.Form.Get("date_commande")); err == nil {
		order.DateCommande = d
	} else {
		order.DateCommande = time.Now()
	}
	order.IsAdLivraison = r.Form.Get("is_ad_livraison") == "1" || r.Form.Get("is_ad_livraison") == "on"
	if v := r.Form.Get("id_adresse_facturation"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			id := uint(n)
			order.IDAdresseFacturation = &id
		}
	}
	if v := r.Form.Get("id_adresse_livraison"); v != "" && order.IsAdLivraison {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			id := uint(n)
			order.IDAdresseLivraison = &id
		}
	}
	// Sans adresse de livraison distincte, la livraison suit la facturation.
	if !order.IsAdLivraison {
		order.IDAdresseLivraison = order.IDAdresseFacturation
	}
}

// Create : POST /commandes/create?client= — formulaire avec champs lignes_*
// (objets JSON) et montant à virgule décimale.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}
	identity, _ := auth.IdentityFromContext(r.Context())
	lang := middleware.LangFrom(r)

	clientID, ok := parseUintParam(r, "client")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if _, err := h.Clients.Get(clientID); err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}

	lines := orders.ParseLines(r.Form, h.Log)
	montant, err := orders.ParseMontant(r.Form.Get("montant"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "montant_invalide", i18n.T(lang, "montant_invalide"))
		return
	}

	order := models.Order{IDClient: clientID, Montant: montant}
	orderHead(r, &order)

	if err := h.Orders.Create(&order, lines, identity.Pseudo); err != nil {
		h.Log.Error("création commande", zap.Error(err), zap.Uint("id_client", clientID))
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	h.Log.Info("commande créée",
		zap.Uint("id_commande", order.ID),
		zap.Uint("id_client", clientID),
		zap.Int("lignes", len(lines)),
		zap.String("par", identity.Pseudo))
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"id":      order.ID,
		"message": i18n.T(lang, "commande_created"),
	})
}

// Edit : POST /commandes/edit?client=&commande= — rapproche les lignes
// soumises des lignes stockées. Le champ version protège contre les
// modifications concurrentes (409 en cas de conflit).
func (h *OrderHandler) Edit(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}
	identity, _ := auth.IdentityFromContext(r.Context())
	lang := middleware.LangFrom(r)

	clientID, okC := parseUintParam(r, "client")
	orderID, okO := parseUintParam(r, "commande")
	if !okC || !okO {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	order, err := h.Orders.Get(orderID, clientID)
	if errors.Is(err, services.ErrOrderNotFound) {
		// Échec fermé : pas de commande, pas de modification.
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	if order.IsAnnulee {
		httpx.JSONError(w, http.StatusConflict, "commande_annulee", nil)
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}

	version := order.Version
	if v := r.Form.Get("version"); v != "" {
		if n, parseErr := strconv.ParseUint(v, 10, 32); parseErr == nil {
			version = uint(n)
		}
	}
	lines := orders.ParseLines(r.Form, h.Log)
	montant, err := orders.ParseMontant(r.Form.Get("montant"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "montant_invalide", i18n.T(lang, "montant_invalide"))
		return
	}

	res := orders.Reconcile(order.Lignes, lines, montant, identity.Pseudo)
	orderHead(r, order)

	err = h.Orders.ApplyReconciliation(order, version, res, identity.Pseudo)
	if errors.Is(err, services.ErrVersionConflict) {
		httpx.JSONError(w, http.StatusConflict, "version_conflict", i18n.T(lang, "version_conflict"))
		return
	}
	if err != nil {
		h.Log.Error("modification commande", zap.Error(err), zap.Uint("id_commande", orderID))
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	h.Log.Info("commande modifiée",
		zap.Uint("id_commande", orderID),
		zap.Int("operations", len(res.Ops)),
		zap.Float64("montant", res.Montant),
		zap.String("par", identity.Pseudo))
	httpx.JSON(w, http.StatusOK, map[string]any{
		"id":           orderID,
		"montant":      res.Montant,
		"server_total": res.ServerTotal,
		"version":      version + 1,
		"message":      i18n.T(lang, "commande_updated"),
	})
}

// Detail : GET /commandes/detail?client=&commande=
func (h *OrderHandler) Detail(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodGet) {
		return
	}
	clientID, okC := parseUintParam(r, "client")
	orderID, okO := parseUintParam(r, "commande")
	if !okC || !okO {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	order, err := h.Orders.Get(orderID, clientID)
	if errors.Is(err, services.ErrOrderNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

// Cancel : POST /commandes/cancel?client=&commande= — annulation logique de
// la commande et de ses lignes.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}
	identity, _ := auth.IdentityFromContext(r.Context())
	lang := middleware.LangFrom(r)

	clientID, okC := parseUintParam(r, "client")
	orderID, okO := parseUintParam(r, "commande")
	if !okC || !okO {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	err := h.Orders.Cancel(orderID, clientID, identity.Pseudo)
	if errors.Is(err, services.ErrOrderNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	h.Log.Info("commande annulée", zap.Uint("id_commande", orderID), zap.String("par", identity.Pseudo))
	httpx.JSON(w, http.StatusOK, map[string]any{"id": orderID, "message": i18n.T(lang, "commande_deleted")})
}

// EnCours : GET /commandes — commandes en cours, optionnellement filtrées
// par client.
func (h *OrderHandler) EnCours(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodGet) {
		return
	}
	var clientID uint
	if id, ok := parseUintParam(r, "client"); ok {
		clientID = id
	}
	list, err := h.Orders.CurrentOrders(clientID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": list, "count": len(list)})
}

// Indicateurs : GET /commandes/indicateurs — tableau de bord commercial.
func (h *OrderHandler) Indicateurs(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodGet) {
		return
	}
	ind, err := h.Orders.CommercialIndicators(time.Now())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, ind)
}

// NoteAchat : GET /commandes/note?client=&commande= — note d'achat PDF.
func (h *OrderHandler) NoteAchat(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodGet) {
		return
	}
	clientID, okC := parseUintParam(r, "client")
	orderID, okO := parseUintParam(r, "commande")
	if !okC || !okO {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	order, err := h.Orders.Get(orderID, clientID)
	if errors.Is(err, services.ErrOrderNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	client, err := h.Clients.Get(clientID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}

	data := pdf.NoteAchatData{
		NumeroCommande: order.ID,
		DateCommande:   order.DateCommande,
		Descriptif:     order.Descriptif,
		Company:        h.Company,
		Client:         clientPDFData(client, order.IDAdresseFacturation),
		Montant:        order.Montant,
	}
	for i := range order.Lignes {
		l := &order.Lignes[i]
		if l.IsAnnulee {
			continue
		}
		data.Lignes = append(data.Lignes, pdf.LineData{
			Reference:    l.Reference,
			Designation:  l.Designation,
			Qte:          l.Qte,
			PrixUnitaire: l.PrixUnitaire,
			Remise:       l.Remise,
			PrixTotal:    l.PrixTotal(),
		})
	}
	bytes, err := pdf.NoteAchatPDF(data)
	if err != nil {
		h.Log.Error("note d'achat", zap.Error(err), zap.Uint("id_commande", orderID))
		httpx.JSONError(w, http.StatusInternalServerError, "pdf_generation_failed", nil)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"note-achat-%d.pdf\"", order.ID))
	_, _ = w.Write(bytes)
}

// clientPDFData construit le bloc destinataire d'un document, en privilégiant
// l'adresse demandée puis l'adresse principale.
func clientPDFData(client *models.Client, adresseID *uint) pdf.ClientData {
	data := pdf.ClientData{Nom: client.NomAffichage()}
	var pick *models.Adresse
	for i := range client.Adresses {
		a := &client.Adresses[i]
		if adresseID != nil && a.ID == *adresseID {
			pick = a
			break
		}
		if pick == nil && a.IsPrincipal && !a.IsInactive {
			pick = a
		}
	}
	if pick == nil && len(client.Adresses) > 0 {
		pick = &client.Adresses[0]
	}
	if pick != nil {
		data.Adresse = pick.AdresseL1
		if pick.AdresseL2 != "" {
			data.Adresse += ", " + pick.AdresseL2
		}
		data.Ville = pick.CodePostal + " " + pick.Ville
	}
	return data
}
