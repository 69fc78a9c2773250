package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/acfc/acfc/internal/auth"
	"github.com/acfc/acfc/internal/httpx"
	"github.com/acfc/acfc/internal/i18n"
	"github.com/acfc/acfc/internal/middleware"
	"github.com/acfc/acfc/internal/pdf"
	"github.com/acfc/acfc/internal/services"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BillHandler porte la facturation : émission d'une facture sur une sélection
// de lignes, consultation et impression PDF.
type BillHandler struct {
	Bills   *services.BillService
	Orders  *services.OrderService
	Clients *services.ClientService
	Company pdf.CompanyData
	// BillsPath est le répertoire d'archivage des factures générées.
	BillsPath string
	Log       *zap.Logger
}

func NewBillHandler(b *services.BillService, o *services.OrderService, c *services.ClientService,
	company pdf.CompanyData, billsPath string, log *zap.Logger) *BillHandler {
	return &BillHandler{Bills: b, Orders: o, Clients: c, Company: company, BillsPath: billsPath, Log: log}
}

// parseLineIDs lit une liste d'ids de lignes au format CSV ("12,15,19").
func parseLineIDs(raw string) []uint {
	var out []uint
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if n, err := strconv.ParseUint(part, 10, 32); err == nil && n > 0 {
			out = append(out, uint(n))
		}
	}
	return out
}

// Facturer : POST /factures/facturer?client=&commande= — facture les lignes
// sélectionnées (champ ids_lignes_facturees, ids CSV) à la date du jour ou à
// la date fournie.
func (h *BillHandler) Facturer(w http.ResponseWriter, r *http.Request) {
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
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	lineIDs := parseLineIDs(r.Form.Get("ids_lignes_facturees"))
	dateFacturation := time.Now()
	if d, err := time.Parse("2006-01-02", r.Form.Get("date_facturation")); err == nil {
		dateFacturation = d
	}

	facture, err := h.Bills.BillLines(clientID, orderID, lineIDs, dateFacturation, identity.Pseudo)
	if errors.Is(err, services.ErrOrderNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if errors.Is(err, services.ErrNoBillableLines) {
		httpx.JSONError(w, http.StatusBadRequest, "no_billable_lines", nil)
		return
	}
	if err != nil {
		h.Log.Error("facturation", zap.Error(err), zap.Uint("id_commande", orderID))
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	h.Log.Info("facture émise",
		zap.String("id_fiscal", facture.IDFiscal),
		zap.Float64("montant", facture.MontantFacture),
		zap.String("par", identity.Pseudo))
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"id":        facture.ID,
		"id_fiscal": facture.IDFiscal,
		"montant":   facture.MontantFacture,
		"message":   i18n.T(lang, "facture_created"),
	})
}

// Detail : GET /factures/detail?id=
func (h *BillHandler) Detail(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodGet) {
		return
	}
	billID, ok := parseUintParam(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	facture, err := h.Bills.Get(billID)
	if errors.Is(err, services.ErrBillNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, facture)
}

// List : GET /factures?client= — factures d'un client.
func (h *BillHandler) List(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodGet) {
		return
	}
	clientID, ok := parseUintParam(r, "client")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	list, err := h.Bills.ForClient(clientID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": list, "count": len(list)})
}

// Imprimer : GET /factures/imprimer?id= — génère le PDF officiel, l'archive
// sous BillsPath et le retourne. La première impression est horodatée.
func (h *BillHandler) Imprimer(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodGet) {
		return
	}
	billID, ok := parseUintParam(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	facture, err := h.Bills.Get(billID)
	if errors.Is(err, services.ErrBillNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	client, err := h.Clients.Get(facture.IDClient)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}

	data := pdf.FactureData{
		IDFiscal:        facture.IDFiscal,
		DateFacturation: facture.DateFacturation,
		Company:         h.Company,
		Client:          clientPDFData(client, nil),
		MontantFacture:  facture.MontantFacture,
	}
	for i := range facture.Lignes {
		l := &facture.Lignes[i]
		data.Lignes = append(data.Lignes, pdf.LineData{
			Reference:    l.Reference,
			Designation:  l.Designation,
			Qte:          l.Qte,
			PrixUnitaire: l.PrixUnitaire,
			Remise:       l.Remise,
			PrixTotal:    l.PrixTotal(),
		})
	}
	bytes, err := pdf.FacturePDF(data)
	if err != nil {
		h.Log.Error("impression facture", zap.Error(err), zap.String("id_fiscal", facture.IDFiscal))
		httpx.JSONError(w, http.StatusInternalServerError, "pdf_generation_failed", nil)
		return
	}

	// Archivage : écriture sous un nom temporaire puis renommage atomique.
	if h.BillsPath != "" {
		if err := os.MkdirAll(h.BillsPath, 0o755); err == nil {
			final := filepath.Join(h.BillsPath, facture.IDFiscal+".pdf")
			tmp := filepath.Join(h.BillsPath, uuid.NewString()+".tmp")
			if err := os.WriteFile(tmp, bytes, 0o644); err == nil {
				if err := os.Rename(tmp, final); err != nil {
					_ = os.Remove(tmp)
					h.Log.Warn("archivage facture", zap.Error(err))
				}
			}
		}
	}
	if err := h.Bills.MarkPrinted(facture.ID); err != nil {
		h.Log.Warn("horodatage impression", zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+facture.IDFiscal+".pdf\"")
	_, _ = w.Write(bytes)
}
