package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/acfc/acfc/internal/auth"
	"github.com/acfc/acfc/internal/httpx"
	"github.com/acfc/acfc/internal/models"
	"github.com/acfc/acfc/internal/services"
	"github.com/acfc/acfc/internal/validation"
	"go.uber.org/zap"
)

// ClientHandler porte le fichier clients : recherche multicritères,
// création et fiche détaillée.
type ClientHandler struct {
	Svc *services.ClientService
	Log *zap.Logger
}

func NewClientHandler(svc *services.ClientService, log *zap.Logger) *ClientHandler {
	return &ClientHandler{Svc: svc, Log: log}
}

func parseBoolParam(q string) *bool {
	switch strings.ToLower(q) {
	case "1", "true", "yes", "oui":
		b := true
		return &b
	case "0", "false", "no", "non":
		b := false
		return &b
	}
	return nil
}

// Search : GET /clients — recherche du fichier clients.
// Paramètres : search, type_client, has_phone, has_email, departement, ville,
// is_active, limit (plafonné).
func (h *ClientHandler) Search(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodGet) {
		return
	}
	q := r.URL.Query()
	f := services.SearchFilters{
		Search:      q.Get("search"),
		Departement: strings.TrimSpace(q.Get("departement")),
		Ville:       strings.TrimSpace(q.Get("ville")),
		HasPhone:    parseBoolParam(q.Get("has_phone")),
		HasEmail:    parseBoolParam(q.Get("has_email")),
		IsActive:    parseBoolParam(q.Get("is_active")),
	}
	if v := q.Get("type_client"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.TypeClient = n
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Limit = n
		}
	}

	clients, err := h.Svc.Search(f)
	if err != nil {
		h.Log.Error("recherche clients", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	items := make([]map[string]any, 0, len(clients))
	for i := range clients {
		c := &clients[i]
		items = append(items, map[string]any{
			"id":          c.ID,
			"type_client": c.TypeClient,
			"nom":         c.NomAffichage(),
			"is_active":   c.IsActive,
			"mails":       c.Mails,
			"tels":        c.Tels,
			"adresses":    c.Adresses,
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

type clientRequest struct {
	TypeClient int     `json:"type_client"`
	Notes      string  `json:"notes"`
	Reduces    float64 `json:"reduces"`
	IsActive   *bool   `json:"is_active"`

	// Particulier
	Prenom        string `json:"prenom"`
	Nom           string `json:"nom"`
	DateNaissance string `json:"date_naissance"` // 2006-01-02
	LieuNaissance string `json:"lieu_naissance"`

	// Professionnel
	RaisonSociale string `json:"raison_sociale"`
	TypePro       int    `json:"type_pro"`
	SIREN         string `json:"siren"`
	RNA           string `json:"rna"`
}

func (req *clientRequest) validate() validation.Violations {
	v := validation.Violations{}
	switch req.TypeClient {
	case models.TypeParticulier:
		validation.Required("prenom", req.Prenom, v)
		validation.Required("nom", req.Nom, v)
	case models.TypeProfessionnel:
		validation.Required("raison_sociale", req.RaisonSociale, v)
		if req.SIREN != "" && len(req.SIREN) != 9 {
			v["siren"] = "siren_length"
		}
	default:
		v["type_client"] = "invalid_value"
	}
	validation.RangeFloat("reduces", req.Reduces, 0, 1, v)
	return v
}

func (req *clientRequest) toModel() *models.Client {
	client := &models.Client{
		TypeClient: req.TypeClient,
		Notes:      req.Notes,
		Reduces:    req.Reduces,
		IsActive:   true,
	}
	if req.IsActive != nil {
		client.IsActive = *req.IsActive
	}
	switch req.TypeClient {
	case models.TypeParticulier:
		part := &models.Part{
			Prenom:        strings.TrimSpace(req.Prenom),
			Nom:           strings.TrimSpace(req.Nom),
			LieuNaissance: strings.TrimSpace(req.LieuNaissance),
		}
		if d, err := time.Parse("2006-01-02", req.DateNaissance); err == nil {
			part.DateNaissance = &d
		}
		client.Part = part
	case models.TypeProfessionnel:
		client.Pro = &models.Pro{
			RaisonSociale: strings.TrimSpace(req.RaisonSociale),
			TypePro:       req.TypePro,
			SIREN:         strings.TrimSpace(req.SIREN),
			RNA:           strings.TrimSpace(req.RNA),
		}
	}
	return client
}

// Create : POST /clients
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}
	id, _ := auth.IdentityFromContext(r.Context())

	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	client := req.toModel()
	if err := h.Svc.Create(client, id.Pseudo); err != nil {
		h.Log.Error("création client", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	h.Log.Info("client créé", zap.Uint("id_client", client.ID), zap.String("par", id.Pseudo))
	httpx.JSON(w, http.StatusCreated, map[string]any{"id": client.ID, "nom": client.NomAffichage()})
}

// Detail : GET /clients/detail?id= — fiche complète avec coordonnées et
// historique de commandes.
func (h *ClientHandler) Detail(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodGet) {
		return
	}
	clientID, ok := parseUintParam(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	client, err := h.Svc.Get(clientID)
	if errors.Is(err, services.ErrClientNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"id":          client.ID,
		"type_client": client.TypeClient,
		"nom":         client.NomAffichage(),
		"is_active":   client.IsActive,
		"notes":       client.Notes,
		"reduces":     client.Reduces,
		"part":        client.Part,
		"pro":         client.Pro,
		"mails":       client.Mails,
		"tels":        client.Tels,
		"adresses":    client.Adresses,
		"commandes":   client.Orders,
	})
}

// Update : POST /clients/update?id=
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !httpx.RequireMethod(w, r, http.MethodPost) {
		return
	}
	identity, _ := auth.IdentityFromContext(r.Context())
	clientID, ok := parseUintParam(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	existing, err := h.Svc.Get(clientID)
	if errors.Is(err, services.ErrClientNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}

	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	// Le type d'un client ne change jamais après création.
	req.TypeClient = existing.TypeClient
	if v := req.validate(); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	client := req.toModel()
	client.ID = clientID
	if err := h.Svc.Update(client, identity.Pseudo); err != nil {
		h.Log.Error("mise à jour client", zap.Error(err), zap.Uint("id_client", clientID))
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"id": clientID})
}

// parseUintParam lit un paramètre de requête entier strictement positif.
func parseUintParam(r *http.Request, name string) (uint, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
