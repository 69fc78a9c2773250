package server

import (
	"context"
	"net/http"

	"github.com/acfc/acfc/internal/auth"
	"github.com/acfc/acfc/internal/config"
	"github.com/acfc/acfc/internal/gate"
	"github.com/acfc/acfc/internal/handlers"
	"github.com/acfc/acfc/internal/httpx"
	"github.com/acfc/acfc/internal/middleware"
	"github.com/acfc/acfc/internal/models"
	"github.com/acfc/acfc/internal/pdf"
	"github.com/acfc/acfc/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Company émettrice des documents. Valeurs par défaut de l'atelier,
// surchargées par l'environnement au besoin.
func companyData() pdf.CompanyData {
	return pdf.CompanyData{
		Nom:     "ACFC",
		Adresse: "12 rue des Archives",
		Ville:   "75004 Paris",
		SIREN:   "123456789",
	}
}

// New construit le handler racine : routes, habilitations et middlewares.
func New(db *gorm.DB, cfg config.Config, log *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	// La session doit référencer un utilisateur actif et non verrouillé.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		err := db.Model(&models.User{}).
			Where("id = ? AND is_active = ? AND is_locked = ?", uid, true, false).
			Limit(1).Count(&count).Error
		if err != nil {
			return false
		}
		return count > 0
	})

	orderSvc := services.NewOrderService(db)
	billSvc := services.NewBillService(db)
	clientSvc := services.NewClientService(db)
	company := companyData()

	authHandler := handlers.NewAuthHandler(db, log)
	clientHandler := handlers.NewClientHandler(clientSvc, log)
	orderHandler := handlers.NewOrderHandler(orderSvc, clientSvc, company, log)
	billHandler := handlers.NewBillHandler(billSvc, orderSvc, clientSvc, company, cfg.BillsPath, log)
	catalogueHandler := handlers.NewCatalogueHandler(db, log)
	stockHandler := handlers.NewStockHandler(db, log)
	comptaHandler := handlers.NewComptaHandler(db, log)
	healthHandler := handlers.NewHealthHandler(db)

	// Sondes, sans session.
	mux.HandleFunc("/health", healthHandler.Healthz)
	mux.HandleFunc("/healthz", healthHandler.Healthz)
	mux.HandleFunc("/readyz", healthHandler.Readyz)

	// Authentification.
	mux.HandleFunc("/login", authHandler.Login)
	mux.Handle("/logout", auth.Middleware(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("/me", auth.Middleware(auth.RequireAuth(http.HandlerFunc(authHandler.Me))))
	mux.Handle("/password", auth.Middleware(auth.RequireAuth(http.HandlerFunc(authHandler.ChangePassword))))

	// protect applique session + vérification utilisateur + habilitations.
	// Le passage par RequireAuth garantit qu'un compte verrouillé ou
	// désactivé perd immédiatement l'accès, cookie encore valide ou non.
	protect := func(h http.HandlerFunc, levels ...gate.Habilitation) http.Handler {
		return auth.Middleware(auth.RequireAuth(gate.Require(h, levels...)))
	}

	// CRM — fichier clients.
	mux.Handle("/clients", protect(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			clientHandler.Search(w, r)
		case http.MethodPost:
			clientHandler.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	}, gate.Clients, gate.ForceDeVente))
	mux.Handle("/clients/detail", protect(clientHandler.Detail, gate.Clients, gate.ForceDeVente))
	mux.Handle("/clients/update", protect(clientHandler.Update, gate.Clients))

	// Commandes.
	mux.Handle("/commandes", protect(orderHandler.EnCours, gate.Clients, gate.ForceDeVente))
	mux.Handle("/commandes/create", protect(orderHandler.Create, gate.Clients, gate.ForceDeVente))
	mux.Handle("/commandes/edit", protect(orderHandler.Edit, gate.Clients, gate.ForceDeVente))
	mux.Handle("/commandes/detail", protect(orderHandler.Detail, gate.Clients, gate.ForceDeVente))
	mux.Handle("/commandes/cancel", protect(orderHandler.Cancel, gate.Clients))
	mux.Handle("/commandes/note", protect(orderHandler.NoteAchat, gate.Clients, gate.ForceDeVente))
	mux.Handle("/commandes/indicateurs", protect(orderHandler.Indicateurs, gate.Gestionnaire, gate.ForceDeVente))

	// Facturation.
	mux.Handle("/factures", protect(billHandler.List, gate.Clients, gate.Comptabilite))
	mux.Handle("/factures/facturer", protect(billHandler.Facturer, gate.Clients))
	mux.Handle("/factures/detail", protect(billHandler.Detail, gate.Clients, gate.Comptabilite))
	mux.Handle("/factures/imprimer", protect(billHandler.Imprimer, gate.Clients, gate.Comptabilite))

	// Catalogue et stocks.
	mux.Handle("/catalogue", protect(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			catalogueHandler.List(w, r)
		case http.MethodPost:
			catalogueHandler.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	}, gate.Gestionnaire, gate.ForceDeVente))
	mux.Handle("/stocks", protect(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			stockHandler.List(w, r)
		case http.MethodPost:
			stockHandler.Upsert(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	}, gate.Gestionnaire))

	// Comptabilité, lecture seule.
	mux.Handle("/comptabilite/plan", protect(comptaHandler.Plan, gate.Comptabilite))
	mux.Handle("/comptabilite/operations", protect(comptaHandler.Operations, gate.Comptabilite))

	return middleware.Prefs(middleware.Recover(log, middleware.AccessLog(log, mux)))
}
