package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/acfc/acfc/internal/auth"
	"github.com/acfc/acfc/internal/config"
	"github.com/acfc/acfc/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRouter(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.Client{}, &models.Part{}, &models.Pro{},
		&models.Mail{}, &models.Telephone{}, &models.Adresse{},
		&models.Order{}, &models.OrderLine{}, &models.Facture{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db, config.Config{BillsPath: t.TempDir()}, zap.NewNop()), db
}

func seedRouterUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{Prenom: "Marie", Nom: "Durand", Pseudo: "marie",
		Email: "marie@acfc.fr", ShaMdp: "x", Permission: "3", IsActive: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}
	return user
}

func sessionCookie(t *testing.T, u models.User) *http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	auth.CreateSession(w, auth.Identity{UserID: u.ID, Pseudo: u.Pseudo, Habilitations: u.Permission})
	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies: %d", len(cookies))
	}
	return cookies[0]
}

func doGet(handler http.Handler, path string, c *http.Cookie) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	if c != nil {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	return w
}

func TestLockedUserLosesAccess(t *testing.T) {
	handler, db := setupRouter(t)
	user := seedRouterUser(t, db)
	cookie := sessionCookie(t, user)

	if w := doGet(handler, "/clients", cookie); w.Code != http.StatusOK {
		t.Fatalf("utilisateur actif: want 200 got %d: %s", w.Code, w.Body.String())
	}
	// Verrouillage du compte : la session déjà émise tombe immédiatement,
	// sans attendre l'expiration du cookie.
	db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_locked", true)
	if w := doGet(handler, "/clients", cookie); w.Code != http.StatusUnauthorized {
		t.Fatalf("utilisateur verrouillé: want 401 got %d", w.Code)
	}
}

func TestDeactivatedUserLosesAccess(t *testing.T) {
	handler, db := setupRouter(t)
	user := seedRouterUser(t, db)
	cookie := sessionCookie(t, user)

	db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false)
	if w := doGet(handler, "/commandes", cookie); w.Code != http.StatusUnauthorized {
		t.Fatalf("utilisateur désactivé: want 401 got %d", w.Code)
	}
}

func TestAnonymousRejectedOnBusinessRoutes(t *testing.T) {
	handler, _ := setupRouter(t)
	for _, path := range []string{"/clients", "/commandes", "/factures"} {
		if w := doGet(handler, path, nil); w.Code != http.StatusUnauthorized {
			t.Errorf("%s sans session: want 401 got %d", path, w.Code)
		}
	}
	// Les sondes restent publiques.
	if w := doGet(handler, "/healthz", nil); w.Code != http.StatusOK {
		t.Errorf("/healthz: want 200 got %d", w.Code)
	}
}
