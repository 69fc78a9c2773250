package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/acfc/acfc/internal/auth"
	"github.com/acfc/acfc/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, pseudo, password, permission string) models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatal(err)
	}
	user := models.User{
		Prenom: "Test", Nom: "User",
		Pseudo: pseudo, Email: pseudo + "@acfc.local",
		ShaMdp: hash, Permission: permission, IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("user: %v", err)
	}
	return user
}

func doLogin(h *AuthHandler, pseudo, password string) *httptest.ResponseRecorder {
	form := url.Values{}
	form.Set("pseudo", pseudo)
	form.Set("password", password)
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.Login(w, r)
	return w
}

func TestLoginSuccess(t *testing.T) {
	db := setupHandlerDB(t)
	h := NewAuthHandler(db, zap.NewNop())
	seedUser(t, db, "marie", "motdepasse", "37")

	w := doLogin(h, "marie", "motdepasse")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200 got %d: %s", w.Code, w.Body.String())
	}
	var sessionCookie bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" && c.Value != "" {
			sessionCookie = true
		}
	}
	if !sessionCookie {
		t.Error("session cookie not set")
	}
	if !strings.Contains(w.Body.String(), `"habilitations":"37"`) {
		t.Errorf("body: %s", w.Body.String())
	}
}

func TestLoginLockoutAfterThreeFailures(t *testing.T) {
	db := setupHandlerDB(t)
	h := NewAuthHandler(db, zap.NewNop())
	user := seedUser(t, db, "marie", "motdepasse", "3")

	for i := 0; i < models.MaxLoginErrors; i++ {
		if w := doLogin(h, "marie", "mauvais"); w.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: want 401 got %d", i, w.Code)
		}
	}
	var after models.User
	db.First(&after, user.ID)
	if !after.IsLocked {
		t.Fatal("account should be locked after three failures")
	}
	// Même le bon mot de passe est refusé une fois verrouillé.
	if w := doLogin(h, "marie", "motdepasse"); w.Code != http.StatusForbidden {
		t.Fatalf("locked account: want 403 got %d", w.Code)
	}
}

func TestLoginResetsErrorCounter(t *testing.T) {
	db := setupHandlerDB(t)
	h := NewAuthHandler(db, zap.NewNop())
	user := seedUser(t, db, "marie", "motdepasse", "3")

	doLogin(h, "marie", "mauvais")
	doLogin(h, "marie", "mauvais")
	if w := doLogin(h, "marie", "motdepasse"); w.Code != http.StatusOK {
		t.Fatalf("want 200 got %d", w.Code)
	}
	var after models.User
	db.First(&after, user.ID)
	if after.NbErrors != 0 {
		t.Fatalf("error counter not reset: %d", after.NbErrors)
	}
	if after.IsLocked {
		t.Fatal("account wrongly locked")
	}
}

func TestLoginUnknownUserSameAnswer(t *testing.T) {
	db := setupHandlerDB(t)
	h := NewAuthHandler(db, zap.NewNop())
	seedUser(t, db, "marie", "motdepasse", "3")

	known := doLogin(h, "marie", "mauvais")
	unknown := doLogin(h, "fantome", "mauvais")
	if known.Code != unknown.Code {
		t.Fatalf("account enumeration: %d vs %d", known.Code, unknown.Code)
	}
}

func TestLoginInactiveUserRejected(t *testing.T) {
	db := setupHandlerDB(t)
	h := NewAuthHandler(db, zap.NewNop())
	user := seedUser(t, db, "marie", "motdepasse", "3")
	db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false)

	if w := doLogin(h, "marie", "motdepasse"); w.Code != http.StatusUnauthorized {
		t.Fatalf("inactive user: want 401 got %d", w.Code)
	}
}

func TestMeRequiresIdentity(t *testing.T) {
	db := setupHandlerDB(t)
	h := NewAuthHandler(db, zap.NewNop())

	r := httptest.NewRequest(http.MethodGet, "/me", nil)
	w := httptest.NewRecorder()
	h.Me(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401 got %d", w.Code)
	}

	r = httptest.NewRequest(http.MethodGet, "/me", nil)
	w = httptest.NewRecorder()
	h.Me(w, asUser(r, "marie"))
	if w.Code != http.StatusOK {
		t.Fatalf("want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"pseudo":"marie"`) {
		t.Errorf("body: %s", w.Body.String())
	}
}

func TestLoginMethodNotAllowed(t *testing.T) {
	db := setupHandlerDB(t)
	h := NewAuthHandler(db, zap.NewNop())

	r := httptest.NewRequest(http.MethodGet, "/login", nil)
	w := httptest.NewRecorder()
	h.Login(w, r)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("want 405 got %d", w.Code)
	}
	if allow := w.Header().Get("Allow"); allow != http.MethodPost {
		t.Errorf("Allow header: %q", allow)
	}
}
