package gate

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/acfc/acfc/internal/auth"
)

func TestHasAny(t *testing.T) {
	if !HasAny("37", Clients) {
		t.Error("niveau présent refusé")
	}
	if HasAny("37", Comptabilite) {
		t.Error("niveau absent accepté")
	}
	// L'administrateur passe partout.
	if !HasAny("1", Comptabilite, RessourcesHumaines) {
		t.Error("admin refusé")
	}
	if HasAny("", Clients) {
		t.Error("habilitation vide acceptée")
	}
}

func TestHasAll(t *testing.T) {
	if !HasAll("347", Clients, Comptabilite) {
		t.Error("tous niveaux présents refusés")
	}
	if HasAll("3", Clients, Comptabilite) {
		t.Error("niveau manquant accepté")
	}
	if !HasAll("1", Clients, Comptabilite, ForceDeVente) {
		t.Error("admin refusé")
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireWithoutSession(t *testing.T) {
	h := Require(okHandler(), Clients)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401 got %d", w.Code)
	}
}

func TestRequireWrongLevel(t *testing.T) {
	h := Require(okHandler(), Comptabilite)
	r := httptest.NewRequest("GET", "/", nil)
	r = r.WithContext(auth.WithIdentity(r.Context(), auth.Identity{UserID: 1, Pseudo: "p", Habilitations: "3"}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusForbidden {
		t.Fatalf("want 403 got %d", w.Code)
	}
}

func TestRequireGranted(t *testing.T) {
	h := Require(okHandler(), Clients, ForceDeVente)
	r := httptest.NewRequest("GET", "/", nil)
	r = r.WithContext(auth.WithIdentity(r.Context(), auth.Identity{UserID: 1, Pseudo: "p", Habilitations: "7"}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200 got %d", w.Code)
	}
}
