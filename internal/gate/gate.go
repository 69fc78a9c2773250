// Package gate est le point de contrôle des habilitations. Chaque utilisateur
// porte une chaîne de niveaux (ex: "137") ; une route exige un ou plusieurs
// niveaux, combinés en "au moins un" ou "tous".
package gate

import (
	"net/http"
	"strings"

	"github.com/acfc/acfc/internal/auth"
	"github.com/acfc/acfc/internal/httpx"
)

// Habilitation est un niveau d'accès, un caractère par niveau.
type Habilitation string

// Niveaux d'habilitation de l'application.
const (
	Administrateur      Habilitation = "1"
	Gestionnaire        Habilitation = "2"
	Clients             Habilitation = "3"
	Comptabilite        Habilitation = "4"
	RessourcesHumaines  Habilitation = "5"
	DeveloppementIT     Habilitation = "6"
	ForceDeVente        Habilitation = "7"
)

// HasAny reports whether granted contains at least one required level.
// Administrateur passe partout.
func HasAny(granted string, required ...Habilitation) bool {
	if strings.Contains(granted, string(Administrateur)) {
		return true
	}
	for _, h := range required {
		if strings.Contains(granted, string(h)) {
			return true
		}
	}
	return false
}

// HasAll reports whether granted contains every required level.
func HasAll(granted string, required ...Habilitation) bool {
	if strings.Contains(granted, string(Administrateur)) {
		return true
	}
	for _, h := range required {
		if !strings.Contains(granted, string(h)) {
			return false
		}
	}
	return true
}

// Require protège un handler : 401 sans session, 403 sans l'un des niveaux
// requis. Équivalent du décorateur de validation d'habilitation historique.
func Require(next http.Handler, required ...Habilitation) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		if !HasAny(id.Habilitations, required...) {
			httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAll est la variante exigeant tous les niveaux.
func RequireAll(next http.Handler, required ...Habilitation) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		if !HasAll(id.Habilitations, required...) {
			httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
