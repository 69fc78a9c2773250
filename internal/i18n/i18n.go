// Package i18n fournit les messages fr/en de l'application. Le français est
// la langue de référence ; un code inconnu est retourné tel quel.
package i18n

import "strings"

var translations = map[string]map[string]string{
	"fr": {
		"required":              "Requis",
		"not_found":             "Ressource introuvable",
		"unauthorized":          "Authentification requise",
		"forbidden":             "Habilitation insuffisante",
		"commande_created":      "Commande créée",
		"commande_updated":      "Commande mise à jour",
		"commande_deleted":      "Commande annulée",
		"facture_created":       "Facture créée",
		"client_created":        "Client créé",
		"client_updated":        "Client mis à jour",
		"account_locked":        "Compte verrouillé après trop d'échecs",
		"invalid_credentials":   "Identifiants invalides",
		"password_change_due":   "Changement de mot de passe requis",
		"version_conflict":      "La commande a été modifiée entre-temps",
		"montant_invalide":      "Montant illisible",
		"internal_error":        "Erreur interne",
	},
	"en": {
		"required":              "Required",
		"not_found":             "Resource not found",
		"unauthorized":          "Authentication required",
		"forbidden":             "Insufficient permission",
		"commande_created":      "Order created",
		"commande_updated":      "Order updated",
		"commande_deleted":      "Order cancelled",
		"facture_created":       "Invoice created",
		"client_created":        "Client created",
		"client_updated":        "Client updated",
		"account_locked":        "Account locked after too many failures",
		"invalid_credentials":   "Invalid credentials",
		"password_change_due":   "Password change required",
		"version_conflict":      "The order was modified concurrently",
		"montant_invalide":      "Unreadable amount",
		"internal_error":        "Internal error",
	},
}

// T translates a message code for the given language, falling back to French
// then to the code itself.
func T(lang, code string) string {
	if m, ok := translations[lang]; ok {
		if msg, ok := m[code]; ok {
			return msg
		}
	}
	if msg, ok := translations["fr"][code]; ok {
		return msg
	}
	return code
}

// DetectLanguage picks fr or en from an Accept-Language header. Defaults to fr.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.ToLower(strings.TrimSpace(strings.SplitN(part, ";", 2)[0]))
		if strings.HasPrefix(tag, "en") {
			return "en"
		}
		if strings.HasPrefix(tag, "fr") {
			return "fr"
		}
	}
	return "fr"
}
