package orders

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// LineID identifie une ligne soumise : soit l'id d'une ligne persistée, soit
// une ligne en attente d'insertion. Le formulaire envoie la sentinelle "new"
// pour les lignes sans contrepartie stockée ; la distinction est portée par
// le type plutôt que par une comparaison de chaînes.
type LineID struct {
	id      uint
	pending bool
}

// PersistedID construit l'identifiant d'une ligne déjà stockée.
func PersistedID(id uint) LineID { return LineID{id: id} }

// PendingID construit l'identifiant d'une ligne en attente d'insertion.
func PendingID() LineID { return LineID{pending: true} }

// Pending indique si la ligne n'a pas encore de contrepartie persistée.
func (l LineID) Pending() bool { return l.pending }

// Value retourne l'id persisté. ok vaut false pour une ligne en attente.
func (l LineID) Value() (id uint, ok bool) { return l.id, !l.pending }

// UnmarshalJSON accepte la sentinelle "new", un entier, ou un entier encodé
// en chaîne (suivant la version du formulaire).
func (l *LineID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "new" || s == "" || s == "null" {
		*l = PendingID()
		return nil
	}
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return fmt.Errorf("identifiant de ligne invalide %q", s)
	}
	*l = PersistedID(uint(id))
	return nil
}

// MarshalJSON restitue la forme attendue par le formulaire.
func (l LineID) MarshalJSON() ([]byte, error) {
	if l.pending {
		return []byte(`"new"`), nil
	}
	return []byte(strconv.FormatUint(uint64(l.id), 10)), nil
}

// SubmittedLine est une ligne telle que soumise par le formulaire de commande.
type SubmittedLine struct {
	ID           LineID
	Reference    string
	Designation  string
	PrixUnitaire float64
	Qte          int
	Remise       float64 // fraction 0..1
}

// lignePayload est la forme JSON d'une ligne dans le champ lignes_*.
type lignePayload struct {
	ID          LineID  `json:"id"`
	Reference   string  `json:"reference"`
	Designation string  `json:"designation"`
	Prix        float64 `json:"prix"`
	Quantite    int     `json:"quantite"`
	Remise      float64 `json:"remise"` // en pourcentage côté formulaire
}

// FormPrefix est l'espace de noms des champs de lignes dans le formulaire.
const FormPrefix = "lignes_"

// ParseLines extrait les lignes soumises des champs lignes_* du formulaire.
// Chaque valeur est un objet JSON ; une ligne illisible est ignorée (journalisée
// en warn), le reste de la soumission est traité.
func ParseLines(form url.Values, log *zap.Logger) []SubmittedLine {
	keys := make([]string, 0, len(form))
	for key := range form {
		if strings.HasPrefix(key, FormPrefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var lines []SubmittedLine
	for _, key := range keys {
		values := form[key]
		if len(values) == 0 || values[0] == "" {
			continue
		}
		var p lignePayload
		if err := json.Unmarshal([]byte(values[0]), &p); err != nil {
			if log != nil {
				log.Warn("ligne de commande illisible, ignorée",
					zap.String("champ", key), zap.Error(err))
			}
			continue
		}
		if p.Quantite == 0 {
			p.Quantite = 1
		}
		lines = append(lines, SubmittedLine{
			ID:           p.ID,
			Reference:    p.Reference,
			Designation:  p.Designation,
			PrixUnitaire: p.Prix,
			Qte:          p.Quantite,
			Remise:       p.Remise / 100,
		})
	}
	return lines
}

// ParseMontant normalise un montant saisi avec une virgule décimale puis le
// convertit. Un montant illisible est une erreur de validation fatale pour la
// soumission, contrairement aux lignes individuelles.
func ParseMontant(raw string) (float64, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if normalized == "" {
		normalized = "0"
	}
	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, fmt.Errorf("montant invalide %q: %w", raw, err)
	}
	return v, nil
}
