// Package orders contient la logique de rapprochement des lignes de commande :
// comparaison des lignes soumises par le client avec les lignes persistées
// pour produire les insertions, mises à jour et annulations à appliquer.
package orders

import (
	"math"

	"github.com/acfc/acfc/internal/models"
)

// OpKind qualifie une opération de persistance en attente.
type OpKind int

const (
	OpInsert OpKind = iota
	OpUpdate
	OpCancel
)

func (k OpKind) String() string {
	switch k {
	case OpInsert:
		return "insert"
	case OpUpdate:
		return "update"
	case OpCancel:
		return "cancel"
	}
	return "unknown"
}

// Op est une opération à appliquer par la couche de persistance.
// Les opérations d'un même rapprochement doivent être appliquées dans une
// seule transaction, dans l'ordre de la liste.
type Op struct {
	Kind OpKind
	Line models.OrderLine
}

// Result porte les opérations en attente et le montant retenu pour la commande.
type Result struct {
	Ops []Op
	// Montant retenu pour la commande (montant client si l'écart avec le
	// total serveur dépasse la tolérance, total serveur sinon).
	Montant float64
	// ServerTotal est le total calculé sur les lignes persistées actives
	// avant application du rapprochement.
	ServerTotal float64
}

// MontantTolerance absorbe les écarts d'arrondi entre le calcul client et le
// calcul serveur. Tolérance volontaire, pas un bug.
const MontantTolerance = 0.01

// Reconcile rapproche les lignes soumises des lignes persistées d'une commande.
//
// Partition des lignes soumises :
//   - id en attente (pending)            -> insertion
//   - id correspondant à une ligne stockée -> mise à jour
//   - id inconnu                          -> anomalie, ligne ignorée
//
// Toute ligne persistée absente de la soumission est annulée (is_annulee),
// jamais supprimée. Les opérations sont ordonnées insert -> update -> cancel.
func Reconcile(persisted []models.OrderLine, submitted []SubmittedLine, declared float64, actor string) Result {
	byID := make(map[uint]models.OrderLine, len(persisted))
	for _, line := range persisted {
		byID[line.ID] = line
	}
	submittedIDs := make(map[uint]bool, len(submitted))

	var inserts, updates, cancels []Op
	for _, s := range submitted {
		if s.ID.Pending() {
			inserts = append(inserts, Op{Kind: OpInsert, Line: models.OrderLine{
				Reference:    s.Reference,
				Designation:  s.Designation,
				Qte:          s.Qte,
				PrixUnitaire: s.PrixUnitaire,
				Remise:       s.Remise,
				CreatedBy:    actor,
			}})
			continue
		}
		id, _ := s.ID.Value()
		prev, ok := byID[id]
		if !ok {
			// Id soumis inconnu du serveur : anomalie d'intégrité, ligne ignorée.
			continue
		}
		submittedIDs[id] = true
		prev.Reference = s.Reference
		prev.Designation = s.Designation
		prev.Qte = s.Qte
		prev.PrixUnitaire = s.PrixUnitaire
		prev.Remise = s.Remise
		prev.ModifiedBy = actor
		updates = append(updates, Op{Kind: OpUpdate, Line: prev})
	}

	for _, line := range persisted {
		if submittedIDs[line.ID] {
			continue
		}
		line.IsAnnulee = true
		line.ModifiedBy = actor
		cancels = append(cancels, Op{Kind: OpCancel, Line: line})
	}

	ops := make([]Op, 0, len(inserts)+len(updates)+len(cancels))
	ops = append(ops, inserts...)
	ops = append(ops, updates...)
	ops = append(ops, cancels...)

	serverTotal := ServerTotal(persisted)
	montant := serverTotal
	if math.Abs(declared-serverTotal) > MontantTolerance {
		// Le client reflète l'édition en cours que le serveur n'a pas
		// encore persistée : son montant fait foi.
		montant = declared
	}
	return Result{Ops: ops, Montant: montant, ServerTotal: serverTotal}
}

// ServerTotal calcule le total des lignes persistées actives,
// arrondi à deux décimales.
func ServerTotal(persisted []models.OrderLine) float64 {
	var total float64
	for _, line := range persisted {
		if line.IsAnnulee {
			continue
		}
		total += float64(line.Qte) * line.PrixUnitaire * (1 - line.Remise)
	}
	return math.Round(total*100) / 100
}
