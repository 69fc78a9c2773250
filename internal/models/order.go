package models

import (
	"math"
	"time"
)

// Order — commande client. Jamais supprimée physiquement : l'annulation
// passe par le flag is_annulee (commande et lignes) pour conserver
// l'historique comptable.
type Order struct {
	ID       uint `gorm:"primaryKey"`
	IDClient uint `gorm:"not null;index"`

	IsAdLivraison        bool `gorm:"not null;default:false"` // adresse de livraison distincte
	IDAdresseLivraison   *uint
	AdresseLivraison     *Adresse `gorm:"foreignKey:IDAdresseLivraison"`
	IDAdresseFacturation *uint
	AdresseFacturation   *Adresse `gorm:"foreignKey:IDAdresseFacturation"`

	Descriptif   string    `gorm:"size:255"`
	DateCommande time.Time `gorm:"not null"`
	Montant      float64   `gorm:"not null;default:0"`
	Lignes       []OrderLine `gorm:"foreignKey:IDOrder"`
	Factures     []Facture   `gorm:"foreignKey:IDOrder"`

	// État global de la commande.
	IsAnnulee  bool `gorm:"not null;default:false"`
	IsExpediee bool `gorm:"not null;default:false"` // true quand toute la commande est expédiée
	IsFacturee bool `gorm:"not null;default:false"` // true quand toute la commande est facturée

	DateExpedition   *time.Time
	DateFacturation  *time.Time

	// Compteur de version pour détecter les modifications concurrentes.
	Version uint `gorm:"not null;default:0"`

	CreatedAt  time.Time
	CreatedBy  string `gorm:"size:100"`
	ModifiedAt time.Time
	ModifiedBy string `gorm:"size:100"`
}

// OrderLine — ligne de commande/facture (produit, quantité, prix, remise).
// Suppression logique uniquement via is_annulee.
type OrderLine struct {
	ID      uint `gorm:"primaryKey"`
	IDOrder uint `gorm:"not null;index"`

	Reference    string  `gorm:"size:100;not null"`
	Designation  string  `gorm:"size:255;not null"`
	// Qte et Remise sans tag default : gorm omet les champs à zéro porteurs
	// d'un default à l'INSERT, une remise soumise à 0 serait stockée à 10 %.
	Qte          int     `gorm:"not null"`
	PrixUnitaire float64 `gorm:"not null;default:0"`
	Remise       float64 `gorm:"not null"` // fraction 0..1
	IsAnnulee    bool    `gorm:"not null;default:false"`

	// État de facturation de la ligne.
	IsFacture bool `gorm:"not null;default:false"`
	IDFacture *uint
	FactureBy string `gorm:"size:100"`

	// État d'expédition de la ligne.
	IsExpedie    bool `gorm:"not null;default:false"`
	IDExpedition *uint
	ExpedieBy    string `gorm:"size:100"`

	CreatedAt  time.Time
	CreatedBy  string `gorm:"size:100"`
	ModifiedAt time.Time
	ModifiedBy string `gorm:"size:100"`
}

// PrixTotal reproduit la colonne calculée qte * prix_unitaire * (1 - remise).
func (l *OrderLine) PrixTotal() float64 {
	return round2(float64(l.Qte) * l.PrixUnitaire * (1 - l.Remise))
}

// RemiseEuro retourne le montant de la remise en euros.
func (l *OrderLine) RemiseEuro() float64 {
	return round2(float64(l.Qte) * l.PrixUnitaire * l.Remise)
}

// Expedition — expédition (ou remise en main propre) d'une ligne de commande.
type Expedition struct {
	ID               uint `gorm:"primaryKey"`
	IDOrderLine      uint `gorm:"not null;index"`
	CQualite         string `gorm:"type:text"` // détail de la préparation de commande
	IsMainPropre     bool   `gorm:"not null;default:false"`
	NumeroExpedition string `gorm:"size:50"`
	DateRemise       time.Time `gorm:"not null"`
	CreatedAt        time.Time
	CreatedBy        string `gorm:"size:100"`
	ModifiedAt       time.Time
	ModifiedBy       string `gorm:"size:100"`
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
