package models

import "time"

// Comptabilité : plan comptable général, opérations et leurs ventilations.
// Module en lecture principalement — les écritures proviennent d'imports.

// PCG — compte du plan comptable général.
type PCG struct {
	Compte       int    `gorm:"primaryKey;autoIncrement:false"`
	Classe       int    `gorm:"not null"`
	Categorie1   int    `gorm:"not null"`
	Categorie2   int    `gorm:"not null"`
	Denomination string `gorm:"size:100;not null"`
}

// Operation — opération comptable datée, ventilée sur un ou plusieurs comptes.
type Operation struct {
	ID               uint      `gorm:"primaryKey"`
	DateOperation    time.Time `gorm:"not null"`
	LibelleOperation string    `gorm:"size:100;not null"`
	MontantOperation float64   `gorm:"not null"`
	AnneeComptable   int       `gorm:"not null;index"`

	Ventilations []Ventilation `gorm:"foreignKey:IDOperation"`
	Documents    []PieceComptable `gorm:"foreignKey:IDOperation"`

	IsInactive bool `gorm:"not null;default:false"`
	CreatedAt  time.Time
	CreatedBy  string `gorm:"size:100"`
	ModifiedAt time.Time
	ModifiedBy string `gorm:"size:100"`
}

// Ventilation — imputation débit/crédit d'une opération sur un compte du PCG.
type Ventilation struct {
	ID          uint   `gorm:"primaryKey"`
	IDOperation uint   `gorm:"not null;index"`
	CompteID    int    `gorm:"not null;index"`
	Compte      *PCG   `gorm:"foreignKey:CompteID;references:Compte"`
	Sens        string `gorm:"size:10;not null"` // debit / credit
	MontantDebit  *float64
	MontantCredit *float64
	Banque        string `gorm:"size:100"`
	IDFacture     string `gorm:"size:13"` // id fiscal de la facture liée, le cas échéant
	IDCheque      string `gorm:"size:7"`

	IsInactive bool `gorm:"not null;default:false"`
	CreatedAt  time.Time
	CreatedBy  string `gorm:"size:100"`
	ModifiedAt time.Time
	ModifiedBy string `gorm:"size:100"`
}

// PieceComptable — document justificatif rattaché à une opération.
type PieceComptable struct {
	ID           uint   `gorm:"primaryKey"`
	IDOperation  uint   `gorm:"not null;index"`
	TypeDocument string `gorm:"size:50"`
	DateDocument *time.Time
	Nom          string `gorm:"size:255"`
	Chemin       string `gorm:"size:255"`
	CreatedAt    time.Time
	CreatedBy    string `gorm:"size:100"`
}
