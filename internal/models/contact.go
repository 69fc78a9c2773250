package models

import "time"

// Mail — adresse email d'un client. Plusieurs par client, une seule principale.
type Mail struct {
	ID          uint   `gorm:"primaryKey"`
	IDClient    uint   `gorm:"not null;index"`
	TypeMail    string `gorm:"size:100;not null"` // professionnel/personnel/facturation/marketing
	Detail      string `gorm:"size:255"`
	Mail        string `gorm:"size:255;not null"`
	IsPrincipal bool   `gorm:"not null;default:false"`
	IsInactive  bool   `gorm:"not null;default:false"`
	CreatedAt   time.Time
	CreatedBy   string `gorm:"size:100"`
	ModifiedAt  time.Time
	ModifiedBy  string `gorm:"size:100"`
}

// Telephone — numéro de téléphone d'un client avec indicatif international.
type Telephone struct {
	ID            uint   `gorm:"primaryKey"`
	IDClient      uint   `gorm:"not null;index"`
	TypeTelephone string `gorm:"size:100;not null"` // fixe_pro/mobile_pro/fixe_perso/mobile_perso/fax
	Detail        string `gorm:"size:255"`
	Indicatif     string `gorm:"size:5"` // ex: +33, +1, +49
	Telephone     string `gorm:"size:255;not null"`
	IsPrincipal   bool   `gorm:"not null;default:false"`
	IsInactive    bool   `gorm:"not null;default:false"`
	CreatedAt     time.Time
	CreatedBy     string `gorm:"size:100"`
	ModifiedAt    time.Time
	ModifiedBy    string `gorm:"size:100"`
}

// Adresse — adresse postale d'un client (livraison et/ou facturation).
type Adresse struct {
	ID          uint   `gorm:"primaryKey"`
	IDClient    uint   `gorm:"not null;index"`
	AdresseL1   string `gorm:"size:255;not null"`
	AdresseL2   string `gorm:"size:255"`
	CodePostal  string `gorm:"size:10;not null"`
	Ville       string `gorm:"size:100;not null"`
	Pays        string `gorm:"size:100;not null;default:'France'"`
	Detail      string `gorm:"size:255"`
	IsPrincipal bool   `gorm:"not null;default:false"`
	IsInactive  bool   `gorm:"not null;default:false"`
	CreatedAt   time.Time
	CreatedBy   string `gorm:"size:100"`
	ModifiedAt  time.Time
	ModifiedBy  string `gorm:"size:100"`
}

// Departement retourne les deux premiers chiffres du code postal.
func (a *Adresse) Departement() string {
	if len(a.CodePostal) < 2 {
		return ""
	}
	return a.CodePostal[:2]
}
