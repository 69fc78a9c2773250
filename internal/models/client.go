package models

import "time"

// CRM : un client est soit un particulier (Part) soit un professionnel (Pro).
const (
	TypeParticulier   = 1
	TypeProfessionnel = 2
)

// Client entity — point central du CRM.
type Client struct {
	ID         uint `gorm:"primaryKey"`
	TypeClient int  `gorm:"not null;index"` // 1=Particulier, 2=Professionnel
	// IsActive et Reduces sans tag default : gorm les omettrait à l'INSERT
	// quand ils valent zéro (client créé inactif, réduction nulle).
	IsActive   bool `gorm:"not null"`
	Notes      string
	Reduces    float64 `gorm:"not null"` // réduction client (fraction 0..1)

	Part *Part `gorm:"foreignKey:IDClient"`
	Pro  *Pro  `gorm:"foreignKey:IDClient"`

	Tels     []Telephone `gorm:"foreignKey:IDClient"`
	Mails    []Mail      `gorm:"foreignKey:IDClient"`
	Adresses []Adresse   `gorm:"foreignKey:IDClient"`
	Orders   []Order     `gorm:"foreignKey:IDClient"`

	CreatedAt  time.Time
	CreatedBy  string `gorm:"size:100"`
	ModifiedAt time.Time
	ModifiedBy string `gorm:"size:100"`
}

// NomAffichage retourne le nom complet selon le type du client.
func (c *Client) NomAffichage() string {
	switch {
	case c.TypeClient == TypeParticulier && c.Part != nil:
		return c.Part.Prenom + " " + c.Part.Nom
	case c.TypeClient == TypeProfessionnel && c.Pro != nil:
		return c.Pro.RaisonSociale
	}
	return ""
}

// Part — données spécifiques d'un client particulier (personne physique).
type Part struct {
	ID            uint   `gorm:"primaryKey"`
	IDClient      uint   `gorm:"not null;index"`
	Prenom        string `gorm:"size:255;not null"`
	Nom           string `gorm:"size:255;not null;index"`
	DateNaissance *time.Time
	LieuNaissance string `gorm:"size:255"`
}

// Pro — données spécifiques d'un client professionnel (personne morale).
type Pro struct {
	ID            uint   `gorm:"primaryKey"`
	IDClient      uint   `gorm:"not null;index"`
	RaisonSociale string `gorm:"size:255;not null;index"`
	TypePro       int    `gorm:"not null"` // 1=Entreprise, 2=Association, 3=Administration
	SIREN         string `gorm:"size:9"`
	RNA           string `gorm:"size:10"`
}
