package models

import "time"

// Nombre d'échecs de connexion avant verrouillage du compte.
const MaxLoginErrors = 3

// User — utilisateur interne de l'application.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Prenom    string `gorm:"size:100;not null"`
	Nom       string `gorm:"size:100;not null"`
	Pseudo    string `gorm:"size:100;not null;uniqueIndex"`
	Email     string `gorm:"size:100;not null;uniqueIndex"`
	Telephone string `gorm:"size:20;not null"`

	// Mot de passe haché avec Argon2id.
	ShaMdp     string `gorm:"size:255;not null"`
	IsChgMdp   bool   `gorm:"not null;default:false"` // changement de mot de passe requis
	DateChgMdp time.Time

	NbErrors int  `gorm:"not null;default:0"`
	IsLocked bool `gorm:"not null;default:false"`

	// Habilitations : chaîne de niveaux, ex: "137" (admin + clients + vente).
	Permission string `gorm:"size:10;not null"`

	// Sans tag default : un utilisateur créé inactif doit le rester.
	IsActive  bool `gorm:"not null"`
	Debut     time.Time
	Fin       *time.Time
	CreatedAt time.Time
}
