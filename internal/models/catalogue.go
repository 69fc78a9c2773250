package models

import (
	"fmt"
	"strings"
	"time"
)

// Catalogue — produit du catalogue de vente.
type Catalogue struct {
	ID uint `gorm:"primaryKey"`

	TypeProduit     string  `gorm:"size:100;not null"`
	STypeProduit    string  `gorm:"size:100;not null"`
	Millesime       int     `gorm:"not null"`
	PrixUnitaireHT  float64 `gorm:"not null;default:0"`

	CreatedAt  time.Time
	CreatedBy  string `gorm:"size:100;not null;default:'system'"`
	ModifiedAt time.Time
	ModifiedBy string `gorm:"size:100"`
}

// RefAuto génère la référence lisible du produit : deux derniers chiffres du
// millésime + quatre premières lettres du type + id sur deux chiffres.
func (c *Catalogue) RefAuto() string {
	millesime := fmt.Sprintf("%d", c.Millesime)
	if len(millesime) > 2 {
		millesime = millesime[len(millesime)-2:]
	}
	t := strings.ToUpper(c.TypeProduit)
	if len(t) > 4 {
		t = t[:4]
	}
	return fmt.Sprintf("%s%s%02d", millesime, t, c.ID)
}

// DesAuto génère la désignation automatique du produit.
func (c *Catalogue) DesAuto() string {
	return fmt.Sprintf("%s TARIF %d", strings.ToUpper(c.STypeProduit), c.Millesime)
}
