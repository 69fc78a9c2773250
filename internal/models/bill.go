package models

import (
	"fmt"
	"time"
)

// Facture — facture émise pour tout ou partie des lignes d'une commande.
type Facture struct {
	ID       uint   `gorm:"primaryKey"`
	IDFiscal string `gorm:"size:20;uniqueIndex"`
	IDClient uint   `gorm:"not null;index"`
	IDOrder  uint   `gorm:"not null;index"`

	DateFacturation time.Time `gorm:"not null"`
	MontantFacture  float64   `gorm:"not null;default:0"`

	IsImprime      bool `gorm:"not null;default:false"`
	DateImpression *time.Time

	Lignes []OrderLine `gorm:"foreignKey:IDFacture"`

	CreatedAt time.Time
	CreatedBy string `gorm:"size:100"`
}

// GenerateFiscalID produit l'identifiant fiscal au format YYYY-MM-XXXXXX-C,
// où C est la clé de contrôle EAN-13 du code de base à 12 chiffres.
func (f *Facture) GenerateFiscalID() (string, error) {
	year := f.DateFacturation.Year()
	month := fmt.Sprintf("%02d", int(f.DateFacturation.Month()))
	idStr := fmt.Sprintf("%06d", f.ID)
	cle, err := cleEAN13(fmt.Sprintf("%d%s%s", year, month, idStr))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d-%s-%s-%s", year, month, idStr, cle), nil
}

// cleEAN13 calcule la clé de contrôle à partir d'un code de base de 12 chiffres.
func cleEAN13(baseCode string) (string, error) {
	if len(baseCode) != 12 {
		return "", fmt.Errorf("base code must be 12 digits long, got %d", len(baseCode))
	}
	total := 0
	for i, r := range baseCode {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("base code must be numeric, got %q", baseCode)
		}
		d := int(r - '0')
		if i%2 == 0 {
			total += d
		} else {
			total += d * 3
		}
	}
	return fmt.Sprintf("%d", (10-total%10)%10), nil
}
