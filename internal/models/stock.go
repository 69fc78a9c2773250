package models

import (
	"fmt"
	"strings"
)

// Taux de conversion officiel franc français -> euro.
const TauxFrancEuro = 6.55957

// Codes de type de stock (timbres).
const (
	StockFrancs    = 1 // valeur faciale en francs
	StockEuros     = 2 // valeur faciale en euros
	StockTVPFrance = 3 // timbre à validité permanente France
	StockTVPEurope = 4 // timbre à validité permanente Europe
	StockTVPMonde  = 5 // timbre à validité permanente Monde
)

// Stock — ligne de stock de timbres, identifiée par (type, valeur faciale).
type Stock struct {
	TypeCode  int     `gorm:"primaryKey;autoIncrement:false"`
	ValValeur float64 `gorm:"primaryKey;autoIncrement:false"`
	Qte       int     `gorm:"not null;default:0"`
	TVPValeur float64
	TVPPoids  string `gorm:"size:4"` // ex: "020g"
}

// TypeValeur retourne le libellé court du type de stock.
func (s *Stock) TypeValeur() string {
	switch s.TypeCode {
	case StockFrancs:
		return "FR"
	case StockEuros:
		return "EU"
	case StockTVPFrance:
		return "VPF"
	case StockTVPEurope:
		return "VPE"
	case StockTVPMonde:
		return "VPM"
	}
	return "NAN"
}

// ValCode retourne la partie valeur du code produit sur 4 caractères :
// centimes pour les valeurs faciales, poids pour les TVP.
func (s *Stock) ValCode() string {
	if s.TypeCode <= StockEuros {
		return fmt.Sprintf("%04d", int(s.ValValeur*100+0.5))
	}
	poids := strings.TrimSuffix(s.TVPPoids, "g")
	for len(poids) < 4 {
		poids = "0" + poids
	}
	return poids
}

// CodeProduit concatène type et valeur (ex: "EU0120", "VPF0020").
func (s *Stock) CodeProduit() string { return s.TypeValeur() + s.ValCode() }

// PuHT retourne le prix unitaire HT en euros.
func (s *Stock) PuHT() float64 {
	switch {
	case s.TypeCode >= StockTVPFrance:
		return s.TVPValeur
	case s.TypeCode == StockEuros:
		return s.ValValeur
	}
	return s.ValValeur / TauxFrancEuro
}

// PtFr retourne la valeur totale de la ligne en francs (type francs uniquement).
func (s *Stock) PtFr() float64 {
	if s.TypeCode == StockFrancs {
		return round2(s.ValValeur * float64(s.Qte))
	}
	return 0
}

// PtEu retourne la valeur totale de la ligne en euros.
func (s *Stock) PtEu() float64 {
	switch s.TypeCode {
	case StockFrancs:
		return round2(s.ValValeur * float64(s.Qte) / TauxFrancEuro)
	case StockEuros:
		return round2(s.ValValeur * float64(s.Qte))
	}
	return round2(s.TVPValeur * float64(s.Qte))
}
