package models

import (
	"testing"
	"time"
)

func TestGenerateFiscalID(t *testing.T) {
	f := Facture{ID: 123, DateFacturation: time.Date(2021, 7, 15, 0, 0, 0, 0, time.UTC)}
	got, err := f.GenerateFiscalID()
	if err != nil {
		t.Fatal(err)
	}
	// Base 202107000123, somme pondérée 1/3 = 42, clé = (10-2)%10 = 8.
	want := "2021-07-000123-8"
	if got != want {
		t.Fatalf("fiscal id: want %s got %s", want, got)
	}
}

func TestCleEAN13(t *testing.T) {
	cases := []struct {
		base string
		want string
	}{
		{"400638133393", "1"}, // EAN connu 4006381333931
		{"978020137962", "4"},
		{"000000000000", "0"},
	}
	for _, c := range cases {
		got, err := cleEAN13(c.base)
		if err != nil {
			t.Errorf("%s: %v", c.base, err)
			continue
		}
		if got != c.want {
			t.Errorf("%s: want %s got %s", c.base, c.want, got)
		}
	}
	if _, err := cleEAN13("123"); err == nil {
		t.Error("short base must fail")
	}
	if _, err := cleEAN13("12345678901a"); err == nil {
		t.Error("non numeric base must fail")
	}
}

func TestOrderLinePrixTotal(t *testing.T) {
	l := OrderLine{Qte: 3, PrixUnitaire: 1.08, Remise: 0.10}
	if got := l.PrixTotal(); got != 2.92 {
		t.Fatalf("prix total: want 2.92 got %v", got)
	}
	if got := l.RemiseEuro(); got != 0.32 {
		t.Fatalf("remise euro: want 0.32 got %v", got)
	}
}

func TestClientNomAffichage(t *testing.T) {
	part := &Client{TypeClient: TypeParticulier, Part: &Part{Prenom: "Marie", Nom: "Durand"}}
	if got := part.NomAffichage(); got != "Marie Durand" {
		t.Errorf("particulier: %q", got)
	}
	pro := &Client{TypeClient: TypeProfessionnel, Pro: &Pro{RaisonSociale: "ACME SAS"}}
	if got := pro.NomAffichage(); got != "ACME SAS" {
		t.Errorf("professionnel: %q", got)
	}
	vide := &Client{TypeClient: TypeParticulier}
	if got := vide.NomAffichage(); got != "" {
		t.Errorf("fiche absente: %q", got)
	}
}

func TestCatalogueRefAuto(t *testing.T) {
	c := Catalogue{ID: 7, TypeProduit: "Cartes", STypeProduit: "Carte postale", Millesime: 2021}
	if got := c.RefAuto(); got != "21CART07" {
		t.Fatalf("ref auto: %s", got)
	}
	if got := c.DesAuto(); got != "CARTE POSTALE TARIF 2021" {
		t.Fatalf("des auto: %s", got)
	}
}

func TestStockCodes(t *testing.T) {
	eu := Stock{TypeCode: StockEuros, ValValeur: 1.20}
	if got := eu.CodeProduit(); got != "EU0120" {
		t.Errorf("code euros: %s", got)
	}
	tvp := Stock{TypeCode: StockTVPFrance, TVPPoids: "020g", TVPValeur: 1.39}
	if got := tvp.CodeProduit(); got != "VPF0020" {
		t.Errorf("code tvp: %s", got)
	}
	if got := tvp.PuHT(); got != 1.39 {
		t.Errorf("pu tvp: %v", got)
	}
}

func TestStockFrancsConversion(t *testing.T) {
	fr := Stock{TypeCode: StockFrancs, ValValeur: 6.55957, Qte: 10}
	if got := fr.PtFr(); got != 65.60 {
		t.Errorf("total francs: %v", got)
	}
	if got := fr.PtEu(); got != 10.00 {
		t.Errorf("total euros: %v", got)
	}
	if got := fr.PuHT(); got != 1.0 {
		t.Errorf("pu euros: %v", got)
	}
}
