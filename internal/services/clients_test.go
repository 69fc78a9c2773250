package services

import (
	"testing"

	"github.com/acfc/acfc/internal/models"
	"gorm.io/gorm"
)

func boolPtr(b bool) *bool { return &b }

func seedSearchFixtures(t *testing.T, db *gorm.DB) {
	t.Helper()
	svc := NewClientService(db)

	durand := &models.Client{TypeClient: models.TypeParticulier, IsActive: true,
		Part: &models.Part{Prenom: "Marie", Nom: "Durand"}}
	if err := svc.Create(durand, "test"); err != nil {
		t.Fatal(err)
	}
	db.Create(&models.Telephone{IDClient: durand.ID, TypeTelephone: "mobile_perso", Telephone: "0600000000"})
	db.Create(&models.Adresse{IDClient: durand.ID, AdresseL1: "1 rue", CodePostal: "75001", Ville: "Paris", IsPrincipal: true})

	acme := &models.Client{TypeClient: models.TypeProfessionnel, IsActive: true,
		Pro: &models.Pro{RaisonSociale: "ACME SAS", TypePro: 1, SIREN: "123456789"}}
	if err := svc.Create(acme, "test"); err != nil {
		t.Fatal(err)
	}
	db.Create(&models.Mail{IDClient: acme.ID, TypeMail: "professionnel", Mail: "contact@acme.fr"})
	db.Create(&models.Adresse{IDClient: acme.ID, AdresseL1: "2 av", CodePostal: "69002", Ville: "Lyon"})

	inactif := &models.Client{TypeClient: models.TypeParticulier, IsActive: false,
		Part: &models.Part{Prenom: "Paul", Nom: "Martin"}}
	if err := svc.Create(inactif, "test"); err != nil {
		t.Fatal(err)
	}
}

func TestSearchByName(t *testing.T) {
	db := setupTestDB(t)
	seedSearchFixtures(t, db)
	svc := NewClientService(db)

	got, err := svc.Search(SearchFilters{Search: "dur"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].NomAffichage() != "Marie Durand" {
		t.Fatalf("search durand: %d results", len(got))
	}

	got, err = svc.Search(SearchFilters{Search: "ACME"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].NomAffichage() != "ACME SAS" {
		t.Fatalf("search acme: %d results", len(got))
	}
}

func TestSearchFilters(t *testing.T) {
	db := setupTestDB(t)
	seedSearchFixtures(t, db)
	svc := NewClientService(db)

	got, err := svc.Search(SearchFilters{TypeClient: models.TypeProfessionnel})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("type pro: %d results", len(got))
	}

	got, err = svc.Search(SearchFilters{HasPhone: boolPtr(true)})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].TypeClient != models.TypeParticulier {
		t.Errorf("has_phone: %d results", len(got))
	}

	got, err = svc.Search(SearchFilters{HasEmail: boolPtr(false)})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("no email: %d results", len(got))
	}

	got, err = svc.Search(SearchFilters{Departement: "69"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].NomAffichage() != "ACME SAS" {
		t.Errorf("departement: %d results", len(got))
	}

	got, err = svc.Search(SearchFilters{Ville: "paris"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("ville: %d results", len(got))
	}

	got, err = svc.Search(SearchFilters{IsActive: boolPtr(false)})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].NomAffichage() != "Paul Martin" {
		t.Errorf("inactifs: %d results", len(got))
	}
}

func TestSearchLimitCapped(t *testing.T) {
	db := setupTestDB(t)
	seedSearchFixtures(t, db)
	svc := NewClientService(db)

	got, err := svc.Search(SearchFilters{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("limit 1: %d results", len(got))
	}
	// Limite aberrante ramenée au plafond, la requête reste valide.
	if _, err := svc.Search(SearchFilters{Limit: 1000000}); err != nil {
		t.Fatal(err)
	}
}

func TestCreateRequiresSatellite(t *testing.T) {
	db := setupTestDB(t)
	svc := NewClientService(db)

	err := svc.Create(&models.Client{TypeClient: models.TypeParticulier}, "test")
	if err == nil {
		t.Fatal("particulier sans fiche accepté")
	}
	// La transaction annule aussi l'en-tête.
	var count int64
	db.Model(&models.Client{}).Count(&count)
	if count != 0 {
		t.Fatalf("client orphelin persisté: %d", count)
	}
}

func TestCreateClientZeroValues(t *testing.T) {
	db := setupTestDB(t)
	svc := NewClientService(db)
	client := &models.Client{TypeClient: models.TypeParticulier, IsActive: false, Reduces: 0,
		Part: &models.Part{Prenom: "Jean", Nom: "Petit"}}
	if err := svc.Create(client, "test"); err != nil {
		t.Fatal(err)
	}

	after, err := svc.Get(client.ID)
	if err != nil {
		t.Fatal(err)
	}
	if after.IsActive {
		t.Error("client créé inactif relu actif")
	}
	if after.Reduces != 0 {
		t.Errorf("réduction nulle relue à %v", after.Reduces)
	}
}

func TestUpdateClient(t *testing.T) {
	db := setupTestDB(t)
	svc := NewClientService(db)
	client := &models.Client{TypeClient: models.TypeParticulier, IsActive: true, Reduces: 0.10,
		Part: &models.Part{Prenom: "Marie", Nom: "Durand"}}
	if err := svc.Create(client, "test"); err != nil {
		t.Fatal(err)
	}

	client.Notes = "client fidèle"
	client.Reduces = 0.15
	client.Part.Nom = "Durand-Leroy"
	if err := svc.Update(client, "paul"); err != nil {
		t.Fatal(err)
	}

	after, err := svc.Get(client.ID)
	if err != nil {
		t.Fatal(err)
	}
	if after.Notes != "client fidèle" || after.Reduces != 0.15 {
		t.Errorf("header not updated: %+v", after)
	}
	if after.Part == nil || after.Part.Nom != "Durand-Leroy" {
		t.Errorf("part not updated: %+v", after.Part)
	}
	if after.ModifiedBy != "paul" {
		t.Errorf("modified_by: %q", after.ModifiedBy)
	}
}
