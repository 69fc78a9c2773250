package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/acfc/acfc/internal/models"
	"github.com/acfc/acfc/internal/services"
	"go.uber.org/zap"
)

func TestClientCreateAndSearch(t *testing.T) {
	db := setupHandlerDB(t)
	h := NewClientHandler(services.NewClientService(db), zap.NewNop())

	body := `{"type_client":1,"prenom":"Marie","nom":"Durand","reduces":0.10}`
	r := httptest.NewRequest(http.MethodPost, "/clients", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Create(w, asUser(r, "admin"))
	if w.Code != http.StatusCreated {
		t.Fatalf("create: want 201 got %d: %s", w.Code, w.Body.String())
	}

	r = httptest.NewRequest(http.MethodGet, "/clients?search=durand", nil)
	w = httptest.NewRecorder()
	h.Search(w, asUser(r, "admin"))
	if w.Code != http.StatusOK {
		t.Fatalf("search: want 200 got %d", w.Code)
	}
	var resp struct {
		Count int `json:"count"`
		Items []struct {
			Nom string `json:"nom"`
		} `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 || resp.Items[0].Nom != "Marie Durand" {
		t.Fatalf("search result: %+v", resp)
	}
}

func TestClientCreateValidation(t *testing.T) {
	db := setupHandlerDB(t)
	h := NewClientHandler(services.NewClientService(db), zap.NewNop())

	cases := []string{
		`{"type_client":1}`,                              // nom/prénom manquants
		`{"type_client":2}`,                              // raison sociale manquante
		`{"type_client":9,"nom":"X"}`,                    // type inconnu
		`{"type_client":1,"prenom":"A","nom":"B","reduces":2}`, // remise hors bornes
	}
	for _, body := range cases {
		r := httptest.NewRequest(http.MethodPost, "/clients", strings.NewReader(body))
		w := httptest.NewRecorder()
		h.Create(w, asUser(r, "admin"))
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: want 400 got %d", body, w.Code)
		}
	}
}

func TestClientDetail(t *testing.T) {
	db := setupHandlerDB(t)
	h := NewClientHandler(services.NewClientService(db), zap.NewNop())
	client := seedHandlerClient(t, db)
	db.Create(&models.Adresse{IDClient: client.ID, AdresseL1: "1 rue", CodePostal: "75001", Ville: "Paris"})

	r := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/clients/detail?id=%d", client.ID), nil)
	w := httptest.NewRecorder()
	h.Detail(w, asUser(r, "admin"))
	if w.Code != http.StatusOK {
		t.Fatalf("want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Marie Durand") {
		t.Errorf("body: %s", w.Body.String())
	}

	r = httptest.NewRequest(http.MethodGet, "/clients/detail?id=999", nil)
	w = httptest.NewRecorder()
	h.Detail(w, asUser(r, "admin"))
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown client: want 404 got %d", w.Code)
	}
}

func TestParseBoolParam(t *testing.T) {
	if v := parseBoolParam("1"); v == nil || !*v {
		t.Error("1 should be true")
	}
	if v := parseBoolParam("non"); v == nil || *v {
		t.Error("non should be false")
	}
	if v := parseBoolParam(""); v != nil {
		t.Error("empty should be nil")
	}
	if v := parseBoolParam("garbage"); v != nil {
		t.Error("garbage should be nil")
	}
}
