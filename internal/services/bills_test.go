package services

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestBillLinesPartial(t *testing.T) {
	db := setupTestDB(t)
	orderSvc := NewOrderService(db)
	billSvc := NewBillService(db)
	client, seeded := seedClientAndOrder(t, db)

	order, err := orderSvc.Get(seeded.ID, client.ID)
	if err != nil {
		t.Fatal(err)
	}
	date := time.Date(2021, 7, 15, 0, 0, 0, 0, time.UTC)

	// Facturer une seule des deux lignes.
	facture, err := billSvc.BillLines(client.ID, order.ID, []uint{order.Lignes[0].ID}, date, "marie")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(facture.IDFiscal, "2021-07-") {
		t.Errorf("fiscal id: %s", facture.IDFiscal)
	}
	if facture.MontantFacture != 10.00 {
		t.Errorf("montant: %v", facture.MontantFacture)
	}

	after, _ := orderSvc.Get(order.ID, client.ID)
	if after.IsFacturee {
		t.Error("order should not be fully billed yet")
	}
	var billed int
	for _, l := range after.Lignes {
		if l.IsFacture {
			billed++
			if l.IDFacture == nil || *l.IDFacture != facture.ID {
				t.Errorf("line not linked to bill: %+v", l)
			}
			if l.FactureBy != "marie" {
				t.Errorf("facture_by: %q", l.FactureBy)
			}
		}
	}
	if billed != 1 {
		t.Errorf("billed lines: %d", billed)
	}

	// Facturer le reste : la commande passe facturée.
	if _, err := billSvc.BillLines(client.ID, order.ID, []uint{order.Lignes[1].ID}, date, "marie"); err != nil {
		t.Fatal(err)
	}
	after, _ = orderSvc.Get(order.ID, client.ID)
	if !after.IsFacturee {
		t.Error("order should be fully billed")
	}
}

func TestBillLinesRejectsAlreadyBilled(t *testing.T) {
	db := setupTestDB(t)
	orderSvc := NewOrderService(db)
	billSvc := NewBillService(db)
	client, seeded := seedClientAndOrder(t, db)

	order, _ := orderSvc.Get(seeded.ID, client.ID)
	date := time.Now()
	if _, err := billSvc.BillLines(client.ID, order.ID, []uint{order.Lignes[0].ID}, date, "marie"); err != nil {
		t.Fatal(err)
	}
	// Même ligne refacturée : plus rien de facturable.
	_, err := billSvc.BillLines(client.ID, order.ID, []uint{order.Lignes[0].ID}, date, "marie")
	if !errors.Is(err, ErrNoBillableLines) {
		t.Fatalf("want ErrNoBillableLines got %v", err)
	}
}

func TestBillLinesEmptySelection(t *testing.T) {
	db := setupTestDB(t)
	billSvc := NewBillService(db)
	client, order := seedClientAndOrder(t, db)

	if _, err := billSvc.BillLines(client.ID, order.ID, nil, time.Now(), "marie"); !errors.Is(err, ErrNoBillableLines) {
		t.Fatalf("want ErrNoBillableLines got %v", err)
	}
}

func TestBillLinesUnknownOrder(t *testing.T) {
	db := setupTestDB(t)
	billSvc := NewBillService(db)
	client, order := seedClientAndOrder(t, db)

	_, err := billSvc.BillLines(client.ID, order.ID+50, []uint{1}, time.Now(), "marie")
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("want ErrOrderNotFound got %v", err)
	}
}

func TestMarkPrintedOnce(t *testing.T) {
	db := setupTestDB(t)
	orderSvc := NewOrderService(db)
	billSvc := NewBillService(db)
	client, seeded := seedClientAndOrder(t, db)

	order, _ := orderSvc.Get(seeded.ID, client.ID)
	facture, err := billSvc.BillLines(client.ID, order.ID, []uint{order.Lignes[0].ID}, time.Now(), "marie")
	if err != nil {
		t.Fatal(err)
	}
	if err := billSvc.MarkPrinted(facture.ID); err != nil {
		t.Fatal(err)
	}
	got, _ := billSvc.Get(facture.ID)
	if !got.IsImprime || got.DateImpression == nil {
		t.Fatalf("print not recorded: %+v", got)
	}
	first := *got.DateImpression
	// Une nouvelle impression ne change pas l'horodatage initial.
	if err := billSvc.MarkPrinted(facture.ID); err != nil {
		t.Fatal(err)
	}
	got, _ = billSvc.Get(facture.ID)
	if !got.DateImpression.Equal(first) {
		t.Error("first print date overwritten")
	}
}
