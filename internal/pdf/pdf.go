// Package pdf génère les documents imprimables : factures officielles et
// notes d'achat. Les montants reçus sont déjà arrondis à 2 décimales.
package pdf

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// CompanyData — l'émetteur du document.
type CompanyData struct {
	Nom       string
	Adresse   string
	Ville     string
	SIREN     string
	Email     string
	Telephone string
}

// ClientData — le destinataire.
type ClientData struct {
	Nom     string
	Adresse string
	Ville   string
}

// LineData — une ligne facturée ou commandée.
type LineData struct {
	Reference    string
	Designation  string
	Qte          int
	PrixUnitaire float64
	Remise       float64 // fraction 0..1
	PrixTotal    float64
}

// FactureData porte tout le contenu d'une facture officielle.
type FactureData struct {
	IDFiscal        string
	DateFacturation time.Time
	Company         CompanyData
	Client          ClientData
	Lignes          []LineData
	MontantFacture  float64
}

// NoteAchatData porte le contenu d'une note d'achat (récapitulatif de
// commande remis au client avant facturation).
type NoteAchatData struct {
	NumeroCommande uint
	DateCommande   time.Time
	Descriptif     string
	Company        CompanyData
	Client         ClientData
	Lignes         []LineData
	Montant        float64
}

func newDocument() core.Maroto {
	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithRightMargin(15).
		WithTopMargin(15).
		Build()
	return maroto.New(cfg)
}

func addHeader(m core.Maroto, titre string, company CompanyData, client ClientData) {
	m.AddRow(10, text.NewCol(12, titre, props.Text{
		Size: 16, Style: fontstyle.Bold, Align: align.Center,
	}))
	m.AddRow(6, text.NewCol(6, company.Nom, props.Text{Size: 10, Style: fontstyle.Bold}))
	m.AddRow(5, text.NewCol(6, company.Adresse, props.Text{Size: 9}))
	m.AddRow(5, text.NewCol(6, company.Ville, props.Text{Size: 9}))
	if company.SIREN != "" {
		m.AddRow(5, text.NewCol(6, "SIREN : "+company.SIREN, props.Text{Size: 9}))
	}
	m.AddRow(8, text.NewCol(12, "", props.Text{}))
	m.AddRow(5, text.NewCol(12, client.Nom, props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}))
	m.AddRow(5, text.NewCol(12, client.Adresse, props.Text{Size: 9, Align: align.Right}))
	m.AddRow(5, text.NewCol(12, client.Ville, props.Text{Size: 9, Align: align.Right}))
	m.AddRow(4, line.NewCol(12))
}

func addLinesTable(m core.Maroto, lignes []LineData) {
	header := props.Text{Size: 9, Style: fontstyle.Bold}
	m.AddRow(7,
		text.NewCol(2, "Référence", header),
		text.NewCol(4, "Désignation", header),
		text.NewCol(1, "Qté", header),
		text.NewCol(2, "PU HT", header),
		text.NewCol(1, "Remise", header),
		text.NewCol(2, "Total", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)
	cell := props.Text{Size: 9}
	for _, l := range lignes {
		m.AddRow(6,
			text.NewCol(2, l.Reference, cell),
			text.NewCol(4, l.Designation, cell),
			text.NewCol(1, fmt.Sprintf("%d", l.Qte), cell),
			text.NewCol(2, fmt.Sprintf("%.2f €", l.PrixUnitaire), cell),
			text.NewCol(1, fmt.Sprintf("%.0f %%", l.Remise*100), cell),
			text.NewCol(2, fmt.Sprintf("%.2f €", l.PrixTotal), props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(4, line.NewCol(12))
}

// FacturePDF construit la facture officielle, avec l'identifiant fiscal en
// clair et en QR code pour le contrôle.
func FacturePDF(data FactureData) ([]byte, error) {
	m := newDocument()
	addHeader(m, "FACTURE", data.Company, data.Client)
	m.AddRow(6, text.NewCol(8, "Facture n° "+data.IDFiscal, props.Text{Size: 10, Style: fontstyle.Bold}),
		text.NewCol(4, "Date : "+data.DateFacturation.Format("02/01/2006"), props.Text{Size: 10, Align: align.Right}))
	m.AddRow(4, text.NewCol(12, "", props.Text{}))
	addLinesTable(m, data.Lignes)
	m.AddRow(8, text.NewCol(12, fmt.Sprintf("Total TTC : %.2f €", data.MontantFacture),
		props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Right}))
	m.AddRow(30, code.NewQrCol(3, data.IDFiscal, props.Rect{Center: true, Percent: 90}))
	m.AddRow(5, text.NewCol(12, "TVA non applicable, article 293 B du CGI", props.Text{Size: 8}))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("génération facture %s: %w", data.IDFiscal, err)
	}
	return doc.GetBytes(), nil
}

// NoteAchatPDF construit la note d'achat d'une commande en cours.
func NoteAchatPDF(data NoteAchatData) ([]byte, error) {
	m := newDocument()
	addHeader(m, "NOTE D'ACHAT", data.Company, data.Client)
	m.AddRow(6, text.NewCol(8, fmt.Sprintf("Commande n° %d", data.NumeroCommande), props.Text{Size: 10, Style: fontstyle.Bold}),
		text.NewCol(4, "Date : "+data.DateCommande.Format("02/01/2006"), props.Text{Size: 10, Align: align.Right}))
	if data.Descriptif != "" {
		m.AddRow(6, text.NewCol(12, data.Descriptif, props.Text{Size: 9, Style: fontstyle.Italic}))
	}
	m.AddRow(4, text.NewCol(12, "", props.Text{}))
	addLinesTable(m, data.Lignes)
	m.AddRow(8, text.NewCol(12, fmt.Sprintf("Montant : %.2f €", data.Montant),
		props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Right}))
	m.AddRow(30, code.NewQrCol(3, fmt.Sprintf("acfc:commande:%d", data.NumeroCommande), props.Rect{Center: true, Percent: 90}))
	m.AddRow(5, text.NewCol(12, "Document non fiscal, remis à titre indicatif", props.Text{Size: 8}))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("génération note d'achat %d: %w", data.NumeroCommande, err)
	}
	return doc.GetBytes(), nil
}
