package services

import (
	"errors"
	"time"

	"github.com/acfc/acfc/internal/models"
	"gorm.io/gorm"
)

var (
	ErrBillNotFound = errors.New("facture non trouvée")
	// ErrNoBillableLines : aucune des lignes demandées n'est facturable
	// (déjà facturée, annulée, ou étrangère à la commande).
	ErrNoBillableLines = errors.New("aucune ligne facturable")
)

// BillService porte la facturation : émission des factures à identifiant
// fiscal séquentiel et le marquage des lignes facturées.
type BillService struct {
	DB *gorm.DB
}

func NewBillService(db *gorm.DB) *BillService { return &BillService{DB: db} }

// BillLines facture les lignes sélectionnées d'une commande. L'identifiant
// fiscal est dérivé de l'id auto-incrémenté, donc la facture est créée
// d'abord puis complétée dans la même transaction. Quand toutes les lignes
// actives de la commande sont facturées, la commande passe is_facturee.
func (s *BillService) BillLines(clientID, orderID uint, lineIDs []uint, dateFacturation time.Time, actor string) (*models.Facture, error) {
	if len(lineIDs) == 0 {
		return nil, ErrNoBillableLines
	}
	var facture models.Facture
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := tx.Where("id = ? AND id_client = ? AND is_annulee = ?", orderID, clientID, false).
			First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		var lines []models.OrderLine
		err = tx.Where("id IN ? AND id_order = ? AND is_annulee = ? AND is_facture = ?",
			lineIDs, orderID, false, false).Find(&lines).Error
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrNoBillableLines
		}

		facture = models.Facture{
			IDClient:        clientID,
			IDOrder:         orderID,
			DateFacturation: dateFacturation,
			CreatedBy:       actor,
		}
		if err := tx.Create(&facture).Error; err != nil {
			return err
		}
		idFiscal, err := facture.GenerateFiscalID()
		if err != nil {
			return err
		}
		facture.IDFiscal = idFiscal

		var montant float64
		for _, l := range lines {
			montant += l.PrixTotal()
		}
		facture.MontantFacture = round2(montant)

		err = tx.Model(&models.Facture{}).Where("id = ?", facture.ID).
			Updates(map[string]any{"id_fiscal": facture.IDFiscal, "montant_facture": facture.MontantFacture}).Error
		if err != nil {
			return err
		}

		ids := make([]uint, 0, len(lines))
		for _, l := range lines {
			ids = append(ids, l.ID)
		}
		err = tx.Model(&models.OrderLine{}).Where("id IN ?", ids).
			Updates(map[string]any{
				"is_facture": true,
				"id_facture": facture.ID,
				"facture_by": actor,
			}).Error
		if err != nil {
			return err
		}

		// La commande est facturée quand il ne reste plus de ligne active
		// non facturée.
		var remaining int64
		err = tx.Model(&models.OrderLine{}).
			Where("id_order = ? AND is_annulee = ? AND is_facture = ?", orderID, false, false).
			Count(&remaining).Error
		if err != nil {
			return err
		}
		if remaining == 0 {
			err = tx.Model(&models.Order{}).Where("id = ?", orderID).
				Updates(map[string]any{
					"is_facturee":      true,
					"date_facturation": dateFacturation,
					"modified_by":      actor,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &facture, nil
}

// Get charge une facture et ses lignes.
func (s *BillService) Get(billID uint) (*models.Facture, error) {
	var facture models.Facture
	err := s.DB.Preload("Lignes").Where("id = ?", billID).First(&facture).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBillNotFound
	}
	if err != nil {
		return nil, err
	}
	return &facture, nil
}

// ForClient liste les factures d'un client, de la plus récente à la plus ancienne.
func (s *BillService) ForClient(clientID uint) ([]models.Facture, error) {
	var out []models.Facture
	err := s.DB.Where("id_client = ?", clientID).
		Order("date_facturation desc").Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MarkPrinted horodate la première impression d'une facture.
func (s *BillService) MarkPrinted(billID uint) error {
	now := time.Now()
	res := s.DB.Model(&models.Facture{}).
		Where("id = ? AND is_imprime = ?", billID, false).
		Updates(map[string]any{"is_imprime": true, "date_impression": &now})
	return res.Error
}
