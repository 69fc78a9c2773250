package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/acfc/acfc/internal/models"
	"github.com/acfc/acfc/internal/orders"
	"gorm.io/gorm"
)

var (
	// ErrOrderNotFound : la commande n'existe pas pour ce client. Le chemin
	// de modification échoue fermé, jamais de repli sur une commande vide.
	ErrOrderNotFound = errors.New("commande non trouvée")
	// ErrVersionConflict : la commande a été modifiée par une autre requête
	// entre le chargement et la soumission.
	ErrVersionConflict = errors.New("conflit de version sur la commande")
)

// OrderService porte les opérations de persistance des commandes.
type OrderService struct {
	DB *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService { return &OrderService{DB: db} }

// Get charge une commande et ses lignes, restreinte au client propriétaire.
func (s *OrderService) Get(orderID, clientID uint) (*models.Order, error) {
	var order models.Order
	err := s.DB.Preload("Lignes").Preload("AdresseLivraison").Preload("AdresseFacturation").
		Where("id = ? AND id_client = ?", orderID, clientID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Create enregistre une nouvelle commande et ses lignes dans une transaction.
// Les identifiants soumis sont ignorés : chaque ligne reçoit un id neuf.
func (s *OrderService) Create(order *models.Order, lines []orders.SubmittedLine, actor string) error {
	order.CreatedBy = actor
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for _, l := range lines {
			line := models.OrderLine{
				IDOrder:      order.ID,
				Reference:    l.Reference,
				Designation:  l.Designation,
				Qte:          l.Qte,
				PrixUnitaire: l.PrixUnitaire,
				Remise:       l.Remise,
				CreatedBy:    actor,
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ApplyReconciliation applique atomiquement le résultat d'un rapprochement :
// mise à jour de l'en-tête (avec contrôle de version) puis opérations de
// lignes dans l'ordre insert -> update -> cancel.
func (s *OrderService) ApplyReconciliation(order *models.Order, expectedVersion uint, res orders.Result, actor string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		head := tx.Model(&models.Order{}).
			Where("id = ? AND version = ?", order.ID, expectedVersion).
			Updates(map[string]any{
				"date_commande":          order.DateCommande,
				"descriptif":             order.Descriptif,
				"id_adresse_facturation": order.IDAdresseFacturation,
				"id_adresse_livraison":   order.IDAdresseLivraison,
				"is_ad_livraison":        order.IsAdLivraison,
				"montant":                res.Montant,
				"modified_by":            actor,
				"version":                expectedVersion + 1,
			})
		if head.Error != nil {
			return head.Error
		}
		if head.RowsAffected == 0 {
			return ErrVersionConflict
		}
		for _, op := range res.Ops {
			line := op.Line
			switch op.Kind {
			case orders.OpInsert:
				line.ID = 0
				line.IDOrder = order.ID
				if err := tx.Create(&line).Error; err != nil {
					return err
				}
			case orders.OpUpdate:
				err := tx.Model(&models.OrderLine{}).Where("id = ?", line.ID).
					Updates(map[string]any{
						"reference":     line.Reference,
						"designation":   line.Designation,
						"qte":           line.Qte,
						"prix_unitaire": line.PrixUnitaire,
						"remise":        line.Remise,
						"modified_by":   actor,
					}).Error
				if err != nil {
					return err
				}
			case orders.OpCancel:
				err := tx.Model(&models.OrderLine{}).Where("id = ?", line.ID).
					Updates(map[string]any{"is_annulee": true, "modified_by": actor}).Error
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Cancel annule une commande et toutes ses lignes (soft delete).
func (s *OrderService) Cancel(orderID, clientID uint, actor string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND id_client = ?", orderID, clientID).
			Updates(map[string]any{"is_annulee": true, "modified_by": actor})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrOrderNotFound
		}
		return tx.Model(&models.OrderLine{}).Where("id_order = ?", orderID).
			Updates(map[string]any{"is_annulee": true, "modified_by": actor}).Error
	})
}

// CurrentOrders liste les commandes en cours (non facturées ou non expédiées).
// clientID = 0 retourne les commandes de tous les clients.
func (s *OrderService) CurrentOrders(clientID uint) ([]models.Order, error) {
	q := s.DB.Preload("Lignes").Where("is_annulee = ? AND (is_facturee = ? OR is_expediee = ?)", false, false, false)
	if clientID != 0 {
		q = q.Where("id_client = ?", clientID)
	}
	var out []models.Order
	if err := q.Order("date_commande desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Indicators regroupe les indicateurs commerciaux du tableau de bord.
type Indicators struct {
	CACurrentMonth float64 `json:"ca_current_month"`
	CACurrentYear  float64 `json:"ca_current_year"`
	AverageBasket  float64 `json:"average_basket"`
	ActiveClients  int64   `json:"active_clients"`
	OrdersPerYear  int64   `json:"orders_per_year"`
}

// CommercialIndicators calcule le chiffre d'affaires mensuel et annuel, le
// panier moyen, les clients actifs et le nombre de commandes de l'année,
// sur les commandes facturées uniquement.
func (s *OrderService) CommercialIndicators(now time.Time) (*Indicators, error) {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	firstOfYear := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())

	billed := func() *gorm.DB {
		return s.DB.Model(&models.Order{}).Where("is_facturee = ?", true)
	}

	var ind Indicators
	var v sql.NullFloat64
	if err := billed().Where("date_commande >= ?", firstOfMonth).
		Select("SUM(montant)").Scan(&v).Error; err != nil {
		return nil, err
	}
	ind.CACurrentMonth = round2(v.Float64)

	v = sql.NullFloat64{}
	if err := billed().Where("date_commande >= ?", firstOfYear).
		Select("SUM(montant)").Scan(&v).Error; err != nil {
		return nil, err
	}
	ind.CACurrentYear = round2(v.Float64)

	v = sql.NullFloat64{}
	if err := billed().Where("date_commande >= ?", firstOfYear).
		Select("AVG(montant)").Scan(&v).Error; err != nil {
		return nil, err
	}
	ind.AverageBasket = round2(v.Float64)

	if err := billed().Where("date_commande >= ?", firstOfYear).
		Distinct("id_client").Count(&ind.ActiveClients).Error; err != nil {
		return nil, err
	}
	if err := billed().Where("date_commande >= ?", firstOfYear).
		Count(&ind.OrdersPerYear).Error; err != nil {
		return nil, err
	}
	return &ind, nil
}
