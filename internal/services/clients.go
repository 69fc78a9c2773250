package services

import (
	"errors"
	"strings"

	"github.com/acfc/acfc/internal/models"
	"gorm.io/gorm"
)

var ErrClientNotFound = errors.New("client non trouvé")

// Limite dure sur les résultats de recherche, quel que soit le paramètre reçu.
const SearchLimitMax = 500

// ClientService porte la gestion du fichier clients : création avec la table
// satellite du bon type, recherche multicritères et mise à jour.
type ClientService struct {
	DB *gorm.DB
}

func NewClientService(db *gorm.DB) *ClientService { return &ClientService{DB: db} }

// Get charge un client avec ses coordonnées et son historique de commandes.
func (s *ClientService) Get(clientID uint) (*models.Client, error) {
	var client models.Client
	err := s.DB.Preload("Part").Preload("Pro").
		Preload("Tels").Preload("Mails").Preload("Adresses").
		Preload("Orders", func(db *gorm.DB) *gorm.DB {
			return db.Order("date_commande desc")
		}).
		First(&client, clientID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// Create enregistre un client et sa fiche Part ou Pro selon type_client.
func (s *ClientService) Create(client *models.Client, actor string) error {
	client.CreatedBy = actor
	return s.DB.Transaction(func(tx *gorm.DB) error {
		part, pro := client.Part, client.Pro
		client.Part, client.Pro = nil, nil
		if err := tx.Create(client).Error; err != nil {
			return err
		}
		switch client.TypeClient {
		case models.TypeParticulier:
			if part == nil {
				return errors.New("fiche particulier manquante")
			}
			part.IDClient = client.ID
			if err := tx.Create(part).Error; err != nil {
				return err
			}
			client.Part = part
		case models.TypeProfessionnel:
			if pro == nil {
				return errors.New("fiche professionnel manquante")
			}
			pro.IDClient = client.ID
			if err := tx.Create(pro).Error; err != nil {
				return err
			}
			client.Pro = pro
		default:
			return errors.New("type_client inconnu")
		}
		return nil
	})
}

// Update modifie les champs communs d'un client et sa fiche satellite.
func (s *ClientService) Update(client *models.Client, actor string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Client{}).Where("id = ?", client.ID).
			Updates(map[string]any{
				"is_active":   client.IsActive,
				"notes":       client.Notes,
				"reduces":     client.Reduces,
				"modified_by": actor,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrClientNotFound
		}
		if client.Part != nil {
			err := tx.Model(&models.Part{}).Where("id_client = ?", client.ID).
				Updates(map[string]any{
					"prenom":         client.Part.Prenom,
					"nom":            client.Part.Nom,
					"date_naissance": client.Part.DateNaissance,
					"lieu_naissance": client.Part.LieuNaissance,
				}).Error
			if err != nil {
				return err
			}
		}
		if client.Pro != nil {
			err := tx.Model(&models.Pro{}).Where("id_client = ?", client.ID).
				Updates(map[string]any{
					"raison_sociale": client.Pro.RaisonSociale,
					"type_pro":       client.Pro.TypePro,
					"siren":          client.Pro.SIREN,
					"rna":            client.Pro.RNA,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// SearchFilters — critères de la recherche clients. Les champs vides sont ignorés.
type SearchFilters struct {
	Search      string // nom, prénom ou raison sociale (contient)
	TypeClient  int    // 0 = tous
	HasPhone    *bool
	HasEmail    *bool
	Departement string // deux premiers chiffres du code postal
	Ville       string
	IsActive    *bool
	Limit       int
}

// Search exécute la recherche multicritères du fichier clients.
func (s *ClientService) Search(f SearchFilters) ([]models.Client, error) {
	limit := f.Limit
	if limit <= 0 || limit > SearchLimitMax {
		limit = SearchLimitMax
	}

	q := s.DB.Model(&models.Client{}).
		Preload("Part").Preload("Pro").Preload("Mails").Preload("Tels").Preload("Adresses").
		Joins("LEFT JOIN parts ON parts.id_client = clients.id").
		Joins("LEFT JOIN pros ON pros.id_client = clients.id")

	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + term + "%"
		q = q.Where("parts.nom LIKE ? OR parts.prenom LIKE ? OR pros.raison_sociale LIKE ?", like, like, like)
	}
	if f.TypeClient != 0 {
		q = q.Where("clients.type_client = ?", f.TypeClient)
	}
	if f.IsActive != nil {
		q = q.Where("clients.is_active = ?", *f.IsActive)
	}
	if f.HasPhone != nil {
		sub := s.DB.Model(&models.Telephone{}).Select("1").
			Where("telephones.id_client = clients.id AND telephones.is_inactive = ?", false)
		if *f.HasPhone {
			q = q.Where("EXISTS (?)", sub)
		} else {
			q = q.Where("NOT EXISTS (?)", sub)
		}
	}
	if f.HasEmail != nil {
		sub := s.DB.Model(&models.Mail{}).Select("1").
			Where("mails.id_client = clients.id AND mails.is_inactive = ?", false)
		if *f.HasEmail {
			q = q.Where("EXISTS (?)", sub)
		} else {
			q = q.Where("NOT EXISTS (?)", sub)
		}
	}
	if f.Departement != "" {
		sub := s.DB.Model(&models.Adresse{}).Select("1").
			Where("adresses.id_client = clients.id AND adresses.code_postal LIKE ?", f.Departement+"%")
		q = q.Where("EXISTS (?)", sub)
	}
	if f.Ville != "" {
		sub := s.DB.Model(&models.Adresse{}).Select("1").
			Where("adresses.id_client = clients.id AND adresses.ville LIKE ?", "%"+f.Ville+"%")
		q = q.Where("EXISTS (?)", sub)
	}

	var out []models.Client
	err := q.Group("clients.id").Order("clients.id").Limit(limit).Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
