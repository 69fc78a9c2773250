package db

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/acfc/acfc/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Modèles migrés au démarrage, dans l'ordre des dépendances de clés étrangères.
func allModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Client{}, &models.Part{}, &models.Pro{},
		&models.Mail{}, &models.Telephone{}, &models.Adresse{},
		&models.Order{}, &models.OrderLine{}, &models.Facture{}, &models.Expedition{},
		&models.Catalogue{}, &models.Stock{},
		&models.PCG{}, &models.Operation{}, &models.Ventilation{}, &models.PieceComptable{},
	}
}

// ConnectAndMigrate ouvre la connexion MariaDB, applique les migrations et
// retourne le handle gorm. Avec MIGRATIONS=1 les migrations SQL versionnées
// sont jouées via golang-migrate, sinon AutoMigrate (confort développement).
func ConnectAndMigrate(dsnRaw string, log *zap.Logger) (*gorm.DB, error) {
	dsn := NormalizeDSN(dsnRaw)
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_DSN est vide, vérifiez la configuration de l'environnement")
	}
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var db *gorm.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = gorm.Open(mysql.Open(dsn), cfg)
		if err == nil {
			break
		}
		log.Warn("nouvelle tentative de connexion", zap.Error(err), zap.Int("essai", i+1))
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}

	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	// DSN masqué une fois pour diagnostic.
	masked := regexp.MustCompile(`:([^:@]+)@`).ReplaceAllString(dsn, ":***@")
	log.Info("base de données connectée", zap.String("dsn", masked))

	if v := strings.ToLower(os.Getenv("MIGRATIONS")); v == "1" || v == "true" || v == "yes" {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		for _, m := range allModels() {
			if migErr := db.AutoMigrate(m); migErr != nil {
				return nil, fmt.Errorf("automigrate %T: %w", m, migErr)
			}
		}
	}

	for _, table := range []string{"users", "clients", "orders", "order_lines"} {
		if !db.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}

	if v := strings.ToLower(os.Getenv("DB_SEED")); v == "1" || v == "true" || v == "yes" {
		Seed(db)
	}
	return db, nil
}

// Seed insère les référentiels de base : racines du plan comptable et types
// de stock. Idempotent, réservé au développement (DB_SEED=1).
func Seed(db *gorm.DB) {
	pcgRoots := []models.PCG{
		{Compte: 411000, Classe: 4, Categorie1: 1, Categorie2: 1, Denomination: "Clients"},
		{Compte: 512000, Classe: 5, Categorie1: 1, Categorie2: 2, Denomination: "Banques"},
		{Compte: 707000, Classe: 7, Categorie1: 0, Categorie2: 7, Denomination: "Ventes de marchandises"},
		{Compte: 445710, Classe: 4, Categorie1: 4, Categorie2: 5, Denomination: "TVA collectée"},
	}
	for _, p := range pcgRoots {
		var existing models.PCG
		if err := db.Where("compte = ?", p.Compte).First(&existing).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			db.Create(&p)
		}
	}
	stockTypes := []models.Stock{
		{TypeCode: models.StockEuros, ValValeur: 1.29, Qte: 0},
		{TypeCode: models.StockTVPFrance, ValValeur: 0, TVPValeur: 1.39, TVPPoids: "020g", Qte: 0},
	}
	for _, s := range stockTypes {
		var existing models.Stock
		if err := db.Where("type_code = ? AND val_valeur = ?", s.TypeCode, s.ValValeur).
			First(&existing).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			db.Create(&s)
		}
	}
}
