package infra

import (
	"fmt"

	"github.com/Nokho11/gestion-vente/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// to create / update all tables, then applies the idempotent SQL patches
// that GORM cannot express (the ticket number sequence).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates the schema. Also used by the integration tests
// against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Produit{},
		&model.Client{},
		&model.Vente{},
		&model.MouvementStock{},
		&model.Utilisateur{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot handle.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Atomic ticket number generation for ventes
		`CREATE SEQUENCE IF NOT EXISTS ventes_numero_ticket_seq START 1`,
	}
	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql, err)
		}
	}
	return nil
}
