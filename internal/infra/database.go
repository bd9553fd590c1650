package infra

import (
	"github.com/armencho53/JMSK-Backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx. Schema creation
// is a separate step — see RunMigrations.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// Repositories match on gorm.ErrDuplicatedKey to resolve
		// get-or-create races, so driver errors must be translated.
		TranslateError: true,
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

	return db, nil
}

// RunMigrations creates or updates the schema. Shared with integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Metal{},
		&model.Company{},
		&model.Order{},
		&model.SafeSupply{},
		&model.CompanyMetalBalance{},
		&model.MetalTransaction{},
	); err != nil {
		return err
	}

	// Postgres unique indexes treat NULLs as distinct, so uq_safe_supply
	// does not constrain the generic alloy row (metal_id IS NULL). A
	// partial unique index closes that gap.
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uq_safe_supply_alloy
		ON safe_supplies (tenant_id, supply_type) WHERE metal_id IS NULL`).Error
}
