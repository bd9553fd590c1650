package repository

import (
	"context"
	"errors"

	"github.com/armencho53/JMSK-Backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SafeSupplyRepository manages the manufacturer's safe inventory rows.
// Get-or-create runs under a row lock so that two concurrent mutations of
// the same (tenant, metal, supply_type) entry serialize instead of losing
// an update.
type SafeSupplyRepository interface {
	// GetOrCreateTx returns the entry, creating a zero-valued row if absent.
	// The returned row is locked FOR UPDATE for the duration of tx.
	GetOrCreateTx(tx *gorm.DB, tenantID uuid.UUID, metalID *uuid.UUID, supplyType string) (*model.SafeSupply, error)
	// ApplyDeltaTx adds delta (may be negative) to the entry and mirrors the
	// new quantity on s. Negative results are valid deficit states.
	ApplyDeltaTx(tx *gorm.DB, s *model.SafeSupply, delta float64) error
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]model.SafeSupply, error)
	DB() *gorm.DB
}

type safeSupplyRepo struct{ db *gorm.DB }

func NewSafeSupplyRepository(db *gorm.DB) SafeSupplyRepository { return &safeSupplyRepo{db: db} }

func (r *safeSupplyRepo) GetOrCreateTx(tx *gorm.DB, tenantID uuid.UUID, metalID *uuid.UUID, supplyType string) (*model.SafeSupply, error) {
	locked := func() *gorm.DB {
		q := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tenant_id = ? AND supply_type = ?", tenantID, supplyType)
		if metalID != nil {
			return q.Where("metal_id = ?", *metalID)
		}
		return q.Where("metal_id IS NULL")
	}

	var s model.SafeSupply
	err := locked().First(&s).Error
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	s = model.SafeSupply{
		TenantID:      tenantID,
		MetalID:       metalID,
		SupplyType:    supplyType,
		QuantityGrams: 0,
	}
	if err := tx.Create(&s).Error; err != nil {
		// Lost a first-touch race: a concurrent transaction inserted the
		// row between our select and create. Lock theirs instead.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s = model.SafeSupply{}
			if err := locked().First(&s).Error; err != nil {
				return nil, err
			}
			return &s, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *safeSupplyRepo) ApplyDeltaTx(tx *gorm.DB, s *model.SafeSupply, delta float64) error {
	err := tx.Model(&model.SafeSupply{}).Where("id = ?", s.ID).
		Update("quantity_grams", gorm.Expr("quantity_grams + ?", delta)).Error
	if err != nil {
		return err
	}
	// Row is locked, so the in-memory mirror matches the DB arithmetic.
	s.QuantityGrams += delta
	return nil
}

func (r *safeSupplyRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]model.SafeSupply, error) {
	var supplies []model.SafeSupply
	err := r.db.WithContext(ctx).Preload("Metal").
		Where("tenant_id = ?", tenantID).
		Order("supply_type ASC").
		Find(&supplies).Error
	return supplies, err
}

func (r *safeSupplyRepo) DB() *gorm.DB { return r.db }
