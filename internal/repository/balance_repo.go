package repository

import (
	"context"
	"errors"

	"github.com/armencho53/JMSK-Backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CompanyBalanceRepository manages per-(tenant, company, metal) balance rows.
// Same locking discipline as SafeSupplyRepository: get-or-create takes a
// FOR UPDATE lock so a deposit racing a consumption on the same balance
// serializes.
type CompanyBalanceRepository interface {
	GetOrCreateTx(tx *gorm.DB, tenantID, companyID, metalID uuid.UUID) (*model.CompanyMetalBalance, error)
	ApplyDeltaTx(tx *gorm.DB, b *model.CompanyMetalBalance, delta float64) error
	ListByCompany(ctx context.Context, tenantID, companyID uuid.UUID) ([]model.CompanyMetalBalance, error)
	DB() *gorm.DB
}

type companyBalanceRepo struct{ db *gorm.DB }

func NewCompanyBalanceRepository(db *gorm.DB) CompanyBalanceRepository {
	return &companyBalanceRepo{db: db}
}

func (r *companyBalanceRepo) GetOrCreateTx(tx *gorm.DB, tenantID, companyID, metalID uuid.UUID) (*model.CompanyMetalBalance, error) {
	locked := func() *gorm.DB {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tenant_id = ? AND company_id = ? AND metal_id = ?", tenantID, companyID, metalID)
	}

	var b model.CompanyMetalBalance
	err := locked().First(&b).Error
	if err == nil {
		return &b, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	b = model.CompanyMetalBalance{
		TenantID:     tenantID,
		CompanyID:    companyID,
		MetalID:      metalID,
		BalanceGrams: 0,
	}
	if err := tx.Create(&b).Error; err != nil {
		// Lost a first-touch race: a concurrent transaction inserted the
		// row between our select and create. Lock theirs instead.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			b = model.CompanyMetalBalance{}
			if err := locked().First(&b).Error; err != nil {
				return nil, err
			}
			return &b, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *companyBalanceRepo) ApplyDeltaTx(tx *gorm.DB, b *model.CompanyMetalBalance, delta float64) error {
	err := tx.Model(&model.CompanyMetalBalance{}).Where("id = ?", b.ID).
		Update("balance_grams", gorm.Expr("balance_grams + ?", delta)).Error
	if err != nil {
		return err
	}
	b.BalanceGrams += delta
	return nil
}

func (r *companyBalanceRepo) ListByCompany(ctx context.Context, tenantID, companyID uuid.UUID) ([]model.CompanyMetalBalance, error) {
	var balances []model.CompanyMetalBalance
	err := r.db.WithContext(ctx).Preload("Metal").
		Where("tenant_id = ? AND company_id = ?", tenantID, companyID).
		Find(&balances).Error
	return balances, err
}

func (r *companyBalanceRepo) DB() *gorm.DB { return r.db }
