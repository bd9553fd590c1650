package repository

import (
	"context"

	"github.com/armencho53/JMSK-Backend/internal/dto"
	"github.com/armencho53/JMSK-Backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionRepository is the append-only audit ledger. There is
// deliberately no update or delete method — history is never rewritten.
type TransactionRepository interface {
	AppendTx(tx *gorm.DB, t *model.MetalTransaction) error
	List(ctx context.Context, tenantID uuid.UUID, filter dto.TransactionFilter) ([]model.MetalTransaction, error)
	ListByCompany(ctx context.Context, tenantID, companyID uuid.UUID, limit int) ([]model.MetalTransaction, error)
	DB() *gorm.DB
}

type transactionRepo struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db: db}
}

func (r *transactionRepo) AppendTx(tx *gorm.DB, t *model.MetalTransaction) error {
	return tx.Create(t).Error
}

func (r *transactionRepo) List(ctx context.Context, tenantID uuid.UUID, filter dto.TransactionFilter) ([]model.MetalTransaction, error) {
	var txns []model.MetalTransaction
	q := r.db.WithContext(ctx).Preload("Metal").Where("tenant_id = ?", tenantID)
	if filter.CompanyID != "" {
		q = q.Where("company_id = ?", filter.CompanyID)
	}
	if filter.MetalID != "" {
		q = q.Where("metal_id = ?", filter.MetalID)
	}
	if filter.TransactionType != "" {
		q = q.Where("transaction_type = ?", filter.TransactionType)
	}
	err := q.Order("created_at DESC").Find(&txns).Error
	return txns, err
}

func (r *transactionRepo) ListByCompany(ctx context.Context, tenantID, companyID uuid.UUID, limit int) ([]model.MetalTransaction, error) {
	var txns []model.MetalTransaction
	err := r.db.WithContext(ctx).Preload("Metal").
		Where("tenant_id = ? AND company_id = ?", tenantID, companyID).
		Order("created_at DESC").Limit(limit).
		Find(&txns).Error
	return txns, err
}

func (r *transactionRepo) DB() *gorm.DB { return r.db }
