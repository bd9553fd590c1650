package repository

import (
	"context"

	"github.com/armencho53/JMSK-Backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MetalRepository defines the data access contract for the metal catalog.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type MetalRepository interface {
	Create(ctx context.Context, m *model.Metal) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Metal, error)
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*model.Metal, error)
	CodeExists(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	List(ctx context.Context, tenantID uuid.UUID, includeInactive bool) ([]model.Metal, error)
	Update(ctx context.Context, m *model.Metal) error

	// Used inside transactions — callers must pass the tx instance.
	// FindActiveByCodeTx locks the row FOR UPDATE so average-cost updates
	// read the committed value, not a pre-transaction snapshot.
	FindActiveByCodeTx(tx *gorm.DB, tenantID uuid.UUID, code string) (*model.Metal, error)
	UpdateAverageCostTx(tx *gorm.DB, id uuid.UUID, avg decimal.Decimal) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type metalRepo struct{ db *gorm.DB }

func NewMetalRepository(db *gorm.DB) MetalRepository { return &metalRepo{db: db} }

func (r *metalRepo) Create(ctx context.Context, m *model.Metal) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *metalRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Metal, error) {
	var m model.Metal
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *metalRepo) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*model.Metal, error) {
	var m model.Metal
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *metalRepo) CodeExists(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Metal{}).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		Count(&count).Error
	return count > 0, err
}

func (r *metalRepo) List(ctx context.Context, tenantID uuid.UUID, includeInactive bool) ([]model.Metal, error) {
	var metals []model.Metal
	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if !includeInactive {
		q = q.Where("is_active = true")
	}
	err := q.Order("name ASC").Find(&metals).Error
	return metals, err
}

func (r *metalRepo) Update(ctx context.Context, m *model.Metal) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *metalRepo) FindActiveByCodeTx(tx *gorm.DB, tenantID uuid.UUID, code string) (*model.Metal, error) {
	var m model.Metal
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND code = ? AND is_active = true", tenantID, code).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *metalRepo) UpdateAverageCostTx(tx *gorm.DB, id uuid.UUID, avg decimal.Decimal) error {
	return tx.Model(&model.Metal{}).Where("id = ?", id).
		Update("average_cost_per_gram", avg).Error
}

func (r *metalRepo) DB() *gorm.DB { return r.db }
