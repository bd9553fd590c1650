package repository

import (
	"context"

	"github.com/armencho53/JMSK-Backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderRepository is a read-only projection of manufacturing orders — just
// enough to drive the casting consumption calculation.
type OrderRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Order, error)
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}
