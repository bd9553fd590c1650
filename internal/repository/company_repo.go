package repository

import (
	"context"

	"github.com/armencho53/JMSK-Backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompanyRepository is a read-only projection — company administration lives
// in a separate subsystem. Lookups are tenant-scoped so a foreign company ID
// behaves exactly like a missing one.
type CompanyRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Company, error)
}

type companyRepo struct{ db *gorm.DB }

func NewCompanyRepository(db *gorm.DB) CompanyRepository { return &companyRepo{db: db} }

func (r *companyRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.Company, error) {
	var c model.Company
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}
