package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Metal is a tenant-scoped catalog entry for a metal type.
// Code is immutable after creation and unique per tenant.
// Metals are never hard-deleted; deactivation sets IsActive=false.
type Metal struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID       uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_metal_code_per_tenant"`
	Code           string    `gorm:"not null;uniqueIndex:uq_metal_code_per_tenant"`
	Name           string    `gorm:"not null"`
	FinePercentage float64   `gorm:"not null"` // purity fraction in [0,1]
	// AverageCostPerGram is the weighted average over all safe purchases.
	// Nil until the first FINE_METAL purchase is recorded.
	AverageCostPerGram *decimal.Decimal `gorm:"type:decimal(12,4)"`
	IsActive           bool             `gorm:"not null;default:true"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (Metal) TableName() string { return "metals" }
