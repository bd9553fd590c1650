package model

import (
	"time"

	"github.com/google/uuid"
)

// CompanyMetalBalance is the per-(tenant, company, metal) ledger of fine
// metal deposited minus consumed. Created lazily, zero-initialized. A
// negative balance means the company has consumed more than it deposited;
// the difference was drawn from the manufacturer's safe.
type CompanyMetalBalance struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_company_metal_balance"`
	CompanyID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_company_metal_balance"`
	MetalID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_company_metal_balance"`
	BalanceGrams float64   `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Metal *Metal `gorm:"foreignKey:MetalID"`
}

func (CompanyMetalBalance) TableName() string { return "company_metal_balances" }
