package model

import (
	"time"

	"github.com/google/uuid"
)

// Supply types for SafeSupply rows.
const (
	SupplyTypeFineMetal = "FINE_METAL"
	SupplyTypeAlloy     = "ALLOY"
)

// SafeSupply tracks the manufacturer's own inventory pool ("the safe"),
// keyed by (tenant, metal, supply_type). MetalID is nil for the generic
// alloy pool. Rows are created lazily, zero-initialized, on first touch.
// QuantityGrams may be negative — that is a valid deficit state.
// uq_safe_supply does not cover rows with a NULL metal_id (Postgres treats
// index NULLs as distinct); the alloy row is kept unique by the partial
// index uq_safe_supply_alloy created in infra.RunMigrations.
type SafeSupply struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID      uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:uq_safe_supply"`
	MetalID       *uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_safe_supply"`
	SupplyType    string     `gorm:"not null;uniqueIndex:uq_safe_supply"` // FINE_METAL | ALLOY
	QuantityGrams float64    `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Metal *Metal `gorm:"foreignKey:MetalID"`
}

func (SafeSupply) TableName() string { return "safe_supplies" }
