package model

import (
	"time"

	"github.com/google/uuid"
)

// Transaction types for MetalTransaction rows.
const (
	TxnDeposit     = "DEPOSIT"
	TxnConsumption = "CONSUMPTION"
	TxnPurchase    = "PURCHASE"
	TxnAdjustment  = "ADJUSTMENT"
)

// MetalTransaction is one row of the append-only audit ledger. Every
// balance-affecting event (deposit, purchase, casting consumption, manual
// adjustment) writes here. Rows are never updated or deleted; each balance
// is reconstructable as the sum of its signed ledger entries.
// Sign convention: positive for DEPOSIT/PURCHASE, negative for CONSUMPTION.
type MetalTransaction struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	TransactionType string     `gorm:"not null"` // DEPOSIT | CONSUMPTION | PURCHASE | ADJUSTMENT
	MetalID         *uuid.UUID `gorm:"type:uuid;index"` // nil for alloy movements
	CompanyID       *uuid.UUID `gorm:"type:uuid;index"`
	OrderID         *uuid.UUID `gorm:"type:uuid;index"`
	QuantityGrams   float64    `gorm:"not null"`
	Notes           string
	CreatedBy       uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt       time.Time

	Metal *Metal `gorm:"foreignKey:MetalID"`
}

func (MetalTransaction) TableName() string { return "metal_transactions" }
