package model

import (
	"time"

	"github.com/google/uuid"
)

// Order is the read-only projection of a manufacturing order consumed by the
// casting consumption flow. Order administration is a separate subsystem;
// this module only reads the fields the consumption calculation needs.
// MetalCode nil or TargetWeightPerPiece zero means the order is not yet
// fully specified for casting — consumption soft-skips it.
type Order struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID             uuid.UUID `gorm:"type:uuid;not null;index"`
	CompanyID            uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderNumber          string    `gorm:"not null"`
	MetalCode            *string
	Quantity             int     `gorm:"not null;default:0"`
	TargetWeightPerPiece float64 `gorm:"not null;default:0"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (Order) TableName() string { return "orders" }
