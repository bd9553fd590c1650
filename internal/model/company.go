package model

import (
	"time"

	"github.com/google/uuid"
)

// Company is the minimal projection of a client company needed by the metal
// ledger: deposits and balances reference it. Full company administration
// lives in a separate subsystem.
type Company struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Company) TableName() string { return "companies" }
