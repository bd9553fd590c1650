package dto

import "github.com/shopspring/decimal"

type CreateMetalRequest struct {
	Code           string           `json:"code" validate:"required,max=50"`
	Name           string           `json:"name" validate:"required"`
	FinePercentage float64          `json:"fine_percentage" validate:"min=0,max=1"`
	AverageCost    *decimal.Decimal `json:"average_cost_per_gram"`
}

// UpdateMetalRequest carries the mutable fields of a metal. Code is present
// only so that an attempt to change it can be rejected explicitly.
type UpdateMetalRequest struct {
	Code           *string          `json:"code"`
	Name           *string          `json:"name"`
	FinePercentage *float64         `json:"fine_percentage"`
	AverageCost    *decimal.Decimal `json:"average_cost_per_gram"`
	IsActive       *bool            `json:"is_active"`
}

type MetalResponse struct {
	ID             string           `json:"id"`
	Code           string           `json:"code"`
	Name           string           `json:"name"`
	FinePercentage float64          `json:"fine_percentage"`
	AverageCost    *decimal.Decimal `json:"average_cost_per_gram"`
	IsActive       bool             `json:"is_active"`
	CreatedAt      string           `json:"created_at"`
}
