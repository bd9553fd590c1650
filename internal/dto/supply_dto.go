package dto

import "github.com/shopspring/decimal"

type SafePurchaseRequest struct {
	MetalID       *string         `json:"metal_id"` // required for FINE_METAL, ignored for ALLOY
	SupplyType    string          `json:"supply_type" validate:"required,oneof=FINE_METAL ALLOY"`
	QuantityGrams float64         `json:"quantity_grams" validate:"gt=0"`
	CostPerGram   decimal.Decimal `json:"cost_per_gram" validate:"min=0"`
	Notes         string          `json:"notes"`
}

type SafeAdjustmentRequest struct {
	MetalID    *string `json:"metal_id"`
	SupplyType string  `json:"supply_type" validate:"required,oneof=FINE_METAL ALLOY"`
	DeltaGrams float64 `json:"delta_grams"`
	Notes      string  `json:"notes"`
}

type MetalDepositRequest struct {
	MetalID       string  `json:"metal_id" validate:"required,uuid"`
	QuantityGrams float64 `json:"quantity_grams" validate:"gt=0"`
	Notes         string  `json:"notes"`
}

type SafeSupplyResponse struct {
	ID            string  `json:"id"`
	MetalID       *string `json:"metal_id"`
	MetalCode     *string `json:"metal_code"`
	MetalName     *string `json:"metal_name"`
	SupplyType    string  `json:"supply_type"`
	QuantityGrams float64 `json:"quantity_grams"`
}

type CompanyBalanceResponse struct {
	ID           string  `json:"id"`
	MetalID      string  `json:"metal_id"`
	MetalCode    string  `json:"metal_code"`
	MetalName    string  `json:"metal_name"`
	BalanceGrams float64 `json:"balance_grams"`
}

type TransactionResponse struct {
	ID              string  `json:"id"`
	TransactionType string  `json:"transaction_type"`
	MetalID         *string `json:"metal_id"`
	MetalCode       *string `json:"metal_code"`
	CompanyID       *string `json:"company_id"`
	OrderID         *string `json:"order_id"`
	QuantityGrams   float64 `json:"quantity_grams"`
	Notes           string  `json:"notes"`
	CreatedBy       string  `json:"created_by"`
	CreatedAt       string  `json:"created_at"`
}

// TransactionFilter narrows the ledger query. Zero values mean "no filter".
type TransactionFilter struct {
	CompanyID       string
	MetalID         string
	TransactionType string
}
