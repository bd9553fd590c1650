package dto

type CastingCompletionRequest struct {
	OrderID string `json:"order_id" validate:"required,uuid"`
}

// CastingConsumptionResult is the snapshot returned after a casting
// consumption run. Skipped=true means the order was missing its metal code
// or target weight and no state was touched.
type CastingConsumptionResult struct {
	Skipped             bool    `json:"skipped"`
	MetalCode           string  `json:"metal_code,omitempty"`
	CompanyID           string  `json:"company_id,omitempty"`
	OrderID             string  `json:"order_id"`
	FineMetalGrams      float64 `json:"fine_metal_grams"`
	AlloyGrams          float64 `json:"alloy_grams"`
	CompanyBalanceAfter float64 `json:"company_balance_after"`
	SafeFineMetalAfter  float64 `json:"safe_fine_metal_after"`
	SafeAlloyAfter      float64 `json:"safe_alloy_after"`
}
