package service

import (
	"context"
	"errors"
	"time"

	"github.com/armencho53/JMSK-Backend/internal/domainerr"
	"github.com/armencho53/JMSK-Backend/internal/dto"
	"github.com/armencho53/JMSK-Backend/internal/metrics"
	"github.com/armencho53/JMSK-Backend/internal/model"
	"github.com/armencho53/JMSK-Backend/internal/repository"
	"github.com/armencho53/JMSK-Backend/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SupplyService handles safe purchases, company deposits, manual safe
// adjustments, and the read side of supplies, balances and the ledger.
// Every mutating operation runs in a single transaction covering the rows
// it touches plus its ledger insert: it fully commits or fully rolls back.
type SupplyService interface {
	RecordPurchase(ctx context.Context, tenantID, actorID uuid.UUID, req dto.SafePurchaseRequest) (dto.TransactionResponse, error)
	RecordDeposit(ctx context.Context, tenantID, companyID, actorID uuid.UUID, req dto.MetalDepositRequest) (dto.TransactionResponse, error)
	RecordAdjustment(ctx context.Context, tenantID, actorID uuid.UUID, req dto.SafeAdjustmentRequest) (dto.TransactionResponse, error)
	ListSafeSupplies(ctx context.Context, tenantID uuid.UUID) ([]dto.SafeSupplyResponse, error)
	ListCompanyBalances(ctx context.Context, tenantID, companyID uuid.UUID) ([]dto.CompanyBalanceResponse, error)
	ListTransactions(ctx context.Context, tenantID uuid.UUID, filter dto.TransactionFilter) ([]dto.TransactionResponse, error)
}

type supplyService struct {
	metalRepo   repository.MetalRepository
	safeRepo    repository.SafeSupplyRepository
	balanceRepo repository.CompanyBalanceRepository
	txnRepo     repository.TransactionRepository
	companyRepo repository.CompanyRepository
	dispatcher  *worker.Dispatcher
}

func NewSupplyService(
	metalRepo repository.MetalRepository,
	safeRepo repository.SafeSupplyRepository,
	balanceRepo repository.CompanyBalanceRepository,
	txnRepo repository.TransactionRepository,
	companyRepo repository.CompanyRepository,
	dispatcher *worker.Dispatcher,
) SupplyService {
	return &supplyService{
		metalRepo:   metalRepo,
		safeRepo:    safeRepo,
		balanceRepo: balanceRepo,
		txnRepo:     txnRepo,
		companyRepo: companyRepo,
		dispatcher:  dispatcher,
	}
}

// ── RecordPurchase ───────────────────────────────────────────────────────────
// Bulk purchase into the manufacturer's safe. For FINE_METAL purchases the
// metal's weighted average cost is recalculated:
//
//	prior qty ≤ 0:  new_avg = cost_per_gram
//	otherwise:      new_avg = (old_avg*old_qty + cost*qty) / (old_qty + qty)

func (s *supplyService) RecordPurchase(ctx context.Context, tenantID, actorID uuid.UUID, req dto.SafePurchaseRequest) (dto.TransactionResponse, error) {
	if req.QuantityGrams <= 0 {
		return dto.TransactionResponse{}, domainerr.Validation("quantity_grams must be positive, got %v", req.QuantityGrams)
	}
	if req.CostPerGram.IsNegative() {
		return dto.TransactionResponse{}, domainerr.Validation("cost_per_gram must not be negative")
	}

	var metal *model.Metal
	var metalID *uuid.UUID
	if req.SupplyType == model.SupplyTypeFineMetal {
		if req.MetalID == nil {
			return dto.TransactionResponse{}, domainerr.Validation("metal_id is required for FINE_METAL purchases")
		}
		id, err := uuid.Parse(*req.MetalID)
		if err != nil {
			return dto.TransactionResponse{}, domainerr.Validation("metal_id is not a valid UUID")
		}
		m, err := s.metalRepo.FindByID(ctx, tenantID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.TransactionResponse{}, domainerr.NotFound("metal", *req.MetalID)
			}
			return dto.TransactionResponse{}, err
		}
		if !m.IsActive {
			return dto.TransactionResponse{}, domainerr.NotFound("metal", *req.MetalID)
		}
		metal = m
		metalID = &m.ID
	}

	var txn model.MetalTransaction
	var quantityAfter float64
	txErr := runTx(ctx, s.safeRepo.DB(), func(tx *gorm.DB) error {
		supply, err := s.safeRepo.GetOrCreateTx(tx, tenantID, metalID, req.SupplyType)
		if err != nil {
			return err
		}

		if metal != nil {
			// The catalog read above happened outside this transaction; a
			// concurrent purchase may have committed a new average since.
			// Re-read the row under its lock before folding in this one.
			current, err := s.metalRepo.FindActiveByCodeTx(tx, tenantID, metal.Code)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domainerr.NotFound("metal", *req.MetalID)
				}
				return err
			}
			newAvg := weightedAverage(current.AverageCostPerGram, supply.QuantityGrams, req.CostPerGram, req.QuantityGrams)
			if err := s.metalRepo.UpdateAverageCostTx(tx, current.ID, newAvg); err != nil {
				return err
			}
			metal.AverageCostPerGram = &newAvg
		}

		if err := s.safeRepo.ApplyDeltaTx(tx, supply, req.QuantityGrams); err != nil {
			return err
		}
		quantityAfter = supply.QuantityGrams

		txn = model.MetalTransaction{
			TenantID:        tenantID,
			TransactionType: model.TxnPurchase,
			MetalID:         metalID,
			QuantityGrams:   req.QuantityGrams,
			Notes:           req.Notes,
			CreatedBy:       actorID,
		}
		return s.txnRepo.AppendTx(tx, &txn)
	})
	if txErr != nil {
		return dto.TransactionResponse{}, txErr
	}

	metrics.PurchasesTotal.Inc()
	s.alertIfDeficit(ctx, tenantID, metal, req.SupplyType, quantityAfter)
	return s.mapTransaction(txn, metal), nil
}

// weightedAverage folds a purchase into the running average cost. A prior
// quantity at or below zero means the existing average no longer describes
// any physical stock, so the purchase price resets it.
func weightedAverage(oldAvg *decimal.Decimal, oldQty float64, cost decimal.Decimal, qty float64) decimal.Decimal {
	if oldQty <= 0 || oldAvg == nil {
		return cost
	}
	oldQtyDec := decimal.NewFromFloat(oldQty)
	qtyDec := decimal.NewFromFloat(qty)
	total := oldAvg.Mul(oldQtyDec).Add(cost.Mul(qtyDec))
	return total.Div(oldQtyDec.Add(qtyDec))
}

// ── RecordDeposit ────────────────────────────────────────────────────────────
// A company deposit is a dual update: the deposited metal is simultaneously a
// claim for the company (balance) and newly arrived physical stock (safe).

func (s *supplyService) RecordDeposit(ctx context.Context, tenantID, companyID, actorID uuid.UUID, req dto.MetalDepositRequest) (dto.TransactionResponse, error) {
	if req.QuantityGrams <= 0 {
		return dto.TransactionResponse{}, domainerr.Validation("quantity_grams must be positive, got %v", req.QuantityGrams)
	}

	if _, err := s.companyRepo.FindByID(ctx, tenantID, companyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TransactionResponse{}, domainerr.NotFound("company", companyID.String())
		}
		return dto.TransactionResponse{}, err
	}

	metalID, err := uuid.Parse(req.MetalID)
	if err != nil {
		return dto.TransactionResponse{}, domainerr.Validation("metal_id is not a valid UUID")
	}
	metal, err := s.metalRepo.FindByID(ctx, tenantID, metalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TransactionResponse{}, domainerr.NotFound("metal", req.MetalID)
		}
		return dto.TransactionResponse{}, err
	}
	if !metal.IsActive {
		return dto.TransactionResponse{}, domainerr.NotFound("metal", req.MetalID)
	}

	var txn model.MetalTransaction
	txErr := runTx(ctx, s.balanceRepo.DB(), func(tx *gorm.DB) error {
		balance, err := s.balanceRepo.GetOrCreateTx(tx, tenantID, companyID, metal.ID)
		if err != nil {
			return err
		}
		if err := s.balanceRepo.ApplyDeltaTx(tx, balance, req.QuantityGrams); err != nil {
			return err
		}

		supply, err := s.safeRepo.GetOrCreateTx(tx, tenantID, &metal.ID, model.SupplyTypeFineMetal)
		if err != nil {
			return err
		}
		if err := s.safeRepo.ApplyDeltaTx(tx, supply, req.QuantityGrams); err != nil {
			return err
		}

		txn = model.MetalTransaction{
			TenantID:        tenantID,
			TransactionType: model.TxnDeposit,
			MetalID:         &metal.ID,
			CompanyID:       &companyID,
			QuantityGrams:   req.QuantityGrams,
			Notes:           req.Notes,
			CreatedBy:       actorID,
		}
		return s.txnRepo.AppendTx(tx, &txn)
	})
	if txErr != nil {
		return dto.TransactionResponse{}, txErr
	}

	metrics.DepositsTotal.Inc()
	return s.mapTransaction(txn, metal), nil
}

// ── RecordAdjustment ─────────────────────────────────────────────────────────
// Manual correction of a safe entry (stocktake, spillage, recovered scrap).
// The signed delta is applied as-is and audited as an ADJUSTMENT row.

func (s *supplyService) RecordAdjustment(ctx context.Context, tenantID, actorID uuid.UUID, req dto.SafeAdjustmentRequest) (dto.TransactionResponse, error) {
	if req.DeltaGrams == 0 {
		return dto.TransactionResponse{}, domainerr.Validation("delta_grams must not be zero")
	}

	var metal *model.Metal
	var metalID *uuid.UUID
	if req.SupplyType == model.SupplyTypeFineMetal {
		if req.MetalID == nil {
			return dto.TransactionResponse{}, domainerr.Validation("metal_id is required for FINE_METAL adjustments")
		}
		id, err := uuid.Parse(*req.MetalID)
		if err != nil {
			return dto.TransactionResponse{}, domainerr.Validation("metal_id is not a valid UUID")
		}
		m, err := s.metalRepo.FindByID(ctx, tenantID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.TransactionResponse{}, domainerr.NotFound("metal", *req.MetalID)
			}
			return dto.TransactionResponse{}, err
		}
		metal = m
		metalID = &m.ID
	}

	var txn model.MetalTransaction
	var quantityAfter float64
	txErr := runTx(ctx, s.safeRepo.DB(), func(tx *gorm.DB) error {
		supply, err := s.safeRepo.GetOrCreateTx(tx, tenantID, metalID, req.SupplyType)
		if err != nil {
			return err
		}
		if err := s.safeRepo.ApplyDeltaTx(tx, supply, req.DeltaGrams); err != nil {
			return err
		}
		quantityAfter = supply.QuantityGrams

		txn = model.MetalTransaction{
			TenantID:        tenantID,
			TransactionType: model.TxnAdjustment,
			MetalID:         metalID,
			QuantityGrams:   req.DeltaGrams,
			Notes:           req.Notes,
			CreatedBy:       actorID,
		}
		return s.txnRepo.AppendTx(tx, &txn)
	})
	if txErr != nil {
		return dto.TransactionResponse{}, txErr
	}

	s.alertIfDeficit(ctx, tenantID, metal, req.SupplyType, quantityAfter)
	return s.mapTransaction(txn, metal), nil
}

// ── Reads ────────────────────────────────────────────────────────────────────

func (s *supplyService) ListSafeSupplies(ctx context.Context, tenantID uuid.UUID) ([]dto.SafeSupplyResponse, error) {
	supplies, err := s.safeRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.SafeSupplyResponse, 0, len(supplies))
	for _, sup := range supplies {
		resp := dto.SafeSupplyResponse{
			ID:            sup.ID.String(),
			SupplyType:    sup.SupplyType,
			QuantityGrams: sup.QuantityGrams,
		}
		if sup.MetalID != nil {
			id := sup.MetalID.String()
			resp.MetalID = &id
		}
		if sup.Metal != nil {
			resp.MetalCode = &sup.Metal.Code
			resp.MetalName = &sup.Metal.Name
		}
		result = append(result, resp)
	}
	return result, nil
}

func (s *supplyService) ListCompanyBalances(ctx context.Context, tenantID, companyID uuid.UUID) ([]dto.CompanyBalanceResponse, error) {
	if _, err := s.companyRepo.FindByID(ctx, tenantID, companyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerr.NotFound("company", companyID.String())
		}
		return nil, err
	}

	balances, err := s.balanceRepo.ListByCompany(ctx, tenantID, companyID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CompanyBalanceResponse, 0, len(balances))
	for _, b := range balances {
		resp := dto.CompanyBalanceResponse{
			ID:           b.ID.String(),
			MetalID:      b.MetalID.String(),
			BalanceGrams: b.BalanceGrams,
		}
		if b.Metal != nil {
			resp.MetalCode = b.Metal.Code
			resp.MetalName = b.Metal.Name
		}
		result = append(result, resp)
	}
	return result, nil
}

func (s *supplyService) ListTransactions(ctx context.Context, tenantID uuid.UUID, filter dto.TransactionFilter) ([]dto.TransactionResponse, error) {
	txns, err := s.txnRepo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	result := make([]dto.TransactionResponse, 0, len(txns))
	for _, t := range txns {
		result = append(result, s.mapTransaction(t, t.Metal))
	}
	return result, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func (s *supplyService) mapTransaction(t model.MetalTransaction, metal *model.Metal) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:              t.ID.String(),
		TransactionType: t.TransactionType,
		QuantityGrams:   t.QuantityGrams,
		Notes:           t.Notes,
		CreatedBy:       t.CreatedBy.String(),
		CreatedAt:       t.CreatedAt.UTC().Format(time.RFC3339),
	}
	if t.MetalID != nil {
		id := t.MetalID.String()
		resp.MetalID = &id
	}
	if metal != nil {
		resp.MetalCode = &metal.Code
	}
	if t.CompanyID != nil {
		id := t.CompanyID.String()
		resp.CompanyID = &id
	}
	if t.OrderID != nil {
		id := t.OrderID.String()
		resp.OrderID = &id
	}
	return resp
}

// alertIfDeficit enqueues a best-effort deficit alert when a safe entry ends
// up negative. Never part of the transaction — a failed enqueue must not
// roll back the operation.
func (s *supplyService) alertIfDeficit(ctx context.Context, tenantID uuid.UUID, metal *model.Metal, supplyType string, quantityAfter float64) {
	if s.dispatcher == nil || quantityAfter >= 0 {
		return
	}
	label := "alloy"
	if metal != nil {
		label = metal.Code
	}
	_ = s.dispatcher.EnqueueDeficitAlert(ctx, worker.DeficitAlertPayload{
		TenantID:      tenantID.String(),
		Metal:         label,
		SupplyType:    supplyType,
		QuantityGrams: quantityAfter,
	})
}
