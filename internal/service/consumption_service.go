package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/armencho53/JMSK-Backend/internal/domainerr"
	"github.com/armencho53/JMSK-Backend/internal/dto"
	"github.com/armencho53/JMSK-Backend/internal/metrics"
	"github.com/armencho53/JMSK-Backend/internal/model"
	"github.com/armencho53/JMSK-Backend/internal/repository"
	"github.com/armencho53/JMSK-Backend/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ConsumptionService computes and applies metal consumption for a completed
// casting step. The caller must invoke ProcessCasting at most once per
// completed casting step — the engine does not deduplicate repeat calls for
// the same order.
type ConsumptionService interface {
	ProcessCasting(ctx context.Context, tenantID, orderID, actorID uuid.UUID) (*dto.CastingConsumptionResult, error)
}

type consumptionService struct {
	orderRepo   repository.OrderRepository
	metalRepo   repository.MetalRepository
	safeRepo    repository.SafeSupplyRepository
	balanceRepo repository.CompanyBalanceRepository
	txnRepo     repository.TransactionRepository
	dispatcher  *worker.Dispatcher
}

func NewConsumptionService(
	orderRepo repository.OrderRepository,
	metalRepo repository.MetalRepository,
	safeRepo repository.SafeSupplyRepository,
	balanceRepo repository.CompanyBalanceRepository,
	txnRepo repository.TransactionRepository,
	dispatcher *worker.Dispatcher,
) ConsumptionService {
	return &consumptionService{
		orderRepo:   orderRepo,
		metalRepo:   metalRepo,
		safeRepo:    safeRepo,
		balanceRepo: balanceRepo,
		txnRepo:     txnRepo,
		dispatcher:  dispatcher,
	}
}

// splitConsumption divides a total casting weight into fine metal and alloy.
// alloy is derived by subtraction so that fine + alloy == total exactly.
func splitConsumption(totalWeight, finePercentage float64) (fineGrams, alloyGrams float64) {
	fineGrams = totalWeight * finePercentage
	alloyGrams = totalWeight - fineGrams
	return fineGrams, alloyGrams
}

// ProcessCasting implements the consumption protocol:
//
//  1. An order missing its metal code, target weight or quantity is skipped
//     with a warning — that is a soft no-op, not an error.
//  2. The fine/alloy split is computed from the metal's fine percentage.
//  3. The company balance is debited the fine grams; only the NEW deficit
//     (max(0,−after) − max(0,−before)) is drawn from the safe's fine metal —
//     metal the company had on balance was already in the safe on its behalf.
//  4. Alloy is always drawn from the manufacturer's generic alloy pool.
//  5. Two ledger rows are appended: fine (metal+company+order) and alloy
//     (order only).
//
// Steps 3–5 run in one transaction with row locks: all commit or none do.
func (s *consumptionService) ProcessCasting(ctx context.Context, tenantID, orderID, actorID uuid.UUID) (*dto.CastingConsumptionResult, error) {
	order, err := s.orderRepo.FindByID(ctx, tenantID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerr.NotFound("order", orderID.String())
		}
		return nil, err
	}

	if order.MetalCode == nil || *order.MetalCode == "" || order.TargetWeightPerPiece == 0 || order.Quantity <= 0 {
		log.Warn().
			Str("order_id", orderID.String()).
			Str("order_number", order.OrderNumber).
			Msg("order missing metal code or target weight, skipping casting consumption")
		metrics.ConsumptionsSkipped.Inc()
		return nil, nil
	}

	metal, err := s.metalRepo.FindByCode(ctx, tenantID, *order.MetalCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerr.Validation("order %s references unknown metal code %q", order.OrderNumber, *order.MetalCode)
		}
		return nil, err
	}
	if !metal.IsActive {
		return nil, domainerr.Validation("metal %s is inactive", metal.Code)
	}

	totalWeight := float64(order.Quantity) * order.TargetWeightPerPiece
	fineGrams, alloyGrams := splitConsumption(totalWeight, metal.FinePercentage)

	var result dto.CastingConsumptionResult
	var safeFineAfter, safeAlloyAfter float64
	txErr := runTx(ctx, s.balanceRepo.DB(), func(tx *gorm.DB) error {
		balance, err := s.balanceRepo.GetOrCreateTx(tx, tenantID, order.CompanyID, metal.ID)
		if err != nil {
			return err
		}
		balanceBefore := balance.BalanceGrams
		if err := s.balanceRepo.ApplyDeltaTx(tx, balance, -fineGrams); err != nil {
			return err
		}
		balanceAfter := balance.BalanceGrams

		// Only the portion not covered by the company's balance comes out of
		// the safe: the deficit newly created by this consumption.
		deficit := negativePart(balanceAfter) - negativePart(balanceBefore)

		safeFine, err := s.safeRepo.GetOrCreateTx(tx, tenantID, &metal.ID, model.SupplyTypeFineMetal)
		if err != nil {
			return err
		}
		if deficit > 0 {
			if err := s.safeRepo.ApplyDeltaTx(tx, safeFine, -deficit); err != nil {
				return err
			}
		}
		safeFineAfter = safeFine.QuantityGrams

		// Alloy is always sourced from the manufacturer, never the company.
		safeAlloy, err := s.safeRepo.GetOrCreateTx(tx, tenantID, nil, model.SupplyTypeAlloy)
		if err != nil {
			return err
		}
		if err := s.safeRepo.ApplyDeltaTx(tx, safeAlloy, -alloyGrams); err != nil {
			return err
		}
		safeAlloyAfter = safeAlloy.QuantityGrams

		fineTxn := model.MetalTransaction{
			TenantID:        tenantID,
			TransactionType: model.TxnConsumption,
			MetalID:         &metal.ID,
			CompanyID:       &order.CompanyID,
			OrderID:         &order.ID,
			QuantityGrams:   -fineGrams,
			Notes:           fmt.Sprintf("Casting consumption: %.4fg fine metal for order %s", fineGrams, order.OrderNumber),
			CreatedBy:       actorID,
		}
		if err := s.txnRepo.AppendTx(tx, &fineTxn); err != nil {
			return err
		}
		alloyTxn := model.MetalTransaction{
			TenantID:        tenantID,
			TransactionType: model.TxnConsumption,
			OrderID:         &order.ID,
			QuantityGrams:   -alloyGrams,
			Notes:           fmt.Sprintf("Casting consumption: %.4fg alloy for order %s", alloyGrams, order.OrderNumber),
			CreatedBy:       actorID,
		}
		if err := s.txnRepo.AppendTx(tx, &alloyTxn); err != nil {
			return err
		}

		result = dto.CastingConsumptionResult{
			MetalCode:           metal.Code,
			CompanyID:           order.CompanyID.String(),
			OrderID:             order.ID.String(),
			FineMetalGrams:      fineGrams,
			AlloyGrams:          alloyGrams,
			CompanyBalanceAfter: balanceAfter,
			SafeFineMetalAfter:  safeFineAfter,
			SafeAlloyAfter:      safeAlloyAfter,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	metrics.ConsumptionsTotal.Inc()
	metrics.GramsConsumed.WithLabelValues("fine").Add(fineGrams)
	metrics.GramsConsumed.WithLabelValues("alloy").Add(alloyGrams)

	s.alertDeficits(ctx, tenantID, metal, safeFineAfter, safeAlloyAfter)
	return &result, nil
}

// negativePart returns how far below zero v is, or 0.
func negativePart(v float64) float64 {
	if v < 0 {
		return -v
	}
	return 0
}

func (s *consumptionService) alertDeficits(ctx context.Context, tenantID uuid.UUID, metal *model.Metal, safeFineAfter, safeAlloyAfter float64) {
	if s.dispatcher == nil {
		return
	}
	if safeFineAfter < 0 {
		_ = s.dispatcher.EnqueueDeficitAlert(ctx, worker.DeficitAlertPayload{
			TenantID:      tenantID.String(),
			Metal:         metal.Code,
			SupplyType:    model.SupplyTypeFineMetal,
			QuantityGrams: safeFineAfter,
		})
	}
	if safeAlloyAfter < 0 {
		_ = s.dispatcher.EnqueueDeficitAlert(ctx, worker.DeficitAlertPayload{
			TenantID:      tenantID.String(),
			Metal:         "alloy",
			SupplyType:    model.SupplyTypeAlloy,
			QuantityGrams: safeAlloyAfter,
		})
	}
}
