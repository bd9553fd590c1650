package tests

import (
	"context"
	"time"

	"github.com/armencho53/JMSK-Backend/internal/dto"
	"github.com/armencho53/JMSK-Backend/internal/model"
	"github.com/armencho53/JMSK-Backend/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory MetalRepository stub ───────────────────────────────────────────

type stubMetalRepo struct {
	metals map[uuid.UUID]*model.Metal
}

func newStubMetalRepo() *stubMetalRepo {
	return &stubMetalRepo{metals: make(map[uuid.UUID]*model.Metal)}
}

func (r *stubMetalRepo) Create(_ context.Context, m *model.Metal) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.metals[m.ID] = m
	return nil
}

func (r *stubMetalRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.Metal, error) {
	m, ok := r.metals[id]
	if !ok || m.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubMetalRepo) FindByCode(_ context.Context, tenantID uuid.UUID, code string) (*model.Metal, error) {
	for _, m := range r.metals {
		if m.TenantID == tenantID && m.Code == code {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubMetalRepo) CodeExists(_ context.Context, tenantID uuid.UUID, code string) (bool, error) {
	for _, m := range r.metals {
		if m.TenantID == tenantID && m.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubMetalRepo) List(_ context.Context, tenantID uuid.UUID, includeInactive bool) ([]model.Metal, error) {
	var result []model.Metal
	for _, m := range r.metals {
		if m.TenantID != tenantID {
			continue
		}
		if !includeInactive && !m.IsActive {
			continue
		}
		result = append(result, *m)
	}
	return result, nil
}

func (r *stubMetalRepo) Update(_ context.Context, m *model.Metal) error {
	r.metals[m.ID] = m
	return nil
}

func (r *stubMetalRepo) FindActiveByCodeTx(_ *gorm.DB, tenantID uuid.UUID, code string) (*model.Metal, error) {
	for _, m := range r.metals {
		if m.TenantID == tenantID && m.Code == code && m.IsActive {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubMetalRepo) UpdateAverageCostTx(_ *gorm.DB, id uuid.UUID, avg decimal.Decimal) error {
	m, ok := r.metals[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	m.AverageCostPerGram = &avg
	return nil
}

func (r *stubMetalRepo) DB() *gorm.DB { return nil }

// ── In-memory SafeSupplyRepository stub ──────────────────────────────────────

type stubSafeSupplyRepo struct {
	supplies []*model.SafeSupply
}

func newStubSafeSupplyRepo() *stubSafeSupplyRepo { return &stubSafeSupplyRepo{} }

func (r *stubSafeSupplyRepo) find(tenantID uuid.UUID, metalID *uuid.UUID, supplyType string) *model.SafeSupply {
	for _, s := range r.supplies {
		if s.TenantID != tenantID || s.SupplyType != supplyType {
			continue
		}
		if metalID == nil && s.MetalID == nil {
			return s
		}
		if metalID != nil && s.MetalID != nil && *s.MetalID == *metalID {
			return s
		}
	}
	return nil
}

func (r *stubSafeSupplyRepo) GetOrCreateTx(_ *gorm.DB, tenantID uuid.UUID, metalID *uuid.UUID, supplyType string) (*model.SafeSupply, error) {
	if s := r.find(tenantID, metalID, supplyType); s != nil {
		return s, nil
	}
	s := &model.SafeSupply{
		ID:         uuid.New(),
		TenantID:   tenantID,
		MetalID:    metalID,
		SupplyType: supplyType,
	}
	r.supplies = append(r.supplies, s)
	return s, nil
}

func (r *stubSafeSupplyRepo) ApplyDeltaTx(_ *gorm.DB, s *model.SafeSupply, delta float64) error {
	s.QuantityGrams += delta
	return nil
}

func (r *stubSafeSupplyRepo) ListByTenant(_ context.Context, tenantID uuid.UUID) ([]model.SafeSupply, error) {
	var result []model.SafeSupply
	for _, s := range r.supplies {
		if s.TenantID == tenantID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (r *stubSafeSupplyRepo) DB() *gorm.DB { return nil }

// ── In-memory CompanyBalanceRepository stub ──────────────────────────────────

type stubBalanceRepo struct {
	balances []*model.CompanyMetalBalance
}

func newStubBalanceRepo() *stubBalanceRepo { return &stubBalanceRepo{} }

func (r *stubBalanceRepo) GetOrCreateTx(_ *gorm.DB, tenantID, companyID, metalID uuid.UUID) (*model.CompanyMetalBalance, error) {
	for _, b := range r.balances {
		if b.TenantID == tenantID && b.CompanyID == companyID && b.MetalID == metalID {
			return b, nil
		}
	}
	b := &model.CompanyMetalBalance{
		ID:        uuid.New(),
		TenantID:  tenantID,
		CompanyID: companyID,
		MetalID:   metalID,
	}
	r.balances = append(r.balances, b)
	return b, nil
}

func (r *stubBalanceRepo) ApplyDeltaTx(_ *gorm.DB, b *model.CompanyMetalBalance, delta float64) error {
	b.BalanceGrams += delta
	return nil
}

func (r *stubBalanceRepo) ListByCompany(_ context.Context, tenantID, companyID uuid.UUID) ([]model.CompanyMetalBalance, error) {
	var result []model.CompanyMetalBalance
	for _, b := range r.balances {
		if b.TenantID == tenantID && b.CompanyID == companyID {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (r *stubBalanceRepo) DB() *gorm.DB { return nil }

// ── In-memory TransactionRepository stub ─────────────────────────────────────

type stubTransactionRepo struct {
	txns []model.MetalTransaction
}

func newStubTransactionRepo() *stubTransactionRepo { return &stubTransactionRepo{} }

func (r *stubTransactionRepo) AppendTx(_ *gorm.DB, t *model.MetalTransaction) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now()
	r.txns = append(r.txns, *t)
	return nil
}

func (r *stubTransactionRepo) List(_ context.Context, tenantID uuid.UUID, filter dto.TransactionFilter) ([]model.MetalTransaction, error) {
	var result []model.MetalTransaction
	for _, t := range r.txns {
		if t.TenantID != tenantID {
			continue
		}
		if filter.CompanyID != "" && (t.CompanyID == nil || t.CompanyID.String() != filter.CompanyID) {
			continue
		}
		if filter.MetalID != "" && (t.MetalID == nil || t.MetalID.String() != filter.MetalID) {
			continue
		}
		if filter.TransactionType != "" && t.TransactionType != filter.TransactionType {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

func (r *stubTransactionRepo) ListByCompany(_ context.Context, tenantID, companyID uuid.UUID, limit int) ([]model.MetalTransaction, error) {
	var result []model.MetalTransaction
	for _, t := range r.txns {
		if t.TenantID == tenantID && t.CompanyID != nil && *t.CompanyID == companyID {
			result = append(result, t)
		}
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func (r *stubTransactionRepo) DB() *gorm.DB { return nil }

// ── In-memory Company/Order stubs ────────────────────────────────────────────

type stubCompanyRepo struct {
	companies map[uuid.UUID]*model.Company
}

func newStubCompanyRepo() *stubCompanyRepo {
	return &stubCompanyRepo{companies: make(map[uuid.UUID]*model.Company)}
}

func (r *stubCompanyRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.Company, error) {
	c, ok := r.companies[id]
	if !ok || c.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

type stubOrderRepo struct {
	orders map[uuid.UUID]*model.Order
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (r *stubOrderRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok || o.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

// ── Shared fixture ───────────────────────────────────────────────────────────

type testEnv struct {
	tenantID uuid.UUID
	actorID  uuid.UUID

	metalRepo   *stubMetalRepo
	safeRepo    *stubSafeSupplyRepo
	balanceRepo *stubBalanceRepo
	txnRepo     *stubTransactionRepo
	companyRepo *stubCompanyRepo
	orderRepo   *stubOrderRepo

	metals      service.MetalService
	supply      service.SupplyService
	consumption service.ConsumptionService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		tenantID:    uuid.New(),
		actorID:     uuid.New(),
		metalRepo:   newStubMetalRepo(),
		safeRepo:    newStubSafeSupplyRepo(),
		balanceRepo: newStubBalanceRepo(),
		txnRepo:     newStubTransactionRepo(),
		companyRepo: newStubCompanyRepo(),
		orderRepo:   newStubOrderRepo(),
	}
	env.metals = service.NewMetalService(env.metalRepo, nil, 0)
	env.supply = service.NewSupplyService(env.metalRepo, env.safeRepo, env.balanceRepo, env.txnRepo, env.companyRepo, nil)
	env.consumption = service.NewConsumptionService(env.orderRepo, env.metalRepo, env.safeRepo, env.balanceRepo, env.txnRepo, nil)
	return env
}

func (e *testEnv) addMetal(code, name string, finePct float64) *model.Metal {
	m := &model.Metal{
		ID:             uuid.New(),
		TenantID:       e.tenantID,
		Code:           code,
		Name:           name,
		FinePercentage: finePct,
		IsActive:       true,
	}
	e.metalRepo.metals[m.ID] = m
	return m
}

func (e *testEnv) addCompany(name string) *model.Company {
	c := &model.Company{
		ID:       uuid.New(),
		TenantID: e.tenantID,
		Name:     name,
		IsActive: true,
	}
	e.companyRepo.companies[c.ID] = c
	return c
}

func (e *testEnv) addOrder(companyID uuid.UUID, metalCode *string, quantity int, targetWeight float64) *model.Order {
	o := &model.Order{
		ID:                   uuid.New(),
		TenantID:             e.tenantID,
		CompanyID:            companyID,
		OrderNumber:          "ORD-" + uuid.NewString()[:8],
		MetalCode:            metalCode,
		Quantity:             quantity,
		TargetWeightPerPiece: targetWeight,
	}
	e.orderRepo.orders[o.ID] = o
	return o
}

// seedBalance sets a company balance directly, bypassing the deposit flow.
func (e *testEnv) seedBalance(companyID, metalID uuid.UUID, grams float64) {
	e.balanceRepo.balances = append(e.balanceRepo.balances, &model.CompanyMetalBalance{
		ID:           uuid.New(),
		TenantID:     e.tenantID,
		CompanyID:    companyID,
		MetalID:      metalID,
		BalanceGrams: grams,
	})
}

// seedSafe sets a safe entry directly.
func (e *testEnv) seedSafe(metalID *uuid.UUID, supplyType string, grams float64) {
	e.safeRepo.supplies = append(e.safeRepo.supplies, &model.SafeSupply{
		ID:            uuid.New(),
		TenantID:      e.tenantID,
		MetalID:       metalID,
		SupplyType:    supplyType,
		QuantityGrams: grams,
	})
}

func strPtr(s string) *string { return &s }
