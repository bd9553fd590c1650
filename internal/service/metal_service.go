package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/armencho53/JMSK-Backend/internal/domainerr"
	"github.com/armencho53/JMSK-Backend/internal/dto"
	"github.com/armencho53/JMSK-Backend/internal/model"
	"github.com/armencho53/JMSK-Backend/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// defaultMetals is the standard catalog seeded for every tenant.
var defaultMetals = []struct {
	Code           string
	Name           string
	FinePercentage float64
}{
	{"GOLD_24K", "Gold 24K", 0.999},
	{"GOLD_22K", "Gold 22K", 0.916},
	{"GOLD_18K", "Gold 18K", 0.750},
	{"GOLD_14K", "Gold 14K", 0.585},
	{"SILVER_925", "Silver 925", 0.925},
	{"PLATINUM", "Platinum", 0.950},
}

// MetalService defines business operations for the metal catalog.
type MetalService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateMetalRequest) (dto.MetalResponse, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req dto.UpdateMetalRequest) (dto.MetalResponse, error)
	Deactivate(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, includeInactive bool) ([]dto.MetalResponse, error)
	SeedDefaults(ctx context.Context, tenantID uuid.UUID) error
}

type metalService struct {
	repo     repository.MetalRepository
	rdb      *redis.Client
	cacheTTL time.Duration
}

func NewMetalService(repo repository.MetalRepository, rdb *redis.Client, cacheTTL time.Duration) MetalService {
	return &metalService{repo: repo, rdb: rdb, cacheTTL: cacheTTL}
}

func mapMetal(m model.Metal) dto.MetalResponse {
	return dto.MetalResponse{
		ID:             m.ID.String(),
		Code:           m.Code,
		Name:           m.Name,
		FinePercentage: m.FinePercentage,
		AverageCost:    m.AverageCostPerGram,
		IsActive:       m.IsActive,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
	}
}

func (s *metalService) Create(ctx context.Context, tenantID uuid.UUID, req dto.CreateMetalRequest) (dto.MetalResponse, error) {
	if req.FinePercentage < 0 || req.FinePercentage > 1 {
		return dto.MetalResponse{}, domainerr.Validation("fine_percentage must be between 0 and 1, got %v", req.FinePercentage)
	}

	exists, err := s.repo.CodeExists(ctx, tenantID, req.Code)
	if err != nil {
		return dto.MetalResponse{}, err
	}
	if exists {
		return dto.MetalResponse{}, domainerr.Duplicate("metal", "code", req.Code)
	}

	m := &model.Metal{
		TenantID:           tenantID,
		Code:               req.Code,
		Name:               req.Name,
		FinePercentage:     req.FinePercentage,
		AverageCostPerGram: req.AverageCost,
		IsActive:           true,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return dto.MetalResponse{}, err
	}
	s.invalidateCache(ctx, tenantID)
	return mapMetal(*m), nil
}

func (s *metalService) Update(ctx context.Context, tenantID, id uuid.UUID, req dto.UpdateMetalRequest) (dto.MetalResponse, error) {
	m, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MetalResponse{}, domainerr.NotFound("metal", id.String())
		}
		return dto.MetalResponse{}, err
	}

	// Code is immutable — reject any attempt to change it.
	if req.Code != nil && *req.Code != m.Code {
		return dto.MetalResponse{}, domainerr.Validation("metal code is immutable")
	}
	if req.FinePercentage != nil {
		if *req.FinePercentage < 0 || *req.FinePercentage > 1 {
			return dto.MetalResponse{}, domainerr.Validation("fine_percentage must be between 0 and 1, got %v", *req.FinePercentage)
		}
		m.FinePercentage = *req.FinePercentage
	}
	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.AverageCost != nil {
		m.AverageCostPerGram = req.AverageCost
	}
	if req.IsActive != nil {
		m.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return dto.MetalResponse{}, err
	}
	s.invalidateCache(ctx, tenantID)
	return mapMetal(*m), nil
}

// Deactivate soft-deletes a metal. Repeated calls are no-ops.
func (s *metalService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	m, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainerr.NotFound("metal", id.String())
		}
		return err
	}
	if !m.IsActive {
		return nil
	}
	m.IsActive = false
	if err := s.repo.Update(ctx, m); err != nil {
		return err
	}
	s.invalidateCache(ctx, tenantID)
	return nil
}

func (s *metalService) List(ctx context.Context, tenantID uuid.UUID, includeInactive bool) ([]dto.MetalResponse, error) {
	// The active list is the hot path (every casting form hits it) — serve
	// it from Redis when possible.
	if !includeInactive {
		if cached, ok := s.cachedActive(ctx, tenantID); ok {
			return cached, nil
		}
	}

	metals, err := s.repo.List(ctx, tenantID, includeInactive)
	if err != nil {
		return nil, err
	}
	result := make([]dto.MetalResponse, 0, len(metals))
	for _, m := range metals {
		result = append(result, mapMetal(m))
	}

	if !includeInactive {
		s.storeActive(ctx, tenantID, result)
	}
	return result, nil
}

// SeedDefaults inserts the standard metals that are not yet present.
// Calling it any number of times yields the same final set.
func (s *metalService) SeedDefaults(ctx context.Context, tenantID uuid.UUID) error {
	for _, d := range defaultMetals {
		exists, err := s.repo.CodeExists(ctx, tenantID, d.Code)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		m := &model.Metal{
			TenantID:       tenantID,
			Code:           d.Code,
			Name:           d.Name,
			FinePercentage: d.FinePercentage,
			IsActive:       true,
		}
		if err := s.repo.Create(ctx, m); err != nil {
			return err
		}
	}
	s.invalidateCache(ctx, tenantID)
	return nil
}

// ── Redis catalog cache ──────────────────────────────────────────────────────

func metalCacheKey(tenantID uuid.UUID) string { return "metals:active:" + tenantID.String() }

func (s *metalService) cachedActive(ctx context.Context, tenantID uuid.UUID) ([]dto.MetalResponse, bool) {
	if s.rdb == nil {
		return nil, false
	}
	raw, err := s.rdb.Get(ctx, metalCacheKey(tenantID)).Result()
	if err != nil {
		return nil, false
	}
	var cached []dto.MetalResponse
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return nil, false
	}
	return cached, true
}

func (s *metalService) storeActive(ctx context.Context, tenantID uuid.UUID, metals []dto.MetalResponse) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(metals)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, metalCacheKey(tenantID), data, s.cacheTTL).Err(); err != nil {
		log.Warn().Err(err).Msg("metal cache store failed")
	}
}

func (s *metalService) invalidateCache(ctx context.Context, tenantID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, metalCacheKey(tenantID)).Err(); err != nil {
		log.Warn().Err(err).Msg("metal cache invalidation failed")
	}
}
