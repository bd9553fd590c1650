package handler

import (
	"net/http"

	"github.com/armencho53/JMSK-Backend/internal/apierror"
	"github.com/armencho53/JMSK-Backend/internal/dto"
	"github.com/armencho53/JMSK-Backend/internal/middleware"
	"github.com/armencho53/JMSK-Backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SuppliesHandler struct{ svc service.SupplyService }

func NewSuppliesHandler(svc service.SupplyService) *SuppliesHandler {
	return &SuppliesHandler{svc: svc}
}

func (h *SuppliesHandler) RecordPurchase(c *gin.Context) {
	var req dto.SafePurchaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordPurchase(c.Request.Context(), middleware.TenantID(c), middleware.ActorID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SuppliesHandler) RecordAdjustment(c *gin.Context) {
	var req dto.SafeAdjustmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordAdjustment(c.Request.Context(), middleware.TenantID(c), middleware.ActorID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SuppliesHandler) RecordDeposit(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid company id"))
		return
	}
	var req dto.MetalDepositRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordDeposit(c.Request.Context(), middleware.TenantID(c), companyID, middleware.ActorID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SuppliesHandler) ListSafeSupplies(c *gin.Context) {
	resp, err := h.svc.ListSafeSupplies(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SuppliesHandler) ListCompanyBalances(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid company id"))
		return
	}
	resp, err := h.svc.ListCompanyBalances(c.Request.Context(), middleware.TenantID(c), companyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SuppliesHandler) ListTransactions(c *gin.Context) {
	filter := dto.TransactionFilter{
		CompanyID:       c.Query("company_id"),
		MetalID:         c.Query("metal_id"),
		TransactionType: c.Query("type"),
	}
	resp, err := h.svc.ListTransactions(c.Request.Context(), middleware.TenantID(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
