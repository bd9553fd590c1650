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

type MetalsHandler struct{ svc service.MetalService }

func NewMetalsHandler(svc service.MetalService) *MetalsHandler {
	return &MetalsHandler{svc: svc}
}

func (h *MetalsHandler) Create(c *gin.Context) {
	var req dto.CreateMetalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), middleware.TenantID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *MetalsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.UpdateMetalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), middleware.TenantID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Deactivate soft-deletes a metal. Idempotent: a second call returns 200 too.
func (h *MetalsHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), middleware.TenantID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *MetalsHandler) List(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"
	resp, err := h.svc.List(c.Request.Context(), middleware.TenantID(c), includeInactive)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MetalsHandler) Seed(c *gin.Context) {
	if err := h.svc.SeedDefaults(c.Request.Context(), middleware.TenantID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
