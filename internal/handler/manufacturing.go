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

type ManufacturingHandler struct{ svc service.ConsumptionService }

func NewManufacturingHandler(svc service.ConsumptionService) *ManufacturingHandler {
	return &ManufacturingHandler{svc: svc}
}

// CastingCompleted is invoked by the order subsystem exactly once per casting
// step transitioning to completed. A soft-skipped order (missing metal code
// or target weight) returns 200 with skipped=true so step completion is
// never blocked.
func (h *ManufacturingHandler) CastingCompleted(c *gin.Context) {
	var req dto.CastingCompletionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid order id"))
		return
	}

	result, err := h.svc.ProcessCasting(c.Request.Context(), middleware.TenantID(c), orderID, middleware.ActorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if result == nil {
		c.JSON(http.StatusOK, dto.CastingConsumptionResult{Skipped: true, OrderID: req.OrderID})
		return
	}
	c.JSON(http.StatusOK, result)
}
