package handler

import (
	"errors"
	"net/http"

	"github.com/armencho53/JMSK-Backend/internal/apierror"
	"github.com/armencho53/JMSK-Backend/internal/infra"
	"github.com/armencho53/JMSK-Backend/internal/middleware"
	"github.com/armencho53/JMSK-Backend/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const statementTxnLimit = 50

// StatementsHandler streams a company's metal statement as PDF. It reads
// repositories directly — statements are a pure read projection.
type StatementsHandler struct {
	companyRepo repository.CompanyRepository
	balanceRepo repository.CompanyBalanceRepository
	txnRepo     repository.TransactionRepository
}

func NewStatementsHandler(
	companyRepo repository.CompanyRepository,
	balanceRepo repository.CompanyBalanceRepository,
	txnRepo repository.TransactionRepository,
) *StatementsHandler {
	return &StatementsHandler{companyRepo: companyRepo, balanceRepo: balanceRepo, txnRepo: txnRepo}
}

func (h *StatementsHandler) Download(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid company id"))
		return
	}
	tenantID := middleware.TenantID(c)

	company, err := h.companyRepo.FindByID(c.Request.Context(), tenantID, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("company not found"))
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("internal server error"))
		return
	}

	balances, err := h.balanceRepo.ListByCompany(c.Request.Context(), tenantID, companyID)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("internal server error"))
		return
	}
	txns, err := h.txnRepo.ListByCompany(c.Request.Context(), tenantID, companyID, statementTxnLimit)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("internal server error"))
		return
	}

	pdfBytes, err := infra.GenerateStatementPDF(company, balances, txns)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("statement generation failed"))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="metal-statement.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
