package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Aashish23092/form16-tax-advisor/dto"
	"github.com/Aashish23092/form16-tax-advisor/service"
)

// TaxHandler exposes the pure computation engines over JSON for callers that
// already know their numbers and skip document upload.
type TaxHandler struct{}

func NewTaxHandler() *TaxHandler {
	return &TaxHandler{}
}

// Calculate handles POST /tax/calculate.
func (h *TaxHandler) Calculate(c *gin.Context) {
	var req dto.TaxCalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := req.Validate(); err != nil {
		h.sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	var result dto.TaxCalculationResult
	if req.Regime == dto.RegimeNew {
		result = service.CalculateNewRegimeTax(req.GrossIncome, 0, req.NonResident)
	} else {
		result = service.CalculateOldRegimeTax(req.GrossIncome, req.Deductions, req.NonResident)
	}
	c.JSON(http.StatusOK, result)
}

// Compare handles POST /tax/compare.
func (h *TaxHandler) Compare(c *gin.Context) {
	var req dto.RegimeComparisonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.GrossIncome < 0 {
		h.sendError(c, http.StatusBadRequest, "gross_income must be non-negative", nil)
		return
	}
	c.JSON(http.StatusOK, service.CompareRegimes(req.GrossIncome, req.Deductions, req.NonResident))
}

// Suggest handles POST /tax/suggestions.
func (h *TaxHandler) Suggest(c *gin.Context) {
	var req dto.SuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.GrossIncome < 0 {
		h.sendError(c, http.StatusBadRequest, "gross_income must be non-negative", nil)
		return
	}

	suggestions := service.GenerateSuggestions(req.GrossIncome, req.Deductions, req.AssessmentYear, req.Profile, time.Now())
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

func (h *TaxHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	if err != nil {
		log.Printf("Error: %s - %v", message, err)
	}
	c.JSON(statusCode, dto.ErrorResponse{
		Error:   "TAX_REQUEST_FAILED",
		Message: message,
		Code:    statusCode,
	})
}
