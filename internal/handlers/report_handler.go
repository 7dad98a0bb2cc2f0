package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"centsimple/internal/ai"
	apperrors "centsimple/internal/errors"
	"centsimple/internal/services"
)

// ReportHandler handles report and AI-insight requests
type ReportHandler struct {
	reportService services.ReportServicer
	generator     ai.Generator
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService services.ReportServicer, generator ai.Generator) *ReportHandler {
	return &ReportHandler{reportService: reportService, generator: generator}
}

// TaxTipRequest represents the payload for requesting a tax tip on an expense
type TaxTipRequest struct {
	Description  string `json:"description" binding:"required,max=255"`
	CategoryName string `json:"category_name" binding:"required,max=100"`
}

// AISummaryResponse represents a generated natural-language summary
type AISummaryResponse struct {
	Summary string `json:"summary"`
}

// TaxTipResponse represents a generated tax tip
type TaxTipResponse struct {
	Tip string `json:"tip"`
}

// GetSummary handles building a financial summary report
// @Summary     Get summary report
// @Description Build an aggregate report of income, expenses, and savings activity over a date range
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       date_range query string false "Named date range (last7days, last30days, last90days, thisMonth, lastMonth, thisYear, lastYear)"
// @Success     200 {object} services.Report "Summary report"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.BuildReport(c.Request.Context(), userID, c.Query("date_range"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetAISummary handles generating a natural-language report summary
// @Summary     Get AI report summary
// @Description Build the summary report and have the AI describe it in plain language
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       date_range query string false "Named date range (last7days, last30days, last90days, thisMonth, lastMonth, thisYear, lastYear)"
// @Success     200 {object} AISummaryResponse "Generated summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "AI service unavailable"
// @Router      /reports/ai-summary [get]
func (h *ReportHandler) GetAISummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.BuildReport(c.Request.Context(), userID, c.Query("date_range"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.generator.GenerateSummary(c.Request.Context(), report)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, AISummaryResponse{Summary: summary})
}

// GetTaxTip handles generating a tax tip for an expense
// @Summary     Get a tax tip
// @Description Generate a short educational tax tip for an expense
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TaxTipRequest true "Expense details"
// @Success     200 {object} TaxTipResponse "Generated tip"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "AI service unavailable"
// @Router      /reports/tax-tip [post]
func (h *ReportHandler) GetTaxTip(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	var req TaxTipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	tip, err := h.generator.GenerateTaxTip(c.Request.Context(), req.Description, req.CategoryName)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, TaxTipResponse{Tip: tip})
}
