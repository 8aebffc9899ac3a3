package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hihello1226/our-ledger/internal/core/domain"
	portssvc "github.com/hihello1226/our-ledger/internal/core/ports/services"
	"github.com/hihello1226/our-ledger/internal/dto"
	"github.com/hihello1226/our-ledger/internal/middleware"
)

type reportingHandler struct {
	summaryService    portssvc.SummarySvc
	settlementService portssvc.SettlementSvc
}

// RegisterReportingRoutes registers the monthly summary and settlement routes.
func RegisterReportingRoutes(rg *gin.RouterGroup, summaryService portssvc.SummarySvc, settlementService portssvc.SettlementSvc) {
	h := &reportingHandler{summaryService: summaryService, settlementService: settlementService}

	rg.GET("/summary", h.getMonthlySummary)

	settlement := rg.Group("/settlement")
	{
		settlement.GET("", h.getSettlement)
		settlement.PUT("/records", h.saveSettlementRecord)
		settlement.POST("/finalize", h.finalizeMonth)
	}
}

// getMonthlySummary godoc
// @Summary Monthly summary
// @Description Income and expense totals, expenses by category, activity by member, cumulative settlement
// @Description balances and the net balance of the accounts visible to the caller.
// @Tags reporting
// @Produce json
// @Param month query string true "Month (YYYY-MM)"
// @Param account_ids query string false "Comma-separated account ids narrowing the net balance"
// @Success 200 {object} domain.MonthlySummary
// @Failure 400 {object} map[string]string "Invalid month"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to build summary"
// @Security BearerAuth
// @Router /summary [get]
func (h *reportingHandler) getMonthlySummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	var params dto.MonthQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for MonthlySummary", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	month, err := domain.ParseMonth(params.Month)
	if err != nil {
		respondError(c, logger, err, "Failed to build summary")
		return
	}

	summary, err := h.summaryService.MonthlySummary(c.Request.Context(), actor, month, params.AccountIDList())
	if err != nil {
		respondError(c, logger, err, "Failed to build summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// getSettlement godoc
// @Summary Settlement for a month
// @Description The month's netting plan for shared expenses, the cumulative ledger up to the month and its records.
// @Tags settlement
// @Produce json
// @Param month query string true "Month (YYYY-MM)"
// @Success 200 {object} domain.SettlementReport
// @Failure 400 {object} map[string]string "Invalid month"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to compute settlement"
// @Security BearerAuth
// @Router /settlement [get]
func (h *reportingHandler) getSettlement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	month, err := domain.ParseMonth(c.Query("month"))
	if err != nil {
		respondError(c, logger, err, "Failed to compute settlement")
		return
	}

	report, err := h.settlementService.ComputeSettlement(c.Request.Context(), actor, month)
	if err != nil {
		respondError(c, logger, err, "Failed to compute settlement")
		return
	}
	c.JSON(http.StatusOK, report)
}

// saveSettlementRecord godoc
// @Summary Save a settlement record
// @Description Creates or replaces the settlement figure of one user for one month.
// @Tags settlement
// @Accept json
// @Produce json
// @Param record body dto.SaveSettlementRecordRequest true "Settlement record"
// @Success 200 {object} domain.MonthlySettlement
// @Failure 400 {object} map[string]string "Invalid input or month already finalized"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to save settlement record"
// @Security BearerAuth
// @Router /settlement/records [put]
func (h *reportingHandler) saveSettlementRecord(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	var req dto.SaveSettlementRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SaveSettlementRecord", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	month, err := domain.ParseMonth(req.Month)
	if err != nil {
		respondError(c, logger, err, "Failed to save settlement record")
		return
	}

	record, err := h.settlementService.SaveSettlementRecord(c.Request.Context(), actor, req.UserID, month, req.Amount)
	if err != nil {
		respondError(c, logger, err, "Failed to save settlement record")
		return
	}

	logger.Info("Settlement record saved", slog.String("month", month.String()), slog.String("target_user_id", req.UserID))
	c.JSON(http.StatusOK, record)
}

// finalizeMonth godoc
// @Summary Finalize a month
// @Description Marks every settlement record of the month as final. This cannot be undone.
// @Tags settlement
// @Accept json
// @Produce json
// @Param request body dto.FinalizeMonthRequest true "Month to finalize"
// @Success 200 {object} dto.FinalizeMonthResponse
// @Failure 400 {object} map[string]string "Invalid month"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to finalize month"
// @Security BearerAuth
// @Router /settlement/finalize [post]
func (h *reportingHandler) finalizeMonth(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	var req dto.FinalizeMonthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for FinalizeMonth", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	month, err := domain.ParseMonth(req.Month)
	if err != nil {
		respondError(c, logger, err, "Failed to finalize month")
		return
	}

	records, err := h.settlementService.FinalizeMonth(c.Request.Context(), actor, month)
	if err != nil {
		respondError(c, logger, err, "Failed to finalize month")
		return
	}

	logger.Info("Month finalized", slog.String("month", month.String()), slog.Int("records", len(records)))
	c.JSON(http.StatusOK, dto.FinalizeMonthResponse{Month: month.String(), Records: records})
}
