package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hihello1226/our-ledger/internal/core/ports/services"
	"github.com/hihello1226/our-ledger/internal/dto"
	"github.com/hihello1226/our-ledger/internal/middleware"
)

// entryHandler handles HTTP requests related to ledger entries.
type entryHandler struct {
	entryService portssvc.EntrySvcFacade
}

func newEntryHandler(es portssvc.EntrySvcFacade) *entryHandler {
	return &entryHandler{entryService: es}
}

// RegisterEntryRoutes registers routes related to entries.
func RegisterEntryRoutes(rg *gin.RouterGroup, entryService portssvc.EntrySvcFacade) {
	h := newEntryHandler(entryService)

	entries := rg.Group("/entries")
	{
		entries.GET("", h.listEntries)
		entries.POST("", h.createEntry)
		entries.POST("/bulk-delete", h.bulkDeleteEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.PATCH("/:entryID", h.updateEntry)
		entries.DELETE("/:entryID", h.deleteEntry)
	}
}

// listEntries godoc
// @Summary List entries
// @Description Returns one page of the household's entries matching the filter, the total match count
// @Description and a summary over every match. Running balances are attached when exactly one account is filtered.
// @Tags entries
// @Produce json
// @Param month query string false "Legacy month (YYYY-MM), used only without other date bounds"
// @Param date_from query string false "Start date (YYYY-MM-DD)"
// @Param date_to query string false "End date (YYYY-MM-DD)"
// @Param date_preset query string false "today | this_week | this_month"
// @Param category_ids query string false "Comma-separated category ids; 'uncategorized' matches entries without a category"
// @Param payer_member_id query string false "Payer member id"
// @Param shared query bool false "Shared flag"
// @Param types query string false "Comma-separated kinds: expense,income,transfer"
// @Param transfer_type query string false "internal | external_out | external_in"
// @Param account_ids query string false "Comma-separated account ids"
// @Param amount_min query int false "Minimum amount"
// @Param amount_max query int false "Maximum amount"
// @Param memo_search query string false "Case-insensitive memo substring"
// @Param sort_by query string false "occurred_at | amount" default(occurred_at)
// @Param sort_order query string false "asc | desc" default(desc)
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page (max 100)" default(50)
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list entries"
// @Security BearerAuth
// @Router /entries [get]
func (h *entryHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	filter, err := params.ToFilter()
	if err != nil {
		respondError(c, logger, err, "Failed to list entries")
		return
	}

	page, err := h.entryService.QueryEntries(c.Request.Context(), actor, filter)
	if err != nil {
		respondError(c, logger, err, "Failed to list entries")
		return
	}

	logger.Info("Entries listed", slog.Int("count", len(page.Entries)), slog.Int("total", page.TotalCount))
	c.JSON(http.StatusOK, dto.ToListEntriesResponse(page))
}

// createEntry godoc
// @Summary Create an entry
// @Description Records an income, expense or transfer. Transfers need two distinct accounts.
// @Tags entries
// @Accept json
// @Produce json
// @Param entry body dto.CreateEntryRequest true "Entry details"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create entry"
// @Security BearerAuth
// @Router /entries [post]
func (h *entryHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	draft, err := req.ToDraft()
	if err != nil {
		respondError(c, logger, err, "Failed to create entry")
		return
	}

	entry, err := h.entryService.CreateEntry(c.Request.Context(), actor, draft)
	if err != nil {
		respondError(c, logger, err, "Failed to create entry")
		return
	}

	logger.Info("Entry created", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(*entry))
}

// getEntry godoc
// @Summary Get an entry
// @Tags entries
// @Produce json
// @Param entryID path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 500 {object} map[string]string "Failed to retrieve entry"
// @Security BearerAuth
// @Router /entries/{entryID} [get]
func (h *entryHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	entryID := c.Param("entryID")

	entry, err := h.entryService.GetEntry(c.Request.Context(), actor, entryID)
	if err != nil {
		respondError(c, logger.With(slog.String("entry_id", entryID)), err, "Failed to retrieve entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(*entry))
}

// updateEntry godoc
// @Summary Update an entry
// @Description Applies the given fields; omitted fields keep their value and clear flags drop optional references.
// @Description The merged entry is validated as a whole.
// @Tags entries
// @Accept json
// @Produce json
// @Param entryID path string true "Entry ID"
// @Param entry body dto.UpdateEntryRequest true "Fields to change"
// @Success 200 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 500 {object} map[string]string "Failed to update entry"
// @Security BearerAuth
// @Router /entries/{entryID} [patch]
func (h *entryHandler) updateEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	entryID := c.Param("entryID")
	logger = logger.With(slog.String("entry_id", entryID))

	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	cmd, err := req.ToCommand()
	if err != nil {
		respondError(c, logger, err, "Failed to update entry")
		return
	}

	entry, err := h.entryService.UpdateEntry(c.Request.Context(), actor, entryID, cmd)
	if err != nil {
		respondError(c, logger, err, "Failed to update entry")
		return
	}

	logger.Info("Entry updated")
	c.JSON(http.StatusOK, dto.ToEntryResponse(*entry))
}

// deleteEntry godoc
// @Summary Delete an entry
// @Tags entries
// @Param entryID path string true "Entry ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 500 {object} map[string]string "Failed to delete entry"
// @Security BearerAuth
// @Router /entries/{entryID} [delete]
func (h *entryHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	entryID := c.Param("entryID")
	logger = logger.With(slog.String("entry_id", entryID))

	if err := h.entryService.DeleteEntry(c.Request.Context(), actor, entryID); err != nil {
		respondError(c, logger, err, "Failed to delete entry")
		return
	}

	logger.Info("Entry deleted")
	c.Status(http.StatusNoContent)
}

// bulkDeleteEntries godoc
// @Summary Delete several entries
// @Description Ids that do not belong to the household are ignored.
// @Tags entries
// @Accept json
// @Produce json
// @Param request body dto.BulkDeleteEntriesRequest true "Entry ids"
// @Success 200 {object} dto.BulkDeleteEntriesResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to delete entries"
// @Security BearerAuth
// @Router /entries/bulk-delete [post]
func (h *entryHandler) bulkDeleteEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	var req dto.BulkDeleteEntriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for BulkDeleteEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	deleted, err := h.entryService.BulkDeleteEntries(c.Request.Context(), actor, req.EntryIDs)
	if err != nil {
		respondError(c, logger, err, "Failed to delete entries")
		return
	}

	logger.Info("Entries deleted", slog.Int64("deleted", deleted), slog.Int("requested", len(req.EntryIDs)))
	c.JSON(http.StatusOK, dto.BulkDeleteEntriesResponse{DeletedCount: deleted})
}
