package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hihello1226/our-ledger/internal/core/ports/services"
	"github.com/hihello1226/our-ledger/internal/dto"
	"github.com/hihello1226/our-ledger/internal/middleware"
)

type externalSourceHandler struct {
	sourceService portssvc.ExternalSourceSvc
}

// RegisterExternalSourceRoutes registers spreadsheet source management and sync.
func RegisterExternalSourceRoutes(rg *gin.RouterGroup, sourceService portssvc.ExternalSourceSvc) {
	h := &externalSourceHandler{sourceService: sourceService}

	sources := rg.Group("/external-sources")
	{
		sources.GET("", h.listSources)
		sources.POST("", h.createSource)
		sources.DELETE("/:sourceID", h.deleteSource)
		sources.POST("/:sourceID/sync-import", h.syncImport)
		sources.POST("/:sourceID/sync-export", h.syncExport)
	}
}

// listSources godoc
// @Summary List external sources
// @Tags external-sources
// @Produce json
// @Success 200 {object} dto.ListExternalSourcesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list external sources"
// @Security BearerAuth
// @Router /external-sources [get]
func (h *externalSourceHandler) listSources(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	sources, err := h.sourceService.ListSources(c.Request.Context(), actor)
	if err != nil {
		respondError(c, logger, err, "Failed to list external sources")
		return
	}
	c.JSON(http.StatusOK, dto.ListExternalSourcesResponse{Sources: sources})
}

// createSource godoc
// @Summary Register a Google Sheet
// @Tags external-sources
// @Accept json
// @Produce json
// @Param source body dto.CreateExternalSourceRequest true "Sheet details"
// @Success 201 {object} domain.ExternalDataSource
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create external source"
// @Security BearerAuth
// @Router /external-sources [post]
func (h *externalSourceHandler) createSource(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	var req dto.CreateExternalSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateExternalSource", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	source, err := h.sourceService.CreateSource(c.Request.Context(), actor, req.ToDomain())
	if err != nil {
		respondError(c, logger, err, "Failed to create external source")
		return
	}

	logger.Info("External source created", slog.String("source_id", source.SourceID))
	c.JSON(http.StatusCreated, source)
}

// deleteSource godoc
// @Summary Remove an external source
// @Tags external-sources
// @Param sourceID path string true "Source ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Source not found"
// @Failure 500 {object} map[string]string "Failed to delete external source"
// @Security BearerAuth
// @Router /external-sources/{sourceID} [delete]
func (h *externalSourceHandler) deleteSource(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	sourceID := c.Param("sourceID")

	if err := h.sourceService.DeleteSource(c.Request.Context(), actor, sourceID); err != nil {
		respondError(c, logger.With(slog.String("source_id", sourceID)), err, "Failed to delete external source")
		return
	}
	c.Status(http.StatusNoContent)
}

// syncImport godoc
// @Summary Pull new sheet rows into the ledger
// @Tags external-sources
// @Accept json
// @Produce json
// @Param sourceID path string true "Source ID"
// @Param request body dto.SyncImportRequest true "Payer of the imported rows"
// @Success 200 {object} domain.SyncImportResult
// @Failure 400 {object} map[string]string "Invalid input or source is export-only"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Source not found"
// @Failure 503 {object} map[string]string "Google Sheets not configured"
// @Failure 500 {object} map[string]string "Failed to sync"
// @Security BearerAuth
// @Router /external-sources/{sourceID}/sync-import [post]
func (h *externalSourceHandler) syncImport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	sourceID := c.Param("sourceID")
	logger = logger.With(slog.String("source_id", sourceID))

	var req dto.SyncImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SyncImport", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.sourceService.SyncImport(c.Request.Context(), actor, sourceID, req.PayerMemberID)
	if err != nil {
		respondError(c, logger, err, "Failed to sync")
		return
	}
	c.JSON(http.StatusOK, result)
}

// syncExport godoc
// @Summary Push unexported entries to the sheet
// @Tags external-sources
// @Produce json
// @Param sourceID path string true "Source ID"
// @Success 200 {object} domain.SyncExportResult
// @Failure 400 {object} map[string]string "Source is import-only"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Source not found"
// @Failure 503 {object} map[string]string "Google Sheets not configured"
// @Failure 500 {object} map[string]string "Failed to sync"
// @Security BearerAuth
// @Router /external-sources/{sourceID}/sync-export [post]
func (h *externalSourceHandler) syncExport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorFromContext(c, logger)
	if !ok {
		return
	}
	sourceID := c.Param("sourceID")

	result, err := h.sourceService.SyncExport(c.Request.Context(), actor, sourceID)
	if err != nil {
		respondError(c, logger.With(slog.String("source_id", sourceID)), err, "Failed to sync")
		return
	}
	c.JSON(http.StatusOK, result)
}
