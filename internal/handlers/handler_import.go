package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hihello1226/our-ledger/internal/core/ports/services"
	"github.com/hihello1226/our-ledger/internal/dto"
	"github.com/hihello1226/our-ledger/internal/middleware"
)

type importHandler struct {
	importService portssvc.ImportSvc
	maxBytes      int64
}

// RegisterImportRoutes registers the two-step spreadsheet import. Uploads go through the given limiter middleware.
func RegisterImportRoutes(rg *gin.RouterGroup, importService portssvc.ImportSvc, maxBytes int64, uploadLimit gin.HandlerFunc) {
	h := &importHandler{importService: importService, maxBytes: maxBytes}

	imports := rg.Group("/import")
	{
		imports.POST("/upload", uploadLimit, h.uploadFile)
		imports.POST("/confirm", h.confirmImport)
	}
}

// uploadFile godoc
// @Summary Upload a spreadsheet for import
// @Description Parses a CSV or Excel file, keeps it for a while and returns a preview with a suggested column mapping.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV, XLS or XLSX file"
// @Param encoding formData string false "Text encoding of a CSV file; auto-detected when omitted" default(utf-8)
// @Success 200 {object} domain.ImportPreview
// @Failure 400 {object} map[string]string "Missing, oversized or unreadable file"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 429 {object} map[string]string "Too many uploads"
// @Failure 500 {object} map[string]string "Failed to process file"
// @Security BearerAuth
// @Router /import/upload [post]
func (h *importHandler) uploadFile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		logger.Warn("Upload without file", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	logger = logger.With(slog.String("filename", fileHeader.Filename))
	if h.maxBytes > 0 && fileHeader.Size > h.maxBytes {
		logger.Warn("Upload too large", slog.Int64("size", fileHeader.Size))
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("File size exceeds %dMB limit", h.maxBytes>>20)})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}
	defer file.Close()

	reader := io.Reader(file)
	if h.maxBytes > 0 {
		// one extra byte lets the service see the file is over the limit
		reader = io.LimitReader(file, h.maxBytes+1)
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		logger.Error("Failed to read uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	preview, err := h.importService.PreviewImport(c.Request.Context(), actor, content, fileHeader.Filename, c.PostForm("encoding"))
	if err != nil {
		respondError(c, logger, err, "Failed to process file")
		return
	}

	logger.Info("Import preview ready", slog.String("file_id", preview.Key), slog.Int("rows", preview.TotalRows))
	c.JSON(http.StatusOK, preview)
}

// confirmImport godoc
// @Summary Confirm an import
// @Description Commits the previewed rows in one transaction. Row failures are reported, not raised.
// @Description An expired or foreign file id yields a zero-count result carrying a message.
// @Tags import
// @Accept json
// @Produce json
// @Param request body dto.ConfirmImportRequest true "Mapping and defaults"
// @Success 200 {object} domain.ImportResult
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to import"
// @Security BearerAuth
// @Router /import/confirm [post]
func (h *importHandler) confirmImport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	var req dto.ConfirmImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ConfirmImport", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	logger = logger.With(slog.String("file_id", req.FileID))

	result, err := h.importService.ConfirmImport(c.Request.Context(), actor, req.ToImportRequest())
	if err != nil {
		respondError(c, logger, err, "Failed to import")
		return
	}

	logger.Info("Import confirmed",
		slog.Int("imported", result.ImportedCount),
		slog.Int("skipped", result.SkippedCount),
		slog.Int("errors", result.ErrorCount))
	c.JSON(http.StatusOK, result)
}
