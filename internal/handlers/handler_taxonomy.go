package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hihello1226/our-ledger/internal/core/ports/services"
	"github.com/hihello1226/our-ledger/internal/dto"
	"github.com/hihello1226/our-ledger/internal/middleware"
)

type taxonomyHandler struct {
	taxonomyService portssvc.TaxonomySvc
}

// RegisterTaxonomyRoutes registers the read-only category and account listings.
func RegisterTaxonomyRoutes(rg *gin.RouterGroup, taxonomyService portssvc.TaxonomySvc) {
	h := &taxonomyHandler{taxonomyService: taxonomyService}
	rg.GET("/categories", h.listCategories)
	rg.GET("/accounts", h.listAccounts)
}

// listCategories godoc
// @Summary List categories
// @Description Default categories plus the household's own, each with its subcategories.
// @Tags taxonomy
// @Produce json
// @Success 200 {object} dto.ListCategoriesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list categories"
// @Security BearerAuth
// @Router /categories [get]
func (h *taxonomyHandler) listCategories(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	categories, err := h.taxonomyService.ListCategories(c.Request.Context(), actor)
	if err != nil {
		respondError(c, logger, err, "Failed to list categories")
		return
	}
	c.JSON(http.StatusOK, dto.ListCategoriesResponse{Categories: categories})
}

// listAccounts godoc
// @Summary List accounts
// @Description The household accounts owned by the caller or marked shared-visible.
// @Tags taxonomy
// @Produce json
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list accounts"
// @Security BearerAuth
// @Router /accounts [get]
func (h *taxonomyHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	accounts, err := h.taxonomyService.ListAccounts(c.Request.Context(), actor)
	if err != nil {
		respondError(c, logger, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: accounts})
}
