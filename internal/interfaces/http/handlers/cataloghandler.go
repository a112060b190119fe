package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"haneul/internal/application/reconciliation/usecases"
	"haneul/internal/shared/logger"
	"haneul/internal/shared/utils"
)

// CatalogHandler handles HTTP requests for the treatment type catalog.
type CatalogHandler struct {
	listCatalogUC   *usecases.ListCatalogUseCase
	classifyItemsUC *usecases.ClassifyItemsUseCase
	logger          logger.Interface
}

func NewCatalogHandler(
	listCatalogUC *usecases.ListCatalogUseCase,
	classifyItemsUC *usecases.ClassifyItemsUseCase,
	logger logger.Interface,
) *CatalogHandler {
	return &CatalogHandler{
		listCatalogUC:   listCatalogUC,
		classifyItemsUC: classifyItemsUC,
		logger:          logger,
	}
}

type ClassifyItemsRequest struct {
	ItemLabels []string `json:"item_labels" validate:"required,min=1"`
	FamilyHint string   `json:"family_hint"`
}

// ListCatalog handles GET /catalog/types
// Query parameters:
//   - family: restrict to one catalog family
func (h *CatalogHandler) ListCatalog(c *gin.Context) {
	family := c.Query("family")

	result, err := h.listCatalogUC.Execute(c.Request.Context(), family)
	if err != nil {
		h.logger.Errorw("failed to list catalog types", "family", family, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"types": result,
	})
}

// ClassifyItems handles POST /catalog/classify
// Suggests a catalog type for each submitted billing item name.
func (h *CatalogHandler) ClassifyItems(c *gin.Context) {
	var req ClassifyItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for classify items", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	query := usecases.ClassifyItemsQuery{
		ItemLabels: req.ItemLabels,
		FamilyHint: req.FamilyHint,
	}

	result, err := h.classifyItemsUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"classifications": result,
	})
}
