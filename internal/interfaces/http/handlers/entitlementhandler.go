package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"haneul/internal/application/reconciliation/usecases"
	"haneul/internal/domain/entitlement"
	"haneul/internal/shared/logger"
	"haneul/internal/shared/utils"
)

// EntitlementHandler handles HTTP requests for patient entitlement lookups.
type EntitlementHandler struct {
	listEntitlementsUC *usecases.ListEntitlementsUseCase
	getEntitlementUC   *usecases.GetEntitlementUseCase
	logger             logger.Interface
}

func NewEntitlementHandler(
	listEntitlementsUC *usecases.ListEntitlementsUseCase,
	getEntitlementUC *usecases.GetEntitlementUseCase,
	logger logger.Interface,
) *EntitlementHandler {
	return &EntitlementHandler{
		listEntitlementsUC: listEntitlementsUC,
		getEntitlementUC:   getEntitlementUC,
		logger:             logger,
	}
}

// ListPatientEntitlements handles GET /patients/:patient_id/entitlements
// Query parameters:
//   - filter: all (default), active, or unlinked
//   - kind: restrict to one entitlement kind
func (h *EntitlementHandler) ListPatientEntitlements(c *gin.Context) {
	patientID, err := parseUintParam(c, "patient_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	filter := usecases.EntitlementFilter(c.DefaultQuery("filter", string(usecases.FilterAll)))
	kind := entitlement.Kind(c.Query("kind"))

	query := usecases.ListEntitlementsQuery{
		PatientID: patientID,
		Kind:      kind,
		Filter:    filter,
	}

	result, err := h.listEntitlementsUC.Execute(c.Request.Context(), query)
	if err != nil {
		h.logger.Errorw("failed to list entitlements",
			"patient_id", patientID,
			"filter", filter,
			"error", err,
		)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"entitlements": result,
	})
}

// GetEntitlement handles GET /entitlements/:entitlement_id
func (h *EntitlementHandler) GetEntitlement(c *gin.Context) {
	entitlementID, err := parseUintParam(c, "entitlement_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getEntitlementUC.Execute(c.Request.Context(), entitlementID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
