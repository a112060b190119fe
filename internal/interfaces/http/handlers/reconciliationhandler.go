package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"haneul/internal/application/reconciliation/usecases"
	"haneul/internal/domain/entitlement"
	"haneul/internal/shared/logger"
	"haneul/internal/shared/utils"
)

// ReconciliationHandler handles HTTP requests for resolving out-of-pocket
// billing lines against the entitlement ledger.
type ReconciliationHandler struct {
	deductUC            deductUseCase
	createEntitlementUC createEntitlementUseCase
	linkUnlinkedUC      linkUnlinkedUseCase
	recordNoteUC        recordNoteUseCase
	reverseUC           reverseUseCase
	getResolutionUC     getResolutionUseCase
	listLedgerUC        listLedgerUseCase
	logger              logger.Interface
}

func NewReconciliationHandler(
	deductUC deductUseCase,
	createEntitlementUC createEntitlementUseCase,
	linkUnlinkedUC linkUnlinkedUseCase,
	recordNoteUC recordNoteUseCase,
	reverseUC reverseUseCase,
	getResolutionUC getResolutionUseCase,
	listLedgerUC listLedgerUseCase,
	logger logger.Interface,
) *ReconciliationHandler {
	return &ReconciliationHandler{
		deductUC:            deductUC,
		createEntitlementUC: createEntitlementUC,
		linkUnlinkedUC:      linkUnlinkedUC,
		recordNoteUC:        recordNoteUC,
		reverseUC:           reverseUC,
		getResolutionUC:     getResolutionUC,
		listLedgerUC:        listLedgerUC,
		logger:              logger,
	}
}

type DeductRequest struct {
	ReceiptID uint `json:"receipt_id" validate:"required"`
	PatientID uint `json:"patient_id" validate:"required"`
	// Either entitlement_id or kind: with kind alone the engine picks the
	// entitlement only when the patient has exactly one active candidate.
	EntitlementID uint                 `json:"entitlement_id" validate:"required_without=Kind"`
	Kind          string               `json:"kind" validate:"omitempty,oneof=package membership herbal_cycle addon_cycle"`
	ItemLabel     string               `json:"item_label" validate:"required"`
	Items         []usecases.ItemInput `json:"items" validate:"required,min=1,dive"`
	UsageDate     string               `json:"usage_date"`
	Note          string               `json:"note"`
	Author        string               `json:"author"`
}

type CreateEntitlementRequest struct {
	ReceiptID  uint   `json:"receipt_id" validate:"required"`
	PatientID  uint   `json:"patient_id" validate:"required"`
	Kind       string `json:"kind" validate:"required,oneof=package membership herbal_cycle addon_cycle"`
	Label      string `json:"label" validate:"required"`
	TotalUnits int    `json:"total_units" validate:"required,min=1"`
	StartDate  string `json:"start_date"`
	ExpireDate string `json:"expire_date"`
	UsageDate  string `json:"usage_date"`
	Memo       string `json:"memo"`
	Note       string `json:"note"`
	Author     string `json:"author"`
}

type LinkUnlinkedRequest struct {
	ReceiptID     uint   `json:"receipt_id" validate:"required"`
	PatientID     uint   `json:"patient_id" validate:"required"`
	EntitlementID uint   `json:"entitlement_id" validate:"required"`
	ItemLabel     string `json:"item_label" validate:"required"`
	UsageDate     string `json:"usage_date"`
	Note          string `json:"note"`
	Author        string `json:"author"`
}

type RecordNoteRequest struct {
	ReceiptID uint   `json:"receipt_id" validate:"required"`
	PatientID uint   `json:"patient_id" validate:"required"`
	ItemLabel string `json:"item_label" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=0"`
	UsageDate string `json:"usage_date"`
	Note      string `json:"note" validate:"required"`
	Author    string `json:"author"`
}

// Deduct handles POST /billing-lines/:line_id/deduct
func (h *ReconciliationHandler) Deduct(c *gin.Context) {
	lineID, err := parseUintParam(c, "line_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req DeductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for deduct", "line_id", lineID, "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	usageDate, err := parseUsageDate(req.UsageDate)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd := usecases.DeductCommand{
		BillingLineID: lineID,
		ReceiptID:     req.ReceiptID,
		PatientID:     req.PatientID,
		EntitlementID: req.EntitlementID,
		Kind:          entitlement.Kind(req.Kind),
		ItemLabel:     req.ItemLabel,
		Items:         req.Items,
		UsageDate:     usageDate,
		Note:          req.Note,
		Author:        req.Author,
	}

	result, err := h.deductUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Billing line deducted successfully")
}

// CreateEntitlement handles POST /billing-lines/:line_id/entitlements
func (h *ReconciliationHandler) CreateEntitlement(c *gin.Context) {
	lineID, err := parseUintParam(c, "line_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req CreateEntitlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create entitlement", "line_id", lineID, "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	usageDate, err := parseUsageDate(req.UsageDate)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	startDate, err := parseUsageDate(req.StartDate)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	expireDate, err := parseOptionalDate(req.ExpireDate, "expire_date")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd := usecases.CreateEntitlementCommand{
		BillingLineID: lineID,
		ReceiptID:     req.ReceiptID,
		PatientID:     req.PatientID,
		Kind:          entitlement.Kind(req.Kind),
		Label:         req.Label,
		TotalUnits:    req.TotalUnits,
		StartDate:     startDate,
		ExpireDate:    expireDate,
		UsageDate:     usageDate,
		Memo:          req.Memo,
		Note:          req.Note,
		Author:        req.Author,
	}

	result, err := h.createEntitlementUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Entitlement created successfully")
}

// LinkUnlinked handles POST /billing-lines/:line_id/link
func (h *ReconciliationHandler) LinkUnlinked(c *gin.Context) {
	lineID, err := parseUintParam(c, "line_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req LinkUnlinkedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for link", "line_id", lineID, "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	usageDate, err := parseUsageDate(req.UsageDate)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd := usecases.LinkUnlinkedCommand{
		BillingLineID: lineID,
		ReceiptID:     req.ReceiptID,
		PatientID:     req.PatientID,
		EntitlementID: req.EntitlementID,
		ItemLabel:     req.ItemLabel,
		UsageDate:     usageDate,
		Note:          req.Note,
		Author:        req.Author,
	}

	result, err := h.linkUnlinkedUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Billing line linked successfully")
}

// RecordNote handles POST /billing-lines/:line_id/note
func (h *ReconciliationHandler) RecordNote(c *gin.Context) {
	lineID, err := parseUintParam(c, "line_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req RecordNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for record note", "line_id", lineID, "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	usageDate, err := parseUsageDate(req.UsageDate)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd := usecases.RecordNoteCommand{
		BillingLineID: lineID,
		ReceiptID:     req.ReceiptID,
		PatientID:     req.PatientID,
		ItemLabel:     req.ItemLabel,
		Quantity:      req.Quantity,
		UsageDate:     usageDate,
		Note:          req.Note,
		Author:        req.Author,
	}

	result, err := h.recordNoteUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Note recorded successfully")
}

// Reverse handles DELETE /billing-lines/:line_id/resolution
func (h *ReconciliationHandler) Reverse(c *gin.Context) {
	lineID, err := parseUintParam(c, "line_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.reverseUC.Execute(c.Request.Context(), usecases.ReverseCommand{BillingLineID: lineID})
	if err != nil {
		h.logger.Errorw("failed to reverse resolution", "line_id", lineID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Resolution reversed successfully", result)
}

// GetResolution handles GET /billing-lines/:line_id/resolution
func (h *ReconciliationHandler) GetResolution(c *gin.Context) {
	lineID, err := parseUintParam(c, "line_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getResolutionUC.Execute(c.Request.Context(), lineID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListLedger handles GET /ledger
// Query parameters:
//   - patient_id: recent entries for a patient
//   - entitlement_id: every entry drawn from one entitlement
//   - limit: page size, default 50
func (h *ReconciliationHandler) ListLedger(c *gin.Context) {
	patientID, err := parseUintQuery(c, "patient_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	entitlementID, err := parseUintQuery(c, "entitlement_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	limit, err := parseUintQuery(c, "limit")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	query := usecases.ListLedgerQuery{
		PatientID:     patientID,
		EntitlementID: entitlementID,
		Limit:         int(limit),
	}

	result, err := h.listLedgerUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"entries": result,
	})
}
