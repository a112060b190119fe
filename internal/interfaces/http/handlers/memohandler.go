package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"haneul/internal/application/reconciliation/usecases"
	"haneul/internal/shared/errors"
	"haneul/internal/shared/logger"
	"haneul/internal/shared/utils"
)

// MemoHandler handles HTTP requests for receipt memos.
type MemoHandler struct {
	addMemoUC       *usecases.AddReceiptMemoUseCase
	listMemosUC     *usecases.ListReceiptMemosUseCase
	listLineMemosUC *usecases.ListBillingLineMemosUseCase
	deleteMemoUC    *usecases.DeleteReceiptMemoUseCase
	logger          logger.Interface
}

func NewMemoHandler(
	addMemoUC *usecases.AddReceiptMemoUseCase,
	listMemosUC *usecases.ListReceiptMemosUseCase,
	listLineMemosUC *usecases.ListBillingLineMemosUseCase,
	deleteMemoUC *usecases.DeleteReceiptMemoUseCase,
	logger logger.Interface,
) *MemoHandler {
	return &MemoHandler{
		addMemoUC:       addMemoUC,
		listMemosUC:     listMemosUC,
		listLineMemosUC: listLineMemosUC,
		deleteMemoUC:    deleteMemoUC,
		logger:          logger,
	}
}

type AddReceiptMemoRequest struct {
	BillingLineID *uint  `json:"billing_line_id"`
	Content       string `json:"content" validate:"required"`
	Author        string `json:"author"`
}

// AddMemo handles POST /receipts/:receipt_id/memos
func (h *MemoHandler) AddMemo(c *gin.Context) {
	receiptID, err := parseUintParam(c, "receipt_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req AddReceiptMemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for add memo", "receipt_id", receiptID, "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd := usecases.AddReceiptMemoCommand{
		ReceiptID:     receiptID,
		BillingLineID: req.BillingLineID,
		Content:       req.Content,
		Author:        req.Author,
	}

	result, err := h.addMemoUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Memo added successfully")
}

// ListMemos handles GET /receipts/:receipt_id/memos
func (h *MemoHandler) ListMemos(c *gin.Context) {
	receiptID, err := parseUintParam(c, "receipt_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.listMemosUC.Execute(c.Request.Context(), receiptID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"memos": result,
	})
}

// ListBillingLineMemos handles GET /memos?billing_line_id=
func (h *MemoHandler) ListBillingLineMemos(c *gin.Context) {
	billingLineID, err := parseUintQuery(c, "billing_line_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	if billingLineID == 0 {
		utils.ErrorResponseWithError(c,
			errors.NewValidationError("billing_line_id is required"))
		return
	}

	result, err := h.listLineMemosUC.Execute(c.Request.Context(), billingLineID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"memos": result,
	})
}

// DeleteMemo handles DELETE /memos/:memo_id
func (h *MemoHandler) DeleteMemo(c *gin.Context) {
	memoID, err := parseUintParam(c, "memo_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deleteMemoUC.Execute(c.Request.Context(), memoID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
