package usecases

import (
	"context"
	"fmt"

	"haneul/internal/application/reconciliation/dto"
	"haneul/internal/domain/memo"
	apperrors "haneul/internal/shared/errors"
	"haneul/internal/shared/id"
	"haneul/internal/shared/logger"
	"haneul/internal/shared/utils"
)

type AddReceiptMemoCommand struct {
	ReceiptID     uint
	BillingLineID *uint
	Content       string
	Author        string
}

// AddReceiptMemoUseCase appends a hand-written memo to a receipt, outside
// any resolution flow.
type AddReceiptMemoUseCase struct {
	memoRepo memo.Repository
	logger   logger.Interface
}

func NewAddReceiptMemoUseCase(
	memoRepo memo.Repository,
	logger logger.Interface,
) *AddReceiptMemoUseCase {
	return &AddReceiptMemoUseCase{
		memoRepo: memoRepo,
		logger:   logger,
	}
}

func (uc *AddReceiptMemoUseCase) Execute(ctx context.Context, cmd AddReceiptMemoCommand) (*dto.ReceiptMemoDTO, error) {
	content := utils.SanitizeMemo(cmd.Content)
	if content == "" {
		return nil, apperrors.NewValidationError("memo content is required")
	}

	sid, err := id.GenerateWithPrefix(id.PrefixMemo)
	if err != nil {
		return nil, fmt.Errorf("failed to generate memo ID: %w", err)
	}
	m, err := memo.NewReceiptMemo(sid, cmd.ReceiptID, cmd.BillingLineID, content, cmd.Author)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := uc.memoRepo.Create(ctx, m); err != nil {
		uc.logger.Errorw("failed to save memo", "receipt_id", cmd.ReceiptID, "error", err)
		return nil, fmt.Errorf("failed to save memo: %w", err)
	}

	uc.logger.Infow("receipt memo added", "receipt_id", cmd.ReceiptID, "memo_sid", m.SID())
	return dto.ToReceiptMemoDTO(m), nil
}

// ListReceiptMemosUseCase returns a receipt's memo history, oldest first.
type ListReceiptMemosUseCase struct {
	memoRepo memo.Repository
	logger   logger.Interface
}

func NewListReceiptMemosUseCase(
	memoRepo memo.Repository,
	logger logger.Interface,
) *ListReceiptMemosUseCase {
	return &ListReceiptMemosUseCase{
		memoRepo: memoRepo,
		logger:   logger,
	}
}

func (uc *ListReceiptMemosUseCase) Execute(ctx context.Context, receiptID uint) ([]*dto.ReceiptMemoDTO, error) {
	memos, err := uc.memoRepo.ListByReceipt(ctx, receiptID)
	if err != nil {
		uc.logger.Errorw("failed to list memos", "receipt_id", receiptID, "error", err)
		return nil, fmt.Errorf("failed to list memos: %w", err)
	}
	return dto.ToReceiptMemoDTOList(memos), nil
}

// ListBillingLineMemosUseCase returns the memos attached to one billing
// line, oldest first.
type ListBillingLineMemosUseCase struct {
	memoRepo memo.Repository
	logger   logger.Interface
}

func NewListBillingLineMemosUseCase(
	memoRepo memo.Repository,
	logger logger.Interface,
) *ListBillingLineMemosUseCase {
	return &ListBillingLineMemosUseCase{
		memoRepo: memoRepo,
		logger:   logger,
	}
}

func (uc *ListBillingLineMemosUseCase) Execute(ctx context.Context, billingLineID uint) ([]*dto.ReceiptMemoDTO, error) {
	memos, err := uc.memoRepo.ListByBillingLine(ctx, billingLineID)
	if err != nil {
		uc.logger.Errorw("failed to list memos", "billing_line_id", billingLineID, "error", err)
		return nil, fmt.Errorf("failed to list memos: %w", err)
	}
	return dto.ToReceiptMemoDTOList(memos), nil
}

// DeleteReceiptMemoUseCase removes a single hand-written memo. Memos a
// resolution generated are cleaned up through reversal instead and cannot
// be deleted directly.
type DeleteReceiptMemoUseCase struct {
	memoRepo memo.Repository
	logger   logger.Interface
}

func NewDeleteReceiptMemoUseCase(
	memoRepo memo.Repository,
	logger logger.Interface,
) *DeleteReceiptMemoUseCase {
	return &DeleteReceiptMemoUseCase{
		memoRepo: memoRepo,
		logger:   logger,
	}
}

func (uc *DeleteReceiptMemoUseCase) Execute(ctx context.Context, memoID uint) error {
	m, err := uc.memoRepo.GetByID(ctx, memoID)
	if err != nil {
		return translateError(err)
	}
	if m.Source() == memo.SourceResolution {
		return apperrors.NewConflictError(
			"memo was written by a resolution; reverse the resolution instead")
	}

	if err := uc.memoRepo.Delete(ctx, memoID); err != nil {
		uc.logger.Errorw("failed to delete memo", "memo_id", memoID, "error", err)
		return translateError(err)
	}

	uc.logger.Infow("receipt memo deleted", "memo_id", memoID, "receipt_id", m.ReceiptID())
	return nil
}
