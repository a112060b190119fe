package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"haneul/internal/application/reconciliation/dto"
	"haneul/internal/domain/ledger"
	"haneul/internal/domain/memo"
	"haneul/internal/shared/db"
	apperrors "haneul/internal/shared/errors"
	"haneul/internal/shared/id"
	"haneul/internal/shared/logger"
	"haneul/internal/shared/utils"
)

type RecordNoteCommand struct {
	BillingLineID uint
	ReceiptID     uint
	PatientID     uint
	ItemLabel     string
	Quantity      int
	UsageDate     time.Time
	Note          string
	Author        string
}

type RecordNoteResult struct {
	Entry *dto.LedgerEntryDTO `json:"entry"`
	Memo  *dto.ReceiptMemoDTO `json:"memo"`
}

// RecordNoteUseCase resolves a billing line with a memo and nothing else.
// One-time consumption lands here: the visit is acknowledged in the ledger
// but no entitlement row is ever created for it.
type RecordNoteUseCase struct {
	ledgerRepo ledger.Repository
	memoRepo   memo.Repository
	txMgr      *db.TransactionManager
	logger     logger.Interface
}

func NewRecordNoteUseCase(
	ledgerRepo ledger.Repository,
	memoRepo memo.Repository,
	txMgr *db.TransactionManager,
	logger logger.Interface,
) *RecordNoteUseCase {
	return &RecordNoteUseCase{
		ledgerRepo: ledgerRepo,
		memoRepo:   memoRepo,
		txMgr:      txMgr,
		logger:     logger,
	}
}

func (uc *RecordNoteUseCase) Execute(ctx context.Context, cmd RecordNoteCommand) (*RecordNoteResult, error) {
	note := strings.TrimSpace(utils.SanitizeMemo(cmd.Note))
	if note == "" {
		return nil, apperrors.NewValidationError("note content is required")
	}
	quantity := cmd.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	uc.logger.Infow("recording note-only resolution",
		"billing_line_id", cmd.BillingLineID,
		"patient_id", cmd.PatientID,
	)

	var result *RecordNoteResult
	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		entrySID, err := id.GenerateWithPrefix(id.PrefixLedgerEntry)
		if err != nil {
			return fmt.Errorf("failed to generate entry ID: %w", err)
		}
		entry, err := ledger.NewEntry(entrySID, cmd.BillingLineID, cmd.ReceiptID, cmd.PatientID,
			ledger.ResolutionNoteOnly, nil, cmd.ItemLabel, nil, quantity, 0, cmd.UsageDate, note)
		if err != nil {
			return translateError(err)
		}
		if err := uc.ledgerRepo.Record(txCtx, entry); err != nil {
			return translateError(err)
		}

		memoSID, err := id.GenerateWithPrefix(id.PrefixMemo)
		if err != nil {
			return fmt.Errorf("failed to generate memo ID: %w", err)
		}
		m, err := memo.NewResolutionMemo(memoSID, cmd.ReceiptID, cmd.BillingLineID, note, cmd.Author)
		if err != nil {
			return fmt.Errorf("failed to create memo: %w", err)
		}
		if err := uc.memoRepo.Create(txCtx, m); err != nil {
			return fmt.Errorf("failed to save memo: %w", err)
		}

		result = &RecordNoteResult{
			Entry: dto.ToLedgerEntryDTO(entry),
			Memo:  dto.ToReceiptMemoDTO(m),
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	uc.logger.Infow("note-only resolution recorded",
		"billing_line_id", cmd.BillingLineID,
		"entry_sid", result.Entry.SID,
	)
	return result, nil
}
