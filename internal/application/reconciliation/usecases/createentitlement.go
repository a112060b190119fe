package usecases

import (
	"context"
	"fmt"
	"time"

	"haneul/internal/application/reconciliation/dto"
	"haneul/internal/domain/entitlement"
	"haneul/internal/domain/ledger"
	"haneul/internal/domain/memo"
	"haneul/internal/shared/db"
	apperrors "haneul/internal/shared/errors"
	"haneul/internal/shared/id"
	"haneul/internal/shared/logger"
)

type CreateEntitlementCommand struct {
	BillingLineID uint
	ReceiptID     uint
	PatientID     uint
	Kind          entitlement.Kind
	Label         string
	TotalUnits    int
	StartDate     time.Time
	ExpireDate    *time.Time
	UsageDate     time.Time
	Memo          string
	Note          string
	Author        string
}

type CreateEntitlementResult struct {
	Entry       *dto.LedgerEntryDTO `json:"entry"`
	Entitlement *dto.EntitlementDTO `json:"entitlement"`
}

// CreateEntitlementUseCase resolves a billing line as the purchase of a new
// grant. The grant is born linked to the line that paid for it.
type CreateEntitlementUseCase struct {
	entitlementRepo entitlement.Repository
	ledgerRepo      ledger.Repository
	memoRepo        memo.Repository
	txMgr           *db.TransactionManager
	logger          logger.Interface
}

func NewCreateEntitlementUseCase(
	entitlementRepo entitlement.Repository,
	ledgerRepo ledger.Repository,
	memoRepo memo.Repository,
	txMgr *db.TransactionManager,
	logger logger.Interface,
) *CreateEntitlementUseCase {
	return &CreateEntitlementUseCase{
		entitlementRepo: entitlementRepo,
		ledgerRepo:      ledgerRepo,
		memoRepo:        memoRepo,
		txMgr:           txMgr,
		logger:          logger,
	}
}

func (uc *CreateEntitlementUseCase) Execute(ctx context.Context, cmd CreateEntitlementCommand) (*CreateEntitlementResult, error) {
	uc.logger.Infow("creating entitlement from billing line",
		"billing_line_id", cmd.BillingLineID,
		"patient_id", cmd.PatientID,
		"kind", cmd.Kind,
		"total_units", cmd.TotalUnits,
	)

	entSID, err := id.GenerateWithPrefix(id.PrefixEntitlement)
	if err != nil {
		return nil, fmt.Errorf("failed to generate entitlement ID: %w", err)
	}
	ent, err := entitlement.NewEntitlement(entSID, cmd.PatientID, cmd.Kind, cmd.Label,
		cmd.TotalUnits, cmd.StartDate, cmd.ExpireDate, cmd.Memo)
	if err != nil {
		if translated := translateError(err); apperrors.IsAppError(translated) {
			return nil, translated
		}
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := ent.LinkToBillingLine(cmd.BillingLineID); err != nil {
		return nil, translateError(err)
	}

	var result *CreateEntitlementResult
	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		// duplicate check up front so we do not insert a grant only to
		// fail on the ledger's unique index
		exists, err := uc.ledgerRepo.Exists(txCtx, cmd.BillingLineID)
		if err != nil {
			return fmt.Errorf("failed to check existing resolution: %w", err)
		}
		if exists {
			return apperrors.NewDuplicateResolutionError(
				fmt.Sprintf("billing line %d is already resolved", cmd.BillingLineID))
		}

		if err := uc.entitlementRepo.Create(txCtx, ent); err != nil {
			return fmt.Errorf("failed to create entitlement: %w", err)
		}

		entrySID, err := id.GenerateWithPrefix(id.PrefixLedgerEntry)
		if err != nil {
			return fmt.Errorf("failed to generate entry ID: %w", err)
		}
		entID := ent.ID()
		entry, err := ledger.NewEntry(entrySID, cmd.BillingLineID, cmd.ReceiptID, cmd.PatientID,
			ledger.ResolutionCreateEntitlement, &entID, cmd.Label, nil, 1, 0, cmd.UsageDate, cmd.Note)
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
		m, err := memo.NewResolutionMemo(memoSID, cmd.ReceiptID, cmd.BillingLineID, creationMemoText(ent), cmd.Author)
		if err != nil {
			return fmt.Errorf("failed to create memo: %w", err)
		}
		if err := uc.memoRepo.Create(txCtx, m); err != nil {
			return fmt.Errorf("failed to save memo: %w", err)
		}

		result = &CreateEntitlementResult{
			Entry:       dto.ToLedgerEntryDTO(entry),
			Entitlement: dto.ToEntitlementDTO(ent),
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	uc.logger.Infow("entitlement created from billing line",
		"billing_line_id", cmd.BillingLineID,
		"entitlement_id", result.Entitlement.ID,
		"sid", result.Entitlement.SID,
		"total_units", result.Entitlement.TotalUnits,
	)
	return result, nil
}
