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

type LinkUnlinkedCommand struct {
	BillingLineID uint
	ReceiptID     uint
	PatientID     uint
	EntitlementID uint
	ItemLabel     string
	UsageDate     time.Time
	Note          string
	Author        string
}

type LinkUnlinkedResult struct {
	Entry       *dto.LedgerEntryDTO `json:"entry"`
	Entitlement *dto.EntitlementDTO `json:"entitlement"`
}

// LinkUnlinkedUseCase resolves a billing line by tying it to a grant that was
// registered before its payment came through. No balance moves; the link
// records which line paid for the grant.
type LinkUnlinkedUseCase struct {
	entitlementRepo entitlement.Repository
	ledgerRepo      ledger.Repository
	memoRepo        memo.Repository
	txMgr           *db.TransactionManager
	logger          logger.Interface
}

func NewLinkUnlinkedUseCase(
	entitlementRepo entitlement.Repository,
	ledgerRepo ledger.Repository,
	memoRepo memo.Repository,
	txMgr *db.TransactionManager,
	logger logger.Interface,
) *LinkUnlinkedUseCase {
	return &LinkUnlinkedUseCase{
		entitlementRepo: entitlementRepo,
		ledgerRepo:      ledgerRepo,
		memoRepo:        memoRepo,
		txMgr:           txMgr,
		logger:          logger,
	}
}

func (uc *LinkUnlinkedUseCase) Execute(ctx context.Context, cmd LinkUnlinkedCommand) (*LinkUnlinkedResult, error) {
	uc.logger.Infow("linking unlinked entitlement",
		"billing_line_id", cmd.BillingLineID,
		"entitlement_id", cmd.EntitlementID,
		"patient_id", cmd.PatientID,
	)

	var result *LinkUnlinkedResult
	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		ent, err := uc.entitlementRepo.GetByIDForUpdate(txCtx, cmd.EntitlementID)
		if err != nil {
			return translateError(err)
		}
		if ent.PatientID() != cmd.PatientID {
			return apperrors.NewBadRequestError("entitlement belongs to a different patient")
		}

		policy, ok := entitlement.PolicyFor(ent.Kind())
		if !ok || !policy.Linkable {
			return apperrors.NewBadRequestError(
				fmt.Sprintf("entitlement kind %s does not support linking", ent.Kind()))
		}

		if err := ent.LinkToBillingLine(cmd.BillingLineID); err != nil {
			return translateError(err)
		}
		if err := uc.entitlementRepo.UpdateLocked(txCtx, ent); err != nil {
			return fmt.Errorf("failed to update entitlement: %w", err)
		}

		entrySID, err := id.GenerateWithPrefix(id.PrefixLedgerEntry)
		if err != nil {
			return fmt.Errorf("failed to generate entry ID: %w", err)
		}
		entID := ent.ID()
		entry, err := ledger.NewEntry(entrySID, cmd.BillingLineID, cmd.ReceiptID, cmd.PatientID,
			ledger.ResolutionLinkUnlinked, &entID, cmd.ItemLabel, nil, 1, 0, cmd.UsageDate, cmd.Note)
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
		m, err := memo.NewResolutionMemo(memoSID, cmd.ReceiptID, cmd.BillingLineID, linkMemoText(ent), cmd.Author)
		if err != nil {
			return fmt.Errorf("failed to create memo: %w", err)
		}
		if err := uc.memoRepo.Create(txCtx, m); err != nil {
			return fmt.Errorf("failed to save memo: %w", err)
		}

		result = &LinkUnlinkedResult{
			Entry:       dto.ToLedgerEntryDTO(entry),
			Entitlement: dto.ToEntitlementDTO(ent),
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	uc.logger.Infow("unlinked entitlement tied to billing line",
		"billing_line_id", cmd.BillingLineID,
		"entitlement_id", cmd.EntitlementID,
	)
	return result, nil
}
