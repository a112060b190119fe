package usecases

import (
	"context"
	"errors"
	"fmt"

	"haneul/internal/application/reconciliation/dto"
	"haneul/internal/domain/entitlement"
	"haneul/internal/domain/ledger"
	"haneul/internal/domain/memo"
	"haneul/internal/shared/db"
	apperrors "haneul/internal/shared/errors"
	"haneul/internal/shared/logger"
)

type ReverseCommand struct {
	BillingLineID uint
}

type ReverseResult struct {
	ReversedKind string              `json:"reversed_kind"`
	Entitlement  *dto.EntitlementDTO `json:"entitlement,omitempty"`
}

// ReverseUseCase undoes a billing line's resolution: the inverse entitlement
// effect is applied first, then the ledger entry and the memos written for
// the line are removed, all in one transaction. Afterwards the line is
// unresolved again, as if the resolution had never happened.
type ReverseUseCase struct {
	entitlementRepo entitlement.Repository
	ledgerRepo      ledger.Repository
	memoRepo        memo.Repository
	txMgr           *db.TransactionManager
	logger          logger.Interface
}

func NewReverseUseCase(
	entitlementRepo entitlement.Repository,
	ledgerRepo ledger.Repository,
	memoRepo memo.Repository,
	txMgr *db.TransactionManager,
	logger logger.Interface,
) *ReverseUseCase {
	return &ReverseUseCase{
		entitlementRepo: entitlementRepo,
		ledgerRepo:      ledgerRepo,
		memoRepo:        memoRepo,
		txMgr:           txMgr,
		logger:          logger,
	}
}

func (uc *ReverseUseCase) Execute(ctx context.Context, cmd ReverseCommand) (*ReverseResult, error) {
	uc.logger.Infow("reversing resolution", "billing_line_id", cmd.BillingLineID)

	var result *ReverseResult
	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		entry, err := uc.ledgerRepo.GetByBillingLineForUpdate(txCtx, cmd.BillingLineID)
		if err != nil {
			if errors.Is(err, ledger.ErrNotFound) {
				return apperrors.NewNothingToReverseError(
					fmt.Sprintf("billing line %d has no resolution", cmd.BillingLineID))
			}
			return fmt.Errorf("failed to load resolution: %w", err)
		}

		ent, err := uc.undoEntitlementEffect(txCtx, entry)
		if err != nil {
			return err
		}

		if err := uc.ledgerRepo.Delete(txCtx, entry.ID()); err != nil {
			return fmt.Errorf("failed to delete ledger entry: %w", err)
		}
		if err := uc.memoRepo.DeleteByBillingLine(txCtx, cmd.BillingLineID); err != nil {
			return fmt.Errorf("failed to delete memos: %w", err)
		}

		result = &ReverseResult{
			ReversedKind: entry.ResolutionKind().String(),
			Entitlement:  dto.ToEntitlementDTO(ent),
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	uc.logger.Infow("resolution reversed",
		"billing_line_id", cmd.BillingLineID,
		"reversed_kind", result.ReversedKind,
	)
	return result, nil
}

// undoEntitlementEffect applies the inverse of the entry's entitlement effect
// and returns the touched entitlement, nil for note-only entries. The deleted
// entitlement of a reversed creation is not returned either.
func (uc *ReverseUseCase) undoEntitlementEffect(ctx context.Context, entry *ledger.Entry) (*entitlement.Entitlement, error) {
	kind := entry.ResolutionKind()
	if kind == ledger.ResolutionNoteOnly {
		return nil, nil
	}

	if entry.EntitlementID() == nil {
		return nil, apperrors.NewCorruptLedgerError(
			fmt.Sprintf("entry %d of kind %s has no entitlement reference", entry.ID(), kind))
	}
	ent, err := uc.entitlementRepo.GetByIDForUpdate(ctx, *entry.EntitlementID())
	if err != nil {
		if errors.Is(err, entitlement.ErrNotFound) {
			return nil, apperrors.NewCorruptLedgerError(
				fmt.Sprintf("entry %d references missing entitlement %d", entry.ID(), *entry.EntitlementID()))
		}
		return nil, fmt.Errorf("failed to load entitlement: %w", err)
	}

	switch {
	case kind.IsDeduction():
		if err := ent.Restore(entry.UnitsDeducted()); err != nil {
			uc.logger.Errorw("restore failed during reversal",
				"entry_id", entry.ID(),
				"entitlement_id", ent.ID(),
				"units", entry.UnitsDeducted(),
				"error", err,
			)
			return nil, translateError(err)
		}
		if err := uc.entitlementRepo.UpdateLocked(ctx, ent); err != nil {
			return nil, fmt.Errorf("failed to update entitlement: %w", err)
		}
		return ent, nil

	case kind == ledger.ResolutionCreateEntitlement:
		if !ent.CanDelete() {
			return nil, apperrors.NewEntitlementInUseError(
				fmt.Sprintf("entitlement %d has %d used units; reverse its deductions first",
					ent.ID(), ent.UsedUnits()))
		}
		if err := uc.entitlementRepo.Delete(ctx, ent.ID()); err != nil {
			return nil, fmt.Errorf("failed to delete entitlement: %w", err)
		}
		return nil, nil

	case kind == ledger.ResolutionLinkUnlinked:
		if err := ent.UnlinkBillingLine(); err != nil {
			return nil, translateError(err)
		}
		if err := uc.entitlementRepo.UpdateLocked(ctx, ent); err != nil {
			return nil, fmt.Errorf("failed to update entitlement: %w", err)
		}
		return ent, nil

	default:
		return nil, apperrors.NewCorruptLedgerError(
			fmt.Sprintf("entry %d has unknown resolution kind %s", entry.ID(), kind))
	}
}
