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

type DeductCommand struct {
	BillingLineID uint
	ReceiptID     uint
	PatientID     uint
	// EntitlementID may be zero; Kind then drives auto-selection, which
	// succeeds only when the patient has exactly one active candidate.
	EntitlementID uint
	Kind          entitlement.Kind
	ItemLabel     string
	Items         []ItemInput
	UsageDate     time.Time
	Note          string
	Author        string
}

type DeductResult struct {
	Entry       *dto.LedgerEntryDTO `json:"entry"`
	Entitlement *dto.EntitlementDTO `json:"entitlement"`
}

// DeductUseCase resolves a billing line by consuming units from an existing
// entitlement. The balance move, the ledger entry, and the receipt memo
// commit or roll back together.
type DeductUseCase struct {
	entitlementRepo entitlement.Repository
	ledgerRepo      ledger.Repository
	memoRepo        memo.Repository
	txMgr           *db.TransactionManager
	logger          logger.Interface
}

func NewDeductUseCase(
	entitlementRepo entitlement.Repository,
	ledgerRepo ledger.Repository,
	memoRepo memo.Repository,
	txMgr *db.TransactionManager,
	logger logger.Interface,
) *DeductUseCase {
	return &DeductUseCase{
		entitlementRepo: entitlementRepo,
		ledgerRepo:      ledgerRepo,
		memoRepo:        memoRepo,
		txMgr:           txMgr,
		logger:          logger,
	}
}

func (uc *DeductUseCase) Execute(ctx context.Context, cmd DeductCommand) (*DeductResult, error) {
	items, err := buildItems(cmd.Items)
	if err != nil {
		return nil, err
	}
	units := ledger.TotalUnits(items)

	uc.logger.Infow("executing deduction",
		"billing_line_id", cmd.BillingLineID,
		"entitlement_id", cmd.EntitlementID,
		"patient_id", cmd.PatientID,
		"units", units,
	)

	var result *DeductResult
	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		entitlementID := cmd.EntitlementID
		if entitlementID == 0 {
			selected, err := uc.selectEntitlement(txCtx, cmd)
			if err != nil {
				return err
			}
			entitlementID = selected
		}

		ent, err := uc.entitlementRepo.GetByIDForUpdate(txCtx, entitlementID)
		if err != nil {
			return translateError(err)
		}
		if ent.PatientID() != cmd.PatientID {
			return apperrors.NewBadRequestError("entitlement belongs to a different patient")
		}

		kind, ok := ledger.DeductionKindFor(ent.Kind())
		if !ok {
			return apperrors.NewBadRequestError(fmt.Sprintf("entitlement kind %s cannot be deducted", ent.Kind()))
		}

		if err := ent.Deduct(units); err != nil {
			uc.logger.Warnw("deduction rejected",
				"entitlement_id", ent.ID(),
				"units", units,
				"error", err,
			)
			return translateError(err)
		}
		if err := uc.entitlementRepo.UpdateLocked(txCtx, ent); err != nil {
			return fmt.Errorf("failed to update entitlement: %w", err)
		}

		sid, err := id.GenerateWithPrefix(id.PrefixLedgerEntry)
		if err != nil {
			return fmt.Errorf("failed to generate entry ID: %w", err)
		}
		entID := ent.ID()
		entry, err := ledger.NewEntry(sid, cmd.BillingLineID, cmd.ReceiptID, cmd.PatientID,
			kind, &entID, cmd.ItemLabel, items, totalQuantity(items), units, cmd.UsageDate, cmd.Note)
		if err != nil {
			return translateError(err)
		}
		if err := uc.ledgerRepo.Record(txCtx, entry); err != nil {
			return translateError(err)
		}

		if err := uc.writeMemo(txCtx, cmd, deductionMemoText(ent, units)); err != nil {
			return err
		}

		result = &DeductResult{
			Entry:       dto.ToLedgerEntryDTO(entry),
			Entitlement: dto.ToEntitlementDTO(ent),
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	uc.logger.Infow("deduction recorded",
		"billing_line_id", cmd.BillingLineID,
		"entitlement_id", result.Entitlement.ID,
		"units_deducted", units,
		"remaining_units", result.Entitlement.RemainingUnits,
		"status", result.Entitlement.Status,
	)
	return result, nil
}

// selectEntitlement picks the target when the caller named none. The pick is
// made only when exactly one active candidate exists; anything else goes back
// to the caller for an explicit choice.
func (uc *DeductUseCase) selectEntitlement(ctx context.Context, cmd DeductCommand) (uint, error) {
	if !cmd.Kind.IsValid() {
		return 0, apperrors.NewValidationError("kind is required when entitlement_id is omitted")
	}

	candidates, err := uc.entitlementRepo.GetActive(ctx, cmd.PatientID, cmd.Kind)
	if err != nil {
		return 0, fmt.Errorf("failed to list candidate entitlements: %w", err)
	}

	switch len(candidates) {
	case 0:
		return 0, apperrors.NewNotFoundError(
			fmt.Sprintf("patient %d has no active %s entitlement", cmd.PatientID, cmd.Kind))
	case 1:
		return candidates[0].ID(), nil
	default:
		return 0, apperrors.NewBadRequestError(
			fmt.Sprintf("patient %d has %d active %s entitlements, entitlement_id is required",
				cmd.PatientID, len(candidates), cmd.Kind))
	}
}

func (uc *DeductUseCase) writeMemo(ctx context.Context, cmd DeductCommand, content string) error {
	sid, err := id.GenerateWithPrefix(id.PrefixMemo)
	if err != nil {
		return fmt.Errorf("failed to generate memo ID: %w", err)
	}
	m, err := memo.NewResolutionMemo(sid, cmd.ReceiptID, cmd.BillingLineID, content, cmd.Author)
	if err != nil {
		return fmt.Errorf("failed to create memo: %w", err)
	}
	if err := uc.memoRepo.Create(ctx, m); err != nil {
		return fmt.Errorf("failed to save memo: %w", err)
	}
	return nil
}

// buildItems validates and converts submitted items. Weight defaults to 1 for
// items the catalog did not classify.
func buildItems(inputs []ItemInput) ([]ledger.Item, error) {
	if len(inputs) == 0 {
		return nil, apperrors.NewValidationError("at least one item is required")
	}
	items := make([]ledger.Item, 0, len(inputs))
	for _, in := range inputs {
		if in.Quantity <= 0 {
			return nil, apperrors.NewInvalidQuantityError(
				fmt.Sprintf("item %q has non-positive quantity %d", in.Label, in.Quantity))
		}
		w := in.Weight
		if w <= 0 {
			w = 1
		}
		items = append(items, ledger.Item{Label: in.Label, Quantity: in.Quantity, Weight: w})
	}
	return items, nil
}

func totalQuantity(items []ledger.Item) int {
	q := 0
	for _, it := range items {
		q += it.Quantity
	}
	return q
}
