package usecases

import (
	"context"
	"fmt"

	"haneul/internal/application/reconciliation/dto"
	"haneul/internal/domain/ledger"
	"haneul/internal/shared/logger"
)

// GetResolutionUseCase looks up how a billing line was resolved, if at all.
type GetResolutionUseCase struct {
	ledgerRepo ledger.Repository
	logger     logger.Interface
}

func NewGetResolutionUseCase(
	ledgerRepo ledger.Repository,
	logger logger.Interface,
) *GetResolutionUseCase {
	return &GetResolutionUseCase{
		ledgerRepo: ledgerRepo,
		logger:     logger,
	}
}

func (uc *GetResolutionUseCase) Execute(ctx context.Context, billingLineID uint) (*dto.LedgerEntryDTO, error) {
	entry, err := uc.ledgerRepo.GetByBillingLine(ctx, billingLineID)
	if err != nil {
		return nil, translateError(err)
	}
	return dto.ToLedgerEntryDTO(entry), nil
}

type ListLedgerQuery struct {
	PatientID     uint
	EntitlementID uint
	Limit         int
}

// ListLedgerUseCase returns resolution history, either a patient's recent
// entries or everything drawn from one entitlement.
type ListLedgerUseCase struct {
	ledgerRepo ledger.Repository
	logger     logger.Interface
}

func NewListLedgerUseCase(
	ledgerRepo ledger.Repository,
	logger logger.Interface,
) *ListLedgerUseCase {
	return &ListLedgerUseCase{
		ledgerRepo: ledgerRepo,
		logger:     logger,
	}
}

func (uc *ListLedgerUseCase) Execute(ctx context.Context, q ListLedgerQuery) ([]*dto.LedgerEntryDTO, error) {
	var (
		entries []*ledger.Entry
		err     error
	)
	if q.EntitlementID != 0 {
		entries, err = uc.ledgerRepo.ListByEntitlement(ctx, q.EntitlementID)
	} else {
		limit := q.Limit
		if limit <= 0 || limit > 200 {
			limit = 50
		}
		entries, err = uc.ledgerRepo.ListByPatient(ctx, q.PatientID, limit)
	}
	if err != nil {
		uc.logger.Errorw("failed to list ledger entries",
			"patient_id", q.PatientID, "entitlement_id", q.EntitlementID, "error", err)
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	return dto.ToLedgerEntryDTOList(entries), nil
}
