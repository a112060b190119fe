package handlers

import (
	"context"

	"haneul/internal/application/reconciliation/dto"
	"haneul/internal/application/reconciliation/usecases"
)

// Use case interfaces for ReconciliationHandler

type deductUseCase interface {
	Execute(ctx context.Context, cmd usecases.DeductCommand) (*usecases.DeductResult, error)
}

type createEntitlementUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreateEntitlementCommand) (*usecases.CreateEntitlementResult, error)
}

type linkUnlinkedUseCase interface {
	Execute(ctx context.Context, cmd usecases.LinkUnlinkedCommand) (*usecases.LinkUnlinkedResult, error)
}

type recordNoteUseCase interface {
	Execute(ctx context.Context, cmd usecases.RecordNoteCommand) (*usecases.RecordNoteResult, error)
}

type reverseUseCase interface {
	Execute(ctx context.Context, cmd usecases.ReverseCommand) (*usecases.ReverseResult, error)
}

type getResolutionUseCase interface {
	Execute(ctx context.Context, billingLineID uint) (*dto.LedgerEntryDTO, error)
}

type listLedgerUseCase interface {
	Execute(ctx context.Context, q usecases.ListLedgerQuery) ([]*dto.LedgerEntryDTO, error)
}
