package usecases

import (
	"context"
	"fmt"

	"haneul/internal/application/reconciliation/dto"
	"haneul/internal/domain/entitlement"
	apperrors "haneul/internal/shared/errors"
	"haneul/internal/shared/logger"
)

// EntitlementFilter selects which slice of a patient's grants to return.
type EntitlementFilter string

const (
	// FilterAll returns every grant regardless of status
	FilterAll EntitlementFilter = "all"
	// FilterActive returns active grants with remaining balance,
	// soonest expiry first
	FilterActive EntitlementFilter = "active"
	// FilterUnlinked returns grants not yet tied to a billing line
	FilterUnlinked EntitlementFilter = "unlinked"
)

type ListEntitlementsQuery struct {
	PatientID uint
	Kind      entitlement.Kind
	Filter    EntitlementFilter
}

type ListEntitlementsUseCase struct {
	entitlementRepo entitlement.Repository
	logger          logger.Interface
}

func NewListEntitlementsUseCase(
	entitlementRepo entitlement.Repository,
	logger logger.Interface,
) *ListEntitlementsUseCase {
	return &ListEntitlementsUseCase{
		entitlementRepo: entitlementRepo,
		logger:          logger,
	}
}

func (uc *ListEntitlementsUseCase) Execute(ctx context.Context, q ListEntitlementsQuery) ([]*dto.EntitlementDTO, error) {
	if q.Filter != FilterAll && !q.Kind.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid entitlement kind: %s", q.Kind))
	}

	var (
		ents []*entitlement.Entitlement
		err  error
	)
	switch q.Filter {
	case FilterActive:
		ents, err = uc.entitlementRepo.GetActive(ctx, q.PatientID, q.Kind)
	case FilterUnlinked:
		if policy, ok := entitlement.PolicyFor(q.Kind); !ok || !policy.Linkable {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("entitlement kind %s does not support linking", q.Kind))
		}
		ents, err = uc.entitlementRepo.GetUnlinked(ctx, q.PatientID, q.Kind)
	case FilterAll, "":
		ents, err = uc.entitlementRepo.GetByPatient(ctx, q.PatientID)
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid filter: %s", q.Filter))
	}
	if err != nil {
		uc.logger.Errorw("failed to list entitlements",
			"patient_id", q.PatientID, "filter", q.Filter, "error", err)
		return nil, fmt.Errorf("failed to list entitlements: %w", err)
	}

	return dto.ToEntitlementDTOList(ents), nil
}

type GetEntitlementUseCase struct {
	entitlementRepo entitlement.Repository
	logger          logger.Interface
}

func NewGetEntitlementUseCase(
	entitlementRepo entitlement.Repository,
	logger logger.Interface,
) *GetEntitlementUseCase {
	return &GetEntitlementUseCase{
		entitlementRepo: entitlementRepo,
		logger:          logger,
	}
}

func (uc *GetEntitlementUseCase) Execute(ctx context.Context, entitlementID uint) (*dto.EntitlementDTO, error) {
	ent, err := uc.entitlementRepo.GetByID(ctx, entitlementID)
	if err != nil {
		return nil, translateError(err)
	}
	return dto.ToEntitlementDTO(ent), nil
}
