package usecases

import (
	"errors"

	"haneul/internal/domain/entitlement"
	"haneul/internal/domain/ledger"
	"haneul/internal/domain/memo"
	apperrors "haneul/internal/shared/errors"
)

// translateError maps domain sentinels onto the API error taxonomy, keeping
// the domain message so shortfall counts and IDs reach the client. Errors
// that are already AppErrors pass through untouched.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if apperrors.IsAppError(err) {
		return err
	}

	switch {
	case errors.Is(err, entitlement.ErrNotFound):
		return apperrors.NewNotFoundError("entitlement not found", err.Error())
	case errors.Is(err, ledger.ErrNotFound):
		return apperrors.NewNotFoundError("resolution not found", err.Error())
	case errors.Is(err, memo.ErrNotFound):
		return apperrors.NewNotFoundError("memo not found", err.Error())
	case errors.Is(err, entitlement.ErrInsufficientBalance):
		return apperrors.NewInsufficientBalanceError(err.Error())
	case errors.Is(err, entitlement.ErrInvalidQuantity):
		return apperrors.NewInvalidQuantityError(err.Error())
	case errors.Is(err, ledger.ErrDuplicateResolution):
		return apperrors.NewDuplicateResolutionError(err.Error())
	case errors.Is(err, entitlement.ErrAlreadyLinked):
		return apperrors.NewAlreadyLinkedError(err.Error())
	case errors.Is(err, entitlement.ErrInUse):
		return apperrors.NewEntitlementInUseError(err.Error())
	case errors.Is(err, entitlement.ErrCorruptBalance):
		return apperrors.NewCorruptLedgerError(err.Error())
	case errors.Is(err, entitlement.ErrInvalidKind),
		errors.Is(err, entitlement.ErrLabelRequired),
		errors.Is(err, entitlement.ErrPatientRequired),
		errors.Is(err, ledger.ErrInvalidKind),
		errors.Is(err, ledger.ErrBillingLineRequired),
		errors.Is(err, ledger.ErrPatientRequired),
		errors.Is(err, ledger.ErrEntitlementRequired):
		return apperrors.NewValidationError(err.Error())
	default:
		return err
	}
}
