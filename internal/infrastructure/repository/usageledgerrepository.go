package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"haneul/internal/domain/ledger"
	"haneul/internal/infrastructure/persistence/mappers"
	"haneul/internal/infrastructure/persistence/models"
	"haneul/internal/shared/db"
	apperrors "haneul/internal/shared/errors"
	"haneul/internal/shared/logger"
)

// UsageLedgerRepositoryImpl implements the ledger.Repository interface
type UsageLedgerRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.UsageLedgerEntryMapper
	logger logger.Interface
}

// NewUsageLedgerRepository creates a new usage ledger repository instance
func NewUsageLedgerRepository(gdb *gorm.DB, logger logger.Interface) ledger.Repository {
	return &UsageLedgerRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewUsageLedgerEntryMapper(),
		logger: logger,
	}
}

func (r *UsageLedgerRepositoryImpl) Record(ctx context.Context, e *ledger.Entry) error {
	model, err := r.mapper.ToModel(e)
	if err != nil {
		return fmt.Errorf("failed to map ledger entry: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		// unique index on billing_line_id catches concurrent resolutions
		if apperrors.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: billing line %d", ledger.ErrDuplicateResolution, e.BillingLineID())
		}
		r.logger.Errorw("failed to record ledger entry",
			"billing_line_id", e.BillingLineID(), "kind", e.ResolutionKind(), "error", err)
		return fmt.Errorf("failed to record ledger entry: %w", err)
	}

	if err := e.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set entry ID: %w", err)
	}

	r.logger.Infow("ledger entry recorded",
		"id", model.ID,
		"billing_line_id", model.BillingLineID,
		"kind", model.ResolutionKind,
		"units_deducted", model.UnitsDeducted)
	return nil
}

func (r *UsageLedgerRepositoryImpl) GetByBillingLine(ctx context.Context, billingLineID uint) (*ledger.Entry, error) {
	var model models.UsageLedgerEntryModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("billing_line_id = ?", billingLineID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrNotFound
		}
		r.logger.Errorw("failed to get ledger entry", "billing_line_id", billingLineID, "error", err)
		return nil, fmt.Errorf("failed to get ledger entry: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *UsageLedgerRepositoryImpl) GetByBillingLineForUpdate(ctx context.Context, billingLineID uint) (*ledger.Entry, error) {
	var model models.UsageLedgerEntryModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("billing_line_id = ?", billingLineID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrNotFound
		}
		r.logger.Errorw("failed to lock ledger entry", "billing_line_id", billingLineID, "error", err)
		return nil, fmt.Errorf("failed to lock ledger entry: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *UsageLedgerRepositoryImpl) Delete(ctx context.Context, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Delete(&models.UsageLedgerEntryModel{}, id)
	if result.Error != nil {
		r.logger.Errorw("failed to delete ledger entry", "id", id, "error", result.Error)
		return fmt.Errorf("failed to delete ledger entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ledger.ErrNotFound
	}

	r.logger.Infow("ledger entry deleted", "id", id)
	return nil
}

func (r *UsageLedgerRepositoryImpl) ListByPatient(ctx context.Context, patientID uint, limit int) ([]*ledger.Entry, error) {
	var modelList []*models.UsageLedgerEntryModel
	tx := db.GetTxFromContext(ctx, r.db)
	err := tx.
		Where("patient_id = ?", patientID).
		Order("usage_date DESC, id DESC").
		Limit(limit).
		Find(&modelList).Error
	if err != nil {
		r.logger.Errorw("failed to list ledger entries", "patient_id", patientID, "error", err)
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

func (r *UsageLedgerRepositoryImpl) ListByEntitlement(ctx context.Context, entitlementID uint) ([]*ledger.Entry, error) {
	var modelList []*models.UsageLedgerEntryModel
	tx := db.GetTxFromContext(ctx, r.db)
	err := tx.
		Where("entitlement_id = ?", entitlementID).
		Order("usage_date ASC, id ASC").
		Find(&modelList).Error
	if err != nil {
		r.logger.Errorw("failed to list ledger entries", "entitlement_id", entitlementID, "error", err)
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

func (r *UsageLedgerRepositoryImpl) Exists(ctx context.Context, billingLineID uint) (bool, error) {
	var count int64
	tx := db.GetTxFromContext(ctx, r.db)
	err := tx.Model(&models.UsageLedgerEntryModel{}).
		Where("billing_line_id = ?", billingLineID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check resolution existence: %w", err)
	}
	return count > 0, nil
}
