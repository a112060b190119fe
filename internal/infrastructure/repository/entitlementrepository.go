package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"haneul/internal/domain/entitlement"
	"haneul/internal/infrastructure/persistence/mappers"
	"haneul/internal/infrastructure/persistence/models"
	"haneul/internal/shared/db"
	apperrors "haneul/internal/shared/errors"
	"haneul/internal/shared/logger"
)

// EntitlementRepositoryImpl implements the entitlement.Repository interface
type EntitlementRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.EntitlementMapper
	logger logger.Interface
}

// NewEntitlementRepository creates a new entitlement repository instance
func NewEntitlementRepository(gdb *gorm.DB, logger logger.Interface) entitlement.Repository {
	return &EntitlementRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewEntitlementMapper(),
		logger: logger,
	}
}

func (r *EntitlementRepositoryImpl) Create(ctx context.Context, e *entitlement.Entitlement) error {
	model, err := r.mapper.ToModel(e)
	if err != nil {
		return fmt.Errorf("failed to map entitlement: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		if apperrors.IsDuplicateKeyError(err) {
			return apperrors.NewConflictError("entitlement with this SID already exists")
		}
		r.logger.Errorw("failed to create entitlement",
			"sid", e.SID(), "patient_id", e.PatientID(), "error", err)
		return fmt.Errorf("failed to create entitlement: %w", err)
	}

	if err := e.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set entitlement ID: %w", err)
	}

	r.logger.Infow("entitlement created",
		"id", model.ID, "sid", model.SID, "patient_id", model.PatientID, "kind", model.Kind)
	return nil
}

// Update persists changes with an optimistic version check. The aggregate
// bumps its version on every mutation, so the row must still hold the
// previous version.
func (r *EntitlementRepositoryImpl) Update(ctx context.Context, e *entitlement.Entitlement) error {
	model, err := r.mapper.ToModel(e)
	if err != nil {
		return fmt.Errorf("failed to map entitlement: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.EntitlementModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Select("*").Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		r.logger.Errorw("failed to update entitlement", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update entitlement: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewConflictError(
			fmt.Sprintf("entitlement %d was modified concurrently", model.ID))
	}

	return nil
}

// UpdateLocked persists changes for a row already held under a write lock.
// The lock makes the version race impossible, so a concurrent-modification
// result here means the row vanished.
func (r *EntitlementRepositoryImpl) UpdateLocked(ctx context.Context, e *entitlement.Entitlement) error {
	model, err := r.mapper.ToModel(e)
	if err != nil {
		return fmt.Errorf("failed to map entitlement: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.EntitlementModel{}).
		Where("id = ?", model.ID).
		Select("*").Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		r.logger.Errorw("failed to update entitlement", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update entitlement: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entitlement.ErrNotFound
	}

	return nil
}

func (r *EntitlementRepositoryImpl) Delete(ctx context.Context, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Delete(&models.EntitlementModel{}, id)
	if result.Error != nil {
		r.logger.Errorw("failed to delete entitlement", "id", id, "error", result.Error)
		return fmt.Errorf("failed to delete entitlement: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entitlement.ErrNotFound
	}

	r.logger.Infow("entitlement deleted", "id", id)
	return nil
}

func (r *EntitlementRepositoryImpl) GetByID(ctx context.Context, id uint) (*entitlement.Entitlement, error) {
	var model models.EntitlementModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entitlement.ErrNotFound
		}
		r.logger.Errorw("failed to get entitlement", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get entitlement: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *EntitlementRepositoryImpl) GetByIDForUpdate(ctx context.Context, id uint) (*entitlement.Entitlement, error) {
	var model models.EntitlementModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entitlement.ErrNotFound
		}
		r.logger.Errorw("failed to lock entitlement", "id", id, "error", err)
		return nil, fmt.Errorf("failed to lock entitlement: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *EntitlementRepositoryImpl) GetActive(ctx context.Context, patientID uint, kind entitlement.Kind) ([]*entitlement.Entitlement, error) {
	var modelList []*models.EntitlementModel
	tx := db.GetTxFromContext(ctx, r.db)
	err := tx.
		Where("patient_id = ? AND kind = ? AND status = ? AND remaining_units > 0",
			patientID, kind.String(), entitlement.StatusActive.String()).
		Order("expire_date IS NULL, expire_date ASC, id ASC").
		Find(&modelList).Error
	if err != nil {
		r.logger.Errorw("failed to get active entitlements",
			"patient_id", patientID, "kind", kind, "error", err)
		return nil, fmt.Errorf("failed to get active entitlements: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

func (r *EntitlementRepositoryImpl) GetUnlinked(ctx context.Context, patientID uint, kind entitlement.Kind) ([]*entitlement.Entitlement, error) {
	var modelList []*models.EntitlementModel
	tx := db.GetTxFromContext(ctx, r.db)
	err := tx.
		Where("patient_id = ? AND kind = ? AND linked_billing_line_id IS NULL AND status <> ?",
			patientID, kind.String(), entitlement.StatusCancelled.String()).
		Order("start_date ASC, id ASC").
		Find(&modelList).Error
	if err != nil {
		r.logger.Errorw("failed to get unlinked entitlements",
			"patient_id", patientID, "kind", kind, "error", err)
		return nil, fmt.Errorf("failed to get unlinked entitlements: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

func (r *EntitlementRepositoryImpl) GetByPatient(ctx context.Context, patientID uint) ([]*entitlement.Entitlement, error) {
	var modelList []*models.EntitlementModel
	tx := db.GetTxFromContext(ctx, r.db)
	err := tx.
		Where("patient_id = ?", patientID).
		Order("created_at DESC, id DESC").
		Find(&modelList).Error
	if err != nil {
		r.logger.Errorw("failed to get entitlements", "patient_id", patientID, "error", err)
		return nil, fmt.Errorf("failed to get entitlements: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

func (r *EntitlementRepositoryImpl) GetByBillingLine(ctx context.Context, billingLineID uint) ([]*entitlement.Entitlement, error) {
	var modelList []*models.EntitlementModel
	tx := db.GetTxFromContext(ctx, r.db)
	err := tx.
		Where("linked_billing_line_id = ?", billingLineID).
		Find(&modelList).Error
	if err != nil {
		r.logger.Errorw("failed to get entitlements by billing line",
			"billing_line_id", billingLineID, "error", err)
		return nil, fmt.Errorf("failed to get entitlements by billing line: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}
