package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"haneul/internal/domain/memo"
	"haneul/internal/infrastructure/persistence/mappers"
	"haneul/internal/infrastructure/persistence/models"
	"haneul/internal/shared/db"
	"haneul/internal/shared/logger"
)

// ReceiptMemoRepositoryImpl implements the memo.Repository interface
type ReceiptMemoRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ReceiptMemoMapper
	logger logger.Interface
}

// NewReceiptMemoRepository creates a new receipt memo repository instance
func NewReceiptMemoRepository(gdb *gorm.DB, logger logger.Interface) memo.Repository {
	return &ReceiptMemoRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewReceiptMemoMapper(),
		logger: logger,
	}
}

func (r *ReceiptMemoRepositoryImpl) Create(ctx context.Context, m *memo.ReceiptMemo) error {
	model := r.mapper.ToModel(m)

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		r.logger.Errorw("failed to create memo", "receipt_id", m.ReceiptID(), "error", err)
		return fmt.Errorf("failed to create memo: %w", err)
	}

	m.SetID(model.ID)
	return nil
}

func (r *ReceiptMemoRepositoryImpl) ListByReceipt(ctx context.Context, receiptID uint) ([]*memo.ReceiptMemo, error) {
	var modelList []*models.ReceiptMemoModel
	tx := db.GetTxFromContext(ctx, r.db)
	err := tx.
		Where("receipt_id = ?", receiptID).
		Order("created_at ASC, id ASC").
		Find(&modelList).Error
	if err != nil {
		r.logger.Errorw("failed to list memos", "receipt_id", receiptID, "error", err)
		return nil, fmt.Errorf("failed to list memos: %w", err)
	}

	return r.mapper.ToEntities(modelList), nil
}

func (r *ReceiptMemoRepositoryImpl) ListByBillingLine(ctx context.Context, billingLineID uint) ([]*memo.ReceiptMemo, error) {
	var modelList []*models.ReceiptMemoModel
	tx := db.GetTxFromContext(ctx, r.db)
	err := tx.
		Where("billing_line_id = ?", billingLineID).
		Order("created_at ASC, id ASC").
		Find(&modelList).Error
	if err != nil {
		r.logger.Errorw("failed to list memos", "billing_line_id", billingLineID, "error", err)
		return nil, fmt.Errorf("failed to list memos: %w", err)
	}

	return r.mapper.ToEntities(modelList), nil
}

func (r *ReceiptMemoRepositoryImpl) GetByID(ctx context.Context, id uint) (*memo.ReceiptMemo, error) {
	var model models.ReceiptMemoModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("memo %d: %w", id, memo.ErrNotFound)
		}
		r.logger.Errorw("failed to get memo", "memo_id", id, "error", err)
		return nil, fmt.Errorf("failed to get memo: %w", err)
	}

	return r.mapper.ToEntity(&model), nil
}

func (r *ReceiptMemoRepositoryImpl) Delete(ctx context.Context, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Delete(&models.ReceiptMemoModel{}, id)
	if result.Error != nil {
		r.logger.Errorw("failed to delete memo", "memo_id", id, "error", result.Error)
		return fmt.Errorf("failed to delete memo: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("memo %d: %w", id, memo.ErrNotFound)
	}
	return nil
}

func (r *ReceiptMemoRepositoryImpl) DeleteByBillingLine(ctx context.Context, billingLineID uint) error {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.
		Where("billing_line_id = ? AND source = ?", billingLineID, memo.SourceResolution.String()).
		Delete(&models.ReceiptMemoModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete memos", "billing_line_id", billingLineID, "error", result.Error)
		return fmt.Errorf("failed to delete memos: %w", result.Error)
	}

	// zero rows is fine; not every resolution wrote a memo

	if result.RowsAffected > 0 {
		r.logger.Infow("memos deleted for billing line",
			"billing_line_id", billingLineID, "count", result.RowsAffected)
	}
	return nil
}
