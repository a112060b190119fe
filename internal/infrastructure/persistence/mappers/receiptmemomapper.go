package mappers

import (
	"haneul/internal/domain/memo"
	"haneul/internal/infrastructure/persistence/models"
)

// ReceiptMemoMapper handles the conversion between receipt memos and persistence models
type ReceiptMemoMapper interface {
	ToEntity(model *models.ReceiptMemoModel) *memo.ReceiptMemo
	ToModel(entity *memo.ReceiptMemo) *models.ReceiptMemoModel
	ToEntities(models []*models.ReceiptMemoModel) []*memo.ReceiptMemo
}

type receiptMemoMapper struct{}

// NewReceiptMemoMapper creates a new receipt memo mapper
func NewReceiptMemoMapper() ReceiptMemoMapper {
	return &receiptMemoMapper{}
}

func (m *receiptMemoMapper) ToEntity(model *models.ReceiptMemoModel) *memo.ReceiptMemo {
	if model == nil {
		return nil
	}

	return memo.ReconstructReceiptMemo(
		model.ID,
		model.SID,
		model.ReceiptID,
		model.BillingLineID,
		model.Content,
		model.Author,
		memo.Source(model.Source),
		model.CreatedAt,
	)
}

func (m *receiptMemoMapper) ToModel(entity *memo.ReceiptMemo) *models.ReceiptMemoModel {
	if entity == nil {
		return nil
	}

	return &models.ReceiptMemoModel{
		ID:            entity.ID(),
		SID:           entity.SID(),
		ReceiptID:     entity.ReceiptID(),
		BillingLineID: entity.BillingLineID(),
		Content:       entity.Content(),
		Author:        entity.Author(),
		Source:        entity.Source().String(),
		CreatedAt:     entity.CreatedAt(),
	}
}

func (m *receiptMemoMapper) ToEntities(modelList []*models.ReceiptMemoModel) []*memo.ReceiptMemo {
	entities := make([]*memo.ReceiptMemo, 0, len(modelList))
	for _, model := range modelList {
		if entity := m.ToEntity(model); entity != nil {
			entities = append(entities, entity)
		}
	}
	return entities
}
