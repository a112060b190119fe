package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"haneul/internal/domain/ledger"
	"haneul/internal/infrastructure/persistence/models"
)

// UsageLedgerEntryMapper handles the conversion between ledger entries and persistence models
type UsageLedgerEntryMapper interface {
	ToEntity(model *models.UsageLedgerEntryModel) (*ledger.Entry, error)
	ToModel(entity *ledger.Entry) (*models.UsageLedgerEntryModel, error)
	ToEntities(models []*models.UsageLedgerEntryModel) ([]*ledger.Entry, error)
}

type usageLedgerEntryMapper struct{}

// NewUsageLedgerEntryMapper creates a new usage ledger entry mapper
func NewUsageLedgerEntryMapper() UsageLedgerEntryMapper {
	return &usageLedgerEntryMapper{}
}

func (m *usageLedgerEntryMapper) ToEntity(model *models.UsageLedgerEntryModel) (*ledger.Entry, error) {
	if model == nil {
		return nil, nil
	}

	var items []ledger.Item
	if len(model.Items) > 0 {
		if err := json.Unmarshal(model.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal items for entry %d: %w", model.ID, err)
		}
	}

	entity, err := ledger.ReconstructEntry(
		model.ID,
		model.SID,
		model.BillingLineID,
		model.ReceiptID,
		model.PatientID,
		ledger.ResolutionKind(model.ResolutionKind),
		model.EntitlementID,
		model.ItemLabel,
		items,
		model.Quantity,
		model.UnitsDeducted,
		model.UsageDate,
		model.Note,
		model.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct ledger entry: %w", err)
	}

	return entity, nil
}

func (m *usageLedgerEntryMapper) ToModel(entity *ledger.Entry) (*models.UsageLedgerEntryModel, error) {
	if entity == nil {
		return nil, nil
	}

	var items datatypes.JSON
	if len(entity.Items()) > 0 {
		raw, err := json.Marshal(entity.Items())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal items: %w", err)
		}
		items = datatypes.JSON(raw)
	}

	return &models.UsageLedgerEntryModel{
		ID:             entity.ID(),
		SID:            entity.SID(),
		BillingLineID:  entity.BillingLineID(),
		ReceiptID:      entity.ReceiptID(),
		PatientID:      entity.PatientID(),
		ResolutionKind: entity.ResolutionKind().String(),
		EntitlementID:  entity.EntitlementID(),
		ItemLabel:      entity.ItemLabel(),
		Items:          items,
		Quantity:       entity.Quantity(),
		UnitsDeducted:  entity.UnitsDeducted(),
		UsageDate:      entity.UsageDate(),
		Note:           entity.Note(),
		CreatedAt:      entity.CreatedAt(),
	}, nil
}

func (m *usageLedgerEntryMapper) ToEntities(modelList []*models.UsageLedgerEntryModel) ([]*ledger.Entry, error) {
	entities := make([]*ledger.Entry, 0, len(modelList))

	for i, model := range modelList {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, fmt.Errorf("failed to map model at index %d (ID %d): %w", i, model.ID, err)
		}
		if entity != nil {
			entities = append(entities, entity)
		}
	}

	return entities, nil
}
