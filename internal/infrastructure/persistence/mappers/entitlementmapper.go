package mappers

import (
	"fmt"

	"haneul/internal/domain/entitlement"
	"haneul/internal/infrastructure/persistence/models"
)

// EntitlementMapper handles the conversion between domain entities and persistence models
type EntitlementMapper interface {
	// ToEntity converts a persistence model to a domain entity
	ToEntity(model *models.EntitlementModel) (*entitlement.Entitlement, error)

	// ToModel converts a domain entity to a persistence model
	ToModel(entity *entitlement.Entitlement) (*models.EntitlementModel, error)

	// ToEntities converts multiple persistence models to domain entities
	ToEntities(models []*models.EntitlementModel) ([]*entitlement.Entitlement, error)
}

type entitlementMapper struct{}

// NewEntitlementMapper creates a new entitlement mapper
func NewEntitlementMapper() EntitlementMapper {
	return &entitlementMapper{}
}

func (m *entitlementMapper) ToEntity(model *models.EntitlementModel) (*entitlement.Entitlement, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := entitlement.Reconstruct(
		model.ID,
		model.SID,
		model.PatientID,
		entitlement.Kind(model.Kind),
		model.Label,
		model.TotalUnits,
		model.UsedUnits,
		entitlement.Status(model.Status),
		model.StartDate,
		model.ExpireDate,
		model.LinkedBillingLineID,
		model.Memo,
		model.CreatedAt,
		model.UpdatedAt,
		model.Version,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct entitlement entity: %w", err)
	}

	// the stored remaining count must agree with total minus used
	if entity.RemainingUnits() != model.RemainingUnits {
		return nil, fmt.Errorf("%w: entitlement %d stores remaining %d, derives %d",
			entitlement.ErrCorruptBalance, model.ID, model.RemainingUnits, entity.RemainingUnits())
	}

	return entity, nil
}

func (m *entitlementMapper) ToModel(entity *entitlement.Entitlement) (*models.EntitlementModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.EntitlementModel{
		ID:                  entity.ID(),
		SID:                 entity.SID(),
		PatientID:           entity.PatientID(),
		Kind:                entity.Kind().String(),
		Label:               entity.Label(),
		TotalUnits:          entity.TotalUnits(),
		UsedUnits:           entity.UsedUnits(),
		RemainingUnits:      entity.RemainingUnits(),
		Status:              entity.Status().String(),
		StartDate:           entity.StartDate(),
		ExpireDate:          entity.ExpireDate(),
		LinkedBillingLineID: entity.LinkedBillingLineID(),
		Memo:                entity.Memo(),
		CreatedAt:           entity.CreatedAt(),
		UpdatedAt:           entity.UpdatedAt(),
		Version:             entity.Version(),
	}, nil
}

func (m *entitlementMapper) ToEntities(modelList []*models.EntitlementModel) ([]*entitlement.Entitlement, error) {
	entities := make([]*entitlement.Entitlement, 0, len(modelList))

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
