package mappers

import (
	"fmt"

	"haneul/internal/domain/catalog"
	"haneul/internal/infrastructure/persistence/models"
)

// CatalogTypeMapper converts catalog rows to domain types. Catalog data is
// read-only in this service so there is no ToModel direction.
type CatalogTypeMapper interface {
	ToEntity(model *models.CatalogTypeModel) (*catalog.Type, error)
	ToEntities(models []*models.CatalogTypeModel) ([]*catalog.Type, error)
}

type catalogTypeMapper struct{}

// NewCatalogTypeMapper creates a new catalog type mapper
func NewCatalogTypeMapper() CatalogTypeMapper {
	return &catalogTypeMapper{}
}

func (m *catalogTypeMapper) ToEntity(model *models.CatalogTypeModel) (*catalog.Type, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := catalog.ReconstructType(
		model.ID,
		model.Name,
		catalog.Family(model.Family),
		model.DeductionWeight,
		model.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct catalog type: %w", err)
	}

	return entity, nil
}

func (m *catalogTypeMapper) ToEntities(modelList []*models.CatalogTypeModel) ([]*catalog.Type, error) {
	entities := make([]*catalog.Type, 0, len(modelList))

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
