package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"haneul/internal/domain/catalog"
	"haneul/internal/infrastructure/persistence/mappers"
	"haneul/internal/infrastructure/persistence/models"
	"haneul/internal/shared/logger"
)

// CatalogTypeRepositoryImpl implements the catalog.Repository interface
type CatalogTypeRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.CatalogTypeMapper
	logger logger.Interface
}

// NewCatalogTypeRepository creates a new catalog type repository instance
func NewCatalogTypeRepository(gdb *gorm.DB, logger logger.Interface) catalog.Repository {
	return &CatalogTypeRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewCatalogTypeMapper(),
		logger: logger,
	}
}

func (r *CatalogTypeRepositoryImpl) ListAll(ctx context.Context) ([]*catalog.Type, error) {
	var modelList []*models.CatalogTypeModel
	err := r.db.WithContext(ctx).
		Order("family ASC, name ASC").
		Find(&modelList).Error
	if err != nil {
		r.logger.Errorw("failed to list catalog types", "error", err)
		return nil, fmt.Errorf("failed to list catalog types: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

func (r *CatalogTypeRepositoryImpl) ListByFamily(ctx context.Context, family catalog.Family) ([]*catalog.Type, error) {
	var modelList []*models.CatalogTypeModel
	err := r.db.WithContext(ctx).
		Where("family = ?", family.String()).
		Order("name ASC").
		Find(&modelList).Error
	if err != nil {
		r.logger.Errorw("failed to list catalog types", "family", family, "error", err)
		return nil, fmt.Errorf("failed to list catalog types: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}
