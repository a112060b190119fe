package migration

import (
	"fmt"

	"gorm.io/gorm"

	"haneul/internal/infrastructure/persistence/models"
	"haneul/internal/shared/logger"
)

// AutoMigrateModels returns every persistence model in dependency order
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.EntitlementModel{},
		&models.UsageLedgerEntryModel{},
		&models.CatalogTypeModel{},
		&models.ReceiptMemoModel{},
	}
}

// GormAutoMigrateStrategy lets GORM derive the schema from the models.
// Development convenience only; deployed databases run scripted migrations.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

// NewGormAutoMigrateStrategy creates a new GORM auto-migrate strategy
func NewGormAutoMigrateStrategy() Strategy {
	return &GormAutoMigrateStrategy{
		logger: logger.NewLogger().With("component", "migration.automigrate"),
	}
}

func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB, modelList ...interface{}) error {
	if len(modelList) == 0 {
		modelList = AutoMigrateModels()
	}

	s.logger.Infow("starting gorm auto-migration", "models_count", len(modelList))

	if err := db.AutoMigrate(modelList...); err != nil {
		s.logger.Errorw("auto-migration failed", "error", err)
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	s.logger.Infow("auto-migration completed successfully")
	return nil
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_automigrate"
}
