package seeds

import (
	"gorm.io/gorm"

	"haneul/internal/infrastructure/persistence/models"
)

// SeedCatalogTypes seeds the catalog with the item names the matcher
// classifies against. Weights follow the clinic's deduction rules: most items
// consume one unit per quantity, concentrated formulas consume more.
func SeedCatalogTypes(db *gorm.DB) error {
	types := []models.CatalogTypeModel{
		// treatment packages
		{Name: "약침", Family: "package", DeductionWeight: 1},
		{Name: "산삼 약침", Family: "package", DeductionWeight: 1},
		{Name: "도수치료", Family: "package", DeductionWeight: 1},
		{Name: "추나", Family: "package", DeductionWeight: 1},

		// memberships
		{Name: "멤버십", Family: "membership", DeductionWeight: 1},
		{Name: "다이어트 멤버십", Family: "membership", DeductionWeight: 1},

		// herbal cycles
		{Name: "한약", Family: "herbal", DeductionWeight: 1},
		{Name: "10첩 한약", Family: "herbal", DeductionWeight: 1},
		{Name: "보약", Family: "herbal", DeductionWeight: 1},

		// add-on cycles
		{Name: "녹용", Family: "addon", DeductionWeight: 1},
		{Name: "공진단", Family: "addon", DeductionWeight: 2},
		{Name: "경옥고", Family: "addon", DeductionWeight: 2},
	}

	for _, t := range types {
		var existing models.CatalogTypeModel
		err := db.Where("name = ?", t.Name).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&t).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}

	return nil
}
