package models

import "time"

// CatalogTypeModel represents the database persistence model for catalog
// reference rows.
type CatalogTypeModel struct {
	ID              uint   `gorm:"primarykey"`
	Name            string `gorm:"not null;size:100;uniqueIndex"`
	Family          string `gorm:"not null;size:20;index"`
	DeductionWeight int    `gorm:"not null;default:1"`
	CreatedAt       time.Time
}

// TableName specifies the table name for GORM
func (CatalogTypeModel) TableName() string {
	return TableCatalogTypes
}
