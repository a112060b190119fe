package models

import (
	"time"

	"gorm.io/datatypes"
)

// UsageLedgerEntryModel represents the database persistence model for
// resolution records. The unique index on BillingLineID enforces one
// resolution per billing line at the storage layer, backstopping the
// application-level check against concurrent writers.
type UsageLedgerEntryModel struct {
	ID             uint   `gorm:"primarykey"`
	SID            string `gorm:"not null;size:32;uniqueIndex"`
	BillingLineID  uint   `gorm:"not null;uniqueIndex"`
	ReceiptID      uint   `gorm:"not null;index"`
	PatientID      uint   `gorm:"not null;index"`
	ResolutionKind string `gorm:"not null;size:30"`
	EntitlementID  *uint  `gorm:"index"`
	ItemLabel      string `gorm:"not null;size:255"`
	Items          datatypes.JSON
	Quantity       int       `gorm:"not null;default:1"`
	UnitsDeducted  int       `gorm:"not null;default:0"`
	UsageDate      time.Time `gorm:"not null;index"`
	Note           string    `gorm:"type:text"`
	CreatedAt      time.Time
}

// TableName specifies the table name for GORM
func (UsageLedgerEntryModel) TableName() string {
	return TableUsageLedger
}
