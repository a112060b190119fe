package models

import "time"

// ReceiptMemoModel represents the database persistence model for the
// append-only receipt memo log. Resolution-generated rows (source
// "resolution") are only removed when the billing line's resolution is
// reversed; manual rows only through an explicit delete.
type ReceiptMemoModel struct {
	ID            uint   `gorm:"primarykey"`
	SID           string `gorm:"not null;size:32;uniqueIndex"`
	ReceiptID     uint   `gorm:"not null;index"`
	BillingLineID *uint  `gorm:"index"`
	Content       string `gorm:"not null;type:text"`
	Author        string `gorm:"size:100"`
	Source        string `gorm:"not null;size:16;default:manual"`
	CreatedAt     time.Time
}

// TableName specifies the table name for GORM
func (ReceiptMemoModel) TableName() string {
	return TableReceiptMemos
}
