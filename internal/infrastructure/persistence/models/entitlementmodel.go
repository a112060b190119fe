package models

import "time"

// EntitlementModel represents the database persistence model for entitlement
// grants. This is the anti-corruption layer between domain and database.
// RemainingUnits is stored denormalized so list queries can filter on balance
// without arithmetic; the domain keeps it consistent with total minus used.
type EntitlementModel struct {
	ID                  uint       `gorm:"primarykey"`
	SID                 string     `gorm:"not null;size:32;uniqueIndex"`
	PatientID           uint       `gorm:"not null;index:idx_patient_kind,priority:1"`
	Kind                string     `gorm:"not null;size:20;index:idx_patient_kind,priority:2"`
	Label               string     `gorm:"not null;size:255"`
	TotalUnits          int        `gorm:"not null"`
	UsedUnits           int        `gorm:"not null;default:0"`
	RemainingUnits      int        `gorm:"not null"`
	Status              string     `gorm:"not null;size:20;default:active;index"`
	StartDate           time.Time  `gorm:"not null"`
	ExpireDate          *time.Time `gorm:"index"`
	LinkedBillingLineID *uint      `gorm:"index"`
	Memo                string     `gorm:"type:text"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
	Version             int `gorm:"not null;default:1"`
}

// TableName specifies the table name for GORM
func (EntitlementModel) TableName() string {
	return TableEntitlements
}
