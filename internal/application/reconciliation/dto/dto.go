package dto

import (
	"time"

	"haneul/internal/domain/catalog"
	"haneul/internal/domain/entitlement"
	"haneul/internal/domain/ledger"
	"haneul/internal/domain/memo"
)

type EntitlementDTO struct {
	ID                  uint       `json:"id"`
	SID                 string     `json:"sid"`
	PatientID           uint       `json:"patient_id"`
	Kind                string     `json:"kind"`
	Label               string     `json:"label"`
	TotalUnits          int        `json:"total_units"`
	UsedUnits           int        `json:"used_units"`
	RemainingUnits      int        `json:"remaining_units"`
	Unit                string     `json:"unit"`
	Status              string     `json:"status"`
	StartDate           string     `json:"start_date"`
	ExpireDate          *string    `json:"expire_date,omitempty"`
	LinkedBillingLineID *uint      `json:"linked_billing_line_id,omitempty"`
	Memo                string     `json:"memo,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

type LedgerItemDTO struct {
	Label    string `json:"label"`
	Quantity int    `json:"quantity"`
	Weight   int    `json:"weight"`
	Units    int    `json:"units"`
}

type LedgerEntryDTO struct {
	ID             uint            `json:"id"`
	SID            string          `json:"sid"`
	BillingLineID  uint            `json:"billing_line_id"`
	ReceiptID      uint            `json:"receipt_id"`
	PatientID      uint            `json:"patient_id"`
	ResolutionKind string          `json:"resolution_kind"`
	EntitlementID  *uint           `json:"entitlement_id,omitempty"`
	ItemLabel      string          `json:"item_label"`
	Items          []LedgerItemDTO `json:"items,omitempty"`
	Quantity       int             `json:"quantity"`
	UnitsDeducted  int             `json:"units_deducted"`
	UsageDate      string          `json:"usage_date"`
	Note           string          `json:"note,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

type ReceiptMemoDTO struct {
	ID            uint      `json:"id"`
	SID           string    `json:"sid"`
	ReceiptID     uint      `json:"receipt_id"`
	BillingLineID *uint     `json:"billing_line_id,omitempty"`
	Content       string    `json:"content"`
	Author        string    `json:"author,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type CatalogTypeDTO struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	Family          string `json:"family"`
	DeductionWeight int    `json:"deduction_weight"`
}

// CatalogMatchDTO is one catalog type found inside a billing item name.
type CatalogMatchDTO struct {
	Family          string `json:"family"`
	CatalogName     string `json:"catalog_name"`
	DeductionWeight int    `json:"deduction_weight"`
}

// ClassificationDTO is the matcher's suggestion for one billing item name.
// A composite line bundling several catalog items yields several matches;
// the top-level fields repeat the best one for form pre-fill.
type ClassificationDTO struct {
	ItemLabel       string             `json:"item_label"`
	Matched         bool               `json:"matched"`
	Family          string             `json:"family,omitempty"`
	CatalogName     string             `json:"catalog_name,omitempty"`
	DeductionWeight int                `json:"deduction_weight"`
	Matches         []*CatalogMatchDTO `json:"matches"`
}

const dateLayout = "2006-01-02"

// ToEntitlementDTO converts an entitlement aggregate to its DTO
func ToEntitlementDTO(e *entitlement.Entitlement) *EntitlementDTO {
	if e == nil {
		return nil
	}

	var expire *string
	if ed := e.ExpireDate(); ed != nil {
		s := ed.Format(dateLayout)
		expire = &s
	}

	return &EntitlementDTO{
		ID:                  e.ID(),
		SID:                 e.SID(),
		PatientID:           e.PatientID(),
		Kind:                e.Kind().String(),
		Label:               e.Label(),
		TotalUnits:          e.TotalUnits(),
		UsedUnits:           e.UsedUnits(),
		RemainingUnits:      e.RemainingUnits(),
		Unit:                e.Kind().Unit(),
		Status:              e.Status().String(),
		StartDate:           e.StartDate().Format(dateLayout),
		ExpireDate:          expire,
		LinkedBillingLineID: e.LinkedBillingLineID(),
		Memo:                e.Memo(),
		CreatedAt:           e.CreatedAt(),
		UpdatedAt:           e.UpdatedAt(),
	}
}

// ToEntitlementDTOList converts a slice of entitlements to DTOs
func ToEntitlementDTOList(items []*entitlement.Entitlement) []*EntitlementDTO {
	dtos := make([]*EntitlementDTO, 0, len(items))
	for _, e := range items {
		if e != nil {
			dtos = append(dtos, ToEntitlementDTO(e))
		}
	}
	return dtos
}

// ToLedgerEntryDTO converts a ledger entry to its DTO
func ToLedgerEntryDTO(e *ledger.Entry) *LedgerEntryDTO {
	if e == nil {
		return nil
	}

	items := make([]LedgerItemDTO, 0, len(e.Items()))
	for _, it := range e.Items() {
		items = append(items, LedgerItemDTO{
			Label:    it.Label,
			Quantity: it.Quantity,
			Weight:   it.Weight,
			Units:    it.Units(),
		})
	}

	return &LedgerEntryDTO{
		ID:             e.ID(),
		SID:            e.SID(),
		BillingLineID:  e.BillingLineID(),
		ReceiptID:      e.ReceiptID(),
		PatientID:      e.PatientID(),
		ResolutionKind: e.ResolutionKind().String(),
		EntitlementID:  e.EntitlementID(),
		ItemLabel:      e.ItemLabel(),
		Items:          items,
		Quantity:       e.Quantity(),
		UnitsDeducted:  e.UnitsDeducted(),
		UsageDate:      e.UsageDate().Format(dateLayout),
		Note:           e.Note(),
		CreatedAt:      e.CreatedAt(),
	}
}

// ToLedgerEntryDTOList converts a slice of ledger entries to DTOs
func ToLedgerEntryDTOList(entries []*ledger.Entry) []*LedgerEntryDTO {
	dtos := make([]*LedgerEntryDTO, 0, len(entries))
	for _, e := range entries {
		if e != nil {
			dtos = append(dtos, ToLedgerEntryDTO(e))
		}
	}
	return dtos
}

// ToReceiptMemoDTO converts a receipt memo to its DTO
func ToReceiptMemoDTO(m *memo.ReceiptMemo) *ReceiptMemoDTO {
	if m == nil {
		return nil
	}
	return &ReceiptMemoDTO{
		ID:            m.ID(),
		SID:           m.SID(),
		ReceiptID:     m.ReceiptID(),
		BillingLineID: m.BillingLineID(),
		Content:       m.Content(),
		Author:        m.Author(),
		CreatedAt:     m.CreatedAt(),
	}
}

// ToCatalogTypeDTO converts a catalog type to its DTO
func ToCatalogTypeDTO(t *catalog.Type) *CatalogTypeDTO {
	if t == nil {
		return nil
	}
	return &CatalogTypeDTO{
		ID:              t.ID(),
		Name:            t.Name(),
		Family:          t.Family().String(),
		DeductionWeight: t.DeductionWeight(),
	}
}

// ToCatalogTypeDTOList converts a slice of catalog types to DTOs
func ToCatalogTypeDTOList(types []*catalog.Type) []*CatalogTypeDTO {
	dtos := make([]*CatalogTypeDTO, 0, len(types))
	for _, t := range types {
		if t != nil {
			dtos = append(dtos, ToCatalogTypeDTO(t))
		}
	}
	return dtos
}

// ToReceiptMemoDTOList converts a slice of receipt memos to DTOs
func ToReceiptMemoDTOList(memos []*memo.ReceiptMemo) []*ReceiptMemoDTO {
	dtos := make([]*ReceiptMemoDTO, 0, len(memos))
	for _, m := range memos {
		if m != nil {
			dtos = append(dtos, ToReceiptMemoDTO(m))
		}
	}
	return dtos
}
