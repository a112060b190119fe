package memo

import "context"

// Repository defines the interface for receipt memo persistence
type Repository interface {
	// Create appends a memo
	Create(ctx context.Context, m *ReceiptMemo) error
	// ListByReceipt returns all memos of a receipt, oldest first
	ListByReceipt(ctx context.Context, receiptID uint) ([]*ReceiptMemo, error)
	// ListByBillingLine returns the memos written for one billing line, oldest first
	ListByBillingLine(ctx context.Context, billingLineID uint) ([]*ReceiptMemo, error)
	// GetByID returns one memo by its ID
	GetByID(ctx context.Context, id uint) (*ReceiptMemo, error)
	// Delete removes a single memo
	Delete(ctx context.Context, id uint) error
	// DeleteByBillingLine removes the resolution-generated memos of one
	// billing line; hand-written memos on the line are kept. Used only
	// when reversing that line's resolution.
	DeleteByBillingLine(ctx context.Context, billingLineID uint) error
}
