// Package memo holds the append-only note log attached to billing receipts.
// Every reconciliation writes a memo describing what it did, so the front
// desk can read the receipt history without opening the ledger.
package memo

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound indicates the memo was not found
	ErrNotFound = errors.New("memo not found")
	// ErrContentRequired indicates the memo content is empty
	ErrContentRequired = errors.New("memo content is required")
	// ErrReceiptRequired indicates the memo has no receipt reference
	ErrReceiptRequired = errors.New("receipt ID is required")
)

// Source records who wrote a memo. Resolution memos are owned by the ledger
// entry that produced them and are only removed through reversal; manual
// memos belong to the front desk.
type Source string

const (
	SourceManual     Source = "manual"
	SourceResolution Source = "resolution"
)

// String returns the string representation of the source
func (s Source) String() string { return string(s) }

// ReceiptMemo is a single note on a receipt. Memos are never edited in
// place; corrections append a new memo.
type ReceiptMemo struct {
	id            uint
	sid           string
	receiptID     uint
	billingLineID *uint
	content       string
	author        string
	source        Source
	createdAt     time.Time
}

// NewReceiptMemo creates a hand-written memo for a receipt. billingLineID is
// optional and set when the note refers to a specific line.
func NewReceiptMemo(sid string, receiptID uint, billingLineID *uint, content, author string) (*ReceiptMemo, error) {
	return newReceiptMemo(sid, receiptID, billingLineID, content, author, SourceManual)
}

// NewResolutionMemo creates the memo a resolution flow appends for its
// billing line. Reversing that line's resolution removes it again.
func NewResolutionMemo(sid string, receiptID, billingLineID uint, content, author string) (*ReceiptMemo, error) {
	return newReceiptMemo(sid, receiptID, &billingLineID, content, author, SourceResolution)
}

func newReceiptMemo(sid string, receiptID uint, billingLineID *uint, content, author string, source Source) (*ReceiptMemo, error) {
	if receiptID == 0 {
		return nil, ErrReceiptRequired
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrContentRequired
	}

	return &ReceiptMemo{
		sid:           sid,
		receiptID:     receiptID,
		billingLineID: billingLineID,
		content:       content,
		author:        author,
		source:        source,
		createdAt:     time.Now(),
	}, nil
}

// ReconstructReceiptMemo rebuilds a memo from persistence
func ReconstructReceiptMemo(id uint, sid string, receiptID uint, billingLineID *uint, content, author string, source Source, createdAt time.Time) *ReceiptMemo {
	return &ReceiptMemo{
		id:            id,
		sid:           sid,
		receiptID:     receiptID,
		billingLineID: billingLineID,
		content:       content,
		author:        author,
		source:        source,
		createdAt:     createdAt,
	}
}

// ID returns the memo ID
func (m *ReceiptMemo) ID() uint { return m.id }

// SID returns the short public identifier
func (m *ReceiptMemo) SID() string { return m.sid }

// ReceiptID returns the receipt the memo belongs to
func (m *ReceiptMemo) ReceiptID() uint { return m.receiptID }

// BillingLineID returns the billing line the memo documents, if any
func (m *ReceiptMemo) BillingLineID() *uint { return m.billingLineID }

// Content returns the memo text
func (m *ReceiptMemo) Content() string { return m.content }

// Author returns who wrote the memo
func (m *ReceiptMemo) Author() string { return m.author }

// Source returns whether the memo was hand-written or resolution-generated
func (m *ReceiptMemo) Source() Source { return m.source }

// CreatedAt returns when the memo was written
func (m *ReceiptMemo) CreatedAt() time.Time { return m.createdAt }

// SetID sets the memo ID after persistence
func (m *ReceiptMemo) SetID(id uint) { m.id = id }
