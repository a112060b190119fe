package usecases

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"haneul/internal/domain/catalog"
	"haneul/internal/domain/entitlement"
	"haneul/internal/domain/ledger"
	"haneul/internal/domain/memo"
	"haneul/internal/shared/db"
	"haneul/internal/shared/logger"
)

// newTestTxMgr returns a transaction manager over an in-memory database. The
// fake repositories ignore the transaction handle; the manager only provides
// the begin/commit plumbing the use cases expect.
func newTestTxMgr(t *testing.T) *db.TransactionManager {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db.NewTransactionManager(gdb)
}

func testLogger() logger.Interface {
	return logger.NewLogger()
}

type fakeEntitlementRepo struct {
	nextID uint
	byID   map[uint]*entitlement.Entitlement
}

func newFakeEntitlementRepo() *fakeEntitlementRepo {
	return &fakeEntitlementRepo{nextID: 1, byID: make(map[uint]*entitlement.Entitlement)}
}

func (r *fakeEntitlementRepo) Create(_ context.Context, e *entitlement.Entitlement) error {
	if e.ID() == 0 {
		if err := e.SetID(r.nextID); err != nil {
			return err
		}
		r.nextID++
	}
	r.byID[e.ID()] = e
	return nil
}

func (r *fakeEntitlementRepo) Update(_ context.Context, e *entitlement.Entitlement) error {
	r.byID[e.ID()] = e
	return nil
}

func (r *fakeEntitlementRepo) UpdateLocked(_ context.Context, e *entitlement.Entitlement) error {
	r.byID[e.ID()] = e
	return nil
}

func (r *fakeEntitlementRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.byID[id]; !ok {
		return entitlement.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeEntitlementRepo) GetByID(_ context.Context, id uint) (*entitlement.Entitlement, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, entitlement.ErrNotFound
	}
	return e, nil
}

func (r *fakeEntitlementRepo) GetByIDForUpdate(ctx context.Context, id uint) (*entitlement.Entitlement, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeEntitlementRepo) GetActive(_ context.Context, patientID uint, kind entitlement.Kind) ([]*entitlement.Entitlement, error) {
	var out []*entitlement.Entitlement
	for _, e := range r.byID {
		if e.PatientID() == patientID && e.Kind() == kind &&
			e.Status() == entitlement.StatusActive && e.RemainingUnits() > 0 {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ei, ej := out[i].ExpireDate(), out[j].ExpireDate()
		switch {
		case ei == nil:
			return false
		case ej == nil:
			return true
		default:
			return ei.Before(*ej)
		}
	})
	return out, nil
}

func (r *fakeEntitlementRepo) GetUnlinked(_ context.Context, patientID uint, kind entitlement.Kind) ([]*entitlement.Entitlement, error) {
	var out []*entitlement.Entitlement
	for _, e := range r.byID {
		if e.PatientID() == patientID && e.Kind() == kind &&
			e.IsUnlinked() && e.Status() != entitlement.StatusCancelled {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEntitlementRepo) GetByPatient(_ context.Context, patientID uint) ([]*entitlement.Entitlement, error) {
	var out []*entitlement.Entitlement
	for _, e := range r.byID {
		if e.PatientID() == patientID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEntitlementRepo) GetByBillingLine(_ context.Context, billingLineID uint) ([]*entitlement.Entitlement, error) {
	var out []*entitlement.Entitlement
	for _, e := range r.byID {
		if lid := e.LinkedBillingLineID(); lid != nil && *lid == billingLineID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeLedgerRepo struct {
	nextID        uint
	byBillingLine map[uint]*ledger.Entry
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{nextID: 1, byBillingLine: make(map[uint]*ledger.Entry)}
}

func (r *fakeLedgerRepo) Record(_ context.Context, e *ledger.Entry) error {
	if _, ok := r.byBillingLine[e.BillingLineID()]; ok {
		return ledger.ErrDuplicateResolution
	}
	if e.ID() == 0 {
		if err := e.SetID(r.nextID); err != nil {
			return err
		}
		r.nextID++
	}
	r.byBillingLine[e.BillingLineID()] = e
	return nil
}

func (r *fakeLedgerRepo) GetByBillingLine(_ context.Context, billingLineID uint) (*ledger.Entry, error) {
	e, ok := r.byBillingLine[billingLineID]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	return e, nil
}

func (r *fakeLedgerRepo) GetByBillingLineForUpdate(ctx context.Context, billingLineID uint) (*ledger.Entry, error) {
	return r.GetByBillingLine(ctx, billingLineID)
}

func (r *fakeLedgerRepo) Delete(_ context.Context, id uint) error {
	for line, e := range r.byBillingLine {
		if e.ID() == id {
			delete(r.byBillingLine, line)
			return nil
		}
	}
	return ledger.ErrNotFound
}

func (r *fakeLedgerRepo) ListByPatient(_ context.Context, patientID uint, limit int) ([]*ledger.Entry, error) {
	var out []*ledger.Entry
	for _, e := range r.byBillingLine {
		if e.PatientID() == patientID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() > out[j].ID() })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeLedgerRepo) ListByEntitlement(_ context.Context, entitlementID uint) ([]*ledger.Entry, error) {
	var out []*ledger.Entry
	for _, e := range r.byBillingLine {
		if eid := e.EntitlementID(); eid != nil && *eid == entitlementID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) Exists(_ context.Context, billingLineID uint) (bool, error) {
	_, ok := r.byBillingLine[billingLineID]
	return ok, nil
}

type fakeMemoRepo struct {
	nextID uint
	memos  []*memo.ReceiptMemo
}

func newFakeMemoRepo() *fakeMemoRepo {
	return &fakeMemoRepo{nextID: 1}
}

func (r *fakeMemoRepo) Create(_ context.Context, m *memo.ReceiptMemo) error {
	m.SetID(r.nextID)
	r.nextID++
	r.memos = append(r.memos, m)
	return nil
}

func (r *fakeMemoRepo) ListByReceipt(_ context.Context, receiptID uint) ([]*memo.ReceiptMemo, error) {
	var out []*memo.ReceiptMemo
	for _, m := range r.memos {
		if m.ReceiptID() == receiptID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMemoRepo) ListByBillingLine(_ context.Context, billingLineID uint) ([]*memo.ReceiptMemo, error) {
	var out []*memo.ReceiptMemo
	for _, m := range r.memos {
		if lid := m.BillingLineID(); lid != nil && *lid == billingLineID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMemoRepo) GetByID(_ context.Context, id uint) (*memo.ReceiptMemo, error) {
	for _, m := range r.memos {
		if m.ID() == id {
			return m, nil
		}
	}
	return nil, memo.ErrNotFound
}

func (r *fakeMemoRepo) Delete(_ context.Context, id uint) error {
	for i, m := range r.memos {
		if m.ID() == id {
			r.memos = append(r.memos[:i], r.memos[i+1:]...)
			return nil
		}
	}
	return memo.ErrNotFound
}

func (r *fakeMemoRepo) DeleteByBillingLine(_ context.Context, billingLineID uint) error {
	kept := r.memos[:0]
	for _, m := range r.memos {
		if lid := m.BillingLineID(); lid != nil && *lid == billingLineID &&
			m.Source() == memo.SourceResolution {
			continue
		}
		kept = append(kept, m)
	}
	r.memos = kept
	return nil
}

type fakeCatalogSource struct {
	types []*catalog.Type
}

func (s *fakeCatalogSource) GetTypes(_ context.Context) ([]*catalog.Type, error) {
	return s.types, nil
}
