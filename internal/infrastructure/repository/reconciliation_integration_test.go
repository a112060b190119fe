package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"haneul/internal/application/reconciliation/usecases"
	"haneul/internal/domain/entitlement"
	"haneul/internal/infrastructure/migration"
	"haneul/internal/shared/db"
	apperrors "haneul/internal/shared/errors"
	"haneul/internal/shared/logger"
)

// reconciliationEnv wires the use cases over the real gorm repositories so
// transaction rollback is exercised against an actual database.
type reconciliationEnv struct {
	entRepo entitlement.Repository
	deduct  *usecases.DeductUseCase
	note    *usecases.RecordNoteUseCase
}

func setupReconciliationEnv(t *testing.T) (*reconciliationEnv, *gorm.DB) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(migration.AutoMigrateModels()...))

	log := logger.NewLogger()
	entRepo := NewEntitlementRepository(gdb, log)
	ledgerRepo := NewUsageLedgerRepository(gdb, log)
	memoRepo := NewReceiptMemoRepository(gdb, log)
	txMgr := db.NewTransactionManager(gdb)

	return &reconciliationEnv{
		entRepo: entRepo,
		deduct:  usecases.NewDeductUseCase(entRepo, ledgerRepo, memoRepo, txMgr, log),
		note:    usecases.NewRecordNoteUseCase(ledgerRepo, memoRepo, txMgr, log),
	}, gdb
}

func seedStoredEntitlement(t *testing.T, repo entitlement.Repository, total int) *entitlement.Entitlement {
	t.Helper()
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	e, err := entitlement.NewEntitlement("ent_itest", 101, entitlement.KindPackage, "약침 패키지", total, start, nil, "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), e))
	return e
}

var itestDate = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func deductCmd(lineID, entitlementID uint, qty int) usecases.DeductCommand {
	return usecases.DeductCommand{
		BillingLineID: lineID,
		ReceiptID:     5,
		PatientID:     101,
		EntitlementID: entitlementID,
		ItemLabel:     "약침",
		Items:         []usecases.ItemInput{{Label: "약침", Quantity: qty, Weight: 1}},
		UsageDate:     itestDate,
	}
}

func TestDeduct_DuplicateLeavesBalanceUnchanged(t *testing.T) {
	env, _ := setupReconciliationEnv(t)
	ent := seedStoredEntitlement(t, env.entRepo, 10)
	ctx := context.Background()

	result, err := env.deduct.Execute(ctx, deductCmd(10, ent.ID(), 2))
	require.NoError(t, err)
	require.Equal(t, 8, result.Entitlement.RemainingUnits)

	// the unique index rejects the second resolution; the deduction it
	// performed before failing must be rolled back
	_, err = env.deduct.Execute(ctx, deductCmd(10, ent.ID(), 3))
	require.Error(t, err)
	assert.True(t, apperrors.IsDuplicateResolutionError(err))

	stored, err := env.entRepo.GetByID(ctx, ent.ID())
	require.NoError(t, err)
	assert.Equal(t, 2, stored.UsedUnits())
	assert.Equal(t, 8, stored.RemainingUnits())
}

func TestDeduct_FailureAfterMutationRollsBack(t *testing.T) {
	env, gdb := setupReconciliationEnv(t)
	ent := seedStoredEntitlement(t, env.entRepo, 10)
	ctx := context.Background()

	// occupy the billing line with a note-only resolution
	_, err := env.note.Execute(ctx, usecases.RecordNoteCommand{
		BillingLineID: 20,
		ReceiptID:     5,
		PatientID:     101,
		ItemLabel:     "도수치료",
		UsageDate:     itestDate,
		Note:          "단건 결제",
	})
	require.NoError(t, err)

	// the deduction mutates the entitlement, then fails on the ledger write
	_, err = env.deduct.Execute(ctx, deductCmd(20, ent.ID(), 4))
	require.Error(t, err)
	assert.True(t, apperrors.IsDuplicateResolutionError(err))

	stored, err := env.entRepo.GetByID(ctx, ent.ID())
	require.NoError(t, err)
	assert.Equal(t, 0, stored.UsedUnits())
	assert.Equal(t, 10, stored.RemainingUnits())
	assert.Equal(t, entitlement.StatusActive, stored.Status())

	// the failed attempt left no memo behind either
	var memoCount int64
	require.NoError(t, gdb.Table("receipt_memos").Where("billing_line_id = ?", 20).Count(&memoCount).Error)
	assert.Equal(t, int64(1), memoCount)
}
