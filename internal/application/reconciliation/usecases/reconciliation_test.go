package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haneul/internal/domain/catalog"
	"haneul/internal/domain/entitlement"
	apperrors "haneul/internal/shared/errors"
)

type testEnv struct {
	entRepo    *fakeEntitlementRepo
	ledgerRepo *fakeLedgerRepo
	memoRepo   *fakeMemoRepo

	deduct     *DeductUseCase
	create     *CreateEntitlementUseCase
	link       *LinkUnlinkedUseCase
	recordNote *RecordNoteUseCase
	reverse    *ReverseUseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	entRepo := newFakeEntitlementRepo()
	ledgerRepo := newFakeLedgerRepo()
	memoRepo := newFakeMemoRepo()
	txMgr := newTestTxMgr(t)
	log := testLogger()

	return &testEnv{
		entRepo:    entRepo,
		ledgerRepo: ledgerRepo,
		memoRepo:   memoRepo,
		deduct:     NewDeductUseCase(entRepo, ledgerRepo, memoRepo, txMgr, log),
		create:     NewCreateEntitlementUseCase(entRepo, ledgerRepo, memoRepo, txMgr, log),
		link:       NewLinkUnlinkedUseCase(entRepo, ledgerRepo, memoRepo, txMgr, log),
		recordNote: NewRecordNoteUseCase(ledgerRepo, memoRepo, txMgr, log),
		reverse:    NewReverseUseCase(entRepo, ledgerRepo, memoRepo, txMgr, log),
	}
}

func (env *testEnv) seedEntitlement(t *testing.T, patientID uint, kind entitlement.Kind, total int) *entitlement.Entitlement {
	t.Helper()
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	e, err := entitlement.NewEntitlement("ent_seed", patientID, kind, "산삼 약침 패키지", total, start, nil, "")
	require.NoError(t, err)
	require.NoError(t, env.entRepo.Create(context.Background(), e))
	return e
}

var usageDate = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func TestDeductUseCase_CompositeWeightedItems(t *testing.T) {
	env := newTestEnv(t)
	ent := env.seedEntitlement(t, 101, entitlement.KindPackage, 10)

	result, err := env.deduct.Execute(context.Background(), DeductCommand{
		BillingLineID: 10,
		ReceiptID:     5,
		PatientID:     101,
		EntitlementID: ent.ID(),
		ItemLabel:     "산삼 약침 외 1건",
		Items: []ItemInput{
			{Label: "산삼 약침", Quantity: 2, Weight: 1},
			{Label: "공진단", Quantity: 1, Weight: 2},
		},
		UsageDate: usageDate,
		Author:    "desk",
	})
	require.NoError(t, err)

	assert.Equal(t, 4, result.Entry.UnitsDeducted)
	assert.Equal(t, "deduct_package", result.Entry.ResolutionKind)
	assert.Equal(t, 4, result.Entitlement.UsedUnits)
	assert.Equal(t, 6, result.Entitlement.RemainingUnits)

	// ledger entry and memo written for the line
	entry, err := env.ledgerRepo.GetByBillingLine(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, entry.Items(), 2)

	memos, err := env.memoRepo.ListByReceipt(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, memos, 1)
	assert.Contains(t, memos[0].Content(), "차감")
}

func TestDeductUseCase_ExactBoundaryCompletes(t *testing.T) {
	env := newTestEnv(t)
	ent := env.seedEntitlement(t, 101, entitlement.KindPackage, 3)

	result, err := env.deduct.Execute(context.Background(), DeductCommand{
		BillingLineID: 10,
		ReceiptID:     5,
		PatientID:     101,
		EntitlementID: ent.ID(),
		ItemLabel:     "약침",
		Items:         []ItemInput{{Label: "약침", Quantity: 3, Weight: 1}},
		UsageDate:     usageDate,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Entitlement.RemainingUnits)
	assert.Equal(t, "completed", result.Entitlement.Status)
}

func TestDeductUseCase_InsufficientBalance(t *testing.T) {
	env := newTestEnv(t)
	ent := env.seedEntitlement(t, 101, entitlement.KindPackage, 3)

	_, err := env.deduct.Execute(context.Background(), DeductCommand{
		BillingLineID: 10,
		ReceiptID:     5,
		PatientID:     101,
		EntitlementID: ent.ID(),
		ItemLabel:     "약침",
		Items:         []ItemInput{{Label: "약침", Quantity: 5, Weight: 1}},
		UsageDate:     usageDate,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsInsufficientBalanceError(err))
	assert.Contains(t, err.Error(), "requested 5")
	assert.Contains(t, err.Error(), "3 remaining")

	// nothing recorded, balance untouched
	loaded, err := env.entRepo.GetByID(context.Background(), ent.ID())
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.RemainingUnits())

	exists, err := env.ledgerRepo.Exists(context.Background(), 10)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDeductUseCase_WrongPatient(t *testing.T) {
	env := newTestEnv(t)
	ent := env.seedEntitlement(t, 101, entitlement.KindPackage, 10)

	_, err := env.deduct.Execute(context.Background(), DeductCommand{
		BillingLineID: 10,
		ReceiptID:     5,
		PatientID:     999,
		EntitlementID: ent.ID(),
		ItemLabel:     "약침",
		Items:         []ItemInput{{Label: "약침", Quantity: 1, Weight: 1}},
		UsageDate:     usageDate,
	})
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeBadRequest, appErr.Type)
}

func TestDeductUseCase_OneResolutionPerLine(t *testing.T) {
	env := newTestEnv(t)
	ent := env.seedEntitlement(t, 101, entitlement.KindPackage, 10)

	cmd := DeductCommand{
		BillingLineID: 10,
		ReceiptID:     5,
		PatientID:     101,
		EntitlementID: ent.ID(),
		ItemLabel:     "약침",
		Items:         []ItemInput{{Label: "약침", Quantity: 1, Weight: 1}},
		UsageDate:     usageDate,
	}
	_, err := env.deduct.Execute(context.Background(), cmd)
	require.NoError(t, err)

	_, err = env.deduct.Execute(context.Background(), cmd)
	require.Error(t, err)
	assert.True(t, apperrors.IsDuplicateResolutionError(err))
}

func TestDeductUseCase_AutoSelectsSingleCandidate(t *testing.T) {
	env := newTestEnv(t)
	ent := env.seedEntitlement(t, 101, entitlement.KindPackage, 10)
	env.seedEntitlement(t, 101, entitlement.KindMembership, 10)

	result, err := env.deduct.Execute(context.Background(), DeductCommand{
		BillingLineID: 10,
		ReceiptID:     5,
		PatientID:     101,
		Kind:          entitlement.KindPackage,
		ItemLabel:     "약침",
		Items:         []ItemInput{{Label: "약침", Quantity: 1, Weight: 1}},
		UsageDate:     usageDate,
	})
	require.NoError(t, err)
	assert.Equal(t, ent.ID(), result.Entitlement.ID)
	assert.Equal(t, 9, result.Entitlement.RemainingUnits)
}

func TestDeductUseCase_AutoSelectAmbiguous(t *testing.T) {
	env := newTestEnv(t)
	env.seedEntitlement(t, 101, entitlement.KindPackage, 10)
	env.seedEntitlement(t, 101, entitlement.KindPackage, 5)

	_, err := env.deduct.Execute(context.Background(), DeductCommand{
		BillingLineID: 10,
		ReceiptID:     5,
		PatientID:     101,
		Kind:          entitlement.KindPackage,
		ItemLabel:     "약침",
		Items:         []ItemInput{{Label: "약침", Quantity: 1, Weight: 1}},
		UsageDate:     usageDate,
	})
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeBadRequest, appErr.Type)
}

func TestDeductUseCase_AutoSelectNoCandidate(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.deduct.Execute(context.Background(), DeductCommand{
		BillingLineID: 10,
		ReceiptID:     5,
		PatientID:     101,
		Kind:          entitlement.KindPackage,
		ItemLabel:     "약침",
		Items:         []ItemInput{{Label: "약침", Quantity: 1, Weight: 1}},
		UsageDate:     usageDate,
	})
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func TestDeductUseCase_KindRequiredWithoutEntitlementID(t *testing.T) {
	env := newTestEnv(t)
	env.seedEntitlement(t, 101, entitlement.KindPackage, 10)

	_, err := env.deduct.Execute(context.Background(), DeductCommand{
		BillingLineID: 10,
		ReceiptID:     5,
		PatientID:     101,
		ItemLabel:     "약침",
		Items:         []ItemInput{{Label: "약침", Quantity: 1, Weight: 1}},
		UsageDate:     usageDate,
	})
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestCreateEntitlementUseCase(t *testing.T) {
	env := newTestEnv(t)
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	result, err := env.create.Execute(context.Background(), CreateEntitlementCommand{
		BillingLineID: 20,
		ReceiptID:     6,
		PatientID:     101,
		Kind:          entitlement.KindPackage,
		Label:         "산삼 약침 10회",
		TotalUnits:    10,
		StartDate:     start,
		UsageDate:     start,
		Author:        "desk",
	})
	require.NoError(t, err)

	assert.Equal(t, "create_entitlement", result.Entry.ResolutionKind)
	assert.Equal(t, 10, result.Entitlement.RemainingUnits)
	require.NotNil(t, result.Entitlement.LinkedBillingLineID)
	assert.Equal(t, uint(20), *result.Entitlement.LinkedBillingLineID)

	t.Run("second resolution on the same line is rejected", func(t *testing.T) {
		_, err := env.create.Execute(context.Background(), CreateEntitlementCommand{
			BillingLineID: 20,
			ReceiptID:     6,
			PatientID:     101,
			Kind:          entitlement.KindPackage,
			Label:         "다른 패키지",
			TotalUnits:    5,
			StartDate:     start,
			UsageDate:     start,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsDuplicateResolutionError(err))
	})

	t.Run("invalid unit count is a validation error", func(t *testing.T) {
		_, err := env.create.Execute(context.Background(), CreateEntitlementCommand{
			BillingLineID: 21,
			ReceiptID:     6,
			PatientID:     101,
			Kind:          entitlement.KindPackage,
			Label:         "약침",
			TotalUnits:    0,
			StartDate:     start,
			UsageDate:     start,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsInvalidQuantityError(err))
	})
}

func TestLinkUnlinkedUseCase(t *testing.T) {
	env := newTestEnv(t)
	ent := env.seedEntitlement(t, 101, entitlement.KindHerbalCycle, 3)

	result, err := env.link.Execute(context.Background(), LinkUnlinkedCommand{
		BillingLineID: 30,
		ReceiptID:     7,
		PatientID:     101,
		EntitlementID: ent.ID(),
		ItemLabel:     "10첩 한약",
		UsageDate:     usageDate,
		Author:        "desk",
	})
	require.NoError(t, err)

	assert.Equal(t, "link_unlinked", result.Entry.ResolutionKind)
	require.NotNil(t, result.Entitlement.LinkedBillingLineID)
	assert.Equal(t, uint(30), *result.Entitlement.LinkedBillingLineID)
	// linking consumes nothing
	assert.Equal(t, 3, result.Entitlement.RemainingUnits)

	memos, err := env.memoRepo.ListByReceipt(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, memos, 1)
	assert.Contains(t, memos[0].Content(), "선결연결")

	t.Run("already linked grant is rejected", func(t *testing.T) {
		_, err := env.link.Execute(context.Background(), LinkUnlinkedCommand{
			BillingLineID: 31,
			ReceiptID:     7,
			PatientID:     101,
			EntitlementID: ent.ID(),
			ItemLabel:     "10첩 한약",
			UsageDate:     usageDate,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsAlreadyLinkedError(err))
	})

	t.Run("non-linkable kind is rejected", func(t *testing.T) {
		pkg := env.seedEntitlement(t, 101, entitlement.KindPackage, 10)
		_, err := env.link.Execute(context.Background(), LinkUnlinkedCommand{
			BillingLineID: 32,
			ReceiptID:     7,
			PatientID:     101,
			EntitlementID: pkg.ID(),
			ItemLabel:     "약침 패키지",
			UsageDate:     usageDate,
		})
		require.Error(t, err)
		appErr := apperrors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrorTypeBadRequest, appErr.Type)
	})
}

func TestRecordNoteUseCase(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.recordNote.Execute(context.Background(), RecordNoteCommand{
		BillingLineID: 40,
		ReceiptID:     8,
		PatientID:     101,
		ItemLabel:     "일회성 도수치료",
		Quantity:      1,
		UsageDate:     usageDate,
		Note:          "단건 결제, 패키지 없음",
		Author:        "desk",
	})
	require.NoError(t, err)

	assert.Equal(t, "note_only", result.Entry.ResolutionKind)
	assert.Nil(t, result.Entry.EntitlementID)
	assert.Zero(t, result.Entry.UnitsDeducted)
	assert.Equal(t, "단건 결제, 패키지 없음", result.Memo.Content)

	t.Run("markup is stripped from the note", func(t *testing.T) {
		res, err := env.recordNote.Execute(context.Background(), RecordNoteCommand{
			BillingLineID: 41,
			ReceiptID:     8,
			PatientID:     101,
			ItemLabel:     "도수치료",
			UsageDate:     usageDate,
			Note:          "<script>alert(1)</script>추가 결제",
		})
		require.NoError(t, err)
		assert.Equal(t, "추가 결제", res.Memo.Content)
	})

	t.Run("empty note is rejected", func(t *testing.T) {
		_, err := env.recordNote.Execute(context.Background(), RecordNoteCommand{
			BillingLineID: 42,
			ReceiptID:     8,
			PatientID:     101,
			ItemLabel:     "도수치료",
			UsageDate:     usageDate,
			Note:          "  ",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidationError(err))
	})
}

func TestReverseUseCase_Deduction(t *testing.T) {
	env := newTestEnv(t)
	ent := env.seedEntitlement(t, 101, entitlement.KindPackage, 10)

	_, err := env.deduct.Execute(context.Background(), DeductCommand{
		BillingLineID: 10,
		ReceiptID:     5,
		PatientID:     101,
		EntitlementID: ent.ID(),
		ItemLabel:     "약침",
		Items:         []ItemInput{{Label: "약침", Quantity: 4, Weight: 1}},
		UsageDate:     usageDate,
	})
	require.NoError(t, err)

	result, err := env.reverse.Execute(context.Background(), ReverseCommand{BillingLineID: 10})
	require.NoError(t, err)

	assert.Equal(t, "deduct_package", result.ReversedKind)
	require.NotNil(t, result.Entitlement)
	assert.Equal(t, 10, result.Entitlement.RemainingUnits)
	assert.Equal(t, 0, result.Entitlement.UsedUnits)

	// line is unresolved again and its memos are gone
	exists, err := env.ledgerRepo.Exists(context.Background(), 10)
	require.NoError(t, err)
	assert.False(t, exists)

	memos, err := env.memoRepo.ListByReceipt(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, memos)
}

func TestReverseUseCase_DeductionReactivatesCompleted(t *testing.T) {
	env := newTestEnv(t)
	ent := env.seedEntitlement(t, 101, entitlement.KindPackage, 2)

	_, err := env.deduct.Execute(context.Background(), DeductCommand{
		BillingLineID: 10,
		ReceiptID:     5,
		PatientID:     101,
		EntitlementID: ent.ID(),
		ItemLabel:     "약침",
		Items:         []ItemInput{{Label: "약침", Quantity: 2, Weight: 1}},
		UsageDate:     usageDate,
	})
	require.NoError(t, err)

	result, err := env.reverse.Execute(context.Background(), ReverseCommand{BillingLineID: 10})
	require.NoError(t, err)
	assert.Equal(t, "active", result.Entitlement.Status)
	assert.Equal(t, 2, result.Entitlement.RemainingUnits)
}

func TestReverseUseCase_Creation(t *testing.T) {
	env := newTestEnv(t)
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	created, err := env.create.Execute(context.Background(), CreateEntitlementCommand{
		BillingLineID: 20,
		ReceiptID:     6,
		PatientID:     101,
		Kind:          entitlement.KindPackage,
		Label:         "약침 10회",
		TotalUnits:    10,
		StartDate:     start,
		UsageDate:     start,
	})
	require.NoError(t, err)

	t.Run("unused grant is removed with the entry", func(t *testing.T) {
		result, err := env.reverse.Execute(context.Background(), ReverseCommand{BillingLineID: 20})
		require.NoError(t, err)
		assert.Equal(t, "create_entitlement", result.ReversedKind)
		assert.Nil(t, result.Entitlement)

		_, err = env.entRepo.GetByID(context.Background(), created.Entitlement.ID)
		assert.ErrorIs(t, err, entitlement.ErrNotFound)
	})

	t.Run("consumed grant blocks the reversal", func(t *testing.T) {
		created, err := env.create.Execute(context.Background(), CreateEntitlementCommand{
			BillingLineID: 21,
			ReceiptID:     6,
			PatientID:     101,
			Kind:          entitlement.KindPackage,
			Label:         "약침 10회",
			TotalUnits:    10,
			StartDate:     start,
			UsageDate:     start,
		})
		require.NoError(t, err)

		_, err = env.deduct.Execute(context.Background(), DeductCommand{
			BillingLineID: 22,
			ReceiptID:     6,
			PatientID:     101,
			EntitlementID: created.Entitlement.ID,
			ItemLabel:     "약침",
			Items:         []ItemInput{{Label: "약침", Quantity: 1, Weight: 1}},
			UsageDate:     start,
		})
		require.NoError(t, err)

		_, err = env.reverse.Execute(context.Background(), ReverseCommand{BillingLineID: 21})
		require.Error(t, err)
		assert.True(t, apperrors.IsEntitlementInUseError(err))

		// grant and its creation entry survive the failed reversal
		_, err = env.entRepo.GetByID(context.Background(), created.Entitlement.ID)
		require.NoError(t, err)
		exists, err := env.ledgerRepo.Exists(context.Background(), 21)
		require.NoError(t, err)
		assert.True(t, exists)
	})
}

func TestReverseUseCase_Link(t *testing.T) {
	env := newTestEnv(t)
	ent := env.seedEntitlement(t, 101, entitlement.KindHerbalCycle, 3)

	_, err := env.link.Execute(context.Background(), LinkUnlinkedCommand{
		BillingLineID: 30,
		ReceiptID:     7,
		PatientID:     101,
		EntitlementID: ent.ID(),
		ItemLabel:     "10첩 한약",
		UsageDate:     usageDate,
	})
	require.NoError(t, err)

	result, err := env.reverse.Execute(context.Background(), ReverseCommand{BillingLineID: 30})
	require.NoError(t, err)
	assert.Equal(t, "link_unlinked", result.ReversedKind)
	require.NotNil(t, result.Entitlement)
	assert.Nil(t, result.Entitlement.LinkedBillingLineID)

	// the grant is linkable again
	_, err = env.link.Execute(context.Background(), LinkUnlinkedCommand{
		BillingLineID: 31,
		ReceiptID:     7,
		PatientID:     101,
		EntitlementID: ent.ID(),
		ItemLabel:     "10첩 한약",
		UsageDate:     usageDate,
	})
	require.NoError(t, err)
}

func TestReverseUseCase_NothingToReverse(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.reverse.Execute(context.Background(), ReverseCommand{BillingLineID: 99})
	require.Error(t, err)
	assert.True(t, apperrors.IsNothingToReverseError(err))
}

func TestReverseUseCase_SecondReversalFails(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.recordNote.Execute(context.Background(), RecordNoteCommand{
		BillingLineID: 40,
		ReceiptID:     8,
		PatientID:     101,
		ItemLabel:     "도수치료",
		UsageDate:     usageDate,
		Note:          "단건 결제",
	})
	require.NoError(t, err)

	_, err = env.reverse.Execute(context.Background(), ReverseCommand{BillingLineID: 40})
	require.NoError(t, err)

	_, err = env.reverse.Execute(context.Background(), ReverseCommand{BillingLineID: 40})
	require.Error(t, err)
	assert.True(t, apperrors.IsNothingToReverseError(err))
}

func TestReverseUseCase_KeepsManualMemos(t *testing.T) {
	env := newTestEnv(t)

	lineID := uint(40)
	addMemo := NewAddReceiptMemoUseCase(env.memoRepo, testLogger())
	manual, err := addMemo.Execute(context.Background(), AddReceiptMemoCommand{
		ReceiptID:     8,
		BillingLineID: &lineID,
		Content:       "환자 전화 확인 완료",
		Author:        "desk",
	})
	require.NoError(t, err)

	_, err = env.recordNote.Execute(context.Background(), RecordNoteCommand{
		BillingLineID: lineID,
		ReceiptID:     8,
		PatientID:     101,
		ItemLabel:     "도수치료",
		UsageDate:     usageDate,
		Note:          "단건 결제",
	})
	require.NoError(t, err)

	_, err = env.reverse.Execute(context.Background(), ReverseCommand{BillingLineID: lineID})
	require.NoError(t, err)

	// the resolution's memo is gone, the hand-written one stays
	memos, err := env.memoRepo.ListByBillingLine(context.Background(), lineID)
	require.NoError(t, err)
	require.Len(t, memos, 1)
	assert.Equal(t, manual.ID, memos[0].ID())
	assert.Equal(t, "환자 전화 확인 완료", memos[0].Content())
}

func TestDeductReverseDeductRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ent := env.seedEntitlement(t, 101, entitlement.KindPackage, 5)

	cmd := DeductCommand{
		BillingLineID: 10,
		ReceiptID:     5,
		PatientID:     101,
		EntitlementID: ent.ID(),
		ItemLabel:     "약침",
		Items:         []ItemInput{{Label: "약침", Quantity: 5, Weight: 1}},
		UsageDate:     usageDate,
	}

	_, err := env.deduct.Execute(context.Background(), cmd)
	require.NoError(t, err)

	_, err = env.reverse.Execute(context.Background(), ReverseCommand{BillingLineID: 10})
	require.NoError(t, err)

	result, err := env.deduct.Execute(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Entitlement.RemainingUnits)
	assert.Equal(t, "completed", result.Entitlement.Status)
}

func TestClassifyItemsUseCase(t *testing.T) {
	yakchim, err := catalog.ReconstructType(1, "약침", catalog.FamilyPackage, 1, time.Now())
	require.NoError(t, err)
	gongjindan, err := catalog.ReconstructType(2, "공진단", catalog.FamilyAddon, 2, time.Now())
	require.NoError(t, err)
	src := &fakeCatalogSource{types: []*catalog.Type{yakchim, gongjindan}}

	uc := NewClassifyItemsUseCase(src, testLogger())

	results, err := uc.Execute(context.Background(), ClassifyItemsQuery{
		ItemLabels: []string{"산삼 약침 10회", "공진단 5환", "도수치료"},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].Matched)
	assert.Equal(t, "약침", results[0].CatalogName)
	assert.Equal(t, 1, results[0].DeductionWeight)

	assert.True(t, results[1].Matched)
	assert.Equal(t, 2, results[1].DeductionWeight)
	require.Len(t, results[1].Matches, 1)

	assert.False(t, results[2].Matched)
	assert.Equal(t, 1, results[2].DeductionWeight)
	assert.Empty(t, results[2].Matches)

	t.Run("composite line lists every bundled item", func(t *testing.T) {
		results, err := uc.Execute(context.Background(), ClassifyItemsQuery{
			ItemLabels: []string{"공진단+약침 세트"},
		})
		require.NoError(t, err)
		require.Len(t, results, 1)

		require.Len(t, results[0].Matches, 2)
		names := []string{results[0].Matches[0].CatalogName, results[0].Matches[1].CatalogName}
		assert.ElementsMatch(t, []string{"공진단", "약침"}, names)
		// top-level fields still carry the best match
		assert.True(t, results[0].Matched)
		assert.Equal(t, "공진단", results[0].CatalogName)
	})

	t.Run("invalid family hint", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), ClassifyItemsQuery{
			ItemLabels: []string{"약침"},
			FamilyHint: "bogus",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidationError(err))
	})
}

func TestListEntitlementsUseCase_Filters(t *testing.T) {
	env := newTestEnv(t)
	uc := NewListEntitlementsUseCase(env.entRepo, testLogger())

	env.seedEntitlement(t, 101, entitlement.KindHerbalCycle, 3)
	drained := env.seedEntitlement(t, 101, entitlement.KindHerbalCycle, 1)
	require.NoError(t, drained.Deduct(1))
	linked := env.seedEntitlement(t, 101, entitlement.KindHerbalCycle, 2)
	require.NoError(t, linked.LinkToBillingLine(70))

	t.Run("active excludes drained grants", func(t *testing.T) {
		got, err := uc.Execute(context.Background(), ListEntitlementsQuery{
			PatientID: 101,
			Kind:      entitlement.KindHerbalCycle,
			Filter:    FilterActive,
		})
		require.NoError(t, err)
		require.Len(t, got, 2)
	})

	t.Run("unlinked excludes linked grants", func(t *testing.T) {
		got, err := uc.Execute(context.Background(), ListEntitlementsQuery{
			PatientID: 101,
			Kind:      entitlement.KindHerbalCycle,
			Filter:    FilterUnlinked,
		})
		require.NoError(t, err)
		require.Len(t, got, 2)
		for _, e := range got {
			assert.Nil(t, e.LinkedBillingLineID)
		}
	})

	t.Run("unlinked rejects non-linkable kinds", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), ListEntitlementsQuery{
			PatientID: 101,
			Kind:      entitlement.KindPackage,
			Filter:    FilterUnlinked,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidationError(err))
	})

	t.Run("all returns everything", func(t *testing.T) {
		got, err := uc.Execute(context.Background(), ListEntitlementsQuery{
			PatientID: 101,
			Filter:    FilterAll,
		})
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})
}
