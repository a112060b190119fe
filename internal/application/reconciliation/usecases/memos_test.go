package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haneul/internal/domain/memo"
	apperrors "haneul/internal/shared/errors"
)

func TestAddReceiptMemoUseCase(t *testing.T) {
	memoRepo := newFakeMemoRepo()
	log := testLogger()
	add := NewAddReceiptMemoUseCase(memoRepo, log)
	list := NewListReceiptMemosUseCase(memoRepo, log)

	result, err := add.Execute(context.Background(), AddReceiptMemoCommand{
		ReceiptID: 7,
		Content:   "<b>다음 방문시</b> 공진단 상담",
		Author:    "desk",
	})
	require.NoError(t, err)
	// markup is stripped before storage
	assert.Equal(t, "다음 방문시 공진단 상담", result.Content)

	memos, err := list.Execute(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, memos, 1)
	assert.Equal(t, result.ID, memos[0].ID)
}

func TestAddReceiptMemoUseCase_EmptyContent(t *testing.T) {
	add := NewAddReceiptMemoUseCase(newFakeMemoRepo(), testLogger())

	_, err := add.Execute(context.Background(), AddReceiptMemoCommand{
		ReceiptID: 7,
		Content:   "   ",
	})
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestListBillingLineMemosUseCase(t *testing.T) {
	memoRepo := newFakeMemoRepo()
	log := testLogger()
	add := NewAddReceiptMemoUseCase(memoRepo, log)
	list := NewListBillingLineMemosUseCase(memoRepo, log)

	lineID := uint(42)
	_, err := add.Execute(context.Background(), AddReceiptMemoCommand{
		ReceiptID:     7,
		BillingLineID: &lineID,
		Content:       "패키지 차감 보류",
	})
	require.NoError(t, err)
	_, err = add.Execute(context.Background(), AddReceiptMemoCommand{
		ReceiptID: 7,
		Content:   "전화 확인 필요",
	})
	require.NoError(t, err)

	memos, err := list.Execute(context.Background(), lineID)
	require.NoError(t, err)
	require.Len(t, memos, 1)
	assert.Equal(t, "패키지 차감 보류", memos[0].Content)
}

func TestDeleteReceiptMemoUseCase(t *testing.T) {
	memoRepo := newFakeMemoRepo()
	log := testLogger()
	add := NewAddReceiptMemoUseCase(memoRepo, log)
	del := NewDeleteReceiptMemoUseCase(memoRepo, log)

	result, err := add.Execute(context.Background(), AddReceiptMemoCommand{
		ReceiptID: 7,
		Content:   "전화 확인 필요",
	})
	require.NoError(t, err)

	require.NoError(t, del.Execute(context.Background(), result.ID))

	memos, err := memoRepo.ListByReceipt(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, memos)
}

func TestDeleteReceiptMemoUseCase_ManualLineMemo(t *testing.T) {
	memoRepo := newFakeMemoRepo()
	log := testLogger()
	add := NewAddReceiptMemoUseCase(memoRepo, log)
	del := NewDeleteReceiptMemoUseCase(memoRepo, log)

	// hand-written but referring to a specific line
	lineID := uint(42)
	result, err := add.Execute(context.Background(), AddReceiptMemoCommand{
		ReceiptID:     7,
		BillingLineID: &lineID,
		Content:       "환자 요청으로 차감 보류",
	})
	require.NoError(t, err)

	require.NoError(t, del.Execute(context.Background(), result.ID))

	memos, err := memoRepo.ListByReceipt(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, memos)
}

func TestDeleteReceiptMemoUseCase_NotFound(t *testing.T) {
	del := NewDeleteReceiptMemoUseCase(newFakeMemoRepo(), testLogger())

	err := del.Execute(context.Background(), 999)
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func TestDeleteReceiptMemoUseCase_ResolutionMemoRejected(t *testing.T) {
	memoRepo := newFakeMemoRepo()
	del := NewDeleteReceiptMemoUseCase(memoRepo, testLogger())

	m, err := memo.NewResolutionMemo("memo_res", 7, 42, "패키지 차감: 약침 1회", "system")
	require.NoError(t, err)
	require.NoError(t, memoRepo.Create(context.Background(), m))

	err = del.Execute(context.Background(), m.ID())
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeConflict, appErr.Type)

	// memo stays on the receipt
	memos, err := memoRepo.ListByReceipt(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, memos, 1)
}
