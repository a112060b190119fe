package usecases

import (
	"fmt"

	"haneul/internal/domain/entitlement"
)

// Receipt memo wording follows what the front desk already writes by hand,
// so generated and manual memos read the same in the receipt history.

func unitSuffix(k entitlement.Kind) string {
	if k.Unit() == "month" {
		return "개월"
	}
	return "회"
}

func deductionMemoText(e *entitlement.Entitlement, units int) string {
	u := unitSuffix(e.Kind())
	return fmt.Sprintf("%s %d%s 차감 (잔여 %d%s)", e.Label(), units, u, e.RemainingUnits(), u)
}

func creationMemoText(e *entitlement.Entitlement) string {
	u := unitSuffix(e.Kind())
	return fmt.Sprintf("%s %d%s 등록", e.Label(), e.TotalUnits(), u)
}

func linkMemoText(e *entitlement.Entitlement) string {
	return fmt.Sprintf("선결연결: %s", e.Label())
}
