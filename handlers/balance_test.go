package handlers

import (
	"math"
	"testing"

	"zurcher.dev/api/models"
)

func TestSummarizeBalance(t *testing.T) {
	incomes := []models.Income{
		{Amount: 5000, TypeIncome: models.IncomeBudgetInitialPayment},
		{Amount: 7500, TypeIncome: models.IncomeBudgetFinalPayment},
		{Amount: 300, TypeIncome: models.IncomeBudgetInitialPayment},
	}
	expenses := []models.Expense{
		{Amount: 2000, TypeExpense: models.ExpenseMaterials},
		{Amount: 1200.50, TypeExpense: models.ExpenseWorkers},
	}

	got := SummarizeBalance(incomes, expenses)

	if got.TotalIncome != 12800 {
		t.Errorf("TotalIncome = %v, want 12800", got.TotalIncome)
	}
	if got.TotalExpense != 3200.50 {
		t.Errorf("TotalExpense = %v, want 3200.50", got.TotalExpense)
	}
	if math.Abs(got.Balance-9599.50) > 1e-9 {
		t.Errorf("Balance = %v, want 9599.50", got.Balance)
	}
	if got.IncomeCount != 3 || got.ExpenseCount != 2 {
		t.Errorf("counts = %d/%d, want 3/2", got.IncomeCount, got.ExpenseCount)
	}
	if got.IncomesByType[models.IncomeBudgetInitialPayment] != 5300 {
		t.Errorf("initial payment bucket = %v, want 5300",
			got.IncomesByType[models.IncomeBudgetInitialPayment])
	}
	if got.ExpensesByType[models.ExpenseWorkers] != 1200.50 {
		t.Errorf("workers bucket = %v, want 1200.50",
			got.ExpensesByType[models.ExpenseWorkers])
	}
}

func TestSummarizeBalanceEmpty(t *testing.T) {
	got := SummarizeBalance(nil, nil)
	if got.TotalIncome != 0 || got.TotalExpense != 0 || got.Balance != 0 {
		t.Errorf("empty summary should be all zeros, got %+v", got)
	}
	if got.IncomesByType == nil || got.ExpensesByType == nil {
		t.Error("type buckets should be initialized even when empty")
	}
}

func TestWorkStatusForResult(t *testing.T) {
	tests := []struct {
		inspectionType string
		approved       bool
		want           string
	}{
		{models.InspectionTypeInitial, true, models.WorkStatusApprovedInspection},
		{models.InspectionTypeInitial, false, models.WorkStatusRejectedInspection},
		{models.InspectionTypeFinal, true, models.WorkStatusFinalApproved},
		{models.InspectionTypeFinal, false, models.WorkStatusFinalRejected},
	}
	for _, tt := range tests {
		if got := workStatusForResult(tt.inspectionType, tt.approved); got != tt.want {
			t.Errorf("workStatusForResult(%q, %v) = %q, want %q",
				tt.inspectionType, tt.approved, got, tt.want)
		}
	}
}
