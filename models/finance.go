package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Income types match the receipts the office books against a job.
const (
	IncomeBudgetInitialPayment = "budget_initial_payment"
	IncomeBudgetFinalPayment   = "budget_final_payment"
	IncomeDesignDifference     = "design_difference"
	IncomeReceipt              = "income_receipt"
)

var IncomeTypes = []string{
	IncomeBudgetInitialPayment, IncomeBudgetFinalPayment,
	IncomeDesignDifference, IncomeReceipt,
}

// Expense types.
const (
	ExpenseInitialMaterials  = "initial_materials"
	ExpenseMaterials         = "materials"
	ExpenseWorkers           = "workers"
	ExpenseInitialInspection = "initial_inspection"
	ExpenseFinalInspection   = "final_inspection"
	ExpenseUnforeseen        = "unforeseen"
	ExpenseGeneral           = "general_expense"
)

var ExpenseTypes = []string{
	ExpenseInitialMaterials, ExpenseMaterials, ExpenseWorkers,
	ExpenseInitialInspection, ExpenseFinalInspection, ExpenseUnforeseen,
	ExpenseGeneral,
}

// Income records money received, optionally tied to a work and the staff
// member who booked it.
type Income struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"idIncome"`
	StaffID    *uuid.UUID `gorm:"type:uuid;index" json:"staffId,omitempty"`
	WorkID     *uuid.UUID `gorm:"type:uuid;index" json:"workId,omitempty"`
	Date       string     `gorm:"size:10;not null" json:"date"`
	Amount     float64    `gorm:"not null" json:"amount"`
	TypeIncome string     `gorm:"not null" json:"typeIncome"`
	Notes      string     `json:"notes,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Expense records money paid out.
type Expense struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"idExpense"`
	StaffID     *uuid.UUID `gorm:"type:uuid;index" json:"staffId,omitempty"`
	WorkID      *uuid.UUID `gorm:"type:uuid;index" json:"workId,omitempty"`
	Date        string     `gorm:"size:10;not null" json:"date"`
	Amount      float64    `gorm:"not null" json:"amount"`
	TypeExpense string     `gorm:"not null" json:"typeExpense"`
	Notes       string     `json:"notes,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ValidIncomeType reports whether s is a defined income type.
func ValidIncomeType(s string) bool {
	for _, v := range IncomeTypes {
		if s == v {
			return true
		}
	}
	return false
}

// ValidExpenseType reports whether s is a defined expense type.
func ValidExpenseType(s string) bool {
	for _, v := range ExpenseTypes {
		if s == v {
			return true
		}
	}
	return false
}
