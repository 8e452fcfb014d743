package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"zurcher.dev/api/config"
	"zurcher.dev/api/models"
)

// BalanceHandler aggregates income and expense entries.
type BalanceHandler struct {
	db *gorm.DB
}

// NewBalanceHandler creates a new balance handler
func NewBalanceHandler() *BalanceHandler {
	return &BalanceHandler{
		db: config.DB,
	}
}

// BalanceSummary is the aggregate of a set of income and expense entries.
type BalanceSummary struct {
	TotalIncome    float64            `json:"totalIncome"`
	TotalExpense   float64            `json:"totalExpense"`
	Balance        float64            `json:"balance"`
	IncomesByType  map[string]float64 `json:"incomesByType"`
	ExpensesByType map[string]float64 `json:"expensesByType"`
	IncomeCount    int                `json:"incomeCount"`
	ExpenseCount   int                `json:"expenseCount"`
}

// SummarizeBalance folds income and expense rows into one summary. Pure;
// the handler feeds it whatever the filters selected.
func SummarizeBalance(incomes []models.Income, expenses []models.Expense) BalanceSummary {
	summary := BalanceSummary{
		IncomesByType:  map[string]float64{},
		ExpensesByType: map[string]float64{},
		IncomeCount:    len(incomes),
		ExpenseCount:   len(expenses),
	}
	for _, in := range incomes {
		summary.TotalIncome += in.Amount
		summary.IncomesByType[in.TypeIncome] += in.Amount
	}
	for _, ex := range expenses {
		summary.TotalExpense += ex.Amount
		summary.ExpensesByType[ex.TypeExpense] += ex.Amount
	}
	summary.Balance = summary.TotalIncome - summary.TotalExpense
	return summary
}

// loadEntries applies the shared query filters (workId, from, to on the
// entry date) to both tables.
func (h *BalanceHandler) loadEntries(r *http.Request) ([]models.Income, []models.Expense, error) {
	filter := func(q *gorm.DB) *gorm.DB {
		if workID := r.URL.Query().Get("workId"); workID != "" {
			q = q.Where("work_id = ?", workID)
		}
		if from := r.URL.Query().Get("from"); from != "" {
			q = q.Where("date >= ?", from)
		}
		if to := r.URL.Query().Get("to"); to != "" {
			q = q.Where("date <= ?", to)
		}
		return q
	}

	var incomes []models.Income
	if err := filter(h.db.Order("date ASC")).Find(&incomes).Error; err != nil {
		return nil, nil, err
	}
	var expenses []models.Expense
	if err := filter(h.db.Order("date ASC")).Find(&expenses).Error; err != nil {
		return nil, nil, err
	}
	return incomes, expenses, nil
}

// GetBalance returns the aggregate for the selected period/work.
func (h *BalanceHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	incomes, expenses, err := h.loadEntries(r)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not load balance entries")
		return
	}
	respondData(w, http.StatusOK, SummarizeBalance(incomes, expenses))
}

// ExportBalance streams the same selection as an xlsx workbook: one ledger
// sheet with every entry plus a summary block. Binary endpoint, so errors
// go out as plain text like the PDF routes.
func (h *BalanceHandler) ExportBalance(w http.ResponseWriter, r *http.Request) {
	incomes, expenses, err := h.loadEntries(r)
	if err != nil {
		http.Error(w, "could not load balance entries", http.StatusInternalServerError)
		return
	}

	f, err := buildBalanceWorkbook(incomes, expenses)
	if err != nil {
		http.Error(w, "failed to generate Excel file", http.StatusInternalServerError)
		return
	}
	buffer, err := f.WriteToBuffer()
	if err != nil {
		http.Error(w, "failed to write Excel file", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("balance_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}

func buildBalanceWorkbook(incomes []models.Income, expenses []models.Expense) (*excelize.File, error) {
	f := excelize.NewFile()
	sheetName := "Balance"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{
			Horizontal: "left",
			Vertical:   "center",
		},
	})
	f.SetCellValue(sheetName, "A1", "Income / Expense Balance")
	f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	f.SetRowHeight(sheetName, 1, 30)
	f.SetCellValue(sheetName, "A2", fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04:05")))

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#4472C4"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})

	headers := []string{"Date", "Kind", "Type", "Amount", "Work", "Notes"}
	for colIdx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 4)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}
	f.SetColWidth(sheetName, "A", "F", 22)

	row := 5
	writeRow := func(date, kind, typ string, amount float64, workID, notes string) {
		values := []interface{}{date, kind, typ, amount, workID, notes}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, row)
			f.SetCellValue(sheetName, cell, v)
		}
		row++
	}
	for _, in := range incomes {
		workID := ""
		if in.WorkID != nil {
			workID = in.WorkID.String()
		}
		writeRow(in.Date, "income", in.TypeIncome, in.Amount, workID, in.Notes)
	}
	for _, ex := range expenses {
		workID := ""
		if ex.WorkID != nil {
			workID = ex.WorkID.String()
		}
		writeRow(ex.Date, "expense", ex.TypeExpense, -ex.Amount, workID, ex.Notes)
	}

	summary := SummarizeBalance(incomes, expenses)
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E7E6E6"},
			Pattern: 1,
		},
	})
	row += 2
	cell, _ := excelize.CoordinatesToCellName(1, row)
	f.SetCellValue(sheetName, cell, "Summary")
	f.SetCellStyle(sheetName, cell, cell, summaryStyle)
	row++
	for _, line := range []struct {
		label string
		value float64
	}{
		{"Total income", summary.TotalIncome},
		{"Total expense", summary.TotalExpense},
		{"Balance", summary.Balance},
	} {
		keyCell, _ := excelize.CoordinatesToCellName(1, row)
		valueCell, _ := excelize.CoordinatesToCellName(2, row)
		f.SetCellValue(sheetName, keyCell, line.label)
		f.SetCellValue(sheetName, valueCell, line.value)
		row++
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}
