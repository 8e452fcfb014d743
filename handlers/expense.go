package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"zurcher.dev/api/config"
	"zurcher.dev/api/middleware"
	"zurcher.dev/api/models"
)

// ExpenseHandler books money paid out.
type ExpenseHandler struct {
	db *gorm.DB
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler() *ExpenseHandler {
	return &ExpenseHandler{
		db: config.DB,
	}
}

type expenseReq struct {
	WorkID      *uuid.UUID `json:"workId"`
	Date        string     `json:"date"`
	Amount      float64    `json:"amount"`
	TypeExpense string     `json:"typeExpense"`
	Notes       string     `json:"notes"`
}

// CreateExpense records an expense entry, stamped with the caller's staff id.
func (h *ExpenseHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseReq
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Date == "" || req.Amount <= 0 {
		respondError(w, http.StatusBadRequest, "date and a positive amount are required")
		return
	}
	if !models.ValidExpenseType(req.TypeExpense) {
		respondError(w, http.StatusBadRequest, "unknown expense type: "+req.TypeExpense)
		return
	}
	if req.WorkID != nil {
		var work models.Work
		if err := h.db.Select("id").First(&work, "id = ?", *req.WorkID).Error; err != nil {
			respondError(w, http.StatusNotFound, "work not found")
			return
		}
	}

	expense := models.Expense{
		WorkID:      req.WorkID,
		Date:        req.Date,
		Amount:      req.Amount,
		TypeExpense: req.TypeExpense,
		Notes:       req.Notes,
	}
	if claims := middleware.GetClaims(r); claims != nil {
		if id, err := uuid.Parse(claims.StaffID); err == nil {
			expense.StaffID = &id
		}
	}
	if err := h.db.Create(&expense).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not create expense")
		return
	}
	respondData(w, http.StatusCreated, expense)
}

// GetExpenses lists expense entries, optionally filtered by work.
func (h *ExpenseHandler) GetExpenses(w http.ResponseWriter, r *http.Request) {
	q := h.db.Order("date DESC")
	if workID := r.URL.Query().Get("workId"); workID != "" {
		q = q.Where("work_id = ?", workID)
	}
	var expenses []models.Expense
	if err := q.Find(&expenses).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not list expenses")
		return
	}
	respondData(w, http.StatusOK, expenses)
}

// GetExpenseByID returns one expense entry.
func (h *ExpenseHandler) GetExpenseByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idExpense"]

	var expense models.Expense
	if err := h.db.First(&expense, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "expense not found")
		return
	}
	respondData(w, http.StatusOK, expense)
}

type updateExpenseReq struct {
	Date        *string  `json:"date"`
	Amount      *float64 `json:"amount"`
	TypeExpense *string  `json:"typeExpense"`
	Notes       *string  `json:"notes"`
}

// UpdateExpense edits an entry.
func (h *ExpenseHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idExpense"]

	var req updateExpenseReq
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Date == nil && req.Amount == nil && req.TypeExpense == nil && req.Notes == nil {
		respondError(w, http.StatusBadRequest, "no fields to update")
		return
	}
	if req.TypeExpense != nil && !models.ValidExpenseType(*req.TypeExpense) {
		respondError(w, http.StatusBadRequest, "unknown expense type: "+*req.TypeExpense)
		return
	}
	if req.Amount != nil && *req.Amount <= 0 {
		respondError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	var expense models.Expense
	if err := h.db.First(&expense, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "expense not found")
		return
	}

	updates := map[string]interface{}{}
	if req.Date != nil {
		updates["date"] = *req.Date
	}
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}
	if req.TypeExpense != nil {
		updates["type_expense"] = *req.TypeExpense
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if err := h.db.Model(&expense).Updates(updates).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not update expense")
		return
	}
	if err := h.db.First(&expense, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not reload expense")
		return
	}
	respondData(w, http.StatusOK, expense)
}

// DeleteExpense removes an entry.
func (h *ExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idExpense"]

	res := h.db.Delete(&models.Expense{}, "id = ?", id)
	if res.Error != nil {
		respondError(w, http.StatusInternalServerError, "could not delete expense")
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, "expense not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
