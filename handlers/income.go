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

// IncomeHandler books money received.
type IncomeHandler struct {
	db *gorm.DB
}

// NewIncomeHandler creates a new income handler
func NewIncomeHandler() *IncomeHandler {
	return &IncomeHandler{
		db: config.DB,
	}
}

type incomeReq struct {
	WorkID     *uuid.UUID `json:"workId"`
	Date       string     `json:"date"`
	Amount     float64    `json:"amount"`
	TypeIncome string     `json:"typeIncome"`
	Notes      string     `json:"notes"`
}

// CreateIncome records an income entry, stamped with the caller's staff id.
func (h *IncomeHandler) CreateIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeReq
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Date == "" || req.Amount <= 0 {
		respondError(w, http.StatusBadRequest, "date and a positive amount are required")
		return
	}
	if !models.ValidIncomeType(req.TypeIncome) {
		respondError(w, http.StatusBadRequest, "unknown income type: "+req.TypeIncome)
		return
	}
	if req.WorkID != nil {
		var work models.Work
		if err := h.db.Select("id").First(&work, "id = ?", *req.WorkID).Error; err != nil {
			respondError(w, http.StatusNotFound, "work not found")
			return
		}
	}

	income := models.Income{
		WorkID:     req.WorkID,
		Date:       req.Date,
		Amount:     req.Amount,
		TypeIncome: req.TypeIncome,
		Notes:      req.Notes,
	}
	if claims := middleware.GetClaims(r); claims != nil {
		if id, err := uuid.Parse(claims.StaffID); err == nil {
			income.StaffID = &id
		}
	}
	if err := h.db.Create(&income).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not create income")
		return
	}
	respondData(w, http.StatusCreated, income)
}

// GetIncomes lists income entries, optionally filtered by work.
func (h *IncomeHandler) GetIncomes(w http.ResponseWriter, r *http.Request) {
	q := h.db.Order("date DESC")
	if workID := r.URL.Query().Get("workId"); workID != "" {
		q = q.Where("work_id = ?", workID)
	}
	var incomes []models.Income
	if err := q.Find(&incomes).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not list incomes")
		return
	}
	respondData(w, http.StatusOK, incomes)
}

// GetIncomeByID returns one income entry.
func (h *IncomeHandler) GetIncomeByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idIncome"]

	var income models.Income
	if err := h.db.First(&income, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "income not found")
		return
	}
	respondData(w, http.StatusOK, income)
}

type updateIncomeReq struct {
	Date       *string  `json:"date"`
	Amount     *float64 `json:"amount"`
	TypeIncome *string  `json:"typeIncome"`
	Notes      *string  `json:"notes"`
}

// UpdateIncome edits an entry.
func (h *IncomeHandler) UpdateIncome(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idIncome"]

	var req updateIncomeReq
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Date == nil && req.Amount == nil && req.TypeIncome == nil && req.Notes == nil {
		respondError(w, http.StatusBadRequest, "no fields to update")
		return
	}
	if req.TypeIncome != nil && !models.ValidIncomeType(*req.TypeIncome) {
		respondError(w, http.StatusBadRequest, "unknown income type: "+*req.TypeIncome)
		return
	}
	if req.Amount != nil && *req.Amount <= 0 {
		respondError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	var income models.Income
	if err := h.db.First(&income, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "income not found")
		return
	}

	updates := map[string]interface{}{}
	if req.Date != nil {
		updates["date"] = *req.Date
	}
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}
	if req.TypeIncome != nil {
		updates["type_income"] = *req.TypeIncome
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if err := h.db.Model(&income).Updates(updates).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not update income")
		return
	}
	if err := h.db.First(&income, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not reload income")
		return
	}
	respondData(w, http.StatusOK, income)
}

// DeleteIncome removes an entry.
func (h *IncomeHandler) DeleteIncome(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idIncome"]

	res := h.db.Delete(&models.Income{}, "id = ?", id)
	if res.Error != nil {
		respondError(w, http.StatusInternalServerError, "could not delete income")
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, "income not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
