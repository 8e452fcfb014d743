package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"zurcher.dev/api/config"
	"zurcher.dev/api/models"
	"zurcher.dev/api/utils"
)

// BudgetHandler handles quote management
type BudgetHandler struct {
	db            *gorm.DB
	notifications *NotificationService
}

// NewBudgetHandler creates a new budget handler
func NewBudgetHandler(ns *NotificationService) *BudgetHandler {
	return &BudgetHandler{
		db:            config.DB,
		notifications: ns,
	}
}

type createBudgetReq struct {
	Date            string         `json:"date"`
	ExpirationDate  string         `json:"expirationDate"`
	Price           float64        `json:"price"`
	InitialPayment  float64        `json:"initialPayment"`
	Status          string         `json:"status"`
	ApplicantName   string         `json:"applicantName"`
	PropertyAddress string         `json:"propertyAddress"`
	LineItems       datatypes.JSON `json:"lineItems"`
}

type updateBudgetReq struct {
	Date           *string         `json:"date"`
	ExpirationDate *string         `json:"expirationDate"`
	Price          *float64        `json:"price"`
	InitialPayment *float64        `json:"initialPayment"`
	Status         *string         `json:"status"`
	LineItems      *datatypes.JSON `json:"lineItems"`
}

type budgetWithWarning struct {
	models.Budget
	PermitExpirationStatus  string `json:"permitExpirationStatus,omitempty"`
	PermitExpirationMessage string `json:"permitExpirationMessage,omitempty"`
}

// CreateBudget creates a quote against an existing permit. The permit is
// looked up by property address; no permit means 404 and nothing persists.
func (h *BudgetHandler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	var req createBudgetReq
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Date == "" || req.Price == 0 || req.Status == "" ||
		req.ApplicantName == "" || req.PropertyAddress == "" {
		respondError(w, http.StatusBadRequest, "missing required fields")
		return
	}
	if !models.ValidBudgetStatus(req.Status) {
		respondError(w, http.StatusBadRequest, "unknown budget status: "+req.Status)
		return
	}

	var permit models.Permit
	err := h.db.Select(models.PermitSummaryColumns).
		Where("property_address = ?", req.PropertyAddress).First(&permit).Error
	if err != nil {
		respondError(w, http.StatusNotFound, "no permit exists for the given property address")
		return
	}

	budget := models.Budget{
		PropertyAddress: req.PropertyAddress,
		ApplicantName:   req.ApplicantName,
		Date:            req.Date,
		ExpirationDate:  req.ExpirationDate,
		Price:           req.Price,
		InitialPayment:  req.InitialPayment,
		Status:          req.Status,
		LineItems:       req.LineItems,
	}
	if err := h.db.Create(&budget).Error; err != nil {
		log.Printf("[BUDGET] create failed for %s: %v", req.PropertyAddress, err)
		respondError(w, http.StatusInternalServerError, "could not create budget")
		return
	}

	// Quoting against an expired or soon-to-expire permit is allowed, but
	// the verdict rides along so the office sees the warning.
	status, message := utils.EvaluateExpiration(permit.ExpirationDate, time.Now())
	respondData(w, http.StatusCreated, budgetWithWarning{
		Budget:                  budget,
		PermitExpirationStatus:  status,
		PermitExpirationMessage: message,
	})
}

// GetBudgets lists every budget.
func (h *BudgetHandler) GetBudgets(w http.ResponseWriter, r *http.Request) {
	var budgets []models.Budget
	if err := h.db.Order("created_at DESC").Find(&budgets).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not list budgets")
		return
	}
	respondData(w, http.StatusOK, budgets)
}

// GetBudgetByID returns one budget.
func (h *BudgetHandler) GetBudgetByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idBudget"]

	var budget models.Budget
	if err := h.db.First(&budget, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "budget not found")
		return
	}
	respondData(w, http.StatusOK, budget)
}

// UpdateBudget applies edits. Moving the status to approved creates the one
// work order for this budget; budget save and work creation are separate
// writes, so a work-creation failure leaves the approved budget in place
// and is reported, not rolled back.
func (h *BudgetHandler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idBudget"]

	var req updateBudgetReq
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Date == nil && req.ExpirationDate == nil && req.Price == nil &&
		req.InitialPayment == nil && req.Status == nil && req.LineItems == nil {
		respondError(w, http.StatusBadRequest, "no fields to update")
		return
	}
	if req.Status != nil && !models.ValidBudgetStatus(*req.Status) {
		respondError(w, http.StatusBadRequest, "unknown budget status: "+*req.Status)
		return
	}

	var budget models.Budget
	if err := h.db.First(&budget, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "budget not found")
		return
	}

	updates := map[string]interface{}{}
	if req.Date != nil {
		updates["date"] = *req.Date
	}
	if req.ExpirationDate != nil {
		updates["expiration_date"] = *req.ExpirationDate
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.InitialPayment != nil {
		updates["initial_payment"] = *req.InitialPayment
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.LineItems != nil {
		updates["line_items"] = *req.LineItems
	}
	if err := h.db.Model(&budget).Updates(updates).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not update budget")
		return
	}

	becameApproved := req.Status != nil && *req.Status == models.BudgetStatusApproved
	if becameApproved {
		if err := h.createWorkForBudget(&budget); err != nil {
			log.Printf("[BUDGET] work creation for approved budget %s failed: %v", budget.ID, err)
			respondError(w, http.StatusInternalServerError,
				"budget approved but the work order could not be created")
			return
		}
	}

	if err := h.db.First(&budget, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not reload budget")
		return
	}
	respondData(w, http.StatusOK, budget)
}

// createWorkForBudget creates the work order for an approved budget unless
// one already exists (approving twice must not spawn a second work).
func (h *BudgetHandler) createWorkForBudget(budget *models.Budget) error {
	var count int64
	if err := h.db.Model(&models.Work{}).Where("budget_id = ?", budget.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	budgetID := budget.ID
	work := models.Work{
		PropertyAddress: budget.PropertyAddress,
		BudgetID:        &budgetID,
		Status:          models.WorkStatusPending,
	}
	if err := h.db.Create(&work).Error; err != nil {
		return err
	}

	log.Printf("[BUDGET] budget %s approved, work %s created", budget.ID, work.ID)
	h.notifications.NotifyRole(models.RoleOwner, nil, models.NotificationTypeAlert,
		"Budget approved",
		"Budget for "+budget.PropertyAddress+" was approved and a work order was created.",
		&work.ID)
	return nil
}

// UploadBudgetInvoice stores the client's payment invoice against a
// budget. Multipart form with an "invoice" file.
func (h *BudgetHandler) UploadBudgetInvoice(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idBudget"]

	var budget models.Budget
	if err := h.db.First(&budget, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "budget not found")
		return
	}

	if err := r.ParseMultipartForm(20 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
		return
	}
	data, _, err := readFormFile(r, "invoice")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invoice file is required")
		return
	}

	if err := h.db.Model(&budget).Update("payment_invoice", data).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not store invoice")
		return
	}
	respondMessage(w, http.StatusOK, "payment invoice stored", nil)
}

// GetBudgetInvoice streams the stored payment invoice inline. Binary
// endpoint; errors are plain text.
func (h *BudgetHandler) GetBudgetInvoice(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idBudget"]

	var budget models.Budget
	err := h.db.Select("id", "payment_invoice").First(&budget, "id = ?", id).Error
	if err != nil || len(budget.PaymentInvoice) == 0 {
		http.Error(w, "invoice not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="invoice_`+id+`.pdf"`)
	if _, err := w.Write(budget.PaymentInvoice); err != nil {
		log.Printf("[BUDGET] streaming invoice for %s failed: %v", id, err)
	}
}

// DeleteBudget removes a budget.
func (h *BudgetHandler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idBudget"]

	res := h.db.Delete(&models.Budget{}, "id = ?", id)
	if res.Error != nil {
		respondError(w, http.StatusInternalServerError, "could not delete budget")
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, "budget not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
