package handlers

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"zurcher.dev/api/config"
	"zurcher.dev/api/models"
)

// MaterialHandler manages procurement runs and their line items.
type MaterialHandler struct {
	db    *gorm.DB
	files FileStore
}

// NewMaterialHandler creates a new material handler
func NewMaterialHandler(files FileStore) *MaterialHandler {
	return &MaterialHandler{
		db:    config.DB,
		files: files,
	}
}

type materialItemReq struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Cost     float64 `json:"cost"`
	Comment  string  `json:"comment"`
}

type createMaterialSetReq struct {
	WorkID       uuid.UUID         `json:"workId"`
	StaffID      *uuid.UUID        `json:"staffId"`
	PurchaseDate string            `json:"purchaseDate"`
	TotalCost    float64           `json:"totalCost"`
	Materials    []materialItemReq `json:"materials"`
}

// CreateMaterialSet books one procurement run with its line items.
func (h *MaterialHandler) CreateMaterialSet(w http.ResponseWriter, r *http.Request) {
	var req createMaterialSetReq
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.WorkID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "workId is required")
		return
	}
	for _, item := range req.Materials {
		if item.Name == "" || item.Quantity <= 0 {
			respondError(w, http.StatusBadRequest, "each material needs a name and a positive quantity")
			return
		}
	}

	var work models.Work
	if err := h.db.Select("id").First(&work, "id = ?", req.WorkID).Error; err != nil {
		respondError(w, http.StatusNotFound, "work not found")
		return
	}

	set := models.MaterialSet{
		WorkID:       req.WorkID,
		StaffID:      req.StaffID,
		PurchaseDate: req.PurchaseDate,
		TotalCost:    req.TotalCost,
	}
	for _, item := range req.Materials {
		set.Materials = append(set.Materials, models.Material{
			Name:     item.Name,
			Quantity: item.Quantity,
			Cost:     item.Cost,
			Comment:  item.Comment,
		})
	}
	if err := h.db.Create(&set).Error; err != nil {
		log.Printf("[MATERIAL] create failed for work %s: %v", req.WorkID, err)
		respondError(w, http.StatusInternalServerError, "could not create material set")
		return
	}
	respondData(w, http.StatusCreated, set)
}

// UploadMaterialInvoice attaches the supplier invoice to a set. Multipart
// with an "invoice" file.
func (h *MaterialHandler) UploadMaterialInvoice(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idMaterialSet"]

	var set models.MaterialSet
	if err := h.db.First(&set, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "material set not found")
		return
	}

	if err := r.ParseMultipartForm(20 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
		return
	}
	data, header, err := readFormFile(r, "invoice")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invoice file is required")
		return
	}

	url, _, err := h.files.Save(r.Context(), "materials", header.Filename, data,
		header.Header.Get("Content-Type"))
	if err != nil {
		log.Printf("[MATERIAL] invoice upload for %s failed: %v", set.ID, err)
		respondError(w, http.StatusInternalServerError, "could not store invoice")
		return
	}

	if err := h.db.Model(&set).Update("invoice_url", url).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not update material set")
		return
	}
	set.InvoiceURL = url
	respondData(w, http.StatusOK, set)
}

// GetMaterialSetsByWork lists a work's procurement runs with line items.
func (h *MaterialHandler) GetMaterialSetsByWork(w http.ResponseWriter, r *http.Request) {
	workID := mux.Vars(r)["idWork"]

	var sets []models.MaterialSet
	err := h.db.Preload("Materials").
		Where("work_id = ?", workID).Order("created_at ASC").Find(&sets).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not list material sets")
		return
	}
	respondData(w, http.StatusOK, sets)
}

// GetMaterialSetByID returns one set with its items.
func (h *MaterialHandler) GetMaterialSetByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idMaterialSet"]

	var set models.MaterialSet
	if err := h.db.Preload("Materials").First(&set, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "material set not found")
		return
	}
	respondData(w, http.StatusOK, set)
}

type updateMaterialSetReq struct {
	PurchaseDate *string  `json:"purchaseDate"`
	TotalCost    *float64 `json:"totalCost"`
}

// UpdateMaterialSet edits the run-level fields.
func (h *MaterialHandler) UpdateMaterialSet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idMaterialSet"]

	var req updateMaterialSetReq
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.PurchaseDate == nil && req.TotalCost == nil {
		respondError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	var set models.MaterialSet
	if err := h.db.First(&set, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "material set not found")
		return
	}

	updates := map[string]interface{}{}
	if req.PurchaseDate != nil {
		updates["purchase_date"] = *req.PurchaseDate
	}
	if req.TotalCost != nil {
		updates["total_cost"] = *req.TotalCost
	}
	if err := h.db.Model(&set).Updates(updates).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not update material set")
		return
	}
	if err := h.db.Preload("Materials").First(&set, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not reload material set")
		return
	}
	respondData(w, http.StatusOK, set)
}

// DeleteMaterialSet removes a run and its items.
func (h *MaterialHandler) DeleteMaterialSet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idMaterialSet"]

	var set models.MaterialSet
	if err := h.db.First(&set, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "material set not found")
		return
	}
	if err := h.db.Where("material_set_id = ?", set.ID).Delete(&models.Material{}).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not delete materials")
		return
	}
	if err := h.db.Delete(&set).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not delete material set")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddMaterial appends one line item to an existing set.
func (h *MaterialHandler) AddMaterial(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idMaterialSet"]

	var req materialItemReq
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Name == "" || req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "name and a positive quantity are required")
		return
	}

	var set models.MaterialSet
	if err := h.db.Select("id").First(&set, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "material set not found")
		return
	}

	material := models.Material{
		MaterialSetID: set.ID,
		Name:          req.Name,
		Quantity:      req.Quantity,
		Cost:          req.Cost,
		Comment:       req.Comment,
	}
	if err := h.db.Create(&material).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not add material")
		return
	}
	respondData(w, http.StatusCreated, material)
}

// DeleteMaterial removes one line item.
func (h *MaterialHandler) DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	res := h.db.Delete(&models.Material{}, "id = ? AND material_set_id = ?",
		vars["idMaterial"], vars["idMaterialSet"])
	if res.Error != nil {
		respondError(w, http.StatusInternalServerError, "could not delete material")
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, "material not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
