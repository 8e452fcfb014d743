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

// WorkHandler manages field work orders and their progress photos.
type WorkHandler struct {
	db            *gorm.DB
	notifications *NotificationService
}

// NewWorkHandler creates a new work handler
func NewWorkHandler(ns *NotificationService) *WorkHandler {
	return &WorkHandler{
		db:            config.DB,
		notifications: ns,
	}
}

// GetWorks lists all work orders with their budget and assigned worker.
func (h *WorkHandler) GetWorks(w http.ResponseWriter, r *http.Request) {
	var works []models.Work
	q := h.db.Preload("Budget").Preload("Staff").Order("created_at DESC")
	if status := r.URL.Query().Get("status"); status != "" {
		if !models.ValidWorkStatus(status) {
			respondError(w, http.StatusBadRequest, "unknown work status: "+status)
			return
		}
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&works).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not list works")
		return
	}
	respondData(w, http.StatusOK, works)
}

// GetWorkByID returns one work order with everything hanging off it.
func (h *WorkHandler) GetWorkByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idWork"]

	var work models.Work
	err := h.db.
		Preload("Budget").
		Preload("Staff").
		Preload("Inspections", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&work, "id = ?", id).Error
	if err != nil {
		respondError(w, http.StatusNotFound, "work not found")
		return
	}

	// Photos ride along as metadata only; the bytes stream from their own
	// endpoint.
	if err := h.db.Select("id", "work_id", "stage", "mime_type", "comment", "created_at").
		Where("work_id = ?", work.ID).Order("created_at ASC").
		Find(&work.Images).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not load work images")
		return
	}
	respondData(w, http.StatusOK, work)
}

type updateWorkReq struct {
	Status    *string    `json:"status"`
	StaffID   *uuid.UUID `json:"staffId"`
	StartDate *string    `json:"startDate"`
	Notes     *string    `json:"notes"`
}

// UpdateWork applies status changes, worker assignment, and scheduling
// edits. Assigning a worker moves a pending work to assigned and notifies
// the worker.
func (h *WorkHandler) UpdateWork(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idWork"]

	var req updateWorkReq
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Status == nil && req.StaffID == nil && req.StartDate == nil && req.Notes == nil {
		respondError(w, http.StatusBadRequest, "no fields to update")
		return
	}
	if req.Status != nil && !models.ValidWorkStatus(*req.Status) {
		respondError(w, http.StatusBadRequest, "unknown work status: "+*req.Status)
		return
	}

	var work models.Work
	if err := h.db.First(&work, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "work not found")
		return
	}

	updates := map[string]interface{}{}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.StaffID != nil {
		var staff models.Staff
		if err := h.db.First(&staff, "id = ? AND is_active = ?", *req.StaffID, true).Error; err != nil {
			respondError(w, http.StatusNotFound, "staff member not found")
			return
		}
		updates["staff_id"] = *req.StaffID
		if req.Status == nil && work.Status == models.WorkStatusPending {
			updates["status"] = models.WorkStatusAssigned
		}
	}
	if req.StartDate != nil {
		updates["start_date"] = *req.StartDate
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if err := h.db.Model(&work).Updates(updates).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not update work")
		return
	}

	if req.StaffID != nil {
		workID := work.ID
		if _, err := h.notifications.Notify(*req.StaffID, nil, models.NotificationTypeAlert,
			"Work assigned",
			"You were assigned to the installation at "+work.PropertyAddress+".",
			&workID); err != nil {
			log.Printf("[WORK] assignment notification for %s failed: %v", work.ID, err)
		}
	}
	if req.Status != nil && *req.Status != work.Status {
		log.Printf("[WORK] %s moved %s -> %s", work.ID, work.Status, *req.Status)
	}

	if err := h.db.Preload("Budget").Preload("Staff").First(&work, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not reload work")
		return
	}
	respondData(w, http.StatusOK, work)
}

// DeleteWork removes a work order.
func (h *WorkHandler) DeleteWork(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idWork"]

	res := h.db.Delete(&models.Work{}, "id = ?", id)
	if res.Error != nil {
		respondError(w, http.StatusInternalServerError, "could not delete work")
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, "work not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddWorkImage attaches a progress photo to a work. Multipart form with an
// "image" file, a "stage" value, and an optional "comment".
func (h *WorkHandler) AddWorkImage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idWork"]

	var work models.Work
	if err := h.db.Select("id").First(&work, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "work not found")
		return
	}

	if err := r.ParseMultipartForm(20 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
		return
	}
	stage := r.FormValue("stage")
	if !models.ValidImageStage(stage) {
		respondError(w, http.StatusBadRequest, "unknown image stage: "+stage)
		return
	}
	data, header, err := readFormFile(r, "image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "image file is required")
		return
	}

	image := models.WorkImage{
		WorkID:    work.ID,
		Stage:     stage,
		ImageData: data,
		MimeType:  header.Header.Get("Content-Type"),
		Comment:   r.FormValue("comment"),
	}
	if err := h.db.Create(&image).Error; err != nil {
		log.Printf("[WORK] image upload for %s failed: %v", work.ID, err)
		respondError(w, http.StatusInternalServerError, "could not store image")
		return
	}
	respondData(w, http.StatusCreated, image)
}

// GetWorkImage streams one photo's bytes.
func (h *WorkHandler) GetWorkImage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var image models.WorkImage
	err := h.db.First(&image, "id = ? AND work_id = ?", vars["idImage"], vars["idWork"]).Error
	if err != nil || len(image.ImageData) == 0 {
		http.Error(w, "image not found", http.StatusNotFound)
		return
	}

	contentType := image.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	if _, err := w.Write(image.ImageData); err != nil {
		log.Printf("[WORK] streaming image %s failed: %v", image.ID, err)
	}
}

// DeleteWorkImage removes a photo.
func (h *WorkHandler) DeleteWorkImage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	res := h.db.Delete(&models.WorkImage{}, "id = ? AND work_id = ?", vars["idImage"], vars["idWork"])
	if res.Error != nil {
		respondError(w, http.StatusInternalServerError, "could not delete image")
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, "image not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
