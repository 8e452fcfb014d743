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

// ReceiptHandler files scanned proof documents against other records.
type ReceiptHandler struct {
	db *gorm.DB
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler() *ReceiptHandler {
	return &ReceiptHandler{
		db: config.DB,
	}
}

// CreateReceipt stores a receipt. Multipart form: "file" plus
// relatedModel, relatedId, type, and optional notes fields.
func (h *ReceiptHandler) CreateReceipt(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(20 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
		return
	}

	relatedModel := r.FormValue("relatedModel")
	if !models.ValidReceiptRelation(relatedModel) {
		respondError(w, http.StatusBadRequest, "unknown relatedModel: "+relatedModel)
		return
	}
	relatedID, err := uuid.Parse(r.FormValue("relatedId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "relatedId must be a UUID")
		return
	}
	receiptType := r.FormValue("type")
	if receiptType == "" {
		respondError(w, http.StatusBadRequest, "type is required")
		return
	}

	data, header, err := readFormFile(r, "file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "receipt file is required")
		return
	}

	receipt := models.Receipt{
		RelatedModel: relatedModel,
		RelatedID:    relatedID,
		Type:         receiptType,
		Notes:        r.FormValue("notes"),
		FileName:     header.Filename,
		MimeType:     header.Header.Get("Content-Type"),
		PdfData:      data,
	}
	if err := h.db.Create(&receipt).Error; err != nil {
		log.Printf("[RECEIPT] create failed for %s %s: %v", relatedModel, relatedID, err)
		respondError(w, http.StatusInternalServerError, "could not store receipt")
		return
	}
	respondData(w, http.StatusCreated, receipt)
}

// GetReceiptsByRelated lists receipts filed against one record, without
// blobs.
func (h *ReceiptHandler) GetReceiptsByRelated(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	relatedModel := vars["relatedModel"]
	if !models.ValidReceiptRelation(relatedModel) {
		respondError(w, http.StatusBadRequest, "unknown relatedModel: "+relatedModel)
		return
	}

	var receipts []models.Receipt
	err := h.db.Select("id", "related_model", "related_id", "type", "notes",
		"file_name", "mime_type", "created_at", "updated_at").
		Where("related_model = ? AND related_id = ?", relatedModel, vars["relatedId"]).
		Order("created_at DESC").
		Find(&receipts).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not list receipts")
		return
	}
	respondData(w, http.StatusOK, receipts)
}

// GetReceiptFile streams the stored document inline. Binary endpoint;
// errors are plain text.
func (h *ReceiptHandler) GetReceiptFile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idReceipt"]

	var receipt models.Receipt
	if err := h.db.First(&receipt, "id = ?", id).Error; err != nil || len(receipt.PdfData) == 0 {
		http.Error(w, "receipt not found", http.StatusNotFound)
		return
	}

	contentType := receipt.MimeType
	if contentType == "" {
		contentType = "application/pdf"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `inline; filename="`+receipt.FileName+`"`)
	if _, err := w.Write(receipt.PdfData); err != nil {
		log.Printf("[RECEIPT] streaming %s failed: %v", receipt.ID, err)
	}
}

// DeleteReceipt removes a receipt.
func (h *ReceiptHandler) DeleteReceipt(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idReceipt"]

	res := h.db.Delete(&models.Receipt{}, "id = ?", id)
	if res.Error != nil {
		respondError(w, http.StatusInternalServerError, "could not delete receipt")
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, "receipt not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
