package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"zurcher.dev/api/config"
	"zurcher.dev/api/models"
)

// InspectionHandler drives the county inspection workflow. Each endpoint is
// one human action; the transition table in models decides whether the
// action is legal from the inspection's current status, and an out-of-order
// request gets a 400 with nothing persisted.
type InspectionHandler struct {
	db            *gorm.DB
	files         FileStore
	notifications *NotificationService
}

// NewInspectionHandler creates a new inspection handler
func NewInspectionHandler(files FileStore, ns *NotificationService) *InspectionHandler {
	return &InspectionHandler{
		db:            config.DB,
		files:         files,
		notifications: ns,
	}
}

type createInspectionReq struct {
	Type  string `json:"type"`
	Notes string `json:"notes"`
}

// CreateInspection opens a new inspection pass for a work. Type initial
// enters at pending_request, final at pending_final_request.
func (h *InspectionHandler) CreateInspection(w http.ResponseWriter, r *http.Request) {
	workID := mux.Vars(r)["idWork"]

	var req createInspectionReq
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	entry := models.InitialProcessStatus(req.Type)
	if entry == "" {
		respondError(w, http.StatusBadRequest, "type must be initial or final")
		return
	}

	var work models.Work
	if err := h.db.First(&work, "id = ?", workID).Error; err != nil {
		respondError(w, http.StatusNotFound, "work not found")
		return
	}

	// A work carries at most one open inspection at a time.
	var open int64
	err := h.db.Model(&models.Inspection{}).
		Where("work_id = ? AND process_status <> ?", work.ID, models.ProcessResultApproved).
		Count(&open).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not check open inspections")
		return
	}
	if open > 0 {
		respondError(w, http.StatusBadRequest, "work already has an inspection in progress")
		return
	}

	pending := models.FinalStatusPending
	inspection := models.Inspection{
		WorkID:        work.ID,
		Type:          req.Type,
		ProcessStatus: entry,
		FinalStatus:   &pending,
		Notes:         req.Notes,
	}
	if err := h.db.Create(&inspection).Error; err != nil {
		log.Printf("[INSPECTION] create failed for work %s: %v", work.ID, err)
		respondError(w, http.StatusInternalServerError, "could not create inspection")
		return
	}

	workStatus := models.WorkStatusFirstInspectionPending
	if req.Type == models.InspectionTypeFinal {
		workStatus = models.WorkStatusFinalInspectionPending
	}
	if err := h.db.Model(&work).Update("status", workStatus).Error; err != nil {
		log.Printf("[INSPECTION] work %s status sync failed: %v", work.ID, err)
	}

	respondData(w, http.StatusCreated, inspection)
}

// GetInspectionsByWork lists a work's inspections, oldest first.
func (h *InspectionHandler) GetInspectionsByWork(w http.ResponseWriter, r *http.Request) {
	workID := mux.Vars(r)["idWork"]

	var inspections []models.Inspection
	err := h.db.Where("work_id = ?", workID).Order("created_at ASC").Find(&inspections).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not list inspections")
		return
	}
	respondData(w, http.StatusOK, inspections)
}

// GetInspectionByID returns one inspection.
func (h *InspectionHandler) GetInspectionByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idInspection"]

	var inspection models.Inspection
	if err := h.db.First(&inspection, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "inspection not found")
		return
	}
	respondData(w, http.StatusOK, inspection)
}

// loadForTransition fetches the inspection and checks the requested step is
// legal from its current status. A nil return means the response was
// already written.
func (h *InspectionHandler) loadForTransition(w http.ResponseWriter, r *http.Request, target string) *models.Inspection {
	id := mux.Vars(r)["idInspection"]

	var inspection models.Inspection
	if err := h.db.First(&inspection, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "inspection not found")
		return nil
	}
	if !models.CanTransition(inspection.ProcessStatus, target) {
		respondError(w, http.StatusBadRequest,
			"cannot move inspection from "+inspection.ProcessStatus+" to "+target)
		return nil
	}
	return &inspection
}

// applyTransition persists the status move plus the step's own fields and
// writes the response. It reports whether the move was committed so callers
// with follow-up side effects can bail out on failure.
func (h *InspectionHandler) applyTransition(w http.ResponseWriter, inspection *models.Inspection,
	target string, updates map[string]interface{}) bool {

	updates["process_status"] = target
	if err := h.db.Model(inspection).Updates(updates).Error; err != nil {
		log.Printf("[INSPECTION] %s -> %s failed for %s: %v",
			inspection.ProcessStatus, target, inspection.ID, err)
		respondError(w, http.StatusInternalServerError, "could not update inspection")
		return false
	}
	if err := h.db.First(inspection, "id = ?", inspection.ID).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not reload inspection")
		return false
	}
	respondData(w, http.StatusOK, inspection)
	return true
}

// uploadAttachment stores a multipart file under the inspection's folder.
// Returns ok=false with the response already written on failure; a missing
// file is only an error when required.
func (h *InspectionHandler) uploadAttachment(w http.ResponseWriter, r *http.Request,
	field string, required bool) (url, publicID, originalName string, ok bool) {

	if err := r.ParseMultipartForm(20 << 20); err != nil {
		if err == http.ErrNotMultipart && !required {
			return "", "", "", true
		}
		respondError(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
		return "", "", "", false
	}
	data, header, err := readFormFile(r, field)
	if err != nil {
		if required {
			respondError(w, http.StatusBadRequest, field+" file is required")
			return "", "", "", false
		}
		return "", "", "", true
	}

	url, publicID, err = h.files.Save(r.Context(), "inspections",
		header.Filename, data, header.Header.Get("Content-Type"))
	if err != nil {
		log.Printf("[INSPECTION] attachment upload failed: %v", err)
		respondError(w, http.StatusInternalServerError, "could not store attachment")
		return "", "", "", false
	}
	return url, publicID, header.Filename, true
}

// RequestToInspectors sends the case to the county inspectors. Works for
// both tracks; the target status depends on the inspection type.
func (h *InspectionHandler) RequestToInspectors(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idInspection"]

	var inspection models.Inspection
	if err := h.db.First(&inspection, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "inspection not found")
		return
	}
	target := models.ProcessRequestedToInspectors
	if inspection.Type == models.InspectionTypeFinal {
		target = models.ProcessFinalRequestedToInspector
	}
	if !models.CanTransition(inspection.ProcessStatus, target) {
		respondError(w, http.StatusBadRequest,
			"cannot move inspection from "+inspection.ProcessStatus+" to "+target)
		return
	}

	now := time.Now()
	h.applyTransition(w, &inspection, target, map[string]interface{}{
		"date_requested_to_inspectors": &now,
	})
}

type scheduleReceivedReq struct {
	InspectorScheduledDate string `json:"inspectorScheduledDate"`
}

// ScheduleReceived records the date the inspector committed to.
func (h *InspectionHandler) ScheduleReceived(w http.ResponseWriter, r *http.Request) {
	var req scheduleReceivedReq
	if err := decodeJSON(r, &req); err != nil || req.InspectorScheduledDate == "" {
		respondError(w, http.StatusBadRequest, "inspectorScheduledDate is required")
		return
	}

	inspection := h.loadForTransition(w, r, models.ProcessScheduleReceived)
	if inspection == nil {
		return
	}
	h.applyTransition(w, inspection, models.ProcessScheduleReceived, map[string]interface{}{
		"inspector_scheduled_date": req.InspectorScheduledDate,
	})
}

// DocumentSent records that the paperwork went out to the applicant for
// signature. Multipart with the "document" file.
func (h *InspectionHandler) DocumentSent(w http.ResponseWriter, r *http.Request) {
	inspection := h.loadForTransition(w, r, models.ProcessApplicantDocPending)
	if inspection == nil {
		return
	}
	url, publicID, _, ok := h.uploadAttachment(w, r, "document", true)
	if !ok {
		return
	}

	now := time.Now()
	h.applyTransition(w, inspection, models.ProcessApplicantDocPending, map[string]interface{}{
		"document_for_applicant_url":       url,
		"document_for_applicant_public_id": publicID,
		"date_document_sent_to_applicant":  &now,
	})
}

// SignedDocumentReceived stores the signed paperwork coming back.
func (h *InspectionHandler) SignedDocumentReceived(w http.ResponseWriter, r *http.Request) {
	inspection := h.loadForTransition(w, r, models.ProcessApplicantDocReceived)
	if inspection == nil {
		return
	}
	url, publicID, _, ok := h.uploadAttachment(w, r, "document", true)
	if !ok {
		return
	}

	now := time.Now()
	h.applyTransition(w, inspection, models.ProcessApplicantDocReceived, map[string]interface{}{
		"signed_document_from_applicant_url":       url,
		"signed_document_from_applicant_public_id": publicID,
		"date_signed_document_received":            &now,
	})
}

type inspectionPerformedReq struct {
	DateInspectionPerformed string `json:"dateInspectionPerformed"`
}

// InspectionPerformed marks the site visit done; the result is still out.
func (h *InspectionHandler) InspectionPerformed(w http.ResponseWriter, r *http.Request) {
	var req inspectionPerformedReq
	if err := decodeJSON(r, &req); err != nil || req.DateInspectionPerformed == "" {
		respondError(w, http.StatusBadRequest, "dateInspectionPerformed is required")
		return
	}

	inspection := h.loadForTransition(w, r, models.ProcessCompletedPendingResult)
	if inspection == nil {
		return
	}
	h.applyTransition(w, inspection, models.ProcessCompletedPendingResult, map[string]interface{}{
		"date_inspection_performed": req.DateInspectionPerformed,
	})
}

// workStatusForResult maps an inspection result onto the owning work.
func workStatusForResult(inspectionType string, approved bool) string {
	if inspectionType == models.InspectionTypeFinal {
		if approved {
			return models.WorkStatusFinalApproved
		}
		return models.WorkStatusFinalRejected
	}
	if approved {
		return models.WorkStatusApprovedInspection
	}
	return models.WorkStatusRejectedInspection
}

// RegisterResult records the county's verdict. Multipart: "approved"
// ("true"/"false") plus an optional "resultDocument" file. An approved
// result is terminal; a rejected one can later reopen into reinspection.
func (h *InspectionHandler) RegisterResult(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idInspection"]

	var inspection models.Inspection
	if err := h.db.First(&inspection, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "inspection not found")
		return
	}

	url, publicID, _, ok := h.uploadAttachment(w, r, "resultDocument", false)
	if !ok {
		return
	}

	var approved bool
	switch r.FormValue("approved") {
	case "true":
		approved = true
	case "false":
		approved = false
	default:
		respondError(w, http.StatusBadRequest, `approved must be "true" or "false"`)
		return
	}

	target := models.ProcessResultApproved
	finalStatus := models.FinalStatusApproved
	if !approved {
		target = models.ProcessResultRejected
		finalStatus = models.FinalStatusRejected
	}
	if !models.CanTransition(inspection.ProcessStatus, target) {
		respondError(w, http.StatusBadRequest,
			"cannot move inspection from "+inspection.ProcessStatus+" to "+target)
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"final_status":         finalStatus,
		"date_result_received": &now,
	}
	if url != "" {
		updates["result_document_url"] = url
		updates["result_document_public_id"] = publicID
	}
	if !h.applyTransition(w, &inspection, target, updates) {
		return
	}

	workStatus := workStatusForResult(inspection.Type, approved)
	if err := h.db.Model(&models.Work{}).
		Where("id = ?", inspection.WorkID).Update("status", workStatus).Error; err != nil {
		log.Printf("[INSPECTION] work %s status sync failed: %v", inspection.WorkID, err)
	}

	verdict := "approved"
	if !approved {
		verdict = "rejected"
	}
	workID := inspection.WorkID
	h.notifications.NotifyRole(models.RoleOwner, nil, models.NotificationTypeAlert,
		"Inspection "+verdict,
		"The "+inspection.Type+" inspection for work "+inspection.WorkID.String()+" was "+verdict+".",
		&workID)
}

// MarkCorrected records that the field crew fixed what the inspector
// flagged. Not a workflow transition; it gates reopening in the UI.
func (h *InspectionHandler) MarkCorrected(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idInspection"]

	var inspection models.Inspection
	if err := h.db.First(&inspection, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "inspection not found")
		return
	}
	if inspection.ProcessStatus != models.ProcessResultRejected {
		respondError(w, http.StatusBadRequest, "only a rejected inspection can be marked corrected")
		return
	}

	now := time.Now()
	err := h.db.Model(&inspection).Updates(map[string]interface{}{
		"worker_has_corrected":  true,
		"date_worker_corrected": &now,
	}).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not update inspection")
		return
	}
	inspection.WorkerHasCorrected = true
	inspection.DateWorkerCorrected = &now
	respondData(w, http.StatusOK, inspection)
}

// ReopenReinspection reopens a rejected inspection for another pass.
// Optional multipart "extraDocument" with supporting material; from here
// the case goes back through request-to-inspectors.
func (h *InspectionHandler) ReopenReinspection(w http.ResponseWriter, r *http.Request) {
	inspection := h.loadForTransition(w, r, models.ProcessReinspection)
	if inspection == nil {
		return
	}
	if !inspection.WorkerHasCorrected {
		respondError(w, http.StatusBadRequest, "work must be marked corrected before reinspection")
		return
	}

	updates := map[string]interface{}{}
	if url, publicID, name, ok := h.uploadAttachment(w, r, "extraDocument", false); !ok {
		return
	} else if url != "" {
		updates["reinspection_extra_document_url"] = url
		updates["reinspection_extra_document_public_id"] = publicID
		updates["reinspection_extra_document_original_name"] = name
	}
	h.applyTransition(w, inspection, models.ProcessReinspection, updates)
}

// FinalInvoiceReceived stores the inspector's invoice for the final pass.
func (h *InspectionHandler) FinalInvoiceReceived(w http.ResponseWriter, r *http.Request) {
	inspection := h.loadForTransition(w, r, models.ProcessFinalInvoiceReceived)
	if inspection == nil {
		return
	}
	url, publicID, _, ok := h.uploadAttachment(w, r, "invoice", true)
	if !ok {
		return
	}
	h.applyTransition(w, inspection, models.ProcessFinalInvoiceReceived, map[string]interface{}{
		"invoice_from_inspector_url":       url,
		"invoice_from_inspector_public_id": publicID,
	})
}

// InvoiceSentToClient records forwarding the invoice to the client.
func (h *InspectionHandler) InvoiceSentToClient(w http.ResponseWriter, r *http.Request) {
	inspection := h.loadForTransition(w, r, models.ProcessFinalInvoiceSentToClient)
	if inspection == nil {
		return
	}
	now := time.Now()
	h.applyTransition(w, inspection, models.ProcessFinalInvoiceSentToClient, map[string]interface{}{
		"date_invoice_sent_to_client": &now,
	})
}

// PaymentConfirmed stores the client's payment proof.
func (h *InspectionHandler) PaymentConfirmed(w http.ResponseWriter, r *http.Request) {
	inspection := h.loadForTransition(w, r, models.ProcessFinalPaymentConfirmed)
	if inspection == nil {
		return
	}
	url, publicID, _, ok := h.uploadAttachment(w, r, "paymentProof", true)
	if !ok {
		return
	}
	now := time.Now()
	h.applyTransition(w, inspection, models.ProcessFinalPaymentConfirmed, map[string]interface{}{
		"client_payment_proof_url":         url,
		"client_payment_proof_public_id":   publicID,
		"date_payment_confirmed_by_client": &now,
	})
}

// PaymentNotified records telling the inspector the invoice was paid; the
// county verdict is the only step left after this.
func (h *InspectionHandler) PaymentNotified(w http.ResponseWriter, r *http.Request) {
	inspection := h.loadForTransition(w, r, models.ProcessFinalPaymentNotified)
	if inspection == nil {
		return
	}
	now := time.Now()
	h.applyTransition(w, inspection, models.ProcessFinalPaymentNotified, map[string]interface{}{
		"date_payment_notified_to_inspector": &now,
	})
}
