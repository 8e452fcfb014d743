package handlers

import (
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"zurcher.dev/api/config"
	"zurcher.dev/api/models"
	"zurcher.dev/api/utils"
)

// PermitHandler handles permit intake and retrieval
type PermitHandler struct {
	db *gorm.DB
}

// NewPermitHandler creates a new permit handler
func NewPermitHandler() *PermitHandler {
	return &PermitHandler{
		db: config.DB,
	}
}

// permitWithExpiration decorates a permit with the evaluator's verdict.
// The same evaluation runs at create and at read time, so both paths agree
// for a given (expirationDate, today) pair.
type permitWithExpiration struct {
	models.Permit
	ExpirationStatus  string `json:"expirationStatus"`
	ExpirationMessage string `json:"expirationMessage,omitempty"`
}

func decorateExpiration(p models.Permit) permitWithExpiration {
	status, message := utils.EvaluateExpiration(p.ExpirationDate, time.Now())
	return permitWithExpiration{Permit: p, ExpirationStatus: status, ExpirationMessage: message}
}

func readFormFile(r *http.Request, field string) ([]byte, *multipart.FileHeader, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, err
	}
	return data, header, nil
}

// CreatePermit ingests a county permit: multipart fields plus the scanned
// permit PDF (pdfData) and optional extra documentation (optionalDocs).
func (h *PermitHandler) CreatePermit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(50 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
		return
	}

	permit := models.Permit{
		PermitNumber:          r.FormValue("permitNumber"),
		ApplicationNumber:     r.FormValue("applicationNumber"),
		ApplicantName:         r.FormValue("applicantName"),
		ApplicantEmail:        r.FormValue("applicantEmail"),
		ApplicantPhone:        r.FormValue("applicantPhone"),
		DocumentNumber:        r.FormValue("documentNumber"),
		PropertyAddress:       r.FormValue("propertyAddress"),
		Lot:                   r.FormValue("lot"),
		Block:                 r.FormValue("block"),
		PropertyID:            r.FormValue("propertyId"),
		ConstructionPermitFor: r.FormValue("constructionPermitFor"),
		SystemType:            r.FormValue("systemType"),
		Configuration:         r.FormValue("configuration"),
		LocationBenchmark:     r.FormValue("locationBenchmark"),
		DrainfieldDepth:       r.FormValue("drainfieldDepth"),
		DosingTankCapacity:    r.FormValue("dosingTankCapacity"),
		GpdCapacity:           r.FormValue("gpdCapacity"),
		ExcavationRequired:    r.FormValue("excavationRequired"),
		SquareFeetSystem:      r.FormValue("squareFeetSystem"),
		Pump:                  r.FormValue("pump"),
		Other:                 r.FormValue("other"),
		ExpirationDate:        r.FormValue("expirationDate"),
	}

	if permit.ApplicantName == "" || permit.PropertyAddress == "" {
		respondError(w, http.StatusBadRequest, "applicantName and propertyAddress are required")
		return
	}

	if data, _, err := readFormFile(r, "pdfData"); err == nil {
		permit.PdfData = data
	}
	if data, header, err := readFormFile(r, "optionalDocs"); err == nil {
		permit.OptionalDocs = data
		permit.OptionalDocNames = append(permit.OptionalDocNames, header.Filename)
	}

	if err := h.db.Create(&permit).Error; err != nil {
		log.Printf("[PERMIT] create failed for %s: %v", permit.PropertyAddress, err)
		respondError(w, http.StatusInternalServerError, "could not create permit")
		return
	}

	decorated := decorateExpiration(permit)
	if decorated.ExpirationStatus != utils.ExpirationValid {
		log.Printf("[PERMIT] %s created with expiration status %s", permit.ID, decorated.ExpirationStatus)
	}
	respondData(w, http.StatusCreated, decorated)
}

// GetPermits lists permits without their blob columns.
func (h *PermitHandler) GetPermits(w http.ResponseWriter, r *http.Request) {
	var permits []models.Permit
	if err := h.db.Select(models.PermitSummaryColumns).Find(&permits).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not list permits")
		return
	}
	respondData(w, http.StatusOK, permits)
}

// GetPermitByID returns one permit together with its expiration verdict.
func (h *PermitHandler) GetPermitByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idPermit"]

	var permit models.Permit
	if err := h.db.Select(models.PermitSummaryColumns).First(&permit, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "permit not found")
		return
	}
	respondData(w, http.StatusOK, decorateExpiration(permit))
}

// permitUpdatableFields names the columns admins may edit after intake.
var permitUpdatableFields = []string{
	"permitNumber", "applicationNumber", "applicantName", "applicantEmail",
	"applicantPhone", "documentNumber", "lot", "block", "propertyId",
	"constructionPermitFor", "systemType", "configuration",
	"locationBenchmark", "drainfieldDepth", "dosingTankCapacity",
	"gpdCapacity", "excavationRequired", "squareFeetSystem", "pump",
	"other", "expirationDate",
}

var permitFieldColumns = map[string]string{
	"permitNumber":          "permit_number",
	"applicationNumber":     "application_number",
	"applicantName":         "applicant_name",
	"applicantEmail":        "applicant_email",
	"applicantPhone":        "applicant_phone",
	"documentNumber":        "document_number",
	"lot":                   "lot",
	"block":                 "block",
	"propertyId":            "property_id",
	"constructionPermitFor": "construction_permit_for",
	"systemType":            "system_type",
	"configuration":         "configuration",
	"locationBenchmark":     "location_benchmark",
	"drainfieldDepth":       "drainfield_depth",
	"dosingTankCapacity":    "dosing_tank_capacity",
	"gpdCapacity":           "gpd_capacity",
	"excavationRequired":    "excavation_required",
	"squareFeetSystem":      "square_feet_system",
	"pump":                  "pump",
	"other":                 "other",
	"expirationDate":        "expiration_date",
}

// UpdatePermit applies admin edits. Accepts either a JSON body or a
// multipart form carrying a replacement pdfData file alongside the fields.
func (h *PermitHandler) UpdatePermit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idPermit"]

	var permit models.Permit
	if err := h.db.First(&permit, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "permit not found")
		return
	}

	updates := map[string]interface{}{}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(50 << 20); err != nil {
			respondError(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
			return
		}
		for _, field := range permitUpdatableFields {
			if vals, ok := r.MultipartForm.Value[field]; ok && len(vals) > 0 {
				updates[permitFieldColumns[field]] = vals[0]
			}
		}
		if data, _, err := readFormFile(r, "pdfData"); err == nil {
			updates["pdf_data"] = data
		}
	} else {
		var body map[string]interface{}
		if err := decodeJSON(r, &body); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		for _, field := range permitUpdatableFields {
			if v, ok := body[field]; ok {
				updates[permitFieldColumns[field]] = v
			}
		}
	}

	if len(updates) == 0 {
		respondError(w, http.StatusBadRequest, "no fields to update")
		return
	}
	if err := h.db.Model(&permit).Updates(updates).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not update permit")
		return
	}
	if err := h.db.Select(models.PermitSummaryColumns).First(&permit, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not reload permit")
		return
	}
	respondData(w, http.StatusOK, decorateExpiration(permit))
}

// DownloadPermitPdf serves the main permit PDF as an attachment.
// PDF endpoints answer errors in plain text, not JSON.
func (h *PermitHandler) DownloadPermitPdf(w http.ResponseWriter, r *http.Request) {
	h.servePdf(w, r, "pdf_data", "attachment", "permit")
}

// GetPermitPdfInline serves the main permit PDF for in-browser viewing.
func (h *PermitHandler) GetPermitPdfInline(w http.ResponseWriter, r *http.Request) {
	h.servePdf(w, r, "pdf_data", "inline", "permit")
}

// GetPermitOptionalDocInline serves the optional documentation blob inline.
func (h *PermitHandler) GetPermitOptionalDocInline(w http.ResponseWriter, r *http.Request) {
	h.servePdf(w, r, "optional_docs", "inline", "optional")
}

func (h *PermitHandler) servePdf(w http.ResponseWriter, r *http.Request, column, disposition, prefix string) {
	id := mux.Vars(r)["idPermit"]

	var permit models.Permit
	if err := h.db.Select("id", column).First(&permit, "id = ?", id).Error; err != nil {
		http.Error(w, "PDF not found", http.StatusNotFound)
		return
	}
	data := permit.PdfData
	if column == "optional_docs" {
		data = permit.OptionalDocs
	}
	if len(data) == 0 {
		http.Error(w, "PDF not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", disposition+`; filename="`+prefix+`_`+id+`.pdf"`)
	if _, err := w.Write(data); err != nil {
		log.Printf("[PERMIT] streaming %s for %s failed: %v", column, id, err)
	}
}

// GetContactList returns applicant contact info, optionally for one permit.
func (h *PermitHandler) GetContactList(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idPermit"]

	q := h.db.Model(&models.Permit{})
	if id != "" {
		q = q.Where("id = ?", id)
	}
	var contacts []models.PermitContact
	if err := q.Select("applicant_name", "applicant_email", "applicant_phone", "property_address").
		Scan(&contacts).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not list contacts")
		return
	}
	if len(contacts) == 0 {
		respondError(w, http.StatusNotFound, "no contacts found")
		return
	}
	respondMessage(w, http.StatusOK, "contact list retrieved", contacts)
}

type permitCheckPayload struct {
	Exists    bool                  `json:"exists"`
	HasBudget bool                  `json:"hasBudget"`
	Permit    *permitWithExpiration `json:"permit,omitempty"`
}

// CheckPermitByPropertyAddress tells the intake form whether a permit is
// already on file for an address and whether it has budgets yet.
func (h *PermitHandler) CheckPermitByPropertyAddress(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("propertyAddress")
	if address == "" {
		respondError(w, http.StatusBadRequest, "propertyAddress query parameter is required")
		return
	}

	var permit models.Permit
	err := h.db.Select(models.PermitSummaryColumns).
		Where("property_address = ?", address).First(&permit).Error
	if err != nil {
		respondData(w, http.StatusOK, permitCheckPayload{Exists: false})
		return
	}

	var budgetCount int64
	if err := h.db.Model(&models.Budget{}).
		Where("property_address = ?", address).Count(&budgetCount).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not check budgets")
		return
	}

	decorated := decorateExpiration(permit)
	respondData(w, http.StatusOK, permitCheckPayload{
		Exists:    true,
		HasBudget: budgetCount > 0,
		Permit:    &decorated,
	})
}
