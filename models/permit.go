package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Permit is the county installation permit a project starts from. The scanned
// permit PDF and any optional documentation are stored as blobs and are never
// serialized into JSON responses; list endpoints must also keep them out of
// the SELECT (see PermitSummaryColumns).
type Permit struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"idPermit"`
	PermitNumber      string    `gorm:"index" json:"permitNumber,omitempty"`
	ApplicationNumber string    `json:"applicationNumber,omitempty"`

	ApplicantName  string `gorm:"not null" json:"applicantName"`
	ApplicantEmail string `json:"applicantEmail,omitempty"`
	ApplicantPhone string `json:"applicantPhone,omitempty"`
	DocumentNumber string `json:"documentNumber,omitempty"`

	PropertyAddress string `gorm:"index;not null" json:"propertyAddress"`
	Lot             string `json:"lot,omitempty"`
	Block           string `json:"block,omitempty"`
	PropertyID      string `json:"propertyId,omitempty"`

	ConstructionPermitFor string `json:"constructionPermitFor,omitempty"`
	SystemType            string `json:"systemType,omitempty"`
	Configuration         string `json:"configuration,omitempty"`
	LocationBenchmark     string `json:"locationBenchmark,omitempty"`
	DrainfieldDepth       string `json:"drainfieldDepth,omitempty"`
	DosingTankCapacity    string `json:"dosingTankCapacity,omitempty"`
	GpdCapacity           string `json:"gpdCapacity,omitempty"`
	ExcavationRequired    string `json:"excavationRequired,omitempty"`
	SquareFeetSystem      string `json:"squareFeetSystem,omitempty"`
	Pump                  string `json:"pump,omitempty"`
	Other                 string `json:"other,omitempty"`

	// Stored as the raw YYYY-MM-DD string the county form carries; the
	// expiration evaluator tolerates malformed values instead of rejecting
	// the record.
	ExpirationDate string `gorm:"size:10" json:"expirationDate,omitempty"`

	PdfData          []byte         `gorm:"type:bytea" json:"-"`
	OptionalDocs     []byte         `gorm:"type:bytea" json:"-"`
	OptionalDocNames pq.StringArray `gorm:"type:text[]" json:"optionalDocNames,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// PermitSummaryColumns lists every Permit column except the two blobs.
// List endpoints select exactly these so pdf_data never rides along.
var PermitSummaryColumns = []string{
	"id", "permit_number", "application_number", "applicant_name",
	"applicant_email", "applicant_phone", "document_number",
	"property_address", "lot", "block", "property_id",
	"construction_permit_for", "system_type", "configuration",
	"location_benchmark", "drainfield_depth", "dosing_tank_capacity",
	"gpd_capacity", "excavation_required", "square_feet_system", "pump",
	"other", "expiration_date", "optional_doc_names",
	"created_at", "updated_at",
}

// PermitContact is the trimmed contact projection used by the contact list.
type PermitContact struct {
	ApplicantName   string `json:"applicantName"`
	ApplicantEmail  string `json:"applicantEmail"`
	ApplicantPhone  string `json:"applicantPhone"`
	PropertyAddress string `json:"propertyAddress"`
}
