package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Work statuses, in the order a job normally moves through the field.
const (
	WorkStatusPending                = "pending"
	WorkStatusAssigned               = "assigned"
	WorkStatusInProgress             = "inProgress"
	WorkStatusInstalled              = "installed"
	WorkStatusFirstInspectionPending = "firstInspectionPending"
	WorkStatusApprovedInspection     = "approvedInspection"
	WorkStatusRejectedInspection     = "rejectedInspection"
	WorkStatusCoverPending           = "coverPending"
	WorkStatusCovered                = "covered"
	WorkStatusFinalInspectionPending = "finalInspectionPending"
	WorkStatusFinalApproved          = "finalApproved"
	WorkStatusFinalRejected          = "finalRejected"
	WorkStatusPaymentReceived        = "paymentReceived"
	WorkStatusMaintenance            = "maintenance"
)

// WorkStatuses is the closed set accepted by the status endpoint and
// enforced by a CHECK constraint in the migration.
var WorkStatuses = []string{
	WorkStatusPending, WorkStatusAssigned, WorkStatusInProgress,
	WorkStatusInstalled, WorkStatusFirstInspectionPending,
	WorkStatusApprovedInspection, WorkStatusRejectedInspection,
	WorkStatusCoverPending, WorkStatusCovered,
	WorkStatusFinalInspectionPending, WorkStatusFinalApproved,
	WorkStatusFinalRejected, WorkStatusPaymentReceived,
	WorkStatusMaintenance,
}

// Work is the field order created when a budget is approved. The unique
// index on BudgetID is what guarantees one work per budget.
type Work struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"idWork"`
	PropertyAddress string     `gorm:"index;not null" json:"propertyAddress"`
	BudgetID        *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"idBudget,omitempty"`
	StaffID         *uuid.UUID `gorm:"type:uuid;index" json:"staffId,omitempty"`
	Status          string     `gorm:"not null;default:pending" json:"status"`
	StartDate       string     `gorm:"size:10" json:"startDate,omitempty"`
	Notes           string     `gorm:"type:text" json:"notes,omitempty"`

	Budget      *Budget      `gorm:"foreignKey:BudgetID" json:"budget,omitempty"`
	Staff       *Staff       `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
	Inspections []Inspection `gorm:"foreignKey:WorkID" json:"inspections,omitempty"`
	Images      []WorkImage  `gorm:"foreignKey:WorkID" json:"images,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ValidWorkStatus reports whether s is a defined work status.
func ValidWorkStatus(s string) bool {
	for _, v := range WorkStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Stages a field worker documents with photos during an installation.
const (
	ImageStageSiteBefore      = "site_before"
	ImageStageExcavation      = "excavation"
	ImageStageTankInstalled   = "tank_installed"
	ImageStageSandTruck       = "sand_truck"
	ImageStageRockRemoval     = "rock_removal"
	ImageStageFinalInspection = "final_inspection"
)

// WorkImage is a progress photo tied to one installation stage.
type WorkImage struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	WorkID    uuid.UUID `gorm:"type:uuid;index;not null" json:"idWork"`
	Stage     string    `gorm:"not null" json:"stage"`
	ImageData []byte    `gorm:"type:bytea;not null" json:"-"`
	MimeType  string    `json:"mimeType,omitempty"`
	Comment   string    `json:"comment,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// ValidImageStage reports whether s is a defined photo stage.
func ValidImageStage(s string) bool {
	switch s {
	case ImageStageSiteBefore, ImageStageExcavation, ImageStageTankInstalled,
		ImageStageSandTruck, ImageStageRockRemoval, ImageStageFinalInspection:
		return true
	}
	return false
}
