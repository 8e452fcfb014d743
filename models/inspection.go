package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Inspection types. Initial inspections (and their reinspections) clear the
// installed system; the final inspection closes the job out with the county.
const (
	InspectionTypeInitial = "initial"
	InspectionTypeFinal   = "final"
)

// Process statuses for the initial/reinspection track.
const (
	ProcessPendingRequest         = "pending_request"
	ProcessRequestedToInspectors  = "requested_to_inspectors"
	ProcessScheduleReceived       = "schedule_received"
	ProcessApplicantDocPending    = "applicant_document_pending"
	ProcessApplicantDocReceived   = "applicant_document_received"
	ProcessCompletedPendingResult = "inspection_completed_pending_result"
	ProcessResultApproved         = "result_approved"
	ProcessResultRejected         = "result_rejected"
	ProcessReinspection           = "reinspection"
)

// Process statuses for the final-inspection track.
const (
	ProcessPendingFinalRequest       = "pending_final_request"
	ProcessFinalRequestedToInspector = "final_requested_to_inspector"
	ProcessFinalInvoiceReceived      = "final_invoice_received"
	ProcessFinalInvoiceSentToClient  = "final_invoice_sent_to_client"
	ProcessFinalPaymentConfirmed     = "final_payment_confirmed"
	ProcessFinalPaymentNotified      = "final_payment_notified_to_inspector"
)

// Final (result) statuses.
const (
	FinalStatusPending  = "pending"
	FinalStatusApproved = "approved"
	FinalStatusRejected = "rejected"
)

// ProcessStatuses is the closed set a CHECK constraint enforces at the
// persistence layer.
var ProcessStatuses = []string{
	ProcessPendingRequest, ProcessRequestedToInspectors,
	ProcessScheduleReceived, ProcessApplicantDocPending,
	ProcessApplicantDocReceived, ProcessCompletedPendingResult,
	ProcessResultApproved, ProcessResultRejected, ProcessReinspection,
	ProcessPendingFinalRequest, ProcessFinalRequestedToInspector,
	ProcessFinalInvoiceReceived, ProcessFinalInvoiceSentToClient,
	ProcessFinalPaymentConfirmed, ProcessFinalPaymentNotified,
}

// NextProcessStatuses is the transition table. Every status advance goes
// through CanTransition, so an out-of-order request never reaches the
// database. result_rejected may reopen into reinspection, which re-enters
// the rejected pass's own track at its request step (initial inspections at
// requested_to_inspectors, final ones at final_requested_to_inspector);
// result_approved is strictly terminal.
var NextProcessStatuses = map[string][]string{
	ProcessPendingRequest:        {ProcessRequestedToInspectors},
	ProcessRequestedToInspectors: {ProcessScheduleReceived},
	ProcessScheduleReceived:      {ProcessApplicantDocPending},
	ProcessApplicantDocPending:   {ProcessApplicantDocReceived},
	ProcessApplicantDocReceived:  {ProcessCompletedPendingResult},
	ProcessCompletedPendingResult: {
		ProcessResultApproved, ProcessResultRejected,
	},
	ProcessResultApproved: {},
	ProcessResultRejected: {ProcessReinspection},
	ProcessReinspection: {
		ProcessRequestedToInspectors, ProcessFinalRequestedToInspector,
	},

	ProcessPendingFinalRequest:       {ProcessFinalRequestedToInspector},
	ProcessFinalRequestedToInspector: {ProcessFinalInvoiceReceived},
	ProcessFinalInvoiceReceived:      {ProcessFinalInvoiceSentToClient},
	ProcessFinalInvoiceSentToClient:  {ProcessFinalPaymentConfirmed},
	ProcessFinalPaymentConfirmed:     {ProcessFinalPaymentNotified},
	ProcessFinalPaymentNotified: {
		ProcessResultApproved, ProcessResultRejected,
	},
}

// CanTransition reports whether from -> to is a defined workflow step.
func CanTransition(from, to string) bool {
	for _, next := range NextProcessStatuses[from] {
		if next == to {
			return true
		}
	}
	return false
}

// InitialProcessStatus returns the entry status for an inspection type,
// or "" for an unknown type.
func InitialProcessStatus(inspectionType string) string {
	switch inspectionType {
	case InspectionTypeInitial:
		return ProcessPendingRequest
	case InspectionTypeFinal:
		return ProcessPendingFinalRequest
	}
	return ""
}

// IsTerminalProcessStatus reports whether the status has no outgoing
// transitions. Note result_rejected is NOT terminal: it can reopen.
func IsTerminalProcessStatus(s string) bool {
	next, ok := NextProcessStatuses[s]
	return ok && len(next) == 0
}

// Inspection tracks one pass of the county inspection workflow for a work.
// Every transition stamps its dedicated date field, and several carry URLs
// of externally hosted documents (stored as opaque references).
type Inspection struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"idInspection"`
	WorkID uuid.UUID `gorm:"type:uuid;index;not null" json:"workId"`
	Type   string    `gorm:"not null" json:"type"`

	ProcessStatus string  `gorm:"not null;default:pending_request" json:"processStatus"`
	FinalStatus   *string `json:"finalStatus,omitempty"`

	DateRequestedToInspectors *time.Time `json:"dateRequestedToInspectors,omitempty"`
	InspectorScheduledDate    string     `gorm:"size:10" json:"inspectorScheduledDate,omitempty"`

	DocumentForApplicantURL      string     `json:"documentForApplicantUrl,omitempty"`
	DocumentForApplicantPublicID string     `json:"documentForApplicantPublicId,omitempty"`
	DateDocumentSentToApplicant  *time.Time `json:"dateDocumentSentToApplicant,omitempty"`

	SignedDocumentFromApplicantURL      string     `json:"signedDocumentFromApplicantUrl,omitempty"`
	SignedDocumentFromApplicantPublicID string     `json:"signedDocumentFromApplicantPublicId,omitempty"`
	DateSignedDocumentReceived          *time.Time `json:"dateSignedDocumentReceived,omitempty"`

	DateInspectionPerformed string     `gorm:"size:10" json:"dateInspectionPerformed,omitempty"`
	ResultDocumentURL       string     `json:"resultDocumentUrl,omitempty"`
	ResultDocumentPublicID  string     `json:"resultDocumentPublicId,omitempty"`
	DateResultReceived      *time.Time `json:"dateResultReceived,omitempty"`

	InvoiceFromInspectorURL      string     `json:"invoiceFromInspectorUrl,omitempty"`
	InvoiceFromInspectorPublicID string     `json:"invoiceFromInspectorPublicId,omitempty"`
	DateInvoiceSentToClient      *time.Time `json:"dateInvoiceSentToClient,omitempty"`

	ClientPaymentProofURL          string     `json:"clientPaymentProofUrl,omitempty"`
	ClientPaymentProofPublicID     string     `json:"clientPaymentProofPublicId,omitempty"`
	DatePaymentConfirmedByClient   *time.Time `json:"datePaymentConfirmedByClient,omitempty"`
	DatePaymentNotifiedToInspector *time.Time `json:"datePaymentNotifiedToInspector,omitempty"`

	WorkerHasCorrected  bool       `gorm:"not null;default:false" json:"workerHasCorrected"`
	DateWorkerCorrected *time.Time `json:"dateWorkerCorrected,omitempty"`

	ReinspectionExtraDocumentURL          string `json:"reinspectionExtraDocumentUrl,omitempty"`
	ReinspectionExtraDocumentPublicID     string `json:"reinspectionExtraDocumentPublicId,omitempty"`
	ReinspectionExtraDocumentOriginalName string `json:"reinspectionExtraDocumentOriginalName,omitempty"`

	Notes string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
