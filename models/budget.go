package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Budget statuses. A budget is drafted, sent to the client, then either
// approved or rejected; approval is what spawns the field work order.
const (
	BudgetStatusCreated  = "created"
	BudgetStatusSend     = "send"
	BudgetStatusApproved = "approved"
	BudgetStatusRejected = "rejected"
)

// Budget is a quote for the installation covered by a permit. It references
// the permit by property address, matching how the office files paperwork.
type Budget struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"idBudget"`
	PropertyAddress string    `gorm:"index;not null" json:"propertyAddress"`
	ApplicantName   string    `gorm:"not null" json:"applicantName"`

	Date           string  `gorm:"size:10;not null" json:"date"`
	ExpirationDate string  `gorm:"size:10" json:"expirationDate,omitempty"`
	Price          float64 `gorm:"not null" json:"price"`
	InitialPayment float64 `gorm:"not null" json:"initialPayment"`
	Status         string  `gorm:"not null;default:created" json:"status"`

	// Free-form quote lines, e.g. [{"item":"1050 gal tank","amount":2300}].
	LineItems datatypes.JSON `gorm:"type:jsonb" json:"lineItems,omitempty"`

	PaymentInvoice []byte `gorm:"type:bytea" json:"-"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ValidBudgetStatus reports whether s is a defined budget status.
func ValidBudgetStatus(s string) bool {
	switch s {
	case BudgetStatusCreated, BudgetStatusSend, BudgetStatusApproved, BudgetStatusRejected:
		return true
	}
	return false
}
