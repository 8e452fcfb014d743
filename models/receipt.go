package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entities a receipt can be filed against.
const (
	ReceiptRelatedWork    = "work"
	ReceiptRelatedBudget  = "budget"
	ReceiptRelatedIncome  = "income"
	ReceiptRelatedExpense = "expense"
)

// Receipt is a scanned proof document (invoice, payment slip) filed against
// another record. The file itself lives in the row as a blob, like permit
// PDFs.
type Receipt struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"idReceipt"`
	RelatedModel string    `gorm:"not null;index:idx_receipt_related" json:"relatedModel"`
	RelatedID    uuid.UUID `gorm:"type:uuid;not null;index:idx_receipt_related" json:"relatedId"`
	Type         string    `gorm:"not null" json:"type"`
	Notes        string    `json:"notes,omitempty"`

	FileName string `json:"fileName,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	PdfData  []byte `gorm:"type:bytea;not null" json:"-"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ValidReceiptRelation reports whether s names an entity receipts attach to.
func ValidReceiptRelation(s string) bool {
	switch s {
	case ReceiptRelatedWork, ReceiptRelatedBudget, ReceiptRelatedIncome, ReceiptRelatedExpense:
		return true
	}
	return false
}
