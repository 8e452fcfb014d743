package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaterialSet groups one procurement run for a work: who bought, when, and
// the invoice total. Individual line items hang off it as Materials.
type MaterialSet struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"idMaterialSet"`
	WorkID       uuid.UUID  `gorm:"type:uuid;index;not null" json:"workId"`
	StaffID      *uuid.UUID `gorm:"type:uuid;index" json:"staffId,omitempty"`
	PurchaseDate string     `gorm:"size:10" json:"purchaseDate,omitempty"`
	InvoiceURL   string     `json:"invoiceUrl,omitempty"`
	TotalCost    float64    `json:"totalCost"`

	Materials []Material `gorm:"foreignKey:MaterialSetID" json:"materials,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Material is one purchased line item (tank, pipe, sand load, ...).
type Material struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"idMaterial"`
	MaterialSetID uuid.UUID `gorm:"type:uuid;index;not null" json:"materialSetId"`
	Name          string    `gorm:"not null" json:"name"`
	Quantity      int       `gorm:"not null" json:"quantity"`
	Cost          float64   `json:"cost"`
	Comment       string    `json:"comment,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
