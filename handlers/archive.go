package handlers

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"zurcher.dev/api/config"
	"zurcher.dev/api/models"
	"zurcher.dev/api/utils"
)

// ArchiveHandler serves the office's history view: budgets that reached a
// terminal status plus budgets whose permit has expired.
type ArchiveHandler struct {
	db *gorm.DB
}

// NewArchiveHandler creates a new archive handler
func NewArchiveHandler() *ArchiveHandler {
	return &ArchiveHandler{
		db: config.DB,
	}
}

type archivedBudget struct {
	models.Budget
	ArchiveReason           string `json:"archiveReason"`
	PermitExpirationStatus  string `json:"permitExpirationStatus,omitempty"`
	PermitExpirationMessage string `json:"permitExpirationMessage,omitempty"`
}

// GetArchivedBudgets lists archived budgets. A budget archives when its
// status is rejected, or its permit's expiration evaluates to expired.
// Approved budgets stay active; their work tracks them from there.
func (h *ArchiveHandler) GetArchivedBudgets(w http.ResponseWriter, r *http.Request) {
	var budgets []models.Budget
	if err := h.db.Order("created_at DESC").Find(&budgets).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not list budgets")
		return
	}

	// One pass over the permits keyed by address; a permit shared by several
	// budgets is only evaluated once.
	expirations := map[string]struct {
		status  string
		message string
	}{}
	now := time.Now()
	for _, b := range budgets {
		if _, seen := expirations[b.PropertyAddress]; seen {
			continue
		}
		var permit models.Permit
		err := h.db.Select("id", "expiration_date").
			Where("property_address = ?", b.PropertyAddress).First(&permit).Error
		if err != nil {
			continue
		}
		status, message := utils.EvaluateExpiration(permit.ExpirationDate, now)
		expirations[b.PropertyAddress] = struct {
			status  string
			message string
		}{status, message}
	}

	archived := []archivedBudget{}
	for _, b := range budgets {
		exp, hasPermit := expirations[b.PropertyAddress]
		switch {
		case b.Status == models.BudgetStatusRejected:
			archived = append(archived, archivedBudget{
				Budget:        b,
				ArchiveReason: "budget_rejected",
			})
		case hasPermit && exp.status == utils.ExpirationExpired:
			archived = append(archived, archivedBudget{
				Budget:                  b,
				ArchiveReason:           "permit_expired",
				PermitExpirationStatus:  exp.status,
				PermitExpirationMessage: exp.message,
			})
		}
	}
	respondData(w, http.StatusOK, archived)
}
