package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"zurcher.dev/api/config"
	"zurcher.dev/api/models"
)

// StaffHandler covers staff administration; account creation lives in the
// auth handler.
type StaffHandler struct {
	db *gorm.DB
}

// NewStaffHandler creates a new staff handler
func NewStaffHandler() *StaffHandler {
	return &StaffHandler{
		db: config.DB,
	}
}

// GetStaff lists staff accounts, active first.
func (h *StaffHandler) GetStaff(w http.ResponseWriter, r *http.Request) {
	q := h.db.Order("is_active DESC, name ASC")
	if role := r.URL.Query().Get("role"); role != "" {
		if !models.ValidRole(role) {
			respondError(w, http.StatusBadRequest, "unknown role: "+role)
			return
		}
		q = q.Where("role = ?", role)
	}
	var staff []models.Staff
	if err := q.Find(&staff).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not list staff")
		return
	}
	respondData(w, http.StatusOK, staff)
}

// GetStaffByID returns one staff account.
func (h *StaffHandler) GetStaffByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idStaff"]

	var staff models.Staff
	if err := h.db.First(&staff, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "staff member not found")
		return
	}
	respondData(w, http.StatusOK, staff)
}

type updateStaffReq struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
	Password *string `json:"password"`
}

// UpdateStaff applies admin edits to an account, including role changes
// and password resets.
func (h *StaffHandler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idStaff"]

	var req updateStaffReq
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Name == nil && req.Email == nil && req.Phone == nil &&
		req.Role == nil && req.IsActive == nil && req.Password == nil {
		respondError(w, http.StatusBadRequest, "no fields to update")
		return
	}
	if req.Role != nil && !models.ValidRole(*req.Role) {
		respondError(w, http.StatusBadRequest, "unknown role: "+*req.Role)
		return
	}

	var staff models.Staff
	if err := h.db.First(&staff, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "staff member not found")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		var existing models.Staff
		err := h.db.Where("email = ? AND id <> ?", email, staff.ID).First(&existing).Error
		if err == nil {
			respondError(w, http.StatusBadRequest, "email already in use")
			return
		}
		updates["email"] = email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			respondError(w, http.StatusBadRequest, "password must be at least 8 characters")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "could not hash password")
			return
		}
		updates["password"] = string(hash)
	}

	if err := h.db.Model(&staff).Updates(updates).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not update staff member")
		return
	}
	if err := h.db.First(&staff, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not reload staff member")
		return
	}
	respondData(w, http.StatusOK, staff)
}

// DeleteStaff soft-deletes an account after deactivating it, so the row
// survives for history but the login stops working immediately.
func (h *StaffHandler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idStaff"]

	var staff models.Staff
	if err := h.db.First(&staff, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "staff member not found")
		return
	}
	if staff.Role == models.RoleOwner {
		respondError(w, http.StatusBadRequest, "the owner account cannot be deleted")
		return
	}

	if err := h.db.Model(&staff).Update("is_active", false).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not deactivate staff member")
		return
	}
	if err := h.db.Delete(&staff).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not delete staff member")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
