package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"zurcher.dev/api/config"
	"zurcher.dev/api/middleware"
	"zurcher.dev/api/models"
)

// AuthHandler owns the staff session lifecycle.
type AuthHandler struct {
	db     *gorm.DB
	mailer *Mailer
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(mailer *Mailer) *AuthHandler {
	return &AuthHandler{
		db:     config.DB,
		mailer: mailer,
	}
}

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionPayload struct {
	Token string       `json:"token"`
	Staff models.Staff `json:"staff"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Email == "" || req.Password == "" || req.Role == "" {
		respondError(w, http.StatusBadRequest, "email, password and role are required")
		return
	}
	if !models.ValidRole(req.Role) {
		respondError(w, http.StatusBadRequest, "unknown role: "+req.Role)
		return
	}

	email := strings.ToLower(req.Email)
	var existing models.Staff
	if err := h.db.Where("email = ?", email).First(&existing).Error; err == nil {
		respondError(w, http.StatusBadRequest, "email is already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "error hashing password")
		return
	}

	now := time.Now()
	staff := models.Staff{
		Name:      req.Name,
		Email:     email,
		Phone:     req.Phone,
		Password:  string(hash),
		Role:      req.Role,
		IsActive:  true,
		LastLogin: &now,
	}
	if err := h.db.Create(&staff).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			respondError(w, http.StatusBadRequest, "email is already registered")
			return
		}
		respondError(w, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}

	token, err := middleware.GenerateToken(staff.ID.String(), staff.Role, staff.Name, staff.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "couldn't create token")
		return
	}
	respondMessage(w, http.StatusCreated, "staff registered", sessionPayload{Token: token, Staff: staff})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	var staff models.Staff
	err := h.db.Where("email = ? AND is_active = ?", strings.ToLower(req.Email), true).
		First(&staff).Error
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(staff.Password), []byte(req.Password)); err != nil {
		respondError(w, http.StatusBadRequest, "invalid credentials")
		return
	}

	now := time.Now()
	if err := h.db.Model(&staff).Update("last_login", &now).Error; err != nil {
		log.Printf("[AUTH] could not update last_login for %s: %v", staff.ID, err)
	}

	token, err := middleware.GenerateToken(staff.ID.String(), staff.Role, staff.Name, staff.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "couldn't create token")
		return
	}
	respondMessage(w, http.StatusOK, "login successful", sessionPayload{Token: token, Staff: staff})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	now := time.Now()
	if err := h.db.Model(&models.Staff{}).
		Where("id = ?", claims.StaffID).
		Update("last_logout", &now).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not record logout")
		return
	}
	respondMessage(w, http.StatusOK, "session closed", nil)
}

type changePasswordReq struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordReq
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		respondError(w, http.StatusBadRequest, "current and new password are required")
		return
	}

	claims := middleware.GetClaims(r)
	var staff models.Staff
	if err := h.db.First(&staff, "id = ?", claims.StaffID).Error; err != nil {
		respondError(w, http.StatusNotFound, "staff not found")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(staff.Password), []byte(req.CurrentPassword)); err != nil {
		respondError(w, http.StatusBadRequest, "current password is incorrect")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "error hashing password")
		return
	}
	if err := h.db.Model(&staff).Update("password", string(hash)).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not update password")
		return
	}
	respondMessage(w, http.StatusOK, "password updated", nil)
}

type forgotPasswordReq struct {
	Email string `json:"email"`
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordReq
	if err := decodeJSON(r, &req); err != nil || req.Email == "" {
		respondError(w, http.StatusBadRequest, "email is required")
		return
	}

	var staff models.Staff
	err := h.db.Where("email = ? AND is_active = ?", strings.ToLower(req.Email), true).
		First(&staff).Error
	if err != nil {
		respondError(w, http.StatusNotFound, "staff not found")
		return
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		respondError(w, http.StatusInternalServerError, "could not generate reset token")
		return
	}
	resetToken := hex.EncodeToString(raw)
	hashed, err := bcrypt.GenerateFromPassword([]byte(resetToken), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not generate reset token")
		return
	}

	expires := time.Now().Add(time.Hour)
	tokenStr := string(hashed)
	updates := map[string]interface{}{
		"password_reset_token":   &tokenStr,
		"password_reset_expires": &expires,
	}
	if err := h.db.Model(&staff).Updates(updates).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not store reset token")
		return
	}

	resetURL := os.Getenv("FRONTEND_URL") + "/reset-password/" + resetToken
	body, err := renderTemplate(resetPasswordTemplate, map[string]string{
		"Name":     staff.Name,
		"ResetURL": resetURL,
	})
	if err == nil {
		err = h.mailer.Send(staff.Email, "Password reset", body)
	}
	if err != nil {
		log.Printf("[AUTH] reset mail to %s failed: %v", staff.Email, err)
		respondError(w, http.StatusInternalServerError, "could not send reset email")
		return
	}
	respondMessage(w, http.StatusOK, "reset email sent", nil)
}

type resetPasswordReq struct {
	Password string `json:"password"`
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	var req resetPasswordReq
	if err := decodeJSON(r, &req); err != nil || req.Password == "" {
		respondError(w, http.StatusBadRequest, "password is required")
		return
	}

	var candidates []models.Staff
	err := h.db.
		Where("password_reset_token IS NOT NULL AND password_reset_expires > ?", time.Now()).
		Find(&candidates).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, "db error")
		return
	}

	var staff *models.Staff
	for i := range candidates {
		if candidates[i].PasswordResetToken == nil {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(*candidates[i].PasswordResetToken), []byte(token)) == nil {
			staff = &candidates[i]
			break
		}
	}
	if staff == nil {
		respondError(w, http.StatusBadRequest, "reset link is invalid or has expired")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "error hashing password")
		return
	}
	updates := map[string]interface{}{
		"password":               string(hash),
		"password_reset_token":   nil,
		"password_reset_expires": nil,
	}
	if err := h.db.Model(staff).Updates(updates).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not update password")
		return
	}
	respondMessage(w, http.StatusOK, "password updated", nil)
}
