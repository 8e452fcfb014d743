package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"zurcher.dev/api/config"
	"zurcher.dev/api/middleware"
	"zurcher.dev/api/models"
)

// NotificationHandler exposes the notification REST surface.
type NotificationHandler struct {
	db      *gorm.DB
	service *NotificationService
}

func NewNotificationHandler(service *NotificationService) *NotificationHandler {
	return &NotificationHandler{
		db:      config.DB,
		service: service,
	}
}

type sendNotificationReq struct {
	StaffID uuid.UUID  `json:"staffId"`
	Role    string     `json:"role"`
	Type    string     `json:"type"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
	WorkID  *uuid.UUID `json:"workId"`
}

// SendNotification targets a single staff member or, when role is set
// instead, everyone holding that role.
func (h *NotificationHandler) SendNotification(w http.ResponseWriter, r *http.Request) {
	var req sendNotificationReq
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Message == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}
	if (req.StaffID == uuid.Nil) == (req.Role == "") {
		respondError(w, http.StatusBadRequest, "provide either staffId or role")
		return
	}
	ntype := req.Type
	if ntype == "" {
		ntype = models.NotificationTypeMessage
	}

	var senderID *uuid.UUID
	if claims := middleware.GetClaims(r); claims != nil {
		if id, err := uuid.Parse(claims.StaffID); err == nil {
			senderID = &id
		}
	}

	if req.Role != "" {
		if !models.ValidRole(req.Role) {
			respondError(w, http.StatusBadRequest, "unknown role: "+req.Role)
			return
		}
		h.service.NotifyRole(req.Role, senderID, ntype, req.Title, req.Message, req.WorkID)
		respondMessage(w, http.StatusCreated, "notification sent to role "+req.Role, nil)
		return
	}

	var staff models.Staff
	if err := h.db.First(&staff, "id = ?", req.StaffID).Error; err != nil {
		respondError(w, http.StatusNotFound, "recipient not found")
		return
	}
	notification, err := h.service.Notify(req.StaffID, senderID, ntype, req.Title, req.Message, req.WorkID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not create notification")
		return
	}
	respondData(w, http.StatusCreated, notification)
}

// GetNotificationsByStaff lists a staff member's notifications, newest
// first, with reply threads preloaded.
func (h *NotificationHandler) GetNotificationsByStaff(w http.ResponseWriter, r *http.Request) {
	staffID := mux.Vars(r)["staffId"]

	var notifications []models.Notification
	err := h.db.
		Preload("Sender").
		Preload("Responses").
		Where("staff_id = ? AND parent_id IS NULL", staffID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not list notifications")
		return
	}
	respondData(w, http.StatusOK, notifications)
}

// MarkNotificationRead flips the read flag.
func (h *NotificationHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idNotification"]

	res := h.db.Model(&models.Notification{}).Where("id = ?", id).Update("is_read", true)
	if res.Error != nil {
		respondError(w, http.StatusInternalServerError, "could not update notification")
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, "notification not found")
		return
	}
	respondMessage(w, http.StatusOK, "notification marked as read", nil)
}

type replyNotificationReq struct {
	Message string `json:"message"`
}

// ReplyNotification threads a response under a notification and delivers it
// back to the original sender.
func (h *NotificationHandler) ReplyNotification(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["idNotification"]

	var req replyNotificationReq
	if err := decodeJSON(r, &req); err != nil || req.Message == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	var parent models.Notification
	if err := h.db.First(&parent, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "notification not found")
		return
	}
	if parent.SenderID == nil {
		respondError(w, http.StatusBadRequest, "notification has no sender to reply to")
		return
	}

	var replierID *uuid.UUID
	if claims := middleware.GetClaims(r); claims != nil {
		if id, err := uuid.Parse(claims.StaffID); err == nil {
			replierID = &id
		}
	}

	reply, err := h.service.Notify(*parent.SenderID, replierID,
		models.NotificationTypeResponse, "Re: "+parent.Title, req.Message, parent.WorkID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not create reply")
		return
	}
	parentID := parent.ID
	if err := h.db.Model(reply).Update("parent_id", &parentID).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "could not thread reply")
		return
	}
	reply.ParentID = &parentID
	respondData(w, http.StatusCreated, reply)
}
