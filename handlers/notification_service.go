package handlers

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"zurcher.dev/api/config"
	"zurcher.dev/api/middleware"
	"zurcher.dev/api/models"
)

// NotificationService persists notifications and fans them out: socket push
// for staff with an open session, email for the rest. Delivery failures are
// logged, never propagated; the notification row is the source of truth
// either way.
type NotificationService struct {
	db       *gorm.DB
	registry *Registry
	mailer   *Mailer
}

// NewNotificationService creates a new notification service instance
func NewNotificationService(registry *Registry, mailer *Mailer) *NotificationService {
	return &NotificationService{
		db:       config.DB,
		registry: registry,
		mailer:   mailer,
	}
}

// Notify creates a notification for one staff member and delivers it.
func (ns *NotificationService) Notify(staffID uuid.UUID, senderID *uuid.UUID,
	ntype, title, message string, workID *uuid.UUID) (*models.Notification, error) {

	notification := models.Notification{
		StaffID:  staffID,
		SenderID: senderID,
		WorkID:   workID,
		Type:     ntype,
		Title:    title,
		Message:  message,
	}
	if err := ns.db.Create(&notification).Error; err != nil {
		return nil, err
	}

	ns.deliver(&notification)
	return &notification, nil
}

// NotifyRole fans a notification out to every active staff member holding
// the given role.
func (ns *NotificationService) NotifyRole(role string, senderID *uuid.UUID,
	ntype, title, message string, workID *uuid.UUID) {

	var recipients []models.Staff
	err := ns.db.Where("role = ? AND is_active = ?", role, true).Find(&recipients).Error
	if err != nil {
		log.Printf("[NOTIFY] could not resolve %s recipients: %v", role, err)
		return
	}
	for _, staff := range recipients {
		if _, err := ns.Notify(staff.ID, senderID, ntype, title, message, workID); err != nil {
			log.Printf("[NOTIFY] could not notify staff %s: %v", staff.ID, err)
		}
	}
}

// deliver pushes in-app first; staff without a session get the email
// fallback, the only at-least-once path for offline recipients.
func (ns *NotificationService) deliver(notification *models.Notification) {
	if ns.registry.SendTo(notification.StaffID.String(), notification) {
		return
	}

	var staff models.Staff
	if err := ns.db.First(&staff, "id = ?", notification.StaffID).Error; err != nil {
		log.Printf("[NOTIFY] recipient %s not found for email fallback", notification.StaffID)
		return
	}
	if staff.Email == "" || !ns.mailer.Enabled() {
		return
	}

	body, err := renderTemplate(notificationMailTemplate, map[string]string{
		"Name":    staff.Name,
		"Message": notification.Message,
	})
	if err == nil {
		err = ns.mailer.Send(staff.Email, "Zurcher: "+notification.Title, body)
	}
	if err != nil {
		log.Printf("[NOTIFY] email fallback to %s failed: %v", staff.Email, err)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from the frontend origin; CORS is handled at
	// the HTTP layer.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NotificationSocket upgrades the connection and parks it in the registry
// until the client goes away. The staffId comes from the JWT claims set by
// the auth middleware, never from the client, so a session cannot subscribe
// to (or evict) another staff member's channel.
func (ns *NotificationService) NotificationSocket(w http.ResponseWriter, r *http.Request) {
	staffID := middleware.GetStaffID(r)
	if staffID == "" {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[SOCKET] upgrade failed: %v", err)
		return
	}

	ns.registry.Register(staffID, conn)
	defer func() {
		ns.registry.Unregister(conn)
		_ = conn.Close()
	}()

	// Drain control frames; any read error means the peer is gone.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
