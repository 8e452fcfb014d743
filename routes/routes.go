package routes

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"zurcher.dev/api/handlers"
	"zurcher.dev/api/middleware"
	"zurcher.dev/api/models"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	registry := handlers.NewRegistry()
	mailer := handlers.NewMailer()
	files := handlers.NewFileStore()
	notifications := handlers.NewNotificationService(registry, mailer)

	auth := handlers.NewAuthHandler(mailer)
	permits := handlers.NewPermitHandler()
	budgets := handlers.NewBudgetHandler(notifications)
	works := handlers.NewWorkHandler(notifications)
	inspections := handlers.NewInspectionHandler(files, notifications)
	materials := handlers.NewMaterialHandler(files)
	incomes := handlers.NewIncomeHandler()
	expenses := handlers.NewExpenseHandler()
	balance := handlers.NewBalanceHandler()
	receipts := handlers.NewReceiptHandler()
	archive := handlers.NewArchiveHandler()
	staff := handlers.NewStaffHandler()
	notificationsREST := handlers.NewNotificationHandler(notifications)

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/health", handleHealth(registry)).Methods("GET")
	r.HandleFunc("/api/auth/register", auth.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", auth.Login).Methods("POST")
	r.HandleFunc("/api/auth/forgot-password", auth.ForgotPassword).Methods("POST")
	r.HandleFunc("/api/auth/reset-password/{token}", auth.ResetPassword).Methods("POST")
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir("./uploads"))),
	)

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.JWTMiddleware)

	api.HandleFunc("/auth/logout", auth.Logout).Methods("POST")
	api.HandleFunc("/auth/change-password", auth.ChangePassword).Methods("POST")

	office := []string{models.RoleAdmin, models.RoleRecept}
	adminOnly := []string{models.RoleAdmin}
	everyone := []string{models.RoleAdmin, models.RoleRecept, models.RoleWorker}

	// Permits
	gate(api, office, "/permit", permits.CreatePermit, "POST")
	gate(api, office, "/permit", permits.GetPermits, "GET")
	gate(api, office, "/permit/all", permits.GetPermits, "GET")
	gate(api, office, "/permit/contacts", permits.GetContactList, "GET")
	gate(api, office, "/permit/check-by-address", permits.CheckPermitByPropertyAddress, "GET")
	gate(api, office, "/permit/{idPermit}", permits.GetPermitByID, "GET")
	gate(api, office, "/permit/{idPermit}", permits.UpdatePermit, "PUT")
	gate(api, office, "/permit/{idPermit}/pdf", permits.DownloadPermitPdf, "GET")
	gate(api, office, "/permit/{idPermit}/view/pdf", permits.GetPermitPdfInline, "GET")
	gate(api, office, "/permit/{idPermit}/view/optional", permits.GetPermitOptionalDocInline, "GET")
	gate(api, office, "/permit/{idPermit}/contacts", permits.GetContactList, "GET")

	// Budgets
	gate(api, office, "/budget", budgets.CreateBudget, "POST")
	gate(api, office, "/budget/all", budgets.GetBudgets, "GET")
	gate(api, office, "/budget/{idBudget}", budgets.GetBudgetByID, "GET")
	gate(api, office, "/budget/{idBudget}", budgets.UpdateBudget, "PUT")
	gate(api, adminOnly, "/budget/{idBudget}", budgets.DeleteBudget, "DELETE")
	gate(api, office, "/budget/{idBudget}/invoice", budgets.UploadBudgetInvoice, "POST")
	gate(api, office, "/budget/{idBudget}/invoice", budgets.GetBudgetInvoice, "GET")

	// Works
	gate(api, everyone, "/work/all", works.GetWorks, "GET")
	gate(api, everyone, "/work/{idWork}", works.GetWorkByID, "GET")
	gate(api, everyone, "/work/{idWork}", works.UpdateWork, "PUT")
	gate(api, adminOnly, "/work/{idWork}", works.DeleteWork, "DELETE")
	gate(api, everyone, "/work/{idWork}/images", works.AddWorkImage, "POST")
	gate(api, everyone, "/work/{idWork}/images/{idImage}", works.GetWorkImage, "GET")
	gate(api, office, "/work/{idWork}/images/{idImage}", works.DeleteWorkImage, "DELETE")

	// Inspections
	gate(api, office, "/work/{idWork}/inspections", inspections.CreateInspection, "POST")
	gate(api, everyone, "/work/{idWork}/inspections", inspections.GetInspectionsByWork, "GET")
	gate(api, everyone, "/inspection/{idInspection}", inspections.GetInspectionByID, "GET")
	gate(api, office, "/inspection/{idInspection}/request-to-inspectors", inspections.RequestToInspectors, "POST")
	gate(api, office, "/inspection/{idInspection}/schedule-received", inspections.ScheduleReceived, "POST")
	gate(api, office, "/inspection/{idInspection}/document-sent", inspections.DocumentSent, "POST")
	gate(api, office, "/inspection/{idInspection}/signed-document-received", inspections.SignedDocumentReceived, "POST")
	gate(api, office, "/inspection/{idInspection}/inspection-performed", inspections.InspectionPerformed, "POST")
	gate(api, office, "/inspection/{idInspection}/register-result", inspections.RegisterResult, "POST")
	gate(api, everyone, "/inspection/{idInspection}/mark-corrected", inspections.MarkCorrected, "POST")
	gate(api, office, "/inspection/{idInspection}/reopen-reinspection", inspections.ReopenReinspection, "POST")
	gate(api, office, "/inspection/{idInspection}/final-invoice-received", inspections.FinalInvoiceReceived, "POST")
	gate(api, office, "/inspection/{idInspection}/invoice-sent-to-client", inspections.InvoiceSentToClient, "POST")
	gate(api, office, "/inspection/{idInspection}/payment-confirmed", inspections.PaymentConfirmed, "POST")
	gate(api, office, "/inspection/{idInspection}/payment-notified", inspections.PaymentNotified, "POST")

	// Materials
	gate(api, everyone, "/material-set", materials.CreateMaterialSet, "POST")
	gate(api, everyone, "/work/{idWork}/material-sets", materials.GetMaterialSetsByWork, "GET")
	gate(api, everyone, "/material-set/{idMaterialSet}", materials.GetMaterialSetByID, "GET")
	gate(api, office, "/material-set/{idMaterialSet}", materials.UpdateMaterialSet, "PUT")
	gate(api, adminOnly, "/material-set/{idMaterialSet}", materials.DeleteMaterialSet, "DELETE")
	gate(api, everyone, "/material-set/{idMaterialSet}/invoice", materials.UploadMaterialInvoice, "POST")
	gate(api, everyone, "/material-set/{idMaterialSet}/materials", materials.AddMaterial, "POST")
	gate(api, office, "/material-set/{idMaterialSet}/materials/{idMaterial}", materials.DeleteMaterial, "DELETE")

	// Income / expense / balance
	gate(api, office, "/income", incomes.CreateIncome, "POST")
	gate(api, office, "/income/all", incomes.GetIncomes, "GET")
	gate(api, office, "/income/{idIncome}", incomes.GetIncomeByID, "GET")
	gate(api, office, "/income/{idIncome}", incomes.UpdateIncome, "PUT")
	gate(api, adminOnly, "/income/{idIncome}", incomes.DeleteIncome, "DELETE")
	gate(api, office, "/expense", expenses.CreateExpense, "POST")
	gate(api, office, "/expense/all", expenses.GetExpenses, "GET")
	gate(api, office, "/expense/{idExpense}", expenses.GetExpenseByID, "GET")
	gate(api, office, "/expense/{idExpense}", expenses.UpdateExpense, "PUT")
	gate(api, adminOnly, "/expense/{idExpense}", expenses.DeleteExpense, "DELETE")
	gate(api, adminOnly, "/balance", balance.GetBalance, "GET")
	gate(api, adminOnly, "/balance/export", balance.ExportBalance, "GET")

	// Receipts
	gate(api, office, "/receipt", receipts.CreateReceipt, "POST")
	gate(api, office, "/receipt/{relatedModel}/{relatedId}", receipts.GetReceiptsByRelated, "GET")
	gate(api, office, "/receipt/view/{idReceipt}", receipts.GetReceiptFile, "GET")
	gate(api, adminOnly, "/receipt/{idReceipt}", receipts.DeleteReceipt, "DELETE")

	// Archive
	gate(api, office, "/archive/budgets", archive.GetArchivedBudgets, "GET")

	// Staff administration
	gate(api, adminOnly, "/staff/all", staff.GetStaff, "GET")
	gate(api, adminOnly, "/staff/{idStaff}", staff.GetStaffByID, "GET")
	gate(api, adminOnly, "/staff/{idStaff}", staff.UpdateStaff, "PUT")
	gate(api, adminOnly, "/staff/{idStaff}", staff.DeleteStaff, "DELETE")

	// Notifications
	gate(api, office, "/notification", notificationsREST.SendNotification, "POST")
	gate(api, everyone, "/notification/staff/{staffId}", notificationsREST.GetNotificationsByStaff, "GET")
	gate(api, everyone, "/notification/{idNotification}/read", notificationsREST.MarkNotificationRead, "PATCH")
	gate(api, everyone, "/notification/{idNotification}/reply", notificationsREST.ReplyNotification, "POST")
	api.HandleFunc("/notification/ws", notifications.NotificationSocket).Methods("GET")

	return r
}

// gate registers a role-guarded route on the JWT subrouter.
func gate(api *mux.Router, roles []string, path string, h http.HandlerFunc, method string) {
	api.Handle(path, middleware.RequireRole(roles, h)).Methods(method)
}

// handleHealth reports liveness plus the live websocket session count.
func handleHealth(registry *handlers.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":      "ok",
			"connections": registry.Count(),
		})
	}
}
