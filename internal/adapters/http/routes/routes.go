package routes

import (
	"time"

	"fee-ledger/internal/adapters/http/handlers"
	"fee-ledger/internal/adapters/http/middleware"
	"fee-ledger/internal/adapters/persistence/repositories"
	"fee-ledger/internal/config"
	"fee-ledger/internal/core/services"
	"fee-ledger/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Services groups the application services shared by routes and the scheduler
type Services struct {
	Clients      *services.ClientService
	Payments     *services.PaymentService
	Bills        *services.BillService
	Dashboard    *services.DashboardService
	Notification *services.NotificationService
}

// NewServices wires repositories into services. A nil sender disables mail.
func NewServices(db *gorm.DB, sender services.MailSender, clock services.Clock) *Services {
	// Initialize repositories
	clientRepo := repositories.NewClientRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	billRepo := repositories.NewBillRepository(db)

	return &Services{
		Clients:      services.NewClientService(clientRepo, paymentRepo, clock),
		Payments:     services.NewPaymentService(paymentRepo, clientRepo, clock),
		Bills:        services.NewBillService(billRepo, clock),
		Dashboard:    services.NewDashboardService(clientRepo, paymentRepo, clock),
		Notification: services.NewNotificationService(clientRepo, paymentRepo, sender, clock),
	}
}

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, svc *Services) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, cfg)
	clientHandler := handlers.NewClientHandler(svc.Clients)
	paymentHandler := handlers.NewPaymentHandler(svc.Payments)
	billHandler := handlers.NewBillHandler(svc.Bills)
	dashboardHandler := handlers.NewDashboardHandler(svc.Dashboard, svc.Payments)
	noticeHandler := handlers.NewNoticeHandler(svc.Notification)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/metrics", metrics.Handler())

	// Swagger documentation
	app.Get("/swagger/*", middleware.PublicCache(time.Hour), swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1", middleware.NoCacheHeaders())
	apiV1.Get("/", healthHandler.APIInfo)

	setupClientRoutes(apiV1, clientHandler)
	setupPaymentRoutes(apiV1, paymentHandler)
	setupBillRoutes(apiV1, billHandler)
	setupDashboardRoutes(apiV1, dashboardHandler)
	setupNoticeRoutes(apiV1, noticeHandler)
}

// ============================================================
// Clients
// ============================================================

func setupClientRoutes(router fiber.Router, h *handlers.ClientHandler) {
	clients := router.Group("/clients")
	clients.Get("/", h.List)
	clients.Post("/", h.Create)
	clients.Get("/:id", h.Get)
	clients.Put("/:id", h.Update)
	clients.Delete("/:id", h.Delete)
	clients.Post("/:id/inactivate", h.Inactivate)
	clients.Post("/:id/reactivate", h.Reactivate)
	clients.Get("/:id/fee-history", h.FeeHistory)
}

// ============================================================
// Payments
// ============================================================

func setupPaymentRoutes(router fiber.Router, h *handlers.PaymentHandler) {
	payments := router.Group("/payments")
	payments.Get("/", h.List)
	payments.Post("/", h.Create)
	payments.Delete("/:id", h.Delete)
}

// ============================================================
// Bills
// ============================================================

func setupBillRoutes(router fiber.Router, h *handlers.BillHandler) {
	bills := router.Group("/bills")
	bills.Get("/", h.List)
	bills.Post("/", h.Create)
	bills.Get("/:id", h.Get)
	bills.Put("/:id", h.Update)
	bills.Delete("/:id", h.Delete)
	bills.Post("/:id/pay", h.MarkPaid)
}

// ============================================================
// Dashboard
// ============================================================

func setupDashboardRoutes(router fiber.Router, h *handlers.DashboardHandler) {
	dashboard := router.Group("/dashboard")
	dashboard.Get("/", h.GetSummary)
	dashboard.Get("/monthly-revenue", h.GetMonthlyRevenue)
	dashboard.Get("/recent-payments", h.GetRecentPayments)
}

// ============================================================
// Notices
// ============================================================

func setupNoticeRoutes(router fiber.Router, h *handlers.NoticeHandler) {
	notices := router.Group("/notices")
	notices.Post("/send", h.Send)
	notices.Post("/run", h.Run)
}
