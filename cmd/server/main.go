package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fee-ledger/internal/adapters/http/middleware"
	"fee-ledger/internal/adapters/http/routes"
	"fee-ledger/internal/adapters/mail"
	"fee-ledger/internal/adapters/persistence/models"
	"fee-ledger/internal/config"
	"fee-ledger/internal/core/services"
	"fee-ledger/internal/pkg/logging"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	_ "fee-ledger/docs" // Swagger docs
)

// @title Fee Ledger API
// @version 1.0
// @description Client billing and cash flow API for an accounting office: clients, monthly fee payments, payable bills, dashboard and billing notices.

// @contact.name API Support
// @contact.email support@example.com

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:3000
// @BasePath /api/v1
// @schemes http https

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel, cfg.IsDev())

	// money renders as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer config.CloseDatabase(db)

	if err := models.AutoMigrate(db); err != nil {
		slog.Error("failed to auto migrate", "error", err)
		os.Exit(1)
	}
	slog.Info("database migration completed")

	if cfg.SeedDemo {
		if err := config.NewSeeder(db, nil).Run(); err != nil {
			slog.Warn("demo seed failed", "error", err)
		}
	}

	var sender services.MailSender
	if cfg.MailEnabled() {
		sender = mail.NewSMTPSender(mail.Options{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	} else {
		slog.Warn("SMTP_HOST not set, billing notices are disabled")
	}

	svc := routes.NewServices(db, sender, services.SystemClock(cfg.Location()))

	// Start the monthly delinquent notice job
	var cronService *services.CronService
	if cfg.Notices.Enabled && cfg.MailEnabled() {
		cronService, err = services.NewCronService(svc.Notification, cfg.Notices.Schedule, cfg.Location())
		if err != nil {
			slog.Error("failed to create notice scheduler", "error", err)
			os.Exit(1)
		}
		cronService.Start()
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Fee Ledger API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, db, cfg, svc)

	// Graceful shutdown
	go gracefulShutdown(app, cronService)

	// Start server
	slog.Info("server starting", "port", cfg.Port, "mode", cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}

// gracefulShutdown stops the scheduler, then the HTTP server
func gracefulShutdown(app *fiber.App, cronService *services.CronService) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cronService != nil {
		cronService.Stop(ctx)
	}
	if err := app.ShutdownWithContext(ctx); err != nil {
		slog.Error("error during shutdown", "error", err)
	}
	slog.Info("server stopped gracefully")
}
