package main

import (
	"log"
	"os"
	"time"

	"staffing-platform-backend/internal/api/handlers"
	"staffing-platform-backend/internal/api/routes"
	"staffing-platform-backend/internal/audit"
	"staffing-platform-backend/internal/config"
	"staffing-platform-backend/internal/database"
	"staffing-platform-backend/internal/events"
	"staffing-platform-backend/internal/logger"
	"staffing-platform-backend/internal/notify"
	"staffing-platform-backend/internal/repository"
	"staffing-platform-backend/internal/settlement"
	"staffing-platform-backend/internal/webhook"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables from .env file in development
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Set up logging
	setupLogging(cfg.LogLevel)

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL, nil)
	if err != nil {
		logrus.Fatal("Failed to initialize database:", err)
	}
	store := repository.NewStore(db)

	// Initialize event bus. With RabbitMQ the server only publishes;
	// consumption happens in the worker binary. On the in-process bus the
	// server hosts the consumers itself.
	var bus events.Bus
	var broker handlers.Pinger
	if cfg.RabbitURL != "" {
		rabbit, err := events.DialRabbit(cfg.RabbitURL, "server", logger.New())
		if err != nil {
			logrus.Fatal("Failed to connect to RabbitMQ:", err)
		}
		defer rabbit.Close()
		bus = rabbit
		broker = rabbit
	} else {
		bus = events.NewInMemoryBus(logger.New())
	}

	pipeline := settlement.NewPipeline(
		store,
		bus,
		settlement.NewStaticTaxRates(cfg.TaxRates),
		payoutProcessor(cfg),
		settlement.Config{
			InvoiceDueDays:   cfg.InvoiceDueDays,
			PayoutPeriodDays: cfg.PayoutPeriodDays,
			PayrollTaxRate:   decimal.NewFromFloat(cfg.PayrollTaxRate),
		},
	)

	if cfg.RabbitURL == "" {
		pipeline.Register(bus)
		audit.NewListener(store).Register(bus)
		notify.NewNotifier(store, bus).Register(bus)
		webhook.NewDispatcher(store, time.Duration(cfg.WebhookTimeoutSec)*time.Second).Register(bus)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := routes.SetupRoutes(db, cfg, store, bus, pipeline, broker)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "7010"
	}

	logrus.Infof("Starting server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		logrus.Fatal("Failed to start server:", err)
	}
}

func payoutProcessor(cfg *config.Config) settlement.PayoutProcessor {
	if cfg.PayoutProviderURL != "" {
		return settlement.NewHTTPProcessor(cfg.PayoutProviderURL, 30*time.Second)
	}
	return settlement.NewManualProcessor()
}

func setupLogging(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	switch level {
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "info":
		logrus.SetLevel(logrus.InfoLevel)
	case "warn":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}
}
