package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staffing-platform-backend/internal/audit"
	"staffing-platform-backend/internal/config"
	"staffing-platform-backend/internal/database"
	"staffing-platform-backend/internal/events"
	"staffing-platform-backend/internal/logger"
	"staffing-platform-backend/internal/notify"
	"staffing-platform-backend/internal/repository"
	"staffing-platform-backend/internal/settlement"
	"staffing-platform-backend/internal/webhook"
	"staffing-platform-backend/internal/worker"
	"staffing-platform-backend/internal/workflow"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// The worker binary hosts everything that runs off the request path: the
// event consumers (settlement, audit, notifications, webhooks) and the offer
// expiry sweep.
func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	setupLogging(cfg.LogLevel)

	db, err := database.Initialize(cfg.DatabaseURL, nil)
	if err != nil {
		logrus.Fatal("Failed to initialize database:", err)
	}
	store := repository.NewStore(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var bus events.Bus
	var rabbit *events.RabbitBus
	if cfg.RabbitURL != "" {
		rabbit, err = events.DialRabbit(cfg.RabbitURL, "worker", logger.New())
		if err != nil {
			logrus.Fatal("Failed to connect to RabbitMQ:", err)
		}
		defer rabbit.Close()
		bus = rabbit
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
	pipeline.Register(bus)
	audit.NewListener(store).Register(bus)
	notify.NewNotifier(store, bus).Register(bus)
	webhook.NewDispatcher(store, time.Duration(cfg.WebhookTimeoutSec)*time.Second).Register(bus)

	if rabbit != nil {
		if err := rabbit.Start(ctx); err != nil {
			logrus.Fatal("Failed to start consumers:", err)
		}
	}

	shiftService := workflow.NewShiftService(store, bus, validator.New(), time.Duration(cfg.OfferTTLMinutes)*time.Minute)

	manager := worker.NewManager(logger.New())
	manager.Register(worker.NewOfferSweeper(shiftService, time.Duration(cfg.OfferSweepIntervalSec)*time.Second))
	if err := manager.StartAll(ctx); err != nil {
		logrus.Fatal("Failed to start workers:", err)
	}

	logrus.Info("Worker started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logrus.Info("Shutting down")
	cancel()
	manager.StopAll()
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
