package routes

import (
	"time"

	"staffing-platform-backend/internal/api/handlers"
	"staffing-platform-backend/internal/api/middleware"
	"staffing-platform-backend/internal/config"
	"staffing-platform-backend/internal/events"
	"staffing-platform-backend/internal/repository"
	"staffing-platform-backend/internal/settlement"
	"staffing-platform-backend/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// SetupRoutes configures all the routes for the application. The settlement
// pipeline is built by the caller because the event bus consumes it too.
func SetupRoutes(db *gorm.DB, cfg *config.Config, store repository.Store, bus events.Bus, pipeline *settlement.Pipeline, broker handlers.Pinger) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg))

	validate := validator.New()

	// Initialize services
	shiftService := workflow.NewShiftService(store, bus, validate, time.Duration(cfg.OfferTTLMinutes)*time.Minute)
	assignmentService := workflow.NewAssignmentService(store, bus, validate)
	timesheetService := workflow.NewTimesheetService(store, bus, validate)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, broker)
	shiftHandler := handlers.NewShiftHandler(shiftService)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService)
	timesheetHandler := handlers.NewTimesheetHandler(timesheetService)
	settlementHandler := handlers.NewSettlementHandler(pipeline)
	partyHandler := handlers.NewPartyHandler(store, validate)
	webhookHandler := handlers.NewWebhookSubscriptionHandler(store, validate)
	auditHandler := handlers.NewAuditHandler(store)

	// Health check routes
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)

	// API v1 routes - All endpoints require authentication
	v1 := router.Group("/api/v1")
	v1.Use(middleware.RequireAuth(cfg.JWTSecret))

	{
		// Shift lifecycle routes
		shifts := v1.Group("/shifts")
		{
			shifts.POST("", shiftHandler.RequestShift)
			shifts.POST("/:id/offers", shiftHandler.OfferShift)
			shifts.POST("/:id/clock-in", shiftHandler.ClockIn)
			shifts.POST("/:id/clock-out", shiftHandler.ClockOut)
			shifts.POST("/:id/cancel", shiftHandler.CancelShift)
		}

		// Offer response routes
		offers := v1.Group("/offers")
		{
			offers.POST("/:id/accept", shiftHandler.AcceptOffer)
			offers.POST("/:id/reject", shiftHandler.RejectOffer)
		}

		// Assignment lifecycle routes
		assignments := v1.Group("/assignments")
		{
			assignments.POST("", assignmentHandler.CreateAssignment)
			assignments.POST("/:id/activate", assignmentHandler.ActivateAssignment)
			assignments.POST("/:id/suspend", assignmentHandler.SuspendAssignment)
			assignments.POST("/:id/reactivate", assignmentHandler.ReactivateAssignment)
			assignments.POST("/:id/complete", assignmentHandler.CompleteAssignment)
			assignments.POST("/:id/cancel", assignmentHandler.CancelAssignment)
			assignments.POST("/:id/extend", assignmentHandler.ExtendAssignment)
			assignments.PUT("/:id/rates", assignmentHandler.CorrectRates)
		}

		// Timesheet approval routes
		timesheets := v1.Group("/timesheets")
		{
			timesheets.PUT("/:id", timesheetHandler.CorrectTimesheet)
			timesheets.POST("/:id/agency-approval", timesheetHandler.ApproveByAgency)
			timesheets.POST("/:id/employer-approval", timesheetHandler.ApproveByEmployer)
			timesheets.POST("/:id/reject", timesheetHandler.RejectTimesheet)
		}

		// Settlement routes
		invoices := v1.Group("/invoices")
		{
			invoices.POST("/:id/paid", settlementHandler.MarkInvoicePaid)
		}
		payouts := v1.Group("/payouts")
		{
			payouts.POST("/:id/execute", settlementHandler.ExecutePayout)
		}

		// Party reference routes
		agencies := v1.Group("/agencies")
		{
			agencies.POST("", partyHandler.CreateAgency)
			agencies.GET("/:id", partyHandler.GetAgency)
		}
		employers := v1.Group("/employers")
		{
			employers.POST("", partyHandler.CreateEmployer)
			employers.GET("/:id", partyHandler.GetEmployer)
		}
		v1.POST("/employees", partyHandler.CreateEmployee)
		v1.POST("/locations", partyHandler.CreateLocation)

		// Webhook subscription routes
		webhooks := v1.Group("/webhook-subscriptions")
		{
			webhooks.GET("", webhookHandler.ListSubscriptions)
			webhooks.POST("", webhookHandler.CreateSubscription)
			webhooks.DELETE("/:id", webhookHandler.DeleteSubscription)
		}

		// Audit log routes
		v1.GET("/audit-logs/:id", auditHandler.ListByTarget)
	}

	// Catch-all route for undefined endpoints
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error":      "Endpoint not found",
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": c.GetString("request_id"),
		})
	})

	return router
}

// SetupHealthRoutes sets up only health check routes (useful for testing)
func SetupHealthRoutes(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	healthHandler := handlers.NewHealthHandler(db, nil)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)

	return router
}
