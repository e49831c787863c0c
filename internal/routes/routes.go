package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barberconnect/internal/audit"
	"github.com/BruksfildServices01/barberconnect/internal/config"
	billingDomain "github.com/BruksfildServices01/barberconnect/internal/domain/billing"
	notificationDomain "github.com/BruksfildServices01/barberconnect/internal/domain/notification"
	"github.com/BruksfildServices01/barberconnect/internal/handlers"
	infraRepo "github.com/BruksfildServices01/barberconnect/internal/infra/repository"
	"github.com/BruksfildServices01/barberconnect/internal/middleware"
	ucAnalytics "github.com/BruksfildServices01/barberconnect/internal/usecase/analytics"
	ucBilling "github.com/BruksfildServices01/barberconnect/internal/usecase/billing"
	ucNotification "github.com/BruksfildServices01/barberconnect/internal/usecase/notification"
	ucQueue "github.com/BruksfildServices01/barberconnect/internal/usecase/queue"
)

// Deps are the outbound adapters built in main. Store and Limiter may be nil.
type Deps struct {
	Audit    audit.Recorder
	Payments billingDomain.PaymentGateway
	Charges  billingDomain.ChargeGateway
	Cards    billingDomain.CustomerVault
	SMS      notificationDomain.SmsSender
	Store    handlers.ObjectStore
	Limiter  middleware.Counter
}

func NewRouter() *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	return r
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, deps Deps) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(
		middleware.RequestLogger(),
		gin.Recovery(),
		middleware.CORSMiddleware(cfg.CORSOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// REPOSITORIES
	// ======================================================
	queueRepo := infraRepo.NewQueueGormRepository(db)
	billingRepo := infraRepo.NewBillingGormRepository(db)
	analyticsRepo := infraRepo.NewAnalyticsGormRepository(db)
	notificationRepo := infraRepo.NewNotificationGormRepository(db)

	// ======================================================
	// USE CASES
	// ======================================================
	joinQueueUC := ucQueue.NewJoinQueue(queueRepo)
	getPositionUC := ucQueue.NewGetPosition(queueRepo)
	listActiveUC := ucQueue.NewListActive(queueRepo)
	updateStatusUC := ucQueue.NewUpdateStatus(queueRepo, deps.Audit)

	stripeEventsUC := ucBilling.NewStripeEvents(billingRepo, deps.Audit)
	pinEventsUC := ucBilling.NewPinEvents(billingRepo, deps.Audit)
	retryPaymentUC := ucBilling.NewRetryPayment(billingRepo, deps.Payments, deps.Audit)
	usageChargeUC := ucBilling.NewUsageCharge(billingRepo, deps.Charges, deps.Audit, ucBilling.UsageChargeConfig{
		FeeCents: cfg.UsageFeeCents,
		Currency: cfg.BillingCurrency,
		Brand:    cfg.Brand,
	})
	savePaymentMethodUC := ucBilling.NewSavePaymentMethod(billingRepo, deps.Cards, deps.Audit)

	usageReportUC := ucAnalytics.NewUsageReport(analyticsRepo)
	sendSMSUC := ucNotification.NewSendQueueSMS(notificationRepo, deps.SMS, deps.Audit, cfg.Brand)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	shopHandler := handlers.NewShopHandler(db, deps.Store, deps.Audit)
	barberHandler := handlers.NewBarberHandler(db)
	serviceHandler := handlers.NewServiceHandler(db)
	queueHandler := handlers.NewQueueHandler(listActiveUC, updateStatusUC)
	publicHandler := handlers.NewPublicHandler(queueRepo, joinQueueUC, getPositionUC)
	billingHandler := handlers.NewBillingHandler(billingRepo, retryPaymentUC, usageChargeUC, savePaymentMethodUC)
	stripeWebhookHandler := handlers.NewStripeWebhookHandler(stripeEventsUC, cfg.StripeWebhookSecret)
	pinWebhookHandler := handlers.NewPinWebhookHandler(pinEventsUC, cfg.PinWebhookSecret)
	analyticsHandler := handlers.NewAnalyticsHandler(usageReportUC)
	notificationHandler := handlers.NewNotificationHandler(sendSMSUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	limit := middleware.RateLimit(deps.Limiter, cfg.PublicRateLimit, time.Minute)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		public := api.Group("/public")
		public.Use(limit)
		{
			public.GET("/shops/:slug", publicHandler.GetShop)
			public.POST("/shops/:slug/queue", middleware.SanitizeInput(), publicHandler.JoinQueue)
			public.GET("/queue/:id", publicHandler.GetPosition)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", limit, authHandler.Register)
		api.POST("/auth/login", limit, authHandler.Login)

		// ------------------------------
		// WEBHOOKS (signature-verified)
		// ------------------------------
		api.POST("/webhooks/stripe", stripeWebhookHandler.Handle)
		api.POST("/webhooks/pin", pinWebhookHandler.Handle)

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/shop", shopHandler.GetMeShop)
			secured.PATCH("/me/shop", shopHandler.UpdateMeShop)
			secured.POST("/me/shop/logo", shopHandler.UploadLogo)

			secured.GET("/me/barbers", barberHandler.List)
			secured.POST("/me/barbers", barberHandler.Create)
			secured.PATCH("/me/barbers/:id", barberHandler.Update)

			secured.GET("/me/services", serviceHandler.List)
			secured.POST("/me/services", serviceHandler.Create)
			secured.PATCH("/me/services/:id", serviceHandler.Update)

			secured.GET("/me/queue", queueHandler.List)
			secured.PATCH("/me/queue/:id/status", queueHandler.UpdateStatus)

			secured.GET("/me/invoices", billingHandler.ListInvoices)
			secured.GET("/me/audit-logs", auditLogsHandler.List)

			owner := secured.Group("/billing")
			owner.Use(middleware.RequireRole("owner"))
			{
				owner.POST("/retry", billingHandler.Retry)
				owner.POST("/usage-charge", billingHandler.UsageCharge)
				owner.POST("/payment-method", billingHandler.SavePaymentMethod)
			}

			secured.POST("/analytics/usage", analyticsHandler.Usage)
			secured.GET("/analytics/usage/export", analyticsHandler.Export)

			secured.POST("/notifications/sms", notificationHandler.SendSMS)
		}
	}
}
