package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kalakriti-store/commerce-api/internal/audit"
	"github.com/kalakriti-store/commerce-api/internal/config"
	"github.com/kalakriti-store/commerce-api/internal/gateway"
	"github.com/kalakriti-store/commerce-api/internal/handlers"
	infraRepo "github.com/kalakriti-store/commerce-api/internal/infra/repository"
	"github.com/kalakriti-store/commerce-api/internal/middleware"
	ucReservation "github.com/kalakriti-store/commerce-api/internal/usecase/reservation"
)

// RegisterRoutes wires the engine and returns the sweep use case so main can
// hand it to the background sweeper.
func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	gw gateway.PaymentGateway,
) *ucReservation.SweepStale {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	reservationRepo := infraRepo.NewReservationGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ======================================================
	// USE CASES — LIFECYCLE ENGINE
	// ======================================================
	createUC := ucReservation.NewCreateReservation(reservationRepo, gw, auditDispatcher)
	confirmUC := ucReservation.NewConfirmReservation(reservationRepo, gw, auditDispatcher)
	cancelUC := ucReservation.NewCancelReservation(reservationRepo, auditDispatcher)
	requestRefundUC := ucReservation.NewRequestRefund(reservationRepo, auditDispatcher)
	approveRefundUC := ucReservation.NewApproveRefund(reservationRepo, auditDispatcher)
	updateStatusUC := ucReservation.NewUpdateStatus(reservationRepo, auditDispatcher)
	sweepUC := ucReservation.NewSweepStale(reservationRepo, auditDispatcher)
	availabilityUC := ucReservation.NewGetAvailability(reservationRepo)
	getUC := ucReservation.NewGetReservation(reservationRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	catalogHandler := handlers.NewCatalogHandler(db)

	reservationHandler := handlers.NewReservationHandler(
		createUC,
		confirmUC,
		cancelUC,
		requestRefundUC,
		availabilityUC,
		getUC,
	)

	adminHandler := handlers.NewAdminHandler(
		db,
		updateStatusUC,
		approveRefundUC,
		sweepUC,
		cfg.SweepThreshold,
	)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		public := api.Group("/public")
		{
			public.GET("/products", catalogHandler.ListProducts)
			public.GET("/services", catalogHandler.ListServices)
			public.GET("/availability", reservationHandler.Availability)

			public.POST(
				"/reservations",
				middleware.NewRateLimiter("20-1m", "create_reservation"),
				reservationHandler.Create,
			)
			public.GET("/reservations/:id", reservationHandler.Get)
			public.POST("/reservations/:id/confirm", reservationHandler.Confirm)
			public.POST("/reservations/:id/cancel", reservationHandler.Cancel)
			public.POST("/reservations/:id/refund", reservationHandler.RequestRefund)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(cfg), middleware.RequireRole("admin"))
		{
			admin.GET("/reservations", adminHandler.ListByDate)
			admin.PATCH("/reservations/:id/status", adminHandler.UpdateStatus)
			admin.POST("/reservations/:id/refund-approve", adminHandler.ApproveRefund)
			admin.POST("/sweep", adminHandler.Sweep)

			admin.POST("/products", catalogHandler.CreateProduct)
			admin.PATCH("/products/:id", catalogHandler.UpdateProduct)
			admin.POST("/services", catalogHandler.CreateService)
			admin.PATCH("/services/:id", catalogHandler.UpdateService)
		}
	}

	return sweepUC
}
