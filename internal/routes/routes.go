package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bookmyappointment/booking-api/internal/audit"
	"github.com/bookmyappointment/booking-api/internal/cache"
	"github.com/bookmyappointment/booking-api/internal/config"
	"github.com/bookmyappointment/booking-api/internal/handlers"
	infraRepo "github.com/bookmyappointment/booking-api/internal/infra/repository"
	"github.com/bookmyappointment/booking-api/internal/middleware"
	"github.com/bookmyappointment/booking-api/internal/notify"
	ucBooking "github.com/bookmyappointment/booking-api/internal/usecase/booking"
)

type Deps struct {
	DB        *gorm.DB
	Config    *config.Config
	Logger    *zap.Logger
	SlotCache *cache.SlotCache
	Notifier  *notify.Service
}

func RegisterRoutes(r *gin.Engine, deps Deps) {

	// ======================================================
	// MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(deps.DB)

	auditLogger := audit.New(deps.DB)
	auditDispatcher := audit.NewDispatcher(auditLogger, deps.Logger)

	// ======================================================
	// USE CASES — BOOKINGS
	// ======================================================
	createAppointmentUC := ucBooking.NewCreateAppointmentUseCase(
		bookingRepo,
		deps.SlotCache,
		deps.Notifier,
		auditDispatcher,
	)

	rescheduleAppointmentUC := ucBooking.NewRescheduleAppointmentUseCase(
		bookingRepo,
		deps.SlotCache,
		deps.Notifier,
		auditDispatcher,
	)

	editAppointmentUC := ucBooking.NewEditAppointmentUseCase(
		bookingRepo,
		deps.Notifier,
		auditDispatcher,
	)

	cancelAppointmentUC := ucBooking.NewCancelAppointmentUseCase(
		bookingRepo,
		deps.SlotCache,
		deps.Notifier,
		auditDispatcher,
	)

	freeSlotsUC := ucBooking.NewFreeSlotsUseCase(bookingRepo, deps.SlotCache)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(deps.DB, deps.Config)
	meHandler := handlers.NewMeHandler(deps.DB)
	businessHandler := handlers.NewBusinessHandler(deps.DB)
	teamHandler := handlers.NewTeamHandler(deps.DB)
	serviceHandler := handlers.NewServiceHandler(deps.DB)

	availabilityHandler := handlers.NewAvailabilityHandler(deps.DB, deps.SlotCache)
	staffAvailabilityHandler := handlers.NewStaffAvailabilityHandler(deps.DB, deps.SlotCache)

	appointmentHandler := handlers.NewAppointmentHandler(
		deps.DB,
		createAppointmentUC,
		rescheduleAppointmentUC,
		editAppointmentUC,
		cancelAppointmentUC,
	)

	customerHandler := handlers.NewCustomerHandler(deps.DB, cancelAppointmentUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(deps.DB)

	publicHandler := handlers.NewPublicHandler(deps.DB, freeSlotsUC, createAppointmentUC)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC API
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/businesses", publicHandler.ListBusinesses)
			publicAPI.GET("/booking", publicHandler.ResolveBookingLink)

			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/team", publicHandler.ListTeam)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
			publicAPI.POST("/:slug/appointments", publicHandler.CreateAppointment)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.RegisterBusiness)
		api.POST("/auth/register-customer", authHandler.RegisterCustomer)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(deps.Config))
		{
			secured.GET("/me", meHandler.GetMe)

			// ------------------------------
			// CUSTOMER
			// ------------------------------
			customer := secured.Group("/me/bookings")
			customer.Use(middleware.RequireRole("customer"))
			{
				customer.GET("", customerHandler.ListMyBookings)
				customer.PATCH("/:publicId/cancel", customerHandler.CancelMyBooking)
			}

			// ------------------------------
			// BUSINESS STAFF (admin + team)
			// ------------------------------
			staff := secured.Group("/me")
			staff.Use(middleware.RequireRole("admin", "team"))
			{
				staff.GET("/appointments", appointmentHandler.ListByDate)
				staff.GET("/appointments/month", appointmentHandler.ListByMonth)
				staff.POST("/appointments", appointmentHandler.Create)
				staff.PATCH("/appointments/:id/reschedule", appointmentHandler.Reschedule)
				staff.PATCH("/appointments/:id", appointmentHandler.Edit)
				staff.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)

				staff.GET("/staff/:staffId/availability", staffAvailabilityHandler.Get)
				staff.PUT("/staff/:staffId/availability/:weekday", staffAvailabilityHandler.UpdateDay)
				staff.POST("/staff/:staffId/availability/:weekday/breaks", staffAvailabilityHandler.AddBreak)
				staff.DELETE("/staff/:staffId/availability/:weekday/breaks/:id", staffAvailabilityHandler.DeleteBreak)
			}

			// ------------------------------
			// ADMIN ONLY
			// ------------------------------
			admin := secured.Group("/me")
			admin.Use(middleware.RequireRole("admin"))
			{
				admin.GET("/business", businessHandler.GetMyBusiness)
				admin.PATCH("/business", businessHandler.UpdateMyBusiness)

				admin.GET("/team", teamHandler.List)
				admin.POST("/team", teamHandler.Create)
				admin.DELETE("/team/:id", teamHandler.Delete)

				admin.GET("/services", serviceHandler.List)
				admin.POST("/services", serviceHandler.Create)
				admin.PATCH("/services/:id", serviceHandler.Update)
				admin.DELETE("/services/:id", serviceHandler.Delete)

				admin.GET("/availability", availabilityHandler.Get)
				admin.PUT("/availability/:weekday", availabilityHandler.UpdateDay)
				admin.POST("/availability/:weekday/breaks", availabilityHandler.AddBreak)
				admin.DELETE("/availability/:weekday/breaks/:id", availabilityHandler.DeleteBreak)

				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
