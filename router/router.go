package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/labbiomed/reservation-app/config"
	"github.com/labbiomed/reservation-app/controllers"
	"github.com/labbiomed/reservation-app/middlewares"
	"github.com/labbiomed/reservation-app/models"
	"github.com/labbiomed/reservation-app/services"
)

func SetupRouter(db *gorm.DB, cfg config.App) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	reservationSvc := services.NewReservationService(db, services.OperatingWindow{
		Open:        cfg.LabOpen,
		Close:       cfg.LabClose,
		SlotMinutes: cfg.LabSlotMinutes,
	})

	userCtrl := controllers.NewUserController(db)
	reservationCtrl := controllers.NewReservationController(db, reservationSvc)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter ketat untuk login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())

	api.GET("/profile", userCtrl.GetProfile)

	// RESERVATIONS
	api.POST("/reservations", reservationCtrl.CreateReservation)
	api.GET("/reservations", reservationCtrl.GetAllReservations)
	api.GET("/reservations/date/:date", reservationCtrl.GetReservationsByDate)
	api.GET("/reservations/slots/:date", reservationCtrl.GetAvailableSlots)
	api.GET("/reservations/:reservation_id", reservationCtrl.GetReservationByID)

	// Approve/reject hanya untuk asisten
	api.PATCH("/reservations/:reservation_id/status",
		middlewares.RequireRole(models.RoleAsisten),
		reservationCtrl.UpdateReservationStatus)

	// Cancel oleh pemilik reservasi
	api.PATCH("/reservations/:reservation_id/cancel", reservationCtrl.CancelReservation)

	return r
}
