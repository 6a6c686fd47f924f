package router

import (
	"rentalhub/internal/service"
	"rentalhub/internal/transport/http/handlers"
	"rentalhub/internal/transport/http/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Deps struct {
	Reservations  service.ReservationService
	Bookings      service.BookingService
	Catalog       service.CatalogService
	Notifications *service.NotificationService
	Billing       *service.BillingService
	JWTSecret     string
	Log           *zap.Logger
}

func Router(d Deps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	reservationHandler := handlers.NewReservationHandler(d.Reservations, d.Log)
	bookingHandler := handlers.NewBookingHandler(d.Bookings, d.Log)
	catalogHandler := handlers.NewCatalogHandler(d.Catalog, d.Log)
	accountHandler := handlers.NewAccountHandler(d.Notifications, d.Billing, d.Log)

	api := r.Group("/api/v1")

	// Public catalog reads.
	api.GET("/instruments", catalogHandler.ListInstruments)
	api.GET("/instruments/:id", catalogHandler.GetInstrument)
	api.GET("/instruments/:id/availability", catalogHandler.Availability)
	api.GET("/locations", catalogHandler.ListLocations)
	api.GET("/services", catalogHandler.ListEventServices)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(d.JWTSecret, d.Log))

	authed.POST("/reservations", reservationHandler.Create)
	authed.GET("/reservations", reservationHandler.List)
	authed.GET("/reservations/:id", reservationHandler.Get)
	authed.POST("/reservations/:id/approve", reservationHandler.Approve)
	authed.POST("/reservations/:id/reject", reservationHandler.Reject)
	authed.POST("/reservations/:id/cancel", reservationHandler.Cancel)
	authed.POST("/reservations/:id/return", reservationHandler.Return)

	authed.POST("/bookings", bookingHandler.Create)
	authed.GET("/bookings", bookingHandler.List)
	authed.GET("/bookings/:id", bookingHandler.Get)
	authed.POST("/bookings/:id/approve", bookingHandler.Approve)
	authed.POST("/bookings/:id/reject", bookingHandler.Reject)
	authed.POST("/bookings/:id/cancel", bookingHandler.Cancel)

	// Admin plumbing; role checks live in the services.
	authed.POST("/instruments", catalogHandler.CreateInstrument)
	authed.PUT("/instruments/:id", catalogHandler.UpdateInstrument)
	authed.DELETE("/instruments/:id", catalogHandler.ArchiveInstrument)
	authed.PUT("/instruments/:id/inventory", catalogHandler.SetInventory)
	authed.POST("/instruments/:id/items", catalogHandler.AddItem)
	authed.GET("/instruments/:id/items", catalogHandler.ListItems)
	authed.POST("/locations", catalogHandler.CreateLocation)
	authed.DELETE("/locations/:id", catalogHandler.DeactivateLocation)
	authed.POST("/services", catalogHandler.CreateEventService)

	authed.GET("/notifications", accountHandler.ListNotifications)
	authed.POST("/notifications/:id/read", accountHandler.MarkNotificationRead)
	authed.GET("/invoices", accountHandler.ListInvoices)

	return r
}
