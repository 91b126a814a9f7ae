package routes

import (
	"github.com/anjiri1684/parkspace/handlers"
	"github.com/anjiri1684/parkspace/middleware"
	"github.com/gofiber/fiber/v2"
)

func OwnerRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	owner := api.Group("/owner", middleware.Protected())

	manage := middleware.Require(middleware.CapSpacesManageOwn)
	owner.Get("/parking-spaces", manage, handlers.ListMyParkingSpaces)
	owner.Post("/parking-spaces", manage, handlers.CreateParkingSpace)
	owner.Put("/parking-spaces/:id", manage, handlers.UpdateParkingSpace)
	owner.Patch("/parking-spaces/:id/status", manage, handlers.SetParkingSpaceStatus)

	stats := middleware.Require(middleware.CapStatsOwner)
	owner.Get("/bookings", stats, handlers.GetOwnerBookings)
	owner.Get("/stats", stats, handlers.GetOwnerStats)

	review := middleware.Require(middleware.CapPaymentsReviewOwn)
	owner.Get("/payments/pending", review, handlers.ListOwnerPendingPayments)
	owner.Post("/bookings/:bookingId/complete", review, handlers.CompleteBooking)
}
