package routes

import (
	"github.com/anjiri1684/parkspace/handlers"
	"github.com/anjiri1684/parkspace/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected())

	stats := middleware.Require(middleware.CapStatsAdmin)
	admin.Get("/stats", stats, handlers.GetAdminStats)
	admin.Get("/bookings", stats, handlers.AdminListBookings)

	review := middleware.Require(middleware.CapPaymentsReviewAny)
	admin.Get("/payments/pending", review, handlers.ListPendingPayments)
	admin.Get("/payments/export", review, handlers.ExportVerifiedPayments)
	admin.Post("/bookings/:bookingId/complete", review, handlers.CompleteBooking)
	admin.Delete("/bookings/:bookingId", middleware.Require(middleware.CapBookingsDelete), handlers.DeleteBooking)

	users := middleware.Require(middleware.CapUsersManage)
	admin.Get("/users", users, handlers.ListUsers)
	admin.Patch("/users/:userId/status", users, handlers.SetUserStatus)

	spaces := middleware.Require(middleware.CapSpacesManageAny)
	admin.Get("/parking-spaces", spaces, handlers.AdminListParkingSpaces)
	admin.Patch("/parking-spaces/:id/status", spaces, handlers.SetParkingSpaceStatus)
	admin.Delete("/parking-spaces/:id", spaces, handlers.DeleteParkingSpace)
}
