package routes

import (
	"github.com/anjiri1684/parkspace/handlers"
	"github.com/anjiri1684/parkspace/middleware"
	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	booking := api.Group("/bookings", middleware.Protected())
	booking.Post("", middleware.Require(middleware.CapBookingsCreate), handlers.CreateBooking)
	booking.Get("/me", handlers.GetMyBookings)
	booking.Put("/modify", handlers.ModifyBooking)
	booking.Post("/upload-payment", handlers.UploadPaymentProof)
	booking.Post("/cancel", handlers.CancelBooking)

	review := middleware.Require(middleware.CapPaymentsReviewAny, middleware.CapPaymentsReviewOwn)
	booking.Post("/verify-payment", review, handlers.VerifyPayment)
	booking.Post("/reject-payment", review, handlers.RejectPayment)

	booking.Get("/:bookingId", handlers.GetBooking)
	booking.Get("/:bookingId/receipt", handlers.DownloadReceipt)
}
