package routes

import "github.com/gofiber/fiber/v2"

// Register mounts every API route group on app.
func Register(app *fiber.App) {
	AuthRoutes(app)
	ProfileRoutes(app)
	ParkingSpaceRoutes(app)
	BookingRoutes(app)
	OwnerRoutes(app)
	AdminRoutes(app)
	GamificationRoutes(app)
	UploadRoutes(app)
	NotificationRoutes(app)
}
