package routes

import (
	"github.com/anjiri1684/parkspace/handlers"
	"github.com/gofiber/fiber/v2"
)

// ParkingSpaceRoutes is the public catalog. Owner and admin management
// lives under OwnerRoutes and AdminRoutes.
func ParkingSpaceRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	spaces := api.Group("/parking-spaces")
	spaces.Get("", handlers.ListParkingSpaces)
	spaces.Get("/:id", handlers.GetParkingSpace)
}
