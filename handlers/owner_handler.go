package handlers

import (
	"github.com/anjiri1684/parkspace/apperror"
	"github.com/anjiri1684/parkspace/services"
	"github.com/gofiber/fiber/v2"
)

// GetOwnerBookings lists bookings on the caller's spaces.
func GetOwnerBookings(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	result, err := services.ListOwnerBookings(actor.UserID, bookingFilter(c))
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(result)
}

func GetOwnerStats(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	stats, err := services.GetOwnerStats(c.UserContext(), actor.UserID)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(stats)
}
