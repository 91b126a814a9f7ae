package handlers

import (
	"github.com/anjiri1684/parkspace/apperror"
	"github.com/anjiri1684/parkspace/services"
	"github.com/gofiber/fiber/v2"
)

type UserStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// AdminListBookings: ?status=&payment_status=&page=&page_size=
func AdminListBookings(c *fiber.Ctx) error {
	result, err := services.ListAllBookings(bookingFilter(c))
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(result)
}

func GetAdminStats(c *fiber.Ctx) error {
	stats, err := services.GetAdminStats(c.UserContext())
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(stats)
}

func DeleteBooking(c *fiber.Ctx) error {
	if err := services.DeleteBooking(c.Params("bookingId")); err != nil {
		return apperror.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListUsers: ?role=&page=&page_size=
func ListUsers(c *fiber.Ctx) error {
	result, err := services.ListUsers(c.Query("role"), pageFromQuery(c))
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(result)
}

func SetUserStatus(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	userID, err := uuidParam(c, "userId", services.CodeUserNotFound, "user")
	if err != nil {
		return apperror.Respond(c, err)
	}
	var req UserStatusRequest
	if err := parseBody(c, &req); err != nil {
		return apperror.Respond(c, err)
	}
	user, err := services.SetUserActive(actor, userID, *req.IsActive)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(user)
}
