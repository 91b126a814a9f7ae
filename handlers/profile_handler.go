package handlers

import (
	"github.com/anjiri1684/parkspace/apperror"
	"github.com/anjiri1684/parkspace/services"
	"github.com/gofiber/fiber/v2"
)

type UpdateProfileRequest struct {
	FullName          *string `json:"full_name" validate:"omitempty,min=3"`
	Phone             *string `json:"phone"`
	ProfilePictureURL *string `json:"profile_picture_url" validate:"omitempty,url"`
}

func GetProfile(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	user, err := services.GetUser(actor.UserID)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(user)
}

func UpdateProfile(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	var req UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return apperror.Respond(c, err)
	}

	user, err := services.UpdateProfile(actor.UserID, services.ProfileInput{
		FullName:          req.FullName,
		Phone:             req.Phone,
		ProfilePictureURL: req.ProfilePictureURL,
	})
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(user)
}
