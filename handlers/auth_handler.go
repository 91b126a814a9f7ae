package handlers

import (
	"time"

	"github.com/anjiri1684/parkspace/apperror"
	"github.com/anjiri1684/parkspace/middleware"
	"github.com/anjiri1684/parkspace/services"
	"github.com/gofiber/fiber/v2"
)

type RegisterRequest struct {
	FullName string  `json:"full_name" validate:"required,min=3"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Phone    *string `json:"phone"`
	Role     string  `json:"role" validate:"omitempty,oneof=customer owner"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func RegisterUser(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return apperror.Respond(c, err)
	}

	user, err := services.RegisterUser(services.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		return apperror.Respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(UserResponse{
		ID:        user.ID.String(),
		FullName:  user.FullName,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	})
}

func LoginUser(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return apperror.Respond(c, err)
	}

	user, err := services.Authenticate(req.Email, req.Password)
	if err != nil {
		return apperror.Respond(c, err)
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		return apperror.Respond(c, apperror.Internal(err))
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": UserResponse{
			ID:        user.ID.String(),
			FullName:  user.FullName,
			Email:     user.Email,
			Role:      user.Role,
			CreatedAt: user.CreatedAt,
		},
	})
}
