package handlers

import (
	"github.com/anjiri1684/parkspace/apperror"
	"github.com/anjiri1684/parkspace/services"
	"github.com/gofiber/fiber/v2"
)

type ParkingSpaceRequest struct {
	Name           string   `json:"name" validate:"required"`
	Address        string   `json:"address" validate:"required"`
	City           string   `json:"city"`
	Latitude       float64  `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude      float64  `json:"longitude" validate:"gte=-180,lte=180"`
	Description    *string  `json:"description"`
	ImageURL       *string  `json:"image_url" validate:"omitempty,url"`
	Price          int      `json:"price"`
	TotalSpots     int      `json:"total_spots"`
	AvailableSpots *int     `json:"available_spots"`
	Amenities      []string `json:"amenities"`
	VehicleTypes   []string `json:"vehicle_types"`
}

func (r ParkingSpaceRequest) input() services.ParkingSpaceInput {
	return services.ParkingSpaceInput{
		Name:           r.Name,
		Address:        r.Address,
		City:           r.City,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		Description:    r.Description,
		ImageURL:       r.ImageURL,
		Price:          r.Price,
		TotalSpots:     r.TotalSpots,
		AvailableSpots: r.AvailableSpots,
		Amenities:      r.Amenities,
		VehicleTypes:   r.VehicleTypes,
	}
}

type SpaceStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ListParkingSpaces is the public catalog: ?city=&search=&max_price=&page=&page_size=
func ListParkingSpaces(c *fiber.Ctx) error {
	result, err := services.ListActiveParkingSpaces(services.SpaceFilter{
		City:     c.Query("city"),
		Search:   c.Query("search"),
		MaxPrice: c.QueryInt("max_price", 0),
		Page:     pageFromQuery(c),
	})
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(result)
}

func GetParkingSpace(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id", services.CodeParkingSpaceNotFound, "parking space")
	if err != nil {
		return apperror.Respond(c, err)
	}
	space, err := services.GetActiveParkingSpace(id)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(space)
}

func ListMyParkingSpaces(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	spaces, err := services.ListOwnerParkingSpaces(actor.UserID)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(spaces)
}

func CreateParkingSpace(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	var req ParkingSpaceRequest
	if err := parseBody(c, &req); err != nil {
		return apperror.Respond(c, err)
	}
	space, err := services.CreateParkingSpace(actor.UserID, req.input())
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(space)
}

func UpdateParkingSpace(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	id, err := uuidParam(c, "id", services.CodeParkingSpaceNotFound, "parking space")
	if err != nil {
		return apperror.Respond(c, err)
	}
	var req ParkingSpaceRequest
	if err := parseBody(c, &req); err != nil {
		return apperror.Respond(c, err)
	}
	space, err := services.UpdateParkingSpace(actor, id, req.input())
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(space)
}

// SetParkingSpaceStatus serves both the owner toggle and the admin
// approval route; the service decides what each role may set.
func SetParkingSpaceStatus(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	id, err := uuidParam(c, "id", services.CodeParkingSpaceNotFound, "parking space")
	if err != nil {
		return apperror.Respond(c, err)
	}
	var req SpaceStatusRequest
	if err := parseBody(c, &req); err != nil {
		return apperror.Respond(c, err)
	}
	space, err := services.SetParkingSpaceStatus(actor, id, req.Status)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(space)
}

func AdminListParkingSpaces(c *fiber.Ctx) error {
	result, err := services.ListAllParkingSpaces(c.Query("status"), pageFromQuery(c))
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(result)
}

func DeleteParkingSpace(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id", services.CodeParkingSpaceNotFound, "parking space")
	if err != nil {
		return apperror.Respond(c, err)
	}
	if err := services.DeleteParkingSpace(id); err != nil {
		return apperror.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
