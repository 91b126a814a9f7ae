package handlers

import (
	"github.com/anjiri1684/parkspace/apperror"
	"github.com/anjiri1684/parkspace/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AddPointsRequest struct {
	UserID      string  `json:"user_id" validate:"required,uuid"`
	Points      int     `json:"points"`
	Action      string  `json:"action"`
	Description string  `json:"description"`
	BookingID   *string `json:"booking_id" validate:"omitempty,uuid"`
}

type AchievementRequest struct {
	Name           string `json:"name" validate:"required"`
	Description    string `json:"description" validate:"required"`
	Icon           string `json:"icon"`
	PointsRequired int    `json:"points_required" validate:"gte=0"`
	Category       string `json:"category"`
}

func (r AchievementRequest) input() services.AchievementInput {
	return services.AchievementInput{
		Name:           r.Name,
		Description:    r.Description,
		Icon:           r.Icon,
		PointsRequired: r.PointsRequired,
		Category:       r.Category,
	}
}

// AddPoints credits points manually. Admin only.
func AddPoints(c *fiber.Ctx) error {
	var req AddPointsRequest
	if err := parseBody(c, &req); err != nil {
		return apperror.Respond(c, err)
	}
	award := services.PointsAward{
		UserID:      uuid.MustParse(req.UserID),
		Points:      req.Points,
		Action:      req.Action,
		Description: req.Description,
	}
	if req.BookingID != nil {
		id := uuid.MustParse(*req.BookingID)
		award.BookingID = &id
	}
	points, err := services.AddPoints(award)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(points)
}

func CheckAchievements(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	result, err := services.CheckAchievements(actor.UserID)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(result)
}

func GetMyPoints(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	points, err := services.GetUserPoints(actor.UserID)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(points)
}

func GetMyPointsHistory(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	page := pageFromQuery(c)
	history, total, err := services.ListPointsHistory(actor.UserID, page)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(services.NewPageResult(history, total, page))
}

func ListAchievements(c *fiber.Ctx) error {
	achievements, err := services.ListAchievements()
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(achievements)
}

func GetMyAchievements(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	unlocked, err := services.ListUserAchievements(actor.UserID)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(unlocked)
}

func MarkAchievementsSeen(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	n, err := services.MarkAchievementsSeen(actor.UserID)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(fiber.Map{"updated": n})
}

// GetLeaderboard: ?limit= (default 10, max 100)
func GetLeaderboard(c *fiber.Ctx) error {
	entries, err := services.Leaderboard(c.QueryInt("limit", 10))
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(entries)
}

func CreateAchievement(c *fiber.Ctx) error {
	var req AchievementRequest
	if err := parseBody(c, &req); err != nil {
		return apperror.Respond(c, err)
	}
	achievement, err := services.CreateAchievement(req.input())
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(achievement)
}

func UpdateAchievement(c *fiber.Ctx) error {
	id, err := uuidParam(c, "achievementId", services.CodeAchievementNotFound, "achievement")
	if err != nil {
		return apperror.Respond(c, err)
	}
	var req AchievementRequest
	if err := parseBody(c, &req); err != nil {
		return apperror.Respond(c, err)
	}
	achievement, err := services.UpdateAchievement(id, req.input())
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(achievement)
}

func DeleteAchievement(c *fiber.Ctx) error {
	id, err := uuidParam(c, "achievementId", services.CodeAchievementNotFound, "achievement")
	if err != nil {
		return apperror.Respond(c, err)
	}
	if err := services.DeleteAchievement(id); err != nil {
		return apperror.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
