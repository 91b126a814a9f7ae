package routes

import (
	"github.com/anjiri1684/parkspace/handlers"
	"github.com/anjiri1684/parkspace/middleware"
	"github.com/gofiber/fiber/v2"
)

func GamificationRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	gamification := api.Group("/gamification")
	gamification.Get("/leaderboard", handlers.GetLeaderboard)
	gamification.Get("/achievements", handlers.ListAchievements)

	protected := middleware.Protected()
	gamification.Get("/points/me", protected, handlers.GetMyPoints)
	gamification.Get("/points/history", protected, handlers.GetMyPointsHistory)
	gamification.Get("/achievements/me", protected, handlers.GetMyAchievements)
	gamification.Post("/achievements/me/seen", protected, handlers.MarkAchievementsSeen)
	gamification.Post("/achievements/check", protected, handlers.CheckAchievements)

	manage := middleware.Require(middleware.CapGamificationManage)
	gamification.Post("/points/add", protected, manage, handlers.AddPoints)

	achievements := api.Group("/admin/gamification/achievements", protected, manage)
	achievements.Post("", handlers.CreateAchievement)
	achievements.Put("/:achievementId", handlers.UpdateAchievement)
	achievements.Delete("/:achievementId", handlers.DeleteAchievement)
}
