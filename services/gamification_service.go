package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anjiri1684/parkspace/apperror"
	"github.com/anjiri1684/parkspace/database"
	"github.com/anjiri1684/parkspace/logger"
	"github.com/anjiri1684/parkspace/metrics"
	"github.com/anjiri1684/parkspace/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	ActionBookingConfirmed    = "booking_confirmed"
	ActionBookingCompleted    = "booking_completed"
	ActionAchievementUnlocked = "achievement_unlocked"

	pointsForConfirmedBooking = 20
	pointsForCompletedBooking = 50
)

// PointsAward is one credit to a user's balance.
type PointsAward struct {
	UserID      uuid.UUID
	Points      int
	Action      string
	Description string
	BookingID   *uuid.UUID
}

// AchievementCheck is the outcome of CheckAchievements.
type AchievementCheck struct {
	NewlyUnlocked []models.Achievement `json:"newly_unlocked"`
	UpdatedPoints models.UserPoints    `json:"updated_points"`
}

// AddPoints credits award and appends its history row in one transaction.
func AddPoints(award PointsAward) (*models.UserPoints, error) {
	var updated *models.UserPoints
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		updated, err = addPoints(tx, award)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.Default.PointsAwarded(award.Action, award.Points)
	return updated, nil
}

func addPoints(tx *gorm.DB, award PointsAward) (*models.UserPoints, error) {
	if award.Points <= 0 {
		return nil, apperror.BadRequest(CodeInvalidPoints, "points must be a positive integer")
	}
	action := strings.TrimSpace(award.Action)
	if action == "" {
		return nil, apperror.BadRequest(CodeMissingAction, "action is required")
	}

	if err := incrementPoints(tx, award.UserID, award.Points); err != nil {
		return nil, err
	}

	history := models.PointsHistory{
		UserID:      award.UserID,
		Points:      award.Points,
		Action:      action,
		Description: award.Description,
		BookingID:   award.BookingID,
	}
	if err := tx.Create(&history).Error; err != nil {
		return nil, fmt.Errorf("append points history: %w", err)
	}

	return loadUserPoints(tx, award.UserID)
}

// incrementPoints adds delta to the balance and recomputes the level in the
// same statement, so concurrent awards never lose an update.
func incrementPoints(tx *gorm.DB, userID uuid.UUID, delta int) error {
	result := tx.Model(&models.UserPoints{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"total_points": gorm.Expr("total_points + ?", delta),
			"level":        gorm.Expr("((total_points + ?) / 100) + 1", delta),
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("increment points: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound(CodeUserPointsNotFound, "user points not found")
	}
	return nil
}

func loadUserPoints(tx *gorm.DB, userID uuid.UUID) (*models.UserPoints, error) {
	var points models.UserPoints
	if err := tx.Where("user_id = ?", userID).First(&points).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(CodeUserPointsNotFound, "user points not found")
		}
		return nil, fmt.Errorf("load user points: %w", err)
	}
	return &points, nil
}

// CheckAchievements unlocks every achievement whose threshold is covered by
// the balance as it stood when the call began. Unlock rewards are credited
// once at the end and do not trigger further unlocks in the same call.
func CheckAchievements(userID uuid.UUID) (*AchievementCheck, error) {
	var result *AchievementCheck
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = checkAchievements(tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	for _, a := range result.NewlyUnlocked {
		metrics.Default.PointsAwarded(ActionAchievementUnlocked, a.PointsRequired)
	}
	return result, nil
}

func checkAchievements(tx *gorm.DB, userID uuid.UUID) (*AchievementCheck, error) {
	current, err := loadUserPoints(tx, userID)
	if err != nil {
		return nil, err
	}

	var achievements []models.Achievement
	if err := tx.Order("points_required asc").Order("name asc").Find(&achievements).Error; err != nil {
		return nil, fmt.Errorf("load achievements: %w", err)
	}

	var unlockedIDs []uuid.UUID
	if err := tx.Model(&models.UserAchievement{}).Where("user_id = ?", userID).Pluck("achievement_id", &unlockedIDs).Error; err != nil {
		return nil, fmt.Errorf("load unlocked achievements: %w", err)
	}
	unlocked := make(map[uuid.UUID]bool, len(unlockedIDs))
	for _, id := range unlockedIDs {
		unlocked[id] = true
	}

	now := time.Now()
	newly := make([]models.Achievement, 0)
	bonus := 0
	for _, achievement := range achievements {
		if achievement.PointsRequired > current.TotalPoints {
			break
		}
		if unlocked[achievement.ID] {
			continue
		}

		record := models.UserAchievement{
			UserID:        userID,
			AchievementID: achievement.ID,
			UnlockedAt:    now,
			IsNew:         true,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&record)
		if res.Error != nil {
			return nil, fmt.Errorf("record achievement %q: %w", achievement.Name, res.Error)
		}
		if res.RowsAffected == 0 {
			// unlocked by a concurrent check
			continue
		}

		if achievement.PointsRequired > 0 {
			history := models.PointsHistory{
				UserID:      userID,
				Points:      achievement.PointsRequired,
				Action:      ActionAchievementUnlocked,
				Description: fmt.Sprintf("Unlocked achievement: %s", achievement.Name),
			}
			if err := tx.Create(&history).Error; err != nil {
				return nil, fmt.Errorf("append achievement history: %w", err)
			}
		}
		bonus += achievement.PointsRequired
		newly = append(newly, achievement)
	}

	if bonus > 0 {
		if err := incrementPoints(tx, userID, bonus); err != nil {
			return nil, err
		}
		current, err = loadUserPoints(tx, userID)
		if err != nil {
			return nil, err
		}
	}

	return &AchievementCheck{NewlyUnlocked: newly, UpdatedPoints: *current}, nil
}

// awardWithAchievements credits a lifecycle reward and runs the unlock check
// inside the caller's transaction. The points row is provisioned if missing.
func awardWithAchievements(tx *gorm.DB, award PointsAward) (*AchievementCheck, error) {
	if err := ensureUserPoints(tx, award.UserID); err != nil {
		return nil, err
	}
	if _, err := addPoints(tx, award); err != nil {
		return nil, err
	}
	return checkAchievements(tx, award.UserID)
}

// EnsureUserPoints creates the zero balance row for a user if it is missing.
func EnsureUserPoints(userID uuid.UUID) error {
	return ensureUserPoints(database.DB, userID)
}

func ensureUserPoints(tx *gorm.DB, userID uuid.UUID) error {
	row := models.UserPoints{UserID: userID, TotalPoints: 0, Level: 1}
	if err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("ensure user points: %w", err)
	}
	return nil
}

func GetUserPoints(userID uuid.UUID) (*models.UserPoints, error) {
	return loadUserPoints(database.DB, userID)
}

func ListPointsHistory(userID uuid.UUID, page Page) ([]models.PointsHistory, int64, error) {
	var total int64
	if err := database.DB.Model(&models.PointsHistory{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count points history: %w", err)
	}
	var history []models.PointsHistory
	err := database.DB.Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&history).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list points history: %w", err)
	}
	return history, total, nil
}

func ListAchievements() ([]models.Achievement, error) {
	var achievements []models.Achievement
	if err := database.DB.Order("points_required asc").Find(&achievements).Error; err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	return achievements, nil
}

func ListUserAchievements(userID uuid.UUID) ([]models.UserAchievement, error) {
	var unlocked []models.UserAchievement
	err := database.DB.Preload("Achievement").
		Where("user_id = ?", userID).
		Order("unlocked_at desc").
		Find(&unlocked).Error
	if err != nil {
		return nil, fmt.Errorf("list user achievements: %w", err)
	}
	return unlocked, nil
}

// MarkAchievementsSeen clears the isNew flag and returns how many changed.
func MarkAchievementsSeen(userID uuid.UUID) (int64, error) {
	result := database.DB.Model(&models.UserAchievement{}).
		Where("user_id = ? AND is_new = ?", userID, true).
		Update("is_new", false)
	if result.Error != nil {
		return 0, fmt.Errorf("mark achievements seen: %w", result.Error)
	}
	return result.RowsAffected, nil
}

type LeaderboardEntry struct {
	Rank              int       `json:"rank"`
	UserID            uuid.UUID `json:"user_id"`
	FullName          string    `json:"full_name"`
	ProfilePictureURL *string   `json:"profile_picture_url"`
	TotalPoints       int       `json:"total_points"`
	Level             int       `json:"level"`
}

func Leaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	var entries []LeaderboardEntry
	err := database.DB.Table("user_points").
		Select("user_points.user_id, users.full_name, users.profile_picture_url, user_points.total_points, user_points.level").
		Joins("JOIN users ON users.id = user_points.user_id").
		Where("users.is_active = ?", true).
		Order("user_points.total_points desc").
		Order("users.full_name asc").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

type AchievementInput struct {
	Name           string
	Description    string
	Icon           string
	PointsRequired int
	Category       string
}

func CreateAchievement(in AchievementInput) (*models.Achievement, error) {
	achievement := models.Achievement{
		Name:           strings.TrimSpace(in.Name),
		Description:    in.Description,
		Icon:           in.Icon,
		PointsRequired: in.PointsRequired,
		Category:       in.Category,
	}
	if achievement.Category == "" {
		achievement.Category = "general"
	}
	var count int64
	if err := database.DB.Model(&models.Achievement{}).Where("name = ?", achievement.Name).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check achievement name: %w", err)
	}
	if count > 0 {
		return nil, apperror.Conflict(CodeAchievementExists, "an achievement with this name already exists")
	}
	if err := database.DB.Create(&achievement).Error; err != nil {
		return nil, fmt.Errorf("create achievement: %w", err)
	}
	return &achievement, nil
}

func UpdateAchievement(id uuid.UUID, in AchievementInput) (*models.Achievement, error) {
	var achievement models.Achievement
	if err := database.DB.First(&achievement, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(CodeAchievementNotFound, "achievement not found")
		}
		return nil, fmt.Errorf("load achievement: %w", err)
	}
	name := strings.TrimSpace(in.Name)
	var count int64
	if err := database.DB.Model(&models.Achievement{}).Where("name = ? AND id <> ?", name, id).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check achievement name: %w", err)
	}
	if count > 0 {
		return nil, apperror.Conflict(CodeAchievementExists, "an achievement with this name already exists")
	}

	updates := map[string]interface{}{
		"name":            name,
		"description":     in.Description,
		"icon":            in.Icon,
		"points_required": in.PointsRequired,
	}
	if in.Category != "" {
		updates["category"] = in.Category
	}
	if err := database.DB.Model(&achievement).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update achievement: %w", err)
	}
	if err := database.DB.First(&achievement, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("reload achievement: %w", err)
	}
	return &achievement, nil
}

// DeleteAchievement removes the catalog entry and every unlock of it.
func DeleteAchievement(id uuid.UUID) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("achievement_id = ?", id).Delete(&models.UserAchievement{}).Error; err != nil {
			return fmt.Errorf("delete achievement unlocks: %w", err)
		}
		result := tx.Delete(&models.Achievement{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("delete achievement: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperror.NotFound(CodeAchievementNotFound, "achievement not found")
		}
		return nil
	})
}

// logAward reports a lifecycle reward after its transaction committed.
func logAward(award PointsAward, check *AchievementCheck) {
	metrics.Default.PointsAwarded(award.Action, award.Points)
	evt := logger.Log.Info().
		Str("user_id", award.UserID.String()).
		Str("action", award.Action).
		Int("points", award.Points)
	if check != nil {
		for _, a := range check.NewlyUnlocked {
			metrics.Default.PointsAwarded(ActionAchievementUnlocked, a.PointsRequired)
		}
		evt = evt.Int("total_points", check.UpdatedPoints.TotalPoints).Int("unlocked", len(check.NewlyUnlocked))
	}
	evt.Msg("points awarded")
}
