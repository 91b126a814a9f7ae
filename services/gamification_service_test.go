package services

import (
	"testing"

	"github.com/anjiri1684/parkspace/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedAchievements(t *testing.T, db *gorm.DB, thresholds ...int) []models.Achievement {
	t.Helper()
	out := make([]models.Achievement, 0, len(thresholds))
	for _, points := range thresholds {
		a := models.Achievement{
			Name:           "Reach " + uuid.NewString()[:8],
			Description:    "milestone",
			PointsRequired: points,
			Category:       "milestone",
		}
		require.NoError(t, db.Create(&a).Error)
		out = append(out, a)
	}
	return out
}

func TestAddPointsValidation(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "jane", models.RoleCustomer)

	_, err := AddPoints(PointsAward{UserID: user.ID, Points: 0, Action: "bonus"})
	requireCode(t, err, CodeInvalidPoints)

	_, err = AddPoints(PointsAward{UserID: user.ID, Points: -5, Action: "bonus"})
	requireCode(t, err, CodeInvalidPoints)

	_, err = AddPoints(PointsAward{UserID: user.ID, Points: 5, Action: "  "})
	requireCode(t, err, CodeMissingAction)

	_, err = AddPoints(PointsAward{UserID: uuid.New(), Points: 5, Action: "bonus"})
	requireCode(t, err, CodeUserPointsNotFound)

	var history int64
	require.NoError(t, db.Model(&models.PointsHistory{}).Count(&history).Error)
	assert.Zero(t, history)
}

func TestLevelTracksTotalAfterEveryMutation(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "jane", models.RoleCustomer)

	total := 0
	for _, p := range []int{1, 98, 1, 100, 37, 263, 500} {
		updated, err := AddPoints(PointsAward{UserID: user.ID, Points: p, Action: "bonus"})
		require.NoError(t, err)
		total += p
		assert.Equal(t, total, updated.TotalPoints)
		assert.Equal(t, total/100+1, updated.Level, "total=%d", total)
	}

	var history []models.PointsHistory
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&history).Error)
	assert.Len(t, history, 7)
}

func TestCheckAchievementsUsesPreCallTotal(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "jane", models.RoleCustomer)
	seedAchievements(t, db, 200, 50, 100)
	_, err := AddPoints(PointsAward{UserID: user.ID, Points: 150, Action: "bonus"})
	require.NoError(t, err)

	result, err := CheckAchievements(user.ID)
	require.NoError(t, err)
	require.Len(t, result.NewlyUnlocked, 2)
	assert.Equal(t, 50, result.NewlyUnlocked[0].PointsRequired)
	assert.Equal(t, 100, result.NewlyUnlocked[1].PointsRequired)
	assert.Equal(t, 300, result.UpdatedPoints.TotalPoints)
	assert.Equal(t, 4, result.UpdatedPoints.Level)

	unlocked, err := ListUserAchievements(user.ID)
	require.NoError(t, err)
	require.Len(t, unlocked, 2)
	for _, ua := range unlocked {
		assert.True(t, ua.IsNew)
	}

	// 300 now covers the 200 threshold, but only on the next check.
	again, err := CheckAchievements(user.ID)
	require.NoError(t, err)
	require.Len(t, again.NewlyUnlocked, 1)
	assert.Equal(t, 200, again.NewlyUnlocked[0].PointsRequired)
	assert.Equal(t, 500, again.UpdatedPoints.TotalPoints)

	settled, err := CheckAchievements(user.ID)
	require.NoError(t, err)
	assert.Empty(t, settled.NewlyUnlocked)
	assert.Equal(t, 500, settled.UpdatedPoints.TotalPoints)
}

func TestCheckAchievementsMissingUser(t *testing.T) {
	setupDB(t)
	_, err := CheckAchievements(uuid.New())
	requireCode(t, err, CodeUserPointsNotFound)
}

func TestApprovalUnlocksAchievements(t *testing.T) {
	w := newWorld(t)
	seedAchievements(t, w.db, 20)
	booking := scenarioBooking(t, w.customer, w.space)

	_, err := ApprovePayment(customerActor(w.admin), booking.BookingID)
	require.NoError(t, err)

	points, err := GetUserPoints(w.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, points.TotalPoints)

	history, total, err := ListPointsHistory(w.customer.ID, NewPage(1, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	actions := []string{history[0].Action, history[1].Action}
	assert.ElementsMatch(t, []string{ActionBookingConfirmed, ActionAchievementUnlocked}, actions)
}

func TestEnsureUserPointsIsIdempotent(t *testing.T) {
	db := setupDB(t)
	user := models.User{FullName: "No Points", Email: "np@example.com", Password: "x", Role: models.RoleCustomer, IsActive: true}
	require.NoError(t, db.Create(&user).Error)

	require.NoError(t, EnsureUserPoints(user.ID))
	require.NoError(t, EnsureUserPoints(user.ID))

	var count int64
	require.NoError(t, db.Model(&models.UserPoints{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestMarkAchievementsSeenAndLeaderboard(t *testing.T) {
	db := setupDB(t)
	jane := createUser(t, db, "jane", models.RoleCustomer)
	john := createUser(t, db, "john", models.RoleCustomer)
	seedAchievements(t, db, 10)

	_, err := AddPoints(PointsAward{UserID: jane.ID, Points: 30, Action: "bonus"})
	require.NoError(t, err)
	_, err = AddPoints(PointsAward{UserID: john.ID, Points: 120, Action: "bonus"})
	require.NoError(t, err)
	_, err = CheckAchievements(jane.ID)
	require.NoError(t, err)

	n, err := MarkAchievementsSeen(jane.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = MarkAchievementsSeen(jane.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	board, err := Leaderboard(10)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(board), 2)
	assert.Equal(t, john.ID, board[0].UserID)
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, 120, board[0].TotalPoints)
	assert.Equal(t, jane.ID, board[1].UserID)
	assert.Equal(t, 40, board[1].TotalPoints)
}

func TestAchievementCatalog(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "jane", models.RoleCustomer)

	created, err := CreateAchievement(AchievementInput{Name: "Early Bird", Description: "first", PointsRequired: 10})
	require.NoError(t, err)
	assert.Equal(t, "general", created.Category)

	_, err = CreateAchievement(AchievementInput{Name: "Early Bird", Description: "dup", PointsRequired: 5})
	requireCode(t, err, CodeAchievementExists)

	updated, err := UpdateAchievement(created.ID, AchievementInput{Name: "Early Bird", Description: "changed", PointsRequired: 15})
	require.NoError(t, err)
	assert.Equal(t, 15, updated.PointsRequired)
	assert.Equal(t, "changed", updated.Description)

	other, err := CreateAchievement(AchievementInput{Name: "Night Owl", Description: "late", PointsRequired: 30})
	require.NoError(t, err)
	_, err = UpdateAchievement(other.ID, AchievementInput{Name: " Early Bird ", Description: "rename", PointsRequired: 30})
	requireCode(t, err, CodeAchievementExists)
	require.NoError(t, DeleteAchievement(other.ID))

	_, err = AddPoints(PointsAward{UserID: user.ID, Points: 20, Action: "bonus"})
	require.NoError(t, err)
	_, err = CheckAchievements(user.ID)
	require.NoError(t, err)

	require.NoError(t, DeleteAchievement(created.ID))
	unlocked, err := ListUserAchievements(user.ID)
	require.NoError(t, err)
	assert.Empty(t, unlocked)

	requireCode(t, DeleteAchievement(created.ID), CodeAchievementNotFound)
	_, err = UpdateAchievement(uuid.New(), AchievementInput{Name: "x"})
	requireCode(t, err, CodeAchievementNotFound)
}
