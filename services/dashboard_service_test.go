package services

import (
	"context"
	"testing"

	"github.com/anjiri1684/parkspace/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAdminStats(t *testing.T) {
	w := newWorld(t)
	createSpace(t, w.db, w.owner, models.SpaceStatusPending)
	scenarioBooking(t, w.customer, w.space)
	confirmedBooking(t, w)

	stats, err := GetAdminStats(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 3, stats.TotalUsers)
	assert.EqualValues(t, 1, stats.UsersByRole[models.RoleAdmin])
	assert.EqualValues(t, 1, stats.SpacesByStatus[models.SpaceStatusActive])
	assert.EqualValues(t, 1, stats.SpacesByStatus[models.SpaceStatusPending])

	assert.EqualValues(t, 2, stats.Bookings.Total)
	assert.EqualValues(t, 1, stats.Bookings.ByStatus[models.BookingPending])
	assert.EqualValues(t, 1, stats.Bookings.ByStatus[models.BookingConfirmed])
	assert.EqualValues(t, 1, stats.Bookings.PendingVerifications)
	assert.EqualValues(t, 100, stats.Bookings.VerifiedRevenue)
	assert.InDelta(t, 100, stats.Bookings.AverageAmount, 0.001)
	assert.EqualValues(t, 2, stats.Bookings.LastThirtyDays)
}

func TestGetOwnerStatsIsScopedToOwner(t *testing.T) {
	w := newWorld(t)
	scenarioBooking(t, w.customer, w.space)

	otherOwner := createUser(t, w.db, "other-owner", models.RoleOwner)
	otherSpace := createSpace(t, w.db, otherOwner, models.SpaceStatusActive)
	scenarioBooking(t, w.customer, otherSpace)
	scenarioBooking(t, w.customer, otherSpace)

	stats, err := GetOwnerStats(context.Background(), w.owner.ID)
	require.NoError(t, err)

	assert.EqualValues(t, 1, stats.SpacesByStatus[models.SpaceStatusActive])
	assert.EqualValues(t, 10, stats.TotalSpots)
	assert.EqualValues(t, 6, stats.OccupiedSpots)
	assert.EqualValues(t, 1, stats.Bookings.Total)
	assert.EqualValues(t, 1, stats.Bookings.PendingVerifications)
	assert.Zero(t, stats.Bookings.VerifiedRevenue)
}
