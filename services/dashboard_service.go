package services

import (
	"context"
	"fmt"
	"time"

	"github.com/anjiri1684/parkspace/cache"
	"github.com/anjiri1684/parkspace/database"
	"github.com/anjiri1684/parkspace/models"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type BookingStats struct {
	ByStatus             map[string]int64 `json:"by_status"`
	Total                int64            `json:"total"`
	PendingVerifications int64            `json:"pending_verifications"`
	VerifiedRevenue      int64            `json:"verified_revenue"`
	AverageAmount        float64          `json:"average_amount"`
	LastThirtyDays       int64            `json:"last_thirty_days"`
}

type AdminStats struct {
	UsersByRole    map[string]int64 `json:"users_by_role"`
	TotalUsers     int64            `json:"total_users"`
	SpacesByStatus map[string]int64 `json:"spaces_by_status"`
	Bookings       BookingStats     `json:"bookings"`
	GeneratedAt    time.Time        `json:"generated_at"`
}

type OwnerStats struct {
	SpacesByStatus map[string]int64 `json:"spaces_by_status"`
	TotalSpots     int64            `json:"total_spots"`
	OccupiedSpots  int64            `json:"occupied_spots"`
	Bookings       BookingStats     `json:"bookings"`
	GeneratedAt    time.Time        `json:"generated_at"`
}

type groupCount struct {
	GroupKey string
	Total    int64
}

func countBy(ctx context.Context, q *gorm.DB, column string) (map[string]int64, error) {
	var rows []groupCount
	err := q.WithContext(ctx).
		Select(column + " AS group_key, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.GroupKey] = r.Total
	}
	return out, nil
}

// bookingStats fans the booking aggregates out over g. scope narrows the
// bookings table, e.g. to one owner's spaces.
func bookingStats(ctx context.Context, g *errgroup.Group, stats *BookingStats, scope func(*gorm.DB) *gorm.DB, now time.Time) {
	bookings := func() *gorm.DB {
		return scope(database.DB.WithContext(ctx).Model(&models.Booking{}))
	}

	g.Go(func() error {
		byStatus, err := countBy(ctx, bookings(), "bookings.status")
		if err != nil {
			return fmt.Errorf("bookings by status: %w", err)
		}
		stats.ByStatus = byStatus
		for _, n := range byStatus {
			stats.Total += n
		}
		return nil
	})
	g.Go(func() error {
		err := bookings().
			Where("bookings.payment_status = ? AND bookings.status = ?", models.PaymentPending, models.BookingPending).
			Count(&stats.PendingVerifications).Error
		if err != nil {
			return fmt.Errorf("pending verifications: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var agg struct {
			Revenue int64
			Average float64
		}
		err := bookings().
			Select("COALESCE(SUM(bookings.amount), 0) AS revenue, COALESCE(AVG(bookings.amount), 0) AS average").
			Where("bookings.payment_status = ?", models.PaymentVerified).
			Scan(&agg).Error
		if err != nil {
			return fmt.Errorf("verified revenue: %w", err)
		}
		stats.VerifiedRevenue = agg.Revenue
		stats.AverageAmount = agg.Average
		return nil
	})
	g.Go(func() error {
		err := bookings().
			Where("bookings.created_at >= ?", now.AddDate(0, 0, -30)).
			Count(&stats.LastThirtyDays).Error
		if err != nil {
			return fmt.Errorf("recent bookings: %w", err)
		}
		return nil
	})
}

// GetAdminStats aggregates platform-wide counts. Results are served from the
// stats cache when one is configured.
func GetAdminStats(ctx context.Context) (*AdminStats, error) {
	key := cache.Key("admin")
	var cached AdminStats
	if cache.Stats.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	now := time.Now()
	stats := &AdminStats{GeneratedAt: now}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		byRole, err := countBy(gctx, database.DB.Model(&models.User{}), "role")
		if err != nil {
			return fmt.Errorf("users by role: %w", err)
		}
		stats.UsersByRole = byRole
		for _, n := range byRole {
			stats.TotalUsers += n
		}
		return nil
	})
	g.Go(func() error {
		byStatus, err := countBy(gctx, database.DB.Model(&models.ParkingSpace{}), "status")
		if err != nil {
			return fmt.Errorf("spaces by status: %w", err)
		}
		stats.SpacesByStatus = byStatus
		return nil
	})
	bookingStats(gctx, g, &stats.Bookings, func(q *gorm.DB) *gorm.DB { return q }, now)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	cache.Stats.SetJSON(ctx, key, stats)
	return stats, nil
}

// GetOwnerStats aggregates the same figures over one owner's spaces, plus
// current occupancy.
func GetOwnerStats(ctx context.Context, ownerID uuid.UUID) (*OwnerStats, error) {
	key := cache.Key("owner", ownerID.String())
	var cached OwnerStats
	if cache.Stats.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	now := time.Now()
	stats := &OwnerStats{GeneratedAt: now}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		byStatus, err := countBy(gctx, database.DB.Model(&models.ParkingSpace{}).Where("owner_id = ?", ownerID), "status")
		if err != nil {
			return fmt.Errorf("owner spaces by status: %w", err)
		}
		stats.SpacesByStatus = byStatus
		return nil
	})
	g.Go(func() error {
		var agg struct {
			Total    int64
			Occupied int64
		}
		err := database.DB.WithContext(gctx).Model(&models.ParkingSpace{}).
			Select("COALESCE(SUM(total_spots), 0) AS total, COALESCE(SUM(total_spots - available_spots), 0) AS occupied").
			Where("owner_id = ? AND status = ?", ownerID, models.SpaceStatusActive).
			Scan(&agg).Error
		if err != nil {
			return fmt.Errorf("owner occupancy: %w", err)
		}
		stats.TotalSpots = agg.Total
		stats.OccupiedSpots = agg.Occupied
		return nil
	})
	bookingStats(gctx, g, &stats.Bookings, func(q *gorm.DB) *gorm.DB {
		return q.Joins("JOIN parking_spaces ON parking_spaces.id = bookings.parking_space_id").
			Where("parking_spaces.owner_id = ?", ownerID)
	}, now)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	cache.Stats.SetJSON(ctx, key, stats)
	return stats, nil
}
