package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/anjiri1684/parkspace/database"
	"github.com/anjiri1684/parkspace/logger"
	"github.com/anjiri1684/parkspace/metrics"
	"github.com/anjiri1684/parkspace/models"
	"github.com/anjiri1684/parkspace/notifications"
	"github.com/anjiri1684/parkspace/utils"
)

const (
	reminderJobName = "booking_start_reminders"
	reminderLead    = 60 * time.Minute
	reminderWindow  = 5 * time.Minute
)

func SendBookingReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	_ = metrics.Default.CronMetrics().Track(reminderJobName, func() error {
		n, err := RemindUpcoming(ctx, time.Now())
		if err != nil {
			logger.Log.Error().Err(err).Str("job", reminderJobName).Msg("job failed")
			return err
		}
		if n > 0 {
			logger.Log.Info().Str("job", reminderJobName).Int("reminded", n).Msg("reminders sent")
		}
		return nil
	})
}

// RemindUpcoming notifies the customer and the space owner of every confirmed
// booking starting in [now+60m, now+65m). It returns the number of bookings
// reminded.
func RemindUpcoming(ctx context.Context, now time.Time) (int, error) {
	lowerBound := now.Add(reminderLead)
	upperBound := lowerBound.Add(reminderWindow)

	days := []string{lowerBound.Format("2006-01-02")}
	if d := upperBound.Format("2006-01-02"); d != days[0] {
		days = append(days, d)
	}

	var upcoming []models.Booking
	err := database.DB.WithContext(ctx).
		Preload("ParkingSpace").
		Where("status = ? AND date IN ?", models.BookingConfirmed, days).
		Find(&upcoming).Error
	if err != nil {
		return 0, fmt.Errorf("load upcoming bookings: %w", err)
	}

	reminded := 0
	for _, booking := range upcoming {
		start, err := utils.WindowStart(booking.Date, booking.StartTime, now.Location())
		if err != nil {
			logger.Log.Warn().Err(err).Str("booking_id", booking.BookingID).Msg("skipping booking with unreadable window")
			continue
		}
		if start.Before(lowerBound) || !start.Before(upperBound) {
			continue
		}

		logger.Log.Info().Str("booking_id", booking.BookingID).Msg("sending start reminder")
		message := fmt.Sprintf("Booking %s at %s starts at %s.", booking.BookingID, booking.ParkingSpace.Name, booking.StartTime)
		reminder := notifications.Notification{
			Type:      notifications.TypeInfo,
			Title:     "Your parking starts in 1 hour",
			Message:   message,
			BookingID: booking.BookingID,
		}
		notifications.Notify(booking.CustomerID, reminder)
		notifications.Notify(booking.ParkingSpace.OwnerID, notifications.Notification{
			Type:      notifications.TypeInfo,
			Title:     "Upcoming arrival",
			Message:   message,
			BookingID: booking.BookingID,
		})
		reminded++
	}
	return reminded, nil
}
