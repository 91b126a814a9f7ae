package jobs

import (
	"github.com/robfig/cron/v3"
)

const everyFiveMinutes = "*/5 * * * *"

// Schedule registers the background jobs on c.
func Schedule(c *cron.Cron) error {
	if _, err := c.AddFunc(everyFiveMinutes, CompleteElapsedBookings); err != nil {
		return err
	}
	if _, err := c.AddFunc(everyFiveMinutes, SendBookingReminders); err != nil {
		return err
	}
	return nil
}
