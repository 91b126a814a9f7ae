package jobs

import (
	"context"
	"time"

	"github.com/anjiri1684/parkspace/logger"
	"github.com/anjiri1684/parkspace/metrics"
	"github.com/anjiri1684/parkspace/services"
)

const completionJobName = "complete_elapsed_bookings"

// CompleteElapsedBookings marks confirmed bookings whose window has ended as
// completed, crediting the completion reward.
func CompleteElapsedBookings() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	_ = metrics.Default.CronMetrics().Track(completionJobName, func() error {
		n, err := services.CompleteElapsed(ctx, time.Now())
		if err != nil {
			logger.Log.Error().Err(err).Str("job", completionJobName).Msg("job failed")
			return err
		}
		if n > 0 {
			logger.Log.Info().Str("job", completionJobName).Int("completed", n).Msg("bookings completed")
		}
		return nil
	})
}
