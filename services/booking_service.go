package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/anjiri1684/parkspace/apperror"
	"github.com/anjiri1684/parkspace/cache"
	config "github.com/anjiri1684/parkspace/configs"
	"github.com/anjiri1684/parkspace/database"
	"github.com/anjiri1684/parkspace/logger"
	"github.com/anjiri1684/parkspace/metrics"
	"github.com/anjiri1684/parkspace/models"
	"github.com/anjiri1684/parkspace/notifications"
	"github.com/anjiri1684/parkspace/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateBookingInput struct {
	CustomerID        uuid.UUID
	ParkingSpaceID    string
	CustomerName      string
	CustomerPhone     *string
	VehicleNumber     *string
	VehicleType       *string
	Date              string
	StartTime         string
	EndTime           string
	Duration          string
	Amount            int
	PaymentScreenshot *string
	TransactionID     *string
}

type ModifyBookingInput struct {
	Ref       string
	Date      *string
	StartTime *string
	EndTime   *string
}

type PaymentProofInput struct {
	Ref               string
	PaymentScreenshot string
	TransactionID     string
}

type BookingFilter struct {
	Status        string
	PaymentStatus string
	Page          Page
}

func (f BookingFilter) validate() error {
	if f.Status != "" && !models.IsValidBookingStatus(f.Status) {
		return apperror.BadRequest(CodeInvalidStatus, fmt.Sprintf("invalid status %q", f.Status))
	}
	if f.PaymentStatus != "" && !models.IsValidPaymentStatus(f.PaymentStatus) {
		return apperror.BadRequest(CodeInvalidPaymentStatus, fmt.Sprintf("invalid payment status %q", f.PaymentStatus))
	}
	return nil
}

func (f BookingFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Status != "" {
		q = q.Where("bookings.status = ?", f.Status)
	}
	if f.PaymentStatus != "" {
		q = q.Where("bookings.payment_status = ?", f.PaymentStatus)
	}
	return q
}

// CreateBooking validates the request and stores a booking in (pending, pending).
// When EndTime is empty it is derived from Duration.
func CreateBooking(in CreateBookingInput) (booking *models.Booking, err error) {
	defer func() { recordTransition("create", err) }()

	if in.CustomerID == uuid.Nil {
		return nil, apperror.BadRequest(CodeMissingCustomerID, "customer id is required")
	}
	spaceRef := strings.TrimSpace(in.ParkingSpaceID)
	if spaceRef == "" {
		return nil, apperror.BadRequest(CodeMissingParkingSpaceID, "parking space id is required")
	}
	name := strings.TrimSpace(in.CustomerName)
	if name == "" {
		return nil, apperror.BadRequest(CodeMissingCustomerName, "customer name is required")
	}
	date := strings.TrimSpace(in.Date)
	if date == "" {
		return nil, apperror.BadRequest(CodeMissingDate, "date is required")
	}
	start := strings.TrimSpace(in.StartTime)
	if start == "" {
		return nil, apperror.BadRequest(CodeMissingStartTime, "start time is required")
	}
	duration := strings.TrimSpace(in.Duration)
	if duration == "" {
		return nil, apperror.BadRequest(CodeMissingDuration, "duration is required")
	}
	if in.Amount <= 0 {
		return nil, apperror.BadRequest(CodeInvalidAmount, "amount must be greater than zero")
	}
	if err := utils.ValidateDate(date); err != nil {
		return nil, windowError(err)
	}

	end, minutes, err := createWindow(start, strings.TrimSpace(in.EndTime), duration)
	if err != nil {
		return nil, err
	}

	spaceID, err := uuid.Parse(spaceRef)
	if err != nil {
		return nil, apperror.NotFound(CodeParkingSpaceNotFound, "parking space not found")
	}

	booking = &models.Booking{
		CustomerID:        in.CustomerID,
		ParkingSpaceID:    spaceID,
		CustomerName:      name,
		CustomerPhone:     trimmedOrNil(in.CustomerPhone),
		VehicleNumber:     trimmedOrNil(in.VehicleNumber),
		VehicleType:       trimmedOrNil(in.VehicleType),
		Date:              date,
		StartTime:         start,
		EndTime:           end,
		Duration:          duration,
		DurationMinutes:   minutes,
		Amount:            in.Amount,
		Status:            models.BookingPending,
		PaymentStatus:     models.PaymentPending,
		PaymentScreenshot: trimmedOrNil(in.PaymentScreenshot),
		TransactionID:     trimmedOrNil(in.TransactionID),
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var space models.ParkingSpace
		if err := tx.Select("id", "owner_id", "status").First(&space, "id = ?", spaceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound(CodeParkingSpaceNotFound, "parking space not found")
			}
			return fmt.Errorf("load parking space: %w", err)
		}
		if space.Status != models.SpaceStatusActive {
			return apperror.Conflict(CodeParkingSpaceUnavailable, "parking space is not accepting bookings")
		}

		code, err := utils.GenerateUniqueBookingCode(tx)
		if err != nil {
			return err
		}
		booking.BookingID = code
		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("create booking: %w", err)
		}
		booking.ParkingSpace = space
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateStats(booking.ParkingSpace.OwnerID)
	logger.Log.Info().
		Str("booking_id", booking.BookingID).
		Str("customer_id", booking.CustomerID.String()).
		Int("amount", booking.Amount).
		Msg("booking created")
	return reloadBooking(database.DB, booking.ID)
}

// createWindow returns the end time and authoritative length of a new booking.
func createWindow(start, end, duration string) (string, int, error) {
	startMinutes, err := utils.ParseClock(start)
	if err != nil {
		return "", 0, windowError(err)
	}
	hours := utils.ParseDurationHours(duration)
	if end != "" {
		minutes, err := utils.WindowMinutes(start, end)
		if err != nil {
			return "", 0, windowError(err)
		}
		// a parseable duration must agree with the explicit window
		if hours > 0 && int(math.Round(hours*60)) != minutes {
			return "", 0, apperror.BadRequest(CodeInvalidTimeRange,
				fmt.Sprintf("duration %q does not match the %s-%s window", duration, start, end))
		}
		return end, minutes, nil
	}

	if hours <= 0 {
		return "", 0, apperror.BadRequest(CodeMissingDuration, "duration must describe a positive length such as \"2 hours\"")
	}
	minutes := int(math.Round(hours * 60))
	if startMinutes+minutes >= 24*60 {
		return "", 0, apperror.BadRequest(CodeInvalidTimeRange, "bookings cannot run past midnight")
	}
	computed, err := utils.EndTimeFor(start, hours)
	if err != nil {
		return "", 0, windowError(err)
	}
	return computed, minutes, nil
}

func windowError(err error) error {
	switch {
	case errors.Is(err, utils.ErrInvalidTimeRange):
		return apperror.BadRequest(CodeInvalidTimeRange, "end time must be after start time")
	case errors.Is(err, utils.ErrInvalidClock):
		return apperror.BadRequest(CodeInvalidTimeFormat, "times must use the HH:MM format")
	case errors.Is(err, utils.ErrInvalidDate):
		return apperror.BadRequest(CodeInvalidDateFormat, "date must use the YYYY-MM-DD format")
	}
	return err
}

type bookingRef struct {
	id   uuid.UUID
	code string
}

// parseBookingRef accepts either the record UUID or the BK code.
func parseBookingRef(ref string) (bookingRef, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return bookingRef{}, apperror.BadRequest(CodeInvalidBookingID, "booking id is required")
	}
	if id, err := uuid.Parse(ref); err == nil {
		return bookingRef{id: id}, nil
	}
	if strings.HasPrefix(ref, "BK") && len(ref) > 2 {
		return bookingRef{code: ref}, nil
	}
	return bookingRef{}, apperror.BadRequest(CodeInvalidBookingID, "booking id is malformed")
}

func findBooking(tx *gorm.DB, ref bookingRef) (*models.Booking, error) {
	var booking models.Booking
	q := tx.Preload("ParkingSpace")
	if ref.id != uuid.Nil {
		q = q.Where("bookings.id = ?", ref.id)
	} else {
		q = q.Where("bookings.booking_id = ?", ref.code)
	}
	if err := q.First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(CodeBookingNotFound, "booking not found")
		}
		return nil, fmt.Errorf("load booking: %w", err)
	}
	return &booking, nil
}

func reloadBooking(tx *gorm.DB, id uuid.UUID) (*models.Booking, error) {
	return findBooking(tx, bookingRef{id: id})
}

// guardedUpdate applies updates only while the row still matches guard.
// Zero affected rows means either the booking vanished or it left the
// expected state, reported as conflict.
func guardedUpdate(tx *gorm.DB, id uuid.UUID, guard func(*gorm.DB) *gorm.DB, updates map[string]interface{}, conflict error) error {
	result := guard(tx.Model(&models.Booking{}).Where("id = ?", id)).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("update booking: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}
	var count int64
	if err := tx.Model(&models.Booking{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("recheck booking: %w", err)
	}
	if count == 0 {
		return apperror.NotFound(CodeBookingNotFound, "booking not found")
	}
	return conflict
}

func isBookingCustomer(b *models.Booking, actor Actor) bool {
	return actor.IsAdmin() || b.CustomerID == actor.UserID
}

func isSpaceOwner(b *models.Booking, actor Actor) bool {
	return b.ParkingSpace.OwnerID != uuid.Nil && b.ParkingSpace.OwnerID == actor.UserID
}

func canViewBooking(b *models.Booking, actor Actor) bool {
	return isBookingCustomer(b, actor) || isSpaceOwner(b, actor)
}

var errNoBookingAccess = apperror.Forbidden("you do not have access to this booking")

func GetBooking(actor Actor, ref string) (*models.Booking, error) {
	parsed, err := parseBookingRef(ref)
	if err != nil {
		return nil, err
	}
	booking, err := findBooking(database.DB, parsed)
	if err != nil {
		return nil, err
	}
	if !canViewBooking(booking, actor) {
		return nil, errNoBookingAccess
	}
	return booking, nil
}

// ModifyBooking edits date and time fields. A changed window recomputes the
// duration and rescales the amount at the booking's original hourly rate.
func ModifyBooking(actor Actor, in ModifyBookingInput) (booking *models.Booking, err error) {
	defer func() { recordTransition("modify", err) }()

	parsed, err := parseBookingRef(in.Ref)
	if err != nil {
		return nil, err
	}
	if blank(in.Date) && blank(in.StartTime) && blank(in.EndTime) {
		return nil, apperror.BadRequest(apperror.CodeValidation, "provide a date, start_time or end_time to modify")
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		current, err := findBooking(tx, parsed)
		if err != nil {
			return err
		}
		if !isBookingCustomer(current, actor) {
			return errNoBookingAccess
		}
		if !models.IsModifiable(current.Status) {
			return notModifiable(current.Status)
		}

		resolved, err := utils.ResolveWindow(
			utils.Window{Date: current.Date, StartTime: current.StartTime, EndTime: current.EndTime},
			utils.WindowPatch{Date: in.Date, StartTime: in.StartTime, EndTime: in.EndTime},
		)
		if err != nil {
			return windowError(err)
		}

		now := time.Now()
		updates := map[string]interface{}{
			"date":        resolved.Date,
			"start_time":  resolved.StartTime,
			"end_time":    resolved.EndTime,
			"modified_at": now,
		}
		if resolved.TimesChanged {
			updates["duration"] = utils.FormatDuration(resolved.DurationMinutes)
			updates["duration_minutes"] = resolved.DurationMinutes
			updates["amount"] = utils.RecalculateAmount(
				current.Amount,
				originalMinutes(current),
				resolved.DurationMinutes,
				config.App.DefaultHourlyRate,
			)
		}

		guard := func(q *gorm.DB) *gorm.DB {
			return q.Where("status IN ? AND amount = ?", models.ModifiableStatuses(), current.Amount)
		}
		if err := guardedUpdate(tx, current.ID, guard, updates, notModifiable(current.Status)); err != nil {
			return err
		}
		booking, err = reloadBooking(tx, current.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	notifications.Notify(booking.CustomerID, notifications.Notification{
		Type:      notifications.TypeInfo,
		Title:     "Booking updated",
		Message:   fmt.Sprintf("Booking %s now runs %s %s-%s.", booking.BookingID, booking.Date, booking.StartTime, booking.EndTime),
		BookingID: booking.BookingID,
	})
	invalidateStats(booking.ParkingSpace.OwnerID)
	return booking, nil
}

func notModifiable(status string) error {
	return apperror.Conflict(CodeBookingNotModifiable, fmt.Sprintf("a %s booking cannot be modified", status))
}

// originalMinutes prefers the structured length and falls back to parsing
// the display string for rows that predate it.
func originalMinutes(b *models.Booking) int {
	if b.DurationMinutes > 0 {
		return b.DurationMinutes
	}
	return int(math.Round(utils.ParseDurationHours(b.Duration) * 60))
}

// UploadPaymentProof attaches a screenshot URI and/or transaction id. Neither
// status changes; review happens in ApprovePayment or RejectPayment.
func UploadPaymentProof(actor Actor, in PaymentProofInput) (booking *models.Booking, err error) {
	defer func() { recordTransition("upload_payment", err) }()

	parsed, err := parseBookingRef(in.Ref)
	if err != nil {
		return nil, err
	}
	screenshot := strings.TrimSpace(in.PaymentScreenshot)
	transactionID := strings.TrimSpace(in.TransactionID)
	if screenshot == "" && transactionID == "" {
		return nil, apperror.BadRequest(CodeMissingPaymentProof, "a payment screenshot or transaction id is required")
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		current, err := findBooking(tx, parsed)
		if err != nil {
			return err
		}
		if !isBookingCustomer(current, actor) {
			return errNoBookingAccess
		}

		updates := map[string]interface{}{}
		if screenshot != "" {
			updates["payment_screenshot"] = screenshot
		}
		if transactionID != "" {
			updates["transaction_id"] = transactionID
		}
		if err := guardedUpdate(tx, current.ID, pendingPayment, updates, errPaymentNotPending); err != nil {
			return err
		}
		booking, err = reloadBooking(tx, current.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	notifications.Notify(booking.ParkingSpace.OwnerID, notifications.Notification{
		Type:      notifications.TypeInfo,
		Title:     "Payment proof received",
		Message:   fmt.Sprintf("Booking %s is waiting for payment verification.", booking.BookingID),
		BookingID: booking.BookingID,
	})
	return booking, nil
}

var errPaymentNotPending = apperror.Conflict(CodePaymentNotPending, "payment is not pending verification")

func pendingPayment(q *gorm.DB) *gorm.DB {
	return q.Where("payment_status = ? AND status = ?", models.PaymentPending, models.BookingPending)
}

// CancelBooking is the customer-initiated cancellation.
func CancelBooking(actor Actor, ref, reason string) (booking *models.Booking, err error) {
	defer func() { recordTransition("cancel", err) }()

	parsed, err := parseBookingRef(ref)
	if err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperror.BadRequest(CodeMissingCancelReason, "a cancellation reason is required")
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		current, err := findBooking(tx, parsed)
		if err != nil {
			return err
		}
		if !isBookingCustomer(current, actor) {
			return errNoBookingAccess
		}
		if !models.CanTransitionBooking(current.Status, models.BookingCancelled) {
			return notCancellable(current.Status)
		}

		guard := func(q *gorm.DB) *gorm.DB {
			return q.Where("status IN ?", []string{models.BookingPending, models.BookingConfirmed})
		}
		updates := map[string]interface{}{
			"status":              models.BookingCancelled,
			"cancellation_reason": reason,
		}
		if err := guardedUpdate(tx, current.ID, guard, updates, notCancellable(current.Status)); err != nil {
			return err
		}
		booking, err = reloadBooking(tx, current.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	notifications.Notify(booking.ParkingSpace.OwnerID, notifications.Notification{
		Type:      notifications.TypeWarning,
		Title:     "Booking cancelled",
		Message:   fmt.Sprintf("Booking %s was cancelled: %s", booking.BookingID, reason),
		BookingID: booking.BookingID,
	})
	notifications.Notify(booking.CustomerID, notifications.Notification{
		Type:      notifications.TypeInfo,
		Title:     "Booking cancelled",
		Message:   fmt.Sprintf("Booking %s has been cancelled.", booking.BookingID),
		BookingID: booking.BookingID,
	})
	invalidateStats(booking.ParkingSpace.OwnerID)
	return booking, nil
}

func notCancellable(status string) error {
	return apperror.Conflict(CodeBookingNotCancellable, fmt.Sprintf("a %s booking cannot be cancelled", status))
}

// CompleteBooking closes a confirmed booking whose window has ended. Only the
// space owner or an admin may do this.
func CompleteBooking(actor Actor, ref string, now time.Time) (booking *models.Booking, err error) {
	defer func() { recordTransition("complete", err) }()

	parsed, err := parseBookingRef(ref)
	if err != nil {
		return nil, err
	}

	var check *AchievementCheck
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		current, err := findBooking(tx, parsed)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && !isSpaceOwner(current, actor) {
			return errNoBookingAccess
		}
		booking, check, err = completeInTx(tx, current, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	afterCompletion(booking, check)
	return booking, nil
}

func completeInTx(tx *gorm.DB, current *models.Booking, now time.Time) (*models.Booking, *AchievementCheck, error) {
	if current.Status != models.BookingConfirmed {
		return nil, nil, apperror.Conflict(CodeBookingNotCompletable, fmt.Sprintf("a %s booking cannot be completed", current.Status))
	}
	ended, err := windowEnded(current, now)
	if err != nil {
		return nil, nil, err
	}
	if !ended {
		return nil, nil, apperror.Conflict(CodeBookingNotCompletable, "the booking window has not ended yet")
	}

	guard := func(q *gorm.DB) *gorm.DB { return q.Where("status = ?", models.BookingConfirmed) }
	updates := map[string]interface{}{
		"status":       models.BookingCompleted,
		"completed_at": now,
	}
	conflict := apperror.Conflict(CodeBookingNotCompletable, "booking is no longer confirmed")
	if err := guardedUpdate(tx, current.ID, guard, updates, conflict); err != nil {
		return nil, nil, err
	}

	bookingID := current.ID
	check, err := awardWithAchievements(tx, PointsAward{
		UserID:      current.CustomerID,
		Points:      pointsForCompletedBooking,
		Action:      ActionBookingCompleted,
		Description: fmt.Sprintf("Completed booking %s", current.BookingID),
		BookingID:   &bookingID,
	})
	if err != nil {
		return nil, nil, err
	}

	booking, err := reloadBooking(tx, current.ID)
	if err != nil {
		return nil, nil, err
	}
	return booking, check, nil
}

func windowEnded(b *models.Booking, now time.Time) (bool, error) {
	end, err := utils.WindowEnd(b.Date, b.EndTime, now.Location())
	if err != nil {
		return false, windowError(err)
	}
	return !now.Before(end), nil
}

func afterCompletion(booking *models.Booking, check *AchievementCheck) {
	logAward(PointsAward{UserID: booking.CustomerID, Points: pointsForCompletedBooking, Action: ActionBookingCompleted}, check)
	notifications.Notify(booking.CustomerID, notifications.Notification{
		Type:      notifications.TypeSuccess,
		Title:     "Booking completed",
		Message:   fmt.Sprintf("Thanks for parking with us. You earned %d points.", pointsForCompletedBooking),
		BookingID: booking.BookingID,
	})
	notifyUnlocks(booking.CustomerID, check)
	invalidateStats(booking.ParkingSpace.OwnerID)
}

// CompleteElapsed completes every confirmed booking whose window ended
// before now. Failures on individual bookings are logged and skipped.
func CompleteElapsed(ctx context.Context, now time.Time) (int, error) {
	var candidates []models.Booking
	err := database.DB.WithContext(ctx).
		Preload("ParkingSpace").
		Where("status = ? AND date <= ?", models.BookingConfirmed, now.Format("2006-01-02")).
		Order("date asc").
		Find(&candidates).Error
	if err != nil {
		return 0, fmt.Errorf("load confirmed bookings: %w", err)
	}

	completed := 0
	for i := range candidates {
		candidate := &candidates[i]
		ended, err := windowEnded(candidate, now)
		if err != nil || !ended {
			continue
		}

		var booking *models.Booking
		var check *AchievementCheck
		err = database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			booking, check, err = completeInTx(tx, candidate, now)
			return err
		})
		recordTransition("complete", err)
		if err != nil {
			if !apperror.HasCode(err, CodeBookingNotCompletable) {
				logger.Log.Error().Err(err).Str("booking_id", candidate.BookingID).Msg("auto-completing booking failed")
			}
			continue
		}
		afterCompletion(booking, check)
		completed++
	}
	return completed, nil
}

// DeleteBooking removes a booking and detaches its points history.
func DeleteBooking(ref string) (err error) {
	defer func() { recordTransition("delete", err) }()

	parsed, err := parseBookingRef(ref)
	if err != nil {
		return err
	}
	var ownerID uuid.UUID
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		current, err := findBooking(tx, parsed)
		if err != nil {
			return err
		}
		ownerID = current.ParkingSpace.OwnerID
		return deleteBookingsInTx(tx, []uuid.UUID{current.ID})
	})
	if err != nil {
		return err
	}
	invalidateStats(ownerID)
	return nil
}

func deleteBookingsInTx(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Model(&models.PointsHistory{}).Where("booking_id IN ?", ids).Update("booking_id", nil).Error; err != nil {
		return fmt.Errorf("detach points history: %w", err)
	}
	if err := tx.Where("id IN ?", ids).Delete(&models.Booking{}).Error; err != nil {
		return fmt.Errorf("delete bookings: %w", err)
	}
	return nil
}

func ListCustomerBookings(customerID uuid.UUID, filter BookingFilter) (PageResult[models.Booking], error) {
	return listBookings(filter, func(q *gorm.DB) *gorm.DB {
		return q.Where("bookings.customer_id = ?", customerID)
	})
}

func ListOwnerBookings(ownerID uuid.UUID, filter BookingFilter) (PageResult[models.Booking], error) {
	return listBookings(filter, func(q *gorm.DB) *gorm.DB {
		return q.Joins("JOIN parking_spaces ON parking_spaces.id = bookings.parking_space_id").
			Where("parking_spaces.owner_id = ?", ownerID)
	})
}

func ListAllBookings(filter BookingFilter) (PageResult[models.Booking], error) {
	return listBookings(filter, func(q *gorm.DB) *gorm.DB { return q })
}

func listBookings(filter BookingFilter, scope func(*gorm.DB) *gorm.DB) (PageResult[models.Booking], error) {
	if err := filter.validate(); err != nil {
		return PageResult[models.Booking]{}, err
	}

	var total int64
	if err := filter.apply(scope(database.DB.Model(&models.Booking{}))).Count(&total).Error; err != nil {
		return PageResult[models.Booking]{}, fmt.Errorf("count bookings: %w", err)
	}

	var bookings []models.Booking
	err := filter.apply(scope(database.DB.Model(&models.Booking{}))).
		Preload("ParkingSpace").
		Preload("Customer").
		Order("bookings.created_at desc").
		Limit(filter.Page.Size).
		Offset(filter.Page.Offset()).
		Find(&bookings).Error
	if err != nil {
		return PageResult[models.Booking]{}, fmt.Errorf("list bookings: %w", err)
	}
	return NewPageResult(bookings, total, filter.Page), nil
}

func notifyUnlocks(userID uuid.UUID, check *AchievementCheck) {
	if check == nil {
		return
	}
	for _, a := range check.NewlyUnlocked {
		notifications.Notify(userID, notifications.Notification{
			Type:    notifications.TypeSuccess,
			Title:   "Achievement unlocked",
			Message: fmt.Sprintf("%s: %s (+%d points)", a.Name, a.Description, a.PointsRequired),
		})
	}
}

func recordTransition(name string, err error) {
	if err == nil {
		metrics.Default.Transition(name, "ok")
		return
	}
	metrics.Default.Transition(name, apperror.As(err).Code)
}

func invalidateStats(ownerID uuid.UUID) {
	keys := []string{cache.Key("admin")}
	if ownerID != uuid.Nil {
		keys = append(keys, cache.Key("owner", ownerID.String()))
	}
	cache.Stats.Invalidate(context.Background(), keys...)
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
