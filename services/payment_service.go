package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/anjiri1684/parkspace/apperror"
	"github.com/anjiri1684/parkspace/database"
	"github.com/anjiri1684/parkspace/logger"
	"github.com/anjiri1684/parkspace/models"
	"github.com/anjiri1684/parkspace/notifications"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PendingVerification is a booking awaiting payment review, with the
// customer and space display fields joined in.
type PendingVerification struct {
	ID                  uuid.UUID `json:"id"`
	BookingID           string    `json:"booking_id"`
	CustomerID          uuid.UUID `json:"customer_id"`
	CustomerName        string    `json:"customer_name"`
	CustomerEmail       string    `json:"customer_email"`
	CustomerPhone       *string   `json:"customer_phone"`
	ParkingSpaceID      uuid.UUID `json:"parking_space_id"`
	ParkingSpaceName    string    `json:"parking_space_name"`
	ParkingSpaceAddress string    `json:"parking_space_address"`
	OwnerID             uuid.UUID `json:"owner_id"`
	Date                string    `json:"date"`
	StartTime           string    `json:"start_time"`
	EndTime             string    `json:"end_time"`
	Duration            string    `json:"duration"`
	Amount              int       `json:"amount"`
	PaymentScreenshot   *string   `json:"payment_screenshot"`
	TransactionID       *string   `json:"transaction_id"`
	CreatedAt           time.Time `json:"created_at"`
}

// ListPendingVerifications returns bookings whose payment is awaiting review,
// oldest first. A non-nil ownerID restricts the list to that owner's spaces.
func ListPendingVerifications(ownerID *uuid.UUID) ([]PendingVerification, error) {
	q := database.DB.Table("bookings").
		Select(`bookings.id, bookings.booking_id, bookings.customer_id, bookings.customer_name,
			users.email AS customer_email, bookings.customer_phone,
			bookings.parking_space_id, parking_spaces.name AS parking_space_name,
			parking_spaces.address AS parking_space_address, parking_spaces.owner_id,
			bookings.date, bookings.start_time, bookings.end_time, bookings.duration, bookings.amount,
			bookings.payment_screenshot, bookings.transaction_id, bookings.created_at`).
		Joins("JOIN parking_spaces ON parking_spaces.id = bookings.parking_space_id").
		Joins("LEFT JOIN users ON users.id = bookings.customer_id").
		Where("bookings.payment_status = ? AND bookings.status = ?", models.PaymentPending, models.BookingPending)
	if ownerID != nil {
		q = q.Where("parking_spaces.owner_id = ?", *ownerID)
	}

	pending := make([]PendingVerification, 0)
	if err := q.Order("bookings.created_at asc").Scan(&pending).Error; err != nil {
		return nil, fmt.Errorf("list pending verifications: %w", err)
	}
	return pending, nil
}

// checkReviewer enforces the owner review flow: the reviewer must own the
// space. Admins review any booking.
func checkReviewer(b *models.Booking, reviewer Actor) error {
	if reviewer.IsAdmin() {
		return nil
	}
	if !isSpaceOwner(b, reviewer) {
		return apperror.Forbidden("you can only review payments for your own parking spaces")
	}
	return nil
}

// ApprovePayment moves (pending, pending) to (confirmed, verified) and
// credits the customer. A second approval finds no pending row and fails
// with PAYMENT_NOT_PENDING without writing anything.
func ApprovePayment(reviewer Actor, ref string) (booking *models.Booking, err error) {
	defer func() { recordTransition("approve", err) }()

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
		if err := checkReviewer(current, reviewer); err != nil {
			return err
		}
		if !reviewer.IsAdmin() && !current.HasScreenshot() {
			return apperror.BadRequest(CodeMissingPaymentScreenshot, "a payment screenshot is required before approval")
		}

		now := time.Now()
		reviewerID := reviewer.UserID
		updates := map[string]interface{}{
			"status":         models.BookingConfirmed,
			"payment_status": models.PaymentVerified,
			"verified_at":    now,
			"verified_by":    reviewerID,
		}
		if err := guardedUpdate(tx, current.ID, pendingPayment, updates, errPaymentNotPending); err != nil {
			return err
		}

		bookingID := current.ID
		check, err = awardWithAchievements(tx, PointsAward{
			UserID:      current.CustomerID,
			Points:      pointsForConfirmedBooking,
			Action:      ActionBookingConfirmed,
			Description: fmt.Sprintf("Payment verified for booking %s", current.BookingID),
			BookingID:   &bookingID,
		})
		if err != nil {
			return err
		}
		booking, err = reloadBooking(tx, current.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logAward(PointsAward{UserID: booking.CustomerID, Points: pointsForConfirmedBooking, Action: ActionBookingConfirmed}, check)
	logger.Log.Info().
		Str("booking_id", booking.BookingID).
		Str("reviewer_id", reviewer.UserID.String()).
		Msg("payment approved")
	notifications.Notify(booking.CustomerID, notifications.Notification{
		Type:      notifications.TypeSuccess,
		Title:     "Payment approved",
		Message:   fmt.Sprintf("Your booking %s is confirmed.", booking.BookingID),
		BookingID: booking.BookingID,
	})
	notifyUnlocks(booking.CustomerID, check)
	invalidateStats(booking.ParkingSpace.OwnerID)
	return booking, nil
}

// RejectPayment cancels the booking and records the reason in one write.
func RejectPayment(reviewer Actor, ref, reason string) (booking *models.Booking, err error) {
	defer func() { recordTransition("reject", err) }()

	parsed, err := parseBookingRef(ref)
	if err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperror.BadRequest(CodeMissingRejectionReason, "a rejection reason is required")
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		current, err := findBooking(tx, parsed)
		if err != nil {
			return err
		}
		if err := checkReviewer(current, reviewer); err != nil {
			return err
		}

		now := time.Now()
		reviewerID := reviewer.UserID
		updates := map[string]interface{}{
			"status":              models.BookingCancelled,
			"payment_status":      models.PaymentRejected,
			"verification_reason": reason,
			"verified_at":         now,
			"verified_by":         reviewerID,
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

	logger.Log.Info().
		Str("booking_id", booking.BookingID).
		Str("reviewer_id", reviewer.UserID.String()).
		Msg("payment rejected")
	notifications.Notify(booking.CustomerID, notifications.Notification{
		Type:      notifications.TypeError,
		Title:     "Payment rejected",
		Message:   fmt.Sprintf("Booking %s was cancelled: %s", booking.BookingID, reason),
		BookingID: booking.BookingID,
	})
	invalidateStats(booking.ParkingSpace.OwnerID)
	return booking, nil
}

// VerifiedPayment is one row of the payments export.
type VerifiedPayment struct {
	BookingID        string    `json:"booking_id"`
	VerifiedAt       time.Time `json:"verified_at"`
	CustomerName     string    `json:"customer_name"`
	ParkingSpaceName string    `json:"parking_space_name"`
	Date             string    `json:"date"`
	StartTime        string    `json:"start_time"`
	EndTime          string    `json:"end_time"`
	Amount           int       `json:"amount"`
	TransactionID    string    `json:"transaction_id"`
}

// ListVerifiedPayments returns payments verified between the start of
// startDate and the end of endDate, oldest first.
func ListVerifiedPayments(startDate, endDate time.Time) ([]VerifiedPayment, error) {
	from := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, startDate.Location())
	to := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 0, 0, 0, 0, endDate.Location()).AddDate(0, 0, 1)
	if !to.After(from) {
		return nil, apperror.BadRequest(CodeInvalidTimeRange, "end_date must not be before start_date")
	}

	payments := make([]VerifiedPayment, 0)
	err := database.DB.Table("bookings").
		Select(`bookings.booking_id, bookings.verified_at, bookings.customer_name,
			parking_spaces.name AS parking_space_name, bookings.date, bookings.start_time,
			bookings.end_time, bookings.amount, COALESCE(bookings.transaction_id, '') AS transaction_id`).
		Joins("JOIN parking_spaces ON parking_spaces.id = bookings.parking_space_id").
		Where("bookings.payment_status = ?", models.PaymentVerified).
		Where("bookings.verified_at >= ? AND bookings.verified_at < ?", from, to).
		Order("bookings.verified_at asc").
		Scan(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("list verified payments: %w", err)
	}
	return payments, nil
}
