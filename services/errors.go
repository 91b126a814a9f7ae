package services

import (
	"github.com/anjiri1684/parkspace/apperror"
	"github.com/anjiri1684/parkspace/models"
	"github.com/google/uuid"
)

const (
	CodeMissingCustomerID        = "MISSING_CUSTOMER_ID"
	CodeMissingParkingSpaceID    = "MISSING_PARKING_SPACE_ID"
	CodeMissingCustomerName      = "MISSING_CUSTOMER_NAME"
	CodeMissingDate              = "MISSING_DATE"
	CodeMissingStartTime         = "MISSING_START_TIME"
	CodeMissingDuration          = "MISSING_DURATION"
	CodeInvalidAmount            = "INVALID_AMOUNT"
	CodeInvalidTimeFormat        = "INVALID_TIME_FORMAT"
	CodeInvalidDateFormat        = "INVALID_DATE_FORMAT"
	CodeInvalidTimeRange         = "INVALID_TIME_RANGE"
	CodeParkingSpaceNotFound     = "PARKING_SPACE_NOT_FOUND"
	CodeParkingSpaceUnavailable  = "PARKING_SPACE_UNAVAILABLE"
	CodeInvalidBookingID         = "INVALID_BOOKING_ID"
	CodeBookingNotFound          = "BOOKING_NOT_FOUND"
	CodeBookingNotModifiable     = "BOOKING_NOT_MODIFIABLE"
	CodeBookingNotCancellable    = "BOOKING_NOT_CANCELLABLE"
	CodeBookingNotCompletable    = "BOOKING_NOT_COMPLETABLE"
	CodeMissingPaymentProof      = "MISSING_PAYMENT_PROOF"
	CodePaymentNotPending        = "PAYMENT_NOT_PENDING"
	CodeMissingPaymentScreenshot = "MISSING_PAYMENT_SCREENSHOT"
	CodeMissingRejectionReason   = "MISSING_REJECTION_REASON"
	CodeMissingCancelReason      = "MISSING_CANCELLATION_REASON"
	CodeReceiptNotAvailable      = "RECEIPT_NOT_AVAILABLE"
	CodeInvalidStatus            = "INVALID_STATUS"
	CodeInvalidPaymentStatus     = "INVALID_PAYMENT_STATUS"
	CodeInvalidSpotCounts        = "INVALID_SPOT_COUNTS"
	CodeInvalidPrice             = "INVALID_PRICE"
	CodeInvalidPoints            = "INVALID_POINTS"
	CodeMissingAction            = "MISSING_ACTION"
	CodeUserPointsNotFound       = "USER_POINTS_NOT_FOUND"
	CodeAchievementNotFound      = "ACHIEVEMENT_NOT_FOUND"
	CodeAchievementExists        = "ACHIEVEMENT_EXISTS"
	CodeUserNotFound             = "USER_NOT_FOUND"
	CodeEmailExists              = "EMAIL_EXISTS"
	CodeInvalidCredentials       = "INVALID_CREDENTIALS"
	CodeAccountDisabled          = apperror.CodeAccountDisabled
)

// Actor is the authenticated caller a service acts on behalf of.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }
