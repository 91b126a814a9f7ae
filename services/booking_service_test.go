package services

import (
	"context"
	"testing"
	"time"

	"github.com/anjiri1684/parkspace/apperror"
	"github.com/anjiri1684/parkspace/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCreateBookingStartsPendingPending(t *testing.T) {
	w := newWorld(t)

	booking := scenarioBooking(t, w.customer, w.space)

	assert.Equal(t, models.BookingPending, booking.Status)
	assert.Equal(t, models.PaymentPending, booking.PaymentStatus)
	assert.Regexp(t, `^BK\d+[A-Z0-9]{4}$`, booking.BookingID)
	assert.Equal(t, "12:00", booking.EndTime)
	assert.Equal(t, 120, booking.DurationMinutes)
	assert.Equal(t, "2 hours", booking.Duration)
	assert.Equal(t, w.space.ID, booking.ParkingSpace.ID)
}

func TestCreateBookingDerivesEndTimeFromDuration(t *testing.T) {
	w := newWorld(t)

	booking, err := CreateBooking(CreateBookingInput{
		CustomerID:     w.customer.ID,
		ParkingSpaceID: w.space.ID.String(),
		CustomerName:   "Jane",
		VehicleNumber:  strPtr("  KDA 123X "),
		Date:           "2024-03-01",
		StartTime:      "09:00",
		Duration:       "2h 30m",
		Amount:         125,
	})
	require.NoError(t, err)
	assert.Equal(t, "11:30", booking.EndTime)
	assert.Equal(t, 150, booking.DurationMinutes)
	require.NotNil(t, booking.VehicleNumber)
	assert.Equal(t, "KDA 123X", *booking.VehicleNumber)
}

func TestCreateBookingValidation(t *testing.T) {
	w := newWorld(t)
	valid := func() CreateBookingInput {
		return CreateBookingInput{
			CustomerID:     w.customer.ID,
			ParkingSpaceID: w.space.ID.String(),
			CustomerName:   "Jane",
			Date:           "2024-01-15",
			StartTime:      "10:00",
			EndTime:        "12:00",
			Duration:       "2 hours",
			Amount:         100,
		}
	}

	cases := []struct {
		name   string
		mutate func(*CreateBookingInput)
		code   string
	}{
		{"missing customer", func(in *CreateBookingInput) { in.CustomerID = uuid.Nil }, CodeMissingCustomerID},
		{"missing space", func(in *CreateBookingInput) { in.ParkingSpaceID = " " }, CodeMissingParkingSpaceID},
		{"missing name", func(in *CreateBookingInput) { in.CustomerName = "" }, CodeMissingCustomerName},
		{"missing date", func(in *CreateBookingInput) { in.Date = "" }, CodeMissingDate},
		{"missing start", func(in *CreateBookingInput) { in.StartTime = "" }, CodeMissingStartTime},
		{"missing duration", func(in *CreateBookingInput) { in.Duration = "" }, CodeMissingDuration},
		{"zero amount", func(in *CreateBookingInput) { in.Amount = 0 }, CodeInvalidAmount},
		{"bad clock", func(in *CreateBookingInput) { in.StartTime = "25:00" }, CodeInvalidTimeFormat},
		{"bad date", func(in *CreateBookingInput) { in.Date = "15/01/2024" }, CodeInvalidDateFormat},
		{"inverted window", func(in *CreateBookingInput) { in.EndTime = "09:00" }, CodeInvalidTimeRange},
		{"duration disagrees with window", func(in *CreateBookingInput) { in.EndTime = "11:00" }, CodeInvalidTimeRange},
		{"past midnight", func(in *CreateBookingInput) { in.EndTime = ""; in.StartTime = "23:00" }, CodeInvalidTimeRange},
		{"unparseable duration", func(in *CreateBookingInput) { in.EndTime = ""; in.Duration = "a while" }, CodeMissingDuration},
		{"unknown space", func(in *CreateBookingInput) { in.ParkingSpaceID = uuid.NewString() }, CodeParkingSpaceNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid()
			tc.mutate(&in)
			_, err := CreateBooking(in)
			requireCode(t, err, tc.code)
		})
	}

	var count int64
	require.NoError(t, w.db.Model(&models.Booking{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateBookingRejectsInactiveSpace(t *testing.T) {
	w := newWorld(t)
	pending := createSpace(t, w.db, w.owner, models.SpaceStatusPending)

	_, err := CreateBooking(CreateBookingInput{
		CustomerID:     w.customer.ID,
		ParkingSpaceID: pending.ID.String(),
		CustomerName:   "Jane",
		Date:           "2024-01-15",
		StartTime:      "10:00",
		Duration:       "1 hour",
		Amount:         50,
	})
	requireCode(t, err, CodeParkingSpaceUnavailable)
}

func TestCreateBookingRatePricesLaterModifications(t *testing.T) {
	w := newWorld(t)
	in := CreateBookingInput{
		CustomerID:     w.customer.ID,
		ParkingSpaceID: w.space.ID.String(),
		CustomerName:   "Jane",
		Date:           "2024-01-15",
		StartTime:      "10:00",
		EndTime:        "11:00",
		Duration:       "2 hours",
		Amount:         100,
	}
	_, err := CreateBooking(in)
	requireCode(t, err, CodeInvalidTimeRange)

	in.Duration = "1 hour"
	booking, err := CreateBooking(in)
	require.NoError(t, err)
	assert.Equal(t, 60, booking.DurationMinutes)

	updated, err := ModifyBooking(customerActor(w.customer), ModifyBookingInput{Ref: booking.BookingID, EndTime: strPtr("12:00")})
	require.NoError(t, err)
	assert.Equal(t, 120, updated.DurationMinutes)
	assert.Equal(t, 200, updated.Amount)
}

func TestCreateBookingKeepsWindowForFreeTextDuration(t *testing.T) {
	w := newWorld(t)
	booking, err := CreateBooking(CreateBookingInput{
		CustomerID:     w.customer.ID,
		ParkingSpaceID: w.space.ID.String(),
		CustomerName:   "Jane",
		Date:           "2024-01-15",
		StartTime:      "10:00",
		EndTime:        "11:30",
		Duration:       "morning slot",
		Amount:         75,
	})
	require.NoError(t, err)
	assert.Equal(t, 90, booking.DurationMinutes)
}

func TestModifyPreservesHourlyRate(t *testing.T) {
	w := newWorld(t)
	booking := scenarioBooking(t, w.customer, w.space)

	updated, err := ModifyBooking(customerActor(w.customer), ModifyBookingInput{
		Ref:     booking.BookingID,
		EndTime: strPtr("13:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, 150, updated.Amount)
	assert.Equal(t, "3h", updated.Duration)
	assert.Equal(t, 180, updated.DurationMinutes)
	assert.NotNil(t, updated.ModifiedAt)
}

func TestModifyShortensWindow(t *testing.T) {
	w := newWorld(t)
	booking := scenarioBooking(t, w.customer, w.space)

	updated, err := ModifyBooking(customerActor(w.customer), ModifyBookingInput{
		Ref:     booking.ID.String(),
		EndTime: strPtr("11:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "1h", updated.Duration)
	assert.Equal(t, 50, updated.Amount)
	assert.Equal(t, "10:00", updated.StartTime)
	assert.Equal(t, "2024-01-15", updated.Date)
}

func TestModifyDateOnlyKeepsAmount(t *testing.T) {
	w := newWorld(t)
	booking := scenarioBooking(t, w.customer, w.space)

	updated, err := ModifyBooking(customerActor(w.customer), ModifyBookingInput{
		Ref:  booking.BookingID,
		Date: strPtr("2024-02-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", updated.Date)
	assert.Equal(t, 100, updated.Amount)
	assert.Equal(t, "2 hours", updated.Duration)
	assert.NotNil(t, updated.ModifiedAt)
}

func TestModifyRejectsInvertedRange(t *testing.T) {
	w := newWorld(t)
	booking := scenarioBooking(t, w.customer, w.space)

	for _, patch := range []ModifyBookingInput{
		{Ref: booking.BookingID, StartTime: strPtr("12:00")},
		{Ref: booking.BookingID, StartTime: strPtr("13:00")},
		{Ref: booking.BookingID, StartTime: strPtr("14:00"), EndTime: strPtr("08:00")},
	} {
		_, err := ModifyBooking(customerActor(w.customer), patch)
		requireCode(t, err, CodeInvalidTimeRange)
	}

	reloaded, err := GetBooking(customerActor(w.customer), booking.BookingID)
	require.NoError(t, err)
	assert.Equal(t, "10:00", reloaded.StartTime)
	assert.Equal(t, "12:00", reloaded.EndTime)
	assert.Equal(t, 100, reloaded.Amount)
	assert.Nil(t, reloaded.ModifiedAt)
}

func TestModifyFallsBackToDefaultRate(t *testing.T) {
	w := newWorld(t)
	booking := scenarioBooking(t, w.customer, w.space)
	require.NoError(t, w.db.Model(&models.Booking{}).Where("id = ?", booking.ID).
		Updates(map[string]interface{}{"duration": "flexible", "duration_minutes": 0}).Error)

	updated, err := ModifyBooking(customerActor(w.customer), ModifyBookingInput{
		Ref:     booking.BookingID,
		EndTime: strPtr("11:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, 150, updated.Amount)
}

func TestModifyTerminalBookingIsRejected(t *testing.T) {
	w := newWorld(t)
	booking := scenarioBooking(t, w.customer, w.space)
	_, err := CancelBooking(customerActor(w.customer), booking.BookingID, "plans changed")
	require.NoError(t, err)

	_, err = ModifyBooking(customerActor(w.customer), ModifyBookingInput{Ref: booking.BookingID, EndTime: strPtr("11:00")})
	requireCode(t, err, CodeBookingNotModifiable)
	assert.Equal(t, 409, apperror.As(err).Status)
}

func TestModifyReferenceErrors(t *testing.T) {
	w := newWorld(t)
	actor := customerActor(w.customer)

	_, err := ModifyBooking(actor, ModifyBookingInput{Ref: "", EndTime: strPtr("11:00")})
	requireCode(t, err, CodeInvalidBookingID)

	_, err = ModifyBooking(actor, ModifyBookingInput{Ref: "not-a-booking", EndTime: strPtr("11:00")})
	requireCode(t, err, CodeInvalidBookingID)

	_, err = ModifyBooking(actor, ModifyBookingInput{Ref: "BK1700000000000ZZZZ", EndTime: strPtr("11:00")})
	requireCode(t, err, CodeBookingNotFound)
	assert.Equal(t, 404, apperror.As(err).Status)
}

func TestModifyByAnotherCustomerIsForbidden(t *testing.T) {
	w := newWorld(t)
	booking := scenarioBooking(t, w.customer, w.space)
	stranger := createUser(t, w.db, "stranger", models.RoleCustomer)

	_, err := ModifyBooking(customerActor(stranger), ModifyBookingInput{Ref: booking.BookingID, EndTime: strPtr("11:00")})
	requireCode(t, err, apperror.CodeForbidden)
}

func TestUploadPaymentProofKeepsStatuses(t *testing.T) {
	w := newWorld(t)
	booking := scenarioBooking(t, w.customer, w.space)
	actor := customerActor(w.customer)

	_, err := UploadPaymentProof(actor, PaymentProofInput{Ref: booking.BookingID, PaymentScreenshot: "  "})
	requireCode(t, err, CodeMissingPaymentProof)

	updated, err := UploadPaymentProof(actor, PaymentProofInput{
		Ref:               booking.BookingID,
		PaymentScreenshot: "https://res.cloudinary.com/demo/proof.png",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, updated.PaymentStatus)
	assert.Equal(t, models.BookingPending, updated.Status)
	assert.True(t, updated.HasScreenshot())
	assert.Nil(t, updated.TransactionID)

	updated, err = UploadPaymentProof(actor, PaymentProofInput{Ref: booking.BookingID, TransactionID: "QK12345"})
	require.NoError(t, err)
	require.NotNil(t, updated.TransactionID)
	assert.Equal(t, "QK12345", *updated.TransactionID)
	assert.True(t, updated.HasScreenshot())
}

func TestUploadPaymentProofAfterCancelConflicts(t *testing.T) {
	w := newWorld(t)
	booking := scenarioBooking(t, w.customer, w.space)
	actor := customerActor(w.customer)
	_, err := CancelBooking(actor, booking.BookingID, "no longer needed")
	require.NoError(t, err)

	_, err = UploadPaymentProof(actor, PaymentProofInput{Ref: booking.BookingID, TransactionID: "QK1"})
	requireCode(t, err, CodePaymentNotPending)
}

func TestCancelBooking(t *testing.T) {
	w := newWorld(t)
	booking := scenarioBooking(t, w.customer, w.space)
	actor := customerActor(w.customer)

	_, err := CancelBooking(actor, booking.BookingID, "   ")
	requireCode(t, err, CodeMissingCancelReason)

	cancelled, err := CancelBooking(actor, booking.BookingID, "  found another spot ")
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancellationReason)
	assert.Equal(t, "found another spot", *cancelled.CancellationReason)

	_, err = CancelBooking(actor, booking.BookingID, "again")
	requireCode(t, err, CodeBookingNotCancellable)
}

func confirmedBooking(t *testing.T, w world) *models.Booking {
	t.Helper()
	booking := scenarioBooking(t, w.customer, w.space)
	confirmed, err := ApprovePayment(customerActor(w.admin), booking.BookingID)
	require.NoError(t, err)
	return confirmed
}

func TestCompleteBookingAwardsPoints(t *testing.T) {
	w := newWorld(t)
	booking := confirmedBooking(t, w)

	completed, err := CompleteBooking(customerActor(w.owner), booking.BookingID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	points, err := GetUserPoints(w.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, pointsForConfirmedBooking+pointsForCompletedBooking, points.TotalPoints)
	assert.Equal(t, models.LevelFor(points.TotalPoints), points.Level)

	_, err = CompleteBooking(customerActor(w.owner), booking.BookingID, time.Now())
	requireCode(t, err, CodeBookingNotCompletable)
}

func TestCompleteBookingGuards(t *testing.T) {
	w := newWorld(t)

	pending := scenarioBooking(t, w.customer, w.space)
	_, err := CompleteBooking(customerActor(w.admin), pending.BookingID, time.Now())
	requireCode(t, err, CodeBookingNotCompletable)

	confirmed := confirmedBooking(t, w)
	before := time.Date(2024, 1, 15, 11, 0, 0, 0, time.Local)
	_, err = CompleteBooking(customerActor(w.admin), confirmed.BookingID, before)
	requireCode(t, err, CodeBookingNotCompletable)

	otherOwner := createUser(t, w.db, "other-owner", models.RoleOwner)
	_, err = CompleteBooking(customerActor(otherOwner), confirmed.BookingID, time.Now())
	requireCode(t, err, apperror.CodeForbidden)

	_, err = CompleteBooking(customerActor(w.customer), confirmed.BookingID, time.Now())
	requireCode(t, err, apperror.CodeForbidden)
}

func TestCompleteElapsed(t *testing.T) {
	w := newWorld(t)
	past := confirmedBooking(t, w)

	future, err := CreateBooking(CreateBookingInput{
		CustomerID:     w.customer.ID,
		ParkingSpaceID: w.space.ID.String(),
		CustomerName:   "Jane",
		Date:           time.Now().AddDate(0, 0, 2).Format("2006-01-02"),
		StartTime:      "10:00",
		EndTime:        "12:00",
		Duration:       "2 hours",
		Amount:         100,
	})
	require.NoError(t, err)
	_, err = ApprovePayment(customerActor(w.admin), future.BookingID)
	require.NoError(t, err)

	n, err := CompleteElapsed(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	reloaded, err := GetBooking(customerActor(w.admin), past.BookingID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, reloaded.Status)

	reloaded, err = GetBooking(customerActor(w.admin), future.BookingID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, reloaded.Status)
}

func TestDeleteBookingDetachesHistory(t *testing.T) {
	w := newWorld(t)
	booking := confirmedBooking(t, w)

	require.NoError(t, DeleteBooking(booking.BookingID))

	_, err := GetBooking(customerActor(w.admin), booking.BookingID)
	requireCode(t, err, CodeBookingNotFound)

	var history []models.PointsHistory
	require.NoError(t, w.db.Where("user_id = ?", w.customer.ID).Find(&history).Error)
	require.Len(t, history, 1)
	assert.Nil(t, history[0].BookingID)

	requireCode(t, DeleteBooking(booking.BookingID), CodeBookingNotFound)
}

func TestGetBookingAccess(t *testing.T) {
	w := newWorld(t)
	booking := scenarioBooking(t, w.customer, w.space)

	for _, actor := range []Actor{customerActor(w.customer), customerActor(w.owner), customerActor(w.admin)} {
		got, err := GetBooking(actor, booking.BookingID)
		require.NoError(t, err)
		assert.Equal(t, booking.ID, got.ID)
	}

	stranger := createUser(t, w.db, "stranger", models.RoleCustomer)
	_, err := GetBooking(customerActor(stranger), booking.BookingID)
	requireCode(t, err, apperror.CodeForbidden)
}

func TestListBookingsFilters(t *testing.T) {
	w := newWorld(t)
	scenarioBooking(t, w.customer, w.space)
	confirmedBooking(t, w)

	all, err := ListAllBookings(BookingFilter{Page: NewPage(1, 10)})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Total)

	confirmed, err := ListAllBookings(BookingFilter{Status: models.BookingConfirmed, Page: NewPage(1, 10)})
	require.NoError(t, err)
	require.Len(t, confirmed.Items, 1)
	assert.Equal(t, models.PaymentVerified, confirmed.Items[0].PaymentStatus)

	_, err = ListAllBookings(BookingFilter{Status: "lost", Page: NewPage(1, 10)})
	requireCode(t, err, CodeInvalidStatus)
	_, err = ListAllBookings(BookingFilter{PaymentStatus: "maybe", Page: NewPage(1, 10)})
	requireCode(t, err, CodeInvalidPaymentStatus)

	owned, err := ListOwnerBookings(w.owner.ID, BookingFilter{Page: NewPage(1, 10)})
	require.NoError(t, err)
	assert.EqualValues(t, 2, owned.Total)

	other, err := ListOwnerBookings(uuid.New(), BookingFilter{Page: NewPage(1, 10)})
	require.NoError(t, err)
	assert.Empty(t, other.Items)

	mine, err := ListCustomerBookings(w.customer.ID, BookingFilter{Page: NewPage(1, 1)})
	require.NoError(t, err)
	assert.EqualValues(t, 2, mine.Total)
	assert.Len(t, mine.Items, 1)
}
