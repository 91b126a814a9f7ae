package services

import (
	"testing"
	"time"

	"github.com/anjiri1684/parkspace/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiptBookingRequiresVerifiedPayment(t *testing.T) {
	w := newWorld(t)
	pending := scenarioBooking(t, w.customer, w.space)

	_, err := ReceiptBooking(customerActor(w.customer), pending.BookingID)
	requireCode(t, err, CodeReceiptNotAvailable)

	confirmed := confirmedBooking(t, w)
	booking, err := ReceiptBooking(customerActor(w.customer), confirmed.BookingID)
	require.NoError(t, err)
	assert.Equal(t, w.space.Name, booking.ParkingSpace.Name)

	stranger := createUser(t, w.db, "stranger", models.RoleCustomer)
	_, err = ReceiptBooking(customerActor(stranger), confirmed.BookingID)
	require.Error(t, err)
}

func TestRenderReceiptHTML(t *testing.T) {
	w := newWorld(t)
	confirmed := confirmedBooking(t, w)
	tx := "MPESA-QX12"
	confirmed.TransactionID = &tx
	confirmed.CustomerName = "Jane <script>"

	html, err := RenderReceiptHTML(confirmed, time.Date(2024, 1, 16, 9, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Contains(t, html, confirmed.BookingID)
	assert.Contains(t, html, "Central Garage")
	assert.Contains(t, html, "10:00 - 12:00 (2 hours)")
	assert.Contains(t, html, "MPESA-QX12")
	assert.Contains(t, html, "January 16, 2024 09:30")
	assert.Contains(t, html, "Jane &lt;script&gt;")
	assert.NotContains(t, html, "Vehicle")
}
