package models

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

const (
	PaymentPending  = "pending"
	PaymentVerified = "verified"
	PaymentRejected = "rejected"
)

// bookingTransitions is the legal status graph. Payment review moves
// pending to confirmed or cancelled; completed and cancelled are terminal.
var bookingTransitions = map[string][]string{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
	BookingCompleted: {},
	BookingCancelled: {},
}

var paymentTransitions = map[string][]string{
	PaymentPending:  {PaymentVerified, PaymentRejected},
	PaymentVerified: {},
	PaymentRejected: {},
}

func IsValidBookingStatus(s string) bool {
	_, ok := bookingTransitions[s]
	return ok
}

func IsValidPaymentStatus(s string) bool {
	_, ok := paymentTransitions[s]
	return ok
}

func CanTransitionBooking(from, to string) bool {
	return contains(bookingTransitions[from], to)
}

func CanTransitionPayment(from, to string) bool {
	return contains(paymentTransitions[from], to)
}

// ModifiableStatuses are the states in which date/time edits are allowed.
func ModifiableStatuses() []string {
	return []string{BookingPending, BookingConfirmed}
}

func IsModifiable(status string) bool {
	return contains(ModifiableStatuses(), status)
}

func IsTerminal(status string) bool {
	next, ok := bookingTransitions[status]
	return !ok || len(next) == 0
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
