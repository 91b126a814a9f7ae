package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/anjiri1684/parkspace/apperror"
	"github.com/anjiri1684/parkspace/services"
	"github.com/gofiber/fiber/v2"
)

type VerifyPaymentRequest struct {
	BookingID string `json:"booking_id"`
}

type RejectPaymentRequest struct {
	BookingID string `json:"booking_id"`
	Reason    string `json:"reason"`
}

// VerifyPayment approves a pending payment. Owners may only review bookings
// on their own spaces.
func VerifyPayment(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	var req VerifyPaymentRequest
	if err := parseBody(c, &req); err != nil {
		return apperror.Respond(c, err)
	}
	booking, err := services.ApprovePayment(actor, req.BookingID)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(booking)
}

func RejectPayment(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	var req RejectPaymentRequest
	if err := parseBody(c, &req); err != nil {
		return apperror.Respond(c, err)
	}
	booking, err := services.RejectPayment(actor, req.BookingID, req.Reason)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(booking)
}

func ListOwnerPendingPayments(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	pending, err := services.ListPendingVerifications(&actor.UserID)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(pending)
}

func ListPendingPayments(c *fiber.Ctx) error {
	pending, err := services.ListPendingVerifications(nil)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(pending)
}

// ExportVerifiedPayments streams verified payments as CSV:
// ?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD, both inclusive, default last 30 days.
func ExportVerifiedPayments(c *fiber.Ctx) error {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -30)
	var err error
	if s := c.Query("start_date"); s != "" {
		if startDate, err = time.ParseInLocation("2006-01-02", s, time.Local); err != nil {
			return apperror.Respond(c, apperror.BadRequest(services.CodeInvalidDateFormat, "start_date must be YYYY-MM-DD"))
		}
	}
	if s := c.Query("end_date"); s != "" {
		if endDate, err = time.ParseInLocation("2006-01-02", s, time.Local); err != nil {
			return apperror.Respond(c, apperror.BadRequest(services.CodeInvalidDateFormat, "end_date must be YYYY-MM-DD"))
		}
	}

	payments, err := services.ListVerifiedPayments(startDate, endDate)
	if err != nil {
		return apperror.Respond(c, err)
	}

	b := new(bytes.Buffer)
	w := csv.NewWriter(b)
	headers := []string{"Booking ID", "Verified At", "Customer", "Parking Space", "Date", "Window", "Amount", "Transaction ID"}
	if err := w.Write(headers); err != nil {
		return apperror.Respond(c, apperror.Internal(err))
	}
	for _, p := range payments {
		row := []string{
			p.BookingID,
			p.VerifiedAt.Format("2006-01-02 15:04"),
			p.CustomerName,
			p.ParkingSpaceName,
			p.Date,
			p.StartTime + "-" + p.EndTime,
			strconv.Itoa(p.Amount),
			p.TransactionID,
		}
		if err := w.Write(row); err != nil {
			return apperror.Respond(c, apperror.Internal(err))
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return apperror.Respond(c, apperror.Internal(err))
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=\"payments_%s_to_%s.csv\"", startDate.Format("2006-01-02"), endDate.Format("2006-01-02")))
	return c.Send(b.Bytes())
}
