package handlers

import (
	"fmt"
	"time"

	"github.com/anjiri1684/parkspace/apperror"
	"github.com/anjiri1684/parkspace/services"
	"github.com/gofiber/fiber/v2"
)

type CreateBookingRequest struct {
	ParkingSpaceID    string  `json:"parking_space_id"`
	CustomerName      string  `json:"customer_name"`
	CustomerPhone     *string `json:"customer_phone"`
	VehicleNumber     *string `json:"vehicle_number"`
	VehicleType       *string `json:"vehicle_type"`
	Date              string  `json:"date"`
	StartTime         string  `json:"start_time"`
	EndTime           string  `json:"end_time"`
	Duration          string  `json:"duration"`
	Amount            int     `json:"amount"`
	PaymentScreenshot *string `json:"payment_screenshot" validate:"omitempty,url"`
	TransactionID     *string `json:"transaction_id"`
}

type ModifyBookingRequest struct {
	BookingID string  `json:"booking_id"`
	Date      *string `json:"date"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
}

type UploadPaymentRequest struct {
	BookingID         string `json:"booking_id"`
	PaymentScreenshot string `json:"payment_screenshot" validate:"omitempty,url"`
	TransactionID     string `json:"transaction_id"`
}

type CancelBookingRequest struct {
	BookingID string `json:"booking_id"`
	Reason    string `json:"reason"`
}

// CreateBooking books a space for the signed-in customer. Field presence is
// checked by the service so each missing field gets its own code.
func CreateBooking(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	var req CreateBookingRequest
	if err := parseBody(c, &req); err != nil {
		return apperror.Respond(c, err)
	}

	booking, err := services.CreateBooking(services.CreateBookingInput{
		CustomerID:        actor.UserID,
		ParkingSpaceID:    req.ParkingSpaceID,
		CustomerName:      req.CustomerName,
		CustomerPhone:     req.CustomerPhone,
		VehicleNumber:     req.VehicleNumber,
		VehicleType:       req.VehicleType,
		Date:              req.Date,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		Duration:          req.Duration,
		Amount:            req.Amount,
		PaymentScreenshot: req.PaymentScreenshot,
		TransactionID:     req.TransactionID,
	})
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(booking)
}

// GetMyBookings lists the caller's bookings: ?status=&payment_status=&page=&page_size=
func GetMyBookings(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	result, err := services.ListCustomerBookings(actor.UserID, bookingFilter(c))
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(result)
}

func bookingFilter(c *fiber.Ctx) services.BookingFilter {
	return services.BookingFilter{
		Status:        c.Query("status"),
		PaymentStatus: c.Query("payment_status"),
		Page:          pageFromQuery(c),
	}
}

func GetBooking(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	booking, err := services.GetBooking(actor, c.Params("bookingId"))
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(booking)
}

func ModifyBooking(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	var req ModifyBookingRequest
	if err := parseBody(c, &req); err != nil {
		return apperror.Respond(c, err)
	}
	booking, err := services.ModifyBooking(actor, services.ModifyBookingInput{
		Ref:       req.BookingID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(booking)
}

func UploadPaymentProof(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	var req UploadPaymentRequest
	if err := parseBody(c, &req); err != nil {
		return apperror.Respond(c, err)
	}
	booking, err := services.UploadPaymentProof(actor, services.PaymentProofInput{
		Ref:               req.BookingID,
		PaymentScreenshot: req.PaymentScreenshot,
		TransactionID:     req.TransactionID,
	})
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(booking)
}

func CancelBooking(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	var req CancelBookingRequest
	if err := parseBody(c, &req); err != nil {
		return apperror.Respond(c, err)
	}
	booking, err := services.CancelBooking(actor, req.BookingID, req.Reason)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(booking)
}

// CompleteBooking is mounted for owners and admins; the service checks the
// caller owns the space unless they are an admin.
func CompleteBooking(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	booking, err := services.CompleteBooking(actor, c.Params("bookingId"), time.Now())
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(booking)
}

// DownloadReceipt renders the receipt as a PDF. ?format=html returns the
// markup instead, which needs no browser.
func DownloadReceipt(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	booking, err := services.ReceiptBooking(actor, c.Params("bookingId"))
	if err != nil {
		return apperror.Respond(c, err)
	}

	html, err := services.RenderReceiptHTML(booking, time.Now())
	if err != nil {
		return apperror.Respond(c, apperror.Internal(err))
	}
	if c.Query("format") == "html" {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(html)
	}

	pdf, err := services.GenerateReceiptPDF(c.UserContext(), html)
	if err != nil {
		return apperror.Respond(c, apperror.Internal(err))
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=\"receipt_%s.pdf\"", booking.BookingID))
	return c.Send(pdf)
}
