package services

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"github.com/anjiri1684/parkspace/apperror"
	config "github.com/anjiri1684/parkspace/configs"
	"github.com/anjiri1684/parkspace/database"
	"github.com/anjiri1684/parkspace/models"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

//go:embed templates/receipt.html
var receiptTemplateSource string

var receiptTemplate = template.Must(template.New("receipt").Parse(receiptTemplateSource))

const receiptRenderTimeout = 30 * time.Second

type receiptData struct {
	AppName       string
	IssuedAt      string
	BookingID     string
	Status        string
	CustomerName  string
	VehicleNumber string
	SpaceName     string
	SpaceAddress  string
	Date          string
	StartTime     string
	EndTime       string
	Duration      string
	TransactionID string
	VerifiedAt    string
	Amount        int
}

// ReceiptBooking loads a booking the actor may download a receipt for.
// Receipts exist once payment has been verified.
func ReceiptBooking(actor Actor, ref string) (*models.Booking, error) {
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
	if booking.Status != models.BookingConfirmed && booking.Status != models.BookingCompleted {
		return nil, apperror.Conflict(CodeReceiptNotAvailable, "a receipt is available once payment is verified")
	}
	return booking, nil
}

func RenderReceiptHTML(b *models.Booking, issuedAt time.Time) (string, error) {
	data := receiptData{
		AppName:      config.App.AppName,
		IssuedAt:     issuedAt.Format("January 2, 2006 15:04"),
		BookingID:    b.BookingID,
		Status:       b.Status,
		CustomerName: b.CustomerName,
		SpaceName:    b.ParkingSpace.Name,
		SpaceAddress: b.ParkingSpace.Address,
		Date:         b.Date,
		StartTime:    b.StartTime,
		EndTime:      b.EndTime,
		Duration:     b.Duration,
		Amount:       b.Amount,
	}
	if b.VehicleNumber != nil {
		data.VehicleNumber = *b.VehicleNumber
	}
	if b.TransactionID != nil {
		data.TransactionID = *b.TransactionID
	}
	if b.VerifiedAt != nil {
		data.VerifiedAt = b.VerifiedAt.Format("January 2, 2006 15:04")
	}

	var rendered bytes.Buffer
	if err := receiptTemplate.Execute(&rendered, data); err != nil {
		return "", fmt.Errorf("render receipt: %w", err)
	}
	return rendered.String(), nil
}

// GenerateReceiptPDF prints htmlContent with a headless browser.
func GenerateReceiptPDF(ctx context.Context, htmlContent string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, receiptRenderTimeout)
	defer cancel()
	ctx, cancelBrowser := chromedp.NewContext(ctx)
	defer cancelBrowser()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print receipt pdf: %w", err)
	}
	return pdfBuffer, nil
}
