package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Booking struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	// BookingID is the human-facing code, e.g. BK1705312800000X7Q2.
	BookingID string `gorm:"size:32;not null;uniqueIndex" json:"booking_id"`

	CustomerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	ParkingSpaceID uuid.UUID `gorm:"type:uuid;not null;index" json:"parking_space_id"`
	CustomerName   string    `gorm:"size:255;not null" json:"customer_name"`
	CustomerPhone  *string   `gorm:"size:30" json:"customer_phone"`
	VehicleNumber  *string   `gorm:"size:30" json:"vehicle_number"`
	VehicleType    *string   `gorm:"size:30" json:"vehicle_type"`

	Date            string `gorm:"size:10;not null;index" json:"date"`
	StartTime       string `gorm:"size:5;not null" json:"start_time"`
	EndTime         string `gorm:"size:5;not null" json:"end_time"`
	Duration        string `gorm:"size:50;not null" json:"duration"`
	DurationMinutes int    `gorm:"not null;default:0" json:"duration_minutes"`
	Amount          int    `gorm:"not null" json:"amount"`

	Status             string  `gorm:"size:20;not null;default:'pending';index" json:"status"`
	CancellationReason *string `gorm:"type:text" json:"cancellation_reason"`

	PaymentStatus      string     `gorm:"size:20;not null;default:'pending';index" json:"payment_status"`
	PaymentScreenshot  *string    `gorm:"type:text" json:"payment_screenshot"`
	TransactionID      *string    `gorm:"size:255" json:"transaction_id"`
	VerificationReason *string    `gorm:"type:text" json:"verification_reason"`
	VerifiedAt         *time.Time `json:"verified_at"`
	VerifiedBy         *uuid.UUID `gorm:"type:uuid" json:"verified_by"`

	ModifiedAt  *time.Time `json:"modified_at"`
	CompletedAt *time.Time `json:"completed_at"`

	Customer     User         `gorm:"foreignkey:CustomerID" json:"customer,omitempty"`
	ParkingSpace ParkingSpace `gorm:"foreignkey:ParkingSpaceID" json:"parking_space,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// HasScreenshot reports whether payment proof has been attached as an image.
func (b *Booking) HasScreenshot() bool {
	return b.PaymentScreenshot != nil && *b.PaymentScreenshot != ""
}
