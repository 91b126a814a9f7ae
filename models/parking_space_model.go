package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	SpaceStatusActive   = "active"
	SpaceStatusPending  = "pending"
	SpaceStatusInactive = "inactive"
)

type ParkingSpace struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Address     string    `gorm:"size:255;not null" json:"address"`
	City        string    `gorm:"size:100;index" json:"city"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Description *string   `gorm:"type:text" json:"description"`
	ImageURL    *string   `gorm:"size:255" json:"image_url"`

	// Price is per hour, in whole currency units.
	Price          int    `gorm:"not null" json:"price"`
	TotalSpots     int    `gorm:"not null" json:"total_spots"`
	AvailableSpots int    `gorm:"not null" json:"available_spots"`
	Status         string `gorm:"size:20;not null;default:'pending';index" json:"status"`

	Amenities    datatypes.JSONSlice[string] `json:"amenities"`
	VehicleTypes datatypes.JSONSlice[string] `json:"vehicle_types"`

	Owner User `gorm:"foreignkey:OwnerID" json:"owner,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *ParkingSpace) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func IsValidSpaceStatus(status string) bool {
	switch status {
	case SpaceStatusActive, SpaceStatusPending, SpaceStatusInactive:
		return true
	}
	return false
}
