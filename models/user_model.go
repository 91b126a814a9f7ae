package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleCustomer = "customer"
	RoleOwner    = "owner"
	RoleAdmin    = "admin"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FullName string    `gorm:"size:255;not null" json:"full_name"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Phone    *string   `gorm:"size:30" json:"phone"`
	Role     string    `gorm:"size:20;not null;default:'customer'" json:"role"`
	IsActive bool      `gorm:"not null;default:true" json:"is_active"`

	ProfilePictureURL *string `gorm:"size:255" json:"profile_picture_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func IsValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleOwner, RoleAdmin:
		return true
	}
	return false
}
