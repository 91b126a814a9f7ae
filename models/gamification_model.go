package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserPoints struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	TotalPoints int       `gorm:"not null;default:0" json:"total_points"`
	Level       int       `gorm:"not null;default:1" json:"level"`

	User User `gorm:"foreignkey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *UserPoints) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// LevelFor maps cumulative points to a level: every 100 points is one level.
func LevelFor(totalPoints int) int {
	if totalPoints < 0 {
		totalPoints = 0
	}
	return totalPoints/100 + 1
}

type Achievement struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name           string    `gorm:"size:255;not null;unique" json:"name"`
	Description    string    `gorm:"type:text;not null" json:"description"`
	Icon           string    `gorm:"size:255" json:"icon"`
	PointsRequired int       `gorm:"not null;index" json:"points_required"`
	Category       string    `gorm:"size:50;not null;default:'general'" json:"category"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Achievement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

type UserAchievement struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_achievement" json:"achievement_id"`
	UnlockedAt    time.Time `gorm:"not null" json:"unlocked_at"`
	IsNew         bool      `gorm:"not null;default:true" json:"is_new"`

	Achievement Achievement `gorm:"foreignkey:AchievementID" json:"achievement"`
}

func (ua *UserAchievement) BeforeCreate(tx *gorm.DB) error {
	if ua.ID == uuid.Nil {
		ua.ID = uuid.New()
	}
	return nil
}

type PointsHistory struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Points      int        `gorm:"not null" json:"points"`
	Action      string     `gorm:"size:100;not null" json:"action"`
	Description string     `gorm:"type:text" json:"description"`
	BookingID   *uuid.UUID `gorm:"type:uuid;index" json:"booking_id"`

	CreatedAt time.Time `json:"created_at"`
}

func (PointsHistory) TableName() string {
	return "points_history"
}

func (h *PointsHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
