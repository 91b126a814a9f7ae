package utils

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/anjiri1684/parkspace/models"
	"gorm.io/gorm"
)

const bookingCodeSuffixLength = 4
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const maxCodeAttempts = 5

// NewBookingCode returns BK<unix millis><4 random [A-Z0-9]>.
func NewBookingCode(now time.Time, r *rand.Rand) string {
	b := make([]byte, bookingCodeSuffixLength)
	for i := range b {
		b[i] = letterBytes[r.Intn(len(letterBytes))]
	}
	return fmt.Sprintf("BK%d%s", now.UnixMilli(), string(b))
}

func GenerateUniqueBookingCode(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := NewBookingCode(time.Now(), seededRand)

		var booking models.Booking
		err := tx.Select("id").Where("booking_id = ?", code).First(&booking).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return code, nil
			}
			return "", err
		}
	}
	return "", fmt.Errorf("could not generate a unique booking code after %d attempts", maxCodeAttempts)
}
