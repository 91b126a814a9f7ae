package services

import (
	"testing"

	"github.com/anjiri1684/parkspace/apperror"
	config "github.com/anjiri1684/parkspace/configs"
	"github.com/anjiri1684/parkspace/database/dbtest"
	"github.com/anjiri1684/parkspace/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := dbtest.Open(t)
	previous := config.App
	config.App = config.Defaults()
	t.Cleanup(func() { config.App = previous })
	return db
}

func createUser(t *testing.T, db *gorm.DB, name, role string) models.User {
	t.Helper()
	user := models.User{
		FullName: name,
		Email:    name + "@example.com",
		Password: "hashed",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.UserPoints{UserID: user.ID, Level: 1}).Error)
	return user
}

func createSpace(t *testing.T, db *gorm.DB, owner models.User, status string) models.ParkingSpace {
	t.Helper()
	space := models.ParkingSpace{
		OwnerID:        owner.ID,
		Name:           "Central Garage",
		Address:        "1 Main Street",
		City:           "Nairobi",
		Price:          50,
		TotalSpots:     10,
		AvailableSpots: 4,
		Status:         status,
	}
	require.NoError(t, db.Create(&space).Error)
	return space
}

func customerActor(u models.User) Actor { return Actor{UserID: u.ID, Role: u.Role} }

// scenarioBooking creates the reference booking: 10:00-12:00, "2 hours", amount 100.
func scenarioBooking(t *testing.T, customer models.User, space models.ParkingSpace) *models.Booking {
	t.Helper()
	booking, err := CreateBooking(CreateBookingInput{
		CustomerID:     customer.ID,
		ParkingSpaceID: space.ID.String(),
		CustomerName:   customer.FullName,
		Date:           "2024-01-15",
		StartTime:      "10:00",
		EndTime:        "12:00",
		Duration:       "2 hours",
		Amount:         100,
	})
	require.NoError(t, err)
	return booking
}

type world struct {
	db       *gorm.DB
	customer models.User
	owner    models.User
	admin    models.User
	space    models.ParkingSpace
}

func newWorld(t *testing.T) world {
	t.Helper()
	db := setupDB(t)
	owner := createUser(t, db, "owner", models.RoleOwner)
	return world{
		db:       db,
		customer: createUser(t, db, "customer", models.RoleCustomer),
		owner:    owner,
		admin:    createUser(t, db, "admin", models.RoleAdmin),
		space:    createSpace(t, db, owner, models.SpaceStatusActive),
	}
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, apperror.HasCode(err, code), "expected code %s, got %v", code, err)
}
